package listing

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/erazemk/oglasnik/internal/events"
	"github.com/erazemk/oglasnik/internal/model"
)

// NewItem is the caller-supplied part of a new listing. Category and
// Condition are parsed against their enumerations.
type NewItem struct {
	Name        string   `json:"item_name"   validate:"required,max=200"`
	Description string   `json:"description" validate:"max=5000"`
	Price       float64  `json:"price"       validate:"gte=0"`
	Quantity    int      `json:"quantity"    validate:"gte=0"`
	Category    string   `json:"category"    validate:"required"`
	Condition   string   `json:"condition"   validate:"required"`
	Image       string   `json:"image"       validate:"omitempty,max=2048"`
	Tags        []string `json:"tags"        validate:"max=30,dive,required,max=50"`
}

// ItemUpdate replaces every mutable field of a listing. Fields left out
// of the payload are reset to their zero value, not preserved.
type ItemUpdate struct {
	NewItem
	Featured bool `json:"featured"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Create validates in, assigns the system fields and stores the listing.
func (s *Service) Create(ctx context.Context, in NewItem) (*model.Item, error) {
	in = in.normalized()
	category, condition, err := check(in)
	if err != nil {
		return nil, err
	}

	item := &model.Item{
		ID:         s.newID(),
		DateListed: model.ListingDate(s.now()),
	}
	apply(item, in, category, condition)

	if err := s.catalog.Save(ctx, item); err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	s.announce(ctx, events.ItemCreated, item.ID, item)
	return item, nil
}

// Update replaces every mutable field of the listing id. The ID and listing
// date are kept; availability is recomputed from the new quantity.
func (s *Service) Update(ctx context.Context, id string, in ItemUpdate) (*model.Item, error) {
	in.NewItem = in.NewItem.normalized()
	category, condition, err := check(in.NewItem)
	if err != nil {
		return nil, err
	}

	item, err := s.catalog.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading item: %w", err)
	}
	if item == nil {
		return nil, fmt.Errorf("%w: %s", model.ErrNotFound, id)
	}

	apply(item, in.NewItem, category, condition)
	item.Featured = in.Featured

	if err := s.catalog.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("updating item: %w", err)
	}

	s.announce(ctx, events.ItemUpdated, item.ID, item)
	return item, nil
}

// Delete permanently removes the listing id.
func (s *Service) Delete(ctx context.Context, id string) error {
	item, err := s.catalog.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("loading item: %w", err)
	}
	if item == nil {
		return fmt.Errorf("%w: %s", model.ErrNotFound, id)
	}

	if err := s.catalog.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}

	s.announce(ctx, events.ItemDeleted, id, nil)
	return nil
}

func apply(item *model.Item, in NewItem, category model.Category, condition model.Condition) {
	item.Name = in.Name
	item.Description = in.Description
	item.Price = in.Price
	item.Quantity = in.Quantity
	item.Category = category
	item.Condition = condition
	item.Image = in.Image
	item.Tags = in.Tags
	item.RefreshAvailability()
}

func (in NewItem) normalized() NewItem {
	in.Name = strings.TrimSpace(in.Name)
	in.Image = strings.TrimSpace(in.Image)
	tags := make([]string, 0, len(in.Tags))
	for _, tag := range in.Tags {
		tags = append(tags, strings.TrimSpace(tag))
	}
	in.Tags = tags
	return in
}

// check reports field constraint violations as a *model.ValidationError
// and unknown enumeration values as model.ErrInvalidArgument.
func check(in NewItem) (model.Category, model.Condition, error) {
	if err := validate.Struct(in); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return "", "", fmt.Errorf("validating item: %w", err)
		}
		verr := &model.ValidationError{}
		for _, fe := range fieldErrs {
			verr.Fields = append(verr.Fields, model.FieldError{
				Field:   fieldPath(fe),
				Message: describe(fe),
			})
		}
		return "", "", verr
	}

	category, err := model.ParseCategory(in.Category)
	if err != nil {
		return "", "", err
	}
	condition, err := model.ParseCondition(in.Condition)
	if err != nil {
		return "", "", err
	}
	return category, condition, nil
}

// fieldPath drops the struct name prefix: "NewItem.tags[2]" -> "tags[2]".
func fieldPath(fe validator.FieldError) string {
	_, path, ok := strings.Cut(fe.Namespace(), ".")
	if !ok {
		return fe.Field()
	}
	return path
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gte":
		return "must be at least " + fe.Param()
	case "max":
		if fe.Kind() == reflect.Slice {
			return "must have at most " + fe.Param() + " entries"
		}
		return "must be at most " + fe.Param() + " characters"
	default:
		return "failed " + fe.Tag() + " constraint"
	}
}
