package model

import (
	"fmt"
	"slices"
	"strings"
)

// Category tags the kind of goods a listing sells.
type Category string

// Categories.
const (
	CategoryElectronics  Category = "ELECTRONICS"
	CategoryBooks        Category = "BOOKS"
	CategoryClothing     Category = "CLOTHING"
	CategoryHome         Category = "HOME"
	CategorySports       Category = "SPORTS"
	CategoryToys         Category = "TOYS"
	CategoryBeauty       Category = "BEAUTY"
	CategoryAutomotive   Category = "AUTOMOTIVE"
	CategoryCollectibles Category = "COLLECTIBLES"
	CategoryOther        Category = "OTHER"
)

// Categories lists every valid category in display order.
var Categories = []Category{
	CategoryElectronics,
	CategoryBooks,
	CategoryClothing,
	CategoryHome,
	CategorySports,
	CategoryToys,
	CategoryBeauty,
	CategoryAutomotive,
	CategoryCollectibles,
	CategoryOther,
}

// Condition describes the wear state of a listed item.
type Condition string

// Conditions.
const (
	ConditionNew         Condition = "NEW"
	ConditionLikeNew     Condition = "LIKE_NEW"
	ConditionUsed        Condition = "USED"
	ConditionRefurbished Condition = "REFURBISHED"
)

// Conditions lists every valid condition.
var Conditions = []Condition{
	ConditionNew,
	ConditionLikeNew,
	ConditionUsed,
	ConditionRefurbished,
}

// ParseCategory converts s to a Category. Matching ignores case and
// surrounding whitespace.
func ParseCategory(s string) (Category, error) {
	norm := strings.ToUpper(strings.TrimSpace(s))
	for _, c := range Categories {
		if string(c) == norm {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: unknown category %q", ErrInvalidArgument, s)
}

// ParseCondition converts s to a Condition. Matching ignores case and
// surrounding whitespace.
func ParseCondition(s string) (Condition, error) {
	norm := strings.ToUpper(strings.TrimSpace(s))
	for _, c := range Conditions {
		if string(c) == norm {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: unknown condition %q", ErrInvalidArgument, s)
}

// Valid reports whether c is exactly one of Categories.
func (c Category) Valid() bool {
	return slices.Contains(Categories, c)
}

// Valid reports whether c is exactly one of Conditions.
func (c Condition) Valid() bool {
	return slices.Contains(Conditions, c)
}
