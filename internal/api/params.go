package api

import (
	"fmt"
	"math"
	"net/url"
	"strconv"

	"github.com/erazemk/oglasnik/internal/listing"
)

// params parses optional query parameters, keeping the first error.
type params struct {
	values url.Values
	err    error
}

func (p *params) intParam(key string, def int) int {
	raw := p.values.Get(key)
	if raw == "" || p.err != nil {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		p.err = fmt.Errorf("invalid %s: %q", key, raw)
		return def
	}
	return v
}

func (p *params) floatParam(key string, def float64) float64 {
	raw := p.values.Get(key)
	if raw == "" || p.err != nil {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		p.err = fmt.Errorf("invalid %s: %q", key, raw)
		return def
	}
	return v
}

func (p *params) boolParam(key string, def bool) bool {
	raw := p.values.Get(key)
	if raw == "" || p.err != nil {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		p.err = fmt.Errorf("invalid %s: %q", key, raw)
		return def
	}
	return v
}

// filterParams reads the composite filter from the query string. Absent
// parameters keep their neutral defaults.
func filterParams(values url.Values) (listing.FilterParams, error) {
	def := listing.DefaultFilterParams()
	p := params{values: values}

	fp := listing.FilterParams{
		ItemName:    values.Get("item-name"),
		Category:    values.Get("category"),
		Condition:   values.Get("condition"),
		MinQuantity: p.intParam("min-quantity", def.MinQuantity),
		MaxQuantity: p.intParam("max-quantity", def.MaxQuantity),
		MinPrice:    p.floatParam("min-price", def.MinPrice),
		MaxPrice:    p.floatParam("max-price", def.MaxPrice),
		Featured:    p.boolParam("featured", def.Featured),
	}
	return fp, p.err
}
