package scoring

import (
	"fmt"
	"math"
	"strings"
)

// CityHint maps a city name to its region.
type CityHint struct {
	City   string `yaml:"city"`
	Region string `yaml:"region"`
}

// Resolver maps free text to a known region by substring containment.
// City hints are tried first, then region names, both in declared order.
type Resolver struct {
	cities  []CityHint
	regions []string
}

// NewResolver copies its inputs; names are lower-cased.
func NewResolver(cities []CityHint, regions []string) *Resolver {
	r := &Resolver{
		cities:  make([]CityHint, 0, len(cities)),
		regions: make([]string, 0, len(regions)),
	}
	for _, c := range cities {
		city := strings.ToLower(strings.TrimSpace(c.City))
		if city == "" {
			continue
		}
		r.cities = append(r.cities, CityHint{City: city, Region: strings.ToLower(strings.TrimSpace(c.Region))})
	}
	for _, s := range regions {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			r.regions = append(r.regions, s)
		}
	}
	return r
}

// Resolve returns the first region whose city hint or name occurs in location.
func (r *Resolver) Resolve(location string) (string, bool) {
	loc := strings.ToLower(location)
	for _, c := range r.cities {
		if strings.Contains(loc, c.City) {
			return c.Region, true
		}
	}
	for _, s := range r.regions {
		if strings.Contains(loc, s) {
			return s, true
		}
	}
	return "", false
}

// Regions lists the region names in declared order.
func (r *Resolver) Regions() []string {
	return append([]string(nil), r.regions...)
}

// RegionEntry is one row of the price table.
type RegionEntry struct {
	Region string             `yaml:"region"`
	Prices map[string]float64 `yaml:"prices"`
}

// MaxPrice bounds a price per quintal so that price*20 always fits an int.
const MaxPrice = 1e7

// validatePrices rejects prices that cannot become a profit estimate.
func validatePrices(entries []RegionEntry) error {
	for _, e := range entries {
		for crop, v := range e.Prices {
			if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v > MaxPrice {
				return fmt.Errorf("region %q crop %q: price %v out of range [0, %g]", e.Region, crop, v, MaxPrice)
			}
		}
	}
	return nil
}

// PriceTable is the read-only region -> crop -> price (per quintal) table.
// It is safe for concurrent reads; nothing mutates it after NewPriceTable.
type PriceTable struct {
	order  []string
	prices map[string]RegionPrices
}

func NewPriceTable(entries []RegionEntry) PriceTable {
	t := PriceTable{prices: make(map[string]RegionPrices, len(entries))}
	for _, e := range entries {
		region := strings.ToLower(strings.TrimSpace(e.Region))
		if region == "" {
			continue
		}
		if _, dup := t.prices[region]; !dup {
			t.order = append(t.order, region)
		}
		p := make(map[string]float64, len(e.Prices))
		for crop, v := range e.Prices {
			p[crop] = v
		}
		t.prices[region] = RegionPrices{prices: p}
	}
	return t
}

// Regions lists the priced regions in declared order.
func (t PriceTable) Regions() []string {
	return append([]string(nil), t.order...)
}

// Lookup returns the prices of a region. The zero RegionPrices means "no prices".
func (t PriceTable) Lookup(region string) (RegionPrices, bool) {
	p, ok := t.prices[strings.ToLower(region)]
	return p, ok
}

// RegionPrices are the reference prices of one region.
type RegionPrices struct {
	prices map[string]float64
}

// Price returns the reference price of a crop price key.
func (p RegionPrices) Price(key string) (float64, bool) {
	v, ok := p.prices[key]
	return v, ok
}

// Map returns a copy of the prices.
func (p RegionPrices) Map() map[string]float64 {
	out := make(map[string]float64, len(p.prices))
	for k, v := range p.prices {
		out[k] = v
	}
	return out
}
