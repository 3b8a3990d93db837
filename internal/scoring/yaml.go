package scoring

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// TableFile is the optional YAML override for the lookup tables:
//
//	cities:
//	  - {city: chennai, region: tamil nadu}
//	regions:
//	  - region: tamil nadu
//	    prices: {Rice: 2200, Maize: 1750}
type TableFile struct {
	Cities  []CityHint    `yaml:"cities"`
	Regions []RegionEntry `yaml:"regions"`
}

// LoadTables reads a TableFile. Sections left empty keep the built-in tables.
func LoadTables(path string) ([]CityHint, PriceTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, PriceTable{}, fmt.Errorf("read region table: %w", err)
	}
	return ParseTables(raw)
}

func ParseTables(raw []byte) ([]CityHint, PriceTable, error) {
	var f TableFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, PriceTable{}, fmt.Errorf("parse region table: %w", err)
	}
	cities := f.Cities
	if len(cities) == 0 {
		cities = DefaultCityHints()
	}
	prices := DefaultPriceTable()
	if len(f.Regions) > 0 {
		if err := validatePrices(f.Regions); err != nil {
			return nil, PriceTable{}, fmt.Errorf("region table: %w", err)
		}
		prices = NewPriceTable(f.Regions)
	}
	return cities, prices, nil
}

// Options turns the loaded tables into scorer options.
func Options(cities []CityHint, prices PriceTable) []Option {
	return []Option{
		WithPriceTable(prices),
		WithResolver(NewResolver(cities, prices.Regions())),
	}
}
