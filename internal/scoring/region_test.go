package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveRegion(t *testing.T) {
	r := DefaultResolver()

	tests := []struct {
		name     string
		location string
		want     string
		ok       bool
	}{
		{name: "city hint", location: "Chennai", want: "tamil nadu", ok: true},
		{name: "case insensitive", location: "LUDHIANA", want: "punjab", ok: true},
		{name: "region name", location: "small village, Kerala", want: "kerala", ok: true},
		{name: "first city in declared order wins", location: "Kochi to Chennai", want: "tamil nadu", ok: true},
		{name: "city beats region name", location: "Kanpur, Punjab", want: "uttar pradesh", ok: true},
		{name: "city of an unpriced state", location: "Patna", want: "bihar", ok: true},
		{name: "unknown", location: "Unknown City, Nowhere", ok: false},
		{name: "empty", location: "", ok: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := r.Resolve(tc.location)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestBoardResolverKnowsMoreStates(t *testing.T) {
	_, ok := DefaultResolver().Resolve("Jaipur, Rajasthan")
	assert.False(t, ok)

	got, ok := BoardResolver().Resolve("Jaipur, Rajasthan")
	assert.True(t, ok)
	assert.Equal(t, "rajasthan", got)
}

func TestPriceTable(t *testing.T) {
	table := DefaultPriceTable()
	assert.Len(t, table.Regions(), 12)
	assert.Equal(t, "tamil nadu", table.Regions()[0])

	prices, ok := table.Lookup("Tamil Nadu")
	assert.True(t, ok)
	p, ok := prices.Price("Rice")
	assert.True(t, ok)
	assert.Equal(t, 2200.0, p)

	_, ok = prices.Price("Wheat")
	assert.False(t, ok)

	_, ok = table.Lookup("bihar")
	assert.False(t, ok)
}

func TestPriceTableIsolatedFromInput(t *testing.T) {
	rows := []RegionEntry{{Region: "Goa", Prices: map[string]float64{"Rice": 100}}}
	table := NewPriceTable(rows)
	rows[0].Prices["Rice"] = 999

	prices, _ := table.Lookup("goa")
	p, _ := prices.Price("Rice")
	assert.Equal(t, 100.0, p)

	m := prices.Map()
	m["Rice"] = 1
	p, _ = prices.Price("Rice")
	assert.Equal(t, 100.0, p)
}
