package scoring

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeonardoBeccarini/kisan_yatra/internal/model/entities"
)

const overrideTables = `
cities:
  - {city: Panaji, region: Goa}
regions:
  - region: Goa
    prices: {Rice: 2500, Pulses: 5000}
`

func TestParseTablesOverride(t *testing.T) {
	cities, prices, err := ParseTables([]byte(overrideTables))
	require.NoError(t, err)
	assert.Equal(t, []CityHint{{City: "Panaji", Region: "Goa"}}, cities)
	assert.Equal(t, []string{"goa"}, prices.Regions())

	s := New(Options(cities, prices)...)
	res := s.Recommend(entities.SoilReading{PH: 6.5, WaterAvailability: 80, SoilMoisture: 40, Location: "near Panaji"})
	assert.Equal(t, "goa", res.Region)
	require.NotEmpty(t, res.Crops)
	assert.Equal(t, "Rice", res.Crops[0].Name)
	assert.Equal(t, 50000, res.Crops[0].ProfitEstimate)
}

func TestParseTablesEmptyKeepsDefaults(t *testing.T) {
	cities, prices, err := ParseTables([]byte("{}"))
	require.NoError(t, err)
	assert.Len(t, cities, len(defaultCityHints))
	assert.Equal(t, DefaultPriceTable().Regions(), prices.Regions())
}

func TestParseTablesInvalid(t *testing.T) {
	_, _, err := ParseTables([]byte("regions: [oops"))
	assert.Error(t, err)
}

func TestParseTablesRejectsBadPrices(t *testing.T) {
	for name, price := range map[string]string{
		"huge":     "1e300",
		"inf":      ".inf",
		"nan":      ".nan",
		"negative": "-5",
	} {
		t.Run(name, func(t *testing.T) {
			_, _, err := ParseTables([]byte("regions:\n  - region: goa\n    prices: {Rice: " + price + "}\n"))
			require.Error(t, err)
			assert.Contains(t, err.Error(), `crop "Rice"`)
		})
	}

	_, _, err := ParseTables([]byte("regions:\n  - region: goa\n    prices: {Rice: 1e7, Maize: 0}\n"))
	assert.NoError(t, err)
}

func TestLoadTables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "regions.yaml")
	require.NoError(t, os.WriteFile(path, []byte(overrideTables), 0o600))

	_, prices, err := LoadTables(path)
	require.NoError(t, err)
	p, ok := prices.Lookup("goa")
	require.True(t, ok)
	v, _ := p.Price("Rice")
	assert.Equal(t, 2500.0, v)

	_, _, err = LoadTables(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
