package market

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeonardoBeccarini/kisan_yatra/internal/model/entities"
)

func TestPriceToPoint(t *testing.T) {
	p := quote("Rice", 2100)
	pt := PriceToPoint(p)

	assert.Equal(t, "market_price", pt.Name())
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), pt.Time())

	tags := map[string]string{}
	for _, tag := range pt.TagList() {
		tags[tag.Key] = tag.Value
	}
	assert.Equal(t, map[string]string{"crop": "Rice", "market": "Test Mandi", "unit": "per quintal", "trend": "up"}, tags)

	require.Len(t, pt.FieldList(), 1)
	assert.Equal(t, "price", pt.FieldList()[0].Key)
	assert.Equal(t, 2100.0, pt.FieldList()[0].Value)
}

func TestPriceToPointFallsBackToCreationTime(t *testing.T) {
	created := time.Date(2024, 3, 3, 10, 0, 0, 0, time.UTC)
	p := entities.MarketPrice{Meta: entities.Meta{CreationTime: created}, Crop: "Rice", Date: "yesterday"}
	assert.Equal(t, created, PriceToPoint(p).Time())
}

func TestBuildHistoryFlux(t *testing.T) {
	q := buildHistoryFlux("market", "Rice", 30, 50)
	assert.Contains(t, q, `from(bucket: "market")`)
	assert.Contains(t, q, `range(start: -30d)`)
	assert.Contains(t, q, `r._measurement == "market_price" and r.crop == "Rice"`)
	assert.Contains(t, q, `limit(n:50)`)
}

func TestToFloat(t *testing.T) {
	assert.Equal(t, 2.5, toFloat(2.5))
	assert.Equal(t, 3.0, toFloat(int64(3)))
	assert.Equal(t, 4.25, toFloat(" 4.25 "))
	assert.Equal(t, 0.0, toFloat(true))
}
