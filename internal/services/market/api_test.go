package market

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/LeonardoBeccarini/kisan_yatra/internal/model/entities"
	"github.com/LeonardoBeccarini/kisan_yatra/internal/scoring"
)

func newTestRouter(opts ...Option) *mux.Router {
	r := mux.NewRouter()
	NewAPI(NewService(scoring.DefaultPriceTable(), zap.NewNop(), opts...), zap.NewNop()).Routes(r)
	return r
}

func serve(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, target, strings.NewReader(body)))
	return w
}

func TestAPISeedAndList(t *testing.T) {
	r := newTestRouter()
	w := serve(r, http.MethodPost, "/market/seed", "")
	assert.JSONEq(t, `{"result":"Market data seeded successfully"}`, w.Body.String())
	w = serve(r, http.MethodPost, "/market/seed", "")
	assert.JSONEq(t, `{"result":"Data already exists"}`, w.Body.String())

	w = serve(r, http.MethodGet, "/market/prices?crop=Cotton", "")
	require.Equal(t, http.StatusOK, w.Code)
	var got []entities.MarketPrice
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, 5800.0, got[0].Price)
	assert.Equal(t, "Gujarat Mandi", got[0].Market)
}

func TestAPIAddPrice(t *testing.T) {
	r := newTestRouter()
	body := `{"crop":"Rice","price":2150,"unit":"per quintal","market":"Chennai Mandi","date":"2024-02-02","trend":"up"}`
	w := serve(r, http.MethodPost, "/market/prices", body)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = serve(r, http.MethodPost, "/market/prices", `{"crop":"Rice"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAPIHistory(t *testing.T) {
	w := serve(newTestRouter(), http.MethodGet, "/market/prices/history?crop=Rice", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	r := newTestRouter(WithHistory(memHistory{points: []PricePoint{{Time: "2024-02-01T00:00:00Z", Price: 2100, Market: "Delhi Mandi"}}}))
	w = serve(r, http.MethodGet, "/market/prices/history?crop=Rice&days=7", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"time":"2024-02-01T00:00:00Z","price":2100,"market":"Delhi Mandi"}]`, w.Body.String())

	w = serve(r, http.MethodGet, "/market/prices/history", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAPIRegion(t *testing.T) {
	r := newTestRouter()
	w := serve(r, http.MethodGet, "/market/regions/Tamil%20Nadu", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"region":"tamil nadu","prices":{"Rice":2200,"Maize":1750,"Pulses":4800,"Millets":2400,"Potato":1100}}`, w.Body.String())

	w = serve(r, http.MethodGet, "/market/regions/bihar", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestClampInt(t *testing.T) {
	assert.Equal(t, 30, clampInt("", 30, 1, 365))
	assert.Equal(t, 1, clampInt("-4", 30, 1, 365))
	assert.Equal(t, 365, clampInt("9999", 30, 1, 365))
	assert.Equal(t, 7, clampInt("7", 30, 1, 365))
}
