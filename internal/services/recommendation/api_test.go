package recommendation

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
	"github.com/LeonardoBeccarini/kisan_yatra/pkg/httpx"
)

const chennaiBody = `{"nitrogen":50,"phosphorus":30,"potassium":40,"ph":6.2,"soilMoisture":40,"waterAvailability":80,"location":"Chennai"}`

func newTestRouter(t *testing.T) *mux.Router {
	svc, _, _ := newTestService(t)
	r := mux.NewRouter()
	NewAPI(svc, zap.NewNop()).Routes(r)
	return r
}

func do(r http.Handler, method, target, user, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if user != "" {
		req.Header.Set(httpx.UserHeader, user)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPostRecommendation(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodPost, "/recommendations", "farmer-1", chennaiBody)
	require.Equal(t, http.StatusCreated, w.Code)

	var rec entities.Recommendation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))
	assert.NotEmpty(t, rec.ID)
	assert.False(t, rec.CreationTime.IsZero())
	assert.Equal(t, "Chennai", rec.Location)
	assert.Equal(t, "Rice", rec.RecommendedCrops[0].Name)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	assert.Contains(t, raw, "_id")
	assert.Contains(t, raw, "recommendedCrops")
	assert.Equal(t, 6.2, raw["ph"])
}

func TestPostRecommendationNeedsUser(t *testing.T) {
	w := do(newTestRouter(t), http.MethodPost, "/recommendations", "", chennaiBody)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPostRecommendationValidation(t *testing.T) {
	r := newTestRouter(t)
	tests := []struct {
		name string
		body string
		want string
	}{
		{"not json", `{`, "body must be a JSON object"},
		{"array", `[1,2]`, "body must be a JSON object"},
		{"missing ph", `{"nitrogen":1,"phosphorus":1,"potassium":1,"soilMoisture":1,"waterAvailability":1}`, "invalid ph: missing"},
		{"string value", `{"nitrogen":"a lot","phosphorus":1,"potassium":1,"ph":7,"soilMoisture":1,"waterAvailability":1}`, "invalid nitrogen: not a number"},
		{"missing location", `{"nitrogen":1,"phosphorus":1,"potassium":1,"ph":7,"soilMoisture":1,"waterAvailability":1}`, "invalid location: missing"},
		{"bad latitude", `{"nitrogen":1,"phosphorus":1,"potassium":1,"ph":7,"soilMoisture":1,"waterAvailability":1,"location":"","latitude":"N"}`, "invalid latitude: not a number"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := do(r, http.MethodPost, "/recommendations", "u", tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.JSONEq(t, `{"error":"`+tc.want+`"}`, w.Body.String())
		})
	}
}

func TestGetRecommendations(t *testing.T) {
	r := newTestRouter(t)
	require.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/recommendations", "farmer-1", chennaiBody).Code)

	w := do(r, http.MethodGet, "/recommendations", "farmer-1", "")
	var mine []entities.Recommendation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &mine))
	assert.Len(t, mine, 1)

	w = do(r, http.MethodGet, "/recommendations?userId=farmer-1", "", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &mine))
	assert.Len(t, mine, 1)

	w = do(r, http.MethodGet, "/recommendations", "", "")
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestResolveRegionEndpoint(t *testing.T) {
	r := newTestRouter(t)
	w := do(r, http.MethodGet, "/regions/resolve?location=Madurai", "", "")
	assert.JSONEq(t, `{"location":"Madurai","region":"tamil nadu","resolved":true}`, w.Body.String())

	w = do(r, http.MethodGet, "/regions/resolve?location=Atlantis", "", "")
	assert.JSONEq(t, `{"location":"Atlantis","region":"","resolved":false}`, w.Body.String())
}
