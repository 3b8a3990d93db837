package httpx

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestUserID(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := UserID(r)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	r.Header.Set(UserHeader, " farmer-1 ")
	id, err := UserID(r)
	require.NoError(t, err)
	assert.Equal(t, "farmer-1", id)
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, http.StatusBadRequest, errors.New("boom"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"boom"}`, w.Body.String())
}

func TestMiddlewareObservesRouteTemplate(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg, "test")

	r := mux.NewRouter()
	r.Use(m.Middleware(zap.NewNop()))
	r.HandleFunc("/items/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items/42", nil))
	assert.Equal(t, http.StatusTeapot, w.Code)

	assert.Equal(t, 1, testutil.CollectAndCount(m.latency))
	count, err := testutil.GatherAndCount(reg, "kisanyatra_http_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
