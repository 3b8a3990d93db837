package httpx

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReady(t *testing.T) {
	ok := func() error { return nil }
	down := func() error { return errors.New("mqtt not connected") }

	w := httptest.NewRecorder()
	Ready(map[string]Check{"store": ok})(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ready":true,"checks":{"store":"ok"}}`, w.Body.String())

	w = httptest.NewRecorder()
	Ready(map[string]Check{"store": ok, "mqtt": down})(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"ready":false,"checks":{"store":"ok","mqtt":"mqtt not connected"}}`, w.Body.String())
}
