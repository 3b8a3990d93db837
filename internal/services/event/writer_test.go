package event

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/LeonardoBeccarini/kisan_yatra/pkg/httpx"
)

type fakeWriteAPI struct {
	mu     sync.Mutex
	points []*write.Point
	errs   chan error
}

func newFakeWriteAPI() *fakeWriteAPI { return &fakeWriteAPI{errs: make(chan error, 1)} }

func (f *fakeWriteAPI) WritePoint(p *write.Point) {
	f.mu.Lock()
	f.points = append(f.points, p)
	f.mu.Unlock()
}

func (f *fakeWriteAPI) Errors() <-chan error { return f.errs }

func TestWriterWritesAndCounts(t *testing.T) {
	api := newFakeWriteAPI()
	w := NewWriter(api, zap.NewNop())

	w.Write(CommonEvent{EventType: TypeMarketPrice, Severity: "info", Timestamp: ts})
	w.Write(CommonEvent{EventType: TypeMarketPrice, Severity: "info", Timestamp: ts})
	w.Write(CommonEvent{EventType: TypeConnectMessage, Severity: "info", Timestamp: ts})

	assert.Len(t, api.points, 3)
	assert.Equal(t, int64(2), w.Count(TypeMarketPrice))
	assert.Equal(t, map[string]int64{TypeMarketPrice: 2, TypeConnectMessage: 1}, w.Counts())
	assert.Greater(t, w.LastErrorAge(), time.Hour)
}

func TestWriterTracksAsyncErrors(t *testing.T) {
	api := newFakeWriteAPI()
	w := NewWriter(api, zap.NewNop())
	api.errs <- errors.New("boom")

	assert.Eventually(t, func() bool { return w.LastErrorAge() < time.Minute }, time.Second, 10*time.Millisecond)
	assert.Error(t, WriterCheck(w, time.Minute)())
	assert.NoError(t, WriterCheck(w, -time.Hour)())
}

func TestNilWriter(t *testing.T) {
	var w *Writer
	assert.Equal(t, int64(0), w.Count("x"))
	assert.Empty(t, w.Counts())
	assert.Greater(t, w.LastErrorAge(), time.Hour)
}

func TestHealthStatus(t *testing.T) {
	ok := func() error { return nil }
	ko := func() error { return errors.New("down") }
	w := NewWriter(newFakeWriteAPI(), zap.NewNop())

	for _, tc := range []struct {
		name   string
		checks map[string]httpx.Check
		want   string
	}{
		{"all ok", map[string]httpx.Check{"mqtt": ok, "influx": ok}, `"status":"ok"`},
		{"one down", map[string]httpx.Check{"mqtt": ok, "influx": ko}, `"status":"degraded"`},
		{"all down", map[string]httpx.Check{"mqtt": ko, "influx": ko}, `"status":"down"`},
	} {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			NewHealthHandler(tc.checks, w, 30*time.Second).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.want)
		})
	}
}
