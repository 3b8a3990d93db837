package event

import (
	"sync"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"go.uber.org/zap"
)

// PointWriter is the part of the non-blocking Influx WriteAPI the writer needs.
type PointWriter interface {
	WritePoint(point *write.Point)
	Errors() <-chan error
}

// Writer incapsula WriteAPI e traccia l'ultimo errore di scrittura per /healthz e /readyz.
type Writer struct {
	api     PointWriter
	mu      sync.RWMutex
	lastErr time.Time
	counts  map[string]int64
	now     func() time.Time
	log     *zap.Logger
}

// NewWriter inizializza il writer e attiva il listener degli errori asincroni di Influx.
func NewWriter(w PointWriter, log *zap.Logger) *Writer {
	ww := &Writer{
		api:     w,
		lastErr: time.Now().Add(-24 * time.Hour), // "lontano nel tempo"
		counts:  make(map[string]int64),
		now:     time.Now,
		log:     log,
	}
	go func() {
		for err := range w.Errors() {
			if err != nil {
				ww.mu.Lock()
				ww.lastErr = ww.now()
				ww.mu.Unlock()
				log.Warn("influx write error", zap.Error(err))
			}
		}
	}()
	return ww
}

// Write accoda il punto e conta l'evento.
func (w *Writer) Write(evt CommonEvent) {
	w.api.WritePoint(EventToPoint(evt))
	w.MarkIngest(evt.EventType)
}

// LastErrorAge ritorna da quanto tempo non si verificano errori di scrittura.
func (w *Writer) LastErrorAge() time.Duration {
	if w == nil {
		return 99999 * time.Hour
	}
	w.mu.RLock()
	t := w.lastErr
	w.mu.RUnlock()
	return w.now().Sub(t)
}

func (w *Writer) MarkIngest(eventType string) {
	if w == nil {
		return
	}
	w.mu.Lock()
	w.counts[eventType]++
	w.mu.Unlock()
}

func (w *Writer) Count(eventType string) int64 {
	if w == nil {
		return 0
	}
	w.mu.RLock()
	c := w.counts[eventType]
	w.mu.RUnlock()
	return c
}

// Counts is a snapshot of the ingested events per type.
func (w *Writer) Counts() map[string]int64 {
	out := map[string]int64{}
	if w == nil {
		return out
	}
	w.mu.RLock()
	for k, v := range w.counts {
		out[k] = v
	}
	w.mu.RUnlock()
	return out
}
