package event

import (
	"fmt"
	"net/http"
	"time"

	"github.com/LeonardoBeccarini/kisan_yatra/pkg/httpx"
)

type healthHandler struct {
	checks   map[string]httpx.Check
	writer   *Writer
	minError time.Duration
}

// NewHealthHandler reports ok, degraded or down from the dependency checks and recent write errors.
func NewHealthHandler(checks map[string]httpx.Check, w *Writer, minOkErrorAge time.Duration) http.Handler {
	return &healthHandler{checks: checks, writer: w, minError: minOkErrorAge}
}

func (h *healthHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	type status struct {
		Status          string            `json:"status"`
		Checks          map[string]string `json:"checks"`
		LastWriteErrorS float64           `json:"last_write_error_age_sec"`
		Ingested        map[string]int64  `json:"ingested"`
	}
	st := status{
		Checks:          make(map[string]string, len(h.checks)),
		LastWriteErrorS: h.writer.LastErrorAge().Seconds(),
		Ingested:        h.writer.Counts(),
	}
	failed := 0
	for name, check := range h.checks {
		if err := check(); err != nil {
			st.Checks[name] = err.Error()
			failed++
			continue
		}
		st.Checks[name] = "ok"
	}

	switch {
	case failed == 0 && h.writer.LastErrorAge() > h.minError:
		st.Status = "ok"
	case failed < len(h.checks) || len(h.checks) == 0:
		st.Status = "degraded"
	default:
		st.Status = "down"
	}
	httpx.WriteJSON(w, http.StatusOK, st)
}

// WriterCheck fails while the last Influx write error is younger than minAge.
func WriterCheck(wr *Writer, minAge time.Duration) httpx.Check {
	return func() error {
		if age := wr.LastErrorAge(); age <= minAge {
			return fmt.Errorf("influx write error %s ago", age.Round(time.Millisecond))
		}
		return nil
	}
}
