package httpx

import (
	"net/http"
	"sort"
)

// Check reports whether one dependency is usable.
type Check func() error

// Ready answers 200 {"ready":true,...} only when every check passes, 503 otherwise.
func Ready(checks map[string]Check) http.HandlerFunc {
	names := make([]string, 0, len(checks))
	for n := range checks {
		names = append(names, n)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, _ *http.Request) {
		type resp struct {
			Ready  bool              `json:"ready"`
			Checks map[string]string `json:"checks"`
		}
		out := resp{Ready: true, Checks: make(map[string]string, len(names))}
		for _, n := range names {
			if err := checks[n](); err != nil {
				out.Ready = false
				out.Checks[n] = err.Error()
				continue
			}
			out.Checks[n] = "ok"
		}
		status := http.StatusOK
		if !out.Ready {
			status = http.StatusServiceUnavailable
		}
		WriteJSON(w, status, out)
	}
}
