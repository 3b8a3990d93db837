// Package httpx raccoglie gli helper HTTP comuni ai servizi (JSON, identita', middleware).
package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// UserHeader carries the authenticated user id, set by the auth proxy in front of the services.
const UserHeader = "X-User-ID"

// EmailHeader optionally carries the caller's email, set by the same proxy.
const EmailHeader = "X-User-Email"

// ErrUnauthenticated is returned when a mutation arrives without a user id.
var ErrUnauthenticated = errors.New("not authenticated")

// UserID extracts the caller identity from the request.
func UserID(r *http.Request) (string, error) {
	id := strings.TrimSpace(r.Header.Get(UserHeader))
	if id == "" {
		return "", ErrUnauthenticated
	}
	return id, nil
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes {"error": msg} with the given status.
func WriteError(w http.ResponseWriter, status int, err error) {
	WriteJSON(w, status, map[string]string{"error": err.Error()})
}

// Healthz is the plain liveness probe used by every service.
func Healthz(w http.ResponseWriter, _ *http.Request) {
	_, _ = w.Write([]byte("ok"))
}
