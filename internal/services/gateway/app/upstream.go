package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/sony/gobreaker"
)

const (
	maxBody     = 4 << 20
	maxLastGood = 512
)

// ErrNotConfigured is returned by upstreams without a base URL.
var ErrNotConfigured = errors.New("upstream not configured")

// Upstream incapsula chiamate HTTP con Circuit Breaker e tiene l'ultima risposta buona per URL.
type Upstream struct {
	name    string
	base    string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker

	mu       sync.Mutex
	lastGood map[string][]byte
}

// NewUpstream costruisce un client verso un servizio a monte
func NewUpstream(name, base string, timeout time.Duration, cb *gobreaker.CircuitBreaker) *Upstream {
	return &Upstream{
		name:     name,
		base:     strings.TrimRight(strings.TrimSpace(base), "/"),
		client:   &http.Client{Timeout: timeout},
		breaker:  cb,
		lastGood: make(map[string][]byte),
	}
}

func (u *Upstream) Name() string { return u.name }

func (u *Upstream) State() gobreaker.State { return u.breaker.State() }

// GetJSON esegue la GET e decodifica JSON in out.
// Se la chiamata fallisce ma esiste una risposta buona precedente per lo stesso URL,
// decodifica quella e riporta stale=true insieme all'errore originale.
func (u *Upstream) GetJSON(ctx context.Context, path string, q url.Values, out any) (stale bool, err error) {
	if u.base == "" {
		return false, fmt.Errorf("%s: %w", u.name, ErrNotConfigured)
	}
	target := u.base + "/" + strings.TrimLeft(path, "/")
	if len(q) > 0 {
		target += "?" + q.Encode()
	}

	res, err := u.breaker.Execute(func() (any, error) { return u.fetch(ctx, target) })
	if err == nil {
		body := res.([]byte)
		if derr := json.Unmarshal(body, out); derr != nil {
			return false, fmt.Errorf("%s decode error: %w", u.name, derr)
		}
		u.remember(target, body)
		return false, nil
	}

	err = fmt.Errorf("%s: %w", u.name, err)
	// usa l'ultima cache valida (se presente)
	if body, ok := u.cached(target); ok && json.Unmarshal(body, out) == nil {
		return true, err
	}
	return false, err
}

func (u *Upstream) fetch(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := u.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("upstream status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if !json.Valid(bytes.TrimSpace(body)) {
		return nil, errors.New("invalid JSON body")
	}
	return body, nil
}

func (u *Upstream) remember(target string, body []byte) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if _, ok := u.lastGood[target]; !ok && len(u.lastGood) >= maxLastGood {
		for k := range u.lastGood {
			delete(u.lastGood, k)
			break
		}
	}
	u.lastGood[target] = body
}

func (u *Upstream) cached(target string) ([]byte, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	b, ok := u.lastGood[target]
	return b, ok
}
