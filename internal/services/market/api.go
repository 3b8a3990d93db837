package market

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/LeonardoBeccarini/kisan_yatra/internal/model/entities"
	"github.com/LeonardoBeccarini/kisan_yatra/pkg/httpx"
)

type API struct {
	svc *Service
	log *zap.Logger
}

func NewAPI(svc *Service, log *zap.Logger) *API { return &API{svc: svc, log: log} }

func (a *API) Routes(r *mux.Router) {
	r.HandleFunc("/market/prices", a.list).Methods(http.MethodGet)
	r.HandleFunc("/market/prices", a.add).Methods(http.MethodPost)
	r.HandleFunc("/market/prices/history", a.history).Methods(http.MethodGet)
	r.HandleFunc("/market/seed", a.seed).Methods(http.MethodPost)
	r.HandleFunc("/market/regions", a.regions).Methods(http.MethodGet)
	r.HandleFunc("/market/regions/{region}", a.region).Methods(http.MethodGet)
}

func (a *API) list(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, a.svc.Prices(r.URL.Query().Get("crop")))
}

func (a *API) add(w http.ResponseWriter, r *http.Request) {
	var in entities.MarketPrice
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, errors.New("invalid JSON body"))
		return
	}
	stored, err := a.svc.Add(r.Context(), in)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, stored)
}

func (a *API) seed(w http.ResponseWriter, r *http.Request) {
	msg, _ := a.svc.Seed(r.Context())
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"result": msg})
}

// GET /market/prices/history?crop=Rice[&days=30&limit=100]
func (a *API) history(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	crop := strings.TrimSpace(q.Get("crop"))
	if crop == "" {
		httpx.WriteError(w, http.StatusBadRequest, errors.New("crop is required"))
		return
	}
	days := clampInt(q.Get("days"), 30, 1, 365)
	limit := clampInt(q.Get("limit"), 100, 1, 1000)

	points, err := a.svc.PriceHistory(r.Context(), crop, days, limit)
	if err != nil {
		if errors.Is(err, ErrNoHistory) {
			httpx.WriteError(w, http.StatusServiceUnavailable, err)
			return
		}
		a.log.Warn("price history", zap.String("crop", crop), zap.Error(err))
		w.Header().Set("X-Error", "influx-query-error")
		httpx.WriteJSON(w, http.StatusOK, []PricePoint{})
		return
	}
	httpx.WriteJSON(w, http.StatusOK, points)
}

func (a *API) regions(w http.ResponseWriter, _ *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, a.svc.Regions())
}

func (a *API) region(w http.ResponseWriter, r *http.Request) {
	name := strings.ToLower(mux.Vars(r)["region"])
	prices, ok := a.svc.Region(name)
	if !ok {
		httpx.WriteError(w, http.StatusNotFound, errors.New("no prices for region "+name))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"region": name, "prices": prices})
}

func clampInt(raw string, def, min, max int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return def
	}
	if n < min {
		return min
	}
	if n > max {
		return max
	}
	return n
}
