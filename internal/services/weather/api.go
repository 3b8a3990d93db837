package weather

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

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
	r.HandleFunc("/weather/alerts", a.listAlerts).Methods(http.MethodGet)
	r.HandleFunc("/weather/alerts", a.addAlert).Methods(http.MethodPost)
	r.HandleFunc("/weather/seed", a.seed).Methods(http.MethodPost)
	r.HandleFunc("/weather/current", a.current).Methods(http.MethodGet)
}

// GET /weather/alerts?location=Punjab
func (a *API) listAlerts(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, a.svc.Alerts(r.URL.Query().Get("location")))
}

func (a *API) addAlert(w http.ResponseWriter, r *http.Request) {
	var in entities.WeatherAlert
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, errors.New("invalid JSON body"))
		return
	}
	stored, err := a.svc.AddAlert(in)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, stored)
}

func (a *API) seed(w http.ResponseWriter, _ *http.Request) {
	msg, _ := a.svc.Seed()
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"result": msg})
}

// GET /weather/current?lat=13.08&lon=80.27
func (a *API) current(w http.ResponseWriter, r *http.Request) {
	lat, err1 := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lon, err2 := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if err1 != nil || err2 != nil {
		httpx.WriteError(w, http.StatusBadRequest, errors.New("lat and lon must be numbers"))
		return
	}
	wd, err := a.svc.Current(r.Context(), lat, lon)
	if err != nil {
		a.log.Warn("current weather", zap.Float64("lat", lat), zap.Float64("lon", lon), zap.Error(err))
		status := http.StatusBadGateway
		if errors.Is(err, ErrNoProvider) || errors.Is(err, ErrMissingAPIKey) {
			status = http.StatusServiceUnavailable
		}
		httpx.WriteError(w, status, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, wd)
}
