package recommendation

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/LeonardoBeccarini/kisan_yatra/internal/model/entities"
	"github.com/LeonardoBeccarini/kisan_yatra/internal/services/scorer"
	"github.com/LeonardoBeccarini/kisan_yatra/pkg/httpx"
)

var errBody = errors.New("body must be a JSON object")

type API struct {
	svc *Service
	log *zap.Logger
}

func NewAPI(svc *Service, log *zap.Logger) *API { return &API{svc: svc, log: log} }

func (a *API) Routes(r *mux.Router) {
	r.HandleFunc("/recommendations", a.create).Methods(http.MethodPost)
	r.HandleFunc("/recommendations", a.list).Methods(http.MethodGet)
	r.HandleFunc("/regions/resolve", a.resolve).Methods(http.MethodGet)
}

func (a *API) create(w http.ResponseWriter, r *http.Request) {
	userID, err := httpx.UserID(r)
	if err != nil {
		httpx.WriteError(w, http.StatusUnauthorized, err)
		return
	}
	req, err := decodeCreate(r)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err)
		return
	}
	rec, err := a.svc.Create(r.Context(), userID, req)
	if err != nil {
		if scorer.IsValidation(err) {
			httpx.WriteError(w, http.StatusBadRequest, err)
			return
		}
		a.log.Error("create recommendation", zap.String("user", userID), zap.Error(err))
		httpx.WriteError(w, http.StatusBadGateway, errors.New("scoring unavailable"))
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, rec)
}

func decodeCreate(r *http.Request) (CreateRequest, error) {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	var body map[string]any
	if err := dec.Decode(&body); err != nil || body == nil {
		return CreateRequest{}, errBody
	}
	reading, err := scorer.ParseReading(body)
	if err != nil {
		return CreateRequest{}, err
	}
	lat, err := scorer.OptionalNumber(body, "latitude")
	if err != nil {
		return CreateRequest{}, err
	}
	lon, err := scorer.OptionalNumber(body, "longitude")
	if err != nil {
		return CreateRequest{}, err
	}
	return CreateRequest{SoilReading: reading, Latitude: lat, Longitude: lon}, nil
}

// GET /recommendations[?userId=] defaults to the caller; anonymous callers get [].
func (a *API) list(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		userID, _ = httpx.UserID(r)
	}
	if userID == "" {
		httpx.WriteJSON(w, http.StatusOK, []entities.Recommendation{})
		return
	}
	httpx.WriteJSON(w, http.StatusOK, a.svc.List(userID))
}

func (a *API) resolve(w http.ResponseWriter, r *http.Request) {
	loc := r.URL.Query().Get("location")
	region, ok := a.svc.ResolveRegion(loc)
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"location": loc,
		"region":   region,
		"resolved": ok,
	})
}
