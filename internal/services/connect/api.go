package connect

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/LeonardoBeccarini/kisan_yatra/internal/model/entities"
	"github.com/LeonardoBeccarini/kisan_yatra/pkg/httpx"
)

var errBody = errors.New("invalid JSON body")

type API struct {
	svc *Service
	log *zap.Logger
}

func NewAPI(svc *Service, log *zap.Logger) *API { return &API{svc: svc, log: log} }

func (a *API) Routes(r *mux.Router) {
	r.HandleFunc("/connect/state", a.state).Methods(http.MethodGet)
	r.HandleFunc("/connect/{state}/messages", a.listMessages).Methods(http.MethodGet)
	r.HandleFunc("/connect/{state}/messages", a.send).Methods(http.MethodPost)
	r.HandleFunc("/connect/{state}/messages", a.deleteMine).Methods(http.MethodDelete)
	r.HandleFunc("/connect/{state}/contacts", a.listContacts).Methods(http.MethodGet)
	r.HandleFunc("/connect/{state}/contacts", a.share).Methods(http.MethodPost)
	r.HandleFunc("/connect/{state}/seed", a.seed).Methods(http.MethodPost)
	r.HandleFunc("/connect/{state}/bot", a.bot).Methods(http.MethodPost)
	r.HandleFunc("/profile", a.profile).Methods(http.MethodGet)
	r.HandleFunc("/profile", a.updateProfile).Methods(http.MethodPatch)
}

func caller(w http.ResponseWriter, r *http.Request) (Caller, bool) {
	id, err := httpx.UserID(r)
	if err != nil {
		httpx.WriteError(w, http.StatusUnauthorized, err)
		return Caller{}, false
	}
	return Caller{ID: id, Email: strings.TrimSpace(r.Header.Get(httpx.EmailHeader))}, true
}

func boardState(r *http.Request) string { return strings.TrimSpace(mux.Vars(r)["state"]) }

func (a *API) writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrEmptyMessage), errors.Is(err, ErrInvalidPhone), errors.Is(err, ErrNoState):
		httpx.WriteError(w, http.StatusBadRequest, err)
	default:
		a.log.Error("connect", zap.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, err)
	}
}

func (a *API) listMessages(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, a.svc.Messages(boardState(r)))
}

func (a *API) send(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}
	var in struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, errBody)
		return
	}
	msg, err := a.svc.Send(c, boardState(r), in.Text)
	if err != nil {
		a.writeErr(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, msg)
}

func (a *API) deleteMine(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}
	n := a.svc.DeleteMine(c.ID, boardState(r))
	httpx.WriteJSON(w, http.StatusOK, map[string]int{"deleted": n})
}

func (a *API) listContacts(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, a.svc.Contacts(boardState(r)))
}

func (a *API) share(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}
	var in entities.ConnectContact
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, errBody)
		return
	}
	contact, err := a.svc.ShareContact(c.ID, boardState(r), in)
	if err != nil {
		a.writeErr(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, contact)
}

func (a *API) seed(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}
	msg, err := a.svc.Seed(c.ID, boardState(r))
	if err != nil {
		a.writeErr(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"result": msg})
}

// POST /connect/{state}/bot  body {"season":"kharif"} oppure ?season=
func (a *API) bot(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}
	season := r.URL.Query().Get("season")
	if r.ContentLength != 0 {
		var in struct {
			Season string `json:"season"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			httpx.WriteError(w, http.StatusBadRequest, errBody)
			return
		}
		if in.Season != "" {
			season = in.Season
		}
	}
	msg, err := a.svc.Bot(c.ID, boardState(r), strings.TrimSpace(season))
	if err != nil {
		a.writeErr(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, msg)
}

func (a *API) state(w http.ResponseWriter, r *http.Request) {
	loc := r.URL.Query().Get("location")
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"location": loc, "state": a.svc.StateFor(loc)})
}

func (a *API) profile(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}
	u, found := a.svc.Profile(c.ID)
	if !found {
		httpx.WriteJSON(w, http.StatusOK, nil)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, u)
}

func (a *API) updateProfile(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}
	var in ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, errBody)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, a.svc.UpdateProfile(c, in))
}
