package connect

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/LeonardoBeccarini/kisan_yatra/internal/model/entities"
	"github.com/LeonardoBeccarini/kisan_yatra/pkg/httpx"
)

func newTestRouter() *mux.Router {
	svc, _ := newTestService()
	r := mux.NewRouter()
	NewAPI(svc, zap.NewNop()).Routes(r)
	return r
}

func do(r http.Handler, method, target, user, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if user != "" {
		req.Header.Set(httpx.UserHeader, user)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAPIMutationsNeedUser(t *testing.T) {
	r := newTestRouter()
	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/connect/punjab/messages"},
		{http.MethodDelete, "/connect/punjab/messages"},
		{http.MethodPost, "/connect/punjab/contacts"},
		{http.MethodPost, "/connect/punjab/seed"},
		{http.MethodPost, "/connect/punjab/bot"},
		{http.MethodGet, "/profile"},
		{http.MethodPatch, "/profile"},
	} {
		w := do(r, tc.method, tc.path, "", `{}`)
		assert.Equal(t, http.StatusUnauthorized, w.Code, tc.method+" "+tc.path)
	}
}

func TestAPIMessages(t *testing.T) {
	r := newTestRouter()

	w := do(r, http.MethodPost, "/connect/west%20bengal/messages", "u1", `{"text":"  "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/connect/west%20bengal/messages", strings.NewReader(`{"text":"hello"}`))
	req.Header.Set(httpx.UserHeader, "u1")
	req.Header.Set(httpx.EmailHeader, "gopal@example.com")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(r, http.MethodGet, "/connect/west%20bengal/messages", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var got []entities.ConnectMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "gopal", got[0].UserName)
	assert.Equal(t, "west bengal", got[0].State)

	w = do(r, http.MethodDelete, "/connect/west%20bengal/messages", "u1", "")
	assert.JSONEq(t, `{"deleted":1}`, w.Body.String())
}

func TestAPIEmptyBoardIsEmptyArray(t *testing.T) {
	w := do(newTestRouter(), http.MethodGet, "/connect/assam/contacts", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestAPIContacts(t *testing.T) {
	r := newTestRouter()
	w := do(r, http.MethodPost, "/connect/assam/contacts", "u1", `{"name":"Meena","phone":"12"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"invalid phone"}`, w.Body.String())

	w = do(r, http.MethodPost, "/connect/assam/contacts", "u1", `{"name":"Meena","phone":"91234 56780"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestAPISeedAndBot(t *testing.T) {
	r := newTestRouter()
	w := do(r, http.MethodPost, "/connect/punjab/seed", "u1", "")
	assert.JSONEq(t, `{"result":"Seeded connect data"}`, w.Body.String())

	w = do(r, http.MethodPost, "/connect/punjab/bot", "u1", `{"season":"rabi"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var msg entities.ConnectMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &msg))
	assert.Contains(t, msg.Text, "Season: RABI • State: punjab")

	w = do(r, http.MethodPost, "/connect/punjab/bot?season=zaid", "u1", "")
	require.Equal(t, http.StatusCreated, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &msg))
	assert.Contains(t, msg.Text, "Suggested crops: Maize, Vegetables")
}

func TestAPIStateInference(t *testing.T) {
	r := newTestRouter()
	w := do(r, http.MethodGet, "/connect/state?location=Ranchi", "", "")
	assert.JSONEq(t, `{"location":"Ranchi","state":"jharkhand"}`, w.Body.String())
	w = do(r, http.MethodGet, "/connect/state?location=Paris", "", "")
	assert.JSONEq(t, `{"location":"Paris","state":"unknown"}`, w.Body.String())
}

func TestAPIProfile(t *testing.T) {
	r := newTestRouter()
	w := do(r, http.MethodGet, "/profile", "u1", "")
	assert.Equal(t, "null\n", w.Body.String())

	w = do(r, http.MethodPatch, "/profile", "u1", `{"name":"Asha","farmSize":3}`)
	require.Equal(t, http.StatusOK, w.Code)
	w = do(r, http.MethodPatch, "/profile", "u1", `{"language":"ta"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/profile", "u1", "")
	var u entities.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &u))
	assert.Equal(t, "Asha", u.Name)
	assert.Equal(t, "ta", u.Language)
	require.NotNil(t, u.FarmSize)
	assert.Equal(t, 3.0, *u.FarmSize)
}
