package handlers_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aditotot/Spinner/handlers"
	"github.com/aditotot/Spinner/live"
	"github.com/aditotot/Spinner/models"
	"github.com/aditotot/Spinner/routes"
	"github.com/aditotot/Spinner/services"
	"github.com/aditotot/Spinner/store"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "test-api-key"

type noopNotifier struct{}

func (noopNotifier) PublishLobby(_ context.Context, _, messageID, _ string) (string, error) {
	if messageID == "" {
		messageID = "msg-1"
	}
	return messageID, nil
}
func (noopNotifier) PublishResult(context.Context, string, string) error { return nil }
func (noopNotifier) CreateThread(context.Context, string, string, string) (string, error) {
	return "thread-1", nil
}
func (noopNotifier) CreateMessageThread(context.Context, string, string, string, string) (string, error) {
	return "thread-1", nil
}
func (noopNotifier) AddThreadMember(context.Context, string, string) error { return nil }
func (noopNotifier) AssignRole(context.Context, string, string) error      { return nil }

func newTestServer(t *testing.T, configured bool) (*httptest.Server, *services.RegistrationService) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	st := store.New(filepath.Join(t.TempDir(), "data.json"), nil, logger)
	state := services.NewState(models.NewTournamentState())

	hub := live.NewHub()
	go hub.Run()

	progression := services.NewProgressionService(state, st, noopNotifier{}, hub, "", logger)
	registration := services.NewRegistrationService(state, st, noopNotifier{}, logger)
	if configured {
		progression.Configure("lobby-channel", "results-channel", "role-1")
	}

	router := chi.NewRouter()
	routes.SetupRoutes(router,
		handlers.NewSpinHandler(progression, registration, state),
		handlers.NewWebSocketHandler(hub),
		testAPIKey)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server, registration
}

func TestHealthz(t *testing.T) {
	server, _ := newTestServer(t, true)

	resp, err := http.Get(server.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGroupedNames(t *testing.T) {
	server, registration := newTestServer(t, true)
	_, err := registration.Register(context.Background(), "u1", "alpha", "Alpha", "EU")
	require.NoError(t, err)

	resp, err := http.Get(server.URL + "/api/names/grouped")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"REGION 1"`)
	assert.Contains(t, string(body), `"Alpha"`)
}

func TestSpinResultValidation(t *testing.T) {
	server, _ := newTestServer(t, true)

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"missing winner", `{"currentRegion":"EU","namesRemaining":5}`, http.StatusBadRequest},
		{"missing region", `{"winnerIGN":"Alpha","namesRemaining":5}`, http.StatusBadRequest},
		{"malformed json", `{broken`, http.StatusBadRequest},
		{"unknown field", `{"winnerIGN":"Alpha","currentRegion":"EU","bogus":1}`, http.StatusBadRequest},
		{"valid draw", `{"winnerIGN":"Alpha","currentRegion":"EU","namesRemaining":5}`, http.StatusOK},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := http.Post(server.URL+"/api/spin_result", "application/json", strings.NewReader(tc.body))
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tc.wantStatus, resp.StatusCode)
		})
	}
}

func TestSpinResultWithoutSetup(t *testing.T) {
	server, _ := newTestServer(t, false)

	resp, err := http.Post(server.URL+"/api/spin_result", "application/json",
		strings.NewReader(`{"winnerIGN":"Alpha","currentRegion":"EU","namesRemaining":5}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "/setup")
}

func TestMapWinnerRequiresAPIKey(t *testing.T) {
	server, _ := newTestServer(t, true)

	resp, err := http.Post(server.URL+"/api/map/winner", "application/json",
		strings.NewReader(`{"mapName":"Erangel","lobbyId":"1"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMapWinner(t *testing.T) {
	server, _ := newTestServer(t, true)
	client := server.Client()

	post := func(body string) *http.Response {
		req, err := http.NewRequest(http.MethodPost, server.URL+"/api/map/winner", strings.NewReader(body))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-API-KEY", testAPIKey)
		resp, err := client.Do(req)
		require.NoError(t, err)
		return resp
	}

	resp := post(`{"mapName":"Erangel","lobbyId":"abc"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = post(`{"mapName":"","lobbyId":"1"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// No archived lobby exists yet.
	resp = post(`{"mapName":"Erangel","lobbyId":"1"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}
