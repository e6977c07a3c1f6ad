package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/aditotot/Spinner/services"
	"github.com/go-chi/chi/v5"
)

// SpinHandler serves the endpoints the browser spin wheel consumes.
type SpinHandler struct {
	progression  *services.ProgressionService
	registration *services.RegistrationService
	state        *services.State
}

func NewSpinHandler(ps *services.ProgressionService, rs *services.RegistrationService, state *services.State) *SpinHandler {
	return &SpinHandler{
		progression:  ps,
		registration: rs,
		state:        state,
	}
}

// GroupedNames returns registered in-game names partitioned by the fixed
// wheel groups.
func (h *SpinHandler) GroupedNames(w http.ResponseWriter, r *http.Request) {
	groups := h.registration.GroupedNames()
	if err := writeJSON(w, http.StatusOK, jsonResponse{"groups": groups}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// NamesByRegion returns in-game names for one region, matched
// case-insensitively.
func (h *SpinHandler) NamesByRegion(w http.ResponseWriter, r *http.Request) {
	region := chi.URLParam(r, "region")
	names := h.registration.NamesByRegion(region)
	if err := writeJSON(w, http.StatusOK, jsonResponse{"names": names}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type spinResultRequest struct {
	WinnerIGN      string `json:"winnerIGN"`
	CurrentRegion  string `json:"currentRegion"`
	NamesRemaining int    `json:"namesRemaining"`
}

// SpinResult records one wheel draw and advances the region's lobby.
func (h *SpinHandler) SpinResult(w http.ResponseWriter, r *http.Request) {
	var req spinResultRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if strings.TrimSpace(req.WinnerIGN) == "" {
		badRequestResponse(w, r, services.ErrWinnerRequired)
		return
	}
	if strings.TrimSpace(req.CurrentRegion) == "" {
		badRequestResponse(w, r, services.ErrRegionRequired)
		return
	}

	outcome, err := h.progression.AdvanceDraw(r.Context(), req.WinnerIGN, req.CurrentRegion, req.NamesRemaining)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	resp := jsonResponse{
		"message":  "Winner announced and lobby updated.",
		"lobbyNum": outcome.LobbyNum,
	}
	if err := writeJSON(w, http.StatusOK, resp, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UnmappedLobbies lists full round-1 lobbies without a map, for the map
// wheel dropdown.
func (h *SpinHandler) UnmappedLobbies(w http.ResponseWriter, r *http.Request) {
	lobbies := h.state.ListUnmappedFullLobbies()
	if err := writeJSON(w, http.StatusOK, jsonResponse{"lobbies": lobbies}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type mapWinnerRequest struct {
	MapName string `json:"mapName"`
	LobbyID string `json:"lobbyId"`
}

// MapWinner assigns the drawn map to a lobby.
func (h *SpinHandler) MapWinner(w http.ResponseWriter, r *http.Request) {
	var req mapWinnerRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if strings.TrimSpace(req.MapName) == "" {
		badRequestResponse(w, r, services.ErrMapNameRequired)
		return
	}
	matchID, err := strconv.Atoi(strings.TrimSpace(req.LobbyID))
	if err != nil {
		badRequestResponse(w, r, fmt.Errorf("%w: lobbyId must be numeric", services.ErrValidationFailed))
		return
	}

	lobbyName, err := h.progression.AssignMap(r.Context(), matchID, req.MapName)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	resp := jsonResponse{
		"message": "Map assigned and lobby message updated.",
		"map":     req.MapName,
		"lobby":   lobbyName,
	}
	if err := writeJSON(w, http.StatusOK, resp, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Healthz reports liveness.
func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
