// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/fancred/fancred/internal/adapters/repository"
	"github.com/fancred/fancred/internal/domain/model"
)

// User-facing messages, kept stable for the dashboard.
const (
	msgWalletRequired = "Wallet address is required"
	msgInvalidAction  = "Invalid action type"
	msgUpdateFailed   = "Failed to update score data"
)

// ScoreDependencies defines the interface for score operations.
type ScoreDependencies interface {
	FetchScore(ctx context.Context, accountID string) (model.ScoreSnapshot, error)
	ApplyAction(ctx context.Context, accountID string, action repository.Action) (model.ScoreSnapshot, string, error)
}

// ScoreHandler handles score reads and activity actions.
type ScoreHandler struct {
	deps ScoreDependencies
}

// NewScoreHandler creates a new score handler.
func NewScoreHandler(deps ScoreDependencies) *ScoreHandler {
	return &ScoreHandler{deps: deps}
}

// actionRequest mirrors the POST /score body.
type actionRequest struct {
	WalletAddress string `json:"walletAddress"`
	Action        string `json:"action"`
}

// actionResponse is the snapshot plus the user-facing message.
type actionResponse struct {
	model.ScoreSnapshot
	Message string `json:"message"`
}

// HandleScore handles GET /score?walletAddress= and POST /score.
func (h *ScoreHandler) HandleScore(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleGet(w, r)
	case http.MethodPost:
		h.handlePost(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *ScoreHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	wallet := strings.TrimSpace(r.URL.Query().Get("walletAddress"))
	if wallet == "" {
		writeError(w, http.StatusBadRequest, msgWalletRequired)
		return
	}
	snap, err := h.deps.FetchScore(r.Context(), wallet)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *ScoreHandler) handlePost(w http.ResponseWriter, r *http.Request) {
	var req actionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, msgUpdateFailed)
		return
	}
	if strings.TrimSpace(req.WalletAddress) == "" {
		writeError(w, http.StatusBadRequest, msgWalletRequired)
		return
	}

	snap, message, err := h.deps.ApplyAction(r.Context(), req.WalletAddress, repository.Action(req.Action))
	switch {
	case errors.Is(err, repository.ErrInvalidAction):
		writeError(w, http.StatusBadRequest, msgInvalidAction)
		return
	case errors.Is(err, repository.ErrInvalidAccount):
		writeError(w, http.StatusBadRequest, msgWalletRequired)
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, msgUpdateFailed)
		return
	}
	writeJSON(w, http.StatusOK, actionResponse{ScoreSnapshot: snap, Message: message})
}
