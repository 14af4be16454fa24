// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/fancred/fancred/internal/domain/model"
)

const msgProfileFailed = "Failed to load fan profile. The address may be invalid."

// ProfileDependencies defines the interface for profile reads.
type ProfileDependencies interface {
	Profile(ctx context.Context, accountID string) (model.Profile, error)
}

// ProfileHandler handles profile requests.
type ProfileHandler struct {
	deps ProfileDependencies
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(deps ProfileDependencies) *ProfileHandler {
	return &ProfileHandler{deps: deps}
}

// HandleGetProfile handles GET /profile/{walletAddress} requests.
func (h *ProfileHandler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	wallet := strings.TrimPrefix(r.URL.Path, "/profile/")
	if wallet == "" || strings.Contains(wallet, "/") {
		writeError(w, http.StatusBadRequest, msgWalletRequired)
		return
	}
	profile, err := h.deps.Profile(r.Context(), wallet)
	if err != nil {
		writeError(w, http.StatusInternalServerError, msgProfileFailed)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}
