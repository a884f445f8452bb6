package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/bloxpanel/bloxpanel/internal/api/response"
	"github.com/bloxpanel/bloxpanel/internal/services/profile"
)

// ProfileHandler handles profile lookup endpoints
type ProfileHandler struct {
	profileService *profile.Service
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profileService *profile.Service) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
	}
}

// Lookup handles GET /api/v1/profile/{username}
func (h *ProfileHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]
	if username == "" {
		WriteError(w, NewInvalidRequestError("username is required"))
		return
	}

	p, err := h.profileService.Lookup(r.Context(), username)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ProfileFromModel(p))
}
