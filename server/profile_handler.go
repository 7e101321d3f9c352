package server

import (
	"net/http"

	"github.com/kingoIII/Ruido/logger"
	"github.com/kingoIII/Ruido/model"

	"github.com/gorilla/mux"
)

// GetProfileHandler serves GET /api/profiles/{handle}: the profile ref plus
// its tracks, newest first.
func (h *APIHandler) GetProfileHandler(w http.ResponseWriter, r *http.Request) {
	handle := mux.Vars(r)["handle"]

	profile, err := h.profileRepo.GetProfileByHandle(r.Context(), handle)
	if err != nil {
		logger.Error("Failed to load profile",
			logger.String("handle", handle),
			logger.ErrorField(err),
		)
		writeError(w, http.StatusInternalServerError, "Unable to load profile")
		return
	}
	if profile == nil {
		writeError(w, http.StatusNotFound, "Profile not found")
		return
	}

	tracks, err := h.trackRepo.ListTracksByProfile(r.Context(), profile.ID)
	if err != nil {
		logger.Error("Failed to load profile tracks",
			logger.String("profileId", profile.ID),
			logger.ErrorField(err),
		)
		writeError(w, http.StatusInternalServerError, "Unable to load profile")
		return
	}

	data := make([]model.TrackResponse, 0, len(tracks))
	for i := range tracks {
		data = append(data, tracks[i].ToResponse())
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"profile": model.ProfileRef{
			ID:          profile.ID,
			Handle:      profile.Handle,
			DisplayName: profile.DisplayName,
		},
		"tracks": data,
	})
}
