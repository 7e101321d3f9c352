package server

import (
	"net/http"
	"time"

	"github.com/kingoIII/Ruido/core/analytics"
	"github.com/kingoIII/Ruido/core/search"
	"github.com/kingoIII/Ruido/logger"
	"github.com/kingoIII/Ruido/model"

	"github.com/gorilla/mux"
)

// SearchTracksHandler serves GET /api/tracks: the hybrid ranked search when
// a free-text query is present, the direct relational listing otherwise.
func (h *APIHandler) SearchTracksHandler(w http.ResponseWriter, r *http.Request) {
	params := search.ParseTrackSearchParams(r.URL.Query())

	// An unknown license could never match a row; reject it explicitly
	// rather than letting it silently produce an empty page.
	if params.License != "" && !model.License(params.License).Valid() {
		writeError(w, http.StatusBadRequest, "Unknown license")
		return
	}

	result, err := h.executor.Search(r.Context(), params)
	if err != nil {
		logger.Error("Track search failed",
			logger.String("query", params.Query),
			logger.String("tag", params.Tag),
			logger.String("license", params.License),
			logger.ErrorField(err),
		)
		writeError(w, http.StatusInternalServerError, "Unable to load tracks")
		return
	}

	data := make([]model.TrackResponse, 0, len(result.Tracks))
	for i := range result.Tracks {
		data = append(data, result.Tracks[i].ToResponse())
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data":          data,
		"page":          result.Page,
		"pageSize":      result.PageSize,
		"total":         result.Total,
		"totalPages":    search.TotalPages(result.Total),
		"availableTags": result.AvailableTags,
	})
}

// GetTrackHandler serves GET /api/tracks/{id}.
func (h *APIHandler) GetTrackHandler(w http.ResponseWriter, r *http.Request) {
	trackID := mux.Vars(r)["id"]

	track, err := h.trackRepo.GetTrackByID(r.Context(), trackID)
	if err != nil {
		logger.Error("Failed to load track",
			logger.String("trackId", trackID),
			logger.ErrorField(err),
		)
		writeError(w, http.StatusInternalServerError, "Unable to load track")
		return
	}
	if track == nil {
		writeError(w, http.StatusNotFound, "Track not found")
		return
	}

	writeJSON(w, http.StatusOK, track.ToResponse())
}

// LikeTrackHandler serves POST /api/tracks/{id}/like. Requires auth; toggles
// the like row and counter transactionally.
func (h *APIHandler) LikeTrackHandler(w http.ResponseWriter, r *http.Request) {
	trackID := mux.Vars(r)["id"]

	profileID, err := GetProfileIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	track, err := h.trackRepo.GetTrackByID(r.Context(), trackID)
	if err != nil {
		logger.Error("Failed to load track for like",
			logger.String("trackId", trackID),
			logger.ErrorField(err),
		)
		writeError(w, http.StatusInternalServerError, "Unable to toggle like")
		return
	}
	if track == nil {
		writeError(w, http.StatusNotFound, "Track not found")
		return
	}

	liked, likes, err := h.likeRepo.Toggle(r.Context(), profileID, trackID)
	if err != nil {
		logger.Error("Failed to toggle like",
			logger.String("trackId", trackID),
			logger.String("profileId", profileID),
			logger.ErrorField(err),
		)
		writeError(w, http.StatusInternalServerError, "Unable to toggle like")
		return
	}

	logger.Info("Like toggled",
		logger.String("trackId", trackID),
		logger.String("profileId", profileID),
		logger.Bool("liked", liked),
	)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"liked": liked,
		"likes": likes,
	})
}

// PlayTrackHandler serves POST /api/tracks/{id}/play. Play counting is
// debounced per viewer+track fingerprint: a signed cookie short-circuits
// repeats from the same browser, Redis gates everything else.
func (h *APIHandler) PlayTrackHandler(w http.ResponseWriter, r *http.Request) {
	trackID := mux.Vars(r)["id"]

	track, err := h.trackRepo.GetTrackByID(r.Context(), trackID)
	if err != nil {
		logger.Error("Failed to load track for play",
			logger.String("trackId", trackID),
			logger.ErrorField(err),
		)
		writeError(w, http.StatusInternalServerError, "Unable to count play")
		return
	}
	if track == nil {
		writeError(w, http.StatusNotFound, "Track not found")
		return
	}

	fingerprint := analytics.Fingerprint(analytics.ClientIP(r), trackID)
	cookieName := analytics.PlayCookiePrefix + trackID

	if cookie, err := r.Cookie(cookieName); err == nil {
		if ts, ok := analytics.ParsePlayCookieTimestamp(h.cfg.AuthSecret, fingerprint, cookie.Value); ok {
			if time.Since(time.Unix(ts, 0)) < h.cfg.PlayDebounceWindow {
				writeJSON(w, http.StatusOK, map[string]interface{}{
					"counted": false,
					"plays":   track.Plays,
				})
				return
			}
		}
	}

	if !h.debouncer.ShouldCount(r.Context(), fingerprint) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"counted": false,
			"plays":   track.Plays,
		})
		return
	}

	plays, err := h.trackRepo.IncrementPlays(r.Context(), trackID)
	if err != nil {
		logger.Error("Failed to increment plays",
			logger.String("trackId", trackID),
			logger.ErrorField(err),
		)
		writeError(w, http.StatusInternalServerError, "Unable to count play")
		return
	}

	now := time.Now()
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    analytics.SignPlayCookieValue(h.cfg.AuthSecret, fingerprint, now.Unix()),
		Path:     "/",
		Expires:  now.Add(h.cfg.PlayDebounceWindow),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"counted": true,
		"plays":   plays,
	})
}
