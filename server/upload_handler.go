package server

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/kingoIII/Ruido/logger"
	"github.com/kingoIII/Ruido/model"
	"github.com/kingoIII/Ruido/storage"

	"github.com/google/uuid"
)

const presignExpiry = 15 * time.Minute

// createUploadRequest asks for presigned upload slots. The server never
// receives the audio bytes; the client PUTs them straight to object storage.
type createUploadRequest struct {
	FileName  string `json:"fileName"`
	CoverName string `json:"coverName"`
}

// CreateUploadHandler serves POST /api/uploads. Requires auth.
func (h *APIHandler) CreateUploadHandler(w http.ResponseWriter, r *http.Request) {
	var req createUploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.FileName) == "" {
		writeError(w, http.StatusBadRequest, "fileName is required")
		return
	}

	audioKey := "audio/" + uuid.NewString() + filepath.Ext(req.FileName)
	audioURL, err := storage.PresignUpload(r.Context(), audioKey, presignExpiry)
	if err != nil {
		logger.Error("Failed to presign audio upload", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Unable to create upload")
		return
	}

	response := map[string]interface{}{
		"audioKey":       audioKey,
		"audioUploadUrl": audioURL,
	}

	if strings.TrimSpace(req.CoverName) != "" {
		coverKey := "covers/" + uuid.NewString() + filepath.Ext(req.CoverName)
		coverURL, err := storage.PresignUpload(r.Context(), coverKey, presignExpiry)
		if err != nil {
			logger.Error("Failed to presign cover upload", logger.ErrorField(err))
			writeError(w, http.StatusInternalServerError, "Unable to create upload")
			return
		}
		response["coverKey"] = coverKey
		response["coverUploadUrl"] = coverURL
	}

	writeJSON(w, http.StatusOK, response)
}

// completeUploadRequest carries the metadata the client probed for the
// uploaded audio. Decoding and waveform generation happen client-side.
type completeUploadRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DurationSec int       `json:"durationSec"`
	BPM         *int      `json:"bpm"`
	Key         *string   `json:"key"`
	License     string    `json:"license"`
	Tags        []string  `json:"tags"`
	Waveform    []float64 `json:"waveform"`
	AudioKey    string    `json:"audioKey"`
	CoverKey    string    `json:"coverKey"`
}

// CompleteUploadHandler serves POST /api/uploads/complete. Requires auth.
// Creates the track row, its tag joins and the search vector in one
// transaction.
func (h *APIHandler) CompleteUploadHandler(w http.ResponseWriter, r *http.Request) {
	profileID, err := GetProfileIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req completeUploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.Title) == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.DurationSec < 1 {
		writeError(w, http.StatusBadRequest, "durationSec must be at least 1")
		return
	}
	if req.BPM != nil && (*req.BPM < 1 || *req.BPM > 300) {
		writeError(w, http.StatusBadRequest, "bpm must be between 1 and 300")
		return
	}
	if !model.License(req.License).Valid() {
		writeError(w, http.StatusBadRequest, "Unknown license")
		return
	}
	if strings.TrimSpace(req.AudioKey) == "" {
		writeError(w, http.StatusBadRequest, "audioKey is required")
		return
	}

	track := model.Track{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		DurationSec: req.DurationSec,
		BPM:         req.BPM,
		Key:         req.Key,
		License:     model.License(req.License),
		AudioURL:    storage.ObjectURL(req.AudioKey),
		Waveform:    model.Waveform(req.Waveform),
		ProfileID:   profileID,
	}
	if strings.TrimSpace(req.CoverKey) != "" {
		coverURL := storage.ObjectURL(req.CoverKey)
		track.CoverURL = &coverURL
	}

	if err := h.trackRepo.CreateTrack(r.Context(), &track, req.Tags); err != nil {
		logger.Error("Failed to create track",
			logger.String("title", track.Title),
			logger.String("profileId", profileID),
			logger.ErrorField(err),
		)
		writeError(w, http.StatusInternalServerError, "Unable to create track")
		return
	}

	logger.Info("Track created",
		logger.String("trackId", track.ID),
		logger.String("title", track.Title),
		logger.String("profileId", profileID),
	)

	created, err := h.trackRepo.GetTrackByID(r.Context(), track.ID)
	if err != nil || created == nil {
		// The row exists; respond with the unhydrated projection.
		writeJSON(w, http.StatusCreated, track.ToResponse())
		return
	}
	writeJSON(w, http.StatusCreated, created.ToResponse())
}
