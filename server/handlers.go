package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/kingoIII/Ruido/cache"
	"github.com/kingoIII/Ruido/config"
	"github.com/kingoIII/Ruido/core/auth"
	"github.com/kingoIII/Ruido/core/search"
	"github.com/kingoIII/Ruido/repository"
)

// APIHandler handles all API requests.
type APIHandler struct {
	trackRepo   repository.TrackRepository
	tagRepo     repository.TagRepository
	likeRepo    repository.LikeRepository
	profileRepo repository.ProfileRepository
	executor    *search.Executor
	debouncer   *cache.PlayDebouncer
	cfg         *config.Config
}

// NewAPIHandler creates a new API handler.
func NewAPIHandler(
	trackRepo repository.TrackRepository,
	tagRepo repository.TagRepository,
	likeRepo repository.LikeRepository,
	profileRepo repository.ProfileRepository,
	executor *search.Executor,
	debouncer *cache.PlayDebouncer,
	cfg *config.Config,
) *APIHandler {
	return &APIHandler{
		trackRepo:   trackRepo,
		tagRepo:     tagRepo,
		likeRepo:    likeRepo,
		profileRepo: profileRepo,
		executor:    executor,
		debouncer:   debouncer,
		cfg:         cfg,
	}
}

// searchStore combines the track and tag repositories into the search
// executor's store interface.
type searchStore struct {
	repository.TrackRepository
	tags repository.TagRepository
}

// NewSearchStore builds the executor's store from the repositories.
func NewSearchStore(trackRepo repository.TrackRepository, tagRepo repository.TagRepository) search.TrackStore {
	return searchStore{TrackRepository: trackRepo, tags: tagRepo}
}

func (s searchStore) ListTagNames(ctx context.Context) ([]string, error) {
	return s.tags.ListAllNames(ctx)
}

// AuthMiddleware checks for a valid bearer token and stashes the calling
// profile in the request context.
func (h *APIHandler) AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeError(w, http.StatusUnauthorized, "Authorization header is required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			writeError(w, http.StatusUnauthorized, "Invalid authorization header format")
			return
		}

		claims, err := auth.ParseToken(parts[1])
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), "profileID", claims.ProfileID)
		ctx = context.WithValue(ctx, "handle", claims.Handle)

		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// GetProfileIDFromContext extracts the calling profile id from the request
// context (set by AuthMiddleware).
func GetProfileIDFromContext(ctx context.Context) (string, error) {
	profileID, ok := ctx.Value("profileID").(string)
	if !ok || profileID == "" {
		return "", fmt.Errorf("profile ID not found in context")
	}
	return profileID, nil
}
