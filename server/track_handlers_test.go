package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kingoIII/Ruido/cache"
	"github.com/kingoIII/Ruido/config"
	"github.com/kingoIII/Ruido/core/auth"
	"github.com/kingoIII/Ruido/core/search"
	"github.com/kingoIII/Ruido/model"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTrackRepo is an in-memory TrackRepository with injectable failures.
type fakeTrackRepo struct {
	tracks  map[string]*model.Track
	listErr error
	getErr  error
}

func newFakeTrackRepo(tracks ...*model.Track) *fakeTrackRepo {
	repo := &fakeTrackRepo{tracks: make(map[string]*model.Track)}
	for _, track := range tracks {
		repo.tracks[track.ID] = track
	}
	return repo
}

func (f *fakeTrackRepo) CreateTrack(ctx context.Context, track *model.Track, tagNames []string) error {
	f.tracks[track.ID] = track
	return nil
}

func (f *fakeTrackRepo) GetTrackByID(ctx context.Context, id string) (*model.Track, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.tracks[id], nil
}

func (f *fakeTrackRepo) ListTracksByProfile(ctx context.Context, profileID string) ([]model.Track, error) {
	var out []model.Track
	for _, track := range f.tracks {
		if track.ProfileID == profileID {
			out = append(out, *track)
		}
	}
	return out, nil
}

func (f *fakeTrackRepo) ListTracks(ctx context.Context, filter search.TrackFilter, order string, page search.Page) ([]model.Track, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []model.Track
	for _, track := range f.tracks {
		out = append(out, *track)
	}
	return out, nil
}

func (f *fakeTrackRepo) CountTracks(ctx context.Context, filter search.TrackFilter) (int64, error) {
	if f.listErr != nil {
		return 0, f.listErr
	}
	return int64(len(f.tracks)), nil
}

func (f *fakeTrackRepo) TracksByIDs(ctx context.Context, ids []string, filter search.TrackFilter) ([]model.Track, error) {
	var out []model.Track
	for _, id := range ids {
		if track, ok := f.tracks[id]; ok {
			out = append(out, *track)
		}
	}
	return out, nil
}

func (f *fakeTrackRepo) RankedTrackIDs(ctx context.Context, params search.TrackSearchParams, page search.Page) ([]string, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var ids []string
	for id := range f.tracks {
		ids = append(ids, id)
	}
	return ids, nil
}

func (f *fakeTrackRepo) CountRanked(ctx context.Context, params search.TrackSearchParams) (int64, error) {
	return int64(len(f.tracks)), nil
}

func (f *fakeTrackRepo) RefreshSearchVector(ctx context.Context, trackID string) error {
	return nil
}

func (f *fakeTrackRepo) IncrementPlays(ctx context.Context, trackID string) (int64, error) {
	track, ok := f.tracks[trackID]
	if !ok {
		return 0, fmt.Errorf("track %s not found", trackID)
	}
	track.Plays++
	return track.Plays, nil
}

type fakeTagRepo struct {
	names []string
}

func (f *fakeTagRepo) ListAllNames(ctx context.Context) ([]string, error) {
	return f.names, nil
}

type fakeLikeRepo struct {
	liked map[string]bool
	count map[string]int64
}

func newFakeLikeRepo() *fakeLikeRepo {
	return &fakeLikeRepo{liked: make(map[string]bool), count: make(map[string]int64)}
}

func (f *fakeLikeRepo) Toggle(ctx context.Context, profileID, trackID string) (bool, int64, error) {
	key := profileID + "|" + trackID
	if f.liked[key] {
		delete(f.liked, key)
		if f.count[trackID] > 0 {
			f.count[trackID]--
		}
		return false, f.count[trackID], nil
	}
	f.liked[key] = true
	f.count[trackID]++
	return true, f.count[trackID], nil
}

type fakeProfileRepo struct {
	profiles map[string]*model.Profile
}

func (f *fakeProfileRepo) GetProfileByHandle(ctx context.Context, handle string) (*model.Profile, error) {
	return f.profiles[handle], nil
}

func (f *fakeProfileRepo) CreateProfile(ctx context.Context, profile *model.Profile) error {
	f.profiles[profile.Handle] = profile
	return nil
}

func demoTrack(id, title string) *model.Track {
	return &model.Track{
		ID:          id,
		Title:       title,
		Description: "demo",
		DurationSec: 10,
		License:     model.LicenseCC0,
		AudioURL:    "https://cdn.example/" + id + ".mp3",
		ProfileID:   "p1",
		Profile:     &model.Profile{ID: "p1", Handle: "demo", DisplayName: "Demo"},
	}
}

func newTestRouter(trackRepo *fakeTrackRepo) (*mux.Router, *APIHandler) {
	tagRepo := &fakeTagRepo{names: []string{"bass", "kick"}}
	likeRepo := newFakeLikeRepo()
	profileRepo := &fakeProfileRepo{profiles: map[string]*model.Profile{
		"demo": {ID: "p1", Handle: "demo", DisplayName: "Demo"},
	}}
	cfg := &config.Config{
		AuthSecret:         "test-secret",
		PlayDebounceWindow: time.Hour,
	}
	auth.Init(cfg.AuthSecret)

	executor := search.NewExecutor(NewSearchStore(trackRepo, tagRepo))
	debouncer := cache.NewPlayDebouncer(nil, cfg.PlayDebounceWindow)

	handler := NewAPIHandler(trackRepo, tagRepo, likeRepo, profileRepo, executor, debouncer, cfg)

	router := mux.NewRouter()
	router.HandleFunc("/api/tracks", handler.SearchTracksHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/tracks/{id}", handler.GetTrackHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/tracks/{id}/like", handler.AuthMiddleware(handler.LikeTrackHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/tracks/{id}/play", handler.PlayTrackHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/profiles/{handle}", handler.GetProfileHandler).Methods(http.MethodGet)
	return router, handler
}

func doRequest(router *mux.Router, method, target string, body []byte, header http.Header) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for key, values := range header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestSearchTracksResponseShape(t *testing.T) {
	router, _ := newTestRouter(newFakeTrackRepo(demoTrack("t1", "Neon Skyline Kick")))

	rec := doRequest(router, http.MethodGet, "/api/tracks", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, float64(1), body["page"])
	assert.Equal(t, float64(search.PageSize), body["pageSize"])
	assert.Equal(t, float64(1), body["total"])
	assert.Equal(t, float64(1), body["totalPages"])
	assert.Equal(t, []interface{}{"bass", "kick"}, body["availableTags"])

	data, ok := body["data"].([]interface{})
	require.True(t, ok)
	require.Len(t, data, 1)
	first := data[0].(map[string]interface{})
	assert.Equal(t, "Neon Skyline Kick", first["title"])
	assert.Equal(t, "demo", first["profile"].(map[string]interface{})["handle"])
}

func TestSearchTracksClampsPage(t *testing.T) {
	router, _ := newTestRouter(newFakeTrackRepo())

	rec := doRequest(router, http.MethodGet, "/api/tracks?page=-3", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), decodeBody(t, rec)["page"])
}

func TestSearchTracksUnknownLicense(t *testing.T) {
	router, _ := newTestRouter(newFakeTrackRepo())

	rec := doRequest(router, http.MethodGet, "/api/tracks?license=gpl", nil, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Unknown license", decodeBody(t, rec)["error"])
}

func TestSearchTracksStoreErrorIsNotEmptyPage(t *testing.T) {
	repo := newFakeTrackRepo(demoTrack("t1", "Neon Skyline Kick"))
	repo.listErr = fmt.Errorf("connection refused")
	router, _ := newTestRouter(repo)

	rec := doRequest(router, http.MethodGet, "/api/tracks?query=kick", nil, nil)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	body := decodeBody(t, rec)
	assert.NotEmpty(t, body["error"])
	assert.NotContains(t, body, "data")
}

func TestGetTrackNotFound(t *testing.T) {
	router, _ := newTestRouter(newFakeTrackRepo())

	rec := doRequest(router, http.MethodGet, "/api/tracks/missing", nil, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Track not found", decodeBody(t, rec)["error"])
}

func TestGetTrackByID(t *testing.T) {
	router, _ := newTestRouter(newFakeTrackRepo(demoTrack("t1", "Neon Skyline Kick")))

	rec := doRequest(router, http.MethodGet, "/api/tracks/t1", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "t1", decodeBody(t, rec)["id"])
}

func TestLikeRequiresAuth(t *testing.T) {
	router, _ := newTestRouter(newFakeTrackRepo(demoTrack("t1", "Neon Skyline Kick")))

	rec := doRequest(router, http.MethodPost, "/api/tracks/t1/like", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLikeToggleRoundTrip(t *testing.T) {
	router, _ := newTestRouter(newFakeTrackRepo(demoTrack("t1", "Neon Skyline Kick")))

	token, err := auth.GenerateToken("p1", "demo")
	require.NoError(t, err)
	header := http.Header{"Authorization": []string{"Bearer " + token}}

	rec := doRequest(router, http.MethodPost, "/api/tracks/t1/like", nil, header)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["liked"])
	assert.Equal(t, float64(1), body["likes"])

	rec = doRequest(router, http.MethodPost, "/api/tracks/t1/like", nil, header)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	assert.Equal(t, false, body["liked"])
	assert.Equal(t, float64(0), body["likes"])
}

func TestLikeMissingTrack(t *testing.T) {
	router, _ := newTestRouter(newFakeTrackRepo())

	token, err := auth.GenerateToken("p1", "demo")
	require.NoError(t, err)
	header := http.Header{"Authorization": []string{"Bearer " + token}}

	rec := doRequest(router, http.MethodPost, "/api/tracks/missing/like", nil, header)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPlayDebouncedBySignedCookie(t *testing.T) {
	repo := newFakeTrackRepo(demoTrack("t1", "Neon Skyline Kick"))
	router, _ := newTestRouter(repo)

	rec := doRequest(router, http.MethodPost, "/api/tracks/t1/play", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["counted"])
	assert.Equal(t, float64(1), body["plays"])

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	header := http.Header{}
	for _, cookie := range cookies {
		header.Add("Cookie", cookie.String())
	}
	rec = doRequest(router, http.MethodPost, "/api/tracks/t1/play", nil, header)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	assert.Equal(t, false, body["counted"])
	assert.Equal(t, float64(1), body["plays"])
	assert.Equal(t, int64(1), repo.tracks["t1"].Plays)
}

func TestPlayMissingTrack(t *testing.T) {
	router, _ := newTestRouter(newFakeTrackRepo())

	rec := doRequest(router, http.MethodPost, "/api/tracks/missing/play", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetProfileWithTracks(t *testing.T) {
	router, _ := newTestRouter(newFakeTrackRepo(demoTrack("t1", "Neon Skyline Kick")))

	rec := doRequest(router, http.MethodGet, "/api/profiles/demo", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	profile := body["profile"].(map[string]interface{})
	assert.Equal(t, "demo", profile["handle"])
	tracks := body["tracks"].([]interface{})
	require.Len(t, tracks, 1)
}

func TestGetProfileNotFound(t *testing.T) {
	router, _ := newTestRouter(newFakeTrackRepo())

	rec := doRequest(router, http.MethodGet, "/api/profiles/nobody", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
