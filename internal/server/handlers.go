package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"

	"github.com/keshav-star/devlist/internal/models"
	"github.com/keshav-star/devlist/internal/shared"
	"github.com/keshav-star/devlist/internal/store"
)

// TokenHeader carries the owner token on API requests. A "token" cookie
// is accepted as a fallback.
const TokenHeader = "X-Devlist-Token"

var validate = validator.New()

// ownerToken extracts the owner token from the request, header first.
func ownerToken(r *http.Request) (string, error) {
	if token := r.Header.Get(TokenHeader); token != "" {
		return token, nil
	}

	if cookie, err := r.Cookie("token"); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	return "", fmt.Errorf("%w: no token header or cookie", shared.ErrMissingToken)
}

// errorResponse is the JSON body for every non-2xx answer.
type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps store sentinel errors onto HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, shared.ErrValidation), errors.Is(err, shared.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, shared.ErrMissingToken), errors.Is(err, shared.ErrInvalidToken),
		errors.Is(err, shared.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, shared.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, shared.ErrDuplicateVideo), errors.Is(err, shared.ErrConflict):
		status = http.StatusConflict
	}

	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// decodeJSON decodes and validates a request body into dst.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: malformed JSON body: %v", shared.ErrInvalidInput, err)
	}

	if err := validate.Struct(dst); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	return nil
}

// OwnerHandler issues and resolves owner tokens.
type OwnerHandler struct {
	store  store.Store
	logger *log.Logger
}

func NewOwnerHandler(s store.Store, logger *log.Logger) *OwnerHandler {
	return &OwnerHandler{store: s, logger: logger}
}

func (h *OwnerHandler) Routes() []string {
	return []string{
		"POST /api/owners",
		"GET /api/owners/me",
	}
}

type createOwnerRequest struct {
	Name string `json:"name" validate:"required"`
}

// ownerResponse echoes the owner identity. The id doubles as the token.
type ownerResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (h *OwnerHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.create(w, r)
	case http.MethodGet:
		h.whoami(w, r)
	}
}

func (h *OwnerHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createOwnerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	owner, err := h.store.CreateOwner(r.Context(), req.Name)
	if err != nil {
		writeError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    owner.ID,
		Path:     "/",
		HttpOnly: true,
	})

	h.logger.Info("owner registered", "id", owner.ID)
	writeJSON(w, http.StatusCreated, ownerResponse{ID: owner.ID, Name: owner.Name})
}

func (h *OwnerHandler) whoami(w http.ResponseWriter, r *http.Request) {
	token, err := ownerToken(r)
	if err != nil {
		writeError(w, err)
		return
	}

	owner, err := h.store.VerifyOwner(r.Context(), token)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ownerResponse{ID: owner.ID, Name: owner.Name})
}

// PlaylistHandler serves the playlist and video-entry routes.
type PlaylistHandler struct {
	store  store.Store
	logger *log.Logger
}

func NewPlaylistHandler(s store.Store, logger *log.Logger) *PlaylistHandler {
	return &PlaylistHandler{store: s, logger: logger}
}

func (h *PlaylistHandler) Routes() []string {
	return []string{
		"GET /api/playlists",
		"POST /api/playlists",
		"GET /api/playlists/{id}",
		"PATCH /api/playlists/{id}",
		"DELETE /api/playlists/{id}",
		"POST /api/playlists/{id}/videos",
		"PATCH /api/playlists/{id}/videos/{videoId}",
		"DELETE /api/playlists/{id}/videos/{videoId}",
	}
}

type createPlaylistRequest struct {
	Name string `json:"name" validate:"required"`
}

type renamePlaylistRequest struct {
	Name string `json:"name" validate:"required"`
}

type addVideoRequest struct {
	Title    string `json:"title" validate:"required"`
	Kind     string `json:"kind" validate:"omitempty,oneof=youtube link"`
	VideoRef string `json:"videoRef"`
	URL      string `json:"url" validate:"omitempty,url"`
	Note     string `json:"note"`
}

// patchVideoRequest applies only the fields that are present. A status,
// when given, is applied after the field patch.
type patchVideoRequest struct {
	Title  *string `json:"title"`
	Note   *string `json:"note"`
	Status *string `json:"status" validate:"omitempty,oneof=to-watch watching watched"`
}

func (h *PlaylistHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	videoID := r.PathValue("videoId")

	switch {
	case videoID != "":
		h.serveVideo(w, r, id, videoID)
	case r.URL.Path == "/api/playlists" || id == "":
		h.serveCollection(w, r)
	case r.Method == http.MethodPost:
		h.addVideo(w, r, id)
	default:
		h.servePlaylist(w, r, id)
	}
}

func (h *PlaylistHandler) serveCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	}
}

func (h *PlaylistHandler) servePlaylist(w http.ResponseWriter, r *http.Request, id string) {
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodPatch:
		h.rename(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	}
}

func (h *PlaylistHandler) serveVideo(w http.ResponseWriter, r *http.Request, id, videoID string) {
	switch r.Method {
	case http.MethodPatch:
		h.patchVideo(w, r, id, videoID)
	case http.MethodDelete:
		h.removeVideo(w, r, id, videoID)
	}
}

func (h *PlaylistHandler) list(w http.ResponseWriter, r *http.Request) {
	token, err := ownerToken(r)
	if err != nil {
		writeError(w, err)
		return
	}

	playlists, err := h.store.ListPlaylists(r.Context(), token)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, playlists)
}

func (h *PlaylistHandler) create(w http.ResponseWriter, r *http.Request) {
	token, err := ownerToken(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req createPlaylistRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	playlist, err := h.store.CreatePlaylist(r.Context(), token, req.Name)
	if err != nil {
		writeError(w, err)
		return
	}

	h.logger.Info("playlist created", "id", playlist.ID, "name", playlist.Name)
	writeJSON(w, http.StatusCreated, playlist)
}

func (h *PlaylistHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	playlist, err := h.store.GetPlaylist(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	// Reads are public; the owner id is only echoed to its owner.
	token, _ := ownerToken(r)
	writeJSON(w, http.StatusOK, playlist.Sanitized(token))
}

func (h *PlaylistHandler) rename(w http.ResponseWriter, r *http.Request, id string) {
	var req renamePlaylistRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	playlist, err := h.store.RenamePlaylist(r.Context(), id, req.Name)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, playlist)
}

func (h *PlaylistHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	token, err := ownerToken(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.store.DeletePlaylist(r.Context(), id, token); err != nil {
		writeError(w, err)
		return
	}

	h.logger.Info("playlist deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *PlaylistHandler) addVideo(w http.ResponseWriter, r *http.Request, id string) {
	token, err := ownerToken(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req addVideoRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	playlist, err := h.store.AddVideo(r.Context(), id, token, models.NewVideo{
		Title:    req.Title,
		Kind:     models.VideoKind(req.Kind),
		VideoRef: req.VideoRef,
		URL:      req.URL,
		Note:     req.Note,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, playlist)
}

func (h *PlaylistHandler) patchVideo(w http.ResponseWriter, r *http.Request, id, videoID string) {
	token, err := ownerToken(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req patchVideoRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if req.Title == nil && req.Note == nil && req.Status == nil {
		writeError(w, fmt.Errorf("%w: empty patch", shared.ErrInvalidInput))
		return
	}

	// Field and status changes land as one saved aggregate: a single
	// version bump, never a half-applied patch.
	ctx := r.Context()
	playlist, err := h.store.GetPlaylist(ctx, id)
	if err != nil {
		writeError(w, err)
		return
	}
	if !playlist.OwnedBy(token) {
		writeError(w, fmt.Errorf("%w: playlist %s", shared.ErrUnauthorized, id))
		return
	}

	if req.Title != nil || req.Note != nil {
		if err := playlist.PatchVideo(videoID, models.VideoPatch{Title: req.Title, Note: req.Note}); err != nil {
			writeError(w, err)
			return
		}
	}

	if req.Status != nil {
		if err := playlist.SetVideoStatus(videoID, models.Status(*req.Status)); err != nil {
			writeError(w, err)
			return
		}
	}

	saved, err := h.store.SavePlaylist(ctx, playlist)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, saved)
}

func (h *PlaylistHandler) removeVideo(w http.ResponseWriter, r *http.Request, id, videoID string) {
	token, err := ownerToken(r)
	if err != nil {
		writeError(w, err)
		return
	}

	playlist, err := h.store.RemoveVideo(r.Context(), id, token, videoID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, playlist)
}

// HealthHandler answers liveness probes.
type HealthHandler struct{}

func (h HealthHandler) Routes() []string {
	return []string{"GET /health"}
}

func (h HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// New assembles the full API router over a store.
func New(s store.Store, logger *log.Logger, rateLimit float64, rateBurst int) *BasicRouter {
	router := NewBasicRouter()
	router.Use(Recover(logger), Logging(logger), RateLimit(rateLimit, rateBurst))

	router.Handler(NewOwnerHandler(s, logger))
	router.Handler(NewPlaylistHandler(s, logger))
	router.Handler(HealthHandler{})

	return router
}
