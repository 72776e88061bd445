// Package client provides an HTTP client for the playlist API and a
// synced cache over it.
//
// [Client] mirrors the store operations without owner ids: the owner
// token rides on every request and the server resolves it. Non-2xx
// answers are mapped back onto the shared sentinel errors, so callers
// can errors.Is against the same taxonomy the store uses.
//
// [SyncedCache] keeps a local mirror of playlists. Mutations merge the
// returned aggregate into the cache; anything marked stale is refetched
// on the next read.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/keshav-star/devlist/internal/models"
	"github.com/keshav-star/devlist/internal/server"
	"github.com/keshav-star/devlist/internal/shared"
)

const defaultBaseURL = "http://localhost:3000"

// Client is an HTTP wrapper over the playlist API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a client for the API at baseURL, authenticating with
// token. Pass nil to use [http.DefaultClient].
func NewClient(baseURL, token string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: httpClient,
	}
}

// SetToken replaces the owner token used on subsequent requests.
func (c *Client) SetToken(token string) { c.token = token }

// Token returns the owner token currently in use.
func (c *Client) Token() string { return c.token }

// apiError reconstructs a sentinel error from a non-2xx response.
func apiError(status int, message string) error {
	var sentinel error

	switch status {
	case http.StatusBadRequest:
		sentinel = shared.ErrValidation
	case http.StatusUnauthorized:
		sentinel = shared.ErrUnauthorized
	case http.StatusNotFound:
		sentinel = shared.ErrNotFound
	case http.StatusConflict:
		// The server folds both conflict flavors into 409.
		if strings.Contains(message, "stale version") {
			sentinel = shared.ErrConflict
		} else {
			sentinel = shared.ErrDuplicateVideo
		}
	case http.StatusTooManyRequests:
		sentinel = shared.ErrStore
	default:
		sentinel = shared.ErrStore
	}

	return fmt.Errorf("%w: server answered %d: %s", sentinel, status, message)
}

// do performs a request and decodes the JSON response into out when out
// is non-nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: failed to encode request: %v", shared.ErrInvalidInput, err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set(server.TokenHeader, c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: request failed: %v", shared.ErrStore, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		data, _ := io.ReadAll(resp.Body)
		if err := json.Unmarshal(data, &apiErr); err != nil {
			apiErr.Error = strings.TrimSpace(string(data))
		}
		return apiError(resp.StatusCode, apiErr.Error)
	}

	if out != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: failed to decode response: %v", shared.ErrStore, err)
		}
	}

	return nil
}

// RegisterOwner registers a new owner and adopts the returned id as the
// client's token.
func (c *Client) RegisterOwner(ctx context.Context, name string) (*models.Owner, error) {
	var owner models.Owner
	if err := c.do(ctx, http.MethodPost, "/api/owners", map[string]string{"name": name}, &owner); err != nil {
		return nil, err
	}

	c.token = owner.ID
	return &owner, nil
}

// Whoami resolves the client's token into an owner.
func (c *Client) Whoami(ctx context.Context) (*models.Owner, error) {
	var owner models.Owner
	if err := c.do(ctx, http.MethodGet, "/api/owners/me", nil, &owner); err != nil {
		return nil, err
	}

	return &owner, nil
}

// ListPlaylists returns the token owner's playlists, newest first.
func (c *Client) ListPlaylists(ctx context.Context) ([]*models.Playlist, error) {
	var playlists []*models.Playlist
	if err := c.do(ctx, http.MethodGet, "/api/playlists", nil, &playlists); err != nil {
		return nil, err
	}

	return playlists, nil
}

// CreatePlaylist creates an empty playlist owned by the token owner.
func (c *Client) CreatePlaylist(ctx context.Context, name string) (*models.Playlist, error) {
	var playlist models.Playlist
	if err := c.do(ctx, http.MethodPost, "/api/playlists", map[string]string{"name": name}, &playlist); err != nil {
		return nil, err
	}

	return &playlist, nil
}

// GetPlaylist fetches a playlist by id.
func (c *Client) GetPlaylist(ctx context.Context, id string) (*models.Playlist, error) {
	var playlist models.Playlist
	if err := c.do(ctx, http.MethodGet, "/api/playlists/"+id, nil, &playlist); err != nil {
		return nil, err
	}

	return &playlist, nil
}

// RenamePlaylist renames a playlist.
func (c *Client) RenamePlaylist(ctx context.Context, id, name string) (*models.Playlist, error) {
	var playlist models.Playlist
	if err := c.do(ctx, http.MethodPatch, "/api/playlists/"+id, map[string]string{"name": name}, &playlist); err != nil {
		return nil, err
	}

	return &playlist, nil
}

// DeletePlaylist deletes a playlist owned by the token owner.
func (c *Client) DeletePlaylist(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/playlists/"+id, nil, nil)
}

// AddVideo appends a video entry to a playlist.
func (c *Client) AddVideo(ctx context.Context, id string, input models.NewVideo) (*models.Playlist, error) {
	var playlist models.Playlist
	if err := c.do(ctx, http.MethodPost, "/api/playlists/"+id+"/videos", input, &playlist); err != nil {
		return nil, err
	}

	return &playlist, nil
}

// UpdateVideo patches the provided fields of a video entry.
func (c *Client) UpdateVideo(ctx context.Context, id, videoID string, patch models.VideoPatch) (*models.Playlist, error) {
	var playlist models.Playlist
	if err := c.do(ctx, http.MethodPatch, "/api/playlists/"+id+"/videos/"+videoID, patch, &playlist); err != nil {
		return nil, err
	}

	return &playlist, nil
}

// UpdateVideoStatus sets a video entry's watch status.
func (c *Client) UpdateVideoStatus(ctx context.Context, id, videoID string, status models.Status) (*models.Playlist, error) {
	var playlist models.Playlist
	body := map[string]string{"status": string(status)}
	if err := c.do(ctx, http.MethodPatch, "/api/playlists/"+id+"/videos/"+videoID, body, &playlist); err != nil {
		return nil, err
	}

	return &playlist, nil
}

// RemoveVideo removes a video entry from a playlist.
func (c *Client) RemoveVideo(ctx context.Context, id, videoID string) (*models.Playlist, error) {
	var playlist models.Playlist
	if err := c.do(ctx, http.MethodDelete, "/api/playlists/"+id+"/videos/"+videoID, nil, &playlist); err != nil {
		return nil, err
	}

	return &playlist, nil
}

// Health checks the server's liveness endpoint.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}
