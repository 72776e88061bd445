package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/keshav-star/devlist/internal/models"
	"github.com/keshav-star/devlist/internal/shared"
	"github.com/keshav-star/devlist/internal/store"
)

func newTestServer(t *testing.T) (*httptest.Server, store.Store) {
	t.Helper()

	s := store.NewMemoryStore()
	logger := shared.NewLogger(io.Discard)

	server := httptest.NewServer(New(s, logger, 1000, 1000))
	t.Cleanup(server.Close)

	return server, s
}

// request performs an HTTP call with an optional token and JSON body,
// decoding the JSON response into out when out is non-nil.
func request(t *testing.T, client *http.Client, method, url, token string, body, out any) int {
	t.Helper()

	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, payload)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	if token != "" {
		req.Header.Set(TokenHeader, token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
	}

	return resp.StatusCode
}

func registerOwner(t *testing.T, client *http.Client, baseURL, name string) string {
	t.Helper()

	var owner struct {
		ID string `json:"id"`
	}
	status := request(t, client, http.MethodPost, baseURL+"/api/owners", "", map[string]string{"name": name}, &owner)
	if status != http.StatusCreated {
		t.Fatalf("expected 201 registering owner, got %d", status)
	}
	if owner.ID == "" {
		t.Fatal("expected owner id in response")
	}

	return owner.ID
}

func TestOwnerRoutes(t *testing.T) {
	server, _ := newTestServer(t)
	client := server.Client()

	t.Run("register sets token cookie", func(t *testing.T) {
		resp, err := client.Post(server.URL+"/api/owners", "application/json",
			bytes.NewReader([]byte(`{"name":"Dev"}`)))
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("expected 201, got %d", resp.StatusCode)
		}

		var cookie *http.Cookie
		for _, c := range resp.Cookies() {
			if c.Name == "token" {
				cookie = c
			}
		}
		if cookie == nil || cookie.Value == "" {
			t.Fatal("expected token cookie to be set")
		}
	})

	t.Run("register rejects missing name", func(t *testing.T) {
		status := request(t, client, http.MethodPost, server.URL+"/api/owners", "", map[string]string{}, nil)
		if status != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", status)
		}
	})

	t.Run("whoami resolves the token", func(t *testing.T) {
		token := registerOwner(t, client, server.URL, "Dev")

		var owner struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		}
		status := request(t, client, http.MethodGet, server.URL+"/api/owners/me", token, nil, &owner)
		if status != http.StatusOK {
			t.Fatalf("expected 200, got %d", status)
		}
		if owner.ID != token || owner.Name != "Dev" {
			t.Errorf("unexpected owner: %+v", owner)
		}
	})

	t.Run("whoami without token", func(t *testing.T) {
		status := request(t, client, http.MethodGet, server.URL+"/api/owners/me", "", nil, nil)
		if status != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", status)
		}
	})

	t.Run("whoami with unknown token", func(t *testing.T) {
		status := request(t, client, http.MethodGet, server.URL+"/api/owners/me", "bogus", nil, nil)
		if status != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", status)
		}
	})
}

func TestPlaylistRoutes(t *testing.T) {
	server, _ := newTestServer(t)
	client := server.Client()
	base := server.URL

	ownerA := registerOwner(t, client, base, "A")
	ownerB := registerOwner(t, client, base, "B")

	var playlist models.Playlist

	t.Run("create requires a token", func(t *testing.T) {
		status := request(t, client, http.MethodPost, base+"/api/playlists", "", map[string]string{"name": "Learning"}, nil)
		if status != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", status)
		}
	})

	t.Run("create", func(t *testing.T) {
		status := request(t, client, http.MethodPost, base+"/api/playlists", ownerA, map[string]string{"name": "Learning"}, &playlist)
		if status != http.StatusCreated {
			t.Fatalf("expected 201, got %d", status)
		}
		if playlist.Name != "Learning" || playlist.OwnerID != ownerA {
			t.Errorf("unexpected playlist: %+v", playlist)
		}
	})

	t.Run("list is owner scoped", func(t *testing.T) {
		var mine []models.Playlist
		status := request(t, client, http.MethodGet, base+"/api/playlists", ownerA, nil, &mine)
		if status != http.StatusOK {
			t.Fatalf("expected 200, got %d", status)
		}
		if len(mine) != 1 {
			t.Errorf("expected 1 playlist, got %d", len(mine))
		}

		var theirs []models.Playlist
		request(t, client, http.MethodGet, base+"/api/playlists", ownerB, nil, &theirs)
		if len(theirs) != 0 {
			t.Errorf("expected 0 playlists for other owner, got %d", len(theirs))
		}
	})

	t.Run("read is public but sanitized", func(t *testing.T) {
		var got models.Playlist
		status := request(t, client, http.MethodGet, base+"/api/playlists/"+playlist.ID, "", nil, &got)
		if status != http.StatusOK {
			t.Fatalf("expected 200, got %d", status)
		}
		if got.OwnerID != "" {
			t.Errorf("owner id should be stripped for anonymous reads, got %q", got.OwnerID)
		}

		request(t, client, http.MethodGet, base+"/api/playlists/"+playlist.ID, ownerA, nil, &got)
		if got.OwnerID != ownerA {
			t.Errorf("owner id should be echoed to the owner, got %q", got.OwnerID)
		}
	})

	t.Run("read missing playlist", func(t *testing.T) {
		status := request(t, client, http.MethodGet, base+"/api/playlists/missing", "", nil, nil)
		if status != http.StatusNotFound {
			t.Errorf("expected 404, got %d", status)
		}
	})

	t.Run("rename", func(t *testing.T) {
		var got models.Playlist
		status := request(t, client, http.MethodPatch, base+"/api/playlists/"+playlist.ID, "", map[string]string{"name": "Go Learning"}, &got)
		if status != http.StatusOK {
			t.Fatalf("expected 200, got %d", status)
		}
		if got.Name != "Go Learning" {
			t.Errorf("expected renamed playlist, got %q", got.Name)
		}
	})

	t.Run("delete by non-owner", func(t *testing.T) {
		status := request(t, client, http.MethodDelete, base+"/api/playlists/"+playlist.ID, ownerB, nil, nil)
		if status != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", status)
		}
	})

	t.Run("delete by owner", func(t *testing.T) {
		status := request(t, client, http.MethodDelete, base+"/api/playlists/"+playlist.ID, ownerA, nil, nil)
		if status != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", status)
		}

		status = request(t, client, http.MethodGet, base+"/api/playlists/"+playlist.ID, "", nil, nil)
		if status != http.StatusNotFound {
			t.Errorf("expected 404 after delete, got %d", status)
		}
	})
}

func TestVideoRoutes(t *testing.T) {
	server, _ := newTestServer(t)
	client := server.Client()
	base := server.URL

	ownerA := registerOwner(t, client, base, "A")
	ownerB := registerOwner(t, client, base, "B")

	var playlist models.Playlist
	request(t, client, http.MethodPost, base+"/api/playlists", ownerA, map[string]string{"name": "Learning"}, &playlist)
	videosURL := base + "/api/playlists/" + playlist.ID + "/videos"

	var videoID string

	t.Run("add youtube entry", func(t *testing.T) {
		var got models.Playlist
		status := request(t, client, http.MethodPost, videosURL, ownerA, map[string]string{
			"title":    "Intro",
			"kind":     "youtube",
			"videoRef": "abc123",
		}, &got)
		if status != http.StatusCreated {
			t.Fatalf("expected 201, got %d", status)
		}
		if len(got.Videos) != 1 || got.Videos[0].Status != models.StatusToWatch {
			t.Fatalf("unexpected videos: %+v", got.Videos)
		}
		videoID = got.Videos[0].ID
	})

	t.Run("duplicate entry answers 409", func(t *testing.T) {
		status := request(t, client, http.MethodPost, videosURL, ownerA, map[string]string{
			"title":    "Intro again",
			"kind":     "youtube",
			"videoRef": "abc123",
		}, nil)
		if status != http.StatusConflict {
			t.Errorf("expected 409, got %d", status)
		}
	})

	t.Run("add by non-owner", func(t *testing.T) {
		status := request(t, client, http.MethodPost, videosURL, ownerB, map[string]string{
			"title": "Sneaky",
			"kind":  "link",
			"url":   "https://example.com",
		}, nil)
		if status != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", status)
		}
	})

	t.Run("invalid kind answers 400", func(t *testing.T) {
		status := request(t, client, http.MethodPost, videosURL, ownerA, map[string]string{
			"title": "Bad",
			"kind":  "vimeo",
		}, nil)
		if status != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", status)
		}
	})

	t.Run("patch fields", func(t *testing.T) {
		var got models.Playlist
		status := request(t, client, http.MethodPatch, videosURL+"/"+videoID, ownerA, map[string]string{
			"note": "rewatch the middle part",
		}, &got)
		if status != http.StatusOK {
			t.Fatalf("expected 200, got %d", status)
		}
		if got.Videos[0].Note != "rewatch the middle part" {
			t.Errorf("expected patched note, got %q", got.Videos[0].Note)
		}
		if got.Videos[0].Title != "Intro" {
			t.Errorf("title should be untouched, got %q", got.Videos[0].Title)
		}
	})

	t.Run("patch status", func(t *testing.T) {
		var got models.Playlist
		status := request(t, client, http.MethodPatch, videosURL+"/"+videoID, ownerA, map[string]string{
			"status": "watching",
		}, &got)
		if status != http.StatusOK {
			t.Fatalf("expected 200, got %d", status)
		}
		if got.Videos[0].Status != models.StatusWatching {
			t.Errorf("expected status watching, got %s", got.Videos[0].Status)
		}
	})

	t.Run("patch with unknown status", func(t *testing.T) {
		status := request(t, client, http.MethodPatch, videosURL+"/"+videoID, ownerA, map[string]string{
			"status": "done",
		}, nil)
		if status != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", status)
		}
	})

	t.Run("empty patch", func(t *testing.T) {
		status := request(t, client, http.MethodPatch, videosURL+"/"+videoID, ownerA, map[string]string{}, nil)
		if status != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", status)
		}
	})

	t.Run("patch by non-owner", func(t *testing.T) {
		status := request(t, client, http.MethodPatch, videosURL+"/"+videoID, ownerB, map[string]string{
			"note": "sneaky",
		}, nil)
		if status != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", status)
		}
	})

	t.Run("patch fields and status in one save", func(t *testing.T) {
		var before models.Playlist
		request(t, client, http.MethodGet, base+"/api/playlists/"+playlist.ID, ownerA, nil, &before)

		var got models.Playlist
		status := request(t, client, http.MethodPatch, videosURL+"/"+videoID, ownerA, map[string]string{
			"title":  "Intro, annotated",
			"status": "watched",
		}, &got)
		if status != http.StatusOK {
			t.Fatalf("expected 200, got %d", status)
		}
		if got.Videos[0].Title != "Intro, annotated" || got.Videos[0].Status != models.StatusWatched {
			t.Errorf("expected both changes applied, got %+v", got.Videos[0])
		}
		if got.Version != before.Version+1 {
			t.Errorf("expected a single version bump from %d, got %d", before.Version, got.Version)
		}
	})

	t.Run("remove missing video", func(t *testing.T) {
		status := request(t, client, http.MethodDelete, videosURL+"/missing", ownerA, nil, nil)
		if status != http.StatusNotFound {
			t.Errorf("expected 404, got %d", status)
		}
	})

	t.Run("remove", func(t *testing.T) {
		var got models.Playlist
		status := request(t, client, http.MethodDelete, videosURL+"/"+videoID, ownerA, nil, &got)
		if status != http.StatusOK {
			t.Fatalf("expected 200, got %d", status)
		}
		if len(got.Videos) != 0 {
			t.Errorf("expected 0 videos, got %d", len(got.Videos))
		}
	})
}

func TestHealthRoute(t *testing.T) {
	server, _ := newTestServer(t)

	resp, err := server.Client().Get(server.URL + "/health")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
}

func TestRateLimit(t *testing.T) {
	s := store.NewMemoryStore()
	logger := shared.NewLogger(io.Discard)

	server := httptest.NewServer(New(s, logger, 1, 2))
	defer server.Close()

	limited := false
	for i := 0; i < 10; i++ {
		resp, err := server.Client().Get(server.URL + "/health")
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests {
			limited = true
			break
		}
	}

	if !limited {
		t.Error("expected a request to be rate limited")
	}
}
