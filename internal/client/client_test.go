package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/keshav-star/devlist/internal/models"
	"github.com/keshav-star/devlist/internal/server"
	"github.com/keshav-star/devlist/internal/shared"
	"github.com/keshav-star/devlist/internal/store"
)

// newTestAPI starts a real API over a memory store and returns a client
// plus a counter of requests that reached the server.
func newTestAPI(t *testing.T) (*Client, *atomic.Int64) {
	t.Helper()

	s := store.NewMemoryStore()
	logger := shared.NewLogger(io.Discard)
	router := server.New(s, logger, 1000, 1000)

	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		router.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)

	return NewClient(srv.URL, "", srv.Client()), &hits
}

func TestClient(t *testing.T) {
	c, _ := newTestAPI(t)
	ctx := context.Background()

	t.Run("register adopts the token", func(t *testing.T) {
		owner, err := c.RegisterOwner(ctx, "Dev")
		if err != nil {
			t.Fatalf("failed to register: %v", err)
		}
		if c.Token() != owner.ID {
			t.Errorf("expected client token %s, got %s", owner.ID, c.Token())
		}

		got, err := c.Whoami(ctx)
		if err != nil {
			t.Fatalf("failed to resolve token: %v", err)
		}
		if got.ID != owner.ID || got.Name != "Dev" {
			t.Errorf("unexpected owner: %+v", got)
		}
	})

	t.Run("playlist round trip", func(t *testing.T) {
		p, err := c.CreatePlaylist(ctx, "Learning")
		if err != nil {
			t.Fatalf("failed to create playlist: %v", err)
		}

		p, err = c.AddVideo(ctx, p.ID, models.NewVideo{Title: "Intro", Kind: models.KindYouTube, VideoRef: "abc123"})
		if err != nil {
			t.Fatalf("failed to add video: %v", err)
		}
		if len(p.Videos) != 1 {
			t.Fatalf("expected 1 video, got %d", len(p.Videos))
		}
		videoID := p.Videos[0].ID

		p, err = c.UpdateVideoStatus(ctx, p.ID, videoID, models.StatusWatching)
		if err != nil {
			t.Fatalf("failed to update status: %v", err)
		}
		if p.Videos[0].Status != models.StatusWatching {
			t.Errorf("expected status watching, got %s", p.Videos[0].Status)
		}

		note := "good pacing"
		p, err = c.UpdateVideo(ctx, p.ID, videoID, models.VideoPatch{Note: &note})
		if err != nil {
			t.Fatalf("failed to patch video: %v", err)
		}
		if p.Videos[0].Note != "good pacing" {
			t.Errorf("expected patched note, got %q", p.Videos[0].Note)
		}

		p, err = c.RemoveVideo(ctx, p.ID, videoID)
		if err != nil {
			t.Fatalf("failed to remove video: %v", err)
		}
		if len(p.Videos) != 0 {
			t.Errorf("expected 0 videos, got %d", len(p.Videos))
		}

		if err := c.DeletePlaylist(ctx, p.ID); err != nil {
			t.Fatalf("failed to delete playlist: %v", err)
		}
	})

	t.Run("sentinel errors survive the wire", func(t *testing.T) {
		if _, err := c.GetPlaylist(ctx, "missing"); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}

		p, err := c.CreatePlaylist(ctx, "Dup check")
		if err != nil {
			t.Fatalf("failed to create playlist: %v", err)
		}

		entry := models.NewVideo{Title: "Intro", Kind: models.KindYouTube, VideoRef: "abc123"}
		if _, err := c.AddVideo(ctx, p.ID, entry); err != nil {
			t.Fatalf("failed to add video: %v", err)
		}
		if _, err := c.AddVideo(ctx, p.ID, entry); !errors.Is(err, shared.ErrDuplicateVideo) {
			t.Errorf("expected ErrDuplicateVideo, got %v", err)
		}

		if _, err := c.CreatePlaylist(ctx, ""); !errors.Is(err, shared.ErrValidation) {
			t.Errorf("expected ErrValidation, got %v", err)
		}

		anonymous := NewClient(c.baseURL, "", c.httpClient)
		if _, err := anonymous.ListPlaylists(ctx); !errors.Is(err, shared.ErrUnauthorized) {
			t.Errorf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("health", func(t *testing.T) {
		if err := c.Health(ctx); err != nil {
			t.Errorf("expected healthy server, got %v", err)
		}
	})
}

func TestAPIError(t *testing.T) {
	t.Run("conflict flavors", func(t *testing.T) {
		err := apiError(http.StatusConflict, "stale version: playlist x is at version 3, save was based on 2")
		if !errors.Is(err, shared.ErrConflict) {
			t.Errorf("expected ErrConflict, got %v", err)
		}

		err = apiError(http.StatusConflict, "video already in playlist: abc123")
		if !errors.Is(err, shared.ErrDuplicateVideo) {
			t.Errorf("expected ErrDuplicateVideo, got %v", err)
		}
	})

	t.Run("unmapped status falls back to store error", func(t *testing.T) {
		if err := apiError(http.StatusBadGateway, "boom"); !errors.Is(err, shared.ErrStore) {
			t.Errorf("expected ErrStore, got %v", err)
		}
	})
}

func TestSyncedCache(t *testing.T) {
	c, hits := newTestAPI(t)
	ctx := context.Background()

	if _, err := c.RegisterOwner(ctx, "Dev"); err != nil {
		t.Fatalf("failed to register: %v", err)
	}

	cache := NewSyncedCache(c)

	p, err := cache.CreatePlaylist(ctx, "Learning")
	if err != nil {
		t.Fatalf("failed to create playlist: %v", err)
	}

	t.Run("reads are served from cache", func(t *testing.T) {
		before := hits.Load()

		for i := 0; i < 3; i++ {
			got, err := cache.Get(ctx, p.ID)
			if err != nil {
				t.Fatalf("failed to get playlist: %v", err)
			}
			if got.ID != p.ID {
				t.Errorf("unexpected playlist: %+v", got)
			}
		}

		if hits.Load() != before {
			t.Errorf("expected cached reads, server saw %d extra requests", hits.Load()-before)
		}
	})

	t.Run("mutations merge the returned aggregate", func(t *testing.T) {
		updated, err := cache.AddVideo(ctx, p.ID, models.NewVideo{Title: "Intro", Kind: models.KindYouTube, VideoRef: "abc123"})
		if err != nil {
			t.Fatalf("failed to add video: %v", err)
		}

		before := hits.Load()
		got, err := cache.Get(ctx, p.ID)
		if err != nil {
			t.Fatalf("failed to get playlist: %v", err)
		}
		if hits.Load() != before {
			t.Error("merged mutation result should serve reads without a refetch")
		}
		if len(got.Videos) != 1 || got.Version != updated.Version {
			t.Errorf("cache out of sync: %+v", got)
		}
	})

	t.Run("invalidate forces a refetch", func(t *testing.T) {
		cache.Invalidate(p.ID)

		before := hits.Load()
		got, err := cache.Get(ctx, p.ID)
		if err != nil {
			t.Fatalf("failed to get playlist: %v", err)
		}
		if hits.Load() != before+1 {
			t.Errorf("expected exactly one refetch, server saw %d", hits.Load()-before)
		}
		if len(got.Videos) != 1 {
			t.Errorf("refetched playlist out of sync: %+v", got)
		}
	})

	t.Run("delete evicts", func(t *testing.T) {
		if err := cache.DeletePlaylist(ctx, p.ID); err != nil {
			t.Fatalf("failed to delete playlist: %v", err)
		}

		if _, err := cache.Get(ctx, p.ID); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound after delete, got %v", err)
		}
	})

	t.Run("list replaces the cache", func(t *testing.T) {
		first, err := cache.CreatePlaylist(ctx, "First")
		if err != nil {
			t.Fatalf("failed to create playlist: %v", err)
		}

		playlists, err := cache.List(ctx)
		if err != nil {
			t.Fatalf("failed to list: %v", err)
		}
		if len(playlists) != 1 || playlists[0].ID != first.ID {
			t.Errorf("unexpected listing: %+v", playlists)
		}

		before := hits.Load()
		if _, err := cache.Get(ctx, first.ID); err != nil {
			t.Fatalf("failed to get playlist: %v", err)
		}
		if hits.Load() != before {
			t.Error("listing should warm the cache")
		}
	})
}
