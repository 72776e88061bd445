package client

import (
	"context"
	"sync"

	"github.com/keshav-star/devlist/internal/models"
)

// SyncedCache mirrors the owner's playlists on top of a [Client].
//
// Mutations go through the client and merge the returned aggregate via
// [SyncedCache.ApplyResult]. Entries marked stale with
// [SyncedCache.Invalidate] are refetched on the next read.
type SyncedCache struct {
	client *Client

	mu        sync.RWMutex
	playlists map[string]*models.Playlist
	stale     map[string]bool
}

// NewSyncedCache creates an empty cache over client.
func NewSyncedCache(client *Client) *SyncedCache {
	return &SyncedCache{
		client:    client,
		playlists: make(map[string]*models.Playlist),
		stale:     make(map[string]bool),
	}
}

// List fetches the owner's playlists and replaces the cache contents.
func (c *SyncedCache) List(ctx context.Context) ([]*models.Playlist, error) {
	playlists, err := c.client.ListPlaylists(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.playlists = make(map[string]*models.Playlist, len(playlists))
	c.stale = make(map[string]bool)
	for _, p := range playlists {
		c.playlists[p.ID] = p
	}
	c.mu.Unlock()

	return playlists, nil
}

// Get returns the cached playlist, refetching when it is missing or has
// been invalidated.
func (c *SyncedCache) Get(ctx context.Context, id string) (*models.Playlist, error) {
	c.mu.RLock()
	p, ok := c.playlists[id]
	fresh := ok && !c.stale[id]
	c.mu.RUnlock()

	if fresh {
		return p, nil
	}

	return c.Refetch(ctx, id)
}

// ApplyResult merges a returned aggregate into the cache and clears any
// stale mark on it.
func (c *SyncedCache) ApplyResult(p *models.Playlist) {
	c.mu.Lock()
	c.playlists[p.ID] = p
	delete(c.stale, p.ID)
	c.mu.Unlock()
}

// Invalidate marks a cached playlist stale without dropping it.
func (c *SyncedCache) Invalidate(id string) {
	c.mu.Lock()
	if _, ok := c.playlists[id]; ok {
		c.stale[id] = true
	}
	c.mu.Unlock()
}

// Refetch fetches a playlist from the server and caches it.
func (c *SyncedCache) Refetch(ctx context.Context, id string) (*models.Playlist, error) {
	p, err := c.client.GetPlaylist(ctx, id)
	if err != nil {
		return nil, err
	}

	c.ApplyResult(p)
	return p, nil
}

// CreatePlaylist creates a playlist and caches the result.
func (c *SyncedCache) CreatePlaylist(ctx context.Context, name string) (*models.Playlist, error) {
	p, err := c.client.CreatePlaylist(ctx, name)
	if err != nil {
		return nil, err
	}

	c.ApplyResult(p)
	return p, nil
}

// RenamePlaylist renames a playlist and merges the result.
func (c *SyncedCache) RenamePlaylist(ctx context.Context, id, name string) (*models.Playlist, error) {
	p, err := c.client.RenamePlaylist(ctx, id, name)
	if err != nil {
		return nil, err
	}

	c.ApplyResult(p)
	return p, nil
}

// DeletePlaylist deletes a playlist and evicts it from the cache.
func (c *SyncedCache) DeletePlaylist(ctx context.Context, id string) error {
	if err := c.client.DeletePlaylist(ctx, id); err != nil {
		return err
	}

	c.mu.Lock()
	delete(c.playlists, id)
	delete(c.stale, id)
	c.mu.Unlock()

	return nil
}

// AddVideo appends a video entry and merges the result.
func (c *SyncedCache) AddVideo(ctx context.Context, id string, input models.NewVideo) (*models.Playlist, error) {
	p, err := c.client.AddVideo(ctx, id, input)
	if err != nil {
		return nil, err
	}

	c.ApplyResult(p)
	return p, nil
}

// UpdateVideo patches a video entry and merges the result.
func (c *SyncedCache) UpdateVideo(ctx context.Context, id, videoID string, patch models.VideoPatch) (*models.Playlist, error) {
	p, err := c.client.UpdateVideo(ctx, id, videoID, patch)
	if err != nil {
		return nil, err
	}

	c.ApplyResult(p)
	return p, nil
}

// UpdateVideoStatus sets a video entry's status and merges the result.
func (c *SyncedCache) UpdateVideoStatus(ctx context.Context, id, videoID string, status models.Status) (*models.Playlist, error) {
	p, err := c.client.UpdateVideoStatus(ctx, id, videoID, status)
	if err != nil {
		return nil, err
	}

	c.ApplyResult(p)
	return p, nil
}

// RemoveVideo removes a video entry and merges the result.
func (c *SyncedCache) RemoveVideo(ctx context.Context, id, videoID string) (*models.Playlist, error) {
	p, err := c.client.RemoveVideo(ctx, id, videoID)
	if err != nil {
		return nil, err
	}

	c.ApplyResult(p)
	return p, nil
}
