package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/keshav-star/devlist/internal/models"
	"github.com/keshav-star/devlist/internal/shared"
)

// MemoryStore is the arena implementation: a map of playlist id to
// aggregate guarded by a mutex. Aggregates are deep-copied on the way in
// and out so callers never alias stored state.
//
// Used for tests and as the "memory" database driver.
type MemoryStore struct {
	mu        sync.RWMutex
	playlists map[string]*models.Playlist
	owners    map[string]*models.Owner
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		playlists: make(map[string]*models.Playlist),
		owners:    make(map[string]*models.Owner),
	}
}

// CreatePlaylist creates an empty playlist for ownerID.
func (s *MemoryStore) CreatePlaylist(ctx context.Context, ownerID, name string) (*models.Playlist, error) {
	playlist, err := models.NewPlaylist(ownerID, name)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.playlists[playlist.ID] = playlist.Clone()
	s.mu.Unlock()

	return playlist, nil
}

// ListPlaylists returns ownerID's playlists, newest createdAt first.
func (s *MemoryStore) ListPlaylists(ctx context.Context, ownerID string) ([]*models.Playlist, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	playlists := []*models.Playlist{}
	for _, p := range s.playlists {
		if p.OwnerID == ownerID {
			playlists = append(playlists, p.Clone())
		}
	}

	sort.Slice(playlists, func(i, j int) bool {
		return playlists[i].CreatedAt.After(playlists[j].CreatedAt)
	})

	return playlists, nil
}

// GetPlaylist retrieves a playlist by id.
func (s *MemoryStore) GetPlaylist(ctx context.Context, id string) (*models.Playlist, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.playlists[id]
	if !ok {
		return nil, fmt.Errorf("%w: playlist %s", shared.ErrNotFound, id)
	}

	return p.Clone(), nil
}

// RenamePlaylist trims and applies a new name.
func (s *MemoryStore) RenamePlaylist(ctx context.Context, id, name string) (*models.Playlist, error) {
	return s.mutate(id, nil, func(p *models.Playlist) error {
		return p.Rename(name)
	})
}

// DeletePlaylist removes the playlist and its embedded videos.
func (s *MemoryStore) DeletePlaylist(ctx context.Context, id, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.playlists[id]
	if !ok {
		return fmt.Errorf("%w: playlist %s", shared.ErrNotFound, id)
	}
	if err := authorize(p, ownerID); err != nil {
		return err
	}

	delete(s.playlists, id)
	return nil
}

// AddVideo appends a validated entry to the playlist.
func (s *MemoryStore) AddVideo(ctx context.Context, playlistID, ownerID string, input models.NewVideo) (*models.Playlist, error) {
	return s.mutate(playlistID, owned(ownerID), func(p *models.Playlist) error {
		_, err := p.AddVideo(input)
		return err
	})
}

// RemoveVideo deletes an entry by id.
func (s *MemoryStore) RemoveVideo(ctx context.Context, playlistID, ownerID, videoID string) (*models.Playlist, error) {
	return s.mutate(playlistID, owned(ownerID), func(p *models.Playlist) error {
		return p.RemoveVideo(videoID)
	})
}

// UpdateVideo applies a partial title/note patch to an entry.
func (s *MemoryStore) UpdateVideo(ctx context.Context, playlistID, ownerID, videoID string, patch models.VideoPatch) (*models.Playlist, error) {
	return s.mutate(playlistID, owned(ownerID), func(p *models.Playlist) error {
		return p.PatchVideo(videoID, patch)
	})
}

// UpdateVideoStatus moves an entry to the given watch status.
func (s *MemoryStore) UpdateVideoStatus(ctx context.Context, playlistID, ownerID, videoID string, status models.Status) (*models.Playlist, error) {
	return s.mutate(playlistID, owned(ownerID), func(p *models.Playlist) error {
		return p.SetVideoStatus(videoID, status)
	})
}

// SavePlaylist writes back an aggregate, rejecting stale base versions.
func (s *MemoryStore) SavePlaylist(ctx context.Context, playlist *models.Playlist) (*models.Playlist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.playlists[playlist.ID]
	if !ok {
		return nil, fmt.Errorf("%w: playlist %s", shared.ErrNotFound, playlist.ID)
	}
	if err := authorize(current, playlist.OwnerID); err != nil {
		return nil, err
	}
	if current.Version != playlist.Version {
		return nil, fmt.Errorf("%w: playlist %s is at version %d, save was based on %d",
			shared.ErrConflict, playlist.ID, current.Version, playlist.Version)
	}

	saved := playlist.Clone()
	saved.Version++
	saved.UpdatedAt = time.Now()
	s.playlists[saved.ID] = saved

	return saved.Clone(), nil
}

// CreateOwner registers a new owner identity.
func (s *MemoryStore) CreateOwner(ctx context.Context, name string) (*models.Owner, error) {
	owner, err := models.NewOwner(name)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.owners[owner.ID] = owner
	s.mu.Unlock()

	return owner, nil
}

// VerifyOwner resolves a presented token to its owner.
func (s *MemoryStore) VerifyOwner(ctx context.Context, id string) (*models.Owner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	owner, ok := s.owners[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", shared.ErrInvalidToken, id)
	}

	cp := *owner
	return &cp, nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error { return nil }

// mutate loads the aggregate, runs auth (nil for rename, which carries no
// ownership check), applies fn to a copy, and commits with a version bump,
// all under the write lock so the whole mutation is one unit.
func (s *MemoryStore) mutate(id string, auth func(*models.Playlist) error, fn func(*models.Playlist) error) (*models.Playlist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.playlists[id]
	if !ok {
		return nil, fmt.Errorf("%w: playlist %s", shared.ErrNotFound, id)
	}
	if auth != nil {
		if err := auth(current); err != nil {
			return nil, err
		}
	}

	next := current.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}

	next.Version = current.Version + 1
	s.playlists[id] = next

	return next.Clone(), nil
}

// owned adapts an ownerID into the auth hook used by [MemoryStore.mutate].
func owned(ownerID string) func(*models.Playlist) error {
	return func(p *models.Playlist) error {
		return authorize(p, ownerID)
	}
}
