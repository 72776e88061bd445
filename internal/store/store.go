// package store provides the persistence boundary for playlist aggregates.
//
// Every implementation enforces the same contract: operations targeting an
// existing playlist load it first ([shared.ErrNotFound] when absent),
// authorize before any mutation is applied ([shared.ErrUnauthorized] on an
// owner mismatch), persist the whole aggregate in one unit, and return the
// updated aggregate. Saves are guarded by the aggregate's version counter;
// a stale base version fails with [shared.ErrConflict].
package store

import (
	"context"
	"fmt"

	"github.com/keshav-star/devlist/internal/models"
	"github.com/keshav-star/devlist/internal/shared"
)

// Store is the action interface the transports (CLI, HTTP, TUI) consume.
type Store interface {
	// CreatePlaylist creates an empty playlist for ownerID with the trimmed name.
	CreatePlaylist(ctx context.Context, ownerID, name string) (*models.Playlist, error)

	// ListPlaylists returns all playlists for ownerID, newest createdAt first.
	// The ordering is a user-facing contract, not incidental.
	ListPlaylists(ctx context.Context, ownerID string) ([]*models.Playlist, error)

	// GetPlaylist retrieves a playlist by id.
	GetPlaylist(ctx context.Context, id string) (*models.Playlist, error)

	// RenamePlaylist trims and applies a new name. Rename is not
	// ownership-checked; only playlist-scoped video mutations and delete are.
	RenamePlaylist(ctx context.Context, id, name string) (*models.Playlist, error)

	// DeletePlaylist removes the playlist and, atomically, all embedded videos.
	DeletePlaylist(ctx context.Context, id, ownerID string) error

	// AddVideo appends a validated entry to the playlist.
	AddVideo(ctx context.Context, playlistID, ownerID string, input models.NewVideo) (*models.Playlist, error)

	// RemoveVideo deletes an entry by id; a missing entry is reported.
	RemoveVideo(ctx context.Context, playlistID, ownerID, videoID string) (*models.Playlist, error)

	// UpdateVideo applies a partial title/note patch to an entry.
	UpdateVideo(ctx context.Context, playlistID, ownerID, videoID string, patch models.VideoPatch) (*models.Playlist, error)

	// UpdateVideoStatus moves an entry to the given watch status.
	UpdateVideoStatus(ctx context.Context, playlistID, ownerID, videoID string, status models.Status) (*models.Playlist, error)

	// SavePlaylist writes back a whole aggregate optimistically: the write is
	// rejected with [shared.ErrConflict] when the aggregate's Version no
	// longer matches the stored one. Ownership must match the stored record.
	SavePlaylist(ctx context.Context, playlist *models.Playlist) (*models.Playlist, error)

	// CreateOwner registers a new owner identity; the id is the token.
	CreateOwner(ctx context.Context, name string) (*models.Owner, error)

	// VerifyOwner resolves a presented token to its owner, failing with
	// [shared.ErrInvalidToken] when it doesn't resolve.
	VerifyOwner(ctx context.Context, id string) (*models.Owner, error)

	// Close releases the underlying connection, if any.
	Close() error
}

// Open selects and opens a Store implementation from config.
//
// Recognized drivers: "memory", "sqlite" (default), "mongo".
func Open(ctx context.Context, config *shared.Config) (Store, error) {
	switch config.Database.Driver {
	case "memory":
		return NewMemoryStore(), nil
	case "sqlite", "":
		db, err := shared.NewDatabase(config.Database.Path)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrStore, err)
		}
		shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
		if err := shared.RunMigrations(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("%w: %v", shared.ErrStore, err)
		}
		return NewSQLiteStore(db), nil
	case "mongo":
		return OpenMongoStore(ctx, config.Mongo.URI, config.Mongo.Database)
	}
	return nil, fmt.Errorf("%w: unknown database driver %q", shared.ErrInvalidConfig, config.Database.Driver)
}

// authorize gates a playlist-scoped mutation on ownership before any
// change is applied.
func authorize(p *models.Playlist, ownerID string) error {
	if !p.OwnedBy(ownerID) {
		return fmt.Errorf("%w: playlist %s", shared.ErrUnauthorized, p.ID)
	}
	return nil
}
