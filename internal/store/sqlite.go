package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/keshav-star/devlist/internal/models"
	"github.com/keshav-star/devlist/internal/shared"
)

// SQLiteStore persists each playlist aggregate as a single row; the
// embedded video entries are serialized into the videos column as JSON, so
// the aggregate is always written and read as one unit.
//
// Updates are guarded by the version column: the UPDATE is filtered on the
// loaded version, so a save racing another writer affects zero rows and is
// reported as [shared.ErrConflict] instead of silently losing a write.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a store over an open, migrated database handle.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// CreatePlaylist inserts an empty playlist row for ownerID.
func (s *SQLiteStore) CreatePlaylist(ctx context.Context, ownerID, name string) (*models.Playlist, error) {
	playlist, err := models.NewPlaylist(ownerID, name)
	if err != nil {
		return nil, err
	}

	videos, err := encodeVideos(playlist.Videos)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO playlists (id, owner_id, name, videos, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err = s.db.ExecContext(ctx, query,
		playlist.ID,
		playlist.OwnerID,
		playlist.Name,
		videos,
		playlist.Version,
		playlist.CreatedAt,
		playlist.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to insert playlist: %v", shared.ErrStore, err)
	}

	return playlist, nil
}

// ListPlaylists returns ownerID's playlists ordered by created_at descending.
func (s *SQLiteStore) ListPlaylists(ctx context.Context, ownerID string) ([]*models.Playlist, error) {
	query := `
		SELECT id, owner_id, name, videos, version, created_at, updated_at
		FROM playlists
		WHERE owner_id = ?
		ORDER BY created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query playlists: %v", shared.ErrStore, err)
	}
	defer rows.Close()

	playlists := []*models.Playlist{}
	for rows.Next() {
		playlist, err := scanPlaylist(rows.Scan)
		if err != nil {
			return nil, err
		}
		playlists = append(playlists, playlist)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: row iteration error: %v", shared.ErrStore, err)
	}

	return playlists, nil
}

// GetPlaylist retrieves a playlist by id.
func (s *SQLiteStore) GetPlaylist(ctx context.Context, id string) (*models.Playlist, error) {
	return s.load(ctx, id)
}

// RenamePlaylist trims and applies a new name.
func (s *SQLiteStore) RenamePlaylist(ctx context.Context, id, name string) (*models.Playlist, error) {
	return s.mutate(ctx, id, nil, func(p *models.Playlist) error {
		return p.Rename(name)
	})
}

// DeletePlaylist removes the playlist row; the embedded videos go with it,
// so the cascade is atomic by construction.
func (s *SQLiteStore) DeletePlaylist(ctx context.Context, id, ownerID string) error {
	current, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := authorize(current, ownerID); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, "DELETE FROM playlists WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("%w: failed to delete playlist: %v", shared.ErrStore, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: failed to get affected rows: %v", shared.ErrStore, err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: playlist %s", shared.ErrNotFound, id)
	}

	return nil
}

// AddVideo appends a validated entry to the playlist.
func (s *SQLiteStore) AddVideo(ctx context.Context, playlistID, ownerID string, input models.NewVideo) (*models.Playlist, error) {
	return s.mutate(ctx, playlistID, owned(ownerID), func(p *models.Playlist) error {
		_, err := p.AddVideo(input)
		return err
	})
}

// RemoveVideo deletes an entry by id.
func (s *SQLiteStore) RemoveVideo(ctx context.Context, playlistID, ownerID, videoID string) (*models.Playlist, error) {
	return s.mutate(ctx, playlistID, owned(ownerID), func(p *models.Playlist) error {
		return p.RemoveVideo(videoID)
	})
}

// UpdateVideo applies a partial title/note patch to an entry.
func (s *SQLiteStore) UpdateVideo(ctx context.Context, playlistID, ownerID, videoID string, patch models.VideoPatch) (*models.Playlist, error) {
	return s.mutate(ctx, playlistID, owned(ownerID), func(p *models.Playlist) error {
		return p.PatchVideo(videoID, patch)
	})
}

// UpdateVideoStatus moves an entry to the given watch status.
func (s *SQLiteStore) UpdateVideoStatus(ctx context.Context, playlistID, ownerID, videoID string, status models.Status) (*models.Playlist, error) {
	return s.mutate(ctx, playlistID, owned(ownerID), func(p *models.Playlist) error {
		return p.SetVideoStatus(videoID, status)
	})
}

// SavePlaylist writes back an aggregate, rejecting stale base versions.
func (s *SQLiteStore) SavePlaylist(ctx context.Context, playlist *models.Playlist) (*models.Playlist, error) {
	current, err := s.load(ctx, playlist.ID)
	if err != nil {
		return nil, err
	}
	if err := authorize(current, playlist.OwnerID); err != nil {
		return nil, err
	}

	saved := playlist.Clone()
	saved.UpdatedAt = time.Now()
	if err := s.save(ctx, saved, playlist.Version); err != nil {
		return nil, err
	}

	return saved, nil
}

// CreateOwner registers a new owner identity.
func (s *SQLiteStore) CreateOwner(ctx context.Context, name string) (*models.Owner, error) {
	owner, err := models.NewOwner(name)
	if err != nil {
		return nil, err
	}

	query := "INSERT INTO owners (id, name, created_at) VALUES (?, ?, ?)"
	if _, err := s.db.ExecContext(ctx, query, owner.ID, owner.Name, owner.CreatedAt); err != nil {
		return nil, fmt.Errorf("%w: failed to insert owner: %v", shared.ErrStore, err)
	}

	return owner, nil
}

// VerifyOwner resolves a presented token to its owner.
func (s *SQLiteStore) VerifyOwner(ctx context.Context, id string) (*models.Owner, error) {
	query := "SELECT id, name, created_at FROM owners WHERE id = ?"

	var owner models.Owner
	err := s.db.QueryRowContext(ctx, query, id).Scan(&owner.ID, &owner.Name, &owner.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", shared.ErrInvalidToken, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query owner: %v", shared.ErrStore, err)
	}

	return &owner, nil
}

// Close closes the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// mutate loads the aggregate, runs auth (nil for rename), applies fn, and
// saves the whole aggregate with a version-guarded UPDATE.
func (s *SQLiteStore) mutate(ctx context.Context, id string, auth func(*models.Playlist) error, fn func(*models.Playlist) error) (*models.Playlist, error) {
	current, err := s.load(ctx, id)
	if err != nil {
		return nil, err
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

	if err := s.save(ctx, next, current.Version); err != nil {
		return nil, err
	}

	return next, nil
}

// load retrieves one aggregate row.
func (s *SQLiteStore) load(ctx context.Context, id string) (*models.Playlist, error) {
	query := `
		SELECT id, owner_id, name, videos, version, created_at, updated_at
		FROM playlists
		WHERE id = ?
	`

	playlist, err := scanPlaylist(s.db.QueryRowContext(ctx, query, id).Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: playlist %s", shared.ErrNotFound, id)
	}
	return playlist, err
}

// save commits the aggregate in one UPDATE filtered on baseVersion. Zero
// affected rows means another writer won the race (or the row vanished);
// the existence re-check decides which error to report.
func (s *SQLiteStore) save(ctx context.Context, playlist *models.Playlist, baseVersion int64) error {
	videos, err := encodeVideos(playlist.Videos)
	if err != nil {
		return err
	}

	playlist.Version = baseVersion + 1

	query := `
		UPDATE playlists
		SET name = ?, videos = ?, version = ?, updated_at = ?
		WHERE id = ? AND version = ?
	`

	result, err := s.db.ExecContext(ctx, query,
		playlist.Name,
		videos,
		playlist.Version,
		playlist.UpdatedAt,
		playlist.ID,
		baseVersion,
	)
	if err != nil {
		return fmt.Errorf("%w: failed to update playlist: %v", shared.ErrStore, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: failed to get affected rows: %v", shared.ErrStore, err)
	}
	if rows == 0 {
		var exists bool
		if err := s.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM playlists WHERE id = ?)", playlist.ID).Scan(&exists); err != nil {
			return fmt.Errorf("%w: failed to check playlist: %v", shared.ErrStore, err)
		}
		if exists {
			return fmt.Errorf("%w: playlist %s moved past version %d", shared.ErrConflict, playlist.ID, baseVersion)
		}
		return fmt.Errorf("%w: playlist %s", shared.ErrNotFound, playlist.ID)
	}

	return nil
}

// scanPlaylist scans one aggregate row via the given scan function and
// decodes the serialized video list.
func scanPlaylist(scan func(...any) error) (*models.Playlist, error) {
	var (
		playlist models.Playlist
		videos   string
	)

	err := scan(&playlist.ID, &playlist.OwnerID, &playlist.Name, &videos, &playlist.Version, &playlist.CreatedAt, &playlist.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to scan playlist: %v", shared.ErrStore, err)
	}

	if err := json.Unmarshal([]byte(videos), &playlist.Videos); err != nil {
		return nil, fmt.Errorf("%w: failed to decode videos: %v", shared.ErrStore, err)
	}
	if playlist.Videos == nil {
		playlist.Videos = []models.Video{}
	}

	return &playlist, nil
}

// encodeVideos serializes the embedded entry list for the videos column.
func encodeVideos(videos []models.Video) (string, error) {
	if videos == nil {
		videos = []models.Video{}
	}
	data, err := json.Marshal(videos)
	if err != nil {
		return "", fmt.Errorf("%w: failed to encode videos: %v", shared.ErrStore, err)
	}
	return string(data), nil
}
