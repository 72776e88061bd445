package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/keshav-star/devlist/internal/models"
	"github.com/keshav-star/devlist/internal/shared"
)

// MongoStore persists each playlist aggregate as one document with the
// video entries embedded as an array, the layout the devlist data
// originally lived in. There is no separate video collection.
//
// Replacements are filtered on {_id, version} so a racing writer's save
// matches nothing and surfaces as [shared.ErrConflict].
type MongoStore struct {
	client    *mongo.Client
	playlists *mongo.Collection
	owners    *mongo.Collection
}

var _ Store = (*MongoStore)(nil)

// OpenMongoStore connects to MongoDB and returns a store over the named
// database's playlists and owners collections.
func OpenMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to connect to mongo: %v", shared.ErrStore, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("%w: failed to ping mongo: %v", shared.ErrStore, err)
	}

	db := client.Database(database)
	return &MongoStore{
		client:    client,
		playlists: db.Collection("playlists"),
		owners:    db.Collection("owners"),
	}, nil
}

// CreatePlaylist inserts an empty playlist document for ownerID.
func (s *MongoStore) CreatePlaylist(ctx context.Context, ownerID, name string) (*models.Playlist, error) {
	playlist, err := models.NewPlaylist(ownerID, name)
	if err != nil {
		return nil, err
	}

	if _, err := s.playlists.InsertOne(ctx, playlist); err != nil {
		return nil, fmt.Errorf("%w: failed to insert playlist: %v", shared.ErrStore, err)
	}

	return playlist, nil
}

// ListPlaylists returns ownerID's playlists, newest created_at first.
func (s *MongoStore) ListPlaylists(ctx context.Context, ownerID string) ([]*models.Playlist, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := s.playlists.Find(ctx, bson.M{"owner_id": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query playlists: %v", shared.ErrStore, err)
	}
	defer cursor.Close(ctx)

	playlists := []*models.Playlist{}
	for cursor.Next(ctx) {
		var playlist models.Playlist
		if err := cursor.Decode(&playlist); err != nil {
			return nil, fmt.Errorf("%w: failed to decode playlist: %v", shared.ErrStore, err)
		}
		if playlist.Videos == nil {
			playlist.Videos = []models.Video{}
		}
		playlists = append(playlists, &playlist)
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("%w: cursor error: %v", shared.ErrStore, err)
	}

	return playlists, nil
}

// GetPlaylist retrieves a playlist by id.
func (s *MongoStore) GetPlaylist(ctx context.Context, id string) (*models.Playlist, error) {
	return s.load(ctx, id)
}

// RenamePlaylist trims and applies a new name.
func (s *MongoStore) RenamePlaylist(ctx context.Context, id, name string) (*models.Playlist, error) {
	return s.mutate(ctx, id, nil, func(p *models.Playlist) error {
		return p.Rename(name)
	})
}

// DeletePlaylist removes the playlist document, and with it every embedded video.
func (s *MongoStore) DeletePlaylist(ctx context.Context, id, ownerID string) error {
	current, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := authorize(current, ownerID); err != nil {
		return err
	}

	result, err := s.playlists.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("%w: failed to delete playlist: %v", shared.ErrStore, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: playlist %s", shared.ErrNotFound, id)
	}

	return nil
}

// AddVideo appends a validated entry to the playlist.
func (s *MongoStore) AddVideo(ctx context.Context, playlistID, ownerID string, input models.NewVideo) (*models.Playlist, error) {
	return s.mutate(ctx, playlistID, owned(ownerID), func(p *models.Playlist) error {
		_, err := p.AddVideo(input)
		return err
	})
}

// RemoveVideo deletes an entry by id.
func (s *MongoStore) RemoveVideo(ctx context.Context, playlistID, ownerID, videoID string) (*models.Playlist, error) {
	return s.mutate(ctx, playlistID, owned(ownerID), func(p *models.Playlist) error {
		return p.RemoveVideo(videoID)
	})
}

// UpdateVideo applies a partial title/note patch to an entry.
func (s *MongoStore) UpdateVideo(ctx context.Context, playlistID, ownerID, videoID string, patch models.VideoPatch) (*models.Playlist, error) {
	return s.mutate(ctx, playlistID, owned(ownerID), func(p *models.Playlist) error {
		return p.PatchVideo(videoID, patch)
	})
}

// UpdateVideoStatus moves an entry to the given watch status.
func (s *MongoStore) UpdateVideoStatus(ctx context.Context, playlistID, ownerID, videoID string, status models.Status) (*models.Playlist, error) {
	return s.mutate(ctx, playlistID, owned(ownerID), func(p *models.Playlist) error {
		return p.SetVideoStatus(videoID, status)
	})
}

// SavePlaylist writes back an aggregate, rejecting stale base versions.
func (s *MongoStore) SavePlaylist(ctx context.Context, playlist *models.Playlist) (*models.Playlist, error) {
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
func (s *MongoStore) CreateOwner(ctx context.Context, name string) (*models.Owner, error) {
	owner, err := models.NewOwner(name)
	if err != nil {
		return nil, err
	}

	if _, err := s.owners.InsertOne(ctx, owner); err != nil {
		return nil, fmt.Errorf("%w: failed to insert owner: %v", shared.ErrStore, err)
	}

	return owner, nil
}

// VerifyOwner resolves a presented token to its owner.
func (s *MongoStore) VerifyOwner(ctx context.Context, id string) (*models.Owner, error) {
	var owner models.Owner
	err := s.owners.FindOne(ctx, bson.M{"_id": id}).Decode(&owner)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: %s", shared.ErrInvalidToken, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query owner: %v", shared.ErrStore, err)
	}

	return &owner, nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// mutate loads the aggregate, runs auth (nil for rename), applies fn, and
// replaces the whole document filtered on the loaded version.
func (s *MongoStore) mutate(ctx context.Context, id string, auth func(*models.Playlist) error, fn func(*models.Playlist) error) (*models.Playlist, error) {
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

// load retrieves one aggregate document.
func (s *MongoStore) load(ctx context.Context, id string) (*models.Playlist, error) {
	var playlist models.Playlist
	err := s.playlists.FindOne(ctx, bson.M{"_id": id}).Decode(&playlist)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: playlist %s", shared.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query playlist: %v", shared.ErrStore, err)
	}

	if playlist.Videos == nil {
		playlist.Videos = []models.Video{}
	}
	return &playlist, nil
}

// save replaces the aggregate document, matching on {_id, version}. A miss
// is disambiguated into conflict or not-found with an existence check.
func (s *MongoStore) save(ctx context.Context, playlist *models.Playlist, baseVersion int64) error {
	playlist.Version = baseVersion + 1

	result, err := s.playlists.ReplaceOne(ctx, bson.M{"_id": playlist.ID, "version": baseVersion}, playlist)
	if err != nil {
		return fmt.Errorf("%w: failed to replace playlist: %v", shared.ErrStore, err)
	}

	if result.MatchedCount == 0 {
		count, err := s.playlists.CountDocuments(ctx, bson.M{"_id": playlist.ID})
		if err != nil {
			return fmt.Errorf("%w: failed to check playlist: %v", shared.ErrStore, err)
		}
		if count > 0 {
			return fmt.Errorf("%w: playlist %s moved past version %d", shared.ErrConflict, playlist.ID, baseVersion)
		}
		return fmt.Errorf("%w: playlist %s", shared.ErrNotFound, playlist.ID)
	}

	return nil
}
