package main

import (
	"context"
	"fmt"

	"github.com/keshav-star/devlist/internal/models"
	"github.com/keshav-star/devlist/internal/store"
	"github.com/urfave/cli/v3"
)

type seedVideo struct {
	title  string
	ref    string
	status models.Status
	note   string
}

type seedPlaylist struct {
	name   string
	videos []seedVideo
}

var samplePlaylists = []seedPlaylist{
	{
		name: "React Learning",
		videos: []seedVideo{
			{"React Tutorial for Beginners", "dGcsHMXbSOA", models.StatusWatched, "Great introduction to React basics"},
			{"React Hooks Explained", "dpw9EHDh2bM", models.StatusWatching, "Need to finish this one"},
			{"Advanced React Patterns", "KJP1E-Y-xyo", models.StatusToWatch, "For advanced concepts"},
		},
	},
	{
		name: "Weekend Entertainment",
		videos: []seedVideo{
			{"Amazing Nature Documentary", "aETt1cFI2wA", models.StatusToWatch, "Perfect for weekend relaxation"},
			{"Cooking Masterclass", "8rSH8-pbHZ0", models.StatusToWatch, "Learn new recipes"},
		},
	},
	{
		name: "Programming Fundamentals",
		videos: []seedVideo{
			{"JavaScript Basics", "W6NZfCO5SIk", models.StatusWatched, "Essential JS concepts"},
			{"Data Structures & Algorithms", "8hly31xKli0", models.StatusWatching, "Important for interviews"},
			{"Git & GitHub Tutorial", "RGOj5yH7evk", models.StatusToWatch, "Version control basics"},
		},
	},
}

// Seed inserts the demo playlists for the saved owner.
func (r *Runner) Seed(ctx context.Context, cmd *cli.Command) error {
	token, err := r.loadToken()
	if err != nil {
		return err
	}

	s, err := r.openStore(ctx)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}

	count, err := seedStore(ctx, s, token)
	if err != nil {
		return err
	}

	r.logger.Info("seed complete", "playlists", count)
	return r.writePlain("✓ Created %d sample playlists\n", count)
}

// seedStore inserts the sample data through the regular store operations
// so seeded entries carry fresh ids and timestamps.
func seedStore(ctx context.Context, s store.Store, ownerID string) (int, error) {
	for _, sample := range samplePlaylists {
		playlist, err := s.CreatePlaylist(ctx, ownerID, sample.name)
		if err != nil {
			return 0, fmt.Errorf("failed to create '%s': %w", sample.name, err)
		}

		for _, video := range sample.videos {
			updated, err := s.AddVideo(ctx, playlist.ID, ownerID, models.NewVideo{
				Title:    video.title,
				Kind:     models.KindYouTube,
				VideoRef: video.ref,
				Note:     video.note,
			})
			if err != nil {
				return 0, fmt.Errorf("failed to add '%s': %w", video.title, err)
			}

			if video.status != models.StatusToWatch {
				added := updated.Videos[len(updated.Videos)-1]
				if _, err := s.UpdateVideoStatus(ctx, playlist.ID, ownerID, added.ID, video.status); err != nil {
					return 0, fmt.Errorf("failed to set status on '%s': %w", video.title, err)
				}
			}
		}
	}

	return len(samplePlaylists), nil
}
