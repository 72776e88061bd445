package main

import (
	"context"
	"fmt"

	"github.com/keshav-star/devlist/internal/models"
	"github.com/keshav-star/devlist/internal/shared"
	"github.com/urfave/cli/v3"
)

// VideoAdd appends a video entry to a playlist.
func (r *Runner) VideoAdd(ctx context.Context, cmd *cli.Command) error {
	playlistID := cmd.StringArg("playlist")
	if playlistID == "" {
		return fmt.Errorf("%w: playlist id", shared.ErrMissingArgument)
	}

	token, err := r.loadToken()
	if err != nil {
		return err
	}

	s, err := r.openStore(ctx)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}

	playlist, err := s.AddVideo(ctx, playlistID, token, models.NewVideo{
		Title:    cmd.String("title"),
		Kind:     models.VideoKind(cmd.String("kind")),
		VideoRef: cmd.String("ref"),
		URL:      cmd.String("url"),
		Note:     cmd.String("note"),
	})
	if err != nil {
		return fmt.Errorf("failed to add video: %w", err)
	}

	added := playlist.Videos[len(playlist.Videos)-1]
	r.logger.Info("video added", "playlist", playlistID, "video", added.ID)
	r.writePlain("✓ Added '%s' to '%s'\n", added.Title, playlist.Name)
	return r.writePlain("Video ID: %s\n", added.ID)
}

// VideoRemove removes a video entry from a playlist.
func (r *Runner) VideoRemove(ctx context.Context, cmd *cli.Command) error {
	playlistID := cmd.StringArg("playlist")
	videoID := cmd.StringArg("video")
	if playlistID == "" || videoID == "" {
		return fmt.Errorf("%w: playlist id and video id", shared.ErrMissingArgument)
	}

	token, err := r.loadToken()
	if err != nil {
		return err
	}

	s, err := r.openStore(ctx)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}

	if _, err := s.RemoveVideo(ctx, playlistID, token, videoID); err != nil {
		return fmt.Errorf("failed to remove video: %w", err)
	}

	r.logger.Info("video removed", "playlist", playlistID, "video", videoID)
	return r.writePlain("✓ Removed %s\n", videoID)
}

// VideoNote sets a video entry's note.
func (r *Runner) VideoNote(ctx context.Context, cmd *cli.Command) error {
	playlistID := cmd.StringArg("playlist")
	videoID := cmd.StringArg("video")
	note := cmd.StringArg("note")
	if playlistID == "" || videoID == "" {
		return fmt.Errorf("%w: playlist id and video id", shared.ErrMissingArgument)
	}

	token, err := r.loadToken()
	if err != nil {
		return err
	}

	s, err := r.openStore(ctx)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}

	if _, err := s.UpdateVideo(ctx, playlistID, token, videoID, models.VideoPatch{Note: &note}); err != nil {
		return fmt.Errorf("failed to update video: %w", err)
	}

	return r.writePlain("✓ Note updated\n")
}

// VideoStatus sets a video entry's watch status.
func (r *Runner) VideoStatus(ctx context.Context, cmd *cli.Command) error {
	playlistID := cmd.StringArg("playlist")
	videoID := cmd.StringArg("video")
	if playlistID == "" || videoID == "" {
		return fmt.Errorf("%w: playlist id and video id", shared.ErrMissingArgument)
	}

	status, err := parseStatusArg(cmd.StringArg("status"))
	if err != nil {
		return err
	}

	token, err := r.loadToken()
	if err != nil {
		return err
	}

	s, err := r.openStore(ctx)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}

	if _, err := s.UpdateVideoStatus(ctx, playlistID, token, videoID, status); err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	return r.writePlain("✓ Status set to %s\n", status)
}
