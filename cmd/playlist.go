package main

import (
	"context"
	"fmt"

	"github.com/keshav-star/devlist/internal/models"
	"github.com/keshav-star/devlist/internal/shared"
	"github.com/urfave/cli/v3"
)

// PlaylistCreate creates an empty playlist for the saved owner.
func (r *Runner) PlaylistCreate(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: playlist name", shared.ErrMissingArgument)
	}

	token, err := r.loadToken()
	if err != nil {
		return err
	}

	s, err := r.openStore(ctx)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}

	playlist, err := s.CreatePlaylist(ctx, token, name)
	if err != nil {
		return fmt.Errorf("failed to create playlist: %w", err)
	}

	r.logger.Info("playlist created", "id", playlist.ID)
	r.writePlain("✓ Created '%s'\n", playlist.Name)
	return r.writePlain("ID: %s\n", playlist.ID)
}

// PlaylistList lists the saved owner's playlists, newest first.
func (r *Runner) PlaylistList(ctx context.Context, cmd *cli.Command) error {
	token, err := r.loadToken()
	if err != nil {
		return err
	}

	s, err := r.openStore(ctx)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}

	playlists, err := s.ListPlaylists(ctx, token)
	if err != nil {
		return fmt.Errorf("failed to list playlists: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlists, true)
	}

	if len(playlists) == 0 {
		return r.writePlain("No playlists yet. Create one with 'devlist playlist create <name>'.\n")
	}

	r.writePlainHeader(fmt.Sprintf("Playlists (%d)", len(playlists)))
	for _, p := range playlists {
		r.writePlain("%s  %s (%d videos)\n", p.ID, p.Name, len(p.Videos))
	}

	return nil
}

// PlaylistShow prints a playlist with its video entries.
func (r *Runner) PlaylistShow(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: playlist id", shared.ErrMissingArgument)
	}

	s, err := r.openStore(ctx)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}

	playlist, err := s.GetPlaylist(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get playlist: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlist, true)
	}

	r.writePlainHeader(playlist.Name)
	if len(playlist.Videos) == 0 {
		return r.writePlain("No videos yet.\n")
	}

	for _, v := range playlist.Videos {
		note := ""
		if v.Note != "" {
			note = fmt.Sprintf("  # %s", v.Note)
		}
		r.writePlain("%s  [%s] %s (%s)%s\n", v.ID, v.Status, v.Title, v.Ref(), note)
	}

	return nil
}

// PlaylistRename renames a playlist.
func (r *Runner) PlaylistRename(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	name := cmd.StringArg("name")
	if id == "" || name == "" {
		return fmt.Errorf("%w: playlist id and new name", shared.ErrMissingArgument)
	}

	s, err := r.openStore(ctx)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}

	playlist, err := s.RenamePlaylist(ctx, id, name)
	if err != nil {
		return fmt.Errorf("failed to rename playlist: %w", err)
	}

	return r.writePlain("✓ Renamed to '%s'\n", playlist.Name)
}

// PlaylistDelete deletes a playlist owned by the saved owner.
func (r *Runner) PlaylistDelete(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
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

	if err := s.DeletePlaylist(ctx, id, token); err != nil {
		return fmt.Errorf("failed to delete playlist: %w", err)
	}

	r.logger.Info("playlist deleted", "id", id)
	return r.writePlain("✓ Deleted %s\n", id)
}

// parseStatusArg converts a CLI status literal, listing the valid ones on failure.
func parseStatusArg(raw string) (models.Status, error) {
	status, err := models.ParseStatus(raw)
	if err != nil {
		return "", fmt.Errorf("%w: status must be to-watch, watching, or watched", shared.ErrInvalidArgument)
	}
	return status, nil
}
