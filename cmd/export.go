package main

import (
	"context"
	"fmt"

	"github.com/keshav-star/devlist/internal/formatter"
	"github.com/keshav-star/devlist/internal/shared"
	"github.com/urfave/cli/v3"
)

// Export writes a playlist to disk in the requested format.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: playlist id", shared.ErrMissingArgument)
	}

	format := cmd.String("format")
	output := cmd.String("output")

	s, err := r.openStore(ctx)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}

	playlist, err := s.GetPlaylist(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get playlist: %w", err)
	}

	switch format {
	case "csv":
		result, err := formatter.WriteCSVExport(playlist, output)
		if err != nil {
			return fmt.Errorf("failed to export: %w", err)
		}
		r.writePlain("✓ Exported to %s\n", result.VideosFile)
		return r.writePlain("Metadata: %s\n", result.MetadataFile)
	case "markdown", "md":
		file, err := formatter.WriteMarkdownExport(playlist, output)
		if err != nil {
			return fmt.Errorf("failed to export: %w", err)
		}
		return r.writePlain("✓ Exported to %s\n", file)
	case "text", "txt":
		file, err := formatter.WriteTextExport(playlist, output)
		if err != nil {
			return fmt.Errorf("failed to export: %w", err)
		}
		return r.writePlain("✓ Exported to %s\n", file)
	default:
		return fmt.Errorf("%w: format must be csv, markdown, or text", shared.ErrInvalidFlag)
	}
}
