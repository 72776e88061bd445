package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/keshav-star/devlist/internal/client"
	"github.com/keshav-star/devlist/internal/shared"
	"github.com/keshav-star/devlist/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive playlist browser.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	token, err := r.loadToken()
	if err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/devlist-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	var source ui.Source
	if remote := r.config.Client.RemoteURL; remote != "" {
		source = client.NewClient(remote, token, nil)
	} else {
		s, err := r.openStore(ctx)
		if err != nil {
			return fmt.Errorf("failed to open store: %w", err)
		}
		source = storeSource{store: s, ownerID: token}
	}

	model := ui.NewModel(ctx, source)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
