package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/keshav-star/devlist/internal/models"
	"github.com/keshav-star/devlist/internal/shared"
	"github.com/keshav-star/devlist/internal/store"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config *shared.Config
	logger *log.Logger
	output io.Writer
	store  store.Store
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config *shared.Config
	Logger *log.Logger
	Output io.Writer
	Store  store.Store
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config: opts.Config,
		logger: opts.Logger,
		output: opts.Output,
		store:  opts.Store,
	}
}

// SetLogger swaps the Runner's logger.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, serveCommand, ownerCommand, playlistCommand, videoCommand, exportCommand, seedCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// openStore opens the configured store, reusing an injected one.
func (r *Runner) openStore(ctx context.Context) (store.Store, error) {
	if r.store != nil {
		return r.store, nil
	}

	s, err := store.Open(ctx, r.config)
	if err != nil {
		return nil, err
	}

	r.store = s
	return s, nil
}

// tokenPath resolves the file the owner token is persisted to.
func (r *Runner) tokenPath() string {
	if r.config.Client.TokenPath != "" {
		return r.config.Client.TokenPath
	}
	return filepath.Join(os.Getenv("HOME"), ".devlist", "token")
}

// saveToken persists the owner token for later commands.
func (r *Runner) saveToken(token string) error {
	path := r.tokenPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(token), 0600); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

// loadToken reads the persisted owner token.
func (r *Runner) loadToken() (string, error) {
	data, err := os.ReadFile(r.tokenPath())
	if err != nil {
		return "", fmt.Errorf("%w: run 'devlist owner create' first", shared.ErrMissingToken)
	}

	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", fmt.Errorf("%w: token file is empty", shared.ErrMissingToken)
	}

	return token, nil
}

// storeSource adapts a store to the TUI's data source, binding the owner
// token once.
type storeSource struct {
	store   store.Store
	ownerID string
}

func (s storeSource) ListPlaylists(ctx context.Context) ([]*models.Playlist, error) {
	return s.store.ListPlaylists(ctx, s.ownerID)
}

func (s storeSource) GetPlaylist(ctx context.Context, id string) (*models.Playlist, error) {
	return s.store.GetPlaylist(ctx, id)
}

func (s storeSource) UpdateVideoStatus(ctx context.Context, id, videoID string, status models.Status) (*models.Playlist, error) {
	return s.store.UpdateVideoStatus(ctx, id, s.ownerID, videoID, status)
}

func (s storeSource) RemoveVideo(ctx context.Context, id, videoID string) (*models.Playlist, error) {
	return s.store.RemoveVideo(ctx, id, s.ownerID, videoID)
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
