package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/keshav-star/devlist/internal/shared"
	"github.com/keshav-star/devlist/internal/store"
	tu "github.com/keshav-star/devlist/internal/testing"
	"github.com/urfave/cli/v3"
)

func newTestRunner(t *testing.T) (*Runner, *bytes.Buffer) {
	t.Helper()

	config := shared.DefaultConfig()
	config.Client.TokenPath = filepath.Join(t.TempDir(), "token")

	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{
		Config: config,
		Logger: shared.NewLogger(io.Discard),
		Output: output,
		Store:  store.NewMemoryStore(),
	})

	return runner, output
}

// run drives a command line through the full CLI wiring.
func run(t *testing.T, r *Runner, args ...string) error {
	t.Helper()

	app := &cli.Command{
		Name:     "devlist",
		Commands: r.register(),
	}

	return app.Run(context.Background(), append([]string{"devlist"}, args...))
}

func mustRun(t *testing.T, r *Runner, args ...string) {
	t.Helper()
	if err := run(t, r, args...); err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(io.Discard)
			output := &bytes.Buffer{}
			s := store.NewMemoryStore()

			runner := NewRunner(RunnerOpts{
				Config: config,
				Logger: logger,
				Output: output,
				Store:  s,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.store != s {
				t.Error("expected store to be set")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})
	})

	t.Run("token handling", func(t *testing.T) {
		t.Run("load without a saved token", func(t *testing.T) {
			runner, _ := newTestRunner(t)

			if _, err := runner.loadToken(); !errors.Is(err, shared.ErrMissingToken) {
				t.Errorf("expected ErrMissingToken, got %v", err)
			}
		})

		t.Run("save and load round trip", func(t *testing.T) {
			runner, _ := newTestRunner(t)

			if err := runner.saveToken("owner-123"); err != nil {
				t.Fatalf("failed to save token: %v", err)
			}
			tu.AssertFileExists(t, runner.tokenPath())

			token, err := runner.loadToken()
			if err != nil {
				t.Fatalf("failed to load token: %v", err)
			}
			if token != "owner-123" {
				t.Errorf("expected owner-123, got %q", token)
			}
		})
	})
}

func TestOwnerCommands(t *testing.T) {
	runner, output := newTestRunner(t)

	mustRun(t, runner, "owner", "create", "--name", "Dev")

	if !strings.Contains(output.String(), "Owner registered") {
		t.Errorf("expected registration confirmation, got: %s", output.String())
	}
	tu.AssertFileExists(t, runner.tokenPath())

	output.Reset()
	mustRun(t, runner, "owner", "whoami")

	if !strings.Contains(output.String(), "Dev") {
		t.Errorf("expected owner name in output, got: %s", output.String())
	}
}

func TestPlaylistCommands(t *testing.T) {
	runner, output := newTestRunner(t)
	mustRun(t, runner, "owner", "create", "--name", "Dev")
	output.Reset()

	mustRun(t, runner, "playlist", "create", "Learning")
	if !strings.Contains(output.String(), "Created 'Learning'") {
		t.Fatalf("expected creation confirmation, got: %s", output.String())
	}
	id := extractField(t, output.String(), "ID: ")

	output.Reset()
	mustRun(t, runner, "playlist", "list")
	if !strings.Contains(output.String(), "Learning") {
		t.Errorf("expected playlist in listing, got: %s", output.String())
	}

	output.Reset()
	mustRun(t, runner, "playlist", "rename", id, "Go Learning")
	if !strings.Contains(output.String(), "Renamed to 'Go Learning'") {
		t.Errorf("expected rename confirmation, got: %s", output.String())
	}

	output.Reset()
	mustRun(t, runner, "playlist", "show", id)
	if !strings.Contains(output.String(), "Go Learning") {
		t.Errorf("expected playlist header, got: %s", output.String())
	}
	if !strings.Contains(output.String(), "No videos yet") {
		t.Errorf("expected empty playlist notice, got: %s", output.String())
	}

	output.Reset()
	mustRun(t, runner, "playlist", "delete", id)
	if err := run(t, runner, "playlist", "show", id); !errors.Is(err, shared.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	t.Run("missing arguments", func(t *testing.T) {
		if err := run(t, runner, "playlist", "create"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})
}

func TestVideoCommands(t *testing.T) {
	runner, output := newTestRunner(t)
	mustRun(t, runner, "owner", "create", "--name", "Dev")

	output.Reset()
	mustRun(t, runner, "playlist", "create", "Learning")
	playlistID := extractField(t, output.String(), "ID: ")

	output.Reset()
	mustRun(t, runner, "video", "add", playlistID, "--title", "Intro to Go", "--ref", "abc123")
	if !strings.Contains(output.String(), "Added 'Intro to Go'") {
		t.Fatalf("expected add confirmation, got: %s", output.String())
	}
	videoID := extractField(t, output.String(), "Video ID: ")

	t.Run("duplicate ref is rejected", func(t *testing.T) {
		err := run(t, runner, "video", "add", playlistID, "--title", "Intro again", "--ref", "abc123")
		if !errors.Is(err, shared.ErrDuplicateVideo) {
			t.Errorf("expected ErrDuplicateVideo, got %v", err)
		}
	})

	t.Run("status transitions", func(t *testing.T) {
		output.Reset()
		mustRun(t, runner, "video", "status", playlistID, videoID, "watching")
		if !strings.Contains(output.String(), "Status set to watching") {
			t.Errorf("expected status confirmation, got: %s", output.String())
		}

		err := run(t, runner, "video", "status", playlistID, videoID, "done")
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument for unknown status, got %v", err)
		}
	})

	t.Run("note update", func(t *testing.T) {
		output.Reset()
		mustRun(t, runner, "video", "note", playlistID, videoID, "rewatch chapter 3")

		output.Reset()
		mustRun(t, runner, "playlist", "show", playlistID)
		if !strings.Contains(output.String(), "rewatch chapter 3") {
			t.Errorf("expected note in listing, got: %s", output.String())
		}
	})

	t.Run("remove", func(t *testing.T) {
		output.Reset()
		mustRun(t, runner, "video", "rm", playlistID, videoID)

		output.Reset()
		mustRun(t, runner, "playlist", "show", playlistID)
		if !strings.Contains(output.String(), "No videos yet") {
			t.Errorf("expected empty playlist, got: %s", output.String())
		}
	})
}

func TestSeedCommand(t *testing.T) {
	runner, output := newTestRunner(t)
	mustRun(t, runner, "owner", "create", "--name", "Dev")

	output.Reset()
	mustRun(t, runner, "seed")
	if !strings.Contains(output.String(), "Created 3 sample playlists") {
		t.Fatalf("expected seed confirmation, got: %s", output.String())
	}

	output.Reset()
	mustRun(t, runner, "playlist", "list")
	for _, name := range []string{"React Learning", "Weekend Entertainment", "Programming Fundamentals"} {
		if !strings.Contains(output.String(), name) {
			t.Errorf("expected seeded playlist %q in listing, got: %s", name, output.String())
		}
	}
}

func TestExportCommand(t *testing.T) {
	runner, output := newTestRunner(t)
	mustRun(t, runner, "owner", "create", "--name", "Dev")

	output.Reset()
	mustRun(t, runner, "playlist", "create", "Learning")
	playlistID := extractField(t, output.String(), "ID: ")
	mustRun(t, runner, "video", "add", playlistID, "--title", "Intro", "--ref", "abc123")

	t.Run("csv", func(t *testing.T) {
		base := filepath.Join(t.TempDir(), "export")
		mustRun(t, runner, "export", playlistID, "--format", "csv", "--output", base)
		tu.AssertFileExists(t, base+"_videos.csv")
		tu.AssertFileExists(t, base+"_metadata.json")
	})

	t.Run("markdown", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "export")
		mustRun(t, runner, "export", playlistID, "--format", "markdown", "--output", dir)
		tu.AssertDirExists(t, dir)
		tu.AssertFileExists(t, filepath.Join(dir, "README.md"))
	})

	t.Run("text", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "playlist.txt")
		mustRun(t, runner, "export", playlistID, "--format", "text", "--output", path)
		tu.AssertFileExists(t, path)
	})

	t.Run("unknown format", func(t *testing.T) {
		err := run(t, runner, "export", playlistID, "--format", "yaml")
		if !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})
}

// extractField pulls the value following a label from command output.
func extractField(t *testing.T, output, label string) string {
	t.Helper()

	idx := strings.Index(output, label)
	if idx == -1 {
		t.Fatalf("label %q not found in output: %s", label, output)
	}

	rest := output[idx+len(label):]
	if end := strings.IndexByte(rest, '\n'); end != -1 {
		rest = rest[:end]
	}

	return strings.TrimSpace(rest)
}
