// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// serveCommand starts the HTTP API server
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the playlist HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Host to bind to (overrides config)",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Port to bind to (overrides config)",
			},
		},
		Action: r.Serve,
	}
}

// ownerCommand handles owner identity operations
func ownerCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "owner",
		Usage: "Owner identity operations",
		Commands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Register a new owner and save the token",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Aliases:  []string{"n"},
						Usage:    "Display name for the owner",
						Required: true,
					},
				},
				Action: r.OwnerCreate,
			},
			{
				Name:   "whoami",
				Usage:  "Show the owner behind the saved token",
				Action: r.OwnerWhoami,
			},
		},
	}
}

// playlistCommand handles playlist operations
func playlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlist",
		Aliases: []string{"pl"},
		Usage:   "Playlist operations",
		Commands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Create an empty playlist",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Action: r.PlaylistCreate,
			},
			{
				Name:  "list",
				Usage: "List your playlists, newest first",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.PlaylistList,
			},
			{
				Name:  "show",
				Usage: "Show a playlist and its videos",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.PlaylistShow,
			},
			{
				Name:  "rename",
				Usage: "Rename a playlist",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
					&cli.StringArg{Name: "name"},
				},
				Action: r.PlaylistRename,
			},
			{
				Name:  "delete",
				Usage: "Delete a playlist and all its videos",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.PlaylistDelete,
			},
		},
	}
}

// videoCommand handles playlist-scoped video operations
func videoCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "video",
		Aliases: []string{"vid"},
		Usage:   "Video entry operations",
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Add a video to a playlist",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "playlist"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "title",
						Aliases:  []string{"t"},
						Usage:    "Video title",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "kind",
						Usage: "Entry kind: youtube or link",
						Value: "youtube",
					},
					&cli.StringFlag{
						Name:  "ref",
						Usage: "YouTube video id (kind=youtube)",
					},
					&cli.StringFlag{
						Name:  "url",
						Usage: "Arbitrary link (kind=link)",
					},
					&cli.StringFlag{
						Name:  "note",
						Usage: "Optional note",
					},
				},
				Action: r.VideoAdd,
			},
			{
				Name:  "rm",
				Usage: "Remove a video from a playlist",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "playlist"},
					&cli.StringArg{Name: "video"},
				},
				Action: r.VideoRemove,
			},
			{
				Name:  "note",
				Usage: "Set a video's note",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "playlist"},
					&cli.StringArg{Name: "video"},
					&cli.StringArg{Name: "note"},
				},
				Action: r.VideoNote,
			},
			{
				Name:  "status",
				Usage: "Set a video's watch status",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "playlist"},
					&cli.StringArg{Name: "video"},
					&cli.StringArg{Name: "status"},
				},
				Action: r.VideoStatus,
			},
		},
	}
}

// exportCommand writes a playlist to a file
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export a playlist to csv, markdown, or text",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "id"},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: csv, markdown, or text",
				Value:   "csv",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output path (defaults to the playlist id)",
			},
		},
		Action: r.Export,
	}
}

// seedCommand inserts demo data
func seedCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "seed",
		Usage:  "Insert demo playlists for the saved owner",
		Action: r.Seed,
	}
}

// tuiCommand launches the interactive browser
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "Browse playlists interactively",
		Action: r.TUI,
	}
}
