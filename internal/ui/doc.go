// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a two-view workflow for browsing playlists:
//  1. [PlaylistListView] : Browse and select playlists
//  2. [VideoListView] : Walk a playlist's video entries
//
// Inside the video list, "s" cycles the selected entry's watch status,
// "d" removes the entry, and "o" toggles a status-grouped ordering of
// the view. The ordering is display only; the playlist's own order is
// never changed.
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Data access goes through the [Source] interface, satisfied by both the HTTP
// client and a direct store adapter.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
