package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/keshav-star/devlist/internal/models"
)

var (
	_ list.Item = playlistItem{}
	_ list.Item = videoItem{}
)

// playlistItem wraps [models.Playlist] to implement [list.Item].
type playlistItem struct {
	playlist *models.Playlist
}

func (i playlistItem) FilterValue() string { return i.playlist.Name }
func (i playlistItem) Title() string       { return i.playlist.Name }
func (i playlistItem) Description() string {
	return fmt.Sprintf("%d videos", len(i.playlist.Videos))
}

// videoItem wraps [models.Video] to implement [list.Item].
type videoItem struct {
	video models.Video
}

func (i videoItem) FilterValue() string { return i.video.Title }
func (i videoItem) Title() string {
	return fmt.Sprintf("%s %s", statusMarker(i.video.Status), i.video.Title)
}
func (i videoItem) Description() string {
	desc := fmt.Sprintf("%s • %s", i.video.Kind, i.video.Ref())
	if i.video.Note != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.video.Note)
	}
	return desc
}

func statusMarker(status models.Status) string {
	switch status {
	case models.StatusWatching:
		return styles.warn.Render("◐")
	case models.StatusWatched:
		return styles.ok.Render("●")
	default:
		return "○"
	}
}
