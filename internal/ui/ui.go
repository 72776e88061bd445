package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/keshav-star/devlist/internal/models"
)

// Source provides the playlist data behind the TUI. The owner token is
// already bound inside the implementation; the view never sees it.
type Source interface {
	ListPlaylists(ctx context.Context) ([]*models.Playlist, error)
	GetPlaylist(ctx context.Context, id string) (*models.Playlist, error)
	UpdateVideoStatus(ctx context.Context, id, videoID string, status models.Status) (*models.Playlist, error)
	RemoveVideo(ctx context.Context, id, videoID string) (*models.Playlist, error)
}

// ViewState represents the current view in the TUI.
type ViewState int

const (
	PlaylistListView ViewState = iota
	VideoListView
)

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	source       Source
	width        int
	height       int
	playlistList list.Model
	playlists    []*models.Playlist
	videoList    list.Model
	selected     *models.Playlist
	groupByState bool
	err          error
	help         help.Model
	keys         keyMap
}

type playlistsFetchedMsg struct {
	playlists []*models.Playlist
	err       error
}

type playlistFetchedMsg struct {
	playlist *models.Playlist
	err      error
}

type videoMutatedMsg struct {
	playlist *models.Playlist
	err      error
}

// NewModel creates a new TUI model over the provided data source.
func NewModel(ctx context.Context, source Source) *Model {
	return &Model{
		ctx:    ctx,
		view:   PlaylistListView,
		source: source,
		help:   help.New(),
		keys:   newKeyMap(),
	}
}

// Init initializes the TUI by fetching the owner's playlists.
func (m *Model) Init() tea.Cmd {
	return m.fetchPlaylists()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.playlistList.Width() == 0 {
			m.playlistList.SetSize(msg.Width-4, msg.Height-8)
		}
		if m.videoList.Width() == 0 {
			m.videoList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case PlaylistListView:
			return m.handlePlaylistListKeys(msg)
		case VideoListView:
			return m.handleVideoListKeys(msg)
		}

	case playlistsFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.playlists = msg.playlists
		items := make([]list.Item, len(msg.playlists))
		for i, pl := range msg.playlists {
			items[i] = playlistItem{playlist: pl}
		}
		m.playlistList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.playlistList.Title = "Playlists"
		m.playlistList.SetSize(m.width-4, m.height-8)
		return m, nil

	case playlistFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.view = PlaylistListView
			return m, nil
		}
		m.selected = msg.playlist
		m.rebuildVideoList(0)
		m.view = VideoListView
		return m, nil

	case videoMutatedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.selected = msg.playlist
		m.rebuildVideoList(m.videoList.Index())
		return m, nil
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case PlaylistListView:
		return m.renderPlaylistList()
	case VideoListView:
		return m.renderVideoList()
	default:
		return ""
	}
}

func (m *Model) handlePlaylistListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter":
		selected := m.playlistList.SelectedItem()
		if selected != nil {
			if pl, ok := selected.(playlistItem); ok {
				return m, m.fetchPlaylist(pl.playlist.ID)
			}
		}
	}

	var cmd tea.Cmd
	m.playlistList, cmd = m.playlistList.Update(msg)
	return m, cmd
}

func (m *Model) handleVideoListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = PlaylistListView
		m.groupByState = false
		return m, m.fetchPlaylists()
	case "s":
		if video, ok := m.selectedVideo(); ok {
			return m, m.cycleStatus(video)
		}
	case "d":
		if video, ok := m.selectedVideo(); ok {
			return m, m.removeVideo(video)
		}
	case "o":
		m.groupByState = !m.groupByState
		m.rebuildVideoList(0)
		return m, nil
	}

	var cmd tea.Cmd
	m.videoList, cmd = m.videoList.Update(msg)
	return m, cmd
}

func (m *Model) selectedVideo() (models.Video, bool) {
	selected := m.videoList.SelectedItem()
	if selected == nil {
		return models.Video{}, false
	}

	item, ok := selected.(videoItem)
	return item.video, ok
}

// rebuildVideoList refreshes the video list from the selected playlist,
// keeping the cursor near its previous position.
func (m *Model) rebuildVideoList(index int) {
	videos := m.displayVideos()
	items := make([]list.Item, len(videos))
	for i, video := range videos {
		items[i] = videoItem{video: video}
	}

	m.videoList = list.New(items, list.NewDefaultDelegate(), 0, 0)
	m.videoList.Title = fmt.Sprintf("Videos in '%s'", m.selected.Name)
	m.videoList.SetSize(m.width-4, m.height-8)

	if index >= len(items) {
		index = len(items) - 1
	}
	if index > 0 {
		m.videoList.Select(index)
	}
}

// displayVideos returns the playlist's videos in view order. Grouping by
// status never touches the playlist itself.
func (m *Model) displayVideos() []models.Video {
	if !m.groupByState {
		return m.selected.Videos
	}

	var grouped []models.Video
	for _, status := range []models.Status{models.StatusToWatch, models.StatusWatching, models.StatusWatched} {
		for _, video := range m.selected.Videos {
			if video.Status == status {
				grouped = append(grouped, video)
			}
		}
	}
	return grouped
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case PlaylistListView:
		m.playlistList, cmd = m.playlistList.Update(msg)
	case VideoListView:
		m.videoList, cmd = m.videoList.Update(msg)
	}
	return m, cmd
}

func (m *Model) fetchPlaylists() tea.Cmd {
	return func() tea.Msg {
		playlists, err := m.source.ListPlaylists(m.ctx)
		return playlistsFetchedMsg{playlists: playlists, err: err}
	}
}

func (m *Model) fetchPlaylist(id string) tea.Cmd {
	return func() tea.Msg {
		playlist, err := m.source.GetPlaylist(m.ctx, id)
		return playlistFetchedMsg{playlist: playlist, err: err}
	}
}

func (m *Model) cycleStatus(video models.Video) tea.Cmd {
	playlistID := m.selected.ID
	return func() tea.Msg {
		playlist, err := m.source.UpdateVideoStatus(m.ctx, playlistID, video.ID, nextStatus(video.Status))
		return videoMutatedMsg{playlist: playlist, err: err}
	}
}

func (m *Model) removeVideo(video models.Video) tea.Cmd {
	playlistID := m.selected.ID
	return func() tea.Msg {
		playlist, err := m.source.RemoveVideo(m.ctx, playlistID, video.ID)
		return videoMutatedMsg{playlist: playlist, err: err}
	}
}

// nextStatus advances the watch status cycle: to-watch, watching,
// watched, and back around.
func nextStatus(status models.Status) models.Status {
	switch status {
	case models.StatusToWatch:
		return models.StatusWatching
	case models.StatusWatching:
		return models.StatusWatched
	default:
		return models.StatusToWatch
	}
}

func (m *Model) renderPlaylistList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.playlistList.View(), helpView)
}

func (m *Model) renderVideoList() string {
	helpKeys := []key.Binding{m.keys.status, m.keys.delete, m.keys.sort, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.videoList.View(), helpView)
}
