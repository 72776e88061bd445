// package formatter provides functions to export playlist data to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/keshav-star/devlist/internal/models"
)

// ExportToCSV converts a Playlist to CSV format with columns: ID, Title, Kind, Ref, Status, Note, AddedAt
func ExportToCSV(playlist *models.Playlist) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Kind", "Ref", "Status", "Note", "AddedAt"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, video := range playlist.Videos {
		record := []string{
			video.ID,
			video.Title,
			string(video.Kind),
			video.Ref(),
			string(video.Status),
			video.Note,
			video.AddedAt.Format(time.RFC3339),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a Playlist to Markdown format, grouping videos by watch status
func ExportToMarkdown(playlist *models.Playlist) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", playlist.Name))
	buf.WriteString(fmt.Sprintf("**Videos**: %d\n", len(playlist.Videos)))
	buf.WriteString(fmt.Sprintf("**Updated**: %s\n\n", playlist.UpdatedAt.Format("2006-01-02")))

	sections := []struct {
		title  string
		status models.Status
	}{
		{"To Watch", models.StatusToWatch},
		{"Watching", models.StatusWatching},
		{"Watched", models.StatusWatched},
	}

	for _, section := range sections {
		videos := videosWithStatus(playlist, section.status)
		if len(videos) == 0 {
			continue
		}

		buf.WriteString(fmt.Sprintf("## %s\n\n", section.title))
		for i, video := range videos {
			notePart := ""
			if video.Note != "" {
				notePart = fmt.Sprintf(" — %s", video.Note)
			}
			buf.WriteString(fmt.Sprintf("%d. [%s](%s)%s\n", i+1, video.Title, videoLink(video), notePart))
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// ExportToText converts a Playlist to plain text format
func ExportToText(playlist *models.Playlist) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Playlist: %s\n", playlist.Name))
	buf.WriteString(fmt.Sprintf("Videos: %d\n\n", len(playlist.Videos)))

	for i, video := range playlist.Videos {
		buf.WriteString(fmt.Sprintf("%d. [%s] %s (%s)\n", i+1, video.Status, video.Title, video.Ref()))
	}

	return buf.Bytes(), nil
}

// ToMetadataJSON generates a JSON representation of playlist metadata (without videos)
func ToMetadataJSON(playlist *models.Playlist) ([]byte, error) {
	meta := playlist.Clone()
	meta.Videos = nil

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata: %w", err)
	}

	return data, nil
}

func videosWithStatus(playlist *models.Playlist, status models.Status) []models.Video {
	var videos []models.Video
	for _, v := range playlist.Videos {
		if v.Status == status {
			videos = append(videos, v)
		}
	}
	return videos
}

// videoLink returns a browsable URL for a video entry.
func videoLink(video models.Video) string {
	if video.Kind == models.KindYouTube {
		return "https://www.youtube.com/watch?v=" + video.VideoRef
	}
	return video.URL
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	VideosFile   string
	MetadataFile string
}

// WriteCSVExport exports a playlist to CSV format with an accompanying metadata JSON file.
//
// Defaults to playlist ID as the base filename & creates {base}_videos.csv and {base}_metadata.json
func WriteCSVExport(playlist *models.Playlist, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = playlist.ID
	}

	csvData, err := ExportToCSV(playlist)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	videosFile := baseFilepath + "_videos.csv"
	if err := os.WriteFile(videosFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	metadataJSON, err := ToMetadataJSON(playlist)
	if err != nil {
		return nil, fmt.Errorf("failed to generate metadata JSON: %w", err)
	}

	metadataFile := baseFilepath + "_metadata.json"
	if err := os.WriteFile(metadataFile, metadataJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata file: %w", err)
	}

	return &CSVExportResult{
		VideosFile:   videosFile,
		MetadataFile: metadataFile,
	}, nil
}

// WriteMarkdownExport exports a playlist to Markdown in a dedicated directory.
//
// Directory name defaults to the playlist ID. Creates {dir}/README.md.
func WriteMarkdownExport(playlist *models.Playlist, outputDir string) (string, error) {
	if outputDir == "" {
		outputDir = playlist.ID
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	mdData, err := ExportToMarkdown(playlist)
	if err != nil {
		return "", fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := fmt.Sprintf("%s/README.md", outputDir)
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return "", fmt.Errorf("failed to write Markdown file: %w", err)
	}

	return mdFile, nil
}

// WriteTextExport exports a playlist to plain text format.
//
// Defaults to {playlist.ID}_videos.txt as the filename.
func WriteTextExport(playlist *models.Playlist, filepath string) (string, error) {
	if filepath == "" {
		filepath = fmt.Sprintf("%s_videos.txt", playlist.ID)
	}

	textData, err := ExportToText(playlist)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(filepath, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return filepath, nil
}
