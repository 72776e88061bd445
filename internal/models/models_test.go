package models

import (
	"errors"
	"testing"

	"github.com/keshav-star/devlist/internal/shared"
)

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"to-watch", "watching", "watched"} {
		if _, err := ParseStatus(s); err != nil {
			t.Errorf("expected %q to parse: %v", s, err)
		}
	}

	for _, s := range []string{"", "done", "To-Watch"} {
		if _, err := ParseStatus(s); !errors.Is(err, shared.ErrValidation) {
			t.Errorf("expected ErrValidation for %q, got %v", s, err)
		}
	}
}

func TestNewOwner(t *testing.T) {
	owner, err := NewOwner("  Dev  ")
	if err != nil {
		t.Fatalf("failed to create owner: %v", err)
	}
	if owner.ID == "" {
		t.Error("owner ID should be set")
	}
	if owner.Name != "Dev" {
		t.Errorf("expected trimmed name Dev, got %q", owner.Name)
	}

	if _, err := NewOwner("   "); !errors.Is(err, shared.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestVideoRef(t *testing.T) {
	yt := Video{Kind: KindYouTube, VideoRef: "abc123", URL: "ignored"}
	if yt.Ref() != "abc123" {
		t.Errorf("expected youtube ref abc123, got %q", yt.Ref())
	}

	link := Video{Kind: KindLink, URL: "https://example.com"}
	if link.Ref() != "https://example.com" {
		t.Errorf("expected link ref to be the url, got %q", link.Ref())
	}
}
