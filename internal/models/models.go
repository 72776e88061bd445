package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/keshav-star/devlist/internal/shared"
)

// Status is the three-valued watch-progress tag on a video entry.
type Status string

const (
	StatusToWatch  Status = "to-watch"
	StatusWatching Status = "watching"
	StatusWatched  Status = "watched"
)

// ParseStatus validates a status literal.
//
// There is no forward-only state machine: any status may transition to any other.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusToWatch, StatusWatching, StatusWatched:
		return Status(s), nil
	}
	return "", fmt.Errorf("%w: unknown status %q", shared.ErrValidation, s)
}

// VideoKind tags the payload variant of a video entry.
type VideoKind string

const (
	KindYouTube VideoKind = "youtube"
	KindLink    VideoKind = "link"
)

// Video is one watchable reference embedded in exactly one playlist.
//
// Exactly one of VideoRef (youtube) or URL (link) is set, depending on Kind.
type Video struct {
	ID       string    `json:"id" bson:"id"`
	Title    string    `json:"title" bson:"title"`
	Kind     VideoKind `json:"kind" bson:"kind"`
	VideoRef string    `json:"videoRef,omitempty" bson:"video_ref,omitempty"`
	URL      string    `json:"url,omitempty" bson:"url,omitempty"`
	Status   Status    `json:"status" bson:"status"`
	Note     string    `json:"note" bson:"note"`
	AddedAt  time.Time `json:"addedAt" bson:"added_at"`
}

// Ref returns the kind-specific payload used for the duplicate check.
func (v Video) Ref() string {
	if v.Kind == KindLink {
		return v.URL
	}
	return v.VideoRef
}

// NewVideo is the input for adding an entry to a playlist.
//
// An empty Kind defaults to [KindYouTube], matching the add-video API.
type NewVideo struct {
	Title    string    `json:"title"`
	Kind     VideoKind `json:"kind"`
	VideoRef string    `json:"videoRef"`
	URL      string    `json:"url"`
	Note     string    `json:"note"`
}

// Validate checks the input and normalizes the kind. Title is required, and
// exactly the payload matching the kind must be present.
func (n *NewVideo) Validate() error {
	if strings.TrimSpace(n.Title) == "" {
		return fmt.Errorf("%w: title is required", shared.ErrValidation)
	}

	if n.Kind == "" {
		n.Kind = KindYouTube
	}

	switch n.Kind {
	case KindYouTube:
		if n.VideoRef == "" {
			return fmt.Errorf("%w: videoRef is required for youtube entries", shared.ErrValidation)
		}
		if n.URL != "" {
			return fmt.Errorf("%w: url must be empty for youtube entries", shared.ErrValidation)
		}
	case KindLink:
		if n.URL == "" {
			return fmt.Errorf("%w: url is required for link entries", shared.ErrValidation)
		}
		if n.VideoRef != "" {
			return fmt.Errorf("%w: videoRef must be empty for link entries", shared.ErrValidation)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", shared.ErrValidation, n.Kind)
	}

	return nil
}

// ref returns the payload of the validated input.
func (n NewVideo) ref() string {
	if n.Kind == KindLink {
		return n.URL
	}
	return n.VideoRef
}

// VideoPatch is a partial update of a video entry's editable fields.
//
// A nil field means "not provided" and leaves the current value untouched;
// a pointer to an empty string clears the note but is rejected for the title.
type VideoPatch struct {
	Title *string `json:"title"`
	Note  *string `json:"note"`
}

// Owner is the opaque actor identity. The id doubles as the presented token.
type Owner struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
}

// NewOwner creates an owner with a fresh id.
func NewOwner(name string) (*Owner, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: owner name is required", shared.ErrValidation)
	}

	return &Owner{
		ID:        shared.GenerateID(),
		Name:      name,
		CreatedAt: time.Now(),
	}, nil
}
