package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/keshav-star/devlist/internal/shared"
)

// Playlist is the aggregate root: a named, owned, ordered collection of
// video entries. Entries have no lifecycle outside their playlist; every
// mutation goes through the aggregate and is persisted as one unit.
//
// Version is a monotonic counter incremented on every persisted mutation;
// stores reject saves whose base version is stale with [shared.ErrConflict].
type Playlist struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	OwnerID   string    `json:"ownerId,omitempty" bson:"owner_id"`
	Videos    []Video   `json:"videos" bson:"videos"`
	Version   int64     `json:"version" bson:"version"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updated_at"`
}

// NewPlaylist creates an empty playlist for the given owner.
// The name is whitespace-trimmed and must be non-empty.
func NewPlaylist(ownerID, name string) (*Playlist, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: playlist name is required", shared.ErrValidation)
	}
	if ownerID == "" {
		return nil, fmt.Errorf("%w: owner id is required", shared.ErrValidation)
	}

	now := time.Now()
	return &Playlist{
		ID:        shared.GenerateID(),
		Name:      name,
		OwnerID:   ownerID,
		Videos:    []Video{},
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// OwnedBy reports whether ownerID matches the playlist's owner.
func (p *Playlist) OwnedBy(ownerID string) bool {
	return ownerID != "" && p.OwnerID == ownerID
}

// Rename trims and applies a new name.
func (p *Playlist) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: playlist name is required", shared.ErrValidation)
	}

	p.Name = name
	p.touch()
	return nil
}

// AddVideo validates the input and appends a new entry with a fresh id,
// status [StatusToWatch], and AddedAt set to now.
//
// Duplicate suppression is symmetric across kinds: a second entry with the
// same (kind, payload) pair is rejected with [shared.ErrDuplicateVideo] and
// never silently merged.
func (p *Playlist) AddVideo(input NewVideo) (*Video, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	for _, v := range p.Videos {
		if v.Kind == input.Kind && v.Ref() == input.ref() {
			return nil, fmt.Errorf("%w: %s %q", shared.ErrDuplicateVideo, input.Kind, input.ref())
		}
	}

	video := Video{
		ID:       shared.GenerateID(),
		Title:    input.Title,
		Kind:     input.Kind,
		VideoRef: input.VideoRef,
		URL:      input.URL,
		Status:   StatusToWatch,
		Note:     input.Note,
		AddedAt:  time.Now(),
	}

	p.Videos = append(p.Videos, video)
	p.touch()
	return &p.Videos[len(p.Videos)-1], nil
}

// RemoveVideo deletes the entry with the given id.
// A missing id is reported, not silently ignored.
func (p *Playlist) RemoveVideo(videoID string) error {
	for i, v := range p.Videos {
		if v.ID == videoID {
			p.Videos = append(p.Videos[:i], p.Videos[i+1:]...)
			p.touch()
			return nil
		}
	}
	return fmt.Errorf("%w: video %s", shared.ErrNotFound, videoID)
}

// PatchVideo applies a partial title/note update to the entry with the
// given id. Only fields present in the patch are applied; a provided but
// blank title is rejected.
func (p *Playlist) PatchVideo(videoID string, patch VideoPatch) error {
	video := p.findVideo(videoID)
	if video == nil {
		return fmt.Errorf("%w: video %s", shared.ErrNotFound, videoID)
	}

	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return fmt.Errorf("%w: title cannot be blank", shared.ErrValidation)
	}

	if patch.Title != nil {
		video.Title = *patch.Title
	}
	if patch.Note != nil {
		video.Note = *patch.Note
	}

	p.touch()
	return nil
}

// SetVideoStatus moves the entry to the given status. Transitions are
// unordered: any of the three literals may follow any other.
func (p *Playlist) SetVideoStatus(videoID string, status Status) error {
	if _, err := ParseStatus(string(status)); err != nil {
		return err
	}

	video := p.findVideo(videoID)
	if video == nil {
		return fmt.Errorf("%w: video %s", shared.ErrNotFound, videoID)
	}

	video.Status = status
	p.touch()
	return nil
}

// FindVideo returns a copy of the entry with the given id, if present.
func (p *Playlist) FindVideo(videoID string) (Video, bool) {
	if v := p.findVideo(videoID); v != nil {
		return *v, true
	}
	return Video{}, false
}

// Clone returns a deep copy of the aggregate.
func (p *Playlist) Clone() *Playlist {
	cp := *p
	cp.Videos = make([]Video, len(p.Videos))
	copy(cp.Videos, p.Videos)
	return &cp
}

// Sanitized returns a copy safe to return to a non-owner caller: the owner
// id is withheld unless requesterID matches.
func (p *Playlist) Sanitized(requesterID string) *Playlist {
	cp := p.Clone()
	if !cp.OwnedBy(requesterID) {
		cp.OwnerID = ""
	}
	return cp
}

func (p *Playlist) findVideo(videoID string) *Video {
	for i := range p.Videos {
		if p.Videos[i].ID == videoID {
			return &p.Videos[i]
		}
	}
	return nil
}

func (p *Playlist) touch() {
	p.UpdatedAt = time.Now()
}
