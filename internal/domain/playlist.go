package domain

import "time"

// Playlist is an owned, ordered sequence of videos. Duplicates are disallowed.
type Playlist struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerID     string    `json:"owner"`
	VideoIDs    []string  `json:"videos"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewPlaylist creates a new empty Playlist.
func NewPlaylist(ownerID, name, description string) *Playlist {
	now := time.Now().UTC()
	return &Playlist{
		ID:          NewID(),
		Name:        name,
		Description: description,
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Contains reports whether the playlist already holds videoID.
func (p *Playlist) Contains(videoID string) bool {
	for _, id := range p.VideoIDs {
		if id == videoID {
			return true
		}
	}
	return false
}

// AddVideo appends videoID to the sequence.
// Returns ErrVideoAlreadyInPlaylist on duplicates.
func (p *Playlist) AddVideo(videoID string) error {
	if p.Contains(videoID) {
		return ErrVideoAlreadyInPlaylist
	}
	p.VideoIDs = append(p.VideoIDs, videoID)
	return nil
}

// RemoveVideo removes videoID, preserving the order of the rest.
// Returns ErrVideoNotFound when the playlist does not hold it.
func (p *Playlist) RemoveVideo(videoID string) error {
	for i, id := range p.VideoIDs {
		if id == videoID {
			p.VideoIDs = append(p.VideoIDs[:i], p.VideoIDs[i+1:]...)
			return nil
		}
	}
	return ErrVideoNotFound
}
