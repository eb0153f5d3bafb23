package domain

import "time"

// Video represents an uploaded video. The media and thumbnail live in the
// blob store; the record holds only their URLs. Like and comment counts are
// never stored here - they are computed at read time by the query engine.
type Video struct {
	// ID is the unique identifier for the video.
	ID string `json:"id"`

	// OwnerID references the uploading user.
	OwnerID string `json:"owner"`

	// VideoURL is the blob-store location of the media.
	VideoURL string `json:"videoFile"`

	// ThumbnailURL is the blob-store location of the thumbnail image.
	ThumbnailURL string `json:"thumbnail"`

	// Title is the display title.
	Title string `json:"title"`

	// Description is the free-text description.
	Description string `json:"description"`

	// DurationSeconds is derived from the uploaded media.
	DurationSeconds float64 `json:"duration"`

	// Views is a monotonic engagement counter, persisted best-effort.
	Views int64 `json:"views"`

	// IsPublished controls visibility in public listings. Defaults to true.
	IsPublished bool `json:"isPublished"`

	// CreatedAt is the timestamp when the video was published.
	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is the timestamp when the video was last updated.
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewVideo creates a new published Video.
func NewVideo(ownerID, videoURL, thumbnailURL, title, description string, durationSeconds float64) *Video {
	now := time.Now().UTC()
	return &Video{
		ID:              NewID(),
		OwnerID:         ownerID,
		VideoURL:        videoURL,
		ThumbnailURL:    thumbnailURL,
		Title:           title,
		Description:     description,
		DurationSeconds: durationSeconds,
		IsPublished:     true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}
