package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/cliptube/cliptube/internal/query"
)

// catalog exposes the entity tables as document collections for the query
// engine. Every scan returns rows in creation order, which is what gives
// pipelines their documented default ordering. Field names follow the wire
// shapes the pipelines produce, not the column names.
type catalog struct {
	db *DB
}

// NewCatalog creates a query.Source over the PostgreSQL store.
func NewCatalog(db *DB) query.Source {
	return &catalog{db: db}
}

// Scan returns every document of the named collection in creation order.
func (c *catalog) Scan(ctx context.Context, collection string) ([]query.Document, error) {
	switch collection {
	case "users":
		return c.scanUsers(ctx)
	case "videos":
		return c.scanVideos(ctx)
	case "comments":
		return c.scanComments(ctx)
	case "likes":
		return c.scanLikes(ctx)
	case "subscriptions":
		return c.scanSubscriptions(ctx)
	case "tweets":
		return c.scanTweets(ctx)
	}
	return nil, fmt.Errorf("unknown collection %q", collection)
}

func (c *catalog) scanUsers(ctx context.Context) ([]query.Document, error) {
	rows, err := c.db.Pool.Query(ctx, `
		SELECT id, user_name, email, full_name, avatar_url, cover_image_url, created_at
		FROM users
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to scan users: %w", err)
	}
	defer rows.Close()

	var docs []query.Document
	for rows.Next() {
		var id, userName, email, fullName, avatar, coverImage string
		var createdAt time.Time
		if err := rows.Scan(&id, &userName, &email, &fullName, &avatar, &coverImage, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		docs = append(docs, query.Document{
			"id":         id,
			"userName":   userName,
			"email":      email,
			"fullName":   fullName,
			"avatar":     avatar,
			"coverImage": coverImage,
			"createdAt":  createdAt,
		})
	}
	return docs, rows.Err()
}

func (c *catalog) scanVideos(ctx context.Context) ([]query.Document, error) {
	rows, err := c.db.Pool.Query(ctx, `
		SELECT id, owner_id, video_url, thumbnail_url, title, description,
			duration_seconds, views, is_published, created_at
		FROM videos
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to scan videos: %w", err)
	}
	defer rows.Close()

	var docs []query.Document
	for rows.Next() {
		var id, owner, videoURL, thumbnail, title, description string
		var duration float64
		var views int64
		var isPublished bool
		var createdAt time.Time
		if err := rows.Scan(&id, &owner, &videoURL, &thumbnail, &title, &description,
			&duration, &views, &isPublished, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan video row: %w", err)
		}
		docs = append(docs, query.Document{
			"id":          id,
			"owner":       owner,
			"videoFile":   videoURL,
			"thumbnail":   thumbnail,
			"title":       title,
			"description": description,
			"duration":    duration,
			"views":       views,
			"isPublished": isPublished,
			"createdAt":   createdAt,
		})
	}
	return docs, rows.Err()
}

func (c *catalog) scanComments(ctx context.Context) ([]query.Document, error) {
	rows, err := c.db.Pool.Query(ctx, `
		SELECT id, content, video_id, owner_id, created_at
		FROM comments
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to scan comments: %w", err)
	}
	defer rows.Close()

	var docs []query.Document
	for rows.Next() {
		var id, content, video, owner string
		var createdAt time.Time
		if err := rows.Scan(&id, &content, &video, &owner, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan comment row: %w", err)
		}
		docs = append(docs, query.Document{
			"id":        id,
			"content":   content,
			"video":     video,
			"owner":     owner,
			"createdAt": createdAt,
		})
	}
	return docs, rows.Err()
}

// scanLikes emits each like with exactly one subject field set ("video",
// "comment", or "tweet"), mirroring the mutually exclusive reference shape
// the pipelines join on.
func (c *catalog) scanLikes(ctx context.Context) ([]query.Document, error) {
	rows, err := c.db.Pool.Query(ctx, `
		SELECT id, kind, target_id, liked_by, created_at
		FROM likes
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to scan likes: %w", err)
	}
	defer rows.Close()

	var docs []query.Document
	for rows.Next() {
		var id, kind, targetID, likedBy string
		var createdAt time.Time
		if err := rows.Scan(&id, &kind, &targetID, &likedBy, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan like row: %w", err)
		}
		doc := query.Document{
			"id":        id,
			"likedBy":   likedBy,
			"createdAt": createdAt,
		}
		doc[kind] = targetID
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (c *catalog) scanSubscriptions(ctx context.Context) ([]query.Document, error) {
	rows, err := c.db.Pool.Query(ctx, `
		SELECT id, subscriber_id, channel_id, created_at
		FROM subscriptions
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to scan subscriptions: %w", err)
	}
	defer rows.Close()

	var docs []query.Document
	for rows.Next() {
		var id, subscriber, channel string
		var createdAt time.Time
		if err := rows.Scan(&id, &subscriber, &channel, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan subscription row: %w", err)
		}
		docs = append(docs, query.Document{
			"id":         id,
			"subscriber": subscriber,
			"channel":    channel,
			"createdAt":  createdAt,
		})
	}
	return docs, rows.Err()
}

func (c *catalog) scanTweets(ctx context.Context) ([]query.Document, error) {
	rows, err := c.db.Pool.Query(ctx, `
		SELECT id, content, owner_id, created_at
		FROM tweets
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to scan tweets: %w", err)
	}
	defer rows.Close()

	var docs []query.Document
	for rows.Next() {
		var id, content, owner string
		var createdAt time.Time
		if err := rows.Scan(&id, &content, &owner, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan tweet row: %w", err)
		}
		docs = append(docs, query.Document{
			"id":        id,
			"content":   content,
			"owner":     owner,
			"createdAt": createdAt,
		})
	}
	return docs, rows.Err()
}
