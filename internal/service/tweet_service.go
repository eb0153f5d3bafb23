package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/cliptube/cliptube/internal/domain"
	"github.com/cliptube/cliptube/internal/query"
	"github.com/cliptube/cliptube/internal/repository"
)

// TweetService handles short text posts on a channel.
type TweetService struct {
	tweets repository.TweetRepository
	users  repository.UserRepository
	engine *query.Engine
	logger zerolog.Logger
}

// NewTweetService creates a new TweetService.
func NewTweetService(store *repository.Store, logger zerolog.Logger) *TweetService {
	return &TweetService{
		tweets: store.Tweets,
		users:  store.Users,
		engine: query.NewEngine(store.Source),
		logger: logger.With().Str("service", "tweet").Logger(),
	}
}

// Create posts a new tweet for the caller.
func (s *TweetService) Create(ctx context.Context, callerID, content string) (*domain.Tweet, error) {
	if err := requireField("content", content); err != nil {
		return nil, err
	}

	tweet := domain.NewTweet(callerID, content)
	if err := s.tweets.Create(ctx, tweet); err != nil {
		s.logger.Error().Err(err).Msg("failed to create tweet")
		return nil, internalErr(err)
	}
	return tweet, nil
}

// ListByUser returns a user's tweets newest first, each enriched with its
// owner and like count.
func (s *TweetService) ListByUser(ctx context.Context, userID string) ([]query.Document, error) {
	if err := validateID(userID); err != nil {
		return nil, err
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, internalErr(err)
	}

	pipeline := query.Pipeline{
		query.Match{All: []query.Cond{{Field: "owner", Op: query.OpEq, Value: userID}}},
	}
	pipeline = append(pipeline, ownerLookup("owner", "owner")...)
	pipeline = append(pipeline,
		query.Lookup{
			From:         "likes",
			LocalField:   "id",
			ForeignField: "tweet",
			As:           "likes",
		},
		query.AddFields{"likesCount": query.Size{Field: "likes"}},
		query.Project{"content", "owner", "likesCount", "createdAt"},
		query.Sort{Field: "createdAt", Descending: true},
	)

	docs, err := s.engine.Run(ctx, "tweets", pipeline)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("tweet listing pipeline failed")
		return nil, internalErr(err)
	}
	return docs, nil
}

// Update rewrites a tweet's content, owner-only.
func (s *TweetService) Update(ctx context.Context, callerID, tweetID, content string) (*domain.Tweet, error) {
	if err := requireField("content", content); err != nil {
		return nil, err
	}

	tweet, err := s.ownedTweet(ctx, callerID, tweetID)
	if err != nil {
		return nil, err
	}

	tweet.Content = content
	tweet.UpdatedAt = time.Now().UTC()

	if err := s.tweets.Update(ctx, tweet); err != nil {
		return nil, internalErr(err)
	}
	return tweet, nil
}

// Delete removes a tweet and its likes, owner-only.
func (s *TweetService) Delete(ctx context.Context, callerID, tweetID string) error {
	if _, err := s.ownedTweet(ctx, callerID, tweetID); err != nil {
		return err
	}

	if err := s.tweets.Delete(ctx, tweetID); err != nil {
		if errors.Is(err, domain.ErrTweetNotFound) {
			return err
		}
		return internalErr(err)
	}
	return nil
}

func (s *TweetService) ownedTweet(ctx context.Context, callerID, tweetID string) (*domain.Tweet, error) {
	if err := validateID(tweetID); err != nil {
		return nil, err
	}

	tweet, err := s.tweets.GetByID(ctx, tweetID)
	if err != nil {
		if errors.Is(err, domain.ErrTweetNotFound) {
			return nil, err
		}
		return nil, internalErr(err)
	}

	if err := assertOwner(tweet.OwnerID, callerID); err != nil {
		return nil, err
	}
	return tweet, nil
}
