package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/cliptube/cliptube/internal/domain"
	"github.com/cliptube/cliptube/internal/query"
	"github.com/cliptube/cliptube/internal/repository"
)

// SubscriptionService toggles channel subscriptions and lists either side of
// the relation.
type SubscriptionService struct {
	subs   repository.SubscriptionRepository
	users  repository.UserRepository
	engine *query.Engine
	logger zerolog.Logger
}

// NewSubscriptionService creates a new SubscriptionService.
func NewSubscriptionService(store *repository.Store, logger zerolog.Logger) *SubscriptionService {
	return &SubscriptionService{
		subs:   store.Subscriptions,
		users:  store.Users,
		engine: query.NewEngine(store.Source),
		logger: logger.With().Str("service", "subscription").Logger(),
	}
}

// Toggle flips the caller's subscription to a channel. Subscribing to your
// own channel is rejected.
func (s *SubscriptionService) Toggle(ctx context.Context, callerID, channelID string) (*ToggleResult, error) {
	if err := validateID(channelID); err != nil {
		return nil, err
	}
	if channelID == callerID {
		return nil, domain.ErrSelfSubscription
	}

	if _, err := s.users.GetByID(ctx, channelID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, internalErr(err)
	}

	result, err := toggleRelation(ctx,
		func(ctx context.Context) (string, error) {
			sub, err := s.subs.Find(ctx, callerID, channelID)
			if err != nil {
				return "", err
			}
			return sub.ID, nil
		},
		func(ctx context.Context) error {
			return s.subs.Create(ctx, domain.NewSubscription(callerID, channelID))
		},
		func(ctx context.Context, id string) error {
			return s.subs.Delete(ctx, id)
		},
	)
	if err != nil {
		s.logger.Error().Err(err).Str("channel_id", channelID).Msg("subscription toggle failed")
		return nil, err
	}
	return result, nil
}

// Subscribers lists the users subscribed to a channel.
func (s *SubscriptionService) Subscribers(ctx context.Context, channelID string) ([]query.Document, error) {
	return s.listSide(ctx, channelID, "channel", "subscriber", "subscriberDetails")
}

// SubscribedChannels lists the channels a user is subscribed to.
func (s *SubscriptionService) SubscribedChannels(ctx context.Context, subscriberID string) ([]query.Document, error) {
	return s.listSide(ctx, subscriberID, "subscriber", "channel", "channelDetails")
}

// listSide resolves one side of the subscription relation into user profiles.
func (s *SubscriptionService) listSide(ctx context.Context, userID, matchField, joinField, as string) ([]query.Document, error) {
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
		query.Match{All: []query.Cond{{Field: matchField, Op: query.OpEq, Value: userID}}},
		query.Lookup{
			From:         "users",
			LocalField:   joinField,
			ForeignField: "id",
			As:           as,
			Pipeline: query.Pipeline{
				query.Project{"fullName", "userName", "avatar"},
			},
		},
		query.AddFields{as: query.First{Field: as}},
		query.Project{as, "createdAt"},
	}

	docs, err := s.engine.Run(ctx, "subscriptions", pipeline)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("subscription listing pipeline failed")
		return nil, internalErr(err)
	}
	return docs, nil
}
