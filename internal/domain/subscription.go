package domain

import "time"

// Subscription is the toggle relation between a subscriber and a channel
// (both users). Invariant: at most one Subscription per (Subscriber, Channel),
// enforced by a store-level unique index. Subscriber must differ from Channel;
// the toggle boundary rejects self-subscription.
type Subscription struct {
	ID           string    `json:"id"`
	SubscriberID string    `json:"subscriber"`
	ChannelID    string    `json:"channel"`
	CreatedAt    time.Time `json:"createdAt"`
}

// NewSubscription creates a new Subscription.
func NewSubscription(subscriberID, channelID string) *Subscription {
	return &Subscription{
		ID:           NewID(),
		SubscriberID: subscriberID,
		ChannelID:    channelID,
		CreatedAt:    time.Now().UTC(),
	}
}
