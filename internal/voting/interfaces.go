package voting

import "context"

// VoteSetStore persists one candidate's full vote set.
type VoteSetStore interface {
	UpdateVoteSet(ctx context.Context, candidateID string, votes []string) error
}

// KeyValueStore is the device's durable local key-value store.
type KeyValueStore interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

// VoterIdentity yields the ids a voter may already have voted with and
// the id to use for a new vote.
type VoterIdentity interface {
	IDs() []string
	NewID() string
	Remember(id string) error
}

// UserIdentity is an authenticated user id; it is stable across votes.
type UserIdentity string

func (u UserIdentity) IDs() []string {
	return []string{string(u)}
}

func (u UserIdentity) NewID() string {
	return string(u)
}

func (u UserIdentity) Remember(_ string) error {
	return nil
}
