package voting

import "slices"

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseVoting
	PhaseCommitted
	PhaseRolledBack
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseVoting:
		return "voting"
	case PhaseCommitted:
		return "committed"
	case PhaseRolledBack:
		return "rolled_back"
	default:
		return "unknown"
	}
}

// CardState is the vote state of one candidate card. Prior holds the vote
// set as it was before the attempt currently in flight.
type CardState struct {
	Phase Phase
	Votes []string
	Prior []string
}

type EventKind int

const (
	EventVote EventKind = iota
	EventCommit
	EventFail
	EventSettle
)

type Event struct {
	Kind EventKind
	// VoterIDs are all ids belonging to the voter. Any of them present in
	// the vote set counts as the voter's existing vote.
	VoterIDs []string
	// CastID is appended when the voter has no vote on this card.
	CastID         string
	SingleChoice   bool
	VotedElsewhere bool
}

// HasVote reports whether any of ids is in votes.
func HasVote(votes, ids []string) bool {
	for _, id := range ids {
		if slices.Contains(votes, id) {
			return true
		}
	}
	return false
}

func without(votes, ids []string) []string {
	out := make([]string, 0, len(votes))
	for _, v := range votes {
		if !slices.Contains(ids, v) {
			out = append(out, v)
		}
	}
	return out
}

// Transition applies e to s and returns the next state. It never mutates s.
func Transition(s CardState, e Event) (CardState, error) {
	switch e.Kind {
	case EventVote:
		if s.Phase == PhaseVoting {
			return s, ErrBusy
		}
		if s.Phase != PhaseIdle {
			return s, ErrInvalidTransition
		}
		next := CardState{Phase: PhaseVoting, Prior: slices.Clone(s.Votes)}
		if HasVote(s.Votes, e.VoterIDs) {
			next.Votes = without(s.Votes, e.VoterIDs)
			return next, nil
		}
		if e.SingleChoice && e.VotedElsewhere {
			return s, ErrAlreadyVoted
		}
		if e.CastID == "" {
			return s, ErrNoVoterID
		}
		next.Votes = append(slices.Clone(s.Votes), e.CastID)
		return next, nil

	case EventCommit:
		if s.Phase != PhaseVoting {
			return s, ErrInvalidTransition
		}
		return CardState{Phase: PhaseCommitted, Votes: s.Votes}, nil

	case EventFail:
		if s.Phase != PhaseVoting {
			return s, ErrInvalidTransition
		}
		return CardState{Phase: PhaseRolledBack, Votes: s.Prior}, nil

	case EventSettle:
		if s.Phase != PhaseCommitted && s.Phase != PhaseRolledBack {
			return s, ErrInvalidTransition
		}
		return CardState{Phase: PhaseIdle, Votes: s.Votes}, nil
	}
	return s, ErrInvalidTransition
}
