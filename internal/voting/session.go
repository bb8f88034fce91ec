package voting

import (
	"slices"
	"sync"
	"topfived/internal/models"

	"go.uber.org/atomic"
)

// Card owns one candidate's vote set and its in-flight flag.
type Card struct {
	CandidateID string
	ListID      string

	mu       sync.Mutex
	state    CardState
	inFlight atomic.Bool
}

func (c *Card) Votes() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.state.Votes)
}

func (c *Card) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Phase
}

func (c *Card) InFlight() bool {
	return c.inFlight.Load()
}

// Session is the in-memory view of one group challenge.
type Session struct {
	GroupID      string
	SingleChoice bool

	cards   []*Card
	byID    map[string]*Card
	round   atomic.Bool
	settled atomic.Uint64
}

type Status struct {
	GroupID  string   `json:"group"`
	Round    bool     `json:"round"`
	HasVoted bool     `json:"hasVoted"`
	VotedFor []string `json:"votedFor"`
}

func NewSession(g *models.Group) *Session {
	s := &Session{
		GroupID:      g.ID,
		SingleChoice: g.SingleChoice,
		byID:         make(map[string]*Card, len(g.Candidates)),
	}
	for _, cand := range g.Candidates {
		votes := cand.Votes
		if votes == nil {
			votes = []string{}
		}
		card := &Card{
			CandidateID: cand.ID,
			ListID:      cand.ListID,
			state:       CardState{Phase: PhaseIdle, Votes: slices.Clone(votes)},
		}
		s.cards = append(s.cards, card)
		s.byID[cand.ID] = card
	}
	return s
}

// Settled counts vote attempts that have settled on any card. Read it before
// fetching the group that is later passed to Sync.
func (s *Session) Settled() uint64 {
	return s.settled.Load()
}

// Sync replaces the vote sets of idle cards with the stored ones, provided no
// attempt settled since the group was read. Cards with an attempt in flight
// keep their optimistic state until it settles.
func (s *Session) Sync(g *models.Group, since uint64) {
	for _, cand := range g.Candidates {
		card, ok := s.byID[cand.ID]
		if !ok {
			continue
		}
		votes := cand.Votes
		if votes == nil {
			votes = []string{}
		}
		card.mu.Lock()
		if card.state.Phase == PhaseIdle && s.settled.Load() == since {
			card.state.Votes = slices.Clone(votes)
		}
		card.mu.Unlock()
	}
}

func (s *Session) Card(candidateID string) (*Card, bool) {
	card, ok := s.byID[candidateID]
	return card, ok
}

func (s *Session) Cards() []*Card {
	return s.cards
}

// Round flips after every settled vote attempt in the group.
func (s *Session) Round() bool {
	return s.round.Load()
}

func (s *Session) toggleRound() {
	s.round.Toggle()
}

// votedElsewhere checks other cards one at a time so no two card locks are
// ever held together.
func (s *Session) votedElsewhere(candidateID string, ids []string) bool {
	for _, card := range s.cards {
		if card.CandidateID == candidateID {
			continue
		}
		if HasVote(card.Votes(), ids) {
			return true
		}
	}
	return false
}

// VotedFor lists the candidates whose vote set holds any of ids.
func (s *Session) VotedFor(ids []string) []string {
	voted := []string{}
	for _, card := range s.cards {
		if HasVote(card.Votes(), ids) {
			voted = append(voted, card.CandidateID)
		}
	}
	return voted
}

func (s *Session) Status(ids []string) Status {
	voted := s.VotedFor(ids)
	return Status{
		GroupID:  s.GroupID,
		Round:    s.Round(),
		HasVoted: len(voted) > 0,
		VotedFor: voted,
	}
}
