package voting

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"
	"topfived/internal/providers"
)

type Outcome string

const (
	OutcomeCommitted    Outcome = "committed"
	OutcomeRolledBack   Outcome = "rolled_back"
	OutcomeAlreadyVoted Outcome = "already_voted"
	OutcomeBusy         Outcome = "busy"
)

type Result struct {
	Outcome     Outcome  `json:"outcome"`
	CandidateID string   `json:"candidate"`
	Votes       []string `json:"votes"`
	// CastID is the id added by this attempt, empty for a retraction.
	CastID    string `json:"castId,omitempty"`
	Retracted bool   `json:"retracted"`
	Notice    Notice `json:"notice"`
	Err       error  `json:"-"`
}

// Coordinator runs single vote actions against a session: it guards the
// card, applies the toggle locally, persists it and reconciles the result.
type Coordinator struct {
	store   VoteSetStore
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
	timeout time.Duration
}

func NewCoordinator(store VoteSetStore, logger providers.Logger, metrics providers.MetricsProviderInterface, timeout time.Duration) *Coordinator {
	return &Coordinator{
		store:   store,
		logger:  logger,
		metrics: metrics,
		timeout: timeout,
	}
}

// Vote toggles voter's membership in the candidate's vote set. Refusals and
// remote failures are reported through the Result; the returned error is
// reserved for requests that name no card in the session.
func (c *Coordinator) Vote(ctx context.Context, s *Session, candidateID string, voter VoterIdentity) (Result, error) {
	card, ok := s.Card(candidateID)
	if !ok {
		return Result{}, fmt.Errorf("%w: %s in group %s", ErrUnknownCandidate, candidateID, s.GroupID)
	}

	if !card.inFlight.CompareAndSwap(false, true) {
		return c.finish(Result{
			Outcome:     OutcomeBusy,
			CandidateID: candidateID,
			Votes:       card.Votes(),
			Notice:      noticeBusy,
			Err:         ErrBusy,
		}), nil
	}

	ids := voter.IDs()
	elsewhere := s.SingleChoice && s.votedElsewhere(candidateID, ids)

	card.mu.Lock()
	retracting := HasVote(card.state.Votes, ids)
	castID := ""
	if !retracting && !elsewhere {
		castID = voter.NewID()
	}
	next, err := Transition(card.state, Event{
		Kind:           EventVote,
		VoterIDs:       ids,
		CastID:         castID,
		SingleChoice:   s.SingleChoice,
		VotedElsewhere: elsewhere,
	})
	if err != nil {
		votes := slices.Clone(card.state.Votes)
		card.mu.Unlock()
		card.inFlight.Store(false)
		if errors.Is(err, ErrAlreadyVoted) {
			return c.finish(Result{
				Outcome:     OutcomeAlreadyVoted,
				CandidateID: candidateID,
				Votes:       votes,
				Notice:      noticeAlreadyVoted,
				Err:         err,
			}), nil
		}
		return Result{}, err
	}
	card.state = next
	votes := slices.Clone(next.Votes)
	card.mu.Unlock()

	if castID != "" {
		if err := voter.Remember(castID); err != nil {
			c.logger.Errorf(providers.TypeVote, "Could not record voter id %s: %s", castID, err)
		}
	}

	start := time.Now()
	remoteErr := c.persist(ctx, candidateID, votes)
	c.metrics.ObserveRemoteDuration(time.Since(start))

	res := Result{CandidateID: candidateID, CastID: castID, Retracted: retracting}

	card.mu.Lock()
	if remoteErr == nil {
		card.state, _ = Transition(card.state, Event{Kind: EventCommit})
		res.Outcome = OutcomeCommitted
		res.Notice = noticeRecorded
		if retracting {
			res.Notice = noticeRetracted
		}
	} else {
		card.state, _ = Transition(card.state, Event{Kind: EventFail})
		res.Outcome = OutcomeRolledBack
		res.Notice = noticeFailed
		if errors.Is(remoteErr, context.DeadlineExceeded) {
			res.Notice = noticeTimedOut
		}
		res.Err = fmt.Errorf("%w: %w", ErrPersistence, remoteErr)
		c.logger.Warnf(providers.TypeVote, "Vote on %s rolled back: %s", candidateID, remoteErr)
	}
	card.state, _ = Transition(card.state, Event{Kind: EventSettle})
	s.settled.Inc()
	res.Votes = slices.Clone(card.state.Votes)
	card.mu.Unlock()

	card.inFlight.Store(false)
	s.toggleRound()

	return c.finish(res), nil
}

// persist bounds the remote call by the configured timeout. A store that
// ignores its context is abandoned once the deadline passes.
func (c *Coordinator) persist(ctx context.Context, candidateID string, votes []string) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	done := make(chan error, 1)
	go func() {
		done <- c.store.UpdateVoteSet(ctx, candidateID, votes)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Coordinator) finish(res Result) Result {
	c.metrics.IncVoteOutcome(string(res.Outcome))
	c.logger.Debugf(providers.TypeVote, "Vote on %s: %s (%d votes)", res.CandidateID, res.Outcome, len(res.Votes))
	return res
}
