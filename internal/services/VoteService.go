package services

import (
	"context"
	"sync"
	"topfived/internal/models"
	"topfived/internal/providers"
	"topfived/internal/structures"
	"topfived/internal/voting"
)

type GroupRepository interface {
	GetGroup(ctx context.Context, id string) (*models.Group, error)
	voting.VoteSetStore
}

type VoteServiceInterface interface {
	Vote(ctx context.Context, req models.VoteRequest) (voting.Result, error)
	Status(ctx context.Context, groupID string, voter models.Voter) (voting.Status, error)
	SessionCount() int
}

// VoteService keeps one coordinator session per group and one identity
// ledger per device namespace. Every access re-reads the group so writes made
// by other writers are seen before the next vote set is computed.
type VoteService struct {
	groups       GroupRepository
	coordinator  *voting.Coordinator
	kv           voting.KeyValueStore
	clock        providers.Clock
	logger       providers.Logger
	singleChoice bool

	mu       sync.Mutex
	sessions map[string]*voting.Session
	ledgers  map[string]*voting.IdentityLedger
}

func NewVoteService(
	conf *structures.Config,
	groups GroupRepository,
	kv voting.KeyValueStore,
	clock providers.Clock,
	logger providers.Logger,
	metrics providers.MetricsProviderInterface,
) VoteServiceInterface {
	return &VoteService{
		groups:       groups,
		coordinator:  voting.NewCoordinator(groups, logger, metrics, conf.Voting.RemoteTimeout),
		kv:           kv,
		clock:        clock,
		logger:       logger,
		singleChoice: conf.Voting.SingleChoice,
		sessions:     make(map[string]*voting.Session),
		ledgers:      make(map[string]*voting.IdentityLedger),
	}
}

func (vs *VoteService) session(ctx context.Context, groupID string) (*voting.Session, error) {
	vs.mu.Lock()
	cached, ok := vs.sessions[groupID]
	vs.mu.Unlock()

	var since uint64
	if ok {
		since = cached.Settled()
	}

	g, err := vs.groups.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if ok {
		cached.Sync(g, since)
		return cached, nil
	}
	if vs.singleChoice {
		g.SingleChoice = true
	}

	vs.mu.Lock()
	defer vs.mu.Unlock()

	if s, ok := vs.sessions[groupID]; ok {
		return s, nil
	}

	s := voting.NewSession(g)
	vs.sessions[groupID] = s
	vs.logger.Debugf(providers.TypeVote, "Loaded group %s with %d candidates", groupID, len(g.Candidates))
	return s, nil
}

func (vs *VoteService) identity(voter models.Voter) voting.VoterIdentity {
	if !voter.Anonymous() {
		return voting.UserIdentity(voter.UserID)
	}

	if voter.Device == "" {
		vs.logger.Warnf(providers.TypeVote, "Anonymous voter without device uses the shared identity history")
	}
	key := voting.LedgerKey(voter.Device)

	vs.mu.Lock()
	defer vs.mu.Unlock()

	ledger, ok := vs.ledgers[key]
	if !ok {
		ledger = voting.NewIdentityLedger(vs.kv, key, vs.clock, vs.logger)
		vs.ledgers[key] = ledger
	}
	return ledger
}

// Vote is detached from the caller's cancellation: once the local update is
// applied only the remote timeout may abort the write.
func (vs *VoteService) Vote(ctx context.Context, req models.VoteRequest) (voting.Result, error) {
	ctx = context.WithoutCancel(ctx)
	s, err := vs.session(ctx, req.Group)
	if err != nil {
		return voting.Result{}, err
	}
	return vs.coordinator.Vote(ctx, s, req.Candidate, vs.identity(req.Voter))
}

func (vs *VoteService) Status(ctx context.Context, groupID string, voter models.Voter) (voting.Status, error) {
	s, err := vs.session(ctx, groupID)
	if err != nil {
		return voting.Status{}, err
	}
	return s.Status(vs.identity(voter).IDs()), nil
}

func (vs *VoteService) SessionCount() int {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	return len(vs.sessions)
}
