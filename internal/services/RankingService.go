package services

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"
	"topfived/internal/models"
	"topfived/internal/providers"
	"topfived/internal/scoring"
	"topfived/internal/storage"
)

type SortMode string

const (
	SortTrending   SortMode = "trending"
	SortEngagement SortMode = "engagement"
	SortNewest     SortMode = "newest"
	SortLikes      SortMode = "likes"
)

var ErrUnknownSort = errors.New("unknown sort mode")

func ParseSortMode(s string) (SortMode, error) {
	switch SortMode(s) {
	case "", SortTrending:
		return SortTrending, nil
	case SortEngagement, SortNewest, SortLikes:
		return SortMode(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSort, s)
}

type ContentRepository interface {
	GetList(ctx context.Context, id string) (*models.RankedList, error)
	ListLists(ctx context.Context, opts storage.ListOpts) ([]models.RankedList, error)
	ListDebates(ctx context.Context) ([]models.Debate, error)
}

type RankingServiceInterface interface {
	Lists(ctx context.Context, sort SortMode, tag string) ([]models.ListView, error)
	ListSnapshot(ctx context.Context, id string) (*models.ListView, error)
	Debates(ctx context.Context) ([]models.DebateView, error)
}

type RankingService struct {
	repo  ContentRepository
	clock providers.Clock
}

func NewRankingService(repo ContentRepository, clock providers.Clock) RankingServiceInterface {
	return &RankingService{repo: repo, clock: clock}
}

func view(l *models.RankedList, now time.Time) models.ListView {
	return models.ListView{
		List:       l,
		Engagement: scoring.Engagement(l, now),
		Trending:   scoring.ListTrending(l, now),
	}
}

// Lists scores every list (optionally only those carrying tag) and orders
// them by sort. Ties keep the store's newest-first order.
func (rs *RankingService) Lists(ctx context.Context, sort SortMode, tag string) ([]models.ListView, error) {
	lists, err := rs.repo.ListLists(ctx, storage.ListOpts{Tag: tag})
	if err != nil {
		return nil, err
	}

	now := rs.clock.Now()
	views := make([]models.ListView, len(lists))
	for i := range lists {
		views[i] = view(&lists[i], now)
	}

	var key func(v models.ListView) float64
	switch sort {
	case SortEngagement:
		key = func(v models.ListView) float64 { return float64(v.Engagement.Score) }
	case SortNewest:
		key = func(v models.ListView) float64 { return float64(v.List.CreatedAt.UnixMilli()) }
	case SortLikes:
		key = func(v models.ListView) float64 { return float64(v.List.LikeCount()) }
	default:
		key = func(v models.ListView) float64 { return v.Trending.Score }
	}

	slices.SortStableFunc(views, func(a, b models.ListView) int {
		return cmp.Compare(key(b), key(a))
	})
	return views, nil
}

func (rs *RankingService) ListSnapshot(ctx context.Context, id string) (*models.ListView, error) {
	l, err := rs.repo.GetList(ctx, id)
	if err != nil {
		return nil, err
	}
	v := view(l, rs.clock.Now())
	return &v, nil
}

// Debates returns every debate with its trending score and category flags,
// highest score first.
func (rs *RankingService) Debates(ctx context.Context) ([]models.DebateView, error) {
	debates, err := rs.repo.ListDebates(ctx)
	if err != nil {
		return nil, err
	}

	now := rs.clock.Now()
	views := make([]models.DebateView, len(debates))
	for i := range debates {
		d := &debates[i]
		views[i] = models.DebateView{
			Debate:     d,
			Trending:   scoring.DebateTrending(d, now),
			Categories: scoring.Categorize(d.Stats),
		}
	}

	slices.SortStableFunc(views, func(a, b models.DebateView) int {
		return cmp.Compare(b.Trending.Score, a.Trending.Score)
	})
	return views, nil
}
