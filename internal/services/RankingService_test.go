package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
	"topfived/internal/models"
	"topfived/internal/storage"
	"topfived/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

type fakeContent struct {
	lists   []models.RankedList
	debates []models.Debate
	err     error
	lastTag string
}

func (f *fakeContent) GetList(_ context.Context, id string) (*models.RankedList, error) {
	for i := range f.lists {
		if f.lists[i].ID == id {
			l := f.lists[i]
			return &l, nil
		}
	}
	return nil, fmt.Errorf("get list %s: %w", id, storage.ErrNotFound)
}

func (f *fakeContent) ListLists(_ context.Context, opts storage.ListOpts) ([]models.RankedList, error) {
	f.lastTag = opts.Tag
	if f.err != nil {
		return nil, f.err
	}
	out := []models.RankedList{}
	for _, l := range f.lists {
		if opts.Tag == "" || l.HasTag(opts.Tag) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeContent) ListDebates(_ context.Context) ([]models.Debate, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.debates, nil
}

func likesAt(n int, at time.Time) []models.Like {
	likes := make([]models.Like, n)
	for i := range likes {
		likes[i] = models.Like{UserID: fmt.Sprintf("u%d", i), CreatedAt: at}
	}
	return likes
}

func rankingFixture() *fakeContent {
	return &fakeContent{
		lists: []models.RankedList{
			// Old list with many stale likes: high engagement history, no trend.
			{ID: "classic", CreatedAt: now.Add(-30 * 24 * time.Hour), Views: 5000, Likes: likesAt(40, now.Add(-20*24*time.Hour)), Tags: []string{"film"}},
			// Fresh list with a handful of recent likes.
			{ID: "fresh", CreatedAt: now.Add(-2 * time.Hour), Views: 50, Likes: likesAt(7, now.Add(-time.Hour)), Tags: []string{"music"}},
			{ID: "quiet", CreatedAt: now.Add(-time.Hour), Tags: []string{"music"}},
		},
		debates: []models.Debate{
			{ID: "small", CreatedAt: now, Views: 10, Arguments: []models.Argument{{Quality: 1}}},
			{ID: "big", CreatedAt: now, Views: 2000, Arguments: []models.Argument{{Quality: 0.6}}, Stats: models.DebateStats{Score: 600, Controversy: 0.9}},
			{ID: "none", CreatedAt: now, Views: 5000},
		},
	}
}

func ids(views []models.ListView) []string {
	out := make([]string, len(views))
	for i, v := range views {
		out[i] = v.List.ID
	}
	return out
}

func TestParseSortMode(t *testing.T) {
	mode, err := ParseSortMode("")
	require.NoError(t, err)
	assert.Equal(t, SortTrending, mode)

	mode, err = ParseSortMode("likes")
	require.NoError(t, err)
	assert.Equal(t, SortLikes, mode)

	_, err = ParseSortMode("random")
	assert.ErrorIs(t, err, ErrUnknownSort)
}

func TestRankingService_ListsSortModes(t *testing.T) {
	rs := NewRankingService(rankingFixture(), testutil.NewMockClock(now))
	ctx := context.Background()

	trending, err := rs.Lists(ctx, SortTrending, "")
	require.NoError(t, err)
	assert.Equal(t, "fresh", trending[0].List.ID)
	assert.Equal(t, 20.0, trending[0].Trending.Score)

	likes, err := rs.Lists(ctx, SortLikes, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"classic", "fresh", "quiet"}, ids(likes))

	newest, err := rs.Lists(ctx, SortNewest, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"quiet", "fresh", "classic"}, ids(newest))

	engagement, err := rs.Lists(ctx, SortEngagement, "")
	require.NoError(t, err)
	for i := 1; i < len(engagement); i++ {
		assert.GreaterOrEqual(t, engagement[i-1].Engagement.Score, engagement[i].Engagement.Score)
	}
}

// steppingClock moves a week forward every time it is read.
type steppingClock struct {
	now   time.Time
	reads int
}

func (c *steppingClock) Now() time.Time {
	t := c.now
	c.reads++
	c.now = c.now.Add(7 * 24 * time.Hour)
	return t
}

func TestRankingService_ListsReadClockOnce(t *testing.T) {
	likes := likesAt(7, now.Add(-time.Hour))
	repo := &fakeContent{lists: []models.RankedList{
		{ID: "first", CreatedAt: now.Add(-2 * time.Hour), Likes: likes},
		{ID: "second", CreatedAt: now.Add(-2 * time.Hour), Likes: likes},
	}}
	clock := &steppingClock{now: now}
	rs := NewRankingService(repo, clock)

	views, err := rs.Lists(context.Background(), SortTrending, "")
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, 1, clock.reads)
	assert.Equal(t, views[0].Trending, views[1].Trending)
	assert.Equal(t, views[0].Engagement.Score, views[1].Engagement.Score)
	assert.Equal(t, 20.0, views[0].Trending.Score)
}

func TestRankingService_ListsTagFilter(t *testing.T) {
	repo := rankingFixture()
	rs := NewRankingService(repo, testutil.NewMockClock(now))

	views, err := rs.Lists(context.Background(), SortNewest, "music")
	require.NoError(t, err)
	assert.Equal(t, "music", repo.lastTag)
	assert.Equal(t, []string{"quiet", "fresh"}, ids(views))
}

func TestRankingService_ListsError(t *testing.T) {
	repo := &fakeContent{err: errors.New("db down")}
	rs := NewRankingService(repo, testutil.NewMockClock(now))

	_, err := rs.Lists(context.Background(), SortTrending, "")
	assert.EqualError(t, err, "db down")

	_, err = rs.Debates(context.Background())
	assert.EqualError(t, err, "db down")
}

func TestRankingService_ListSnapshot(t *testing.T) {
	rs := NewRankingService(rankingFixture(), testutil.NewMockClock(now))

	v, err := rs.ListSnapshot(context.Background(), "fresh")
	require.NoError(t, err)
	assert.Equal(t, "fresh", v.List.ID)
	assert.True(t, v.Engagement.Indicators.HasRecentActivity)
	assert.Equal(t, models.ActivityLow, v.Trending.Level)

	_, err = rs.ListSnapshot(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestRankingService_Debates(t *testing.T) {
	rs := NewRankingService(rankingFixture(), testutil.NewMockClock(now))

	views, err := rs.Debates(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 3)

	assert.Equal(t, "big", views[0].Debate.ID)
	assert.InDelta(t, 1200, views[0].Trending.Score, 1e-6)
	assert.Equal(t, models.ActivityViral, views[0].Trending.Level)
	assert.True(t, views[0].Categories.IsHot)
	assert.True(t, views[0].Categories.IsControversial)
	assert.False(t, views[0].Categories.IsFeatured)

	assert.Equal(t, "small", views[1].Debate.ID)
	assert.Equal(t, "none", views[2].Debate.ID)
	assert.Equal(t, 0.0, views[2].Trending.Score)
}
