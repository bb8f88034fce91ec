package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"topfived/internal/models"
	"topfived/internal/services"
	"topfived/internal/storage"
	"topfived/internal/testutil"
	"topfived/internal/voting"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- local mocks (scoped to controller tests) ---

type mockRanking struct {
	lists     []models.ListView
	debates   []models.DebateView
	err       error
	listCalls int
	lastSort  services.SortMode
	lastTag   string
}

func (m *mockRanking) Lists(_ context.Context, sort services.SortMode, tag string) ([]models.ListView, error) {
	m.listCalls++
	m.lastSort, m.lastTag = sort, tag
	return m.lists, m.err
}

func (m *mockRanking) ListSnapshot(_ context.Context, id string) (*models.ListView, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.lists {
		if m.lists[i].List.ID == id {
			return &m.lists[i], nil
		}
	}
	return nil, fmt.Errorf("get list %s: %w", id, storage.ErrNotFound)
}

func (m *mockRanking) Debates(_ context.Context) ([]models.DebateView, error) {
	return m.debates, m.err
}

type mockVotes struct {
	result   voting.Result
	status   voting.Status
	err      error
	requests []models.VoteRequest
	voters   []models.Voter
	sessions int
}

func (m *mockVotes) Vote(_ context.Context, req models.VoteRequest) (voting.Result, error) {
	m.requests = append(m.requests, req)
	return m.result, m.err
}

func (m *mockVotes) Status(_ context.Context, groupID string, voter models.Voter) (voting.Status, error) {
	m.voters = append(m.voters, voter)
	if m.err != nil {
		return voting.Status{}, m.err
	}
	s := m.status
	s.GroupID = groupID
	return s, nil
}

func (m *mockVotes) SessionCount() int { return m.sessions }

// --- helpers ---

func sampleRanking() *mockRanking {
	return &mockRanking{
		lists: []models.ListView{
			{List: &models.RankedList{ID: "l1", Title: "Best albums"}, Trending: models.TrendingSnapshot{Score: 20, Level: models.ActivityLow}},
		},
		debates: []models.DebateView{
			{Debate: &models.Debate{ID: "d1"}, Trending: models.TrendingSnapshot{Score: 1200, Level: models.ActivityViral}},
		},
	}
}

func newTestController(ranking *mockRanking, votes *mockVotes, cache *testutil.MockCache) *ApiController {
	return NewApiController(&testutil.MockLogger{}, ranking, votes, cache)
}

// --- list endpoints ---

func TestGetLists_ReturnsJSON(t *testing.T) {
	ranking := sampleRanking()
	ac := newTestController(ranking, &mockVotes{}, testutil.NewMockCache())

	req := httptest.NewRequest(http.MethodGet, "/lists?sort=likes&tag=music", nil)
	rr := httptest.NewRecorder()
	ac.GetLists(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.Equal(t, services.SortLikes, ranking.lastSort)
	assert.Equal(t, "music", ranking.lastTag)

	var views []map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &views))
	require.Len(t, views, 1)
	assert.Equal(t, float64(20), views[0]["trending"].(map[string]any)["score"])
}

func TestGetLists_DefaultSortIsTrending(t *testing.T) {
	ranking := sampleRanking()
	ac := newTestController(ranking, &mockVotes{}, testutil.NewMockCache())

	rr := httptest.NewRecorder()
	ac.GetLists(rr, httptest.NewRequest(http.MethodGet, "/lists", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, services.SortTrending, ranking.lastSort)
}

func TestGetLists_UnknownSort(t *testing.T) {
	ranking := sampleRanking()
	ac := newTestController(ranking, &mockVotes{}, testutil.NewMockCache())

	rr := httptest.NewRecorder()
	ac.GetLists(rr, httptest.NewRequest(http.MethodGet, "/lists?sort=random", nil))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, 0, ranking.listCalls)
}

func TestGetLists_CacheHit_ServiceNotCalled(t *testing.T) {
	ranking := sampleRanking()
	cache := testutil.NewMockCache()
	cache.Set("lists:trending:", []byte(`["cached"]`))
	ac := newTestController(ranking, &mockVotes{}, cache)

	rr := httptest.NewRecorder()
	ac.GetLists(rr, httptest.NewRequest(http.MethodGet, "/lists", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, `["cached"]`, rr.Body.String())
	assert.Equal(t, 0, ranking.listCalls)
}

func TestGetLists_CacheMiss_SavesResult(t *testing.T) {
	cache := testutil.NewMockCache()
	ac := newTestController(sampleRanking(), &mockVotes{}, cache)

	rr := httptest.NewRecorder()
	ac.GetLists(rr, httptest.NewRequest(http.MethodGet, "/lists?sort=newest&tag=film", nil))

	cached, ok := cache.Get("lists:newest:film")
	require.True(t, ok)
	assert.Equal(t, rr.Body.Bytes(), cached)
}

func TestGetLists_ServiceError(t *testing.T) {
	ranking := &mockRanking{err: errors.New("db down")}
	cache := testutil.NewMockCache()
	logger := &testutil.MockLogger{}
	ac := NewApiController(logger, ranking, &mockVotes{}, cache)

	rr := httptest.NewRecorder()
	ac.GetLists(rr, httptest.NewRequest(http.MethodGet, "/lists", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, 1, logger.Count("error"))
	assert.Empty(t, cache.Data)
}

func TestGetList_ReturnsSnapshot(t *testing.T) {
	ac := newTestController(sampleRanking(), &mockVotes{}, testutil.NewMockCache())

	rr := httptest.NewRecorder()
	ac.GetList(rr, httptest.NewRequest(http.MethodGet, "/list?id=l1", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	var view map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &view))
	assert.Equal(t, "l1", view["list"].(map[string]any)["id"])
}

func TestGetList_MissingID(t *testing.T) {
	ac := newTestController(sampleRanking(), &mockVotes{}, testutil.NewMockCache())

	rr := httptest.NewRecorder()
	ac.GetList(rr, httptest.NewRequest(http.MethodGet, "/list", nil))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetList_NotFound(t *testing.T) {
	cache := testutil.NewMockCache()
	ac := newTestController(sampleRanking(), &mockVotes{}, cache)

	rr := httptest.NewRecorder()
	ac.GetList(rr, httptest.NewRequest(http.MethodGet, "/list?id=ghost", nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	_, ok := cache.Get("list:ghost")
	assert.False(t, ok)
}

func TestGetDebates_ReturnsJSON(t *testing.T) {
	cache := testutil.NewMockCache()
	ac := newTestController(sampleRanking(), &mockVotes{}, cache)

	rr := httptest.NewRecorder()
	ac.GetDebates(rr, httptest.NewRequest(http.MethodGet, "/debates", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	var views []map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &views))
	require.Len(t, views, 1)
	assert.Equal(t, "viral", views[0]["trending"].(map[string]any)["level"])
	_, ok := cache.Get("debates")
	assert.True(t, ok)
}

// --- voting endpoints ---

func TestGetGroup_Status(t *testing.T) {
	votes := &mockVotes{status: voting.Status{Round: true, HasVoted: true, VotedFor: []string{"c1"}}}
	ac := newTestController(sampleRanking(), votes, testutil.NewMockCache())

	rr := httptest.NewRecorder()
	ac.GetGroup(rr, httptest.NewRequest(http.MethodGet, "/group?id=g1&user=alice", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, votes.voters, 1)
	assert.Equal(t, "alice", votes.voters[0].UserID)

	var status voting.Status
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &status))
	assert.Equal(t, "g1", status.GroupID)
	assert.Equal(t, []string{"c1"}, status.VotedFor)
}

func TestGetGroup_AnonymousDevice(t *testing.T) {
	votes := &mockVotes{}
	ac := newTestController(sampleRanking(), votes, testutil.NewMockCache())

	rr := httptest.NewRecorder()
	ac.GetGroup(rr, httptest.NewRequest(http.MethodGet, "/group?id=g1&device=tablet", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, votes.voters, 1)
	assert.True(t, votes.voters[0].Anonymous())
	assert.Equal(t, "tablet", votes.voters[0].Device)
}

func TestGetGroup_Errors(t *testing.T) {
	ac := newTestController(sampleRanking(), &mockVotes{}, testutil.NewMockCache())
	rr := httptest.NewRecorder()
	ac.GetGroup(rr, httptest.NewRequest(http.MethodGet, "/group", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	missing := &mockVotes{err: fmt.Errorf("get group g9: %w", storage.ErrNotFound)}
	ac = newTestController(sampleRanking(), missing, testutil.NewMockCache())
	rr = httptest.NewRecorder()
	ac.GetGroup(rr, httptest.NewRequest(http.MethodGet, "/group?id=g9&user=alice", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	anonymous := &mockVotes{}
	ac = newTestController(sampleRanking(), anonymous, testutil.NewMockCache())
	rr = httptest.NewRecorder()
	ac.GetGroup(rr, httptest.NewRequest(http.MethodGet, "/group?id=g1", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Empty(t, anonymous.voters)
}

func TestVote_StatusMapping(t *testing.T) {
	tests := []struct {
		outcome voting.Outcome
		status  int
	}{
		{voting.OutcomeCommitted, http.StatusOK},
		{voting.OutcomeAlreadyVoted, http.StatusConflict},
		{voting.OutcomeBusy, http.StatusTooManyRequests},
		{voting.OutcomeRolledBack, http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(string(tt.outcome), func(t *testing.T) {
			votes := &mockVotes{result: voting.Result{Outcome: tt.outcome, CandidateID: "c1", Votes: []string{"alice"}}}
			ac := newTestController(sampleRanking(), votes, testutil.NewMockCache())

			body := `{"group":"g1","candidate":"c1","user":"alice"}`
			rr := httptest.NewRecorder()
			ac.Vote(rr, httptest.NewRequest(http.MethodPost, "/vote", strings.NewReader(body)))

			assert.Equal(t, tt.status, rr.Code)
			var res map[string]any
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
			assert.Equal(t, string(tt.outcome), res["outcome"])
		})
	}
}

func TestVote_DecodesVoter(t *testing.T) {
	votes := &mockVotes{result: voting.Result{Outcome: voting.OutcomeCommitted}}
	ac := newTestController(sampleRanking(), votes, testutil.NewMockCache())

	body := `{"group":"g1","candidate":"c2","device":"phone"}`
	rr := httptest.NewRecorder()
	ac.Vote(rr, httptest.NewRequest(http.MethodPost, "/vote", strings.NewReader(body)))

	require.Len(t, votes.requests, 1)
	req := votes.requests[0]
	assert.Equal(t, "g1", req.Group)
	assert.Equal(t, "c2", req.Candidate)
	assert.True(t, req.Anonymous())
	assert.Equal(t, "phone", req.Device)
}

func TestVote_BadRequests(t *testing.T) {
	bodies := map[string]string{
		"invalid json":      `{"group":`,
		"missing group":     `{"candidate":"c1"}`,
		"missing candidate": `{"group":"g1"}`,
		"missing voter":     `{"group":"g1","candidate":"c1"}`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			votes := &mockVotes{}
			ac := newTestController(sampleRanking(), votes, testutil.NewMockCache())

			rr := httptest.NewRecorder()
			ac.Vote(rr, httptest.NewRequest(http.MethodPost, "/vote", strings.NewReader(body)))

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Empty(t, votes.requests)
		})
	}
}

func TestVote_OversizedBody(t *testing.T) {
	ac := newTestController(sampleRanking(), &mockVotes{}, testutil.NewMockCache())

	big := `{"group":"` + strings.Repeat("x", maxRequestBodySize+1) + `"}`
	rr := httptest.NewRecorder()
	ac.Vote(rr, httptest.NewRequest(http.MethodPost, "/vote", strings.NewReader(big)))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestVote_UnknownCandidate(t *testing.T) {
	votes := &mockVotes{err: fmt.Errorf("%w: ghost in group g1", voting.ErrUnknownCandidate)}
	ac := newTestController(sampleRanking(), votes, testutil.NewMockCache())

	body := `{"group":"g1","candidate":"ghost","user":"alice"}`
	rr := httptest.NewRecorder()
	ac.Vote(rr, httptest.NewRequest(http.MethodPost, "/vote", strings.NewReader(body)))

	assert.Equal(t, http.StatusNotFound, rr.Code)
}
