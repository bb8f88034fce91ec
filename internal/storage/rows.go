package storage

import (
	"database/sql"
	"time"
	"topfived/internal/models"

	json "github.com/goccy/go-json"
)

type listRow struct {
	ID           string          `db:"id"`
	Title        string          `db:"title"`
	Description  string          `db:"description"`
	ItemsJSON    string          `db:"items"`
	TagsJSON     string          `db:"tags"`
	CreatorID    string          `db:"creator_id"`
	CreatorName  string          `db:"creator_name"`
	CreatorImage string          `db:"creator_image"`
	CreatedAt    int64           `db:"created_at"`
	UpdatedAt    int64           `db:"updated_at"`
	Views        int             `db:"views"`
	Bookmarks    int             `db:"bookmarks"`
	Shares       int             `db:"shares"`
	AIScore      sql.NullFloat64 `db:"ai_score"`
}

type likeRow struct {
	ListID    string `db:"list_id"`
	UserID    string `db:"user_id"`
	CreatedAt int64  `db:"created_at"`
}

type commentRow struct {
	ID        string `db:"id"`
	ListID    string `db:"list_id"`
	AuthorID  string `db:"author_id"`
	Body      string `db:"body"`
	CreatedAt int64  `db:"created_at"`
}

type debateRow struct {
	ID           string  `db:"id"`
	Title        string  `db:"title"`
	CreatedAt    int64   `db:"created_at"`
	Views        int     `db:"views"`
	Comments     int     `db:"comments"`
	Participants int     `db:"participants"`
	Shares       int     `db:"shares"`
	Score        float64 `db:"score"`
	Quality      float64 `db:"quality"`
	Controversy  float64 `db:"controversy"`
	Trend        float64 `db:"trend"`
}

type argumentRow struct {
	ID       string  `db:"id"`
	DebateID string  `db:"debate_id"`
	Position int     `db:"position"`
	Body     string  `db:"body"`
	Quality  float64 `db:"quality"`
	AuthorID string  `db:"author_id"`
}

type groupRow struct {
	ID           string `db:"id"`
	Title        string `db:"title"`
	SingleChoice bool   `db:"single_choice"`
}

type candidateRow struct {
	ID        string `db:"id"`
	GroupID   string `db:"group_id"`
	ListID    string `db:"list_id"`
	Position  int    `db:"position"`
	VotesJSON string `db:"votes"`
}

// Timestamps are stored as unix milliseconds; zero time maps to 0.
func toMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

func newListRow(l *models.RankedList) (listRow, error) {
	items, err := json.Marshal(orEmpty(l.Items))
	if err != nil {
		return listRow{}, err
	}
	tags, err := json.Marshal(orEmpty(l.Tags))
	if err != nil {
		return listRow{}, err
	}
	row := listRow{
		ID:           l.ID,
		Title:        l.Title,
		Description:  l.Description,
		ItemsJSON:    string(items),
		TagsJSON:     string(tags),
		CreatorID:    l.Creator.ID,
		CreatorName:  l.Creator.Name,
		CreatorImage: l.Creator.Image,
		CreatedAt:    toMillis(l.CreatedAt),
		UpdatedAt:    toMillis(l.UpdatedAt),
		Views:        l.Views,
		Bookmarks:    l.Bookmarks,
		Shares:       l.Shares,
	}
	if l.AIScore != nil {
		row.AIScore = sql.NullFloat64{Float64: *l.AIScore, Valid: true}
	}
	return row, nil
}

func (r listRow) toModel() (models.RankedList, error) {
	l := models.RankedList{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Creator:     models.Creator{ID: r.CreatorID, Name: r.CreatorName, Image: r.CreatorImage},
		CreatedAt:   fromMillis(r.CreatedAt),
		UpdatedAt:   fromMillis(r.UpdatedAt),
		Views:       r.Views,
		Bookmarks:   r.Bookmarks,
		Shares:      r.Shares,
		Likes:       []models.Like{},
		Comments:    []models.Comment{},
	}
	if err := json.Unmarshal([]byte(r.ItemsJSON), &l.Items); err != nil {
		return l, err
	}
	if err := json.Unmarshal([]byte(r.TagsJSON), &l.Tags); err != nil {
		return l, err
	}
	if r.AIScore.Valid {
		score := r.AIScore.Float64
		l.AIScore = &score
	}
	return l, nil
}

func (r debateRow) toModel() models.Debate {
	return models.Debate{
		ID:           r.ID,
		Title:        r.Title,
		CreatedAt:    fromMillis(r.CreatedAt),
		Views:        r.Views,
		Comments:     r.Comments,
		Participants: r.Participants,
		Shares:       r.Shares,
		Arguments:    []models.Argument{},
		Stats: models.DebateStats{
			Score:       r.Score,
			Quality:     r.Quality,
			Controversy: r.Controversy,
			Trend:       r.Trend,
		},
	}
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
