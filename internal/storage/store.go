// Package storage is the sqlite-backed document store for lists, debates
// and voting groups.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"topfived/internal/models"
	"topfived/internal/structures"

	json "github.com/goccy/go-json"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

var ErrNotFound = errors.New("not found")

// ListOpts controls list listing.
type ListOpts struct {
	Tag   string
	Limit int
}

// Store is the persistence interface.
type Store interface {
	SaveList(ctx context.Context, l *models.RankedList) error
	GetList(ctx context.Context, id string) (*models.RankedList, error)
	ListLists(ctx context.Context, opts ListOpts) ([]models.RankedList, error)

	SaveDebate(ctx context.Context, d *models.Debate) error
	GetDebate(ctx context.Context, id string) (*models.Debate, error)
	ListDebates(ctx context.Context) ([]models.Debate, error)

	SaveGroup(ctx context.Context, g *models.Group) error
	GetGroup(ctx context.Context, id string) (*models.Group, error)
	UpdateVoteSet(ctx context.Context, candidateID string, votes []string) error

	Close() error
}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sqlx.DB
}

// New opens a SQLite database and runs migrations.
func New(path string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveList(ctx context.Context, l *models.RankedList) error {
	row, err := newListRow(l)
	if err != nil {
		return fmt.Errorf("encode list %s: %w", l.ID, err)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO lists (id, title, description, items, tags, creator_id, creator_name, creator_image,
			created_at, updated_at, views, bookmarks, shares, ai_score)
		VALUES (:id, :title, :description, :items, :tags, :creator_id, :creator_name, :creator_image,
			:created_at, :updated_at, :views, :bookmarks, :shares, :ai_score)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			items = excluded.items,
			tags = excluded.tags,
			creator_id = excluded.creator_id,
			creator_name = excluded.creator_name,
			creator_image = excluded.creator_image,
			updated_at = excluded.updated_at,
			views = excluded.views,
			bookmarks = excluded.bookmarks,
			shares = excluded.shares,
			ai_score = excluded.ai_score
	`, row)
	if err != nil {
		return fmt.Errorf("upsert list %s: %w", l.ID, err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM list_likes WHERE list_id = ?", l.ID); err != nil {
		return fmt.Errorf("clear likes %s: %w", l.ID, err)
	}
	for _, like := range l.Likes {
		_, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO list_likes (list_id, user_id, created_at) VALUES (?, ?, ?)",
			l.ID, like.UserID, toMillis(like.CreatedAt))
		if err != nil {
			return fmt.Errorf("insert like %s/%s: %w", l.ID, like.UserID, err)
		}
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM comments WHERE list_id = ?", l.ID); err != nil {
		return fmt.Errorf("clear comments %s: %w", l.ID, err)
	}
	for _, c := range l.Comments {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO comments (id, list_id, author_id, body, created_at) VALUES (?, ?, ?, ?, ?)",
			c.ID, l.ID, c.AuthorID, c.Body, toMillis(c.CreatedAt))
		if err != nil {
			return fmt.Errorf("insert comment %s: %w", c.ID, err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) GetList(ctx context.Context, id string) (*models.RankedList, error) {
	var row listRow
	err := s.db.GetContext(ctx, &row, "SELECT * FROM lists WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get list %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get list %s: %w", id, err)
	}

	lists, err := s.hydrateLists(ctx, []listRow{row})
	if err != nil {
		return nil, err
	}
	return &lists[0], nil
}

func (s *SQLiteStore) ListLists(ctx context.Context, opts ListOpts) ([]models.RankedList, error) {
	query := "SELECT * FROM lists WHERE 1=1"
	var args []any

	if opts.Tag != "" {
		query += " AND EXISTS (SELECT 1 FROM json_each(lists.tags) WHERE json_each.value = ?)"
		args = append(args, opts.Tag)
	}

	query += " ORDER BY created_at DESC"

	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	var rows []listRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list lists: %w", err)
	}
	if len(rows) == 0 {
		return []models.RankedList{}, nil
	}
	return s.hydrateLists(ctx, rows)
}

// hydrateLists decodes rows and attaches likes and comments in two batched
// queries.
func (s *SQLiteStore) hydrateLists(ctx context.Context, rows []listRow) ([]models.RankedList, error) {
	ids := make([]string, len(rows))
	lists := make([]models.RankedList, len(rows))
	index := make(map[string]int, len(rows))
	for i, row := range rows {
		l, err := row.toModel()
		if err != nil {
			return nil, fmt.Errorf("decode list %s: %w", row.ID, err)
		}
		lists[i] = l
		ids[i] = row.ID
		index[row.ID] = i
	}

	query, args, err := sqlx.In("SELECT * FROM list_likes WHERE list_id IN (?) ORDER BY created_at", ids)
	if err != nil {
		return nil, err
	}
	var likes []likeRow
	if err := s.db.SelectContext(ctx, &likes, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("load likes: %w", err)
	}
	for _, like := range likes {
		l := &lists[index[like.ListID]]
		l.Likes = append(l.Likes, models.Like{UserID: like.UserID, CreatedAt: fromMillis(like.CreatedAt)})
	}

	query, args, err = sqlx.In("SELECT * FROM comments WHERE list_id IN (?) ORDER BY created_at", ids)
	if err != nil {
		return nil, err
	}
	var comments []commentRow
	if err := s.db.SelectContext(ctx, &comments, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("load comments: %w", err)
	}
	for _, c := range comments {
		l := &lists[index[c.ListID]]
		l.Comments = append(l.Comments, models.Comment{
			ID:        c.ID,
			AuthorID:  c.AuthorID,
			Body:      c.Body,
			CreatedAt: fromMillis(c.CreatedAt),
		})
	}

	return lists, nil
}

func (s *SQLiteStore) SaveDebate(ctx context.Context, d *models.Debate) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO debates (id, title, created_at, views, comments, participants, shares, score, quality, controversy, trend)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			views = excluded.views,
			comments = excluded.comments,
			participants = excluded.participants,
			shares = excluded.shares,
			score = excluded.score,
			quality = excluded.quality,
			controversy = excluded.controversy,
			trend = excluded.trend
	`, d.ID, d.Title, toMillis(d.CreatedAt), d.Views, d.Comments, d.Participants, d.Shares,
		d.Stats.Score, d.Stats.Quality, d.Stats.Controversy, d.Stats.Trend)
	if err != nil {
		return fmt.Errorf("upsert debate %s: %w", d.ID, err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM debate_arguments WHERE debate_id = ?", d.ID); err != nil {
		return fmt.Errorf("clear arguments %s: %w", d.ID, err)
	}
	for i, a := range d.Arguments {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO debate_arguments (id, debate_id, position, body, quality, author_id)
			VALUES (?, ?, ?, ?, ?, ?)
		`, a.ID, d.ID, i, a.Body, a.Quality, a.AuthorID)
		if err != nil {
			return fmt.Errorf("insert argument %s: %w", a.ID, err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) GetDebate(ctx context.Context, id string) (*models.Debate, error) {
	var row debateRow
	err := s.db.GetContext(ctx, &row, "SELECT * FROM debates WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get debate %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get debate %s: %w", id, err)
	}

	debates, err := s.hydrateDebates(ctx, []debateRow{row})
	if err != nil {
		return nil, err
	}
	return &debates[0], nil
}

func (s *SQLiteStore) ListDebates(ctx context.Context) ([]models.Debate, error) {
	var rows []debateRow
	if err := s.db.SelectContext(ctx, &rows, "SELECT * FROM debates ORDER BY created_at DESC"); err != nil {
		return nil, fmt.Errorf("list debates: %w", err)
	}
	if len(rows) == 0 {
		return []models.Debate{}, nil
	}
	return s.hydrateDebates(ctx, rows)
}

func (s *SQLiteStore) hydrateDebates(ctx context.Context, rows []debateRow) ([]models.Debate, error) {
	ids := make([]string, len(rows))
	debates := make([]models.Debate, len(rows))
	index := make(map[string]int, len(rows))
	for i, row := range rows {
		debates[i] = row.toModel()
		ids[i] = row.ID
		index[row.ID] = i
	}

	query, args, err := sqlx.In("SELECT * FROM debate_arguments WHERE debate_id IN (?) ORDER BY position", ids)
	if err != nil {
		return nil, err
	}
	var arguments []argumentRow
	if err := s.db.SelectContext(ctx, &arguments, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("load arguments: %w", err)
	}
	for _, a := range arguments {
		d := &debates[index[a.DebateID]]
		d.Arguments = append(d.Arguments, models.Argument{
			ID:       a.ID,
			Body:     a.Body,
			Quality:  a.Quality,
			AuthorID: a.AuthorID,
		})
	}
	return debates, nil
}

func (s *SQLiteStore) SaveGroup(ctx context.Context, g *models.Group) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO vote_groups (id, title, single_choice) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET title = excluded.title, single_choice = excluded.single_choice
	`, g.ID, g.Title, g.SingleChoice)
	if err != nil {
		return fmt.Errorf("upsert group %s: %w", g.ID, err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM candidates WHERE group_id = ?", g.ID); err != nil {
		return fmt.Errorf("clear candidates %s: %w", g.ID, err)
	}
	for i, c := range g.Candidates {
		votes, err := json.Marshal(orEmpty(c.Votes))
		if err != nil {
			return fmt.Errorf("encode votes %s: %w", c.ID, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO candidates (id, group_id, list_id, position, votes) VALUES (?, ?, ?, ?, ?)
		`, c.ID, g.ID, c.ListID, i, string(votes))
		if err != nil {
			return fmt.Errorf("insert candidate %s: %w", c.ID, err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) GetGroup(ctx context.Context, id string) (*models.Group, error) {
	var row groupRow
	err := s.db.GetContext(ctx, &row, "SELECT * FROM vote_groups WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get group %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get group %s: %w", id, err)
	}

	var candidates []candidateRow
	err = s.db.SelectContext(ctx, &candidates,
		"SELECT * FROM candidates WHERE group_id = ? ORDER BY position", id)
	if err != nil {
		return nil, fmt.Errorf("get candidates %s: %w", id, err)
	}

	g := &models.Group{
		ID:           row.ID,
		Title:        row.Title,
		SingleChoice: row.SingleChoice,
		Candidates:   make([]models.VoteCandidate, 0, len(candidates)),
	}
	for _, c := range candidates {
		votes := []string{}
		if err := json.Unmarshal([]byte(c.VotesJSON), &votes); err != nil {
			return nil, fmt.Errorf("decode votes %s: %w", c.ID, err)
		}
		g.Candidates = append(g.Candidates, models.VoteCandidate{ID: c.ID, ListID: c.ListID, Votes: votes})
	}
	return g, nil
}

// UpdateVoteSet replaces one candidate's whole vote set.
func (s *SQLiteStore) UpdateVoteSet(ctx context.Context, candidateID string, votes []string) error {
	data, err := json.Marshal(orEmpty(votes))
	if err != nil {
		return fmt.Errorf("encode votes %s: %w", candidateID, err)
	}

	res, err := s.db.ExecContext(ctx, "UPDATE candidates SET votes = ? WHERE id = ?", string(data), candidateID)
	if err != nil {
		return fmt.Errorf("update votes %s: %w", candidateID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update votes %s: %w", candidateID, err)
	}
	if n == 0 {
		return fmt.Errorf("update votes %s: %w", candidateID, ErrNotFound)
	}
	return nil
}

// NewStoreProvider opens the database named in the config. The returned
// cleanup closes it.
func NewStoreProvider(conf *structures.Config) (*SQLiteStore, func(), error) {
	store, err := New(conf.Database.Path)
	if err != nil {
		return nil, nil, err
	}
	return store, func() { _ = store.Close() }, nil
}
