package models

import "time"

type Argument struct {
	ID       string  `json:"id"`
	Body     string  `json:"body"`
	Quality  float64 `json:"quality"`
	AuthorID string  `json:"authorId,omitempty"`
}

// DebateStats are precomputed figures stored alongside a debate.
type DebateStats struct {
	Score       float64 `json:"score"`
	Quality     float64 `json:"quality"`
	Controversy float64 `json:"controversy"`
	Trend       float64 `json:"trend"`
}

type Debate struct {
	ID           string      `json:"id"`
	Title        string      `json:"title"`
	CreatedAt    time.Time   `json:"createdAt"`
	Views        int         `json:"views"`
	Comments     int         `json:"comments"`
	Participants int         `json:"participants"`
	Shares       int         `json:"shares"`
	Arguments    []Argument  `json:"arguments"`
	Stats        DebateStats `json:"stats"`
}
