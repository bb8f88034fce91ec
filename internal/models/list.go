package models

import "time"

type Creator struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

type ListItem struct {
	Content string `json:"content"`
	Visible bool   `json:"visible"`
}

type Like struct {
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

type Comment struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"authorId"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

// RankedList is a user-authored ranking. Items keep their authored order.
type RankedList struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Items       []ListItem `json:"items"`
	Tags        []string   `json:"tags"`
	Creator     Creator    `json:"creator"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	Views       int        `json:"views"`
	Bookmarks   int        `json:"bookmarks"`
	Shares      int        `json:"shares"`
	Likes       []Like     `json:"likes"`
	Comments    []Comment  `json:"comments"`
	AIScore     *float64   `json:"aiScore,omitempty"`
}

// AddLike records a like, ignoring a user who already liked the list.
func (l *RankedList) AddLike(userID string, at time.Time) bool {
	for _, like := range l.Likes {
		if like.UserID == userID {
			return false
		}
	}
	l.Likes = append(l.Likes, Like{UserID: userID, CreatedAt: at})
	return true
}

func (l *RankedList) LikeCount() int {
	return len(l.Likes)
}

func (l *RankedList) HasTag(tag string) bool {
	for _, t := range l.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
