package models

import (
	"encoding/json"
	"time"
)

// AnonymousAuthor is shown when a quote carries no author name.
const AnonymousAuthor = "Anonymous"

type Quote struct {
	ID             ID
	Content        string
	AuthorID       ID
	AuthorUsername string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	LikesCount     int
	DislikesCount  int
	UserReaction   Reaction
}

type quoteWire struct {
	ID             ID       `json:"id"`
	Content        string   `json:"content"`
	AuthorID       ID       `json:"author_id"`
	UserID         ID       `json:"user_id"`
	AuthorUsername string   `json:"author_username"`
	AuthorName     string   `json:"author_name"`
	Author         *struct {
		ID       ID     `json:"id"`
		Username string `json:"username"`
	} `json:"author"`
	CreatedAt     string   `json:"created_at"`
	UpdatedAt     string   `json:"updated_at"`
	LikesCount    Count    `json:"likes_count"`
	DislikesCount Count    `json:"dislikes_count"`
	UserReaction  Reaction `json:"userReaction"`
}

func (q *Quote) UnmarshalJSON(b []byte) error {
	var w quoteWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}

	var nestedID ID
	var nestedName string
	if w.Author != nil {
		nestedID, nestedName = w.Author.ID, w.Author.Username
	}

	*q = Quote{
		ID:             w.ID,
		Content:        w.Content,
		AuthorID:       ID(firstNonEmpty(string(w.AuthorID), string(w.UserID), string(nestedID))),
		AuthorUsername: firstNonEmpty(w.AuthorUsername, w.AuthorName, nestedName),
		CreatedAt:      parseTime(w.CreatedAt),
		UpdatedAt:      parseTime(w.UpdatedAt),
		LikesCount:     max(int(w.LikesCount), 0),
		DislikesCount:  max(int(w.DislikesCount), 0),
		UserReaction:   w.UserReaction,
	}
	return nil
}

// Author returns the display name of the quote's author.
func (q Quote) Author() string {
	return firstNonEmpty(q.AuthorUsername, AnonymousAuthor)
}

// OwnedBy reports whether userID wrote q.
func (q Quote) OwnedBy(userID ID) bool {
	return userID != "" && q.AuthorID == userID
}

// QuotePage is one page of a quote listing.
type QuotePage struct {
	Quotes []Quote
	Total  int
	Page   int
	Limit  int
}

// HasMore reports whether a further page may exist: a full page suggests
// more. Total is not trusted because not every listing endpoint sends it.
func (p QuotePage) HasMore() bool {
	return p.Limit > 0 && len(p.Quotes) == p.Limit
}
