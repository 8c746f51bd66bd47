package models

import (
	"encoding/json"
	"time"
)

// User is a profile as returned by /auth/me and /auth/profile/:id. Counters
// are zero when the server omits them.
type User struct {
	ID            ID        `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	QuoteCount    int       `json:"quotes_count"`
	TotalLikes    int       `json:"totalLikes"`
	TotalDislikes int       `json:"totalDislikes"`
}

type userWire struct {
	ID            ID     `json:"id"`
	UserID        ID     `json:"userId"`
	Username      string `json:"username"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	CreatedAt     string `json:"created_at"`
	CreatedAtAlt  string `json:"createdAt"`
	QuotesCount   *Count `json:"quotes_count"`
	QuoteCount    *Count `json:"quoteCount"`
	TotalLikes    *Count `json:"totalLikes"`
	LikesCount    *Count `json:"likes_count"`
	TotalDislikes *Count `json:"totalDislikes"`
	DislikesCount *Count `json:"dislikes_count"`
}

func (u *User) UnmarshalJSON(b []byte) error {
	var w userWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*u = User{
		ID:            ID(firstNonEmpty(string(w.ID), string(w.UserID))),
		Username:      firstNonEmpty(w.Username, w.Name),
		Email:         w.Email,
		CreatedAt:     parseTime(firstNonEmpty(w.CreatedAt, w.CreatedAtAlt)),
		QuoteCount:    firstNonNil(w.QuotesCount, w.QuoteCount),
		TotalLikes:    firstNonNil(w.TotalLikes, w.LikesCount),
		TotalDislikes: firstNonNil(w.TotalDislikes, w.DislikesCount),
	}
	return nil
}

// UserPatch is a partial profile. Nil fields were not provided.
type UserPatch struct {
	Username *string
	Email    *string
}

// PatchFrom collects the profile fields present in a raw JSON object.
func PatchFrom(raw []byte) (UserPatch, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return UserPatch{}, err
	}

	var p UserPatch
	for key, dst := range map[string]**string{"username": &p.Username, "email": &p.Email} {
		v, ok := fields[key]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return UserPatch{}, err
		}
		*dst = &s
	}
	return p, nil
}

// Merge returns a copy of u with the provided patch fields applied.
func (u User) Merge(p UserPatch) User {
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	return u
}
