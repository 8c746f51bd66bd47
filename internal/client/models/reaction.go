package models

import (
	"encoding/json"
	"fmt"
)

// Reaction is a user's mark on a quote. The zero value means no reaction.
type Reaction string

const (
	ReactionNone    Reaction = ""
	ReactionLike    Reaction = "like"
	ReactionDislike Reaction = "dislike"
)

// ParseReaction maps "like"/"dislike" to an action. Anything else is rejected.
func ParseReaction(s string) (Reaction, error) {
	switch r := Reaction(s); r {
	case ReactionLike, ReactionDislike:
		return r, nil
	default:
		return ReactionNone, fmt.Errorf("unknown reaction %q", s)
	}
}

// IsAction reports whether r can be sent to the API.
func (r Reaction) IsAction() bool {
	return r == ReactionLike || r == ReactionDislike
}

func (r Reaction) String() string {
	if r == ReactionNone {
		return "none"
	}
	return string(r)
}

func (r Reaction) MarshalJSON() ([]byte, error) {
	if r == ReactionNone {
		return []byte("null"), nil
	}
	return json.Marshal(string(r))
}

func (r *Reaction) UnmarshalJSON(b []byte) error {
	var s *string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("reaction: %w", err)
	}
	if s == nil || *s == "" {
		*r = ReactionNone
		return nil
	}
	parsed, err := ParseReaction(*s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// ReactionResult is the body of POST /quotes/:id/like|dislike. Nil fields
// were omitted by the server; a present JSON null for userReaction decodes to
// a non-nil ReactionNone.
type ReactionResult struct {
	LikesCount    *int
	DislikesCount *int
	UserReaction  *Reaction
}

func (rr *ReactionResult) UnmarshalJSON(b []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return fmt.Errorf("reaction result: %w", err)
	}

	*rr = ReactionResult{}
	if v, ok := fields["likes_count"]; ok && string(v) != "null" {
		var c Count
		if err := json.Unmarshal(v, &c); err != nil {
			return fmt.Errorf("likes_count: %w", err)
		}
		n := int(c)
		rr.LikesCount = &n
	}
	if v, ok := fields["dislikes_count"]; ok && string(v) != "null" {
		var c Count
		if err := json.Unmarshal(v, &c); err != nil {
			return fmt.Errorf("dislikes_count: %w", err)
		}
		n := int(c)
		rr.DislikesCount = &n
	}
	if v, ok := fields["userReaction"]; ok {
		var r Reaction
		if err := r.UnmarshalJSON(v); err != nil {
			return err
		}
		rr.UserReaction = &r
	}
	return nil
}
