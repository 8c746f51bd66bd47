package models

import (
	"math"
	"time"
)

// UserStats aggregates a user's quotes.
type UserStats struct {
	QuoteCount    int
	TotalLikes    int
	TotalDislikes int
}

// StatsFromQuotes reduces quotes into UserStats.
func StatsFromQuotes(quotes []Quote) UserStats {
	s := UserStats{QuoteCount: len(quotes)}
	for _, q := range quotes {
		s.TotalLikes += q.LikesCount
		s.TotalDislikes += q.DislikesCount
	}
	return s
}

func (s UserStats) TotalReactions() int {
	return s.TotalLikes + s.TotalDislikes
}

// LikesPerQuote is 0 for users without quotes.
func (s UserStats) LikesPerQuote() float64 {
	if s.QuoteCount == 0 {
		return 0
	}
	return float64(s.TotalLikes) / float64(s.QuoteCount)
}

// LikeDislikeRatio is +Inf when there are no dislikes.
func (s UserStats) LikeDislikeRatio() float64 {
	if s.TotalDislikes == 0 {
		return math.Inf(1)
	}
	return float64(s.TotalLikes) / float64(s.TotalDislikes)
}

// Engagement is reactions per quote; 0 for users without quotes.
func (s UserStats) Engagement() float64 {
	if s.QuoteCount == 0 {
		return 0
	}
	return float64(s.TotalReactions()) / float64(s.QuoteCount)
}

// AuthorSummary is one row of the authors directory.
type AuthorSummary struct {
	ID        ID
	Username  string
	FirstSeen time.Time
	Stats     UserStats
}
