package domain

import (
	"math/rand/v2"
	"strings"
	"time"
)

// MaxAuthorLength bounds Quote.Author.
const MaxAuthorLength = 100

// unixEpochOrdinal is the proleptic Gregorian ordinal of 1970-01-01.
const unixEpochOrdinal = 719163

const secondsPerDay = 24 * 60 * 60

// FallbackQuote is served when no quote is active.
var FallbackQuote = Quote{
	Text:   "Stay hungry, stay foolish.",
	Author: "Steve Jobs",
	Active: true,
}

// Quote is a short text attributed to an author. Only active quotes take part
// in the quote of the day.
type Quote struct {
	ID        int64
	Text      string
	Author    string
	Active    bool
	CreatedAt time.Time
}

// Validate checks the quote content rules.
func (q *Quote) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return NewValidationError("text", "is required")
	}

	if strings.TrimSpace(q.Author) == "" {
		return NewValidationError("author", "is required")
	}

	if len([]rune(q.Author)) > MaxAuthorLength {
		return NewValidationError("author", "must be at most 100 characters")
	}

	return nil
}

// DateOrdinal returns the proleptic Gregorian day number of t's calendar date,
// where 0001-01-01 is day 1. The clock time and offset of t are ignored.
func DateOrdinal(t time.Time) int64 {
	y, m, d := t.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	return midnight.Unix()/secondsPerDay + unixEpochOrdinal
}

// SelectDailyQuote picks the quote of the day for date from the active quotes.
//
// The pick is a pure function of the slice contents, their order and the calendar
// date: a generator is built per call, seeded with DateOrdinal(date), and its first
// draw indexes the slice. An empty slice yields FallbackQuote.
func SelectDailyQuote(active []Quote, date time.Time) Quote {
	if len(active) == 0 {
		return FallbackQuote
	}

	seed := uint64(DateOrdinal(date))
	rng := rand.New(rand.NewPCG(seed, seed))

	return active[rng.IntN(len(active))]
}
