package models

import (
	"fmt"
	"time"
)

// MatchMode selects how a search term is matched against a text field.
type MatchMode string

const (
	MatchPrefix   MatchMode = "prefix"
	MatchContains MatchMode = "contains"
)

// ParseMatchMode converts a configuration value into a MatchMode.
func ParseMatchMode(s string) (MatchMode, error) {
	switch MatchMode(s) {
	case MatchPrefix, MatchContains:
		return MatchMode(s), nil
	default:
		return "", fmt.Errorf("unknown match mode %q (want prefix or contains)", s)
	}
}

// SearchField configures one searchable field of a resource.
type SearchField struct {
	Name          string
	Mode          MatchMode
	CaseSensitive bool
}

// DateRange bounds the creation timestamp of listed records. Either side may be nil.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// SearchRequest describes one page of a filtered listing.
type SearchRequest struct {
	PageSize   int
	Cursor     string
	SearchTerm string
	DateRange  *DateRange
}

// Page is one slice of a listing, newest first.
type Page[T any] struct {
	Records     []T
	TotalCount  int64
	NextCursor  *string
	HasNextPage bool
}

// EndOfDay returns the last representable instant of t's calendar day in loc.
func EndOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999999999, loc)
}
