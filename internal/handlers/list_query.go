package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/BradenHooton/orderdesk/internal/models"
)

// noCursor is what the dashboard sends for the first page.
const noCursor = "0"

// ListQuery holds the raw query parameters of a listing endpoint
type ListQuery struct {
	Take        string `validate:"omitempty,number,max=6"`
	LastCursor  string `validate:"omitempty,max=200"`
	SearchParam string `validate:"omitempty,max=300"`
	FromDt      string `validate:"omitempty,max=40"`
	ToDt        string `validate:"omitempty,max=40"`
	// UserID is sent by the dashboard; the token subject is used instead.
	UserID string `validate:"omitempty,max=100"`
}

// QueryParser turns listing query strings into search requests
type QueryParser struct {
	DefaultPageSize int
	MaxPageSize     int
	// Location is the zone whose calendar days bound date-only filters.
	Location *time.Location
}

// Parse reads and validates the listing parameters of r. Every returned
// error wraps models.ErrInvalidArgument.
func (p QueryParser) Parse(r *http.Request) (models.SearchRequest, error) {
	values := r.URL.Query()
	q := ListQuery{
		Take:       values.Get("take"),
		LastCursor: values.Get("lastCursor"),
		// The term is decoded exactly once, by the search service
		SearchParam: rawQueryValue(r.URL.RawQuery, "searchParam"),
		FromDt:      values.Get("fromDt"),
		ToDt:        values.Get("toDt"),
		UserID:      values.Get("userId"),
	}

	if err := ValidateRequest(q); err != nil {
		return models.SearchRequest{}, fmt.Errorf("%w: %v", models.ErrInvalidArgument, err)
	}

	req := models.SearchRequest{
		PageSize:   p.DefaultPageSize,
		SearchTerm: q.SearchParam,
	}

	if q.Take != "" {
		take, err := strconv.Atoi(q.Take)
		if err != nil {
			return models.SearchRequest{}, fmt.Errorf("%w: take must be a whole number", models.ErrInvalidArgument)
		}
		if err := validateVar("take", take, fmt.Sprintf("gte=1,lte=%d", p.MaxPageSize)); err != nil {
			return models.SearchRequest{}, fmt.Errorf("%w: %v", models.ErrInvalidArgument, err)
		}
		req.PageSize = take
	}

	if q.LastCursor != noCursor {
		req.Cursor = q.LastCursor
	}

	from, err := p.parseDate("fromDt", q.FromDt)
	if err != nil {
		return models.SearchRequest{}, err
	}
	to, err := p.parseDate("toDt", q.ToDt)
	if err != nil {
		return models.SearchRequest{}, err
	}
	if to != nil {
		end := models.EndOfDay(*to, p.Location)
		to = &end
	}
	if from != nil || to != nil {
		req.DateRange = &models.DateRange{From: from, To: to}
	}

	return req, nil
}

// parseDate accepts an RFC 3339 timestamp or a YYYY-MM-DD date, the latter
// taken as midnight in the parser's location.
func (p QueryParser) parseDate(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return &t, nil
	}
	loc := p.Location
	if loc == nil {
		loc = time.UTC
	}
	if t, err := time.ParseInLocation(time.DateOnly, value, loc); err == nil {
		return &t, nil
	}
	return nil, fmt.Errorf("%w: %s must be an RFC 3339 timestamp or YYYY-MM-DD date", models.ErrInvalidArgument, field)
}

// rawQueryValue returns the still-encoded value of the first key parameter
// in rawQuery.
func rawQueryValue(rawQuery, key string) string {
	for _, pair := range strings.Split(rawQuery, "&") {
		name, value, _ := strings.Cut(pair, "=")
		if decoded, err := url.QueryUnescape(name); err == nil && decoded == key {
			return value
		}
	}
	return ""
}
