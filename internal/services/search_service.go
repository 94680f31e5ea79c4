package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/BradenHooton/orderdesk/internal/models"
	"github.com/BradenHooton/orderdesk/pkg/cursor"
	"golang.org/x/sync/errgroup"
)

// Keyed is implemented by records listed newest first.
type Keyed interface {
	CursorKey() (time.Time, string)
}

// RecordStore defines the read access a SearchService needs from a resource
type RecordStore[T Keyed] interface {
	// HasField reports whether the store can filter on the named field.
	HasField(name string) bool
	Count(ctx context.Context, filter models.Predicate) (int64, error)
	// Fetch returns at most limit records matching filter, ordered by
	// (created_at DESC, id DESC), strictly after the cursor when one is given.
	Fetch(ctx context.Context, filter models.Predicate, after *cursor.Cursor, limit int) ([]T, error)
}

// SearchConfig parameterizes a SearchService for one resource
type SearchConfig struct {
	Resource string
	Fields   []models.SearchField
	// Scope is ANDed into every query. Nil means unscoped.
	Scope models.Predicate
	// ValidateID rejects cursor ids the store could not compare against.
	ValidateID func(id string) error
}

// SearchService builds filtered, cursor-paginated queries against a RecordStore
type SearchService[T Keyed] struct {
	store  RecordStore[T]
	cfg    SearchConfig
	logger *slog.Logger
}

// NewSearchService creates a SearchService, checking that every configured
// field is known to the store.
func NewSearchService[T Keyed](store RecordStore[T], cfg SearchConfig, logger *slog.Logger) (*SearchService[T], error) {
	if len(cfg.Fields) == 0 {
		return nil, fmt.Errorf("%s search: no searchable fields configured", cfg.Resource)
	}
	for _, f := range cfg.Fields {
		if !store.HasField(f.Name) {
			return nil, fmt.Errorf("%s search: unknown field %q", cfg.Resource, f.Name)
		}
		if _, err := models.ParseMatchMode(string(f.Mode)); err != nil {
			return nil, fmt.Errorf("%s search: field %q: %w", cfg.Resource, f.Name, err)
		}
	}

	return &SearchService[T]{
		store:  store,
		cfg:    cfg,
		logger: logger.With(slog.String("resource", cfg.Resource)),
	}, nil
}

// Search returns one page of records matching req, plus the total number of
// matches ignoring pagination.
func (s *SearchService[T]) Search(ctx context.Context, req models.SearchRequest) (*models.Page[T], error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var after *cursor.Cursor
	if req.Cursor != "" {
		c, err := s.decodeCursor(req.Cursor)
		if err != nil {
			return nil, err
		}
		after = &c
	}

	term, err := SanitizeSearchTerm(req.SearchTerm)
	if err != nil {
		return nil, err
	}

	filter := s.BuildPredicate(term, req.DateRange)

	var (
		total   int64
		records []T
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := s.store.Count(gctx, filter)
		if err != nil {
			return fmt.Errorf("count %s: %w", s.cfg.Resource, err)
		}
		total = n
		return nil
	})

	g.Go(func() error {
		rows, err := s.store.Fetch(gctx, filter, after, req.PageSize)
		if err != nil {
			return fmt.Errorf("fetch %s: %w", s.cfg.Resource, err)
		}
		records = rows
		return nil
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("search failed",
			slog.Int("page_size", req.PageSize),
			slog.Bool("has_cursor", after != nil),
			slog.Bool("has_term", term != ""),
			slog.Bool("has_date_range", req.DateRange != nil),
			slog.Any("error", err),
		)
		return nil, classifyStoreError(err)
	}

	if len(records) > req.PageSize {
		records = records[:req.PageSize]
	}
	if records == nil {
		records = make([]T, 0)
	}

	page := &models.Page[T]{
		Records:     records,
		TotalCount:  total,
		HasNextPage: len(records) >= req.PageSize,
	}

	if len(records) > 0 {
		createdAt, id := records[len(records)-1].CursorKey()
		next := cursor.New(createdAt, id).Encode()
		page.NextCursor = &next
	}

	s.logger.Debug("search completed",
		slog.Int("returned", len(records)),
		slog.Int64("total", total),
		slog.Bool("has_next_page", page.HasNextPage),
	)

	return page, nil
}

// BuildPredicate composes the resource scope, the date range and a match over
// every configured field. term must already be sanitized.
func (s *SearchService[T]) BuildPredicate(term string, dr *models.DateRange) models.Predicate {
	filter := models.And{}

	if s.cfg.Scope != nil {
		filter = append(filter, s.cfg.Scope)
	}

	if dr != nil && (dr.From != nil || dr.To != nil) {
		filter = append(filter, models.TimeRange{
			Field: models.FieldCreatedAt,
			From:  dr.From,
			To:    dr.To,
		})
	}

	if term != "" {
		anyField := make(models.Or, 0, len(s.cfg.Fields))
		for _, f := range s.cfg.Fields {
			anyField = append(anyField, models.Match{
				Field:         f.Name,
				Pattern:       term,
				Mode:          f.Mode,
				CaseSensitive: f.CaseSensitive,
			})
		}
		filter = append(filter, anyField)
	}

	return filter
}

func (s *SearchService[T]) decodeCursor(token string) (cursor.Cursor, error) {
	c, err := cursor.Decode(token)
	if err != nil {
		return cursor.Cursor{}, fmt.Errorf("%w: %v", models.ErrInvalidArgument, err)
	}
	if s.cfg.ValidateID != nil {
		if err := s.cfg.ValidateID(c.ID); err != nil {
			return cursor.Cursor{}, fmt.Errorf("%w: cursor id: %v", models.ErrInvalidArgument, err)
		}
	}
	return c, nil
}

func validateRequest(req models.SearchRequest) error {
	if req.PageSize <= 0 {
		return fmt.Errorf("%w: page size must be positive, got %d", models.ErrInvalidArgument, req.PageSize)
	}
	if dr := req.DateRange; dr != nil && dr.From != nil && dr.To != nil && dr.From.After(*dr.To) {
		return fmt.Errorf("%w: date range start %s is after end %s",
			models.ErrInvalidArgument,
			dr.From.Format(time.RFC3339), dr.To.Format(time.RFC3339))
	}
	return nil
}

// SanitizeSearchTerm URI-component-decodes raw, trims it and escapes every
// regular expression metacharacter so the term only ever matches literally.
func SanitizeSearchTerm(raw string) (string, error) {
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return "", fmt.Errorf("%w: search term is not a valid encoded string", models.ErrInvalidArgument)
	}
	return regexp.QuoteMeta(strings.TrimSpace(decoded)), nil
}

func classifyStoreError(err error) error {
	if errors.Is(err, models.ErrInvalidArgument) || errors.Is(err, models.ErrStoreUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
}
