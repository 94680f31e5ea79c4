package services

import (
	"context"

	"github.com/BradenHooton/orderdesk/internal/models"
	"github.com/BradenHooton/orderdesk/pkg/cursor"
)

// MockRecordStore implements RecordStore for testing
type MockRecordStore[T Keyed] struct {
	HasFieldFunc func(name string) bool
	CountFunc    func(ctx context.Context, filter models.Predicate) (int64, error)
	FetchFunc    func(ctx context.Context, filter models.Predicate, after *cursor.Cursor, limit int) ([]T, error)
}

func (m *MockRecordStore[T]) HasField(name string) bool {
	if m.HasFieldFunc != nil {
		return m.HasFieldFunc(name)
	}
	return true
}

func (m *MockRecordStore[T]) Count(ctx context.Context, filter models.Predicate) (int64, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx, filter)
	}
	return 0, nil
}

func (m *MockRecordStore[T]) Fetch(ctx context.Context, filter models.Predicate, after *cursor.Cursor, limit int) ([]T, error) {
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, filter, after, limit)
	}
	return []T{}, nil
}
