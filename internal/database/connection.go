package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/BradenHooton/orderdesk/internal/models"
	"github.com/jackc/pgx/v5/pgconn"
)

// MapPostgresError classifies a store error. Values Postgres could not
// interpret (a malformed uuid or timestamp reaching a comparison) are the
// caller's fault; everything else means the store could not answer.
func MapPostgresError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", models.ErrStoreUnavailable, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "22P02", // invalid_text_representation
			"22007", // invalid_datetime_format
			"22008": // datetime_field_overflow
			return fmt.Errorf("%w: %s", models.ErrInvalidArgument, pgErr.Message)
		}
	}

	return fmt.Errorf("%w: %w", models.ErrStoreUnavailable, err)
}
