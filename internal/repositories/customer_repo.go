package repositories

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/BradenHooton/orderdesk/internal/database"
	"github.com/BradenHooton/orderdesk/internal/models"
	"github.com/BradenHooton/orderdesk/pkg/cursor"
	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
)

const customerSampleExists = "EXISTS (SELECT 1 FROM order_samples s WHERE s.customer_id = c.id AND %s)"

var customerFields = catalog{
	models.FieldCreatedAt: {expr: "c.created_at"},
	"first_name":          {expr: "c.first_name"},
	"last_name":           {expr: "c.last_name"},
	"customer_type":       {expr: "c.customer_type"},
	"organisation.name":   {expr: "org.name"},
	"sample.sample_id":    {expr: "s.sample_id", exists: customerSampleExists},
	"sample.haplid":       {expr: "s.haplid", exists: customerSampleExists},
}

type CustomerRepository struct {
	db     Querier
	logger *slog.Logger
}

func NewCustomerRepository(db Querier, logger *slog.Logger) *CustomerRepository {
	return &CustomerRepository{db: db, logger: logger}
}

func (r *CustomerRepository) HasField(name string) bool {
	return customerFields.has(name)
}

func (r *CustomerRepository) base(columns ...string) squirrel.SelectBuilder {
	return psql.Select(columns...).
		From("customers c").
		LeftJoin("organisations org ON org.id = c.organisation_id")
}

// Count returns the number of customers matching filter.
func (r *CustomerRepository) Count(ctx context.Context, filter models.Predicate) (int64, error) {
	cond, err := customerFields.compile(filter)
	if err != nil {
		return 0, err
	}

	query, args, err := r.base("COUNT(*)").Where(cond).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build customer count: %w", err)
	}

	var n int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, database.MapPostgresError(err)
	}
	return n, nil
}

// Fetch returns up to limit customers matching filter, newest first, with
// the samples submitted for them.
func (r *CustomerRepository) Fetch(ctx context.Context, filter models.Predicate, after *cursor.Cursor, limit int) ([]models.Customer, error) {
	cond, err := customerFields.compile(filter)
	if err != nil {
		return nil, err
	}

	q := r.base(
		"c.id::text AS id",
		"c.created_at",
		"c.first_name",
		"c.last_name",
		"c.customer_type",
		"org.name AS organisation_name",
	).Where(cond)

	if after != nil {
		q = q.Where(squirrel.Expr("(c.created_at, c.id) < (?, ?::uuid)", after.CreatedAt, after.ID))
	}

	query, args, err := q.OrderBy("c.created_at DESC", "c.id DESC").Limit(uint64(limit)).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build customer fetch: %w", err)
	}

	var customers []models.Customer
	if err := pgxscan.Select(ctx, r.db, &customers, query, args...); err != nil {
		return nil, database.MapPostgresError(err)
	}

	ids := make([]string, len(customers))
	for i, c := range customers {
		ids[i] = c.ID
	}

	samples, err := loadSamples(ctx, r.db, "s.customer_id", ids)
	if err != nil {
		return nil, err
	}
	for i := range customers {
		customers[i].Samples = samples[customers[i].ID]
	}

	r.logger.Debug("customers fetched", slog.Int("count", len(customers)), slog.Bool("has_cursor", after != nil))

	return customers, nil
}
