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

const (
	sampleExists  = "EXISTS (SELECT 1 FROM order_samples s WHERE s.order_id = o.id AND %s)"
	patientExists = "EXISTS (SELECT 1 FROM order_samples s JOIN patients p ON p.id = s.patient_id " +
		"WHERE s.order_id = o.id AND %s)"
)

var orderFields = catalog{
	models.FieldCreatedAt:        {expr: "o.created_at"},
	"order_id":                   {expr: "o.order_id"},
	"product_name":               {expr: "o.product_name"},
	"payment_terms":              {expr: "o.payment_terms"},
	"customer.first_name":        {expr: "c.first_name"},
	"customer.last_name":         {expr: "c.last_name"},
	"customer.customer_type":     {expr: "c.customer_type"},
	"customer.organisation.name": {expr: "org.name"},
	"sample.sample_id":           {expr: "s.sample_id", exists: sampleExists},
	"sample.haplid":              {expr: "s.haplid", exists: sampleExists},
	"sample.intimation_hapl_id":  {expr: "s.intimation_hapl_id", exists: sampleExists},
	"sample.current_status":      {expr: "s.current_status", exists: sampleExists},
	"sample.invoice_ref":         {expr: "s.invoice_ref", exists: sampleExists},
	"patient.first_name":         {expr: "p.first_name", exists: patientExists},
	"patient.last_name":          {expr: "p.last_name", exists: patientExists},
}

// orderRow adds the joined customer columns to an order.
type orderRow struct {
	models.Order
	CustomerFirstName *string `db:"customer_first_name"`
	CustomerLastName  *string `db:"customer_last_name"`
	CustomerType      *string `db:"customer_type"`
	OrganisationName  *string `db:"organisation_name"`
}

type OrderRepository struct {
	db     Querier
	logger *slog.Logger
}

func NewOrderRepository(db Querier, logger *slog.Logger) *OrderRepository {
	return &OrderRepository{db: db, logger: logger}
}

func (r *OrderRepository) HasField(name string) bool {
	return orderFields.has(name)
}

func (r *OrderRepository) base(columns ...string) squirrel.SelectBuilder {
	return psql.Select(columns...).
		From("orders o").
		LeftJoin("customers c ON c.id = o.customer_id").
		LeftJoin("organisations org ON org.id = c.organisation_id")
}

// Count returns the number of orders matching filter.
func (r *OrderRepository) Count(ctx context.Context, filter models.Predicate) (int64, error) {
	cond, err := orderFields.compile(filter)
	if err != nil {
		return 0, err
	}

	query, args, err := r.base("COUNT(*)").Where(cond).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build order count: %w", err)
	}

	var n int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, database.MapPostgresError(err)
	}
	return n, nil
}

// Fetch returns up to limit orders matching filter, newest first, with their
// customer and samples attached.
func (r *OrderRepository) Fetch(ctx context.Context, filter models.Predicate, after *cursor.Cursor, limit int) ([]models.Order, error) {
	cond, err := orderFields.compile(filter)
	if err != nil {
		return nil, err
	}

	q := r.base(
		"o.id::text AS id",
		"o.created_at",
		"o.order_id",
		"o.product_name",
		"o.number_of_samples",
		"o.payment_terms",
		"o.proposed_transaction_value::float8 AS proposed_transaction_value",
		"o.customer_id::text AS customer_id",
		"c.first_name AS customer_first_name",
		"c.last_name AS customer_last_name",
		"c.customer_type",
		"org.name AS organisation_name",
	).Where(cond)

	if after != nil {
		q = q.Where(squirrel.Expr("(o.created_at, o.id) < (?, ?::uuid)", after.CreatedAt, after.ID))
	}

	query, args, err := q.OrderBy("o.created_at DESC", "o.id DESC").Limit(uint64(limit)).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build order fetch: %w", err)
	}

	var rows []orderRow
	if err := pgxscan.Select(ctx, r.db, &rows, query, args...); err != nil {
		return nil, database.MapPostgresError(err)
	}

	orders := make([]models.Order, len(rows))
	ids := make([]string, len(rows))
	for i, row := range rows {
		o := row.Order
		if row.CustomerID != nil {
			o.Customer = &models.CustomerSummary{
				FirstName:        deref(row.CustomerFirstName),
				LastName:         deref(row.CustomerLastName),
				CustomerType:     deref(row.CustomerType),
				OrganisationName: row.OrganisationName,
			}
		}
		orders[i] = o
		ids[i] = o.ID
	}

	samples, err := loadSamples(ctx, r.db, "s.order_id", ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Samples = samples[orders[i].ID]
	}

	r.logger.Debug("orders fetched", slog.Int("count", len(orders)), slog.Bool("has_cursor", after != nil))

	return orders, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
