package repositories

import (
	"context"
	"fmt"

	"github.com/BradenHooton/orderdesk/internal/database"
	"github.com/BradenHooton/orderdesk/internal/models"
	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
)

// loadSamples fetches the samples of every parent in one query and groups
// them by parent id. parentColumn is the order_samples column holding it.
func loadSamples(ctx context.Context, db Querier, parentColumn string, parentIDs []string) (map[string][]models.OrderSample, error) {
	grouped := make(map[string][]models.OrderSample, len(parentIDs))
	if len(parentIDs) == 0 {
		return grouped, nil
	}

	query, args, err := psql.Select(
		parentColumn+"::text AS parent_id",
		"s.created_at",
		"s.sample_id",
		"s.haplid",
		"s.current_status",
		"s.invoice_ref",
		"s.invoiced",
		"o.order_id",
		"s.intimation_hapl_id",
		"p.first_name AS patient_first_name",
		"p.last_name AS patient_last_name",
	).
		From("order_samples s").
		Join("orders o ON o.id = s.order_id").
		LeftJoin("patients p ON p.id = s.patient_id").
		Where(squirrel.Eq{parentColumn: parentIDs}).
		OrderBy("s.created_at DESC", "s.id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sample load: %w", err)
	}

	var samples []models.OrderSample
	if err := pgxscan.Select(ctx, db, &samples, query, args...); err != nil {
		return nil, database.MapPostgresError(err)
	}

	for _, s := range samples {
		grouped[s.ParentID] = append(grouped[s.ParentID], s)
	}
	return grouped, nil
}
