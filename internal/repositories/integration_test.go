//go:build integration

package repositories_test

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/BradenHooton/orderdesk/internal/database"
	"github.com/BradenHooton/orderdesk/internal/models"
	"github.com/BradenHooton/orderdesk/internal/repositories"
	"github.com/BradenHooton/orderdesk/internal/services"
	"github.com/BradenHooton/orderdesk/migrations"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDatabase starts a Postgres container and applies the embedded migrations.
func setupTestDatabase(t *testing.T) *database.DB {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		postgres.WithDatabase("orderdesk"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	db := database.Wrap(pool, slog.Default())
	require.NoError(t, db.Migrate(ctx, migrations.FS))
	return db
}

type seeded struct {
	orderIDs []string
	base     time.Time
}

// seedOrders inserts n B2C orders one minute apart plus one B2B order that
// the customer-type scope must hide. Orders 0 and 1 share a timestamp.
func seedOrders(t *testing.T, pool *pgxpool.Pool, n int) seeded {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)

	var orgID, b2c, b2b string
	require.NoError(t, pool.QueryRow(ctx, `INSERT INTO organisations (name) VALUES ('Acme Labs') RETURNING id::text`).Scan(&orgID))
	require.NoError(t, pool.QueryRow(ctx,
		`INSERT INTO customers (first_name, last_name, customer_type, organisation_id) VALUES ('Ada', 'Smith', 'B2C', $1) RETURNING id::text`,
		orgID).Scan(&b2c))
	require.NoError(t, pool.QueryRow(ctx,
		`INSERT INTO customers (first_name, last_name, customer_type) VALUES ('Bob', 'Jones', 'B2B') RETURNING id::text`).Scan(&b2b))

	var patientID string
	require.NoError(t, pool.QueryRow(ctx,
		`INSERT INTO patients (first_name, last_name) VALUES ('Grace', 'Hopper') RETURNING id::text`).Scan(&patientID))

	s := seeded{base: base}
	for i := 0; i < n; i++ {
		created := base.Add(time.Duration(i) * time.Minute)
		if i == 1 {
			created = base
		}
		id := uuid.NewString()
		_, err := pool.Exec(ctx,
			`INSERT INTO orders (id, order_id, product_name, number_of_samples, customer_id, created_at) VALUES ($1, $2, 'Genome Panel', 1, $3, $4)`,
			id, fmt.Sprintf("ORD-%03d", i), b2c, created)
		require.NoError(t, err)
		_, err = pool.Exec(ctx,
			`INSERT INTO order_samples (order_id, customer_id, patient_id, sample_id, haplid, current_status, created_at) VALUES ($1, $2, $3, $4, $5, 'RECEIVED', $6)`,
			id, b2c, patientID, fmt.Sprintf("S-%03d", i), fmt.Sprintf("HAPL-%03d", i), created)
		require.NoError(t, err)
		s.orderIDs = append(s.orderIDs, id)
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO orders (order_id, product_name, customer_id, created_at) VALUES ('ORD-B2B', 'Genome Panel', $1, $2)`,
		b2b, base)
	require.NoError(t, err)

	return s
}

func newOrderSearch(t *testing.T, db *database.DB) *services.SearchService[models.Order] {
	t.Helper()
	svc, err := services.NewSearchService[models.Order](
		repositories.NewOrderRepository(db.Pool, slog.Default()),
		services.SearchConfig{
			Resource: "orders",
			Fields: []models.SearchField{
				{Name: "sample.haplid", Mode: models.MatchPrefix},
				{Name: "patient.last_name", Mode: models.MatchPrefix},
				{Name: "customer.last_name", Mode: models.MatchPrefix, CaseSensitive: true},
				{Name: "order_id", Mode: models.MatchPrefix},
			},
			Scope:      models.In{Field: "customer.customer_type", Values: []string{"B2C", "B2D"}},
			ValidateID: repositories.ValidateUUID,
		},
		slog.Default(),
	)
	require.NoError(t, err)
	return svc
}

func TestIntegration_OrderSearch(t *testing.T) {
	db := setupTestDatabase(t)
	seed := seedOrders(t, db.Pool, 7)
	svc := newOrderSearch(t, db)
	ctx := context.Background()

	t.Run("chained pages cover every order once", func(t *testing.T) {
		seen := map[string]bool{}
		token := ""
		for {
			page, err := svc.Search(ctx, models.SearchRequest{PageSize: 3, Cursor: token})
			require.NoError(t, err)
			assert.Equal(t, int64(7), page.TotalCount)
			for _, o := range page.Records {
				assert.False(t, seen[o.ID], "duplicate %s", o.ID)
				seen[o.ID] = true
				require.NotNil(t, o.Customer)
				assert.Equal(t, "B2C", o.Customer.CustomerType)
				assert.Len(t, o.Samples, 1)
			}
			if !page.HasNextPage {
				break
			}
			token = *page.NextCursor
		}
		assert.Len(t, seen, len(seed.orderIDs))
	})

	t.Run("search reaches relations", func(t *testing.T) {
		page, err := svc.Search(ctx, models.SearchRequest{PageSize: 10, SearchTerm: "hapl-004"})
		require.NoError(t, err)
		require.Len(t, page.Records, 1)
		assert.Equal(t, "ORD-004", page.Records[0].OrderID)

		page, err = svc.Search(ctx, models.SearchRequest{PageSize: 10, SearchTerm: "hopper"})
		require.NoError(t, err)
		assert.Equal(t, int64(7), page.TotalCount)
	})

	t.Run("case-sensitive field", func(t *testing.T) {
		page, err := svc.Search(ctx, models.SearchRequest{PageSize: 10, SearchTerm: "smith"})
		require.NoError(t, err)
		assert.Equal(t, int64(0), page.TotalCount)

		page, err = svc.Search(ctx, models.SearchRequest{PageSize: 10, SearchTerm: "Smith"})
		require.NoError(t, err)
		assert.Equal(t, int64(7), page.TotalCount)
	})

	t.Run("date range", func(t *testing.T) {
		from := seed.base.Add(2 * time.Minute)
		to := models.EndOfDay(seed.base, time.UTC)
		page, err := svc.Search(ctx, models.SearchRequest{
			PageSize:  1,
			DateRange: &models.DateRange{From: &from, To: &to},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(5), page.TotalCount)
		assert.True(t, page.HasNextPage)
	})

	t.Run("regex metacharacters are literal", func(t *testing.T) {
		page, err := svc.Search(ctx, models.SearchRequest{PageSize: 10, SearchTerm: "ORD.00"})
		require.NoError(t, err)
		assert.Equal(t, int64(0), page.TotalCount)
	})
}

func TestIntegration_CustomerSearch(t *testing.T) {
	db := setupTestDatabase(t)
	seedOrders(t, db.Pool, 2)

	svc, err := services.NewSearchService[models.Customer](
		repositories.NewCustomerRepository(db.Pool, slog.Default()),
		services.SearchConfig{
			Resource:   "customers",
			Fields:     []models.SearchField{{Name: "organisation.name", Mode: models.MatchPrefix}},
			ValidateID: repositories.ValidateUUID,
		},
		slog.Default(),
	)
	require.NoError(t, err)

	page, err := svc.Search(context.Background(), models.SearchRequest{PageSize: 10, SearchTerm: "acme"})
	require.NoError(t, err)
	require.Len(t, page.Records, 1)
	assert.Equal(t, "Ada", page.Records[0].FirstName)
	assert.Len(t, page.Records[0].Samples, 2)
	assert.False(t, page.HasNextPage)
}
