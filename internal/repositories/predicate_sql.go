package repositories

import (
	"context"
	"fmt"

	"github.com/BradenHooton/orderdesk/internal/models"
	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Querier is the subset of pgxpool.Pool the repositories use. pgxmock's pool
// satisfies it too.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// column maps a logical search field onto SQL. Fields on a to-many relation
// set exists to a subquery template whose %s receives the condition.
type column struct {
	expr   string
	exists string
}

type catalog map[string]column

func (c catalog) has(name string) bool {
	_, ok := c[name]
	return ok
}

// compile translates a predicate tree into a squirrel condition.
func (c catalog) compile(p models.Predicate) (squirrel.Sqlizer, error) {
	switch p := p.(type) {
	case nil:
		return squirrel.Expr("TRUE"), nil

	case models.And:
		if len(p) == 0 {
			return squirrel.Expr("TRUE"), nil
		}
		out := make(squirrel.And, 0, len(p))
		for _, child := range p {
			s, err := c.compile(child)
			if err != nil {
				return nil, err
			}
			out = append(out, s)
		}
		return out, nil

	case models.Or:
		if len(p) == 0 {
			return squirrel.Expr("FALSE"), nil
		}
		out := make(squirrel.Or, 0, len(p))
		for _, child := range p {
			s, err := c.compile(child)
			if err != nil {
				return nil, err
			}
			out = append(out, s)
		}
		return out, nil

	case models.Match:
		col, err := c.lookup(p.Field)
		if err != nil {
			return nil, err
		}
		op := "~*"
		if p.CaseSensitive {
			op = "~"
		}
		pattern := p.Pattern
		if p.Mode == models.MatchPrefix {
			pattern = "^" + pattern
		}
		return col.wrap(squirrel.Expr(fmt.Sprintf("%s %s ?", col.expr, op), pattern))

	case models.In:
		col, err := c.lookup(p.Field)
		if err != nil {
			return nil, err
		}
		return col.wrap(squirrel.Eq{col.expr: p.Values})

	case models.TimeRange:
		col, err := c.lookup(p.Field)
		if err != nil {
			return nil, err
		}
		bounds := squirrel.And{}
		if p.From != nil {
			bounds = append(bounds, squirrel.GtOrEq{col.expr: *p.From})
		}
		if p.To != nil {
			bounds = append(bounds, squirrel.LtOrEq{col.expr: *p.To})
		}
		if len(bounds) == 0 {
			return squirrel.Expr("TRUE"), nil
		}
		return col.wrap(bounds)

	default:
		return nil, fmt.Errorf("%w: unsupported predicate %T", models.ErrInvalidArgument, p)
	}
}

func (c catalog) lookup(field string) (column, error) {
	col, ok := c[field]
	if !ok {
		return column{}, fmt.Errorf("%w: unknown field %q", models.ErrInvalidArgument, field)
	}
	return col, nil
}

func (col column) wrap(cond squirrel.Sqlizer) (squirrel.Sqlizer, error) {
	if col.exists == "" {
		return cond, nil
	}
	sql, args, err := cond.ToSql()
	if err != nil {
		return nil, err
	}
	return squirrel.Expr(fmt.Sprintf(col.exists, sql), args...), nil
}

// ValidateUUID rejects cursor ids that cannot be compared against a uuid key.
func ValidateUUID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%q is not a valid uuid", id)
	}
	return nil
}
