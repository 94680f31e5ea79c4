package models

import "time"

// Customer is the dashboard projection of a customer and the samples submitted for them.
type Customer struct {
	ID               string        `db:"id"`
	CreatedAt        time.Time     `db:"created_at"`
	FirstName        string        `db:"first_name"`
	LastName         string        `db:"last_name"`
	CustomerType     string        `db:"customer_type"`
	OrganisationName *string       `db:"organisation_name"`
	Samples          []OrderSample `db:"-"`
}

// CursorKey returns the (created_at, id) pair that positions the customer in a listing.
func (c Customer) CursorKey() (time.Time, string) {
	return c.CreatedAt, c.ID
}

// Customer types
const (
	CustomerTypeB2C = "B2C"
	CustomerTypeB2D = "B2D"
	CustomerTypeB2B = "B2B"
)
