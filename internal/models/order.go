package models

import "time"

// Order is the dashboard projection of an order with its customer and samples.
type Order struct {
	ID                       string           `db:"id"`
	CreatedAt                time.Time        `db:"created_at"`
	OrderID                  string           `db:"order_id"`
	ProductName              string           `db:"product_name"`
	NumberOfSamples          int              `db:"number_of_samples"`
	PaymentTerms             *string          `db:"payment_terms"`
	ProposedTransactionValue *float64         `db:"proposed_transaction_value"`
	CustomerID               *string          `db:"customer_id"`
	Customer                 *CustomerSummary `db:"-"`
	Samples                  []OrderSample    `db:"-"`
}

// CursorKey returns the (created_at, id) pair that positions the order in a listing.
func (o Order) CursorKey() (time.Time, string) {
	return o.CreatedAt, o.ID
}

// CustomerSummary is the subset of customer data shown next to an order.
type CustomerSummary struct {
	FirstName        string
	LastName         string
	CustomerType     string
	OrganisationName *string
}

// OrderSample is a sample belonging to an order, with its patient name.
type OrderSample struct {
	ParentID         string    `db:"parent_id"`
	CreatedAt        time.Time `db:"created_at"`
	SampleID         string    `db:"sample_id"`
	HaplID           *string   `db:"haplid"`
	CurrentStatus    *string   `db:"current_status"`
	InvoiceRef       *string   `db:"invoice_ref"`
	Invoiced         bool      `db:"invoiced"`
	OrderID          string    `db:"order_id"`
	IntimationHaplID *string   `db:"intimation_hapl_id"`
	PatientFirstName *string   `db:"patient_first_name"`
	PatientLastName  *string   `db:"patient_last_name"`
}
