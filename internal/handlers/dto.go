package handlers

import (
	"time"

	"github.com/BradenHooton/orderdesk/internal/models"
)

// Response DTOs. Field names follow the dashboard's existing contract.

// ListResponse is the data of a successful listing response
type ListResponse[T any] struct {
	Data     []T      `json:"data"`
	MetaData MetaData `json:"metaData"`
}

// MetaData describes the position of a page in its listing
type MetaData struct {
	TotalCount  int64   `json:"totalCount"`
	LastCursor  *string `json:"lastCursor"`
	HasNextPage bool    `json:"hasNextPage"`
}

type OrderResponse struct {
	ID                       string                  `json:"id"`
	CreatedAt                string                  `json:"createdAt"`
	ProductName              string                  `json:"PRODUCT_NAME"`
	NumberOfSamples          int                     `json:"NUMBER_OF_SAMPLES"`
	PaymentTerms             *string                 `json:"PAYMENT_TERMS"`
	ProposedTransactionValue *float64                `json:"PROPOSED_TRANSACTION_VALUE"`
	OrderID                  string                  `json:"ORDER_ID"`
	Samples                  []SampleResponse        `json:"Order_Sample_Info"`
	Customer                 *CustomerMasterResponse `json:"Customer_Master"`
}

type SampleResponse struct {
	CreatedAt        string        `json:"createdAt"`
	SampleID         string        `json:"SAMPLE_ID"`
	HaplID           *string       `json:"HAPLID"`
	CurrentStatus    *string       `json:"CURRENT_STATUS"`
	InvoiceRef       *string       `json:"invoiceRef"`
	Invoiced         bool          `json:"invoiced"`
	OrderID          string        `json:"ORDER_ID"`
	IntimationHaplID *string       `json:"INTIMATION_HAPL_ID"`
	Patient          *NameResponse `json:"Patient_Master"`
}

type NameResponse struct {
	FirstName string `json:"FIRST_NAME"`
	LastName  string `json:"LAST_NAME"`
}

type CustomerMasterResponse struct {
	FirstName    string                `json:"FIRST_NAME"`
	LastName     string                `json:"LAST_NAME"`
	CustomerType string                `json:"CUSTOMER_TYPE"`
	Organisation *OrganisationResponse `json:"Organisation_Master"`
}

type OrganisationResponse struct {
	Name string `json:"NAME"`
}

type CustomerResponse struct {
	ID           string                `json:"id"`
	CreatedAt    string                `json:"createdAt"`
	FirstName    string                `json:"FIRST_NAME"`
	LastName     string                `json:"LAST_NAME"`
	CustomerType string                `json:"CUSTOMER_TYPE"`
	Organisation *OrganisationResponse `json:"Organisation_Master"`
	Samples      []SampleResponse      `json:"Order_Sample_Info"`
}

// formatTime renders timestamps the way cursors carry them
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func orderModelToResponse(o models.Order) OrderResponse {
	resp := OrderResponse{
		ID:                       o.ID,
		CreatedAt:                formatTime(o.CreatedAt),
		ProductName:              o.ProductName,
		NumberOfSamples:          o.NumberOfSamples,
		PaymentTerms:             o.PaymentTerms,
		ProposedTransactionValue: o.ProposedTransactionValue,
		OrderID:                  o.OrderID,
		Samples:                  samplesToResponse(o.Samples),
	}
	if c := o.Customer; c != nil {
		resp.Customer = &CustomerMasterResponse{
			FirstName:    c.FirstName,
			LastName:     c.LastName,
			CustomerType: c.CustomerType,
			Organisation: organisationToResponse(c.OrganisationName),
		}
	}
	return resp
}

func customerModelToResponse(c models.Customer) CustomerResponse {
	return CustomerResponse{
		ID:           c.ID,
		CreatedAt:    formatTime(c.CreatedAt),
		FirstName:    c.FirstName,
		LastName:     c.LastName,
		CustomerType: c.CustomerType,
		Organisation: organisationToResponse(c.OrganisationName),
		Samples:      samplesToResponse(c.Samples),
	}
}

func samplesToResponse(samples []models.OrderSample) []SampleResponse {
	out := make([]SampleResponse, 0, len(samples))
	for _, s := range samples {
		sr := SampleResponse{
			CreatedAt:        formatTime(s.CreatedAt),
			SampleID:         s.SampleID,
			HaplID:           s.HaplID,
			CurrentStatus:    s.CurrentStatus,
			InvoiceRef:       s.InvoiceRef,
			Invoiced:         s.Invoiced,
			OrderID:          s.OrderID,
			IntimationHaplID: s.IntimationHaplID,
		}
		if s.PatientFirstName != nil || s.PatientLastName != nil {
			sr.Patient = &NameResponse{FirstName: deref(s.PatientFirstName), LastName: deref(s.PatientLastName)}
		}
		out = append(out, sr)
	}
	return out
}

func organisationToResponse(name *string) *OrganisationResponse {
	if name == nil {
		return nil
	}
	return &OrganisationResponse{Name: *name}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
