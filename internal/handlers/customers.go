package handlers

import (
	"log/slog"
	"net/http"

	"github.com/BradenHooton/orderdesk/internal/models"
	pkglogger "github.com/BradenHooton/orderdesk/pkg/logger"
	"github.com/go-chi/chi/v5"
)

// CustomerHandler serves the dashboard's customer listing
type CustomerHandler struct {
	list *listing[models.Customer, CustomerResponse]
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(service Searcher[models.Customer], parser QueryParser, audit *pkglogger.AuditLogger, logger *slog.Logger) *CustomerHandler {
	return &CustomerHandler{
		list: &listing[models.Customer, CustomerResponse]{
			resource: "customers",
			service:  service,
			parser:   parser,
			toDTO:    customerModelToResponse,
			audit:    audit,
			logger:   logger,
			failure:  "error while getting customers",
		},
	}
}

// RegisterRoutes registers customer routes with the chi router
func (h *CustomerHandler) RegisterRoutes(router chi.Router) {
	router.Get("/customer/orders", h.ListCustomers)
}

// ListCustomers returns one page of customers with their samples
func (h *CustomerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	h.list.serve(w, r)
}
