package handlers

import (
	"log/slog"
	"net/http"

	"github.com/BradenHooton/orderdesk/internal/models"
	pkglogger "github.com/BradenHooton/orderdesk/pkg/logger"
	"github.com/go-chi/chi/v5"
)

// OrderHandler serves the dashboard's order listing
type OrderHandler struct {
	list *listing[models.Order, OrderResponse]
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(service Searcher[models.Order], parser QueryParser, audit *pkglogger.AuditLogger, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{
		list: &listing[models.Order, OrderResponse]{
			resource: "orders",
			service:  service,
			parser:   parser,
			toDTO:    orderModelToResponse,
			audit:    audit,
			logger:   logger,
			failure:  "error while getting orders",
		},
	}
}

// RegisterRoutes registers order routes with the chi router
func (h *OrderHandler) RegisterRoutes(router chi.Router) {
	router.Get("/order/my-orders/accounts", h.ListOrders)
}

// ListOrders returns one page of orders
//
// @Summary List orders
// @Param take query int false "Page size"
// @Param lastCursor query string false "Cursor from the previous page, 0 for the first"
// @Param searchParam query string false "URI-encoded search term"
// @Param fromDt query string false "Start date (YYYY-MM-DD or RFC 3339)"
// @Param toDt query string false "End date, inclusive of the whole day"
// @Produce json
// @Success 200 {object} ListResponse[OrderResponse]
// @Failure 400 {object} pkghttp.Envelope
// @Failure 500 {object} pkghttp.Envelope
// @Router /api/v1/order/my-orders/accounts [get]
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	h.list.serve(w, r)
}
