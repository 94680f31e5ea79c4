package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/BradenHooton/orderdesk/internal/auth"
	"github.com/BradenHooton/orderdesk/internal/models"
	pkghttp "github.com/BradenHooton/orderdesk/pkg/http"
	pkglogger "github.com/BradenHooton/orderdesk/pkg/logger"
	"github.com/go-chi/chi/v5/middleware"
)

// Searcher is implemented by services.SearchService
type Searcher[T any] interface {
	Search(ctx context.Context, req models.SearchRequest) (*models.Page[T], error)
}

// listing is the request flow shared by every listing endpoint
type listing[T, R any] struct {
	resource string
	service  Searcher[T]
	parser   QueryParser
	toDTO    func(T) R
	audit    *pkglogger.AuditLogger
	logger   *slog.Logger
	// failure is the message returned when the store cannot answer.
	failure string
}

func (l *listing[T, R]) serve(w http.ResponseWriter, r *http.Request) {
	req, err := l.parser.Parse(r)
	if err != nil {
		pkghttp.WriteBadRequest(w, errorMessage(err))
		return
	}

	page, err := l.service.Search(r.Context(), req)
	if err != nil {
		if errors.Is(err, models.ErrInvalidArgument) {
			pkghttp.WriteBadRequest(w, errorMessage(err))
			return
		}
		l.logger.Error("listing failed",
			slog.String("resource", l.resource),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.Any("error", err),
		)
		pkghttp.WriteInternalError(w, l.failure)
		return
	}

	data := make([]R, 0, len(page.Records))
	for _, rec := range page.Records {
		data = append(data, l.toDTO(rec))
	}

	l.audit.LogRecordAccess(r.Context(), pkglogger.RecordAccess{
		UserID:    auth.UserID(r),
		Resource:  l.resource,
		Returned:  len(page.Records),
		Total:     page.TotalCount,
		Filtered:  req.SearchTerm != "" || req.DateRange != nil,
		IPAddress: r.RemoteAddr,
		RequestID: middleware.GetReqID(r.Context()),
	})

	pkghttp.WriteSuccess(w, http.StatusOK, ListResponse[R]{
		Data: data,
		MetaData: MetaData{
			TotalCount:  page.TotalCount,
			LastCursor:  page.NextCursor,
			HasNextPage: page.HasNextPage,
		},
	})
}

// errorMessage strips the sentinel prefix from invalid argument errors so
// clients see only the detail.
func errorMessage(err error) string {
	msg, _ := strings.CutPrefix(err.Error(), models.ErrInvalidArgument.Error()+": ")
	return msg
}
