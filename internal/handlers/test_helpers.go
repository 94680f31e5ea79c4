package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/BradenHooton/orderdesk/internal/auth"
	"github.com/BradenHooton/orderdesk/internal/models"
	pkghttp "github.com/BradenHooton/orderdesk/pkg/http"
	"github.com/stretchr/testify/assert"
)

// NewTestRequest creates a GET request for rawQuery, which is used verbatim
func NewTestRequest(t *testing.T, path, rawQuery string) *http.Request {
	t.Helper()
	url := path
	if rawQuery != "" {
		url += "?" + rawQuery
	}
	return httptest.NewRequest(http.MethodGet, url, nil)
}

// WithAuthContext adds user claims to request context for testing authenticated endpoints
func WithAuthContext(req *http.Request, userID, email string) *http.Request {
	claims := &models.TokenClaims{
		UserID: userID,
		Email:  email,
		Type:   "access",
	}
	return req.WithContext(auth.WithClaims(req.Context(), claims))
}

// AssertJSONResponse checks the envelope status and decodes its data into target
func AssertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, target interface{}) {
	t.Helper()
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"), "Content-Type should be application/json")

	var env struct {
		Status  int             `json:"status"`
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	if !assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "Failed to decode response JSON") {
		return
	}
	assert.Equal(t, expectedStatus, env.Status)
	assert.True(t, env.Success)

	if target != nil {
		assert.NoError(t, json.Unmarshal(env.Data, target), "Failed to decode response data")
	}
}

// AssertErrorResponse checks that response is a failed envelope carrying expectedMessage
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedMessage string) {
	t.Helper()
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	var resp pkghttp.Envelope
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err, "Failed to decode error response")
	assert.Equal(t, expectedStatus, resp.Status)
	assert.False(t, resp.Success)
	assert.Nil(t, resp.Data)
	assert.Equal(t, expectedMessage, resp.Message, "Error message mismatch")
}

// MockOrderSearcher implements Searcher[models.Order] for testing
type MockOrderSearcher struct {
	SearchFunc func(ctx context.Context, req models.SearchRequest) (*models.Page[models.Order], error)
}

func (m *MockOrderSearcher) Search(ctx context.Context, req models.SearchRequest) (*models.Page[models.Order], error) {
	if m.SearchFunc == nil {
		return &models.Page[models.Order]{Records: []models.Order{}}, nil
	}
	return m.SearchFunc(ctx, req)
}

// MockCustomerSearcher implements Searcher[models.Customer] for testing
type MockCustomerSearcher struct {
	SearchFunc func(ctx context.Context, req models.SearchRequest) (*models.Page[models.Customer], error)
}

func (m *MockCustomerSearcher) Search(ctx context.Context, req models.SearchRequest) (*models.Page[models.Customer], error) {
	if m.SearchFunc == nil {
		return &models.Page[models.Customer]{Records: []models.Customer{}}, nil
	}
	return m.SearchFunc(ctx, req)
}

// testParser mirrors the default listing configuration
func testParser() QueryParser {
	return QueryParser{DefaultPageSize: 10, MaxPageSize: 100, Location: time.UTC}
}

// discardLogger drops everything written to it
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
