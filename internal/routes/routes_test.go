package routes

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/BradenHooton/orderdesk/internal/auth"
	"github.com/BradenHooton/orderdesk/internal/handlers"
	"github.com/BradenHooton/orderdesk/internal/middleware"
	"github.com/BradenHooton/orderdesk/internal/models"
	pkglogger "github.com/BradenHooton/orderdesk/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "routes-test-secret-32-characters"

type mockHealth struct {
	err error
}

func (m mockHealth) HealthCheck(ctx context.Context) error { return m.err }

func newTestRouter(verifier *auth.TokenVerifier, health HealthChecker, perMinute int) chi.Router {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	audit := pkglogger.NewAuditLogger(logger)
	parser := handlers.QueryParser{DefaultPageSize: 10, MaxPageSize: 100, Location: time.UTC}

	router := chi.NewRouter()
	RegisterRoutes(router, Dependencies{
		Orders:    handlers.NewOrderHandler(&handlers.MockOrderSearcher{}, parser, audit, logger),
		Customers: handlers.NewCustomerHandler(&handlers.MockCustomerSearcher{}, parser, audit, logger),
		Verifier:  verifier,
		Health:    health,
		RateLimit: middleware.RateLimitConfig{RequestsPerMinute: perMinute},
	})
	return router
}

func bearer(t *testing.T, userID string) string {
	t.Helper()
	claims := &models.TokenClaims{
		Type:   "access",
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + token
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		health     HealthChecker
		wantStatus int
	}{
		{"database up", mockHealth{}, http.StatusOK},
		{"database down", mockHealth{err: errors.New("ping failed")}, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(nil, tt.health, 100)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestListingRoutes_AuthDisabled(t *testing.T) {
	router := newTestRouter(nil, mockHealth{}, 100)

	for _, path := range []string{"/api/v1/order/my-orders/accounts", "/api/v1/customer/orders"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path+"?take=5&lastCursor=0", nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestListingRoutes_AuthEnabled(t *testing.T) {
	router := newTestRouter(auth.NewTokenVerifier(testSecret), mockHealth{}, 100)

	t.Run("missing token", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/order/my-orders/accounts", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"status":401,"success":false,"message":"missing authorization header"}`, w.Body.String())
	})

	t.Run("valid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/customer/orders", nil)
		req.Header.Set("Authorization", bearer(t, "user-1"))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("health stays public", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestListingRoutes_RateLimited(t *testing.T) {
	router := newTestRouter(auth.NewTokenVerifier(testSecret), mockHealth{}, 1)

	send := func(userID string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/order/my-orders/accounts", nil)
		req.Header.Set("Authorization", bearer(t, userID))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send("user-1"))
	assert.Equal(t, http.StatusTooManyRequests, send("user-1"))
	assert.Equal(t, http.StatusOK, send("user-2"))
}

func TestUnknownRoute(t *testing.T) {
	router := newTestRouter(nil, mockHealth{}, 100)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/order/unknown", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"status":404,"success":false,"message":"route not found"}`, w.Body.String())
}

func TestHealth_RateLimitedByIP(t *testing.T) {
	router := newTestRouter(nil, mockHealth{}, 1)

	send := func(remoteAddr string) int {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = remoteAddr
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1:4000"))
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1:4001"))
	assert.Equal(t, http.StatusOK, send("10.0.0.2:4000"))
}
