package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/BradenHooton/orderdesk/internal/auth"
	"github.com/BradenHooton/orderdesk/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimitByIP_EnforcesLimit(t *testing.T) {
	handler := RateLimitByIP(RateLimitConfig{RequestsPerMinute: 3})(okHandler())

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("GET", "/api/v1/order/my-orders/accounts", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code, "request %d", i+1)
	}

	req := httptest.NewRequest("GET", "/api/v1/order/my-orders/accounts", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Rate limit exceeded", body["message"])

	// Other clients are unaffected
	req = httptest.NewRequest("GET", "/api/v1/order/my-orders/accounts", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimitByUser_KeysOnUser(t *testing.T) {
	handler := RateLimitByUser(RateLimitConfig{RequestsPerMinute: 1})(okHandler())

	send := func(userID, ip string) int {
		req := httptest.NewRequest("GET", "/api/v1/customer/orders", nil)
		req.RemoteAddr = ip + ":5000"
		if userID != "" {
			req = req.WithContext(auth.WithClaims(req.Context(), &models.TokenClaims{UserID: userID, Type: "access"}))
		}
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send("alice", "10.0.0.1"))
	// Same user from another address shares the budget
	assert.Equal(t, http.StatusTooManyRequests, send("alice", "10.0.0.9"))
	// Another user behind the same address has their own
	assert.Equal(t, http.StatusOK, send("bob", "10.0.0.1"))
	// Anonymous requests fall back to the address
	assert.Equal(t, http.StatusOK, send("", "10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, send("", "10.0.0.1"))
}
