package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/avc/crypto-bridge/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	cfg, err := config.LoadArgs([]string{"-s", config.StorageMemory})
	require.NoError(t, err)
	cfg.RateDelay = 0
	cfg.VerifyDelay = 0
	cfg.SettlementMinDelay = 0
	cfg.SettlementMaxDelay = 0

	logger := zap.NewNop()
	store, err := initStorage(context.Background(), cfg, logger)
	require.NoError(t, err)
	t.Cleanup(store.close)

	deps, err := initDependencies(context.Background(), cfg, store, logger)
	require.NoError(t, err)

	return setupRouter(deps, logger)
}

func TestRouter_Routes(t *testing.T) {
	r := newTestRouter(t)

	steps := []struct {
		method string
		path   string
		body   string
		want   int
	}{
		{http.MethodGet, "/health", "", http.StatusOK},
		{http.MethodGet, "/ready", "", http.StatusOK},
		{http.MethodPost, "/api/bridge/orders", "", http.StatusCreated},
		{http.MethodGet, "/api/bridge/order", "", http.StatusOK},
		{http.MethodPut, "/api/bridge/order/amount", `{"amount":"80"}`, http.StatusOK},
		{http.MethodPost, "/api/bridge/order/method", `{"method":"BANK"}`, http.StatusOK},
		{http.MethodPut, "/api/bridge/order/beneficiary", `{"beneficiary_id":"BEN-003"}`, http.StatusOK},
		{http.MethodPost, "/api/bridge/order/cooling", `{"minutes":30}`, http.StatusOK},
		{http.MethodGet, "/api/bridge/navigation/cooling", "", http.StatusOK},
		{http.MethodDelete, "/api/bridge/order/method", "", http.StatusConflict},
		{http.MethodGet, "/api/bridge/beneficiaries", "", http.StatusOK},
		{http.MethodGet, "/api/bridge/cooling-options", "", http.StatusOK},
		{http.MethodGet, "/api/merchant/transactions", "", http.StatusOK},
		{http.MethodGet, "/api/merchant/wallet", "", http.StatusOK},
		{http.MethodPost, "/api/bridge/session/reset", "", http.StatusOK},
		{http.MethodGet, "/metrics", "", http.StatusOK},
		{http.MethodGet, "/api/user/orders", "", http.StatusNotFound},
	}

	for _, step := range steps {
		req := httptest.NewRequest(step.method, step.path, strings.NewReader(step.body))
		w := httptest.NewRecorder()

		r.ServeHTTP(w, req)
		assert.Equal(t, step.want, w.Code, "%s %s: %s", step.method, step.path, w.Body.String())
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	}
}
