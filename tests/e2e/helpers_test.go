//go:build e2e

package e2e_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/wellnote-backend/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/wellnote-backend/internal/app"
	"github.com/heartmarshall/wellnote-backend/internal/config"
	"github.com/heartmarshall/wellnote-backend/internal/transport/middleware"
)

const cronSecret = "e2e-cron-secret-0123"

// testServer wraps the full-stack HTTP server for E2E tests.
type testServer struct {
	URL    string
	Client *http.Client
	Pool   *pgxpool.Pool
	deps   *app.Deps
}

// testLogWriter adapts testing.T to io.Writer for slog.
type testLogWriter struct{ t *testing.T }

func (w testLogWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{AIRatePerMinute: 0},
		Auth: config.AuthConfig{
			JWTSecret:      "e2e-secret-at-least-32-characters-long",
			JWTIssuer:      "wellnote-e2e",
			AccessTokenTTL: 15 * time.Minute,
			CronSecret:     cronSecret,
		},
		LLM: config.LLMConfig{
			Provider:        "stub",
			MaxOutputTokens: 512,
			Timeout:         5 * time.Second,
		},
		Billing: config.BillingConfig{
			Multiplier:          "2",
			LowBalanceThreshold: 100,
			DefaultEstimate:     50,
			Locale:              "en",
			Estimates:           map[string]int64{"CHAT_REPLY": 20},
		},
		Notification: config.NotificationConfig{
			MinResendInterval: 23 * time.Hour,
			WeeklyWeekday:     time.Monday,
			StaleAfterDays:    3,
			HistoryWindow:     14,
			AppBaseURL:        "https://app.example",
		},
		Scheduler: config.SchedulerConfig{Concurrency: 2, TickBudget: time.Minute},
		Delivery:  config.DeliveryConfig{Mode: "log"},
	}
}

// setupTestServer bootstraps the full application stack backed by
// a real PostgreSQL container (shared via testhelper).
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	pool := testhelper.SetupTestDB(t)
	logger := slog.New(slog.NewTextHandler(testLogWriter{t}, nil))

	deps, err := app.NewDeps(testConfig(), logger, pool)
	require.NoError(t, err)

	limiter := middleware.NewRateLimiter(time.Minute)
	t.Cleanup(limiter.Stop)

	srv := httptest.NewServer(app.NewHandler(deps, limiter))
	t.Cleanup(srv.Close)

	return &testServer{
		URL:    srv.URL,
		Client: srv.Client(),
		Pool:   pool,
		deps:   deps,
	}
}

// tokenFor issues an access token for userID.
func (ts *testServer) tokenFor(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	token, err := ts.deps.Tokens.Issue(userID, "en", 0)
	require.NoError(t, err)
	return token
}

// do sends a JSON request and decodes the JSON response into out (if non-nil).
func (ts *testServer) do(t *testing.T, method, path string, body any, headers map[string]string, out any) int {
	t.Helper()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, ts.URL+path, rd)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := ts.Client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}
