package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Black-And-White-Club/printboard/app/eventbus"
	leaderboardservice "github.com/Black-And-White-Club/printboard/app/modules/leaderboard/application"
	"github.com/Black-And-White-Club/printboard/app/observability"
	"github.com/Black-And-White-Club/printboard/config"
	"github.com/Black-And-White-Club/printboard/db/bundb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "test-key"

func newTestApp(t *testing.T) *App {
	t.Helper()
	ctx := context.Background()

	cfg := &config.Config{
		HTTP: config.HTTPConfig{
			Addr:            ":0",
			AllowedOrigins:  []string{"http://localhost:3000"},
			RateLimit:       1000,
			RateBurst:       1000,
			ShutdownTimeout: time.Second,
		},
		Postgres: config.PostgresConfig{DSN: ":memory:"},
		EventBus: config.EventBusConfig{Driver: config.EventBusMemory},
		Auth:     config.AuthConfig{APIKeys: []string{testKey}},
		Image:    config.ImageConfig{URL: "https://cdn.example.test/preview.png"},
	}
	obs := observability.NewNoop()

	db, err := bundb.OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	require.NoError(t, bundb.Migrate(ctx, db, obs.Logger))

	app, err := newApp(ctx, cfg, obs, db, eventbus.NewMemory(obs.Logger))
	require.NoError(t, err)

	runCtx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = app.WatermillRouter.Run(runCtx)
	}()
	<-app.WatermillRouter.Running()

	t.Cleanup(func() {
		cancel()
		wg.Wait()
		require.NoError(t, app.Close())
	})
	return app
}

func do(t *testing.T, h http.Handler, method, path, body string, keyed bool) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if keyed {
		req.Header.Set("X-API-Key", testKey)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestApp_LeaderboardFlow(t *testing.T) {
	h := newTestApp(t).Handler()

	rec := do(t, h, http.MethodPost, "/leaderboardInsert", `{"name":"203.0.113.7"}`, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Data processed and ranks updated successfully", rec.Body.String())

	rec = do(t, h, http.MethodPost, "/leaderboardInsert", `{"name":"198.51.100.4"}`, true)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, h, http.MethodPost, "/leaderboardInsert", `{"name":"198.51.100.4"}`, true)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/leaderboard", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	var rows []leaderboardservice.Row
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	assert.Equal(t, []leaderboardservice.Row{
		{Rank: 1, Name: "198.51.100.4", Score: 1, Cost: 1},
		{Rank: 2, Name: "203.0.113.7", Score: 0, Cost: 0},
	}, rows)

	rec = do(t, h, http.MethodPut, "/leaderboardUpdate", `{"filter":{"name":"203.0.113.7"},"update":{"score":5}}`, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Document updated successfully!", rec.Body.String())

	rec = do(t, h, http.MethodGet, "/leaderboardRead", "", true)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "203.0.113.7", rows[0].Name)
	assert.Equal(t, 1, rows[0].Rank)

	rec = do(t, h, http.MethodPut, "/leaderboardUpdate", `{"filter":{"name":"ghost"},"update":{"score":5}}`, true)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodGet, "/leaderboard/export.xlsx", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")))

	rec = do(t, h, http.MethodGet, "/leaderboard/chart.png", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))
}

func TestApp_EmptyLeaderboardIsArray(t *testing.T) {
	h := newTestApp(t).Handler()

	rec := do(t, h, http.MethodGet, "/leaderboard", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/leaderboard/chart.png", "", true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))
}

func TestApp_ChartOnAllZeroBoard(t *testing.T) {
	h := newTestApp(t).Handler()

	rec := do(t, h, http.MethodPost, "/leaderboardInsert", `{"name":"203.0.113.7"}`, true)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/leaderboard/chart.png", "", true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))
}

func TestApp_SendPrint(t *testing.T) {
	h := newTestApp(t).Handler()

	rec := do(t, h, http.MethodPost, "/sendPrint", `{"message":"Print job requested"}`, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Print job initiated successfully", rec.Body.String())

	rec = do(t, h, http.MethodPost, "/sendPrint", `{`, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestApp_RequiresAPIKey(t *testing.T) {
	h := newTestApp(t).Handler()

	for _, tc := range []struct{ method, path, body string }{
		{http.MethodPost, "/leaderboardInsert", `{"name":"x"}`},
		{http.MethodGet, "/leaderboard", ""},
		{http.MethodGet, "/leaderboardRead", ""},
		{http.MethodPut, "/leaderboardUpdate", `{"filter":{"name":"x"},"update":{"score":1}}`},
		{http.MethodPost, "/sendPrint", `{"message":"m"}`},
		{http.MethodGet, "/leaderboard/export.xlsx", ""},
	} {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			rec := do(t, h, tc.method, tc.path, tc.body, false)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestApp_PublicRoutes(t *testing.T) {
	h := newTestApp(t).Handler()

	rec := do(t, h, http.MethodGet, "/getImage", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"imageUrl":"https://cdn.example.test/preview.png"}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/healthz", "", false)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/metrics", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "printboard_http_requests_total")
}
