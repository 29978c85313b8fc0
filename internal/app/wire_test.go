package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pokernight/cashbox/internal/auth"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := NewRouter(RouterDeps{
		JWTMgr:             auth.NewJWTManager("test-secret-that-is-long-enough-123", time.Hour),
		Logger:             logger,
		CORSAllowedOrigins: "*",
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && resp.Header.Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

func register(t *testing.T, srv *httptest.Server, name, email string) string {
	t.Helper()
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/auth/register", "", map[string]string{
		"email": email, "display_name": name, "password": "hunter2hunter2",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

// --- Router Tests ---

func TestRouterHealth(t *testing.T) {
	srv := newTestServer(t)
	resp, body := doJSON(t, http.MethodGet, srv.URL+"/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "memory", body["storage"])
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestRouterAuthRequired(t *testing.T) {
	srv := newTestServer(t)
	resp, _ := doJSON(t, http.MethodGet, srv.URL+"/sessions", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRouterSessionFlow(t *testing.T) {
	srv := newTestServer(t)
	aliceToken := register(t, srv, "Alice", "alice@example.com")
	bobToken := register(t, srv, "Bob", "bob@example.com")
	base := srv.URL + "/sessions/friday-night"

	// Roster
	for _, player := range []map[string]interface{}{
		{"name": "alice", "is_host": true},
		{"name": "bob"},
	} {
		resp, _ := doJSON(t, http.MethodPost, base+"/players", aliceToken, player)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	// Alice declares a purchase
	resp, purchase := doJSON(t, http.MethodPost, base+"/purchases", aliceToken, map[string]interface{}{
		"player_name": "alice", "amount": 100, "method": "cash",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	purchaseID, _ := purchase["id"].(string)
	require.NotEmpty(t, purchaseID)

	// Alice cannot validate her own purchase
	resp, body := doJSON(t, http.MethodPost, fmt.Sprintf("%s/purchases/%s/validate", base, purchaseID), aliceToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "SELF_VALIDATION", body["code"])

	// Bob validates it
	resp, body = doJSON(t, http.MethodPost, fmt.Sprintf("%s/purchases/%s/validate", base, purchaseID), bobToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["validated"])
	assert.Equal(t, "Bob", body["validator_name"])

	// A second validation conflicts
	resp, body = doJSON(t, http.MethodPost, fmt.Sprintf("%s/purchases/%s/validate", base, purchaseID), bobToken, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "ALREADY_VALIDATED", body["code"])

	// Close is blocked until everyone declares a withdrawal
	resp, body = doJSON(t, http.MethodPost, base+"/close", aliceToken, map[string]bool{"confirmed": true})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CANNOT_CLOSE", body["code"])

	for _, w := range []map[string]interface{}{
		{"player_name": "alice", "chips_out": 30, "preference": "transfer"},
		{"player_name": "bob", "chips_out": 70, "preference": "cash"},
	} {
		resp, _ := doJSON(t, http.MethodPost, base+"/withdrawals", aliceToken, w)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	// Settlement
	resp, body = doJSON(t, http.MethodGet, base+"/settlement", aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["can_close"])
	players, _ := body["players"].([]interface{})
	require.Len(t, players, 2)

	// Report renders as plain text
	req, err := http.NewRequest(http.MethodGet, base+"/report", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+aliceToken)
	reportResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer reportResp.Body.Close()
	require.Equal(t, http.StatusOK, reportResp.StatusCode)
	assert.Contains(t, reportResp.Header.Get("Content-Type"), "text/plain")
	report, err := io.ReadAll(reportResp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(report), "Poker cash session summary")

	// Close succeeds with confirmation
	resp, body = doJSON(t, http.MethodPost, base+"/close", aliceToken, map[string]bool{"confirmed": true})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["closed"])

	// Closed session refuses mutation
	resp, body = doJSON(t, http.MethodPost, base+"/players", aliceToken, map[string]string{"name": "carol"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "SESSION_CLOSED", body["code"])

	// Session shows up in the listing
	resp, body = doJSON(t, http.MethodGet, srv.URL+"/sessions", aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	sessions, _ := body["sessions"].([]interface{})
	require.Len(t, sessions, 1)
}

func TestRouterRemovePlayer(t *testing.T) {
	srv := newTestServer(t)
	token := register(t, srv, "Alice", "alice@example.com")
	base := srv.URL + "/sessions/friday-night"

	resp, _ := doJSON(t, http.MethodPost, base+"/players", token, map[string]string{"name": "alice"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := doJSON(t, http.MethodDelete, base+"/players/alice", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	players, _ := body["players"].([]interface{})
	assert.Empty(t, players)
}
