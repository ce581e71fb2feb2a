package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/baria-bot/baria/internal/models"
	"github.com/baria-bot/baria/internal/session"
	"github.com/baria-bot/baria/internal/store"
)

func newTestServer(t *testing.T, opts ...Option) *Server {
	t.Helper()
	opts = append([]Option{WithSessionStore(session.NewStore())}, opts...)
	srv, err := NewServer(opts...)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	return srv
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response body %q: %v", rec.Body.String(), err)
	}
	return resp
}

func TestNewServerRequiresSessionStore(t *testing.T) {
	if _, err := NewServer(); err == nil {
		t.Error("expected error when session store is missing")
	}
}

func TestHealthEndpoint(t *testing.T) {
	sessions := session.NewStore()
	sessions.Get("user-1")
	sessions.Get("user-2")
	srv, err := NewServer(WithSessionStore(sessions))
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	resp := decodeResponse(t, rec)
	if resp.Status != "ok" {
		t.Errorf("status = %q, want ok", resp.Status)
	}
	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatalf("result = %T, want object", resp.Result)
	}
	if got := result["sessions"]; got != float64(2) {
		t.Errorf("sessions = %v, want 2", got)
	}
}

func TestResetEndpoint(t *testing.T) {
	sessions := session.NewStore()
	s := sessions.Get("user-1")
	s.Lock()
	s.State = models.StateCompleted
	s.Unlock()
	srv, err := NewServer(WithSessionStore(sessions))
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/reset?user=user-1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	fresh := sessions.Get("user-1")
	fresh.Lock()
	state := fresh.State
	fresh.Unlock()
	if state != models.StateInitial {
		t.Errorf("state after reset = %q, want %q", state, models.StateInitial)
	}
}

func TestResetEndpointRequiresUser(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/reset", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestResetEndpointMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reset?user=user-1", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestReportsEndpoint(t *testing.T) {
	reports := store.NewInMemoryStore()
	ctx := context.Background()
	for _, r := range []models.IntakeReport{
		{ID: "r1", UserID: "user-1", Name: "Carlos Silva", BMI: 29.3},
		{ID: "r2", UserID: "user-2", Name: "Ana Souza", BMI: 41.0},
	} {
		if err := reports.SaveReport(ctx, r); err != nil {
			t.Fatalf("SaveReport failed: %v", err)
		}
	}
	srv := newTestServer(t, WithReportStore(reports))

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	resp := decodeResponse(t, rec)
	all, ok := resp.Result.([]interface{})
	if !ok {
		t.Fatalf("result = %T, want array", resp.Result)
	}
	if len(all) != 2 {
		t.Errorf("len(reports) = %d, want 2", len(all))
	}

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports?user=user-2", nil))
	resp = decodeResponse(t, rec)
	filtered, ok := resp.Result.([]interface{})
	if !ok {
		t.Fatalf("result = %T, want array", resp.Result)
	}
	if len(filtered) != 1 {
		t.Fatalf("len(filtered) = %d, want 1", len(filtered))
	}
	entry := filtered[0].(map[string]interface{})
	if entry["name"] != "Ana Souza" {
		t.Errorf("filtered report name = %v, want Ana Souza", entry["name"])
	}
}

func TestReportsEndpointWithoutStore(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestTwilioWebhookMount(t *testing.T) {
	called := false
	srv := newTestServer(t, WithTwilioWebhook(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/webhook/twilio", nil))
	if !called {
		t.Error("webhook handler was not invoked")
	}

	bare := newTestServer(t)
	rec = httptest.NewRecorder()
	bare.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/webhook/twilio", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status without webhook = %d, want 404", rec.Code)
	}
}
