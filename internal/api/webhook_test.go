package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/tanmay-j/cliqnotion/internal/cliq"
	"github.com/tanmay-j/cliqnotion/internal/models"
	"github.com/tanmay-j/cliqnotion/internal/repository/memory"
	"go.uber.org/zap"
)

// webhookEnv wires the webhook handler against a capturing Cliq API so
// tests can see what was delivered.
type webhookEnv struct {
	store    *memory.Store
	router   *gin.Engine
	sent     []map[string]any
	cliqSrv  *httptest.Server
	sendFail bool
}

func newWebhookEnv(t *testing.T) *webhookEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &webhookEnv{store: memory.NewStore()}
	env.cliqSrv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if env.sendFail {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		var payload map[string]any
		json.NewDecoder(r.Body).Decode(&payload)
		env.sent = append(env.sent, payload)
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(env.cliqSrv.Close)

	logger := zap.NewNop()
	sender := cliq.NewSenderWithAPIBase("bot-token", env.cliqSrv.URL, logger)
	handler := NewWebhookHandler(env.store.Mappings(), env.store.Users(), sender, logger)

	env.router = gin.New()
	env.router.POST("/api/notion/webhook", handler.Receive)
	return env
}

func (e *webhookEnv) post(t *testing.T, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/notion/webhook", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *webhookEnv) mapPage(t *testing.T, pageID string) *models.CliqUser {
	t.Helper()
	ctx := context.Background()
	user, err := e.store.Users().Create(ctx, "cliq-1", "Ada", "")
	if err != nil {
		t.Fatalf("Create user: %v", err)
	}
	if _, err := e.store.Mappings().Create(ctx, models.MappingInput{
		NotionPageID: pageID,
		CliqUserID:   user.ID,
	}); err != nil {
		t.Fatalf("Create mapping: %v", err)
	}
	return user
}

func TestWebhookRoutesUpdateToMappedUser(t *testing.T) {
	env := newWebhookEnv(t)
	env.mapPage(t, "page-1")

	rec := env.post(t, map[string]any{
		"page_id":    "page-1",
		"action":     "updated",
		"properties": map[string]any{"title": "Saved Message"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	if len(env.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(env.sent))
	}
	msg := env.sent[0]
	if msg["user_id"] != "cliq-1" {
		t.Fatalf("delivered to %v", msg["user_id"])
	}
	if msg["text"] != "Task updated: Saved Message" {
		t.Fatalf("text %v", msg["text"])
	}
}

func TestWebhookMissingTitleFallsBackToTask(t *testing.T) {
	env := newWebhookEnv(t)
	env.mapPage(t, "page-1")

	env.post(t, map[string]any{"page_id": "page-1", "action": "updated"})
	if len(env.sent) != 1 || env.sent[0]["text"] != "Task updated: Task" {
		t.Fatalf("unexpected delivery: %+v", env.sent)
	}
}

func TestWebhookUnmappedPageIsAcknowledged(t *testing.T) {
	env := newWebhookEnv(t)

	rec := env.post(t, map[string]any{"page_id": "page-unknown", "action": "updated"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if len(env.sent) != 0 {
		t.Fatalf("unexpected delivery: %+v", env.sent)
	}
}

func TestWebhookIgnoresOtherActions(t *testing.T) {
	env := newWebhookEnv(t)
	env.mapPage(t, "page-1")

	rec := env.post(t, map[string]any{"page_id": "page-1", "action": "created"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if len(env.sent) != 0 {
		t.Fatalf("unexpected delivery: %+v", env.sent)
	}
}

func TestWebhookDeliveryFailureStillAcknowledges(t *testing.T) {
	env := newWebhookEnv(t)
	env.mapPage(t, "page-1")
	env.sendFail = true

	rec := env.post(t, map[string]any{"page_id": "page-1", "action": "updated"})
	// A failed notification must not make Notion retry the event.
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
}
