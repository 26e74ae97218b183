package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/tanmay-j/cliqnotion/internal/activity"
	"github.com/tanmay-j/cliqnotion/internal/cliq"
	"github.com/tanmay-j/cliqnotion/internal/connection"
	"github.com/tanmay-j/cliqnotion/internal/identity"
	"github.com/tanmay-j/cliqnotion/internal/middleware"
	"github.com/tanmay-j/cliqnotion/internal/models"
	"github.com/tanmay-j/cliqnotion/internal/notion"
	"github.com/tanmay-j/cliqnotion/internal/repository/memory"
	"github.com/tanmay-j/cliqnotion/internal/secrets"
	"go.uber.org/zap"
)

// fakeNotionAPI scripts the Notion calls handlers make. Zero-value
// methods answer empty and succeed.
type fakeNotionAPI struct {
	recent     []notion.Document
	results    []notion.SearchResult
	created    *notion.Page
	createErr  error
	lastCreate notion.CreatePageParams
	lastQuery  string
}

func (f *fakeNotionAPI) RecentPages(ctx context.Context) ([]notion.Document, error) {
	return f.recent, nil
}

func (f *fakeNotionAPI) Search(ctx context.Context, query string) ([]notion.SearchResult, error) {
	f.lastQuery = query
	return f.results, nil
}

func (f *fakeNotionAPI) CreatePage(ctx context.Context, params notion.CreatePageParams) (*notion.Page, error) {
	f.lastCreate = params
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.created != nil {
		return f.created, nil
	}
	return &notion.Page{ID: "created-page", URL: "https://notion.so/created-page"}, nil
}

func (f *fakeNotionAPI) UpdatePage(ctx context.Context, pageID string, properties map[string]any) error {
	return nil
}

// testEnv wires the handlers the way cmd/server does, swapping postgres
// for the in-memory store and the Notion client for a scripted fake.
type testEnv struct {
	store     *memory.Store
	notionAPI *fakeNotionAPI
	connector *notion.Connector
	sender    *cliq.Sender
	router    *gin.Engine
}

func newTestEnv(t *testing.T, connector *notion.Connector) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := zap.NewNop()
	store := memory.NewStore()
	sealer, err := secrets.NewSealer("")
	if err != nil {
		t.Fatalf("NewSealer: %v", err)
	}

	fake := &fakeNotionAPI{}
	newClient := func(accessToken string) notion.API { return fake }

	resolver := identity.NewResolver(store.Users(), store.Settings(), logger)
	connResolver := connection.NewResolver(store.Tokens(), connector)
	activityLog := activity.NewLogger(store.Activity())
	sender := cliq.NewSender("", logger)

	connectionHandler := NewConnectionHandler(connResolver, connector, store.Tokens(), sealer, activityLog, logger)
	workspaceHandler := NewWorkspaceHandler(NewTokenSource(store.Tokens(), sealer), newClient, nil, activityLog, logger)
	activityHandler := NewActivityHandler(activityLog, logger)
	settingsHandler := NewSettingsHandler(store.Settings(), logger)
	cliqHandler := NewCliqHandler(NewTokenSource(store.Tokens(), sealer), newClient, store.Mappings(), activityLog, logger)
	webhookHandler := NewWebhookHandler(store.Mappings(), store.Users(), sender, logger)

	router := gin.New()
	authed := router.Group("/api")
	authed.Use(middleware.Identity(resolver, "", logger))

	authed.GET("/connection/status", connectionHandler.Status)
	authed.GET("/auth/notion/start", connectionHandler.Connect)
	authed.POST("/auth/notion/disconnect", connectionHandler.Disconnect)
	authed.GET("/tasks", workspaceHandler.Tasks)
	authed.PATCH("/tasks/:id", workspaceHandler.UpdateTask)
	authed.GET("/docs", workspaceHandler.Docs)
	authed.GET("/search", workspaceHandler.Search)
	authed.GET("/activity", activityHandler.Feed)
	authed.GET("/settings", settingsHandler.Get)
	authed.PATCH("/settings", settingsHandler.Update)
	authed.POST("/cliq/slash", cliqHandler.Slash)
	authed.POST("/cliq/message-action", cliqHandler.MessageAction)
	authed.POST("/notion/webhook", webhookHandler.Receive)

	return &testEnv{
		store:     store,
		notionAPI: fake,
		connector: connector,
		sender:    sender,
		router:    router,
	}
}

// do runs a request as cliq user "cliq-test" and returns the recorder.
func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("X-Cliq-User-Id", "cliq-test")
	req.Header.Set("X-Cliq-Display-Name", "Test User")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// user returns the row the identity middleware created for "cliq-test".
func (e *testEnv) user(t *testing.T) *models.CliqUser {
	t.Helper()
	user, err := e.store.Users().GetByCliqUserID(context.Background(), "cliq-test")
	if err != nil {
		t.Fatalf("GetByCliqUserID: %v", err)
	}
	if user == nil {
		t.Fatal("no user row for cliq-test")
	}
	return user
}

// connectUser installs a token row for "cliq-test" directly, bypassing
// the connect flow.
func (e *testEnv) connectUser(t *testing.T, accessToken string) *models.CliqUser {
	t.Helper()
	// Touch any endpoint first so the user row exists.
	if rec := e.do(t, http.MethodGet, "/api/connection/status", nil); rec.Code != http.StatusOK {
		t.Fatalf("status bootstrap: %d", rec.Code)
	}
	user := e.user(t)
	if _, err := e.store.Tokens().Upsert(context.Background(), models.TokenInput{
		CliqUserID:    user.ID,
		AccessToken:   accessToken,
		WorkspaceName: "Test Workspace",
	}); err != nil {
		t.Fatalf("Upsert token: %v", err)
	}
	return user
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}
