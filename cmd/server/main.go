package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/tanmay-j/cliqnotion/internal/activity"
	"github.com/tanmay-j/cliqnotion/internal/api"
	"github.com/tanmay-j/cliqnotion/internal/cache"
	"github.com/tanmay-j/cliqnotion/internal/cliq"
	"github.com/tanmay-j/cliqnotion/internal/config"
	"github.com/tanmay-j/cliqnotion/internal/connection"
	"github.com/tanmay-j/cliqnotion/internal/db"
	"github.com/tanmay-j/cliqnotion/internal/identity"
	"github.com/tanmay-j/cliqnotion/internal/middleware"
	"github.com/tanmay-j/cliqnotion/internal/notion"
	"github.com/tanmay-j/cliqnotion/internal/observ"
	"github.com/tanmay-j/cliqnotion/internal/repository/postgres"
	"github.com/tanmay-j/cliqnotion/internal/scheduler"
	"github.com/tanmay-j/cliqnotion/internal/secrets"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := observ.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	// Startup has no parent deadline; connecting takes as long as it takes.
	ctx := context.Background()

	database, err := db.New(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer database.Close()

	if err := database.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	// Redis is an accelerator, not a dependency: without it the docs
	// endpoint just hits Notion every poll.
	var docCache *cache.Cache
	if cfg.RedisURL != "" {
		docCache, err = cache.New(ctx, cfg.RedisURL)
		if err != nil {
			logger.Warn("redis unavailable, caching disabled", zap.Error(err))
			docCache = nil
		} else {
			defer docCache.Close()
		}
	}

	sealer, err := secrets.NewSealer(cfg.TokenSealKey)
	if err != nil {
		return fmt.Errorf("init token sealer: %w", err)
	}
	if !sealer.Enabled() {
		logger.Warn("TOKEN_SEAL_KEY not set, tokens stored unencrypted")
	}

	// One pool, shared by every repository. The pool is goroutine-safe;
	// repositories are stateless over it.
	pool := database.Pool()
	userRepo := postgres.NewUserStore(pool)
	tokenRepo := postgres.NewTokenStore(pool)
	mappingRepo := postgres.NewMappingStore(pool)
	settingsRepo := postgres.NewSettingsStore(pool)
	activityRepo := postgres.NewActivityStore(pool)

	connector := notion.NewConnector(
		cfg.NotionGlobalToken,
		cfg.NotionGlobalWorkspaceName,
		cfg.NotionGlobalWorkspaceIcon,
		cfg.NotionGlobalBotID,
	)
	newClient := func(accessToken string) notion.API {
		return notion.NewClient(accessToken)
	}

	resolver := identity.NewResolver(userRepo, settingsRepo, logger)
	connResolver := connection.NewResolver(tokenRepo, connector)
	activityLog := activity.NewLogger(activityRepo)
	sender := cliq.NewSender(cfg.CliqBotToken, logger)

	connectionHandler := api.NewConnectionHandler(connResolver, connector, tokenRepo, sealer, activityLog, logger)
	workspaceHandler := api.NewWorkspaceHandler(api.NewTokenSource(tokenRepo, sealer), newClient, docCache, activityLog, logger)
	activityHandler := api.NewActivityHandler(activityLog, logger)
	settingsHandler := api.NewSettingsHandler(settingsRepo, logger)
	cliqHandler := api.NewCliqHandler(api.NewTokenSource(tokenRepo, sealer), newClient, mappingRepo, activityLog, logger)
	webhookHandler := api.NewWebhookHandler(mappingRepo, userRepo, sender, logger)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := gin.New()
	srv.Use(gin.Logger(), gin.Recovery())

	// Health is public — load balancers can't send identity headers.
	srv.GET("/api/health", func(c *gin.Context) {
		if err := database.Health(c.Request.Context()); err != nil {
			c.JSON(503, gin.H{"status": "degraded"})
			return
		}
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Everything else resolves the caller to a durable user row first.
	authed := srv.Group("/api")
	authed.Use(middleware.Identity(resolver, cfg.CliqSigningSecret, logger))

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

	reminders := scheduler.New(sender, logger)
	if err := reminders.Start(); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	defer reminders.Stop()

	logger.Info("starting cliqnotion",
		zap.String("port", cfg.Port),
		zap.String("env", cfg.Env),
	)

	if err := srv.Run(":" + cfg.Port); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
