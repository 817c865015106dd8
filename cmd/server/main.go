package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nearbuy-chat/internal/auth"
	"nearbuy-chat/internal/chat"
	"nearbuy-chat/internal/config"
	"nearbuy-chat/internal/middleware"
	"nearbuy-chat/internal/obs"
	"nearbuy-chat/internal/store"
	"nearbuy-chat/internal/user"
	"nearbuy-chat/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.LoadConfig(".env")
	if err != nil {
		slog.Error("configuration not loaded", "err", err)
		os.Exit(1)
	}

	logger := obs.NewLogger(cfg.Env)
	slog.SetDefault(logger)
	logger.Info("chat backend starting", "port", cfg.ServerPort, "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server exited", "err", err)
		os.Exit(1)
	}
	logger.Info("server exiting")
}

func run(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) error {
	dbpool, err := store.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer dbpool.Close()
	logger.Info("connected to the database")

	if err := store.Migrate(ctx, dbpool); err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := obs.NewMetrics(registry)

	userStore := store.NewPostgresUserStore(dbpool)
	chatStore := store.NewPostgresChatStore(dbpool)
	messageStore := store.NewPostgresMessageStore(dbpool)

	wsHub := websocket.NewHub(chatStore, messageStore, metrics, logger)

	authHandler := auth.NewAuthHandler(userStore)
	userHandler := user.NewUserHandler(userStore)
	chatRestHandler := chat.NewRestHandler(chatStore, messageStore, wsHub, metrics)
	wsHandler := websocket.NewWSHandler(wsHub, cfg.CORSOrigins)

	if cfg.Env != "dev" && cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.RedirectTrailingSlash = false
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "Upgrade", "Connection"}
	corsConfig.AllowCredentials = true
	r.Use(cors.New(corsConfig))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	r.GET("/ws", wsHandler.HandleWebSocketConnection)

	api := r.Group("/api")
	{
		publicAuthRoutes := api.Group("/auth")
		{
			publicAuthRoutes.POST("/register", authHandler.Register)
			publicAuthRoutes.POST("/login", authHandler.Login)
		}

		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.GET("/auth/me", authHandler.GetMe)
			protected.GET("/users/:id", userHandler.GetUserByID)
			protected.POST("/chats/initiate", chatRestHandler.InitiateChat)
			protected.GET("/chats", chatRestHandler.GetChats)
			protected.GET("/chats/:room_id/messages", chatRestHandler.GetMessages)
			protected.POST("/chats/:room_id/messages", chatRestHandler.PostMessage)
			protected.POST("/chats/:room_id/messages/read", chatRestHandler.MarkRead)
		}
	}

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return wsHub.Run(gctx)
	})

	g.Go(func() error {
		logger.Info("listening and serving HTTP", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
