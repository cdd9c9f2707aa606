package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"filmora/internal/blog"
	"filmora/internal/catalog"
	"filmora/internal/feed"
	"filmora/internal/gateway"
	"filmora/internal/moderation"
	"filmora/internal/session"
	"filmora/internal/state"
	"filmora/internal/stream"
	"filmora/internal/watchlist"
	"filmora/pkg/utils"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := utils.LoadConfig()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()

	fsClient, err := gateway.NewClient(ctx, cfg.FirebaseProjectID, cfg.FirebaseCredentials)
	if err != nil {
		logger.Fatal("init firestore", zap.Error(err))
	}
	defer fsClient.Close()
	store := gateway.New(fsClient)

	verifier, err := session.NewVerifier(ctx, cfg.FirebaseProjectID, cfg.FirebaseCredentials)
	if err != nil {
		logger.Fatal("init token verifier", zap.Error(err))
	}

	appState := state.New()
	tokenSvc := session.TokenService{
		Secret:   []byte(cfg.JWTSecret),
		Issuer:   cfg.JWTIssuer,
		Duration: cfg.JWTDuration,
	}
	identity := session.NewIdentityClient(cfg.FirebaseAPIKey)
	sessionSvc := session.NewService(store, appState, tokenSvc, identity, verifier, logger)

	router := gin.Default()
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	router.Use(utils.RequestID())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", utils.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	hub := stream.NewHub()
	router.GET("/ws", stream.WSHandler(hub, logger))

	started := time.Now()
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":     "ready",
			"ws_clients": hub.Count(),
			"uptime":     time.Since(started).Round(time.Second).String(),
		})
	})

	// Catalog (public)
	catalogClient := catalog.NewClient(cfg.TMDBBaseURL, cfg.TMDBAccessToken)
	catalog.NewHandler(catalogClient).RegisterRoutes(router.Group("/catalog"))

	// Composed per-item feed (public)
	feed.NewHandler(store, appState).RegisterRoutes(router.Group(""))

	// Auth
	sessionHandler := session.NewHandler(sessionSvc)
	sessionHandler.RegisterRoutes(router.Group("/auth"))

	// Protected routes
	users := router.Group("/users")
	users.Use(session.AuthMiddleware(tokenSvc))
	sessionHandler.RegisterUserRoutes(users)

	moderationSvc := moderation.NewService(store, appState)
	moderationHandler := moderation.NewHandler(moderationSvc, sessionSvc, hub)

	protected := router.Group("")
	protected.Use(session.AuthMiddleware(tokenSvc))
	moderationHandler.RegisterProtectedRoutes(protected)

	watchlistSvc := watchlist.NewService(store, appState)
	watchlist.NewHandler(watchlistSvc, hub).RegisterRoutes(users.Group("/me/watchlist"))

	blogSvc := blog.NewService(store, appState)
	blogHandler := blog.NewHandler(blogSvc, sessionSvc)
	blogHandler.RegisterRoutes(protected)
	blogHandler.RegisterUserRoutes(users.Group("/me"))

	// Admin (moderation console)
	admin := router.Group("/admin")
	admin.Use(session.AuthMiddleware(tokenSvc), session.RequireAdmin(sessionSvc))
	moderationHandler.RegisterAdminRoutes(admin)

	httpSrv := &http.Server{
		Addr:    cfg.Addr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("api server listening", zap.String("addr", cfg.Addr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", zap.Error(err))
	}

	wg.Wait()
	logger.Info("server stopped")
}
