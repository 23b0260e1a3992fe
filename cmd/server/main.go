package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"shoemart/internal/config"
	"shoemart/internal/handler"
	"shoemart/internal/metrics"
	"shoemart/internal/repository"
	"shoemart/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Print version info
	log.Printf("ShoeMart Chatbot Server")
	log.Printf("Version: %s", Version)
	log.Printf("Build Time: %s", BuildTime)
	log.Printf("Git Commit: %s", GitCommit)
	log.Println("")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	// Initialize database connection, falling back to offline mode
	var (
		storage     service.Storage = service.NewOfflineStorage()
		transcripts service.TranscriptStore
		repo        *repository.PostgresRepository
	)
	repo, err = repository.NewPostgresRepository(
		cfg.GetPostgreSQLDSN(),
		cfg.PostgreSQL.MaxConnections,
		cfg.PostgreSQL.MaxIdleConnections,
	)
	if err != nil {
		log.Printf("⚠️  Failed to connect to database: %v", err)
		log.Println("   Running in offline mode with the built-in sample catalog")
		repo = nil
	} else {
		defer repo.Close()
		storage = repo
		transcripts = repo
		log.Println("✅ Connected to PostgreSQL database")

		if cfg.PostgreSQL.AutoMigrate {
			version, err := repository.RunMigrations(cfg.GetPostgreSQLURL())
			if err != nil {
				log.Fatalf("Failed to run migrations: %v", err)
			}
			log.Printf("✅ Database schema at version %d", version)
		}
	}

	// Initialize services
	sessions := service.NewSessionManager(storage, transcripts, service.SessionOptions{
		Dispatcher: service.DispatcherOptions{
			BotName:          cfg.Chatbot.Name,
			AllDisplayLimit:  cfg.Chatbot.AllDisplayLimit,
			ListDisplayLimit: cfg.Chatbot.ListDisplayLimit,
			PopularLimit:     cfg.Chatbot.PopularLimit,
			SimilarLimit:     cfg.Embedding.SimilarLimit,
			QueryTimeout:     cfg.PostgreSQL.QueryTimeout,
		},
		MaxHistory:  cfg.Chatbot.MaxHistory,
		TTL:         cfg.Chatbot.SessionTTL,
		MaxSessions: cfg.Chatbot.MaxSessions,
		RandomSeed:  cfg.Chatbot.RandomSeed,
	})
	metrics.Init(sessions)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sessions.StartSweeper(ctx, time.Minute)

	log.Println("✅ Services initialized")

	router := setupRouter(cfg, storage, repo, sessions)

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: router}
	log.Printf("🚀 Starting server on %s", addr)
	log.Printf("📝 API Documentation: http://localhost:%d/api/v1", cfg.Server.Port)
	log.Printf("📈 Metrics: http://localhost:%d/metrics", cfg.Server.Port)

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("❌ Server forced to shutdown: %v", err)
	}
	log.Println("✅ Server stopped")
}

// setupRouter wires the HTTP routes. repo is nil in offline mode.
func setupRouter(cfg *config.Config, storage service.Storage, repo *repository.PostgresRepository, sessions *service.SessionManager) *gin.Engine {
	chatHandler := handler.NewChatHandler(sessions)
	productHandler := handler.NewProductHandler(storage)

	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = splitList(cfg.Server.AllowedOrigins)
	corsConfig.AllowMethods = splitList(cfg.Server.AllowedMethods)
	corsConfig.AllowHeaders = splitList(cfg.Server.AllowedHeaders)
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		database := "offline"
		if storage.IsAvailable(c.Request.Context()) {
			database = "connected"
		}
		c.JSON(http.StatusOK, gin.H{
			"status":          "healthy",
			"service":         "shoemart-chatbot",
			"bot":             cfg.Chatbot.Name,
			"version":         Version,
			"build_time":      BuildTime,
			"git_commit":      GitCommit,
			"database":        database,
			"active_sessions": sessions.Count(),
		})
	})

	// Version endpoint
	router.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":     Version,
			"bot_version": cfg.Chatbot.Version,
			"build_time":  BuildTime,
			"git_commit":  GitCommit,
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API routes
	apiV1 := router.Group("/api/v1")
	{
		// Chat endpoints
		apiV1.POST("/chat", chatHandler.Chat)
		apiV1.POST("/chat/stream", chatHandler.ChatStream)
		apiV1.GET("/chat/:session/history", chatHandler.History)
		apiV1.DELETE("/chat/:session", chatHandler.Delete)

		// Product endpoints
		apiV1.GET("/products/:id", productHandler.GetProduct)

		// Embedding endpoints need a live database
		if repo != nil {
			embeddingHandler := handler.NewEmbeddingHandler(repo, cfg.Embedding.Dimensions)
			apiV1.POST("/products/embeddings/batch", embeddingHandler.BatchUpdate)
			apiV1.PUT("/products/:id/embedding", embeddingHandler.Update)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(http.StatusNotFound, gin.H{"error": "API endpoint not found"})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})

	return router
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
