package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"rag-demo-service/internal/ai"
	"rag-demo-service/internal/config"
	"rag-demo-service/internal/logger"
	"rag-demo-service/internal/rerank/cohere"
	"rag-demo-service/internal/telemetry"
	"rag-demo-service/internal/vectorstore/pinecone"
	"rag-demo-service/middleware"
	"rag-demo-service/routes"
	"rag-demo-service/services"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.InitLogger(cfg)

	if cfg.TracingEnabled {
		shutdown, err := telemetry.InitTracer("rag-demo-service", cfg.OTLPEndpoint)
		if err != nil {
			logger.Warn("Tracing disabled", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Provider clients are constructed once and shared
	gemini, err := ai.NewGeminiClient(context.Background(), cfg)
	if err != nil {
		log.Fatal("Failed to create Gemini client:", err)
	}
	defer gemini.Close()

	store := pinecone.NewStore(pinecone.Config{
		Host:   cfg.PineconeIndexHost,
		APIKey: cfg.PineconeAPIKey,
	})

	reranker := cohere.NewReranker(cohere.Config{
		BaseURL: cfg.CohereBaseURL,
		APIKey:  cfg.CohereAPIKey,
		Model:   cfg.CohereRerankModel,
	})

	splitter := services.NewSplitter(cfg.ChunkSize, cfg.ChunkOverlap)
	ingestion := services.NewIngestionService(splitter, gemini, store, cfg)
	query := services.NewQueryService(gemini, store, reranker, gemini, cfg)

	// Initialize Gin router
	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())

	if cfg.TracingEnabled {
		router.Use(middleware.TracingMiddleware())
		router.Use(middleware.EnrichTrace())
	}

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	router.Use(cors.New(corsConfig))

	// Request rate limiting; skipped when Redis is unreachable
	if rdb, err := config.NewRedisClient(cfg); err != nil {
		logger.Warn("Redis unavailable, request rate limiting disabled", "error", err)
	} else {
		router.Use(middleware.RateLimitMiddleware(rdb, cfg))
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": time.Now()})
	})

	routes.SetupRAGRoutes(router, ingestion, query, store)

	// Frontend at root path
	router.NoRoute(gin.WrapH(http.FileServer(http.Dir(cfg.StaticDir))))

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	logger.Info("Server exited")
}
