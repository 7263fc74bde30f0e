package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	GinMode     string
	CORSOrigins []string
	StaticDir   string

	// Gemini (embeddings + generation)
	GeminiAPIKey        string
	GeminiEmbedModel    string
	GeminiModel         string
	GeminiFallbackModel string
	EmbedDimension      int

	// Pinecone index data plane
	PineconeAPIKey    string
	PineconeIndexHost string

	// Cohere reranking
	CohereAPIKey      string
	CohereBaseURL     string
	CohereRerankModel string

	// Pipeline tuning
	ChunkSize         int
	ChunkOverlap      int
	TopK              int
	RerankTopN        int
	EmbedMaxRetries   int
	EmbedRetryBackoff int // seconds slept before retrying a rate-limited embed
	EmbedMinInterval  int // seconds between outbound Gemini requests
	UpsertBatchSize   int

	// Redis (request rate limiting)
	RedisURL      string
	RedisPassword string
	RedisDB       int

	RateLimitReqs   int
	RateLimitWindow int

	// Tracing
	TracingEnabled bool
	OTLPEndpoint   string
}

func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("error loading .env file: %v", err)
		}
	}

	cfg := &Config{
		Port:        getEnv("PORT", "8000"),
		GinMode:     getEnv("GIN_MODE", "debug"),
		CORSOrigins: strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:8000"), ","),
		StaticDir:   getEnv("STATIC_DIR", "./static"),

		GeminiAPIKey:        getEnv("GEMINI_API_KEY", ""),
		GeminiEmbedModel:    getEnv("GEMINI_EMBED_MODEL", "text-embedding-004"),
		GeminiModel:         getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		GeminiFallbackModel: getEnv("GEMINI_FALLBACK_MODEL", "gemini-1.5-flash-8b"),
		EmbedDimension:      getEnvInt("EMBED_DIMENSION", 768),

		PineconeAPIKey:    getEnv("PINECONE_API_KEY", ""),
		PineconeIndexHost: getEnv("PINECONE_INDEX_HOST", ""),

		CohereAPIKey:      getEnv("COHERE_API_KEY", ""),
		CohereBaseURL:     getEnv("COHERE_BASE_URL", "https://api.cohere.com"),
		CohereRerankModel: getEnv("COHERE_RERANK_MODEL", "rerank-english-v3.0"),

		ChunkSize:         getEnvInt("CHUNK_SIZE", 1000),
		ChunkOverlap:      getEnvInt("CHUNK_OVERLAP", 100),
		TopK:              getEnvInt("TOP_K", 10),
		RerankTopN:        getEnvInt("RERANK_TOP_N", 3),
		EmbedMaxRetries:   getEnvInt("EMBED_MAX_RETRIES", 3),
		EmbedRetryBackoff: getEnvInt("EMBED_RETRY_BACKOFF", 10),
		EmbedMinInterval:  getEnvInt("EMBED_MIN_INTERVAL", 2),
		UpsertBatchSize:   getEnvInt("UPSERT_BATCH_SIZE", 50),

		RedisURL:      getEnv("REDIS_URL", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		RateLimitReqs:   getEnvInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow: getEnvInt("RATE_LIMIT_WINDOW", 60),

		TracingEnabled: getEnvBool("TRACING_ENABLED", false),
		OTLPEndpoint:   getEnv("OTLP_ENDPOINT", "localhost:4317"),
	}

	// Validate required fields
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required - set it in .env file")
	}

	if cfg.PineconeAPIKey == "" {
		return nil, fmt.Errorf("PINECONE_API_KEY is required - set it in .env file")
	}

	if cfg.PineconeIndexHost == "" {
		return nil, fmt.Errorf("PINECONE_INDEX_HOST is required - set it in .env file")
	}

	if cfg.CohereAPIKey == "" {
		return nil, fmt.Errorf("COHERE_API_KEY is required - set it in .env file")
	}

	if cfg.ChunkOverlap >= cfg.ChunkSize {
		return nil, fmt.Errorf("CHUNK_OVERLAP must be smaller than CHUNK_SIZE")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
