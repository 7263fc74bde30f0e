package ai

import (
	"context"
	"os"
	"testing"

	"rag-demo-service/internal/config"
)

func TestEmbedTextLive(t *testing.T) {
	if os.Getenv("GEMINI_API_KEY") == "" {
		t.Skip("GEMINI_API_KEY not set")
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		t.Skipf("config load failed: %v", err)
	}
	client, err := NewGeminiClient(context.Background(), cfg)
	if err != nil {
		t.Fatalf("client error: %v", err)
	}
	defer client.Close()

	vec, err := client.EmbedText(context.Background(), "hello world", TaskDocument)
	if err != nil {
		t.Fatalf("embedding error: %v", err)
	}
	if len(vec) == 0 {
		t.Fatalf("empty embedding")
	}
}
