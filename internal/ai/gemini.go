package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"

	genai "github.com/google/generative-ai-go/genai"

	"rag-demo-service/internal/config"
	"rag-demo-service/internal/logger"
)

// EmbedTask selects the task hint sent with an embedding request. Gemini
// embeds documents and queries into slightly different spaces.
type EmbedTask int

const (
	TaskDocument EmbedTask = iota
	TaskQuery
)

// GeminiClient wraps the Gemini SDK with outbound pacing and a circuit
// breaker. One client is constructed at startup and shared; the rate
// limiter is what keeps sequential ingestion under the provider's
// request-rate ceiling.
type GeminiClient struct {
	client     *genai.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
	embedModel string
}

func NewGeminiClient(ctx context.Context, cfg *config.Config) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		return nil, err
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "GeminiAPI",
		MaxRequests: 5,
		Interval:    10 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state change", "name", name, "from", from.String(), "to", to.String())
		},
	})

	interval := time.Duration(cfg.EmbedMinInterval) * time.Second
	if interval <= 0 {
		interval = time.Second
	}

	return &GeminiClient{
		client:     client,
		limiter:    rate.NewLimiter(rate.Every(interval), 1),
		breaker:    breaker,
		embedModel: cfg.GeminiEmbedModel,
	}, nil
}

// EmbedText converts text into a fixed-dimension vector. The call blocks
// on the shared limiter before going out.
func (gc *GeminiClient) EmbedText(ctx context.Context, text string, task EmbedTask) ([]float32, error) {
	tracer := otel.Tracer("gemini-client")
	ctx, span := tracer.Start(ctx, "gemini.embed_content")
	defer span.End()

	span.SetAttributes(
		attribute.String("gemini.model", gc.embedModel),
		attribute.Int("gemini.text_chars", len(text)),
	)

	if err := gc.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	model := gc.client.EmbeddingModel(gc.embedModel)
	model.TaskType = taskType(task)

	resp, err := model.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		span.SetAttributes(attribute.Bool("gemini.error", true))
		return nil, err
	}
	if resp.Embedding == nil || len(resp.Embedding.Values) == 0 {
		return nil, errors.New("no embedding returned")
	}

	return resp.Embedding.Values, nil
}

// Generate produces an answer from the named model. Calls run through the
// circuit breaker so a failing model stops being hammered.
func (gc *GeminiClient) Generate(ctx context.Context, modelName, prompt string) (string, error) {
	tracer := otel.Tracer("gemini-client")
	ctx, span := tracer.Start(ctx, "gemini.generate_content")
	defer span.End()

	span.SetAttributes(
		attribute.String("gemini.model", modelName),
		attribute.Int("gemini.prompt_chars", len(prompt)),
	)

	if err := gc.limiter.Wait(ctx); err != nil {
		return "", err
	}

	result, err := gc.breaker.Execute(func() (interface{}, error) {
		model := gc.client.GenerativeModel(modelName)
		model.SetTemperature(0.7)
		model.SetMaxOutputTokens(2048)

		return model.GenerateContent(ctx, genai.Text(prompt))
	})
	if err != nil {
		span.SetAttributes(attribute.Bool("gemini.error", true))
		span.SetAttributes(attribute.String("gemini.error_message", err.Error()))
		return "", err
	}

	text := responseText(result.(*genai.GenerateContentResponse))
	if text == "" {
		return "", fmt.Errorf("model %s returned no text", modelName)
	}

	span.SetAttributes(attribute.Int("gemini.response_chars", len(text)))
	return text, nil
}

func taskType(task EmbedTask) genai.TaskType {
	if task == TaskQuery {
		return genai.TaskTypeRetrievalQuery
	}
	return genai.TaskTypeRetrievalDocument
}

// responseText concatenates the text parts of all candidates.
func responseText(resp *genai.GenerateContentResponse) string {
	out := ""
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				out += string(text)
			}
		}
	}
	return out
}

// Close the underlying SDK client.
func (gc *GeminiClient) Close() error {
	if gc.client != nil {
		return gc.client.Close()
	}
	return nil
}
