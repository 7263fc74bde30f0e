package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"rag-demo-service/internal/ai"
	"rag-demo-service/internal/config"
	"rag-demo-service/internal/logger"
	"rag-demo-service/internal/rerank"
	"rag-demo-service/internal/vectorstore"
	"rag-demo-service/models"
)

// Generator produces text from a prompt with the named model.
type Generator interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
}

// NoInfoAnswer is returned when retrieval finds nothing; the reranker
// and generator are not consulted in that case.
const NoInfoAnswer = "I don't have any information on that topic in my knowledge base."

// QueryService answers questions over the indexed corpus: embed the
// question, retrieve top-k, rerank to top-n, then generate a grounded
// answer with citations.
type QueryService struct {
	embedder  Embedder
	store     vectorstore.Store
	reranker  rerank.Reranker
	generator Generator
	// models is the ordered generation fallback list; later entries are
	// tried only when the previous one fails with a rate-limit or quota
	// error.
	models []string
	topK   int
	topN   int
}

func NewQueryService(embedder Embedder, store vectorstore.Store, reranker rerank.Reranker, generator Generator, cfg *config.Config) *QueryService {
	topK := cfg.TopK
	if topK < 1 {
		topK = 10
	}
	topN := cfg.RerankTopN
	if topN < 1 {
		topN = 3
	}
	return &QueryService{
		embedder:  embedder,
		store:     store,
		reranker:  reranker,
		generator: generator,
		models:    []string{cfg.GeminiModel, cfg.GeminiFallbackModel},
		topK:      topK,
		topN:      topN,
	}
}

// Answer runs the query pipeline end to end and reports elapsed time.
func (s *QueryService) Answer(ctx context.Context, question string) (*models.ChatResponse, error) {
	start := time.Now()

	vector, err := s.embedder.EmbedText(ctx, question, ai.TaskQuery)
	if err != nil {
		return nil, err
	}

	matches, err := s.store.Query(ctx, vector, s.topK)
	if err != nil {
		return nil, err
	}

	if len(matches) == 0 {
		return &models.ChatResponse{
			Answer:    NoInfoAnswer,
			Citations: []models.Citation{},
			TimeTaken: elapsedSeconds(start),
		}, nil
	}

	docs := make([]string, len(matches))
	for i, match := range matches {
		docs[i] = match.Metadata.Text
	}

	ranked, err := s.reranker.Rerank(ctx, question, docs, s.topN)
	if err != nil {
		return nil, err
	}

	contextBlock, citations := buildContext(docs, ranked)
	prompt := buildPrompt(contextBlock, question)

	answer, err := s.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return &models.ChatResponse{
		Answer:    answer,
		Citations: citations,
		TimeTaken: elapsedSeconds(start),
	}, nil
}

// generate walks the ordered model list. Rate-limit and quota errors
// move on to the next model; any other error propagates immediately.
func (s *QueryService) generate(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for i, model := range s.models {
		answer, err := s.generator.Generate(ctx, model, prompt)
		if err == nil {
			return answer, nil
		}
		if !ai.IsRateLimited(err) {
			return "", err
		}
		lastErr = err
		if i < len(s.models)-1 {
			logger.Warn("Generation rate limited, falling back", "model", model, "next", s.models[i+1])
		}
	}
	return "", lastErr
}

// buildContext labels each kept document with a 1-based source index and
// builds the parallel citation list carrying the same numbering.
func buildContext(docs []string, ranked []rerank.Result) (string, []models.Citation) {
	var block strings.Builder
	citations := make([]models.Citation, 0, len(ranked))
	for i, res := range ranked {
		text := docs[res.Index]
		fmt.Fprintf(&block, "Source [%d]: %s\n\n", i+1, text)
		citations = append(citations, models.Citation{ID: i + 1, Text: text})
	}
	return block.String(), citations
}

// buildPrompt uses the strict grounding policy: the model must answer
// from the context alone and say so when the context does not contain
// the answer.
func buildPrompt(contextBlock, question string) string {
	return fmt.Sprintf(`You are a helpful assistant. Answer the user's question using ONLY the context below.
Cite the sources you used as [1], [2], etc.
If the answer is not in the context, state that you do not know.

Context:
%s
Question: %s`, contextBlock, question)
}

func elapsedSeconds(start time.Time) float64 {
	return math.Round(time.Since(start).Seconds()*100) / 100
}
