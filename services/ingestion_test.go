package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"rag-demo-service/internal/ai"
	"rag-demo-service/internal/config"
	"rag-demo-service/internal/vectorstore"
)

var errRateLimited = errors.New("googleapi: Error 429: Resource has been exhausted")

// scriptedEmbedder returns the scripted errors in order, one per call,
// then succeeds forever.
type scriptedEmbedder struct {
	errs  []error
	calls int
}

func (e *scriptedEmbedder) EmbedText(ctx context.Context, text string, task ai.EmbedTask) ([]float32, error) {
	e.calls++
	if len(e.errs) > 0 {
		err := e.errs[0]
		e.errs = e.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	return []float32{float32(len(text))}, nil
}

type recordingStore struct {
	batches   [][]vectorstore.Record
	upsertErr error
	matches   []vectorstore.Match
}

func (s *recordingStore) Upsert(ctx context.Context, records []vectorstore.Record) error {
	if s.upsertErr != nil {
		return s.upsertErr
	}
	batch := make([]vectorstore.Record, len(records))
	copy(batch, records)
	s.batches = append(s.batches, batch)
	return nil
}

func (s *recordingStore) Query(ctx context.Context, vector []float32, topK int) ([]vectorstore.Match, error) {
	return s.matches, nil
}

func (s *recordingStore) DeleteAll(ctx context.Context) error {
	s.batches = nil
	return nil
}

func ingestConfig() *config.Config {
	return &config.Config{
		EmbedMaxRetries:   3,
		EmbedRetryBackoff: 0,
		UpsertBatchSize:   2,
	}
}

func TestIngest_BatchesUpserts(t *testing.T) {
	embedder := &scriptedEmbedder{}
	store := &recordingStore{}
	svc := NewIngestionService(NewSplitter(10, 2), embedder, store, ingestConfig())

	// 26 chars with chunk size 10 / overlap 2 (step 8) produces 3 chunks.
	result, err := svc.Ingest(context.Background(), strings.Repeat("abcdefghijklm", 2))
	if err != nil {
		t.Fatalf("ingest error: %v", err)
	}

	if result.Chunks != 3 {
		t.Fatalf("expected 3 chunks, got %d", result.Chunks)
	}
	if result.Indexed != 3 {
		t.Fatalf("expected 3 indexed, got %d", result.Indexed)
	}
	if len(result.Failures) != 0 {
		t.Fatalf("unexpected failures: %v", result.Failures)
	}

	// Batch size 2: one full batch plus the remainder.
	if len(store.batches) != 2 {
		t.Fatalf("expected 2 upsert batches, got %d", len(store.batches))
	}
	for _, batch := range store.batches {
		if len(batch) > 2 {
			t.Fatalf("batch exceeds batch size: %d", len(batch))
		}
	}

	seen := map[string]bool{}
	for _, batch := range store.batches {
		for _, rec := range batch {
			if rec.ID == "" || seen[rec.ID] {
				t.Fatalf("record id not unique: %q", rec.ID)
			}
			seen[rec.ID] = true
			if rec.Metadata.Source != "user-upload" {
				t.Fatalf("unexpected source tag %q", rec.Metadata.Source)
			}
			if rec.Metadata.Text == "" {
				t.Fatal("record missing chunk text")
			}
		}
	}
}

func TestIngest_RetriesRateLimitedEmbedding(t *testing.T) {
	embedder := &scriptedEmbedder{errs: []error{errRateLimited, errRateLimited}}
	store := &recordingStore{}
	svc := NewIngestionService(NewSplitter(1000, 100), embedder, store, ingestConfig())

	result, err := svc.Ingest(context.Background(), "a small document")
	if err != nil {
		t.Fatalf("ingest error: %v", err)
	}

	if embedder.calls != 3 {
		t.Fatalf("expected 3 embed attempts, got %d", embedder.calls)
	}
	if result.Indexed != 1 || len(result.Failures) != 0 {
		t.Fatalf("expected recovery after retries, got indexed=%d failures=%v", result.Indexed, result.Failures)
	}
}

func TestIngest_DropsChunkOnPermanentError(t *testing.T) {
	// Second chunk fails with a non-retryable error.
	embedder := &scriptedEmbedder{errs: []error{nil, errors.New("invalid argument")}}
	store := &recordingStore{}
	svc := NewIngestionService(NewSplitter(10, 2), embedder, store, ingestConfig())

	result, err := svc.Ingest(context.Background(), strings.Repeat("z", 26))
	if err != nil {
		t.Fatalf("ingest error: %v", err)
	}

	if result.Chunks != 3 {
		t.Fatalf("expected 3 chunks attempted, got %d", result.Chunks)
	}
	if result.Indexed != 2 {
		t.Fatalf("expected 2 indexed, got %d", result.Indexed)
	}
	if len(result.Failures) != 1 {
		t.Fatalf("expected 1 failure, got %d", len(result.Failures))
	}
	if result.Failures[0].Chunk != 1 {
		t.Fatalf("expected chunk 1 to fail, got %d", result.Failures[0].Chunk)
	}
	if !strings.Contains(result.Failures[0].Reason, "invalid argument") {
		t.Fatalf("failure reason missing cause: %q", result.Failures[0].Reason)
	}
	// Permanent errors must not burn retries.
	if embedder.calls != 3 {
		t.Fatalf("expected 3 embed calls, got %d", embedder.calls)
	}
}

func TestIngest_DropsChunkAfterRetryExhaustion(t *testing.T) {
	embedder := &scriptedEmbedder{errs: []error{errRateLimited, errRateLimited, errRateLimited}}
	store := &recordingStore{}
	svc := NewIngestionService(NewSplitter(1000, 100), embedder, store, ingestConfig())

	result, err := svc.Ingest(context.Background(), "doomed chunk")
	if err != nil {
		t.Fatalf("ingest error: %v", err)
	}

	if result.Indexed != 0 {
		t.Fatalf("expected nothing indexed, got %d", result.Indexed)
	}
	if len(result.Failures) != 1 {
		t.Fatalf("expected 1 failure, got %d", len(result.Failures))
	}
	if len(store.batches) != 0 {
		t.Fatalf("expected no upserts, got %d batches", len(store.batches))
	}
}

func TestIngest_UpsertErrorPropagates(t *testing.T) {
	embedder := &scriptedEmbedder{}
	store := &recordingStore{upsertErr: errors.New("index unavailable")}
	svc := NewIngestionService(NewSplitter(1000, 100), embedder, store, ingestConfig())

	if _, err := svc.Ingest(context.Background(), "some text"); err == nil {
		t.Fatal("expected upsert error to propagate")
	}
}
