// Package pinecone is a minimal REST client to a Pinecone index data
// plane. The index (dimension, similarity metric) is created out of band;
// this client only upserts, queries and clears it.
package pinecone

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"rag-demo-service/internal/vectorstore"
)

type Store struct {
	host   string
	apiKey string
	client *http.Client
}

type Config struct {
	// Host is the index data plane URL, e.g.
	// https://rag-app-abc123.svc.us-east-1.pinecone.io
	Host    string
	APIKey  string
	Timeout time.Duration
}

func NewStore(cfg Config) *Store {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Store{
		host:   cfg.Host,
		apiKey: cfg.APIKey,
		client: &http.Client{Timeout: timeout},
	}
}

func (s *Store) Upsert(ctx context.Context, records []vectorstore.Record) error {
	if len(records) == 0 {
		return nil
	}
	body := map[string]any{"vectors": records}
	return s.postJSON(ctx, s.host+"/vectors/upsert", body, nil)
}

func (s *Store) Query(ctx context.Context, vector []float32, topK int) ([]vectorstore.Match, error) {
	if topK <= 0 {
		topK = 10
	}
	body := map[string]any{
		"vector":          vector,
		"topK":            topK,
		"includeMetadata": true,
	}
	var resp struct {
		Matches []vectorstore.Match `json:"matches"`
	}
	if err := s.postJSON(ctx, s.host+"/query", body, &resp); err != nil {
		return nil, err
	}
	return resp.Matches, nil
}

func (s *Store) DeleteAll(ctx context.Context) error {
	body := map[string]any{"deleteAll": true}
	err := s.postJSON(ctx, s.host+"/vectors/delete", body, nil)
	// Pinecone answers 404 when the namespace holds nothing; an empty
	// collection is already the desired state.
	var httpErr *statusError
	if errors.As(err, &httpErr) && httpErr.code == http.StatusNotFound {
		return nil
	}
	return err
}

type statusError struct {
	code   int
	status string
	url    string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("pinecone POST %s failed: %s", e.url, e.status)
}

func (s *Store) postJSON(ctx context.Context, url string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Api-Key", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return &statusError{code: resp.StatusCode, status: resp.Status, url: url}
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
