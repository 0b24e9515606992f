package synonym

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds one embedding request.
const DefaultTimeout = 10 * time.Second

// EmbedderConfig configures an Embedder.
type EmbedderConfig struct {
	Endpoint string
	Timeout  time.Duration
}

// Embedder calls a text-embeddings-inference style HTTP service.
type Embedder struct {
	client   *http.Client
	endpoint string
	timeout  time.Duration
}

func NewEmbedder(cfg EmbedderConfig) *Embedder {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	// Client.Timeout stays unset so per-request contexts decide.
	return &Embedder{
		client:   &http.Client{},
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		timeout:  timeout,
	}
}

type embedRequest struct {
	Inputs   []string `json:"inputs"`
	Truncate bool     `json:"truncate"`
}

// Embed returns one vector per text.
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	body, err := json.Marshal(embedRequest{Inputs: texts, Truncate: true})
	if err != nil {
		return nil, fmt.Errorf("marshal embed request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint+"/embed", bytes.NewReader(body))
	if err != nil {
		return nil, unavailable("embedder", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, unavailable("embedder", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, unavailable("embedder", fmt.Errorf("status %d: %s", resp.StatusCode, bytes.TrimSpace(msg)))
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, unavailable("embedder", err)
	}
	vecs, err := decodeEmbeddings(raw)
	if err != nil {
		return nil, unavailable("embedder", err)
	}
	if len(vecs) != len(texts) {
		return nil, unavailable("embedder", fmt.Errorf("got %d vectors for %d inputs", len(vecs), len(texts)))
	}
	return vecs, nil
}

// decodeEmbeddings accepts a bare matrix or an object with an "embeddings" field.
func decodeEmbeddings(raw []byte) ([][]float32, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, errors.New("empty response")
	}
	if raw[0] == '[' {
		var vecs [][]float32
		if err := json.Unmarshal(raw, &vecs); err != nil {
			return nil, fmt.Errorf("decode embeddings: %w", err)
		}
		return vecs, nil
	}
	var wrapped struct {
		Embeddings [][]float32 `json:"embeddings"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("decode embeddings: %w", err)
	}
	if wrapped.Embeddings == nil {
		return nil, errors.New("response has no embeddings")
	}
	return wrapped.Embeddings, nil
}

// Health checks the service's /health endpoint.
func (e *Embedder) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.endpoint+"/health", nil)
	if err != nil {
		return unavailable("embedder", err)
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return unavailable("embedder", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return unavailable("embedder", fmt.Errorf("health status %d", resp.StatusCode))
	}
	return nil
}
