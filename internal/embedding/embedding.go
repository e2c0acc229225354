package embedding

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"ctdoc/internal/config"
)

// Embedder turns text into a fixed-dimension vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
	Dimensions() int
}

// New picks the Vertex client when service-account credentials are
// configured and readable, otherwise the deterministic local fallback so
// the pipeline keeps working without cloud access.
func New(cfg config.Config) Embedder {
	if cfg.EmbedCredentialsPath != "" {
		client, err := NewVertexClient(cfg)
		if err == nil {
			return client
		}
		fmt.Printf("embedding: vertex client unavailable, using local fallback: %v\n", err)
	}
	return &LocalEmbedder{Dims: cfg.EmbedDimensions}
}

// VertexClient calls a text-embedding model through the Vertex AI
// predict endpoint.
type VertexClient struct {
	endpoint    string
	tokenSource oauth2.TokenSource
	httpClient  *http.Client
	dims        int
}

func NewVertexClient(cfg config.Config) (*VertexClient, error) {
	if err := cfg.Require("EMBED_PROJECT_ID", cfg.EmbedProjectID); err != nil {
		return nil, err
	}

	blob, err := os.ReadFile(cfg.EmbedCredentialsPath)
	if err != nil {
		return nil, fmt.Errorf("read embedding credentials: %w", err)
	}
	creds, err := google.CredentialsFromJSON(context.Background(), blob, "https://www.googleapis.com/auth/cloud-platform")
	if err != nil {
		return nil, fmt.Errorf("parse embedding credentials: %w", err)
	}

	endpoint := fmt.Sprintf(
		"https://%s-aiplatform.googleapis.com/v1/projects/%s/locations/%s/publishers/google/models/%s:predict",
		cfg.EmbedLocation, cfg.EmbedProjectID, cfg.EmbedLocation, cfg.EmbedModel,
	)

	return &VertexClient{
		endpoint:    endpoint,
		tokenSource: creds.TokenSource,
		httpClient:  &http.Client{Timeout: time.Duration(cfg.EmbedTimeoutMs) * time.Millisecond},
		dims:        cfg.EmbedDimensions,
	}, nil
}

func (c *VertexClient) Dimensions() int { return c.dims }

type predictRequest struct {
	Instances []predictInstance `json:"instances"`
}

type predictInstance struct {
	Content string `json:"content"`
}

type predictResponse struct {
	Predictions []struct {
		Embeddings struct {
			Values []float64 `json:"values"`
		} `json:"embeddings"`
	} `json:"predictions"`
}

func (c *VertexClient) Embed(ctx context.Context, text string) ([]float64, error) {
	token, err := c.tokenSource.Token()
	if err != nil {
		return nil, fmt.Errorf("embedding token: %w", err)
	}

	body, err := json.Marshal(predictRequest{Instances: []predictInstance{{Content: text}}})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	token.SetAuthHeader(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("embedding predict status %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed predictResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, err
	}
	if len(parsed.Predictions) == 0 {
		return nil, fmt.Errorf("embedding predict returned no predictions")
	}
	return parsed.Predictions[0].Embeddings.Values, nil
}

// LocalEmbedder produces a deterministic hash-derived vector. Not a real
// embedding; it keeps indexing and tests runnable offline.
type LocalEmbedder struct {
	Dims int
}

func (e *LocalEmbedder) Dimensions() int {
	if e.Dims <= 0 {
		return 768
	}
	return e.Dims
}

func (e *LocalEmbedder) Embed(_ context.Context, text string) ([]float64, error) {
	sum := md5.Sum([]byte(text))
	dims := e.Dimensions()
	out := make([]float64, dims)
	for i := 0; i < dims; i++ {
		out[i] = float64(sum[i%len(sum)]) / 255.0
	}
	return out, nil
}
