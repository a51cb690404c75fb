package pinecone

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"manova/internal/platform/logger"
)

// ErrIndexNotFound is returned when the configured index host rejects the
// request with a 404. Callers surface this distinctly from generic failures.
var ErrIndexNotFound = errors.New("pinecone index not found")

// Client is the data-plane interface to a Pinecone-style vector index.
type Client interface {
	Upsert(ctx context.Context, req UpsertRequest) (*UpsertResponse, error)
	Query(ctx context.Context, req QueryRequest) (*QueryResponse, error)
	ListIDs(ctx context.Context, namespace, prefix string, limit int) ([]string, error)
	DeleteIDs(ctx context.Context, namespace string, ids []string) error
}

// Config holds connection settings for the index data plane.
type Config struct {
	APIKey     string
	APIVersion string
	IndexHost  string
	Timeout    time.Duration
}

type client struct {
	log  *logger.Logger
	cfg  Config
	http *http.Client
}

// New creates a data-plane client.
func New(log *logger.Logger, cfg Config) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("missing Pinecone API key")
	}
	if strings.TrimSpace(cfg.IndexHost) == "" {
		return nil, fmt.Errorf("missing Pinecone index host")
	}
	if strings.TrimSpace(cfg.APIVersion) == "" {
		cfg.APIVersion = "2025-01"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &client{
		log:  log.With("client", "pinecone"),
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// Vector is one stored embedding with its metadata.
type Vector struct {
	ID       string         `json:"id"`
	Values   []float32      `json:"values"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type UpsertRequest struct {
	Vectors   []Vector `json:"vectors"`
	Namespace string   `json:"namespace,omitempty"`
}

type UpsertResponse struct {
	UpsertedCount int64 `json:"upsertedCount"`
}

func (c *client) Upsert(ctx context.Context, req UpsertRequest) (*UpsertResponse, error) {
	if len(req.Vectors) == 0 {
		return &UpsertResponse{}, nil
	}
	return doJSON[UpsertResponse](c, ctx, "POST", c.baseURL()+"/vectors/upsert", req)
}

type QueryRequest struct {
	Namespace       string         `json:"namespace,omitempty"`
	Vector          []float32      `json:"vector"`
	TopK            int            `json:"topK"`
	Filter          map[string]any `json:"filter,omitempty"`
	IncludeValues   bool           `json:"includeValues,omitempty"`
	IncludeMetadata bool           `json:"includeMetadata,omitempty"`
}

type QueryMatch struct {
	ID       string         `json:"id"`
	Score    float64        `json:"score"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type QueryResponse struct {
	Matches []QueryMatch `json:"matches"`
}

func (c *client) Query(ctx context.Context, req QueryRequest) (*QueryResponse, error) {
	if len(req.Vector) == 0 {
		return nil, fmt.Errorf("query vector required")
	}
	if req.TopK <= 0 {
		req.TopK = 10
	}
	return doJSON[QueryResponse](c, ctx, "POST", c.baseURL()+"/query", req)
}

type listResponse struct {
	Vectors []struct {
		ID string `json:"id"`
	} `json:"vectors"`
	Pagination struct {
		Next string `json:"next"`
	} `json:"pagination"`
}

// ListIDs pages through vector ids in a namespace matching the given prefix.
func (c *client) ListIDs(ctx context.Context, namespace, prefix string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 100
	}
	var ids []string
	token := ""
	for {
		q := url.Values{}
		q.Set("limit", strconv.Itoa(limit))
		if namespace != "" {
			q.Set("namespace", namespace)
		}
		if prefix != "" {
			q.Set("prefix", prefix)
		}
		if token != "" {
			q.Set("paginationToken", token)
		}

		out, err := doJSON[listResponse](c, ctx, "GET", c.baseURL()+"/vectors/list?"+q.Encode(), nil)
		if err != nil {
			return nil, err
		}
		for _, v := range out.Vectors {
			if v.ID != "" {
				ids = append(ids, v.ID)
			}
		}
		token = out.Pagination.Next
		if token == "" || len(out.Vectors) == 0 {
			return ids, nil
		}
	}
}

type deleteRequest struct {
	IDs       []string `json:"ids"`
	Namespace string   `json:"namespace,omitempty"`
}

func (c *client) DeleteIDs(ctx context.Context, namespace string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := doJSON[struct{}](c, ctx, "POST", c.baseURL()+"/vectors/delete", deleteRequest{
		IDs:       ids,
		Namespace: namespace,
	})
	return err
}

func (c *client) baseURL() string {
	host := strings.TrimRight(c.cfg.IndexHost, "/")
	if !strings.HasPrefix(host, "https://") && !strings.HasPrefix(host, "http://") {
		host = "https://" + host
	}
	return host
}

func doJSON[T any](c *client, ctx context.Context, method, u string, body any) (*T, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, u, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Api-Key", c.cfg.APIKey)
	req.Header.Set("X-Pinecone-Api-Version", c.cfg.APIVersion)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrIndexNotFound, strings.TrimSpace(string(raw)))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("pinecone http %d: %s", resp.StatusCode, string(raw))
	}

	var out T
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil, fmt.Errorf("pinecone response decode: %w", err)
		}
	}
	return &out, nil
}
