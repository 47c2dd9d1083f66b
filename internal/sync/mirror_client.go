package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// MaxBatchOps is the remote store's per-commit ceiling on batched writes.
const MaxBatchOps = 400

// Document is the wire shape of one mirrored record.
type Document struct {
	Key      string          `json:"key"`
	Data     json.RawMessage `json:"data"`
	Revision string          `json:"revision,omitempty"`
	SyncedAt string          `json:"synced_at,omitempty"`
}

// MirrorClient talks to the remote document store. The remote side is an
// opaque collaborator: all we rely on is merge-semantics writes, paged
// listing, and a bulk endpoint.
type MirrorClient interface {
	// Merge writes one document; fields overwrite, the document is created
	// when absent.
	Merge(ctx context.Context, collection, key string, data []byte) error
	// FetchAll streams every document of a collection through fn, following
	// the server's pagination cursor.
	FetchAll(ctx context.Context, collection string, fn func(Document) error) error
	// BulkWrite commits up to MaxBatchOps documents in one call.
	BulkWrite(ctx context.Context, collection string, docs []Document) error
}

type httpMirrorClient struct {
	baseURL   string
	apiKey    string
	apiKeyHdr string
	http      *http.Client
	limiter   *rate.Limiter
}

func NewMirrorClient() (MirrorClient, error) {
	baseURL := strings.TrimSpace(os.Getenv("MIRROR_API_BASE_URL"))
	if baseURL == "" {
		return nil, errors.New("MIRROR_API_BASE_URL is required")
	}
	apiKey := strings.TrimSpace(os.Getenv("MIRROR_API_KEY"))
	if apiKey == "" {
		return nil, errors.New("MIRROR_API_KEY is required")
	}
	apiKeyHeader := strings.TrimSpace(os.Getenv("MIRROR_API_KEY_HEADER"))
	if apiKeyHeader == "" {
		apiKeyHeader = "X-API-Key"
	}

	ratePerMin := 120
	interval := time.Minute / time.Duration(ratePerMin)

	return &httpMirrorClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		apiKey:    apiKey,
		apiKeyHdr: apiKeyHeader,
		http:      &http.Client{Timeout: 30 * time.Second},
		limiter:   rate.NewLimiter(rate.Every(interval), 1),
	}, nil
}

type mirrorListResponse struct {
	Documents  []Document `json:"documents"`
	NextCursor string     `json:"next_cursor"`
	HasMore    *bool      `json:"has_more"`
}

func (c *httpMirrorClient) Merge(ctx context.Context, collection, key string, data []byte) error {
	doc := Document{
		Key:      key,
		Data:     data,
		SyncedAt: time.Now().UTC().Format(time.RFC3339),
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/v1/collections/%s/documents/%s?merge=true",
		c.baseURL, url.PathEscape(collection), url.PathEscape(key))
	return c.send(ctx, http.MethodPut, endpoint, body, nil)
}

func (c *httpMirrorClient) FetchAll(ctx context.Context, collection string, fn func(Document) error) error {
	cursor := ""
	for {
		params := url.Values{}
		params.Set("limit", "200")
		if cursor != "" {
			params.Set("cursor", cursor)
		}

		endpoint := fmt.Sprintf("%s/v1/collections/%s/documents?%s",
			c.baseURL, url.PathEscape(collection), params.Encode())

		var resp mirrorListResponse
		if err := c.send(ctx, http.MethodGet, endpoint, nil, &resp); err != nil {
			return err
		}

		for _, doc := range resp.Documents {
			if err := fn(doc); err != nil {
				return err
			}
		}

		if resp.NextCursor == "" || (resp.HasMore != nil && !*resp.HasMore) {
			return nil
		}
		cursor = resp.NextCursor
	}
}

func (c *httpMirrorClient) BulkWrite(ctx context.Context, collection string, docs []Document) error {
	if len(docs) > MaxBatchOps {
		return fmt.Errorf("bulk write exceeds %d operations: %d", MaxBatchOps, len(docs))
	}

	body, err := json.Marshal(map[string]any{"documents": docs, "merge": true})
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/v1/collections/%s/documents:bulk",
		c.baseURL, url.PathEscape(collection))
	return c.send(ctx, http.MethodPost, endpoint, body, nil)
}

func (c *httpMirrorClient) send(ctx context.Context, method, endpoint string, body []byte, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	req.Header.Set(c.apiKeyHdr, c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("mirror %s %s: status %d: %s", method, endpoint, resp.StatusCode, strings.TrimSpace(string(data)))
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
