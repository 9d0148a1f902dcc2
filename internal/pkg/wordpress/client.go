package wordpress

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

	"github.com/coursebridge/coursebridge/internal/pkg/env"
)

const (
	defaultTaxonomy = "course_category"
	defaultPostType = "course"

	pricingSyncPath = "/wp-json/coursebridge/v1/pricing/sync"
)

// APIError is a non-2xx response from the WordPress REST API. The response
// body is kept as diagnostic text.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("wordpress api error: status=%d body=%s", e.StatusCode, e.Body)
}

// IsNotFound reports whether the error is a 404-shaped API error, which the
// sync drivers treat as "remote entity gone" and self-heal from.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Client talks to a WordPress site's REST API using HTTP Basic auth with an
// application password. Calls are blocking with the configured client
// timeout; there is no retry.
type Client struct {
	BaseURL     string
	Username    string
	AppPassword string
	Taxonomy    string
	PostType    string

	HTTPClient *http.Client
}

// NewClientFromEnv builds a client from WP_* environment variables.
func NewClientFromEnv() *Client {
	return &Client{
		BaseURL:     strings.TrimRight(env.GetEnv("WP_BASE_URL", ""), "/"),
		Username:    strings.TrimSpace(env.GetEnv("WP_USERNAME", "")),
		AppPassword: strings.TrimSpace(env.GetEnv("WP_APP_PASSWORD", "")),
		Taxonomy:    strings.TrimSpace(env.GetEnv("WP_TAXONOMY", defaultTaxonomy)),
		PostType:    strings.TrimSpace(env.GetEnv("WP_POST_TYPE", defaultPostType)),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// CreateTerm creates a taxonomy term for a category.
func (c *Client) CreateTerm(ctx context.Context, payload TermPayload) (*Term, error) {
	body, err := c.doJSON(ctx, http.MethodPost, c.termPath(0), payload)
	if err != nil {
		return nil, err
	}
	return decodeTerm(body)
}

// UpdateTerm updates an existing taxonomy term.
func (c *Client) UpdateTerm(ctx context.Context, id int64, payload TermPayload) (*Term, error) {
	body, err := c.doJSON(ctx, http.MethodPost, c.termPath(id), payload)
	if err != nil {
		return nil, err
	}
	return decodeTerm(body)
}

// GetTerm fetches a taxonomy term by remote ID.
func (c *Client) GetTerm(ctx context.Context, id int64) (*Term, error) {
	body, err := c.doJSON(ctx, http.MethodGet, c.termPath(id), nil)
	if err != nil {
		return nil, err
	}
	return decodeTerm(body)
}

// DeleteTerm removes a taxonomy term. WordPress requires force=true for
// terms since they have no trash state.
func (c *Client) DeleteTerm(ctx context.Context, id int64) error {
	_, err := c.doJSON(ctx, http.MethodDelete, c.termPath(id)+"?force=true", nil)
	return err
}

// CreatePost creates a course post.
func (c *Client) CreatePost(ctx context.Context, payload PostPayload) (*Post, error) {
	body, err := c.doJSON(ctx, http.MethodPost, c.postPath(0), payload)
	if err != nil {
		return nil, err
	}
	return decodePost(body)
}

// UpdatePost updates an existing course post.
func (c *Client) UpdatePost(ctx context.Context, id int64, payload PostPayload) (*Post, error) {
	body, err := c.doJSON(ctx, http.MethodPost, c.postPath(id), payload)
	if err != nil {
		return nil, err
	}
	return decodePost(body)
}

// GetPost fetches a course post by remote ID.
func (c *Client) GetPost(ctx context.Context, id int64) (*Post, error) {
	body, err := c.doJSON(ctx, http.MethodGet, c.postPath(id), nil)
	if err != nil {
		return nil, err
	}
	return decodePost(body)
}

// SyncPricing pushes bulk price metadata to the custom pricing endpoint.
func (c *Client) SyncPricing(ctx context.Context, payload PricingPayload) error {
	_, err := c.doJSON(ctx, http.MethodPost, pricingSyncPath, payload)
	return err
}

func (c *Client) termPath(id int64) string {
	base := "/wp-json/wp/v2/" + c.taxonomy()
	if id > 0 {
		return fmt.Sprintf("%s/%d", base, id)
	}
	return base
}

func (c *Client) postPath(id int64) string {
	base := "/wp-json/wp/v2/" + c.postType()
	if id > 0 {
		return fmt.Sprintf("%s/%d", base, id)
	}
	return base
}

func (c *Client) taxonomy() string {
	if c.Taxonomy == "" {
		return defaultTaxonomy
	}
	return c.Taxonomy
}

func (c *Client) postType() string {
	if c.PostType == "" {
		return defaultPostType
	}
	return c.PostType
}

// doJSON performs one request and returns the raw response body. Non-2xx
// responses come back as *APIError with the body as diagnostic text.
func (c *Client) doJSON(ctx context.Context, method, path string, payload interface{}) ([]byte, error) {
	if strings.TrimSpace(c.BaseURL) == "" {
		return nil, errors.New("WP_BASE_URL is not configured")
	}
	if strings.TrimSpace(c.Username) == "" || strings.TrimSpace(c.AppPassword) == "" {
		return nil, errors.New("WP_USERNAME/WP_APP_PASSWORD are not configured")
	}

	var reqBody io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.Username, c.AppPassword)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient == nil {
		return http.DefaultClient
	}
	return c.HTTPClient
}

func decodeTerm(body []byte) (*Term, error) {
	var term Term
	if err := json.Unmarshal(body, &term); err != nil {
		return nil, fmt.Errorf("decode term response: %w", err)
	}
	if term.ID == 0 {
		return nil, errors.New("term response missing id")
	}
	return &term, nil
}

func decodePost(body []byte) (*Post, error) {
	var post Post
	if err := json.Unmarshal(body, &post); err != nil {
		return nil, fmt.Errorf("decode post response: %w", err)
	}
	if post.ID == 0 {
		return nil, errors.New("post response missing id")
	}
	return &post, nil
}
