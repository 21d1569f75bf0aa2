package api

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

	"github.com/rs/zerolog"

	"github.com/manolydidier/bibliotheque-console/pkg/models"
)

// Client talks to the platform's REST API. The session token is injected
// into every request; everything else comes from the caller.
type Client struct {
	baseURL  string
	apiToken string
	client   *http.Client
	log      zerolog.Logger
}

// APIError carries the HTTP status and the server's message field, so
// notifications can show what the server actually said.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("API error (status %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("API error (status %d)", e.Status)
}

// NotFound reports whether err is an APIError with status 404.
func NotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// ArticleDraft is the create payload used by the feed importer.
type ArticleDraft struct {
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	Excerpt     string     `json:"excerpt,omitempty"`
	Status      string     `json:"status"`
	Tags        []string   `json:"tags,omitempty"`
	SourceURL   string     `json:"source_url,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

func NewClient(baseURL, apiToken string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiToken: apiToken,
		client:   &http.Client{Timeout: timeout},
		log:      log,
	}
}

// ListArticles runs the collection query and normalizes whatever shape the
// server answers with.
func (c *Client) ListArticles(ctx context.Context, q models.Query, includeFacets bool) (*models.Page, error) {
	params := Build(q, includeFacets)
	body, err := c.do(ctx, http.MethodGet, "/articles?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("querying articles: %w", err)
	}

	page, err := DecodePage(body, q.PerPage)
	if err != nil {
		return nil, fmt.Errorf("normalizing article response: %w", err)
	}
	c.log.Debug().Int("items", len(page.Items)).Int("page", page.Meta.CurrentPage).
		Int("last_page", page.Meta.LastPage).Msg("fetched article page")
	return page, nil
}

// SoftDeleteArticle moves an article to the trash.
func (c *Client) SoftDeleteArticle(ctx context.Context, id int64) error {
	if _, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/articles/%d", id), nil); err != nil {
		return fmt.Errorf("trashing article %d: %w", id, err)
	}
	return nil
}

// HardDeleteArticle permanently removes an article. Deployed servers expose
// the force-delete route in two shapes; when the primary answers 404 the
// fallback is tried before giving up.
func (c *Client) HardDeleteArticle(ctx context.Context, id int64) error {
	_, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/articles/%d/force", id), nil)
	if err == nil {
		return nil
	}
	if !NotFound(err) {
		return fmt.Errorf("deleting article %d: %w", id, err)
	}

	c.log.Debug().Int64("id", id).Msg("force-delete route missing, trying fallback")
	if _, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/articles/%d/force-delete", id), nil); err != nil {
		return fmt.Errorf("deleting article %d: %w", id, err)
	}
	return nil
}

// RestoreArticle brings a trashed article back.
func (c *Client) RestoreArticle(ctx context.Context, id int64) error {
	if _, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/articles/%d/restore", id), nil); err != nil {
		return fmt.Errorf("restoring article %d: %w", id, err)
	}
	return nil
}

// CreateArticle submits a new draft.
func (c *Client) CreateArticle(ctx context.Context, draft *ArticleDraft) (*models.Article, error) {
	body, err := c.do(ctx, http.MethodPost, "/articles", draft)
	if err != nil {
		return nil, fmt.Errorf("creating article: %w", err)
	}

	var created struct {
		Data *models.Article `json:"data"`
	}
	if err := json.Unmarshal(body, &created); err != nil || created.Data == nil {
		// Some deployments answer with the bare record.
		var article models.Article
		if err := json.Unmarshal(body, &article); err != nil {
			return nil, fmt.Errorf("decoding created article: %w", err)
		}
		return &article, nil
	}
	return created.Data, nil
}

// TestConnection verifies the token by fetching the current user.
func (c *Client) TestConnection(ctx context.Context) error {
	if _, err := c.do(ctx, http.MethodGet, "/me", nil); err != nil {
		return fmt.Errorf("testing API connection: %w", err)
	}
	return nil
}

// do issues one request and returns the response body, turning non-2xx
// answers into an APIError with the server message extracted.
func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiToken != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiToken))
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{Status: resp.StatusCode, Message: serverMessage(body)}
	}
	return body, nil
}

// serverMessage pulls the message field out of an error body, if there is one.
func serverMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}
