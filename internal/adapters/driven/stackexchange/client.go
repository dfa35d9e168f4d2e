package stackexchange

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/guttenberg/internal/core/domain"
	"github.com/custodia-labs/guttenberg/internal/core/ports/driven"
	"github.com/custodia-labs/guttenberg/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.PostLookupService = (*Client)(nil)

const (
	// DefaultBaseURL is the Stack Exchange API v2.3 root.
	DefaultBaseURL = "https://api.stackexchange.com/2.3"

	// DefaultSite is the API site parameter for Stack Overflow.
	DefaultSite = "stackoverflow"

	// DefaultFilter is the built-in filter with answer bodies. It carries
	// the HTML body only and is used when a custom filter cannot be created.
	DefaultFilter = "withbody"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// PageSize is the largest page the API serves.
	PageSize = 100

	// MaxPages bounds pagination of one batched lookup.
	MaxPages = 5

	// maxBodySize bounds how much of a response is read.
	maxBodySize = 16 << 20
)

// Config configures the API client.
type Config struct {
	// Key is the app key. Optional, but raises the daily quota.
	Key string
	// Site is the API site parameter, e.g. "stackoverflow".
	Site string
	// Filter is the API filter; it must include answer bodies. When empty
	// the client creates one adding body_markdown to DefaultFilter.
	Filter string
	// BaseURL overrides DefaultBaseURL.
	BaseURL string
	// HTTPClient overrides the default client.
	HTTPClient *http.Client
}

// Client is a PostLookupService over the Stack Exchange API.
type Client struct {
	http        *http.Client
	baseURL     string
	site        string
	filterMu    sync.Mutex
	filter      string
	key         string
	rateLimiter *RateLimiter
	log         logger.Scope
}

// NewClient creates a Stack Exchange API client.
func NewClient(cfg Config) *Client {
	c := &Client{
		http:        cfg.HTTPClient,
		baseURL:     cfg.BaseURL,
		site:        cfg.Site,
		filter:      cfg.Filter,
		key:         cfg.Key,
		rateLimiter: NewRateLimiter(),
		log:         logger.For("stackexchange"),
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: DefaultTimeout}
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.site == "" {
		c.site = DefaultSite
	}
	return c
}

// filterIncludes are the fields added to DefaultFilter. Title and tags
// on the answer spare the question lookup.
var filterIncludes = []string{"answer.body_markdown", "answer.title", "answer.tags"}

// answerFilter returns the configured filter, creating it on first use.
// A failed creation falls back to DefaultFilter for this request and is
// retried on the next one.
func (c *Client) answerFilter(ctx context.Context) string {
	c.filterMu.Lock()
	defer c.filterMu.Unlock()
	if c.filter != "" {
		return c.filter
	}

	params := url.Values{}
	params.Set("base", DefaultFilter)
	params.Set("include", strings.Join(filterIncludes, ";"))
	params.Set("unsafe", "false")

	var resp wrapper[struct {
		Filter string `json:"filter"`
	}]
	if err := c.getWithFilter(ctx, "filter", "/filters/create", params, "", &resp); err != nil {
		c.log.Warn("could not create answer filter, markdown bodies unavailable: %v", err)
		return DefaultFilter
	}
	if len(resp.Items) == 0 || resp.Items[0].Filter == "" {
		c.log.Warn("filter creation returned no filter, markdown bodies unavailable")
		return DefaultFilter
	}
	c.filter = resp.Items[0].Filter
	c.log.Debug("created answer filter %s", c.filter)
	return c.filter
}

// AnswersByQuestionIDs returns every answer to the given questions.
// All ids go into one request; further pages are fetched while the API
// reports more results.
func (c *Client) AnswersByQuestionIDs(ctx context.Context, ids []int) ([]domain.Post, error) {
	if len(ids) == 0 {
		return []domain.Post{}, nil
	}

	path := "/questions/" + domain.QuestionIDString(ids) + "/answers"
	var posts []domain.Post

	for page := 1; page <= MaxPages; page++ {
		params := url.Values{}
		params.Set("page", strconv.Itoa(page))
		params.Set("pagesize", strconv.Itoa(PageSize))
		params.Set("order", "desc")
		params.Set("sort", "activity")

		var resp wrapper[answer]
		if err := c.get(ctx, "answers", path, params, &resp); err != nil {
			return nil, err
		}
		for i := range resp.Items {
			posts = append(posts, resp.Items[i].toPost())
		}
		if !resp.HasMore {
			break
		}
		if page == MaxPages {
			c.log.Warn("stopping after %d pages of answers for %s", MaxPages, path)
		}
	}

	c.fillQuestionTitles(ctx, posts)
	c.log.Debug("%d answers for %d questions", len(posts), len(ids))
	return posts, nil
}

// AnswerByID returns a single answer, with its question title and tags.
func (c *Client) AnswerByID(ctx context.Context, id int) (*domain.Post, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: answer id must be positive", domain.ErrInvalidInput)
	}

	var resp wrapper[answer]
	if err := c.get(ctx, "answer", "/answers/"+strconv.Itoa(id), url.Values{}, &resp); err != nil {
		return nil, err
	}
	if len(resp.Items) == 0 {
		return nil, fmt.Errorf("answer %d: %w", id, domain.ErrNotFound)
	}

	posts := []domain.Post{resp.Items[0].toPost()}
	c.fillQuestionTitles(ctx, posts)
	return &posts[0], nil
}

// fillQuestionTitles loads titles and tags when the filter left them out.
// Failures are logged, a post without title is still usable.
func (c *Client) fillQuestionTitles(ctx context.Context, posts []domain.Post) {
	var missing []int
	seen := make(map[int]bool)
	for i := range posts {
		q := posts[i].QuestionID
		if posts[i].Title == "" && q > 0 && !seen[q] {
			seen[q] = true
			missing = append(missing, q)
		}
	}
	if len(missing) == 0 {
		return
	}
	if len(missing) > PageSize {
		missing = missing[:PageSize]
	}

	params := url.Values{}
	params.Set("pagesize", strconv.Itoa(PageSize))
	var resp wrapper[question]
	if err := c.getWithFilter(ctx, "questions", "/questions/"+domain.QuestionIDString(missing), params, "default", &resp); err != nil {
		c.log.Warn("could not load question titles: %v", err)
		return
	}

	byID := make(map[int]question, len(resp.Items))
	for _, q := range resp.Items {
		byID[q.QuestionID] = q
	}
	for i := range posts {
		q, ok := byID[posts[i].QuestionID]
		if !ok || posts[i].Title != "" {
			continue
		}
		posts[i].Title = html.UnescapeString(q.Title)
		if len(posts[i].Tags) == 0 {
			posts[i].Tags = q.Tags
		}
	}
}

func (c *Client) get(ctx context.Context, op, path string, params url.Values, out any) error {
	return c.getWithFilter(ctx, op, path, params, c.answerFilter(ctx), out)
}

// getWithFilter sends one GET request and decodes the envelope into out.
func (c *Client) getWithFilter(ctx context.Context, op, path string, params url.Values, filter string, out any) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return err
	}

	params.Set("site", c.site)
	if filter != "" {
		params.Set("filter", filter)
	}
	if c.key != "" {
		params.Set("key", c.key)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &domain.ExternalError{Service: serviceName, Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return &domain.ExternalError{Service: serviceName, Op: op, Err: fmt.Errorf("read response: %w", err)}
	}

	var env wrapper[json.RawMessage]
	if err := json.Unmarshal(body, &env); err != nil {
		if IsThrottled(resp.StatusCode) {
			return &domain.QuotaError{Service: serviceName, Message: http.StatusText(resp.StatusCode)}
		}
		return &domain.ExternalError{
			Service: serviceName,
			Op:      op,
			Err:     fmt.Errorf("HTTP %d: decode response: %w", resp.StatusCode, err),
		}
	}

	c.rateLimiter.Update(env.Backoff, env.QuotaRemaining)
	if env.Backoff > 0 {
		c.log.Debug("API asked to back off for %ds", env.Backoff)
	}

	if env.ErrorID != 0 {
		return classify(op, &APIError{
			StatusCode: resp.StatusCode,
			ID:         env.ErrorID,
			Name:       env.ErrorName,
			Message:    html.UnescapeString(env.ErrorMessage),
		}, env.Backoff)
	}
	if resp.StatusCode != http.StatusOK {
		return &domain.ExternalError{Service: serviceName, Op: op, Err: fmt.Errorf("unexpected HTTP %d", resp.StatusCode)}
	}
	if env.QuotaMax > 0 && env.QuotaRemaining == 0 {
		c.log.Warn("daily quota used up (%d requests)", env.QuotaMax)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &domain.ExternalError{Service: serviceName, Op: op, Err: fmt.Errorf("decode items: %w", err)}
	}
	return nil
}

// Quota returns the last reported remaining daily quota, or -1 if unknown.
func (c *Client) Quota() int {
	return c.rateLimiter.Remaining()
}

// IsNotFound reports whether err means the answer does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
