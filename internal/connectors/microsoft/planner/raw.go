package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/custodia-labs/planner-api/internal/connectors/microsoft"
	"github.com/custodia-labs/planner-api/internal/core/domain"
	"github.com/custodia-labs/planner-api/internal/core/ports/driven"
	"github.com/custodia-labs/planner-api/internal/logger"
)

// Ensure RawClient implements the interface.
var _ driven.FallbackTaskLister = (*RawClient)(nil)

// RawClient lists plan tasks with plain REST calls. It is used when the SDK
// path fails.
type RawClient struct {
	baseURL     string
	httpClient  *http.Client
	rateLimiter *microsoft.RateLimiter
}

// NewRawClient creates a REST client rooted at baseURL.
func NewRawClient(baseURL string, httpClient *http.Client, rateLimiter *microsoft.RateLimiter) *RawClient {
	if baseURL == "" {
		baseURL = microsoft.GraphBaseURL
	}
	if httpClient == nil {
		httpClient = microsoft.NewHTTPClient()
	}
	return &RawClient{
		baseURL:     baseURL,
		httpClient:  httpClient,
		rateLimiter: rateLimiter,
	}
}

// taskPage is the envelope of a task listing. Items are decoded by fromRawTask.
type taskPage struct {
	Value    []json.RawMessage `json:"value"`
	NextLink string            `json:"@odata.nextLink"`
}

// ListPlanTasks fetches every task of a plan with the caller's raw token.
func (c *RawClient) ListPlanTasks(ctx context.Context, token, planID string) ([]domain.Task, error) {
	reqURL := fmt.Sprintf("%s/planner/plans/%s/tasks", c.baseURL, url.PathEscape(planID))

	tasks := []domain.Task{}
	for reqURL != "" {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, err
		}

		body, err := c.get(ctx, reqURL, token)
		if err != nil {
			return nil, fmt.Errorf("list tasks of plan %s: %w", planID, err)
		}

		var page taskPage
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("list tasks of plan %s: %w: %w", planID, microsoft.ErrMalformedResponse, err)
		}
		for _, item := range page.Value {
			tasks = append(tasks, fromRawTask(gjson.ParseBytes(item)))
		}

		if page.NextLink != "" {
			if err := c.checkNextLink(page.NextLink); err != nil {
				return nil, fmt.Errorf("list tasks of plan %s: %w", planID, err)
			}
		}
		reqURL = page.NextLink
	}

	logger.Debug("planner: raw listing returned %d tasks for plan %s", len(tasks), planID)
	return tasks, nil
}

// checkNextLink rejects links whose scheme or host differ from baseURL. The
// caller token must only reach the configured Graph host.
func (c *RawClient) checkNextLink(link string) error {
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return fmt.Errorf("parse base url: %w", err)
	}
	next, err := url.Parse(link)
	if err != nil {
		return fmt.Errorf("%w: %w", microsoft.ErrUntrustedLink, err)
	}
	if !strings.EqualFold(next.Scheme, base.Scheme) || !strings.EqualFold(next.Host, base.Host) {
		logger.Warn("planner: refusing pagination link to host %q", next.Host)
		return fmt.Errorf("%w: host %q", microsoft.ErrUntrustedLink, next.Host)
	}
	return nil
}

// get performs one authenticated GET and returns the body of a 200 response.
func (c *RawClient) get(ctx context.Context, reqURL, token string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if microsoft.IsRateLimited(resp.StatusCode) {
		c.rateLimiter.RecordRateLimitError(microsoft.ParseRetryAfter(resp.Header.Get("Retry-After")))
	}
	if resp.StatusCode != http.StatusOK {
		logger.Debug("planner: raw request failed with status %d", resp.StatusCode)
		statusErr := microsoft.WrapError(resp.StatusCode)
		if statusErr == nil {
			statusErr = microsoft.ErrUnexpectedStatus
		}
		return nil, fmt.Errorf("%w (status %d)", statusErr, resp.StatusCode)
	}

	return body, nil
}
