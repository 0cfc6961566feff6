// Package marketplace is the client for the tool marketplace API: tool
// registration, discovery, execution, reviews, and favorites. Execution is
// authenticated by the session's bearer token when present, and otherwise
// transparently upgraded through the x402 payment client.
package marketplace

import (
	"context"
	"fmt"
	"strconv"

	httpclient "github.com/bazaarlabs/bazaar-agent/internal/client/http"
	"github.com/bazaarlabs/bazaar-agent/internal/payments"
	"github.com/bazaarlabs/bazaar-agent/internal/wallet"
	"github.com/pkg/errors"
)

// Client manages communication with the marketplace API.
type Client struct {
	http     *httpclient.HTTPClient
	payments *payments.Client
	session  *Session
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *httpclient.HTTPClient) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithPaymentsClient replaces the payment client used for unauthenticated
// execution.
func WithPaymentsClient(pc *payments.Client) Option {
	return func(c *Client) {
		c.payments = pc
	}
}

// NewClient creates a marketplace client for the given base URL. The identity
// funds per-call payments whenever the session has no API key.
func NewClient(baseURL string, identity *wallet.Identity, session *Session, opts ...Option) *Client {
	hc := httpclient.NewHTTPClient(
		httpclient.WithBaseURL(baseURL),
	)
	c := &Client{
		http:    hc,
		session: session,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.payments == nil {
		c.payments = payments.NewClient(c.http, identity)
	}
	return c
}

// RegisterTool lists a new tool on the marketplace.
func (c *Client) RegisterTool(ctx context.Context, params RegisterToolParams) (*Tool, error) {
	resp, err := c.http.Post(ctx, "/tools", params, c.authOptions()...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to register tool")
	}
	var tool Tool
	if err := c.http.ProcessJSONResponse(resp, &tool); err != nil {
		return nil, errors.Wrap(err, "failed to decode tool")
	}
	return &tool, nil
}

// ListTools returns the marketplace catalog, newest first.
func (c *Client) ListTools(ctx context.Context, limit int) ([]Tool, error) {
	opts := c.authOptions()
	if limit > 0 {
		opts = append(opts, httpclient.WithQueryParam("limit", strconv.Itoa(limit)))
	}
	resp, err := c.http.Get(ctx, "/tools", opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list tools")
	}
	var page SearchResponse
	if err := c.http.ProcessJSONResponse(resp, &page); err != nil {
		return nil, errors.Wrap(err, "failed to decode tool list")
	}
	return page.Tools, nil
}

// SearchTools queries the catalog.
func (c *Client) SearchTools(ctx context.Context, query string, limit int) (*SearchResponse, error) {
	opts := append(c.authOptions(), httpclient.WithQueryParam("q", query))
	if limit > 0 {
		opts = append(opts, httpclient.WithQueryParam("limit", strconv.Itoa(limit)))
	}
	resp, err := c.http.Get(ctx, "/tools/search", opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to search tools")
	}
	var page SearchResponse
	if err := c.http.ProcessJSONResponse(resp, &page); err != nil {
		return nil, errors.Wrap(err, "failed to decode search response")
	}
	return &page, nil
}

// GetTool fetches a single tool by id.
func (c *Client) GetTool(ctx context.Context, toolID string) (*Tool, error) {
	resp, err := c.http.Get(ctx, "/tools/"+toolID, c.authOptions()...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get tool %s", toolID)
	}
	var tool Tool
	if err := c.http.ProcessJSONResponse(resp, &tool); err != nil {
		return nil, errors.Wrap(err, "failed to decode tool")
	}
	return &tool, nil
}

// ExecuteTool runs a tool with the given arguments. With a session API key the
// call is a plain authenticated POST; without one the call goes through the
// payment client, which settles a 402 by signing a transfer authorization and
// retrying once.
func (c *Client) ExecuteTool(ctx context.Context, toolID string, args map[string]interface{}) (*ExecutionResult, error) {
	path := fmt.Sprintf("/tools/%s/execute", toolID)

	var result ExecutionResult
	if key := c.session.APIKey(); key != "" {
		resp, err := c.http.Post(ctx, path, args, httpclient.WithBearerToken(key))
		if err != nil {
			return nil, errors.Wrapf(err, "failed to execute tool %s", toolID)
		}
		if err := c.http.ProcessJSONResponse(resp, &result); err != nil {
			return nil, errors.Wrap(err, "failed to decode execution result")
		}
		return &result, nil
	}

	resp, err := c.payments.Post(ctx, path, args)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to execute tool %s", toolID)
	}
	if err := c.http.ProcessJSONResponse(resp, &result); err != nil {
		return nil, errors.Wrap(err, "failed to decode execution result")
	}
	return &result, nil
}

// AddReview submits a review for a tool.
func (c *Client) AddReview(ctx context.Context, toolID string, params AddReviewParams) (*Review, error) {
	resp, err := c.http.Post(ctx, fmt.Sprintf("/tools/%s/reviews", toolID), params, c.authOptions()...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to review tool %s", toolID)
	}
	var review Review
	if err := c.http.ProcessJSONResponse(resp, &review); err != nil {
		return nil, errors.Wrap(err, "failed to decode review")
	}
	return &review, nil
}

// ListReviews returns the reviews for a tool.
func (c *Client) ListReviews(ctx context.Context, toolID string) ([]Review, error) {
	resp, err := c.http.Get(ctx, fmt.Sprintf("/tools/%s/reviews", toolID), c.authOptions()...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list reviews for tool %s", toolID)
	}
	var reviews []Review
	if err := c.http.ProcessJSONResponse(resp, &reviews); err != nil {
		return nil, errors.Wrap(err, "failed to decode reviews")
	}
	return reviews, nil
}

// AddFavorite bookmarks a tool.
func (c *Client) AddFavorite(ctx context.Context, toolID string) error {
	resp, err := c.http.Post(ctx, fmt.Sprintf("/tools/%s/favorite", toolID), nil, c.authOptions()...)
	if err != nil {
		return errors.Wrapf(err, "failed to favorite tool %s", toolID)
	}
	resp.Body.Close()
	return nil
}

// RemoveFavorite removes a bookmark.
func (c *Client) RemoveFavorite(ctx context.Context, toolID string) error {
	resp, err := c.http.Delete(ctx, fmt.Sprintf("/tools/%s/favorite", toolID), c.authOptions()...)
	if err != nil {
		return errors.Wrapf(err, "failed to unfavorite tool %s", toolID)
	}
	resp.Body.Close()
	return nil
}

// ListFavorites returns the caller's bookmarked tools.
func (c *Client) ListFavorites(ctx context.Context) ([]Tool, error) {
	resp, err := c.http.Get(ctx, "/favorites", c.authOptions()...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list favorites")
	}
	var tools []Tool
	if err := c.http.ProcessJSONResponse(resp, &tools); err != nil {
		return nil, errors.Wrap(err, "failed to decode favorites")
	}
	return tools, nil
}

func (c *Client) authOptions() []httpclient.RequestOption {
	if key := c.session.APIKey(); key != "" {
		return []httpclient.RequestOption{httpclient.WithBearerToken(key)}
	}
	return nil
}
