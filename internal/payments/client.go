// Package payments implements the pay-per-request retry protocol: issue a
// request, and when the server answers 402 Payment Required, sign a transfer
// authorization and re-issue the request once with the payment proof attached.
package payments

import (
	"bytes"
	"context"
	"io"
	"net/http"

	httpclient "github.com/bazaarlabs/bazaar-agent/internal/client/http"
	"github.com/bazaarlabs/bazaar-agent/internal/logger"
	"github.com/bazaarlabs/bazaar-agent/internal/wallet"
	"github.com/bazaarlabs/bazaar-agent/internal/x402"
	"github.com/davecgh/go-spew/spew"
	"go.uber.org/zap"
)

// defaultMaxRetries is the per-call payment retry budget. The protocol is
// deliberately single-shot: if the retried request is itself answered with
// 402, that response is returned as-is.
const defaultMaxRetries = 1

// Client issues HTTP requests and transparently settles 402 responses.
type Client struct {
	http       *httpclient.HTTPClient
	signer     *x402.Signer
	identity   *wallet.Identity
	maxRetries int
}

// Option configures a Client.
type Option func(*Client)

// WithSigner overrides the authorization signer.
func WithSigner(signer *x402.Signer) Option {
	return func(c *Client) {
		c.signer = signer
	}
}

// WithMaxRetries overrides the payment retry budget. Zero disables payment
// handling entirely; 402 responses are then returned untouched.
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		c.maxRetries = n
	}
}

// NewClient creates a payment-aware client on top of the shared HTTP client.
// The identity is read-only after load and may be shared across calls.
func NewClient(hc *httpclient.HTTPClient, identity *wallet.Identity, opts ...Option) *Client {
	c := &Client{
		http:       hc,
		signer:     x402.NewSigner(),
		identity:   identity,
		maxRetries: defaultMaxRetries,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Request performs an HTTP request, paying for it if the server demands it.
//
// On a 402 response the payment requirements are extracted from the
// Payment-Required header or the response body. If neither yields a usable
// requirement entry the original response is returned unchanged and no retry
// is attempted. Otherwise the first accepted requirement is signed and the
// request is re-issued exactly once with the payment header; the second
// response is returned verbatim whatever its status.
//
// Network errors from either attempt propagate to the caller. Responses with
// status >= 400 carry an *httpclient.HTTPError alongside the response, per
// the underlying client's contract.
func (c *Client) Request(ctx context.Context, method, path string, body interface{}, opts ...httpclient.RequestOption) (*http.Response, error) {
	resp, err := c.http.DoRequest(ctx, method, path, body, opts...)
	if resp == nil || resp.StatusCode != http.StatusPaymentRequired || c.maxRetries < 1 {
		return resp, err
	}

	requirement := extractRequirement(resp)
	if requirement == nil {
		logger.Warn("402 response carried no usable payment requirements, not retrying",
			zap.String("method", method),
			zap.String("path", path))
		return resp, err
	}

	logger.Debug("settling payment requirement",
		zap.String("dump", spew.Sdump(requirement)))

	payload, signErr := c.signer.Sign(requirement, c.identity)
	if signErr != nil {
		// A requirement we cannot sign means a protocol-incompatible server;
		// surface it rather than silently returning the unpaid response.
		return resp, signErr
	}

	header, encErr := payload.EncodeHeader()
	if encErr != nil {
		return resp, encErr
	}

	logger.Info("retrying request with payment authorization",
		zap.String("method", method),
		zap.String("path", path),
		zap.String("payer", c.identity.Address().Hex()),
		zap.String("amount", requirement.AmountValue()),
		zap.String("network", requirement.Network))

	retryOpts := append(opts, httpclient.WithHeader(x402.HeaderPaymentSignature, header))
	return c.http.DoRequest(ctx, method, path, body, retryOpts...)
}

// Get performs a payment-aware GET request.
func (c *Client) Get(ctx context.Context, path string, opts ...httpclient.RequestOption) (*http.Response, error) {
	return c.Request(ctx, http.MethodGet, path, nil, opts...)
}

// Post performs a payment-aware POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body interface{}, opts ...httpclient.RequestOption) (*http.Response, error) {
	return c.Request(ctx, http.MethodPost, path, body, opts...)
}

// extractRequirement pulls the first accepted payment requirement from a 402
// response, preferring the base64-JSON header over the raw body. It returns
// nil when nothing parseable is found; the response body is restored either
// way so the caller still receives the original response intact.
func extractRequirement(resp *http.Response) *x402.PaymentRequirements {
	if encoded := resp.Header.Get(x402.HeaderPaymentRequired); encoded != "" {
		if required, err := x402.DecodePaymentRequired(encoded); err == nil && len(required.Accepts) > 0 {
			return &required.Accepts[0]
		}
	}

	if resp.Body == nil {
		return nil
	}
	bodyBytes, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	resp.Body = io.NopCloser(bytes.NewReader(bodyBytes))
	if err != nil {
		return nil
	}

	required, err := x402.ParsePaymentRequired(bodyBytes)
	if err != nil || len(required.Accepts) == 0 {
		return nil
	}
	return &required.Accepts[0]
}
