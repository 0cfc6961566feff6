package marketplace

import (
	"encoding/json"
	"time"
)

// Tool is a remote capability listed on the marketplace.
type Tool struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	// Price is the per-call price in the asset's smallest unit, as a decimal
	// string.
	Price     string    `json:"price"`
	Asset     string    `json:"asset"`
	Network   string    `json:"network"`
	Owner     string    `json:"owner"`
	Tags      []string  `json:"tags,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// RegisterToolParams describes a tool to list on the marketplace.
type RegisterToolParams struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Endpoint    string   `json:"endpoint"`
	Price       string   `json:"price"`
	Asset       string   `json:"asset"`
	Network     string   `json:"network"`
	Tags        []string `json:"tags,omitempty"`
}

// SearchResponse is a page of tools matching a query.
type SearchResponse struct {
	Tools []Tool `json:"tools"`
	Total int    `json:"total"`
}

// ExecutionResult is the outcome of a tool call.
type ExecutionResult struct {
	ToolID     string          `json:"tool_id"`
	Output     json.RawMessage `json:"output"`
	DurationMs int64           `json:"duration_ms"`
}

// Review is a user review of a tool.
type Review struct {
	ID        string    `json:"id"`
	ToolID    string    `json:"tool_id"`
	Author    string    `json:"author"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// AddReviewParams is the body of a review submission.
type AddReviewParams struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment,omitempty"`
}

// Session holds the mutable marketplace credential. It is passed by reference
// to every request-building call; the single owner (the agent) updates it via
// SetAPIKey after a login. An empty key means calls are settled per-request
// through the payment client instead.
type Session struct {
	apiKey string
}

// NewSession creates a session, optionally seeded with an API key.
func NewSession(apiKey string) *Session {
	return &Session{apiKey: apiKey}
}

// SetAPIKey replaces the session credential.
func (s *Session) SetAPIKey(key string) {
	s.apiKey = key
}

// APIKey returns the current credential, or empty when unauthenticated.
func (s *Session) APIKey() string {
	return s.apiKey
}
