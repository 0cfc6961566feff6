// Package x402 implements the client side of the x402 payment protocol:
// wire types, payment-required parsing, and EIP-3009 authorization signing.
package x402

import (
	"encoding/base64"
	"encoding/json"
)

// Protocol version carried in every payload this agent produces.
const ProtocolVersion = 2

// Header names used by the protocol.
const (
	// HeaderPaymentRequired carries base64-JSON payment requirements on a 402
	// response. Servers may send the same structure as the raw response body
	// instead.
	HeaderPaymentRequired = "Payment-Required"

	// HeaderPaymentSignature carries the base64-JSON signed payment payload on
	// the retried request.
	HeaderPaymentSignature = "Payment-Signature"
)

// SchemeExact is the only payment scheme this agent can settle.
const SchemeExact = "exact"

// PaymentRequired is the decoded payment requirements from a 402 response.
type PaymentRequired struct {
	X402Version int                   `json:"x402Version"`
	Error       string                `json:"error,omitempty"`
	Resource    *ResourceInfo         `json:"resource,omitempty"`
	Accepts     []PaymentRequirements `json:"accepts"`
}

// ResourceInfo describes the protected resource.
type ResourceInfo struct {
	URL         string `json:"url,omitempty"`
	Description string `json:"description,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
}

// PaymentRequirements is a single payment option from the accepts[] array.
// Amount is the v2 field; MaxAmountRequired is the legacy v1 name, still sent
// by older servers.
type PaymentRequirements struct {
	Scheme            string      `json:"scheme"`
	Network           string      `json:"network"`
	Amount            string      `json:"amount,omitempty"`
	MaxAmountRequired string      `json:"maxAmountRequired,omitempty"`
	Asset             string      `json:"asset"`
	PayTo             string      `json:"payTo"`
	MaxTimeoutSeconds int64       `json:"maxTimeoutSeconds,omitempty"`
	Extra             *TokenExtra `json:"extra,omitempty"`
}

// TokenExtra carries token metadata used for domain-separated signing.
type TokenExtra struct {
	Name    string `json:"name,omitempty"`
	Version string `json:"version,omitempty"`
}

// AmountValue returns the required amount regardless of protocol version.
func (r *PaymentRequirements) AmountValue() string {
	if r.Amount != "" {
		return r.Amount
	}
	return r.MaxAmountRequired
}

// Authorization holds the EIP-3009 TransferWithAuthorization parameters.
// Integer fields are decimal strings so values above 2^53 survive JSON.
type Authorization struct {
	From        string `json:"from"`
	To          string `json:"to"`
	Value       string `json:"value"`
	ValidAfter  string `json:"validAfter"`
	ValidBefore string `json:"validBefore"`
	Nonce       string `json:"nonce"`
}

// ExactEvmPayload is the signature plus authorization for an EVM payment.
type ExactEvmPayload struct {
	Signature     string        `json:"signature"`
	Authorization Authorization `json:"authorization"`
}

// PaymentPayload is the signed payment proof attached to the retried request.
// It is constructed, encoded into a header, and discarded — never persisted.
type PaymentPayload struct {
	X402Version int                 `json:"x402Version"`
	Accepted    PaymentRequirements `json:"accepted"`
	Payload     ExactEvmPayload     `json:"payload"`
}

// EncodeHeader serializes the payload to base64-JSON for the payment header.
func (p *PaymentPayload) EncodeHeader() (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// DecodePaymentPayload parses a base64-JSON payment header value.
func DecodePaymentPayload(encoded string) (*PaymentPayload, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, err
	}
	var payload PaymentPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// DecodePaymentRequired parses a base64-JSON Payment-Required header value.
func DecodePaymentRequired(encoded string) (*PaymentRequired, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, err
	}
	return ParsePaymentRequired(data)
}

// ParsePaymentRequired parses raw JSON payment requirements.
func ParsePaymentRequired(data []byte) (*PaymentRequired, error) {
	var required PaymentRequired
	if err := json.Unmarshal(data, &required); err != nil {
		return nil, err
	}
	return &required, nil
}
