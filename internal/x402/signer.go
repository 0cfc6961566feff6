package x402

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/bazaarlabs/bazaar-agent/internal/helpers"
	"github.com/bazaarlabs/bazaar-agent/internal/wallet"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

const (
	// Defaults for the EIP-712 domain when the server omits token metadata.
	defaultTokenName    = "USD Coin"
	defaultTokenVersion = "2"

	// clockSkewSeconds backdates validAfter to tolerate clock drift between
	// the agent and the settlement verifier.
	clockSkewSeconds = 60

	networkPrefix = "eip155:"
)

// NonceFunc produces the 32-byte single-use nonce for an authorization.
type NonceFunc func() ([]byte, error)

// NowFunc supplies the current time for the validity window.
type NowFunc func() time.Time

// DefaultNonce draws a fresh 32-byte nonce from crypto/rand.
func DefaultNonce() ([]byte, error) {
	nonce := make([]byte, 32)
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	return nonce, nil
}

// Signer builds and signs single-use, time-boxed transfer authorizations from
// server-supplied payment requirements. Apart from the nonce draw it is pure:
// fixing the nonce and clock makes its output deterministic.
type Signer struct {
	nonce NonceFunc
	now   NowFunc
}

// SignerOption configures a Signer.
type SignerOption func(*Signer)

// WithNonceFunc overrides the nonce source.
func WithNonceFunc(f NonceFunc) SignerOption {
	return func(s *Signer) {
		s.nonce = f
	}
}

// WithNowFunc overrides the clock.
func WithNowFunc(f NowFunc) SignerOption {
	return func(s *Signer) {
		s.now = f
	}
}

// NewSigner creates a Signer with a crypto/rand nonce source and the system
// clock.
func NewSigner(opts ...SignerOption) *Signer {
	s := &Signer{
		nonce: DefaultNonce,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ChainID extracts the numeric chain id from a CAIP-2 network identifier such
// as "eip155:8453".
func ChainID(network string) (int64, error) {
	if !strings.HasPrefix(network, networkPrefix) {
		return 0, fmt.Errorf("unsupported network identifier %q", network)
	}
	id, err := strconv.ParseInt(strings.TrimPrefix(network, networkPrefix), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid chain id in network %q: %w", network, err)
	}
	return id, nil
}

// Sign produces a signed payment payload for the given requirements.
//
// The validity window is [now − 60s, now + maxTimeoutSeconds]. A zero or
// negative timeout yields an already-expired window; supplying a sane timeout
// is the server's responsibility and is not validated here.
func (s *Signer) Sign(req *PaymentRequirements, identity *wallet.Identity) (*PaymentPayload, error) {
	if req.Scheme != SchemeExact {
		return nil, fmt.Errorf("unsupported payment scheme %q", req.Scheme)
	}
	value, ok := new(big.Int).SetString(req.AmountValue(), 10)
	if !ok || value.Sign() < 0 {
		return nil, fmt.Errorf("invalid payment amount %q", req.AmountValue())
	}
	chainID, err := ChainID(req.Network)
	if err != nil {
		return nil, err
	}
	if !helpers.IsAddressValid(req.PayTo) {
		return nil, fmt.Errorf("invalid payTo address %q", req.PayTo)
	}
	if !helpers.IsAddressValid(req.Asset) {
		return nil, fmt.Errorf("invalid asset address %q", req.Asset)
	}

	now := s.now().Unix()
	validAfter := now - clockSkewSeconds
	validBefore := now + req.MaxTimeoutSeconds

	nonce, err := s.nonce()
	if err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	if len(nonce) != 32 {
		return nil, fmt.Errorf("nonce must be 32 bytes, got %d", len(nonce))
	}

	from := identity.Address().Hex()
	to := common.HexToAddress(req.PayTo).Hex()

	typedData := TransferWithAuthorizationTypedData(
		tokenName(req), tokenVersion(req), chainID, req.Asset,
		from, to, value, validAfter, validBefore, nonce,
	)

	digest, _, err := apitypes.TypedDataAndHash(typedData)
	if err != nil {
		return nil, fmt.Errorf("failed to hash typed data: %w", err)
	}

	signature, err := crypto.Sign(digest, identity.PrivateKey())
	if err != nil {
		return nil, fmt.Errorf("failed to sign authorization: %w", err)
	}
	// crypto.Sign yields V in {0, 1}; EIP-712 verifiers expect {27, 28}.
	signature[64] += 27

	return &PaymentPayload{
		X402Version: ProtocolVersion,
		Accepted:    *req,
		Payload: ExactEvmPayload{
			Signature: hexutil.Encode(signature),
			Authorization: Authorization{
				From:        from,
				To:          to,
				Value:       value.String(),
				ValidAfter:  strconv.FormatInt(validAfter, 10),
				ValidBefore: strconv.FormatInt(validBefore, 10),
				Nonce:       hexutil.Encode(nonce),
			},
		},
	}, nil
}

// TransferWithAuthorizationTypedData builds the EIP-712 structure for the
// EIP-3009 transfer-with-authorization primitive. Exposed so verifying code
// can reconstruct the exact digest that was signed.
func TransferWithAuthorizationTypedData(
	name, version string, chainID int64, verifyingContract string,
	from, to string, value *big.Int, validAfter, validBefore int64, nonce []byte,
) apitypes.TypedData {
	return apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": []apitypes.Type{
				{Name: "name", Type: "string"},
				{Name: "version", Type: "string"},
				{Name: "chainId", Type: "uint256"},
				{Name: "verifyingContract", Type: "address"},
			},
			"TransferWithAuthorization": []apitypes.Type{
				{Name: "from", Type: "address"},
				{Name: "to", Type: "address"},
				{Name: "value", Type: "uint256"},
				{Name: "validAfter", Type: "uint256"},
				{Name: "validBefore", Type: "uint256"},
				{Name: "nonce", Type: "bytes32"},
			},
		},
		PrimaryType: "TransferWithAuthorization",
		Domain: apitypes.TypedDataDomain{
			Name:              name,
			Version:           version,
			ChainId:           math.NewHexOrDecimal256(chainID),
			VerifyingContract: verifyingContract,
		},
		Message: apitypes.TypedDataMessage{
			"from":        from,
			"to":          to,
			"value":       value.String(),
			"validAfter":  strconv.FormatInt(validAfter, 10),
			"validBefore": strconv.FormatInt(validBefore, 10),
			"nonce":       hexutil.Encode(nonce),
		},
	}
}

func tokenName(req *PaymentRequirements) string {
	if req.Extra != nil && req.Extra.Name != "" {
		return req.Extra.Name
	}
	return defaultTokenName
}

func tokenVersion(req *PaymentRequirements) string {
	if req.Extra != nil && req.Extra.Version != "" {
		return req.Extra.Version
	}
	return defaultTokenVersion
}
