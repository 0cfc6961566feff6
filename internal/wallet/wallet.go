package wallet

import (
	"crypto/ecdsa"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/bazaarlabs/bazaar-agent/internal/helpers"
	"github.com/bazaarlabs/bazaar-agent/internal/logger"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Identity is the agent's signing identity: a secp256k1 private key and its
// derived address. It is loaded once at startup and never mutated afterwards,
// so it is safe to share across concurrent calls without synchronization.
type Identity struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

// Address returns the identity's Ethereum address.
func (i *Identity) Address() common.Address {
	return i.address
}

// PrivateKey returns the underlying signing key.
func (i *Identity) PrivateKey() *ecdsa.PrivateKey {
	return i.key
}

// FromHex builds an Identity from a 0x-prefixed 32-byte private key.
func FromHex(secret string) (*Identity, error) {
	if !helpers.IsPrivateKeyValid(secret) {
		return nil, errors.New("malformed private key")
	}
	key, err := crypto.HexToECDSA(strings.TrimPrefix(secret, "0x"))
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse private key")
	}
	return &Identity{key: key, address: crypto.PubkeyToAddress(key.PublicKey)}, nil
}

// walletFile is the on-disk identity schema. Decoding is tolerant: extra
// fields are ignored, and any file that fails validation is treated as absent.
type walletFile struct {
	Secret  string `json:"secret"`
	Address string `json:"address"`
}

// KeyStore loads or creates the agent's identity file. Peer paths belong to
// other local tools that share the same wallet format; reusing their identity
// keeps funds on a single address across installs.
type KeyStore struct {
	path      string
	peerPaths []string
}

// Option configures a KeyStore.
type Option func(*KeyStore)

// WithPeerPaths overrides the list of peer tool wallet locations.
func WithPeerPaths(paths ...string) Option {
	return func(ks *KeyStore) {
		ks.peerPaths = paths
	}
}

// NewKeyStore creates a KeyStore backed by the given file path. An empty path
// selects the default location under the user's home directory.
func NewKeyStore(path string, opts ...Option) *KeyStore {
	if path == "" {
		path = DefaultPath()
	}
	ks := &KeyStore{
		path:      path,
		peerPaths: defaultPeerPaths(),
	}
	for _, opt := range opts {
		opt(ks)
	}
	return ks
}

// DefaultPath returns the default wallet location for this installation.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".bazaar", "wallet.json")
	}
	return filepath.Join(home, ".bazaar", "wallet.json")
}

// defaultPeerPaths lists wallet files written by compatible local tools, in
// probe order. Only the local path is ever written to.
func defaultPeerPaths() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	return []string{
		filepath.Join(home, ".mcpay", "wallet.json"),
		filepath.Join(home, ".x402", "wallet.json"),
	}
}

// LoadOrCreate returns the agent's identity, in order of preference: the local
// wallet file, the first valid identity found at a peer path (copied to the
// local file), or a freshly generated key. The only error path is a failure to
// persist — an unpersisted identity would change address on every restart.
func (ks *KeyStore) LoadOrCreate() (*Identity, error) {
	if id := readIdentity(ks.path); id != nil {
		logger.Debug("loaded wallet identity",
			zap.String("path", ks.path),
			zap.String("address", id.Address().Hex()),
		)
		return id, nil
	}

	for _, peer := range ks.peerPaths {
		id := readIdentity(peer)
		if id == nil {
			continue
		}
		if err := ks.persist(id); err != nil {
			return nil, err
		}
		logger.Info("adopted wallet identity from peer tool",
			zap.String("origin", peer),
			zap.String("path", ks.path),
			zap.String("address", id.Address().Hex()),
		)
		return id, nil
	}

	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate wallet key")
	}
	id := &Identity{key: key, address: crypto.PubkeyToAddress(key.PublicKey)}
	if err := ks.persist(id); err != nil {
		return nil, err
	}
	logger.Info("created new wallet identity",
		zap.String("path", ks.path),
		zap.String("address", id.Address().Hex()),
	)
	return id, nil
}

// readIdentity loads and validates an identity file. It returns nil on any
// read, parse, or validation failure: a broken wallet file is indistinguishable
// from a missing one.
func readIdentity(path string) *Identity {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var file walletFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil
	}
	if !helpers.IsPrivateKeyValid(file.Secret) || !helpers.IsAddressValid(file.Address) {
		return nil
	}

	id, err := FromHex(file.Secret)
	if err != nil {
		return nil
	}
	// The address must be derivable from the secret; a mismatch means the file
	// was edited or corrupted.
	if !strings.EqualFold(id.Address().Hex(), file.Address) {
		return nil
	}
	return id
}

// persist writes the identity with owner-only permissions, creating the
// containing directory if needed.
func (ks *KeyStore) persist(id *Identity) error {
	if err := os.MkdirAll(filepath.Dir(ks.path), 0o700); err != nil {
		return errors.Wrapf(err, "failed to create wallet directory for %s", ks.path)
	}

	data, err := json.MarshalIndent(walletFile{
		Secret:  hexutil.Encode(crypto.FromECDSA(id.key)),
		Address: id.Address().Hex(),
	}, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode wallet file")
	}

	if err := os.WriteFile(ks.path, data, 0o600); err != nil {
		return errors.Wrapf(err, "failed to write wallet file %s", ks.path)
	}
	return nil
}
