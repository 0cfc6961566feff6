package wallet_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/bazaarlabs/bazaar-agent/internal/logger"
	"github.com/bazaarlabs/bazaar-agent/internal/wallet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.InitLogger("test")
}

const (
	testSecret  = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	testAddress = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"

	peerSecret  = "0x59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d"
	peerAddress = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"
)

func writeWalletFile(t *testing.T, path, secret, address string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
	data, err := json.Marshal(map[string]string{
		"secret":  secret,
		"address": address,
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))
}

func TestKeyStore_LoadOrCreate_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallet.json")
	ks := wallet.NewKeyStore(path, wallet.WithPeerPaths())

	first, err := ks.LoadOrCreate()
	require.NoError(t, err)

	second, err := ks.LoadOrCreate()
	require.NoError(t, err)
	assert.Equal(t, first.Address(), second.Address())

	// A fresh KeyStore over the same file simulates a process restart.
	restarted, err := wallet.NewKeyStore(path, wallet.WithPeerPaths()).LoadOrCreate()
	require.NoError(t, err)
	assert.Equal(t, first.Address(), restarted.Address())
}

func TestKeyStore_LoadsExistingIdentity(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallet.json")
	writeWalletFile(t, path, testSecret, testAddress)

	id, err := wallet.NewKeyStore(path, wallet.WithPeerPaths()).LoadOrCreate()
	require.NoError(t, err)
	assert.Equal(t, testAddress, id.Address().Hex())
}

func TestKeyStore_SchemaTolerance(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallet.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))

	// Extra fields from other tools are ignored as long as secret and address
	// are present and well-formed.
	data, err := json.Marshal(map[string]interface{}{
		"secret":    testSecret,
		"address":   testAddress,
		"mnemonic":  "never used",
		"createdAt": "2024-01-01T00:00:00Z",
		"version":   3,
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	id, err := wallet.NewKeyStore(path, wallet.WithPeerPaths()).LoadOrCreate()
	require.NoError(t, err)
	assert.Equal(t, testAddress, id.Address().Hex())
}

func TestKeyStore_CorruptFileRegenerates(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "not json", content: "not json at all"},
		{name: "missing secret", content: `{"address":"` + testAddress + `"}`},
		{name: "malformed secret", content: `{"secret":"0xzz","address":"` + testAddress + `"}`},
		{name: "address mismatch", content: `{"secret":"` + testSecret + `","address":"` + peerAddress + `"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "wallet.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			id, err := wallet.NewKeyStore(path, wallet.WithPeerPaths()).LoadOrCreate()
			require.NoError(t, err)
			// The corrupt file is treated as absent, so a new identity is
			// generated and persisted over it.
			assert.NotEqual(t, testAddress, id.Address().Hex())

			reloaded, err := wallet.NewKeyStore(path, wallet.WithPeerPaths()).LoadOrCreate()
			require.NoError(t, err)
			assert.Equal(t, id.Address(), reloaded.Address())
		})
	}
}

func TestKeyStore_AdoptsPeerIdentity(t *testing.T) {
	dir := t.TempDir()
	localPath := filepath.Join(dir, "bazaar", "wallet.json")
	peerPath := filepath.Join(dir, "peer", "wallet.json")
	writeWalletFile(t, peerPath, peerSecret, peerAddress)

	ks := wallet.NewKeyStore(localPath, wallet.WithPeerPaths(peerPath))
	id, err := ks.LoadOrCreate()
	require.NoError(t, err)
	assert.Equal(t, peerAddress, id.Address().Hex())

	// Adoption copies the identity into the local location.
	local, err := wallet.NewKeyStore(localPath, wallet.WithPeerPaths()).LoadOrCreate()
	require.NoError(t, err)
	assert.Equal(t, peerAddress, local.Address().Hex())
}

func TestKeyStore_LocalWinsOverPeer(t *testing.T) {
	dir := t.TempDir()
	localPath := filepath.Join(dir, "bazaar", "wallet.json")
	peerPath := filepath.Join(dir, "peer", "wallet.json")
	writeWalletFile(t, localPath, testSecret, testAddress)
	writeWalletFile(t, peerPath, peerSecret, peerAddress)

	id, err := wallet.NewKeyStore(localPath, wallet.WithPeerPaths(peerPath)).LoadOrCreate()
	require.NoError(t, err)
	assert.Equal(t, testAddress, id.Address().Hex())
}

func TestKeyStore_FilePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file permissions are not meaningful on windows")
	}

	path := filepath.Join(t.TempDir(), "bazaar", "wallet.json")
	_, err := wallet.NewKeyStore(path, wallet.WithPeerPaths()).LoadOrCreate()
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	dirInfo, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o700), dirInfo.Mode().Perm())
}

func TestFromHex(t *testing.T) {
	id, err := wallet.FromHex(testSecret)
	require.NoError(t, err)
	assert.Equal(t, testAddress, id.Address().Hex())

	_, err = wallet.FromHex("not a key")
	assert.Error(t, err)

	_, err = wallet.FromHex(testSecret[2:])
	assert.Error(t, err, "missing 0x prefix must be rejected")
}
