package helpers_test

import (
	"testing"

	"github.com/bazaarlabs/bazaar-agent/internal/helpers"
	"github.com/stretchr/testify/assert"
)

func TestIsAddressValid(t *testing.T) {
	tests := []struct {
		name    string
		address string
		want    bool
	}{
		{name: "valid lowercase", address: "0x833589fcb6da84f7099cc1f9a3b44cc250b77fc0", want: true},
		{name: "valid checksummed", address: "0x70997970C51812dc3A010C7d01b50e0d17dc79C8", want: true},
		{name: "missing prefix", address: "833589fcb6da84f7099cc1f9a3b44cc250b77fc0", want: false},
		{name: "too short", address: "0x123", want: false},
		{name: "too long", address: "0x833589fcb6da84f7099cc1f9a3b44cc250b77fc000", want: false},
		{name: "non-hex characters", address: "0x833589fcb6da84f7099cc1f9a3b44cc250b77fzz", want: false},
		{name: "empty", address: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, helpers.IsAddressValid(tt.address))
		})
	}
}

func TestIsPrivateKeyValid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want bool
	}{
		{name: "valid", key: "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80", want: true},
		{name: "missing prefix", key: "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80", want: false},
		{name: "too short", key: "0xac0974", want: false},
		{name: "non-hex characters", key: "0xzc0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80", want: false},
		{name: "empty", key: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, helpers.IsPrivateKeyValid(tt.key))
		})
	}
}
