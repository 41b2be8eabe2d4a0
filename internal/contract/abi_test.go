package contract

import (
	"context"
	"math/big"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kelsos/nft-snapshot/internal/logger"
)

const testContract = "0x0123456789abcdef0123456789abcdef01234567"

func TestDefaultABIDeclaresOwnerOf(t *testing.T) {
	parsed, err := abi.JSON(strings.NewReader(DefaultABI))
	require.NoError(t, err)

	method, ok := parsed.Methods["ownerOf"]
	require.True(t, ok)
	assert.Equal(t, "view", method.StateMutability)

	data, err := parsed.Pack("ownerOf", big.NewInt(42))
	require.NoError(t, err)
	// 4-byte selector plus one uint256 argument.
	assert.Len(t, data, 36)
}

func TestLoadABIEmptySourceFallsBackToDefault(t *testing.T) {
	got, err := LoadABI("")
	require.NoError(t, err)
	assert.Equal(t, DefaultABI, got)
}

func TestLoadABIFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "erc721.json")
	require.NoError(t, os.WriteFile(path, []byte(DefaultABI), 0644))

	got, err := LoadABI(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultABI, got)
}

func TestLoadABIFromMissingFile(t *testing.T) {
	_, err := LoadABI(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLoadABIFromURL(t *testing.T) {
	logger.Init()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(DefaultABI))
	}))
	defer server.Close()

	got, err := LoadABI(server.URL)
	require.NoError(t, err)
	assert.Equal(t, DefaultABI, got)
}

func TestNewClientRejectsInvalidAddress(t *testing.T) {
	_, err := NewClient(context.Background(), "http://localhost:8545", "not-an-address", DefaultABI)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid contract address")
}

func TestNewClientRejectsMalformedABI(t *testing.T) {
	_, err := NewClient(context.Background(), "http://localhost:8545", testContract, "{not json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse ABI")
}

func TestNewClientRequiresOwnerOf(t *testing.T) {
	withoutOwnerOf := `[{"inputs":[],"name":"totalSupply","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"}]`

	_, err := NewClient(context.Background(), "http://localhost:8545", testContract, withoutOwnerOf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ownerOf")
}
