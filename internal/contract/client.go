package contract

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

const ownerOfMethod = "ownerOf"

// Client issues read-only ownerOf calls against one ERC-721 contract over
// JSON-RPC. It is safe for concurrent use; the underlying connection is
// shared across all in-flight calls.
type Client struct {
	eth     *ethclient.Client
	address common.Address
	abi     abi.ABI
}

// NewClient validates the contract address and ABI descriptor and dials the
// endpoint. Any failure here is a setup error; the run must abort before
// fetching begins.
func NewClient(ctx context.Context, rpcURL, contractAddress, abiJSON string) (*Client, error) {
	if !common.IsHexAddress(contractAddress) {
		return nil, fmt.Errorf("invalid contract address: %q", contractAddress)
	}

	parsed, err := abi.JSON(strings.NewReader(abiJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ABI: %w", err)
	}
	if _, ok := parsed.Methods[ownerOfMethod]; !ok {
		return nil, fmt.Errorf("ABI does not declare %s", ownerOfMethod)
	}

	eth, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", rpcURL, err)
	}

	return &Client{
		eth:     eth,
		address: common.HexToAddress(contractAddress),
		abi:     parsed,
	}, nil
}

// OwnerOf returns the owning address for tokenID, as reported by the
// contract. A revert for a nonexistent id surfaces as an error carrying the
// contract's revert message; the classifier decides what to do with it.
func (c *Client) OwnerOf(ctx context.Context, tokenID uint64) (string, error) {
	data, err := c.abi.Pack(ownerOfMethod, new(big.Int).SetUint64(tokenID))
	if err != nil {
		return "", fmt.Errorf("failed to pack %s(%d): %w", ownerOfMethod, tokenID, err)
	}

	msg := ethereum.CallMsg{To: &c.address, Data: data}
	raw, err := c.eth.CallContract(ctx, msg, nil)
	if err != nil {
		return "", err
	}

	values, err := c.abi.Unpack(ownerOfMethod, raw)
	if err != nil {
		return "", fmt.Errorf("failed to unpack %s result: %w", ownerOfMethod, err)
	}
	if len(values) != 1 {
		return "", fmt.Errorf("unexpected %s result arity: %d", ownerOfMethod, len(values))
	}

	owner, ok := values[0].(common.Address)
	if !ok {
		return "", fmt.Errorf("unexpected %s result type: %T", ownerOfMethod, values[0])
	}
	return owner.Hex(), nil
}

// Close releases the underlying RPC connection.
func (c *Client) Close() {
	c.eth.Close()
}
