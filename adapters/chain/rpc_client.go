// Package chain is the JSON-RPC adapter for the blockchain collaborator:
// epoch and balance reads, transaction serialization and execution.
package chain

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/shopspring/decimal"

	"github.com/openquest/zklogin/core"
	"github.com/openquest/zklogin/ports"
)

// coinDecimals is the base-unit scale of the native coin.
const coinDecimals = 9

// RPCClient implements ports.ChainClient over JSON-RPC 2.0.
type RPCClient struct {
	rpc *rpc.Client
}

// Dial connects to the chain's JSON-RPC endpoint.
func Dial(ctx context.Context, url string) (*RPCClient, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: chain RPC URL", core.ErrMissingConfig)
	}
	client, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to dial chain RPC: %w", err)
	}
	return &RPCClient{rpc: client}, nil
}

// NewRPCClient wraps an existing RPC client connection.
func NewRPCClient(client *rpc.Client) *RPCClient {
	return &RPCClient{rpc: client}
}

var _ ports.ChainClient = (*RPCClient)(nil)

// Close closes the underlying connection.
func (c *RPCClient) Close() {
	c.rpc.Close()
}

type systemStateSummary struct {
	Epoch string `json:"epoch"`
}

// CurrentEpoch returns the chain's current epoch counter.
func (c *RPCClient) CurrentEpoch(ctx context.Context) (uint64, error) {
	var state systemStateSummary
	if err := c.rpc.CallContext(ctx, &state, "suix_getLatestSuiSystemState"); err != nil {
		return 0, fmt.Errorf("failed to fetch system state: %w", err)
	}
	epoch, err := strconv.ParseUint(state.Epoch, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("unparsable epoch %q: %w", state.Epoch, err)
	}
	return epoch, nil
}

type balanceResult struct {
	TotalBalance string `json:"totalBalance"`
}

// Balance returns the balance of address for the given coin type, converted
// from base units to whole coin units.
func (c *RPCClient) Balance(ctx context.Context, address, coinType string) (decimal.Decimal, error) {
	var result balanceResult
	if err := c.rpc.CallContext(ctx, &result, "suix_getBalance", address, coinType); err != nil {
		return decimal.Zero, fmt.Errorf("failed to fetch balance: %w", err)
	}
	base, err := decimal.NewFromString(result.TotalBalance)
	if err != nil {
		return decimal.Zero, fmt.Errorf("unparsable balance %q: %w", result.TotalBalance, err)
	}
	return base.Shift(-coinDecimals), nil
}

type txBytesResult struct {
	TxBytes string `json:"txBytes"`
}

// BuildTransaction asks the node to resolve the transaction into its
// canonical signable byte form. The sender must already be bound.
func (c *RPCClient) BuildTransaction(ctx context.Context, tx *core.Transaction) ([]byte, error) {
	if tx.Sender == "" {
		return nil, fmt.Errorf("transaction has no sender")
	}

	var result txBytesResult
	if err := c.rpc.CallContext(ctx, &result, "unsafe_buildTransactionBlock", tx); err != nil {
		return nil, fmt.Errorf("failed to build transaction: %w", err)
	}
	txBytes, err := base64.StdEncoding.DecodeString(result.TxBytes)
	if err != nil {
		return nil, fmt.Errorf("unparsable transaction bytes: %w", err)
	}
	return txBytes, nil
}

type executeResponse struct {
	Digest        string          `json:"digest"`
	Effects       json.RawMessage `json:"effects"`
	ObjectChanges json.RawMessage `json:"objectChanges"`
}

// ExecuteTransaction submits the transaction with its composite signature,
// requesting execution effects and object-change details.
func (c *RPCClient) ExecuteTransaction(ctx context.Context, txBytes []byte, signature string) (*core.ExecutionResult, error) {
	options := map[string]bool{
		"showEffects":       true,
		"showObjectChanges": true,
	}

	var resp executeResponse
	err := c.rpc.CallContext(ctx, &resp, "sui_executeTransactionBlock",
		base64.StdEncoding.EncodeToString(txBytes),
		[]string{signature},
		options,
	)
	if err != nil {
		return nil, fmt.Errorf("transaction execution failed: %w", err)
	}

	return &core.ExecutionResult{
		Digest:        resp.Digest,
		Effects:       resp.Effects,
		ObjectChanges: resp.ObjectChanges,
	}, nil
}
