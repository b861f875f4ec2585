package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/openquest/zklogin/core"
)

// ChainClient is the blockchain RPC collaborator: epoch and balance reads,
// transaction serialization and execution. Its wire format is not redefined
// here.
type ChainClient interface {
	// CurrentEpoch returns the chain's current epoch counter.
	CurrentEpoch(ctx context.Context) (uint64, error)

	// Balance returns the balance of address for the given coin type, in
	// whole coin units.
	Balance(ctx context.Context, address, coinType string) (decimal.Decimal, error)

	// BuildTransaction resolves the transaction (sender already bound) into
	// its canonical signable byte form.
	BuildTransaction(ctx context.Context, tx *core.Transaction) ([]byte, error)

	// ExecuteTransaction submits the transaction bytes with their composite
	// signature, requesting execution effects and object changes.
	ExecuteTransaction(ctx context.Context, txBytes []byte, signature string) (*core.ExecutionResult, error)
}
