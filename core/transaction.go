package core

import "encoding/json"

// MoveCall is one contract invocation inside a transaction: a target
// function plus its arguments. Arguments are kept opaque; the chain client
// resolves them when building the canonical transaction bytes.
type MoveCall struct {
	Package   string   `json:"package"`
	Module    string   `json:"module"`
	Function  string   `json:"function"`
	TypeArgs  []string `json:"typeArguments,omitempty"`
	Arguments []any    `json:"arguments,omitempty"`
}

// Transaction is a not-yet-signed transaction. The sender is bound by the
// signer from the active session immediately before serialization.
type Transaction struct {
	Sender    string     `json:"sender"`
	GasBudget uint64     `json:"gasBudget,omitempty"`
	Calls     []MoveCall `json:"calls"`
}

// ExecutionResult is what the chain returns for an executed transaction.
// Effects and object changes are relayed as raw JSON for the caller to
// interpret.
type ExecutionResult struct {
	Digest        string          `json:"digest"`
	Effects       json.RawMessage `json:"effects,omitempty"`
	ObjectChanges json.RawMessage `json:"objectChanges,omitempty"`
}
