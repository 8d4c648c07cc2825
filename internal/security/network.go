package security

import (
	"context"
	"math/big"
)

// ChainIDReader queries the chain identity of the active connection.
// *chain.Client satisfies this with a live RPC query.
type ChainIDReader interface {
	ChainID(ctx context.Context) (*big.Int, error)
}

// ValidateNetwork reports whether the active connection is on the
// expected chain. The query result is never cached: the user may switch
// networks between render and submission, so this must run immediately
// before every state-changing call. A query failure yields false, never
// an error.
func ValidateNetwork(ctx context.Context, reader ChainIDReader, expectedChainID int64) bool {
	if reader == nil {
		return false
	}

	chainID, err := reader.ChainID(ctx)
	if err != nil || chainID == nil {
		return false
	}

	return chainID.Cmp(big.NewInt(expectedChainID)) == 0
}
