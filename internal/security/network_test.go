package security

import (
	"context"
	"errors"
	"math/big"
	"testing"
)

type stubChainIDReader struct {
	id  *big.Int
	err error
}

func (s *stubChainIDReader) ChainID(_ context.Context) (*big.Int, error) {
	return s.id, s.err
}

func TestValidateNetwork(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		reader   ChainIDReader
		expected int64
		want     bool
	}{
		{"matching chain", &stubChainIDReader{id: big.NewInt(56)}, 56, true},
		{"testnet instead of mainnet", &stubChainIDReader{id: big.NewInt(97)}, 56, false},
		{"ethereum mainnet", &stubChainIDReader{id: big.NewInt(1)}, 56, false},
		{"query failure", &stubChainIDReader{err: errors.New("rpc down")}, 56, false},
		{"nil chain id", &stubChainIDReader{}, 56, false},
		{"nil reader", nil, 56, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateNetwork(ctx, tt.reader, tt.expected); got != tt.want {
				t.Errorf("ValidateNetwork() = %v, want %v", got, tt.want)
			}
		})
	}
}

// The reader is queried on every call; a network switch between calls
// must be observed.
func TestValidateNetwork_NotCached(t *testing.T) {
	ctx := context.Background()
	reader := &stubChainIDReader{id: big.NewInt(56)}

	if !ValidateNetwork(ctx, reader, 56) {
		t.Fatal("expected valid network")
	}

	reader.id = big.NewInt(1)
	if ValidateNetwork(ctx, reader, 56) {
		t.Error("network switch must be detected on the next call")
	}
}
