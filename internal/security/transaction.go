package security

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
)

// ValidateAddress reports whether s is a syntactically valid hex address.
func ValidateAddress(s string) bool {
	return common.IsHexAddress(s)
}

// ValidateTransaction checks the shape of the descriptor returned by a
// submitted write before the confirmation wait. This is a defense
// against a compromised provider handing back a malformed transaction:
// the descriptor must exist, carry a real destination address, and carry
// a non-negative value.
func ValidateTransaction(tx *ethtypes.Transaction) error {
	if tx == nil {
		return fmt.Errorf("%w: missing transaction descriptor", ErrMalformedTransaction)
	}

	to := tx.To()
	if to == nil {
		return fmt.Errorf("%w: missing recipient address", ErrMalformedTransaction)
	}
	if *to == (common.Address{}) {
		return fmt.Errorf("%w: zero recipient address", ErrMalformedTransaction)
	}

	if v := tx.Value(); v != nil && v.Sign() < 0 {
		return fmt.Errorf("%w: negative transaction value", ErrMalformedTransaction)
	}

	return nil
}
