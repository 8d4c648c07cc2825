package security

import "errors"

// Error taxonomy for the transaction-safety layer. Validation errors are
// resolved locally and never reach the network layer; contract reverts
// are passed through opaque by the orchestrator.
var (
	// ErrNotConnected indicates no active connection or resolved account.
	ErrNotConnected = errors.New("wallet not connected")

	// ErrWrongNetwork indicates the active connection is on an
	// unexpected chain.
	ErrWrongNetwork = errors.New("wrong network")

	// ErrThrottled indicates a write was attempted again within the
	// cooldown window for the same (account, operation) pair.
	ErrThrottled = errors.New("please wait before making another transaction")

	// ErrInvalidAmount indicates the amount failed sanitization, parsing
	// or bounds validation.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInsufficientAllowance indicates a transfer-in operation was
	// attempted while allowance < requested amount.
	ErrInsufficientAllowance = errors.New("insufficient allowance")

	// ErrMalformedTransaction indicates the descriptor returned by a
	// submitted write failed shape validation.
	ErrMalformedTransaction = errors.New("malformed transaction")
)
