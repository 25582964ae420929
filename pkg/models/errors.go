package models

import "errors"

// Domain errors returned by account operations and the record store.
// Callers match on these with errors.Is; the CLI maps them to messages.
var (
	// ErrInvalidAmount rejects non-positive transaction amounts.
	ErrInvalidAmount = errors.New("amount must be greater than zero")

	// ErrOverdraftLimitExceeded rejects a chequing withdrawal that would
	// push the balance past the overdraft limit.
	ErrOverdraftLimitExceeded = errors.New("withdrawal exceeds overdraft limit")

	// ErrBelowMinimumBalance rejects a savings withdrawal that would drop
	// the balance below the account minimum.
	ErrBelowMinimumBalance = errors.New("withdrawal would drop balance below minimum")

	// ErrInsufficientFunds rejects an investment withdrawal the balance
	// cannot cover, management fee included.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrUnknownAccountType marks an account row whose type tag is not one
	// of the supported variants.
	ErrUnknownAccountType = errors.New("unknown account type")

	// ErrOrphanedAccount marks an account row whose client number does not
	// exist in the client directory.
	ErrOrphanedAccount = errors.New("account references unknown client")

	// ErrUnsupportedOperation rejects a transaction operation that is
	// neither deposit nor withdraw.
	ErrUnsupportedOperation = errors.New("unsupported operation")

	// ErrAccountNotFound means no loaded account matches the requested number.
	ErrAccountNotFound = errors.New("account not found")

	// ErrClientNotFound means no loaded client matches the requested number.
	ErrClientNotFound = errors.New("client not found")

	// ErrStoreUnavailable means a backing data file is missing or unreadable.
	ErrStoreUnavailable = errors.New("record store unavailable")

	// ErrPersistenceFailure means a confirmed transaction could not be
	// written back to the store.
	ErrPersistenceFailure = errors.New("could not persist account")
)
