package storage

import "errors"

var (
	// ErrAccountNotFound is returned when a ledger account is not found
	ErrAccountNotFound = errors.New("ledger account not found")

	// ErrInsufficientFunds is returned when a reserve or debit would
	// exceed the account's available balance
	ErrInsufficientFunds = errors.New("insufficient media tokens")
)
