package domain

import (
	"errors"

	"github.com/pshBlack/bank-backend/pkg/domain/money"
)

var (
	// ErrInvalidAmount is returned when an amount is malformed or not
	// strictly positive. It aliases the money package sentinel so handlers
	// can match parse failures and business rejections with one errors.Is.
	ErrInvalidAmount = money.ErrInvalidAmount

	// ErrSameAccount is returned when a transfer names the same account as
	// source and destination.
	ErrSameAccount = errors.New("cannot transfer to same account")

	// ErrAccountNotFound is returned when a referenced account does not exist.
	ErrAccountNotFound = errors.New("account not found")

	// ErrInsufficientFunds is returned when a debit would push a balance
	// below zero.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrStorageUnavailable is returned when the persistence layer could not
	// complete an atomic scope (connection loss, store-detected deadlock).
	// Atomicity guarantees no partial effect occurred, so it is the only
	// failure a caller may retry without changing the input.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
