package models

import "errors"

// Errors returned by Repository implementations. The settlement flow maps
// these onto caller-visible results.
var (
	ErrWalletNotFound     = errors.New("wallet not found")
	ErrInsufficientCredit = errors.New("insufficient wallet credit")
)
