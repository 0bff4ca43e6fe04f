package services

import "errors"

// Rejection reasons returned by ledger and moderation operations. All of
// these are recoverable outcomes surfaced to the caller; only store I/O
// failures propagate as plain wrapped errors.
var (
	ErrNotFound            = errors.New("not found")
	ErrAlreadyClaimed      = errors.New("already claimed")
	ErrLimitExceeded       = errors.New("coupon usage limit reached")
	ErrExpired             = errors.New("coupon expired")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrBelowMinimum        = errors.New("amount below minimum withdrawal")
	ErrBlocked             = errors.New("ip is blocked")
	ErrNotReady            = errors.New("task timer has not finished")
	ErrWithdrawDisabled    = errors.New("withdrawals are disabled")
	ErrNotPending          = errors.New("withdrawal request is not pending")
)
