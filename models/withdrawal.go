package models

import "time"

const (
	WithdrawalStatusPending  = "pending"
	WithdrawalStatusApproved = "approved"
	WithdrawalStatusRejected = "rejected"
)

// WithdrawalRequest tracks a payout request through its lifecycle:
// pending -> approved | rejected, terminal thereafter. The balance is
// debited at approval time, not at request time.
type WithdrawalRequest struct {
	ID      string `json:"id" gorm:"primaryKey"`
	IP      string `json:"ip" gorm:"index;size:64;not null"`
	Address string `json:"address" gorm:"not null"` // destination wallet
	Amount  int64  `json:"amount" gorm:"not null"`
	Status  string `json:"status" gorm:"default:'pending';index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
