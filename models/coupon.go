package models

import (
	"time"

	"gorm.io/gorm"
)

// Coupon is a redeemable code with a usage limit and an expiry date.
// Codes are stored uppercase; lookups normalize the same way.
type Coupon struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	Code       string    `json:"code" gorm:"uniqueIndex;size:32;not null"`
	Reward     int64     `json:"reward" gorm:"not null"`
	UsageLimit int       `json:"limit" gorm:"not null"`
	UsedCount  int       `json:"used_count" gorm:"not null;default:0"`
	ExpiresAt  time.Time `json:"expires_at" gorm:"not null"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// CouponRedemption records one redemption by one IP. UsedCount on the coupon
// is kept equal to the number of redemption rows in the same transaction.
type CouponRedemption struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	CouponID   string    `json:"coupon_id" gorm:"uniqueIndex:idx_coupon_redemptions_coupon_ip;not null"`
	IP         string    `json:"ip" gorm:"uniqueIndex:idx_coupon_redemptions_coupon_ip;index;size:64;not null"`
	Reward     int64     `json:"reward" gorm:"not null"`
	RedeemedAt time.Time `json:"redeemed_at" gorm:"autoCreateTime"`
}
