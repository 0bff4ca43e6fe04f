package models

import "time"

// UserProfile is the per-visitor ledger record. The client IP acts as the
// primary key — one profile per address, created on first contact.
type UserProfile struct {
	IP             string     `json:"ip" gorm:"primaryKey;size:64"`
	Coins          int64      `json:"coins" gorm:"not null;default:0"`
	LastDailyBonus *time.Time `json:"last_daily_bonus,omitempty"`
	IsBlocked      bool       `json:"is_blocked" gorm:"default:false"`
	IsFirstVisit   bool       `json:"is_first_visit" gorm:"default:true"`
	ReferralCode   string     `json:"referral_code" gorm:"uniqueIndex;size:16;not null"`
	ReferredBy     *string    `json:"referred_by,omitempty" gorm:"size:16"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}
