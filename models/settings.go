package models

import "time"

// AppSettings is the process-wide configuration singleton (row id 1).
// Mutated only by the admin panel, read by every earning operation that
// depends on it.
type AppSettings struct {
	ID              uint      `json:"-" gorm:"primaryKey"`
	WithdrawEnabled bool      `json:"withdraw_enabled" gorm:"default:false"`
	MinWithdraw     int64     `json:"min_withdraw" gorm:"not null;default:100"`
	DailyBonus      int64     `json:"daily_bonus" gorm:"not null;default:10"`
	ReferralBonus   int64     `json:"referral_bonus" gorm:"not null;default:50"`
	UpdatedAt       time.Time `json:"updated_at"`
}

const (
	AdLocationMain    = "main"
	AdLocationTasks   = "tasks"
	AdLocationGames   = "games"
	AdLocationCoupons = "coupons"
	AdLocationBonus   = "bonus"
	AdLocationAll     = "all"
)

// AdPlacement is an injected ad slot targeted at one section of the front
// end (or all of them). Code is raw HTML/script pasted by the operator;
// CreativeURL points at an uploaded image, if any.
type AdPlacement struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	Code        string    `json:"code" gorm:"type:text"`
	Location    string    `json:"location" gorm:"default:'main'"`
	Enabled     bool      `json:"enabled" gorm:"default:true"`
	CreativeURL string    `json:"creative_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// OperatorSession is the persisted admin login flag (row id 1). It survives
// restarts on purpose — logout is the only thing that clears it.
type OperatorSession struct {
	ID        uint      `json:"-" gorm:"primaryKey"`
	LoggedIn  bool      `json:"logged_in" gorm:"default:false"`
	UpdatedAt time.Time `json:"updated_at"`
}
