package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	GameTypeMatch   = "match"
	GameTypePuzzle  = "puzzle"
	GameTypeClicker = "clicker"
)

// MiniGame is a catalog entry for an embedded mini-game. Scoring happens
// entirely client-side; the backend only checks the game exists and is
// enabled before crediting whatever the game reports.
type MiniGame struct {
	ID         string `json:"id" gorm:"primaryKey"`
	Name       string `json:"name" gorm:"not null"`
	Type       string `json:"type" gorm:"not null"` // match | puzzle | clicker
	BaseReward int64  `json:"base_reward" gorm:"not null"`
	Enabled    bool   `json:"enabled" gorm:"default:true"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
