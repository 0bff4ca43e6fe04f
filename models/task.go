package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	TaskStatusDraft     = "draft"
	TaskStatusScheduled = "scheduled"
	TaskStatusPublished = "published"
)

// Task is a sponsored mission users complete for a fixed coin reward.
type Task struct {
	ID          string `json:"id" gorm:"primaryKey"`
	Slug        string `json:"slug" gorm:"uniqueIndex;not null"`
	Name        string `json:"name" gorm:"not null"`
	Description string `json:"description" gorm:"type:text"`
	Category    string `json:"category" gorm:"index"`
	Reward      int64  `json:"reward" gorm:"not null"`
	Link        string `json:"link" gorm:"type:text"`

	// Publishing state — only published tasks are visible and claimable.
	Status    string     `json:"status" gorm:"default:'draft'"` // draft | scheduled | published
	PublishAt *time.Time `json:"publish_at,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// TaskClaim records that an IP completed a task. The unique (task, ip) index
// is the single source of truth for both "who completed this task" and
// "which tasks has this user completed".
type TaskClaim struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	TaskID    string    `json:"task_id" gorm:"uniqueIndex:idx_task_claims_task_ip;not null"`
	IP        string    `json:"ip" gorm:"uniqueIndex:idx_task_claims_task_ip;index;size:64;not null"`
	Reward    int64     `json:"reward" gorm:"not null"` // reward at claim time
	ClaimedAt time.Time `json:"claimed_at" gorm:"autoCreateTime"`
}
