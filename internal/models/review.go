package models

import "time"

// Review is one persisted code review. Immutable after creation.
// AIResult holds the JSON-serialized review items and is never empty:
// adapter failures are stored as error-shaped items, not as NULLs.
type Review struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"index;size:255;not null" json:"email"`
	Code         string    `gorm:"type:text;not null" json:"code"`
	StaticResult string    `gorm:"type:text" json:"static_result"`
	AIResult     string    `gorm:"type:text" json:"ai_result"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
}

func (Review) TableName() string { return "reviews" }
