package models

import "time"

// Account is a registered user. Rows are created at signup and never
// updated or deleted; email and contact are each globally unique.
type Account struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:200;not null" json:"name"`
	Email     string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password  string    `gorm:"size:255;not null" json:"-"` // bcrypt hash, never plaintext
	Contact   string    `gorm:"uniqueIndex;size:100;not null" json:"contact"`
	CreatedAt time.Time `json:"created_at"`
}

func (Account) TableName() string { return "accounts" }
