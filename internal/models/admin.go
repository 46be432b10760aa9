package models

import (
	"time"

	"gorm.io/gorm"
)

// AdminUser authenticates the deposit-approval surface. ChatID, when set,
// receives admin alerts from the dispatcher.
type AdminUser struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Email        string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string         `gorm:"size:255;not null" json:"-"`
	Role         string         `gorm:"size:20;not null;default:'ADMIN'" json:"role"`
	ChatID       int64          `gorm:"default:0" json:"chat_id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (AdminUser) TableName() string { return "admin_users" }
