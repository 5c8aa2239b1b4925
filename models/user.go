package models

import "time"

// User is an authenticated identity. Sales reference their author by user.
type User struct {
	ID           uint   `gorm:"primaryKey"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	FirstName    string `gorm:"not null"`
	LastName     string `gorm:"not null"`
	IsActive     bool   `gorm:"not null"`
	DateJoined   time.Time
}

func (u *User) TableName() string {
	return "users"
}
