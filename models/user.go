package models

import "gorm.io/gorm"

// User is the login identity. Username is the student ID and never changes.
type User struct {
	gorm.Model

	Username     string `gorm:"size:150;not null;uniqueIndex"`
	PasswordHash string `gorm:"not null"`
	IsStaff      bool   `gorm:"not null;default:false"`

	// Relationships
	Profile Profile `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Votes   []Vote  `gorm:"foreignKey:UserID"`
}

// Profile carries the student-facing identity, created together with its User.
type Profile struct {
	gorm.Model

	UserID    uint   `gorm:"not null;uniqueIndex"`
	StudentID string `gorm:"size:7;not null;uniqueIndex"`
	Nickname  string `gorm:"size:50;not null;default:'Student'"`
	Email     string `gorm:"size:254;not null;uniqueIndex"`
}
