// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// User represents a registered author or reader.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"size:254;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Bio          *string   `gorm:"type:text" json:"bio"`
	Image        *string   `gorm:"size:2048" json:"image"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserFollow is a directed follower -> followee edge.
type UserFollow struct {
	FollowerID uint      `gorm:"primaryKey;autoIncrement:false"`
	FolloweeID uint      `gorm:"primaryKey;autoIncrement:false;index"`
	CreatedAt  time.Time
	Follower   User `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE" json:"-"`
	Followee   User `gorm:"foreignKey:FolloweeID;constraint:OnDelete:CASCADE" json:"-"`
}

// Profile is the public view of a user relative to a viewer.
type Profile struct {
	Username  string  `json:"username"`
	Bio       *string `json:"bio"`
	Image     *string `json:"image"`
	Following bool    `json:"following"`
}
