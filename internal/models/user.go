package models

import "time"

// User represents a registered account.
type User struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	FirstName        string     `gorm:"size:100" json:"first_name"`
	LastName         string     `gorm:"size:100" json:"last_name"`
	Username         string     `gorm:"size:100;uniqueIndex;not null" json:"username"`
	Email            string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password         string     `gorm:"not null" json:"-"`
	IsVerified       bool       `gorm:"default:false" json:"is_verified"`
	TokenValid       bool       `gorm:"default:false" json:"-"`
	LoginCount       int        `gorm:"default:0" json:"-"`
	FirstLoginDate   *time.Time `json:"-"`
	RegistrationDate time.Time  `gorm:"autoCreateTime" json:"registration_date"`
}
