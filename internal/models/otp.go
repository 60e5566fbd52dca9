package models

import "time"

// RegistrationOTP is an emailed one-time code gating account creation.
type RegistrationOTP struct {
	ID     uint      `gorm:"primaryKey" json:"id"`
	Email  string    `gorm:"size:255;not null;index" json:"email"`
	OTP    string    `gorm:"size:6;not null" json:"-"`
	Expiry time.Time `gorm:"not null" json:"expiry"`
}

// PasswordResetOTP is an emailed one-time code gating a password reset.
// One row per email; re-requests replace the stored code.
type PasswordResetOTP struct {
	ID     uint      `gorm:"primaryKey" json:"id"`
	Email  string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	OTP    string    `gorm:"size:6;not null" json:"-"`
	Expiry time.Time `gorm:"not null" json:"expiry"`
}
