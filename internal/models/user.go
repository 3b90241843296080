package models

import "time"

// User represents a customer keyed by mobile phone number.
type User struct {
	BaseModel
	MobilePhone  string `gorm:"uniqueIndex" json:"mobile_phone"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	PasswordHash string `json:"-"`
	BonusPoints  int    `json:"bonus_points"`
	IsVerified   bool   `json:"is_verified"`
	IsSuperuser  bool   `json:"is_superuser"`

	// One active OTP per user; each new request overwrites the previous code.
	OTPCode      string    `json:"-"`
	OTPExpiresAt time.Time `json:"-"`
}
