package models

import "time"

// Roles a clinic account can carry. The role tag selects which surface a
// user sees; doctors additionally own a slot schedule keyed by their ID,
// patients own a medical record row.
const (
	RoleAdmin      = "admin"
	RoleDoctor     = "doctor"
	RolePatient    = "patient"
	RolePharmacist = "pharmacist"
)

type User struct {
	ID string `gorm:"primaryKey;size:64" json:"id"`

	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Phone        string `gorm:"size:20" json:"phone"`
	Role         string `gorm:"size:20;not null" json:"role"`

	// Staff accounts are created with a provisional password and must
	// change it on first login before doing anything else.
	MustChangePassword bool `gorm:"default:true" json:"must_change_password"`
	Active             bool `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
