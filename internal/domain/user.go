package domain

import (
	"strings"
	"time"
)

type Role string

const (
	RoleSME Role = "SME"
	RoleCA  Role = "CA"
)

func (r Role) Valid() bool {
	return r == RoleSME || r == RoleCA
}

// User represents a portal account, either an SME client or a chartered accountant
type User struct {
	ID           string    `gorm:"primaryKey;size:64" json:"id" validate:"required"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email" validate:"required"`
	Password     string    `gorm:"-" json:"password,omitempty"` // input only, not stored in db
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         Role      `gorm:"size:8;not null;index" json:"role" validate:"required,oneof=SME CA"`
	Name         string    `gorm:"not null" json:"name" validate:"required"`
	Company      *string   `json:"company,omitempty"`
	CreatedAt    time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt    time.Time `json:"-"`
}

// SafeUser represents a user without sensitive information
type SafeUser struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	Name      string    `json:"name"`
	Company   *string   `json:"company,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToSafeUser converts a User to a SafeUser
func (u *User) ToSafeUser() SafeUser {
	return SafeUser{
		ID:        u.ID,
		Email:     u.Email,
		Role:      u.Role,
		Name:      u.Name,
		Company:   u.Company,
		CreatedAt: u.CreatedAt,
	}
}

// CompanyName returns the company or an empty string when absent.
func (u *User) CompanyName() string {
	if u.Company == nil {
		return ""
	}
	return *u.Company
}

// CompareByName orders users by name ignoring case, then by the exact name.
func CompareByName(a, b User) int {
	if c := strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
		return c
	}
	return strings.Compare(a.Name, b.Name)
}
