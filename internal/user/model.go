package user

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleBorrower Role = "BORROWER"
)

// ValidRole reports whether s names a recognized role.
func ValidRole(s string) bool {
	return s == string(RoleAdmin) || s == string(RoleBorrower)
}

type User struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string    `gorm:"size:120;not null" json:"name"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:128;not null" json:"-"`
	Role         Role      `gorm:"type:varchar(10);not null;default:'BORROWER'" json:"role"`
	IsApproved   bool      `gorm:"not null;default:false" json:"isApproved"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// EffectivelyApproved is the single derived approval predicate: admins count
// as approved regardless of the flag.
func (u *User) EffectivelyApproved() bool {
	return u.IsApproved || u.Role == RoleAdmin
}

// NormalizeEmail lowercases and trims an email address for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
