package loan

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"loantrack/internal/user"
)

type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusReturned  Status = "RETURNED"
	StatusOverdue   Status = "OVERDUE"
	StatusCancelled Status = "CANCELLED"
)

// ValidStatus reports whether s names a recognized loan status.
func ValidStatus(s string) bool {
	switch Status(s) {
	case StatusActive, StatusReturned, StatusOverdue, StatusCancelled:
		return true
	}
	return false
}

// CanTransition reports whether a loan may move from one status to another.
// Transitions only run forward: RETURNED and CANCELLED are terminal.
func CanTransition(from, to Status) bool {
	if from == to {
		return false
	}
	switch from {
	case StatusActive:
		return to == StatusReturned || to == StatusOverdue || to == StatusCancelled
	case StatusOverdue:
		return to == StatusReturned || to == StatusCancelled
	}
	return false
}

type PhotoType string

const (
	PhotoTypeLoan   PhotoType = "LOAN"
	PhotoTypeReturn PhotoType = "RETURN"
)

type Loan struct {
	ID             string     `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         string     `gorm:"type:uuid;index;not null" json:"userId"`
	User           user.User  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	ItemName       string     `gorm:"size:200;not null" json:"itemName"`
	Description    string     `gorm:"size:1000" json:"description,omitempty"`
	LoanLocation   string     `gorm:"size:255" json:"loanLocation,omitempty"`
	ReturnLocation string     `gorm:"size:255" json:"returnLocation,omitempty"`
	LoanedAt       time.Time  `gorm:"not null" json:"loanedAt"`
	ReturnedAt     *time.Time `json:"returnedAt,omitempty"`
	Status         Status     `gorm:"type:varchar(10);not null;default:'ACTIVE';index" json:"status"`
	Notes          string     `gorm:"size:1000" json:"notes,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
	Photos         []Photo    `gorm:"foreignKey:LoanID;constraint:OnDelete:CASCADE" json:"loanPhotos"`
}

func (l *Loan) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

type Photo struct {
	ID         string    `gorm:"type:uuid;primaryKey" json:"id"`
	LoanID     string    `gorm:"type:uuid;index;not null" json:"loanId"`
	PhotoURL   string    `gorm:"size:500;not null" json:"photoUrl"`
	Type       PhotoType `gorm:"type:varchar(10);not null" json:"type"`
	Caption    string    `gorm:"size:255" json:"caption,omitempty"`
	UploadedAt time.Time `gorm:"not null" json:"uploadedAt"`
}

func (p *Photo) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.UploadedAt.IsZero() {
		p.UploadedAt = time.Now().UTC()
	}
	return nil
}
