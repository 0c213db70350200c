package loan

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrAlreadyReturned = errors.New("loan already returned")

// MarkReturned flips a loan to RETURNED with a single conditional update.
// The status guard lives in the WHERE clause, so two concurrent return
// requests cannot both land: the loser sees zero affected rows and gets
// ErrAlreadyReturned. Only ACTIVE and OVERDUE loans are returnable.
func MarkReturned(db *gorm.DB, loanID, returnLocation, notes string) error {
	now := time.Now().UTC()
	res := db.Model(&Loan{}).
		Where("id = ? AND status IN ?", loanID, []Status{StatusActive, StatusOverdue}).
		Updates(map[string]interface{}{
			"status":          StatusReturned,
			"returned_at":     now,
			"return_location": returnLocation,
			"notes":           notes,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAlreadyReturned
	}
	return nil
}

// SetStatus moves a loan to a new status, guarded on the status it was read
// at so concurrent overrides cannot skip the forward-only check. ReturnedAt
// is set when the target is RETURNED, keeping the returnedAt-iff-RETURNED
// invariant.
func SetStatus(db *gorm.DB, loanID string, from, to Status) error {
	updates := map[string]interface{}{"status": to}
	if to == StatusReturned {
		updates["returned_at"] = time.Now().UTC()
	}
	res := db.Model(&Loan{}).
		Where("id = ? AND status = ?", loanID, from).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
