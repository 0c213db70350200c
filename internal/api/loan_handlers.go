package api

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"loantrack/internal/auth"
	"loantrack/internal/db"
	"loantrack/internal/events"
	"loantrack/internal/loan"
	"loantrack/internal/upload"
	"loantrack/internal/user"
)

func loanQuery() *gorm.DB {
	return db.DB.
		Preload("User").
		Preload("Photos", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("uploaded_at ASC")
		})
}

func formFiles(c *gin.Context) []*multipart.FileHeader {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	return form.File["photos"]
}

func uploadErrStatus(err error) (int, string) {
	switch {
	case errors.Is(err, upload.ErrTooManyFiles),
		errors.Is(err, upload.ErrFileTooLarge),
		errors.Is(err, upload.ErrBadFileType):
		return http.StatusBadRequest, codeBadUpload
	}
	return http.StatusInternalServerError, codeInternal
}

// GET /api/loans
// Non-admins are always scoped to their own loans; admins see everything,
// optionally filtered by status. Unknown status values are ignored.
func ListLoansHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, _ := auth.GetPrincipal(c)

		page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
		if err != nil || page < 1 {
			page = 1
		}
		limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
		if err != nil || limit < 1 {
			limit = 10
		}
		if limit > 100 {
			limit = 100
		}

		applyScope := func(tx *gorm.DB) *gorm.DB {
			if p.Role != user.RoleAdmin {
				tx = tx.Where("user_id = ?", p.ID)
			}
			if status := c.Query("status"); loan.ValidStatus(status) {
				tx = tx.Where("status = ?", status)
			}
			return tx
		}

		var total int64
		if err := applyScope(db.DB.Model(&loan.Loan{})).Count(&total).Error; err != nil {
			respondErr(c, http.StatusInternalServerError, codeInternal, "Kunne ikke hente lån")
			return
		}

		var loans []loan.Loan
		if err := applyScope(loanQuery()).
			Order("created_at DESC").
			Offset((page - 1) * limit).
			Limit(limit).
			Find(&loans).Error; err != nil {
			respondErr(c, http.StatusInternalServerError, codeInternal, "Kunne ikke hente lån")
			return
		}

		views := make([]gin.H, 0, len(loans))
		for _, l := range loans {
			views = append(views, loanView(l))
		}
		pages := int((total + int64(limit) - 1) / int64(limit))
		respondOK(c, http.StatusOK, gin.H{
			"loans": views,
			"pagination": gin.H{
				"page":  page,
				"limit": limit,
				"total": total,
				"pages": pages,
			},
		})
	}
}

// GET /api/loans/:id
func GetLoanHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var l loan.Loan
		if err := loanQuery().First(&l, "id = ?", c.Param("id")).Error; err != nil {
			respondErr(c, http.StatusNotFound, codeNotFound, "Lån ikke funnet")
			return
		}
		p, _ := auth.GetPrincipal(c)
		if p.Role != user.RoleAdmin && l.UserID != p.ID {
			respondErr(c, http.StatusForbidden, codeForbidden, "Ingen tilgang til dette lånet")
			return
		}
		respondOK(c, http.StatusOK, gin.H{"loan": loanView(l)})
	}
}

// POST /api/loans  [approved borrower]
func CreateLoanHandler(uploads *upload.Saver, hub *events.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, _ := auth.GetPrincipal(c)

		itemName := strings.TrimSpace(c.PostForm("itemName"))
		if itemName == "" {
			respondErr(c, http.StatusBadRequest, codeEmptyItem, "Navn på utstyr er påkrevd")
			return
		}
		files := formFiles(c)
		// Reject bad uploads before anything is persisted.
		if err := uploads.Validate(files); err != nil {
			status, code := uploadErrStatus(err)
			respondErr(c, status, code, err.Error())
			return
		}

		l := loan.Loan{
			UserID:       p.ID,
			ItemName:     itemName,
			Description:  strings.TrimSpace(c.PostForm("description")),
			LoanLocation: strings.TrimSpace(c.PostForm("loanLocation")),
			LoanedAt:     time.Now().UTC(),
			Status:       loan.StatusActive,
		}
		if err := db.DB.Create(&l).Error; err != nil {
			respondErr(c, http.StatusInternalServerError, codeInternal, "Kunne ikke opprette lån")
			return
		}

		if len(files) > 0 {
			urls, err := uploads.SavePhotos(c, files)
			if err != nil {
				status, code := uploadErrStatus(err)
				respondErr(c, status, code, err.Error())
				return
			}
			for _, url := range urls {
				photo := loan.Photo{
					LoanID:   l.ID,
					PhotoURL: url,
					Type:     loan.PhotoTypeLoan,
					Caption:  "Lånt utstyr: " + itemName,
				}
				if err := db.DB.Create(&photo).Error; err != nil {
					respondErr(c, http.StatusInternalServerError, codeInternal, "Kunne ikke lagre bilde")
					return
				}
			}
		}

		var created loan.Loan
		if err := loanQuery().First(&created, "id = ?", l.ID).Error; err != nil {
			respondErr(c, http.StatusInternalServerError, codeInternal, "Kunne ikke hente lån")
			return
		}
		hub.Publish(events.Event{
			Type:     "loan_created",
			LoanID:   created.ID,
			ItemName: created.ItemName,
			UserID:   created.UserID,
			Status:   string(created.Status),
		})
		respondOK(c, http.StatusCreated, gin.H{"loan": loanView(created), "message": "Lån registrert"})
	}
}

// PUT /api/loans/:id/return  [owner or admin]
func ReturnLoanHandler(uploads *upload.Saver, hub *events.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		var l loan.Loan
		if err := db.DB.First(&l, "id = ?", c.Param("id")).Error; err != nil {
			respondErr(c, http.StatusNotFound, codeNotFound, "Lån ikke funnet")
			return
		}
		p, _ := auth.GetPrincipal(c)
		if p.Role != user.RoleAdmin && l.UserID != p.ID {
			respondErr(c, http.StatusForbidden, codeForbidden, "Ingen tilgang til å returnere dette lånet")
			return
		}
		if l.Status == loan.StatusCancelled {
			respondErr(c, http.StatusBadRequest, codeBadTransit, "Ugyldig statusovergang")
			return
		}
		files := formFiles(c)
		if err := uploads.Validate(files); err != nil {
			status, code := uploadErrStatus(err)
			respondErr(c, status, code, err.Error())
			return
		}

		returnLocation := strings.TrimSpace(c.PostForm("returnLocation"))
		notes := strings.TrimSpace(c.PostForm("notes"))
		if err := loan.MarkReturned(db.DB, l.ID, returnLocation, notes); err != nil {
			if errors.Is(err, loan.ErrAlreadyReturned) {
				respondErr(c, http.StatusBadRequest, codeReturned, "Dette lånet er allerede returnert")
				return
			}
			respondErr(c, http.StatusInternalServerError, codeInternal, "Kunne ikke registrere retur")
			return
		}

		if len(files) > 0 {
			urls, err := uploads.SavePhotos(c, files)
			if err != nil {
				status, code := uploadErrStatus(err)
				respondErr(c, status, code, err.Error())
				return
			}
			for _, url := range urls {
				photo := loan.Photo{
					LoanID:   l.ID,
					PhotoURL: url,
					Type:     loan.PhotoTypeReturn,
					Caption:  "Returnert utstyr: " + l.ItemName,
				}
				if err := db.DB.Create(&photo).Error; err != nil {
					respondErr(c, http.StatusInternalServerError, codeInternal, "Kunne ikke lagre bilde")
					return
				}
			}
		}

		var updated loan.Loan
		if err := loanQuery().First(&updated, "id = ?", l.ID).Error; err != nil {
			respondErr(c, http.StatusInternalServerError, codeInternal, "Kunne ikke hente lån")
			return
		}
		hub.Publish(events.Event{
			Type:     "loan_returned",
			LoanID:   updated.ID,
			ItemName: updated.ItemName,
			UserID:   updated.UserID,
			Status:   string(updated.Status),
		})
		respondOK(c, http.StatusOK, gin.H{"loan": loanView(updated), "message": "Retur registrert"})
	}
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// PUT /api/loans/:id/status  [admin only]
// Explicit override for the states nothing else produces (OVERDUE,
// CANCELLED). Transitions only run forward.
func UpdateLoanStatusHandler(hub *events.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil || !loan.ValidStatus(req.Status) {
			respondErr(c, http.StatusBadRequest, codeBadStatus, "Ugyldig status")
			return
		}
		var l loan.Loan
		if err := db.DB.First(&l, "id = ?", c.Param("id")).Error; err != nil {
			respondErr(c, http.StatusNotFound, codeNotFound, "Lån ikke funnet")
			return
		}
		to := loan.Status(req.Status)
		if !loan.CanTransition(l.Status, to) {
			respondErr(c, http.StatusBadRequest, codeBadTransit, "Ugyldig statusovergang")
			return
		}
		if err := loan.SetStatus(db.DB, l.ID, l.Status, to); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				respondErr(c, http.StatusBadRequest, codeBadTransit, "Ugyldig statusovergang")
				return
			}
			respondErr(c, http.StatusInternalServerError, codeInternal, "Kunne ikke oppdatere status")
			return
		}
		var updated loan.Loan
		if err := loanQuery().First(&updated, "id = ?", l.ID).Error; err != nil {
			respondErr(c, http.StatusInternalServerError, codeInternal, "Kunne ikke hente lån")
			return
		}
		hub.Publish(events.Event{
			Type:     "loan_status",
			LoanID:   updated.ID,
			ItemName: updated.ItemName,
			UserID:   updated.UserID,
			Status:   string(updated.Status),
		})
		respondOK(c, http.StatusOK, gin.H{"loan": loanView(updated)})
	}
}

// GET /api/loans/stats  [admin only]
func StatsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var total int64
		if err := db.DB.Model(&loan.Loan{}).Count(&total).Error; err != nil {
			respondErr(c, http.StatusInternalServerError, codeInternal, "Kunne ikke hente statistikk")
			return
		}

		byStatus := make(map[loan.Status]int64)
		var rows []struct {
			Status loan.Status
			N      int64
		}
		if err := db.DB.Model(&loan.Loan{}).
			Select("status, COUNT(*) AS n").
			Group("status").
			Scan(&rows).Error; err != nil {
			respondErr(c, http.StatusInternalServerError, codeInternal, "Kunne ikke hente statistikk")
			return
		}
		for _, row := range rows {
			byStatus[row.Status] = row.N
		}

		var borrowers, approved int64
		if err := db.DB.Model(&user.User{}).
			Where("role = ?", user.RoleBorrower).
			Count(&borrowers).Error; err != nil {
			respondErr(c, http.StatusInternalServerError, codeInternal, "Kunne ikke hente statistikk")
			return
		}
		if err := db.DB.Model(&user.User{}).
			Where("role = ? AND is_approved = ?", user.RoleBorrower, true).
			Count(&approved).Error; err != nil {
			respondErr(c, http.StatusInternalServerError, codeInternal, "Kunne ikke hente statistikk")
			return
		}

		respondOK(c, http.StatusOK, gin.H{
			"loans": gin.H{
				"total":     total,
				"active":    byStatus[loan.StatusActive],
				"returned":  byStatus[loan.StatusReturned],
				"overdue":   byStatus[loan.StatusOverdue],
				"cancelled": byStatus[loan.StatusCancelled],
			},
			"users": gin.H{
				"total":    borrowers,
				"approved": approved,
				"pending":  borrowers - approved,
			},
		})
	}
}
