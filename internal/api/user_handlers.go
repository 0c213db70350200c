package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"loantrack/internal/auth"
	"loantrack/internal/db"
	"loantrack/internal/loan"
	"loantrack/internal/upload"
	"loantrack/internal/user"
)

// GET /api/users  [admin only]
func ListUsersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var users []user.User
		if err := db.DB.Order("created_at DESC").Find(&users).Error; err != nil {
			respondErr(c, http.StatusInternalServerError, codeInternal, "Kunne ikke hente brukere")
			return
		}

		var counts []struct {
			UserID string
			N      int64
		}
		if err := db.DB.Model(&loan.Loan{}).
			Select("user_id, COUNT(*) AS n").
			Group("user_id").
			Scan(&counts).Error; err != nil {
			respondErr(c, http.StatusInternalServerError, codeInternal, "Kunne ikke hente lånetall")
			return
		}
		loanCounts := make(map[string]int64, len(counts))
		for _, row := range counts {
			loanCounts[row.UserID] = row.N
		}

		result := make([]gin.H, 0, len(users))
		for _, u := range users {
			result = append(result, gin.H{
				"id":         u.ID,
				"name":       u.Name,
				"email":      u.Email,
				"role":       u.Role,
				"isApproved": u.IsApproved,
				"createdAt":  u.CreatedAt,
				"updatedAt":  u.UpdatedAt,
				"loanCount":  loanCounts[u.ID],
			})
		}
		respondOK(c, http.StatusOK, gin.H{"users": result})
	}
}

// GET /api/users/pending  [admin only]
func ListPendingUsersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var users []user.User
		if err := db.DB.
			Where("role = ? AND is_approved = ?", user.RoleBorrower, false).
			Order("created_at DESC").
			Find(&users).Error; err != nil {
			respondErr(c, http.StatusInternalServerError, codeInternal, "Kunne ikke hente brukere")
			return
		}
		respondOK(c, http.StatusOK, gin.H{"users": users})
	}
}

type ApproveUserRequest struct {
	Approved *bool `json:"approved"`
}

// PUT /api/users/:id/approve  [admin only]
func ApproveUserHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ApproveUserRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Approved == nil {
			respondErr(c, http.StatusBadRequest, codeValidation, "approved må være true eller false")
			return
		}
		var u user.User
		if err := db.DB.First(&u, "id = ?", c.Param("id")).Error; err != nil {
			respondErr(c, http.StatusNotFound, codeNotFound, "Bruker ikke funnet")
			return
		}
		// Setting the same value twice is a no-op success.
		if err := db.DB.Model(&u).Update("is_approved", *req.Approved).Error; err != nil {
			respondErr(c, http.StatusInternalServerError, codeInternal, "Kunne ikke oppdatere bruker")
			return
		}
		respondOK(c, http.StatusOK, gin.H{"user": u})
	}
}

type UpdateRoleRequest struct {
	Role string `json:"role"`
}

// PUT /api/users/:id/role  [admin only]
func UpdateUserRoleHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateRoleRequest
		if err := c.ShouldBindJSON(&req); err != nil || !user.ValidRole(req.Role) {
			respondErr(c, http.StatusBadRequest, codeInvalidRole, "Ugyldig rolle")
			return
		}
		var u user.User
		if err := db.DB.First(&u, "id = ?", c.Param("id")).Error; err != nil {
			respondErr(c, http.StatusNotFound, codeNotFound, "Bruker ikke funnet")
			return
		}
		p, _ := auth.GetPrincipal(c)
		if u.ID == p.ID {
			respondErr(c, http.StatusBadRequest, codeSelf, "Du kan ikke endre din egen rolle")
			return
		}
		if err := db.DB.Model(&u).Update("role", user.Role(req.Role)).Error; err != nil {
			respondErr(c, http.StatusInternalServerError, codeInternal, "Kunne ikke oppdatere bruker")
			return
		}
		respondOK(c, http.StatusOK, gin.H{"user": u})
	}
}

// DELETE /api/users/:id  [admin only]
// Deletes the user and, by ownership, all loans and photos. Photo files are
// removed from disk best-effort before the rows go.
func DeleteUserHandler(uploads *upload.Saver) gin.HandlerFunc {
	return func(c *gin.Context) {
		var u user.User
		if err := db.DB.First(&u, "id = ?", c.Param("id")).Error; err != nil {
			respondErr(c, http.StatusNotFound, codeNotFound, "Bruker ikke funnet")
			return
		}
		p, _ := auth.GetPrincipal(c)
		if u.ID == p.ID {
			respondErr(c, http.StatusBadRequest, codeSelf, "Du kan ikke slette deg selv")
			return
		}

		var photos []loan.Photo
		if err := db.DB.
			Joins("JOIN loans ON loans.id = photos.loan_id").
			Where("loans.user_id = ?", u.ID).
			Find(&photos).Error; err == nil {
			for _, ph := range photos {
				uploads.Delete(ph.PhotoURL)
			}
		}

		if err := db.DB.
			Where("loan_id IN (?)", db.DB.Model(&loan.Loan{}).Select("id").Where("user_id = ?", u.ID)).
			Delete(&loan.Photo{}).Error; err != nil {
			respondErr(c, http.StatusInternalServerError, codeInternal, "Kunne ikke slette bruker")
			return
		}
		if err := db.DB.Where("user_id = ?", u.ID).Delete(&loan.Loan{}).Error; err != nil {
			respondErr(c, http.StatusInternalServerError, codeInternal, "Kunne ikke slette bruker")
			return
		}
		if err := db.DB.Delete(&u).Error; err != nil {
			respondErr(c, http.StatusInternalServerError, codeInternal, "Kunne ikke slette bruker")
			return
		}
		respondOK(c, http.StatusOK, gin.H{"message": "Bruker slettet"})
	}
}
