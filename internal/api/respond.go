package api

import (
	"github.com/gin-gonic/gin"

	"loantrack/internal/loan"
)

// Error codes surfaced in the response envelope.
const (
	codeValidation   = "VALIDATION_ERROR"
	codeDuplicate    = "DUPLICATE_ENTRY"
	codeCredentials  = "INVALID_CREDENTIALS"
	codeNotFound     = "NOT_FOUND"
	codeForbidden    = "FORBIDDEN"
	codeSelf         = "SELF_FORBIDDEN"
	codeInvalidRole  = "INVALID_ROLE"
	codeEmptyItem    = "EMPTY_ITEM_NAME"
	codeReturned     = "ALREADY_RETURNED"
	codeBadStatus    = "INVALID_STATUS"
	codeBadUpload    = "INVALID_UPLOAD"
	codeBadTransit   = "INVALID_TRANSITION"
	codeInternal     = "INTERNAL_SERVER_ERROR"
	codeUnauthorized = "UNAUTHENTICATED"
)

// Every response uses the same envelope: {success, data?, error?}.

func respondOK(c *gin.Context, status int, data gin.H) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func respondErr(c *gin.Context, status int, code, msg string) {
	c.JSON(status, gin.H{"success": false, "error": gin.H{"message": msg, "code": code}})
}

// loanView renders a loan with its owner summary and photos.
func loanView(l loan.Loan) gin.H {
	v := gin.H{
		"id":         l.ID,
		"userId":     l.UserID,
		"itemName":   l.ItemName,
		"loanedAt":   l.LoanedAt,
		"status":     l.Status,
		"createdAt":  l.CreatedAt,
		"updatedAt":  l.UpdatedAt,
		"loanPhotos": l.Photos,
		"user": gin.H{
			"id":    l.User.ID,
			"name":  l.User.Name,
			"email": l.User.Email,
		},
	}
	if l.Description != "" {
		v["description"] = l.Description
	}
	if l.LoanLocation != "" {
		v["loanLocation"] = l.LoanLocation
	}
	if l.ReturnLocation != "" {
		v["returnLocation"] = l.ReturnLocation
	}
	if l.ReturnedAt != nil {
		v["returnedAt"] = l.ReturnedAt
	}
	if l.Notes != "" {
		v["notes"] = l.Notes
	}
	return v
}
