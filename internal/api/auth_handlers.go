package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"loantrack/internal/auth"
	"loantrack/internal/config"
	"loantrack/internal/db"
	"loantrack/internal/user"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /api/auth/register
func RegisterHandler(cfg *config.Config, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondErr(c, http.StatusBadRequest, codeValidation, "Ugyldig forespørsel")
			return
		}
		if req.Name == "" || req.Email == "" || req.Password == "" {
			respondErr(c, http.StatusBadRequest, codeValidation, "Alle felt er påkrevd")
			return
		}
		email := user.NormalizeEmail(req.Email)
		if !user.ValidEmail(email) {
			respondErr(c, http.StatusBadRequest, codeValidation, "Ugyldig email format")
			return
		}
		if ok, msg := user.ValidatePassword(req.Password); !ok {
			respondErr(c, http.StatusBadRequest, codeValidation, msg)
			return
		}

		var existing user.User
		if err := db.DB.First(&existing, "email = ?", email).Error; err == nil {
			respondErr(c, http.StatusConflict, codeDuplicate, "En bruker med denne email adressen eksisterer allerede")
			return
		}

		pwHash, err := user.HashPassword(req.Password)
		if err != nil {
			respondErr(c, http.StatusInternalServerError, codeInternal, "Kunne ikke opprette bruker")
			return
		}
		// New accounts always start as unapproved borrowers.
		u := user.User{
			Name:         strings.TrimSpace(req.Name),
			Email:        email,
			PasswordHash: pwHash,
			Role:         user.RoleBorrower,
			IsApproved:   false,
		}
		if err := db.DB.Create(&u).Error; err != nil {
			if strings.Contains(strings.ToLower(err.Error()), "unique") {
				respondErr(c, http.StatusConflict, codeDuplicate, "En bruker med denne email adressen eksisterer allerede")
				return
			}
			respondErr(c, http.StatusInternalServerError, codeInternal, "Kunne ikke opprette bruker")
			return
		}

		token, err := auth.GenerateJWT(cfg.Server.JWTSecret, u.ID, u.Email, string(u.Role), auth.TokenDuration)
		if err != nil {
			respondErr(c, http.StatusInternalServerError, codeInternal, "Kunne ikke generere token")
			return
		}
		_ = auth.SetSession(rdb, u.ID, token, auth.TokenDuration)
		respondOK(c, http.StatusCreated, gin.H{"user": u, "token": token})
	}
}

// POST /api/auth/login
func LoginHandler(cfg *config.Config, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
			respondErr(c, http.StatusBadRequest, codeValidation, "Email og passord er påkrevd")
			return
		}
		// Unknown email and wrong password answer identically so callers
		// cannot probe which accounts exist.
		var u user.User
		if err := db.DB.First(&u, "email = ?", user.NormalizeEmail(req.Email)).Error; err != nil {
			respondErr(c, http.StatusUnauthorized, codeCredentials, "Ugyldig email eller passord")
			return
		}
		if err := user.CheckPassword(u.PasswordHash, req.Password); err != nil {
			respondErr(c, http.StatusUnauthorized, codeCredentials, "Ugyldig email eller passord")
			return
		}
		token, err := auth.GenerateJWT(cfg.Server.JWTSecret, u.ID, u.Email, string(u.Role), auth.TokenDuration)
		if err != nil {
			respondErr(c, http.StatusInternalServerError, codeInternal, "Kunne ikke generere token")
			return
		}
		_ = auth.SetSession(rdb, u.ID, token, auth.TokenDuration)
		respondOK(c, http.StatusOK, gin.H{"user": u, "token": token})
	}
}

// GET /api/auth/me
func MeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, _ := auth.GetPrincipal(c)
		var u user.User
		if err := db.DB.First(&u, "id = ?", p.ID).Error; err != nil {
			respondErr(c, http.StatusNotFound, codeNotFound, "Bruker ikke funnet")
			return
		}
		respondOK(c, http.StatusOK, gin.H{"user": u})
	}
}

// POST /api/auth/logout
func LogoutHandler(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, _ := auth.GetPrincipal(c)
		_ = auth.DeleteSession(rdb, p.ID)
		respondOK(c, http.StatusOK, gin.H{"message": "Logget ut"})
	}
}
