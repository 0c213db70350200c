package api

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
)

// GET /api/health
func healthHandler(c *gin.Context) {
	env := os.Getenv("LOANTRACK_ENV")
	if env == "" {
		env = "development"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":      "OK",
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"environment": env,
	})
}
