package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Todas las respuestas de error usan el mismo cuerpo:
//   {"success": false, "message": "...", "details": {...} | null}

func RespondError(c *gin.Context, msg string, code int) {
	c.JSON(code, gin.H{"success": false, "message": msg, "details": nil})
}

// RespondValidationError responde 422 con el campo problemático.
func RespondValidationError(c *gin.Context, msg string, field string) {
	details := gin.H{}
	if field != "" {
		details["field"] = field
	}
	c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "message": msg, "details": details})
}

func RespondSuccess(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
