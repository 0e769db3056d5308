package controllers

import (
	"net/http"
	"time"

	"tareas/db"
	"tareas/models"

	"github.com/gin-gonic/gin"
)

const userKey = "auth_user"

// AuthRequired exige un access token válido (cookie o Bearer) y deja el
// usuario cargado en el contexto.
func AuthRequired(tm *TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := TokenFromRequest(c, AccessCookieName)
		if tokenString == "" {
			RespondError(c, "No autenticado", http.StatusUnauthorized)
			c.Abort()
			return
		}

		claims, err := tm.Verify(tokenString, TOKEN_TYPE_ACCESS, time.Now())
		if err != nil {
			RespondError(c, "Token inválido o expirado", http.StatusUnauthorized)
			c.Abort()
			return
		}

		userID, err := claims.UserID()
		if err != nil {
			RespondError(c, "Token inválido o expirado", http.StatusUnauthorized)
			c.Abort()
			return
		}

		gdb := db.DBInstance(c)
		var user models.User
		if err := gdb.Where("id = ?", userID).First(&user).Error; err != nil {
			RespondError(c, "Token inválido o expirado", http.StatusUnauthorized)
			c.Abort()
			return
		}
		if !user.IsActive {
			RespondError(c, "Usuario inactivo", http.StatusBadRequest)
			c.Abort()
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

// GetUserLogged recupera el usuario dejado por AuthRequired.
func GetUserLogged(c *gin.Context) (models.User, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return models.User{}, false
	}
	user, ok := v.(models.User)
	return user, ok
}
