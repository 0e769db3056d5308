package router

import (
	"net/http"

	"tareas/controllers"

	"github.com/gin-gonic/gin"
)

// Adminizer corta el paso a todo usuario que no sea superusuario.
func Adminizer() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := controllers.GetUserLogged(c)
		if !ok || !user.IsSuperuser {
			controllers.RespondError(c, "Requiere permisos de administrador", http.StatusForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}
