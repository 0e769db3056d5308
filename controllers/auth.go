package controllers

import (
	"net/http"
	"strings"
	"time"

	"tareas/cache"
	"tareas/db"
	"tareas/models"
	"tareas/tools"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type registerInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
}

// Register da de alta un usuario nuevo. Username y email son únicos sin
// distinguir mayúsculas.
func Register(c *gin.Context) {
	gdb := db.DBInstance(c)

	var input registerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, "Cuerpo de la petición inválido", http.StatusBadRequest)
		return
	}

	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)

	if input.Username == "" {
		RespondValidationError(c, "El username es obligatorio", "username")
		return
	}
	if !tools.ValidateEmail(input.Email) {
		RespondValidationError(c, "Email inválido", "email")
		return
	}
	if field := tools.CheckPassword(input.Password); field != "" {
		RespondValidationError(c, "La contraseña debe tener al menos 8 caracteres", field)
		return
	}

	var count int
	gdb.Model(&models.User{}).Where("LOWER(username) = ?", strings.ToLower(input.Username)).Count(&count)
	if count > 0 {
		RespondError(c, "El username ya está registrado", http.StatusConflict)
		return
	}
	gdb.Model(&models.User{}).Where("LOWER(email) = ?", strings.ToLower(input.Email)).Count(&count)
	if count > 0 {
		RespondError(c, "El email ya está registrado", http.StatusConflict)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		RespondError(c, "No se pudo procesar la contraseña", http.StatusInternalServerError)
		return
	}

	user := models.User{
		Username: input.Username,
		Email:    strings.ToLower(input.Email),
		FullName: strings.TrimSpace(input.FullName),
		Password: string(hash),
		IsActive: true,
	}
	if err := gdb.Create(&user).Error; err != nil {
		RespondError(c, "No se pudo crear el usuario", http.StatusInternalServerError)
		return
	}

	RespondCreated(c, user)
}

type loginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login valida credenciales (username o email) y entrega el par de
// tokens en cookies http-only.
func Login(tm *TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		gdb := db.DBInstance(c)

		var input loginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			RespondError(c, "Cuerpo de la petición inválido", http.StatusBadRequest)
			return
		}

		ident := strings.ToLower(strings.TrimSpace(input.Username))

		var user models.User
		err := gdb.Where("LOWER(username) = ? OR LOWER(email) = ?", ident, ident).First(&user).Error
		if err != nil {
			RespondError(c, "Credenciales incorrectas", http.StatusUnauthorized)
			return
		}
		if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)) != nil {
			RespondError(c, "Credenciales incorrectas", http.StatusUnauthorized)
			return
		}
		if !user.IsActive {
			RespondError(c, "Usuario inactivo", http.StatusBadRequest)
			return
		}

		now := time.Now()
		access, err := tm.Issue(user, TOKEN_TYPE_ACCESS, now)
		if err != nil {
			RespondError(c, "No se pudo emitir el token", http.StatusInternalServerError)
			return
		}
		refresh, err := tm.Issue(user, TOKEN_TYPE_REFRESH, now)
		if err != nil {
			RespondError(c, "No se pudo emitir el token", http.StatusInternalServerError)
			return
		}

		tm.SetAccessCookie(c, access)
		tm.SetRefreshCookie(c, refresh)

		RespondSuccess(c, gin.H{
			"access_token":  access,
			"refresh_token": refresh,
			"token_type":    "bearer",
			"user":          user,
		})
	}
}

// Refresh rota el par de tokens a partir de un refresh válido. El jti
// usado queda revocado cuando la denylist está habilitada.
func Refresh(tm *TokenManager, dl *cache.Denylist) gin.HandlerFunc {
	return func(c *gin.Context) {
		gdb := db.DBInstance(c)

		tokenString := TokenFromRequest(c, RefreshCookieName)
		if tokenString == "" {
			RespondError(c, "Refresh token no presente", http.StatusUnauthorized)
			return
		}

		now := time.Now()
		claims, err := tm.Verify(tokenString, TOKEN_TYPE_REFRESH, now)
		if err != nil {
			RespondError(c, "Refresh token inválido o expirado", http.StatusUnauthorized)
			return
		}

		if revoked, err := dl.IsRevoked(c.Request.Context(), claims.ID); err == nil && revoked {
			RespondError(c, "Refresh token inválido o expirado", http.StatusUnauthorized)
			return
		}

		userID, err := claims.UserID()
		if err != nil {
			RespondError(c, "Refresh token inválido o expirado", http.StatusUnauthorized)
			return
		}

		var user models.User
		if err := gdb.Where("id = ?", userID).First(&user).Error; err != nil {
			RespondError(c, "Refresh token inválido o expirado", http.StatusUnauthorized)
			return
		}
		if !user.IsActive {
			RespondError(c, "Usuario inactivo", http.StatusBadRequest)
			return
		}

		access, err := tm.Issue(user, TOKEN_TYPE_ACCESS, now)
		if err != nil {
			RespondError(c, "No se pudo emitir el token", http.StatusInternalServerError)
			return
		}
		refresh, err := tm.Issue(user, TOKEN_TYPE_REFRESH, now)
		if err != nil {
			RespondError(c, "No se pudo emitir el token", http.StatusInternalServerError)
			return
		}

		// Rotación: el refresh anterior no se puede volver a usar.
		if exp := claims.ExpiresAt; exp != nil {
			_ = dl.Revoke(c.Request.Context(), claims.ID, time.Until(exp.Time))
		}

		tm.SetAccessCookie(c, access)
		tm.SetRefreshCookie(c, refresh)

		RespondSuccess(c, gin.H{
			"access_token":  access,
			"refresh_token": refresh,
			"token_type":    "bearer",
		})
	}
}

// Logout limpia las cookies y revoca el refresh vigente si lo hay.
func Logout(tm *TokenManager, dl *cache.Denylist) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString := TokenFromRequest(c, RefreshCookieName); tokenString != "" {
			if claims, err := tm.Verify(tokenString, TOKEN_TYPE_REFRESH, time.Now()); err == nil {
				if exp := claims.ExpiresAt; exp != nil {
					_ = dl.Revoke(c.Request.Context(), claims.ID, time.Until(exp.Time))
				}
			}
		}

		tm.ClearAuthCookies(c)
		RespondSuccess(c, gin.H{"success": true, "message": "Sesión cerrada"})
	}
}

// Me devuelve el usuario autenticado.
func Me(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "No autenticado", http.StatusUnauthorized)
		return
	}
	RespondSuccess(c, user)
}
