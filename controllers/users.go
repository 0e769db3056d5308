package controllers

import (
	"net/http"
	"strings"

	"tareas/db"
	"tareas/models"
	"tareas/tools"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// GetUsers lista todos los usuarios. Solo superusuarios.
func GetUsers(c *gin.Context) {
	gdb := db.DBInstance(c)

	skip, limit := Pagination(c)

	var users []models.User
	if err := gdb.Order("id asc").Offset(skip).Limit(limit).Find(&users).Error; err != nil {
		RespondError(c, "No se pudieron obtener los usuarios", http.StatusInternalServerError)
		return
	}
	RespondSuccess(c, users)
}

// GetUserByID devuelve un usuario. Cada usuario solo puede ver su propio
// perfil; los superusuarios pueden ver cualquiera.
func GetUserByID(c *gin.Context) {
	gdb := db.DBInstance(c)

	logged, _ := GetUserLogged(c)

	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	if id != logged.ID && !logged.IsSuperuser {
		RespondError(c, "No tiene permisos para ver este usuario", http.StatusForbidden)
		return
	}

	var user models.User
	if err := gdb.Where("id = ?", id).First(&user).Error; err != nil {
		RespondError(c, "Usuario no encontrado", http.StatusNotFound)
		return
	}
	RespondSuccess(c, user)
}

type updateMeInput struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	FullName *string `json:"full_name"`
	Password *string `json:"password"`
}

// UpdateMe actualiza el perfil del usuario autenticado. Los campos
// ausentes quedan como están.
func UpdateMe(c *gin.Context) {
	gdb := db.DBInstance(c)

	logged, _ := GetUserLogged(c)

	var input updateMeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, "Cuerpo de la petición inválido", http.StatusBadRequest)
		return
	}

	var user models.User
	if err := gdb.Where("id = ?", logged.ID).First(&user).Error; err != nil {
		RespondError(c, "Usuario no encontrado", http.StatusNotFound)
		return
	}

	if input.Username != nil {
		username := strings.TrimSpace(*input.Username)
		if username == "" {
			RespondValidationError(c, "El username es obligatorio", "username")
			return
		}
		var count int
		gdb.Model(&models.User{}).
			Where("LOWER(username) = ? AND id <> ?", strings.ToLower(username), user.ID).
			Count(&count)
		if count > 0 {
			RespondError(c, "El username ya está registrado", http.StatusConflict)
			return
		}
		user.Username = username
	}

	if input.Email != nil {
		email := strings.TrimSpace(*input.Email)
		if !tools.ValidateEmail(email) {
			RespondValidationError(c, "Email inválido", "email")
			return
		}
		var count int
		gdb.Model(&models.User{}).
			Where("LOWER(email) = ? AND id <> ?", strings.ToLower(email), user.ID).
			Count(&count)
		if count > 0 {
			RespondError(c, "El email ya está registrado", http.StatusConflict)
			return
		}
		user.Email = strings.ToLower(email)
	}

	if input.FullName != nil {
		user.FullName = strings.TrimSpace(*input.FullName)
	}

	if input.Password != nil {
		if field := tools.CheckPassword(*input.Password); field != "" {
			RespondValidationError(c, "La contraseña debe tener al menos 8 caracteres", field)
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			RespondError(c, "No se pudo procesar la contraseña", http.StatusInternalServerError)
			return
		}
		user.Password = string(hash)
	}

	if err := gdb.Save(&user).Error; err != nil {
		RespondError(c, "No se pudo actualizar el usuario", http.StatusInternalServerError)
		return
	}
	RespondSuccess(c, user)
}

// DeleteUser elimina un usuario y todos sus datos. Solo superusuarios.
func DeleteUser(c *gin.Context) {
	gdb := db.DBInstance(c)

	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	var user models.User
	if err := gdb.Where("id = ?", id).First(&user).Error; err != nil {
		RespondError(c, "Usuario no encontrado", http.StatusNotFound)
		return
	}

	tx := gdb.Begin()

	var taskIDs []int64
	rows, err := tx.Model(&models.Task{}).Where("user_id = ?", id).Select("id").Rows()
	if err == nil {
		for rows.Next() {
			var tid int64
			if rows.Scan(&tid) == nil {
				taskIDs = append(taskIDs, tid)
			}
		}
		rows.Close()
	}

	if len(taskIDs) > 0 {
		tx.Where("task_id IN (?)", taskIDs).Delete(&models.TaskTag{})
		tx.Where("task_id IN (?)", taskIDs).Delete(&models.TaskHistory{})
		tx.Exec("DELETE FROM task_contacts WHERE task_id IN (?)", taskIDs)
	}
	tx.Where("user_id = ?", id).Delete(&models.AIRequest{})
	tx.Where("user_id = ?", id).Delete(&models.Task{})
	tx.Where("user_id = ?", id).Delete(&models.Contact{})
	tx.Where("id = ?", id).Delete(&models.User{})

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		RespondError(c, "No se pudo eliminar el usuario", http.StatusInternalServerError)
		return
	}

	c.Status(http.StatusNoContent)
}
