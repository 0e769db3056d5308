package controllers

import (
	"net/http"
	"time"

	"tareas/db"
	"tareas/models"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
)

// createHistoryEntry agrega un renglón de auditoría dentro de la misma
// transacción que la operación que lo origina.
func createHistoryEntry(tx *gorm.DB, taskID int64, userID *int64, action, field, oldValue, newValue, notes string) error {
	now := time.Now()
	entry := models.TaskHistory{
		TaskID:       taskID,
		UserID:       userID,
		Action:       action,
		FieldChanged: field,
		OldValue:     oldValue,
		NewValue:     newValue,
		Notes:        notes,
		CreatedAt:    &now,
	}
	return tx.Create(&entry).Error
}

// GetTaskHistory lista la auditoría de una tarea, lo más reciente
// primero.
func GetTaskHistory(c *gin.Context) {
	gdb := db.DBInstance(c)
	logged, _ := GetUserLogged(c)

	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	var task models.Task
	if err := gdb.Where("id = ? AND user_id = ?", id, logged.ID).First(&task).Error; err != nil {
		RespondError(c, "Tarea no encontrada", http.StatusNotFound)
		return
	}

	skip, limit := Pagination(c)

	var entries []models.TaskHistory
	err := gdb.Where("task_id = ?", id).
		Order("created_at desc, id desc").
		Offset(skip).Limit(limit).
		Find(&entries).Error
	if err != nil {
		RespondError(c, "No se pudo obtener el historial", http.StatusInternalServerError)
		return
	}
	RespondSuccess(c, entries)
}
