package controllers

import (
	"math"
	"net/http"
	"time"

	"tareas/db"
	"tareas/models"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
)

func countTasks(gdb *gorm.DB, userID int64, conds func(*gorm.DB) *gorm.DB) int {
	var n int
	query := gdb.Model(&models.Task{}).Where("user_id = ?", userID)
	if conds != nil {
		query = conds(query)
	}
	query.Count(&n)
	return n
}

// GetDashboardStats arma el resumen general del tablero.
func GetDashboardStats(c *gin.Context) {
	gdb := db.DBInstance(c)
	logged, _ := GetUserLogged(c)

	now := time.Now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	tomorrowStart := todayStart.AddDate(0, 0, 1)
	weekStart := todayStart.AddDate(0, 0, -int(now.Weekday()))

	total := countTasks(gdb, logged.ID, func(q *gorm.DB) *gorm.DB {
		return q.Where("is_active = ?", true)
	})
	pending := countTasks(gdb, logged.ID, func(q *gorm.DB) *gorm.DB {
		return q.Where("is_active = ? AND status = ?", true, models.TASK_STATUS_PENDIENTE)
	})
	inProgress := countTasks(gdb, logged.ID, func(q *gorm.DB) *gorm.DB {
		return q.Where("is_active = ? AND status = ?", true, models.TASK_STATUS_EN_PROGRESO)
	})
	completed := countTasks(gdb, logged.ID, func(q *gorm.DB) *gorm.DB {
		return q.Where("status = ?", models.TASK_STATUS_FINALIZADO)
	})
	sent := countTasks(gdb, logged.ID, func(q *gorm.DB) *gorm.DB {
		return q.Where("is_sent = ?", true)
	})
	today := countTasks(gdb, logged.ID, func(q *gorm.DB) *gorm.DB {
		return q.Where("is_active = ? AND scheduled_datetime >= ? AND scheduled_datetime < ?",
			true, todayStart, tomorrowStart)
	})
	overdue := countTasks(gdb, logged.ID, func(q *gorm.DB) *gorm.DB {
		return q.Where("is_active = ? AND is_sent = ? AND scheduled_datetime < ? AND status IN (?)",
			true, false, now,
			[]string{models.TASK_STATUS_PENDIENTE, models.TASK_STATUS_EN_PROGRESO})
	})
	weekCompleted := countTasks(gdb, logged.ID, func(q *gorm.DB) *gorm.DB {
		return q.Where("status = ? AND updated_at >= ?", models.TASK_STATUS_FINALIZADO, weekStart)
	})

	var activeContacts int
	gdb.Model(&models.Contact{}).
		Where("user_id = ? AND is_active = ?", logged.ID, true).
		Count(&activeContacts)

	totalAll := countTasks(gdb, logged.ID, nil)
	completionRate := 0.0
	if totalAll > 0 {
		completionRate = math.Round(float64(completed)/float64(totalAll)*1000) / 10
	}

	RespondSuccess(c, gin.H{
		"total_tasks":     total,
		"pending_tasks":   pending,
		"in_progress":     inProgress,
		"completed_tasks": completed,
		"sent_tasks":      sent,
		"today_tasks":     today,
		"overdue_tasks":   overdue,
		"week_completed":  weekCompleted,
		"active_contacts": activeContacts,
		"completion_rate": completionRate,
	})
}

var statusChartMeta = map[string]struct {
	Label string
	Color string
}{
	models.TASK_STATUS_PENDIENTE:   {"Pendiente", "#6B7280"},
	models.TASK_STATUS_EN_PROGRESO: {"En Progreso", "#3B82F6"},
	models.TASK_STATUS_FINALIZADO:  {"Finalizado", "#10B981"},
	models.TASK_STATUS_ENVIADA:     {"Enviada", "#8B5CF6"},
	models.TASK_STATUS_CANCELADA:   {"Cancelada", "#EF4444"},
}

// GetTasksByStatus devuelve el conteo por estado con etiqueta y color
// para las gráficas del frontend.
func GetTasksByStatus(c *gin.Context) {
	gdb := db.DBInstance(c)
	logged, _ := GetUserLogged(c)

	rows, err := gdb.Model(&models.Task{}).
		Where("user_id = ?", logged.ID).
		Select("status, COUNT(*)").
		Group("status").Rows()
	if err != nil {
		RespondError(c, "No se pudieron obtener las estadísticas", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	out := []gin.H{}
	for rows.Next() {
		var status string
		var n int
		if rows.Scan(&status, &n) != nil {
			continue
		}
		meta, ok := statusChartMeta[status]
		if !ok {
			meta.Label = status
			meta.Color = "#9CA3AF"
		}
		out = append(out, gin.H{
			"status": status,
			"label":  meta.Label,
			"color":  meta.Color,
			"count":  n,
		})
	}
	RespondSuccess(c, out)
}

// GetTasksByMonth cuenta tareas creadas por mes, hasta ?months= atrás
// (default 12). La expresión de mes depende del dialecto.
func GetTasksByMonth(c *gin.Context) {
	gdb := db.DBInstance(c)
	logged, _ := GetUserLogged(c)

	months := clampInt(queryInt(c, "months", 12), 1, 36)

	monthExpr := "strftime('%Y-%m', created_at)"
	if gdb.Dialect().GetName() == "postgres" {
		monthExpr = "to_char(created_at, 'YYYY-MM')"
	}

	since := time.Now().AddDate(0, -months, 0)

	rows, err := gdb.Model(&models.Task{}).
		Where("user_id = ? AND created_at >= ?", logged.ID, since).
		Select(monthExpr + " AS month, COUNT(*)").
		Group("month").Order("month asc").Rows()
	if err != nil {
		RespondError(c, "No se pudieron obtener las estadísticas", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	out := []gin.H{}
	for rows.Next() {
		var month string
		var n int
		if rows.Scan(&month, &n) == nil {
			out = append(out, gin.H{"month": month, "count": n})
		}
	}
	RespondSuccess(c, out)
}

// GetRecentTasks lista las últimas tareas creadas, marcando las
// vencidas.
func GetRecentTasks(c *gin.Context) {
	gdb := db.DBInstance(c)
	logged, _ := GetUserLogged(c)

	limit := clampInt(queryInt(c, "limit", 5), 1, 20)
	now := time.Now()

	var tasks []models.Task
	err := gdb.Where("user_id = ? AND is_active = ?", logged.ID, true).
		Preload("Contacts").Preload("Tags").
		Order("created_at desc, id desc").Limit(limit).
		Find(&tasks).Error
	if err != nil {
		RespondError(c, "No se pudieron obtener las tareas", http.StatusInternalServerError)
		return
	}

	out := []gin.H{}
	for _, task := range tasks {
		isOverdue := !task.IsSent && task.ScheduledDatetime.Before(now) &&
			(task.Status == models.TASK_STATUS_PENDIENTE || task.Status == models.TASK_STATUS_EN_PROGRESO)
		out = append(out, gin.H{
			"task":       taskToResponse(gdb, task),
			"is_overdue": isOverdue,
		})
	}
	RespondSuccess(c, out)
}

// GetTodayTasks lista las tareas programadas para hoy.
func GetTodayTasks(c *gin.Context) {
	gdb := db.DBInstance(c)
	logged, _ := GetUserLogged(c)

	now := time.Now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	tomorrowStart := todayStart.AddDate(0, 0, 1)

	var tasks []models.Task
	err := gdb.Where("user_id = ? AND is_active = ?", logged.ID, true).
		Where("scheduled_datetime >= ? AND scheduled_datetime < ?", todayStart, tomorrowStart).
		Preload("Contacts").Preload("Tags").
		Order("scheduled_datetime asc").
		Find(&tasks).Error
	if err != nil {
		RespondError(c, "No se pudieron obtener las tareas", http.StatusInternalServerError)
		return
	}

	out := make([]taskResponse, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, taskToResponse(gdb, task))
	}
	RespondSuccess(c, out)
}
