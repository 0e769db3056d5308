package workers

import (
	"context"
	"log/slog"
	"time"

	"tareas/models"

	"github.com/jinzhu/gorm"
)

// StartTaskDispatcher despierta cada interval y despacha las tareas
// vencidas. Corre hasta que se cancele el contexto.
func StartTaskDispatcher(ctx context.Context, gdb *gorm.DB, log *slog.Logger, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info("dispatcher iniciado", slog.Duration("interval", interval))

	for {
		select {
		case <-ctx.Done():
			log.Info("dispatcher detenido")
			return
		case <-ticker.C:
			if n, err := ProcessDueTasks(gdb, time.Now()); err != nil {
				log.Error("dispatcher error", slog.String("error", err.Error()))
			} else if n > 0 {
				log.Info("tareas despachadas", slog.Int("count", n))
			}
		}
	}
}

// ProcessDueTasks busca tareas pendientes cuya fecha ya pasó, las
// reclama pasándolas a en_progreso y las marca como enviadas. El
// reclamo optimista evita que dos instancias despachen la misma tarea.
func ProcessDueTasks(gdb *gorm.DB, now time.Time) (int, error) {
	var due []models.Task
	err := gdb.Where("is_active = ? AND is_sent = ? AND status = ? AND scheduled_datetime <= ?",
		true, false, models.TASK_STATUS_PENDIENTE, now).
		Find(&due).Error
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, task := range due {
		claimed := gdb.Model(&models.Task{}).
			Where("id = ? AND status = ?", task.ID, models.TASK_STATUS_PENDIENTE).
			Update("status", models.TASK_STATUS_EN_PROGRESO)
		if claimed.Error != nil || claimed.RowsAffected == 0 {
			continue
		}

		if err := dispatchTask(gdb, task, now); err != nil {
			// La tarea queda en_progreso; el próximo ciclo no la retoma
			// porque solo reclama pendientes.
			continue
		}
		sent++
	}
	return sent, nil
}

func dispatchTask(gdb *gorm.DB, task models.Task, now time.Time) error {
	tx := gdb.Begin()

	updates := map[string]any{
		"status":  models.TASK_STATUS_ENVIADA,
		"is_sent": true,
		"sent_at": now,
	}
	if err := tx.Model(&models.Task{}).Where("id = ?", task.ID).Updates(updates).Error; err != nil {
		tx.Rollback()
		return err
	}

	entry := models.TaskHistory{
		TaskID:       task.ID,
		Action:       models.HISTORY_ACTION_SENT,
		FieldChanged: "status",
		OldValue:     models.TASK_STATUS_EN_PROGRESO,
		NewValue:     models.TASK_STATUS_ENVIADA,
		Notes:        "Enviada por el despachador",
		CreatedAt:    &now,
	}
	if err := tx.Create(&entry).Error; err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}
