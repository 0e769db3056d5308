package models

import (
	"strings"
	"time"
)

/************************************************
/**** MARK: TASK STATUS ****/
/************************************************/
const TASK_STATUS_PENDIENTE = "pendiente"
const TASK_STATUS_EN_PROGRESO = "en_progreso"
const TASK_STATUS_FINALIZADO = "finalizado"
const TASK_STATUS_ENVIADA = "enviada"
const TASK_STATUS_CANCELADA = "cancelada"

func IsValidTaskStatus(status string) bool {
	switch status {
	case TASK_STATUS_PENDIENTE, TASK_STATUS_EN_PROGRESO, TASK_STATUS_FINALIZADO,
		TASK_STATUS_ENVIADA, TASK_STATUS_CANCELADA:
		return true
	}
	return false
}

// taskStatusTransitions es la tabla de transiciones permitidas.
// Desde pendiente/en_progreso se puede ir a cualquier otro estado;
// enviada solo puede finalizarse o cancelarse; finalizado y cancelada
// solo pueden reabrirse a pendiente (finalizado también puede cancelarse).
var taskStatusTransitions = map[string][]string{
	TASK_STATUS_PENDIENTE:   {TASK_STATUS_EN_PROGRESO, TASK_STATUS_ENVIADA, TASK_STATUS_FINALIZADO, TASK_STATUS_CANCELADA},
	TASK_STATUS_EN_PROGRESO: {TASK_STATUS_PENDIENTE, TASK_STATUS_ENVIADA, TASK_STATUS_FINALIZADO, TASK_STATUS_CANCELADA},
	TASK_STATUS_ENVIADA:     {TASK_STATUS_FINALIZADO, TASK_STATUS_CANCELADA},
	TASK_STATUS_FINALIZADO:  {TASK_STATUS_PENDIENTE, TASK_STATUS_CANCELADA},
	TASK_STATUS_CANCELADA:   {TASK_STATUS_PENDIENTE},
}

// CanTransitionStatus reporta si el cambio de estado from -> to está permitido.
// Un cambio al mismo estado siempre se acepta (no-op).
func CanTransitionStatus(from, to string) bool {
	if from == to {
		return true
	}
	for _, allowed := range taskStatusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Task representa una tarea programada para enviarse a uno o más contactos.
// Los contactos van en la tabla intermedia task_contacts y los tags en
// task_tags (filas normalizadas, no strings delimitados).
type Task struct {
	ID                int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	UserID            int64      `gorm:"not null;index" json:"user_id"`
	Title             string     `gorm:"size:200;not null;index" json:"title"`
	Description       string     `gorm:"type:text" json:"description"`
	ScheduledDatetime time.Time  `gorm:"column:scheduled_datetime;not null;index" json:"scheduled_datetime"`
	Status            string     `gorm:"size:20;not null;default:'pendiente';index" json:"status"`
	IsSent            bool       `gorm:"not null;default:false" json:"is_sent"`
	SentAt            *time.Time `json:"sent_at"`
	IsActive          bool       `gorm:"not null;default:true" json:"is_active"`
	CreatedByAI       bool       `gorm:"column:created_by_ai;not null;default:false" json:"created_by_ai"`
	CreatedAt         *time.Time `json:"created_at"`
	UpdatedAt         *time.Time `json:"updated_at"`

	Contacts []Contact `gorm:"many2many:task_contacts" json:"contacts,omitempty"`
	Tags     []TaskTag `gorm:"foreignkey:TaskID" json:"-"`
}

// TagsList devuelve los tags como lista de strings.
func (t Task) TagsList() []string {
	out := make([]string, 0, len(t.Tags))
	for _, tag := range t.Tags {
		if name := strings.TrimSpace(tag.Name); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// TaskTag es un tag de una tarea (máximo 10 por tarea, 30 caracteres cada uno;
// se valida en controllers).
type TaskTag struct {
	ID     int64  `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	TaskID int64  `gorm:"not null;index" json:"task_id"`
	Name   string `gorm:"size:30;not null;index" json:"name"`
}
