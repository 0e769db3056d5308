package models

import "time"

/************************************************
/**** MARK: HISTORY ACTIONS ****/
/************************************************/
const HISTORY_ACTION_CREATED = "creada"
const HISTORY_ACTION_MODIFIED = "modificada"
const HISTORY_ACTION_STATUS_CHANGED = "estado_cambiado"
const HISTORY_ACTION_CONTACT_ADDED = "contacto_agregado"
const HISTORY_ACTION_CONTACT_REMOVED = "contacto_eliminado"
const HISTORY_ACTION_CANCELLED = "cancelada"
const HISTORY_ACTION_SENT = "enviada"

// TaskHistory es el registro append-only de acciones sobre una tarea.
// Nunca se actualiza ni se borra individualmente; desaparece solo en
// cascada con su tarea. UserID queda en NULL si el usuario fue eliminado.
type TaskHistory struct {
	ID           int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	TaskID       int64      `gorm:"not null;index" json:"task_id"`
	UserID       *int64     `gorm:"index" json:"user_id"`
	Action       string     `gorm:"size:100;not null;index" json:"action"`
	FieldChanged string     `gorm:"column:field_changed;size:100" json:"field_changed"`
	OldValue     string     `gorm:"column:old_value;type:text" json:"old_value"`
	NewValue     string     `gorm:"column:new_value;type:text" json:"new_value"`
	Notes        string     `gorm:"type:text" json:"notes"`
	CreatedAt    *time.Time `gorm:"index" json:"created_at"`
}

func (TaskHistory) TableName() string {
	return "task_history"
}
