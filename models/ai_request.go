package models

import (
	"strconv"
	"strings"
	"time"
)

/************************************************
/**** MARK: INPUT TYPES ****/
/************************************************/
const INPUT_TYPE_TEXT = "text"
const INPUT_TYPE_AUDIO = "audio"

func IsValidInputType(inputType string) bool {
	return inputType == INPUT_TYPE_TEXT || inputType == INPUT_TYPE_AUDIO
}

// AIRequest registra una solicitud de interpretación (texto o transcripción
// de audio) y la respuesta sintetizada. TasksCreated guarda los IDs de las
// tareas confirmadas como lista delimitada por comas ("1,2,3"); es un campo
// de auditoría que se escribe una sola vez al confirmar.
type AIRequest struct {
	ID              int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	UserID          int64      `gorm:"not null;index" json:"user_id"`
	InputText       string     `gorm:"column:input_text;type:text;not null" json:"input_text"`
	InputType       string     `gorm:"column:input_type;size:10;not null" json:"input_type"`
	AIResponse      string     `gorm:"column:ai_response;type:text" json:"ai_response"`
	InterpretedData string     `gorm:"column:interpreted_data;type:text" json:"interpreted_data"`
	WasConfirmed    bool       `gorm:"column:was_confirmed;not null;default:false" json:"was_confirmed"`
	TasksCreated    string     `gorm:"column:tasks_created;size:500" json:"tasks_created"`
	CreatedAt       *time.Time `gorm:"index" json:"created_at"`
}

func (AIRequest) TableName() string {
	return "ai_requests"
}

// TasksCreatedList convierte el string delimitado a lista de IDs.
func (r AIRequest) TasksCreatedList() []int64 {
	if r.TasksCreated == "" {
		return []int64{}
	}
	parts := strings.Split(r.TasksCreated, ",")
	out := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err == nil && id > 0 {
			out = append(out, id)
		}
	}
	return out
}

// SetTasksCreatedList guarda la lista de IDs como string delimitado.
func (r *AIRequest) SetTasksCreatedList(ids []int64) {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.FormatInt(id, 10))
	}
	r.TasksCreated = strings.Join(parts, ",")
}
