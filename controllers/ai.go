package controllers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"tareas/db"
	"tareas/models"

	"github.com/gin-gonic/gin"
)

type interpretInput struct {
	InputType string `json:"input_type"`
	InputText string `json:"input_text"`
}

// interpretedTask es la estructura que el intérprete propone a partir
// del texto del usuario.
type interpretedTask struct {
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	ScheduledDatetime string   `json:"scheduled_datetime"`
	ContactNames      []string `json:"contact_names"`
	Tags              []string `json:"tags"`
}

// mockInterpret simula al proveedor de IA: propone una tarea para
// mañana a partir del texto recibido.
func mockInterpret(content string, now time.Time) interpretedTask {
	title := strings.TrimSpace(content)
	// Cortar por runas, no por bytes.
	if runes := []rune(title); len(runes) > 60 {
		title = string(runes[:60])
	}
	tomorrow := now.AddDate(0, 0, 1)
	scheduled := time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), 9, 0, 0, 0, now.Location())
	return interpretedTask{
		Title:             title,
		Description:       "Generada automáticamente a partir de la petición del usuario",
		ScheduledDatetime: scheduled.Format(time.RFC3339),
		ContactNames:      []string{},
		Tags:              []string{},
	}
}

// InterpretRequest registra una petición al intérprete y devuelve la
// tarea propuesta, pendiente de confirmación.
func InterpretRequest(c *gin.Context) {
	gdb := db.DBInstance(c)
	logged, _ := GetUserLogged(c)

	var input interpretInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, "Cuerpo de la petición inválido", http.StatusBadRequest)
		return
	}

	if input.InputType == "" {
		input.InputType = models.INPUT_TYPE_TEXT
	}
	if !models.IsValidInputType(input.InputType) {
		RespondValidationError(c, "Tipo de entrada inválido", "input_type")
		return
	}
	if strings.TrimSpace(input.InputText) == "" {
		RespondValidationError(c, "El texto de entrada es obligatorio", "input_text")
		return
	}

	proposed := mockInterpret(input.InputText, time.Now())
	interpretedJSON, err := json.Marshal(proposed)
	if err != nil {
		RespondError(c, "No se pudo interpretar la petición", http.StatusInternalServerError)
		return
	}

	request := models.AIRequest{
		UserID:          logged.ID,
		InputType:       input.InputType,
		InputText:       input.InputText,
		AIResponse:      "Interpretación de: " + input.InputText,
		InterpretedData: string(interpretedJSON),
	}
	if err := gdb.Create(&request).Error; err != nil {
		RespondError(c, "No se pudo registrar la petición", http.StatusInternalServerError)
		return
	}

	RespondCreated(c, gin.H{
		"request":     request,
		"interpreted": proposed,
	})
}

type confirmInput struct {
	TaskIDs []int64 `json:"task_ids"`
}

// ConfirmRequest marca una petición como confirmada y le asocia las
// tareas que el usuario creó a partir de ella. Las tareas deben ser del
// mismo usuario.
func ConfirmRequest(c *gin.Context) {
	gdb := db.DBInstance(c)
	logged, _ := GetUserLogged(c)

	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	var request models.AIRequest
	err := gdb.Where("id = ? AND user_id = ?", id, logged.ID).First(&request).Error
	if err != nil {
		RespondError(c, "Petición no encontrada", http.StatusNotFound)
		return
	}
	if request.WasConfirmed {
		RespondError(c, "La petición ya fue confirmada", http.StatusBadRequest)
		return
	}

	var input confirmInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, "Cuerpo de la petición inválido", http.StatusBadRequest)
		return
	}
	if len(input.TaskIDs) == 0 {
		RespondValidationError(c, "Debe indicar al menos una tarea", "task_ids")
		return
	}

	var count int
	gdb.Model(&models.Task{}).
		Where("user_id = ? AND id IN (?)", logged.ID, input.TaskIDs).
		Count(&count)
	if count != len(input.TaskIDs) {
		RespondError(c, "Una o más tareas no existen o no pertenecen al usuario", http.StatusBadRequest)
		return
	}

	request.WasConfirmed = true
	request.SetTasksCreatedList(input.TaskIDs)
	if err := gdb.Save(&request).Error; err != nil {
		RespondError(c, "No se pudo confirmar la petición", http.StatusInternalServerError)
		return
	}

	if len(input.TaskIDs) > 0 {
		gdb.Model(&models.Task{}).
			Where("user_id = ? AND id IN (?)", logged.ID, input.TaskIDs).
			Update("created_by_ai", true)
	}

	RespondSuccess(c, request)
}

// GetAIRequests lista las peticiones del usuario, la más reciente
// primero.
func GetAIRequests(c *gin.Context) {
	gdb := db.DBInstance(c)
	logged, _ := GetUserLogged(c)

	skip, limit := Pagination(c)

	query := gdb.Model(&models.AIRequest{}).Where("user_id = ?", logged.ID)
	if confirmed := queryBool(c, "was_confirmed"); confirmed != nil {
		query = query.Where("was_confirmed = ?", *confirmed)
	}

	var requests []models.AIRequest
	err := query.Order("created_at desc, id desc").
		Offset(skip).Limit(limit).
		Find(&requests).Error
	if err != nil {
		RespondError(c, "No se pudieron obtener las peticiones", http.StatusInternalServerError)
		return
	}
	RespondSuccess(c, requests)
}
