package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"tareas/db"
	"tareas/models"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
)

const (
	titleMinLen    = 3
	titleMaxLen    = 200
	descMaxLen     = 2000
	maxTagsPerTask = 10
	tagMaxLen      = 30
)

type taskInput struct {
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	ScheduledDatetime time.Time `json:"scheduled_datetime"`
	ContactIDs        []int64   `json:"contact_ids"`
	Tags              []string  `json:"tags"`
}

func validateTitle(title string) string {
	if len(title) < titleMinLen {
		return "El título debe tener al menos 3 caracteres"
	}
	if len(title) > titleMaxLen {
		return "El título no puede superar los 200 caracteres"
	}
	return ""
}

// taskResponse agrega a la tarea su lista de etiquetas planas y el
// tamaño del historial.
type taskResponse struct {
	models.Task
	Tags         []string `json:"tags"`
	HistoryCount int      `json:"history_count"`
}

func taskToResponse(gdb *gorm.DB, task models.Task) taskResponse {
	var historyCount int
	gdb.Model(&models.TaskHistory{}).Where("task_id = ?", task.ID).Count(&historyCount)
	return taskResponse{Task: task, Tags: task.TagsList(), HistoryCount: historyCount}
}

func loadTaskFull(gdb *gorm.DB, id, userID int64) (models.Task, error) {
	var task models.Task
	err := gdb.Preload("Contacts").Preload("Tags").
		Where("id = ? AND user_id = ?", id, userID).
		First(&task).Error
	return task, err
}

// verifica que todos los contactos existan, sean del usuario y estén
// activos; devuelve los encontrados.
func resolveContacts(gdb *gorm.DB, userID int64, ids []int64) ([]models.Contact, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("La tarea debe tener al menos un contacto")
	}
	seen := map[int64]bool{}
	unique := ids[:0:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	var contacts []models.Contact
	err := gdb.Where("user_id = ? AND is_active = ? AND id IN (?)", userID, true, unique).
		Find(&contacts).Error
	if err != nil {
		return nil, fmt.Errorf("No se pudieron verificar los contactos")
	}
	if len(contacts) != len(unique) {
		return nil, fmt.Errorf("Uno o más contactos no existen o están inactivos")
	}
	return contacts, nil
}

func normalizeTags(tags []string) ([]string, error) {
	seen := map[string]bool{}
	out := []string{}
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" || seen[tag] {
			continue
		}
		if len(tag) > tagMaxLen {
			return nil, fmt.Errorf("Las etiquetas no pueden superar los 30 caracteres")
		}
		seen[tag] = true
		out = append(out, tag)
	}
	if len(out) > maxTagsPerTask {
		return nil, fmt.Errorf("Una tarea admite como máximo 10 etiquetas")
	}
	return out, nil
}

func replaceTags(tx *gorm.DB, taskID int64, tags []string) error {
	if err := tx.Where("task_id = ?", taskID).Delete(&models.TaskTag{}).Error; err != nil {
		return err
	}
	for _, tag := range tags {
		if err := tx.Create(&models.TaskTag{TaskID: taskID, Name: tag}).Error; err != nil {
			return err
		}
	}
	return nil
}

// CreateTask crea una tarea con sus contactos y etiquetas, y registra el
// alta en el historial, todo en una transacción.
func CreateTask(c *gin.Context) {
	gdb := db.DBInstance(c)
	logged, _ := GetUserLogged(c)

	var input taskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, "Cuerpo de la petición inválido", http.StatusBadRequest)
		return
	}

	input.Title = strings.TrimSpace(input.Title)
	if msg := validateTitle(input.Title); msg != "" {
		RespondValidationError(c, msg, "title")
		return
	}
	if len(input.Description) > descMaxLen {
		RespondValidationError(c, "La descripción no puede superar los 2000 caracteres", "description")
		return
	}
	if input.ScheduledDatetime.IsZero() {
		RespondValidationError(c, "La fecha programada es obligatoria", "scheduled_datetime")
		return
	}
	if input.ScheduledDatetime.Before(time.Now()) {
		RespondValidationError(c, "La fecha programada debe ser futura", "scheduled_datetime")
		return
	}

	contacts, err := resolveContacts(gdb, logged.ID, input.ContactIDs)
	if err != nil {
		RespondValidationError(c, err.Error(), "contact_ids")
		return
	}

	tags, err := normalizeTags(input.Tags)
	if err != nil {
		RespondValidationError(c, err.Error(), "tags")
		return
	}

	task := models.Task{
		UserID:            logged.ID,
		Title:             input.Title,
		Description:       strings.TrimSpace(input.Description),
		ScheduledDatetime: input.ScheduledDatetime,
		Status:            models.TASK_STATUS_PENDIENTE,
		IsActive:          true,
	}

	tx := gdb.Begin()
	if err := tx.Create(&task).Error; err != nil {
		tx.Rollback()
		RespondError(c, "No se pudo crear la tarea", http.StatusInternalServerError)
		return
	}
	if err := tx.Model(&task).Association("Contacts").Append(contacts).Error; err != nil {
		tx.Rollback()
		RespondError(c, "No se pudo crear la tarea", http.StatusInternalServerError)
		return
	}
	if err := replaceTags(tx, task.ID, tags); err != nil {
		tx.Rollback()
		RespondError(c, "No se pudo crear la tarea", http.StatusInternalServerError)
		return
	}
	if err := createHistoryEntry(tx, task.ID, &logged.ID, models.HISTORY_ACTION_CREATED,
		"", "", "", "Tarea creada"); err != nil {
		tx.Rollback()
		RespondError(c, "No se pudo crear la tarea", http.StatusInternalServerError)
		return
	}
	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		RespondError(c, "No se pudo crear la tarea", http.StatusInternalServerError)
		return
	}

	task, _ = loadTaskFull(gdb, task.ID, logged.ID)
	RespondCreated(c, taskToResponse(gdb, task))
}

// GetTasks lista las tareas del usuario con filtros por estado, envío,
// etiquetas y rango de fechas. Por defecto solo tareas activas.
func GetTasks(c *gin.Context) {
	gdb := db.DBInstance(c)
	logged, _ := GetUserLogged(c)

	skip, limit := Pagination(c)

	query := gdb.Model(&models.Task{}).Where("tasks.user_id = ?", logged.ID)

	if isActive := queryBool(c, "is_active"); isActive != nil {
		query = query.Where("tasks.is_active = ?", *isActive)
	} else {
		query = query.Where("tasks.is_active = ?", true)
	}
	if status := c.Query("status"); status != "" {
		if !models.IsValidTaskStatus(status) {
			RespondValidationError(c, "Estado inválido", "status")
			return
		}
		query = query.Where("tasks.status = ?", status)
	}
	if isSent := queryBool(c, "is_sent"); isSent != nil {
		query = query.Where("tasks.is_sent = ?", *isSent)
	}
	if tags := c.Query("tags"); tags != "" {
		wanted, err := normalizeTags(strings.Split(tags, ","))
		if err != nil {
			RespondValidationError(c, err.Error(), "tags")
			return
		}
		for _, tag := range wanted {
			query = query.Where(
				"EXISTS (SELECT 1 FROM task_tags tt WHERE tt.task_id = tasks.id AND tt.name = ?)", tag)
		}
	}
	if from := c.Query("date_from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			RespondValidationError(c, "Fecha inválida", "date_from")
			return
		}
		query = query.Where("tasks.scheduled_datetime >= ?", t)
	}
	if to := c.Query("date_to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			RespondValidationError(c, "Fecha inválida", "date_to")
			return
		}
		query = query.Where("tasks.scheduled_datetime <= ?", t)
	}

	var tasks []models.Task
	err := query.Preload("Contacts").Preload("Tags").
		Order("scheduled_datetime asc").
		Offset(skip).Limit(limit).
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

// SearchTasks busca por título o descripción.
func SearchTasks(c *gin.Context) {
	gdb := db.DBInstance(c)
	logged, _ := GetUserLogged(c)

	term := strings.TrimSpace(c.Query("q"))
	if term == "" {
		RespondValidationError(c, "El término de búsqueda es obligatorio", "q")
		return
	}

	skip, limit := Pagination(c)
	like := "%" + strings.ToLower(term) + "%"

	var tasks []models.Task
	err := gdb.Where("user_id = ? AND is_active = ?", logged.ID, true).
		Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", like, like).
		Preload("Contacts").Preload("Tags").
		Order("scheduled_datetime asc").Offset(skip).Limit(limit).
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

// GetTaskByID devuelve una tarea propia con contactos y etiquetas.
func GetTaskByID(c *gin.Context) {
	gdb := db.DBInstance(c)
	logged, _ := GetUserLogged(c)

	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	task, err := loadTaskFull(gdb, id, logged.ID)
	if err != nil {
		RespondError(c, "Tarea no encontrada", http.StatusNotFound)
		return
	}
	RespondSuccess(c, taskToResponse(gdb, task))
}

type taskUpdateInput struct {
	Title             *string    `json:"title"`
	Description       *string    `json:"description"`
	ScheduledDatetime *time.Time `json:"scheduled_datetime"`
	ContactIDs        []int64    `json:"contact_ids"`
	Tags              []string   `json:"tags"`
}

// UpdateTask modifica campos de una tarea. contact_ids y tags, si
// vienen, reemplazan por completo a los existentes.
func UpdateTask(c *gin.Context) {
	gdb := db.DBInstance(c)
	logged, _ := GetUserLogged(c)

	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	task, err := loadTaskFull(gdb, id, logged.ID)
	if err != nil {
		RespondError(c, "Tarea no encontrada", http.StatusNotFound)
		return
	}

	var input taskUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, "Cuerpo de la petición inválido", http.StatusBadRequest)
		return
	}

	var changes []string

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if msg := validateTitle(title); msg != "" {
			RespondValidationError(c, msg, "title")
			return
		}
		if title != task.Title {
			changes = append(changes, "title")
			task.Title = title
		}
	}
	if input.Description != nil {
		desc := strings.TrimSpace(*input.Description)
		if len(desc) > descMaxLen {
			RespondValidationError(c, "La descripción no puede superar los 2000 caracteres", "description")
			return
		}
		if desc != task.Description {
			changes = append(changes, "description")
			task.Description = desc
		}
	}
	if input.ScheduledDatetime != nil {
		if input.ScheduledDatetime.Before(time.Now()) {
			RespondValidationError(c, "La fecha programada debe ser futura", "scheduled_datetime")
			return
		}
		if !input.ScheduledDatetime.Equal(task.ScheduledDatetime) {
			changes = append(changes, "scheduled_datetime")
			task.ScheduledDatetime = *input.ScheduledDatetime
		}
	}

	var newContacts []models.Contact
	if input.ContactIDs != nil {
		newContacts, err = resolveContacts(gdb, logged.ID, input.ContactIDs)
		if err != nil {
			RespondValidationError(c, err.Error(), "contact_ids")
			return
		}
		changes = append(changes, "contacts")
	}

	var newTags []string
	if input.Tags != nil {
		newTags, err = normalizeTags(input.Tags)
		if err != nil {
			RespondValidationError(c, err.Error(), "tags")
			return
		}
	}

	tx := gdb.Begin()
	if err := tx.Save(&task).Error; err != nil {
		tx.Rollback()
		RespondError(c, "No se pudo actualizar la tarea", http.StatusInternalServerError)
		return
	}
	if input.ContactIDs != nil {
		if err := tx.Model(&task).Association("Contacts").Replace(newContacts).Error; err != nil {
			tx.Rollback()
			RespondError(c, "No se pudo actualizar la tarea", http.StatusInternalServerError)
			return
		}
	}
	if input.Tags != nil {
		if err := replaceTags(tx, task.ID, newTags); err != nil {
			tx.Rollback()
			RespondError(c, "No se pudo actualizar la tarea", http.StatusInternalServerError)
			return
		}
		changes = append(changes, "tags")
	}
	if len(changes) > 0 {
		if err := createHistoryEntry(tx, task.ID, &logged.ID, models.HISTORY_ACTION_MODIFIED,
			strings.Join(changes, ","), "", "", "Tarea modificada"); err != nil {
			tx.Rollback()
			RespondError(c, "No se pudo actualizar la tarea", http.StatusInternalServerError)
			return
		}
	}
	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		RespondError(c, "No se pudo actualizar la tarea", http.StatusInternalServerError)
		return
	}

	task, _ = loadTaskFull(gdb, task.ID, logged.ID)
	RespondSuccess(c, taskToResponse(gdb, task))
}

type statusInput struct {
	Status string `json:"status"`
}

// UpdateTaskStatus cambia el estado respetando las transiciones
// permitidas. Repetir el estado actual es un no-op válido.
func UpdateTaskStatus(c *gin.Context) {
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

	var input statusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, "Cuerpo de la petición inválido", http.StatusBadRequest)
		return
	}
	if !models.IsValidTaskStatus(input.Status) {
		RespondValidationError(c, "Estado inválido", "status")
		return
	}
	if !models.CanTransitionStatus(task.Status, input.Status) {
		RespondError(c,
			fmt.Sprintf("Transición de estado no permitida: de %s a %s", task.Status, input.Status),
			http.StatusBadRequest)
		return
	}

	if input.Status == task.Status {
		RespondSuccess(c, taskToResponse(gdb, task))
		return
	}

	oldStatus := task.Status
	task.Status = input.Status
	if input.Status == models.TASK_STATUS_CANCELADA {
		task.IsActive = false
	}
	// Reabrir una tarea cancelada la reactiva; si no, quedaría
	// pendiente pero fuera de los listados y del despachador.
	if oldStatus == models.TASK_STATUS_CANCELADA {
		task.IsActive = true
	}

	tx := gdb.Begin()
	if err := tx.Save(&task).Error; err != nil {
		tx.Rollback()
		RespondError(c, "No se pudo actualizar la tarea", http.StatusInternalServerError)
		return
	}
	if err := createHistoryEntry(tx, task.ID, &logged.ID, models.HISTORY_ACTION_STATUS_CHANGED,
		"status", oldStatus, input.Status, ""); err != nil {
		tx.Rollback()
		RespondError(c, "No se pudo actualizar la tarea", http.StatusInternalServerError)
		return
	}
	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		RespondError(c, "No se pudo actualizar la tarea", http.StatusInternalServerError)
		return
	}

	task, _ = loadTaskFull(gdb, task.ID, logged.ID)
	RespondSuccess(c, taskToResponse(gdb, task))
}

type taskContactsInput struct {
	ContactIDs []int64 `json:"contact_ids"`
}

// AddTaskContacts agrega destinatarios a la tarea.
func AddTaskContacts(c *gin.Context) {
	gdb := db.DBInstance(c)
	logged, _ := GetUserLogged(c)

	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	task, err := loadTaskFull(gdb, id, logged.ID)
	if err != nil {
		RespondError(c, "Tarea no encontrada", http.StatusNotFound)
		return
	}

	var input taskContactsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, "Cuerpo de la petición inválido", http.StatusBadRequest)
		return
	}

	contacts, err := resolveContacts(gdb, logged.ID, input.ContactIDs)
	if err != nil {
		RespondValidationError(c, err.Error(), "contact_ids")
		return
	}

	existing := map[int64]bool{}
	for _, contact := range task.Contacts {
		existing[contact.ID] = true
	}

	tx := gdb.Begin()
	added := []string{}
	for _, contact := range contacts {
		if existing[contact.ID] {
			continue
		}
		if err := tx.Model(&task).Association("Contacts").Append(contact).Error; err != nil {
			tx.Rollback()
			RespondError(c, "No se pudieron agregar los contactos", http.StatusInternalServerError)
			return
		}
		added = append(added, contact.Name)
	}
	if len(added) > 0 {
		if err := createHistoryEntry(tx, task.ID, &logged.ID, models.HISTORY_ACTION_CONTACT_ADDED,
			"contacts", "", strings.Join(added, ", "), ""); err != nil {
			tx.Rollback()
			RespondError(c, "No se pudieron agregar los contactos", http.StatusInternalServerError)
			return
		}
	}
	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		RespondError(c, "No se pudieron agregar los contactos", http.StatusInternalServerError)
		return
	}

	task, _ = loadTaskFull(gdb, task.ID, logged.ID)
	RespondSuccess(c, taskToResponse(gdb, task))
}

// RemoveTaskContacts quita un lote de destinatarios, todo o nada. Una
// tarea nunca puede quedar sin contactos: si el lote dejaría cero, se
// rechaza completo y el conjunto queda intacto.
func RemoveTaskContacts(c *gin.Context) {
	gdb := db.DBInstance(c)
	logged, _ := GetUserLogged(c)

	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	task, err := loadTaskFull(gdb, id, logged.ID)
	if err != nil {
		RespondError(c, "Tarea no encontrada", http.StatusNotFound)
		return
	}

	var input taskContactsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, "Cuerpo de la petición inválido", http.StatusBadRequest)
		return
	}
	if len(input.ContactIDs) == 0 {
		RespondValidationError(c, "Debe indicar al menos un contacto", "contact_ids")
		return
	}

	attached := map[int64]models.Contact{}
	for _, contact := range task.Contacts {
		attached[contact.ID] = contact
	}

	targets := []models.Contact{}
	seen := map[int64]bool{}
	for _, contactID := range input.ContactIDs {
		if seen[contactID] {
			continue
		}
		seen[contactID] = true
		contact, ok := attached[contactID]
		if !ok {
			RespondError(c, "El contacto no pertenece a la tarea", http.StatusNotFound)
			return
		}
		targets = append(targets, contact)
	}
	if len(task.Contacts)-len(targets) < 1 {
		RespondError(c, "La tarea debe conservar al menos un contacto", http.StatusBadRequest)
		return
	}

	tx := gdb.Begin()
	removed := []string{}
	for _, contact := range targets {
		if err := tx.Model(&task).Association("Contacts").Delete(contact).Error; err != nil {
			tx.Rollback()
			RespondError(c, "No se pudieron quitar los contactos", http.StatusInternalServerError)
			return
		}
		removed = append(removed, contact.Name)
	}
	if err := createHistoryEntry(tx, task.ID, &logged.ID, models.HISTORY_ACTION_CONTACT_REMOVED,
		"contacts", strings.Join(removed, ", "), "", ""); err != nil {
		tx.Rollback()
		RespondError(c, "No se pudieron quitar los contactos", http.StatusInternalServerError)
		return
	}
	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		RespondError(c, "No se pudieron quitar los contactos", http.StatusInternalServerError)
		return
	}

	task, _ = loadTaskFull(gdb, task.ID, logged.ID)
	RespondSuccess(c, taskToResponse(gdb, task))
}

// DeleteTask cancela y desactiva una tarea (borrado lógico).
func DeleteTask(c *gin.Context) {
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

	// Borrar dos veces no duplica el historial.
	if !task.IsActive {
		c.Status(http.StatusNoContent)
		return
	}

	oldStatus := task.Status
	task.IsActive = false
	task.Status = models.TASK_STATUS_CANCELADA

	tx := gdb.Begin()
	if err := tx.Save(&task).Error; err != nil {
		tx.Rollback()
		RespondError(c, "No se pudo eliminar la tarea", http.StatusInternalServerError)
		return
	}
	if err := createHistoryEntry(tx, task.ID, &logged.ID, models.HISTORY_ACTION_CANCELLED,
		"status", oldStatus, models.TASK_STATUS_CANCELADA, "Tarea eliminada"); err != nil {
		tx.Rollback()
		RespondError(c, "No se pudo eliminar la tarea", http.StatusInternalServerError)
		return
	}
	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		RespondError(c, "No se pudo eliminar la tarea", http.StatusInternalServerError)
		return
	}

	c.Status(http.StatusNoContent)
}
