package controllers

import (
	"net/http"
	"strings"

	"tareas/db"
	"tareas/models"
	"tareas/tools"

	"github.com/gin-gonic/gin"
)

type contactInput struct {
	Name         string `json:"name"`
	ChannelType  string `json:"channel_type"`
	ChannelValue string `json:"channel_value"`
	Notes        string `json:"notes"`
}

// CreateContact registra un contacto del usuario. El valor del canal se
// valida y normaliza según el tipo.
func CreateContact(c *gin.Context) {
	gdb := db.DBInstance(c)
	logged, _ := GetUserLogged(c)

	var input contactInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, "Cuerpo de la petición inválido", http.StatusBadRequest)
		return
	}

	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		RespondValidationError(c, "El nombre es obligatorio", "name")
		return
	}
	if !models.IsValidChannelType(input.ChannelType) {
		RespondValidationError(c, "Tipo de canal inválido", "channel_type")
		return
	}
	normalized, err := tools.ValidateChannelValue(input.ChannelType, input.ChannelValue)
	if err != nil {
		RespondValidationError(c, err.Error(), "channel_value")
		return
	}

	contact := models.Contact{
		UserID:       logged.ID,
		Name:         input.Name,
		ChannelType:  input.ChannelType,
		ChannelValue: normalized,
		Notes:        strings.TrimSpace(input.Notes),
		IsActive:     true,
	}
	if err := gdb.Create(&contact).Error; err != nil {
		RespondError(c, "No se pudo crear el contacto", http.StatusInternalServerError)
		return
	}
	RespondCreated(c, contact)
}

// GetContacts lista los contactos del usuario. Por defecto solo los
// activos; is_active=false lista explícitamente los desactivados.
func GetContacts(c *gin.Context) {
	gdb := db.DBInstance(c)
	logged, _ := GetUserLogged(c)

	skip, limit := Pagination(c)

	query := gdb.Model(&models.Contact{}).Where("user_id = ?", logged.ID)

	if isActive := queryBool(c, "is_active"); isActive != nil {
		query = query.Where("is_active = ?", *isActive)
	} else {
		query = query.Where("is_active = ?", true)
	}
	if channelType := c.Query("channel_type"); channelType != "" {
		if !models.IsValidChannelType(channelType) {
			RespondValidationError(c, "Tipo de canal inválido", "channel_type")
			return
		}
		query = query.Where("channel_type = ?", channelType)
	}
	if name := strings.TrimSpace(c.Query("name")); name != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(name)+"%")
	}

	var contacts []models.Contact
	if err := query.Order("name asc").Offset(skip).Limit(limit).Find(&contacts).Error; err != nil {
		RespondError(c, "No se pudieron obtener los contactos", http.StatusInternalServerError)
		return
	}
	RespondSuccess(c, contacts)
}

// SearchContacts busca por nombre, valor del canal o notas, sin
// distinguir mayúsculas.
func SearchContacts(c *gin.Context) {
	gdb := db.DBInstance(c)
	logged, _ := GetUserLogged(c)

	term := strings.TrimSpace(c.Query("q"))
	if term == "" {
		RespondValidationError(c, "El término de búsqueda es obligatorio", "q")
		return
	}

	skip, limit := Pagination(c)
	like := "%" + strings.ToLower(term) + "%"

	var contacts []models.Contact
	err := gdb.Where("user_id = ? AND is_active = ?", logged.ID, true).
		Where("LOWER(name) LIKE ? OR LOWER(channel_value) LIKE ? OR LOWER(notes) LIKE ?", like, like, like).
		Order("name asc").Offset(skip).Limit(limit).
		Find(&contacts).Error
	if err != nil {
		RespondError(c, "No se pudieron obtener los contactos", http.StatusInternalServerError)
		return
	}
	RespondSuccess(c, contacts)
}

// GetContactStats cuenta los contactos activos por tipo de canal.
func GetContactStats(c *gin.Context) {
	gdb := db.DBInstance(c)
	logged, _ := GetUserLogged(c)

	counts := gin.H{
		models.CHANNEL_TYPE_WHATSAPP: 0,
		models.CHANNEL_TYPE_EMAIL:    0,
		models.CHANNEL_TYPE_TELEGRAM: 0,
	}
	total := 0

	rows, err := gdb.Model(&models.Contact{}).
		Where("user_id = ? AND is_active = ?", logged.ID, true).
		Select("channel_type, COUNT(*)").
		Group("channel_type").Rows()
	if err != nil {
		RespondError(c, "No se pudieron obtener las estadísticas", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	for rows.Next() {
		var channelType string
		var n int
		if rows.Scan(&channelType, &n) == nil {
			counts[channelType] = n
			total += n
		}
	}

	RespondSuccess(c, gin.H{"total": total, "by_channel": counts})
}

// GetContactByID devuelve un contacto propio, incluso inactivo.
func GetContactByID(c *gin.Context) {
	gdb := db.DBInstance(c)
	logged, _ := GetUserLogged(c)

	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	var contact models.Contact
	err := gdb.Where("id = ? AND user_id = ?", id, logged.ID).First(&contact).Error
	if err != nil {
		RespondError(c, "Contacto no encontrado", http.StatusNotFound)
		return
	}
	RespondSuccess(c, contact)
}

type contactUpdateInput struct {
	Name         *string `json:"name"`
	ChannelType  *string `json:"channel_type"`
	ChannelValue *string `json:"channel_value"`
	Notes        *string `json:"notes"`
	IsActive     *bool   `json:"is_active"`
}

// UpdateContact modifica un contacto. Si cambia el tipo o el valor del
// canal, el valor efectivo se vuelve a validar contra el tipo efectivo.
func UpdateContact(c *gin.Context) {
	gdb := db.DBInstance(c)
	logged, _ := GetUserLogged(c)

	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	var contact models.Contact
	err := gdb.Where("id = ? AND user_id = ?", id, logged.ID).First(&contact).Error
	if err != nil {
		RespondError(c, "Contacto no encontrado", http.StatusNotFound)
		return
	}

	var input contactUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, "Cuerpo de la petición inválido", http.StatusBadRequest)
		return
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			RespondValidationError(c, "El nombre es obligatorio", "name")
			return
		}
		contact.Name = name
	}

	channelType := contact.ChannelType
	channelValue := contact.ChannelValue
	revalidate := false

	if input.ChannelType != nil {
		if !models.IsValidChannelType(*input.ChannelType) {
			RespondValidationError(c, "Tipo de canal inválido", "channel_type")
			return
		}
		channelType = *input.ChannelType
		revalidate = true
	}
	if input.ChannelValue != nil {
		channelValue = *input.ChannelValue
		revalidate = true
	}
	if revalidate {
		normalized, err := tools.ValidateChannelValue(channelType, channelValue)
		if err != nil {
			RespondValidationError(c, err.Error(), "channel_value")
			return
		}
		contact.ChannelType = channelType
		contact.ChannelValue = normalized
	}

	if input.Notes != nil {
		contact.Notes = strings.TrimSpace(*input.Notes)
	}
	if input.IsActive != nil {
		contact.IsActive = *input.IsActive
	}

	if err := gdb.Save(&contact).Error; err != nil {
		RespondError(c, "No se pudo actualizar el contacto", http.StatusInternalServerError)
		return
	}
	RespondSuccess(c, contact)
}

// DeleteContact desactiva un contacto (borrado lógico).
func DeleteContact(c *gin.Context) {
	gdb := db.DBInstance(c)
	logged, _ := GetUserLogged(c)

	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	var contact models.Contact
	err := gdb.Where("id = ? AND user_id = ?", id, logged.ID).First(&contact).Error
	if err != nil {
		RespondError(c, "Contacto no encontrado", http.StatusNotFound)
		return
	}

	contact.IsActive = false
	if err := gdb.Save(&contact).Error; err != nil {
		RespondError(c, "No se pudo eliminar el contacto", http.StatusInternalServerError)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteContactPermanent borra definitivamente un contacto. Se rechaza
// si alguna tarea activa quedaría sin contactos.
func DeleteContactPermanent(c *gin.Context) {
	gdb := db.DBInstance(c)
	logged, _ := GetUserLogged(c)

	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	var contact models.Contact
	err := gdb.Where("id = ? AND user_id = ?", id, logged.ID).First(&contact).Error
	if err != nil {
		RespondError(c, "Contacto no encontrado", http.StatusNotFound)
		return
	}

	// Tareas activas cuyo único contacto es este.
	var blocked int
	gdb.Raw(`SELECT COUNT(*) FROM tasks t
		WHERE t.is_active = ? AND t.user_id = ?
		AND EXISTS (SELECT 1 FROM task_contacts tc WHERE tc.task_id = t.id AND tc.contact_id = ?)
		AND (SELECT COUNT(*) FROM task_contacts tc2 WHERE tc2.task_id = t.id) = 1`,
		true, logged.ID, id).Row().Scan(&blocked)
	if blocked > 0 {
		RespondError(c, "El contacto es el único destinatario de tareas activas", http.StatusBadRequest)
		return
	}

	tx := gdb.Begin()
	tx.Exec("DELETE FROM task_contacts WHERE contact_id = ?", id)
	tx.Where("id = ?", id).Delete(&models.Contact{})
	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		RespondError(c, "No se pudo eliminar el contacto", http.StatusInternalServerError)
		return
	}
	c.Status(http.StatusNoContent)
}
