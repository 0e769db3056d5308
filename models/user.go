package models

import "time"

// User representa un usuario del sistema. Es dueño de sus contactos y tareas;
// al eliminarlo se eliminan en cascada (ver controllers.DeleteUser).
type User struct {
	ID          int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	Username    string     `gorm:"size:50;not null;unique_index" json:"username" form:"username"`
	Email       string     `gorm:"size:100;not null;unique_index" json:"email" form:"email"`
	FullName    string     `gorm:"column:full_name;size:200" json:"full_name" form:"full_name"`
	Password    string     `gorm:"size:255;not null" json:"-"`
	IsActive    bool       `gorm:"not null;default:true" json:"is_active"`
	IsSuperuser bool       `gorm:"not null;default:false" json:"is_superuser"`
	CreatedAt   *time.Time `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}
