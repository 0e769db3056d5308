package db

import (
	"log"
	"os"

	"tareas/config"
	"tareas/models"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
)

// Connect abre la conexión con la base (sqlite3 por defecto, postgres para
// deploy). Para habilitar automigrate en dev, exporte AUTOMIGRATE=1.
func Connect(conf config.Configuration) (*gorm.DB, error) {
	var (
		gdb *gorm.DB
		err error
	)

	if conf.Database == "postgres" || conf.Database == "postgresql" {
		log.Println("Utilizando conexión con postgresql...")
		path := "host=" + conf.DbHost + " port=" + conf.DbPort
		path += " user=" + conf.DbUser + " dbname=" + conf.DbName
		path += " password=" + conf.DbPass
		gdb, err = gorm.Open("postgres", path)
	} else {
		log.Println("Utilizando conexión con sqlite3...")
		name := conf.DbName
		if name == "" {
			name = "db/database.db"
		}
		gdb, err = gorm.Open("sqlite3", name)
	}

	if err != nil {
		return nil, err
	}

	gdb.LogMode(conf.Debug)

	if os.Getenv("AUTOMIGRATE") == "1" {
		Migrate(gdb)
	}

	return gdb, nil
}

// Migrate crea/actualiza el esquema de todos los modelos.
func Migrate(gdb *gorm.DB) *gorm.DB {
	return gdb.AutoMigrate(
		&models.User{},
		&models.Contact{},
		&models.Task{},
		&models.TaskTag{},
		&models.TaskHistory{},
		&models.AIRequest{},
	)
}
