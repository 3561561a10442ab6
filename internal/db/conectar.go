package db

import (
	"fmt"

	"github.com/simonpc147/gimnasio-athena/internal/config"
	"github.com/simonpc147/gimnasio-athena/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Conectar abre la base Postgres con el logger de gorm en nivel Error:
// los errores de consulta quedan en el log, nunca viajan al operador.
func Conectar(cfg config.Config) (*gorm.DB, error) {
	var sslMode string
	if cfg.DBSSLOff {
		sslMode = " sslmode=disable"
	}
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d%s",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort, sslMode)

	database, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return nil, err
	}
	return database, nil
}

// Migrar aplica el esquema completo del núcleo.
func Migrar(database *gorm.DB) error {
	return database.AutoMigrate(
		&models.Usuario{},
		&models.Plan{},
		&models.Coach{},
		&models.Atleta{},
		&models.AsignacionCoach{},
		&models.Ingreso{},
		&models.Egreso{},
		&models.Rutina{},
		&models.Ejercicio{},
		&models.RutinaEjercicio{},
	)
}
