package atletas

import (
	"time"

	"github.com/simonpc147/gimnasio-athena/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	Crear(db *gorm.DB, a *models.Atleta) error
	BuscarPorID(db *gorm.DB, id uint) (*models.Atleta, error)
	BuscarPorCedula(db *gorm.DB, cedula string) (*models.Atleta, error)
	ListarTodos(db *gorm.DB) ([]models.Atleta, error)
	ListarPorCoach(db *gorm.DB, coachID uint) ([]models.Atleta, error)
	ListarPorVencer(db *gorm.DB, desde, hasta time.Time) ([]models.Atleta, error)
	Guardar(db *gorm.DB, a *models.Atleta) error
	Eliminar(db *gorm.DB, id uint) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Crear(db *gorm.DB, a *models.Atleta) error {
	return db.Create(a).Error
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id uint) (*models.Atleta, error) {
	var a models.Atleta
	err := db.Preload("Usuario").Preload("Plan").First(&a, id).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repositoryImpl) BuscarPorCedula(db *gorm.DB, cedula string) (*models.Atleta, error) {
	var a models.Atleta
	err := db.Where("cedula = ?", cedula).First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repositoryImpl) ListarTodos(db *gorm.DB) ([]models.Atleta, error) {
	var atletas []models.Atleta
	err := db.Preload("Usuario").Preload("Plan").Find(&atletas).Error
	return atletas, err
}

func (r *repositoryImpl) ListarPorCoach(db *gorm.DB, coachID uint) ([]models.Atleta, error) {
	var atletas []models.Atleta
	err := db.Preload("Usuario").Preload("Plan").
		Where("coach_id = ?", coachID).Find(&atletas).Error
	return atletas, err
}

// ListarPorVencer trae membresías vigentes que vencen dentro de la
// ventana: ni vencidas ni suspendidas.
func (r *repositoryImpl) ListarPorVencer(db *gorm.DB, desde, hasta time.Time) ([]models.Atleta, error) {
	var atletas []models.Atleta
	err := db.Preload("Usuario").Preload("Plan").
		Where("fecha_vencimiento BETWEEN ? AND ?", desde, hasta).
		Where("solvencia = ?", models.SolvenciaSolvente).
		Order("fecha_vencimiento").Find(&atletas).Error
	return atletas, err
}

// Guardar persiste solo las columnas del atleta. Las asociaciones vienen
// precargadas de BuscarPorID y guardarlas reescribiría las claves foráneas
// con los valores viejos.
func (r *repositoryImpl) Guardar(db *gorm.DB, a *models.Atleta) error {
	return db.Omit(clause.Associations).Save(a).Error
}

// Eliminar es borrado duro: la baja de un atleta no deja fila tumba.
func (r *repositoryImpl) Eliminar(db *gorm.DB, id uint) error {
	return db.Unscoped().Delete(&models.Atleta{}, id).Error
}
