package rutinas

import (
	"github.com/simonpc147/gimnasio-athena/internal/models"
	"gorm.io/gorm"
)

type Repository interface {
	CrearRutina(db *gorm.DB, r *models.Rutina) error
	BuscarRutina(db *gorm.DB, id uint) (*models.Rutina, error)
	RutinaConEjercicios(db *gorm.DB, id uint) (*models.Rutina, error)
	ListarRutinas(db *gorm.DB) ([]models.Rutina, error)
	ListarRutinasPorNivel(db *gorm.DB, nivel models.NivelRutina) ([]models.Rutina, error)
	GuardarRutina(db *gorm.DB, r *models.Rutina) error
	EliminarRutina(db *gorm.DB, id uint) error

	CrearEjercicio(db *gorm.DB, e *models.Ejercicio) error
	BuscarEjercicio(db *gorm.DB, id uint) (*models.Ejercicio, error)
	ListarEjercicios(db *gorm.DB) ([]models.Ejercicio, error)
	ListarEjerciciosPorTipo(db *gorm.DB, tipo models.TipoEjercicio) ([]models.Ejercicio, error)
	GuardarEjercicio(db *gorm.DB, e *models.Ejercicio) error
	EliminarEjercicio(db *gorm.DB, id uint) error

	CrearComposicion(db *gorm.DB, re *models.RutinaEjercicio) error
	BuscarComposicion(db *gorm.DB, rutinaID, ejercicioID uint) (*models.RutinaEjercicio, error)
	EliminarComposicion(db *gorm.DB, rutinaID, ejercicioID uint) error
	ContarComposicionesDeEjercicio(db *gorm.DB, ejercicioID uint) (int64, error)
	ContarEjerciciosDeRutina(db *gorm.DB, rutinaID uint) (int64, error)
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (repositoryImpl) CrearRutina(db *gorm.DB, r *models.Rutina) error {
	return db.Create(r).Error
}

func (repositoryImpl) BuscarRutina(db *gorm.DB, id uint) (*models.Rutina, error) {
	var r models.Rutina
	if err := db.First(&r, id).Error; err != nil {
		return nil, err
	}
	return &r, nil
}

// RutinaConEjercicios trae la rutina con su composición en orden y cada
// ejercicio del catálogo resuelto.
func (repositoryImpl) RutinaConEjercicios(db *gorm.DB, id uint) (*models.Rutina, error) {
	var r models.Rutina
	err := db.
		Preload("Ejercicios", func(db *gorm.DB) *gorm.DB {
			return db.Order("orden ASC")
		}).
		Preload("Ejercicios.Ejercicio").
		First(&r, id).Error
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (repositoryImpl) ListarRutinas(db *gorm.DB) ([]models.Rutina, error) {
	var rutinas []models.Rutina
	if err := db.Order("nombre ASC").Find(&rutinas).Error; err != nil {
		return nil, err
	}
	return rutinas, nil
}

func (repositoryImpl) ListarRutinasPorNivel(db *gorm.DB, nivel models.NivelRutina) ([]models.Rutina, error) {
	var rutinas []models.Rutina
	if err := db.Where("nivel = ?", nivel).Order("nombre ASC").Find(&rutinas).Error; err != nil {
		return nil, err
	}
	return rutinas, nil
}

func (repositoryImpl) GuardarRutina(db *gorm.DB, r *models.Rutina) error {
	return db.Save(r).Error
}

// EliminarRutina borra la rutina y su composición; las filas de
// rutina_ejercicios no tienen soft delete, van de una.
func (repositoryImpl) EliminarRutina(db *gorm.DB, id uint) error {
	if err := db.Where("rutina_id = ?", id).Delete(&models.RutinaEjercicio{}).Error; err != nil {
		return err
	}
	return db.Unscoped().Delete(&models.Rutina{}, id).Error
}

func (repositoryImpl) CrearEjercicio(db *gorm.DB, e *models.Ejercicio) error {
	return db.Create(e).Error
}

func (repositoryImpl) BuscarEjercicio(db *gorm.DB, id uint) (*models.Ejercicio, error) {
	var e models.Ejercicio
	if err := db.First(&e, id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (repositoryImpl) ListarEjercicios(db *gorm.DB) ([]models.Ejercicio, error) {
	var ejercicios []models.Ejercicio
	if err := db.Order("nombre ASC").Find(&ejercicios).Error; err != nil {
		return nil, err
	}
	return ejercicios, nil
}

func (repositoryImpl) ListarEjerciciosPorTipo(db *gorm.DB, tipo models.TipoEjercicio) ([]models.Ejercicio, error) {
	var ejercicios []models.Ejercicio
	if err := db.Where("tipo = ?", tipo).Order("nombre ASC").Find(&ejercicios).Error; err != nil {
		return nil, err
	}
	return ejercicios, nil
}

func (repositoryImpl) GuardarEjercicio(db *gorm.DB, e *models.Ejercicio) error {
	return db.Save(e).Error
}

func (repositoryImpl) EliminarEjercicio(db *gorm.DB, id uint) error {
	return db.Unscoped().Delete(&models.Ejercicio{}, id).Error
}

func (repositoryImpl) CrearComposicion(db *gorm.DB, re *models.RutinaEjercicio) error {
	return db.Create(re).Error
}

func (repositoryImpl) BuscarComposicion(db *gorm.DB, rutinaID, ejercicioID uint) (*models.RutinaEjercicio, error) {
	var re models.RutinaEjercicio
	err := db.Where("rutina_id = ? AND ejercicio_id = ?", rutinaID, ejercicioID).First(&re).Error
	if err != nil {
		return nil, err
	}
	return &re, nil
}

func (repositoryImpl) EliminarComposicion(db *gorm.DB, rutinaID, ejercicioID uint) error {
	return db.Where("rutina_id = ? AND ejercicio_id = ?", rutinaID, ejercicioID).
		Delete(&models.RutinaEjercicio{}).Error
}

func (repositoryImpl) ContarComposicionesDeEjercicio(db *gorm.DB, ejercicioID uint) (int64, error) {
	var n int64
	err := db.Model(&models.RutinaEjercicio{}).Where("ejercicio_id = ?", ejercicioID).Count(&n).Error
	return n, err
}

func (repositoryImpl) ContarEjerciciosDeRutina(db *gorm.DB, rutinaID uint) (int64, error) {
	var n int64
	err := db.Model(&models.RutinaEjercicio{}).Where("rutina_id = ?", rutinaID).Count(&n).Error
	return n, err
}
