package coaches

import (
	"strings"

	"github.com/simonpc147/gimnasio-athena/internal/models"
	"gorm.io/gorm"
)

type Repository interface {
	Crear(db *gorm.DB, c *models.Coach) error
	BuscarPorID(db *gorm.DB, id uint) (*models.Coach, error)
	ListarTodos(db *gorm.DB) ([]models.Coach, error)
	Guardar(db *gorm.DB, c *models.Coach) error
	BuscarPorEspecialidad(db *gorm.DB, parte string) ([]models.Coach, error)
	BuscarPorUsuarioID(db *gorm.DB, usuarioID uint) (*models.Coach, error)

	CrearAsignacion(db *gorm.DB, a *models.AsignacionCoach) error
	BuscarAsignacion(db *gorm.DB, id uint) (*models.AsignacionCoach, error)
	GuardarAsignacion(db *gorm.DB, a *models.AsignacionCoach) error
	AsignacionActivaDeAtleta(db *gorm.DB, atletaID uint) (*models.AsignacionCoach, error)
	AsignacionesDeCoach(db *gorm.DB, coachID uint) ([]models.AsignacionCoach, error)
	HistorialDeAtleta(db *gorm.DB, atletaID uint) ([]models.AsignacionCoach, error)
	AtletasDeCoach(db *gorm.DB, coachID uint, soloActivas bool) ([]models.Atleta, error)
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Crear(db *gorm.DB, c *models.Coach) error {
	return db.Create(c).Error
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id uint) (*models.Coach, error) {
	var c models.Coach
	if err := db.Preload("Usuario").First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repositoryImpl) ListarTodos(db *gorm.DB) ([]models.Coach, error) {
	var coaches []models.Coach
	err := db.Preload("Usuario").Find(&coaches).Error
	return coaches, err
}

func (r *repositoryImpl) Guardar(db *gorm.DB, c *models.Coach) error {
	return db.Save(c).Error
}

// BuscarPorEspecialidad filtra por subcadena, sin distinguir mayúsculas.
func (r *repositoryImpl) BuscarPorEspecialidad(db *gorm.DB, parte string) ([]models.Coach, error) {
	var coaches []models.Coach
	patron := "%" + strings.ToLower(strings.TrimSpace(parte)) + "%"
	err := db.Preload("Usuario").
		Where("LOWER(especialidades) LIKE ?", patron).Find(&coaches).Error
	return coaches, err
}

func (r *repositoryImpl) BuscarPorUsuarioID(db *gorm.DB, usuarioID uint) (*models.Coach, error) {
	var c models.Coach
	err := db.Where("usuario_id = ?", usuarioID).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repositoryImpl) CrearAsignacion(db *gorm.DB, a *models.AsignacionCoach) error {
	return db.Create(a).Error
}

func (r *repositoryImpl) BuscarAsignacion(db *gorm.DB, id uint) (*models.AsignacionCoach, error) {
	var a models.AsignacionCoach
	if err := db.First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repositoryImpl) GuardarAsignacion(db *gorm.DB, a *models.AsignacionCoach) error {
	return db.Save(a).Error
}

func (r *repositoryImpl) AsignacionActivaDeAtleta(db *gorm.DB, atletaID uint) (*models.AsignacionCoach, error) {
	var a models.AsignacionCoach
	err := db.Where("atleta_id = ? AND activa = ?", atletaID, true).First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repositoryImpl) AsignacionesDeCoach(db *gorm.DB, coachID uint) ([]models.AsignacionCoach, error) {
	var asignaciones []models.AsignacionCoach
	err := db.Where("coach_id = ?", coachID).
		Order("asignada_el DESC").Find(&asignaciones).Error
	return asignaciones, err
}

func (r *repositoryImpl) HistorialDeAtleta(db *gorm.DB, atletaID uint) ([]models.AsignacionCoach, error) {
	var asignaciones []models.AsignacionCoach
	err := db.Where("atleta_id = ?", atletaID).
		Order("asignada_el DESC").Find(&asignaciones).Error
	return asignaciones, err
}

// AtletasDeCoach junta por la tabla de asignaciones; con soloActivas trae
// la cartera vigente, sin ella todo atleta que pasó por el coach.
func (r *repositoryImpl) AtletasDeCoach(db *gorm.DB, coachID uint, soloActivas bool) ([]models.Atleta, error) {
	var atletas []models.Atleta
	consulta := db.Preload("Usuario").Preload("Plan").
		Joins("JOIN asignaciones_coach ac ON ac.atleta_id = atletas.id").
		Where("ac.coach_id = ?", coachID)
	if soloActivas {
		consulta = consulta.Where("ac.activa = ?", true)
	}
	err := consulta.Distinct("atletas.*").Find(&atletas).Error
	return atletas, err
}
