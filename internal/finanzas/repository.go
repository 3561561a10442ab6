package finanzas

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/simonpc147/gimnasio-athena/internal/models"
	"gorm.io/gorm"
)

// FilaIngresoDetallado es la vista de caja: cada pago con el nombre del
// atleta, el plan y quién lo procesó.
type FilaIngresoDetallado struct {
	ID          uint            `json:"id"`
	FechaPago   time.Time       `json:"fechaPago"`
	Atleta      string          `json:"atleta"`
	Plan        string          `json:"plan"`
	Monto       decimal.Decimal `json:"monto"`
	Tipo        string          `json:"tipo"`
	Metodo      string          `json:"metodo"`
	Descripcion string          `json:"descripcion"`
	Procesador  string          `json:"procesador"`
}

type Repository interface {
	CrearPlan(db *gorm.DB, p *models.Plan) error
	BuscarPlanPorID(db *gorm.DB, id uint) (*models.Plan, error)
	BuscarPlanPorNombre(db *gorm.DB, nombre string) (*models.Plan, error)
	ListarPlanesActivos(db *gorm.DB) ([]models.Plan, error)
	GuardarPlan(db *gorm.DB, p *models.Plan) error

	CrearIngreso(db *gorm.DB, i *models.Ingreso) error
	BuscarIngresoPorID(db *gorm.DB, id uint) (*models.Ingreso, error)
	GuardarIngreso(db *gorm.DB, i *models.Ingreso) error
	EliminarIngreso(db *gorm.DB, id uint) error
	ListarIngresosEnRango(db *gorm.DB, desde, hasta time.Time) ([]models.Ingreso, error)
	ListarIngresosDetallados(db *gorm.DB, desde, hasta time.Time) ([]FilaIngresoDetallado, error)

	CrearEgreso(db *gorm.DB, e *models.Egreso) error
	ListarEgresos(db *gorm.DB) ([]models.Egreso, error)
	ListarEgresosPorTipo(db *gorm.DB, tipo models.TipoEgreso) ([]models.Egreso, error)
	ListarEgresosEnRango(db *gorm.DB, desde, hasta time.Time) ([]models.Egreso, error)
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

// --- Planes ---

func (r *repositoryImpl) CrearPlan(db *gorm.DB, p *models.Plan) error {
	return db.Create(p).Error
}

func (r *repositoryImpl) BuscarPlanPorID(db *gorm.DB, id uint) (*models.Plan, error) {
	var p models.Plan
	if err := db.First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// BuscarPlanPorNombre compara sin distinguir mayúsculas.
func (r *repositoryImpl) BuscarPlanPorNombre(db *gorm.DB, nombre string) (*models.Plan, error) {
	var p models.Plan
	err := db.Where("LOWER(nombre) = ?", strings.ToLower(strings.TrimSpace(nombre))).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repositoryImpl) ListarPlanesActivos(db *gorm.DB) ([]models.Plan, error) {
	var planes []models.Plan
	err := db.Where("activo = ?", true).Order("nombre").Find(&planes).Error
	return planes, err
}

func (r *repositoryImpl) GuardarPlan(db *gorm.DB, p *models.Plan) error {
	return db.Save(p).Error
}

// --- Ingresos ---

func (r *repositoryImpl) CrearIngreso(db *gorm.DB, i *models.Ingreso) error {
	return db.Create(i).Error
}

func (r *repositoryImpl) BuscarIngresoPorID(db *gorm.DB, id uint) (*models.Ingreso, error) {
	var i models.Ingreso
	if err := db.First(&i, id).Error; err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *repositoryImpl) GuardarIngreso(db *gorm.DB, i *models.Ingreso) error {
	return db.Save(i).Error
}

func (r *repositoryImpl) EliminarIngreso(db *gorm.DB, id uint) error {
	return db.Delete(&models.Ingreso{}, id).Error
}

func (r *repositoryImpl) ListarIngresosEnRango(db *gorm.DB, desde, hasta time.Time) ([]models.Ingreso, error) {
	var ingresos []models.Ingreso
	err := db.Where("fecha_pago BETWEEN ? AND ?", desde, hasta).
		Order("fecha_pago DESC").Find(&ingresos).Error
	return ingresos, err
}

// ListarIngresosDetallados arma la vista con joins a atleta, plan y
// procesador, ordenada por fecha de pago descendente.
func (r *repositoryImpl) ListarIngresosDetallados(db *gorm.DB, desde, hasta time.Time) ([]FilaIngresoDetallado, error) {
	var filas []FilaIngresoDetallado
	err := db.Raw(`
		SELECT i.id,
		       i.fecha_pago,
		       u.nombre || ' ' || u.apellido AS atleta,
		       COALESCE(p.nombre, '') AS plan,
		       i.monto,
		       i.tipo,
		       i.metodo,
		       i.descripcion,
		       pu.nombre || ' ' || pu.apellido AS procesador
		FROM ingresos i
		JOIN atletas a ON a.id = i.atleta_id
		JOIN usuarios u ON u.id = a.usuario_id
		LEFT JOIN planes p ON p.id = i.plan_id
		JOIN usuarios pu ON pu.id = i.procesado_por
		WHERE i.deleted_at IS NULL
		  AND i.fecha_pago BETWEEN ? AND ?
		ORDER BY i.fecha_pago DESC`, desde, hasta).Scan(&filas).Error
	return filas, err
}

// --- Egresos ---

func (r *repositoryImpl) CrearEgreso(db *gorm.DB, e *models.Egreso) error {
	return db.Create(e).Error
}

func (r *repositoryImpl) ListarEgresos(db *gorm.DB) ([]models.Egreso, error) {
	var egresos []models.Egreso
	err := db.Order("fecha_gasto DESC").Find(&egresos).Error
	return egresos, err
}

func (r *repositoryImpl) ListarEgresosPorTipo(db *gorm.DB, tipo models.TipoEgreso) ([]models.Egreso, error) {
	var egresos []models.Egreso
	err := db.Where("tipo = ?", tipo).Order("fecha_gasto DESC").Find(&egresos).Error
	return egresos, err
}

func (r *repositoryImpl) ListarEgresosEnRango(db *gorm.DB, desde, hasta time.Time) ([]models.Egreso, error) {
	var egresos []models.Egreso
	err := db.Where("fecha_gasto BETWEEN ? AND ?", desde, hasta).
		Order("fecha_gasto DESC").Find(&egresos).Error
	return egresos, err
}
