package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Plan es una membresía del catálogo. El nombre es único sin distinguir
// mayúsculas; la comparación se hace en código con LOWER.
type Plan struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deletedAt,omitempty"`

	Nombre       string          `gorm:"size:100;not null" json:"nombre"`
	Descripcion  string          `gorm:"size:500" json:"descripcion,omitempty"`
	Precio       decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"precio"`
	DuracionDias int             `gorm:"not null" json:"duracionDias"`
	Activo       bool            `gorm:"not null;default:true" json:"activo"`
}

// TipoIngreso clasifica un pago recibido.
type TipoIngreso string

const (
	IngresoInscripcion   TipoIngreso = "inscripcion"
	IngresoRenovacion    TipoIngreso = "renovacion"
	IngresoServicioExtra TipoIngreso = "servicio_extra"
)

func (t TipoIngreso) EsValido() bool {
	switch t {
	case IngresoInscripcion, IngresoRenovacion, IngresoServicioExtra:
		return true
	}
	return false
}

// AfectaVencimiento indica si el pago mueve la fecha de vencimiento.
func (t TipoIngreso) AfectaVencimiento() bool {
	return t == IngresoInscripcion || t == IngresoRenovacion
}

// MetodoPago es la forma de pago aceptada en caja.
type MetodoPago string

const (
	MetodoEfectivo      MetodoPago = "efectivo"
	MetodoTarjeta       MetodoPago = "tarjeta"
	MetodoTransferencia MetodoPago = "transferencia"
)

func (m MetodoPago) EsValido() bool {
	switch m {
	case MetodoEfectivo, MetodoTarjeta, MetodoTransferencia:
		return true
	}
	return false
}

// Ingreso registra un pago de un atleta. Para inscripción y renovación el
// plan y el vencimiento nuevo son obligatorios; un servicio extra no toca
// fechas ni plan.
type Ingreso struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deletedAt,omitempty"`

	AtletaID uint  `gorm:"not null;index" json:"atletaId"`
	PlanID   *uint `gorm:"index" json:"planId,omitempty"`

	Monto       decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"monto"`
	Tipo        TipoIngreso     `gorm:"size:30;not null;index" json:"tipo"`
	Metodo      MetodoPago      `gorm:"size:30;not null" json:"metodo"`
	Descripcion string          `gorm:"size:500" json:"descripcion"`

	FechaPago         time.Time  `gorm:"not null;index" json:"fechaPago"`
	VencimientoPrevio *time.Time `json:"vencimientoPrevio,omitempty"`
	VencimientoNuevo  *time.Time `json:"vencimientoNuevo,omitempty"`

	ProcesadoPor uint `gorm:"not null" json:"procesadoPor"`
}

// TipoEgreso clasifica un gasto del gimnasio.
type TipoEgreso string

const (
	EgresoSalarioEmpleado TipoEgreso = "salario_empleado"
	EgresoCompraEquipos   TipoEgreso = "compra_equipos"
	EgresoMantenimiento   TipoEgreso = "mantenimiento"
	EgresoServicios       TipoEgreso = "servicios"
	EgresoAlquiler        TipoEgreso = "alquiler"
	EgresoOtro            TipoEgreso = "otro"
)

func (t TipoEgreso) EsValido() bool {
	switch t {
	case EgresoSalarioEmpleado, EgresoCompraEquipos, EgresoMantenimiento,
		EgresoServicios, EgresoAlquiler, EgresoOtro:
		return true
	}
	return false
}

// Egreso registra un gasto.
type Egreso struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deletedAt,omitempty"`

	Monto          decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"monto"`
	Tipo           TipoEgreso      `gorm:"size:30;not null;index" json:"tipo"`
	Descripcion    string          `gorm:"size:500;not null" json:"descripcion"`
	Beneficiario   string          `gorm:"size:255" json:"beneficiario,omitempty"`
	Metodo         MetodoPago      `gorm:"size:30;not null" json:"metodo"`
	FechaGasto     time.Time       `gorm:"not null;index" json:"fechaGasto"`
	RegistradoPor  uint            `gorm:"not null" json:"registradoPor"`
	ComprobanteRef string          `gorm:"size:100" json:"comprobanteRef,omitempty"`
}
