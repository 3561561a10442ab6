package finanzas

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/simonpc147/gimnasio-athena/internal/models"
)

// DatosPlan es el alta de una membresía del catálogo.
type DatosPlan struct {
	Nombre       string          `json:"nombre"`
	Descripcion  string          `json:"descripcion,omitempty"`
	Precio       decimal.Decimal `json:"precio"`
	DuracionDias int             `json:"duracionDias"`
}

// DatosEgreso es el alta de un gasto; la fecha vacía toma el día de hoy.
type DatosEgreso struct {
	Monto        decimal.Decimal   `json:"monto"`
	Tipo         models.TipoEgreso `json:"tipo"`
	Descripcion  string            `json:"descripcion"`
	Beneficiario string            `json:"beneficiario,omitempty"`
	Metodo       models.MetodoPago `json:"metodo"`
	FechaGasto   *time.Time        `json:"fechaGasto,omitempty"`
	Comprobante  string            `json:"comprobanteRef,omitempty"`
}

// ActualizarIngreso limita la edición de un pago a monto, método y
// descripción; identificadores y fechas son inmutables.
type ActualizarIngreso struct {
	Monto       *decimal.Decimal   `json:"monto,omitempty"`
	Metodo      *models.MetodoPago `json:"metodo,omitempty"`
	Descripcion *string            `json:"descripcion,omitempty"`
}

// TotalesPeriodo son los agregados del reporte, ya redondeados a dos
// decimales para presentación.
type TotalesPeriodo struct {
	TotalIngresos    decimal.Decimal `json:"totalIngresos"`
	TotalEgresos     decimal.Decimal `json:"totalEgresos"`
	Balance          decimal.Decimal `json:"balance"`
	CantidadIngresos int             `json:"cantidadIngresos"`
	CantidadEgresos  int             `json:"cantidadEgresos"`
}

// ReportePeriodo resume ingresos y egresos de un rango de fechas.
type ReportePeriodo struct {
	Desde           time.Time                              `json:"desde"`
	Hasta           time.Time                              `json:"hasta"`
	Totales         TotalesPeriodo                         `json:"totales"`
	IngresosPorTipo map[models.TipoIngreso]decimal.Decimal `json:"ingresosPorTipo"`
	EgresosPorTipo  map[models.TipoEgreso]decimal.Decimal  `json:"egresosPorTipo"`
}
