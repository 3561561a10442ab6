package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Solvencia es el estado de la membresía de un atleta.
type Solvencia string

const (
	SolvenciaSolvente   Solvencia = "solvente"
	SolvenciaVencido    Solvencia = "vencido"
	SolvenciaSuspendido Solvencia = "suspendido"
)

// Atleta es el perfil de gimnasio de un usuario con rol atleta.
type Atleta struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deletedAt,omitempty"`

	UsuarioID uint    `gorm:"uniqueIndex;not null" json:"usuarioId"`
	Usuario   Usuario `gorm:"foreignKey:UsuarioID" json:"usuario"`

	Cedula          string     `gorm:"size:30;uniqueIndex;not null" json:"cedula"`
	Peso            *float64   `json:"peso,omitempty"`
	FechaNacimiento *time.Time `json:"fechaNacimiento,omitempty"`

	PlanID  uint  `gorm:"not null;index" json:"planId"`
	Plan    Plan  `gorm:"foreignKey:PlanID" json:"plan"`
	CoachID *uint `gorm:"index" json:"coachId,omitempty"`

	MetaLargoPlazo string `gorm:"size:500" json:"metaLargoPlazo,omitempty"`
	NotasMedicas   string `gorm:"size:1000" json:"notasMedicas,omitempty"`

	FechaInscripcion time.Time  `gorm:"not null" json:"fechaInscripcion"`
	FechaVencimiento time.Time  `gorm:"not null" json:"fechaVencimiento"`
	UltimoPago       *time.Time `json:"ultimoPago,omitempty"`
	Solvencia        Solvencia  `gorm:"size:20;not null;default:'solvente';index" json:"solvencia"`
}

// SolvenciaCalculada deriva el estado vigente: la suspensión es manual y se
// respeta; fuera de eso manda la fecha de vencimiento.
func (a *Atleta) SolvenciaCalculada(hoy time.Time) Solvencia {
	if a.Solvencia == SolvenciaSuspendido {
		return SolvenciaSuspendido
	}
	if !SoloFecha(a.FechaVencimiento).Before(SoloFecha(hoy)) {
		return SolvenciaSolvente
	}
	return SolvenciaVencido
}

// Coach es el perfil laboral de un usuario con rol coach.
type Coach struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deletedAt,omitempty"`

	UsuarioID uint    `gorm:"uniqueIndex;not null" json:"usuarioId"`
	Usuario   Usuario `gorm:"foreignKey:UsuarioID" json:"usuario"`

	Especialidades    string           `gorm:"size:255" json:"especialidades"`
	HorarioDisponible string           `gorm:"size:255" json:"horarioDisponible"`
	FechaContratacion time.Time        `gorm:"not null" json:"fechaContratacion"`
	Salario           *decimal.Decimal `gorm:"type:numeric(10,2)" json:"salario,omitempty"`
}

// AsignacionCoach vincula un coach con un atleta durante un intervalo.
// A lo sumo una asignación activa por atleta; el historial se conserva.
type AsignacionCoach struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	CoachID  uint `gorm:"not null;index" json:"coachId"`
	AtletaID uint `gorm:"not null;index:idx_asignacion_activa_atleta,unique,where:activa" json:"atletaId"`

	AsignadaEl  time.Time  `gorm:"not null" json:"asignadaEl"`
	TerminadaEl *time.Time `json:"terminadaEl,omitempty"`
	Activa      bool       `gorm:"not null;default:true" json:"activa"`
	Notas       string     `gorm:"size:1000" json:"notas,omitempty"`
}
