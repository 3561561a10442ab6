package models

import (
	"time"

	"gorm.io/gorm"
)

// NivelRutina es la dificultad de una rutina o de un ejercicio dentro de ella.
type NivelRutina string

const (
	NivelPrincipiante NivelRutina = "Principiante"
	NivelIntermedio   NivelRutina = "Intermedio"
	NivelAvanzado     NivelRutina = "Avanzado"
)

func (n NivelRutina) EsValido() bool {
	switch n {
	case NivelPrincipiante, NivelIntermedio, NivelAvanzado:
		return true
	}
	return false
}

// TipoEjercicio clasifica un ejercicio del catálogo.
type TipoEjercicio string

const (
	EjercicioFuerza       TipoEjercicio = "Fuerza"
	EjercicioCardio       TipoEjercicio = "Cardio"
	EjercicioFlexibilidad TipoEjercicio = "Flexibilidad"
)

func (t TipoEjercicio) EsValido() bool {
	switch t {
	case EjercicioFuerza, EjercicioCardio, EjercicioFlexibilidad:
		return true
	}
	return false
}

// Rutina es una plantilla de entrenamiento armada por un coach o admin.
type Rutina struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deletedAt,omitempty"`

	Nombre      string      `gorm:"size:100;not null" json:"nombre"`
	Nivel       NivelRutina `gorm:"size:20;not null" json:"nivel"`
	Descripcion string      `gorm:"size:500" json:"descripcion,omitempty"`
	CreadoPor   uint        `gorm:"not null" json:"creadoPor"`

	// Al borrar la rutina se van sus filas de composición.
	Ejercicios []RutinaEjercicio `gorm:"foreignKey:RutinaID;constraint:OnDelete:CASCADE" json:"ejercicios,omitempty"`
}

// Ejercicio es una entrada del catálogo de ejercicios.
type Ejercicio struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deletedAt,omitempty"`

	Nombre        string        `gorm:"size:100;not null" json:"nombre"`
	Tipo          TipoEjercicio `gorm:"size:20;not null" json:"tipo"`
	Descripcion   string        `gorm:"size:500" json:"descripcion,omitempty"`
	Instrucciones string        `gorm:"size:1000" json:"instrucciones,omitempty"`
}

// RutinaEjercicio es la composición ordenada rutina→ejercicio.
type RutinaEjercicio struct {
	ID uint `gorm:"primaryKey" json:"id"`

	RutinaID    uint        `gorm:"not null;index" json:"rutinaId"`
	EjercicioID uint        `gorm:"not null;index" json:"ejercicioId"`
	Ejercicio   Ejercicio   `gorm:"foreignKey:EjercicioID" json:"ejercicio"`
	Nivel       NivelRutina `gorm:"size:20;not null" json:"nivel"`
	Series      int         `gorm:"not null" json:"series"`
	Rondas      int         `gorm:"not null" json:"rondas"`
	Orden       int         `gorm:"not null" json:"orden"`
}
