package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Rol identifica el perfil de acceso de un usuario del sistema.
type Rol string

const (
	RolAdminPrincipal Rol = "admin_principal"
	RolSecretaria     Rol = "secretaria"
	RolCoach          Rol = "coach"
	RolAtleta         Rol = "atleta"
)

// NormalizarRol acepta el alias histórico "Admin Principal" que quedó
// guardado en instalaciones viejas y lo lleva a la forma canónica.
func NormalizarRol(valor string) Rol {
	v := strings.ToLower(strings.TrimSpace(valor))
	if v == "admin principal" {
		return RolAdminPrincipal
	}
	return Rol(v)
}

// EsValido indica si el rol pertenece al conjunto cerrado de roles.
func (r Rol) EsValido() bool {
	switch r {
	case RolAdminPrincipal, RolSecretaria, RolCoach, RolAtleta:
		return true
	}
	return false
}

// Usuario representa una cuenta del sistema. Los atletas y coaches tienen
// siempre un Usuario subyacente con el rol correspondiente.
type Usuario struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deletedAt,omitempty"`

	Nombre    string `gorm:"size:100;not null" json:"nombre"`
	Apellido  string `gorm:"size:100;not null" json:"apellido"`
	Edad      *int   `json:"edad,omitempty"`
	Direccion string `gorm:"size:255" json:"direccion,omitempty"`
	Telefono  string `gorm:"size:30" json:"telefono,omitempty"`

	// Correo se guarda siempre en minúsculas; la unicidad es sobre esa forma.
	Correo    string `gorm:"size:255;uniqueIndex;not null" json:"correo"`
	ClaveHash string `gorm:"size:255;not null" json:"-"`
	Rol       Rol    `gorm:"size:30;not null;index" json:"rol"`
	Activo    bool   `gorm:"not null;default:true" json:"activo"`

	// CreadoPor permite a una secretaría editar solamente los usuarios
	// que ella misma registró.
	CreadoPor *uint `json:"creadoPor,omitempty"`
}

// NormalizarCorreo lleva un correo a su forma de comparación.
func NormalizarCorreo(correo string) string {
	return strings.ToLower(strings.TrimSpace(correo))
}
