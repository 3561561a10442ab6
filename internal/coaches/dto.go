package coaches

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/simonpc147/gimnasio-athena/internal/usuarios"
)

// DatosCoach es el perfil laboral en el alta de un coach.
type DatosCoach struct {
	Especialidades    string           `json:"especialidades"`
	HorarioDisponible string           `json:"horarioDisponible"`
	FechaContratacion *time.Time       `json:"fechaContratacion,omitempty"`
	Salario           *decimal.Decimal `json:"salario,omitempty"`
}

// RegistroCoachRequest junta la cuenta y el perfil en un solo alta.
type RegistroCoachRequest struct {
	Usuario usuarios.DatosUsuario `json:"usuario"`
	Perfil  DatosCoach            `json:"perfil"`
}

// ResultadoRegistro devuelve los ids creados y, si la clave fue
// autogenerada, la clave para entregarle al coach.
type ResultadoRegistro struct {
	CoachID       uint   `json:"coachId"`
	UsuarioID     uint   `json:"usuarioId"`
	ClaveGenerada string `json:"claveGenerada,omitempty"`
}

// ActualizarCoach es el parche del perfil laboral.
type ActualizarCoach struct {
	Especialidades    *string          `json:"especialidades,omitempty"`
	HorarioDisponible *string          `json:"horarioDisponible,omitempty"`
	Salario           *decimal.Decimal `json:"salario,omitempty"`
}

type asignarRequest struct {
	CoachID  uint   `json:"coachId"`
	AtletaID uint   `json:"atletaId"`
	Notas    string `json:"notas,omitempty"`
}

type terminarRequest struct {
	Motivo string `json:"motivo"`
}

// ReporteCoach resume la cartera de un coach.
type ReporteCoach struct {
	CoachID           uint    `json:"coachId"`
	Nombre            string  `json:"nombre"`
	AtletasActuales   int     `json:"atletasActuales"`
	AtletasHistorico  int     `json:"atletasHistorico"`
	DuracionMediaDias float64 `json:"duracionMediaDias"`
}

// ResumenGlobal agrega el plantel completo de coaches.
type ResumenGlobal struct {
	TotalCoaches        int              `json:"totalCoaches"`
	SalarioPromedio     *decimal.Decimal `json:"salarioPromedio,omitempty"`
	PorEspecialidad     map[string]int   `json:"porEspecialidad"`
	AsignacionesActivas int              `json:"asignacionesActivas"`
}
