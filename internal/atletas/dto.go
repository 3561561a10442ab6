package atletas

import (
	"time"

	"github.com/simonpc147/gimnasio-athena/internal/models"
)

// RegistroAtleta es el alta completa: datos personales más plan elegido.
// El correo es opcional; sin correo se sintetiza <cedula>@sinemail.com.
type RegistroAtleta struct {
	Nombre          string     `json:"nombre"`
	Apellido        string     `json:"apellido"`
	Correo          string     `json:"correo,omitempty"`
	Telefono        string     `json:"telefono,omitempty"`
	Direccion       string     `json:"direccion,omitempty"`
	Cedula          string     `json:"cedula"`
	Peso            *float64   `json:"peso,omitempty"`
	FechaNacimiento *time.Time `json:"fechaNacimiento,omitempty"`
	PlanID          uint       `json:"planId"`
	CoachID         *uint      `json:"coachId,omitempty"`
	MetaLargoPlazo  string     `json:"metaLargoPlazo,omitempty"`
	NotasMedicas    string     `json:"notasMedicas,omitempty"`
}

type registroRequest struct {
	RegistroAtleta
	Metodo models.MetodoPago `json:"metodo"`
}

// ResultadoRegistro informa los ids creados, la clave generada para el
// atleta y, si el pago de inscripción falló, la advertencia para que caja
// lo procese a mano.
type ResultadoRegistro struct {
	AtletaID      uint   `json:"atletaId"`
	UsuarioID     uint   `json:"usuarioId"`
	ClaveGenerada string `json:"claveGenerada,omitempty"`
	Advertencia   string `json:"advertencia,omitempty"`
}

// ActualizarAtleta parchea el perfil; no toca el estado de la membresía.
type ActualizarAtleta struct {
	Cedula          *string    `json:"cedula,omitempty"`
	Peso            *float64   `json:"peso,omitempty"`
	FechaNacimiento *time.Time `json:"fechaNacimiento,omitempty"`
	MetaLargoPlazo  *string    `json:"metaLargoPlazo,omitempty"`
	NotasMedicas    *string    `json:"notasMedicas,omitempty"`
}

type renovarRequest struct {
	Metodo models.MetodoPago `json:"metodo"`
}

type cambiarPlanRequest struct {
	PlanID uint              `json:"planId"`
	Metodo models.MetodoPago `json:"metodo"`
}

type asignarCoachRequest struct {
	CoachID *uint  `json:"coachId"`
	Motivo  string `json:"motivo,omitempty"`
}
