package rutinas

import "github.com/simonpc147/gimnasio-athena/internal/models"

type DatosRutina struct {
	Nombre      string             `json:"nombre"`
	Nivel       models.NivelRutina `json:"nivel"`
	Descripcion string             `json:"descripcion,omitempty"`
}

type ActualizarRutina struct {
	Nombre      *string             `json:"nombre,omitempty"`
	Nivel       *models.NivelRutina `json:"nivel,omitempty"`
	Descripcion *string             `json:"descripcion,omitempty"`
}

type ActualizarEjercicio struct {
	Nombre        *string               `json:"nombre,omitempty"`
	Tipo          *models.TipoEjercicio `json:"tipo,omitempty"`
	Descripcion   *string               `json:"descripcion,omitempty"`
	Instrucciones *string               `json:"instrucciones,omitempty"`
}

type DatosEjercicio struct {
	Nombre        string               `json:"nombre"`
	Tipo          models.TipoEjercicio `json:"tipo"`
	Descripcion   string               `json:"descripcion,omitempty"`
	Instrucciones string               `json:"instrucciones,omitempty"`
}

// DatosComposicion adjunta un ejercicio a una rutina con su dosis.
type DatosComposicion struct {
	EjercicioID uint               `json:"ejercicioId"`
	Nivel       models.NivelRutina `json:"nivel,omitempty"`
	Series      int                `json:"series"`
	Rondas      int                `json:"rondas"`
	Orden       int                `json:"orden"`
}
