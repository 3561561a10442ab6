// Package errores define el contrato de error uniforme de los servicios:
// un tipo cerrado de clases de falla más un mensaje corto para el operador.
// Ningún servicio deja escapar pánicos ni errores crudos de la base.
package errores

import "errors"

type Tipo string

const (
	Validacion   Tipo = "validacion"
	Autorizacion Tipo = "autorizacion"
	NoEncontrado Tipo = "no_encontrado"
	Conflicto    Tipo = "conflicto"
	Parcial      Tipo = "parcial"
	Interno      Tipo = "interno"
)

// Error lleva la clase y el mensaje visible. Los detalles de diagnóstico
// van al log, nunca al mensaje.
type Error struct {
	Tipo    Tipo
	Mensaje string
}

func (e *Error) Error() string { return e.Mensaje }

func Nuevo(tipo Tipo, mensaje string) error {
	return &Error{Tipo: tipo, Mensaje: mensaje}
}

func DeValidacion(mensaje string) error { return Nuevo(Validacion, mensaje) }
func NoAutorizado(mensaje string) error { return Nuevo(Autorizacion, mensaje) }
func DeConflicto(mensaje string) error  { return Nuevo(Conflicto, mensaje) }
func Inexistente(mensaje string) error  { return Nuevo(NoEncontrado, mensaje) }

// InternoGenerico cubre fallas de persistencia: el mensaje al operador es
// genérico y el error real se registra en el punto donde ocurrió.
func InternoGenerico() error {
	return Nuevo(Interno, "error interno, intente de nuevo")
}

// TipoDe extrae la clase de un error de servicio; para errores ajenos
// devuelve Interno.
func TipoDe(err error) Tipo {
	var e *Error
	if errors.As(err, &e) {
		return e.Tipo
	}
	return Interno
}

// Es informa si el error pertenece a la clase dada.
func Es(err error, tipo Tipo) bool {
	return err != nil && TipoDe(err) == tipo
}
