package errores

import "net/http"

// CodigoHTTP traduce la clase de error al status de la superficie HTTP.
func CodigoHTTP(err error) int {
	switch TipoDe(err) {
	case Validacion:
		return http.StatusBadRequest
	case Autorizacion:
		return http.StatusForbidden
	case NoEncontrado:
		return http.StatusNotFound
	case Conflicto:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
