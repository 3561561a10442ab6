package models

import "time"

// SoloFecha descarta la hora: toda la aritmética de vencimientos trabaja
// con días calendario en UTC.
func SoloFecha(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Fecha arma una fecha calendario, útil en pruebas y carga inicial.
func Fecha(anio int, mes time.Month, dia int) time.Time {
	return time.Date(anio, mes, dia, 0, 0, 0, 0, time.UTC)
}

// SumarDias avanza una fecha calendario n días.
func SumarDias(t time.Time, dias int) time.Time {
	return SoloFecha(t).AddDate(0, 0, dias)
}

// FechaMaxima devuelve la mayor de dos fechas calendario.
func FechaMaxima(a, b time.Time) time.Time {
	if SoloFecha(a).After(SoloFecha(b)) {
		return SoloFecha(a)
	}
	return SoloFecha(b)
}
