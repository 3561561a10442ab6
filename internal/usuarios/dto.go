package usuarios

// DatosUsuario es el alta de un usuario desde la administración.
type DatosUsuario struct {
	Nombre    string `json:"nombre"`
	Apellido  string `json:"apellido"`
	Correo    string `json:"correo"`
	Clave     string `json:"clave"`
	Rol       string `json:"rol"`
	Edad      *int   `json:"edad,omitempty"`
	Direccion string `json:"direccion,omitempty"`
	Telefono  string `json:"telefono,omitempty"`
}

// ActualizarUsuario es un parche parcial: solo los campos presentes se
// pisan sobre el registro actual. Una clave vacía conserva el hash.
type ActualizarUsuario struct {
	Nombre    *string `json:"nombre,omitempty"`
	Apellido  *string `json:"apellido,omitempty"`
	Correo    *string `json:"correo,omitempty"`
	Clave     *string `json:"clave,omitempty"`
	Edad      *int    `json:"edad,omitempty"`
	Direccion *string `json:"direccion,omitempty"`
	Telefono  *string `json:"telefono,omitempty"`
}

type cambiarClaveRequest struct {
	ClaveActual string `json:"claveActual"`
	ClaveNueva  string `json:"claveNueva"`
}
