package auth

import (
	"github.com/simonpc147/gimnasio-athena/internal/models"
)

// Operacion es el conjunto cerrado de operaciones autorizables. La matriz
// rol→operación vive acá y en ningún otro lado.
type Operacion string

const (
	OpGestionarUsuarios Operacion = "gestionar_usuarios"
	OpGestionarAtletas  Operacion = "gestionar_atletas"
	OpGestionarCoaches  Operacion = "gestionar_coaches"
	OpFinanzas          Operacion = "finanzas"
	OpVerSesiones       Operacion = "ver_sesiones"
	OpAtletasPropios    Operacion = "ver_atletas_propios"
	OpRutinasPropias    Operacion = "actualizar_rutinas_propias"
	OpCambiarClave      Operacion = "cambiar_clave_propia"
	OpVerPerfilPropio   Operacion = "ver_perfil_propio"
)

var matrizPermisos = map[Operacion][]models.Rol{
	OpGestionarUsuarios: {models.RolAdminPrincipal},
	OpGestionarAtletas:  {models.RolAdminPrincipal, models.RolSecretaria},
	OpGestionarCoaches:  {models.RolAdminPrincipal, models.RolSecretaria},
	OpFinanzas:          {models.RolAdminPrincipal, models.RolSecretaria},
	OpVerSesiones:       {models.RolAdminPrincipal},
	OpAtletasPropios:    {models.RolCoach, models.RolAdminPrincipal},
	OpRutinasPropias:    {models.RolCoach, models.RolAdminPrincipal},
	OpCambiarClave:      {models.RolAdminPrincipal, models.RolSecretaria, models.RolCoach, models.RolAtleta},
	OpVerPerfilPropio:   {models.RolAdminPrincipal, models.RolSecretaria, models.RolCoach, models.RolAtleta},
}

// Puede es el único punto de decisión de permisos por rol.
func Puede(rol models.Rol, op Operacion) bool {
	permitidos, ok := matrizPermisos[op]
	if !ok {
		return false
	}
	for _, r := range permitidos {
		if r == rol {
			return true
		}
	}
	return false
}

// PuedeCrearRol limita qué roles puede dar de alta cada actor: el admin
// principal cualquiera, la secretaría solo coaches y atletas.
func PuedeCrearRol(actor models.Rol, nuevo models.Rol) bool {
	switch actor {
	case models.RolAdminPrincipal:
		return nuevo.EsValido()
	case models.RolSecretaria:
		return nuevo == models.RolCoach || nuevo == models.RolAtleta
	}
	return false
}

// PuedeEditarUsuario aplica la regla de edición entre usuarios: uno mismo,
// el admin principal, o la secretaría sobre los usuarios que ella creó.
func PuedeEditarUsuario(actor *models.Usuario, objetivo *models.Usuario) bool {
	if actor == nil || objetivo == nil {
		return false
	}
	if actor.ID == objetivo.ID {
		return true
	}
	if actor.Rol == models.RolAdminPrincipal {
		return true
	}
	if actor.Rol == models.RolSecretaria &&
		objetivo.CreadoPor != nil && *objetivo.CreadoPor == actor.ID {
		return true
	}
	return false
}
