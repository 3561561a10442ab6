package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/simonpc147/gimnasio-athena/internal/models"
)

type ctxKey string

const ctxUsuario ctxKey = "usuarioSesion"

// MiddlewareSesion exige un Bearer token válido y deja la foto del
// usuario en el contexto del request.
func (m *Manager) MiddlewareSesion(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		h := r.Header.Get("Authorization")
		if h == "" || !strings.HasPrefix(h, "Bearer ") {
			http.Error(w, "token ausente", http.StatusUnauthorized)
			return
		}
		token := strings.TrimPrefix(h, "Bearer ")
		usuario, err := m.Validar(token)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), ctxUsuario, usuario)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UsuarioDe recupera el usuario de sesión del contexto; nil si el request
// no pasó por el middleware.
func UsuarioDe(r *http.Request) *UsuarioSesion {
	u, _ := r.Context().Value(ctxUsuario).(*UsuarioSesion)
	return u
}

// RequerirOperacion corta con 403 cuando el rol de la sesión no tiene la
// operación permitida según la matriz.
func RequerirOperacion(op Operacion, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u := UsuarioDe(r)
		if u == nil || !Puede(u.Rol, op) {
			http.Error(w, "operación no permitida para el rol", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ActorDe arma el usuario de dominio mínimo que los servicios usan para
// autorizar, a partir de la sesión.
func ActorDe(u *UsuarioSesion) *models.Usuario {
	if u == nil {
		return nil
	}
	return &models.Usuario{
		ID:       u.ID,
		Nombre:   u.Nombre,
		Apellido: u.Apellido,
		Correo:   u.Correo,
		Rol:      u.Rol,
		Activo:   true,
	}
}
