package usuarios

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/simonpc147/gimnasio-athena/internal/auth"
	"github.com/simonpc147/gimnasio-athena/internal/errores"
)

// Handler expone el servicio de usuarios sobre la superficie HTTP.
type Handler struct {
	Service  *Service
	Sesiones *auth.Manager
}

func NewHandler(service *Service, sesiones *auth.Manager) *Handler {
	return &Handler{Service: service, Sesiones: sesiones}
}

func (h *Handler) Crear(w http.ResponseWriter, r *http.Request) {
	var req DatosUsuario
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}
	u, err := h.Service.Crear(req, auth.ActorDe(auth.UsuarioDe(r)))
	if err != nil {
		http.Error(w, err.Error(), errores.CodigoHTTP(err))
		return
	}
	responderJSON(w, http.StatusCreated, u)
}

func (h *Handler) ListarTodos(w http.ResponseWriter, r *http.Request) {
	lista, err := h.Service.ListarTodos(auth.ActorDe(auth.UsuarioDe(r)))
	if err != nil {
		http.Error(w, err.Error(), errores.CodigoHTTP(err))
		return
	}
	responderJSON(w, http.StatusOK, lista)
}

func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	id, ok := idDeRuta(w, r)
	if !ok {
		return
	}
	u, err := h.Service.BuscarPorID(id, auth.ActorDe(auth.UsuarioDe(r)))
	if err != nil {
		http.Error(w, err.Error(), errores.CodigoHTTP(err))
		return
	}
	responderJSON(w, http.StatusOK, u)
}

func (h *Handler) Actualizar(w http.ResponseWriter, r *http.Request) {
	id, ok := idDeRuta(w, r)
	if !ok {
		return
	}
	var patch ActualizarUsuario
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}
	u, err := h.Service.Actualizar(id, patch, auth.ActorDe(auth.UsuarioDe(r)))
	if err != nil {
		http.Error(w, err.Error(), errores.CodigoHTTP(err))
		return
	}
	responderJSON(w, http.StatusOK, u)
}

func (h *Handler) Desactivar(w http.ResponseWriter, r *http.Request) {
	id, ok := idDeRuta(w, r)
	if !ok {
		return
	}
	if err := h.Service.Desactivar(id, auth.ActorDe(auth.UsuarioDe(r))); err != nil {
		http.Error(w, err.Error(), errores.CodigoHTTP(err))
		return
	}
	responderJSON(w, http.StatusOK, map[string]string{"mensaje": "usuario desactivado"})
}

// Eliminar hace borrado duro y además corta las sesiones abiertas del
// usuario eliminado.
func (h *Handler) Eliminar(w http.ResponseWriter, r *http.Request) {
	id, ok := idDeRuta(w, r)
	if !ok {
		return
	}
	if err := h.Service.Eliminar(id, auth.ActorDe(auth.UsuarioDe(r))); err != nil {
		http.Error(w, err.Error(), errores.CodigoHTTP(err))
		return
	}
	h.Sesiones.CerrarTodasDe(id)
	responderJSON(w, http.StatusOK, map[string]string{"mensaje": "usuario eliminado"})
}

func (h *Handler) CambiarClave(w http.ResponseWriter, r *http.Request) {
	actor := auth.UsuarioDe(r)
	var req cambiarClaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}
	err := h.Service.CambiarClave(actor.ID, req.ClaveActual, req.ClaveNueva, auth.ActorDe(actor))
	if err != nil {
		http.Error(w, err.Error(), errores.CodigoHTTP(err))
		return
	}
	responderJSON(w, http.StatusOK, map[string]string{"mensaje": "clave actualizada"})
}

// PerfilPropio devuelve la foto de sesión del autenticado.
func (h *Handler) PerfilPropio(w http.ResponseWriter, r *http.Request) {
	responderJSON(w, http.StatusOK, auth.UsuarioDe(r))
}

func responderJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func idDeRuta(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		http.Error(w, "id inválido", http.StatusBadRequest)
		return 0, false
	}
	return uint(id), true
}
