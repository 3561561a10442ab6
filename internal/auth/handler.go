package auth

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"

	"github.com/simonpc147/gimnasio-athena/internal/errores"
)

// Handler expone el protocolo de sesión: login, logout, extensión y el
// registro de sesiones activas para el admin.
type Handler struct {
	Sesiones *Manager
}

func NewHandler(sesiones *Manager) *Handler {
	return &Handler{Sesiones: sesiones}
}

type loginRequest struct {
	Correo string `json:"correo"`
	Clave  string `json:"clave"`
}

type loginResponse struct {
	Token   string        `json:"token"`
	Usuario UsuarioSesion `json:"usuario"`
}

// Login abre sesión; el bloqueo por intentos fallidos se lleva por origen.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}
	token, usuario, err := h.Sesiones.IniciarSesion(req.Correo, req.Clave, origenDe(r))
	if err != nil {
		http.Error(w, err.Error(), errores.CodigoHTTP(err))
		return
	}
	responderJSON(w, http.StatusOK, loginResponse{Token: token, Usuario: *usuario})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.Sesiones.CerrarSesion(tokenDe(r))
	responderJSON(w, http.StatusOK, map[string]string{"mensaje": "sesión cerrada"})
}

// Extender refresca la sesión del caller y devuelve la foto vigente.
func (h *Handler) Extender(w http.ResponseWriter, r *http.Request) {
	usuario, err := h.Sesiones.Extender(tokenDe(r))
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}
	responderJSON(w, http.StatusOK, usuario)
}

func (h *Handler) SesionesActivas(w http.ResponseWriter, r *http.Request) {
	responderJSON(w, http.StatusOK, h.Sesiones.SesionesActivas())
}

func tokenDe(r *http.Request) string {
	return strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
}

// origenDe identifica al cliente para el conteo de intentos fallidos: la
// IP sin puerto.
func origenDe(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func responderJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
