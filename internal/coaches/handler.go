package coaches

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/simonpc147/gimnasio-athena/internal/auth"
	"github.com/simonpc147/gimnasio-athena/internal/errores"
)

type Handler struct {
	Service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) Registrar(w http.ResponseWriter, r *http.Request) {
	var req RegistroCoachRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}
	resultado, err := h.Service.Registrar(req.Usuario, req.Perfil, auth.ActorDe(auth.UsuarioDe(r)))
	if err != nil {
		http.Error(w, err.Error(), errores.CodigoHTTP(err))
		return
	}
	responderJSON(w, http.StatusCreated, resultado)
}

func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	if especialidad := r.URL.Query().Get("especialidad"); especialidad != "" {
		coaches, err := h.Service.Disponibles(especialidad)
		if err != nil {
			http.Error(w, err.Error(), errores.CodigoHTTP(err))
			return
		}
		responderJSON(w, http.StatusOK, coaches)
		return
	}
	coaches, err := h.Service.Listar()
	if err != nil {
		http.Error(w, err.Error(), errores.CodigoHTTP(err))
		return
	}
	responderJSON(w, http.StatusOK, coaches)
}

func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	id, ok := idDeRuta(w, r)
	if !ok {
		return
	}
	c, err := h.Service.PorID(id)
	if err != nil {
		http.Error(w, err.Error(), errores.CodigoHTTP(err))
		return
	}
	responderJSON(w, http.StatusOK, c)
}

func (h *Handler) ActualizarPerfil(w http.ResponseWriter, r *http.Request) {
	id, ok := idDeRuta(w, r)
	if !ok {
		return
	}
	var patch ActualizarCoach
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}
	c, err := h.Service.ActualizarPerfil(id, patch, auth.ActorDe(auth.UsuarioDe(r)))
	if err != nil {
		http.Error(w, err.Error(), errores.CodigoHTTP(err))
		return
	}
	responderJSON(w, http.StatusOK, c)
}

func (h *Handler) Asignar(w http.ResponseWriter, r *http.Request) {
	var req asignarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}
	a, err := h.Service.AsignarAtleta(req.CoachID, req.AtletaID, auth.ActorDe(auth.UsuarioDe(r)), req.Notas)
	if err != nil {
		http.Error(w, err.Error(), errores.CodigoHTTP(err))
		return
	}
	responderJSON(w, http.StatusCreated, a)
}

func (h *Handler) Terminar(w http.ResponseWriter, r *http.Request) {
	id, ok := idDeRuta(w, r)
	if !ok {
		return
	}
	var req terminarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}
	if err := h.Service.TerminarAsignacion(id, auth.ActorDe(auth.UsuarioDe(r)), req.Motivo); err != nil {
		http.Error(w, err.Error(), errores.CodigoHTTP(err))
		return
	}
	responderJSON(w, http.StatusOK, map[string]string{"mensaje": "asignación terminada"})
}

// AtletasDe lista la cartera; ?todas=true incluye el histórico.
func (h *Handler) AtletasDe(w http.ResponseWriter, r *http.Request) {
	id, ok := idDeRuta(w, r)
	if !ok {
		return
	}
	soloActivas := r.URL.Query().Get("todas") != "true"
	atletas, err := h.Service.AtletasDe(id, soloActivas, auth.ActorDe(auth.UsuarioDe(r)))
	if err != nil {
		http.Error(w, err.Error(), errores.CodigoHTTP(err))
		return
	}
	responderJSON(w, http.StatusOK, atletas)
}

// HistorialDe lista todas las asignaciones que tuvo un atleta.
func (h *Handler) HistorialDe(w http.ResponseWriter, r *http.Request) {
	id, ok := idDeRuta(w, r)
	if !ok {
		return
	}
	historial, err := h.Service.HistorialDeAtleta(id)
	if err != nil {
		http.Error(w, err.Error(), errores.CodigoHTTP(err))
		return
	}
	responderJSON(w, http.StatusOK, historial)
}

func (h *Handler) Reporte(w http.ResponseWriter, r *http.Request) {
	id, ok := idDeRuta(w, r)
	if !ok {
		return
	}
	reporte, err := h.Service.ReportePara(id)
	if err != nil {
		http.Error(w, err.Error(), errores.CodigoHTTP(err))
		return
	}
	responderJSON(w, http.StatusOK, reporte)
}

func (h *Handler) Resumen(w http.ResponseWriter, r *http.Request) {
	resumen, err := h.Service.ResumenGlobal()
	if err != nil {
		http.Error(w, err.Error(), errores.CodigoHTTP(err))
		return
	}
	responderJSON(w, http.StatusOK, resumen)
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
