package atletas

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/simonpc147/gimnasio-athena/internal/auth"
	"github.com/simonpc147/gimnasio-athena/internal/errores"
	"github.com/simonpc147/gimnasio-athena/internal/models"
)

type Handler struct {
	Service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) Registrar(w http.ResponseWriter, r *http.Request) {
	var req registroRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}
	resultado, err := h.Service.Registrar(req.RegistroAtleta, req.Metodo, auth.ActorDe(auth.UsuarioDe(r)))
	if err != nil {
		http.Error(w, err.Error(), errores.CodigoHTTP(err))
		return
	}
	responderJSON(w, http.StatusCreated, resultado)
}

// Listar admite los filtros ?solvencia=, ?coach= y ?porVencer=<días>.
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var (
		atletas []models.Atleta
		err     error
	)
	switch {
	case q.Get("solvencia") != "":
		atletas, err = h.Service.PorSolvencia(models.Solvencia(q.Get("solvencia")))
	case q.Get("coach") != "":
		var coachID uint64
		coachID, err = strconv.ParseUint(q.Get("coach"), 10, 32)
		if err != nil {
			http.Error(w, "coach inválido", http.StatusBadRequest)
			return
		}
		atletas, err = h.Service.PorCoach(uint(coachID))
	case q.Get("porVencer") != "":
		var dias int
		dias, err = strconv.Atoi(q.Get("porVencer"))
		if err != nil {
			http.Error(w, "porVencer inválido", http.StatusBadRequest)
			return
		}
		atletas, err = h.Service.PorVencer(dias)
	default:
		atletas, err = h.Service.ListarTodos()
	}
	if err != nil {
		http.Error(w, err.Error(), errores.CodigoHTTP(err))
		return
	}
	responderJSON(w, http.StatusOK, atletas)
}

func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	id, ok := idDeRuta(w, r)
	if !ok {
		return
	}
	a, err := h.Service.PorID(id)
	if err != nil {
		http.Error(w, err.Error(), errores.CodigoHTTP(err))
		return
	}
	responderJSON(w, http.StatusOK, a)
}

func (h *Handler) Actualizar(w http.ResponseWriter, r *http.Request) {
	id, ok := idDeRuta(w, r)
	if !ok {
		return
	}
	var patch ActualizarAtleta
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}
	a, err := h.Service.Actualizar(id, patch, auth.ActorDe(auth.UsuarioDe(r)))
	if err != nil {
		http.Error(w, err.Error(), errores.CodigoHTTP(err))
		return
	}
	responderJSON(w, http.StatusOK, a)
}

func (h *Handler) Eliminar(w http.ResponseWriter, r *http.Request) {
	id, ok := idDeRuta(w, r)
	if !ok {
		return
	}
	if err := h.Service.Eliminar(id, auth.ActorDe(auth.UsuarioDe(r))); err != nil {
		http.Error(w, err.Error(), errores.CodigoHTTP(err))
		return
	}
	responderJSON(w, http.StatusOK, map[string]string{"mensaje": "atleta eliminado"})
}

func (h *Handler) Renovar(w http.ResponseWriter, r *http.Request) {
	id, ok := idDeRuta(w, r)
	if !ok {
		return
	}
	var req renovarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}
	ingreso, err := h.Service.Renovar(id, req.Metodo, auth.ActorDe(auth.UsuarioDe(r)))
	if err != nil {
		http.Error(w, err.Error(), errores.CodigoHTTP(err))
		return
	}
	responderJSON(w, http.StatusCreated, ingreso)
}

func (h *Handler) CambiarPlan(w http.ResponseWriter, r *http.Request) {
	id, ok := idDeRuta(w, r)
	if !ok {
		return
	}
	var req cambiarPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}
	ingreso, err := h.Service.CambiarPlan(id, req.PlanID, req.Metodo, auth.ActorDe(auth.UsuarioDe(r)))
	if err != nil {
		http.Error(w, err.Error(), errores.CodigoHTTP(err))
		return
	}
	responderJSON(w, http.StatusCreated, ingreso)
}

func (h *Handler) AsignarCoach(w http.ResponseWriter, r *http.Request) {
	id, ok := idDeRuta(w, r)
	if !ok {
		return
	}
	var req asignarCoachRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}
	if err := h.Service.AsignarCoach(id, req.CoachID, auth.ActorDe(auth.UsuarioDe(r)), req.Motivo); err != nil {
		http.Error(w, err.Error(), errores.CodigoHTTP(err))
		return
	}
	responderJSON(w, http.StatusOK, map[string]string{"mensaje": "coach actualizado"})
}

func (h *Handler) Suspender(w http.ResponseWriter, r *http.Request) {
	id, ok := idDeRuta(w, r)
	if !ok {
		return
	}
	if err := h.Service.Suspender(id, auth.ActorDe(auth.UsuarioDe(r))); err != nil {
		http.Error(w, err.Error(), errores.CodigoHTTP(err))
		return
	}
	responderJSON(w, http.StatusOK, map[string]string{"mensaje": "atleta suspendido"})
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
