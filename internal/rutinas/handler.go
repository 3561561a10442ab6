package rutinas

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

func (h *Handler) CrearRutina(w http.ResponseWriter, r *http.Request) {
	var datos DatosRutina
	if err := json.NewDecoder(r.Body).Decode(&datos); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}
	rutina, err := h.Service.CrearRutina(datos, auth.ActorDe(auth.UsuarioDe(r)))
	if err != nil {
		http.Error(w, err.Error(), errores.CodigoHTTP(err))
		return
	}
	responderJSON(w, http.StatusCreated, rutina)
}

// ListarRutinas admite ?nivel= para filtrar por dificultad.
func (h *Handler) ListarRutinas(w http.ResponseWriter, r *http.Request) {
	rutinas, err := h.Service.ListarRutinas(models.NivelRutina(r.URL.Query().Get("nivel")))
	if err != nil {
		http.Error(w, err.Error(), errores.CodigoHTTP(err))
		return
	}
	responderJSON(w, http.StatusOK, rutinas)
}

func (h *Handler) BuscarRutina(w http.ResponseWriter, r *http.Request) {
	id, ok := idDeRuta(w, r, "id")
	if !ok {
		return
	}
	rutina, err := h.Service.RutinaCompleta(id)
	if err != nil {
		http.Error(w, err.Error(), errores.CodigoHTTP(err))
		return
	}
	responderJSON(w, http.StatusOK, rutina)
}

func (h *Handler) ActualizarRutina(w http.ResponseWriter, r *http.Request) {
	id, ok := idDeRuta(w, r, "id")
	if !ok {
		return
	}
	var patch ActualizarRutina
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}
	rutina, err := h.Service.ActualizarRutina(id, patch, auth.ActorDe(auth.UsuarioDe(r)))
	if err != nil {
		http.Error(w, err.Error(), errores.CodigoHTTP(err))
		return
	}
	responderJSON(w, http.StatusOK, rutina)
}

func (h *Handler) EliminarRutina(w http.ResponseWriter, r *http.Request) {
	id, ok := idDeRuta(w, r, "id")
	if !ok {
		return
	}
	if err := h.Service.EliminarRutina(id, auth.ActorDe(auth.UsuarioDe(r))); err != nil {
		http.Error(w, err.Error(), errores.CodigoHTTP(err))
		return
	}
	responderJSON(w, http.StatusOK, map[string]string{"mensaje": "rutina eliminada"})
}

func (h *Handler) CrearEjercicio(w http.ResponseWriter, r *http.Request) {
	var datos DatosEjercicio
	if err := json.NewDecoder(r.Body).Decode(&datos); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}
	e, err := h.Service.CrearEjercicio(datos, auth.ActorDe(auth.UsuarioDe(r)))
	if err != nil {
		http.Error(w, err.Error(), errores.CodigoHTTP(err))
		return
	}
	responderJSON(w, http.StatusCreated, e)
}

// ListarEjercicios admite ?tipo= para filtrar el catálogo.
func (h *Handler) ListarEjercicios(w http.ResponseWriter, r *http.Request) {
	ejercicios, err := h.Service.ListarEjercicios(models.TipoEjercicio(r.URL.Query().Get("tipo")))
	if err != nil {
		http.Error(w, err.Error(), errores.CodigoHTTP(err))
		return
	}
	responderJSON(w, http.StatusOK, ejercicios)
}

// ContarEjercicios responde cuántos ejercicios componen una rutina.
func (h *Handler) ContarEjercicios(w http.ResponseWriter, r *http.Request) {
	id, ok := idDeRuta(w, r, "id")
	if !ok {
		return
	}
	n, err := h.Service.ContarEjercicios(id)
	if err != nil {
		http.Error(w, err.Error(), errores.CodigoHTTP(err))
		return
	}
	responderJSON(w, http.StatusOK, map[string]int64{"cantidad": n})
}

func (h *Handler) ActualizarEjercicio(w http.ResponseWriter, r *http.Request) {
	id, ok := idDeRuta(w, r, "id")
	if !ok {
		return
	}
	var patch ActualizarEjercicio
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}
	e, err := h.Service.ActualizarEjercicio(id, patch, auth.ActorDe(auth.UsuarioDe(r)))
	if err != nil {
		http.Error(w, err.Error(), errores.CodigoHTTP(err))
		return
	}
	responderJSON(w, http.StatusOK, e)
}

func (h *Handler) EliminarEjercicio(w http.ResponseWriter, r *http.Request) {
	id, ok := idDeRuta(w, r, "id")
	if !ok {
		return
	}
	if err := h.Service.EliminarEjercicio(id, auth.ActorDe(auth.UsuarioDe(r))); err != nil {
		http.Error(w, err.Error(), errores.CodigoHTTP(err))
		return
	}
	responderJSON(w, http.StatusOK, map[string]string{"mensaje": "ejercicio eliminado"})
}

func (h *Handler) AdjuntarEjercicio(w http.ResponseWriter, r *http.Request) {
	id, ok := idDeRuta(w, r, "id")
	if !ok {
		return
	}
	var datos DatosComposicion
	if err := json.NewDecoder(r.Body).Decode(&datos); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}
	re, err := h.Service.AdjuntarEjercicio(id, datos, auth.ActorDe(auth.UsuarioDe(r)))
	if err != nil {
		http.Error(w, err.Error(), errores.CodigoHTTP(err))
		return
	}
	responderJSON(w, http.StatusCreated, re)
}

func (h *Handler) QuitarEjercicio(w http.ResponseWriter, r *http.Request) {
	id, ok := idDeRuta(w, r, "id")
	if !ok {
		return
	}
	ejercicioID, ok := idDeRuta(w, r, "ejercicioId")
	if !ok {
		return
	}
	if err := h.Service.QuitarEjercicio(id, ejercicioID, auth.ActorDe(auth.UsuarioDe(r))); err != nil {
		http.Error(w, err.Error(), errores.CodigoHTTP(err))
		return
	}
	responderJSON(w, http.StatusOK, map[string]string{"mensaje": "ejercicio quitado de la rutina"})
}

func responderJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func idDeRuta(w http.ResponseWriter, r *http.Request, nombre string) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)[nombre], 10, 32)
	if err != nil {
		http.Error(w, nombre+" inválido", http.StatusBadRequest)
		return 0, false
	}
	return uint(id), true
}
