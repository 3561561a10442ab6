package finanzas

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
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

type servicioExtraRequest struct {
	AtletaID    uint              `json:"atletaId"`
	Monto       decimal.Decimal   `json:"monto"`
	Metodo      models.MetodoPago `json:"metodo"`
	Descripcion string            `json:"descripcion"`
}

func (h *Handler) CrearPlan(w http.ResponseWriter, r *http.Request) {
	var req DatosPlan
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}
	p, err := h.Service.CrearPlan(req, auth.ActorDe(auth.UsuarioDe(r)))
	if err != nil {
		http.Error(w, err.Error(), errores.CodigoHTTP(err))
		return
	}
	responderJSON(w, http.StatusCreated, p)
}

func (h *Handler) ListarPlanes(w http.ResponseWriter, r *http.Request) {
	planes, err := h.Service.PlanesActivos()
	if err != nil {
		http.Error(w, err.Error(), errores.CodigoHTTP(err))
		return
	}
	responderJSON(w, http.StatusOK, planes)
}

func (h *Handler) BuscarPlan(w http.ResponseWriter, r *http.Request) {
	id, ok := idDeRuta(w, r)
	if !ok {
		return
	}
	p, err := h.Service.PlanPorID(id)
	if err != nil {
		http.Error(w, err.Error(), errores.CodigoHTTP(err))
		return
	}
	responderJSON(w, http.StatusOK, p)
}

func (h *Handler) RegistrarServicioExtra(w http.ResponseWriter, r *http.Request) {
	var req servicioExtraRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}
	ingreso, err := h.Service.RegistrarServicioExtra(
		req.AtletaID, req.Monto, req.Metodo, req.Descripcion, auth.ActorDe(auth.UsuarioDe(r)))
	if err != nil {
		http.Error(w, err.Error(), errores.CodigoHTTP(err))
		return
	}
	responderJSON(w, http.StatusCreated, ingreso)
}

func (h *Handler) ActualizarIngreso(w http.ResponseWriter, r *http.Request) {
	id, ok := idDeRuta(w, r)
	if !ok {
		return
	}
	var patch ActualizarIngreso
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}
	ingreso, err := h.Service.ActualizarIngreso(id, patch, auth.ActorDe(auth.UsuarioDe(r)))
	if err != nil {
		http.Error(w, err.Error(), errores.CodigoHTTP(err))
		return
	}
	responderJSON(w, http.StatusOK, ingreso)
}

func (h *Handler) EliminarIngreso(w http.ResponseWriter, r *http.Request) {
	id, ok := idDeRuta(w, r)
	if !ok {
		return
	}
	if err := h.Service.EliminarIngreso(id, auth.ActorDe(auth.UsuarioDe(r))); err != nil {
		http.Error(w, err.Error(), errores.CodigoHTTP(err))
		return
	}
	responderJSON(w, http.StatusOK, map[string]string{"mensaje": "ingreso eliminado"})
}

// IngresosDetallados lee ?desde= y ?hasta= en formato 2006-01-02.
func (h *Handler) IngresosDetallados(w http.ResponseWriter, r *http.Request) {
	desde, hasta, ok := rangoDeQuery(w, r)
	if !ok {
		return
	}
	filas, err := h.Service.IngresosDetallados(desde, hasta, auth.ActorDe(auth.UsuarioDe(r)))
	if err != nil {
		http.Error(w, err.Error(), errores.CodigoHTTP(err))
		return
	}
	responderJSON(w, http.StatusOK, filas)
}

func (h *Handler) CrearEgreso(w http.ResponseWriter, r *http.Request) {
	var req DatosEgreso
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}
	e, err := h.Service.CrearEgreso(req, auth.ActorDe(auth.UsuarioDe(r)))
	if err != nil {
		http.Error(w, err.Error(), errores.CodigoHTTP(err))
		return
	}
	responderJSON(w, http.StatusCreated, e)
}

// ListarEgresos acepta ?tipo= o el par ?desde=/?hasta= como filtros.
func (h *Handler) ListarEgresos(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorDe(auth.UsuarioDe(r))
	if tipo := r.URL.Query().Get("tipo"); tipo != "" {
		egresos, err := h.Service.EgresosPorTipo(models.TipoEgreso(tipo), actor)
		if err != nil {
			http.Error(w, err.Error(), errores.CodigoHTTP(err))
			return
		}
		responderJSON(w, http.StatusOK, egresos)
		return
	}
	if r.URL.Query().Get("desde") != "" {
		desde, hasta, ok := rangoDeQuery(w, r)
		if !ok {
			return
		}
		egresos, err := h.Service.EgresosEnRango(desde, hasta, actor)
		if err != nil {
			http.Error(w, err.Error(), errores.CodigoHTTP(err))
			return
		}
		responderJSON(w, http.StatusOK, egresos)
		return
	}
	egresos, err := h.Service.ListarEgresos(actor)
	if err != nil {
		http.Error(w, err.Error(), errores.CodigoHTTP(err))
		return
	}
	responderJSON(w, http.StatusOK, egresos)
}

func (h *Handler) Reporte(w http.ResponseWriter, r *http.Request) {
	desde, hasta, ok := rangoDeQuery(w, r)
	if !ok {
		return
	}
	reporte, err := h.Service.ReportePeriodo(desde, hasta, auth.ActorDe(auth.UsuarioDe(r)))
	if err != nil {
		http.Error(w, err.Error(), errores.CodigoHTTP(err))
		return
	}
	responderJSON(w, http.StatusOK, reporte)
}

func rangoDeQuery(w http.ResponseWriter, r *http.Request) (time.Time, time.Time, bool) {
	desde, err1 := time.Parse("2006-01-02", r.URL.Query().Get("desde"))
	hasta, err2 := time.Parse("2006-01-02", r.URL.Query().Get("hasta"))
	if err1 != nil || err2 != nil {
		http.Error(w, "rango de fechas inválido, use desde=YYYY-MM-DD&hasta=YYYY-MM-DD", http.StatusBadRequest)
		return time.Time{}, time.Time{}, false
	}
	return desde, hasta, true
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
