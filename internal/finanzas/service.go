package finanzas

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/simonpc147/gimnasio-athena/internal/auth"
	"github.com/simonpc147/gimnasio-athena/internal/errores"
	"github.com/simonpc147/gimnasio-athena/internal/models"
	"gorm.io/gorm"
)

// Service concentra catálogo de planes, caja de ingresos y egresos, la
// aritmética de vencimientos y los reportes por período. Todo monto es
// decimal exacto; el redondeo a dos decimales es solo de salida.
type Service struct {
	db    *gorm.DB
	repo  Repository
	ahora func() time.Time
}

func NewService(db *gorm.DB, repo Repository, ahora func() time.Time) *Service {
	if ahora == nil {
		ahora = time.Now
	}
	return &Service{db: db, repo: repo, ahora: ahora}
}

func (s *Service) autorizar(actor *models.Usuario) error {
	if actor == nil || !auth.Puede(actor.Rol, auth.OpFinanzas) {
		return errores.NoAutorizado("operación financiera no permitida para el rol")
	}
	return nil
}

// Hoy devuelve la fecha calendario del reloj del servicio.
func (s *Service) Hoy() time.Time {
	return models.SoloFecha(s.ahora())
}

// --- Planes ---

func (s *Service) CrearPlan(datos DatosPlan, actor *models.Usuario) (*models.Plan, error) {
	if err := s.autorizar(actor); err != nil {
		return nil, err
	}
	nombre := strings.TrimSpace(datos.Nombre)
	if nombre == "" {
		return nil, errores.DeValidacion("el nombre del plan es requerido")
	}
	if !datos.Precio.IsPositive() {
		return nil, errores.DeValidacion("el precio debe ser mayor a cero")
	}
	if datos.DuracionDias <= 0 {
		return nil, errores.DeValidacion("la duración en días debe ser mayor a cero")
	}
	if _, err := s.repo.BuscarPlanPorNombre(s.db, nombre); err == nil {
		return nil, errores.DeValidacion("ya existe un plan con ese nombre")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("finanzas: error consultando plan: %v", err)
		return nil, errores.InternoGenerico()
	}

	p := &models.Plan{
		Nombre:       nombre,
		Descripcion:  datos.Descripcion,
		Precio:       datos.Precio,
		DuracionDias: datos.DuracionDias,
		Activo:       true,
	}
	if err := s.repo.CrearPlan(s.db, p); err != nil {
		log.Printf("finanzas: error creando plan: %v", err)
		return nil, errores.InternoGenerico()
	}
	return p, nil
}

func (s *Service) PlanesActivos() ([]models.Plan, error) {
	planes, err := s.repo.ListarPlanesActivos(s.db)
	if err != nil {
		log.Printf("finanzas: error listando planes: %v", err)
		return nil, errores.InternoGenerico()
	}
	return planes, nil
}

func (s *Service) PlanPorID(id uint) (*models.Plan, error) {
	return s.planPorIDEn(s.db, id)
}

func (s *Service) planPorIDEn(db *gorm.DB, id uint) (*models.Plan, error) {
	p, err := s.repo.BuscarPlanPorID(db, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errores.Inexistente("plan no encontrado")
		}
		log.Printf("finanzas: error consultando plan %d: %v", id, err)
		return nil, errores.InternoGenerico()
	}
	return p, nil
}

// Vencimiento calcula base + duración del plan, en días calendario.
func Vencimiento(plan *models.Plan, base time.Time) time.Time {
	return models.SumarDias(base, plan.DuracionDias)
}

// --- Ingresos ---

// RegistrarInscripcionEn asienta el pago inicial de una membresía usando
// el handle dado, que durante el alta de un atleta es la transacción del
// registro. paga hoy; sin vencimiento previo.
func (s *Service) RegistrarInscripcionEn(db *gorm.DB, atletaID, planID uint, metodo models.MetodoPago, actor *models.Usuario, descripcion string) (*models.Ingreso, error) {
	if err := s.autorizar(actor); err != nil {
		return nil, err
	}
	if !metodo.EsValido() {
		return nil, errores.DeValidacion("método de pago desconocido")
	}
	plan, err := s.planPorIDEn(db, planID)
	if err != nil {
		return nil, err
	}
	hoy := s.Hoy()
	nuevoVencimiento := Vencimiento(plan, hoy)
	if descripcion == "" {
		descripcion = "Inscripción plan " + plan.Nombre
	}

	ingreso := &models.Ingreso{
		AtletaID:         atletaID,
		PlanID:           &plan.ID,
		Monto:            plan.Precio,
		Tipo:             models.IngresoInscripcion,
		Metodo:           metodo,
		Descripcion:      descripcion,
		FechaPago:        hoy,
		VencimientoNuevo: &nuevoVencimiento,
		ProcesadoPor:     actor.ID,
	}
	if err := s.repo.CrearIngreso(db, ingreso); err != nil {
		log.Printf("finanzas: error asentando inscripción: %v", err)
		return nil, errores.InternoGenerico()
	}
	return ingreso, nil
}

// RegistrarInscripcion es la variante sin transacción externa.
func (s *Service) RegistrarInscripcion(atletaID, planID uint, metodo models.MetodoPago, actor *models.Usuario, descripcion string) (*models.Ingreso, error) {
	return s.RegistrarInscripcionEn(s.db, atletaID, planID, metodo, actor, descripcion)
}

// RegistrarRenovacionEn asienta una renovación: la base es la mayor entre
// el vencimiento vigente y hoy, así renovar antes de vencer no regala días
// y renovar tarde no los cobra.
func (s *Service) RegistrarRenovacionEn(db *gorm.DB, atletaID, planID uint, metodo models.MetodoPago, vencimientoActual time.Time, actor *models.Usuario, descripcion string) (*models.Ingreso, error) {
	if err := s.autorizar(actor); err != nil {
		return nil, err
	}
	if !metodo.EsValido() {
		return nil, errores.DeValidacion("método de pago desconocido")
	}
	plan, err := s.planPorIDEn(db, planID)
	if err != nil {
		return nil, err
	}
	hoy := s.Hoy()
	base := models.FechaMaxima(vencimientoActual, hoy)
	nuevoVencimiento := Vencimiento(plan, base)
	previo := models.SoloFecha(vencimientoActual)
	if descripcion == "" {
		descripcion = "Renovación plan " + plan.Nombre
	}

	ingreso := &models.Ingreso{
		AtletaID:          atletaID,
		PlanID:            &plan.ID,
		Monto:             plan.Precio,
		Tipo:              models.IngresoRenovacion,
		Metodo:            metodo,
		Descripcion:       descripcion,
		FechaPago:         hoy,
		VencimientoPrevio: &previo,
		VencimientoNuevo:  &nuevoVencimiento,
		ProcesadoPor:      actor.ID,
	}
	if err := s.repo.CrearIngreso(db, ingreso); err != nil {
		log.Printf("finanzas: error asentando renovación: %v", err)
		return nil, errores.InternoGenerico()
	}
	return ingreso, nil
}

func (s *Service) RegistrarRenovacion(atletaID, planID uint, metodo models.MetodoPago, vencimientoActual time.Time, actor *models.Usuario, descripcion string) (*models.Ingreso, error) {
	return s.RegistrarRenovacionEn(s.db, atletaID, planID, metodo, vencimientoActual, actor, descripcion)
}

// RegistrarServicioExtra asienta un pago que no toca la membresía: sin
// plan y sin fechas de vencimiento.
func (s *Service) RegistrarServicioExtra(atletaID uint, monto decimal.Decimal, metodo models.MetodoPago, descripcion string, actor *models.Usuario) (*models.Ingreso, error) {
	if err := s.autorizar(actor); err != nil {
		return nil, err
	}
	if !monto.IsPositive() {
		return nil, errores.DeValidacion("el monto debe ser mayor a cero")
	}
	if strings.TrimSpace(descripcion) == "" {
		return nil, errores.DeValidacion("la descripción del servicio es requerida")
	}
	if !metodo.EsValido() {
		return nil, errores.DeValidacion("método de pago desconocido")
	}

	ingreso := &models.Ingreso{
		AtletaID:     atletaID,
		Monto:        monto,
		Tipo:         models.IngresoServicioExtra,
		Metodo:       metodo,
		Descripcion:  strings.TrimSpace(descripcion),
		FechaPago:    s.Hoy(),
		ProcesadoPor: actor.ID,
	}
	if err := s.repo.CrearIngreso(s.db, ingreso); err != nil {
		log.Printf("finanzas: error asentando servicio extra: %v", err)
		return nil, errores.InternoGenerico()
	}
	return ingreso, nil
}

// ActualizarIngreso permite corregir monto, método o descripción de un
// pago ya asentado; todo lo demás es inmutable.
func (s *Service) ActualizarIngreso(id uint, patch ActualizarIngreso, actor *models.Usuario) (*models.Ingreso, error) {
	if err := s.autorizar(actor); err != nil {
		return nil, err
	}
	ingreso, err := s.repo.BuscarIngresoPorID(s.db, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errores.Inexistente("ingreso no encontrado")
		}
		log.Printf("finanzas: error consultando ingreso %d: %v", id, err)
		return nil, errores.InternoGenerico()
	}

	if patch.Monto != nil {
		if !patch.Monto.IsPositive() {
			return nil, errores.DeValidacion("el monto debe ser mayor a cero")
		}
		ingreso.Monto = *patch.Monto
	}
	if patch.Metodo != nil {
		if !patch.Metodo.EsValido() {
			return nil, errores.DeValidacion("método de pago desconocido")
		}
		ingreso.Metodo = *patch.Metodo
	}
	if patch.Descripcion != nil {
		ingreso.Descripcion = *patch.Descripcion
	}

	if err := s.repo.GuardarIngreso(s.db, ingreso); err != nil {
		log.Printf("finanzas: error guardando ingreso %d: %v", id, err)
		return nil, errores.InternoGenerico()
	}
	return ingreso, nil
}

func (s *Service) EliminarIngreso(id uint, actor *models.Usuario) error {
	if err := s.autorizar(actor); err != nil {
		return err
	}
	if _, err := s.repo.BuscarIngresoPorID(s.db, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errores.Inexistente("ingreso no encontrado")
		}
		log.Printf("finanzas: error consultando ingreso %d: %v", id, err)
		return errores.InternoGenerico()
	}
	if err := s.repo.EliminarIngreso(s.db, id); err != nil {
		log.Printf("finanzas: error eliminando ingreso %d: %v", id, err)
		return errores.InternoGenerico()
	}
	return nil
}

// IngresosDetallados devuelve la vista de caja de un rango.
func (s *Service) IngresosDetallados(desde, hasta time.Time, actor *models.Usuario) ([]FilaIngresoDetallado, error) {
	if err := s.autorizar(actor); err != nil {
		return nil, err
	}
	filas, err := s.repo.ListarIngresosDetallados(s.db, models.SoloFecha(desde), models.SoloFecha(hasta))
	if err != nil {
		log.Printf("finanzas: error listando ingresos detallados: %v", err)
		return nil, errores.InternoGenerico()
	}
	for i := range filas {
		filas[i].Tipo = titulo(filas[i].Tipo)
		filas[i].Metodo = titulo(filas[i].Metodo)
	}
	return filas, nil
}

// --- Egresos ---

func (s *Service) CrearEgreso(datos DatosEgreso, actor *models.Usuario) (*models.Egreso, error) {
	if err := s.autorizar(actor); err != nil {
		return nil, err
	}
	if !datos.Monto.IsPositive() {
		return nil, errores.DeValidacion("el monto debe ser mayor a cero")
	}
	if !datos.Tipo.EsValido() {
		return nil, errores.DeValidacion("tipo de egreso desconocido")
	}
	if strings.TrimSpace(datos.Descripcion) == "" {
		return nil, errores.DeValidacion("la descripción del egreso es requerida")
	}
	if !datos.Metodo.EsValido() {
		return nil, errores.DeValidacion("método de pago desconocido")
	}

	fecha := s.Hoy()
	if datos.FechaGasto != nil {
		fecha = models.SoloFecha(*datos.FechaGasto)
	}
	e := &models.Egreso{
		Monto:          datos.Monto,
		Tipo:           datos.Tipo,
		Descripcion:    strings.TrimSpace(datos.Descripcion),
		Beneficiario:   datos.Beneficiario,
		Metodo:         datos.Metodo,
		FechaGasto:     fecha,
		RegistradoPor:  actor.ID,
		ComprobanteRef: datos.Comprobante,
	}
	if err := s.repo.CrearEgreso(s.db, e); err != nil {
		log.Printf("finanzas: error creando egreso: %v", err)
		return nil, errores.InternoGenerico()
	}
	return e, nil
}

func (s *Service) ListarEgresos(actor *models.Usuario) ([]models.Egreso, error) {
	if err := s.autorizar(actor); err != nil {
		return nil, err
	}
	egresos, err := s.repo.ListarEgresos(s.db)
	if err != nil {
		log.Printf("finanzas: error listando egresos: %v", err)
		return nil, errores.InternoGenerico()
	}
	return egresos, nil
}

func (s *Service) EgresosPorTipo(tipo models.TipoEgreso, actor *models.Usuario) ([]models.Egreso, error) {
	if err := s.autorizar(actor); err != nil {
		return nil, err
	}
	if !tipo.EsValido() {
		return nil, errores.DeValidacion("tipo de egreso desconocido")
	}
	egresos, err := s.repo.ListarEgresosPorTipo(s.db, tipo)
	if err != nil {
		log.Printf("finanzas: error listando egresos por tipo: %v", err)
		return nil, errores.InternoGenerico()
	}
	return egresos, nil
}

func (s *Service) EgresosEnRango(desde, hasta time.Time, actor *models.Usuario) ([]models.Egreso, error) {
	if err := s.autorizar(actor); err != nil {
		return nil, err
	}
	egresos, err := s.repo.ListarEgresosEnRango(s.db, models.SoloFecha(desde), models.SoloFecha(hasta))
	if err != nil {
		log.Printf("finanzas: error listando egresos en rango: %v", err)
		return nil, errores.InternoGenerico()
	}
	return egresos, nil
}

// --- Reporte ---

// ReportePeriodo agrega ingresos y egresos del rango. Las sumas se hacen
// en decimal exacto y se redondean a dos decimales recién en el armado.
func (s *Service) ReportePeriodo(desde, hasta time.Time, actor *models.Usuario) (*ReportePeriodo, error) {
	if err := s.autorizar(actor); err != nil {
		return nil, err
	}
	desde = models.SoloFecha(desde)
	hasta = models.SoloFecha(hasta)
	if hasta.Before(desde) {
		return nil, errores.DeValidacion("el rango del reporte está invertido")
	}

	ingresos, err := s.repo.ListarIngresosEnRango(s.db, desde, hasta)
	if err != nil {
		log.Printf("finanzas: error agregando ingresos: %v", err)
		return nil, errores.InternoGenerico()
	}
	egresos, err := s.repo.ListarEgresosEnRango(s.db, desde, hasta)
	if err != nil {
		log.Printf("finanzas: error agregando egresos: %v", err)
		return nil, errores.InternoGenerico()
	}

	totalIngresos := decimal.Zero
	porTipoIngreso := make(map[models.TipoIngreso]decimal.Decimal)
	for _, i := range ingresos {
		totalIngresos = totalIngresos.Add(i.Monto)
		porTipoIngreso[i.Tipo] = porTipoIngreso[i.Tipo].Add(i.Monto)
	}
	totalEgresos := decimal.Zero
	porTipoEgreso := make(map[models.TipoEgreso]decimal.Decimal)
	for _, e := range egresos {
		totalEgresos = totalEgresos.Add(e.Monto)
		porTipoEgreso[e.Tipo] = porTipoEgreso[e.Tipo].Add(e.Monto)
	}

	for t, v := range porTipoIngreso {
		porTipoIngreso[t] = v.Round(2)
	}
	for t, v := range porTipoEgreso {
		porTipoEgreso[t] = v.Round(2)
	}

	return &ReportePeriodo{
		Desde: desde,
		Hasta: hasta,
		Totales: TotalesPeriodo{
			TotalIngresos:    totalIngresos.Round(2),
			TotalEgresos:     totalEgresos.Round(2),
			Balance:          totalIngresos.Sub(totalEgresos).Round(2),
			CantidadIngresos: len(ingresos),
			CantidadEgresos:  len(egresos),
		},
		IngresosPorTipo: porTipoIngreso,
		EgresosPorTipo:  porTipoEgreso,
	}, nil
}

// titulo pasa "servicio_extra" a "Servicio Extra" para presentación.
func titulo(v string) string {
	palabras := strings.Split(strings.ReplaceAll(v, "_", " "), " ")
	for i, p := range palabras {
		if p == "" {
			continue
		}
		palabras[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(palabras, " ")
}
