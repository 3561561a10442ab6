package atletas

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/simonpc147/gimnasio-athena/internal/coaches"
	"github.com/simonpc147/gimnasio-athena/internal/errores"
	"github.com/simonpc147/gimnasio-athena/internal/finanzas"
	"github.com/simonpc147/gimnasio-athena/internal/models"
	"github.com/simonpc147/gimnasio-athena/internal/usuarios"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type entorno struct {
	db       *gorm.DB
	atletas  *Service
	usuarios *usuarios.Service
	finanzas *finanzas.Service
	coaches  *coaches.Service
	hoy      *time.Time
	plan     *models.Plan
}

var secretaria = &models.Usuario{ID: 99, Rol: models.RolSecretaria}
var rolCoach = &models.Usuario{ID: 98, Rol: models.RolCoach}

func fecha(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func armarEntorno(t *testing.T) *entorno {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("abriendo sqlite en memoria: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Usuario{}, &models.Plan{}, &models.Coach{}, &models.Atleta{},
		&models.AsignacionCoach{}, &models.Ingreso{}, &models.Egreso{},
	); err != nil {
		t.Fatalf("migrando esquema: %v", err)
	}

	hoy := fecha(2024, 1, 10)
	reloj := func() time.Time { return hoy }

	us := usuarios.NewService(db, usuarios.NewRepository())
	fs := finanzas.NewService(db, finanzas.NewRepository(), reloj)
	cs := coaches.NewService(db, coaches.NewRepository(), us, reloj)
	as := NewService(db, NewRepository(), us, fs, cs, reloj)

	plan, err := fs.CrearPlan(finanzas.DatosPlan{
		Nombre:       "Mensual",
		Precio:       decimal.NewFromInt(50),
		DuracionDias: 30,
	}, secretaria)
	if err != nil {
		t.Fatalf("creando plan: %v", err)
	}

	return &entorno{db: db, atletas: as, usuarios: us, finanzas: fs, coaches: cs, hoy: &hoy, plan: plan}
}

func registroValido(planID uint) RegistroAtleta {
	return RegistroAtleta{
		Nombre:   "Luis",
		Apellido: "Gómez",
		Correo:   "luis@gym.local",
		Cedula:   "V-12345678",
		PlanID:   planID,
	}
}

func TestRegistrarAtletaCompleto(t *testing.T) {
	e := armarEntorno(t)

	resultado, err := e.atletas.Registrar(registroValido(e.plan.ID), models.MetodoEfectivo, secretaria)
	if err != nil {
		t.Fatalf("Registrar: %v", err)
	}
	if resultado.Advertencia != "" {
		t.Fatalf("advertencia inesperada: %s", resultado.Advertencia)
	}
	if resultado.ClaveGenerada == "" {
		t.Error("no se generó clave temporal")
	}

	// El usuario quedó con rol atleta y la clave generada autentica.
	u, err := e.usuarios.Autenticar("luis@gym.local", resultado.ClaveGenerada)
	if err != nil {
		t.Fatalf("la clave generada no autenticó: %v", err)
	}
	if u.Rol != models.RolAtleta {
		t.Errorf("rol = %s", u.Rol)
	}

	// La membresía arrancó hoy y vence a los 30 días.
	a, err := e.atletas.PorID(resultado.AtletaID)
	if err != nil {
		t.Fatalf("PorID: %v", err)
	}
	if !a.FechaInscripcion.Equal(fecha(2024, 1, 10)) {
		t.Errorf("inscripción = %v", a.FechaInscripcion)
	}
	if quiero := fecha(2024, 2, 9); !a.FechaVencimiento.Equal(quiero) {
		t.Errorf("vencimiento = %v, quiero %v", a.FechaVencimiento, quiero)
	}
	if a.Solvencia != models.SolvenciaSolvente {
		t.Errorf("solvencia = %s", a.Solvencia)
	}

	// El pago de inscripción quedó asentado por el monto del plan.
	var ingresos []models.Ingreso
	if err := e.db.Find(&ingresos).Error; err != nil {
		t.Fatalf("leyendo ingresos: %v", err)
	}
	if len(ingresos) != 1 {
		t.Fatalf("ingresos = %d, quiero 1", len(ingresos))
	}
	if ingresos[0].Tipo != models.IngresoInscripcion || !ingresos[0].Monto.Equal(e.plan.Precio) {
		t.Errorf("ingreso = %s %s", ingresos[0].Tipo, ingresos[0].Monto)
	}
}

func TestRegistrarSinCorreoLoSintetiza(t *testing.T) {
	e := armarEntorno(t)
	datos := registroValido(e.plan.ID)
	datos.Correo = ""
	datos.Cedula = "V-555"

	resultado, err := e.atletas.Registrar(datos, models.MetodoEfectivo, secretaria)
	if err != nil {
		t.Fatalf("Registrar: %v", err)
	}
	a, err := e.atletas.PorID(resultado.AtletaID)
	if err != nil {
		t.Fatalf("PorID: %v", err)
	}
	if quiero := "v-555@sinemail.com"; a.Usuario.Correo != quiero {
		t.Errorf("correo = %q, quiero %q", a.Usuario.Correo, quiero)
	}
}

func TestRegistrarSinPermisoNoEscribeNada(t *testing.T) {
	e := armarEntorno(t)

	_, err := e.atletas.Registrar(registroValido(e.plan.ID), models.MetodoEfectivo, rolCoach)
	if !errores.Es(err, errores.Autorizacion) {
		t.Fatalf("err = %v, quiero autorización", err)
	}

	var usuariosN, atletasN int64
	e.db.Model(&models.Usuario{}).Count(&usuariosN)
	e.db.Model(&models.Atleta{}).Count(&atletasN)
	if usuariosN != 0 || atletasN != 0 {
		t.Errorf("quedaron filas: usuarios=%d atletas=%d", usuariosN, atletasN)
	}
}

func TestRegistrarCedulaDuplicada(t *testing.T) {
	e := armarEntorno(t)
	if _, err := e.atletas.Registrar(registroValido(e.plan.ID), models.MetodoEfectivo, secretaria); err != nil {
		t.Fatalf("primer alta: %v", err)
	}

	otro := registroValido(e.plan.ID)
	otro.Correo = "otro@gym.local"
	if _, err := e.atletas.Registrar(otro, models.MetodoEfectivo, secretaria); !errores.Es(err, errores.Validacion) {
		t.Fatalf("err = %v, quiero validación por cédula", err)
	}
}

func TestRegistrarValidaEdad(t *testing.T) {
	e := armarEntorno(t)
	casos := []struct {
		nombre     string
		nacimiento time.Time
		quieroErr  bool
	}{
		{"quince años", fecha(2008, 1, 11), true},
		{"dieciséis justos", fecha(2008, 1, 10), false},
		{"ochenta justos", fecha(1944, 1, 10), false},
		{"ochenta y uno", fecha(1943, 1, 9), true},
	}
	for i, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			datos := registroValido(e.plan.ID)
			datos.Cedula = datos.Cedula + c.nombre
			datos.Correo = c.nombre + string(rune('a'+i)) + "@gym.local"
			datos.FechaNacimiento = &c.nacimiento
			_, err := e.atletas.Registrar(datos, models.MetodoEfectivo, secretaria)
			if c.quieroErr && !errores.Es(err, errores.Validacion) {
				t.Errorf("err = %v, quiero validación", err)
			}
			if !c.quieroErr && err != nil {
				t.Errorf("err = %v, quiero éxito", err)
			}
		})
	}
}

func TestRenovarCorreVencimiento(t *testing.T) {
	e := armarEntorno(t)
	resultado, err := e.atletas.Registrar(registroValido(e.plan.ID), models.MetodoEfectivo, secretaria)
	if err != nil {
		t.Fatalf("Registrar: %v", err)
	}

	// Renueva antes de vencer: la base es el vencimiento, no hoy.
	*e.hoy = fecha(2024, 2, 5)
	ingreso, err := e.atletas.Renovar(resultado.AtletaID, models.MetodoTarjeta, secretaria)
	if err != nil {
		t.Fatalf("Renovar: %v", err)
	}
	if quiero := fecha(2024, 3, 10); !ingreso.VencimientoNuevo.Equal(quiero) {
		t.Errorf("vencimiento del asiento = %v, quiero %v", ingreso.VencimientoNuevo, quiero)
	}

	a, err := e.atletas.PorID(resultado.AtletaID)
	if err != nil {
		t.Fatalf("PorID: %v", err)
	}
	if !a.FechaVencimiento.Equal(fecha(2024, 3, 10)) {
		t.Errorf("vencimiento del atleta = %v", a.FechaVencimiento)
	}
	if a.UltimoPago == nil || !a.UltimoPago.Equal(fecha(2024, 2, 5)) {
		t.Errorf("último pago = %v", a.UltimoPago)
	}
}

func TestSolvenciaDerivadaYSuspension(t *testing.T) {
	e := armarEntorno(t)
	resultado, err := e.atletas.Registrar(registroValido(e.plan.ID), models.MetodoEfectivo, secretaria)
	if err != nil {
		t.Fatalf("Registrar: %v", err)
	}

	// Pasado el vencimiento el estado derivado es vencido, aunque lo
	// guardado diga solvente.
	*e.hoy = fecha(2024, 3, 1)
	a, err := e.atletas.PorID(resultado.AtletaID)
	if err != nil {
		t.Fatalf("PorID: %v", err)
	}
	if a.Solvencia != models.SolvenciaVencido {
		t.Errorf("solvencia = %s, quiero vencido", a.Solvencia)
	}

	vencidos, err := e.atletas.PorSolvencia(models.SolvenciaVencido)
	if err != nil {
		t.Fatalf("PorSolvencia: %v", err)
	}
	if len(vencidos) != 1 {
		t.Errorf("vencidos = %d, quiero 1", len(vencidos))
	}

	// La suspensión es manual y pisa la fecha.
	if err := e.atletas.Suspender(resultado.AtletaID, secretaria); err != nil {
		t.Fatalf("Suspender: %v", err)
	}
	a, _ = e.atletas.PorID(resultado.AtletaID)
	if a.Solvencia != models.SolvenciaSuspendido {
		t.Errorf("solvencia = %s, quiero suspendido", a.Solvencia)
	}

	// La renovación levanta la suspensión.
	if _, err := e.atletas.Renovar(resultado.AtletaID, models.MetodoEfectivo, secretaria); err != nil {
		t.Fatalf("Renovar: %v", err)
	}
	a, _ = e.atletas.PorID(resultado.AtletaID)
	if a.Solvencia != models.SolvenciaSolvente {
		t.Errorf("solvencia tras renovar = %s", a.Solvencia)
	}
}

func TestCambiarPlan(t *testing.T) {
	e := armarEntorno(t)
	resultado, err := e.atletas.Registrar(registroValido(e.plan.ID), models.MetodoEfectivo, secretaria)
	if err != nil {
		t.Fatalf("Registrar: %v", err)
	}

	trimestral, err := e.finanzas.CrearPlan(finanzas.DatosPlan{
		Nombre:       "Trimestral",
		Precio:       decimal.NewFromInt(120),
		DuracionDias: 90,
	}, secretaria)
	if err != nil {
		t.Fatalf("plan trimestral: %v", err)
	}

	ingreso, err := e.atletas.CambiarPlan(resultado.AtletaID, trimestral.ID, models.MetodoTransferencia, secretaria)
	if err != nil {
		t.Fatalf("CambiarPlan: %v", err)
	}
	if !ingreso.Monto.Equal(trimestral.Precio) {
		t.Errorf("monto = %s, quiero el del plan nuevo", ingreso.Monto)
	}

	a, err := e.atletas.PorID(resultado.AtletaID)
	if err != nil {
		t.Fatalf("PorID: %v", err)
	}
	if a.PlanID != trimestral.ID {
		t.Errorf("plan = %d, quiero %d", a.PlanID, trimestral.ID)
	}
	// Leído crudo: el guardado no debe reescribir la clave foránea con
	// el plan precargado.
	var persistido uint
	if err := e.db.Raw("SELECT plan_id FROM atletas WHERE id = ?", resultado.AtletaID).Scan(&persistido).Error; err != nil {
		t.Fatalf("leyendo plan_id: %v", err)
	}
	if persistido != trimestral.ID {
		t.Errorf("plan_id persistido = %d, quiero %d", persistido, trimestral.ID)
	}
	// Base = vencimiento vigente (2024-02-09) + 90 días.
	if quiero := fecha(2024, 5, 9); !a.FechaVencimiento.Equal(quiero) {
		t.Errorf("vencimiento = %v, quiero %v", a.FechaVencimiento, quiero)
	}
}

func TestCambiarPlanInactivo(t *testing.T) {
	e := armarEntorno(t)
	resultado, err := e.atletas.Registrar(registroValido(e.plan.ID), models.MetodoEfectivo, secretaria)
	if err != nil {
		t.Fatalf("Registrar: %v", err)
	}

	viejo, err := e.finanzas.CrearPlan(finanzas.DatosPlan{
		Nombre:       "Promo vieja",
		Precio:       decimal.NewFromInt(10),
		DuracionDias: 30,
	}, secretaria)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if err := e.db.Model(&models.Plan{}).Where("id = ?", viejo.ID).Update("activo", false).Error; err != nil {
		t.Fatalf("desactivando plan: %v", err)
	}

	_, err = e.atletas.CambiarPlan(resultado.AtletaID, viejo.ID, models.MetodoEfectivo, secretaria)
	if !errores.Es(err, errores.Validacion) {
		t.Fatalf("err = %v, quiero validación por plan inactivo", err)
	}
}

func TestEliminarBorraUsuarioYAtleta(t *testing.T) {
	e := armarEntorno(t)
	resultado, err := e.atletas.Registrar(registroValido(e.plan.ID), models.MetodoEfectivo, secretaria)
	if err != nil {
		t.Fatalf("Registrar: %v", err)
	}

	if err := e.atletas.Eliminar(resultado.AtletaID, secretaria); err != nil {
		t.Fatalf("Eliminar: %v", err)
	}

	var usuariosN, atletasN int64
	e.db.Unscoped().Model(&models.Usuario{}).Count(&usuariosN)
	e.db.Unscoped().Model(&models.Atleta{}).Count(&atletasN)
	if usuariosN != 0 || atletasN != 0 {
		t.Errorf("quedaron filas: usuarios=%d atletas=%d", usuariosN, atletasN)
	}
}

func TestAsignarCoachMantieneHistorial(t *testing.T) {
	e := armarEntorno(t)
	resultado, err := e.atletas.Registrar(registroValido(e.plan.ID), models.MetodoEfectivo, secretaria)
	if err != nil {
		t.Fatalf("Registrar: %v", err)
	}

	coach1 := altaCoach(t, e, "carlos@gym.local")
	coach2 := altaCoach(t, e, "diana@gym.local")

	if err := e.atletas.AsignarCoach(resultado.AtletaID, &coach1, secretaria, "inicio"); err != nil {
		t.Fatalf("AsignarCoach: %v", err)
	}
	if err := e.atletas.AsignarCoach(resultado.AtletaID, &coach2, secretaria, "cambio de horario"); err != nil {
		t.Fatalf("reasignar: %v", err)
	}

	historial, err := e.coaches.HistorialDeAtleta(resultado.AtletaID)
	if err != nil {
		t.Fatalf("HistorialDeAtleta: %v", err)
	}
	if len(historial) != 2 {
		t.Fatalf("historial = %d, quiero 2", len(historial))
	}
	activas := 0
	for _, h := range historial {
		if h.Activa {
			activas++
			if h.CoachID != coach2 {
				t.Errorf("la activa apunta al coach %d", h.CoachID)
			}
		}
	}
	if activas != 1 {
		t.Errorf("asignaciones activas = %d, quiero 1", activas)
	}

	a, _ := e.atletas.PorID(resultado.AtletaID)
	if a.CoachID == nil || *a.CoachID != coach2 {
		t.Errorf("coach del perfil = %v", a.CoachID)
	}

	// Quitar el coach cierra la asignación sin abrir otra.
	if err := e.atletas.AsignarCoach(resultado.AtletaID, nil, secretaria, "baja del coach"); err != nil {
		t.Fatalf("quitar coach: %v", err)
	}
	a, _ = e.atletas.PorID(resultado.AtletaID)
	if a.CoachID != nil {
		t.Error("el perfil conservó el coach")
	}
}

func TestPorVencer(t *testing.T) {
	e := armarEntorno(t)
	resultado, err := e.atletas.Registrar(registroValido(e.plan.ID), models.MetodoEfectivo, secretaria)
	if err != nil {
		t.Fatalf("Registrar: %v", err)
	}
	_ = resultado

	// Vence el 2024-02-09. Al 2024-02-03 entra en la ventana de 7 días.
	*e.hoy = fecha(2024, 2, 3)
	proximos, err := e.atletas.PorVencer(7)
	if err != nil {
		t.Fatalf("PorVencer: %v", err)
	}
	if len(proximos) != 1 {
		t.Errorf("por vencer = %d, quiero 1", len(proximos))
	}

	// Con una ventana de 3 días todavía no aparece.
	proximos, err = e.atletas.PorVencer(3)
	if err != nil {
		t.Fatalf("PorVencer: %v", err)
	}
	if len(proximos) != 0 {
		t.Errorf("por vencer = %d, quiero 0", len(proximos))
	}

	if _, err := e.atletas.PorVencer(-1); !errores.Es(err, errores.Validacion) {
		t.Errorf("ventana negativa: err = %v", err)
	}
}

func altaCoach(t *testing.T, e *entorno, correo string) uint {
	t.Helper()
	resultado, err := e.coaches.Registrar(usuarios.DatosUsuario{
		Nombre:   "Coach",
		Apellido: "Prueba",
		Correo:   correo,
		Clave:    "clave123",
	}, coaches.DatosCoach{Especialidades: "fuerza"}, secretaria)
	if err != nil {
		t.Fatalf("alta coach: %v", err)
	}
	return resultado.CoachID
}
