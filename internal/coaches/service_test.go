package coaches

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/simonpc147/gimnasio-athena/internal/errores"
	"github.com/simonpc147/gimnasio-athena/internal/models"
	"github.com/simonpc147/gimnasio-athena/internal/usuarios"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var admin = &models.Usuario{ID: 99, Rol: models.RolAdminPrincipal}
var atleta = &models.Usuario{ID: 98, Rol: models.RolAtleta}

func fecha(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func servicioDePrueba(t *testing.T, hoy time.Time) (*Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("abriendo sqlite en memoria: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Usuario{}, &models.Plan{}, &models.Coach{},
		&models.Atleta{}, &models.AsignacionCoach{},
	); err != nil {
		t.Fatalf("migrando esquema: %v", err)
	}
	us := usuarios.NewService(db, usuarios.NewRepository())
	return NewService(db, NewRepository(), us, func() time.Time { return hoy }), db
}

func altaCoach(t *testing.T, s *Service, correo string, salario int64) *ResultadoRegistro {
	t.Helper()
	monto := decimal.NewFromInt(salario)
	resultado, err := s.Registrar(usuarios.DatosUsuario{
		Nombre:   "Carlos",
		Apellido: "Rivas",
		Correo:   correo,
	}, DatosCoach{
		Especialidades: "Fuerza, Cardio",
		Salario:        &monto,
	}, admin)
	if err != nil {
		t.Fatalf("Registrar coach: %v", err)
	}
	return resultado
}

func TestRegistrarCoachTransaccional(t *testing.T) {
	s, db := servicioDePrueba(t, fecha(2024, 1, 10))

	resultado := altaCoach(t, s, "carlos@gym.local", 800)
	if resultado.ClaveGenerada == "" {
		t.Error("sin clave el alta debe generar una temporal")
	}

	var u models.Usuario
	if err := db.First(&u, resultado.UsuarioID).Error; err != nil {
		t.Fatalf("leyendo usuario: %v", err)
	}
	if u.Rol != models.RolCoach {
		t.Errorf("rol = %s, el alta fuerza coach", u.Rol)
	}

	c, err := s.PorID(resultado.CoachID)
	if err != nil {
		t.Fatalf("PorID: %v", err)
	}
	if !c.FechaContratacion.Equal(fecha(2024, 1, 10)) {
		t.Errorf("contratación = %v", c.FechaContratacion)
	}
}

func TestRegistrarCoachCorreoDuplicadoNoDejaPerfil(t *testing.T) {
	s, db := servicioDePrueba(t, fecha(2024, 1, 10))
	altaCoach(t, s, "carlos@gym.local", 800)

	_, err := s.Registrar(usuarios.DatosUsuario{
		Nombre: "Otro", Apellido: "Coach", Correo: "carlos@gym.local", Clave: "x",
	}, DatosCoach{}, admin)
	if !errores.Es(err, errores.Validacion) {
		t.Fatalf("err = %v, quiero validación", err)
	}

	var coachesN int64
	db.Model(&models.Coach{}).Count(&coachesN)
	if coachesN != 1 {
		t.Errorf("perfiles = %d, quiero 1", coachesN)
	}
}

func TestRegistrarCoachSalarioNegativo(t *testing.T) {
	s, _ := servicioDePrueba(t, fecha(2024, 1, 10))
	negativo := decimal.NewFromInt(-100)
	_, err := s.Registrar(usuarios.DatosUsuario{
		Nombre: "Carlos", Apellido: "Rivas", Correo: "carlos@gym.local",
	}, DatosCoach{Salario: &negativo}, admin)
	if !errores.Es(err, errores.Validacion) {
		t.Fatalf("err = %v, quiero validación", err)
	}
}

func TestAsignacionActivaUnica(t *testing.T) {
	s, _ := servicioDePrueba(t, fecha(2024, 1, 10))
	coach1 := altaCoach(t, s, "carlos@gym.local", 800)
	coach2 := altaCoach(t, s, "diana@gym.local", 900)

	if _, err := s.AsignarAtleta(coach1.CoachID, 1, admin, ""); err != nil {
		t.Fatalf("AsignarAtleta: %v", err)
	}
	// Una segunda asignación activa del mismo atleta es conflicto, aun
	// con otro coach.
	if _, err := s.AsignarAtleta(coach2.CoachID, 1, admin, ""); !errores.Es(err, errores.Conflicto) {
		t.Fatalf("err = %v, quiero conflicto", err)
	}
	// Otro atleta sí puede.
	if _, err := s.AsignarAtleta(coach1.CoachID, 2, admin, ""); err != nil {
		t.Fatalf("segundo atleta: %v", err)
	}
}

func TestTerminarYReasignar(t *testing.T) {
	s, _ := servicioDePrueba(t, fecha(2024, 1, 10))
	coach1 := altaCoach(t, s, "carlos@gym.local", 800)
	coach2 := altaCoach(t, s, "diana@gym.local", 900)

	asignacion, err := s.AsignarAtleta(coach1.CoachID, 1, admin, "")
	if err != nil {
		t.Fatalf("AsignarAtleta: %v", err)
	}
	if err := s.TerminarAsignacion(asignacion.ID, admin, "vacaciones"); err != nil {
		t.Fatalf("TerminarAsignacion: %v", err)
	}

	historial, err := s.HistorialDeAtleta(1)
	if err != nil {
		t.Fatalf("HistorialDeAtleta: %v", err)
	}
	if len(historial) != 1 || historial[0].Activa {
		t.Fatalf("historial = %+v", historial)
	}
	if historial[0].TerminadaEl == nil || !historial[0].TerminadaEl.Equal(fecha(2024, 1, 10)) {
		t.Errorf("terminada el = %v", historial[0].TerminadaEl)
	}
	// El motivo queda fechado en las notas.
	if quiero := "[2024-01-10] vacaciones"; historial[0].Notas != quiero {
		t.Errorf("notas = %q, quiero %q", historial[0].Notas, quiero)
	}

	// Terminada la vigente, el atleta puede reasignarse.
	nueva, err := s.Reasignar(1, coach2.CoachID, admin, "vuelta")
	if err != nil {
		t.Fatalf("Reasignar: %v", err)
	}
	if nueva.CoachID != coach2.CoachID || !nueva.Activa {
		t.Errorf("nueva = %+v", nueva)
	}
}

func TestAsignarSinPermiso(t *testing.T) {
	s, _ := servicioDePrueba(t, fecha(2024, 1, 10))
	coach1 := altaCoach(t, s, "carlos@gym.local", 800)
	if _, err := s.AsignarAtleta(coach1.CoachID, 1, atleta, ""); !errores.Es(err, errores.Autorizacion) {
		t.Fatalf("err = %v, quiero autorización", err)
	}
}

func TestAtletasDeCoachSoloVeLosSuyos(t *testing.T) {
	s, _ := servicioDePrueba(t, fecha(2024, 1, 10))
	coach1 := altaCoach(t, s, "carlos@gym.local", 800)
	coach2 := altaCoach(t, s, "diana@gym.local", 900)
	if _, err := s.AsignarAtleta(coach2.CoachID, 1, admin, ""); err != nil {
		t.Fatalf("AsignarAtleta: %v", err)
	}

	actor := &models.Usuario{ID: coach1.UsuarioID, Rol: models.RolCoach}
	if _, err := s.AtletasDe(coach2.CoachID, true, actor); !errores.Es(err, errores.Autorizacion) {
		t.Fatalf("cartera ajena: err = %v, quiero autorización", err)
	}
	if _, err := s.AtletasDe(coach1.CoachID, true, actor); err != nil {
		t.Errorf("cartera propia: %v", err)
	}
	if _, err := s.AtletasDe(coach2.CoachID, true, admin); err != nil {
		t.Errorf("la administración consulta cualquiera: %v", err)
	}
	if _, err := s.AtletasDe(coach1.CoachID, true, atleta); !errores.Es(err, errores.Autorizacion) {
		t.Fatalf("rol atleta: err = %v, quiero autorización", err)
	}
}

func TestReportePara(t *testing.T) {
	s, _ := servicioDePrueba(t, fecha(2024, 1, 10))
	coach1 := altaCoach(t, s, "carlos@gym.local", 800)

	a1, err := s.AsignarAtleta(coach1.CoachID, 1, admin, "")
	if err != nil {
		t.Fatalf("AsignarAtleta: %v", err)
	}
	if _, err := s.AsignarAtleta(coach1.CoachID, 2, admin, ""); err != nil {
		t.Fatalf("AsignarAtleta: %v", err)
	}
	if err := s.TerminarAsignacion(a1.ID, admin, ""); err != nil {
		t.Fatalf("TerminarAsignacion: %v", err)
	}

	reporte, err := s.ReportePara(coach1.CoachID)
	if err != nil {
		t.Fatalf("ReportePara: %v", err)
	}
	if reporte.AtletasActuales != 1 {
		t.Errorf("actuales = %d, quiero 1", reporte.AtletasActuales)
	}
	if reporte.AtletasHistorico != 2 {
		t.Errorf("histórico = %d, quiero 2", reporte.AtletasHistorico)
	}
}

func TestResumenGlobal(t *testing.T) {
	s, _ := servicioDePrueba(t, fecha(2024, 1, 10))
	altaCoach(t, s, "carlos@gym.local", 800)
	altaCoach(t, s, "diana@gym.local", 1000)

	resumen, err := s.ResumenGlobal()
	if err != nil {
		t.Fatalf("ResumenGlobal: %v", err)
	}
	if resumen.TotalCoaches != 2 {
		t.Errorf("total = %d", resumen.TotalCoaches)
	}
	if resumen.SalarioPromedio == nil || !resumen.SalarioPromedio.Equal(decimal.NewFromInt(900)) {
		t.Errorf("salario promedio = %v, quiero 900", resumen.SalarioPromedio)
	}
	// "Fuerza, Cardio" en los dos perfiles: dos por especialidad.
	if resumen.PorEspecialidad["fuerza"] != 2 || resumen.PorEspecialidad["cardio"] != 2 {
		t.Errorf("especialidades = %v", resumen.PorEspecialidad)
	}
}
