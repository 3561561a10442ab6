package finanzas

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/simonpc147/gimnasio-athena/internal/errores"
	"github.com/simonpc147/gimnasio-athena/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func abrirDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("abriendo sqlite en memoria: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Usuario{}, &models.Plan{}, &models.Atleta{},
		&models.Ingreso{}, &models.Egreso{},
	); err != nil {
		t.Fatalf("migrando esquema: %v", err)
	}
	return db
}

func fecha(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func servicioEn(t *testing.T, hoy time.Time) *Service {
	t.Helper()
	return NewService(abrirDB(t), NewRepository(), func() time.Time { return hoy })
}

var secretaria = &models.Usuario{ID: 2, Rol: models.RolSecretaria}
var coach = &models.Usuario{ID: 3, Rol: models.RolCoach}

func planMensual(t *testing.T, s *Service) *models.Plan {
	t.Helper()
	p, err := s.CrearPlan(DatosPlan{
		Nombre:       "Mensual",
		Precio:       decimal.NewFromInt(50),
		DuracionDias: 30,
	}, secretaria)
	if err != nil {
		t.Fatalf("CrearPlan: %v", err)
	}
	return p
}

func TestCrearPlanValidaciones(t *testing.T) {
	s := servicioEn(t, fecha(2024, 1, 10))
	casos := []struct {
		nombre string
		datos  DatosPlan
	}{
		{"sin nombre", DatosPlan{Precio: decimal.NewFromInt(50), DuracionDias: 30}},
		{"precio cero", DatosPlan{Nombre: "Mensual", DuracionDias: 30}},
		{"precio negativo", DatosPlan{Nombre: "Mensual", Precio: decimal.NewFromInt(-5), DuracionDias: 30}},
		{"sin duración", DatosPlan{Nombre: "Mensual", Precio: decimal.NewFromInt(50)}},
	}
	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			if _, err := s.CrearPlan(c.datos, secretaria); !errores.Es(err, errores.Validacion) {
				t.Errorf("err = %v, quiero validación", err)
			}
		})
	}
}

func TestCrearPlanNombreUnicoSinMayusculas(t *testing.T) {
	s := servicioEn(t, fecha(2024, 1, 10))
	planMensual(t, s)
	_, err := s.CrearPlan(DatosPlan{
		Nombre:       "MENSUAL",
		Precio:       decimal.NewFromInt(60),
		DuracionDias: 30,
	}, secretaria)
	if !errores.Es(err, errores.Validacion) {
		t.Fatalf("err = %v, quiero validación por nombre duplicado", err)
	}
}

func TestCrearPlanSinPermiso(t *testing.T) {
	s := servicioEn(t, fecha(2024, 1, 10))
	_, err := s.CrearPlan(DatosPlan{
		Nombre: "Mensual", Precio: decimal.NewFromInt(50), DuracionDias: 30,
	}, coach)
	if !errores.Es(err, errores.Autorizacion) {
		t.Fatalf("err = %v, quiero autorización", err)
	}
}

func TestInscripcionCalculaVencimiento(t *testing.T) {
	s := servicioEn(t, fecha(2024, 1, 10))
	plan := planMensual(t, s)

	ingreso, err := s.RegistrarInscripcion(1, plan.ID, models.MetodoEfectivo, secretaria, "")
	if err != nil {
		t.Fatalf("RegistrarInscripcion: %v", err)
	}
	if !ingreso.FechaPago.Equal(fecha(2024, 1, 10)) {
		t.Errorf("fecha de pago = %v", ingreso.FechaPago)
	}
	if ingreso.VencimientoPrevio != nil {
		t.Error("la inscripción no tiene vencimiento previo")
	}
	if quiero := fecha(2024, 2, 9); !ingreso.VencimientoNuevo.Equal(quiero) {
		t.Errorf("vencimiento nuevo = %v, quiero %v", ingreso.VencimientoNuevo, quiero)
	}
	if !ingreso.Monto.Equal(plan.Precio) {
		t.Errorf("monto = %s, quiero %s", ingreso.Monto, plan.Precio)
	}
	if ingreso.Tipo != models.IngresoInscripcion {
		t.Errorf("tipo = %s", ingreso.Tipo)
	}
}

func TestRenovacionAnticipadaNoRegalaDias(t *testing.T) {
	// Renueva el 2024-02-05 con vencimiento 2024-02-09: la base es el
	// vencimiento vigente, no el día de pago.
	s := servicioEn(t, fecha(2024, 2, 5))
	plan := planMensual(t, s)

	ingreso, err := s.RegistrarRenovacion(1, plan.ID, models.MetodoTarjeta, fecha(2024, 2, 9), secretaria, "")
	if err != nil {
		t.Fatalf("RegistrarRenovacion: %v", err)
	}
	if quiero := fecha(2024, 3, 10); !ingreso.VencimientoNuevo.Equal(quiero) {
		t.Errorf("vencimiento nuevo = %v, quiero %v", ingreso.VencimientoNuevo, quiero)
	}
	if !ingreso.VencimientoPrevio.Equal(fecha(2024, 2, 9)) {
		t.Errorf("vencimiento previo = %v", ingreso.VencimientoPrevio)
	}
}

func TestRenovacionTardiaCuentaDesdeHoy(t *testing.T) {
	// Vencido el 2024-02-01 y paga el 2024-02-10: los días corren desde
	// el pago, el tiempo vencido no se cobra.
	s := servicioEn(t, fecha(2024, 2, 10))
	plan := planMensual(t, s)

	ingreso, err := s.RegistrarRenovacion(1, plan.ID, models.MetodoEfectivo, fecha(2024, 2, 1), secretaria, "")
	if err != nil {
		t.Fatalf("RegistrarRenovacion: %v", err)
	}
	if quiero := fecha(2024, 3, 11); !ingreso.VencimientoNuevo.Equal(quiero) {
		t.Errorf("vencimiento nuevo = %v, quiero %v", ingreso.VencimientoNuevo, quiero)
	}
}

func TestAsientosDentroDeTransaccionExterna(t *testing.T) {
	// Las variantes En reciben la transacción del llamador; la consulta
	// del plan tiene que viajar por ese mismo handle y no por la conexión
	// raíz del servicio.
	s := servicioEn(t, fecha(2024, 2, 5))
	plan := planMensual(t, s)

	var ingreso *models.Ingreso
	err := s.db.Transaction(func(tx *gorm.DB) error {
		i, err := s.RegistrarRenovacionEn(tx, 1, plan.ID, models.MetodoEfectivo, fecha(2024, 2, 9), secretaria, "")
		if err != nil {
			return err
		}
		ingreso = i
		return nil
	})
	if err != nil {
		t.Fatalf("RegistrarRenovacionEn: %v", err)
	}
	if quiero := fecha(2024, 3, 10); !ingreso.VencimientoNuevo.Equal(quiero) {
		t.Errorf("vencimiento nuevo = %v, quiero %v", ingreso.VencimientoNuevo, quiero)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		_, err := s.RegistrarInscripcionEn(tx, 2, plan.ID, models.MetodoTarjeta, secretaria, "")
		return err
	})
	if err != nil {
		t.Fatalf("RegistrarInscripcionEn: %v", err)
	}
}

func TestServicioExtraNoTocaFechas(t *testing.T) {
	s := servicioEn(t, fecha(2024, 1, 10))

	ingreso, err := s.RegistrarServicioExtra(1, decimal.NewFromInt(15), models.MetodoEfectivo, "Clase personalizada", secretaria)
	if err != nil {
		t.Fatalf("RegistrarServicioExtra: %v", err)
	}
	if ingreso.PlanID != nil || ingreso.VencimientoPrevio != nil || ingreso.VencimientoNuevo != nil {
		t.Error("un servicio extra no lleva plan ni fechas de vencimiento")
	}

	if _, err := s.RegistrarServicioExtra(1, decimal.Zero, models.MetodoEfectivo, "Clase", secretaria); !errores.Es(err, errores.Validacion) {
		t.Errorf("monto cero: err = %v", err)
	}
	if _, err := s.RegistrarServicioExtra(1, decimal.NewFromInt(15), models.MetodoEfectivo, "  ", secretaria); !errores.Es(err, errores.Validacion) {
		t.Errorf("sin descripción: err = %v", err)
	}
}

func TestActualizarIngresoSoloCamposEditables(t *testing.T) {
	s := servicioEn(t, fecha(2024, 1, 10))
	plan := planMensual(t, s)
	ingreso, err := s.RegistrarInscripcion(1, plan.ID, models.MetodoEfectivo, secretaria, "")
	if err != nil {
		t.Fatalf("RegistrarInscripcion: %v", err)
	}

	monto := decimal.NewFromFloat(45.50)
	metodo := models.MetodoTransferencia
	editado, err := s.ActualizarIngreso(ingreso.ID, ActualizarIngreso{Monto: &monto, Metodo: &metodo}, secretaria)
	if err != nil {
		t.Fatalf("ActualizarIngreso: %v", err)
	}
	if !editado.Monto.Equal(monto) || editado.Metodo != metodo {
		t.Errorf("editado = %s %s", editado.Monto, editado.Metodo)
	}
	// Las fechas no se mueven con la corrección.
	if !editado.VencimientoNuevo.Equal(*ingreso.VencimientoNuevo) {
		t.Error("la corrección movió el vencimiento")
	}

	negativo := decimal.NewFromInt(-1)
	if _, err := s.ActualizarIngreso(ingreso.ID, ActualizarIngreso{Monto: &negativo}, secretaria); !errores.Es(err, errores.Validacion) {
		t.Errorf("monto negativo: err = %v", err)
	}
}

func TestReportePeriodo(t *testing.T) {
	hoy := fecha(2024, 3, 15)
	s := servicioEn(t, hoy)
	plan := planMensual(t, s)

	// Tres ingresos: 50 + 50 + 50 = 150.
	if _, err := s.RegistrarInscripcion(1, plan.ID, models.MetodoEfectivo, secretaria, ""); err != nil {
		t.Fatalf("inscripción: %v", err)
	}
	if _, err := s.RegistrarRenovacion(2, plan.ID, models.MetodoTarjeta, fecha(2024, 3, 1), secretaria, ""); err != nil {
		t.Fatalf("renovación: %v", err)
	}
	if _, err := s.RegistrarServicioExtra(1, decimal.NewFromInt(50), models.MetodoEfectivo, "Evaluación", secretaria); err != nil {
		t.Fatalf("servicio extra: %v", err)
	}

	// Dos egresos: 40 + 40 = 80.
	for i := 0; i < 2; i++ {
		if _, err := s.CrearEgreso(DatosEgreso{
			Monto:       decimal.NewFromInt(40),
			Tipo:        models.EgresoMantenimiento,
			Descripcion: "Repuestos",
			Metodo:      models.MetodoEfectivo,
		}, secretaria); err != nil {
			t.Fatalf("egreso: %v", err)
		}
	}

	reporte, err := s.ReportePeriodo(fecha(2024, 3, 1), fecha(2024, 3, 31), secretaria)
	if err != nil {
		t.Fatalf("ReportePeriodo: %v", err)
	}
	if quiero := decimal.NewFromInt(150); !reporte.Totales.TotalIngresos.Equal(quiero) {
		t.Errorf("ingresos = %s, quiero %s", reporte.Totales.TotalIngresos, quiero)
	}
	if quiero := decimal.NewFromInt(80); !reporte.Totales.TotalEgresos.Equal(quiero) {
		t.Errorf("egresos = %s, quiero %s", reporte.Totales.TotalEgresos, quiero)
	}
	if quiero := decimal.NewFromInt(70); !reporte.Totales.Balance.Equal(quiero) {
		t.Errorf("balance = %s, quiero %s", reporte.Totales.Balance, quiero)
	}
	if reporte.Totales.CantidadIngresos != 3 || reporte.Totales.CantidadEgresos != 2 {
		t.Errorf("cantidades = %d/%d, quiero 3/2",
			reporte.Totales.CantidadIngresos, reporte.Totales.CantidadEgresos)
	}
	if quiero := decimal.NewFromInt(50); !reporte.IngresosPorTipo[models.IngresoServicioExtra].Equal(quiero) {
		t.Errorf("servicio extra = %s", reporte.IngresosPorTipo[models.IngresoServicioExtra])
	}
}

func TestReportePeriodoRangoInvertido(t *testing.T) {
	s := servicioEn(t, fecha(2024, 3, 15))
	if _, err := s.ReportePeriodo(fecha(2024, 3, 31), fecha(2024, 3, 1), secretaria); !errores.Es(err, errores.Validacion) {
		t.Fatalf("err = %v, quiero validación", err)
	}
}

func TestReporteFueraDeRangoNoSuma(t *testing.T) {
	s := servicioEn(t, fecha(2024, 3, 15))
	plan := planMensual(t, s)
	if _, err := s.RegistrarInscripcion(1, plan.ID, models.MetodoEfectivo, secretaria, ""); err != nil {
		t.Fatalf("inscripción: %v", err)
	}

	reporte, err := s.ReportePeriodo(fecha(2024, 4, 1), fecha(2024, 4, 30), secretaria)
	if err != nil {
		t.Fatalf("ReportePeriodo: %v", err)
	}
	if !reporte.Totales.TotalIngresos.IsZero() || reporte.Totales.CantidadIngresos != 0 {
		t.Errorf("un pago de marzo entró al reporte de abril: %+v", reporte.Totales)
	}
}

func TestEgresosPorTipo(t *testing.T) {
	s := servicioEn(t, fecha(2024, 3, 15))
	tipos := []models.TipoEgreso{models.EgresoAlquiler, models.EgresoSalarioEmpleado, models.EgresoAlquiler}
	for _, tipo := range tipos {
		if _, err := s.CrearEgreso(DatosEgreso{
			Monto:       decimal.NewFromInt(100),
			Tipo:        tipo,
			Descripcion: "Gasto",
			Metodo:      models.MetodoTransferencia,
		}, secretaria); err != nil {
			t.Fatalf("egreso %s: %v", tipo, err)
		}
	}

	alquileres, err := s.EgresosPorTipo(models.EgresoAlquiler, secretaria)
	if err != nil {
		t.Fatalf("EgresosPorTipo: %v", err)
	}
	if len(alquileres) != 2 {
		t.Errorf("alquileres = %d, quiero 2", len(alquileres))
	}

	if _, err := s.EgresosPorTipo(models.TipoEgreso("cripto"), secretaria); !errores.Es(err, errores.Validacion) {
		t.Errorf("tipo inválido: err = %v", err)
	}
}
