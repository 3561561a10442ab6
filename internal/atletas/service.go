package atletas

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/simonpc147/gimnasio-athena/internal/auth"
	"github.com/simonpc147/gimnasio-athena/internal/coaches"
	"github.com/simonpc147/gimnasio-athena/internal/errores"
	"github.com/simonpc147/gimnasio-athena/internal/finanzas"
	"github.com/simonpc147/gimnasio-athena/internal/models"
	"github.com/simonpc147/gimnasio-athena/internal/usuarios"
	"gorm.io/gorm"
)

const (
	edadMinima = 16
	edadMaxima = 80
)

// Service maneja el ciclo de vida del atleta: alta con pago de
// inscripción, renovaciones, cambio de plan, asignación de coach y baja.
// Los asientos financieros por atleta se serializan con el mutex de caja
// para que el vencimiento nunca quede desfasado del último pago.
type Service struct {
	db       *gorm.DB
	repo     Repository
	usuarios *usuarios.Service
	finanzas *finanzas.Service
	coaches  *coaches.Service
	ahora    func() time.Time

	muCaja sync.Mutex
}

func NewService(db *gorm.DB, repo Repository, us *usuarios.Service, fs *finanzas.Service, cs *coaches.Service, ahora func() time.Time) *Service {
	if ahora == nil {
		ahora = time.Now
	}
	return &Service{db: db, repo: repo, usuarios: us, finanzas: fs, coaches: cs, ahora: ahora}
}

func (s *Service) autorizar(actor *models.Usuario) error {
	if actor == nil || !auth.Puede(actor.Rol, auth.OpGestionarAtletas) {
		return errores.NoAutorizado("gestión de atletas no permitida para el rol")
	}
	return nil
}

func (s *Service) hoy() time.Time {
	return models.SoloFecha(s.ahora())
}

// Registrar da de alta usuario y atleta en una transacción y después
// asienta la inscripción. Si el asiento falla, el alta queda y se
// devuelve la advertencia para procesar el pago a mano.
func (s *Service) Registrar(datos RegistroAtleta, metodo models.MetodoPago, actor *models.Usuario) (*ResultadoRegistro, error) {
	if err := s.autorizar(actor); err != nil {
		return nil, err
	}
	if strings.TrimSpace(datos.Nombre) == "" || strings.TrimSpace(datos.Apellido) == "" {
		return nil, errores.DeValidacion("nombre y apellido son requeridos")
	}
	cedula := strings.TrimSpace(datos.Cedula)
	if cedula == "" {
		return nil, errores.DeValidacion("la cédula es requerida")
	}
	if datos.PlanID == 0 {
		return nil, errores.DeValidacion("el plan es requerido")
	}
	if datos.FechaNacimiento != nil {
		edad := edadEn(*datos.FechaNacimiento, s.hoy())
		if edad < edadMinima || edad > edadMaxima {
			return nil, errores.DeValidacion(
				fmt.Sprintf("la edad debe estar entre %d y %d años", edadMinima, edadMaxima))
		}
	}

	correo := models.NormalizarCorreo(datos.Correo)
	if correo == "" {
		correo = strings.ToLower(cedula) + "@sinemail.com"
	} else if !strings.Contains(correo, "@") {
		return nil, errores.DeValidacion("correo inválido")
	}

	if _, err := s.repo.BuscarPorCedula(s.db, cedula); err == nil {
		return nil, errores.DeValidacion("ya existe un atleta con esa cédula")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("atletas: error consultando cédula: %v", err)
		return nil, errores.InternoGenerico()
	}

	// El plan se valida antes de abrir la transacción.
	if _, err := s.finanzas.PlanPorID(datos.PlanID); err != nil {
		return nil, err
	}

	clave, err := auth.GenerarClaveTemporal(12)
	if err != nil {
		log.Printf("atletas: error generando clave temporal: %v", err)
		return nil, errores.InternoGenerico()
	}

	s.muCaja.Lock()
	defer s.muCaja.Unlock()

	hoy := s.hoy()
	var resultado ResultadoRegistro
	err = s.db.Transaction(func(tx *gorm.DB) error {
		u, err := s.usuarios.CrearEn(tx, usuarios.DatosUsuario{
			Nombre:    datos.Nombre,
			Apellido:  datos.Apellido,
			Correo:    correo,
			Clave:     clave,
			Rol:       string(models.RolAtleta),
			Direccion: datos.Direccion,
			Telefono:  datos.Telefono,
		}, actor.ID)
		if err != nil {
			return err
		}
		a := &models.Atleta{
			UsuarioID:        u.ID,
			Cedula:           cedula,
			Peso:             datos.Peso,
			FechaNacimiento:  datos.FechaNacimiento,
			PlanID:           datos.PlanID,
			CoachID:          datos.CoachID,
			MetaLargoPlazo:   datos.MetaLargoPlazo,
			NotasMedicas:     datos.NotasMedicas,
			FechaInscripcion: hoy,
			FechaVencimiento: hoy,
			Solvencia:        models.SolvenciaSolvente,
		}
		if err := s.repo.Crear(tx, a); err != nil {
			log.Printf("atletas: error creando atleta: %v", err)
			return errores.InternoGenerico()
		}
		if datos.CoachID != nil {
			if _, err := s.coaches.AsignarAtletaEn(tx, *datos.CoachID, a.ID, "alta de atleta"); err != nil {
				return err
			}
		}
		resultado = ResultadoRegistro{AtletaID: a.ID, UsuarioID: u.ID, ClaveGenerada: clave}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// El asiento de inscripción queda fuera de la transacción a
	// propósito: si falla, el alta se conserva y el pago se marca para
	// procesamiento manual.
	ingreso, err := s.finanzas.RegistrarInscripcion(resultado.AtletaID, datos.PlanID, metodo, actor, "")
	if err != nil {
		resultado.Advertencia = fmt.Sprintf(
			"atleta %d registrado pero el pago de inscripción falló: %s; procesar manualmente",
			resultado.AtletaID, err.Error())
		return &resultado, nil
	}
	if err := s.aplicarPago(resultado.AtletaID, ingreso); err != nil {
		resultado.Advertencia = fmt.Sprintf(
			"atleta %d registrado pero no se pudo actualizar el vencimiento; revisar", resultado.AtletaID)
	}
	return &resultado, nil
}

// Actualizar parchea el perfil del atleta sin tocar la membresía.
func (s *Service) Actualizar(id uint, patch ActualizarAtleta, actor *models.Usuario) (*models.Atleta, error) {
	if err := s.autorizar(actor); err != nil {
		return nil, err
	}
	a, err := s.buscar(id)
	if err != nil {
		return nil, err
	}

	if patch.Cedula != nil {
		cedula := strings.TrimSpace(*patch.Cedula)
		if cedula == "" {
			return nil, errores.DeValidacion("la cédula no puede quedar vacía")
		}
		if cedula != a.Cedula {
			if otro, err := s.repo.BuscarPorCedula(s.db, cedula); err == nil && otro.ID != id {
				return nil, errores.DeValidacion("ya existe un atleta con esa cédula")
			}
			a.Cedula = cedula
		}
	}
	if patch.FechaNacimiento != nil {
		edad := edadEn(*patch.FechaNacimiento, s.hoy())
		if edad < edadMinima || edad > edadMaxima {
			return nil, errores.DeValidacion(
				fmt.Sprintf("la edad debe estar entre %d y %d años", edadMinima, edadMaxima))
		}
		a.FechaNacimiento = patch.FechaNacimiento
	}
	if patch.Peso != nil {
		a.Peso = patch.Peso
	}
	if patch.MetaLargoPlazo != nil {
		a.MetaLargoPlazo = *patch.MetaLargoPlazo
	}
	if patch.NotasMedicas != nil {
		a.NotasMedicas = *patch.NotasMedicas
	}

	if err := s.repo.Guardar(s.db, a); err != nil {
		log.Printf("atletas: error guardando atleta %d: %v", id, err)
		return nil, errores.InternoGenerico()
	}
	return a, nil
}

// Eliminar borra atleta y usuario subyacente en una transacción: o se
// van los dos o no se va ninguno.
func (s *Service) Eliminar(id uint, actor *models.Usuario) error {
	if err := s.autorizar(actor); err != nil {
		return err
	}
	a, err := s.buscar(id)
	if err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Eliminar(tx, id); err != nil {
			log.Printf("atletas: error eliminando atleta %d: %v", id, err)
			return errores.InternoGenerico()
		}
		if err := s.usuarios.EliminarEn(tx, a.UsuarioID); err != nil {
			log.Printf("atletas: error eliminando usuario %d del atleta %d: %v", a.UsuarioID, id, err)
			return errores.InternoGenerico()
		}
		return nil
	})
}

// AsignarCoach actualiza el coach del perfil y mantiene el historial de
// asignaciones: cierra la vigente y, con coach nuevo, abre otra.
func (s *Service) AsignarCoach(atletaID uint, coachID *uint, actor *models.Usuario, motivo string) error {
	if err := s.autorizar(actor); err != nil {
		return err
	}
	a, err := s.buscar(atletaID)
	if err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if activa, err := s.coaches.AsignacionActivaDe(tx, atletaID); err == nil {
			if err := s.coaches.TerminarAsignacionEn(tx, activa.ID, motivo); err != nil {
				return err
			}
		} else if !errores.Es(err, errores.NoEncontrado) {
			return err
		}
		if coachID != nil {
			if _, err := s.coaches.AsignarAtletaEn(tx, *coachID, atletaID, motivo); err != nil {
				return err
			}
		}
		a.CoachID = coachID
		if err := s.repo.Guardar(tx, a); err != nil {
			log.Printf("atletas: error guardando atleta %d: %v", atletaID, err)
			return errores.InternoGenerico()
		}
		return nil
	})
}

// Renovar asienta la renovación con el plan vigente y corre el
// vencimiento; una suspensión se levanta con la renovación.
func (s *Service) Renovar(atletaID uint, metodo models.MetodoPago, actor *models.Usuario) (*models.Ingreso, error) {
	if err := s.autorizar(actor); err != nil {
		return nil, err
	}
	a, err := s.buscar(atletaID)
	if err != nil {
		return nil, err
	}
	return s.renovarConPlan(a, a.PlanID, metodo, actor)
}

// CambiarPlan asienta una renovación con el plan nuevo y lo deja como
// plan vigente del atleta.
func (s *Service) CambiarPlan(atletaID, nuevoPlanID uint, metodo models.MetodoPago, actor *models.Usuario) (*models.Ingreso, error) {
	if err := s.autorizar(actor); err != nil {
		return nil, err
	}
	a, err := s.buscar(atletaID)
	if err != nil {
		return nil, err
	}
	plan, err := s.finanzas.PlanPorID(nuevoPlanID)
	if err != nil {
		return nil, err
	}
	if !plan.Activo {
		return nil, errores.DeValidacion("el plan elegido no está activo")
	}
	return s.renovarConPlan(a, nuevoPlanID, metodo, actor)
}

func (s *Service) renovarConPlan(a *models.Atleta, planID uint, metodo models.MetodoPago, actor *models.Usuario) (*models.Ingreso, error) {
	s.muCaja.Lock()
	defer s.muCaja.Unlock()

	var ingreso *models.Ingreso
	err := s.db.Transaction(func(tx *gorm.DB) error {
		i, err := s.finanzas.RegistrarRenovacionEn(tx, a.ID, planID, metodo, a.FechaVencimiento, actor, "")
		if err != nil {
			return err
		}
		hoy := s.hoy()
		a.PlanID = planID
		a.FechaVencimiento = *i.VencimientoNuevo
		a.UltimoPago = &hoy
		a.Solvencia = models.SolvenciaSolvente
		if err := s.repo.Guardar(tx, a); err != nil {
			log.Printf("atletas: error actualizando vencimiento de %d: %v", a.ID, err)
			return errores.InternoGenerico()
		}
		ingreso = i
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ingreso, nil
}

// Suspender es la única vía de entrada al estado suspendido; se levanta
// con la próxima renovación exitosa.
func (s *Service) Suspender(atletaID uint, actor *models.Usuario) error {
	if err := s.autorizar(actor); err != nil {
		return err
	}
	a, err := s.buscar(atletaID)
	if err != nil {
		return err
	}
	a.Solvencia = models.SolvenciaSuspendido
	if err := s.repo.Guardar(s.db, a); err != nil {
		log.Printf("atletas: error suspendiendo atleta %d: %v", atletaID, err)
		return errores.InternoGenerico()
	}
	return nil
}

// --- Consultas ---

func (s *Service) ListarTodos() ([]models.Atleta, error) {
	atletas, err := s.repo.ListarTodos(s.db)
	if err != nil {
		log.Printf("atletas: error listando: %v", err)
		return nil, errores.InternoGenerico()
	}
	s.derivarSolvencias(atletas)
	return atletas, nil
}

func (s *Service) PorID(id uint) (*models.Atleta, error) {
	a, err := s.buscar(id)
	if err != nil {
		return nil, err
	}
	a.Solvencia = a.SolvenciaCalculada(s.hoy())
	return a, nil
}

func (s *Service) PorCoach(coachID uint) ([]models.Atleta, error) {
	atletas, err := s.repo.ListarPorCoach(s.db, coachID)
	if err != nil {
		log.Printf("atletas: error listando por coach %d: %v", coachID, err)
		return nil, errores.InternoGenerico()
	}
	s.derivarSolvencias(atletas)
	return atletas, nil
}

// PorSolvencia filtra sobre el estado derivado, no sobre lo guardado: un
// solvente con la fecha vencida cuenta como vencido.
func (s *Service) PorSolvencia(estado models.Solvencia) ([]models.Atleta, error) {
	todos, err := s.ListarTodos()
	if err != nil {
		return nil, err
	}
	var filtrados []models.Atleta
	for _, a := range todos {
		if a.Solvencia == estado {
			filtrados = append(filtrados, a)
		}
	}
	return filtrados, nil
}

// PorVencer lista membresías vigentes que vencen dentro de n días.
func (s *Service) PorVencer(dias int) ([]models.Atleta, error) {
	if dias < 0 {
		return nil, errores.DeValidacion("la ventana de días no puede ser negativa")
	}
	hoy := s.hoy()
	atletas, err := s.repo.ListarPorVencer(s.db, hoy, models.SumarDias(hoy, dias))
	if err != nil {
		log.Printf("atletas: error listando por vencer: %v", err)
		return nil, errores.InternoGenerico()
	}
	return atletas, nil
}

// aplicarPago corre el vencimiento tras un asiento exitoso.
func (s *Service) aplicarPago(atletaID uint, ingreso *models.Ingreso) error {
	a, err := s.buscar(atletaID)
	if err != nil {
		return err
	}
	hoy := s.hoy()
	a.FechaVencimiento = *ingreso.VencimientoNuevo
	a.UltimoPago = &hoy
	a.Solvencia = models.SolvenciaSolvente
	if err := s.repo.Guardar(s.db, a); err != nil {
		log.Printf("atletas: error actualizando vencimiento de %d: %v", atletaID, err)
		return errores.InternoGenerico()
	}
	return nil
}

func (s *Service) derivarSolvencias(atletas []models.Atleta) {
	hoy := s.hoy()
	for i := range atletas {
		atletas[i].Solvencia = atletas[i].SolvenciaCalculada(hoy)
	}
}

func (s *Service) buscar(id uint) (*models.Atleta, error) {
	a, err := s.repo.BuscarPorID(s.db, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errores.Inexistente("atleta no encontrado")
		}
		log.Printf("atletas: error consultando atleta %d: %v", id, err)
		return nil, errores.InternoGenerico()
	}
	return a, nil
}

// edadEn calcula años cumplidos a la fecha dada.
func edadEn(nacimiento, hoy time.Time) int {
	edad := hoy.Year() - nacimiento.Year()
	if hoy.Month() < nacimiento.Month() ||
		(hoy.Month() == nacimiento.Month() && hoy.Day() < nacimiento.Day()) {
		edad--
	}
	return edad
}
