package coaches

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/simonpc147/gimnasio-athena/internal/auth"
	"github.com/simonpc147/gimnasio-athena/internal/errores"
	"github.com/simonpc147/gimnasio-athena/internal/models"
	"github.com/simonpc147/gimnasio-athena/internal/usuarios"
	"gorm.io/gorm"
)

// Service maneja el perfil de los coaches y el historial de asignaciones
// coach↔atleta. A lo sumo una asignación activa por atleta.
type Service struct {
	db       *gorm.DB
	repo     Repository
	usuarios *usuarios.Service
	ahora    func() time.Time
}

func NewService(db *gorm.DB, repo Repository, us *usuarios.Service, ahora func() time.Time) *Service {
	if ahora == nil {
		ahora = time.Now
	}
	return &Service{db: db, repo: repo, usuarios: us, ahora: ahora}
}

func (s *Service) autorizar(actor *models.Usuario) error {
	if actor == nil || !auth.Puede(actor.Rol, auth.OpGestionarCoaches) {
		return errores.NoAutorizado("gestión de coaches no permitida para el rol")
	}
	return nil
}

func (s *Service) hoy() time.Time {
	return models.SoloFecha(s.ahora())
}

// Registrar da de alta la cuenta y el perfil del coach en una sola
// transacción: o quedan los dos o no queda ninguno.
func (s *Service) Registrar(datosUsuario usuarios.DatosUsuario, perfil DatosCoach, actor *models.Usuario) (*ResultadoRegistro, error) {
	if err := s.autorizar(actor); err != nil {
		return nil, err
	}
	if perfil.Salario != nil && perfil.Salario.IsNegative() {
		return nil, errores.DeValidacion("el salario no puede ser negativo")
	}

	claveGenerada := ""
	if datosUsuario.Clave == "" {
		clave, err := auth.GenerarClaveTemporal(12)
		if err != nil {
			log.Printf("coaches: error generando clave temporal: %v", err)
			return nil, errores.InternoGenerico()
		}
		datosUsuario.Clave = clave
		claveGenerada = clave
	}
	datosUsuario.Rol = string(models.RolCoach)

	var resultado ResultadoRegistro
	err := s.db.Transaction(func(tx *gorm.DB) error {
		u, err := s.usuarios.CrearEn(tx, datosUsuario, actor.ID)
		if err != nil {
			return err
		}
		contratacion := s.hoy()
		if perfil.FechaContratacion != nil {
			contratacion = models.SoloFecha(*perfil.FechaContratacion)
		}
		c := &models.Coach{
			UsuarioID:         u.ID,
			Especialidades:    strings.TrimSpace(perfil.Especialidades),
			HorarioDisponible: perfil.HorarioDisponible,
			FechaContratacion: contratacion,
			Salario:           perfil.Salario,
		}
		if err := s.repo.Crear(tx, c); err != nil {
			log.Printf("coaches: error creando perfil: %v", err)
			return errores.InternoGenerico()
		}
		resultado = ResultadoRegistro{CoachID: c.ID, UsuarioID: u.ID, ClaveGenerada: claveGenerada}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resultado, nil
}

// ActualizarPerfil parchea el perfil laboral; el salario no baja de cero.
func (s *Service) ActualizarPerfil(id uint, patch ActualizarCoach, actor *models.Usuario) (*models.Coach, error) {
	if err := s.autorizar(actor); err != nil {
		return nil, err
	}
	c, err := s.buscar(id)
	if err != nil {
		return nil, err
	}
	if patch.Salario != nil {
		if patch.Salario.IsNegative() {
			return nil, errores.DeValidacion("el salario no puede ser negativo")
		}
		c.Salario = patch.Salario
	}
	if patch.Especialidades != nil {
		c.Especialidades = strings.TrimSpace(*patch.Especialidades)
	}
	if patch.HorarioDisponible != nil {
		c.HorarioDisponible = *patch.HorarioDisponible
	}
	if err := s.repo.Guardar(s.db, c); err != nil {
		log.Printf("coaches: error guardando perfil %d: %v", id, err)
		return nil, errores.InternoGenerico()
	}
	return c, nil
}

// AsignarAtleta crea la asignación activa. Si el atleta ya tiene una
// vigente es conflicto; primero hay que terminarla o usar Reasignar.
func (s *Service) AsignarAtleta(coachID, atletaID uint, actor *models.Usuario, notas string) (*models.AsignacionCoach, error) {
	if err := s.autorizar(actor); err != nil {
		return nil, err
	}
	return s.asignarEn(s.db, coachID, atletaID, notas)
}

// AsignarAtletaEn es la variante dentro de una transacción externa (la
// usa el servicio de atletas al cambiar el coach del perfil).
func (s *Service) AsignarAtletaEn(tx *gorm.DB, coachID, atletaID uint, notas string) (*models.AsignacionCoach, error) {
	return s.asignarEn(tx, coachID, atletaID, notas)
}

func (s *Service) asignarEn(db *gorm.DB, coachID, atletaID uint, notas string) (*models.AsignacionCoach, error) {
	if _, err := s.buscarEn(db, coachID); err != nil {
		return nil, err
	}
	if _, err := s.repo.AsignacionActivaDeAtleta(db, atletaID); err == nil {
		return nil, errores.DeConflicto("el atleta ya tiene una asignación activa")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("coaches: error consultando asignación activa: %v", err)
		return nil, errores.InternoGenerico()
	}

	a := &models.AsignacionCoach{
		CoachID:    coachID,
		AtletaID:   atletaID,
		AsignadaEl: s.hoy(),
		Activa:     true,
		Notas:      notas,
	}
	if err := s.repo.CrearAsignacion(db, a); err != nil {
		log.Printf("coaches: error creando asignación: %v", err)
		return nil, errores.InternoGenerico()
	}
	return a, nil
}

// TerminarAsignacion cierra una asignación activa y deja el motivo
// fechado en las notas. El historial nunca se borra.
func (s *Service) TerminarAsignacion(asignacionID uint, actor *models.Usuario, motivo string) error {
	if err := s.autorizar(actor); err != nil {
		return err
	}
	return s.terminarEn(s.db, asignacionID, motivo)
}

// TerminarAsignacionEn es la variante transaccional.
func (s *Service) TerminarAsignacionEn(tx *gorm.DB, asignacionID uint, motivo string) error {
	return s.terminarEn(tx, asignacionID, motivo)
}

func (s *Service) terminarEn(db *gorm.DB, asignacionID uint, motivo string) error {
	a, err := s.repo.BuscarAsignacion(db, asignacionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errores.Inexistente("asignación no encontrada")
		}
		log.Printf("coaches: error consultando asignación %d: %v", asignacionID, err)
		return errores.InternoGenerico()
	}
	if !a.Activa {
		return errores.DeConflicto("la asignación ya está terminada")
	}

	hoy := s.hoy()
	a.Activa = false
	a.TerminadaEl = &hoy
	if motivo != "" {
		nota := fmt.Sprintf("[%s] %s", hoy.Format("2006-01-02"), motivo)
		if a.Notas != "" {
			a.Notas += "\n"
		}
		a.Notas += nota
	}
	if err := s.repo.GuardarAsignacion(db, a); err != nil {
		log.Printf("coaches: error guardando asignación %d: %v", asignacionID, err)
		return errores.InternoGenerico()
	}
	return nil
}

// Reasignar termina la asignación vigente, si la hay, y abre la nueva en
// la misma transacción.
func (s *Service) Reasignar(atletaID, nuevoCoachID uint, actor *models.Usuario, motivo string) (*models.AsignacionCoach, error) {
	if err := s.autorizar(actor); err != nil {
		return nil, err
	}
	var nueva *models.AsignacionCoach
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if actual, err := s.repo.AsignacionActivaDeAtleta(tx, atletaID); err == nil {
			if err := s.terminarEn(tx, actual.ID, motivo); err != nil {
				return err
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("coaches: error consultando asignación activa: %v", err)
			return errores.InternoGenerico()
		}
		a, err := s.asignarEn(tx, nuevoCoachID, atletaID, "")
		if err != nil {
			return err
		}
		nueva = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return nueva, nil
}

// --- Consultas ---

func (s *Service) Listar() ([]models.Coach, error) {
	coaches, err := s.repo.ListarTodos(s.db)
	if err != nil {
		log.Printf("coaches: error listando: %v", err)
		return nil, errores.InternoGenerico()
	}
	return coaches, nil
}

func (s *Service) PorID(id uint) (*models.Coach, error) {
	return s.buscar(id)
}

// Disponibles filtra opcionalmente por subcadena de especialidad.
func (s *Service) Disponibles(especialidad string) ([]models.Coach, error) {
	if strings.TrimSpace(especialidad) == "" {
		return s.Listar()
	}
	coaches, err := s.repo.BuscarPorEspecialidad(s.db, especialidad)
	if err != nil {
		log.Printf("coaches: error buscando por especialidad: %v", err)
		return nil, errores.InternoGenerico()
	}
	return coaches, nil
}

// AtletasDe lista la cartera de un coach. Un coach solo puede consultar la
// propia; la administración consulta cualquiera.
func (s *Service) AtletasDe(coachID uint, soloActivas bool, actor *models.Usuario) ([]models.Atleta, error) {
	if actor == nil || !auth.Puede(actor.Rol, auth.OpAtletasPropios) {
		return nil, errores.NoAutorizado("consulta de atletas asignados no permitida para el rol")
	}
	if actor.Rol == models.RolCoach {
		propio, err := s.repo.BuscarPorUsuarioID(s.db, actor.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errores.NoAutorizado("el usuario no tiene perfil de coach")
			}
			log.Printf("coaches: error resolviendo perfil del usuario %d: %v", actor.ID, err)
			return nil, errores.InternoGenerico()
		}
		if propio.ID != coachID {
			return nil, errores.NoAutorizado("un coach solo puede consultar sus propios atletas")
		}
	}
	if _, err := s.buscar(coachID); err != nil {
		return nil, err
	}
	atletas, err := s.repo.AtletasDeCoach(s.db, coachID, soloActivas)
	if err != nil {
		log.Printf("coaches: error listando atletas del coach %d: %v", coachID, err)
		return nil, errores.InternoGenerico()
	}
	return atletas, nil
}

// AsignacionActivaDe busca la asignación vigente del atleta dentro de la
// transacción dada.
func (s *Service) AsignacionActivaDe(db *gorm.DB, atletaID uint) (*models.AsignacionCoach, error) {
	a, err := s.repo.AsignacionActivaDeAtleta(db, atletaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errores.Inexistente("el atleta no tiene coach asignado")
		}
		log.Printf("coaches: error consultando asignación activa: %v", err)
		return nil, errores.InternoGenerico()
	}
	return a, nil
}

func (s *Service) HistorialDeAtleta(atletaID uint) ([]models.AsignacionCoach, error) {
	historial, err := s.repo.HistorialDeAtleta(s.db, atletaID)
	if err != nil {
		log.Printf("coaches: error consultando historial del atleta %d: %v", atletaID, err)
		return nil, errores.InternoGenerico()
	}
	return historial, nil
}

// ReportePara resume la cartera de un coach: atletas actuales, total
// histórico y duración media de las asignaciones en días.
func (s *Service) ReportePara(coachID uint) (*ReporteCoach, error) {
	c, err := s.buscar(coachID)
	if err != nil {
		return nil, err
	}
	asignaciones, err := s.repo.AsignacionesDeCoach(s.db, coachID)
	if err != nil {
		log.Printf("coaches: error consultando asignaciones de %d: %v", coachID, err)
		return nil, errores.InternoGenerico()
	}

	hoy := s.hoy()
	actuales := 0
	var totalDias float64
	for _, a := range asignaciones {
		fin := hoy
		if a.TerminadaEl != nil {
			fin = models.SoloFecha(*a.TerminadaEl)
		} else if a.Activa {
			actuales++
		}
		totalDias += fin.Sub(models.SoloFecha(a.AsignadaEl)).Hours() / 24
	}
	media := 0.0
	if len(asignaciones) > 0 {
		media = totalDias / float64(len(asignaciones))
	}

	return &ReporteCoach{
		CoachID:           coachID,
		Nombre:            c.Usuario.Nombre + " " + c.Usuario.Apellido,
		AtletasActuales:   actuales,
		AtletasHistorico:  len(asignaciones),
		DuracionMediaDias: media,
	}, nil
}

// ResumenGlobal agrega el plantel: totales, salario promedio e histograma
// de especialidades (separadas por coma en el perfil).
func (s *Service) ResumenGlobal() (*ResumenGlobal, error) {
	coaches, err := s.repo.ListarTodos(s.db)
	if err != nil {
		log.Printf("coaches: error listando: %v", err)
		return nil, errores.InternoGenerico()
	}

	porEspecialidad := make(map[string]int)
	totalSalario := decimal.Zero
	conSalario := 0
	activas := 0
	for _, c := range coaches {
		if c.Salario != nil {
			totalSalario = totalSalario.Add(*c.Salario)
			conSalario++
		}
		for _, e := range strings.Split(c.Especialidades, ",") {
			e = strings.TrimSpace(strings.ToLower(e))
			if e != "" {
				porEspecialidad[e]++
			}
		}
		asignaciones, err := s.repo.AsignacionesDeCoach(s.db, c.ID)
		if err != nil {
			log.Printf("coaches: error consultando asignaciones de %d: %v", c.ID, err)
			return nil, errores.InternoGenerico()
		}
		for _, a := range asignaciones {
			if a.Activa {
				activas++
			}
		}
	}

	resumen := &ResumenGlobal{
		TotalCoaches:        len(coaches),
		PorEspecialidad:     porEspecialidad,
		AsignacionesActivas: activas,
	}
	if conSalario > 0 {
		promedio := totalSalario.Div(decimal.NewFromInt(int64(conSalario))).Round(2)
		resumen.SalarioPromedio = &promedio
	}
	return resumen, nil
}

func (s *Service) buscar(id uint) (*models.Coach, error) {
	return s.buscarEn(s.db, id)
}

func (s *Service) buscarEn(db *gorm.DB, id uint) (*models.Coach, error) {
	c, err := s.repo.BuscarPorID(db, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errores.Inexistente("coach no encontrado")
		}
		log.Printf("coaches: error consultando coach %d: %v", id, err)
		return nil, errores.InternoGenerico()
	}
	return c, nil
}
