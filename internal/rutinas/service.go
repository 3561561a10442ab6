package rutinas

import (
	"errors"
	"log"
	"strings"

	"github.com/simonpc147/gimnasio-athena/internal/auth"
	"github.com/simonpc147/gimnasio-athena/internal/errores"
	"github.com/simonpc147/gimnasio-athena/internal/models"
	"gorm.io/gorm"
)

// Service administra el catálogo de ejercicios y las rutinas compuestas.
// Crean y editan los coaches y el admin principal; cualquier sesión
// válida puede consultar.
type Service struct {
	db   *gorm.DB
	repo Repository
}

func NewService(db *gorm.DB, repo Repository) *Service {
	return &Service{db: db, repo: repo}
}

func (s *Service) autorizar(actor *models.Usuario) error {
	if actor == nil || !auth.Puede(actor.Rol, auth.OpRutinasPropias) {
		return errores.NoAutorizado("gestión de rutinas no permitida para el rol")
	}
	return nil
}

// --- Rutinas ---

func (s *Service) CrearRutina(datos DatosRutina, actor *models.Usuario) (*models.Rutina, error) {
	if err := s.autorizar(actor); err != nil {
		return nil, err
	}
	if strings.TrimSpace(datos.Nombre) == "" {
		return nil, errores.DeValidacion("el nombre de la rutina es requerido")
	}
	if !datos.Nivel.EsValido() {
		return nil, errores.DeValidacion("nivel inválido: Principiante, Intermedio o Avanzado")
	}
	r := &models.Rutina{
		Nombre:      strings.TrimSpace(datos.Nombre),
		Nivel:       datos.Nivel,
		Descripcion: datos.Descripcion,
		CreadoPor:   actor.ID,
	}
	if err := s.repo.CrearRutina(s.db, r); err != nil {
		log.Printf("rutinas: error creando rutina: %v", err)
		return nil, errores.InternoGenerico()
	}
	return r, nil
}

func (s *Service) ActualizarRutina(id uint, patch ActualizarRutina, actor *models.Usuario) (*models.Rutina, error) {
	if err := s.autorizar(actor); err != nil {
		return nil, err
	}
	r, err := s.buscarRutina(id)
	if err != nil {
		return nil, err
	}
	if patch.Nombre != nil {
		if strings.TrimSpace(*patch.Nombre) == "" {
			return nil, errores.DeValidacion("el nombre de la rutina no puede quedar vacío")
		}
		r.Nombre = strings.TrimSpace(*patch.Nombre)
	}
	if patch.Nivel != nil {
		if !patch.Nivel.EsValido() {
			return nil, errores.DeValidacion("nivel inválido: Principiante, Intermedio o Avanzado")
		}
		r.Nivel = *patch.Nivel
	}
	if patch.Descripcion != nil {
		r.Descripcion = *patch.Descripcion
	}
	if err := s.repo.GuardarRutina(s.db, r); err != nil {
		log.Printf("rutinas: error guardando rutina %d: %v", id, err)
		return nil, errores.InternoGenerico()
	}
	return r, nil
}

func (s *Service) EliminarRutina(id uint, actor *models.Usuario) error {
	if err := s.autorizar(actor); err != nil {
		return err
	}
	if _, err := s.buscarRutina(id); err != nil {
		return err
	}
	if err := s.repo.EliminarRutina(s.db, id); err != nil {
		log.Printf("rutinas: error eliminando rutina %d: %v", id, err)
		return errores.InternoGenerico()
	}
	return nil
}

func (s *Service) ListarRutinas(nivel models.NivelRutina) ([]models.Rutina, error) {
	var (
		rutinas []models.Rutina
		err     error
	)
	if nivel == "" {
		rutinas, err = s.repo.ListarRutinas(s.db)
	} else {
		if !nivel.EsValido() {
			return nil, errores.DeValidacion("nivel inválido: Principiante, Intermedio o Avanzado")
		}
		rutinas, err = s.repo.ListarRutinasPorNivel(s.db, nivel)
	}
	if err != nil {
		log.Printf("rutinas: error listando rutinas: %v", err)
		return nil, errores.InternoGenerico()
	}
	return rutinas, nil
}

// RutinaCompleta devuelve la rutina con su composición ordenada por orden.
func (s *Service) RutinaCompleta(id uint) (*models.Rutina, error) {
	r, err := s.repo.RutinaConEjercicios(s.db, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errores.Inexistente("rutina no encontrada")
		}
		log.Printf("rutinas: error consultando rutina %d: %v", id, err)
		return nil, errores.InternoGenerico()
	}
	return r, nil
}

// ContarEjercicios devuelve cuántos ejercicios componen la rutina.
func (s *Service) ContarEjercicios(rutinaID uint) (int64, error) {
	if _, err := s.buscarRutina(rutinaID); err != nil {
		return 0, err
	}
	n, err := s.repo.ContarEjerciciosDeRutina(s.db, rutinaID)
	if err != nil {
		log.Printf("rutinas: error contando ejercicios de la rutina %d: %v", rutinaID, err)
		return 0, errores.InternoGenerico()
	}
	return n, nil
}

// --- Ejercicios ---

func (s *Service) CrearEjercicio(datos DatosEjercicio, actor *models.Usuario) (*models.Ejercicio, error) {
	if err := s.autorizar(actor); err != nil {
		return nil, err
	}
	if strings.TrimSpace(datos.Nombre) == "" {
		return nil, errores.DeValidacion("el nombre del ejercicio es requerido")
	}
	if !datos.Tipo.EsValido() {
		return nil, errores.DeValidacion("tipo inválido: Fuerza, Cardio o Flexibilidad")
	}
	e := &models.Ejercicio{
		Nombre:        strings.TrimSpace(datos.Nombre),
		Tipo:          datos.Tipo,
		Descripcion:   datos.Descripcion,
		Instrucciones: datos.Instrucciones,
	}
	if err := s.repo.CrearEjercicio(s.db, e); err != nil {
		log.Printf("rutinas: error creando ejercicio: %v", err)
		return nil, errores.InternoGenerico()
	}
	return e, nil
}

func (s *Service) ActualizarEjercicio(id uint, patch ActualizarEjercicio, actor *models.Usuario) (*models.Ejercicio, error) {
	if err := s.autorizar(actor); err != nil {
		return nil, err
	}
	e, err := s.buscarEjercicio(id)
	if err != nil {
		return nil, err
	}
	if patch.Nombre != nil {
		if strings.TrimSpace(*patch.Nombre) == "" {
			return nil, errores.DeValidacion("el nombre del ejercicio no puede quedar vacío")
		}
		e.Nombre = strings.TrimSpace(*patch.Nombre)
	}
	if patch.Tipo != nil {
		if !patch.Tipo.EsValido() {
			return nil, errores.DeValidacion("tipo inválido: Fuerza, Cardio o Flexibilidad")
		}
		e.Tipo = *patch.Tipo
	}
	if patch.Descripcion != nil {
		e.Descripcion = *patch.Descripcion
	}
	if patch.Instrucciones != nil {
		e.Instrucciones = *patch.Instrucciones
	}
	if err := s.repo.GuardarEjercicio(s.db, e); err != nil {
		log.Printf("rutinas: error guardando ejercicio %d: %v", id, err)
		return nil, errores.InternoGenerico()
	}
	return e, nil
}

func (s *Service) ListarEjercicios(tipo models.TipoEjercicio) ([]models.Ejercicio, error) {
	var (
		ejercicios []models.Ejercicio
		err        error
	)
	if tipo == "" {
		ejercicios, err = s.repo.ListarEjercicios(s.db)
	} else {
		if !tipo.EsValido() {
			return nil, errores.DeValidacion("tipo inválido: Fuerza, Cardio o Flexibilidad")
		}
		ejercicios, err = s.repo.ListarEjerciciosPorTipo(s.db, tipo)
	}
	if err != nil {
		log.Printf("rutinas: error listando ejercicios: %v", err)
		return nil, errores.InternoGenerico()
	}
	return ejercicios, nil
}

func (s *Service) EjercicioPorID(id uint) (*models.Ejercicio, error) {
	return s.buscarEjercicio(id)
}

// EliminarEjercicio rechaza borrar un ejercicio todavía referenciado por
// alguna rutina.
func (s *Service) EliminarEjercicio(id uint, actor *models.Usuario) error {
	if err := s.autorizar(actor); err != nil {
		return err
	}
	if _, err := s.buscarEjercicio(id); err != nil {
		return err
	}
	n, err := s.repo.ContarComposicionesDeEjercicio(s.db, id)
	if err != nil {
		log.Printf("rutinas: error contando usos del ejercicio %d: %v", id, err)
		return errores.InternoGenerico()
	}
	if n > 0 {
		return errores.DeConflicto("el ejercicio está en uso por alguna rutina")
	}
	if err := s.repo.EliminarEjercicio(s.db, id); err != nil {
		log.Printf("rutinas: error eliminando ejercicio %d: %v", id, err)
		return errores.InternoGenerico()
	}
	return nil
}

// --- Composición ---

// AdjuntarEjercicio agrega un ejercicio del catálogo a la rutina con su
// dosis: series y rondas positivas, orden desde 1.
func (s *Service) AdjuntarEjercicio(rutinaID uint, datos DatosComposicion, actor *models.Usuario) (*models.RutinaEjercicio, error) {
	if err := s.autorizar(actor); err != nil {
		return nil, err
	}
	r, err := s.buscarRutina(rutinaID)
	if err != nil {
		return nil, err
	}
	if _, err := s.buscarEjercicio(datos.EjercicioID); err != nil {
		return nil, err
	}
	if datos.Series <= 0 || datos.Rondas <= 0 {
		return nil, errores.DeValidacion("series y rondas deben ser positivas")
	}
	if datos.Orden < 1 {
		return nil, errores.DeValidacion("el orden empieza en 1")
	}
	if _, err := s.repo.BuscarComposicion(s.db, rutinaID, datos.EjercicioID); err == nil {
		return nil, errores.DeConflicto("el ejercicio ya está en la rutina")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("rutinas: error consultando composición: %v", err)
		return nil, errores.InternoGenerico()
	}
	nivel := datos.Nivel
	if nivel == "" {
		nivel = r.Nivel
	}
	if !nivel.EsValido() {
		return nil, errores.DeValidacion("nivel inválido: Principiante, Intermedio o Avanzado")
	}
	re := &models.RutinaEjercicio{
		RutinaID:    rutinaID,
		EjercicioID: datos.EjercicioID,
		Nivel:       nivel,
		Series:      datos.Series,
		Rondas:      datos.Rondas,
		Orden:       datos.Orden,
	}
	if err := s.repo.CrearComposicion(s.db, re); err != nil {
		log.Printf("rutinas: error adjuntando ejercicio %d a rutina %d: %v", datos.EjercicioID, rutinaID, err)
		return nil, errores.InternoGenerico()
	}
	return re, nil
}

func (s *Service) QuitarEjercicio(rutinaID, ejercicioID uint, actor *models.Usuario) error {
	if err := s.autorizar(actor); err != nil {
		return err
	}
	if _, err := s.repo.BuscarComposicion(s.db, rutinaID, ejercicioID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errores.Inexistente("el ejercicio no está en la rutina")
		}
		log.Printf("rutinas: error consultando composición: %v", err)
		return errores.InternoGenerico()
	}
	if err := s.repo.EliminarComposicion(s.db, rutinaID, ejercicioID); err != nil {
		log.Printf("rutinas: error quitando ejercicio %d de rutina %d: %v", ejercicioID, rutinaID, err)
		return errores.InternoGenerico()
	}
	return nil
}

func (s *Service) buscarRutina(id uint) (*models.Rutina, error) {
	r, err := s.repo.BuscarRutina(s.db, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errores.Inexistente("rutina no encontrada")
		}
		log.Printf("rutinas: error consultando rutina %d: %v", id, err)
		return nil, errores.InternoGenerico()
	}
	return r, nil
}

func (s *Service) buscarEjercicio(id uint) (*models.Ejercicio, error) {
	e, err := s.repo.BuscarEjercicio(s.db, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errores.Inexistente("ejercicio no encontrado")
		}
		log.Printf("rutinas: error consultando ejercicio %d: %v", id, err)
		return nil, errores.InternoGenerico()
	}
	return e, nil
}
