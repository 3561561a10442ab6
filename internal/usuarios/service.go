package usuarios

import (
	"errors"
	"log"
	"strings"

	"github.com/simonpc147/gimnasio-athena/internal/auth"
	"github.com/simonpc147/gimnasio-athena/internal/errores"
	"github.com/simonpc147/gimnasio-athena/internal/models"
	"gorm.io/gorm"
)

// Service maneja el ciclo de vida de los usuarios. La autorización se
// chequea acá, antes de cualquier escritura.
type Service struct {
	db   *gorm.DB
	repo Repository
}

func NewService(db *gorm.DB, repo Repository) *Service {
	return &Service{db: db, repo: repo}
}

// Crear da de alta un usuario con el rol pedido. El admin principal puede
// crear cualquier rol; la secretaría solo coaches y atletas.
func (s *Service) Crear(datos DatosUsuario, actor *models.Usuario) (*models.Usuario, error) {
	rol := models.NormalizarRol(datos.Rol)
	if actor == nil || !auth.PuedeCrearRol(actor.Rol, rol) {
		return nil, errores.NoAutorizado("no puede crear usuarios con ese rol")
	}
	return s.CrearEn(s.db, datos, actor.ID)
}

// CrearEn inserta el usuario usando el handle dado, que puede ser una
// transacción de una operación compuesta (alta de atleta o de coach).
// La autorización es responsabilidad del llamador.
func (s *Service) CrearEn(db *gorm.DB, datos DatosUsuario, creadoPor uint) (*models.Usuario, error) {
	rol := models.NormalizarRol(datos.Rol)
	if !rol.EsValido() {
		return nil, errores.DeValidacion("rol desconocido")
	}
	if strings.TrimSpace(datos.Nombre) == "" || strings.TrimSpace(datos.Apellido) == "" {
		return nil, errores.DeValidacion("nombre y apellido son requeridos")
	}
	if datos.Clave == "" {
		return nil, errores.DeValidacion("la clave es requerida")
	}
	correo := models.NormalizarCorreo(datos.Correo)
	if correo == "" || !strings.Contains(correo, "@") {
		return nil, errores.DeValidacion("correo inválido")
	}

	if _, err := s.repo.BuscarPorCorreo(db, correo); err == nil {
		return nil, errores.DeValidacion("ya existe un usuario con ese correo")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("usuarios: error consultando correo: %v", err)
		return nil, errores.InternoGenerico()
	}

	hash, err := auth.HashClave(datos.Clave)
	if err != nil {
		log.Printf("usuarios: error generando hash: %v", err)
		return nil, errores.InternoGenerico()
	}

	u := &models.Usuario{
		Nombre:    strings.TrimSpace(datos.Nombre),
		Apellido:  strings.TrimSpace(datos.Apellido),
		Correo:    correo,
		ClaveHash: hash,
		Rol:       rol,
		Activo:    true,
		Edad:      datos.Edad,
		Direccion: datos.Direccion,
		Telefono:  datos.Telefono,
	}
	if creadoPor != 0 {
		u.CreadoPor = &creadoPor
	}
	if err := s.repo.Crear(db, u); err != nil {
		log.Printf("usuarios: error creando usuario: %v", err)
		return nil, errores.InternoGenerico()
	}
	return u, nil
}

// Actualizar pisa el parche sobre el registro actual. La clave se vuelve
// a hashear solo si viene no vacía; vacía conserva el hash existente.
func (s *Service) Actualizar(id uint, patch ActualizarUsuario, actor *models.Usuario) (*models.Usuario, error) {
	existente, err := s.buscar(id)
	if err != nil {
		return nil, err
	}
	if !auth.PuedeEditarUsuario(actor, existente) {
		return nil, errores.NoAutorizado("no puede editar este usuario")
	}

	if patch.Nombre != nil {
		existente.Nombre = strings.TrimSpace(*patch.Nombre)
	}
	if patch.Apellido != nil {
		existente.Apellido = strings.TrimSpace(*patch.Apellido)
	}
	if patch.Correo != nil {
		correo := models.NormalizarCorreo(*patch.Correo)
		if !strings.Contains(correo, "@") {
			return nil, errores.DeValidacion("correo inválido")
		}
		if correo != existente.Correo {
			if otro, err := s.repo.BuscarPorCorreo(s.db, correo); err == nil && otro.ID != id {
				return nil, errores.DeValidacion("ya existe un usuario con ese correo")
			}
			existente.Correo = correo
		}
	}
	if patch.Clave != nil && *patch.Clave != "" {
		hash, err := auth.HashClave(*patch.Clave)
		if err != nil {
			log.Printf("usuarios: error generando hash: %v", err)
			return nil, errores.InternoGenerico()
		}
		existente.ClaveHash = hash
	}
	if patch.Edad != nil {
		existente.Edad = patch.Edad
	}
	if patch.Direccion != nil {
		existente.Direccion = *patch.Direccion
	}
	if patch.Telefono != nil {
		existente.Telefono = *patch.Telefono
	}

	if err := s.repo.Guardar(s.db, existente); err != nil {
		log.Printf("usuarios: error guardando usuario %d: %v", id, err)
		return nil, errores.InternoGenerico()
	}
	return existente, nil
}

// Desactivar apaga la cuenta sin borrarla; es la salida preferida frente
// al borrado duro.
func (s *Service) Desactivar(id uint, actor *models.Usuario) error {
	existente, err := s.buscar(id)
	if err != nil {
		return err
	}
	if !auth.PuedeEditarUsuario(actor, existente) {
		return errores.NoAutorizado("no puede editar este usuario")
	}
	existente.Activo = false
	if err := s.repo.Guardar(s.db, existente); err != nil {
		log.Printf("usuarios: error desactivando usuario %d: %v", id, err)
		return errores.InternoGenerico()
	}
	return nil
}

// Eliminar hace borrado duro; reservado al admin principal.
func (s *Service) Eliminar(id uint, actor *models.Usuario) error {
	if actor == nil || !auth.Puede(actor.Rol, auth.OpGestionarUsuarios) {
		return errores.NoAutorizado("solo el admin principal elimina usuarios")
	}
	if _, err := s.buscar(id); err != nil {
		return err
	}
	if err := s.repo.Eliminar(s.db, id); err != nil {
		log.Printf("usuarios: error eliminando usuario %d: %v", id, err)
		return errores.InternoGenerico()
	}
	return nil
}

// EliminarEn borra el usuario usando el handle dado; lo usan las
// operaciones compuestas (baja de atleta) dentro de su transacción. La
// autorización es responsabilidad del llamador.
func (s *Service) EliminarEn(db *gorm.DB, id uint) error {
	return s.repo.Eliminar(db, id)
}

// CambiarClave permite a cualquier autenticado cambiar su propia clave,
// verificando antes la vigente.
func (s *Service) CambiarClave(id uint, claveActual, claveNueva string, actor *models.Usuario) error {
	if actor == nil || actor.ID != id {
		return errores.NoAutorizado("solo puede cambiar su propia clave")
	}
	if claveNueva == "" {
		return errores.DeValidacion("la clave nueva es requerida")
	}
	existente, err := s.buscar(id)
	if err != nil {
		return err
	}
	if !auth.VerificarClave(existente.ClaveHash, claveActual) {
		return errores.DeValidacion("la clave actual no coincide")
	}
	hash, err := auth.HashClave(claveNueva)
	if err != nil {
		log.Printf("usuarios: error generando hash: %v", err)
		return errores.InternoGenerico()
	}
	existente.ClaveHash = hash
	if err := s.repo.Guardar(s.db, existente); err != nil {
		log.Printf("usuarios: error guardando clave de %d: %v", id, err)
		return errores.InternoGenerico()
	}
	return nil
}

// Autenticar resuelve credenciales para el manager de sesiones. El mensaje
// no distingue correo inexistente de clave errada.
func (s *Service) Autenticar(correo, clave string) (*models.Usuario, error) {
	u, err := s.repo.BuscarPorCorreo(s.db, correo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errores.NoAutorizado("credenciales inválidas")
		}
		log.Printf("usuarios: error consultando correo: %v", err)
		return nil, errores.InternoGenerico()
	}
	if !auth.VerificarClave(u.ClaveHash, clave) {
		return nil, errores.NoAutorizado("credenciales inválidas")
	}
	if !u.Activo {
		return nil, errores.NoAutorizado("usuario desactivado")
	}
	return u, nil
}

// BuscarActivo reconsulta el estado del usuario para la revisión
// periódica de sesiones.
func (s *Service) BuscarActivo(id uint) (*models.Usuario, error) {
	return s.buscar(id)
}

// BuscarPorID aplica la misma regla de visibilidad que la edición.
func (s *Service) BuscarPorID(id uint, actor *models.Usuario) (*models.Usuario, error) {
	u, err := s.buscar(id)
	if err != nil {
		return nil, err
	}
	if !auth.PuedeEditarUsuario(actor, u) {
		return nil, errores.NoAutorizado("no puede ver este usuario")
	}
	return u, nil
}

// ListarTodos es parte de la gestión de usuarios del admin.
func (s *Service) ListarTodos(actor *models.Usuario) ([]models.Usuario, error) {
	if actor == nil || !auth.Puede(actor.Rol, auth.OpGestionarUsuarios) {
		return nil, errores.NoAutorizado("operación no permitida para el rol")
	}
	lista, err := s.repo.ListarTodos(s.db)
	if err != nil {
		log.Printf("usuarios: error listando: %v", err)
		return nil, errores.InternoGenerico()
	}
	return lista, nil
}

func (s *Service) buscar(id uint) (*models.Usuario, error) {
	u, err := s.repo.BuscarPorID(s.db, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errores.Inexistente("usuario no encontrado")
		}
		log.Printf("usuarios: error consultando usuario %d: %v", id, err)
		return nil, errores.InternoGenerico()
	}
	return u, nil
}
