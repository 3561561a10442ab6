package auth

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/simonpc147/gimnasio-athena/internal/errores"
	"github.com/simonpc147/gimnasio-athena/internal/models"
)

// revisionInactivo es cada cuánto se vuelve a consultar la base para
// detectar usuarios desactivados con sesión abierta.
const revisionInactivo = time.Minute

// UsuarioSesion es la foto chica del usuario que viaja con la sesión.
type UsuarioSesion struct {
	ID       uint       `json:"id"`
	Nombre   string     `json:"nombre"`
	Apellido string     `json:"apellido"`
	Correo   string     `json:"correo"`
	Rol      models.Rol `json:"rol"`
}

// Sesion es una entrada de la tabla de sesiones en memoria.
type Sesion struct {
	Token          string        `json:"token"`
	Usuario        UsuarioSesion `json:"usuario"`
	InicioEl       time.Time     `json:"inicioEl"`
	UltimoUso      time.Time     `json:"ultimoUso"`
	Origen         string        `json:"origen"`
	ultimaRevision time.Time
}

// Autenticador resuelve credenciales contra la tabla de usuarios. Lo
// implementa el servicio de usuarios; el manager no toca la base directo.
type Autenticador interface {
	Autenticar(correo, clave string) (*models.Usuario, error)
	BuscarActivo(id uint) (*models.Usuario, error)
}

// Opciones parametriza tiempos de sesión y bloqueo. Ahora es inyectable
// para poder probar expiración y bloqueo con reloj simulado.
type Opciones struct {
	Inactividad    time.Duration
	VentanaBloqueo time.Duration
	UmbralBloqueo  int
	Ahora          func() time.Time
}

type registroFallos struct {
	cuenta      int
	ultimoFallo time.Time
}

// Manager es el dueño exclusivo de la tabla de sesiones y de los
// contadores de intentos fallidos por origen. Toda mutación pasa por el
// mutex único.
type Manager struct {
	mu       sync.Mutex
	sesiones map[string]*Sesion
	fallos   map[string]*registroFallos
	usuarios Autenticador
	op       Opciones
}

// NewManager arma el manager con los defaults del protocolo cuando las
// opciones vienen en cero.
func NewManager(usuarios Autenticador, op Opciones) *Manager {
	if op.Inactividad <= 0 {
		op.Inactividad = time.Hour
	}
	if op.VentanaBloqueo <= 0 {
		op.VentanaBloqueo = 5 * time.Minute
	}
	if op.UmbralBloqueo <= 0 {
		op.UmbralBloqueo = 5
	}
	if op.Ahora == nil {
		op.Ahora = time.Now
	}
	return &Manager{
		sesiones: make(map[string]*Sesion),
		fallos:   make(map[string]*registroFallos),
		usuarios: usuarios,
		op:       op,
	}
}

// IniciarSesion valida credenciales y abre una sesión. El mensaje de
// falla nunca dice si lo incorrecto fue el correo o la clave.
func (m *Manager) IniciarSesion(correo, clave, origen string) (string, *UsuarioSesion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if restante, bloqueado := m.bloqueadoLocked(origen); bloqueado {
		minutos := int(restante.Minutes())
		if restante > time.Duration(minutos)*time.Minute {
			minutos++
		}
		return "", nil, errores.NoAutorizado(
			fmt.Sprintf("bloqueado por intentos fallidos, intente en %d minutos", minutos))
	}

	if correo == "" || clave == "" {
		return "", nil, errores.DeValidacion("correo y clave son requeridos")
	}

	usuario, err := m.usuarios.Autenticar(correo, clave)
	if err != nil {
		// Una falla de infraestructura no es un intento malicioso y no
		// debe acercar al origen al bloqueo.
		if !errores.Es(err, errores.Interno) {
			m.registrarFalloLocked(origen)
		}
		return "", nil, err
	}

	token, err := NuevoToken()
	if err != nil {
		log.Printf("sesiones: no se pudo generar token: %v", err)
		return "", nil, errores.InternoGenerico()
	}

	ahora := m.op.Ahora()
	sesion := &Sesion{
		Token: token,
		Usuario: UsuarioSesion{
			ID:       usuario.ID,
			Nombre:   usuario.Nombre,
			Apellido: usuario.Apellido,
			Correo:   usuario.Correo,
			Rol:      usuario.Rol,
		},
		InicioEl:       ahora,
		UltimoUso:      ahora,
		Origen:         origen,
		ultimaRevision: ahora,
	}
	m.sesiones[token] = sesion
	delete(m.fallos, origen)

	u := sesion.Usuario
	return token, &u, nil
}

// Validar resuelve un token a su usuario. Expira por inactividad y cada
// tanto vuelve a chequear que el usuario siga activo en la base.
func (m *Manager) Validar(token string) (*UsuarioSesion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.validarLocked(token)
}

func (m *Manager) validarLocked(token string) (*UsuarioSesion, error) {
	sesion, ok := m.sesiones[token]
	if !ok {
		return nil, errores.NoAutorizado("sesión inválida")
	}

	ahora := m.op.Ahora()
	if ahora.Sub(sesion.UltimoUso) > m.op.Inactividad {
		delete(m.sesiones, token)
		return nil, errores.NoAutorizado("sesión expirada por inactividad")
	}

	if ahora.Sub(sesion.ultimaRevision) > revisionInactivo {
		usuario, err := m.usuarios.BuscarActivo(sesion.Usuario.ID)
		if err != nil || !usuario.Activo {
			delete(m.sesiones, token)
			return nil, errores.NoAutorizado("sesión inválida")
		}
		sesion.Usuario.Rol = usuario.Rol
		sesion.ultimaRevision = ahora
	}

	sesion.UltimoUso = ahora
	u := sesion.Usuario
	return &u, nil
}

// Extender refresca el último uso del token; mismo contrato que Validar.
func (m *Manager) Extender(token string) (*UsuarioSesion, error) {
	return m.Validar(token)
}

// CerrarSesion elimina el token de la tabla. Cerrar una sesión ya cerrada
// no es error.
func (m *Manager) CerrarSesion(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sesiones, token)
}

// CerrarTodasDe corta todas las sesiones de un usuario (logout forzado).
func (m *Manager) CerrarTodasDe(usuarioID uint) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	cerradas := 0
	for token, s := range m.sesiones {
		if s.Usuario.ID == usuarioID {
			delete(m.sesiones, token)
			cerradas++
		}
	}
	return cerradas
}

// SesionesActivas devuelve copias de la tabla para el registro del admin.
func (m *Manager) SesionesActivas() []Sesion {
	m.mu.Lock()
	defer m.mu.Unlock()
	activas := make([]Sesion, 0, len(m.sesiones))
	for _, s := range m.sesiones {
		activas = append(activas, *s)
	}
	return activas
}

// EstaBloqueado informa si un origen tiene el login bloqueado y cuánto
// falta para que libere.
func (m *Manager) EstaBloqueado(origen string) (time.Duration, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bloqueadoLocked(origen)
}

func (m *Manager) bloqueadoLocked(origen string) (time.Duration, bool) {
	reg, ok := m.fallos[origen]
	if !ok || reg.cuenta < m.op.UmbralBloqueo {
		return 0, false
	}
	transcurrido := m.op.Ahora().Sub(reg.ultimoFallo)
	if transcurrido >= m.op.VentanaBloqueo {
		// La ventana venció: el contador arranca de cero.
		delete(m.fallos, origen)
		return 0, false
	}
	return m.op.VentanaBloqueo - transcurrido, true
}

func (m *Manager) registrarFalloLocked(origen string) {
	reg, ok := m.fallos[origen]
	if !ok {
		reg = &registroFallos{}
		m.fallos[origen] = reg
	}
	reg.cuenta++
	reg.ultimoFallo = m.op.Ahora()
}
