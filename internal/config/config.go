package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config agrupa los parámetros leídos una sola vez al arranque.
type Config struct {
	ServerAddr string

	DBHost     string
	DBPort     uint
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLOff   bool

	// Parámetros de sesión y bloqueo por intentos fallidos.
	SesionInactividad time.Duration
	BloqueoVentana    time.Duration
	BloqueoUmbral     int

	// Credenciales del admin inicial cuando la tabla de usuarios está vacía.
	AdminCorreo string
	AdminClave  string
}

// Cargar lee .env si existe y después el ambiente. Los valores de sesión
// tienen los defaults del protocolo: 3600 s de inactividad, ventana de
// 300 s y umbral de 5 fallos.
func Cargar() Config {
	// .env es opcional; en producción las variables vienen del ambiente.
	_ = godotenv.Load()

	cfg := Config{
		ServerAddr:        valor("SERVER_ADDR", ":8080"),
		DBHost:            valor("DB_HOST", "localhost"),
		DBPort:            uint(entero("DB_PORT", 5432)),
		DBUser:            valor("DB_USER", "postgres"),
		DBPassword:        os.Getenv("DB_PASSWORD"),
		DBName:            valor("DB_NAME", "athena"),
		DBSSLOff:          os.Getenv("DB_SSL_MODE_DISABLE") == "true",
		SesionInactividad: time.Duration(entero("SESSION_IDLE_TIMEOUT", 3600)) * time.Second,
		BloqueoVentana:    time.Duration(entero("LOCKOUT_WINDOW", 300)) * time.Second,
		BloqueoUmbral:     entero("LOCKOUT_THRESHOLD", 5),
		AdminCorreo:       valor("ADMIN_CORREO", "admin@athena.local"),
		AdminClave:        os.Getenv("ADMIN_CLAVE"),
	}
	return cfg
}

func valor(clave, porDefecto string) string {
	if v := os.Getenv(clave); v != "" {
		return v
	}
	return porDefecto
}

func entero(clave string, porDefecto int) int {
	v := os.Getenv(clave)
	if v == "" {
		return porDefecto
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return porDefecto
	}
	return n
}
