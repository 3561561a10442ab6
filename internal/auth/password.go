package auth

import (
	"crypto/rand"
	"encoding/base64"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

// HashClave genera un hash bcrypt para la clave informada.
func HashClave(clave string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(clave), bcrypt.DefaultCost)
	return string(hash), err
}

// VerificarClave compara el hash bcrypt con la clave en texto puro.
// La comparación interna de bcrypt es de tiempo constante.
func VerificarClave(hash, clave string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(clave))
	return err == nil
}

// NuevoToken devuelve 32 bytes aleatorios en texto URL-safe. La unicidad
// por proceso la garantiza la entropía; una colisión se ignora.
func NuevoToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// GenerarClaveTemporal genera una clave aleatoria de n caracteres sobre
// [A-Za-z0-9], con sorteo uniforme.
func GenerarClaveTemporal(n int) (string, error) {
	const caracteres = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	if n <= 0 {
		n = 12
	}
	resultado := make([]byte, n)
	for i := 0; i < n; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(caracteres))))
		if err != nil {
			return "", err
		}
		resultado[i] = caracteres[num.Int64()]
	}
	return string(resultado), nil
}
