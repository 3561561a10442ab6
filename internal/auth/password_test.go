package auth

import (
	"strings"
	"testing"
)

func TestHashYVerificarClave(t *testing.T) {
	hash, err := HashClave("secreta123")
	if err != nil {
		t.Fatalf("HashClave: %v", err)
	}
	if hash == "secreta123" {
		t.Fatal("el hash no puede ser la clave en claro")
	}
	if !VerificarClave(hash, "secreta123") {
		t.Error("la clave correcta no verificó")
	}
	if VerificarClave(hash, "otra") {
		t.Error("una clave incorrecta verificó")
	}
}

func TestNuevoTokenEsUnico(t *testing.T) {
	vistos := make(map[string]bool)
	for i := 0; i < 50; i++ {
		token, err := NuevoToken()
		if err != nil {
			t.Fatalf("NuevoToken: %v", err)
		}
		if token == "" {
			t.Fatal("token vacío")
		}
		if vistos[token] {
			t.Fatalf("token repetido: %s", token)
		}
		vistos[token] = true
	}
}

func TestGenerarClaveTemporal(t *testing.T) {
	clave, err := GenerarClaveTemporal(12)
	if err != nil {
		t.Fatalf("GenerarClaveTemporal: %v", err)
	}
	if len(clave) != 12 {
		t.Errorf("largo = %d, quiero 12", len(clave))
	}
	const alfabeto = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	for _, c := range clave {
		if !strings.ContainsRune(alfabeto, c) {
			t.Errorf("carácter fuera del alfabeto: %q", c)
		}
	}
}
