package tokens

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// MarkerBytes es la entropía del marcador de sesión.
const MarkerBytes = 32

// GenerateOpaqueToken genera un token opaco aleatorio (base64url sin padding).
func GenerateOpaqueToken(nBytes int) (string, error) {
	if nBytes <= 0 {
		return "", fmt.Errorf("invalid token size %d", nBytes)
	}
	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// NewRefreshMarker genera el marcador que se guarda en la cuenta al hacer login.
// Nunca es vacío: vacío significa sesión cerrada.
func NewRefreshMarker() (string, error) {
	return GenerateOpaqueToken(MarkerBytes)
}
