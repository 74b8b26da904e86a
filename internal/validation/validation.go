// Package validation contiene reglas de formato para input de clientes.
package validation

import (
	"regexp"
	"strings"
	"unicode"
)

// Email: local@dominio.tld, sin espacios, hasta 254 caracteres.
// No pretende cubrir RFC 5322; la unicidad la decide el store.
var emailRe = regexp.MustCompile(`^[A-Za-z0-9._%+\-']+@[A-Za-z0-9](?:[A-Za-z0-9\-]{0,61}[A-Za-z0-9])?(?:\.[A-Za-z0-9](?:[A-Za-z0-9\-]{0,61}[A-Za-z0-9])?)+$`)

// MaxNameLen aplica a nombres de rol, departamento y organización.
const MaxNameLen = 80

// ValidEmail reporta si s tiene forma de email.
func ValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	return len(s) <= 254 && emailRe.MatchString(s)
}

// ValidName acepta texto imprimible de 1..MaxNameLen runas tras el trim.
func ValidName(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	n := 0
	for _, r := range s {
		if !unicode.IsPrint(r) {
			return false
		}
		n++
	}
	return n <= MaxNameLen
}

// ValidImageRef acepta vacío, una URL http(s) o un data URI de imagen.
func ValidImageRef(s string) bool {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return true
	case strings.HasPrefix(s, "https://"), strings.HasPrefix(s, "http://"):
		return !strings.ContainsAny(s, " \t\r\n")
	case strings.HasPrefix(s, "data:image/"):
		return true
	}
	return false
}
