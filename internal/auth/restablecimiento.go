package auth

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// VigenciaRestablecimiento es la vida útil de un token de restablecimiento
// de contraseña.
const VigenciaRestablecimiento = 30 * time.Minute

type entradaRestablecimiento struct {
	correo string
	expira time.Time
}

// AlmacenRestablecimiento guarda en memoria los tokens de restablecimiento
// vigentes. Es seguro para uso concurrente; cada token se consume una sola
// vez.
type AlmacenRestablecimiento struct {
	mu     sync.Mutex
	tokens map[string]entradaRestablecimiento
	ahora  func() time.Time
}

func NewAlmacenRestablecimiento() *AlmacenRestablecimiento {
	return &AlmacenRestablecimiento{
		tokens: make(map[string]entradaRestablecimiento),
		ahora:  time.Now,
	}
}

// Emitir genera un token nuevo asociado al correo indicado.
func (a *AlmacenRestablecimiento) Emitir(correo string, vigencia time.Duration) string {
	token := uuid.NewString()
	a.mu.Lock()
	defer a.mu.Unlock()
	a.tokens[token] = entradaRestablecimiento{correo: correo, expira: a.ahora().Add(vigencia)}
	return token
}

// Consumir devuelve el correo asociado al token y lo invalida. Un token
// expirado o desconocido devuelve falso.
func (a *AlmacenRestablecimiento) Consumir(token string) (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	entrada, ok := a.tokens[token]
	if !ok {
		return "", false
	}
	delete(a.tokens, token)
	if a.ahora().After(entrada.expira) {
		return "", false
	}
	return entrada.correo, true
}
