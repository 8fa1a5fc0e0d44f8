package auth

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey string

const (
	CtxUsuarioID ctxKey = "usuarioID"
	CtxCorreo    ctxKey = "correo"
)

// MiddlewareAutenticacion exige un Bearer token válido y deja el usuario
// en el contexto de la petición.
func MiddlewareAutenticacion(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		encabezado := r.Header.Get("Authorization")
		if encabezado == "" || !strings.HasPrefix(encabezado, "Bearer ") {
			http.Error(w, "token ausente", http.StatusUnauthorized)
			return
		}
		claims, err := ValidarToken(strings.TrimPrefix(encabezado, "Bearer "))
		if err != nil {
			http.Error(w, "token inválido", http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), CtxUsuarioID, claims.UsuarioID)
		ctx = context.WithValue(ctx, CtxCorreo, claims.Correo)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
