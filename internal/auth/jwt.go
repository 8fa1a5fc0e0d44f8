package auth

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrSecretoFaltante = errors.New("JWT_SECRET no definida")

type Claims struct {
	UsuarioID uint   `json:"usuarioId"`
	Correo    string `json:"correo"`
	jwt.RegisteredClaims
}

// Vigencia del token de sesión. No hay mecanismo de refresco: al expirar
// se vuelve al login.
const VigenciaToken = 24 * time.Hour

func secreto() ([]byte, error) {
	s := os.Getenv("JWT_SECRET")
	if s == "" {
		return nil, ErrSecretoFaltante
	}
	return []byte(s), nil
}

// GenerarToken emite un JWT HS256 con validez de 24h.
func GenerarToken(usuarioID uint, correo string) (string, error) {
	clave, err := secreto()
	if err != nil {
		return "", err
	}
	claims := &Claims{
		UsuarioID: usuarioID,
		Correo:    correo,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(usuarioID),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(VigenciaToken)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(clave)
}

// ValidarToken valida firma y vigencia y devuelve las claims.
func ValidarToken(tokenStr string) (*Claims, error) {
	clave, err := secreto()
	if err != nil {
		return nil, err
	}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{"HS256"}))
	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return clave, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("token inválido o expirado: %w", err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, errors.New("no fue posible extraer las claims")
	}
	return claims, nil
}
