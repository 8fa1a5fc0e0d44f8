package utils

import (
	"crypto/rand"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

// HashContrasena genera un hash bcrypt para la contraseña indicada.
func HashContrasena(contrasena string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(contrasena), bcrypt.DefaultCost)
	return string(hash), err
}

// VerificarContrasena compara un hash bcrypt con la contraseña en texto plano.
func VerificarContrasena(hash, contrasena string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(contrasena))
	return err == nil
}

// GenerarContrasenaTemporal genera una contraseña aleatoria de 12 caracteres.
func GenerarContrasenaTemporal() (string, error) {
	const caracteres = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	resultado := make([]byte, 12)
	for i := range resultado {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(caracteres))))
		if err != nil {
			return "", err
		}
		resultado[i] = caracteres[n.Int64()]
	}
	return string(resultado), nil
}
