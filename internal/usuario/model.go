package usuario

import "gorm.io/gorm"

// Usuario es la cuenta del operador que administra el sistema.
type Usuario struct {
	gorm.Model
	Nombre     string `json:"nombre"`
	Correo     string `json:"correo" gorm:"unique"`
	Contrasena string `json:"-"`
}
