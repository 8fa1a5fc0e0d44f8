package cliente

import "time"

// Cliente es un cliente del negocio. IDCliente es el código de negocio
// (p. ej. CLT001) y debe ser único; el backend es la autoridad de esa
// unicidad.
type Cliente struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	IDCliente string    `gorm:"size:50;not null;unique" json:"idCliente"`
	Nombre    string    `gorm:"size:150;not null" json:"nombre"`
	Correo    string    `gorm:"size:150;not null" json:"correo"`
	Contacto  string    `gorm:"size:50" json:"contacto"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
