package pagopue

import (
	"time"

	"gorm.io/gorm"
)

// PagoPUE es el registro de pago único de un proyecto PUE. Se guarda
// aparte del proyecto y nunca viaja dentro de su payload; solo se consulta
// y edita por sus propios endpoints.
type PagoPUE struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	ProyectoID uint       `gorm:"not null;uniqueIndex" json:"proyectoId"`
	Monto      float64    `gorm:"not null;default:0" json:"monto"`
	FechaPago  *time.Time `json:"fechaPago"`
	CreatedAt  time.Time  `json:"-"`
	UpdatedAt  time.Time  `json:"-"`
}

// Repository encapsula el acceso a datos de pagos únicos.
type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

// BuscarPorProyecto devuelve el pago único del proyecto, si existe.
func (r *Repository) BuscarPorProyecto(proyectoID uint) (*PagoPUE, error) {
	var pago PagoPUE
	if err := r.DB.Where("proyecto_id = ?", proyectoID).First(&pago).Error; err != nil {
		return nil, err
	}
	return &pago, nil
}

// Guardar crea o reemplaza el pago único del proyecto.
func (r *Repository) Guardar(pago *PagoPUE) error {
	existente, err := r.BuscarPorProyecto(pago.ProyectoID)
	if err == nil {
		pago.ID = existente.ID
	}
	return r.DB.Save(pago).Error
}

// EliminarPorProyecto borra el pago único del proyecto.
func (r *Repository) EliminarPorProyecto(proyectoID uint) error {
	res := r.DB.Where("proyecto_id = ?", proyectoID).Delete(&PagoPUE{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
