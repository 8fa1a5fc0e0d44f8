package proyecto

import (
	"time"
)

// Parcialidad es una factura parcial dentro del plan de pagos de un
// proyecto. Solo vive dentro del flujo de edición del proyecto; nunca se
// persiste de forma independiente.
type Parcialidad struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	ProyectoID   uint       `gorm:"not null;index" json:"-"`
	Monto        float64    `gorm:"not null;default:0" json:"monto"`
	ComplementoN string     `gorm:"size:100" json:"complementoN"`
	FechaPago    *time.Time `json:"fechaPago"`
	Descripcion  string     `gorm:"size:255" json:"descripcion"`
}

// Proyecto es el registro central del sistema. NombreCliente se guarda
// desnormalizado, como lo maneja la interfaz.
type Proyecto struct {
	ID                           uint          `gorm:"primaryKey" json:"id"`
	IDCliente                    string        `gorm:"size:50;not null;index" json:"idCliente"`
	NombreCliente                string        `gorm:"size:150" json:"nombreCliente"`
	IDCotizacion                 string        `gorm:"size:50" json:"idCotizacion"`
	MontoTotal                   float64       `gorm:"not null;default:0" json:"montoTotal"`
	RequiereLevantamientoTecnico bool          `json:"requiereLevantamientoTecnico"`
	Realizado                    bool          `json:"realizado"`
	Fincado                      bool          `json:"fincado"`
	FechaInicio                  *time.Time    `json:"fechaInicio"`
	FechaTermino                 *time.Time    `json:"fechaTermino"`
	OrdenCompra                  string        `gorm:"size:100" json:"ordenCompra"`
	Facturado                    bool          `json:"facturado"`
	FormaDePago                  string        `gorm:"size:20" json:"formaDePago"`
	FolioControl                 string        `gorm:"size:100" json:"folioControl"`
	FolioFiscal                  string        `gorm:"size:100" json:"folioFiscal"`
	FacturaCerrada               bool          `json:"facturaCerrada"`
	FacturasParcialidades        []Parcialidad `gorm:"foreignKey:ProyectoID;constraint:OnDelete:CASCADE" json:"facturasParcialidades"`
	CreatedAt                    time.Time     `json:"fechaCreacion"`
	UpdatedAt                    time.Time     `json:"-"`
}

// FechaReferencia es la fecha con la que el proyecto entra a los filtros
// por periodo: la de creación, o la de inicio si aquella no existe.
func (p Proyecto) FechaReferencia() time.Time {
	if !p.CreatedAt.IsZero() {
		return p.CreatedAt
	}
	if p.FechaInicio != nil {
		return *p.FechaInicio
	}
	return time.Time{}
}
