package proyecto

import "github.com/esies/api-proyectos/internal/pagos"

// VistaMotor proyecta el registro a los valores que entiende el motor de
// pagos.
func VistaMotor(p Proyecto) pagos.Proyecto {
	return pagos.Proyecto{
		IDCotizacion:                 p.IDCotizacion,
		MontoTotal:                   p.MontoTotal,
		RequiereLevantamientoTecnico: p.RequiereLevantamientoTecnico,
		Realizado:                    p.Realizado,
		Fincado:                      p.Fincado,
		FechaInicio:                  p.FechaInicio,
		FechaTermino:                 p.FechaTermino,
		OrdenCompra:                  p.OrdenCompra,
		Facturado:                    p.Facturado,
		FormaDePago:                  p.FormaDePago,
		FolioControl:                 p.FolioControl,
		FolioFiscal:                  p.FolioFiscal,
		FacturaCerrada:               p.FacturaCerrada,
		Parcialidades:                VistaParcialidades(p.FacturasParcialidades),
	}
}

// VistaParcialidades convierte las parcialidades persistidas a la vista
// del motor.
func VistaParcialidades(lista []Parcialidad) []pagos.Parcialidad {
	if lista == nil {
		return nil
	}
	vista := make([]pagos.Parcialidad, len(lista))
	for i, p := range lista {
		vista[i] = pagos.Parcialidad{
			Monto:        p.Monto,
			ComplementoN: p.ComplementoN,
			FechaPago:    p.FechaPago,
			Descripcion:  p.Descripcion,
		}
	}
	return vista
}

// AplicarMotor vuelca los valores normalizados por el motor sobre el
// registro. Las parcialidades se reemplazan completas; sus IDs se asignan
// de nuevo al guardar.
func AplicarMotor(p *Proyecto, m pagos.Proyecto) {
	p.IDCotizacion = m.IDCotizacion
	p.MontoTotal = m.MontoTotal
	p.RequiereLevantamientoTecnico = m.RequiereLevantamientoTecnico
	p.Realizado = m.Realizado
	p.Fincado = m.Fincado
	p.FechaInicio = m.FechaInicio
	p.FechaTermino = m.FechaTermino
	p.OrdenCompra = m.OrdenCompra
	p.Facturado = m.Facturado
	p.FormaDePago = m.FormaDePago
	p.FolioControl = m.FolioControl
	p.FolioFiscal = m.FolioFiscal
	p.FacturaCerrada = m.FacturaCerrada

	parcialidades := make([]Parcialidad, len(m.Parcialidades))
	for i, pa := range m.Parcialidades {
		parcialidades[i] = Parcialidad{
			ProyectoID:   p.ID,
			Monto:        pa.Monto,
			ComplementoN: pa.ComplementoN,
			FechaPago:    pa.FechaPago,
			Descripcion:  pa.Descripcion,
		}
	}
	p.FacturasParcialidades = parcialidades
}
