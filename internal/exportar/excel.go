// Package exportar arma el libro de Excel con los proyectos y sus
// parcialidades, con el mismo formato que producía la interfaz original.
package exportar

import (
	"fmt"
	"time"

	"github.com/esies/api-proyectos/internal/pagos"
	"github.com/esies/api-proyectos/internal/proyecto"
	"github.com/xuri/excelize/v2"
)

const (
	hojaProyectos     = "Proyectos"
	hojaParcialidades = "Parcialidades"

	colorEncabezadoProyectos     = "2563EB"
	colorEncabezadoParcialidades = "059669"
)

var encabezadosProyectos = []string{
	"ID Cliente", "Nombre del Cliente", "Cotización (ID)", "Monto",
	"Levantamiento Técnico", "Realizado", "Fincado", "Fecha Inicio",
	"Fecha Término", "Orden de compra", "Forma de pago", "Facturado",
	"Parcialidades Pagadas", "% Pagado", "PO", "Total pagado",
	"Saldo pendiente", "Factura Cerrada",
}

var encabezadosParcialidades = []string{
	"ID Cliente", "Nombre del Cliente", "Cotización (ID)", "Parcialidad #",
	"Monto Parcialidad", "Fecha Parcialidad", "Descripción",
	"Monto Total Proyecto", "Forma de Pago",
}

// GenerarLibro produce el libro con la hoja "Proyectos" y, si existe
// alguna parcialidad, la hoja "Parcialidades".
func GenerarLibro(proyectos []proyecto.Proyecto) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", hojaProyectos); err != nil {
		return nil, err
	}

	if err := escribirEncabezados(f, hojaProyectos, encabezadosProyectos, colorEncabezadoProyectos); err != nil {
		return nil, err
	}

	for i, p := range proyectos {
		m := pagos.CalcularMetricas(proyecto.VistaMotor(p))
		fila := i + 2
		valores := []interface{}{
			p.IDCliente,
			p.NombreCliente,
			p.IDCotizacion,
			p.MontoTotal,
			siNo(p.RequiereLevantamientoTecnico),
			siNo(p.Realizado),
			siNo(p.Fincado),
			formatearFecha(p.FechaInicio),
			formatearFecha(p.FechaTermino),
			oNA(p.OrdenCompra),
			p.FormaDePago,
			siNo(p.Facturado),
			len(p.FacturasParcialidades),
			fmt.Sprintf("%.2f%%", m.PorcentajePagado),
			oNA(p.OrdenCompra),
			m.TotalPagado,
			m.SaldoPendiente,
			siNo(p.FacturaCerrada),
		}
		if err := escribirFila(f, hojaProyectos, fila, valores); err != nil {
			return nil, err
		}
	}

	if tieneParcialidades(proyectos) {
		if _, err := f.NewSheet(hojaParcialidades); err != nil {
			return nil, err
		}
		if err := escribirEncabezados(f, hojaParcialidades, encabezadosParcialidades, colorEncabezadoParcialidades); err != nil {
			return nil, err
		}

		fila := 2
		for _, p := range proyectos {
			for n, parcialidad := range p.FacturasParcialidades {
				valores := []interface{}{
					p.IDCliente,
					p.NombreCliente,
					p.IDCotizacion,
					n + 1,
					parcialidad.Monto,
					formatearFecha(parcialidad.FechaPago),
					oNA(parcialidad.Descripcion),
					p.MontoTotal,
					p.FormaDePago,
				}
				if err := escribirFila(f, hojaParcialidades, fila, valores); err != nil {
					return nil, err
				}
				fila++
			}
		}
	}

	return f, nil
}

// NombreArchivo arma el nombre de descarga: Proyectos_<filtro>_<fecha>.xlsx.
func NombreArchivo(etiqueta string, ahora time.Time) string {
	limpia := ""
	for _, r := range etiqueta {
		if r == ' ' {
			limpia += "_"
		} else {
			limpia += string(r)
		}
	}
	return fmt.Sprintf("Proyectos_%s_%s.xlsx", limpia, ahora.Format("2006-01-02"))
}

func escribirEncabezados(f *excelize.File, hoja string, encabezados []string, color string) error {
	for i, encabezado := range encabezados {
		celda, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(hoja, celda, encabezado); err != nil {
			return err
		}
	}

	estilo, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}},
		Font: &excelize.Font{Bold: true, Color: "FFFFFF", Size: 12},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return err
	}
	ultima, err := excelize.CoordinatesToCellName(len(encabezados), 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(hoja, "A1", ultima, estilo)
}

func escribirFila(f *excelize.File, hoja string, fila int, valores []interface{}) error {
	for i, v := range valores {
		celda, err := excelize.CoordinatesToCellName(i+1, fila)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(hoja, celda, v); err != nil {
			return err
		}
	}
	return nil
}

func tieneParcialidades(proyectos []proyecto.Proyecto) bool {
	for _, p := range proyectos {
		if len(p.FacturasParcialidades) > 0 {
			return true
		}
	}
	return false
}

func siNo(v bool) string {
	if v {
		return "Sí"
	}
	return "No"
}

func oNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func formatearFecha(t *time.Time) string {
	if t == nil {
		return "N/A"
	}
	return t.Format("02/01/2006")
}
