// Package pagos implementa el motor de estado de pagos de un proyecto:
// habilitación de campos, validación de parcialidades según la forma de
// pago y métricas derivadas. No conoce gorm ni HTTP; opera sobre valores
// en memoria y nunca devuelve error: toda falla se expresa como lista de
// mensajes.
package pagos

import (
	"fmt"
	"time"
)

// Formas de pago reconocidas.
const (
	FormaPUE           = "PUE"
	FormaParcialidades = "PARCIALIDADES"
	FormaDiferido      = "DIFERIDO"
)

// DescripcionDiferido es la descripción con la que se precarga la única
// parcialidad de un pago diferido.
const DescripcionDiferido = "Pago diferido"

// Parcialidad es la vista del motor sobre una factura parcial.
type Parcialidad struct {
	Monto        float64
	ComplementoN string
	FechaPago    *time.Time
	Descripcion  string
}

// Proyecto reúne los campos del proyecto que participan en las reglas de
// pago. Los valores pueden venir de un formulario a medio editar.
type Proyecto struct {
	IDCotizacion                 string
	MontoTotal                   float64
	RequiereLevantamientoTecnico bool
	Realizado                    bool
	Fincado                      bool
	FechaInicio                  *time.Time
	FechaTermino                 *time.Time
	OrdenCompra                  string
	Facturado                    bool
	FormaDePago                  string
	FolioControl                 string
	FolioFiscal                  string
	FacturaCerrada               bool
	Parcialidades                []Parcialidad
}

// Habilitacion indica qué campos del formulario están editables dado el
// estado actual del proyecto.
type Habilitacion struct {
	Realizado   bool `json:"realizado"`
	Fincado     bool `json:"fincado"`
	Fechas      bool `json:"fechas"`
	FormaDePago bool `json:"formaDePago"`
	OrdenCompra bool `json:"ordenCompra"`
	Facturado   bool `json:"facturado"`
	Folios      bool `json:"folios"`
}

// Metricas son los montos derivados del plan de pagos.
type Metricas struct {
	TotalPagado      float64 `json:"totalPagado"`
	SaldoPendiente   float64 `json:"saldoPendiente"`
	PorcentajePagado float64 `json:"porcentajePagado"`
}

// CalcularHabilitacion es función pura de los valores en curso; debe
// recalcularse en cada cambio de campo.
func CalcularHabilitacion(p Proyecto) Habilitacion {
	h := Habilitacion{
		Realizado: p.RequiereLevantamientoTecnico,
		Fincado:   p.IDCotizacion != "" && p.MontoTotal > 0,
		Fechas:    p.Fincado,
	}
	h.FormaDePago = p.FechaInicio != nil && p.FechaTermino != nil
	h.OrdenCompra = h.FormaDePago
	h.Facturado = p.FormaDePago != "" && p.OrdenCompra != ""
	h.Folios = p.Facturado
	return h
}

// CalcularMetricas deriva total pagado, saldo pendiente y porcentaje.
// Para PUE el porcentaje es binario (0 o 100) según factura cerrada; para
// las demás formas se calcula sobre la suma de parcialidades, con guarda
// contra división entre cero.
func CalcularMetricas(p Proyecto) Metricas {
	var base float64
	for _, pa := range p.Parcialidades {
		base += pa.Monto
	}

	if p.FormaDePago == FormaPUE {
		if p.FacturaCerrada {
			return Metricas{TotalPagado: p.MontoTotal, SaldoPendiente: 0, PorcentajePagado: 100}
		}
		return Metricas{TotalPagado: 0, SaldoPendiente: p.MontoTotal, PorcentajePagado: 0}
	}

	m := Metricas{TotalPagado: base, SaldoPendiente: p.MontoTotal - base}
	if p.MontoTotal > 0 {
		m.PorcentajePagado = base / p.MontoTotal * 100
	}
	return m
}

// ValidarParcialidades revisa la lista de parcialidades contra la forma de
// pago elegida. El resultado es consultivo en el formulario de proyecto y
// bloqueante en el editor de parcialidades.
func ValidarParcialidades(forma string, montoTotal float64, parcialidades []Parcialidad) []string {
	var errores []string

	switch forma {
	case FormaDiferido:
		if len(parcialidades) != 1 {
			errores = append(errores, "el pago diferido requiere exactamente una parcialidad")
			return errores
		}
		p := parcialidades[0]
		// Igualdad exacta, sin tolerancia: el monto viene precargado del
		// monto total y no pasa por aritmética intermedia.
		if p.Monto != montoTotal {
			errores = append(errores, "el monto de la parcialidad diferida debe ser igual al monto total del proyecto")
		}
		if p.FechaPago == nil {
			errores = append(errores, "la parcialidad diferida debe tener fecha de pago")
		}

	case FormaParcialidades:
		var suma float64
		for i, p := range parcialidades {
			suma += p.Monto
			if p.Monto <= 0 {
				errores = append(errores, fmt.Sprintf("la parcialidad %d debe tener un monto mayor a cero", i+1))
			} else if p.Monto > montoTotal {
				errores = append(errores, fmt.Sprintf("la parcialidad %d excede el monto total del proyecto", i+1))
			}
		}
		if suma > montoTotal {
			errores = append(errores, fmt.Sprintf("la suma de las parcialidades (%.2f) excede el monto total (%.2f)", suma, montoTotal))
		}

	case FormaPUE:
		// PUE no almacena parcialidades; se normalizan a vacío antes de
		// llegar aquí.
	}

	return errores
}

// ValidarPagoUnico revisa el pago único opcional de un proyecto PUE.
func ValidarPagoUnico(montoTotal, monto float64) []string {
	if monto != montoTotal {
		return []string{"el pago único debe ser igual al monto total del proyecto"}
	}
	return nil
}

// AgregarParcialidad devuelve la lista con una parcialidad nueva, o la
// lista intacta con una advertencia cuando la forma de pago no lo admite.
func AgregarParcialidad(forma string, montoTotal float64, actuales []Parcialidad) ([]Parcialidad, string) {
	switch forma {
	case FormaPUE:
		return actuales, "un proyecto PUE no lleva parcialidades"
	case FormaDiferido:
		if len(actuales) >= 1 {
			return actuales, "el pago diferido admite una sola parcialidad"
		}
		nueva := Parcialidad{Monto: montoTotal, Descripcion: DescripcionDiferido}
		return append(copiar(actuales), nueva), ""
	}
	return append(copiar(actuales), Parcialidad{}), ""
}

// ActualizarMontoParcialidad cambia el monto de la parcialidad i. Para
// pagos diferidos cualquier monto distinto del total se revierte al total,
// con advertencia.
func ActualizarMontoParcialidad(forma string, montoTotal float64, lista []Parcialidad, i int, monto float64) ([]Parcialidad, string) {
	if i < 0 || i >= len(lista) {
		return lista, "parcialidad inexistente"
	}
	resultado := copiar(lista)
	if forma == FormaDiferido && monto != montoTotal {
		resultado[i].Monto = montoTotal
		return resultado, "el monto del pago diferido se ajusta al monto total del proyecto"
	}
	resultado[i].Monto = monto
	return resultado, ""
}

// Normalizar aplica el encadenamiento de habilitación sobre los valores
// recibidos: todo campo cuya compuerta no se cumple vuelve a su valor cero,
// con una advertencia por regla. También descarta parcialidades en PUE y
// recalcula el cierre automático de factura.
func Normalizar(p Proyecto) (Proyecto, []string) {
	var avisos []string

	if p.Realizado && !p.RequiereLevantamientoTecnico {
		p.Realizado = false
		avisos = append(avisos, "realizado requiere levantamiento técnico")
	}
	if p.Fincado && (p.IDCotizacion == "" || p.MontoTotal <= 0) {
		p.Fincado = false
		avisos = append(avisos, "fincado requiere cotización y monto total")
	}
	if !p.Fincado && (p.FechaInicio != nil || p.FechaTermino != nil) {
		p.FechaInicio, p.FechaTermino = nil, nil
		avisos = append(avisos, "las fechas requieren un proyecto fincado")
	}
	if (p.FechaInicio == nil || p.FechaTermino == nil) && (p.FormaDePago != "" || p.OrdenCompra != "") {
		p.FormaDePago, p.OrdenCompra = "", ""
		avisos = append(avisos, "forma de pago y orden de compra requieren fechas de inicio y término")
	}
	if p.Facturado && (p.FormaDePago == "" || p.OrdenCompra == "") {
		p.Facturado = false
		avisos = append(avisos, "facturado requiere forma de pago y orden de compra")
	}
	if !p.Facturado && (p.FolioControl != "" || p.FolioFiscal != "") {
		p.FolioControl, p.FolioFiscal = "", ""
		avisos = append(avisos, "los folios se capturan después de facturar")
	}

	switch p.FormaDePago {
	case FormaPUE:
		if len(p.Parcialidades) > 0 {
			p.Parcialidades = nil
			avisos = append(avisos, "un proyecto PUE no lleva parcialidades")
		}
		// El cierre de factura PUE lo gobierna el registro de pago único,
		// no las parcialidades; se deja como viene.
	case FormaParcialidades, FormaDiferido:
		m := CalcularMetricas(p)
		p.FacturaCerrada = p.MontoTotal > 0 && m.TotalPagado >= p.MontoTotal
	}

	return p, avisos
}

func copiar(lista []Parcialidad) []Parcialidad {
	if lista == nil {
		return nil
	}
	c := make([]Parcialidad, len(lista))
	copy(c, lista)
	return c
}
