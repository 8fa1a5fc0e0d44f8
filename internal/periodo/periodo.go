// Package periodo resuelve los filtros de fecha que comparten el panel de
// estadísticas y la exportación a Excel.
package periodo

import "time"

// Filtros disponibles.
const (
	Todos         = "todos"
	EsteMes       = "este-mes"
	MesAnterior   = "mes-anterior"
	EsteAnio      = "este-anio"
	AnioAnterior  = "anio-anterior"
	Personalizado = "personalizado"
)

// Rango es un intervalo cerrado de fechas. Aplica en falso significa "sin
// filtro": todo pasa.
type Rango struct {
	Inicio time.Time
	Fin    time.Time
	Aplica bool
}

// Calcular resuelve el rango del filtro indicado. Para el personalizado se
// esperan fechas "2006-01-02"; si falta alguna, el filtro no aplica, igual
// que en la interfaz original.
func Calcular(tipo, inicio, fin string, ahora time.Time) Rango {
	switch tipo {
	case EsteMes:
		return rangoMes(ahora.Year(), ahora.Month())
	case MesAnterior:
		previo := ahora.AddDate(0, -1, -ahora.Day()+1)
		return rangoMes(previo.Year(), previo.Month())
	case EsteAnio:
		return rangoAnio(ahora.Year())
	case AnioAnterior:
		return rangoAnio(ahora.Year() - 1)
	case Personalizado:
		if inicio == "" || fin == "" {
			return Rango{}
		}
		desde, err1 := time.Parse("2006-01-02", inicio)
		hasta, err2 := time.Parse("2006-01-02", fin)
		if err1 != nil || err2 != nil {
			return Rango{}
		}
		return Rango{Inicio: desde, Fin: finDeDia(hasta), Aplica: true}
	}
	return Rango{}
}

// Etiqueta devuelve el nombre legible del filtro, usado en el nombre del
// archivo exportado.
func Etiqueta(tipo string) string {
	switch tipo {
	case EsteMes:
		return "Este Mes"
	case MesAnterior:
		return "Mes Anterior"
	case EsteAnio:
		return "Este Año"
	case AnioAnterior:
		return "Año Anterior"
	case Personalizado:
		return "Rango Personalizado"
	}
	return "Todos los Tiempos"
}

// Contiene indica si la fecha cae dentro del rango. Un rango que no aplica
// contiene todo.
func (r Rango) Contiene(t time.Time) bool {
	if !r.Aplica {
		return true
	}
	return !t.Before(r.Inicio) && !t.After(r.Fin)
}

func rangoMes(anio int, mes time.Month) Rango {
	inicio := time.Date(anio, mes, 1, 0, 0, 0, 0, time.UTC)
	fin := inicio.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return Rango{Inicio: inicio, Fin: fin, Aplica: true}
}

func rangoAnio(anio int) Rango {
	inicio := time.Date(anio, time.January, 1, 0, 0, 0, 0, time.UTC)
	fin := time.Date(anio, time.December, 31, 23, 59, 59, 0, time.UTC)
	return Rango{Inicio: inicio, Fin: fin, Aplica: true}
}

func finDeDia(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}
