package periodo

import (
	"testing"
	"time"
)

var ahora = time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

func TestCalcularEsteMes(t *testing.T) {
	r := Calcular(EsteMes, "", "", ahora)
	if !r.Aplica {
		t.Fatal("el rango no aplica")
	}
	if !r.Contiene(time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)) {
		t.Error("excluye el primer día del mes")
	}
	if !r.Contiene(time.Date(2026, time.March, 31, 23, 0, 0, 0, time.UTC)) {
		t.Error("excluye el último día del mes")
	}
	if r.Contiene(time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)) {
		t.Error("incluye el mes siguiente")
	}
}

func TestCalcularMesAnterior(t *testing.T) {
	r := Calcular(MesAnterior, "", "", ahora)
	if !r.Contiene(time.Date(2026, time.February, 28, 0, 0, 0, 0, time.UTC)) {
		t.Error("excluye febrero")
	}
	if r.Contiene(time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)) {
		t.Error("incluye marzo")
	}
}

func TestCalcularMesAnteriorDesdeEnero(t *testing.T) {
	enero := time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC)
	r := Calcular(MesAnterior, "", "", enero)
	if !r.Contiene(time.Date(2025, time.December, 15, 0, 0, 0, 0, time.UTC)) {
		t.Error("el mes anterior a enero debe ser diciembre del año previo")
	}
}

func TestCalcularAnios(t *testing.T) {
	r := Calcular(EsteAnio, "", "", ahora)
	if !r.Contiene(time.Date(2026, time.December, 31, 23, 59, 0, 0, time.UTC)) {
		t.Error("excluye el fin de año")
	}
	if r.Contiene(time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC)) {
		t.Error("incluye el año anterior")
	}

	r = Calcular(AnioAnterior, "", "", ahora)
	if !r.Contiene(time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)) {
		t.Error("excluye el año anterior")
	}
}

func TestCalcularPersonalizado(t *testing.T) {
	r := Calcular(Personalizado, "2026-01-10", "2026-01-20", ahora)
	if !r.Contiene(time.Date(2026, time.January, 20, 18, 30, 0, 0, time.UTC)) {
		t.Error("el día final debe incluirse completo")
	}
	if r.Contiene(time.Date(2026, time.January, 21, 0, 0, 0, 0, time.UTC)) {
		t.Error("incluye un día fuera del rango")
	}
}

func TestCalcularPersonalizadoIncompleto(t *testing.T) {
	if r := Calcular(Personalizado, "2026-01-10", "", ahora); r.Aplica {
		t.Error("sin fecha final el filtro no debe aplicar")
	}
	if r := Calcular(Personalizado, "no-es-fecha", "2026-01-20", ahora); r.Aplica {
		t.Error("con fecha inválida el filtro no debe aplicar")
	}
}

func TestCalcularTodos(t *testing.T) {
	r := Calcular(Todos, "", "", ahora)
	if r.Aplica {
		t.Fatal("el filtro todos no debe aplicar rango")
	}
	if !r.Contiene(time.Date(1999, time.January, 1, 0, 0, 0, 0, time.UTC)) {
		t.Error("un rango sin aplicar debe contener todo")
	}
}

func TestEtiqueta(t *testing.T) {
	casos := map[string]string{
		Todos:         "Todos los Tiempos",
		EsteMes:       "Este Mes",
		MesAnterior:   "Mes Anterior",
		EsteAnio:      "Este Año",
		AnioAnterior:  "Año Anterior",
		Personalizado: "Rango Personalizado",
		"cualquiera":  "Todos los Tiempos",
	}
	for tipo, esperada := range casos {
		if got := Etiqueta(tipo); got != esperada {
			t.Errorf("Etiqueta(%q) = %q, esperaba %q", tipo, got, esperada)
		}
	}
}
