// Package dashboard expone el resumen general del sistema.
package dashboard

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/esies/api-proyectos/internal/cliente"
	"github.com/esies/api-proyectos/internal/periodo"
	"github.com/esies/api-proyectos/internal/proyecto"
	"gorm.io/gorm"
)

type Handler struct {
	DB        *gorm.DB
	Clientes  cliente.Repository
	Proyectos proyecto.Repository
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{
		DB:        db,
		Clientes:  cliente.NewRepository(),
		Proyectos: proyecto.NewRepository(),
	}
}

// Estadisticas replica las tarjetas del panel: proyectos "realizados"
// cuenta facturados, y el total de clientes no se filtra por fecha.
type Estadisticas struct {
	TotalClientes       int64   `json:"totalClientes"`
	TotalProyectos      int     `json:"totalProyectos"`
	ProyectosRealizados int     `json:"proyectosRealizados"`
	ProyectosPendientes int     `json:"proyectosPendientes"`
	MontoTotal          float64 `json:"montoTotal"`
}

// ObtenerEstadisticas responde GET /dashboard/estadisticas con los mismos
// filtros de periodo que la exportación.
func (h *Handler) ObtenerEstadisticas(w http.ResponseWriter, r *http.Request) {
	filtro := r.URL.Query().Get("filtro")
	if filtro == "" {
		filtro = periodo.Todos
	}
	rango := periodo.Calcular(
		filtro,
		r.URL.Query().Get("fechaInicio"),
		r.URL.Query().Get("fechaFin"),
		time.Now(),
	)

	totalClientes, err := h.Clientes.Contar(h.DB)
	if err != nil {
		http.Error(w, "error al contar clientes", http.StatusInternalServerError)
		return
	}

	proyectos, err := h.Proyectos.ListarTodos(h.DB)
	if err != nil {
		http.Error(w, "error al listar proyectos", http.StatusInternalServerError)
		return
	}

	stats := Estadisticas{TotalClientes: totalClientes}
	for _, p := range proyectos {
		if !rango.Contiene(p.FechaReferencia()) {
			continue
		}
		stats.TotalProyectos++
		if p.Facturado {
			stats.ProyectosRealizados++
		}
		stats.MontoTotal += p.MontoTotal
	}
	stats.ProyectosPendientes = stats.TotalProyectos - stats.ProyectosRealizados

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(stats)
}
