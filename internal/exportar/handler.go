package exportar

import (
	"net/http"
	"time"

	"github.com/esies/api-proyectos/internal/notificacion"
	"github.com/esies/api-proyectos/internal/periodo"
	"github.com/esies/api-proyectos/internal/proyecto"
	"gorm.io/gorm"
)

type Handler struct {
	DB          *gorm.DB
	Proyectos   proyecto.Repository
	Notificador *notificacion.Centro
}

func NewHandler(db *gorm.DB, notificador *notificacion.Centro) *Handler {
	return &Handler{
		DB:          db,
		Proyectos:   proyecto.NewRepository(),
		Notificador: notificador,
	}
}

// Exportar responde GET /proyectos/exportar. Acepta filtro, fechaInicio y
// fechaFin como en el panel, y entrega el libro como descarga.
func (h *Handler) Exportar(w http.ResponseWriter, r *http.Request) {
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

	todos, err := h.Proyectos.ListarTodos(h.DB)
	if err != nil {
		http.Error(w, "error al listar proyectos", http.StatusInternalServerError)
		return
	}

	var filtrados []proyecto.Proyecto
	for _, p := range todos {
		if rango.Contiene(p.FechaReferencia()) {
			filtrados = append(filtrados, p)
		}
	}

	libro, err := GenerarLibro(filtrados)
	if err != nil {
		h.Notificador.Publicar(notificacion.Error, "Error al generar el archivo de Excel")
		http.Error(w, "error al generar el archivo", http.StatusInternalServerError)
		return
	}

	nombre := NombreArchivo(periodo.Etiqueta(filtro), time.Now())
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename="+nombre)
	if err := libro.Write(w); err != nil {
		http.Error(w, "error al escribir el archivo", http.StatusInternalServerError)
		return
	}
	h.Notificador.Publicar(notificacion.Exito, "Exportación generada")
}
