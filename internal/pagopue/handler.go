package pagopue

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/esies/api-proyectos/internal/notificacion"
	"github.com/esies/api-proyectos/internal/pagos"
	"github.com/esies/api-proyectos/internal/proyecto"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type Handler struct {
	DB          *gorm.DB
	Repo        *Repository
	Proyectos   proyecto.Repository
	Notificador *notificacion.Centro
}

func NewHandler(db *gorm.DB, notificador *notificacion.Centro) *Handler {
	return &Handler{
		DB:          db,
		Repo:        NewRepository(db),
		Proyectos:   proyecto.NewRepository(),
		Notificador: notificador,
	}
}

type pagoRequest struct {
	Monto     float64    `json:"monto"`
	FechaPago *time.Time `json:"fechaPago"`
}

// Obtener responde GET /proyectos/{id}/pago-pue.
func (h *Handler) Obtener(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}
	pago, err := h.Repo.BuscarPorProyecto(uint(id))
	if err != nil {
		http.Error(w, "sin pago registrado", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(pago)
}

// Guardar responde PUT /proyectos/{id}/pago-pue. Registrar el pago
// completo cierra la factura del proyecto.
func (h *Handler) Guardar(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}

	p, err := h.Proyectos.BuscarPorID(h.DB, uint(id))
	if err != nil {
		http.Error(w, "proyecto no encontrado", http.StatusNotFound)
		return
	}
	if p.FormaDePago != pagos.FormaPUE {
		http.Error(w, "el proyecto no es PUE", http.StatusBadRequest)
		return
	}

	var req pagoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}

	if errores := pagos.ValidarPagoUnico(p.MontoTotal, req.Monto); len(errores) > 0 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(map[string][]string{"errores": errores})
		return
	}

	pago := &PagoPUE{ProyectoID: uint(id), Monto: req.Monto, FechaPago: req.FechaPago}
	if err := h.Repo.Guardar(pago); err != nil {
		h.Notificador.Publicar(notificacion.Error, "Error al registrar el pago")
		http.Error(w, "error al registrar el pago", http.StatusInternalServerError)
		return
	}

	p.FacturaCerrada = true
	if err := h.Proyectos.Actualizar(h.DB, uint(id), p); err != nil {
		http.Error(w, "error al cerrar la factura del proyecto", http.StatusInternalServerError)
		return
	}

	h.Notificador.Publicar(notificacion.Exito, "Pago registrado y factura cerrada")
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(pago)
}

// Eliminar responde DELETE /proyectos/{id}/pago-pue y reabre la factura.
func (h *Handler) Eliminar(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}

	if err := h.Repo.EliminarPorProyecto(uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "sin pago registrado", http.StatusNotFound)
			return
		}
		http.Error(w, "error al eliminar el pago", http.StatusInternalServerError)
		return
	}

	if p, err := h.Proyectos.BuscarPorID(h.DB, uint(id)); err == nil && p.FormaDePago == pagos.FormaPUE {
		p.FacturaCerrada = false
		_ = h.Proyectos.Actualizar(h.DB, uint(id), p)
	}

	h.Notificador.Publicar(notificacion.Info, "Pago único eliminado")
	w.WriteHeader(http.StatusNoContent)
}
