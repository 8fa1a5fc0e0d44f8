package proyecto

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/esies/api-proyectos/internal/notificacion"
	"github.com/esies/api-proyectos/internal/pagos"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

// Handler encapsula DB, repository y el centro de notificaciones.
type Handler struct {
	DB          *gorm.DB
	Repository  Repository
	Notificador *notificacion.Centro
}

func NewHandler(db *gorm.DB, notificador *notificacion.Centro) *Handler {
	return &Handler{
		DB:          db,
		Repository:  NewRepository(),
		Notificador: notificador,
	}
}

// respuesta con severidad consultiva: el guardado procede y las reglas
// incumplidas viajan como advertencias.
type respuestaProyecto struct {
	Proyecto     *Proyecto `json:"proyecto"`
	Advertencias []string  `json:"advertencias"`
}

// estadoProyecto reúne lo que el formulario necesita recalcular en cada
// cambio de campo.
type estadoProyecto struct {
	Habilitacion pagos.Habilitacion `json:"habilitacion"`
	Metricas     pagos.Metricas     `json:"metricas"`
	Advertencias []string           `json:"advertencias"`
}

// normalizar pasa el proyecto por el motor de pagos y devuelve las
// advertencias de compuertas más las consultivas de parcialidades.
func normalizar(p *Proyecto) []string {
	vista, avisos := pagos.Normalizar(VistaMotor(*p))
	AplicarMotor(p, vista)
	avisos = append(avisos, pagos.ValidarParcialidades(p.FormaDePago, p.MontoTotal, VistaParcialidades(p.FacturasParcialidades))...)
	if avisos == nil {
		avisos = []string{}
	}
	return avisos
}

// CrearProyecto registra un proyecto nuevo.
func (h *Handler) CrearProyecto(w http.ResponseWriter, r *http.Request) {
	var p Proyecto
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}
	if p.IDCliente == "" {
		http.Error(w, "idCliente es obligatorio", http.StatusBadRequest)
		return
	}
	if p.MontoTotal < 0 {
		http.Error(w, "el monto total no puede ser negativo", http.StatusBadRequest)
		return
	}

	p.ID = 0
	advertencias := normalizar(&p)

	if err := h.Repository.Guardar(h.DB, &p); err != nil {
		h.Notificador.Publicar(notificacion.Error, "Error al guardar el proyecto")
		http.Error(w, "error al guardar el proyecto", http.StatusInternalServerError)
		return
	}

	h.Notificador.Publicar(notificacion.Exito, "Proyecto registrado")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(respuestaProyecto{Proyecto: &p, Advertencias: advertencias})
}

// ListarProyectos devuelve todos los proyectos con sus parcialidades.
func (h *Handler) ListarProyectos(w http.ResponseWriter, r *http.Request) {
	proyectos, err := h.Repository.ListarTodos(h.DB)
	if err != nil {
		http.Error(w, "error al listar proyectos", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(proyectos)
}

// BuscarPorID devuelve un proyecto por ID.
func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}
	p, err := h.Repository.BuscarPorID(h.DB, uint(id))
	if err != nil {
		http.Error(w, "proyecto no encontrado", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(p)
}

// ListarPorCliente devuelve los proyectos de un cliente por su código de
// negocio.
func (h *Handler) ListarPorCliente(w http.ResponseWriter, r *http.Request) {
	idCliente := mux.Vars(r)["idCliente"]
	proyectos, err := h.Repository.ListarPorCliente(h.DB, idCliente)
	if err != nil {
		http.Error(w, "error al listar proyectos del cliente", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(proyectos)
}

// ActualizarProyecto guarda los cambios del formulario. Las reglas
// incumplidas no bloquean: los campos con compuerta fallida vuelven a su
// valor cero y se reportan como advertencias.
func (h *Handler) ActualizarProyecto(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}

	var datos Proyecto
	if err := json.NewDecoder(r.Body).Decode(&datos); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}
	if datos.MontoTotal < 0 {
		http.Error(w, "el monto total no puede ser negativo", http.StatusBadRequest)
		return
	}

	datos.ID = uint(id)
	advertencias := normalizar(&datos)

	if err := h.Repository.Actualizar(h.DB, uint(id), &datos); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "proyecto no encontrado", http.StatusNotFound)
			return
		}
		h.Notificador.Publicar(notificacion.Error, "Error al actualizar el proyecto")
		http.Error(w, "error al actualizar el proyecto", http.StatusInternalServerError)
		return
	}

	actualizado, err := h.Repository.BuscarPorID(h.DB, uint(id))
	if err != nil {
		http.Error(w, "error al leer el proyecto actualizado", http.StatusInternalServerError)
		return
	}

	h.Notificador.Publicar(notificacion.Exito, "Proyecto actualizado correctamente")
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(respuestaProyecto{Proyecto: actualizado, Advertencias: advertencias})
}

// EliminarProyecto borra el proyecto y su plan de pagos.
func (h *Handler) EliminarProyecto(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}
	if err := h.Repository.Eliminar(h.DB, uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "proyecto no encontrado", http.StatusNotFound)
			return
		}
		http.Error(w, "error al eliminar el proyecto", http.StatusInternalServerError)
		return
	}
	h.Notificador.Publicar(notificacion.Info, "Proyecto eliminado")
	w.WriteHeader(http.StatusNoContent)
}

// ActualizarParcialidades es el editor dedicado del plan de pagos. A
// diferencia del guardado del proyecto, aquí los errores sí bloquean: la
// lista no se persiste mientras exista alguno. Los montos de un pago
// diferido se ajustan al monto total antes de validar, con advertencia.
func (h *Handler) ActualizarParcialidades(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}

	p, err := h.Repository.BuscarPorID(h.DB, uint(id))
	if err != nil {
		http.Error(w, "proyecto no encontrado", http.StatusNotFound)
		return
	}

	var entrantes []Parcialidad
	if err := json.NewDecoder(r.Body).Decode(&entrantes); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}

	advertencias := []string{}
	lista := VistaParcialidades(entrantes)
	if p.FormaDePago == pagos.FormaDiferido {
		for i := range lista {
			var aviso string
			lista, aviso = pagos.ActualizarMontoParcialidad(p.FormaDePago, p.MontoTotal, lista, i, lista[i].Monto)
			if aviso != "" {
				advertencias = append(advertencias, aviso)
			}
		}
	}

	if errores := pagos.ValidarParcialidades(p.FormaDePago, p.MontoTotal, lista); len(errores) > 0 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(map[string][]string{"errores": errores})
		return
	}

	vista := VistaMotor(*p)
	vista.Parcialidades = lista
	vista, avisos := pagos.Normalizar(vista)
	advertencias = append(advertencias, avisos...)
	AplicarMotor(p, vista)

	if err := h.Repository.Actualizar(h.DB, uint(id), p); err != nil {
		h.Notificador.Publicar(notificacion.Error, "Error al guardar las parcialidades")
		http.Error(w, "error al guardar las parcialidades", http.StatusInternalServerError)
		return
	}

	actualizado, err := h.Repository.BuscarPorID(h.DB, uint(id))
	if err != nil {
		http.Error(w, "error al leer el proyecto actualizado", http.StatusInternalServerError)
		return
	}

	h.Notificador.Publicar(notificacion.Exito, "Parcialidades guardadas")
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(respuestaProyecto{Proyecto: actualizado, Advertencias: advertencias})
}

// Estado devuelve la habilitación de campos, las métricas derivadas y las
// advertencias vigentes; es lo que el formulario recalcula en cada cambio.
func (h *Handler) Estado(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}
	p, err := h.Repository.BuscarPorID(h.DB, uint(id))
	if err != nil {
		http.Error(w, "proyecto no encontrado", http.StatusNotFound)
		return
	}

	vista := VistaMotor(*p)
	advertencias := pagos.ValidarParcialidades(p.FormaDePago, p.MontoTotal, vista.Parcialidades)
	if advertencias == nil {
		advertencias = []string{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(estadoProyecto{
		Habilitacion: pagos.CalcularHabilitacion(vista),
		Metricas:     pagos.CalcularMetricas(vista),
		Advertencias: advertencias,
	})
}
