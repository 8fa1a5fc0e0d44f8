package cliente

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/esies/api-proyectos/internal/notificacion"
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

// CrearCliente registra un cliente nuevo. El código de negocio idCliente
// debe ser único.
func (h *Handler) CrearCliente(w http.ResponseWriter, r *http.Request) {
	var c Cliente
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}

	if c.IDCliente == "" || c.Nombre == "" || c.Correo == "" {
		http.Error(w, "idCliente, nombre y correo son obligatorios", http.StatusBadRequest)
		return
	}

	if _, err := h.Repository.BuscarPorIDCliente(h.DB, c.IDCliente); err == nil {
		http.Error(w, "el id de cliente ya existe", http.StatusConflict)
		return
	}

	c.ID = 0
	if err := h.Repository.Guardar(h.DB, &c); err != nil {
		h.Notificador.Publicar(notificacion.Error, "Error al guardar el cliente")
		http.Error(w, "error al guardar el cliente", http.StatusInternalServerError)
		return
	}

	h.Notificador.Publicar(notificacion.Exito, "Cliente "+c.Nombre+" registrado")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(c)
}

// ListarClientes devuelve todos los clientes.
func (h *Handler) ListarClientes(w http.ResponseWriter, r *http.Request) {
	clientes, err := h.Repository.ListarTodos(h.DB)
	if err != nil {
		http.Error(w, "error al listar clientes", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(clientes)
}

// BuscarPorID devuelve un cliente por su ID interno.
func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}

	c, err := h.Repository.BuscarPorID(h.DB, uint(id))
	if err != nil {
		http.Error(w, "cliente no encontrado", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(c)
}

// ActualizarCliente modifica los datos de un cliente existente.
func (h *Handler) ActualizarCliente(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}

	var datos Cliente
	if err := json.NewDecoder(r.Body).Decode(&datos); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}
	if datos.IDCliente == "" || datos.Nombre == "" || datos.Correo == "" {
		http.Error(w, "idCliente, nombre y correo son obligatorios", http.StatusBadRequest)
		return
	}

	// el código de negocio puede cambiar, pero no chocar con otro cliente
	if otro, err := h.Repository.BuscarPorIDCliente(h.DB, datos.IDCliente); err == nil && otro.ID != uint(id) {
		http.Error(w, "el id de cliente ya existe", http.StatusConflict)
		return
	}

	if err := h.Repository.Actualizar(h.DB, uint(id), &datos); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "cliente no encontrado", http.StatusNotFound)
			return
		}
		h.Notificador.Publicar(notificacion.Error, "Error al actualizar el cliente")
		http.Error(w, "error al actualizar el cliente", http.StatusInternalServerError)
		return
	}

	actualizado, err := h.Repository.BuscarPorID(h.DB, uint(id))
	if err != nil {
		http.Error(w, "error al leer el cliente actualizado", http.StatusInternalServerError)
		return
	}

	h.Notificador.Publicar(notificacion.Exito, "Cliente actualizado correctamente")
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(actualizado)
}

// EliminarCliente borra un cliente.
func (h *Handler) EliminarCliente(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}

	if err := h.Repository.Eliminar(h.DB, uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "cliente no encontrado", http.StatusNotFound)
			return
		}
		http.Error(w, "error al eliminar el cliente", http.StatusInternalServerError)
		return
	}

	h.Notificador.Publicar(notificacion.Info, "Cliente eliminado")
	w.WriteHeader(http.StatusNoContent)
}
