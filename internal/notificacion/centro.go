// Package notificacion implementa el centro de notificaciones de la
// aplicación: los handlers publican eventos y los suscriptores montados
// por el shell reaccionan. Sustituye al difusor ambiental de la interfaz
// por un observador explícito con Publicar/Suscribir.
package notificacion

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// Tipos de notificación reconocidos por la interfaz.
type Tipo string

const (
	Exito       Tipo = "success"
	Error       Tipo = "error"
	Advertencia Tipo = "warning"
	Info        Tipo = "info"
)

type Notificacion struct {
	Tipo    Tipo      `json:"tipo"`
	Mensaje string    `json:"mensaje"`
	Fecha   time.Time `json:"fecha"`
}

// Centro conserva las notificaciones recientes y reparte cada publicación
// a los suscriptores registrados. Un *Centro nulo descarta todo, para que
// los handlers puedan publicar sin comprobarlo.
type Centro struct {
	mu           sync.Mutex
	suscriptores []func(Notificacion)
	recientes    []Notificacion
}

// máximo de notificaciones retenidas para consulta
const limiteRecientes = 100

func NewCentro() *Centro {
	return &Centro{}
}

// Publicar registra la notificación y la entrega a cada suscriptor en el
// mismo hilo del que publica.
func (c *Centro) Publicar(tipo Tipo, mensaje string) {
	if c == nil {
		return
	}
	n := Notificacion{Tipo: tipo, Mensaje: mensaje, Fecha: time.Now()}

	c.mu.Lock()
	c.recientes = append(c.recientes, n)
	if len(c.recientes) > limiteRecientes {
		c.recientes = c.recientes[len(c.recientes)-limiteRecientes:]
	}
	suscriptores := make([]func(Notificacion), len(c.suscriptores))
	copy(suscriptores, c.suscriptores)
	c.mu.Unlock()

	for _, fn := range suscriptores {
		fn(n)
	}
}

// Suscribir registra un manejador que recibirá toda publicación futura.
func (c *Centro) Suscribir(fn func(Notificacion)) {
	if c == nil || fn == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.suscriptores = append(c.suscriptores, fn)
}

// Recientes devuelve una copia de las notificaciones retenidas, de la más
// antigua a la más nueva.
func (c *Centro) Recientes() []Notificacion {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	copia := make([]Notificacion, len(c.recientes))
	copy(copia, c.recientes)
	return copia
}

// Handler expone el centro por HTTP.
type Handler struct {
	Centro *Centro
}

func NewHandler(centro *Centro) *Handler {
	return &Handler{Centro: centro}
}

// ListarRecientes responde GET /notificaciones.
func (h *Handler) ListarRecientes(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	notificaciones := h.Centro.Recientes()
	if notificaciones == nil {
		notificaciones = []Notificacion{}
	}
	_ = json.NewEncoder(w).Encode(notificaciones)
}
