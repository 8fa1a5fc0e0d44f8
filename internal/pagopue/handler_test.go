package pagopue

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/esies/api-proyectos/internal/pagos"
	"github.com/esies/api-proyectos/internal/proyecto"
	"github.com/gorilla/mux"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&proyecto.Proyecto{}, &proyecto.Parcialidad{}, &PagoPUE{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func setupRouter(t *testing.T, db *gorm.DB) *mux.Router {
	t.Helper()
	h := NewHandler(db, nil)
	r := mux.NewRouter()
	r.HandleFunc("/proyectos/{id}/pago-pue", h.Obtener).Methods("GET")
	r.HandleFunc("/proyectos/{id}/pago-pue", h.Guardar).Methods("PUT")
	r.HandleFunc("/proyectos/{id}/pago-pue", h.Eliminar).Methods("DELETE")
	return r
}

func sembrarProyecto(t *testing.T, db *gorm.DB, forma string, monto float64) proyecto.Proyecto {
	t.Helper()
	p := proyecto.Proyecto{IDCliente: "CLT001", FormaDePago: forma, MontoTotal: monto}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("seed proyecto: %v", err)
	}
	return p
}

func peticionJSON(t *testing.T, r *mux.Router, metodo, ruta string, cuerpo interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if cuerpo != nil {
		if err := json.NewEncoder(&buf).Encode(cuerpo); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(metodo, ruta, &buf)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGuardarPagoCierraFactura(t *testing.T) {
	db := setupDB(t)
	r := setupRouter(t, db)
	p := sembrarProyecto(t, db, pagos.FormaPUE, 500)

	ruta := fmt.Sprintf("/proyectos/%d/pago-pue", p.ID)
	ahora := time.Now()
	w := peticionJSON(t, r, "PUT", ruta, pagoRequest{Monto: 500, FechaPago: &ahora})
	if w.Code != http.StatusOK {
		t.Fatalf("PUT pago = %d: %s", w.Code, w.Body.String())
	}

	var recargado proyecto.Proyecto
	if err := db.First(&recargado, p.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !recargado.FacturaCerrada {
		t.Fatal("factura abierta tras registrar el pago completo")
	}

	if w = peticionJSON(t, r, "GET", ruta, nil); w.Code != http.StatusOK {
		t.Fatalf("GET pago = %d", w.Code)
	}
}

func TestGuardarPagoMontoDistinto(t *testing.T) {
	db := setupDB(t)
	r := setupRouter(t, db)
	p := sembrarProyecto(t, db, pagos.FormaPUE, 500)

	w := peticionJSON(t, r, "PUT", fmt.Sprintf("/proyectos/%d/pago-pue", p.ID), pagoRequest{Monto: 400})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("monto distinto = %d", w.Code)
	}
}

func TestGuardarPagoProyectoNoPUE(t *testing.T) {
	db := setupDB(t)
	r := setupRouter(t, db)
	p := sembrarProyecto(t, db, pagos.FormaParcialidades, 500)

	w := peticionJSON(t, r, "PUT", fmt.Sprintf("/proyectos/%d/pago-pue", p.ID), pagoRequest{Monto: 500})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("proyecto no PUE = %d", w.Code)
	}
}

func TestEliminarPagoReabreFactura(t *testing.T) {
	db := setupDB(t)
	r := setupRouter(t, db)
	p := sembrarProyecto(t, db, pagos.FormaPUE, 500)

	ruta := fmt.Sprintf("/proyectos/%d/pago-pue", p.ID)
	peticionJSON(t, r, "PUT", ruta, pagoRequest{Monto: 500})

	if w := peticionJSON(t, r, "DELETE", ruta, nil); w.Code != http.StatusNoContent {
		t.Fatalf("DELETE pago = %d", w.Code)
	}

	var recargado proyecto.Proyecto
	if err := db.First(&recargado, p.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if recargado.FacturaCerrada {
		t.Fatal("factura cerrada tras eliminar el pago")
	}

	if w := peticionJSON(t, r, "GET", ruta, nil); w.Code != http.StatusNotFound {
		t.Fatalf("GET tras DELETE = %d", w.Code)
	}
}

func TestObtenerSinPago(t *testing.T) {
	db := setupDB(t)
	r := setupRouter(t, db)
	p := sembrarProyecto(t, db, pagos.FormaPUE, 500)

	w := peticionJSON(t, r, "GET", fmt.Sprintf("/proyectos/%d/pago-pue", p.ID), nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("sin pago = %d", w.Code)
	}
}
