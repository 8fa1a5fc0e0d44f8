package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/esies/api-proyectos/internal/usuario"
	"github.com/esies/api-proyectos/internal/utils"
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
	if err := db.AutoMigrate(&usuario.Usuario{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func sembrarUsuario(t *testing.T, db *gorm.DB, correo, contrasena string) usuario.Usuario {
	t.Helper()
	hash, err := utils.HashContrasena(contrasena)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u := usuario.Usuario{Nombre: "Operador", Correo: correo, Contrasena: hash}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("seed usuario: %v", err)
	}
	return u
}

func peticionJSON(t *testing.T, h http.HandlerFunc, metodo, ruta string, cuerpo interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if cuerpo != nil {
		if err := json.NewEncoder(&buf).Encode(cuerpo); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(metodo, ruta, &buf)
	w := httptest.NewRecorder()
	h(w, req)
	return w
}

func TestGenerarYValidarToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "secreto-de-prueba")

	token, err := GenerarToken(7, "admin@esies.mx")
	if err != nil {
		t.Fatalf("GenerarToken: %v", err)
	}

	claims, err := ValidarToken(token)
	if err != nil {
		t.Fatalf("ValidarToken: %v", err)
	}
	if claims.UsuarioID != 7 || claims.Correo != "admin@esies.mx" {
		t.Fatalf("claims inesperados: %+v", claims)
	}
}

func TestValidarTokenAlterado(t *testing.T) {
	t.Setenv("JWT_SECRET", "secreto-de-prueba")

	token, err := GenerarToken(1, "admin@esies.mx")
	if err != nil {
		t.Fatalf("GenerarToken: %v", err)
	}
	if _, err := ValidarToken(token + "x"); err == nil {
		t.Fatal("un token alterado debe rechazarse")
	}
}

func TestMiddlewareAutenticacion(t *testing.T) {
	t.Setenv("JWT_SECRET", "secreto-de-prueba")

	var idEnContexto uint
	protegido := MiddlewareAutenticacion(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		idEnContexto, _ = r.Context().Value(CtxUsuarioID).(uint)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/clientes", nil)
	w := httptest.NewRecorder()
	protegido.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("sin token = %d", w.Code)
	}

	req = httptest.NewRequest("GET", "/clientes", nil)
	req.Header.Set("Authorization", "Bearer no-es-un-jwt")
	w = httptest.NewRecorder()
	protegido.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("token inválido = %d", w.Code)
	}

	token, err := GenerarToken(9, "admin@esies.mx")
	if err != nil {
		t.Fatalf("GenerarToken: %v", err)
	}
	req = httptest.NewRequest("GET", "/clientes", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	protegido.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("token válido = %d", w.Code)
	}
	if idEnContexto != 9 {
		t.Fatalf("usuario en contexto = %d", idEnContexto)
	}
}

func TestAlmacenRestablecimiento(t *testing.T) {
	almacen := NewAlmacenRestablecimiento()

	token := almacen.Emitir("admin@esies.mx", VigenciaRestablecimiento)
	correo, ok := almacen.Consumir(token)
	if !ok || correo != "admin@esies.mx" {
		t.Fatalf("Consumir = (%q, %v)", correo, ok)
	}

	// un token es de un solo uso
	if _, ok := almacen.Consumir(token); ok {
		t.Fatal("el token se consumió dos veces")
	}
	if _, ok := almacen.Consumir("desconocido"); ok {
		t.Fatal("un token desconocido no debe aceptarse")
	}
}

func TestAlmacenRestablecimientoExpira(t *testing.T) {
	almacen := NewAlmacenRestablecimiento()
	momento := time.Now()
	almacen.ahora = func() time.Time { return momento }

	token := almacen.Emitir("admin@esies.mx", 30*time.Minute)
	momento = momento.Add(31 * time.Minute)

	if _, ok := almacen.Consumir(token); ok {
		t.Fatal("un token expirado no debe aceptarse")
	}
}

func TestLogin(t *testing.T) {
	t.Setenv("JWT_SECRET", "secreto-de-prueba")
	db := setupDB(t)
	sembrarUsuario(t, db, "admin@esies.mx", "clave-segura")
	h := NewHandler(db, nil)

	w := peticionJSON(t, h.Login, "POST", "/auth/login", loginRequest{
		Correo:     "admin@esies.mx",
		Contrasena: "clave-segura",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login = %d: %s", w.Code, w.Body.String())
	}

	var resp map[string]string
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["token"] == "" || resp["correo"] != "admin@esies.mx" || resp["nombre"] != "Operador" {
		t.Fatalf("respuesta inesperada: %v", resp)
	}
	if _, err := ValidarToken(resp["token"]); err != nil {
		t.Fatalf("el token emitido no valida: %v", err)
	}
}

func TestLoginCredencialesInvalidas(t *testing.T) {
	t.Setenv("JWT_SECRET", "secreto-de-prueba")
	db := setupDB(t)
	sembrarUsuario(t, db, "admin@esies.mx", "clave-segura")
	h := NewHandler(db, nil)

	w := peticionJSON(t, h.Login, "POST", "/auth/login", loginRequest{
		Correo:     "admin@esies.mx",
		Contrasena: "otra-clave",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("contraseña incorrecta = %d", w.Code)
	}

	w = peticionJSON(t, h.Login, "POST", "/auth/login", loginRequest{
		Correo:     "nadie@esies.mx",
		Contrasena: "clave-segura",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("correo desconocido = %d", w.Code)
	}
}

func TestRecuperarYRestablecer(t *testing.T) {
	db := setupDB(t)
	sembrarUsuario(t, db, "admin@esies.mx", "clave-vieja")
	h := NewHandler(db, nil)

	w := peticionJSON(t, h.RecuperarContrasena, "POST", "/auth/recuperar-contrasena", recuperarRequest{Correo: "admin@esies.mx"})
	if w.Code != http.StatusOK {
		t.Fatalf("recuperar = %d", w.Code)
	}
	// la respuesta no revela el token; lo tomamos del almacén
	var token string
	for emitido := range h.Restablecimientos.tokens {
		token = emitido
	}
	if token == "" {
		t.Fatal("no se emitió token de restablecimiento")
	}

	w = peticionJSON(t, h.RestablecerContrasena, "POST", "/auth/restablecer-contrasena", restablecerRequest{
		Token:               token,
		ContrasenaNueva:     "clave-nueva",
		ConfirmarContrasena: "clave-nueva",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("restablecer = %d: %s", w.Code, w.Body.String())
	}

	var u usuario.Usuario
	if err := db.Where("correo = ?", "admin@esies.mx").First(&u).Error; err != nil {
		t.Fatalf("reload usuario: %v", err)
	}
	if !utils.VerificarContrasena(u.Contrasena, "clave-nueva") {
		t.Fatal("la contraseña no se actualizó")
	}
}

func TestRecuperarCorreoDesconocido(t *testing.T) {
	db := setupDB(t)
	h := NewHandler(db, nil)

	w := peticionJSON(t, h.RecuperarContrasena, "POST", "/auth/recuperar-contrasena", recuperarRequest{Correo: "nadie@esies.mx"})
	if w.Code != http.StatusOK {
		t.Fatalf("la respuesta debe ser genérica: %d", w.Code)
	}
	if len(h.Restablecimientos.tokens) != 0 {
		t.Fatal("no debe emitirse token para correos desconocidos")
	}
}

func TestRestablecerContrasenasNoCoinciden(t *testing.T) {
	h := NewHandler(setupDB(t), nil)

	w := peticionJSON(t, h.RestablecerContrasena, "POST", "/auth/restablecer-contrasena", restablecerRequest{
		Token:               "cualquiera",
		ContrasenaNueva:     "una",
		ConfirmarContrasena: "otra",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("contraseñas distintas = %d", w.Code)
	}
}

func TestCambiarContrasena(t *testing.T) {
	db := setupDB(t)
	u := sembrarUsuario(t, db, "admin@esies.mx", "clave-actual")
	h := NewHandler(db, nil)

	var buf bytes.Buffer
	_ = json.NewEncoder(&buf).Encode(cambiarRequest{
		ContrasenaActual:    "clave-actual",
		ContrasenaNueva:     "clave-nueva",
		ConfirmarContrasena: "clave-nueva",
	})
	req := httptest.NewRequest("PUT", "/usuario/cambiar-contrasena", &buf)
	req = req.WithContext(context.WithValue(req.Context(), CtxUsuarioID, u.ID))
	w := httptest.NewRecorder()
	h.CambiarContrasena(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("cambiar = %d: %s", w.Code, w.Body.String())
	}

	var recargado usuario.Usuario
	if err := db.First(&recargado, u.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !utils.VerificarContrasena(recargado.Contrasena, "clave-nueva") {
		t.Fatal("la contraseña no cambió")
	}
}

func TestCambiarContrasenaActualIncorrecta(t *testing.T) {
	db := setupDB(t)
	u := sembrarUsuario(t, db, "admin@esies.mx", "clave-actual")
	h := NewHandler(db, nil)

	var buf bytes.Buffer
	_ = json.NewEncoder(&buf).Encode(cambiarRequest{
		ContrasenaActual:    "equivocada",
		ContrasenaNueva:     "clave-nueva",
		ConfirmarContrasena: "clave-nueva",
	})
	req := httptest.NewRequest("PUT", "/usuario/cambiar-contrasena", &buf)
	req = req.WithContext(context.WithValue(req.Context(), CtxUsuarioID, u.ID))
	w := httptest.NewRecorder()
	h.CambiarContrasena(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("contraseña actual incorrecta = %d", w.Code)
	}
}
