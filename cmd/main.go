package main

import (
	"log"
	"net/http"
	"os"

	"github.com/esies/api-proyectos/internal/auth"
	"github.com/esies/api-proyectos/internal/cliente"
	"github.com/esies/api-proyectos/internal/dashboard"
	"github.com/esies/api-proyectos/internal/exportar"
	"github.com/esies/api-proyectos/internal/notificacion"
	"github.com/esies/api-proyectos/internal/pagopue"
	"github.com/esies/api-proyectos/internal/proyecto"
	"github.com/esies/api-proyectos/internal/usuario"
	"github.com/esies/api-proyectos/internal/utils"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "host=localhost user=postgres password=postgres dbname=proyectos port=5432 sslmode=disable"
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("error al conectar a la base de datos:", err)
	}

	if err := db.AutoMigrate(
		&usuario.Usuario{},
		&cliente.Cliente{},
		&proyecto.Proyecto{},
		&proyecto.Parcialidad{},
		&pagopue.PagoPUE{},
	); err != nil {
		log.Fatal("error en AutoMigrate:", err)
	}

	// Centro de notificaciones: el shell es el dueño y monta la bitácora
	// como primer suscriptor.
	centro := notificacion.NewCentro()
	centro.Suscribir(func(n notificacion.Notificacion) {
		log.Printf("[%s] %s", n.Tipo, n.Mensaje)
	})

	if err := sembrarOperador(db); err != nil {
		log.Fatal("error al crear el usuario inicial:", err)
	}

	// Handlers
	authHandler := auth.NewHandler(db, centro)
	clienteHandler := cliente.NewHandler(db, centro)
	proyectoHandler := proyecto.NewHandler(db, centro)
	pagoPUEHandler := pagopue.NewHandler(db, centro)
	exportarHandler := exportar.NewHandler(db, centro)
	dashboardHandler := dashboard.NewHandler(db)
	notificacionHandler := notificacion.NewHandler(centro)

	// Router
	r := mux.NewRouter()

	// Rutas públicas de autenticación
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/auth/recuperar-contrasena", authHandler.RecuperarContrasena).Methods("POST")
	r.HandleFunc("/auth/restablecer-contrasena", authHandler.RestablecerContrasena).Methods("POST")

	// Rutas protegidas por Bearer token
	s := r.NewRoute().Subrouter()
	s.Use(auth.MiddlewareAutenticacion)

	s.HandleFunc("/usuario/cambiar-contrasena", authHandler.CambiarContrasena).Methods("PUT")

	// Rutas de clientes
	s.HandleFunc("/clientes", clienteHandler.CrearCliente).Methods("POST")
	s.HandleFunc("/clientes", clienteHandler.ListarClientes).Methods("GET")
	s.HandleFunc("/clientes/{id}", clienteHandler.BuscarPorID).Methods("GET")
	s.HandleFunc("/clientes/{id}", clienteHandler.ActualizarCliente).Methods("PUT")
	s.HandleFunc("/clientes/{id}", clienteHandler.EliminarCliente).Methods("DELETE")

	// Rutas de proyectos; la exportación va antes de {id} para que mux no
	// la capture como identificador
	s.HandleFunc("/proyectos/exportar", exportarHandler.Exportar).Methods("GET")
	s.HandleFunc("/proyectos", proyectoHandler.CrearProyecto).Methods("POST")
	s.HandleFunc("/proyectos", proyectoHandler.ListarProyectos).Methods("GET")
	s.HandleFunc("/proyectos/cliente/{idCliente}", proyectoHandler.ListarPorCliente).Methods("GET")
	s.HandleFunc("/proyectos/{id}", proyectoHandler.BuscarPorID).Methods("GET")
	s.HandleFunc("/proyectos/{id}", proyectoHandler.ActualizarProyecto).Methods("PUT")
	s.HandleFunc("/proyectos/{id}", proyectoHandler.EliminarProyecto).Methods("DELETE")
	s.HandleFunc("/proyectos/{id}/estado", proyectoHandler.Estado).Methods("GET")
	s.HandleFunc("/proyectos/{id}/parcialidades", proyectoHandler.ActualizarParcialidades).Methods("PUT")

	// Pago único PUE, fuera del payload del proyecto
	s.HandleFunc("/proyectos/{id}/pago-pue", pagoPUEHandler.Obtener).Methods("GET")
	s.HandleFunc("/proyectos/{id}/pago-pue", pagoPUEHandler.Guardar).Methods("PUT")
	s.HandleFunc("/proyectos/{id}/pago-pue", pagoPUEHandler.Eliminar).Methods("DELETE")

	// Panel y notificaciones
	s.HandleFunc("/dashboard/estadisticas", dashboardHandler.ObtenerEstadisticas).Methods("GET")
	s.HandleFunc("/notificaciones", notificacionHandler.ListarRecientes).Methods("GET")

	puerto := os.Getenv("PORT")
	if puerto == "" {
		puerto = "8080"
	}

	manejador := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}).Handler(r)

	log.Printf("servidor escuchando en el puerto %s", puerto)
	log.Fatal(http.ListenAndServe(":"+puerto, manejador))
}

// sembrarOperador crea la cuenta del operador cuando la tabla está vacía.
// La contraseña sale de ADMIN_CONTRASENA o, en su defecto, se genera una
// temporal y se deja en la bitácora.
func sembrarOperador(db *gorm.DB) error {
	usuarios := usuario.NewRepository()
	total, err := usuarios.Contar(db)
	if err != nil || total > 0 {
		return err
	}

	correo := os.Getenv("ADMIN_CORREO")
	if correo == "" {
		correo = "admin@esies.mx"
	}
	contrasena := os.Getenv("ADMIN_CONTRASENA")
	if contrasena == "" {
		temporal, err := utils.GenerarContrasenaTemporal()
		if err != nil {
			return err
		}
		contrasena = temporal
		log.Printf("contraseña temporal para %s: %s", correo, contrasena)
	}

	hash, err := utils.HashContrasena(contrasena)
	if err != nil {
		return err
	}
	return usuarios.Guardar(db, &usuario.Usuario{
		Nombre:     "Administrador",
		Correo:     correo,
		Contrasena: hash,
	})
}
