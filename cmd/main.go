package main

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/simonpc147/gimnasio-athena/internal/atletas"
	"github.com/simonpc147/gimnasio-athena/internal/auth"
	"github.com/simonpc147/gimnasio-athena/internal/coaches"
	"github.com/simonpc147/gimnasio-athena/internal/config"
	"github.com/simonpc147/gimnasio-athena/internal/db"
	"github.com/simonpc147/gimnasio-athena/internal/finanzas"
	"github.com/simonpc147/gimnasio-athena/internal/models"
	"github.com/simonpc147/gimnasio-athena/internal/rutinas"
	"github.com/simonpc147/gimnasio-athena/internal/usuarios"
	"gorm.io/gorm"
)

func main() {
	cfg := config.Cargar()

	database, err := db.Conectar(cfg)
	if err != nil {
		log.Fatal("error conectando a la base:", err)
	}
	if err := db.Migrar(database); err != nil {
		log.Fatal("error migrando el esquema:", err)
	}
	if err := sembrarAdmin(database, cfg); err != nil {
		log.Fatal("error sembrando admin inicial:", err)
	}

	// Servicios
	usuariosService := usuarios.NewService(database, usuarios.NewRepository())
	finanzasService := finanzas.NewService(database, finanzas.NewRepository(), nil)
	coachesService := coaches.NewService(database, coaches.NewRepository(), usuariosService, nil)
	atletasService := atletas.NewService(database, atletas.NewRepository(), usuariosService, finanzasService, coachesService, nil)
	rutinasService := rutinas.NewService(database, rutinas.NewRepository())

	sesiones := auth.NewManager(usuariosService, auth.Opciones{
		Inactividad:    cfg.SesionInactividad,
		VentanaBloqueo: cfg.BloqueoVentana,
		UmbralBloqueo:  cfg.BloqueoUmbral,
	})

	// Handlers
	authHandler := auth.NewHandler(sesiones)
	usuariosHandler := usuarios.NewHandler(usuariosService, sesiones)
	finanzasHandler := finanzas.NewHandler(finanzasService)
	coachesHandler := coaches.NewHandler(coachesService)
	atletasHandler := atletas.NewHandler(atletasService)
	rutinasHandler := rutinas.NewHandler(rutinasService)

	// Router
	r := mux.NewRouter()

	// Login es la única ruta sin sesión.
	r.HandleFunc("/login", authHandler.Login).Methods("POST")

	api := r.NewRoute().Subrouter()
	api.Use(sesiones.MiddlewareSesion)

	proteger := func(op auth.Operacion, h http.HandlerFunc) http.Handler {
		return auth.RequerirOperacion(op, h)
	}

	// Sesiones
	api.HandleFunc("/logout", authHandler.Logout).Methods("POST")
	api.HandleFunc("/sesion/extender", authHandler.Extender).Methods("POST")
	api.Handle("/sesiones", proteger(auth.OpVerSesiones, authHandler.SesionesActivas)).Methods("GET")

	// Perfil propio
	api.Handle("/perfil", proteger(auth.OpVerPerfilPropio, usuariosHandler.PerfilPropio)).Methods("GET")
	api.Handle("/perfil/clave", proteger(auth.OpCambiarClave, usuariosHandler.CambiarClave)).Methods("PUT")

	// Usuarios: la regla fina (quién crea qué rol, quién edita a quién)
	// la aplica el servicio.
	api.HandleFunc("/usuarios", usuariosHandler.Crear).Methods("POST")
	api.Handle("/usuarios", proteger(auth.OpGestionarUsuarios, usuariosHandler.ListarTodos)).Methods("GET")
	api.HandleFunc("/usuarios/{id}", usuariosHandler.BuscarPorID).Methods("GET")
	api.HandleFunc("/usuarios/{id}", usuariosHandler.Actualizar).Methods("PUT")
	api.Handle("/usuarios/{id}/desactivar", proteger(auth.OpGestionarUsuarios, usuariosHandler.Desactivar)).Methods("PUT")
	api.Handle("/usuarios/{id}", proteger(auth.OpGestionarUsuarios, usuariosHandler.Eliminar)).Methods("DELETE")

	// Atletas
	api.Handle("/atletas", proteger(auth.OpGestionarAtletas, atletasHandler.Registrar)).Methods("POST")
	api.Handle("/atletas", proteger(auth.OpGestionarAtletas, atletasHandler.Listar)).Methods("GET")
	api.Handle("/atletas/{id}", proteger(auth.OpGestionarAtletas, atletasHandler.BuscarPorID)).Methods("GET")
	api.Handle("/atletas/{id}", proteger(auth.OpGestionarAtletas, atletasHandler.Actualizar)).Methods("PUT")
	api.Handle("/atletas/{id}", proteger(auth.OpGestionarAtletas, atletasHandler.Eliminar)).Methods("DELETE")
	api.Handle("/atletas/{id}/renovar", proteger(auth.OpGestionarAtletas, atletasHandler.Renovar)).Methods("POST")
	api.Handle("/atletas/{id}/plan", proteger(auth.OpGestionarAtletas, atletasHandler.CambiarPlan)).Methods("PUT")
	api.Handle("/atletas/{id}/coach", proteger(auth.OpGestionarAtletas, atletasHandler.AsignarCoach)).Methods("PUT")
	api.Handle("/atletas/{id}/suspender", proteger(auth.OpGestionarAtletas, atletasHandler.Suspender)).Methods("PUT")

	// Coaches
	api.Handle("/coaches", proteger(auth.OpGestionarCoaches, coachesHandler.Registrar)).Methods("POST")
	api.Handle("/coaches", proteger(auth.OpGestionarCoaches, coachesHandler.Listar)).Methods("GET")
	api.Handle("/coaches/resumen", proteger(auth.OpGestionarCoaches, coachesHandler.Resumen)).Methods("GET")
	api.Handle("/coaches/{id}", proteger(auth.OpGestionarCoaches, coachesHandler.BuscarPorID)).Methods("GET")
	api.Handle("/coaches/{id}", proteger(auth.OpGestionarCoaches, coachesHandler.ActualizarPerfil)).Methods("PUT")
	api.Handle("/coaches/{id}/atletas", proteger(auth.OpAtletasPropios, coachesHandler.AtletasDe)).Methods("GET")
	api.Handle("/coaches/{id}/reporte", proteger(auth.OpGestionarCoaches, coachesHandler.Reporte)).Methods("GET")
	api.Handle("/atletas/{id}/asignaciones", proteger(auth.OpGestionarCoaches, coachesHandler.HistorialDe)).Methods("GET")
	api.Handle("/asignaciones", proteger(auth.OpGestionarCoaches, coachesHandler.Asignar)).Methods("POST")
	api.Handle("/asignaciones/{id}/terminar", proteger(auth.OpGestionarCoaches, coachesHandler.Terminar)).Methods("PUT")

	// Finanzas
	api.Handle("/planes", proteger(auth.OpFinanzas, finanzasHandler.CrearPlan)).Methods("POST")
	api.HandleFunc("/planes", finanzasHandler.ListarPlanes).Methods("GET")
	api.HandleFunc("/planes/{id}", finanzasHandler.BuscarPlan).Methods("GET")
	api.Handle("/ingresos", proteger(auth.OpFinanzas, finanzasHandler.IngresosDetallados)).Methods("GET")
	api.Handle("/ingresos/extra", proteger(auth.OpFinanzas, finanzasHandler.RegistrarServicioExtra)).Methods("POST")
	api.Handle("/ingresos/{id}", proteger(auth.OpFinanzas, finanzasHandler.ActualizarIngreso)).Methods("PUT")
	api.Handle("/ingresos/{id}", proteger(auth.OpFinanzas, finanzasHandler.EliminarIngreso)).Methods("DELETE")
	api.Handle("/egresos", proteger(auth.OpFinanzas, finanzasHandler.CrearEgreso)).Methods("POST")
	api.Handle("/egresos", proteger(auth.OpFinanzas, finanzasHandler.ListarEgresos)).Methods("GET")
	api.Handle("/reportes/periodo", proteger(auth.OpFinanzas, finanzasHandler.Reporte)).Methods("GET")

	// Rutinas y ejercicios
	api.Handle("/rutinas", proteger(auth.OpRutinasPropias, rutinasHandler.CrearRutina)).Methods("POST")
	api.HandleFunc("/rutinas", rutinasHandler.ListarRutinas).Methods("GET")
	api.HandleFunc("/rutinas/{id}", rutinasHandler.BuscarRutina).Methods("GET")
	api.Handle("/rutinas/{id}", proteger(auth.OpRutinasPropias, rutinasHandler.ActualizarRutina)).Methods("PUT")
	api.Handle("/rutinas/{id}", proteger(auth.OpRutinasPropias, rutinasHandler.EliminarRutina)).Methods("DELETE")
	api.HandleFunc("/rutinas/{id}/ejercicios/cantidad", rutinasHandler.ContarEjercicios).Methods("GET")
	api.Handle("/rutinas/{id}/ejercicios", proteger(auth.OpRutinasPropias, rutinasHandler.AdjuntarEjercicio)).Methods("POST")
	api.Handle("/rutinas/{id}/ejercicios/{ejercicioId}", proteger(auth.OpRutinasPropias, rutinasHandler.QuitarEjercicio)).Methods("DELETE")
	api.Handle("/ejercicios", proteger(auth.OpRutinasPropias, rutinasHandler.CrearEjercicio)).Methods("POST")
	api.HandleFunc("/ejercicios", rutinasHandler.ListarEjercicios).Methods("GET")
	api.Handle("/ejercicios/{id}", proteger(auth.OpRutinasPropias, rutinasHandler.ActualizarEjercicio)).Methods("PUT")
	api.Handle("/ejercicios/{id}", proteger(auth.OpRutinasPropias, rutinasHandler.EliminarEjercicio)).Methods("DELETE")

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})

	log.Printf("servidor escuchando en %s", cfg.ServerAddr)
	log.Fatal(http.ListenAndServe(cfg.ServerAddr, c.Handler(r)))
}

// sembrarAdmin crea el admin principal la primera vez que arranca el
// sistema con la tabla de usuarios vacía. Sin ADMIN_CLAVE se genera una
// temporal y se escribe en el log, una sola vez.
func sembrarAdmin(database *gorm.DB, cfg config.Config) error {
	var cuenta int64
	if err := database.Model(&models.Usuario{}).Count(&cuenta).Error; err != nil {
		return err
	}
	if cuenta > 0 {
		return nil
	}

	clave := cfg.AdminClave
	generada := false
	if clave == "" {
		var err error
		clave, err = auth.GenerarClaveTemporal(16)
		if err != nil {
			return err
		}
		generada = true
	}
	hash, err := auth.HashClave(clave)
	if err != nil {
		return err
	}
	admin := models.Usuario{
		Nombre:    "Admin",
		Apellido:  "Principal",
		Correo:    models.NormalizarCorreo(cfg.AdminCorreo),
		ClaveHash: hash,
		Rol:       models.RolAdminPrincipal,
		Activo:    true,
	}
	if err := database.Create(&admin).Error; err != nil {
		return err
	}
	if generada {
		log.Printf("admin inicial %s creado con clave temporal: %s", admin.Correo, clave)
	} else {
		log.Printf("admin inicial %s creado", admin.Correo)
	}
	return nil
}
