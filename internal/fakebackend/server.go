// the fakebackend package serves the security (Seguridad) and principal (Parametros, Materia, Profesor,
// Estudiante) services from a single in-memory process so the console can be run and tested without the
// hosted backends.
//
// Both services are mounted under /api, so the same base URL can be used for SECURITY_BASE_URL and PRINCIPAL_BASE_URL.
package fakebackend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jub0bs/cors"

	"github.com/Brayan980312/ProyectoUniversidad/internal/config"
	"github.com/Brayan980312/ProyectoUniversidad/internal/logger"
	"github.com/Brayan980312/ProyectoUniversidad/internal/version"
)

type Server struct {
	cfg          *config.BackendConfig
	records      *Records
	authService  *AuthService
	serverLogger *slog.Logger
	httpLogger   *slog.Logger
	router       *chi.Mux
}

func NewServer(cfg *config.BackendConfig, records *Records, authService *AuthService, log *slog.Logger) (*Server, error) {
	if log == nil {
		log = logger.Discard()
	}

	s := &Server{
		cfg:          cfg,
		records:      records,
		authService:  authService,
		serverLogger: log.With(slog.String("component", "fakebackend")),
		httpLogger:   log.With(slog.String("component", "fakebackend-http")),
		router:       chi.NewRouter(),
	}

	corsMiddleware, err := NewCORS(cfg.AllowedOrigins)
	if err != nil {
		return nil, fmt.Errorf("CORS configuration failed: %w", err)
	}

	s.setupMiddleware(corsMiddleware)
	s.registerCommonRoutes()
	s.registerSecurityRoutes()
	s.registerPrincipalRoutes()

	return s, nil
}

// New seeds a fresh record set and returns a server for it
func New(cfg *config.BackendConfig, log *slog.Logger) (*Server, error) {
	authService := NewAuthService(cfg.SecretKey, cfg.AccessTokenExpiry)
	records := NewRecords()
	if err := Seed(records, authService); err != nil {
		return nil, fmt.Errorf("seeding records: %w", err)
	}
	return NewServer(cfg, records, authService, log)
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Records() *Records {
	return s.records
}

// Run serves on HOST:PORT until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	serverAddr := net.JoinHostPort(s.cfg.Host, fmt.Sprint(s.cfg.Port))

	httpServer := &http.Server{
		Addr:         serverAddr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		s.serverLogger.Info("fake backend listening",
			slog.String("environment", s.cfg.Environment),
			slog.String("address", serverAddr),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err, ok := <-serverErr:
		if ok {
			return fmt.Errorf("fake backend failed to start: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.serverLogger.Info("fake backend shutting down")

	// force an exit if the server does not shut down within the configured timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ServerShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		s.serverLogger.Warn("shutdown error", slog.String("error", err.Error()))
		return err
	}
	return nil
}

// setupMiddleware sets up the middleware that applies to all requests
func (s *Server) setupMiddleware(corsMiddleware *cors.Middleware) {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(logger.RequestLogging(s.httpLogger))
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(CORS(corsMiddleware))
	s.router.Use(RateLimit(s.cfg.RateLimitRPS, s.cfg.RateLimitBurst))
}

func (s *Server) registerCommonRoutes() {
	s.router.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
		RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	s.router.Get("/version", func(w http.ResponseWriter, r *http.Request) {
		RespondWithJSON(w, http.StatusOK, version.Get())
	})
}

// registerSecurityRoutes serves MSSEGURIDAD. These routes need no token.
func (s *Server) registerSecurityRoutes() {
	security := NewSecurityHandler(s.records, s.authService)

	s.router.Route("/api/Seguridad", func(r chi.Router) {
		r.Post("/LoginUsuario", security.LoginHandler)
		r.Post("/RegistrarUsuario", security.RegisterHandler)
	})
}

// registerPrincipalRoutes serves MSPRINCIPAL. Every route requires a valid bearer token.
func (s *Server) registerPrincipalRoutes() {
	principal := NewPrincipalHandler(s.records)

	s.router.Group(func(r chi.Router) {
		r.Use(s.authService.RequireValidAccessToken)

		r.Get("/api/Parametros/ConsultarParametros", principal.SearchParametersHandler)
		r.Get("/api/Materia/ConsultarMaterias", principal.SearchCoursesHandler)
		r.Get("/api/Profesor/ConsultarProfesores", principal.SearchProfessorsHandler)
		r.Get("/api/Profesor/ConsultarMateriasProfesor", principal.SearchProfessorCoursesHandler)

		// students are limited to their own records by the handlers
		r.Get("/api/Estudiante/ConsultarMateriasEstudiante", principal.SearchStudentCoursesHandler)
		r.Post("/api/Estudiante/AsociarMateriaEstudiante", principal.EnrollStudentCourseHandler)
		r.Get("/api/Estudiante/ConsultarCompanerosMaterias", principal.SearchClassmatesHandler)

		r.Group(func(r chi.Router) {
			r.Use(s.authService.RequireAdmin)

			r.Post("/api/Parametros/ActualizarParametro", principal.UpdateParameterHandler)
			r.Post("/api/Materia/CrearActualizarMateria", principal.SaveCourseHandler)
			r.Post("/api/Profesor/CrearActualizarProfesor", principal.SaveProfessorHandler)
			r.Post("/api/Profesor/AsignarProfesorMateria", principal.AssignProfessorCourseHandler)
			r.Get("/api/Estudiante/ConsultarEstudiante", principal.SearchStudentsHandler)
		})
	})
}
