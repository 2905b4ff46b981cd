package devapi

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/guilhermemouraovc/cm-admin/internal/model"
)

// Server is an in-memory stand-in for the school backend
type Server struct {
	cfg    Config
	store  *Store
	logger *slog.Logger
}

// NewServer creates a server; zero Config fields take development defaults
func NewServer(cfg Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	s := &Server{cfg: cfg.withDefaults(), store: NewStore(), logger: logger}
	if cfg.Seed {
		if err := Seed(s.store); err != nil {
			logger.Warn("seeding failed", "error", err)
		}
	}
	return s
}

// Store exposes the backing store
func (s *Server) Store() *Store {
	return s.store
}

// Handler creates the Chi router with all routes and middleware
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(CORS)
	r.Use(RequestID)
	r.Use(Logger(s.logger))
	r.Use(Recovery(s.logger))

	authH := &authHandler{
		cfg:   s.cfg,
		admin: model.Profile{ID: 1, Username: s.cfg.AdminUsername, Nome: "Administrador", Role: "ADMIN"},
	}
	dashH := &DashboardHandler{store: s.store}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Post("/auth/login", authH.Login)

	r.Group(func(r chi.Router) {
		r.Use(BearerAuth(s.cfg.JWTSecret))

		r.Get("/auth/validate", authH.Validate)

		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/metrics", dashH.Metrics)
			r.Get("/top-students", dashH.TopStudents)
			r.Get("/absences-by-class", dashH.AbsencesByClass)
			r.Get("/delivered-uniforms", dashH.DeliveredUniforms)
		})

		for _, ki := range model.Kinds() {
			r.Route(ki.Kind.Endpoint(), NewCollectionHandler(ki.Kind, s.store).Routes)
		}
	})

	return r
}
