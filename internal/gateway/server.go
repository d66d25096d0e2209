// Package gateway is the HTTP surface of the console: a thin echo server
// that logs into the clinic API, relays entity mutations and serves
// enriched view models to the browser shell. It holds no collection
// cache; every view request runs a fresh fetch cycle upstream.
package gateway

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/dentalcare/console/internal/clinic"
	"github.com/dentalcare/console/internal/config"
	"github.com/dentalcare/console/internal/platform/middleware"
	"github.com/dentalcare/console/internal/platform/rest"
	"github.com/dentalcare/console/internal/repository"
	"github.com/dentalcare/console/internal/session"
)

const maxRequestBody = 256 << 10

// repo is the slice of the typed repository the handlers consume.
type repo[T clinic.Record] interface {
	Fetch(ctx context.Context) ([]T, error)
	Save(ctx context.Context, record T, isUpdate bool) error
	Remove(ctx context.Context, id int64) error
}

type Server struct {
	cfg    *config.Config
	log    zerolog.Logger
	store  *session.Store
	client *rest.Client
	echo   *echo.Echo
	now    func() time.Time

	patients      repo[clinic.Patient]
	professionals repo[clinic.Professional]
	procedures    repo[clinic.Procedure]
	schedules     repo[clinic.Appointment]
	budgets       repo[clinic.Budget]
}

func New(cfg *config.Config, store *session.Store, client *rest.Client, log zerolog.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		log:    log,
		store:  store,
		client: client,
		now:    time.Now,

		patients:      repository.Patients(client, log),
		professionals: repository.Professionals(client, log),
		procedures:    repository.Procedures(client, log),
		schedules:     repository.Schedules(client, log),
		budgets:       repository.Budgets(client, log),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(log))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(log))
	e.Use(middleware.BodyLimit(maxRequestBody))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
	}))

	s.registerRoutes(e)
	s.echo = e
	return s
}

func (s *Server) registerRoutes(e *echo.Echo) {
	e.GET("/health", s.Health)

	e.POST("/session/login", s.Login)
	e.POST("/session/logout", s.Logout)
	e.GET("/session", s.Session)
	e.PUT("/session/tab", s.SetTab)

	views := e.Group("/views")
	registerEntity(views, "/patients", s.patients, clinic.Patient.Missing, func(p *clinic.Patient, id int64) { p.ID = id })
	registerEntity(views, "/professionals", s.professionals, clinic.Professional.Missing, func(p *clinic.Professional, id int64) { p.ID = id })
	registerEntity(views, "/procedures", s.procedures, clinic.Procedure.Missing, func(p *clinic.Procedure, id int64) { p.ID = id })
	registerEntity(views, "/schedules", s.schedules, clinic.Appointment.Missing, func(a *clinic.Appointment, id int64) { a.ID = id })
	registerEntity(views, "/budgets", s.budgets, clinic.Budget.Missing, func(b *clinic.Budget, id int64) { b.ID = id })

	views.GET("/agenda/day", s.AgendaDay)
	views.GET("/agenda/week", s.AgendaWeek)
	views.GET("/agenda/occupancy", s.AgendaOccupancy)
	views.GET("/agenda/slots", s.AgendaSlots)
	views.GET("/dashboard", s.Dashboard)
}

func (s *Server) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Handler exposes the configured router, mostly for tests.
func (s *Server) Handler() http.Handler { return s.echo }

func (s *Server) Start(addr string) error { return s.echo.Start(addr) }

func (s *Server) Shutdown(ctx context.Context) error { return s.echo.Shutdown(ctx) }
