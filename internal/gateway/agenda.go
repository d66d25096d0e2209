package gateway

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"github.com/dentalcare/console/internal/agenda"
	"github.com/dentalcare/console/internal/clinic"
)

// dateParam reads ?date=YYYY-MM-DD, defaulting to today.
func (s *Server) dateParam(c echo.Context) (string, error) {
	date := c.QueryParam("date")
	if date == "" {
		return s.now().Format("2006-01-02"), nil
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, "date must be YYYY-MM-DD")
	}
	return date, nil
}

func (s *Server) AgendaDay(c echo.Context) error {
	date, err := s.dateParam(c)
	if err != nil {
		return err
	}
	appts, err := s.schedules.Fetch(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "upstream fetch failed"})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"date":         date,
		"appointments": agenda.DayAppointments(appts, date),
	})
}

func (s *Server) AgendaWeek(c echo.Context) error {
	date, err := s.dateParam(c)
	if err != nil {
		return err
	}
	appts, err := s.schedules.Fetch(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "upstream fetch failed"})
	}
	days, err := agenda.WeekGrid(appts, date, s.cfg.WeekStartsMonday)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]any{"days": days})
}

func (s *Server) AgendaOccupancy(c echo.Context) error {
	date, err := s.dateParam(c)
	if err != nil {
		return err
	}
	appts, err := s.schedules.Fetch(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "upstream fetch failed"})
	}
	return c.JSON(http.StatusOK, agenda.ComputeOccupancy(appts, date, s.cfg.DaySlots()))
}

func (s *Server) AgendaSlots(c echo.Context) error {
	date, err := s.dateParam(c)
	if err != nil {
		return err
	}
	appts, err := s.schedules.Fetch(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "upstream fetch failed"})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"date":  date,
		"slots": agenda.FreeSlots(appts, date, s.cfg.DaySlots()),
	})
}

// Dashboard aggregates the landing-view numbers. The three collections are
// fetched in parallel; the first failure abandons the cycle.
func (s *Server) Dashboard(c echo.Context) error {
	g, ctx := errgroup.WithContext(c.Request().Context())

	var (
		patients []clinic.Patient
		appts    []clinic.Appointment
		budgets  []clinic.Budget
	)
	g.Go(func() (err error) {
		patients, err = s.patients.Fetch(ctx)
		return err
	})
	g.Go(func() (err error) {
		appts, err = s.schedules.Fetch(ctx)
		return err
	})
	g.Go(func() (err error) {
		budgets, err = s.budgets.Fetch(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "upstream fetch failed"})
	}

	return c.JSON(http.StatusOK, agenda.BuildSummary(patients, appts, budgets, s.now()))
}
