package gateway

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/dentalcare/console/internal/clinic"
	"github.com/dentalcare/console/internal/platform/rest"
	"github.com/dentalcare/console/internal/repository"
)

// registerEntity wires the list/create/update/delete routes for one entity
// under /views. Mutations go straight upstream; the browser re-fetches the
// list afterwards instead of patch-merging.
func registerEntity[T clinic.Record](g *echo.Group, prefix string, r repo[T], missing func(T) []string, setID func(*T, int64)) {
	g.GET(prefix, listEntities(r))
	g.POST(prefix, saveEntity(r, missing, setID, false))
	g.PUT(prefix+"/:id", saveEntity(r, missing, setID, true))
	g.DELETE(prefix+"/:id", removeEntity(r))
}

func listEntities[T clinic.Record](r repo[T]) echo.HandlerFunc {
	return func(c echo.Context) error {
		records, err := r.Fetch(c.Request().Context())
		if err != nil {
			return c.JSON(http.StatusBadGateway, map[string]string{"error": "upstream fetch failed"})
		}
		return c.JSON(http.StatusOK, records)
	}
}

func saveEntity[T clinic.Record](r repo[T], missing func(T) []string, setID func(*T, int64), isUpdate bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		var record T
		if err := c.Bind(&record); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		if isUpdate {
			id, err := parseID(c)
			if err != nil {
				return err
			}
			setID(&record, id)
		}

		if fields := missing(record); len(fields) > 0 {
			return c.JSON(http.StatusBadRequest, map[string]any{
				"error":  "missing required fields",
				"fields": fields,
			})
		}

		if err := r.Save(c.Request().Context(), record, isUpdate); err != nil {
			if errors.Is(err, repository.ErrDuplicateTaxID) {
				return c.JSON(http.StatusConflict, map[string]string{
					"error": "a record with this taxId already exists",
				})
			}
			return relayFailure(c, err)
		}

		status := http.StatusOK
		if !isUpdate {
			status = http.StatusCreated
		}
		return c.JSON(status, record)
	}
}

func removeEntity[T clinic.Record](r repo[T]) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}
		if err := r.Remove(c.Request().Context(), id); err != nil {
			return relayFailure(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

func parseID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

// relayFailure maps an upstream error onto the response: API statuses pass
// through, anything else is a 502.
func relayFailure(c echo.Context, err error) error {
	var apiErr *rest.APIError
	if errors.As(err, &apiErr) {
		return c.JSON(apiErr.StatusCode, map[string]string{
			"error": fmt.Sprintf("upstream rejected the request (%d)", apiErr.StatusCode),
		})
	}
	return c.JSON(http.StatusBadGateway, map[string]string{"error": "upstream unavailable"})
}
