package facade

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	f *Facade
}

func NewHandler(f *Facade) *Handler {
	return &Handler{f: f}
}

func (h *Handler) RegisterRoutes(admin *echo.Group) {
	admin.POST("/reset", h.ResetDatabase)
}

func (h *Handler) ResetDatabase(c echo.Context) error {
	if err := h.f.ResetDatabase(c.Request().Context()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "reset"})
}
