package tools

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nexushealth/nexus/internal/model"
)

type Handler struct {
	registry *Registry
}

func NewHandler(registry *Registry) *Handler {
	return &Handler{registry: registry}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/tools", h.ListTools)
	api.POST("/tools/:name", h.InvokeTool)
}

func (h *Handler) ListTools(c echo.Context) error {
	return c.JSON(http.StatusOK, h.registry.List())
}

func (h *Handler) InvokeTool(c echo.Context) error {
	args := make(map[string]interface{})
	if err := c.Bind(&args); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.registry.Invoke(c.Request().Context(), c.Param("name"), args)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnknownTool):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, model.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, model.ErrInvalidInput):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"result": result})
}
