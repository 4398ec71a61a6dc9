package intent

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/route", h.Route)
}

func (h *Handler) Route(c echo.Context) error {
	var body struct {
		Message string `json:"message"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	portal := Route(body.Message)
	return c.JSON(http.StatusOK, map[string]string{
		"portal": string(portal),
		"path":   portal.Path(),
	})
}
