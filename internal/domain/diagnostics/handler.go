package diagnostics

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nexushealth/nexus/internal/model"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/lab-orders", h.ListLabOrders)
	api.GET("/lab-orders/:id", h.GetLabOrder)
	api.POST("/lab-orders", h.CreateLabOrder)
	api.PATCH("/lab-orders/:id", h.UpdateLabOrder)
	api.POST("/lab-orders/:id/complete", h.CompleteLabOrder)
}

func (h *Handler) ListLabOrders(c echo.Context) error {
	if patientID := c.QueryParam("patient_id"); patientID != "" {
		items, err := h.svc.ListLabOrdersByPatient(c.Request().Context(), patientID)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, items)
	}
	items, err := h.svc.ListLabOrders(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) GetLabOrder(c echo.Context) error {
	o, err := h.svc.GetLabOrder(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "lab order not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, o)
}

func (h *Handler) CreateLabOrder(c echo.Context) error {
	var in CreateLabOrderInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	o, err := h.svc.CreateLabOrder(c.Request().Context(), in)
	if err != nil {
		if errors.Is(err, model.ErrInvalidInput) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, o)
}

func (h *Handler) UpdateLabOrder(c echo.Context) error {
	var in UpdateLabOrderInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	o, err := h.svc.UpdateLabOrder(c.Request().Context(), c.Param("id"), in)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "lab order not found")
		case errors.Is(err, model.ErrInvalidInput):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, o)
}

func (h *Handler) CompleteLabOrder(c echo.Context) error {
	var body struct {
		Values map[string]string `json:"values"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	o, err := h.svc.CompleteLabOrder(c.Request().Context(), c.Param("id"), body.Values)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "lab order not found")
		case errors.Is(err, model.ErrInvalidInput):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, o)
}
