package clinical

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nexushealth/nexus/internal/model"
	"github.com/nexushealth/nexus/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/symptoms", h.ListSymptoms)
	api.POST("/symptoms", h.RecordSymptom)
	api.DELETE("/symptoms/:id", h.ResolveSymptom)
	api.GET("/vitals", h.ListVitals)
	api.GET("/vitals/history", h.VitalsHistory)
	api.POST("/vitals", h.RecordVital)
}

func (h *Handler) ListSymptoms(c echo.Context) error {
	items, err := h.svc.ListSymptoms(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) RecordSymptom(c echo.Context) error {
	var in RecordSymptomInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	sym, err := h.svc.RecordSymptom(c.Request().Context(), in)
	if err != nil {
		if errors.Is(err, model.ErrInvalidInput) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, sym)
}

func (h *Handler) ResolveSymptom(c echo.Context) error {
	resolved, err := h.svc.ResolveSymptom(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !resolved {
		return echo.NewHTTPError(http.StatusNotFound, "symptom not found")
	}
	return c.JSON(http.StatusOK, map[string]bool{"resolved": true})
}

func (h *Handler) ListVitals(c echo.Context) error {
	if patientID := c.QueryParam("patient_id"); patientID != "" {
		items, err := h.svc.ListVitalsByPatient(c.Request().Context(), patientID)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, items)
	}
	items, err := h.svc.ListVitals(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) VitalsHistory(c echo.Context) error {
	patientID := c.QueryParam("patient_id")
	if patientID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "patient_id is required")
	}
	// No limit means the full series; an explicit limit is clamped.
	limit := 0
	if c.QueryParam("limit") != "" {
		limit = pagination.FromContext(c).Limit
	}
	items, err := h.svc.VitalsHistory(c.Request().Context(), patientID,
		model.VitalType(c.QueryParam("type")), limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) RecordVital(c echo.Context) error {
	var in RecordVitalInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	v, err := h.svc.RecordVital(c.Request().Context(), in)
	if err != nil {
		if errors.Is(err, model.ErrInvalidInput) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, v)
}
