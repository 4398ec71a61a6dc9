package session

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nexushealth/nexus/internal/model"
)

// Snapshot is the serialized mirror state for one session.
type Snapshot struct {
	PatientID     string               `json:"patientId"`
	Loaded        bool                 `json:"loaded"`
	Prescriptions []model.Prescription `json:"prescriptions"`
	LabOrders     []model.LabOrder     `json:"labOrders"`
	Symptoms      []model.Symptom      `json:"symptoms"`
	Vitals        []model.VitalEntry   `json:"vitals"`
}

type Handler struct {
	manager *Manager
}

func NewHandler(manager *Manager) *Handler {
	return &Handler{manager: manager}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/session/:patientId", h.GetSnapshot)
}

// GetSnapshot returns the mirrored collections for a patient session,
// loading the session on first access.
func (h *Handler) GetSnapshot(c echo.Context) error {
	p := h.manager.Get(c.Param("patientId"))
	if !p.Loaded() {
		if err := p.Load(c.Request().Context()); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(http.StatusOK, Snapshot{
		PatientID:     p.PatientID(),
		Loaded:        p.Loaded(),
		Prescriptions: p.Prescriptions(),
		LabOrders:     p.LabOrders(),
		Symptoms:      p.Symptoms(),
		Vitals:        p.Vitals(),
	})
}
