package identity

import (
	"context"

	"github.com/nexushealth/nexus/internal/model"
)

type Service struct {
	patients PatientRepository
}

func NewService(patients PatientRepository) *Service {
	return &Service{patients: patients}
}

func (s *Service) ListPatients(ctx context.Context) ([]model.Patient, error) {
	return s.patients.List(ctx)
}

func (s *Service) GetPatient(ctx context.Context, id string) (*model.Patient, error) {
	return s.patients.Get(ctx, id)
}
