package patient

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/codehercare/clinic-api/internal/model"
	"github.com/codehercare/clinic-api/internal/repository"
	apperrors "github.com/codehercare/clinic-api/pkg/errors"
)

type Service struct {
	repo   repository.PatientRepository
	outbox repository.OutboxRepository
}

func NewService(repo repository.PatientRepository, outbox repository.OutboxRepository) *Service {
	return &Service{repo: repo, outbox: outbox}
}

func (s *Service) Create(ctx context.Context, req *model.CreatePatientRequest) (*model.Patient, error) {
	patient := &model.Patient{
		Name:             req.Name,
		Age:              req.Age,
		Condition:        req.Condition,
		Appointment:      req.Appointment,
		Contact:          req.Contact,
		EmergencyContact: req.EmergencyContact,
		Email:            req.Email,
		Address:          req.Address,
		WaitTime:         req.WaitTime,
		Location:         req.Location,
		RiskFactors:      req.RiskFactors,
		Notes:            req.Notes,
		SexualPartners:   req.SexualPartners,
		FirstSexualAge:   req.FirstSexualAge,
		HPVPositive:      req.HPVPositive,
		AbnormalPap:      req.AbnormalPap,
		Smoking:          req.Smoking,
		STDsHistory:      req.STDsHistory,
		Insurance:        req.Insurance,
	}

	if err := s.repo.Create(ctx, patient); err != nil {
		return nil, apperrors.NewPersistence(err)
	}

	s.publish(ctx, model.EventPatientCreated, patient.ID)
	log.Info().Int64("patient_id", patient.ID).Msg("patient created")
	return patient, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*model.Patient, error) {
	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NewNotFound(fmt.Sprintf("patient %d", id), err)
		}
		return nil, apperrors.NewPersistence(err)
	}
	return patient, nil
}

// Update applies the non-nil request fields. The risk snapshot is not
// reachable from here; only the assessment pipeline writes it.
func (s *Service) Update(ctx context.Context, id int64, req *model.UpdatePatientRequest) (*model.Patient, error) {
	patient, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	applyUpdate(patient, req)

	if err := s.repo.Update(ctx, patient); err != nil {
		return nil, apperrors.NewPersistence(err)
	}
	return patient, nil
}

// Delete removes the patient; history rows go with it by cascade.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return apperrors.NewPersistence(err)
	}

	s.publish(ctx, model.EventPatientDeleted, id)
	log.Info().Int64("patient_id", id).Msg("patient deleted")
	return nil
}

func (s *Service) List(ctx context.Context) ([]*model.Patient, error) {
	patients, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.NewPersistence(err)
	}
	return patients, nil
}

func (s *Service) publish(ctx context.Context, eventType string, patientID int64) {
	if s.outbox == nil {
		return
	}

	payload, err := json.Marshal(map[string]int64{"patient_id": patientID})
	if err != nil {
		return
	}
	event := &model.OutboxEvent{EventType: eventType, Payload: payload}
	if err := s.outbox.Create(ctx, event); err != nil {
		log.Error().Err(err).Int64("patient_id", patientID).Str("event_type", eventType).
			Msg("failed to queue patient event")
	}
}

func applyUpdate(patient *model.Patient, req *model.UpdatePatientRequest) {
	if req.Name != nil {
		patient.Name = *req.Name
	}
	if req.Age != nil {
		patient.Age = *req.Age
	}
	if req.Condition != nil {
		patient.Condition = *req.Condition
	}
	if req.Appointment != nil {
		patient.Appointment = *req.Appointment
	}
	if req.Contact != nil {
		patient.Contact = *req.Contact
	}
	if req.EmergencyContact != nil {
		patient.EmergencyContact = req.EmergencyContact
	}
	if req.Email != nil {
		patient.Email = req.Email
	}
	if req.Address != nil {
		patient.Address = req.Address
	}
	if req.WaitTime != nil {
		patient.WaitTime = req.WaitTime
	}
	if req.Location != nil {
		patient.Location = req.Location
	}
	if req.RiskFactors != nil {
		patient.RiskFactors = req.RiskFactors
	}
	if req.Notes != nil {
		patient.Notes = req.Notes
	}
	if req.SexualPartners != nil {
		patient.SexualPartners = req.SexualPartners
	}
	if req.FirstSexualAge != nil {
		patient.FirstSexualAge = req.FirstSexualAge
	}
	if req.HPVPositive != nil {
		patient.HPVPositive = req.HPVPositive
	}
	if req.AbnormalPap != nil {
		patient.AbnormalPap = req.AbnormalPap
	}
	if req.Smoking != nil {
		patient.Smoking = req.Smoking
	}
	if req.STDsHistory != nil {
		patient.STDsHistory = req.STDsHistory
	}
	if req.Insurance != nil {
		patient.Insurance = req.Insurance
	}
}
