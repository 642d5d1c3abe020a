package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/codehercare/clinic-api/internal/model"
	"github.com/codehercare/clinic-api/internal/repository"
)

type patientRepository struct {
	db *sqlx.DB
}

func NewPatientRepository(db *sqlx.DB) repository.PatientRepository {
	return &patientRepository{db: db}
}

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	query := `
		INSERT INTO patients (
			name, age, condition, appointment, contact, emergency_contact,
			email, address, wait_time, location, risk_factors, notes,
			sexual_partners, first_sexual_age, hpv_positive, abnormal_pap,
			smoking, stds_history, insurance, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
			$13, $14, $15, $16, $17, $18, $19, $20, $21
		)
		RETURNING id
	`
	patient.CreatedAt = time.Now()
	patient.UpdatedAt = time.Now()

	err := r.db.QueryRowContext(ctx, query,
		patient.Name,
		patient.Age,
		patient.Condition,
		patient.Appointment,
		patient.Contact,
		patient.EmergencyContact,
		patient.Email,
		patient.Address,
		patient.WaitTime,
		patient.Location,
		patient.RiskFactors,
		patient.Notes,
		patient.SexualPartners,
		patient.FirstSexualAge,
		patient.HPVPositive,
		patient.AbnormalPap,
		patient.Smoking,
		patient.STDsHistory,
		patient.Insurance,
		patient.CreatedAt,
		patient.UpdatedAt,
	).Scan(&patient.ID)
	if err != nil {
		return fmt.Errorf("failed to create patient: %w", err)
	}
	return nil
}

func (r *patientRepository) Get(ctx context.Context, id int64) (*model.Patient, error) {
	query := `SELECT * FROM patients WHERE id = $1`
	var patient model.Patient
	err := r.db.GetContext(ctx, &patient, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return &patient, nil
}

func (r *patientRepository) Update(ctx context.Context, patient *model.Patient) error {
	query := `
		UPDATE patients SET
			name = $1, age = $2, condition = $3, appointment = $4,
			contact = $5, emergency_contact = $6, email = $7, address = $8,
			wait_time = $9, location = $10, risk_factors = $11, notes = $12,
			sexual_partners = $13, first_sexual_age = $14, hpv_positive = $15,
			abnormal_pap = $16, smoking = $17, stds_history = $18,
			insurance = $19, updated_at = $20
		WHERE id = $21
	`
	_, err := r.db.ExecContext(ctx, query,
		patient.Name,
		patient.Age,
		patient.Condition,
		patient.Appointment,
		patient.Contact,
		patient.EmergencyContact,
		patient.Email,
		patient.Address,
		patient.WaitTime,
		patient.Location,
		patient.RiskFactors,
		patient.Notes,
		patient.SexualPartners,
		patient.FirstSexualAge,
		patient.HPVPositive,
		patient.AbnormalPap,
		patient.Smoking,
		patient.STDsHistory,
		patient.Insurance,
		time.Now(),
		patient.ID,
	)
	return err
}

func (r *patientRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM patients WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *patientRepository) List(ctx context.Context) ([]*model.Patient, error) {
	query := `SELECT * FROM patients ORDER BY id`
	var patients []*model.Patient
	err := r.db.SelectContext(ctx, &patients, query)
	return patients, err
}

func (r *patientRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM patients`)
	return count, err
}

// CountAppointmentsOn matches the appointment column by ISO date prefix,
// mirroring how the appointment field is stored as free text.
func (r *patientRepository) CountAppointmentsOn(ctx context.Context, isoDate string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM patients WHERE appointment LIKE $1 || '%'`
	err := r.db.GetContext(ctx, &count, query, isoDate)
	return count, err
}
