package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain/patient"
	"github.com/dmehra2102/prod-golang-projects/carehub/pkg/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const resourcePatient = "patient"

type PatientService struct {
	repo     patient.Repository
	auditSvc *AuditService
	metrics  *metrics.Collector
	log      *zap.Logger
}

func NewPatientService(repo patient.Repository, auditSvc *AuditService, m *metrics.Collector, log *zap.Logger) *PatientService {
	return &PatientService{
		repo:     repo,
		auditSvc: auditSvc,
		metrics:  m,
		log:      log,
	}
}

func (s *PatientService) CreatePatient(ctx context.Context, caller domain.Caller, cmd *patient.CreatePatientCommand) (*patient.Patient, error) {
	if err := validateCreateCommand(cmd); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByNationalID(ctx, strings.TrimSpace(cmd.NationalID), nil)
	if err != nil {
		s.log.Error("failed to check national ID uniqueness", zap.Error(err))
		return nil, fmt.Errorf("checking uniqueness: %w", err)
	}
	if exists {
		return nil, patient.ErrPatientAlreadyExists
	}

	p := &patient.Patient{
		ID:          uuid.New(),
		FirstName:   strings.TrimSpace(cmd.FirstName),
		LastName:    strings.TrimSpace(cmd.LastName),
		DateOfBirth: cmd.DateOfBirth,
		Gender:      cmd.Gender,
		BloodType:   cmd.BloodType,
		NationalID:  strings.TrimSpace(cmd.NationalID),
		ContactInfo: patient.ContactInfo{
			Phone:   strings.TrimSpace(cmd.Phone),
			Email:   strings.ToLower(strings.TrimSpace(cmd.Email)),
			Address: cmd.Address,
			City:    cmd.City,
			State:   cmd.State,
			ZipCode: cmd.ZipCode,
			Country: cmd.Country,
		},
		EmergencyContact:  cmd.EmergencyContact,
		Insurance:         cmd.Insurance,
		Allergies:         cmd.Allergies,
		ChronicConditions: cmd.ChronicConditions,
		AssignedDoctorID:  cmd.AssignedDoctorID,
		Notes:             cmd.Notes,
		Status:            patient.StatusActive,
		CreatedBy:         caller.UserID,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		s.log.Error("failed to create patient", zap.Error(err))
		return nil, fmt.Errorf("creating patient: %w", err)
	}
	s.metrics.PatientsCreatedTotal.Inc()

	s.auditSvc.LogAsync(ctx, auditFor(caller, domain.ActionCreate, resourcePatient, p.ID))

	s.log.Info("patient created",
		zap.String("patient_id", p.ID.String()),
		zap.String("created_by", caller.UserID.String()),
	)

	return p, nil
}

func (s *PatientService) GetPatient(ctx context.Context, caller domain.Caller, id uuid.UUID) (*patient.Patient, error) {
	// Patients can only read their own chart.
	if caller.Is(domain.RolePatient) {
		if caller.PatientID == nil || *caller.PatientID != id {
			return nil, ErrForbidden
		}
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, auditFor(caller, domain.ActionRead, resourcePatient, id))

	return p, nil
}

// FindByNationalID is the front-desk lookup used at check-in.
func (s *PatientService) FindByNationalID(ctx context.Context, caller domain.Caller, nationalID string) (*patient.Patient, error) {
	if caller.Is(domain.RolePatient) {
		return nil, ErrForbidden
	}
	nationalID = strings.TrimSpace(nationalID)
	if nationalID == "" {
		return nil, &ValidationError{Fields: []string{"national_id is required"}}
	}

	p, err := s.repo.GetByNationalID(ctx, nationalID)
	if err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, auditFor(caller, domain.ActionRead, resourcePatient, p.ID))
	return p, nil
}

func (s *PatientService) UpdatePatient(ctx context.Context, caller domain.Caller, id uuid.UUID, cmd *patient.UpdatePatientCommand) (*patient.Patient, error) {
	if err := validateUpdateCommand(cmd); err != nil {
		return nil, err
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Status == patient.StatusDeceased {
		return nil, patient.ErrPatientDeceased
	}

	p.Apply(cmd)
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("updating patient: %w", err)
	}

	entry := auditFor(caller, domain.ActionUpdate, resourcePatient, id)
	entry.Changes = map[string]any{"fields": changedPatientFields(cmd)}
	s.auditSvc.LogAsync(ctx, entry)

	return p, nil
}

func (s *PatientService) DeactivatePatient(ctx context.Context, caller domain.Caller, id uuid.UUID) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := p.Deactivate(); err != nil {
		return err
	}

	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return fmt.Errorf("deactivating patient: %w", err)
	}

	s.auditSvc.LogAsync(ctx, auditFor(caller, domain.ActionDelete, resourcePatient, id))
	return nil
}

func (s *PatientService) ListPatients(ctx context.Context, caller domain.Caller, q *patient.ListPatientsQuery) (*patient.PagedPatients, error) {
	if caller.Is(domain.RolePatient) {
		return nil, ErrForbidden
	}
	if q.Status != nil && !q.Status.IsValid() {
		return nil, &ValidationError{Fields: []string{"status is invalid"}}
	}
	q.Normalize()
	return s.repo.List(ctx, q)
}

func validateCreateCommand(cmd *patient.CreatePatientCommand) error {
	var v validation
	v.check(strings.TrimSpace(cmd.FirstName) != "", "first_name is required")
	v.check(strings.TrimSpace(cmd.LastName) != "", "last_name is required")
	v.check(!cmd.DateOfBirth.IsZero(), "date_of_birth is required")
	v.check(!cmd.DateOfBirth.After(time.Now()), "date_of_birth cannot be in the future")
	v.check(cmd.Gender.IsValid(), "gender is invalid")
	v.check(cmd.BloodType.IsValid(), "blood_type is invalid")
	v.check(strings.TrimSpace(cmd.NationalID) != "", "national_id is required")
	return v.err()
}

func validateUpdateCommand(cmd *patient.UpdatePatientCommand) error {
	var v validation
	if cmd.FirstName != nil {
		v.check(strings.TrimSpace(*cmd.FirstName) != "", "first_name cannot be empty")
	}
	if cmd.LastName != nil {
		v.check(strings.TrimSpace(*cmd.LastName) != "", "last_name cannot be empty")
	}
	if cmd.Gender != nil {
		v.check(cmd.Gender.IsValid(), "gender is invalid")
	}
	if cmd.BloodType != nil {
		v.check(cmd.BloodType.IsValid(), "blood_type is invalid")
	}
	return v.err()
}

// changedPatientFields lists field names only; values are PHI and stay out of the audit trail.
func changedPatientFields(cmd *patient.UpdatePatientCommand) []string {
	var f []string
	add := func(set bool, name string) {
		if set {
			f = append(f, name)
		}
	}
	add(cmd.FirstName != nil, "first_name")
	add(cmd.LastName != nil, "last_name")
	add(cmd.Gender != nil, "gender")
	add(cmd.BloodType != nil, "blood_type")
	add(cmd.Phone != nil, "phone")
	add(cmd.Email != nil, "email")
	add(cmd.Address != nil || cmd.City != nil || cmd.State != nil || cmd.ZipCode != nil || cmd.Country != nil, "address")
	add(cmd.EmergencyContact != nil, "emergency_contact")
	add(cmd.Insurance != nil, "insurance")
	add(cmd.Allergies != nil, "allergies")
	add(cmd.ChronicConditions != nil, "chronic_conditions")
	add(cmd.AssignedDoctorID != nil, "assigned_doctor_id")
	add(cmd.Notes != nil, "notes")
	return f
}
