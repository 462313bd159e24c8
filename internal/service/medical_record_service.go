package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain/appointment"
	mr "github.com/dmehra2102/prod-golang-projects/carehub/internal/domain/medical_record"
	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain/patient"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const resourceMedicalRecord = "medical_record"

type MedicalRecordService struct {
	repo            mr.Repository
	patientRepo     patient.Repository
	appointmentRepo appointment.Repository
	auditSvc        *AuditService
	log             *zap.Logger
}

func NewMedicalRecordService(
	repo mr.Repository,
	patientRepo patient.Repository,
	appointmentRepo appointment.Repository,
	auditSvc *AuditService,
	log *zap.Logger,
) *MedicalRecordService {
	return &MedicalRecordService{
		repo:            repo,
		patientRepo:     patientRepo,
		appointmentRepo: appointmentRepo,
		auditSvc:        auditSvc,
		log:             log,
	}
}

func (s *MedicalRecordService) CreateRecord(ctx context.Context, caller domain.Caller, cmd *mr.CreateRecordCommand) (*mr.MedicalRecord, error) {
	if !caller.Is(domain.RoleDoctor, domain.RoleNurse, domain.RoleAdmin) {
		return nil, ErrForbidden
	}
	if !cmd.Type.IsValid() {
		return nil, mr.ErrInvalidRecordType
	}
	if cmd.DoctorID == uuid.Nil && caller.StaffID != nil {
		cmd.DoctorID = *caller.StaffID
	}
	if cmd.DoctorID == uuid.Nil {
		return nil, &ValidationError{Fields: []string{"doctor_id is required"}}
	}

	if _, err := s.patientRepo.GetByID(ctx, cmd.PatientID); err != nil {
		return nil, err
	}

	if cmd.AppointmentID != nil {
		a, err := s.appointmentRepo.GetByID(ctx, *cmd.AppointmentID)
		if err != nil {
			return nil, err
		}
		if a.PatientID != cmd.PatientID {
			return nil, &ValidationError{Fields: []string{"appointment_id belongs to another patient"}}
		}
	}

	now := time.Now().UTC()
	attachments := make([]mr.Attachment, 0, len(cmd.Attachments))
	for _, att := range cmd.Attachments {
		if att.ID == uuid.Nil {
			att.ID = uuid.New()
		}
		if att.UploadedAt.IsZero() {
			att.UploadedAt = now
		}
		attachments = append(attachments, att)
	}

	record := &mr.MedicalRecord{
		ID:            uuid.New(),
		PatientID:     cmd.PatientID,
		AppointmentID: cmd.AppointmentID,
		DoctorID:      cmd.DoctorID,
		Type:          cmd.Type,
		SOAPNote:      cmd.SOAPNote,
		Vitals:        cmd.Vitals,
		Diagnoses:     cmd.Diagnoses,
		Attachments:   attachments,
		Notes:         cmd.Notes,
		CreatedBy:     caller.UserID,
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("creating medical record: %w", err)
	}

	s.auditSvc.LogAsync(ctx, auditFor(caller, domain.ActionCreate, resourceMedicalRecord, record.ID))

	return record, nil
}

func (s *MedicalRecordService) GetRecord(ctx context.Context, caller domain.Caller, id uuid.UUID) (*mr.MedicalRecord, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if caller.Is(domain.RolePatient) {
		if caller.PatientID == nil || *caller.PatientID != record.PatientID {
			return nil, ErrForbidden
		}
	}

	s.auditSvc.LogAsync(ctx, auditFor(caller, domain.ActionRead, resourceMedicalRecord, id))

	return record, nil
}

// GetByAppointment returns the record written for an appointment.
func (s *MedicalRecordService) GetByAppointment(ctx context.Context, caller domain.Caller, appointmentID uuid.UUID) (*mr.MedicalRecord, error) {
	record, err := s.repo.GetByAppointmentID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if caller.Is(domain.RolePatient) {
		if caller.PatientID == nil || *caller.PatientID != record.PatientID {
			return nil, ErrForbidden
		}
	}

	s.auditSvc.LogAsync(ctx, auditFor(caller, domain.ActionRead, resourceMedicalRecord, record.ID))
	return record, nil
}

// AddAddendum appends a correction to an existing record without modifying it.
func (s *MedicalRecordService) AddAddendum(ctx context.Context, caller domain.Caller, cmd *mr.AddAddendumCommand) (*mr.Addendum, error) {
	if !caller.Is(domain.RoleDoctor, domain.RoleAdmin) {
		return nil, ErrForbidden
	}
	content := strings.TrimSpace(cmd.Content)
	if content == "" {
		return nil, mr.ErrEmptyAddendum
	}

	if _, err := s.repo.GetByID(ctx, cmd.MedicalRecordID); err != nil {
		return nil, err
	}

	addendum := &mr.Addendum{
		ID:              uuid.New(),
		MedicalRecordID: cmd.MedicalRecordID,
		Content:         content,
		CreatedBy:       caller.UserID,
	}

	if err := s.repo.AddAddendum(ctx, addendum); err != nil {
		return nil, fmt.Errorf("adding addendum: %w", err)
	}

	entry := auditFor(caller, domain.ActionUpdate, resourceMedicalRecord, cmd.MedicalRecordID)
	entry.Changes = map[string]any{"action": "addendum_added", "addendum_id": addendum.ID}
	s.auditSvc.LogAsync(ctx, entry)

	return addendum, nil
}

func (s *MedicalRecordService) ListRecords(ctx context.Context, caller domain.Caller, q *mr.ListRecordsQuery) (*mr.PagedRecords, error) {
	if caller.Is(domain.RolePatient) {
		if caller.PatientID == nil {
			return nil, ErrForbidden
		}
		q.PatientID = caller.PatientID
	}
	if q.Type != nil && !q.Type.IsValid() {
		return nil, mr.ErrInvalidRecordType
	}
	q.Normalize()
	return s.repo.List(ctx, q)
}
