package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain/appointment"
	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain/notification"
	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain/patient"
	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain/staff"
	"github.com/dmehra2102/prod-golang-projects/carehub/pkg/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const resourceAppointment = "appointment"

var ErrNotADoctor = errors.New("appointments can only be booked with an active doctor")

type AppointmentService struct {
	repo        appointment.Repository
	patientRepo patient.Repository
	staffRepo   staff.Repository
	userRepo    UserRepository
	notifier    Notifier
	auditSvc    *AuditService
	metrics     *metrics.Collector
	log         *zap.Logger
}

func NewAppointmentService(
	repo appointment.Repository,
	patientRepo patient.Repository,
	staffRepo staff.Repository,
	userRepo UserRepository,
	notifier Notifier,
	auditSvc *AuditService,
	m *metrics.Collector,
	log *zap.Logger,
) *AppointmentService {
	return &AppointmentService{
		repo:        repo,
		patientRepo: patientRepo,
		staffRepo:   staffRepo,
		userRepo:    userRepo,
		notifier:    notifier,
		auditSvc:    auditSvc,
		metrics:     m,
		log:         log,
	}
}

func (s *AppointmentService) ScheduleAppointment(ctx context.Context, caller domain.Caller, cmd *appointment.CreateAppointmentCommand) (*appointment.Appointment, error) {
	// Patients may only book for themselves.
	if caller.Is(domain.RolePatient) {
		if caller.PatientID == nil {
			return nil, ErrForbidden
		}
		if cmd.PatientID != uuid.Nil && cmd.PatientID != *caller.PatientID {
			return nil, ErrForbidden
		}
		cmd.PatientID = *caller.PatientID
	}

	if cmd.DurationMins == 0 {
		cmd.DurationMins = 30
	}
	if err := validateSlot(cmd.ScheduledAt, cmd.DurationMins); err != nil {
		return nil, err
	}
	if !cmd.Type.IsValid() {
		return nil, appointment.ErrInvalidAppointmentType
	}

	p, err := s.patientRepo.GetByID(ctx, cmd.PatientID)
	if err != nil {
		return nil, err
	}
	if !p.IsActive() {
		return nil, patient.ErrPatientInactive
	}

	if err := s.checkDoctor(ctx, cmd.DoctorID); err != nil {
		return nil, err
	}

	endsAt := cmd.ScheduledAt.Add(time.Duration(cmd.DurationMins) * time.Minute)
	conflict, err := s.repo.HasConflict(ctx, cmd.DoctorID, cmd.ScheduledAt, endsAt, nil)
	if err != nil {
		return nil, fmt.Errorf("checking conflicts: %w", err)
	}
	if conflict {
		return nil, appointment.ErrAppointmentConflict
	}

	a := &appointment.Appointment{
		ID:             uuid.New(),
		PatientID:      cmd.PatientID,
		DoctorID:       cmd.DoctorID,
		ScheduledAt:    cmd.ScheduledAt.UTC(),
		DurationMins:   cmd.DurationMins,
		Type:           cmd.Type,
		Status:         appointment.StatusScheduled,
		ChiefComplaint: cmd.ChiefComplaint,
		Notes:          cmd.Notes,
		Room:           cmd.Room,
		CreatedBy:      caller.UserID,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		s.log.Error("failed to create appointment", zap.Error(err))
		return nil, fmt.Errorf("creating appointment: %w", err)
	}
	s.metrics.AppointmentsTotal.WithLabelValues(string(a.Status)).Inc()

	s.auditSvc.LogAsync(ctx, auditFor(caller, domain.ActionCreate, resourceAppointment, a.ID))
	s.notifyPatient(ctx, a, "Appointment scheduled",
		fmt.Sprintf("Your %s appointment is booked for %s.", a.Type, a.ScheduledAt.Format(time.RFC1123)))

	return a, nil
}

func (s *AppointmentService) GetAppointment(ctx context.Context, caller domain.Caller, id uuid.UUID) (*appointment.Appointment, error) {
	a, err := s.load(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, auditFor(caller, domain.ActionRead, resourceAppointment, id))
	return a, nil
}

// UpdateAppointment reschedules or edits an open appointment. Any change to
// the slot re-runs the doctor conflict check with the appointment excluded.
func (s *AppointmentService) UpdateAppointment(ctx context.Context, caller domain.Caller, id uuid.UUID, cmd *appointment.UpdateAppointmentCommand) (*appointment.Appointment, error) {
	if caller.Is(domain.RolePatient) {
		return nil, ErrForbidden
	}

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !a.IsOpen() {
		return nil, appointment.ErrNotReschedulable
	}
	if cmd.Type != nil && !cmd.Type.IsValid() {
		return nil, appointment.ErrInvalidAppointmentType
	}

	slotChanged := cmd.ScheduledAt != nil || cmd.DurationMins != nil
	a.Apply(cmd)

	if slotChanged {
		a.ScheduledAt = a.ScheduledAt.UTC()
		if err := validateSlot(a.ScheduledAt, a.DurationMins); err != nil {
			return nil, err
		}
		conflict, err := s.repo.HasConflict(ctx, a.DoctorID, a.ScheduledAt, a.EndsAt(), &a.ID)
		if err != nil {
			return nil, fmt.Errorf("checking conflicts: %w", err)
		}
		if conflict {
			return nil, appointment.ErrAppointmentConflict
		}
	}

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("updating appointment: %w", err)
	}

	entry := auditFor(caller, domain.ActionUpdate, resourceAppointment, id)
	if slotChanged {
		entry.Changes = map[string]any{"scheduled_at": a.ScheduledAt, "duration_mins": a.DurationMins}
		s.notifyPatient(ctx, a, "Appointment rescheduled",
			fmt.Sprintf("Your appointment has moved to %s.", a.ScheduledAt.Format(time.RFC1123)))
	}
	s.auditSvc.LogAsync(ctx, entry)

	return a, nil
}

func (s *AppointmentService) ConfirmAppointment(ctx context.Context, caller domain.Caller, id uuid.UUID) (*appointment.Appointment, error) {
	return s.transition(ctx, caller, id, func(a *appointment.Appointment) error { return a.Confirm() })
}

func (s *AppointmentService) StartAppointment(ctx context.Context, caller domain.Caller, id uuid.UUID) (*appointment.Appointment, error) {
	return s.transition(ctx, caller, id, func(a *appointment.Appointment) error { return a.Start() })
}

func (s *AppointmentService) CompleteAppointment(ctx context.Context, caller domain.Caller, id uuid.UUID, cmd *appointment.CompleteAppointmentCommand) (*appointment.Appointment, error) {
	if cmd.ActualDurationMins != nil && *cmd.ActualDurationMins <= 0 {
		return nil, appointment.ErrInvalidDuration
	}
	return s.transition(ctx, caller, id, func(a *appointment.Appointment) error { return a.Complete(cmd.ActualDurationMins) })
}

func (s *AppointmentService) MarkNoShow(ctx context.Context, caller domain.Caller, id uuid.UUID) (*appointment.Appointment, error) {
	return s.transition(ctx, caller, id, func(a *appointment.Appointment) error { return a.MarkNoShow() })
}

func (s *AppointmentService) CancelAppointment(ctx context.Context, caller domain.Caller, id uuid.UUID, cmd *appointment.CancelAppointmentCommand) (*appointment.Appointment, error) {
	a, err := s.load(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	if err := a.Cancel(cmd.Reason, caller.UserID); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, a); err != nil {
		return nil, fmt.Errorf("updating appointment status: %w", err)
	}
	s.metrics.AppointmentsTotal.WithLabelValues(string(a.Status)).Inc()

	entry := auditFor(caller, domain.ActionUpdate, resourceAppointment, id)
	entry.Changes = map[string]any{"status": a.Status, "reason": cmd.Reason}
	s.auditSvc.LogAsync(ctx, entry)

	s.notifyPatient(ctx, a, "Appointment cancelled",
		fmt.Sprintf("Your appointment on %s was cancelled.", a.ScheduledAt.Format(time.RFC1123)))

	return a, nil
}

func (s *AppointmentService) ListAppointments(ctx context.Context, caller domain.Caller, q *appointment.ListAppointmentsQuery) (*appointment.PagedAppointments, error) {
	// Patients can only see their own appointments.
	if caller.Is(domain.RolePatient) {
		if caller.PatientID == nil {
			return nil, ErrForbidden
		}
		q.PatientID = caller.PatientID
	}
	q.Normalize()
	return s.repo.List(ctx, q)
}

// Upcoming lists open appointments starting within the next hours, the
// day sheet used by front desk and ward staff. Hours are clamped to a week.
func (s *AppointmentService) Upcoming(ctx context.Context, caller domain.Caller, hours int) ([]*appointment.Appointment, error) {
	if caller.Is(domain.RolePatient) {
		return nil, ErrForbidden
	}
	if hours <= 0 {
		hours = 24
	}
	hours = min(hours, 7*24)
	return s.repo.GetUpcoming(ctx, hours)
}

// load fetches an appointment and enforces patient ownership.
func (s *AppointmentService) load(ctx context.Context, caller domain.Caller, id uuid.UUID) (*appointment.Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if caller.Is(domain.RolePatient) {
		if caller.PatientID == nil || *caller.PatientID != a.PatientID {
			return nil, ErrForbidden
		}
	}
	return a, nil
}

func (s *AppointmentService) transition(ctx context.Context, caller domain.Caller, id uuid.UUID, apply func(*appointment.Appointment) error) (*appointment.Appointment, error) {
	if caller.Is(domain.RolePatient) {
		return nil, ErrForbidden
	}
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := apply(a); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, a); err != nil {
		return nil, fmt.Errorf("updating appointment status: %w", err)
	}
	s.metrics.AppointmentsTotal.WithLabelValues(string(a.Status)).Inc()

	entry := auditFor(caller, domain.ActionUpdate, resourceAppointment, id)
	entry.Changes = map[string]any{"status": a.Status}
	s.auditSvc.LogAsync(ctx, entry)
	return a, nil
}

func (s *AppointmentService) checkDoctor(ctx context.Context, doctorID uuid.UUID) error {
	doc, err := s.staffRepo.GetByID(ctx, doctorID)
	if errors.Is(err, staff.ErrStaffNotFound) {
		return ErrNotADoctor
	}
	if err != nil {
		return fmt.Errorf("verifying doctor: %w", err)
	}
	if doc.Role != domain.RoleDoctor || !doc.IsActive() {
		return ErrNotADoctor
	}
	return nil
}

func (s *AppointmentService) notifyPatient(ctx context.Context, a *appointment.Appointment, title, msg string) {
	u, err := s.userRepo.GetByPatientID(ctx, a.PatientID)
	if err != nil {
		// Walk-in patients registered at the desk have no portal account.
		return
	}
	notifyQuietly(ctx, s.notifier, s.log, &notification.SendCommand{
		RecipientID:  u.ID,
		Type:         notification.TypeAppointment,
		Title:        title,
		Message:      msg,
		ResourceType: resourceAppointment,
		ResourceID:   &a.ID,
	})
}

func validateSlot(at time.Time, durationMins int) error {
	if at.Before(time.Now()) {
		return appointment.ErrScheduledInPast
	}
	if durationMins < 5 || durationMins > 480 {
		return appointment.ErrInvalidDuration
	}
	return nil
}
