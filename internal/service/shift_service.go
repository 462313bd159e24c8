package service

import (
	"context"
	"fmt"

	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain/department"
	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain/notification"
	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain/shift"
	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain/staff"
	"github.com/dmehra2102/prod-golang-projects/carehub/pkg/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const resourceShift = "shift"

type ShiftService struct {
	repo      shift.Repository
	staffRepo staff.Repository
	deptRepo  department.Repository
	notifier  Notifier
	auditSvc  *AuditService
	metrics   *metrics.Collector
	log       *zap.Logger
}

func NewShiftService(
	repo shift.Repository,
	staffRepo staff.Repository,
	deptRepo department.Repository,
	notifier Notifier,
	auditSvc *AuditService,
	m *metrics.Collector,
	log *zap.Logger,
) *ShiftService {
	return &ShiftService{
		repo:      repo,
		staffRepo: staffRepo,
		deptRepo:  deptRepo,
		notifier:  notifier,
		auditSvc:  auditSvc,
		metrics:   m,
		log:       log,
	}
}

func (s *ShiftService) AssignShift(ctx context.Context, caller domain.Caller, cmd *shift.AssignShiftCommand) (*shift.Shift, error) {
	if err := shift.ValidateInterval(cmd.StartTime, cmd.EndTime); err != nil {
		return nil, err
	}
	if cmd.Type == "" {
		cmd.Type = shift.TypeForStart(cmd.StartTime)
	}
	if !cmd.Type.IsValid() {
		return nil, shift.ErrInvalidShiftType
	}

	d, err := s.deptRepo.GetByID(ctx, cmd.DepartmentID)
	if err != nil {
		return nil, err
	}
	if !d.IsActive {
		return nil, department.ErrDepartmentInactive
	}

	member, err := s.staffRepo.GetByID(ctx, cmd.StaffID)
	if err != nil {
		return nil, err
	}
	if !member.IsActive() {
		return nil, staff.ErrStaffInactive
	}
	if !member.BelongsTo(cmd.DepartmentID) {
		return nil, shift.ErrStaffNotInDepartment
	}

	sh := &shift.Shift{
		StaffID:      cmd.StaffID,
		DepartmentID: cmd.DepartmentID,
		Type:         cmd.Type,
		StartTime:    cmd.StartTime.UTC(),
		EndTime:      cmd.EndTime.UTC(),
		Notes:        cmd.Notes,
		Source:       shift.SourceManual,
	}
	if err := s.place(ctx, caller, sh, member); err != nil {
		return nil, err
	}
	return sh, nil
}

// place runs the overlap check and persists a validated shift. Manual and
// automatic assignment both go through here.
func (s *ShiftService) place(ctx context.Context, caller domain.Caller, sh *shift.Shift, member *staff.Member) error {
	overlap, err := s.repo.HasOverlap(ctx, sh.StaffID, sh.StartTime, sh.EndTime, nil)
	if err != nil {
		return fmt.Errorf("checking shift overlap: %w", err)
	}
	if overlap {
		return shift.ErrShiftOverlap
	}

	if sh.ID == uuid.Nil {
		sh.ID = uuid.New()
	}
	if sh.Source == "" {
		sh.Source = shift.SourceManual
	}
	sh.Status = shift.StatusScheduled
	sh.CreatedBy = caller.UserID

	if err := s.repo.Create(ctx, sh); err != nil {
		return fmt.Errorf("creating shift: %w", err)
	}
	s.metrics.ShiftsAssignedTotal.WithLabelValues(string(sh.Source)).Inc()

	entry := auditFor(caller, domain.ActionCreate, resourceShift, sh.ID)
	entry.Changes = map[string]any{"source": sh.Source, "staff_id": sh.StaffID}
	s.auditSvc.LogAsync(ctx, entry)

	if member.UserID != nil {
		notifyQuietly(ctx, s.notifier, s.log, &notification.SendCommand{
			RecipientID:  *member.UserID,
			Type:         notification.TypeShift,
			Title:        "New shift assigned",
			Message:      describeShift(sh),
			ResourceType: resourceShift,
			ResourceID:   &sh.ID,
		})
	}
	return nil
}

func (s *ShiftService) GetShift(ctx context.Context, id uuid.UUID) (*shift.Shift, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ShiftService) UpdateShift(ctx context.Context, caller domain.Caller, id uuid.UUID, cmd *shift.UpdateShiftCommand) (*shift.Shift, error) {
	if cmd.Type != nil && !cmd.Type.IsValid() {
		return nil, shift.ErrInvalidShiftType
	}

	sh, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sh.Status != shift.StatusScheduled {
		return nil, shift.ErrInvalidStatusTransition
	}

	sh.Apply(cmd)
	sh.StartTime, sh.EndTime = sh.StartTime.UTC(), sh.EndTime.UTC()
	if err := shift.ValidateInterval(sh.StartTime, sh.EndTime); err != nil {
		return nil, err
	}

	if cmd.StartTime != nil || cmd.EndTime != nil {
		overlap, err := s.repo.HasOverlap(ctx, sh.StaffID, sh.StartTime, sh.EndTime, &sh.ID)
		if err != nil {
			return nil, fmt.Errorf("checking shift overlap: %w", err)
		}
		if overlap {
			return nil, shift.ErrShiftOverlap
		}
	}

	if err := s.repo.Update(ctx, sh); err != nil {
		return nil, fmt.Errorf("updating shift: %w", err)
	}
	s.auditSvc.LogAsync(ctx, auditFor(caller, domain.ActionUpdate, resourceShift, id))
	return sh, nil
}

func (s *ShiftService) CancelShift(ctx context.Context, caller domain.Caller, id uuid.UUID) (*shift.Shift, error) {
	return s.transition(ctx, caller, id, (*shift.Shift).Cancel)
}

func (s *ShiftService) CompleteShift(ctx context.Context, caller domain.Caller, id uuid.UUID) (*shift.Shift, error) {
	return s.transition(ctx, caller, id, (*shift.Shift).Complete)
}

func (s *ShiftService) DeleteShift(ctx context.Context, caller domain.Caller, id uuid.UUID) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.auditSvc.LogAsync(ctx, auditFor(caller, domain.ActionDelete, resourceShift, id))
	return nil
}

func (s *ShiftService) ListShifts(ctx context.Context, q *shift.ListShiftsQuery) (*shift.PagedShifts, error) {
	if q.Status != nil && !q.Status.IsValid() {
		return nil, &ValidationError{Fields: []string{"status is invalid"}}
	}
	if q.From != nil && q.To != nil && !q.To.After(*q.From) {
		return nil, &ValidationError{Fields: []string{"to must be after from"}}
	}
	q.Normalize()
	return s.repo.List(ctx, q)
}

// MyShifts lists the caller's own shifts; only staff accounts have any.
func (s *ShiftService) MyShifts(ctx context.Context, caller domain.Caller, q *shift.ListShiftsQuery) (*shift.PagedShifts, error) {
	if caller.StaffID == nil {
		return nil, ErrForbidden
	}
	q.StaffID = caller.StaffID
	q.DepartmentID = nil
	return s.ListShifts(ctx, q)
}

func (s *ShiftService) transition(ctx context.Context, caller domain.Caller, id uuid.UUID, apply func(*shift.Shift) error) (*shift.Shift, error) {
	sh, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := apply(sh); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, sh); err != nil {
		return nil, fmt.Errorf("updating shift: %w", err)
	}
	entry := auditFor(caller, domain.ActionUpdate, resourceShift, id)
	entry.Changes = map[string]any{"status": sh.Status}
	s.auditSvc.LogAsync(ctx, entry)
	return sh, nil
}

func describeShift(sh *shift.Shift) string {
	return fmt.Sprintf("%s shift from %s to %s (UTC).",
		sh.Type,
		sh.StartTime.UTC().Format("Mon 02 Jan 15:04"),
		sh.EndTime.UTC().Format("Mon 02 Jan 15:04"),
	)
}
