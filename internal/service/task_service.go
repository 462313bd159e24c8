package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain/department"
	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain/notification"
	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain/patient"
	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain/staff"
	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain/task"
	"github.com/dmehra2102/prod-golang-projects/carehub/pkg/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const resourceTask = "task"

type TaskService struct {
	repo        task.Repository
	staffRepo   staff.Repository
	deptRepo    department.Repository
	patientRepo patient.Repository
	notifier    Notifier
	auditSvc    *AuditService
	metrics     *metrics.Collector
	log         *zap.Logger
}

func NewTaskService(
	repo task.Repository,
	staffRepo staff.Repository,
	deptRepo department.Repository,
	patientRepo patient.Repository,
	notifier Notifier,
	auditSvc *AuditService,
	m *metrics.Collector,
	log *zap.Logger,
) *TaskService {
	return &TaskService{
		repo:        repo,
		staffRepo:   staffRepo,
		deptRepo:    deptRepo,
		patientRepo: patientRepo,
		notifier:    notifier,
		auditSvc:    auditSvc,
		metrics:     m,
		log:         log,
	}
}

func (s *TaskService) CreateTask(ctx context.Context, caller domain.Caller, cmd *task.CreateTaskCommand) (*task.Task, error) {
	if cmd.Priority == "" {
		cmd.Priority = task.PriorityMedium
	}
	var v validation
	v.check(strings.TrimSpace(cmd.Title) != "", "title is required")
	v.check(len(strings.TrimSpace(cmd.Title)) <= 200, "title must be at most 200 characters")
	v.check(cmd.Priority.IsValid(), task.ErrInvalidPriority.Error())
	v.check(cmd.AssigneeID != uuid.Nil, "assignee_id is required")
	if err := v.err(); err != nil {
		return nil, err
	}

	assignee, err := s.activeAssignee(ctx, cmd.AssigneeID)
	if err != nil {
		return nil, err
	}
	if cmd.DepartmentID == nil {
		cmd.DepartmentID = assignee.DepartmentID
	} else if _, err := s.deptRepo.GetByID(ctx, *cmd.DepartmentID); err != nil {
		return nil, err
	}
	if cmd.PatientID != nil {
		if _, err := s.patientRepo.GetByID(ctx, *cmd.PatientID); err != nil {
			return nil, err
		}
	}

	t := &task.Task{
		ID:           uuid.New(),
		Title:        strings.TrimSpace(cmd.Title),
		Description:  cmd.Description,
		AssigneeID:   cmd.AssigneeID,
		DepartmentID: cmd.DepartmentID,
		PatientID:    cmd.PatientID,
		Priority:     cmd.Priority,
		Status:       task.StatusPending,
		DueAt:        cmd.DueAt,
		CreatedBy:    caller.UserID,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("creating task: %w", err)
	}
	s.metrics.TasksTotal.WithLabelValues(string(t.Status)).Inc()

	s.auditSvc.LogAsync(ctx, auditFor(caller, domain.ActionCreate, resourceTask, t.ID))
	s.notifyAssignee(ctx, assignee, t, "New task assigned")
	return t, nil
}

func (s *TaskService) GetTask(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *TaskService) UpdateTask(ctx context.Context, caller domain.Caller, id uuid.UUID, cmd *task.UpdateTaskCommand) (*task.Task, error) {
	var v validation
	if cmd.Title != nil {
		v.check(strings.TrimSpace(*cmd.Title) != "", "title cannot be empty")
	}
	if cmd.Priority != nil {
		v.check(cmd.Priority.IsValid(), task.ErrInvalidPriority.Error())
	}
	if err := v.err(); err != nil {
		return nil, err
	}

	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.IsFinished() {
		return nil, task.ErrTaskFinished
	}

	var newAssignee *staff.Member
	if cmd.AssigneeID != nil && *cmd.AssigneeID != t.AssigneeID {
		if newAssignee, err = s.activeAssignee(ctx, *cmd.AssigneeID); err != nil {
			return nil, err
		}
	}

	t.Apply(cmd)
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, fmt.Errorf("updating task: %w", err)
	}
	s.auditSvc.LogAsync(ctx, auditFor(caller, domain.ActionUpdate, resourceTask, id))

	if newAssignee != nil {
		s.notifyAssignee(ctx, newAssignee, t, "Task reassigned to you")
	}
	return t, nil
}

// UpdateStatus moves a task along its lifecycle. Only the assignee, a doctor
// or an administrator may do so.
func (s *TaskService) UpdateStatus(ctx context.Context, caller domain.Caller, id uuid.UUID, next task.Status) (*task.Task, error) {
	if !next.IsValid() {
		return nil, task.ErrInvalidStatus
	}

	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	isAssignee := caller.StaffID != nil && *caller.StaffID == t.AssigneeID
	if !isAssignee && !caller.Is(domain.RoleAdmin, domain.RoleDoctor) {
		return nil, ErrForbidden
	}
	if t.IsFinished() {
		return nil, task.ErrTaskFinished
	}

	if err := t.TransitionTo(next); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, fmt.Errorf("updating task status: %w", err)
	}
	s.metrics.TasksTotal.WithLabelValues(string(t.Status)).Inc()

	entry := auditFor(caller, domain.ActionUpdate, resourceTask, id)
	entry.Changes = map[string]any{"status": t.Status}
	s.auditSvc.LogAsync(ctx, entry)
	return t, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, caller domain.Caller, id uuid.UUID) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.auditSvc.LogAsync(ctx, auditFor(caller, domain.ActionDelete, resourceTask, id))
	return nil
}

func (s *TaskService) ListTasks(ctx context.Context, q *task.ListTasksQuery) (*task.PagedTasks, error) {
	if q.Status != nil && !q.Status.IsValid() {
		return nil, task.ErrInvalidStatus
	}
	if q.Priority != nil && !q.Priority.IsValid() {
		return nil, task.ErrInvalidPriority
	}
	q.Normalize()
	return s.repo.List(ctx, q)
}

func (s *TaskService) MyTasks(ctx context.Context, caller domain.Caller, q *task.ListTasksQuery) (*task.PagedTasks, error) {
	if caller.StaffID == nil {
		return nil, ErrForbidden
	}
	q.AssigneeID = caller.StaffID
	return s.ListTasks(ctx, q)
}

func (s *TaskService) activeAssignee(ctx context.Context, id uuid.UUID) (*staff.Member, error) {
	m, err := s.staffRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !m.IsActive() {
		return nil, staff.ErrStaffInactive
	}
	return m, nil
}

func (s *TaskService) notifyAssignee(ctx context.Context, m *staff.Member, t *task.Task, title string) {
	if m.UserID == nil {
		return
	}
	msg := fmt.Sprintf("%s (priority %s)", t.Title, t.Priority)
	if t.DueAt != nil {
		msg += ", due " + t.DueAt.UTC().Format("Mon 02 Jan 15:04") + " UTC"
	}
	notifyQuietly(ctx, s.notifier, s.log, &notification.SendCommand{
		RecipientID:  *m.UserID,
		Type:         notification.TypeTask,
		Title:        title,
		Message:      msg,
		ResourceType: resourceTask,
		ResourceID:   &t.ID,
	})
}
