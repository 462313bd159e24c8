package task

import (
	"strings"
	"time"

	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain"
	"github.com/google/uuid"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// State transitions possibilities:
//
//	pending → in_progress → completed
//	pending → completed
//	pending | in_progress → cancelled
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

type Task struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime"`
	DeletedAt *time.Time `gorm:"index"`

	Title        string     `gorm:"column:title;type:varchar(200);not null"`
	Description  string     `gorm:"column:description;type:text"`
	AssigneeID   uuid.UUID  `gorm:"column:assignee_id;type:uuid;not null;index"`
	DepartmentID *uuid.UUID `gorm:"column:department_id;type:uuid;index"`
	PatientID    *uuid.UUID `gorm:"column:patient_id;type:uuid;index"`
	Priority     Priority   `gorm:"column:priority;type:varchar(20);not null;default:'medium';index"`
	Status       Status     `gorm:"column:status;type:varchar(20);not null;default:'pending';index"`
	DueAt        *time.Time `gorm:"column:due_at;index"`
	CompletedAt  *time.Time `gorm:"column:completed_at"`

	CreatedBy uuid.UUID `gorm:"column:created_by;type:uuid;not null"`
}

func (Task) TableName() string {
	return "staffing.tasks"
}

func (t *Task) IsFinished() bool {
	return t.Status == StatusCompleted || t.Status == StatusCancelled
}

func (t *Task) IsOverdue(now time.Time) bool {
	return !t.IsFinished() && t.DueAt != nil && now.After(*t.DueAt)
}

func (t *Task) CanTransitionTo(next Status) bool {
	allowed := map[Status][]Status{
		StatusPending:    {StatusInProgress, StatusCompleted, StatusCancelled},
		StatusInProgress: {StatusCompleted, StatusCancelled},
	}
	for _, s := range allowed[t.Status] {
		if s == next {
			return true
		}
	}
	return false
}

func (t *Task) TransitionTo(next Status) error {
	if !t.CanTransitionTo(next) {
		return ErrInvalidStatusTransition
	}
	t.Status = next
	if next == StatusCompleted {
		now := time.Now()
		t.CompletedAt = &now
	}
	return nil
}

type CreateTaskCommand struct {
	Title        string
	Description  string
	AssigneeID   uuid.UUID
	DepartmentID *uuid.UUID
	PatientID    *uuid.UUID
	Priority     Priority
	DueAt        *time.Time
	CreatedBy    uuid.UUID
}

type UpdateTaskCommand struct {
	Title       *string
	Description *string
	AssigneeID  *uuid.UUID
	Priority    *Priority
	DueAt       *time.Time
}

func (t *Task) Apply(cmd *UpdateTaskCommand) {
	if cmd.Title != nil {
		t.Title = strings.TrimSpace(*cmd.Title)
	}
	if cmd.Description != nil {
		t.Description = *cmd.Description
	}
	if cmd.AssigneeID != nil {
		t.AssigneeID = *cmd.AssigneeID
	}
	if cmd.Priority != nil {
		t.Priority = *cmd.Priority
	}
	if cmd.DueAt != nil {
		t.DueAt = cmd.DueAt
	}
}

type ListTasksQuery struct {
	AssigneeID   *uuid.UUID
	DepartmentID *uuid.UUID
	PatientID    *uuid.UUID
	Status       *Status
	Priority     *Priority
	OverdueOnly  bool
	domain.PageRequest
}

type PagedTasks = domain.Page[*Task]
