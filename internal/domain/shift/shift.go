package shift

import (
	"time"

	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain"
	"github.com/google/uuid"
)

type Type string

const (
	TypeMorning Type = "morning"
	TypeEvening Type = "evening"
	TypeNight   Type = "night"
)

func (t Type) IsValid() bool {
	switch t {
	case TypeMorning, TypeEvening, TypeNight:
		return true
	}
	return false
}

// Template holds the canonical hours of a shift type, in UTC.
type Template struct {
	Type      Type
	StartHour int
	Hours     int
}

var Templates = []Template{
	{Type: TypeMorning, StartHour: 7, Hours: 8},
	{Type: TypeEvening, StartHour: 15, Hours: 8},
	{Type: TypeNight, StartHour: 23, Hours: 8},
}

// Window returns the template's interval starting on the given day.
func (t Template) Window(day time.Time) (time.Time, time.Time) {
	y, m, d := day.UTC().Date()
	start := time.Date(y, m, d, t.StartHour, 0, 0, 0, time.UTC)
	return start, start.Add(time.Duration(t.Hours) * time.Hour)
}

// TypeForStart derives the shift type from the hour a shift begins.
func TypeForStart(start time.Time) Type {
	h := start.UTC().Hour()
	switch {
	case h >= 5 && h < 13:
		return TypeMorning
	case h >= 13 && h < 21:
		return TypeEvening
	default:
		return TypeNight
	}
}

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Source records who produced a shift.
type Source string

const (
	SourceManual Source = "manual"
	SourceAuto   Source = "auto"
)

const MaxDuration = 24 * time.Hour

type Shift struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime"`
	DeletedAt *time.Time `gorm:"index"`

	StaffID      uuid.UUID `gorm:"column:staff_id;type:uuid;not null;index"`
	DepartmentID uuid.UUID `gorm:"column:department_id;type:uuid;not null;index"`

	Type      Type      `gorm:"column:type;type:varchar(20);not null"`
	StartTime time.Time `gorm:"column:start_time;not null;index"`
	EndTime   time.Time `gorm:"column:end_time;not null"`
	Status    Status    `gorm:"column:status;type:varchar(20);not null;default:'scheduled';index"`
	Source    Source    `gorm:"column:source;type:varchar(20);not null;default:'manual';index"`
	Notes     string    `gorm:"column:notes;type:text"`

	CreatedBy uuid.UUID `gorm:"column:created_by;type:uuid;not null"`
}

func (Shift) TableName() string {
	return "staffing.shifts"
}

func (s *Shift) Duration() time.Duration {
	return s.EndTime.Sub(s.StartTime)
}

// Overlaps reports whether the half-open intervals of two shifts intersect.
func (s *Shift) Overlaps(start, end time.Time) bool {
	return s.StartTime.Before(end) && start.Before(s.EndTime)
}

// ValidateInterval checks ordering and length of a shift interval.
func ValidateInterval(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return ErrInvalidInterval
	}
	if !end.After(start) {
		return ErrInvalidInterval
	}
	if end.Sub(start) > MaxDuration {
		return ErrShiftTooLong
	}
	return nil
}

func (s *Shift) Cancel() error {
	if s.Status != StatusScheduled {
		return ErrInvalidStatusTransition
	}
	s.Status = StatusCancelled
	return nil
}

func (s *Shift) Complete() error {
	if s.Status != StatusScheduled {
		return ErrInvalidStatusTransition
	}
	s.Status = StatusCompleted
	return nil
}

type AssignShiftCommand struct {
	StaffID      uuid.UUID
	DepartmentID uuid.UUID
	Type         Type
	StartTime    time.Time
	EndTime      time.Time
	Notes        string
}

type UpdateShiftCommand struct {
	Type      *Type
	StartTime *time.Time
	EndTime   *time.Time
	Notes     *string
}

func (s *Shift) Apply(cmd *UpdateShiftCommand) {
	if cmd.Type != nil {
		s.Type = *cmd.Type
	}
	if cmd.StartTime != nil {
		s.StartTime = *cmd.StartTime
	}
	if cmd.EndTime != nil {
		s.EndTime = *cmd.EndTime
	}
	if cmd.Notes != nil {
		s.Notes = *cmd.Notes
	}
}

type ListShiftsQuery struct {
	StaffID      *uuid.UUID
	DepartmentID *uuid.UUID
	Status       *Status
	Source       *Source
	From         *time.Time
	To           *time.Time
	domain.PageRequest
}

type PagedShifts = domain.Page[*Shift]
