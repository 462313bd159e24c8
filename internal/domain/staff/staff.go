package staff

import (
	"strings"
	"time"

	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain"
	"github.com/google/uuid"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusOnLeave  Status = "on_leave"
	StatusInactive Status = "inactive"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusOnLeave, StatusInactive:
		return true
	}
	return false
}

// Member is a hospital employee. Doctors, nurses, receptionists and
// administrators are all staff; each has a linked login account.
type Member struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time  `gorm:"autoCreateTime"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime"`
	DeletedAt *time.Time `gorm:"index"`

	FirstName      string      `gorm:"column:first_name;type:varchar(100);not null"`
	LastName       string      `gorm:"column:last_name;type:varchar(100);not null"`
	Email          string      `gorm:"column:email;type:varchar(255);uniqueIndex;not null"`
	Phone          string      `gorm:"column:phone;type:varchar(20)"`
	Role           domain.Role `gorm:"column:role;type:varchar(30);not null;index"`
	Specialization string      `gorm:"column:specialization;type:varchar(120)"`
	LicenseNumber  string      `gorm:"column:license_number;type:varchar(60)"`
	DepartmentID   *uuid.UUID  `gorm:"column:department_id;type:uuid;index"`
	HireDate       *time.Time  `gorm:"column:hire_date"`
	Status         Status      `gorm:"column:status;type:varchar(20);not null;default:'active';index"`

	UserID    *uuid.UUID `gorm:"column:user_id;type:uuid;index"`
	CreatedBy uuid.UUID  `gorm:"column:created_by;type:uuid;not null"`
}

func (Member) TableName() string {
	return "staffing.staff"
}

func (m *Member) FullName() string {
	return strings.TrimSpace(m.FirstName + " " + m.LastName)
}

func (m *Member) IsActive() bool {
	return m.Status == StatusActive && m.DeletedAt == nil
}

// BelongsTo reports whether the member works in the given department.
func (m *Member) BelongsTo(departmentID uuid.UUID) bool {
	return m.DepartmentID != nil && *m.DepartmentID == departmentID
}

type CreateStaffCommand struct {
	FirstName       string
	LastName        string
	Email           string
	Phone           string
	Role            domain.Role
	Specialization  string
	LicenseNumber   string
	DepartmentID    *uuid.UUID
	HireDate        *time.Time
	InitialPassword string
	CreatedBy       uuid.UUID
}

type UpdateStaffCommand struct {
	FirstName      *string
	LastName       *string
	Phone          *string
	Role           *domain.Role
	Specialization *string
	LicenseNumber  *string
	DepartmentID   *uuid.UUID
	Status         *Status
}

func (m *Member) Apply(cmd *UpdateStaffCommand) {
	if cmd.FirstName != nil {
		m.FirstName = strings.TrimSpace(*cmd.FirstName)
	}
	if cmd.LastName != nil {
		m.LastName = strings.TrimSpace(*cmd.LastName)
	}
	if cmd.Phone != nil {
		m.Phone = strings.TrimSpace(*cmd.Phone)
	}
	if cmd.Role != nil {
		m.Role = *cmd.Role
	}
	if cmd.Specialization != nil {
		m.Specialization = *cmd.Specialization
	}
	if cmd.LicenseNumber != nil {
		m.LicenseNumber = *cmd.LicenseNumber
	}
	if cmd.DepartmentID != nil {
		m.DepartmentID = cmd.DepartmentID
	}
	if cmd.Status != nil {
		m.Status = *cmd.Status
	}
}

type ListStaffQuery struct {
	Search       string
	DepartmentID *uuid.UUID
	Role         *domain.Role
	Status       *Status
	domain.PageRequest
}

type PagedStaff = domain.Page[*Member]
