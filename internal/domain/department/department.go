package department

import (
	"strings"
	"time"

	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain"
	"github.com/google/uuid"
)

type Department struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time  `gorm:"autoCreateTime"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime"`
	DeletedAt *time.Time `gorm:"index"`

	Name        string     `gorm:"column:name;type:varchar(120);uniqueIndex;not null"`
	Code        string     `gorm:"column:code;type:varchar(20);uniqueIndex;not null"`
	Description string     `gorm:"column:description;type:text"`
	Location    string     `gorm:"column:location;type:varchar(120)"`
	Phone       string     `gorm:"column:phone;type:varchar(20)"`
	HeadStaffID *uuid.UUID `gorm:"column:head_staff_id;type:uuid;index"`
	IsActive    bool       `gorm:"column:is_active;default:true;index"`

	CreatedBy uuid.UUID `gorm:"column:created_by;type:uuid;not null"`
}

func (Department) TableName() string {
	return "staffing.departments"
}

// NormalizeCode upper-cases and trims a department code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

type CreateDepartmentCommand struct {
	Name        string
	Code        string
	Description string
	Location    string
	Phone       string
	HeadStaffID *uuid.UUID
	CreatedBy   uuid.UUID
}

type UpdateDepartmentCommand struct {
	Name        *string
	Description *string
	Location    *string
	Phone       *string
	HeadStaffID *uuid.UUID
	IsActive    *bool
}

func (d *Department) Apply(cmd *UpdateDepartmentCommand) {
	if cmd.Name != nil {
		d.Name = strings.TrimSpace(*cmd.Name)
	}
	if cmd.Description != nil {
		d.Description = *cmd.Description
	}
	if cmd.Location != nil {
		d.Location = *cmd.Location
	}
	if cmd.Phone != nil {
		d.Phone = strings.TrimSpace(*cmd.Phone)
	}
	if cmd.HeadStaffID != nil {
		d.HeadStaffID = cmd.HeadStaffID
	}
	if cmd.IsActive != nil {
		d.IsActive = *cmd.IsActive
	}
}

type ListDepartmentsQuery struct {
	Search     string
	ActiveOnly bool
	domain.PageRequest
}

type PagedDepartments = domain.Page[*Department]
