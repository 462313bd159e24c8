package notification

import (
	"time"

	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain"
	"github.com/google/uuid"
)

type Type string

const (
	TypeAppointment Type = "appointment"
	TypeShift       Type = "shift"
	TypeTask        Type = "task"
	TypeSystem      Type = "system"
)

func (t Type) IsValid() bool {
	switch t {
	case TypeAppointment, TypeShift, TypeTask, TypeSystem:
		return true
	}
	return false
}

type Notification struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`

	RecipientID  uuid.UUID  `gorm:"column:recipient_id;type:uuid;not null;index"`
	Type         Type       `gorm:"column:type;type:varchar(20);not null;index"`
	Title        string     `gorm:"column:title;type:varchar(200);not null"`
	Message      string     `gorm:"column:message;type:text;not null"`
	ResourceType string     `gorm:"column:resource_type;type:varchar(50)"`
	ResourceID   *uuid.UUID `gorm:"column:resource_id;type:uuid"`
	IsRead       bool       `gorm:"column:is_read;default:false;index"`
	ReadAt       *time.Time `gorm:"column:read_at"`
}

func (Notification) TableName() string {
	return "clinical.notifications"
}

func (n *Notification) MarkRead() {
	if n.IsRead {
		return
	}
	now := time.Now()
	n.IsRead = true
	n.ReadAt = &now
}

type SendCommand struct {
	RecipientID  uuid.UUID
	Type         Type
	Title        string
	Message      string
	ResourceType string
	ResourceID   *uuid.UUID
}

type ListNotificationsQuery struct {
	RecipientID uuid.UUID
	UnreadOnly  bool
	domain.PageRequest
}

type PagedNotifications = domain.Page[*Notification]
