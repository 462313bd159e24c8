package v1

import (
	"time"

	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain/appointment"
	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain/department"
	mr "github.com/dmehra2102/prod-golang-projects/carehub/internal/domain/medical_record"
	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain/notification"
	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain/patient"
	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain/shift"
	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain/staff"
	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain/task"
	"github.com/google/uuid"
)

// ── auth ───────────────────────────────────────────────────────────────────

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

type RegisterRequest struct {
	Email       string         `json:"email" binding:"required,email"`
	Password    string         `json:"password" binding:"required"`
	FirstName   string         `json:"first_name" binding:"required"`
	LastName    string         `json:"last_name" binding:"required"`
	DateOfBirth time.Time      `json:"date_of_birth" binding:"required"`
	Gender      patient.Gender `json:"gender" binding:"required"`
	NationalID  string         `json:"national_id" binding:"required"`
	Phone       string         `json:"phone"`
}

type UserResponse struct {
	ID          uuid.UUID   `json:"id"`
	Email       string      `json:"email"`
	FirstName   string      `json:"first_name"`
	LastName    string      `json:"last_name"`
	Role        domain.Role `json:"role"`
	StaffID     *uuid.UUID  `json:"staff_id,omitempty"`
	PatientID   *uuid.UUID  `json:"patient_id,omitempty"`
	IsActive    bool        `json:"is_active"`
	LastLoginAt *time.Time  `json:"last_login_at,omitempty"`
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Role:        u.Role,
		StaffID:     u.StaffID,
		PatientID:   u.PatientID,
		IsActive:    u.IsActive,
		LastLoginAt: u.LastLoginAt,
	}
}

// ── patients ───────────────────────────────────────────────────────────────

type CreatePatientRequest struct {
	FirstName         string                    `json:"first_name" binding:"required"`
	LastName          string                    `json:"last_name" binding:"required"`
	DateOfBirth       time.Time                 `json:"date_of_birth" binding:"required"`
	Gender            patient.Gender            `json:"gender" binding:"required"`
	BloodType         patient.BloodType         `json:"blood_type"`
	NationalID        string                    `json:"national_id" binding:"required"`
	Phone             string                    `json:"phone"`
	Email             string                    `json:"email"`
	Address           string                    `json:"address"`
	City              string                    `json:"city"`
	State             string                    `json:"state"`
	ZipCode           string                    `json:"zip_code"`
	Country           string                    `json:"country"`
	EmergencyContact  *patient.EmergencyContact `json:"emergency_contact"`
	Insurance         *patient.Insurance        `json:"insurance"`
	Allergies         []string                  `json:"allergies"`
	ChronicConditions []string                  `json:"chronic_conditions"`
	AssignedDoctorID  *uuid.UUID                `json:"assigned_doctor_id"`
	Notes             string                    `json:"notes"`
}

func (r *CreatePatientRequest) command() *patient.CreatePatientCommand {
	return &patient.CreatePatientCommand{
		FirstName:         r.FirstName,
		LastName:          r.LastName,
		DateOfBirth:       r.DateOfBirth,
		Gender:            r.Gender,
		BloodType:         r.BloodType,
		NationalID:        r.NationalID,
		Phone:             r.Phone,
		Email:             r.Email,
		Address:           r.Address,
		City:              r.City,
		State:             r.State,
		ZipCode:           r.ZipCode,
		Country:           r.Country,
		EmergencyContact:  r.EmergencyContact,
		Insurance:         r.Insurance,
		Allergies:         r.Allergies,
		ChronicConditions: r.ChronicConditions,
		AssignedDoctorID:  r.AssignedDoctorID,
		Notes:             r.Notes,
	}
}

type UpdatePatientRequest struct {
	FirstName         *string                   `json:"first_name"`
	LastName          *string                   `json:"last_name"`
	Gender            *patient.Gender           `json:"gender"`
	BloodType         *patient.BloodType        `json:"blood_type"`
	Phone             *string                   `json:"phone"`
	Email             *string                   `json:"email"`
	Address           *string                   `json:"address"`
	City              *string                   `json:"city"`
	State             *string                   `json:"state"`
	ZipCode           *string                   `json:"zip_code"`
	Country           *string                   `json:"country"`
	EmergencyContact  *patient.EmergencyContact `json:"emergency_contact"`
	Insurance         *patient.Insurance        `json:"insurance"`
	Allergies         *[]string                 `json:"allergies"`
	ChronicConditions *[]string                 `json:"chronic_conditions"`
	AssignedDoctorID  *uuid.UUID                `json:"assigned_doctor_id"`
	Notes             *string                   `json:"notes"`
}

func (r *UpdatePatientRequest) command() *patient.UpdatePatientCommand {
	return &patient.UpdatePatientCommand{
		FirstName:         r.FirstName,
		LastName:          r.LastName,
		Gender:            r.Gender,
		BloodType:         r.BloodType,
		Phone:             r.Phone,
		Email:             r.Email,
		Address:           r.Address,
		City:              r.City,
		State:             r.State,
		ZipCode:           r.ZipCode,
		Country:           r.Country,
		EmergencyContact:  r.EmergencyContact,
		Insurance:         r.Insurance,
		Allergies:         r.Allergies,
		ChronicConditions: r.ChronicConditions,
		AssignedDoctorID:  r.AssignedDoctorID,
		Notes:             r.Notes,
	}
}

type PatientResponse struct {
	ID                uuid.UUID                 `json:"id"`
	FirstName         string                    `json:"first_name"`
	LastName          string                    `json:"last_name"`
	DateOfBirth       string                    `json:"date_of_birth"`
	Age               int                       `json:"age"`
	Gender            patient.Gender            `json:"gender"`
	BloodType         patient.BloodType         `json:"blood_type,omitempty"`
	NationalID        string                    `json:"national_id"`
	Phone             string                    `json:"phone,omitempty"`
	Email             string                    `json:"email,omitempty"`
	Address           string                    `json:"address,omitempty"`
	City              string                    `json:"city,omitempty"`
	State             string                    `json:"state,omitempty"`
	ZipCode           string                    `json:"zip_code,omitempty"`
	Country           string                    `json:"country,omitempty"`
	EmergencyContact  *patient.EmergencyContact `json:"emergency_contact,omitempty"`
	Insurance         *patient.Insurance        `json:"insurance,omitempty"`
	Allergies         []string                  `json:"allergies"`
	ChronicConditions []string                  `json:"chronic_conditions"`
	Status            patient.Status            `json:"status"`
	AssignedDoctorID  *uuid.UUID                `json:"assigned_doctor_id,omitempty"`
	Notes             string                    `json:"notes,omitempty"`
	CreatedAt         time.Time                 `json:"created_at"`
	UpdatedAt         time.Time                 `json:"updated_at"`
}

func toPatientResponse(p *patient.Patient) PatientResponse {
	return PatientResponse{
		ID:                p.ID,
		FirstName:         p.FirstName,
		LastName:          p.LastName,
		DateOfBirth:       p.DateOfBirth.Format("2006-01-02"),
		Age:               p.Age(),
		Gender:            p.Gender,
		BloodType:         p.BloodType,
		NationalID:        p.NationalID,
		Phone:             p.Phone,
		Email:             p.Email,
		Address:           p.Address,
		City:              p.City,
		State:             p.State,
		ZipCode:           p.ZipCode,
		Country:           p.Country,
		EmergencyContact:  p.EmergencyContact,
		Insurance:         p.Insurance,
		Allergies:         nonNil(p.Allergies),
		ChronicConditions: nonNil(p.ChronicConditions),
		Status:            p.Status,
		AssignedDoctorID:  p.AssignedDoctorID,
		Notes:             p.Notes,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// ── appointments ───────────────────────────────────────────────────────────

type CreateAppointmentRequest struct {
	PatientID      uuid.UUID                   `json:"patient_id"`
	DoctorID       uuid.UUID                   `json:"doctor_id" binding:"required"`
	ScheduledAt    time.Time                   `json:"scheduled_at" binding:"required"`
	DurationMins   int                         `json:"duration_mins"`
	Type           appointment.AppointmentType `json:"type" binding:"required"`
	ChiefComplaint string                      `json:"chief_complaint"`
	Notes          string                      `json:"notes"`
	Room           string                      `json:"room"`
}

type UpdateAppointmentRequest struct {
	ScheduledAt    *time.Time                   `json:"scheduled_at"`
	DurationMins   *int                         `json:"duration_mins"`
	Type           *appointment.AppointmentType `json:"type"`
	ChiefComplaint *string                      `json:"chief_complaint"`
	Notes          *string                      `json:"notes"`
	Room           *string                      `json:"room"`
}

type CancelAppointmentRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type CompleteAppointmentRequest struct {
	ActualDurationMins *int `json:"actual_duration_mins"`
}

type AppointmentResponse struct {
	ID                 uuid.UUID                     `json:"id"`
	PatientID          uuid.UUID                     `json:"patient_id"`
	DoctorID           uuid.UUID                     `json:"doctor_id"`
	ScheduledAt        time.Time                     `json:"scheduled_at"`
	EndsAt             time.Time                     `json:"ends_at"`
	DurationMins       int                           `json:"duration_mins"`
	Type               appointment.AppointmentType   `json:"type"`
	Status             appointment.AppointmentStatus `json:"status"`
	ChiefComplaint     string                        `json:"chief_complaint,omitempty"`
	Notes              string                        `json:"notes,omitempty"`
	Room               string                        `json:"room,omitempty"`
	CancelledAt        *time.Time                    `json:"cancelled_at,omitempty"`
	CancellationReason string                        `json:"cancellation_reason,omitempty"`
	CompletedAt        *time.Time                    `json:"completed_at,omitempty"`
	ActualDurationMins *int                          `json:"actual_duration_mins,omitempty"`
	CreatedAt          time.Time                     `json:"created_at"`
}

func toAppointmentResponse(a *appointment.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:                 a.ID,
		PatientID:          a.PatientID,
		DoctorID:           a.DoctorID,
		ScheduledAt:        a.ScheduledAt,
		EndsAt:             a.EndsAt(),
		DurationMins:       a.DurationMins,
		Type:               a.Type,
		Status:             a.Status,
		ChiefComplaint:     a.ChiefComplaint,
		Notes:              a.Notes,
		Room:               a.Room,
		CancelledAt:        a.CancelledAt,
		CancellationReason: a.CancellationReason,
		CompletedAt:        a.CompletedAt,
		ActualDurationMins: a.ActualDurationMins,
		CreatedAt:          a.CreatedAt,
	}
}

// ── medical records ────────────────────────────────────────────────────────

type AttachmentRequest struct {
	FileName    string `json:"file_name" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
	StorageKey  string `json:"storage_key" binding:"required"`
	SizeBytes   int64  `json:"size_bytes"`
}

type CreateRecordRequest struct {
	PatientID     uuid.UUID           `json:"patient_id" binding:"required"`
	AppointmentID *uuid.UUID          `json:"appointment_id"`
	DoctorID      uuid.UUID           `json:"doctor_id"`
	Type          mr.RecordType       `json:"type" binding:"required"`
	SOAPNote      *mr.SOAPNote        `json:"soap_note"`
	Vitals        *mr.Vitals          `json:"vitals"`
	Diagnoses     []string            `json:"diagnoses"`
	Attachments   []AttachmentRequest `json:"attachments" binding:"dive"`
	Notes         string              `json:"notes"`
}

func (r *CreateRecordRequest) command() *mr.CreateRecordCommand {
	atts := make([]mr.Attachment, 0, len(r.Attachments))
	for _, a := range r.Attachments {
		atts = append(atts, mr.Attachment{
			FileName:    a.FileName,
			ContentType: a.ContentType,
			StorageKey:  a.StorageKey,
			SizeBytes:   a.SizeBytes,
		})
	}
	return &mr.CreateRecordCommand{
		PatientID:     r.PatientID,
		AppointmentID: r.AppointmentID,
		DoctorID:      r.DoctorID,
		Type:          r.Type,
		SOAPNote:      r.SOAPNote,
		Vitals:        r.Vitals,
		Diagnoses:     r.Diagnoses,
		Attachments:   atts,
		Notes:         r.Notes,
	}
}

type AddAddendumRequest struct {
	Content string `json:"content" binding:"required"`
}

type AddendumResponse struct {
	ID        uuid.UUID `json:"id"`
	Content   string    `json:"content"`
	CreatedBy uuid.UUID `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

func toAddendumResponse(a *mr.Addendum) AddendumResponse {
	return AddendumResponse{ID: a.ID, Content: a.Content, CreatedBy: a.CreatedBy, CreatedAt: a.CreatedAt}
}

type RecordResponse struct {
	ID            uuid.UUID          `json:"id"`
	PatientID     uuid.UUID          `json:"patient_id"`
	AppointmentID *uuid.UUID         `json:"appointment_id,omitempty"`
	DoctorID      uuid.UUID          `json:"doctor_id"`
	Type          mr.RecordType      `json:"type"`
	SOAPNote      *mr.SOAPNote       `json:"soap_note,omitempty"`
	Vitals        *mr.Vitals         `json:"vitals,omitempty"`
	Diagnoses     []string           `json:"diagnoses"`
	Attachments   []mr.Attachment    `json:"attachments"`
	Notes         string             `json:"notes,omitempty"`
	Addenda       []AddendumResponse `json:"addenda"`
	CreatedBy     uuid.UUID          `json:"created_by"`
	CreatedAt     time.Time          `json:"created_at"`
}

func toRecordResponse(r *mr.MedicalRecord) RecordResponse {
	addenda := make([]AddendumResponse, 0, len(r.Addenda))
	for i := range r.Addenda {
		addenda = append(addenda, toAddendumResponse(&r.Addenda[i]))
	}
	atts := r.Attachments
	if atts == nil {
		atts = []mr.Attachment{}
	}
	return RecordResponse{
		ID:            r.ID,
		PatientID:     r.PatientID,
		AppointmentID: r.AppointmentID,
		DoctorID:      r.DoctorID,
		Type:          r.Type,
		SOAPNote:      r.SOAPNote,
		Vitals:        r.Vitals,
		Diagnoses:     nonNil(r.Diagnoses),
		Attachments:   atts,
		Notes:         r.Notes,
		Addenda:       addenda,
		CreatedBy:     r.CreatedBy,
		CreatedAt:     r.CreatedAt,
	}
}

// ── departments ────────────────────────────────────────────────────────────

type CreateDepartmentRequest struct {
	Name        string     `json:"name" binding:"required"`
	Code        string     `json:"code" binding:"required"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	Phone       string     `json:"phone"`
	HeadStaffID *uuid.UUID `json:"head_staff_id"`
}

type UpdateDepartmentRequest struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	Location    *string    `json:"location"`
	Phone       *string    `json:"phone"`
	HeadStaffID *uuid.UUID `json:"head_staff_id"`
	IsActive    *bool      `json:"is_active"`
}

type DepartmentResponse struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Code        string     `json:"code"`
	Description string     `json:"description,omitempty"`
	Location    string     `json:"location,omitempty"`
	Phone       string     `json:"phone,omitempty"`
	HeadStaffID *uuid.UUID `json:"head_staff_id,omitempty"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
}

func toDepartmentResponse(d *department.Department) DepartmentResponse {
	return DepartmentResponse{
		ID:          d.ID,
		Name:        d.Name,
		Code:        d.Code,
		Description: d.Description,
		Location:    d.Location,
		Phone:       d.Phone,
		HeadStaffID: d.HeadStaffID,
		IsActive:    d.IsActive,
		CreatedAt:   d.CreatedAt,
	}
}

// ── staff ──────────────────────────────────────────────────────────────────

type CreateStaffRequest struct {
	FirstName       string      `json:"first_name" binding:"required"`
	LastName        string      `json:"last_name" binding:"required"`
	Email           string      `json:"email" binding:"required,email"`
	Phone           string      `json:"phone"`
	Role            domain.Role `json:"role" binding:"required"`
	Specialization  string      `json:"specialization"`
	LicenseNumber   string      `json:"license_number"`
	DepartmentID    *uuid.UUID  `json:"department_id"`
	HireDate        *time.Time  `json:"hire_date"`
	InitialPassword string      `json:"initial_password" binding:"required"`
}

type UpdateStaffRequest struct {
	FirstName      *string       `json:"first_name"`
	LastName       *string       `json:"last_name"`
	Phone          *string       `json:"phone"`
	Role           *domain.Role  `json:"role"`
	Specialization *string       `json:"specialization"`
	LicenseNumber  *string       `json:"license_number"`
	DepartmentID   *uuid.UUID    `json:"department_id"`
	Status         *staff.Status `json:"status"`
}

type StaffResponse struct {
	ID             uuid.UUID    `json:"id"`
	FirstName      string       `json:"first_name"`
	LastName       string       `json:"last_name"`
	Email          string       `json:"email"`
	Phone          string       `json:"phone,omitempty"`
	Role           domain.Role  `json:"role"`
	Specialization string       `json:"specialization,omitempty"`
	LicenseNumber  string       `json:"license_number,omitempty"`
	DepartmentID   *uuid.UUID   `json:"department_id,omitempty"`
	HireDate       *time.Time   `json:"hire_date,omitempty"`
	Status         staff.Status `json:"status"`
	UserID         *uuid.UUID   `json:"user_id,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
}

func toStaffResponse(m *staff.Member) StaffResponse {
	return StaffResponse{
		ID:             m.ID,
		FirstName:      m.FirstName,
		LastName:       m.LastName,
		Email:          m.Email,
		Phone:          m.Phone,
		Role:           m.Role,
		Specialization: m.Specialization,
		LicenseNumber:  m.LicenseNumber,
		DepartmentID:   m.DepartmentID,
		HireDate:       m.HireDate,
		Status:         m.Status,
		UserID:         m.UserID,
		CreatedAt:      m.CreatedAt,
	}
}

// ── shifts ─────────────────────────────────────────────────────────────────

type AssignShiftRequest struct {
	StaffID      uuid.UUID  `json:"staff_id" binding:"required"`
	DepartmentID uuid.UUID  `json:"department_id" binding:"required"`
	Type         shift.Type `json:"type"`
	StartTime    time.Time  `json:"start_time" binding:"required"`
	EndTime      time.Time  `json:"end_time" binding:"required"`
	Notes        string     `json:"notes"`
}

type UpdateShiftRequest struct {
	Type      *shift.Type `json:"type"`
	StartTime *time.Time  `json:"start_time"`
	EndTime   *time.Time  `json:"end_time"`
	Notes     *string     `json:"notes"`
}

type ShiftResponse struct {
	ID            uuid.UUID    `json:"id"`
	StaffID       uuid.UUID    `json:"staff_id"`
	DepartmentID  uuid.UUID    `json:"department_id"`
	Type          shift.Type   `json:"type"`
	StartTime     time.Time    `json:"start_time"`
	EndTime       time.Time    `json:"end_time"`
	DurationHours float64      `json:"duration_hours"`
	Status        shift.Status `json:"status"`
	Source        shift.Source `json:"source"`
	Notes         string       `json:"notes,omitempty"`
	CreatedBy     uuid.UUID    `json:"created_by"`
	CreatedAt     time.Time    `json:"created_at"`
}

func toShiftResponse(s *shift.Shift) ShiftResponse {
	return ShiftResponse{
		ID:            s.ID,
		StaffID:       s.StaffID,
		DepartmentID:  s.DepartmentID,
		Type:          s.Type,
		StartTime:     s.StartTime,
		EndTime:       s.EndTime,
		DurationHours: s.Duration().Hours(),
		Status:        s.Status,
		Source:        s.Source,
		Notes:         s.Notes,
		CreatedBy:     s.CreatedBy,
		CreatedAt:     s.CreatedAt,
	}
}

// ── tasks ──────────────────────────────────────────────────────────────────

type CreateTaskRequest struct {
	Title        string        `json:"title" binding:"required"`
	Description  string        `json:"description"`
	AssigneeID   uuid.UUID     `json:"assignee_id" binding:"required"`
	DepartmentID *uuid.UUID    `json:"department_id"`
	PatientID    *uuid.UUID    `json:"patient_id"`
	Priority     task.Priority `json:"priority"`
	DueAt        *time.Time    `json:"due_at"`
}

type UpdateTaskRequest struct {
	Title       *string        `json:"title"`
	Description *string        `json:"description"`
	AssigneeID  *uuid.UUID     `json:"assignee_id"`
	Priority    *task.Priority `json:"priority"`
	DueAt       *time.Time     `json:"due_at"`
}

type UpdateTaskStatusRequest struct {
	Status task.Status `json:"status" binding:"required"`
}

type TaskResponse struct {
	ID           uuid.UUID     `json:"id"`
	Title        string        `json:"title"`
	Description  string        `json:"description,omitempty"`
	AssigneeID   uuid.UUID     `json:"assignee_id"`
	DepartmentID *uuid.UUID    `json:"department_id,omitempty"`
	PatientID    *uuid.UUID    `json:"patient_id,omitempty"`
	Priority     task.Priority `json:"priority"`
	Status       task.Status   `json:"status"`
	DueAt        *time.Time    `json:"due_at,omitempty"`
	Overdue      bool          `json:"overdue"`
	CompletedAt  *time.Time    `json:"completed_at,omitempty"`
	CreatedBy    uuid.UUID     `json:"created_by"`
	CreatedAt    time.Time     `json:"created_at"`
}

func toTaskResponse(t *task.Task) TaskResponse {
	return TaskResponse{
		ID:           t.ID,
		Title:        t.Title,
		Description:  t.Description,
		AssigneeID:   t.AssigneeID,
		DepartmentID: t.DepartmentID,
		PatientID:    t.PatientID,
		Priority:     t.Priority,
		Status:       t.Status,
		DueAt:        t.DueAt,
		Overdue:      t.IsOverdue(time.Now()),
		CompletedAt:  t.CompletedAt,
		CreatedBy:    t.CreatedBy,
		CreatedAt:    t.CreatedAt,
	}
}

// ── notifications ──────────────────────────────────────────────────────────

type SendNotificationRequest struct {
	RecipientID  uuid.UUID         `json:"recipient_id" binding:"required"`
	Type         notification.Type `json:"type"`
	Title        string            `json:"title" binding:"required"`
	Message      string            `json:"message" binding:"required"`
	ResourceType string            `json:"resource_type"`
	ResourceID   *uuid.UUID        `json:"resource_id"`
}

type NotificationResponse struct {
	ID           uuid.UUID         `json:"id"`
	Type         notification.Type `json:"type"`
	Title        string            `json:"title"`
	Message      string            `json:"message"`
	ResourceType string            `json:"resource_type,omitempty"`
	ResourceID   *uuid.UUID        `json:"resource_id,omitempty"`
	IsRead       bool              `json:"is_read"`
	ReadAt       *time.Time        `json:"read_at,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
}

func toNotificationResponse(n *notification.Notification) NotificationResponse {
	return NotificationResponse{
		ID:           n.ID,
		Type:         n.Type,
		Title:        n.Title,
		Message:      n.Message,
		ResourceType: n.ResourceType,
		ResourceID:   n.ResourceID,
		IsRead:       n.IsRead,
		ReadAt:       n.ReadAt,
		CreatedAt:    n.CreatedAt,
	}
}
