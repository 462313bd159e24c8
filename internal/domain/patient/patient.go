package patient

import (
	"strings"
	"time"

	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain"
	"github.com/google/uuid"
)

type Gender string

const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderOther   Gender = "other"
	GenderUnknown Gender = "unknown"
)

func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther, GenderUnknown:
		return true
	}
	return false
}

type BloodType string

const (
	BloodTypeAPos    BloodType = "A+"
	BloodTypeANeg    BloodType = "A-"
	BloodTypeBPos    BloodType = "B+"
	BloodTypeBNeg    BloodType = "B-"
	BloodTypeABPos   BloodType = "AB+"
	BloodTypeABNeg   BloodType = "AB-"
	BloodTypeOPos    BloodType = "O+"
	BloodTypeONeg    BloodType = "O-"
	BloodTypeUnknown BloodType = "unknown"
)

func (b BloodType) IsValid() bool {
	switch b {
	case BloodTypeAPos, BloodTypeANeg, BloodTypeBPos, BloodTypeBNeg,
		BloodTypeABPos, BloodTypeABNeg, BloodTypeOPos, BloodTypeONeg, BloodTypeUnknown, "":
		return true
	}
	return false
}

// Status represents the lifecycle state of a patient record.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusDeceased Status = "deceased"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusDeceased:
		return true
	}
	return false
}

type ContactInfo struct {
	Phone   string `gorm:"column:phone;type:varchar(20)"`
	Email   string `gorm:"column:email;type:varchar(255)"`
	Address string `gorm:"column:address;type:text"`
	City    string `gorm:"column:city;type:varchar(100)"`
	State   string `gorm:"column:state;type:varchar(50)"`
	ZipCode string `gorm:"column:zip_code;type:varchar(20)"`
	Country string `gorm:"column:country;type:varchar(100)"`
}

type EmergencyContact struct {
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
	Phone        string `json:"phone"`
}

type Insurance struct {
	Provider      string `json:"provider"`
	PolicyNumber  string `json:"policy_number"`
	GroupNumber   string `json:"group_number"`
	PrimaryHolder string `json:"primary_holder"`
}

type Patient struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime"`
	DeletedAt *time.Time `gorm:"index"` // Soft Delete

	FirstName   string    `gorm:"column:first_name;type:varchar(100);not null"`
	LastName    string    `gorm:"column:last_name;type:varchar(100);not null"`
	DateOfBirth time.Time `gorm:"column:date_of_birth;not null"`
	Gender      Gender    `gorm:"column:gender;type:varchar(20);not null"`
	BloodType   BloodType `gorm:"column:blood_type;type:varchar(5)"`
	NationalID  string    `gorm:"column:national_id;type:varchar(50);uniqueIndex"`

	ContactInfo

	EmergencyContact *EmergencyContact `gorm:"column:emergency_contact;serializer:json"`
	Insurance        *Insurance        `gorm:"column:insurance;serializer:json"`

	Allergies         []string `gorm:"column:allergies;serializer:json"`
	ChronicConditions []string `gorm:"column:chronic_conditions;serializer:json"`

	Status           Status     `gorm:"column:status;type:varchar(20);default:'active';index"`
	AssignedDoctorID *uuid.UUID `gorm:"column:assigned_doctor_id;type:uuid;index"`
	Notes            string     `gorm:"column:notes;type:text"` // PHI

	// Audit: who registered this patient and when
	CreatedBy uuid.UUID `gorm:"column:created_by;type:uuid;not null"`
}

func (Patient) TableName() string {
	return "clinical.patients"
}

func (p *Patient) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

func (p *Patient) Age() int {
	now := time.Now()
	years := now.Year() - p.DateOfBirth.Year()
	if now.Month() < p.DateOfBirth.Month() ||
		(now.Month() == p.DateOfBirth.Month() && now.Day() < p.DateOfBirth.Day()) {
		years--
	}
	return years
}

func (p *Patient) IsActive() bool {
	return p.Status == StatusActive && p.DeletedAt == nil
}

func (p *Patient) Deactivate() error {
	if p.Status == StatusDeceased {
		return ErrPatientDeceased
	}
	p.Status = StatusInactive
	return nil
}

func (p *Patient) MarkDeceased() {
	p.Status = StatusDeceased
}

type CreatePatientCommand struct {
	FirstName         string
	LastName          string
	DateOfBirth       time.Time
	Gender            Gender
	BloodType         BloodType
	NationalID        string
	Phone             string
	Email             string
	Address           string
	City              string
	State             string
	ZipCode           string
	Country           string
	EmergencyContact  *EmergencyContact
	Insurance         *Insurance
	Allergies         []string
	ChronicConditions []string
	AssignedDoctorID  *uuid.UUID
	Notes             string
	CreatedBy         uuid.UUID
}

type UpdatePatientCommand struct {
	FirstName         *string
	LastName          *string
	Gender            *Gender
	BloodType         *BloodType
	Phone             *string
	Email             *string
	Address           *string
	City              *string
	State             *string
	ZipCode           *string
	Country           *string
	EmergencyContact  *EmergencyContact
	Insurance         *Insurance
	Allergies         *[]string
	ChronicConditions *[]string
	AssignedDoctorID  *uuid.UUID
	Notes             *string
	UpdatedBy         uuid.UUID
}

// ListPatientsQuery defines filtering and pagination for patient list queries.
type ListPatientsQuery struct {
	Search           string // Full-text search on name
	Status           *Status
	AssignedDoctorID *uuid.UUID
	SortBy           string
	SortOrder        string // "asc" | "desc"
	domain.PageRequest
}

type PagedPatients = domain.Page[*Patient]

// Apply copies the non-nil fields of cmd onto the patient.
func (p *Patient) Apply(cmd *UpdatePatientCommand) {
	if cmd.FirstName != nil {
		p.FirstName = strings.TrimSpace(*cmd.FirstName)
	}
	if cmd.LastName != nil {
		p.LastName = strings.TrimSpace(*cmd.LastName)
	}
	if cmd.Gender != nil {
		p.Gender = *cmd.Gender
	}
	if cmd.BloodType != nil {
		p.BloodType = *cmd.BloodType
	}
	if cmd.Phone != nil {
		p.Phone = strings.TrimSpace(*cmd.Phone)
	}
	if cmd.Email != nil {
		p.Email = strings.ToLower(strings.TrimSpace(*cmd.Email))
	}
	if cmd.Address != nil {
		p.Address = *cmd.Address
	}
	if cmd.City != nil {
		p.City = *cmd.City
	}
	if cmd.State != nil {
		p.State = *cmd.State
	}
	if cmd.ZipCode != nil {
		p.ZipCode = *cmd.ZipCode
	}
	if cmd.Country != nil {
		p.Country = *cmd.Country
	}
	if cmd.EmergencyContact != nil {
		p.EmergencyContact = cmd.EmergencyContact
	}
	if cmd.Insurance != nil {
		p.Insurance = cmd.Insurance
	}
	if cmd.Allergies != nil {
		p.Allergies = *cmd.Allergies
	}
	if cmd.ChronicConditions != nil {
		p.ChronicConditions = *cmd.ChronicConditions
	}
	if cmd.AssignedDoctorID != nil {
		p.AssignedDoctorID = cmd.AssignedDoctorID
	}
	if cmd.Notes != nil {
		p.Notes = *cmd.Notes
	}
}
