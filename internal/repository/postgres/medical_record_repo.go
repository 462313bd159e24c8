package postgres

import (
	"context"

	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain/medical_record"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MedicalRecordRepository struct {
	db *gorm.DB
}

func NewMedicalRecordRepository(db *gorm.DB) *MedicalRecordRepository {
	return &MedicalRecordRepository{db: db}
}

func withAddenda(db *gorm.DB) *gorm.DB {
	return db.Preload("Addenda", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC")
	})
}

func (r *MedicalRecordRepository) Create(ctx context.Context, rec *medical_record.MedicalRecord) error {
	return conn(ctx, r.db).Omit("Addenda").Create(rec).Error
}

func (r *MedicalRecordRepository) GetByID(ctx context.Context, id uuid.UUID) (*medical_record.MedicalRecord, error) {
	var rec medical_record.MedicalRecord
	if err := conn(ctx, r.db).Scopes(withAddenda).First(&rec, "id = ?", id).Error; err != nil {
		return nil, translate(err, medical_record.ErrRecordNotFound, nil)
	}
	return &rec, nil
}

func (r *MedicalRecordRepository) GetByAppointmentID(ctx context.Context, appointmentID uuid.UUID) (*medical_record.MedicalRecord, error) {
	var rec medical_record.MedicalRecord
	err := conn(ctx, r.db).Scopes(withAddenda).
		Where("appointment_id = ?", appointmentID).
		Order("created_at DESC").
		First(&rec).Error
	if err != nil {
		return nil, translate(err, medical_record.ErrRecordNotFound, nil)
	}
	return &rec, nil
}

func (r *MedicalRecordRepository) AddAddendum(ctx context.Context, a *medical_record.Addendum) error {
	return conn(ctx, r.db).Create(a).Error
}

func (r *MedicalRecordRepository) List(ctx context.Context, q *medical_record.ListRecordsQuery) (*medical_record.PagedRecords, error) {
	db := conn(ctx, r.db).Model(&medical_record.MedicalRecord{})
	if q.PatientID != nil {
		db = db.Where("patient_id = ?", *q.PatientID)
	}
	if q.DoctorID != nil {
		db = db.Where("doctor_id = ?", *q.DoctorID)
	}
	if q.Type != nil {
		db = db.Where("type = ?", *q.Type)
	}
	if q.AppointmentID != nil {
		db = db.Where("appointment_id = ?", *q.AppointmentID)
	}
	if q.DateFrom != nil {
		db = db.Where("created_at >= ?", *q.DateFrom)
	}
	if q.DateTo != nil {
		db = db.Where("created_at < ?", *q.DateTo)
	}
	return listPage[medical_record.MedicalRecord](db, q.PageRequest, "created_at DESC")
}
