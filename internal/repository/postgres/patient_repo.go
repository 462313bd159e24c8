package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain/patient"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PatientRepository struct {
	db *gorm.DB
}

func NewPatientRepository(db *gorm.DB) *PatientRepository {
	return &PatientRepository{db: db}
}

func (r *PatientRepository) Create(ctx context.Context, p *patient.Patient) error {
	return translate(conn(ctx, r.db).Create(p).Error, nil, patient.ErrPatientAlreadyExists)
}

func (r *PatientRepository) GetByID(ctx context.Context, id uuid.UUID) (*patient.Patient, error) {
	var p patient.Patient
	if err := conn(ctx, r.db).Scopes(notDeleted).First(&p, "id = ?", id).Error; err != nil {
		return nil, translate(err, patient.ErrPatientNotFound, nil)
	}
	return &p, nil
}

func (r *PatientRepository) GetByNationalID(ctx context.Context, nationalID string) (*patient.Patient, error) {
	var p patient.Patient
	if err := conn(ctx, r.db).Scopes(notDeleted).First(&p, "national_id = ?", nationalID).Error; err != nil {
		return nil, translate(err, patient.ErrPatientNotFound, nil)
	}
	return &p, nil
}

func (r *PatientRepository) Update(ctx context.Context, p *patient.Patient) error {
	return translate(saveRow(conn(ctx, r.db), p, patient.ErrPatientNotFound), nil, patient.ErrPatientAlreadyExists)
}

func (r *PatientRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	res := conn(ctx, r.db).Model(&patient.Patient{}).Scopes(notDeleted).Where("id = ?", id).
		Updates(map[string]any{"deleted_at": time.Now(), "status": patient.StatusInactive})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return patient.ErrPatientNotFound
	}
	return nil
}

var patientSortColumns = map[string]string{
	"created_at":    "created_at",
	"last_name":     "last_name",
	"first_name":    "first_name",
	"date_of_birth": "date_of_birth",
}

func (r *PatientRepository) List(ctx context.Context, q *patient.ListPatientsQuery) (*patient.PagedPatients, error) {
	db := conn(ctx, r.db).Model(&patient.Patient{}).Scopes(notDeleted)

	if s := strings.TrimSpace(q.Search); s != "" {
		db = db.Where("(first_name || ' ' || last_name) ILIKE ? OR national_id = ?", likePattern(s), s)
	}
	if q.Status != nil {
		db = db.Where("status = ?", *q.Status)
	}
	if q.AssignedDoctorID != nil {
		db = db.Where("assigned_doctor_id = ?", *q.AssignedDoctorID)
	}

	col, ok := patientSortColumns[q.SortBy]
	if !ok {
		col = "created_at"
	}
	dir := "DESC"
	if strings.EqualFold(q.SortOrder, "asc") {
		dir = "ASC"
	}

	return listPage[patient.Patient](db, q.PageRequest, fmt.Sprintf("%s %s", col, dir))
}

func (r *PatientRepository) ExistsByNationalID(ctx context.Context, nationalID string, excludeID *uuid.UUID) (bool, error) {
	db := conn(ctx, r.db).Model(&patient.Patient{}).Scopes(notDeleted).Where("national_id = ?", nationalID)
	if excludeID != nil {
		db = db.Where("id <> ?", *excludeID)
	}
	var n int64
	if err := db.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}
