package postgres

import (
	"context"
	"time"

	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain/shift"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ShiftRepository struct {
	db *gorm.DB
}

func NewShiftRepository(db *gorm.DB) *ShiftRepository {
	return &ShiftRepository{db: db}
}

func (r *ShiftRepository) Create(ctx context.Context, s *shift.Shift) error {
	return conn(ctx, r.db).Create(s).Error
}

func (r *ShiftRepository) GetByID(ctx context.Context, id uuid.UUID) (*shift.Shift, error) {
	var s shift.Shift
	if err := conn(ctx, r.db).Scopes(notDeleted).First(&s, "id = ?", id).Error; err != nil {
		return nil, translate(err, shift.ErrShiftNotFound, nil)
	}
	return &s, nil
}

func (r *ShiftRepository) Update(ctx context.Context, s *shift.Shift) error {
	return saveRow(conn(ctx, r.db), s, shift.ErrShiftNotFound)
}

func (r *ShiftRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return softDelete(conn(ctx, r.db), &shift.Shift{}, id, shift.ErrShiftNotFound)
}

func (r *ShiftRepository) List(ctx context.Context, q *shift.ListShiftsQuery) (*shift.PagedShifts, error) {
	db := conn(ctx, r.db).Model(&shift.Shift{}).Scopes(notDeleted)
	if q.StaffID != nil {
		db = db.Where("staff_id = ?", *q.StaffID)
	}
	if q.DepartmentID != nil {
		db = db.Where("department_id = ?", *q.DepartmentID)
	}
	if q.Status != nil {
		db = db.Where("status = ?", *q.Status)
	}
	if q.Source != nil {
		db = db.Where("source = ?", *q.Source)
	}
	if q.From != nil {
		db = db.Where("end_time > ?", *q.From)
	}
	if q.To != nil {
		db = db.Where("start_time < ?", *q.To)
	}
	return listPage[shift.Shift](db, q.PageRequest, "start_time ASC")
}

func (r *ShiftRepository) HasOverlap(ctx context.Context, staffID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (bool, error) {
	db := conn(ctx, r.db).Model(&shift.Shift{}).Scopes(notDeleted).
		Where("staff_id = ?", staffID).
		Where("status <> ?", shift.StatusCancelled).
		Where("start_time < ? AND end_time > ?", end, start)
	if excludeID != nil {
		db = db.Where("id <> ?", *excludeID)
	}
	var n int64
	if err := db.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *ShiftRepository) ListByDepartmentBetween(ctx context.Context, departmentID uuid.UUID, from, to time.Time) ([]*shift.Shift, error) {
	var out []*shift.Shift
	err := conn(ctx, r.db).Scopes(notDeleted).
		Where("department_id = ?", departmentID).
		Where("start_time >= ? AND start_time < ?", from, to).
		Order("start_time ASC").
		Find(&out).Error
	return out, err
}
