package postgres

import (
	"context"
	"strings"

	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain/staff"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StaffRepository struct {
	db *gorm.DB
}

func NewStaffRepository(db *gorm.DB) *StaffRepository {
	return &StaffRepository{db: db}
}

func (r *StaffRepository) Create(ctx context.Context, m *staff.Member) error {
	m.Email = strings.ToLower(strings.TrimSpace(m.Email))
	return translate(conn(ctx, r.db).Create(m).Error, nil, staff.ErrStaffAlreadyExists)
}

func (r *StaffRepository) GetByID(ctx context.Context, id uuid.UUID) (*staff.Member, error) {
	var m staff.Member
	if err := conn(ctx, r.db).Scopes(notDeleted).First(&m, "id = ?", id).Error; err != nil {
		return nil, translate(err, staff.ErrStaffNotFound, nil)
	}
	return &m, nil
}

func (r *StaffRepository) Update(ctx context.Context, m *staff.Member) error {
	return translate(saveRow(conn(ctx, r.db), m, staff.ErrStaffNotFound), nil, staff.ErrStaffAlreadyExists)
}

func (r *StaffRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return softDelete(conn(ctx, r.db), &staff.Member{}, id, staff.ErrStaffNotFound)
}

func (r *StaffRepository) List(ctx context.Context, q *staff.ListStaffQuery) (*staff.PagedStaff, error) {
	db := conn(ctx, r.db).Model(&staff.Member{}).Scopes(notDeleted)
	if s := strings.TrimSpace(q.Search); s != "" {
		p := likePattern(s)
		db = db.Where("(first_name || ' ' || last_name) ILIKE ? OR email ILIKE ? OR specialization ILIKE ?", p, p, p)
	}
	if q.DepartmentID != nil {
		db = db.Where("department_id = ?", *q.DepartmentID)
	}
	if q.Role != nil {
		db = db.Where("role = ?", *q.Role)
	}
	if q.Status != nil {
		db = db.Where("status = ?", *q.Status)
	}
	return listPage[staff.Member](db, q.PageRequest, "last_name ASC, first_name ASC")
}

func (r *StaffRepository) activeInDepartment(ctx context.Context, departmentID uuid.UUID) *gorm.DB {
	return conn(ctx, r.db).Model(&staff.Member{}).Scopes(notDeleted).
		Where("department_id = ? AND status = ?", departmentID, staff.StatusActive)
}

func (r *StaffRepository) ListActiveByDepartment(ctx context.Context, departmentID uuid.UUID) ([]*staff.Member, error) {
	var out []*staff.Member
	err := r.activeInDepartment(ctx, departmentID).
		Order("last_name ASC, first_name ASC").
		Find(&out).Error
	return out, err
}

func (r *StaffRepository) CountActiveByDepartment(ctx context.Context, departmentID uuid.UUID) (int64, error) {
	var n int64
	err := r.activeInDepartment(ctx, departmentID).Count(&n).Error
	return n, err
}

func (r *StaffRepository) ExistsByEmail(ctx context.Context, email string, excludeID *uuid.UUID) (bool, error) {
	db := conn(ctx, r.db).Model(&staff.Member{}).Scopes(notDeleted).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email)))
	if excludeID != nil {
		db = db.Where("id <> ?", *excludeID)
	}
	var n int64
	if err := db.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}
