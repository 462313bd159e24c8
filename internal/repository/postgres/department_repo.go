package postgres

import (
	"context"
	"strings"

	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain/department"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DepartmentRepository struct {
	db *gorm.DB
}

func NewDepartmentRepository(db *gorm.DB) *DepartmentRepository {
	return &DepartmentRepository{db: db}
}

func (r *DepartmentRepository) Create(ctx context.Context, d *department.Department) error {
	return translate(conn(ctx, r.db).Create(d).Error, nil, department.ErrDepartmentExists)
}

func (r *DepartmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*department.Department, error) {
	var d department.Department
	if err := conn(ctx, r.db).Scopes(notDeleted).First(&d, "id = ?", id).Error; err != nil {
		return nil, translate(err, department.ErrDepartmentNotFound, nil)
	}
	return &d, nil
}

func (r *DepartmentRepository) Update(ctx context.Context, d *department.Department) error {
	err := saveRow(conn(ctx, r.db), d, department.ErrDepartmentNotFound)
	return translate(err, nil, department.ErrDepartmentExists)
}

func (r *DepartmentRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return softDelete(conn(ctx, r.db), &department.Department{}, id, department.ErrDepartmentNotFound)
}

func (r *DepartmentRepository) List(ctx context.Context, q *department.ListDepartmentsQuery) (*department.PagedDepartments, error) {
	db := conn(ctx, r.db).Model(&department.Department{}).Scopes(notDeleted)
	if s := strings.TrimSpace(q.Search); s != "" {
		db = db.Where("name ILIKE ? OR code ILIKE ?", likePattern(s), likePattern(s))
	}
	if q.ActiveOnly {
		db = db.Where("is_active = ?", true)
	}
	return listPage[department.Department](db, q.PageRequest, "name ASC")
}

func (r *DepartmentRepository) ListActive(ctx context.Context) ([]*department.Department, error) {
	var out []*department.Department
	err := conn(ctx, r.db).Scopes(notDeleted).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&out).Error
	return out, err
}

func (r *DepartmentRepository) ExistsByNameOrCode(ctx context.Context, name, code string, excludeID *uuid.UUID) (bool, error) {
	db := conn(ctx, r.db).Model(&department.Department{}).Scopes(notDeleted).
		Where("(LOWER(name) = LOWER(?) OR code = ?)", strings.TrimSpace(name), department.NormalizeCode(code))
	if excludeID != nil {
		db = db.Where("id <> ?", *excludeID)
	}
	var n int64
	if err := db.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}
