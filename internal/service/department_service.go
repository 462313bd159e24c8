package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain/department"
	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain/staff"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const resourceDepartment = "department"

type DepartmentService struct {
	repo      department.Repository
	staffRepo staff.Repository
	auditSvc  *AuditService
	log       *zap.Logger
}

func NewDepartmentService(repo department.Repository, staffRepo staff.Repository, auditSvc *AuditService, log *zap.Logger) *DepartmentService {
	return &DepartmentService{repo: repo, staffRepo: staffRepo, auditSvc: auditSvc, log: log}
}

func (s *DepartmentService) CreateDepartment(ctx context.Context, caller domain.Caller, cmd *department.CreateDepartmentCommand) (*department.Department, error) {
	name := strings.TrimSpace(cmd.Name)
	code := department.NormalizeCode(cmd.Code)

	var v validation
	v.check(name != "", "name is required")
	v.check(code != "", "code is required")
	v.check(len(code) <= 20, "code must be at most 20 characters")
	if err := v.err(); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByNameOrCode(ctx, name, code, nil)
	if err != nil {
		return nil, fmt.Errorf("checking uniqueness: %w", err)
	}
	if exists {
		return nil, department.ErrDepartmentExists
	}

	if cmd.HeadStaffID != nil {
		if _, err := s.staffRepo.GetByID(ctx, *cmd.HeadStaffID); err != nil {
			return nil, err
		}
	}

	d := &department.Department{
		ID:          uuid.New(),
		Name:        name,
		Code:        code,
		Description: cmd.Description,
		Location:    cmd.Location,
		Phone:       strings.TrimSpace(cmd.Phone),
		HeadStaffID: cmd.HeadStaffID,
		IsActive:    true,
		CreatedBy:   caller.UserID,
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("creating department: %w", err)
	}

	s.auditSvc.LogAsync(ctx, auditFor(caller, domain.ActionCreate, resourceDepartment, d.ID))
	s.log.Info("department created", zap.String("department_id", d.ID.String()), zap.String("code", d.Code))
	return d, nil
}

func (s *DepartmentService) GetDepartment(ctx context.Context, id uuid.UUID) (*department.Department, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *DepartmentService) UpdateDepartment(ctx context.Context, caller domain.Caller, id uuid.UUID, cmd *department.UpdateDepartmentCommand) (*department.Department, error) {
	var name string
	if cmd.Name != nil {
		if name = strings.TrimSpace(*cmd.Name); name == "" {
			return nil, &ValidationError{Fields: []string{"name cannot be empty"}}
		}
	}

	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if cmd.Name != nil {
		exists, err := s.repo.ExistsByNameOrCode(ctx, name, d.Code, &d.ID)
		if err != nil {
			return nil, fmt.Errorf("checking uniqueness: %w", err)
		}
		if exists {
			return nil, department.ErrDepartmentExists
		}
	}
	if cmd.HeadStaffID != nil {
		head, err := s.staffRepo.GetByID(ctx, *cmd.HeadStaffID)
		if err != nil {
			return nil, err
		}
		if !head.BelongsTo(d.ID) {
			return nil, &ValidationError{Fields: []string{"head_staff_id must be a member of the department"}}
		}
	}

	d.Apply(cmd)
	if err := s.repo.Update(ctx, d); err != nil {
		return nil, fmt.Errorf("updating department: %w", err)
	}

	s.auditSvc.LogAsync(ctx, auditFor(caller, domain.ActionUpdate, resourceDepartment, id))
	return d, nil
}

// DeleteDepartment refuses while any active staff member is still attached.
func (s *DepartmentService) DeleteDepartment(ctx context.Context, caller domain.Caller, id uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	n, err := s.staffRepo.CountActiveByDepartment(ctx, id)
	if err != nil {
		return fmt.Errorf("counting department staff: %w", err)
	}
	if n > 0 {
		return department.ErrDepartmentInUse
	}

	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return fmt.Errorf("deleting department: %w", err)
	}
	s.auditSvc.LogAsync(ctx, auditFor(caller, domain.ActionDelete, resourceDepartment, id))
	return nil
}

func (s *DepartmentService) ListDepartments(ctx context.Context, q *department.ListDepartmentsQuery) (*department.PagedDepartments, error) {
	q.Normalize()
	return s.repo.List(ctx, q)
}
