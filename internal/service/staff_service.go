package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain/department"
	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain/staff"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const resourceStaff = "staff"

type StaffService struct {
	repo     staff.Repository
	deptRepo department.Repository
	userRepo UserRepository
	tx       Transactor
	auditSvc *AuditService
	log      *zap.Logger
	hashCost int
}

func NewStaffService(
	repo staff.Repository,
	deptRepo department.Repository,
	userRepo UserRepository,
	tx Transactor,
	auditSvc *AuditService,
	log *zap.Logger,
) *StaffService {
	return &StaffService{
		repo:     repo,
		deptRepo: deptRepo,
		userRepo: userRepo,
		tx:       tx,
		auditSvc: auditSvc,
		log:      log,
		hashCost: bcrypt.DefaultCost,
	}
}

// CreateStaff registers an employee and provisions their portal login in the
// same transaction.
func (s *StaffService) CreateStaff(ctx context.Context, caller domain.Caller, cmd *staff.CreateStaffCommand) (*staff.Member, error) {
	if err := validateCreateStaff(cmd); err != nil {
		return nil, err
	}
	if cmd.DepartmentID != nil {
		if err := s.checkDepartment(ctx, *cmd.DepartmentID); err != nil {
			return nil, err
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.InitialPassword), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	email := strings.ToLower(strings.TrimSpace(cmd.Email))
	userID := uuid.New()
	m := &staff.Member{
		ID:             uuid.New(),
		FirstName:      strings.TrimSpace(cmd.FirstName),
		LastName:       strings.TrimSpace(cmd.LastName),
		Email:          email,
		Phone:          strings.TrimSpace(cmd.Phone),
		Role:           cmd.Role,
		Specialization: strings.TrimSpace(cmd.Specialization),
		LicenseNumber:  strings.TrimSpace(cmd.LicenseNumber),
		DepartmentID:   cmd.DepartmentID,
		HireDate:       cmd.HireDate,
		Status:         staff.StatusActive,
		UserID:         &userID,
		CreatedBy:      caller.UserID,
	}
	u := &domain.User{
		ID:                userID,
		Email:             email,
		PasswordHash:      string(hash),
		FirstName:         m.FirstName,
		LastName:          m.LastName,
		Role:              m.Role,
		StaffID:           &m.ID,
		IsActive:          true,
		PasswordChangedAt: time.Now(),
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		exists, err := s.repo.ExistsByEmail(ctx, email, nil)
		if err != nil {
			return fmt.Errorf("checking staff email: %w", err)
		}
		if exists {
			return staff.ErrStaffAlreadyExists
		}
		taken, err := s.userRepo.ExistsByEmail(ctx, email)
		if err != nil {
			return fmt.Errorf("checking user email: %w", err)
		}
		if taken {
			return ErrEmailTaken
		}
		if err := s.repo.Create(ctx, m); err != nil {
			return err
		}
		return s.userRepo.Create(ctx, u)
	})
	if err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, auditFor(caller, domain.ActionCreate, resourceStaff, m.ID))
	s.log.Info("staff member created",
		zap.String("staff_id", m.ID.String()),
		zap.String("role", string(m.Role)),
	)
	return m, nil
}

func (s *StaffService) GetStaff(ctx context.Context, id uuid.UUID) (*staff.Member, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *StaffService) UpdateStaff(ctx context.Context, caller domain.Caller, id uuid.UUID, cmd *staff.UpdateStaffCommand) (*staff.Member, error) {
	var v validation
	if cmd.Role != nil {
		v.check(cmd.Role.IsStaff(), staff.ErrInvalidStaffRole.Error())
	}
	if cmd.Status != nil {
		v.check(cmd.Status.IsValid(), staff.ErrInvalidStatus.Error())
	}
	if cmd.FirstName != nil {
		v.check(strings.TrimSpace(*cmd.FirstName) != "", "first_name cannot be empty")
	}
	if cmd.LastName != nil {
		v.check(strings.TrimSpace(*cmd.LastName) != "", "last_name cannot be empty")
	}
	if err := v.err(); err != nil {
		return nil, err
	}

	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cmd.DepartmentID != nil && !m.BelongsTo(*cmd.DepartmentID) {
		if err := s.checkDepartment(ctx, *cmd.DepartmentID); err != nil {
			return nil, err
		}
	}

	roleChanged := cmd.Role != nil && *cmd.Role != m.Role
	m.Apply(cmd)

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, m); err != nil {
			return err
		}
		if roleChanged && m.UserID != nil {
			return s.userRepo.UpdateRole(ctx, *m.UserID, m.Role)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("updating staff member: %w", err)
	}

	s.auditSvc.LogAsync(ctx, auditFor(caller, domain.ActionUpdate, resourceStaff, id))
	return m, nil
}

// DeactivateStaff soft deletes the member and disables their login.
func (s *StaffService) DeactivateStaff(ctx context.Context, caller domain.Caller, id uuid.UUID) error {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if caller.StaffID != nil && *caller.StaffID == id {
		return &ValidationError{Fields: []string{"you cannot deactivate your own account"}}
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		m.Status = staff.StatusInactive
		if err := s.repo.Update(ctx, m); err != nil {
			return err
		}
		if err := s.repo.SoftDelete(ctx, id); err != nil {
			return err
		}
		if m.UserID != nil {
			return s.userRepo.SetActive(ctx, *m.UserID, false)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("deactivating staff member: %w", err)
	}

	s.auditSvc.LogAsync(ctx, auditFor(caller, domain.ActionDelete, resourceStaff, id))
	s.log.Info("staff member deactivated", zap.String("staff_id", id.String()))
	return nil
}

func (s *StaffService) ListStaff(ctx context.Context, q *staff.ListStaffQuery) (*staff.PagedStaff, error) {
	if q.Status != nil && !q.Status.IsValid() {
		return nil, staff.ErrInvalidStatus
	}
	q.Normalize()
	return s.repo.List(ctx, q)
}

func (s *StaffService) ListByDepartment(ctx context.Context, departmentID uuid.UUID) ([]*staff.Member, error) {
	if _, err := s.deptRepo.GetByID(ctx, departmentID); err != nil {
		return nil, err
	}
	return s.repo.ListActiveByDepartment(ctx, departmentID)
}

func (s *StaffService) checkDepartment(ctx context.Context, id uuid.UUID) error {
	d, err := s.deptRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !d.IsActive {
		return department.ErrDepartmentInactive
	}
	return nil
}

func validateCreateStaff(cmd *staff.CreateStaffCommand) error {
	var v validation
	v.check(strings.TrimSpace(cmd.FirstName) != "", "first_name is required")
	v.check(strings.TrimSpace(cmd.LastName) != "", "last_name is required")
	_, mailErr := mail.ParseAddress(strings.TrimSpace(cmd.Email))
	v.check(mailErr == nil, "email is invalid")
	v.check(cmd.Role.IsStaff(), staff.ErrInvalidStaffRole.Error())
	v.check(len(cmd.InitialPassword) >= minPasswordLength, ErrWeakPassword.Error())
	if cmd.HireDate != nil {
		v.check(!cmd.HireDate.After(time.Now().AddDate(1, 0, 0)), "hire_date is too far in the future")
	}
	return v.err()
}

