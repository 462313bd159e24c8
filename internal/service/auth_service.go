package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain/patient"
	"github.com/dmehra2102/prod-golang-projects/carehub/pkg/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountLocked      = errors.New("account is temporarily locked due to multiple failed login attempts")
	ErrAccountInactive    = errors.New("account is inactive")
	ErrEmailTaken         = errors.New("an account with this email already exists")
	ErrWeakPassword       = errors.New("password must be at least 12 characters")
)

const minPasswordLength = 12

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByStaffID(ctx context.Context, staffID uuid.UUID) (*domain.User, error)
	GetByPatientID(ctx context.Context, patientID uuid.UUID) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdateLoginAttempt(ctx context.Context, id uuid.UUID, success bool) error
	UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	UpdateRole(ctx context.Context, id uuid.UUID, role domain.Role) error
}

type RegisterPatientCommand struct {
	Email       string
	Password    string
	FirstName   string
	LastName    string
	DateOfBirth time.Time
	Gender      patient.Gender
	NationalID  string
	Phone       string
}

type AuthService struct {
	userRepo    UserRepository
	patientRepo patient.Repository
	tx          Transactor
	jwtManager  *auth.JWTManager
	auditSvc    *AuditService
	log         *zap.Logger
	hashCost    int
}

func NewAuthService(
	userRepo UserRepository,
	patientRepo patient.Repository,
	tx Transactor,
	jwtManager *auth.JWTManager,
	auditSvc *AuditService,
	log *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		patientRepo: patientRepo,
		tx:          tx,
		jwtManager:  jwtManager,
		auditSvc:    auditSvc,
		log:         log,
		hashCost:    bcrypt.DefaultCost,
	}
}

func (s *AuthService) Login(ctx context.Context, email, password string, ip string) (*domain.TokenPair, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		// Spend a hash anyway so response time does not reveal whether the email exists.
		_, _ = bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	if user.IsLocked() {
		return nil, ErrAccountLocked
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if err := s.userRepo.UpdateLoginAttempt(ctx, user.ID, false); err != nil {
			s.log.Error("failed to record login attempt", zap.Error(err))
		}
		s.log.Warn("failed login attempt",
			zap.String("user_id", user.ID.String()),
			zap.String("ip", ip),
		)
		return nil, ErrInvalidCredentials
	}

	if err := s.userRepo.UpdateLoginAttempt(ctx, user.ID, true); err != nil {
		s.log.Error("failed to record login attempt", zap.Error(err))
	}

	pair, err := s.jwtManager.GenerateTokenPair(claimsFor(user))
	if err != nil {
		s.log.Error("failed to generate token pair", zap.Error(err))
		return nil, fmt.Errorf("generating tokens: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       user.ID,
		UserRole:     user.Role,
		Action:       domain.ActionLogin,
		ResourceType: "user",
		ResourceID:   user.ID.String(),
		IPAddress:    ip,
	})

	s.log.Info("user logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)),
		zap.String("ip", ip),
	)

	return pair, nil
}

// RefreshToken issues a new pair given a valid refresh token. Role and links
// are re-read so a demoted or deactivated account cannot keep old privileges.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil || !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	return s.jwtManager.GenerateTokenPair(claimsFor(user))
}

// ChangePassword updates a user's password after verifying the current one.
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := s.hashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("updating password: %w", err)
	}
	s.log.Info("password changed", zap.String("user_id", userID.String()))
	return nil
}

// RegisterPatient creates a patient chart and its portal account together.
func (s *AuthService) RegisterPatient(ctx context.Context, cmd *RegisterPatientCommand, ip string) (*domain.User, error) {
	var v validation
	_, mailErr := mail.ParseAddress(cmd.Email)
	v.check(mailErr == nil, "email is invalid")
	v.check(len(cmd.Password) >= minPasswordLength, ErrWeakPassword.Error())
	v.check(strings.TrimSpace(cmd.FirstName) != "", "first_name is required")
	v.check(strings.TrimSpace(cmd.LastName) != "", "last_name is required")
	v.check(!cmd.DateOfBirth.IsZero() && !cmd.DateOfBirth.After(time.Now()), "date_of_birth is invalid")
	v.check(cmd.Gender.IsValid(), "gender is invalid")
	v.check(strings.TrimSpace(cmd.NationalID) != "", "national_id is required")
	if err := v.err(); err != nil {
		return nil, err
	}

	hash, err := s.hashPassword(cmd.Password)
	if err != nil {
		return nil, err
	}

	userID := uuid.New()
	p := &patient.Patient{
		ID:          uuid.New(),
		FirstName:   strings.TrimSpace(cmd.FirstName),
		LastName:    strings.TrimSpace(cmd.LastName),
		DateOfBirth: cmd.DateOfBirth,
		Gender:      cmd.Gender,
		NationalID:  strings.TrimSpace(cmd.NationalID),
		ContactInfo: patient.ContactInfo{
			Phone: strings.TrimSpace(cmd.Phone),
			Email: strings.ToLower(strings.TrimSpace(cmd.Email)),
		},
		Status:    patient.StatusActive,
		CreatedBy: userID,
	}
	u := &domain.User{
		ID:                userID,
		Email:             strings.ToLower(strings.TrimSpace(cmd.Email)),
		PasswordHash:      hash,
		FirstName:         p.FirstName,
		LastName:          p.LastName,
		Role:              domain.RolePatient,
		PatientID:         &p.ID,
		IsActive:          true,
		PasswordChangedAt: time.Now(),
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		taken, err := s.userRepo.ExistsByEmail(ctx, u.Email)
		if err != nil {
			return fmt.Errorf("checking email: %w", err)
		}
		if taken {
			return ErrEmailTaken
		}
		exists, err := s.patientRepo.ExistsByNationalID(ctx, p.NationalID, nil)
		if err != nil {
			return fmt.Errorf("checking national ID: %w", err)
		}
		if exists {
			return patient.ErrPatientAlreadyExists
		}
		if err := s.patientRepo.Create(ctx, p); err != nil {
			return err
		}
		return s.userRepo.Create(ctx, u)
	})
	if err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       u.ID,
		UserRole:     u.Role,
		Action:       domain.ActionCreate,
		ResourceType: "patient",
		ResourceID:   p.ID.String(),
		IPAddress:    ip,
	})
	s.log.Info("patient self-registered",
		zap.String("user_id", u.ID.String()),
		zap.String("patient_id", p.ID.String()),
	)
	return u, nil
}

func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

func (s *AuthService) hashPassword(password string) (string, error) {
	if len(password) < minPasswordLength {
		return "", ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

func claimsFor(u *domain.User) *domain.Claims {
	return &domain.Claims{
		UserID:    u.ID,
		Email:     u.Email,
		Role:      u.Role,
		StaffID:   u.StaffID,
		PatientID: u.PatientID,
	}
}
