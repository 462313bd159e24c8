package postgres

import (
	"context"
	"strings"
	"time"

	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	maxFailedLogins = 5
	lockDuration    = 15 * time.Minute
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	return translate(conn(ctx, r.db).Create(u).Error, nil, domain.ErrUserExists)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := conn(ctx, r.db).Scopes(notDeleted).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&u).Error
	if err != nil {
		return nil, translate(err, domain.ErrUserNotFound, nil)
	}
	return &u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var u domain.User
	if err := conn(ctx, r.db).Scopes(notDeleted).First(&u, "id = ?", id).Error; err != nil {
		return nil, translate(err, domain.ErrUserNotFound, nil)
	}
	return &u, nil
}

func (r *UserRepository) GetByStaffID(ctx context.Context, staffID uuid.UUID) (*domain.User, error) {
	var u domain.User
	if err := conn(ctx, r.db).Scopes(notDeleted).First(&u, "staff_id = ?", staffID).Error; err != nil {
		return nil, translate(err, domain.ErrUserNotFound, nil)
	}
	return &u, nil
}

func (r *UserRepository) GetByPatientID(ctx context.Context, patientID uuid.UUID) (*domain.User, error) {
	var u domain.User
	if err := conn(ctx, r.db).Scopes(notDeleted).First(&u, "patient_id = ?", patientID).Error; err != nil {
		return nil, translate(err, domain.ErrUserNotFound, nil)
	}
	return &u, nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var n int64
	err := conn(ctx, r.db).Model(&domain.User{}).Scopes(notDeleted).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		Count(&n).Error
	return n > 0, err
}

// UpdateLoginAttempt resets the failure counter on success, otherwise bumps it
// and locks the account once the threshold is reached. Done in one statement
// so concurrent attempts cannot undercount. A lock that has already lapsed
// starts a fresh count instead of re-locking on the next miss.
func (r *UserRepository) UpdateLoginAttempt(ctx context.Context, id uuid.UUID, success bool) error {
	db := conn(ctx, r.db).Model(&domain.User{}).Where("id = ?", id)
	now := time.Now()
	if success {
		return db.Updates(map[string]any{
			"failed_login_count": 0,
			"locked_until":       nil,
			"last_login_at":      now,
		}).Error
	}
	return db.Updates(failedLoginUpdates(now)).Error
}

const (
	lockLapsed   = "locked_until IS NOT NULL AND locked_until <= ?::timestamptz"
	nextFailures = "CASE WHEN " + lockLapsed + " THEN 1 ELSE failed_login_count + 1 END"
)

// failedLoginUpdates reads only the row's old values, as postgres evaluates
// every SET expression against the pre-update row.
func failedLoginUpdates(now time.Time) map[string]any {
	return map[string]any{
		"failed_login_count": gorm.Expr(nextFailures, now),
		"locked_until": gorm.Expr(
			"CASE WHEN "+nextFailures+" >= ? THEN ?::timestamptz WHEN "+lockLapsed+" THEN NULL ELSE locked_until END",
			now, maxFailedLogins, now.Add(lockDuration), now,
		),
	}
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	return conn(ctx, r.db).Model(&domain.User{}).Where("id = ?", id).Updates(map[string]any{
		"password_hash":       hash,
		"password_changed_at": time.Now(),
	}).Error
}

func (r *UserRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return conn(ctx, r.db).Model(&domain.User{}).Where("id = ?", id).Update("is_active", active).Error
}

func (r *UserRepository) UpdateRole(ctx context.Context, id uuid.UUID, role domain.Role) error {
	return conn(ctx, r.db).Model(&domain.User{}).Where("id = ?", id).Update("role", role).Error
}
