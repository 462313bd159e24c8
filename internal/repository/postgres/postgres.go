// Package postgres implements the domain repositories on top of gorm.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain"
	"gorm.io/gorm"
)

type txKey struct{}

// TxManager runs a function inside a database transaction. Repositories
// called with the context passed to fn join that transaction.
type TxManager struct {
	db *gorm.DB
}

func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

func (m *TxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

func notDeleted(db *gorm.DB) *gorm.DB {
	return db.Where("deleted_at IS NULL")
}

func paginate(req domain.PageRequest) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(req.Offset()).Limit(req.PageSize)
	}
}

// likePattern escapes LIKE metacharacters in user input.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.TrimSpace(s)) + "%"
}

// translate maps gorm sentinel errors onto domain errors.
func translate(err error, notFound, duplicate error) error {
	switch {
	case err == nil:
		return nil
	case notFound != nil && errors.Is(err, gorm.ErrRecordNotFound):
		return notFound
	case duplicate != nil && errors.Is(err, gorm.ErrDuplicatedKey):
		return duplicate
	default:
		return err
	}
}

// listPage runs a count and a paged fetch against the same filtered query.
func listPage[T any](q *gorm.DB, req domain.PageRequest, order string) (*domain.Page[*T], error) {
	req.Normalize()

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("counting rows: %w", err)
	}

	items := make([]*T, 0, req.PageSize)
	if total > 0 {
		if err := q.Session(&gorm.Session{}).Order(order).Scopes(paginate(req)).Find(&items).Error; err != nil {
			return nil, fmt.Errorf("fetching rows: %w", err)
		}
	}

	return domain.NewPage(items, total, req), nil
}

// saveRow writes every mutable column of a live row. Zero rows affected means
// the row is gone or was soft deleted in the meantime.
func saveRow(db *gorm.DB, row any, notFound error) error {
	res := db.Model(row).Scopes(notDeleted).
		Select("*").
		Omit("id", "created_at", "created_by", "deleted_at").
		Updates(row)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound
	}
	return nil
}

// softDelete stamps deleted_at on a live row of model's table.
func softDelete(db *gorm.DB, model any, id any, notFound error) error {
	res := db.Model(model).Scopes(notDeleted).Where("id = ?", id).Update("deleted_at", time.Now())
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound
	}
	return nil
}
