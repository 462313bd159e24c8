package service

import (
	"context"
	"errors"
	"strings"
)

var ErrForbidden = errors.New("forbidden: insufficient permissions")

type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, "; ")
}

// validation collects field problems and yields a *ValidationError when any were found.
type validation []string

func (v *validation) check(ok bool, msg string) {
	if !ok {
		*v = append(*v, msg)
	}
}

func (v validation) err() error {
	if len(v) == 0 {
		return nil
	}
	return &ValidationError{Fields: v}
}

// Transactor runs fn in one database transaction; repositories given the
// inner context join it.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
