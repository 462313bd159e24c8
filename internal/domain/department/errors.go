package department

import "errors"

var (
	ErrDepartmentNotFound = errors.New("department not found")
	ErrDepartmentExists   = errors.New("department with this name or code already exists")
	ErrDepartmentInUse    = errors.New("department still has active staff assigned")
	ErrDepartmentInactive = errors.New("department is not active")
)
