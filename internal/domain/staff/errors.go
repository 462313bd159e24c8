package staff

import "errors"

var (
	ErrStaffNotFound      = errors.New("staff member not found")
	ErrStaffAlreadyExists = errors.New("staff member with this email already exists")
	ErrStaffInactive      = errors.New("staff member is not active")
	ErrInvalidStaffRole   = errors.New("invalid staff role")
	ErrInvalidStatus      = errors.New("invalid staff status")
)
