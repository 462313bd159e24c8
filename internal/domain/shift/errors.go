package shift

import "errors"

var (
	ErrShiftNotFound           = errors.New("shift not found")
	ErrShiftOverlap            = errors.New("staff member already has a shift in this time range")
	ErrInvalidInterval         = errors.New("shift end time must be after start time")
	ErrShiftTooLong            = errors.New("shift cannot be longer than 24 hours")
	ErrInvalidShiftType        = errors.New("invalid shift type")
	ErrInvalidStatusTransition = errors.New("only scheduled shifts can be changed")
	ErrStaffNotInDepartment    = errors.New("staff member does not belong to this department")
)
