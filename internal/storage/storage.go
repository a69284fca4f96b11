package storage

import "errors"

var (
	ErrNotFound      = errors.New("record not found")
	ErrAlreadyExists = errors.New("record already exists")
	ErrExpired       = errors.New("record expired")
)

var (
	ErrFileTooLarge    = errors.New("file size exceeds limit")
	ErrInvalidFileType = errors.New("invalid file type")
	ErrFileNotFound    = errors.New("file not found")
)

// ConstraintError names the unique constraint a write violated.
type ConstraintError struct {
	Constraint string
}

func (e *ConstraintError) Error() string {
	return "record already exists: " + e.Constraint
}

func (e *ConstraintError) Is(target error) bool {
	return target == ErrAlreadyExists
}

// ConstraintOf returns the violated constraint name, or "" when err is not a
// unique violation.
func ConstraintOf(err error) string {
	var ce *ConstraintError
	if errors.As(err, &ce) {
		return ce.Constraint
	}

	return ""
}
