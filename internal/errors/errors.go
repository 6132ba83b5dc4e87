package errors

import (
	stderrors "errors"
	"fmt"
)

// Error method implementation for ValidationError
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Error method implementation for StorageError
func (e *StorageError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *StorageError) Unwrap() error {
	return e.Cause
}

func (e *DuplicateMigrationError) Error() string {
	return fmt.Sprintf("%s: %q", ErrMsgDuplicateMigration, e.Name)
}

func (e *MigrationFailedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("data migration %q failed: %v", e.Name, e.Cause)
	}
	return fmt.Sprintf("data migration %q failed", e.Name)
}

func (e *MigrationFailedError) Unwrap() error {
	return e.Cause
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// NewStorageError creates a new StorageError
func NewStorageError(message string, cause error) *StorageError {
	return &StorageError{
		Message: message,
		Cause:   cause,
	}
}

// NewDuplicateMigrationError creates a new DuplicateMigrationError
func NewDuplicateMigrationError(name string) *DuplicateMigrationError {
	return &DuplicateMigrationError{Name: name}
}

// NewMigrationFailedError creates a new MigrationFailedError
func NewMigrationFailedError(name string, cause error) *MigrationFailedError {
	return &MigrationFailedError{
		Name:  name,
		Cause: cause,
	}
}

// IsDuplicateMigration reports whether err carries a DuplicateMigrationError.
func IsDuplicateMigration(err error) bool {
	var dup *DuplicateMigrationError
	return stderrors.As(err, &dup)
}

// IsMigrationFailed reports whether err carries a MigrationFailedError and
// returns it.
func IsMigrationFailed(err error) (*MigrationFailedError, bool) {
	var failed *MigrationFailedError
	if stderrors.As(err, &failed) {
		return failed, true
	}
	return nil, false
}
