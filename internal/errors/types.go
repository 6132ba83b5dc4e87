package errors

// ValidationError represents a validation error with a field and message
type ValidationError struct {
	Field   string
	Message string
}

// StorageError represents an error during ledger, gate or settings access
type StorageError struct {
	Message string
	Cause   error
}

// DuplicateMigrationError is returned when the store already holds a
// completion record for a migration name.
type DuplicateMigrationError struct {
	Name string
}

// MigrationFailedError is returned from a pass when a migration with the
// propagate catch policy fails. It is fatal to startup.
type MigrationFailedError struct {
	Name  string
	Cause error
}
