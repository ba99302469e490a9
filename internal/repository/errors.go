package repository

import (
	"errors"
	"fmt"
)

// Sentinel errors wrapped inside StorageError.
var (
	// ErrNoRowReturned indicates that an insert reported success but returned no row.
	ErrNoRowReturned = errors.New("insert returned no row")

	// ErrUnexpectedRowCount indicates that an insert returned more rows than the single one expected.
	ErrUnexpectedRowCount = errors.New("insert returned an unexpected number of rows")

	// ErrConstraint is reported by engines that enforce keys themselves
	// (duplicate primary key or dangling foreign key).
	ErrConstraint = errors.New("constraint violation")

	// ErrMalformedRow indicates that a row returned by the engine could not be decoded.
	ErrMalformedRow = errors.New("malformed row")
)

// StorageError reports a failure of the underlying execution engine.
// Cancellation, connectivity and constraint failures all surface as StorageError;
// use errors.Is on the wrapped error to tell them apart.
type StorageError struct {
	Op    string
	Table Table
	Err   error
}

// Error returns a formatted error message.
func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s %s: %v", e.Op, e.Table, e.Err)
}

// Unwrap returns the underlying engine error.
func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsStorageError reports whether err is, or wraps, a StorageError.
func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}

func storageErr(op string, table Table, err error) error {
	return &StorageError{Op: op, Table: table, Err: err}
}
