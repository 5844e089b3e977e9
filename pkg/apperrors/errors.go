// Package apperrors defines the error taxonomy shared by the Datasphere
// client, the profiling engine and the MCP tool layer.
package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound indicates a space, asset or catalog entry does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidQuery indicates a malformed select/filter/order_by expression
	// rejected by the consumption API.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrConnectivity indicates the tenant is unreachable or authentication
	// failed. Not retried here; retry policy belongs to the caller.
	ErrConnectivity = errors.New("datasphere unreachable")
	// ErrColumnNotFound indicates a column is absent from a sample.
	ErrColumnNotFound = errors.New("column not found")
)

// NotFoundError identifies the space/asset that could not be resolved.
type NotFoundError struct {
	SpaceID string
	AssetID string
}

func (e *NotFoundError) Error() string {
	if e.AssetID == "" {
		return fmt.Sprintf("space %q not found", e.SpaceID)
	}
	return fmt.Sprintf("asset %q not found in space %q", e.AssetID, e.SpaceID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// InvalidQueryError carries the rejected query parameters back to the caller.
type InvalidQueryError struct {
	SpaceID string
	AssetID string
	Detail  string
}

func (e *InvalidQueryError) Error() string {
	return fmt.Sprintf("invalid query against %s/%s: %s", e.SpaceID, e.AssetID, e.Detail)
}

func (e *InvalidQueryError) Unwrap() error { return ErrInvalidQuery }

// ConnectivityError wraps a transport or auth failure with enough context to
// explain the failure without log access.
type ConnectivityError struct {
	Op    string
	Cause error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("datasphere unreachable during %s: %v", e.Op, e.Cause)
}

func (e *ConnectivityError) Unwrap() error { return ErrConnectivity }

// ColumnNotFoundError reports the exact requested column name plus the
// columns that were actually available in the sample.
type ColumnNotFoundError struct {
	Column    string
	Available []string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("column %q not found; available columns: %s",
		e.Column, strings.Join(e.Available, ", "))
}

func (e *ColumnNotFoundError) Unwrap() error { return ErrColumnNotFound }
