// Package errors provides the error taxonomy for the cluster bindings.
// This is a leaf package with no internal dependencies so that the native
// call layer, the binding layer, and the API layer can all import it without
// cycles.
//
// Every native call site wraps its failure into a ClusterError immediately;
// raw win32 status codes never cross a package boundary except as the Status
// field of a ClusterError.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a cluster binding failure.
type ErrorCode int

const (
	// ErrConnectionFailed indicates the cluster could not be opened.
	ErrConnectionFailed ErrorCode = iota + 1

	// ErrSessionClosed indicates an operation was attempted on a closed
	// session or through a child of a closed session.
	ErrSessionClosed

	// ErrHandleAcquisitionFailed indicates a native open or enumerate call
	// returned an invalid handle.
	ErrHandleAcquisitionFailed

	// ErrNativeCallFailed indicates a native control or query call returned
	// a non-success status code.
	ErrNativeCallFailed

	// ErrObjectNotFound indicates an open-by-name found no matching object.
	ErrObjectNotFound

	// ErrInvalidUTF16 indicates a string could not be marshaled to or from
	// the wide representation the native API requires.
	ErrInvalidUTF16

	// ErrUnsupportedPlatform indicates the native cluster API is not
	// available on the host platform.
	ErrUnsupportedPlatform
)

// String returns a human-readable name for the error code.
func (c ErrorCode) String() string {
	switch c {
	case ErrConnectionFailed:
		return "ConnectionFailed"
	case ErrSessionClosed:
		return "SessionClosed"
	case ErrHandleAcquisitionFailed:
		return "HandleAcquisitionFailed"
	case ErrNativeCallFailed:
		return "NativeCallFailed"
	case ErrObjectNotFound:
		return "ObjectNotFound"
	case ErrInvalidUTF16:
		return "InvalidUTF16"
	case ErrUnsupportedPlatform:
		return "UnsupportedPlatform"
	default:
		return fmt.Sprintf("Unknown(%d)", c)
	}
}

// ClusterError is a cluster binding failure with enough structure for the
// calling layer to map it mechanically (for example to an HTTP status)
// without parsing strings.
type ClusterError struct {
	// Code classifies the failure.
	Code ErrorCode

	// Op names the operation that failed, e.g. "OpenClusterNode".
	Op string

	// Object names the target of the operation when there is one.
	Object string

	// Status is the raw win32 status code for native failures, zero
	// otherwise.
	Status uint32

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *ClusterError) Error() string {
	msg := e.Code.String()
	if e.Op != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Op)
	}
	if e.Object != "" {
		msg = fmt.Sprintf("%s %q", msg, e.Object)
	}
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *ClusterError) Unwrap() error {
	return e.Err
}

// CodeOf returns the ErrorCode carried by err, or zero if err is not a
// ClusterError.
func CodeOf(err error) ErrorCode {
	var ce *ClusterError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return 0
}

// IsCode reports whether err is a ClusterError with the given code.
func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}

// ============================================================================
// Factory functions
// ============================================================================

// NewConnectionFailed creates a ConnectionFailed error for the named cluster.
// An empty name means the local cluster.
func NewConnectionFailed(cluster string, status uint32) *ClusterError {
	return &ClusterError{
		Code:   ErrConnectionFailed,
		Op:     "OpenCluster",
		Object: cluster,
		Status: status,
	}
}

// NewSessionClosed creates a SessionClosed error for the given operation.
func NewSessionClosed(op string) *ClusterError {
	return &ClusterError{
		Code: ErrSessionClosed,
		Op:   op,
	}
}

// NewHandleAcquisitionFailed creates a HandleAcquisitionFailed error.
func NewHandleAcquisitionFailed(op string, status uint32) *ClusterError {
	return &ClusterError{
		Code:   ErrHandleAcquisitionFailed,
		Op:     op,
		Status: status,
	}
}

// NewNativeCallFailed creates a NativeCallFailed error carrying the raw
// win32 status.
func NewNativeCallFailed(op, object string, status uint32) *ClusterError {
	return &ClusterError{
		Code:   ErrNativeCallFailed,
		Op:     op,
		Object: object,
		Status: status,
	}
}

// NewObjectNotFound creates an ObjectNotFound error for the named object.
func NewObjectNotFound(op, name string) *ClusterError {
	return &ClusterError{
		Code:   ErrObjectNotFound,
		Op:     op,
		Object: name,
	}
}

// NewInvalidUTF16 creates an InvalidUTF16 error wrapping the marshaling
// failure.
func NewInvalidUTF16(op string, err error) *ClusterError {
	return &ClusterError{
		Code: ErrInvalidUTF16,
		Op:   op,
		Err:  err,
	}
}

// NewUnsupportedPlatform creates an UnsupportedPlatform error for the given
// operation.
func NewUnsupportedPlatform(op string) *ClusterError {
	return &ClusterError{
		Code: ErrUnsupportedPlatform,
		Op:   op,
	}
}
