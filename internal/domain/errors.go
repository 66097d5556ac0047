package domain

import "fmt"

// NotFoundError indicates a resource was not found.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// ValidationError indicates invalid input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// TransportError indicates a timeout or connection failure while talking to
// the Google Analytics API. Always recoverable: the operation aborts with no
// state change.
type TransportError struct {
	Message string
}

func (e *TransportError) Error() string { return e.Message }

// RemoteAPIError carries an error reported by the Google Analytics API itself
// (non-success status or an error envelope in the body). The remote message
// is surfaced to the user verbatim when available.
type RemoteAPIError struct {
	Message string
}

func (e *RemoteAPIError) Error() string { return e.Message }

// EmptyResponseError indicates a 200 response with an empty body.
type EmptyResponseError struct {
	Message string
}

func (e *EmptyResponseError) Error() string { return e.Message }

// NoCredentialError indicates that no Google Analytics access token is
// configured. Reports render empty and syncs are blocked until the user
// completes the authorization flow.
type NoCredentialError struct {
	Message string
}

func (e *NoCredentialError) Error() string { return e.Message }

// ErrNotFound creates a NotFoundError with a formatted message.
func ErrNotFound(format string, args ...interface{}) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// ErrValidation creates a ValidationError with a formatted message.
func ErrValidation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ErrTransport creates a TransportError with a formatted message.
func ErrTransport(format string, args ...interface{}) *TransportError {
	return &TransportError{Message: fmt.Sprintf(format, args...)}
}

// ErrRemoteAPI creates a RemoteAPIError with a formatted message.
func ErrRemoteAPI(format string, args ...interface{}) *RemoteAPIError {
	return &RemoteAPIError{Message: fmt.Sprintf(format, args...)}
}

// ErrEmptyResponse creates an EmptyResponseError with a formatted message.
func ErrEmptyResponse(format string, args ...interface{}) *EmptyResponseError {
	return &EmptyResponseError{Message: fmt.Sprintf(format, args...)}
}

// ErrNoCredential creates a NoCredentialError with a formatted message.
func ErrNoCredential(format string, args ...interface{}) *NoCredentialError {
	return &NoCredentialError{Message: fmt.Sprintf(format, args...)}
}
