package manualapi

import (
	"errors"
	"fmt"
	"net"
	"os"
	"syscall"
)

// ErrorKind is the category of a lookup failure.
type ErrorKind int

const (
	// KindValidation indicates the user input was rejected before any request.
	KindValidation ErrorKind = iota
	// KindTransport indicates the service could not be reached, or answered
	// with a non-2xx status and no readable body.
	KindTransport
	// KindMalformedResponse indicates a 2xx body that is not the expected JSON.
	KindMalformedResponse
	// KindApplication indicates the service reported failure or returned no data.
	KindApplication
	// KindVerification indicates a resolved manual failed its existence probe.
	KindVerification
	// KindExport indicates the PDF export pipeline failed.
	KindExport
)

// String returns a human-readable name for the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "Validation Error"
	case KindTransport:
		return "Transport Error"
	case KindMalformedResponse:
		return "Malformed Response"
	case KindApplication:
		return "Application Error"
	case KindVerification:
		return "Verification Error"
	case KindExport:
		return "Export Error"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// TransportSubtype narrows down a transport failure.
type TransportSubtype int

const (
	TransportGeneral TransportSubtype = iota
	TransportTimeout
	TransportConnectionRefused
	TransportDNS
	TransportHostUnreachable
	TransportNetworkUnreachable
	TransportStatus
)

// Default user-facing messages, one per kind.
const (
	MsgDeviceRequired = "device name required"
	MsgConnection     = "Connection error. Please check your Internet connection."
	MsgMalformed      = "Malformed response from server."
	MsgNotFound       = "Manual not found for this device"
	MsgUnloadable     = "Manual could not be loaded."
)

// Error is returned by every operation in this package.
type Error struct {
	Kind    ErrorKind
	Message string

	// StatusCode is the HTTP status, when a response was received.
	StatusCode int

	// Subtype is set for transport failures.
	Subtype TransportSubtype

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewValidationError creates an input validation error.
func NewValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// NewTransportError classifies err and wraps it as a transport error.
func NewTransportError(message string, err error) *Error {
	return &Error{
		Kind:    KindTransport,
		Message: message,
		Subtype: classifyTransport(err),
		Err:     err,
	}
}

// NewStatusError creates a transport error for a non-2xx response without
// a readable body.
func NewStatusError(statusCode int) *Error {
	return &Error{
		Kind:       KindTransport,
		Message:    fmt.Sprintf("unexpected status code: %d", statusCode),
		StatusCode: statusCode,
		Subtype:    TransportStatus,
	}
}

// NewMalformedError creates a malformed response error.
func NewMalformedError(message string, err error) *Error {
	return &Error{Kind: KindMalformedResponse, Message: message, Err: err}
}

// NewApplicationError creates an error for a failure reported by the service.
func NewApplicationError(message string, statusCode int) *Error {
	return &Error{Kind: KindApplication, Message: message, StatusCode: statusCode}
}

// NewVerificationError creates an error for a failed existence probe.
func NewVerificationError(message string, statusCode int, err error) *Error {
	return &Error{Kind: KindVerification, Message: message, StatusCode: statusCode, Err: err}
}

// NewExportError creates an export pipeline error.
func NewExportError(message string, err error) *Error {
	return &Error{Kind: KindExport, Message: message, Err: err}
}

func classifyTransport(err error) TransportSubtype {
	if err == nil {
		return TransportGeneral
	}
	if os.IsTimeout(err) || errors.Is(err, os.ErrDeadlineExceeded) {
		return TransportTimeout
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return TransportDNS
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		switch {
		case errors.Is(opErr.Err, syscall.ECONNREFUSED):
			return TransportConnectionRefused
		case errors.Is(opErr.Err, syscall.EHOSTUNREACH):
			return TransportHostUnreachable
		case errors.Is(opErr.Err, syscall.ENETUNREACH):
			return TransportNetworkUnreachable
		}
	}
	return TransportGeneral
}

// KindOf returns the kind of a lookup error and whether err is one.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

func isKind(err error, kind ErrorKind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

func IsValidationError(err error) bool   { return isKind(err, KindValidation) }
func IsTransportError(err error) bool    { return isKind(err, KindTransport) }
func IsMalformedError(err error) bool    { return isKind(err, KindMalformedResponse) }
func IsApplicationError(err error) bool  { return isKind(err, KindApplication) }
func IsVerificationError(err error) bool { return isKind(err, KindVerification) }
func IsExportError(err error) bool       { return isKind(err, KindExport) }

// UserMessage returns the single line shown in the error region.
// Application and validation errors show their own message (the
// server-supplied text when there is one); the other kinds map to fixed
// messages.
func UserMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}

	switch e.Kind {
	case KindValidation:
		return e.Message
	case KindTransport:
		return MsgConnection
	case KindMalformedResponse:
		return MsgMalformed
	case KindApplication:
		if e.Message == "" {
			return MsgNotFound
		}
		return e.Message
	case KindVerification:
		return MsgUnloadable
	case KindExport:
		if e.Err != nil {
			return fmt.Sprintf("PDF export failed: %v", e.Err)
		}
		return "PDF export failed: " + e.Message
	default:
		return e.Message
	}
}

// Hint returns troubleshooting advice for the CLI, or "" if none applies.
func Hint(err error) string {
	var e *Error
	if !errors.As(err, &e) || e.Kind != KindTransport {
		return ""
	}
	switch e.Subtype {
	case TransportTimeout:
		return "The manual service did not respond in time. Generation can be slow; try --timeout with a larger value."
	case TransportConnectionRefused:
		return "The manual service refused the connection. Check that it is running and that --server points at it."
	case TransportDNS:
		return "Could not resolve the server hostname. Use an IP address or run 'techguide scan'."
	case TransportHostUnreachable, TransportNetworkUnreachable:
		return "The server is not reachable from this machine. Check your network connection."
	case TransportStatus:
		return fmt.Sprintf("The server answered HTTP %d without a readable body.", e.StatusCode)
	default:
		return "Check your network connection and the --server address."
	}
}
