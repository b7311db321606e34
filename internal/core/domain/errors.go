package domain

import (
	"errors"
	"strings"
)

// DomainError is a settings error with a stable code of the form
// TD-<AREA>-<NNNN>. Two DomainErrors match under errors.Is when their
// codes are equal; Cause stays reachable through errors.Is and errors.As.
type DomainError struct {
	Code    string
	Message string
	Details string
	Cause   error
}

// Error renders "[code] message: details: cause", skipping empty parts.
func (e *DomainError) Error() string {
	var b strings.Builder
	b.WriteString("[")
	b.WriteString(e.Code)
	b.WriteString("] ")
	b.WriteString(e.Message)
	if e.Details != "" {
		b.WriteString(": ")
		b.WriteString(e.Details)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && e.Code == t.Code
}

// NewDomainError declares an error code.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// WithDetails returns a copy carrying details. The receiver is unchanged,
// so package-level errors can be specialized freely.
func (e *DomainError) WithDetails(details string) *DomainError {
	c := *e
	c.Details = details
	return &c
}

// WithCause returns a copy wrapping cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	c := *e
	c.Cause = cause
	return &c
}

// IsDomainError reports whether err wraps a DomainError with code, or any
// DomainError when code is empty.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if !errors.As(err, &de) {
		return false
	}
	return code == "" || de.Code == code
}

// IsUsageError reports whether err was caused by bad input rather than a
// failed operation.
func IsUsageError(err error) bool {
	for _, target := range []error{ErrMissingArgument, ErrInvalidArgument, ErrUnknownSetting, ErrInvalidSettingValue} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// Settings codec and field errors.
var (
	// ErrMalformedSettings reports a corrupt persisted blob.
	ErrMalformedSettings = NewDomainError("TD-SET-4000", "bad data for settings")

	// ErrAutoDownloadRejected reports a nested auto-download blob that
	// failed to decode.
	ErrAutoDownloadRejected = NewDomainError("TD-SET-4001", "auto-download policy rejected")

	ErrInvalidSettingValue = NewDomainError("TD-SET-4002", "invalid setting value")
	ErrUnknownSetting      = NewDomainError("TD-SET-4040", "unknown setting")
)

// Storage errors.
var (
	ErrSettingsNotFound = NewDomainError("TD-STOR-4040", "settings not found")
	ErrStorageError     = NewDomainError("TD-STOR-5001", "storage error")
)

// System errors.
var (
	ErrInternal        = NewDomainError("TD-SYS-5000", "internal error")
	ErrInvalidArgument = NewDomainError("TD-SYS-1001", "invalid argument")
	ErrMissingArgument = NewDomainError("TD-SYS-1002", "missing required argument")
)
