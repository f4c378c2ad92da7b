package convert

import (
	"errors"
	"fmt"

	"songbridge/internal/i18n"
)

// UnreachableError reports that the conversion service could not be reached at all
// (connection refused, dial failure, unknown host).
type UnreachableError struct {
	Addr string
	Err  error
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("Cannot connect to the server. Make sure the application is running on %s", e.Addr)
}

func (e *UnreachableError) Unwrap() error {
	return e.Err
}

// TransportError wraps any other failure while sending the request or reading the reply.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// StatusError is returned for non-2xx responses. Detail holds the body's error
// field, if any; it is logged but not shown.
type StatusError struct {
	Code   int
	Detail string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP error! status: %d", e.Code)
}

// APIError carries the error field of an otherwise successful response.
type APIError struct {
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// MalformedResponseError is returned when a 2xx body is neither an error nor a
// well-formed conversion result.
type MalformedResponseError struct {
	Reason string
}

func (e *MalformedResponseError) Error() string {
	return "malformed response: " + e.Reason
}

// Message turns a conversion error into the single line shown to the user.
// A nil localizer uses the default language.
func Message(err error, localizer *i18n.Localizer) string {
	if err == nil {
		return ""
	}
	if localizer == nil {
		localizer = i18n.NewLocalizer(i18n.DefaultLanguage)
	}

	var (
		unreachable *UnreachableError
		status      *StatusError
		apiErr      *APIError
		malformed   *MalformedResponseError
		transport   *TransportError
	)

	switch {
	case errors.As(err, &unreachable):
		return localizer.T("error.client.unreachable", unreachable.Addr)
	case errors.As(err, &status):
		return localizer.T("error.client.status", status.Code)
	case errors.As(err, &apiErr):
		return localizer.T("error.client.api", apiErr.Message)
	case errors.As(err, &malformed):
		return localizer.T("error.client.malformed")
	case errors.As(err, &transport):
		return localizer.T("error.client.transport", transport.Err.Error())
	default:
		return localizer.T("error.generic")
	}
}
