package core

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindEmptyPrompt           ErrorKind = "EmptyPrompt"
	KindMissingCredential     ErrorKind = "MissingCredential"
	KindHTTPError             ErrorKind = "HttpError"
	KindMalformedResponse     ErrorKind = "MalformedResponse"
	KindEmptyUpstreamResponse ErrorKind = "EmptyUpstreamResponse"
	KindNetworkError          ErrorKind = "NetworkError"
	KindUpstreamTimeout       ErrorKind = "UpstreamTimeout"
	KindUnconfiguredProvider  ErrorKind = "UnconfiguredProvider"
	KindStorageUnavailable    ErrorKind = "StorageUnavailable"
)

// Error carries a taxonomy kind plus the provider and HTTP status where relevant.
type Error struct {
	Kind     ErrorKind
	Provider ProviderKind
	Status   int
	Err      error
}

func (e *Error) Error() string {
	var prefix string
	if e.Provider != "" {
		prefix = string(e.Provider) + ": "
	}
	switch {
	case e.Kind == KindHTTPError && e.Err != nil:
		return fmt.Sprintf("%s%s %d: %v", prefix, e.Kind, e.Status, e.Err)
	case e.Kind == KindHTTPError:
		return fmt.Sprintf("%s%s %d", prefix, e.Kind, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("%s%s: %v", prefix, e.Kind, e.Err)
	default:
		return prefix + string(e.Kind)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewError(kind ErrorKind, provider ProviderKind, err error) *Error {
	return &Error{Kind: kind, Provider: provider, Err: err}
}

func NewHTTPError(provider ProviderKind, status int, body string) *Error {
	var err error
	if body != "" {
		err = errors.New(body)
	}
	return &Error{Kind: KindHTTPError, Provider: provider, Status: status, Err: err}
}

// KindOf extracts the ErrorKind from err, or "" when err is not a *Error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
