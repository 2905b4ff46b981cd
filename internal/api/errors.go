package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies a failed call
type ErrorKind int

const (
	KindTransport    ErrorKind = iota // network failure, no response
	KindUnauthorized                  // 401 / 403
	KindNotFound                      // 404
	KindServer                        // any other non-2xx
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	default:
		return "server"
	}
}

// Generic messages shown when the server gave nothing better
const (
	MsgFetchFailed = "Erro ao buscar dados"
	MsgSendFailed  = "Erro ao enviar dados"
)

// Error is returned by every Client call that did not succeed
type Error struct {
	Kind    ErrorKind
	Status  int // 0 for transport failures
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func kindForStatus(status int) ErrorKind {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindUnauthorized
	case http.StatusNotFound:
		return KindNotFound
	default:
		return KindServer
	}
}

// IsKind reports whether err is an *Error of the given kind
func IsKind(err error, kind ErrorKind) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}

// Message returns the user-facing text for err
func Message(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
