package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

var ErrValidation = fmt.Errorf("validation failed")
var ErrTransport = fmt.Errorf("transport error")
var ErrNotFound = fmt.Errorf("not found")
var ErrPersistence = fmt.Errorf("persistence failed")
var ErrRequest = fmt.Errorf("request error")
var ErrBadResponse = fmt.Errorf("bad response")

// ValidationError is returned when a resource that has not yet been created
// remotely is saved while one or more required attributes are empty.
type ValidationError struct {
	Kind    string
	Missing []string
	Reason  string
}

func NewValidationError(kind string, missing []string) error {
	return &ValidationError{Kind: kind, Missing: missing}
}

func NewValidationErrorWithReason(kind, reason string) error {
	return &ValidationError{Kind: kind, Reason: reason}
}

func (e *ValidationError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid %s: %s", e.Kind, e.Reason)
	}
	return fmt.Sprintf("invalid %s: missing required attributes %s", e.Kind, strings.Join(e.Missing, ", "))
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// TransportError carries whatever the transport knew about a failed call.
// StatusCode is zero when no response was received.
type TransportError struct {
	Method     string
	Path       string
	StatusCode int
	Body       []byte
	Err        error
}

func (e *TransportError) Error() string {
	msg := fmt.Sprintf("%s %s failed", e.Method, e.Path)

	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s with status code %d", msg, e.StatusCode)
		if detail := problemDetail(e.Body); detail != "" {
			msg = fmt.Sprintf("%s (%s)", msg, detail)
		}
	}

	if e.Err != nil {
		msg = fmt.Sprintf("%s: %s", msg, e.Err.Error())
	}

	return msg
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool {
	if target == ErrTransport {
		return true
	}
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// NotFoundError is a TransportError specialization for lookups. Err is nil when
// the lookup was refused locally, e.g. for an empty identifier.
type NotFoundError struct {
	Kind string
	ID   string
	Err  error
}

func NewNotFoundError(kind, id string, cause error) error {
	return &NotFoundError{Kind: kind, ID: id, Err: cause}
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found: empty identifier", e.Kind)
	}
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound || target == ErrTransport
}

// PersistenceError wraps a transport failure that happened during save or delete.
type PersistenceError struct {
	Op   string
	Kind string
	ID   string
	Err  error
}

func NewPersistenceError(op, kind, id string, cause error) error {
	return &PersistenceError{Op: op, Kind: kind, ID: id, Err: cause}
}

func (e *PersistenceError) Error() string {
	target := e.Kind
	if e.ID != "" {
		target = e.Kind + " " + e.ID
	}
	return fmt.Sprintf("failed to %s %s: %s", e.Op, target, e.Err.Error())
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

func NewErrorFromResponse(method, path string, code int, body []byte) error {
	return &TransportError{
		Method:     method,
		Path:       path,
		StatusCode: code,
		Body:       body,
	}
}

// problemDetail extracts a human readable message from an error response. The
// remote answers with either plain text or a JSON object with a message field.
func problemDetail(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	report := &struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}{}

	if err := json.Unmarshal(body, report); err == nil {
		if report.Message != "" {
			return report.Message
		}
		return report.Error
	}

	detail := strings.TrimSpace(string(body))
	if len(detail) > 200 {
		detail = detail[:200] + "..."
	}

	return detail
}
