package apiclient

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	apperrors "github.com/abroadmap/abroadmap/pkg/errors"
)

const (
	// UsernameTakenMessage replaces the backend's username-conflict field error
	UsernameTakenMessage = "A user with that username already exists."

	// FallbackMessage is used when an error response carries nothing displayable
	FallbackMessage = "Request failed"

	// NetworkFailureMessage is used when a transport error has no message of its own
	NetworkFailureMessage = "Network failure"

	// InvalidResponseMessage is used when a success body does not match the expected shape
	InvalidResponseMessage = "Invalid response from server"
)

// Kind classifies where a normalized error came from
type Kind string

const (
	KindNetwork    Kind = "network"    // transport failure, no response
	KindValidation Kind = "validation" // non-2xx with a field-validation payload
	KindServer     Kind = "server"     // non-2xx with a generic message payload
	KindUnknown    Kind = "unknown"    // non-2xx with no usable payload
	KindRequest    Kind = "request"    // the request could not be built
	KindDecode     Kind = "decode"     // 2xx body could not be decoded into the expected type
)

// Error is the single error shape produced by the client.
// Message is always display-ready.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Fields  map[string][]string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is maps the error onto the shared sentinel errors so callers can branch with
// errors.Is(err, apperrors.ErrUnauthorized) and friends.
func (e *Error) Is(target error) bool {
	switch target {
	case apperrors.ErrNetwork:
		return e.Kind == KindNetwork
	case apperrors.ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case apperrors.ErrAccessDenied:
		return e.Status == http.StatusForbidden
	case apperrors.ErrNotFound:
		return e.Status == http.StatusNotFound
	case apperrors.ErrConflict:
		return e.Status == http.StatusConflict
	case apperrors.ErrInvalidInput:
		return e.Status == http.StatusBadRequest || e.Status == http.StatusUnprocessableEntity
	case apperrors.ErrInternal:
		return e.Status >= http.StatusInternalServerError
	}
	return false
}

// AsError extracts the normalized error from err, if there is one
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// networkError normalizes a transport failure. The message of the innermost
// transport error is surfaced as-is, without the method/URL prefix net/http adds.
func networkError(err error) *Error {
	msg := err.Error()

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		msg = urlErr.Err.Error()
	}
	if msg == "" {
		msg = NetworkFailureMessage
	}

	return &Error{Kind: KindNetwork, Message: msg, Err: err}
}

func requestError(err error) *Error {
	return &Error{
		Kind:    KindRequest,
		Message: fmt.Sprintf("Could not build request: %v", err),
		Err:     err,
	}
}

func decodeError(status int, err error) *Error {
	return &Error{Kind: KindDecode, Status: status, Message: InvalidResponseMessage, Err: err}
}

// httpError normalizes a non-2xx response. Precedence:
// username conflict, message, error, detail, non_field_errors, first field error, fallback.
func httpError(status int, data any) *Error {
	e := &Error{Kind: KindUnknown, Status: status, Message: FallbackMessage}

	payload, ok := data.(map[string]any)
	if !ok {
		return e
	}

	e.Fields = fieldErrors(payload)

	if _, ok := e.Fields["username"]; ok {
		e.Kind = KindValidation
		e.Message = UsernameTakenMessage
		return e
	}

	for _, key := range []string{"message", "error", "detail"} {
		if msg, ok := payload[key].(string); ok && strings.TrimSpace(msg) != "" {
			e.Kind = KindServer
			if len(e.Fields) > 0 {
				e.Kind = KindValidation
			}
			e.Message = msg
			return e
		}
	}

	if msgs := e.Fields["non_field_errors"]; len(msgs) > 0 {
		e.Kind = KindValidation
		e.Message = msgs[0]
		return e
	}

	if len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		e.Kind = KindValidation
		e.Message = fmt.Sprintf("%s: %s", keys[0], e.Fields[keys[0]][0])
	}

	return e
}

// fieldErrors collects every key whose value is a non-empty list of strings
func fieldErrors(payload map[string]any) map[string][]string {
	fields := map[string][]string{}
	for key, value := range payload {
		list, ok := value.([]any)
		if !ok {
			continue
		}
		var msgs []string
		for _, item := range list {
			if s, ok := item.(string); ok {
				msgs = append(msgs, s)
			}
		}
		if len(msgs) > 0 {
			fields[key] = msgs
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}
