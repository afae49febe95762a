package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
)

type ErrorKind string

const (
	ErrorKindConnectionFailed ErrorKind = "connection_failed"
	ErrorKindUnauthorized     ErrorKind = "unauthorized"
	ErrorKindBadRequest       ErrorKind = "bad_request"
	ErrorKindUnknown          ErrorKind = "unknown"
)

const unknownErrorMessage = "Unknown error"

// ServiceError is a classified failure of an upstream generation service.
type ServiceError struct {
	Kind ErrorKind

	Status  int
	Message string

	Err error
}

func (e *ServiceError) Error() string {
	switch e.Kind {
	case ErrorKindConnectionFailed:
		if e.Err != nil {
			return "connection failed: " + e.Err.Error()
		}

		return "connection failed"

	case ErrorKindUnauthorized:
		return "unauthorized: " + e.Message

	case ErrorKindBadRequest:
		return "bad request: " + e.Message
	}

	return fmt.Sprintf("service error (%d): %s", e.Status, e.Message)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func ConnectionError(err error) *ServiceError {
	return &ServiceError{
		Kind: ErrorKindConnectionFailed,

		Message: "unable to reach service",

		Err: err,
	}
}

func UnauthorizedError() *ServiceError {
	return &ServiceError{
		Kind: ErrorKindUnauthorized,

		Status:  http.StatusUnauthorized,
		Message: "check API key",
	}
}

func BadRequestError() *ServiceError {
	return &ServiceError{
		Kind: ErrorKindBadRequest,

		Status:  http.StatusBadRequest,
		Message: "check request parameters",
	}
}

func UnknownError(status int, message string) *ServiceError {
	if message == "" {
		message = unknownErrorMessage
	}

	return &ServiceError{
		Kind: ErrorKindUnknown,

		Status:  status,
		Message: message,
	}
}

// StatusError classifies a non-success HTTP response. For statuses other than
// 401 and 400 the message is taken from the JSON body's "message" field.
func StatusError(status int, body []byte) *ServiceError {
	switch status {
	case http.StatusUnauthorized:
		return UnauthorizedError()

	case http.StatusBadRequest:
		return BadRequestError()
	}

	var result struct {
		Message string `json:"message"`
	}

	json.Unmarshal(body, &result)

	return UnknownError(status, strings.TrimSpace(result.Message))
}

// ClassifyError maps an arbitrary client error into a ServiceError. Caller
// cancellation is passed through unchanged.
func ClassifyError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.Canceled) {
		return err
	}

	var serviceErr *ServiceError

	if errors.As(err, &serviceErr) {
		return serviceErr
	}

	if IsConnectionError(err) {
		return ConnectionError(err)
	}

	result := UnknownError(0, err.Error())
	result.Err = err

	return result
}

func IsConnectionError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var urlErr *url.Error

	if errors.As(err, &urlErr) {
		return true
	}

	var netErr net.Error

	return errors.As(err, &netErr)
}
