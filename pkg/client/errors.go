package client

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Error is a failed service response.
type Error struct {
	StatusCode int

	Type string
	Kind string

	Message string
}

func (e *Error) Error() string {
	if e.Kind != "" {
		return fmt.Sprintf("%s (%s): %s", e.Type, e.Kind, e.Message)
	}

	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// IsWarning reports whether the service rejected the operation because a
// precondition was not met or another operation is running.
func (e *Error) IsWarning() bool {
	return e.StatusCode == http.StatusConflict || e.StatusCode == http.StatusPreconditionFailed
}

func convertError(resp *http.Response) error {
	data, _ := io.ReadAll(resp.Body)

	var result struct {
		Error struct {
			Type    string `json:"type"`
			Kind    string `json:"kind"`
			Message string `json:"message"`
		} `json:"error"`
	}

	if err := json.Unmarshal(data, &result); err != nil || result.Error.Message == "" {
		return &Error{
			StatusCode: resp.StatusCode,

			Type:    "http_error",
			Message: resp.Status,
		}
	}

	return &Error{
		StatusCode: resp.StatusCode,

		Type: result.Error.Type,
		Kind: result.Error.Kind,

		Message: result.Error.Message,
	}
}
