package google

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/adrianliechti/sketchify/pkg/provider"

	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestConvertError(t *testing.T) {
	tests := []struct {
		name string
		err  error

		kind    provider.ErrorKind
		status  int
		message string
	}{
		{"unauthorized", genai.APIError{Code: http.StatusUnauthorized, Message: "invalid key"}, provider.ErrorKindUnauthorized, http.StatusUnauthorized, "check API key"},
		{"forbidden", genai.APIError{Code: http.StatusForbidden}, provider.ErrorKindUnauthorized, http.StatusUnauthorized, "check API key"},
		{"bad request", genai.APIError{Code: http.StatusBadRequest, Message: "bad image"}, provider.ErrorKindBadRequest, http.StatusBadRequest, "check request parameters"},
		{"unavailable", genai.APIError{Code: http.StatusServiceUnavailable, Message: "overloaded"}, provider.ErrorKindUnknown, http.StatusServiceUnavailable, "overloaded"},
		{"pointer", fmt.Errorf("generate: %w", &genai.APIError{Code: http.StatusTooManyRequests}), provider.ErrorKindUnknown, http.StatusTooManyRequests, "Unknown error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var serviceErr *provider.ServiceError
			require.True(t, errors.As(convertError(tt.err), &serviceErr))

			require.Equal(t, tt.kind, serviceErr.Kind)
			require.Equal(t, tt.status, serviceErr.Status)
			require.Equal(t, tt.message, serviceErr.Message)
		})
	}
}
