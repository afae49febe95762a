package replicate

import (
	"errors"
	"net/http"
	"testing"

	"github.com/adrianliechti/sketchify/pkg/provider"

	"github.com/replicate/replicate-go"
	"github.com/stretchr/testify/require"
)

func TestConvertError(t *testing.T) {
	tests := []struct {
		name string
		err  *replicate.APIError

		kind    provider.ErrorKind
		message string
	}{
		{"unauthorized", &replicate.APIError{Status: http.StatusUnauthorized}, provider.ErrorKindUnauthorized, "check API key"},
		{"forbidden", &replicate.APIError{Status: http.StatusForbidden}, provider.ErrorKindUnauthorized, "check API key"},
		{"invalid input", &replicate.APIError{Status: http.StatusUnprocessableEntity, Detail: "input_image is required"}, provider.ErrorKindBadRequest, "check request parameters"},
		{"detail", &replicate.APIError{Status: http.StatusInternalServerError, Title: "Internal", Detail: "model crashed"}, provider.ErrorKindUnknown, "model crashed"},
		{"title", &replicate.APIError{Status: http.StatusTooManyRequests, Title: "Too many requests"}, provider.ErrorKindUnknown, "Too many requests"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var serviceErr *provider.ServiceError
			require.True(t, errors.As(ConvertError(tt.err), &serviceErr))

			require.Equal(t, tt.kind, serviceErr.Kind)
			require.Equal(t, tt.message, serviceErr.Message)
		})
	}
}

func TestConvertErrorOther(t *testing.T) {
	err := ConvertError(errors.New("boom"))

	var serviceErr *provider.ServiceError
	require.True(t, errors.As(err, &serviceErr))
	require.Equal(t, provider.ErrorKindUnknown, serviceErr.Kind)
}
