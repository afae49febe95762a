package google

import (
	"errors"
	"net/http"

	"github.com/adrianliechti/sketchify/pkg/provider"

	"google.golang.org/genai"
)

func convertError(err error) error {
	var apierr genai.APIError

	if errors.As(err, &apierr) {
		return toServiceError(apierr)
	}

	var apiptr *genai.APIError

	if errors.As(err, &apiptr) && apiptr != nil {
		return toServiceError(*apiptr)
	}

	return provider.ClassifyError(err)
}

func toServiceError(err genai.APIError) *provider.ServiceError {
	switch err.Code {
	case http.StatusUnauthorized, http.StatusForbidden:
		result := provider.UnauthorizedError()
		result.Err = err

		return result

	case http.StatusBadRequest:
		result := provider.BadRequestError()
		result.Err = err

		return result
	}

	result := provider.UnknownError(err.Code, err.Message)
	result.Err = err

	return result
}
