package openai

import (
	"errors"
	"net/http"

	"github.com/adrianliechti/sketchify/pkg/provider"

	"github.com/openai/openai-go/v3"
)

func convertError(err error) error {
	var apierr *openai.Error

	if errors.As(err, &apierr) {
		var result *provider.ServiceError

		switch apierr.StatusCode {
		case http.StatusUnauthorized:
			result = provider.UnauthorizedError()

		case http.StatusBadRequest:
			result = provider.BadRequestError()

		default:
			result = provider.UnknownError(apierr.StatusCode, apierr.Message)
		}

		result.Err = err
		return result
	}

	return provider.ClassifyError(err)
}
