package replicate

import (
	"errors"
	"net/http"

	"github.com/adrianliechti/sketchify/pkg/provider"

	"github.com/replicate/replicate-go"
)

// ConvertError maps replicate API failures into the provider error taxonomy.
func ConvertError(err error) error {
	var apiErr *replicate.APIError

	if errors.As(err, &apiErr) {
		switch apiErr.Status {
		case http.StatusUnauthorized, http.StatusForbidden:
			return provider.UnauthorizedError()

		case http.StatusBadRequest, http.StatusUnprocessableEntity:
			return provider.BadRequestError()
		}

		message := apiErr.Detail

		if message == "" {
			message = apiErr.Title
		}

		return provider.UnknownError(apiErr.Status, message)
	}

	return provider.ClassifyError(err)
}
