package presenters

import (
	"Foodgram-Backend/domain"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type Response struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Errors  any    `json:"errors,omitempty"`
}

func SuccessResponse(c *fiber.Ctx, data any, status int, message string) error {
	return c.Status(status).JSON(Response{
		Status:  true,
		Message: message,
		Data:    data,
	})
}

func ErrorResponse(c *fiber.Ctx, status int, message string, err error) error {
	response := Response{
		Status:  false,
		Message: message,
	}

	if err != nil {
		response.Errors = presentError(err)
	}

	return c.Status(status).JSON(response)
}

// presentError flattens validator and field errors into a field->message
// map; everything else is reported as a single string.
func presentError(err error) any {
	var fieldErr *domain.FieldError
	if errors.As(err, &fieldErr) {
		return map[string]string{fieldErr.Field: fieldErr.Message}
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		fields := make(map[string]string, len(validationErrs))
		for _, item := range validationErrs {
			fields[item.Field()] = item.Tag()
		}
		return fields
	}

	return err.Error()
}
