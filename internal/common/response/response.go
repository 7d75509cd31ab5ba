package response

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"roomdesk/internal/notify"
	"roomdesk/pkg/client"
	apperrors "roomdesk/pkg/errors"
)

func Success(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

// SuccessWithToast answers like Success and carries the message the user
// should see.
func SuccessWithToast(c *fiber.Ctx, status int, data interface{}, toast notify.Toast) error {
	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"data":    data,
		"toast":   toast,
	})
}

func BadRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

func Forbidden(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

func InternalError(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"error":   "Internal server error",
	})
}

// Failure reports err with its localised toast. Backend statuses pass
// through; transport failures become 502.
func Failure(c *fiber.Ctx, err error, toast notify.Toast) error {
	body := fiber.Map{
		"success": false,
		"error":   toast.Message,
		"code":    toast.Key,
	}
	if apiErr, ok := client.AsAPIError(err); ok && len(apiErr.Details) > 0 {
		body["errors"] = apiErr.Details
	}
	return c.Status(StatusFor(err)).JSON(body)
}

// StatusFor picks the HTTP status the portal answers with for err.
func StatusFor(err error) int {
	if apiErr, ok := client.AsAPIError(err); ok {
		return apiErr.Status
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case apperrors.CodeValidation, apperrors.CodeBadRequest:
			return http.StatusBadRequest
		case apperrors.CodeUnauthorized, apperrors.CodeSessionExpiry:
			return http.StatusUnauthorized
		case apperrors.CodeForbidden:
			return http.StatusForbidden
		case apperrors.CodeNotFound:
			return http.StatusNotFound
		}
		return http.StatusInternalServerError
	}
	return http.StatusBadGateway
}

func ValidationError(c *fiber.Ctx, err error) error {
	var errors []string

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			errors = append(errors, e.Field()+" "+e.Tag())
		}
	} else {
		errors = append(errors, err.Error())
	}

	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"errors":  errors,
	})
}

// FieldErrors reports per-field messages already localised by the caller.
func FieldErrors(c *fiber.Ctx, message string, fields map[string]string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"error":   message,
		"fields":  fields,
	})
}
