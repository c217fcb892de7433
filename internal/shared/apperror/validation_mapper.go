package apperror

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// MapValidationError converts the first binding failure into an
// AppError with a readable field name (json tag, underscores to spaces).
func MapValidationError(err error) error {
	if errs, ok := err.(validator.ValidationErrors); ok {
		e := errs[0]
		field := strings.ReplaceAll(e.Field(), "_", " ")

		switch e.Tag() {
		case "required":
			return RequiredField(field)
		default:
			return InvalidField(field)
		}
	}

	return New(
		CodeInvalidInput,
		"Invalid input",
		http.StatusBadRequest,
	)
}
