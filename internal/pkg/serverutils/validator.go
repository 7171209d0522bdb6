package serverutils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// ValidateRequest runs struct-tag validation and converts failures into a
// fiber 400 error with a readable field list.
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var invalidFields []string
	if errs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range errs {
			invalidFields = append(invalidFields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
		}
	}

	return fiber.NewError(fiber.StatusBadRequest,
		"validation failed: "+strings.Join(invalidFields, ", "))
}
