package handlers

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func validateRequest(req any) error {
	return validate.Struct(req)
}
