// Package validate contains custom validation functions
package validate

import (
	"github.com/go-playground/validator/v10"
	passwordvalidator "github.com/wagslane/go-password-validator"
)

// Password is custom validation function that is used to validate passwords
func Password(fl validator.FieldLevel) bool {
	const minEntropy = 60
	password := fl.Field().String()

	err := passwordvalidator.Validate(password, minEntropy)
	return err == nil
}
