package models

import (
	"sync"

	"github.com/go-playground/validator"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// validateStruct runs the struct tag validations shared by all request models.
func validateStruct(s interface{}) error {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	return validate.Struct(s)
}

// ValidateStruct validates request types defined outside this package.
func ValidateStruct(s interface{}) error {
	return validateStruct(s)
}
