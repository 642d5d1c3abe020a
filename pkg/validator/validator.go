package validator

import (
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterCustomValidations installs domain validations on gin's binding
// engine. Call once at startup, before any request binding.
func RegisterCustomValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("appointment", validAppointment)
}

// validAppointment accepts "YYYY-MM-DD" with an optional time suffix.
// The scheduling lookups key on the date prefix, so a malformed date
// would silently drop the patient from today's schedule.
func validAppointment(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if len(s) < 10 {
		return false
	}
	_, err := time.Parse("2006-01-02", s[:10])
	return err == nil
}
