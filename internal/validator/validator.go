// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"moneylog/internal/monthrange"
)

var otpRegex = regexp.MustCompile(`^\d{6}$`)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("month_year", validateMonthYear)
		_ = v.RegisterValidation("otp", validateOTP)
	}
}

func validateMonthYear(fl validator.FieldLevel) bool {
	return monthrange.Valid(fl.Field().String())
}

func validateOTP(fl validator.FieldLevel) bool {
	return otpRegex.MatchString(fl.Field().String())
}
