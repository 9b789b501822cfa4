package handlers

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Binding validators must exist before the first request is bound, so they
// are registered when the package loads.
func init() {
	registerCustomValidations()
}

// registerCustomValidations adds binding validators that the struct tags in
// the dto package rely on.
func registerCustomValidations() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("positivedecimal", validatePositiveDecimal)
}

// validatePositiveDecimal accepts decimal.Decimal values strictly greater
// than zero. Nil pointers pass; pair with "required" to forbid them.
func validatePositiveDecimal(fl validator.FieldLevel) bool {
	d, ok := fl.Field().Interface().(decimal.Decimal)
	if !ok {
		return false
	}
	return d.IsPositive()
}
