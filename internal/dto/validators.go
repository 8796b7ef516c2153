package dto

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/caixasimples/caixa_simples_app/internal/utils/moneybr"
)

// RegisterCustomValidators wires app-specific binding rules into gin's
// validator engine. Call once at startup, before any request binding.
func RegisterCustomValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	// moneybr: the field must be a parseable Brazilian-locale money string.
	_ = v.RegisterValidation("moneybr", func(fl validator.FieldLevel) bool {
		_, err := moneybr.Parse(fl.Field().String())
		return err == nil
	})
}
