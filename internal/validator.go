package internal

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

func NewValidator() *validator.Validate {
	v := validator.New()

	// Ethiopian MSISDN as stored by the auth flow: +2519XXXXXXXX or 09XXXXXXXX
	_ = v.RegisterValidation("phone_et", func(fl validator.FieldLevel) bool {
		re := regexp.MustCompile(`^(\+251|0)9\d{8}$`)
		return re.MatchString(fl.Field().String())
	})

	return v
}

func ValidateStruct(v *validator.Validate, s interface{}) error {
	err := v.Struct(s)
	if err != nil {
		return err
	}
	return nil
}
