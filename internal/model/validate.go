package model

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jmehdipour/customer-service/internal/apperr"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report json names (first_name), not Go field names (FirstName)
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks a customer against its schema constraints. The first failing
// field decides Type and Path; Message lists every failure.
func Validate(c *Customer) error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &apperr.ValidationError{}
	msgs := make([]string, 0, len(verrs))
	for i, fe := range verrs {
		typ, msg := describe(fe)
		if i == 0 {
			out.Type = typ
			out.Path = fe.Field()
		}
		msgs = append(msgs, msg)
	}
	out.Message = strings.Join(msgs, ",\n")
	return out
}

func describe(fe validator.FieldError) (typ, msg string) {
	path := fe.Field()
	switch fe.Tag() {
	case "required":
		return apperr.TypeNotNull, fmt.Sprintf("customer.%s cannot be null", path)
	case "max":
		return apperr.TypeValidation, fmt.Sprintf("Validation len on %s failed", path)
	case "email":
		return apperr.TypeValidation, fmt.Sprintf("Validation isEmail on %s failed", path)
	case "gt":
		return apperr.TypeValidation, fmt.Sprintf("Validation min on %s failed", path)
	default:
		return apperr.TypeValidation, fmt.Sprintf("Validation %s on %s failed", fe.Tag(), path)
	}
}
