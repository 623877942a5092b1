// Package validation wraps go-playground/validator with the storefront's
// custom rules and converts failures into InvalidArgument errors.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopfront/storefront-api/internal/pkg/apperror"
)

var (
	usernamePattern   = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)
	cardNumberPattern = regexp.MustCompile(`^[0-9]{13,19}$`)
	cardExpiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/[0-9]{2}$`)
	cvcPattern        = regexp.MustCompile(`^[0-9]{3,4}$`)
)

var (
	once     sync.Once
	instance *validator.Validate
)

// Validator returns the shared validator instance.
func Validator() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return field.Name
			}
			return name
		})
		mustRegister(v, "username", matchString(usernamePattern))
		mustRegister(v, "cardnumber", matchString(cardNumberPattern))
		mustRegister(v, "cardexpiry", matchString(cardExpiryPattern))
		mustRegister(v, "cvc", matchString(cvcPattern))
		instance = v
	})
	return instance
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

func matchString(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

// Struct validates s and returns an InvalidArgument error listing every
// failing field.
func Struct(s any) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperror.Unexpected("Validation failed", err)
	}

	fields := make([]apperror.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, apperror.FieldError{
			Field:   fe.Field(),
			Message: message(fe),
		})
	}
	return apperror.InvalidArgument(fields[0].Message, fields...)
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return "Please provide a valid email address"
	case "username":
		return "Username must be 3-20 characters and contain only letters, numbers and underscores"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "len":
		return fmt.Sprintf("%s must be %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "cardnumber":
		return "Card number must be 13-19 digits"
	case "cardexpiry":
		return "Card expiry must be in MM/YY format"
	case "cvc":
		return "CVC must be 3 or 4 digits"
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// IsUsername reports whether s is 3-20 letters, digits or underscores.
func IsUsername(s string) bool {
	return usernamePattern.MatchString(s)
}

// NormalizeCardNumber strips spaces and dashes from a card number.
func NormalizeCardNumber(s string) string {
	return strings.NewReplacer(" ", "", "-", "").Replace(s)
}
