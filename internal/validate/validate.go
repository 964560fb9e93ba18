package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/Alturino/plantstore/internal/config"
	inErrors "github.com/Alturino/plantstore/internal/errors"
)

// New builds a validator that knows the storefront tags: price, phone and
// postalcode. Field names in errors follow the json tags.
func New(cfg config.Checkout) *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	v.RegisterCustomTypeFunc(DecimalValue, decimal.Decimal{})
	_ = v.RegisterValidation("price", ValidatePrice)
	_ = v.RegisterValidation("phone", digitsOfLength(cfg.PhoneDigits))
	_ = v.RegisterValidation("postalcode", digitsOfLength(cfg.PostalCodeDigits))
	return v
}

// ValidatePrice accepts a non-negative decimal.
func ValidatePrice(fl validator.FieldLevel) bool {
	switch value := fl.Field().Interface().(type) {
	case string:
		d, err := decimal.NewFromString(value)
		if err != nil {
			return false
		}
		return !d.IsNegative()
	case float64:
		return value >= 0
	default:
		return false
	}
}

// DecimalValue exposes decimals to the validator as their string form.
func DecimalValue(v reflect.Value) interface{} {
	n, ok := v.Interface().(decimal.Decimal)
	if !ok {
		return nil
	}
	return n.String()
}

func IsDigits(value string, length int) bool {
	if len(value) != length {
		return false
	}
	for _, r := range value {
		if !unicode.IsDigit(r) || r > unicode.MaxASCII {
			return false
		}
	}
	return true
}

func digitsOfLength(length int) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return IsDigits(fl.Field().String(), length)
	}
}

// Fields converts validator errors into a field level ValidationError. Any
// other error is returned unchanged.
func Fields(err error, cfg config.Checkout) error {
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return err
	}
	fields := make(map[string]string, len(errs))
	for _, fe := range errs {
		fields[fe.Field()] = message(fe, cfg)
	}
	return &inErrors.ValidationError{Fields: fields}
}

func message(fe validator.FieldError, cfg config.Checkout) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "phone":
		return fmt.Sprintf("must be exactly %d digits", cfg.PhoneDigits)
	case "postalcode":
		return fmt.Sprintf("must be exactly %d digits", cfg.PostalCodeDigits)
	case "price":
		return "must be a non-negative amount"
	case "email":
		return "must be a valid email"
	default:
		return fmt.Sprintf("failed %s", fe.Tag())
	}
}
