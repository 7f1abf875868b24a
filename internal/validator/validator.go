// internal/validator/validator.go
package validator

import (
	"reflect"
	"regexp"
	"strings"
	"time"

	"moneytracker/internal/domain"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var Validate *validator.Validate

var nonSpace = regexp.MustCompile(`\S`)

func init() {
	Validate = validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names.
	Validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})

	// Decimals are validated through their string form.
	Validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	// An absent or null amount has no value, so required fails on it.
	Validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.NullDecimal); ok && d.Valid {
			return d.Decimal.String()
		}
		return nil
	}, decimal.NullDecimal{})

	// Строка не пустая и не только пробелы
	_ = Validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return nonSpace.MatchString(fl.Field().String())
	})

	// Дата в формате "2024-12-31"
	_ = Validate.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(domain.DateLayout, fl.Field().String())
		return err == nil
	})

	// Сумма: не больше двух знаков после запятой, |x| < 10^8
	_ = Validate.RegisterValidation("money", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseAmount(fl.Field().String())
		return err == nil
	})
}
