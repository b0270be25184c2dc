// Package validation содержит проверку входных данных запросов.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/mmeshcher/lunch-app/internal/model"
)

// ErrInvalid возвращается, если входные данные не прошли проверку.
var ErrInvalid = errors.New("validation failed")

// MaxCost - верхняя граница стоимости, помещающаяся в NUMERIC(8,2).
var MaxCost = decimal.NewFromInt(1_000_000)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	_ = v.RegisterValidation("arrival", func(fl validator.FieldLevel) bool {
		return IsValidArrival(fl.Field().String())
	})
	_ = v.RegisterValidation("foodtype", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == model.FoodTypeDishOfTheDay || s == model.FoodTypeMenu
	})

	_ = v.RegisterValidation("money", func(fl validator.FieldLevel) bool {
		parent := reflect.Indirect(fl.Parent())
		d, ok := parent.FieldByName(fl.StructFieldName()).Interface().(decimal.Decimal)
		return ok && IsValidMoney(d)
	})

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})

	return v
}

// IsValidArrival проверяет, что слот доставки входит в допустимый набор.
func IsValidArrival(slot string) bool {
	return slot == model.ArrivalLunch || slot == model.ArrivalAfternoon
}

// IsValidMoney проверяет, что сумма неотрицательна, меньше MaxCost
// и содержит не больше двух знаков после запятой.
func IsValidMoney(d decimal.Decimal) bool {
	return !d.IsNegative() && d.LessThan(MaxCost) && d.Equal(d.Truncate(2))
}

// Struct проверяет структуру по тегам validate.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(fields, ", "))
}
