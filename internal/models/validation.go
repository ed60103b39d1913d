package models

import (
	"errors"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// FieldErrors maps a JSON field name to the reason it was rejected.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+fe[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	if err := v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		_, err := ParseBirthDate(fl.Field().String())
		return err == nil
	}); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("maxscale", validateMaxScale); err != nil {
		panic(err)
	}
	return v
}

// validateMaxScale accepts amounts with at most Param() fractional digits. Decimals reach it
// already converted to float64 by the custom type func above.
func validateMaxScale(fl validator.FieldLevel) bool {
	places, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	field := fl.Field()
	switch field.Kind() {
	case reflect.Float32, reflect.Float64:
		d := decimal.NewFromFloat(field.Float())
		return d.Equal(d.Truncate(int32(places)))
	default:
		return false
	}
}

// Validate checks s against its validate tags. It returns nil or a FieldErrors holding one
// entry per failing field; a failure on one field never hides failures on the others.
func Validate(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fe := make(FieldErrors, len(verrs))
	for _, e := range verrs {
		if _, seen := fe[e.Field()]; !seen {
			fe[e.Field()] = validationMessage(e)
		}
	}
	return fe
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "len":
		return "Must be exactly " + e.Param() + " characters"
	case "min":
		if e.Kind() == reflect.String {
			return "Must be at least " + e.Param() + " characters"
		}
		return "Must be at least " + e.Param()
	case "gt":
		return "Must be greater than " + e.Param()
	case "maxscale":
		return "Must have at most " + e.Param() + " decimal places"
	case "isodate":
		return "Must be a date in YYYY-MM-DD format"
	default:
		return "Invalid value"
	}
}
