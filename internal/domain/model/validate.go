package model

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// ErrInvalidRecord reports a record whose marks or fees are out of range.
var ErrInvalidRecord = errors.New("invalid record")

var recordValidate *validator.Validate

func init() {
	recordValidate = validator.New()

	// Decimals reach rules as their exact string form; numeric tags would
	// go through float64 and lose tiny magnitudes.
	recordValidate.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	if err := recordValidate.RegisterValidation("decimal_gte0", decimalNonNegative); err != nil {
		panic(err)
	}
}

func decimalValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		return d.String()
	}
	return nil
}

func decimalNonNegative(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	return err == nil && !d.IsNegative()
}

// Validate checks that every mark is within [0, MaxMark] and the total fee
// is not negative. Paid amounts are clamped, not rejected.
func Validate(r Record) error {
	if err := recordValidate.Struct(r); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: %s failed %q", ErrInvalidRecord, verrs[0].Namespace(), verrs[0].Tag())
		}
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	return nil
}
