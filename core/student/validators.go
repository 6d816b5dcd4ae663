package student

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/tuition/core"
)

var (
	feePositiveTag  = "feepositive"
	feePositiveText = "{0} must be greater than 0"
)

func registerValidators(v *core.Validator) {
	v.RegisterStructValidation(studentStructValidation, NewStudent{})
	v.RegisterCustomTranslation(feePositiveTag, feePositiveText)
}

// studentStructValidation does struct level validation on NewStudent.
func studentStructValidation(sl validator.StructLevel) {
	if ns, ok := sl.Current().Interface().(NewStudent); ok {
		if !ns.MonthlyFee.IsPositive() {
			sl.ReportError(ns.MonthlyFee, "monthly_fee", "MonthlyFee", feePositiveTag, "")
		}
	}
}
