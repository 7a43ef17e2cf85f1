package attendance

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/divyang/core"
)

var (
	dateFmtTag  = "datefmt"
	dateFmtText = "{0} must be a valid date (YYYY-MM-DD)"
)

func init() {
	core.RegisterValidation(dateFmtTag, dateFmtText, func(fl validator.FieldLevel) bool {
		_, err := core.ParseDate(fl.Field().String())
		return err == nil
	})
}
