package document

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/divyang/core"
)

var (
	docTypeTag  = "doctype"
	docTypeText = "{0} is not a supported document type"

	docStatusTag  = "docstatus"
	docStatusText = "{0} must be one of pending, approved or rejected"
)

func init() {
	core.RegisterValidation(docTypeTag, docTypeText, func(fl validator.FieldLevel) bool {
		return Type(fl.Field().String()).IsValid()
	})
	core.RegisterValidation(docStatusTag, docStatusText, func(fl validator.FieldLevel) bool {
		return Status(fl.Field().String()).IsValid()
	})
}
