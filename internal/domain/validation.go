package domain

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// NewValidator returns a validator that reports fields by their JSON name.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return strings.ToLower(f.Name)
		}
		return name
	})
	return v
}

// FromValidator converts validator errors into a *ValidationError.
// Other errors are returned unchanged.
func FromValidator(err error) error {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return err
	}
	fes := make([]FieldError, 0, len(ves))
	for _, fe := range ves {
		fes = append(fes, FieldError{Field: fieldPath(fe), Message: tagMessage(fe)})
	}
	return NewValidationErrors(fes)
}

// fieldPath drops the top-level struct name from the namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}

func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "不能为空"
	case "min":
		return "至少需要 " + fe.Param() + " 项"
	case "max":
		return "不能超过 " + fe.Param()
	case "url", "http_url":
		return "不是有效的网址"
	case "email":
		return "不是有效的邮箱地址"
	case "eqfield":
		return "与 " + fe.Param() + " 不一致"
	case "oneof":
		return "必须是 " + fe.Param() + " 之一"
	}
	return "无效 (" + fe.Tag() + ")"
}
