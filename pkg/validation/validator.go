// Package validation 封装go-playground/validator，把校验失败转换为参数错误
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/xiebiao/bookclub/pkg/errors"
)

// Validator 命令对象校验器
type Validator struct {
	v *validator.Validate
}

// New 创建校验器，错误信息中使用json字段名
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	return &Validator{v: v}
}

// Validate 校验结构体，失败时返回带字段详情的ErrInvalidParams
func (v *Validator) Validate(s any) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return apperrors.ErrInvalidParams.WithErr(err)
	}

	fields := make(map[string]any, len(validationErrs))
	for _, e := range validationErrs {
		fields[e.Field()] = friendlyMessage(e)
	}
	return apperrors.ErrInvalidParams.WithDetails(fields)
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "不能为空"
	case "email":
		return "邮箱格式不正确"
	case "url":
		return "URL格式不正确"
	case "min", "gte":
		return fmt.Sprintf("不能小于%s", e.Param())
	case "max", "lte":
		return fmt.Sprintf("不能大于%s", e.Param())
	case "gt":
		return fmt.Sprintf("必须大于%s", e.Param())
	case "oneof":
		return "可选值: " + e.Param()
	default:
		return "格式不正确"
	}
}
