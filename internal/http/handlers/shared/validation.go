package shared

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/bakery-next/internal/http/response"
	"github.com/bakery-next/internal/i18n"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerTagNameOnce sync.Once

// RegisterValidatorTagNames 让 gin 的校验错误使用 json 字段名。
func RegisterValidatorTagNames() {
	registerTagNameOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if tag == "" || tag == "-" {
				return f.Name
			}
			return tag
		})
	})
}

// BindJSON 绑定并校验请求体，失败时直接写出响应。
func BindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		RespondBindError(c, err)
		return false
	}
	return true
}

// RespondBindError 校验错误返回 422 与字段级消息，其余解析错误返回 400。
func RespondBindError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		RespondError(c, response.CodeBadRequest, "error.bad_request", nil)
		RequestLog(c).Debugw("handler_bind_failed", "error", err)
		return
	}
	locale := i18n.ResolveLocale(c)
	fields := make(map[string]string, len(validationErrs))
	for _, fieldErr := range validationErrs {
		fields[validationFieldName(fieldErr)] = validationMessage(locale, fieldErr)
	}
	response.ValidationError(c, i18n.T(locale, "error.validation_failed"), fields)
}

// ValidationFailed 手动校验失败时返回单字段 422。
func ValidationFailed(c *gin.Context, field, key string) {
	locale := i18n.ResolveLocale(c)
	response.ValidationError(c, i18n.T(locale, "error.validation_failed"), map[string]string{
		field: i18n.T(locale, key),
	})
}

// validationFieldName 去掉顶层结构体名，保留嵌套路径（items[0].qty）
func validationFieldName(fe validator.FieldError) string {
	namespace := fe.Namespace()
	if idx := strings.Index(namespace, "."); idx >= 0 {
		return namespace[idx+1:]
	}
	return fe.Field()
}

func validationMessage(locale string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "email":
		return i18n.T(locale, "validation."+fe.Tag())
	case "min", "max", "gt", "gte":
		return i18n.Sprintf(locale, "validation."+fe.Tag(), fe.Param())
	case "oneof":
		return i18n.Sprintf(locale, "validation.oneof", strings.ReplaceAll(fe.Param(), " ", ", "))
	}
	return i18n.T(locale, "validation.invalid")
}
