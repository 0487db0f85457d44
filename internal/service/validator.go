package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"vtuber_wiki/internal/models"
)

// newValidator 建立使用 json 欄位名稱並支援 calendar_date 的 validator
func newValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("calendar_date", validateCalendarDate)

	return v
}

func validateCalendarDate(fl validator.FieldLevel) bool {
	_, err := models.ParseDate(fl.Field().String())
	return err == nil
}

// formatValidationError 把 validator 錯誤轉成欄位訊息，避免洩漏內部結構名稱
func formatValidationError(err error) map[string]string {
	fields := make(map[string]string)

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		fields["body"] = "Invalid request format"
		return fields
	}

	for _, e := range validationErrors {
		field := fieldPath(e)
		switch e.Tag() {
		case "required":
			fields[field] = "This field is required"
		case "max":
			if e.Kind() == reflect.Slice {
				fields[field] = fmt.Sprintf("Must contain at most %s items", e.Param())
			} else {
				fields[field] = fmt.Sprintf("Must be at most %s characters", e.Param())
			}
		case "calendar_date":
			fields[field] = "Must be a date in YYYY-MM-DD format"
		case "http_url":
			fields[field] = "Must be an absolute http(s) URL"
		default:
			fields[field] = "Invalid value"
		}
	}
	return fields
}

// fieldPath 去掉最外層的結構名稱，例如 VTuberInput.tags[2] -> tags[2]
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return e.Field()
}
