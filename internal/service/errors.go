package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNotFound 表示指定的 VTuber 不存在
var ErrNotFound = errors.New("vtuber not found")

// ValidationError 表示請求內容不合法，Fields 為欄位與錯誤訊息的對應
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return e.Message + " (" + strings.Join(parts, "; ") + ")"
}

func newValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// ItemError 是批次請求中單一項目的錯誤
type ItemError struct {
	Index  int               `json:"index"`
	Fields map[string]string `json:"fields"`
}

// BatchValidationError 表示批次中至少一筆不合法，整批都不會寫入
type BatchValidationError struct {
	Items []ItemError
}

func (e *BatchValidationError) Error() string {
	indexes := make([]string, 0, len(e.Items))
	for _, item := range e.Items {
		indexes = append(indexes, fmt.Sprint(item.Index))
	}
	return "invalid items at index " + strings.Join(indexes, ", ")
}
