package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// 业务哨兵错误
var (
	ErrNotFound = errors.New("record not found")
)

// ValidationError 字段级校验错误；出现时数据不会落库
type ValidationError struct {
	Fields map[string][]string
}

// NewValidationError 创建空的校验错误收集器
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string][]string)}
}

// Add 记录某字段的一条错误
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], message)
}

// HasErrors 是否存在校验失败
func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Fields) > 0
}

// On 某字段的全部错误信息
func (e *ValidationError) On(field string) []string {
	if e == nil {
		return nil
	}
	return e.Fields[field]
}

func (e *ValidationError) Error() string {
	if !e.HasErrors() {
		return "validation failed"
	}
	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s %s", field, strings.Join(e.Fields[field], ", ")))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// AsValidationError 判断并提取校验错误
func AsValidationError(err error) (*ValidationError, bool) {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr, true
	}
	return nil, false
}

// ConfigurationError 协作方能力或配置项缺失，属部署期错误，不重试
type ConfigurationError struct {
	Missing string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Missing
}

// IsConfigurationError 判断是否为配置错误
func IsConfigurationError(err error) bool {
	var configErr *ConfigurationError
	return errors.As(err, &configErr)
}
