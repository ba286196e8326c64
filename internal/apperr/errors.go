package apperr

import (
	"errors"
	"fmt"
)

// NotFoundError - запись не найдена (404)
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s no encontrada: %s", e.Resource, e.ID)
}

// ValidationError - некорректные входные данные (400)
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ConflictError - недопустимый переход состояния или гонка записи (409)
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// ForbiddenError - у актора нет нужной роли (403)
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string {
	return e.Message
}

// NotFound создает NotFoundError
func NotFound(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// Validation создает ValidationError
func Validation(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// Conflict создает ConflictError
func Conflict(format string, args ...any) error {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

// Forbidden создает ForbiddenError
func Forbidden(message string) error {
	return &ForbiddenError{Message: message}
}

// IsNotFound проверяет, что в цепочке ошибок есть NotFoundError
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsValidation проверяет, что в цепочке ошибок есть ValidationError
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsConflict проверяет, что в цепочке ошибок есть ConflictError
func IsConflict(err error) bool {
	var target *ConflictError
	return errors.As(err, &target)
}

// IsForbidden проверяет, что в цепочке ошибок есть ForbiddenError
func IsForbidden(err error) bool {
	var target *ForbiddenError
	return errors.As(err, &target)
}
