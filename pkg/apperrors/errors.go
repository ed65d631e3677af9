package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind классифицирует ошибку для вызывающей стороны
type Kind string

const (
	KindValidation         Kind = "VALIDATION"
	KindNotFound           Kind = "NOT_FOUND"
	KindConflict           Kind = "CONFLICT"
	KindForbidden          Kind = "FORBIDDEN"
	KindServiceUnavailable Kind = "SERVICE_UNAVAILABLE"
	KindInternal           Kind = "INTERNAL"
)

// AppError ошибка приложения со стабильным кодом, сообщением и HTTP-статусом.
// errors.Is сравнивает AppError по коду, поэтому sentinel-ошибку можно
// вернуть с уточнённым сообщением через WithMessage.
type AppError struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is сравнивает ошибки по коду
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Status возвращает HTTP-статус для типа ошибки
func (e *AppError) Status() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindForbidden:
		return http.StatusForbidden
	case KindServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// WithMessage возвращает копию ошибки с новым сообщением
func (e *AppError) WithMessage(format string, args ...interface{}) *AppError {
	return &AppError{Kind: e.Kind, Code: e.Code, Message: fmt.Sprintf(format, args...), Err: e.Err}
}

// Wrap возвращает копию ошибки с причиной
func (e *AppError) Wrap(err error) *AppError {
	return &AppError{Kind: e.Kind, Code: e.Code, Message: e.Message, Err: err}
}

func New(kind Kind, code, message string) *AppError {
	return &AppError{Kind: kind, Code: code, Message: message}
}

func Validation(code, message string) *AppError {
	return New(KindValidation, code, message)
}

func NotFound(code, message string) *AppError {
	return New(KindNotFound, code, message)
}

func Conflict(code, message string) *AppError {
	return New(KindConflict, code, message)
}

func Forbidden(code, message string) *AppError {
	return New(KindForbidden, code, message)
}

func Unavailable(code, message string) *AppError {
	return New(KindServiceUnavailable, code, message)
}

// Internal оборачивает неожиданную ошибку инфраструктуры
func Internal(message string, err error) *AppError {
	return &AppError{Kind: KindInternal, Code: "INTERNAL", Message: message, Err: err}
}

// As извлекает первую AppError из цепочки
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf возвращает тип ошибки, для сторонних ошибок - KindInternal
func KindOf(err error) Kind {
	if appErr, ok := As(err); ok {
		return appErr.Kind
	}
	return KindInternal
}

func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
