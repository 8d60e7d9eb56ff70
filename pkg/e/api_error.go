package e

import (
	"errors"
	"fmt"
)

// Code — машиночитаемый код ошибки, который видит клиент.
type Code string

const (
	CodeBadUserInput Code = "BAD_USER_INPUT"
	CodeNotFound     Code = "NOT_FOUND"
	CodeConflict     Code = "CONFLICT" // зарезервирован, дубликат имени отдаётся как BAD_USER_INPUT
	CodeInternal     Code = "INTERNAL_SERVER_ERROR"
)

const (
	MsgValidationFailed = "Validation failed"
	MsgProductNotFound  = "Product not found"
	MsgInternal         = "Internal server error"
)

// APIError — ошибка, возвращаемая на границе API: код, сообщение и ошибки по полям.
type APIError struct {
	Code    Code
	Message string
	Details FieldErrors
}

func (a *APIError) Error() string {
	if len(a.Details) == 0 {
		return fmt.Sprintf("%s: %s", a.Code, a.Message)
	}

	return fmt.Sprintf("%s: %s %v", a.Code, a.Message, map[string][]string(a.Details))
}

// Extensions попадает в поле extensions ответа GraphQL.
func (a *APIError) Extensions() map[string]interface{} {
	ext := map[string]interface{}{
		"code": string(a.Code),
	}
	if len(a.Details) > 0 {
		ext["details"] = map[string][]string(a.Details)
	}

	return ext
}

func NewBadUserInput(details FieldErrors) *APIError {
	return &APIError{Code: CodeBadUserInput, Message: MsgValidationFailed, Details: details}
}

func NewNotFound(message string) *APIError {
	return &APIError{Code: CodeNotFound, Message: message}
}

func NewInternal() *APIError {
	return &APIError{Code: CodeInternal, Message: MsgInternal}
}

// AsAPIError достаёт APIError из цепочки. Любая другая ошибка превращается в непрозрачную внутреннюю.
func AsAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	return NewInternal()
}

// FieldErrors собирает сообщения об ошибках по полям запроса.
type FieldErrors map[string][]string

func (f FieldErrors) Add(field, message string) {
	f[field] = append(f[field], message)
}

func (f FieldErrors) Empty() bool {
	return len(f) == 0
}

// First возвращает первое сообщение для поля или пустую строку.
func (f FieldErrors) First(field string) string {
	if msgs := f[field]; len(msgs) > 0 {
		return msgs[0]
	}

	return ""
}
