package inventoryclient

import "errors"

type Code string

const (
	CodeBadUserInput Code = "BAD_USER_INPUT"
	CodeNotFound     Code = "NOT_FOUND"
	CodeConflict     Code = "CONFLICT"
	CodeInternal     Code = "INTERNAL_SERVER_ERROR"
)

// Error описывает ошибку, которую вернул сервер. Details заполнен только для BAD_USER_INPUT.
type Error struct {
	Code    Code
	Message string
	Details map[string][]string
}

func (e *Error) Error() string {
	if e.Code == "" {
		return e.Message
	}

	return string(e.Code) + ": " + e.Message
}

// IsCode сообщает, что err — ошибка сервера с указанным кодом.
func IsCode(err error, code Code) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Code == code
}

// FieldErrors возвращает ошибки по полям, если err — ошибка валидации.
func FieldErrors(err error) map[string][]string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Code == CodeBadUserInput {
		return apiErr.Details
	}

	return nil
}
