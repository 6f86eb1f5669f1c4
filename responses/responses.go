package responses

import (
	"fmt"
	"net/http"
)

// Error describes an error for humans and machines
type Error struct {
	Status  int    `json:"status"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e Error) Error() string {
	return fmt.Sprintf("status:%d, code:%d, message:%q", e.Status, e.Code, e.Message)
}

// NewError - a brand new error
func NewError(status, code int, message string) *Error {
	return &Error{
		Status:  status,
		Code:    code,
		Message: message,
	}
}

// NewErrorf - a brand new error using fmt.Sprintf
func NewErrorf(code int, message string, args ...any) *Error {
	return &Error{
		Status:  http.StatusInternalServerError,
		Code:    code,
		Message: fmt.Sprintf(message, args...),
	}
}

// Error codes
const (
	CodeBadRequest    = 1
	CodeNotFound      = 2
	CodeUpstream      = 3
	CodeNotAvailable  = 4
	CodeInternalError = 5
)
