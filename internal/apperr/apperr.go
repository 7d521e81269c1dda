// Package apperr реализует единый тип тегированных ошибок приложения
// и трансляцию ошибок хранилища и токенов в этот тип.
// Каждой категории соответствует HTTP-статус, который проставляется
// в обработчиках через HTTPStatus.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind категория ошибки приложения.
type Kind int

// Категории ошибок.
const (
	Internal Kind = iota
	InvalidInput
	Unauthorized
	Forbidden
	NotFound
	Conflict
)

// Error тегированная ошибка приложения.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New создает ошибку заданной категории с сообщением.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap оборачивает err в ошибку заданной категории.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf возвращает категорию ошибки. Для ошибок, не созданных этим
// пакетом, возвращает Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// Message возвращает сообщение тегированной ошибки либо общий текст,
// чтобы детали внутренних ошибок не утекали клиенту.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	return "internal server error"
}

// HTTPStatus отображает категорию ошибки на HTTP-статус.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case InvalidInput:
		return http.StatusBadRequest
	case Unauthorized:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
