package providers

import (
	"errors"
	"fmt"
	"net/url"
)

// ErrMissingCredential возвращается до любого сетевого запроса, если API ключ не задан
var ErrMissingCredential = errors.New("не задан API ключ")

// APIError ответ провайдера с неуспешным HTTP статусом
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// NetworkError ответ не получен: DNS, соединение, таймаут
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("сетевая ошибка: %v", e.Cause())
}

// Cause причина без адреса запроса: в адресе лежит API ключ
func (e *NetworkError) Cause() error {
	var uerr *url.Error
	if errors.As(e.Err, &uerr) {
		return uerr.Err
	}
	return e.Err
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// DecodeError успешный статус, но тело ответа не прошло проверку
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ошибка разбора ответа: %s: %v", e.Reason, e.Err)
	}
	return "ошибка разбора ответа: " + e.Reason
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
