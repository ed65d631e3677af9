package webhook

import "errors"

var (
	// ErrInternal ошибка при формировании или отправке запроса
	ErrInternal = errors.New("webhook: internal error")

	// ErrInvalidResponse получатель ответил не 2xx
	ErrInvalidResponse = errors.New("webhook: invalid response")
)
