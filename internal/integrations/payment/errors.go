package payment

import "errors"

var (
	// ErrNotConfigured возвращается, если секретный ключ провайдера не задан
	ErrNotConfigured = errors.New("payment client: provider is not configured")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("payment client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе провайдера
	ErrInvalidResponse = errors.New("payment client: invalid response")

	// ErrInvalidSignature подпись вебхука не прошла проверку
	ErrInvalidSignature = errors.New("payment client: invalid webhook signature")

	// ErrInvalidEvent тело вебхука не удалось разобрать
	ErrInvalidEvent = errors.New("payment client: invalid webhook event")
)
