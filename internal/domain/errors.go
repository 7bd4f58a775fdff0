package domain

import "errors"

var (
	// ErrInvalidInput некорректный ввод пользователя; шаг диалога повторяется.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUserNotFound операция над незарегистрированным пользователем.
	ErrUserNotFound = errors.New("user not found")
	// ErrNotAdmin административное действие без прав.
	ErrNotAdmin = errors.New("admin privileges required")
	// ErrDelivery не удалось доставить сообщение конкретному получателю.
	ErrDelivery = errors.New("delivery failed")
)
