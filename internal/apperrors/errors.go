package apperrors

import "errors"

// Виды ошибок, которые сервисы отдают наружу.
// Хендлеры сопоставляют их с HTTP статусами через errors.Is,
// все остальные ошибки считаются внутренними (500).
var (
	ErrConflict        = errors.New("пользователь с таким именем или email уже существует")
	ErrUnauthenticated = errors.New("неверное имя пользователя или пароль")
	ErrForbidden       = errors.New("доступ запрещён")
	ErrNotFound        = errors.New("не найдено")
	ErrValidation      = errors.New("некорректные данные запроса")

	// Ошибки проверки токенов. Различимы намеренно:
	// просроченный access токен клиент лечит через refresh (401),
	// невалидный повторять бессмысленно (403).
	ErrTokenExpired = errors.New("токен просрочен")
	ErrTokenInvalid = errors.New("невалидный токен")
)
