package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"notes-web-server/internal/apperrors"
	"notes-web-server/internal/model/requestresponse"
	"notes-web-server/internal/ports"
	"notes-web-server/internal/security"
)

type AuthenticationHandler struct {
	authenticationService ports.AuthenticationService
	refreshTokenTTL       time.Duration
	cookieSecure          bool
}

func NewAuthenticationHandler(
	authenticationService ports.AuthenticationService,
	refreshTokenTTL time.Duration,
	cookieSecure bool,
) *AuthenticationHandler {
	return &AuthenticationHandler{
		authenticationService: authenticationService,
		refreshTokenTTL:       refreshTokenTTL,
		cookieSecure:          cookieSecure,
	}
}

// Register godoc
// @Summary Регистрация нового пользователя
// @Description Создаёт пользователя и сразу выдаёт пару токенов. Refresh токен уходит в http-only куку, access токен только в теле ответа.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param body body requestresponse.RegisterRequest true "Тело запроса"
// @Success 201 {object} requestresponse.AuthResponse
// @Failure 400 {object} requestresponse.ErrorResponse "Некорректный JSON или поля"
// @Failure 409 {object} requestresponse.ErrorResponse "Username или email уже заняты"
// @Failure 500 {object} requestresponse.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/auth/register [post]
func (h *AuthenticationHandler) Register(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	ctx := r.Context()

	var req requestresponse.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	user, tokens, err := h.authenticationService.Register(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		log.Println(err)
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			sendErrorResponse(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, apperrors.ErrConflict):
			sendErrorResponse(w, http.StatusConflict, apperrors.ErrConflict.Error())
		default:
			sendErrorResponse(w, http.StatusInternalServerError, "внутренняя ошибка сервера")
		}
		return
	}

	h.setRefreshCookie(w, tokens.RefreshToken)

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(requestresponse.AuthResponse{
		Message:     "пользователь успешно зарегистрирован",
		User:        user.Public(),
		AccessToken: tokens.AccessToken,
	})
}

// Login godoc
// @Summary Аутентификация пользователя
// @Description Вход по username или email. Ответ при любом несовпадении одинаковый и не раскрывает, существует ли аккаунт. Успешный вход обнуляет прежнюю сессию.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param body body requestresponse.LoginRequest true "Тело запроса"
// @Success 200 {object} requestresponse.AuthResponse
// @Failure 400 {object} requestresponse.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} requestresponse.ErrorResponse "Неверное имя пользователя или пароль"
// @Failure 500 {object} requestresponse.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/auth/login [post]
func (h *AuthenticationHandler) Login(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	ctx := r.Context()

	var req requestresponse.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	// пустые поля не отсекаются заранее: любой промах по учётным данным
	// выглядит одинаково
	user, tokens, err := h.authenticationService.Login(ctx, req.Username, req.Password)
	if err != nil {
		log.Println(err)
		switch {
		case errors.Is(err, apperrors.ErrUnauthenticated):
			sendErrorResponse(w, http.StatusUnauthorized, apperrors.ErrUnauthenticated.Error())
		default:
			sendErrorResponse(w, http.StatusInternalServerError, "внутренняя ошибка сервера")
		}
		return
	}

	h.setRefreshCookie(w, tokens.RefreshToken)

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(requestresponse.AuthResponse{
		Message:     "вход выполнен успешно",
		User:        user.Public(),
		AccessToken: tokens.AccessToken,
	})
}

// RefreshToken godoc
// @Summary Обновление пары токенов
// @Description Ротация по refresh токену из куки: старый токен перестаёт действовать, новый уходит в куку, новый access токен в тело ответа. 403 означает, что нужен полный повторный вход.
// @Tags Authentication
// @Produce json
// @Success 200 {object} requestresponse.RefreshResponse
// @Failure 401 {object} requestresponse.ErrorResponse "Refresh токен отсутствует"
// @Failure 403 {object} requestresponse.ErrorResponse "Refresh токен невалиден, просрочен или отозван"
// @Failure 500 {object} requestresponse.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/auth/refresh-token [post]
func (h *AuthenticationHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	ctx := r.Context()

	cookie, err := r.Cookie(security.RefreshTokenCookie)
	if err != nil || cookie.Value == "" {
		sendErrorResponse(w, http.StatusUnauthorized, "refresh токен не найден")
		return
	}

	tokens, err := h.authenticationService.Refresh(ctx, cookie.Value)
	if err != nil {
		log.Println(err)
		switch {
		case errors.Is(err, apperrors.ErrForbidden):
			sendErrorResponse(w, http.StatusForbidden, "невалидный refresh токен")
		default:
			sendErrorResponse(w, http.StatusInternalServerError, "внутренняя ошибка сервера")
		}
		return
	}

	h.setRefreshCookie(w, tokens.RefreshToken)

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(requestresponse.RefreshResponse{
		Message:     "токены успешно обновлены",
		AccessToken: tokens.AccessToken,
	})
}

// Logout godoc
// @Summary Завершение сессии
// @Description Отзывает refresh токен и чистит куку. Всегда отвечает 200: по ответу нельзя понять, была ли сессия. Access токен живёт до собственного истечения.
// @Tags Authentication
// @Produce json
// @Success 200 {object} requestresponse.MessageResponse
// @Router /api/auth/logout [post]
func (h *AuthenticationHandler) Logout(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	ctx := r.Context()

	var refreshToken string
	if cookie, err := r.Cookie(security.RefreshTokenCookie); err == nil {
		refreshToken = cookie.Value
	}

	if err := h.authenticationService.Logout(ctx, refreshToken); err != nil {
		log.Println(err)
	}

	h.clearRefreshCookie(w)

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(requestresponse.MessageResponse{
		Message: "выход выполнен успешно",
	})
}

// GetCurrentUser godoc
// @Summary Текущий пользователь
// @Description Возвращает публичные поля пользователя из access токена
// @Tags Authentication
// @Produce json
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.CurrentUserResponse
// @Failure 401 {object} requestresponse.ErrorResponse "Токен отсутствует или просрочен"
// @Failure 403 {object} requestresponse.ErrorResponse "Токен невалиден"
// @Failure 404 {object} requestresponse.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} requestresponse.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/auth/me [get]
func (h *AuthenticationHandler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	ctx := r.Context()

	claims, err := security.GetClaimsFromContext(ctx)
	if err != nil {
		sendErrorResponse(w, http.StatusUnauthorized, "не авторизован")
		return
	}

	user, err := h.authenticationService.GetCurrentUser(ctx, claims.UserUUID)
	if err != nil {
		log.Println(err)
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			sendErrorResponse(w, http.StatusNotFound, "пользователь не найден")
		default:
			sendErrorResponse(w, http.StatusInternalServerError, "внутренняя ошибка сервера")
		}
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(requestresponse.CurrentUserResponse{
		User: user.Public(),
	})
}

// setRefreshCookie кладёт refresh токен в http-only куку.
// SameSite=Strict, срок жизни куки совпадает со сроком жизни токена.
func (h *AuthenticationHandler) setRefreshCookie(w http.ResponseWriter, refreshToken string) {
	http.SetCookie(w, &http.Cookie{
		Name:     security.RefreshTokenCookie,
		Value:    refreshToken,
		Path:     "/",
		MaxAge:   int(h.refreshTokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *AuthenticationHandler) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     security.RefreshTokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}

// decodeJSON обрабатывает декодирование JSON и возвращает ответ об ошибке, если декодирование не удалось.
func decodeJSON(w http.ResponseWriter, r *http.Request, target interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(requestresponse.ErrorResponse{
			Error: "некорректный JSON",
		})
		return err
	}
	return nil
}

// sendErrorResponse отправляет ответ об ошибке JSON с указанным кодом статуса и сообщением
func sendErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(requestresponse.ErrorResponse{
		Error: message,
	})
}
