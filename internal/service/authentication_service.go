package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/mail"

	"github.com/google/uuid"

	"notes-web-server/internal/apperrors"
	"notes-web-server/internal/model"
	"notes-web-server/internal/ports"
	"notes-web-server/internal/security"
	"notes-web-server/internal/util"
)

type AuthenticationService struct {
	userRepository ports.UserRepository
	jwtService     ports.JWTServiceInterface
}

func NewAuthenticationService(
	userRepository ports.UserRepository,
	jwtService ports.JWTServiceInterface,
) *AuthenticationService {
	return &AuthenticationService{
		userRepository: userRepository,
		jwtService:     jwtService,
	}
}

// Register создаёт пользователя и сразу выдаёт пару токенов.
// Username и email глобально уникальны, совпадение проверяется точно,
// с учётом регистра. Refresh токен записывается вместе с пользователем
// одной вставкой.
func (s *AuthenticationService) Register(ctx context.Context, username, email, password string) (*model.User, *model.TokensPair, error) {
	if err := validateRegisterInput(username, email, password); err != nil {
		return nil, nil, fmt.Errorf("[AuthService] %w", err)
	}

	exists, err := s.userRepository.ExistsByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, nil, fmt.Errorf("[AuthService] ошибка проверки уникальности: %w", err)
	}
	if exists {
		return nil, nil, fmt.Errorf("[AuthService] %w", apperrors.ErrConflict)
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, nil, fmt.Errorf("[AuthService] не удалось создать хэш пароля: %w", err)
	}

	user := &model.User{
		UUID:         uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}

	tokens, err := s.jwtService.GenerateTokensPair(user.UUID, user.Username)
	if err != nil {
		return nil, nil, fmt.Errorf("[AuthService] ошибка генерации токенов: %w", err)
	}
	user.RefreshToken = &tokens.RefreshToken

	created, err := s.userRepository.CreateUser(ctx, user)
	if err != nil {
		return nil, nil, fmt.Errorf("[AuthService] ошибка создания пользователя: %w", err)
	}

	log.Printf("[AuthService] пользователь %s успешно зарегистрирован", created.Username)

	return created, tokens, nil
}

func validateRegisterInput(username, email, password string) error {
	if len(username) < 3 || len(username) > 30 {
		return fmt.Errorf("%w: username должен быть от 3 до 30 символов", apperrors.ErrValidation)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("%w: некорректный email", apperrors.ErrValidation)
	}
	if len(password) < 6 {
		return fmt.Errorf("%w: пароль должен содержать минимум 6 символов", apperrors.ErrValidation)
	}
	return nil
}

// Login ищет пользователя по username или email и сверяет пароль.
// Любое несовпадение даёт одну и ту же ошибку: по ответу нельзя понять,
// существует ли аккаунт. Успешный вход перезаписывает сохранённый refresh
// токен, прежняя сессия с этого момента не продлевается.
func (s *AuthenticationService) Login(ctx context.Context, identifier, password string) (*model.User, *model.TokensPair, error) {
	user, err := s.userRepository.FindByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, fmt.Errorf("[AuthService] %w", apperrors.ErrUnauthenticated)
		}
		return nil, nil, fmt.Errorf("[AuthService] ошибка поиска пользователя: %w", err)
	}

	if !security.CheckPassword(password, user.PasswordHash) {
		return nil, nil, fmt.Errorf("[AuthService] %w", apperrors.ErrUnauthenticated)
	}

	tokens, err := s.jwtService.GenerateTokensPair(user.UUID, user.Username)
	if err != nil {
		return nil, nil, fmt.Errorf("[AuthService] ошибка генерации токенов: %w", err)
	}

	if err := s.userRepository.UpdateRefreshToken(ctx, user.UUID, &tokens.RefreshToken); err != nil {
		return nil, nil, fmt.Errorf("[AuthService] не удалось сохранить refresh токен: %w", err)
	}

	return user, tokens, nil
}

// Refresh проверяет refresh токен и выдаёт новую пару токенов (ротация).
// Токен валиден, только если подпись верна, срок не истёк И он равен тому,
// что сейчас закреплён за пользователем: копия на сервере - источник истины,
// старый токен после ротации бесполезен даже при перехвате.
// Все отказы здесь - apperrors.ErrForbidden, клиент должен пройти полный login.
func (s *AuthenticationService) Refresh(ctx context.Context, refreshToken string) (*model.TokensPair, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		log.Printf("[AuthService] refresh токен не прошёл проверку: %v", err)
		return nil, fmt.Errorf("[AuthService] %w", apperrors.ErrForbidden)
	}

	user, err := s.userRepository.FindByUUID(ctx, claims.UserUUID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("[AuthService] %w", apperrors.ErrForbidden)
		}
		return nil, fmt.Errorf("[AuthService] ошибка поиска пользователя: %w", err)
	}

	if user.RefreshToken == nil || *user.RefreshToken != refreshToken {
		log.Printf("[AuthService] refresh токен пользователя %s не совпадает с сохранённым", user.Username)
		return nil, fmt.Errorf("[AuthService] %w", apperrors.ErrForbidden)
	}

	tokens, err := s.jwtService.GenerateTokensPair(user.UUID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("[AuthService] ошибка генерации токенов: %w", err)
	}

	if err := s.userRepository.UpdateRefreshToken(ctx, user.UUID, &tokens.RefreshToken); err != nil {
		return nil, fmt.Errorf("[AuthService] не удалось сохранить refresh токен: %w", err)
	}

	return tokens, nil
}

// Logout очищает закреплённый за пользователем refresh токен.
// Операция идемпотентна и никогда не возвращает ошибку наружу:
// по ответу нельзя понять, была ли сессия. Access токен не отзывается,
// он живёт до собственного истечения.
func (s *AuthenticationService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}

	user, err := s.userRepository.FindByRefreshToken(ctx, refreshToken)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			log.Printf("[AuthService] ошибка поиска пользователя при logout: %v", err)
		}
		return nil
	}

	if err := s.userRepository.UpdateRefreshToken(ctx, user.UUID, nil); err != nil {
		log.Printf("[AuthService] не удалось очистить refresh токен при logout: %v", err)
	}

	return nil
}

// GetCurrentUser возвращает пользователя по UUID из access токена.
// Аккаунт мог быть удалён после выпуска токена, тогда apperrors.ErrNotFound.
func (s *AuthenticationService) GetCurrentUser(ctx context.Context, userUUID string) (*model.User, error) {
	user, err := s.userRepository.FindByUUID(ctx, userUUID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("[AuthService] %w", apperrors.ErrNotFound)
		}
		return nil, util.LogError("[AuthService] ошибка поиска пользователя", err)
	}
	return user, nil
}
