package security

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"notes-web-server/config"
	"notes-web-server/internal/apperrors"
	"notes-web-server/internal/model"
	"notes-web-server/internal/util"
)

type contextKey string

const (
	UserContextKey contextKey = "user"

	// RefreshTokenCookie : имя куки, в которой клиент хранит refresh токен.
	// Access токен в куки не кладётся никогда, только в тело ответа.
	RefreshTokenCookie = "refreshToken"
)

type Claims struct {
	UserUUID string `json:"user_uuid"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type JWTService struct {
	*config.JWTConfig
}

func NewJWTService(cfg *config.JWTConfig) *JWTService {
	return &JWTService{cfg}
}

// GenerateTokensPair выпускает пару access и refresh токенов для пользователя.
// Токены подписываются разными секретами: утечка одного секрета
// не позволяет подделать токены другого класса.
func (service *JWTService) GenerateTokensPair(userUUID, username string) (*model.TokensPair, error) {
	accessToken, err := service.sign(userUUID, username, service.AccessTokenTTL, service.AccessTokenSecret)
	if err != nil {
		return nil, util.LogError("ошибка генерации access токена", err)
	}

	refreshToken, err := service.sign(userUUID, username, service.RefreshTokenTTL, service.RefreshTokenSecret)
	if err != nil {
		return nil, util.LogError("ошибка генерации refresh токена", err)
	}

	return &model.TokensPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (service *JWTService) sign(userUUID, username, ttl, secret string) (string, error) {
	timeDuration, err := time.ParseDuration(ttl)
	if err != nil {
		return "", fmt.Errorf("ошибка парсинга TTL: %w", err)
	}

	claims := Claims{
		UserUUID: userUUID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(timeDuration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "notes-web-server",
		},
	}

	jwtToken := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	return jwtToken.SignedString([]byte(secret))
}

// ValidateAccessToken проверяет access токен
func (service *JWTService) ValidateAccessToken(jwtTokenStr string) (*Claims, error) {
	return validateJWT(jwtTokenStr, []byte(service.AccessTokenSecret))
}

// ValidateRefreshToken проверяет refresh токен
func (service *JWTService) ValidateRefreshToken(jwtTokenStr string) (*Claims, error) {
	return validateJWT(jwtTokenStr, []byte(service.RefreshTokenSecret))
}

// validateJWT различает два исхода: apperrors.ErrTokenExpired, когда подпись
// верна, но срок истёк, и apperrors.ErrTokenInvalid для всего остального
// (неверная подпись, чужой секрет, мусор вместо токена).
func validateJWT(jwtTokenStr string, secretKey []byte) (*Claims, error) {
	var claims = &Claims{}

	jwtToken, err := jwt.ParseWithClaims(jwtTokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Header["alg"] != jwt.SigningMethodHS512.Alg() {
			return nil, fmt.Errorf("неверный способ подписи токена: %v", token.Header["alg"])
		}
		return secretKey, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.ErrTokenInvalid
	}

	if jwtToken.Valid == false {
		return nil, apperrors.ErrTokenInvalid
	}

	return claims, nil
}

// JWTMiddleware закрывает защищённые маршруты.
// Заголовок отсутствует или не Bearer - 401 без разбора токена.
// Токен просрочен - 401, клиенту следует сходить в refresh.
// Токен невалиден - 403, повторять запрос бессмысленно.
// При успехе кладёт claims в контекст запроса, в БД не ходит:
// claims живут до истечения access токена, даже если аккаунт уже изменён.
func JWTMiddleware(jwtService *JWTService) func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authorizationHeader := request.Header.Get("Authorization")
			if !strings.HasPrefix(authorizationHeader, "Bearer ") {
				util.HandleError(writer, "требуется access токен", http.StatusUnauthorized)
				return
			}

			token := strings.TrimPrefix(authorizationHeader, "Bearer ")

			claims, err := jwtService.ValidateAccessToken(token)
			if err != nil {
				if errors.Is(err, apperrors.ErrTokenExpired) {
					util.HandleError(writer, "access токен просрочен", http.StatusUnauthorized)
					return
				}
				util.HandleError(writer, "невалидный access токен", http.StatusForbidden)
				return
			}

			req := request.WithContext(context.WithValue(request.Context(), UserContextKey, claims))
			next.ServeHTTP(writer, req)
		})
	}
}

func GetClaimsFromContext(ctx context.Context) (*Claims, error) {
	claims, ok := ctx.Value(UserContextKey).(*Claims)
	if !ok || claims == nil {
		return nil, fmt.Errorf("пользователь не авторизован")
	}
	return claims, nil
}
