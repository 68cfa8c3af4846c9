package ports

import (
	"notes-web-server/internal/model"
	"notes-web-server/internal/security"
)

type JWTServiceInterface interface {
	GenerateTokensPair(userUUID, username string) (*model.TokensPair, error)
	ValidateAccessToken(tokenString string) (*security.Claims, error)
	ValidateRefreshToken(tokenString string) (*security.Claims, error)
}
