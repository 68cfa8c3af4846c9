package ports

import (
	"context"

	"notes-web-server/internal/model"
)

type AuthenticationService interface {
	Register(ctx context.Context, username, email, password string) (*model.User, *model.TokensPair, error)
	Login(ctx context.Context, identifier, password string) (*model.User, *model.TokensPair, error)
	Refresh(ctx context.Context, refreshToken string) (*model.TokensPair, error)
	Logout(ctx context.Context, refreshToken string) error
	GetCurrentUser(ctx context.Context, userUUID string) (*model.User, error)
}
