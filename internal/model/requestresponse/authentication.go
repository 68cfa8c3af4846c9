package requestresponse

import "notes-web-server/internal/model"

type RegisterRequest struct {
	Username string `json:"username" example:"alice"`
	Email    string `json:"email" example:"alice@x.com"`
	Password string `json:"password" example:"pw123456"`
}

type LoginRequest struct {
	// Username принимает имя пользователя или email
	Username string `json:"username" example:"alice"`
	Password string `json:"password" example:"pw123456"`
}

type AuthResponse struct {
	Message     string            `json:"message"`
	User        *model.PublicUser `json:"user"`
	AccessToken string            `json:"accessToken"`
}

type RefreshResponse struct {
	Message     string `json:"message"`
	AccessToken string `json:"accessToken"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type CurrentUserResponse struct {
	User *model.PublicUser `json:"user"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
