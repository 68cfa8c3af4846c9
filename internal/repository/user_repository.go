package repository

import (
	"context"
	"database/sql"
	"errors"

	"notes-web-server/config"
	"notes-web-server/internal/apperrors"
	"notes-web-server/internal/model"
	"notes-web-server/internal/util"
)

type UserRepository struct {
	*config.Database
}

func NewUserRepository(database *config.Database) *UserRepository {
	return &UserRepository{database}
}

// CreateUser : сохраняет нового пользователя
func (r *UserRepository) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	query := `
	INSERT INTO users (uuid, username, email, password_hash, refresh_token)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING uuid, username, email, password_hash, refresh_token, created_at, updated_at
	`

	createdUser := &model.User{}
	err := r.DB.QueryRowxContext(ctx, query,
		user.UUID, user.Username, user.Email, user.PasswordHash, user.RefreshToken).
		StructScan(createdUser)

	if err != nil {
		return nil, util.LogError("[UserRepo] ошибка вставки данных в БД", err)
	}

	return createdUser, nil
}

// FindByUUID : ищет пользователя по UUID
func (r *UserRepository) FindByUUID(ctx context.Context, uuid string) (*model.User, error) {
	query := `SELECT uuid, username, email, password_hash, refresh_token, created_at, updated_at
				FROM users WHERE uuid = $1`

	var user model.User
	err := r.DB.GetContext(ctx, &user, query, uuid)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, util.LogError("[UserRepo] не удалось найти пользователя в БД", err)
	}
	return &user, nil
}

// FindByIdentifier : ищет пользователя по username или email, совпадение точное
func (r *UserRepository) FindByIdentifier(ctx context.Context, identifier string) (*model.User, error) {
	query := `SELECT uuid, username, email, password_hash, refresh_token, created_at, updated_at
				FROM users WHERE username = $1 OR email = $1`

	var user model.User
	err := r.DB.GetContext(ctx, &user, query, identifier)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, util.LogError("[UserRepo] не удалось найти пользователя по идентификатору", err)
	}
	return &user, nil
}

// FindByRefreshToken : ищет пользователя, за которым сейчас закреплён этот refresh токен
func (r *UserRepository) FindByRefreshToken(ctx context.Context, refreshToken string) (*model.User, error) {
	query := `SELECT uuid, username, email, password_hash, refresh_token, created_at, updated_at
				FROM users WHERE refresh_token = $1`

	var user model.User
	err := r.DB.GetContext(ctx, &user, query, refreshToken)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, util.LogError("[UserRepo] не удалось найти пользователя по refresh токену", err)
	}
	return &user, nil
}

// ExistsByUsernameOrEmail : проверка уникальности при регистрации
func (r *UserRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1 OR email = $2)`
	err := r.DB.GetContext(ctx, &exists, query, username, email)
	if err != nil {
		return false, util.LogError("[UserRepo] ошибка проверки существования пользователя", err)
	}
	return exists, nil
}

// UpdateRefreshToken : перезаписывает закреплённый за пользователем refresh токен.
// nil очищает токен (logout). Обновление одной строки, стор сериализует
// конкурентные записи сам, последняя запись выигрывает.
func (r *UserRepository) UpdateRefreshToken(ctx context.Context, uuid string, refreshToken *string) error {
	query := `UPDATE users SET refresh_token = $2, updated_at = NOW() WHERE uuid = $1`

	result, err := r.DB.ExecContext(ctx, query, uuid, refreshToken)
	if err != nil {
		return util.LogError("[UserRepo] не удалось обновить refresh токен", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return util.LogError("[UserRepo] не удалось проверить, обновлён ли refresh токен", err)
	}
	if rowsAffected == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}
