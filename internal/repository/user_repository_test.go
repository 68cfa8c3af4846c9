package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"

	"notes-web-server/config"
	"notes-web-server/internal/apperrors"
	"notes-web-server/internal/model"
	"notes-web-server/internal/repository"
)

var userColumns = []string{"uuid", "username", "email", "password_hash", "refresh_token", "created_at", "updated_at"}

func newTestUserRepository(t *testing.T) (*repository.UserRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	return repository.NewUserRepository(&config.Database{DB: sqlxDB}), mock
}

func userRow(refreshToken interface{}) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(userColumns).
		AddRow("u1", "alice", "alice@example.com", "hash", refreshToken, now, now)
}

func TestCreateUser_Success(t *testing.T) {
	repo, mock := newTestUserRepository(t)

	refresh := "ref"
	user := &model.User{
		UUID:         "u1",
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "hash",
		RefreshToken: &refresh,
	}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("u1", "alice", "alice@example.com", "hash", "ref").
		WillReturnRows(userRow("ref"))

	created, err := repo.CreateUser(context.Background(), user)

	assert.NoError(t, err)
	assert.Equal(t, "alice", created.Username)
	assert.NotNil(t, created.RefreshToken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUser_DuplicateKey(t *testing.T) {
	repo, mock := newTestUserRepository(t)

	refresh := "ref"
	user := &model.User{UUID: "u1", Username: "alice", Email: "alice@example.com", PasswordHash: "hash", RefreshToken: &refresh}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(errors.New(`pq: duplicate key value violates unique constraint "users_username_key"`))

	created, err := repo.CreateUser(context.Background(), user)

	assert.Nil(t, created)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByUUID_NotFound(t *testing.T) {
	repo, mock := newTestUserRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE uuid = $1")).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows(userColumns))

	user, err := repo.FindByUUID(context.Background(), "ghost")

	assert.Nil(t, user)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Идентификатор ищется и как username, и как email одним запросом
func TestFindByIdentifier_Success(t *testing.T) {
	repo, mock := newTestUserRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE username = $1 OR email = $1")).
		WithArgs("alice@example.com").
		WillReturnRows(userRow(nil))

	user, err := repo.FindByIdentifier(context.Background(), "alice@example.com")

	assert.NoError(t, err)
	assert.Equal(t, "u1", user.UUID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByRefreshToken_NotFound(t *testing.T) {
	repo, mock := newTestUserRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE refresh_token = $1")).
		WithArgs("stray").
		WillReturnRows(sqlmock.NewRows(userColumns))

	user, err := repo.FindByRefreshToken(context.Background(), "stray")

	assert.Nil(t, user)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestExistsByUsernameOrEmail(t *testing.T) {
	repo, mock := newTestUserRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs("alice", "alice@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsByUsernameOrEmail(context.Background(), "alice", "alice@example.com")

	assert.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateRefreshToken_Success(t *testing.T) {
	repo, mock := newTestUserRepository(t)

	token := "new-token"
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET refresh_token = $2")).
		WithArgs("u1", "new-token").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateRefreshToken(context.Background(), "u1", &token)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// nil очищает токен: так работает logout
func TestUpdateRefreshToken_Clear(t *testing.T) {
	repo, mock := newTestUserRepository(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET refresh_token = $2")).
		WithArgs("u1", nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateRefreshToken(context.Background(), "u1", nil)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateRefreshToken_UserGone(t *testing.T) {
	repo, mock := newTestUserRepository(t)

	token := "new-token"
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET refresh_token = $2")).
		WithArgs("ghost", "new-token").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateRefreshToken(context.Background(), "ghost", &token)

	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}
