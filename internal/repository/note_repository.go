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

type NoteRepository struct {
	*config.Database
}

func NewNoteRepository(database *config.Database) *NoteRepository {
	return &NoteRepository{database}
}

const noteColumns = `uuid, owner_uuid, title, content, category,
		attachment_filename, attachment_mime_type, attachment_storage_path,
		created_at, updated_at`

// Create : сохраняет новую заметку
func (r *NoteRepository) Create(ctx context.Context, note *model.Note) (*model.Note, error) {
	query := `
		INSERT INTO notes (uuid, owner_uuid, title, content, category)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + noteColumns

	createdNote := &model.Note{}
	err := r.DB.QueryRowxContext(ctx, query,
		note.UUID, note.OwnerUUID, note.Title, note.Content, note.Category).
		StructScan(createdNote)

	if err != nil {
		return nil, util.LogError("[NoteRepo] ошибка вставки данных в БД", err)
	}

	return createdNote, nil
}

// GetByUUID : возвращает заметку, если юзер её владелец
func (r *NoteRepository) GetByUUID(ctx context.Context, noteUUID, ownerUUID string) (*model.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes WHERE uuid = $1 AND owner_uuid = $2`

	var note model.Note
	err := r.DB.GetContext(ctx, &note, query, noteUUID, ownerUUID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, util.LogError("[NoteRepo] не удалось найти заметку в БД", err)
	}
	return &note, nil
}

// ListByOwner : все заметки пользователя, свежие сверху
func (r *NoteRepository) ListByOwner(ctx context.Context, ownerUUID string) ([]model.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes WHERE owner_uuid = $1 ORDER BY updated_at DESC`

	var notes []model.Note
	err := r.DB.SelectContext(ctx, &notes, query, ownerUUID)
	if err != nil {
		return nil, util.LogError("[NoteRepo] не удалось получить список заметок", err)
	}
	return notes, nil
}

// ListByCategory : заметки пользователя в заданной категории
func (r *NoteRepository) ListByCategory(ctx context.Context, ownerUUID, category string) ([]model.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes
				WHERE owner_uuid = $1 AND category = $2 ORDER BY updated_at DESC`

	var notes []model.Note
	err := r.DB.SelectContext(ctx, &notes, query, ownerUUID, category)
	if err != nil {
		return nil, util.LogError("[NoteRepo] не удалось получить заметки по категории", err)
	}
	return notes, nil
}

// Update : обновляет заголовок, содержимое и категорию заметки
func (r *NoteRepository) Update(ctx context.Context, note *model.Note) (*model.Note, error) {
	query := `
		UPDATE notes
		SET title = $3, content = $4, category = $5, updated_at = NOW()
		WHERE uuid = $1 AND owner_uuid = $2
		RETURNING ` + noteColumns

	updatedNote := &model.Note{}
	err := r.DB.QueryRowxContext(ctx, query,
		note.UUID, note.OwnerUUID, note.Title, note.Content, note.Category).
		StructScan(updatedNote)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, util.LogError("[NoteRepo] не удалось обновить заметку", err)
	}

	return updatedNote, nil
}

// Delete : удаляет заметку владельца
func (r *NoteRepository) Delete(ctx context.Context, noteUUID, ownerUUID string) error {
	query := `DELETE FROM notes WHERE uuid = $1 AND owner_uuid = $2`

	result, err := r.DB.ExecContext(ctx, query, noteUUID, ownerUUID)
	if err != nil {
		return util.LogError("[NoteRepo] не удалось удалить заметку", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return util.LogError("[NoteRepo] не удалось проверить, удалена ли заметка", err)
	}
	if rowsAffected == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// SetAttachment : привязывает вложение к заметке
func (r *NoteRepository) SetAttachment(ctx context.Context, noteUUID, ownerUUID, filename, mimeType, storagePath string) error {
	query := `
		UPDATE notes
		SET attachment_filename = $3, attachment_mime_type = $4, attachment_storage_path = $5, updated_at = NOW()
		WHERE uuid = $1 AND owner_uuid = $2
	`

	result, err := r.DB.ExecContext(ctx, query, noteUUID, ownerUUID, filename, mimeType, storagePath)
	if err != nil {
		return util.LogError("[NoteRepo] не удалось сохранить вложение", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return util.LogError("[NoteRepo] не удалось проверить, сохранено ли вложение", err)
	}
	if rowsAffected == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// ClearAttachment : отвязывает вложение от заметки
func (r *NoteRepository) ClearAttachment(ctx context.Context, noteUUID, ownerUUID string) error {
	query := `
		UPDATE notes
		SET attachment_filename = NULL, attachment_mime_type = NULL, attachment_storage_path = NULL, updated_at = NOW()
		WHERE uuid = $1 AND owner_uuid = $2
	`

	result, err := r.DB.ExecContext(ctx, query, noteUUID, ownerUUID)
	if err != nil {
		return util.LogError("[NoteRepo] не удалось удалить вложение", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return util.LogError("[NoteRepo] не удалось проверить, удалено ли вложение", err)
	}
	if rowsAffected == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}
