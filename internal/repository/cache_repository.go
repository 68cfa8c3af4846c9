package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"notes-web-server/config"
	"notes-web-server/internal/model"
	"notes-web-server/internal/util"
)

type CacheRepository struct {
	client *config.RedisClient
	ttl    time.Duration
}

func NewCacheRepository(rdb *config.RedisClient, ttl time.Duration) *CacheRepository {
	return &CacheRepository{rdb, ttl}
}

// noteCachePayload : полный снимок заметки для Redis.
// У модели owner_uuid и attachment_storage_path скрыты из json для клиентов,
// в кэше они обязаны сохраняться: без владельца проверка на попадании
// в кэш невозможна.
type noteCachePayload struct {
	UUID                  string     `json:"uuid"`
	OwnerUUID             string     `json:"owner_uuid"`
	Title                 string     `json:"title"`
	Content               string     `json:"content"`
	Category              string     `json:"category"`
	AttachmentFilename    *string    `json:"attachment_filename"`
	AttachmentMimeType    *string    `json:"attachment_mime_type"`
	AttachmentStoragePath *string    `json:"attachment_storage_path"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

func newNoteCachePayload(note *model.Note) *noteCachePayload {
	return &noteCachePayload{
		UUID:                  note.UUID,
		OwnerUUID:             note.OwnerUUID,
		Title:                 note.Title,
		Content:               note.Content,
		Category:              note.Category,
		AttachmentFilename:    note.AttachmentFilename,
		AttachmentMimeType:    note.AttachmentMimeType,
		AttachmentStoragePath: note.AttachmentStoragePath,
		CreatedAt:             note.CreatedAt,
		UpdatedAt:             note.UpdatedAt,
	}
}

func (p *noteCachePayload) toNote() *model.Note {
	return &model.Note{
		UUID:                  p.UUID,
		OwnerUUID:             p.OwnerUUID,
		Title:                 p.Title,
		Content:               p.Content,
		Category:              p.Category,
		AttachmentFilename:    p.AttachmentFilename,
		AttachmentMimeType:    p.AttachmentMimeType,
		AttachmentStoragePath: p.AttachmentStoragePath,
		CreatedAt:             p.CreatedAt,
		UpdatedAt:             p.UpdatedAt,
	}
}

func (r *CacheRepository) SetNote(ctx context.Context, note *model.Note) error {
	data, err := json.Marshal(newNoteCachePayload(note))
	if err != nil {
		return util.LogError("ошибка сериализации заметки", err)
	}

	cmd := r.client.Client.Set(ctx, r.key(note.UUID), data, r.ttl)
	if err = cmd.Err(); err != nil {
		return util.LogError("ошибка сохранения в Redis", err)
	}
	if cmd.Val() != "OK" {
		return fmt.Errorf("неожиданный ответ Redis: %s", cmd.Val())
	}

	return nil
}

func (r *CacheRepository) GetNote(ctx context.Context, uuid string) (*model.Note, error) {
	val, err := r.client.Client.Get(ctx, r.key(uuid)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil // нет в кэше
	} else if err != nil {
		return nil, util.LogError("ошибка получения заметки из Redis", err)
	}

	var payload noteCachePayload
	if err := json.Unmarshal([]byte(val), &payload); err != nil {
		return nil, util.LogError("ошибка десериализации заметки из кэша", err)
	}
	return payload.toNote(), nil
}

func (r *CacheRepository) DeleteNote(ctx context.Context, uuid string) error {
	if err := r.client.Client.Del(ctx, r.key(uuid)).Err(); err != nil {
		return util.LogError("ошибка удаления заметки из Redis", err)
	}
	return nil
}

func (r *CacheRepository) key(uuid string) string {
	return fmt.Sprintf("note:%s", uuid)
}
