package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"notes-web-server/internal/apperrors"
	"notes-web-server/internal/model"
	"notes-web-server/internal/ports"
	"notes-web-server/internal/util"
)

type NoteService struct {
	noteRepository  ports.NoteRepository
	cacheRepository ports.CacheRepository
	storage         ports.S3Storage
	urlTTL          time.Duration
}

func NewNoteService(
	noteRepository ports.NoteRepository,
	cacheRepository ports.CacheRepository,
	storage ports.S3Storage,
	urlTTL time.Duration,
) *NoteService {
	return &NoteService{
		noteRepository:  noteRepository,
		cacheRepository: cacheRepository,
		storage:         storage,
		urlTTL:          urlTTL,
	}
}

// ListNotes : все заметки пользователя, свежие сверху
func (s *NoteService) ListNotes(ctx context.Context, ownerUUID string) ([]model.Note, error) {
	notes, err := s.noteRepository.ListByOwner(ctx, ownerUUID)
	if err != nil {
		return nil, fmt.Errorf("[NoteService] не удалось получить список заметок: %w", err)
	}
	return notes, nil
}

// ListNotesByCategory : заметки пользователя в заданной категории
func (s *NoteService) ListNotesByCategory(ctx context.Context, ownerUUID, category string) ([]model.Note, error) {
	notes, err := s.noteRepository.ListByCategory(ctx, ownerUUID, category)
	if err != nil {
		return nil, fmt.Errorf("[NoteService] не удалось получить заметки по категории: %w", err)
	}
	return notes, nil
}

// GetNote : возвращает заметку владельца, сначала заглядывая в кэш
func (s *NoteService) GetNote(ctx context.Context, noteUUID, ownerUUID string) (*model.Note, error) {
	note, err := s.cacheRepository.GetNote(ctx, noteUUID)
	if err != nil {
		log.Printf("[NoteService] ошибка кэширования: %v", err)
	}

	if note != nil {
		// чужая заметка из кэша неотличима от несуществующей
		if note.OwnerUUID != ownerUUID {
			return nil, fmt.Errorf("[NoteService] %w", apperrors.ErrNotFound)
		}
		log.Printf("[NoteService] заметка %s взята из кэша Redis", note.UUID)
		return note, nil
	}

	note, err = s.noteRepository.GetByUUID(ctx, noteUUID, ownerUUID)
	if err != nil {
		return nil, fmt.Errorf("[NoteService] заметка не найдена: %w", err)
	}

	if err := s.cacheRepository.SetNote(ctx, note); err != nil {
		log.Printf("[NoteService] ошибка кэширования заметки: %v", err)
	}

	return note, nil
}

// CreateNote : создаёт заметку, пустая категория заменяется категорией по умолчанию
func (s *NoteService) CreateNote(ctx context.Context, note *model.Note) (*model.Note, error) {
	note.UUID = uuid.New().String()
	if note.Category == "" {
		note.Category = model.DefaultNoteCategory
	}

	created, err := s.noteRepository.Create(ctx, note)
	if err != nil {
		return nil, fmt.Errorf("[NoteService] не удалось создать заметку: %w", err)
	}

	log.Printf("[NoteService] заметка %s успешно создана", created.UUID)

	return created, nil
}

// UpdateNote : обновляет заметку владельца и сбрасывает её кэш
func (s *NoteService) UpdateNote(ctx context.Context, note *model.Note) (*model.Note, error) {
	if note.Category == "" {
		note.Category = model.DefaultNoteCategory
	}

	updated, err := s.noteRepository.Update(ctx, note)
	if err != nil {
		return nil, fmt.Errorf("[NoteService] не удалось обновить заметку: %w", err)
	}

	if err := s.cacheRepository.DeleteNote(ctx, note.UUID); err != nil {
		log.Printf("[NoteService] ошибка сброса кэша заметки: %v", err)
	}

	return updated, nil
}

// DeleteNote : удаляет заметку вместе с вложением и кэшем
func (s *NoteService) DeleteNote(ctx context.Context, noteUUID, ownerUUID string) error {
	note, err := s.noteRepository.GetByUUID(ctx, noteUUID, ownerUUID)
	if err != nil {
		return fmt.Errorf("[NoteService] заметка не найдена: %w", err)
	}

	if err := s.noteRepository.Delete(ctx, noteUUID, ownerUUID); err != nil {
		return fmt.Errorf("[NoteService] не удалось удалить заметку: %w", err)
	}

	if note.HasAttachment() {
		if err := s.storage.DeleteObject(ctx, *note.AttachmentStoragePath); err != nil {
			log.Printf("[NoteService] не удалось удалить вложение из S3: %v", err)
		}
	}

	if err := s.cacheRepository.DeleteNote(ctx, noteUUID); err != nil {
		log.Printf("[NoteService] ошибка сброса кэша заметки: %v", err)
	}

	return nil
}

// CreateAttachment : привязывает вложение к заметке и возвращает
// pre-signed PUT URL, по которому клиент загружает файл напрямую в S3
func (s *NoteService) CreateAttachment(ctx context.Context, noteUUID, ownerUUID, filename, mimeType string) (string, error) {
	note, err := s.noteRepository.GetByUUID(ctx, noteUUID, ownerUUID)
	if err != nil {
		return "", fmt.Errorf("[NoteService] заметка не найдена: %w", err)
	}

	storagePath := fmt.Sprintf("attachments/%s/%s", note.UUID, uuid.New().String())

	putURL, err := s.storage.GeneratePresignedPutURL(ctx, storagePath, s.urlTTL)
	if err != nil {
		return "", util.LogError("[NoteService] не удалось сгенерировать pre-signed PUT URL", err)
	}

	if err := s.noteRepository.SetAttachment(ctx, noteUUID, ownerUUID, filename, mimeType, storagePath); err != nil {
		return "", fmt.Errorf("[NoteService] не удалось сохранить вложение: %w", err)
	}

	if note.HasAttachment() {
		// прежний объект осиротел, убираем его
		if err := s.storage.DeleteObject(ctx, *note.AttachmentStoragePath); err != nil {
			log.Printf("[NoteService] не удалось удалить прежнее вложение из S3: %v", err)
		}
	}

	if err := s.cacheRepository.DeleteNote(ctx, noteUUID); err != nil {
		log.Printf("[NoteService] ошибка сброса кэша заметки: %v", err)
	}

	return putURL, nil
}

// GetAttachment : возвращает заметку и pre-signed GET URL её вложения
func (s *NoteService) GetAttachment(ctx context.Context, noteUUID, ownerUUID string) (*model.Note, string, error) {
	note, err := s.noteRepository.GetByUUID(ctx, noteUUID, ownerUUID)
	if err != nil {
		return nil, "", fmt.Errorf("[NoteService] заметка не найдена: %w", err)
	}

	if !note.HasAttachment() {
		return nil, "", fmt.Errorf("[NoteService] у заметки нет вложения: %w", apperrors.ErrNotFound)
	}

	getURL, err := s.storage.GeneratePresignedGetURL(ctx, *note.AttachmentStoragePath, s.urlTTL)
	if err != nil {
		return nil, "", util.LogError("[NoteService] не удалось сгенерировать pre-signed GET URL", err)
	}

	return note, getURL, nil
}

// DeleteAttachment : удаляет вложение заметки
func (s *NoteService) DeleteAttachment(ctx context.Context, noteUUID, ownerUUID string) error {
	note, err := s.noteRepository.GetByUUID(ctx, noteUUID, ownerUUID)
	if err != nil {
		return fmt.Errorf("[NoteService] заметка не найдена: %w", err)
	}

	if !note.HasAttachment() {
		return fmt.Errorf("[NoteService] у заметки нет вложения: %w", apperrors.ErrNotFound)
	}

	if err := s.noteRepository.ClearAttachment(ctx, noteUUID, ownerUUID); err != nil {
		return fmt.Errorf("[NoteService] не удалось удалить вложение: %w", err)
	}

	if err := s.storage.DeleteObject(ctx, *note.AttachmentStoragePath); err != nil {
		log.Printf("[NoteService] не удалось удалить вложение из S3: %v", err)
	}

	if err := s.cacheRepository.DeleteNote(ctx, noteUUID); err != nil {
		log.Printf("[NoteService] ошибка сброса кэша заметки: %v", err)
	}

	return nil
}
