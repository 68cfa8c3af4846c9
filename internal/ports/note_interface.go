package ports

import (
	"context"

	"notes-web-server/internal/model"
)

// NoteRepository : SQL слой, все операции ограничены владельцем заметки
type NoteRepository interface {
	Create(ctx context.Context, note *model.Note) (*model.Note, error)
	GetByUUID(ctx context.Context, noteUUID, ownerUUID string) (*model.Note, error)
	ListByOwner(ctx context.Context, ownerUUID string) ([]model.Note, error)
	ListByCategory(ctx context.Context, ownerUUID, category string) ([]model.Note, error)
	Update(ctx context.Context, note *model.Note) (*model.Note, error)
	Delete(ctx context.Context, noteUUID, ownerUUID string) error
	SetAttachment(ctx context.Context, noteUUID, ownerUUID, filename, mimeType, storagePath string) error
	ClearAttachment(ctx context.Context, noteUUID, ownerUUID string) error
}

type NoteService interface {
	ListNotes(ctx context.Context, ownerUUID string) ([]model.Note, error)
	ListNotesByCategory(ctx context.Context, ownerUUID, category string) ([]model.Note, error)
	GetNote(ctx context.Context, noteUUID, ownerUUID string) (*model.Note, error)
	CreateNote(ctx context.Context, note *model.Note) (*model.Note, error)
	UpdateNote(ctx context.Context, note *model.Note) (*model.Note, error)
	DeleteNote(ctx context.Context, noteUUID, ownerUUID string) error
	CreateAttachment(ctx context.Context, noteUUID, ownerUUID, filename, mimeType string) (string, error)
	GetAttachment(ctx context.Context, noteUUID, ownerUUID string) (*model.Note, string, error)
	DeleteAttachment(ctx context.Context, noteUUID, ownerUUID string) error
}
