package ports

import (
	"context"

	"notes-web-server/internal/model"
)

// CacheRepository : Redis слой
type CacheRepository interface {
	SetNote(ctx context.Context, note *model.Note) error
	GetNote(ctx context.Context, uuid string) (*model.Note, error)
	DeleteNote(ctx context.Context, uuid string) error
}
