package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"notes-web-server/internal/apperrors"
	"notes-web-server/internal/model"
	"notes-web-server/internal/service"
)

// ===== MOCKS =====

// MockNoteRepository
type MockNoteRepository struct {
	mock.Mock
}

func (m *MockNoteRepository) Create(ctx context.Context, note *model.Note) (*model.Note, error) {
	args := m.Called(ctx, note)
	if n, ok := args.Get(0).(*model.Note); ok {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockNoteRepository) GetByUUID(ctx context.Context, noteUUID, ownerUUID string) (*model.Note, error) {
	args := m.Called(ctx, noteUUID, ownerUUID)
	if n, ok := args.Get(0).(*model.Note); ok {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockNoteRepository) ListByOwner(ctx context.Context, ownerUUID string) ([]model.Note, error) {
	args := m.Called(ctx, ownerUUID)
	if notes, ok := args.Get(0).([]model.Note); ok {
		return notes, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockNoteRepository) ListByCategory(ctx context.Context, ownerUUID, category string) ([]model.Note, error) {
	args := m.Called(ctx, ownerUUID, category)
	if notes, ok := args.Get(0).([]model.Note); ok {
		return notes, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockNoteRepository) Update(ctx context.Context, note *model.Note) (*model.Note, error) {
	args := m.Called(ctx, note)
	if n, ok := args.Get(0).(*model.Note); ok {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockNoteRepository) Delete(ctx context.Context, noteUUID, ownerUUID string) error {
	args := m.Called(ctx, noteUUID, ownerUUID)
	return args.Error(0)
}

func (m *MockNoteRepository) SetAttachment(ctx context.Context, noteUUID, ownerUUID, filename, mimeType, storagePath string) error {
	args := m.Called(ctx, noteUUID, ownerUUID, filename, mimeType, storagePath)
	return args.Error(0)
}

func (m *MockNoteRepository) ClearAttachment(ctx context.Context, noteUUID, ownerUUID string) error {
	args := m.Called(ctx, noteUUID, ownerUUID)
	return args.Error(0)
}

// MockCacheRepository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) SetNote(ctx context.Context, note *model.Note) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}

func (m *MockCacheRepository) GetNote(ctx context.Context, uuid string) (*model.Note, error) {
	args := m.Called(ctx, uuid)
	if n, ok := args.Get(0).(*model.Note); ok {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCacheRepository) DeleteNote(ctx context.Context, uuid string) error {
	args := m.Called(ctx, uuid)
	return args.Error(0)
}

// MockS3Storage
type MockS3Storage struct {
	mock.Mock
}

func (m *MockS3Storage) GeneratePresignedGetURL(ctx context.Context, key string, expire time.Duration) (string, error) {
	args := m.Called(ctx, key, expire)
	return args.String(0), args.Error(1)
}

func (m *MockS3Storage) GeneratePresignedPutURL(ctx context.Context, key string, expire time.Duration) (string, error) {
	args := m.Called(ctx, key, expire)
	return args.String(0), args.Error(1)
}

func (m *MockS3Storage) DeleteObject(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// ===== HELPERS =====

func newTestNoteService() (*service.NoteService, *MockNoteRepository, *MockCacheRepository, *MockS3Storage) {
	mockNoteRepo := new(MockNoteRepository)
	mockCache := new(MockCacheRepository)
	mockStorage := new(MockS3Storage)

	svc := service.NewNoteService(mockNoteRepo, mockCache, mockStorage, 15*time.Minute)

	return svc, mockNoteRepo, mockCache, mockStorage
}

// ===== GET =====

// 1. Кэш попал: в БД не ходим
func TestGetNote_CacheHit(t *testing.T) {
	svc, mockNoteRepo, mockCache, _ := newTestNoteService()
	ctx := context.Background()

	note := &model.Note{UUID: "n1", OwnerUUID: "owner1", Title: "из кэша"}

	mockCache.On("GetNote", ctx, "n1").Return(note, nil)

	got, err := svc.GetNote(ctx, "n1", "owner1")

	assert.NoError(t, err)
	assert.Equal(t, note, got)
	mockNoteRepo.AssertNotCalled(t, "GetByUUID")
}

// 2. В кэше чужая заметка: ответ как про несуществующую
func TestGetNote_CacheHitWrongOwner(t *testing.T) {
	svc, mockNoteRepo, mockCache, _ := newTestNoteService()
	ctx := context.Background()

	note := &model.Note{UUID: "n1", OwnerUUID: "someone-else"}

	mockCache.On("GetNote", ctx, "n1").Return(note, nil)

	got, err := svc.GetNote(ctx, "n1", "owner1")

	assert.Nil(t, got)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	mockNoteRepo.AssertNotCalled(t, "GetByUUID")
}

// 3. Кэш мимо: заметка берётся из БД и кладётся в кэш
func TestGetNote_CacheMiss(t *testing.T) {
	svc, mockNoteRepo, mockCache, _ := newTestNoteService()
	ctx := context.Background()

	note := &model.Note{UUID: "n1", OwnerUUID: "owner1", Title: "из БД"}

	mockCache.On("GetNote", ctx, "n1").Return(nil, nil)
	mockNoteRepo.On("GetByUUID", ctx, "n1", "owner1").Return(note, nil)
	mockCache.On("SetNote", ctx, note).Return(nil)

	got, err := svc.GetNote(ctx, "n1", "owner1")

	assert.NoError(t, err)
	assert.Equal(t, note, got)
	mockCache.AssertExpectations(t)
	mockNoteRepo.AssertExpectations(t)
}

// 4. Ошибка кэша не фатальна
func TestGetNote_CacheErrorIgnored(t *testing.T) {
	svc, mockNoteRepo, mockCache, _ := newTestNoteService()
	ctx := context.Background()

	note := &model.Note{UUID: "n1", OwnerUUID: "owner1"}

	mockCache.On("GetNote", ctx, "n1").Return(nil, errors.New("redis down"))
	mockNoteRepo.On("GetByUUID", ctx, "n1", "owner1").Return(note, nil)
	mockCache.On("SetNote", ctx, note).Return(errors.New("redis down"))

	got, err := svc.GetNote(ctx, "n1", "owner1")

	assert.NoError(t, err)
	assert.Equal(t, note, got)
}

// ===== CREATE / UPDATE =====

// Пустая категория подменяется категорией по умолчанию
func TestCreateNote_DefaultCategory(t *testing.T) {
	svc, mockNoteRepo, _, _ := newTestNoteService()
	ctx := context.Background()

	mockNoteRepo.On("Create", ctx, mock.MatchedBy(func(n *model.Note) bool {
		return n.UUID != "" && n.Category == model.DefaultNoteCategory
	})).Return(&model.Note{UUID: "n1", Category: model.DefaultNoteCategory}, nil)

	created, err := svc.CreateNote(ctx, &model.Note{OwnerUUID: "owner1", Title: "без категории"})

	assert.NoError(t, err)
	assert.Equal(t, model.DefaultNoteCategory, created.Category)
	mockNoteRepo.AssertExpectations(t)
}

// Обновление сбрасывает кэш заметки
func TestUpdateNote_InvalidatesCache(t *testing.T) {
	svc, mockNoteRepo, mockCache, _ := newTestNoteService()
	ctx := context.Background()

	note := &model.Note{UUID: "n1", OwnerUUID: "owner1", Title: "новый заголовок", Category: "personal"}

	mockNoteRepo.On("Update", ctx, note).Return(note, nil)
	mockCache.On("DeleteNote", ctx, "n1").Return(nil)

	updated, err := svc.UpdateNote(ctx, note)

	assert.NoError(t, err)
	assert.Equal(t, note, updated)
	mockCache.AssertExpectations(t)
}

func TestUpdateNote_NotFound(t *testing.T) {
	svc, mockNoteRepo, mockCache, _ := newTestNoteService()
	ctx := context.Background()

	note := &model.Note{UUID: "ghost", OwnerUUID: "owner1", Category: "work"}

	mockNoteRepo.On("Update", ctx, note).Return(nil, apperrors.ErrNotFound)

	updated, err := svc.UpdateNote(ctx, note)

	assert.Nil(t, updated)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	mockCache.AssertNotCalled(t, "DeleteNote")
}

// ===== DELETE =====

// Удаление заметки с вложением чистит S3 и кэш
func TestDeleteNote_WithAttachment(t *testing.T) {
	svc, mockNoteRepo, mockCache, mockStorage := newTestNoteService()
	ctx := context.Background()

	path := "attachments/n1/obj"
	note := &model.Note{UUID: "n1", OwnerUUID: "owner1", AttachmentStoragePath: &path}

	mockNoteRepo.On("GetByUUID", ctx, "n1", "owner1").Return(note, nil)
	mockNoteRepo.On("Delete", ctx, "n1", "owner1").Return(nil)
	mockStorage.On("DeleteObject", ctx, path).Return(nil)
	mockCache.On("DeleteNote", ctx, "n1").Return(nil)

	err := svc.DeleteNote(ctx, "n1", "owner1")

	assert.NoError(t, err)
	mockStorage.AssertExpectations(t)
	mockCache.AssertExpectations(t)
}

func TestDeleteNote_NotFound(t *testing.T) {
	svc, mockNoteRepo, _, mockStorage := newTestNoteService()
	ctx := context.Background()

	mockNoteRepo.On("GetByUUID", ctx, "ghost", "owner1").Return(nil, apperrors.ErrNotFound)

	err := svc.DeleteNote(ctx, "ghost", "owner1")

	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	mockStorage.AssertNotCalled(t, "DeleteObject")
}

// ===== ATTACHMENTS =====

func TestCreateAttachment_Success(t *testing.T) {
	svc, mockNoteRepo, mockCache, mockStorage := newTestNoteService()
	ctx := context.Background()

	note := &model.Note{UUID: "n1", OwnerUUID: "owner1"}

	mockNoteRepo.On("GetByUUID", ctx, "n1", "owner1").Return(note, nil)
	mockStorage.On("GeneratePresignedPutURL", ctx, mock.Anything, 15*time.Minute).
		Return("https://s3/put", nil)
	mockNoteRepo.On("SetAttachment", ctx, "n1", "owner1", "scan.pdf", "application/pdf", mock.Anything).
		Return(nil)
	mockCache.On("DeleteNote", ctx, "n1").Return(nil)

	url, err := svc.CreateAttachment(ctx, "n1", "owner1", "scan.pdf", "application/pdf")

	assert.NoError(t, err)
	assert.Equal(t, "https://s3/put", url)
	mockNoteRepo.AssertExpectations(t)
}

// Замена вложения удаляет осиротевший объект из S3
func TestCreateAttachment_ReplacesOldObject(t *testing.T) {
	svc, mockNoteRepo, mockCache, mockStorage := newTestNoteService()
	ctx := context.Background()

	oldPath := "attachments/n1/old"
	note := &model.Note{UUID: "n1", OwnerUUID: "owner1", AttachmentStoragePath: &oldPath}

	mockNoteRepo.On("GetByUUID", ctx, "n1", "owner1").Return(note, nil)
	mockStorage.On("GeneratePresignedPutURL", ctx, mock.Anything, 15*time.Minute).
		Return("https://s3/put", nil)
	mockNoteRepo.On("SetAttachment", ctx, "n1", "owner1", "new.pdf", "application/pdf", mock.Anything).
		Return(nil)
	mockStorage.On("DeleteObject", ctx, oldPath).Return(nil)
	mockCache.On("DeleteNote", ctx, "n1").Return(nil)

	_, err := svc.CreateAttachment(ctx, "n1", "owner1", "new.pdf", "application/pdf")

	assert.NoError(t, err)
	mockStorage.AssertExpectations(t)
}

func TestGetAttachment_NoAttachment(t *testing.T) {
	svc, mockNoteRepo, _, mockStorage := newTestNoteService()
	ctx := context.Background()

	note := &model.Note{UUID: "n1", OwnerUUID: "owner1"}

	mockNoteRepo.On("GetByUUID", ctx, "n1", "owner1").Return(note, nil)

	got, url, err := svc.GetAttachment(ctx, "n1", "owner1")

	assert.Nil(t, got)
	assert.Empty(t, url)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	mockStorage.AssertNotCalled(t, "GeneratePresignedGetURL")
}

func TestGetAttachment_Success(t *testing.T) {
	svc, mockNoteRepo, _, mockStorage := newTestNoteService()
	ctx := context.Background()

	path := "attachments/n1/obj"
	filename := "scan.pdf"
	note := &model.Note{UUID: "n1", OwnerUUID: "owner1", AttachmentFilename: &filename, AttachmentStoragePath: &path}

	mockNoteRepo.On("GetByUUID", ctx, "n1", "owner1").Return(note, nil)
	mockStorage.On("GeneratePresignedGetURL", ctx, path, 15*time.Minute).
		Return("https://s3/get", nil)

	got, url, err := svc.GetAttachment(ctx, "n1", "owner1")

	assert.NoError(t, err)
	assert.Equal(t, note, got)
	assert.Equal(t, "https://s3/get", url)
}

func TestDeleteAttachment_Success(t *testing.T) {
	svc, mockNoteRepo, mockCache, mockStorage := newTestNoteService()
	ctx := context.Background()

	path := "attachments/n1/obj"
	note := &model.Note{UUID: "n1", OwnerUUID: "owner1", AttachmentStoragePath: &path}

	mockNoteRepo.On("GetByUUID", ctx, "n1", "owner1").Return(note, nil)
	mockNoteRepo.On("ClearAttachment", ctx, "n1", "owner1").Return(nil)
	mockStorage.On("DeleteObject", ctx, path).Return(nil)
	mockCache.On("DeleteNote", ctx, "n1").Return(nil)

	err := svc.DeleteAttachment(ctx, "n1", "owner1")

	assert.NoError(t, err)
	mockNoteRepo.AssertExpectations(t)
	mockStorage.AssertExpectations(t)
}

// ===== LISTS =====

func TestListNotes_Success(t *testing.T) {
	svc, mockNoteRepo, _, _ := newTestNoteService()
	ctx := context.Background()

	notes := []model.Note{{UUID: "n1"}, {UUID: "n2"}}

	mockNoteRepo.On("ListByOwner", ctx, "owner1").Return(notes, nil)

	got, err := svc.ListNotes(ctx, "owner1")

	assert.NoError(t, err)
	assert.Equal(t, notes, got)
}

func TestListNotesByCategory_Success(t *testing.T) {
	svc, mockNoteRepo, _, _ := newTestNoteService()
	ctx := context.Background()

	notes := []model.Note{{UUID: "n1", Category: "personal"}}

	mockNoteRepo.On("ListByCategory", ctx, "owner1", "personal").Return(notes, nil)

	got, err := svc.ListNotesByCategory(ctx, "owner1", "personal")

	assert.NoError(t, err)
	assert.Equal(t, notes, got)
}
