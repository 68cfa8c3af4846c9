package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"notes-web-server/internal/apperrors"
	"notes-web-server/internal/model"
	"notes-web-server/internal/model/requestresponse"
	"notes-web-server/internal/ports"
	"notes-web-server/internal/security"
)

type NoteHandler struct {
	noteService ports.NoteService
}

func NewNoteHandler(noteService ports.NoteService) *NoteHandler {
	return &NoteHandler{noteService}
}

// ListNotes godoc
// @Summary Список заметок пользователя
// @Description Возвращает все заметки авторизованного пользователя, свежие сверху
// @Tags Notes
// @Produce json
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {array} model.Note
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/notes [get]
func (h *NoteHandler) ListNotes(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	claims, err := security.GetClaimsFromContext(r.Context())
	if err != nil {
		sendErrorResponse(w, http.StatusUnauthorized, "не авторизован")
		return
	}

	notes, err := h.noteService.ListNotes(r.Context(), claims.UserUUID)
	if err != nil {
		log.Println(err)
		sendErrorResponse(w, http.StatusInternalServerError, "внутренняя ошибка сервера")
		return
	}

	if notes == nil {
		notes = []model.Note{}
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(notes)
}

// ListNotesByCategory godoc
// @Summary Заметки по категории
// @Description Возвращает заметки авторизованного пользователя в заданной категории
// @Tags Notes
// @Produce json
// @Param category path string true "Категория"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {array} model.Note
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/notes/category/{category} [get]
func (h *NoteHandler) ListNotesByCategory(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	claims, err := security.GetClaimsFromContext(r.Context())
	if err != nil {
		sendErrorResponse(w, http.StatusUnauthorized, "не авторизован")
		return
	}

	category := chi.URLParam(r, "category")

	notes, err := h.noteService.ListNotesByCategory(r.Context(), claims.UserUUID, category)
	if err != nil {
		log.Println(err)
		sendErrorResponse(w, http.StatusInternalServerError, "внутренняя ошибка сервера")
		return
	}

	if notes == nil {
		notes = []model.Note{}
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(notes)
}

// GetNote godoc
// @Summary Получение заметки
// @Description Возвращает заметку авторизованного пользователя по UUID
// @Tags Notes
// @Produce json
// @Param uuid path string true "UUID заметки"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} model.Note
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/notes/{uuid} [get]
func (h *NoteHandler) GetNote(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	claims, err := security.GetClaimsFromContext(r.Context())
	if err != nil {
		sendErrorResponse(w, http.StatusUnauthorized, "не авторизован")
		return
	}

	note, err := h.noteService.GetNote(r.Context(), chi.URLParam(r, "uuid"), claims.UserUUID)
	if err != nil {
		h.handleNoteError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(note)
}

// CreateNote godoc
// @Summary Создание заметки
// @Description Создаёт заметку авторизованного пользователя. Пустая категория заменяется категорией work.
// @Tags Notes
// @Accept json
// @Produce json
// @Param body body requestresponse.NoteRequest true "Тело запроса"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 201 {object} model.Note
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/notes [post]
func (h *NoteHandler) CreateNote(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	claims, err := security.GetClaimsFromContext(r.Context())
	if err != nil {
		sendErrorResponse(w, http.StatusUnauthorized, "не авторизован")
		return
	}

	var req requestresponse.NoteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	if req.Title == "" {
		sendErrorResponse(w, http.StatusBadRequest, "title обязателен")
		return
	}

	note := &model.Note{
		OwnerUUID: claims.UserUUID,
		Title:     req.Title,
		Content:   req.Content,
		Category:  req.Category,
	}

	created, err := h.noteService.CreateNote(r.Context(), note)
	if err != nil {
		log.Println(err)
		sendErrorResponse(w, http.StatusInternalServerError, "внутренняя ошибка сервера")
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

// UpdateNote godoc
// @Summary Обновление заметки
// @Description Обновляет заголовок, содержимое и категорию заметки
// @Tags Notes
// @Accept json
// @Produce json
// @Param uuid path string true "UUID заметки"
// @Param body body requestresponse.NoteRequest true "Тело запроса"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} model.Note
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/notes/{uuid} [put]
func (h *NoteHandler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	claims, err := security.GetClaimsFromContext(r.Context())
	if err != nil {
		sendErrorResponse(w, http.StatusUnauthorized, "не авторизован")
		return
	}

	var req requestresponse.NoteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	if req.Title == "" {
		sendErrorResponse(w, http.StatusBadRequest, "title обязателен")
		return
	}

	note := &model.Note{
		UUID:      chi.URLParam(r, "uuid"),
		OwnerUUID: claims.UserUUID,
		Title:     req.Title,
		Content:   req.Content,
		Category:  req.Category,
	}

	updated, err := h.noteService.UpdateNote(r.Context(), note)
	if err != nil {
		h.handleNoteError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(updated)
}

// DeleteNote godoc
// @Summary Удаление заметки
// @Description Удаляет заметку вместе с вложением
// @Tags Notes
// @Produce json
// @Param uuid path string true "UUID заметки"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.MessageResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/notes/{uuid} [delete]
func (h *NoteHandler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	claims, err := security.GetClaimsFromContext(r.Context())
	if err != nil {
		sendErrorResponse(w, http.StatusUnauthorized, "не авторизован")
		return
	}

	if err := h.noteService.DeleteNote(r.Context(), chi.URLParam(r, "uuid"), claims.UserUUID); err != nil {
		h.handleNoteError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(requestresponse.MessageResponse{
		Message: "заметка удалена",
	})
}

// CreateAttachment godoc
// @Summary Загрузка вложения
// @Description Привязывает вложение к заметке и возвращает pre-signed PUT URL, по которому клиент загружает файл напрямую в S3
// @Tags Notes
// @Accept json
// @Produce json
// @Param uuid path string true "UUID заметки"
// @Param body body requestresponse.CreateAttachmentRequest true "Тело запроса"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 201 {object} requestresponse.AttachmentResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/notes/{uuid}/attachment [post]
func (h *NoteHandler) CreateAttachment(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	claims, err := security.GetClaimsFromContext(r.Context())
	if err != nil {
		sendErrorResponse(w, http.StatusUnauthorized, "не авторизован")
		return
	}

	var req requestresponse.CreateAttachmentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	if req.Filename == "" {
		sendErrorResponse(w, http.StatusBadRequest, "filename обязателен")
		return
	}

	putURL, err := h.noteService.CreateAttachment(r.Context(), chi.URLParam(r, "uuid"), claims.UserUUID, req.Filename, req.MimeType)
	if err != nil {
		h.handleNoteError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(requestresponse.AttachmentResponse{
		Filename: req.Filename,
		MimeType: req.MimeType,
		URL:      putURL,
	})
}

// GetAttachment godoc
// @Summary Скачивание вложения
// @Description Возвращает pre-signed GET URL вложения заметки
// @Tags Notes
// @Produce json
// @Param uuid path string true "UUID заметки"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.AttachmentResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/notes/{uuid}/attachment [get]
func (h *NoteHandler) GetAttachment(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	claims, err := security.GetClaimsFromContext(r.Context())
	if err != nil {
		sendErrorResponse(w, http.StatusUnauthorized, "не авторизован")
		return
	}

	note, getURL, err := h.noteService.GetAttachment(r.Context(), chi.URLParam(r, "uuid"), claims.UserUUID)
	if err != nil {
		h.handleNoteError(w, err)
		return
	}

	resp := requestresponse.AttachmentResponse{URL: getURL}
	if note.AttachmentFilename != nil {
		resp.Filename = *note.AttachmentFilename
	}
	if note.AttachmentMimeType != nil {
		resp.MimeType = *note.AttachmentMimeType
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

// DeleteAttachment godoc
// @Summary Удаление вложения
// @Description Удаляет вложение заметки из S3 и отвязывает его
// @Tags Notes
// @Produce json
// @Param uuid path string true "UUID заметки"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.MessageResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/notes/{uuid}/attachment [delete]
func (h *NoteHandler) DeleteAttachment(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	claims, err := security.GetClaimsFromContext(r.Context())
	if err != nil {
		sendErrorResponse(w, http.StatusUnauthorized, "не авторизован")
		return
	}

	if err := h.noteService.DeleteAttachment(r.Context(), chi.URLParam(r, "uuid"), claims.UserUUID); err != nil {
		h.handleNoteError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(requestresponse.MessageResponse{
		Message: "вложение удалено",
	})
}

func (h *NoteHandler) handleNoteError(w http.ResponseWriter, err error) {
	log.Println(err)
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		sendErrorResponse(w, http.StatusNotFound, "заметка не найдена")
	default:
		sendErrorResponse(w, http.StatusInternalServerError, "внутренняя ошибка сервера")
	}
}
