package handlers

import (
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/retinue-solutions/triage-engine/pkg/apperrors"
	"github.com/retinue-solutions/triage-engine/pkg/auth"
	"github.com/retinue-solutions/triage-engine/pkg/documents"
	"github.com/retinue-solutions/triage-engine/pkg/services"
	"github.com/retinue-solutions/triage-engine/pkg/validation"
)

// UploadFieldName is the multipart field carrying the document.
const UploadFieldName = "document"

// multipartOverhead allows for headers and boundaries around the file part.
const multipartOverhead = 64 << 10

// ChatMessageRequest is the body of POST /api/triage/{id}/chat.
type ChatMessageRequest struct {
	Message string `json:"message"`
}

// ChatHandler handles interview turns and document uploads.
type ChatHandler struct {
	chatService services.ChatService
	extractor   *documents.Extractor
	logger      *zap.Logger
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(chatService services.ChatService, extractor *documents.Extractor, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		extractor:   extractor,
		logger:      logger,
	}
}

// RegisterRoutes registers the chat handler's routes on the given mux.
func (h *ChatHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/triage/{id}/chat", h.SendMessage)
	mux.HandleFunc("POST /api/triage/{id}/upload-document", h.UploadDocument)
}

// SendMessage handles POST /api/triage/{id}/chat
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseTriageID(w, r, h.logger)
	if !ok {
		return
	}

	var body ChatMessageRequest
	if err := decodeBody(r, validation.ChatMessage, &body); err != nil {
		writeServiceError(w, h.logger, err, "Invalid request")
		return
	}

	result, err := h.chatService.SendMessage(r.Context(), auth.GetPrincipal(r.Context()), id, body.Message)
	if err != nil {
		writeServiceError(w, h.logger.With(zap.String("triage_id", id.String())), err, "Failed to process message")
		return
	}

	writeResult(w, h.logger, http.StatusOK, result)
}

// UploadDocument handles POST /api/triage/{id}/upload-document
// Expects multipart/form-data with the file in the "document" field.
func (h *ChatHandler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseTriageID(w, r, h.logger)
	if !ok {
		return
	}

	upload, err := h.readUpload(w, r)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to process document")
		return
	}

	result, err := h.chatService.UploadDocument(r.Context(), auth.GetPrincipal(r.Context()), id, upload)
	if err != nil {
		writeServiceError(w, h.logger.With(zap.String("triage_id", id.String())), err, "Failed to process document")
		return
	}

	writeResult(w, h.logger, http.StatusOK, result)
}

// readUpload pulls the document part out of a multipart request. Oversized
// bodies are cut off by MaxBytesReader before they are buffered.
func (h *ChatHandler) readUpload(w http.ResponseWriter, r *http.Request) (*documents.Upload, error) {
	limit := h.extractor.MaxBytes()
	r.Body = http.MaxBytesReader(w, r.Body, limit+multipartOverhead)

	if err := r.ParseMultipartForm(limit); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || r.ContentLength > limit+multipartOverhead {
			return nil, apperrors.UnsupportedMedia(h.extractor.TooLargeMessage())
		}
		return nil, apperrors.Validation(documents.MsgNoFile)
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile(UploadFieldName)
	if err != nil {
		return nil, apperrors.Validation(documents.MsgNoFile)
	}
	defer file.Close()

	if header.Size > limit {
		return nil, apperrors.UnsupportedMedia(h.extractor.TooLargeMessage())
	}

	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		return nil, apperrors.Internal("Failed to read uploaded file", err)
	}

	return &documents.Upload{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
