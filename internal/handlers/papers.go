package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/BerylCAtieno/paper-simplifier/internal/extractor"
	"github.com/BerylCAtieno/paper-simplifier/internal/middleware"
	"github.com/BerylCAtieno/paper-simplifier/internal/models"
	"github.com/BerylCAtieno/paper-simplifier/internal/services"
	"github.com/BerylCAtieno/paper-simplifier/internal/utils"
)

// multipartOverhead leaves room for boundaries and part headers on top of the file itself.
const multipartOverhead = 1 << 20

const maxChatBody = 50 << 20

type PaperHandler struct {
	service     services.PaperService
	logger      *utils.Logger
	maxFileSize int64
}

func NewPaperHandler(service services.PaperService, maxFileSize int64, logger *utils.Logger) *PaperHandler {
	return &PaperHandler{
		service:     service,
		logger:      logger,
		maxFileSize: maxFileSize,
	}
}

func (h *PaperHandler) ProcessPaper(w http.ResponseWriter, r *http.Request) {
	tooLarge := utils.NewBadRequestError(fmt.Sprintf("File size exceeds %dMB limit", h.maxFileSize>>20))

	if r.ContentLength > h.maxFileSize+multipartOverhead {
		h.respondError(w, r, tooLarge)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxFileSize+multipartOverhead)

	if err := r.ParseMultipartForm(h.maxFileSize); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.respondError(w, r, tooLarge)
			return
		}
		h.respondError(w, r, utils.NewBadRequestError("No file uploaded"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		h.respondError(w, r, utils.NewBadRequestError("No file uploaded"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxFileSize+1))
	if err != nil {
		h.respondError(w, r, utils.NewInternalError("Failed to read file"))
		return
	}
	if int64(len(data)) > h.maxFileSize {
		h.respondError(w, r, tooLarge)
		return
	}
	if len(data) == 0 {
		h.respondError(w, r, utils.NewBadRequestError("Uploaded file is empty"))
		return
	}

	contentType := extractor.DetectContentType(header.Filename, header.Header.Get("Content-Type"))
	h.logger.Info("Paper upload",
		"request_id", middleware.RequestIDFromContext(r.Context()),
		"filename", header.Filename,
		"size", len(data),
		"content_type", contentType)

	result, err := h.service.ProcessPaper(r.Context(), &models.UploadRequest{
		File:        data,
		Filename:    header.Filename,
		ContentType: contentType,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}

func (h *PaperHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxChatBody)).Decode(&req); err != nil {
		h.respondError(w, r, utils.NewBadRequestError("Invalid JSON body"))
		return
	}

	resp, err := h.service.Chat(r.Context(), &req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, resp)
}

func (h *PaperHandler) RecentPapers(w http.ResponseWriter, r *http.Request) {
	papers, err := h.service.RecentPapers(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, papers)
}

func (h *PaperHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, stats)
}

func (h *PaperHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.Categories(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, categories)
}

func (h *PaperHandler) PapersByCategory(w http.ResponseWriter, r *http.Request) {
	category := mux.Vars(r)["category"]
	if category == "" {
		h.respondError(w, r, utils.NewBadRequestError("Category is required"))
		return
	}

	papers, err := h.service.PapersByCategory(r.Context(), category)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, papers)
}

func (h *PaperHandler) QueueStatus(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, h.service.QueueStatus())
}

func (h *PaperHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode JSON response", "error", err)
	}
}

func (h *PaperHandler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := middleware.RequestIDFromContext(r.Context())

	if errors.Is(err, context.Canceled) {
		h.logger.Warn("Client disconnected", "request_id", requestID, "path", r.URL.Path)
		return
	}

	status := http.StatusInternalServerError
	message := "Internal server error"

	var appErr *utils.AppError
	if errors.As(err, &appErr) {
		status = appErr.StatusCode
		message = appErr.Message
	}

	h.logger.Error("Request error", "request_id", requestID, "status", status, "error", err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
