package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/digireceipt/digireceipt-go/internal/logging"
	"github.com/digireceipt/digireceipt-go/internal/model"
	"github.com/digireceipt/digireceipt-go/internal/service"
)

const (
	msgReceiptAdded   = "Fiş başarıyla eklendi"
	msgReceiptDeleted = "Fiş başarıyla silindi"
)

type ReceiptService interface {
	Count(ctx context.Context, userID int64) (int, error)
	FavoriteCount(ctx context.Context, userID int64) (int, error)
	List(ctx context.Context, userID int64) ([]model.ReceiptResponse, error)
	ListFavorites(ctx context.Context, userID int64) ([]model.ReceiptResponse, error)
	Add(ctx context.Context, userID int64, req model.ReceiptRequest) error
	ToggleFavorite(ctx context.Context, userID, receiptID int64) (bool, error)
	Delete(ctx context.Context, userID, receiptID int64) error
	Analyze(ctx context.Context, userID int64, prompt string) (string, error)
	ExtractReceipt(ctx context.Context, image []byte) (model.ReceiptRequest, error)
}

// ReceiptHandler serves the /api/Receipt endpoints.
type ReceiptHandler struct {
	service ReceiptService
	log     logging.Logger
}

func NewReceiptHandler(svc ReceiptService, log logging.Logger) *ReceiptHandler {
	return &ReceiptHandler{service: svc, log: log}
}

// HandleCount handles GET /api/Receipt/count.
func (h *ReceiptHandler) HandleCount(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	n, err := h.service.Count(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, model.ReceiptCountResponse{ReceiptCount: n})
}

// HandleFavoriteCount handles GET /api/Receipt/favCount.
func (h *ReceiptHandler) HandleFavoriteCount(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	n, err := h.service.FavoriteCount(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, model.FavoriteCountResponse{FavoriteCount: n})
}

// HandleList handles GET /api/Receipt/all.
func (h *ReceiptHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	receipts, err := h.service.List(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, receipts)
}

// HandleListFavorites handles GET /api/Receipt/getAllFav.
func (h *ReceiptHandler) HandleListFavorites(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	receipts, err := h.service.ListFavorites(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, receipts)
}

// HandleAdd handles POST /api/Receipt/addReceipt.
func (h *ReceiptHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req model.ReceiptRequest
	if !decodeJSON(w, r, maxJSONBody, &req) {
		return
	}

	if err := h.service.Add(r.Context(), user.ID, req); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, model.MessageResponse{Message: msgReceiptAdded})
}

// HandleToggleFavorite handles POST /api/Receipt/toggleFavorite/{id}.
func (h *ReceiptHandler) HandleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := receiptID(w, r)
	if !ok {
		return
	}

	favorite, err := h.service.ToggleFavorite(r.Context(), user.ID, id)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, model.FavoriteResponse{Favorite: favorite})
}

// HandleDelete handles DELETE /api/Receipt/delete/{id}.
func (h *ReceiptHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := receiptID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), user.ID, id); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, model.MessageResponse{Message: msgReceiptDeleted})
}

// HandleAnalyze handles POST /api/Receipt/gpt.
func (h *ReceiptHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req model.AnalysisRequest
	if !decodeJSON(w, r, maxJSONBody, &req) {
		return
	}

	answer, err := h.service.Analyze(r.Context(), user.ID, req.Prompt)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, model.AnalysisResponse{Analysis: answer})
}

// HandleOCR handles POST /api/Receipt/ocr. The first file part of the
// multipart body is the receipt image.
func (h *ReceiptHandler) HandleOCR(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)

	image, err := firstFile(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse(msgBodyTooLarge))
			return
		}
		writeError(w, r, h.log, service.ErrImageRequired)
		return
	}

	data, err := h.service.ExtractReceipt(r.Context(), image)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

var errNoFile = errors.New("no file part")

func firstFile(r *http.Request) ([]byte, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, err
	}

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			return nil, errNoFile
		}
		if err != nil {
			return nil, err
		}
		if part.FileName() == "" {
			part.Close()
			continue
		}

		data, err := io.ReadAll(part)
		part.Close()
		return data, err
	}
}

func receiptID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse(msgBadRequest))
		return 0, false
	}
	return id, true
}
