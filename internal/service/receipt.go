package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/digireceipt/digireceipt-go/internal/analysis"
	"github.com/digireceipt/digireceipt-go/internal/logging"
	"github.com/digireceipt/digireceipt-go/internal/model"
	"github.com/digireceipt/digireceipt-go/internal/ocr"
	"github.com/digireceipt/digireceipt-go/internal/repository"
	"github.com/digireceipt/digireceipt-go/internal/storage"
)

var errAnalyzerDisabled = errors.New("analysis provider is not configured")

type ReceiptStore interface {
	Create(ctx context.Context, receipt *model.Receipt) error
	CountByUser(ctx context.Context, userID int64) (int, error)
	CountFavorites(ctx context.Context, userID int64) (int, error)
	ListByUser(ctx context.Context, userID int64, favoritesOnly bool) ([]model.Receipt, error)
	GetByID(ctx context.Context, id int64) (*model.Receipt, error)
	SetFavorite(ctx context.Context, id int64, favorite bool) error
	Delete(ctx context.Context, id int64) error
}

// ReceiptOptions holds the optional collaborators of ReceiptService. A nil
// Analyzer disables analysis; a nil Archive skips image archiving.
type ReceiptOptions struct {
	Analyzer  analysis.Analyzer
	Extractor ocr.Extractor
	Archive   storage.Archive
	// StrictOwnership scopes toggle and delete to the caller's receipts.
	StrictOwnership bool
}

// ReceiptService handles receipt storage, queries, OCR and analysis.
type ReceiptService struct {
	receipts  ReceiptStore
	analyzer  analysis.Analyzer
	extractor ocr.Extractor
	archive   storage.Archive
	strict    bool
	log       logging.Logger
	now       func() time.Time
}

func NewReceiptService(receipts ReceiptStore, opts ReceiptOptions, log logging.Logger) *ReceiptService {
	return &ReceiptService{
		receipts:  receipts,
		analyzer:  opts.Analyzer,
		extractor: opts.Extractor,
		archive:   opts.Archive,
		strict:    opts.StrictOwnership,
		log:       log,
		now:       time.Now,
	}
}

func (s *ReceiptService) Count(ctx context.Context, userID int64) (int, error) {
	return s.receipts.CountByUser(ctx, userID)
}

func (s *ReceiptService) FavoriteCount(ctx context.Context, userID int64) (int, error) {
	return s.receipts.CountFavorites(ctx, userID)
}

// List returns all of the user's receipts with their products.
func (s *ReceiptService) List(ctx context.Context, userID int64) ([]model.ReceiptResponse, error) {
	return s.list(ctx, userID, false)
}

// ListFavorites returns the user's favorite receipts with their products.
func (s *ReceiptService) ListFavorites(ctx context.Context, userID int64) ([]model.ReceiptResponse, error) {
	return s.list(ctx, userID, true)
}

func (s *ReceiptService) list(ctx context.Context, userID int64, favoritesOnly bool) ([]model.ReceiptResponse, error) {
	receipts, err := s.receipts.ListByUser(ctx, userID, favoritesOnly)
	if err != nil {
		return nil, err
	}

	out := make([]model.ReceiptResponse, 0, len(receipts))
	for _, r := range receipts {
		out = append(out, toReceiptResponse(r))
	}
	return out, nil
}

// Add stores a receipt with its products for the user.
func (s *ReceiptService) Add(ctx context.Context, userID int64, req model.ReceiptRequest) error {
	receipt := &model.Receipt{
		UserID:        userID,
		DateTime:      req.DateTime.Time,
		TotalQuantity: req.TotalQuantity,
		MarketName:    req.MarketName,
		MarketBranch:  req.MarketBranch,
		Favorite:      req.Favorite,
		Products:      make([]model.Product, 0, len(req.Products)),
	}
	for _, p := range req.Products {
		receipt.Products = append(receipt.Products, model.Product{
			Name:    p.ProductName,
			Piece:   p.ProductPiece,
			KdvRate: p.KdvRate,
		})
	}

	if err := s.receipts.Create(ctx, receipt); err != nil {
		return err
	}

	s.log.Info(ctx, "receipt added", "user_id", userID, "receipt_id", receipt.ID, "products", len(receipt.Products))
	return nil
}

// ToggleFavorite flips the favorite flag and returns the new value.
func (s *ReceiptService) ToggleFavorite(ctx context.Context, userID, receiptID int64) (bool, error) {
	receipt, err := s.lookup(ctx, userID, receiptID)
	if err != nil {
		return false, err
	}

	favorite := !receipt.Favorite
	if err := s.receipts.SetFavorite(ctx, receipt.ID, favorite); err != nil {
		return false, err
	}
	return favorite, nil
}

// Delete removes a receipt and its products.
func (s *ReceiptService) Delete(ctx context.Context, userID, receiptID int64) error {
	receipt, err := s.lookup(ctx, userID, receiptID)
	if err != nil {
		return err
	}

	if err := s.receipts.Delete(ctx, receipt.ID); err != nil {
		if errors.Is(err, repository.ErrReceiptNotFound) {
			return ErrReceiptNotFound
		}
		return err
	}

	s.log.Info(ctx, "receipt deleted", "user_id", userID, "receipt_id", receipt.ID)
	return nil
}

// lookup finds a receipt by id. Unless strict ownership is on, any user's
// receipt matches.
func (s *ReceiptService) lookup(ctx context.Context, userID, receiptID int64) (*model.Receipt, error) {
	receipt, err := s.receipts.GetByID(ctx, receiptID)
	if err != nil {
		if errors.Is(err, repository.ErrReceiptNotFound) {
			return nil, ErrReceiptNotFound
		}
		return nil, err
	}

	if receipt.UserID != userID {
		if s.strict {
			return nil, ErrReceiptNotFound
		}
		s.log.Warn(ctx, "receipt accessed by non-owner", "user_id", userID, "receipt_id", receiptID)
	}
	return receipt, nil
}

// Analyze answers prompt using all of the user's receipts as context.
func (s *ReceiptService) Analyze(ctx context.Context, userID int64, prompt string) (string, error) {
	if prompt == "" {
		return "", ErrPromptRequired
	}
	if s.analyzer == nil {
		return "", fmt.Errorf("%w: %w", ErrAnalysisFailed, errAnalyzerDisabled)
	}

	receipts, err := s.receipts.ListByUser(ctx, userID, false)
	if err != nil {
		return "", err
	}

	answer, err := s.analyzer.Analyze(ctx, prompt, receipts)
	if err != nil {
		return "", providerError(ErrAnalysisFailed, err)
	}
	return answer, nil
}

// ExtractReceipt reads receipt fields from an image. The image is archived
// first when an archive is configured; archive failures are only logged.
func (s *ReceiptService) ExtractReceipt(ctx context.Context, image []byte) (model.ReceiptRequest, error) {
	if len(image) == 0 {
		return model.ReceiptRequest{}, ErrImageRequired
	}

	if s.archive != nil {
		key := storage.ReceiptImageKey(s.now())
		if err := s.archive.Put(ctx, key, image, http.DetectContentType(image)); err != nil {
			s.log.Warn(ctx, "receipt image archive failed", "key", key, "error", err)
		}
	}

	data, err := s.extractor.Extract(ctx, image)
	if err != nil {
		if errors.Is(err, ocr.ErrEmptyImage) {
			return model.ReceiptRequest{}, ErrImageRequired
		}
		return model.ReceiptRequest{}, providerError(ErrOCRFailed, err)
	}
	if data.Products == nil {
		data.Products = []model.ProductRequest{}
	}
	return data, nil
}

func toReceiptResponse(r model.Receipt) model.ReceiptResponse {
	products := make([]model.ProductResponse, 0, len(r.Products))
	for _, p := range r.Products {
		products = append(products, model.ProductResponse{
			ItemID:       p.ID,
			ProductName:  p.Name,
			ProductPiece: p.Piece,
			KdvRate:      p.KdvRate,
		})
	}

	return model.ReceiptResponse{
		ReceiptID:     r.ID,
		DateTime:      model.NewTimestamp(r.DateTime),
		TotalQuantity: r.TotalQuantity,
		MarketName:    r.MarketName,
		MarketBranch:  r.MarketBranch,
		Favorite:      r.Favorite,
		Products:      products,
	}
}
