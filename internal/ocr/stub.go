package ocr

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/digireceipt/digireceipt-go/internal/model"
)

var (
	stubMarkets  = []string{"Bim", "A101", "Migros", "Carrefour"}
	stubBranches = []string{"Bulvar Şubesi", "Merkez Şubesi", "Sahil Şubesi", "Çarşı Şubesi"}
	stubProducts = []string{"Çikolata", "Yoğurt", "Makarna", "Ekmek", "Süt", "Peynir", "Zeytin", "Su"}
)

// StubExtractor returns plausible random receipts without looking at the
// image. It backs the OCR endpoint until a real provider is configured.
type StubExtractor struct {
	mu  sync.Mutex
	rnd *rand.Rand
	now func() time.Time
}

func NewStubExtractor(seed uint64) *StubExtractor {
	return &StubExtractor{
		rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		now: time.Now,
	}
}

func (s *StubExtractor) Extract(ctx context.Context, image []byte) (model.ReceiptRequest, error) {
	if len(image) == 0 {
		return model.ReceiptRequest{}, ErrEmptyImage
	}
	if err := ctx.Err(); err != nil {
		return model.ReceiptRequest{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// between returns an int in [lo, hi).
	between := func(lo, hi int) int { return lo + s.rnd.IntN(hi-lo) }

	count := between(1, 6)
	products := make([]model.ProductRequest, 0, count)
	for i := 0; i < count; i++ {
		products = append(products, model.ProductRequest{
			ProductName:  stubProducts[s.rnd.IntN(len(stubProducts))],
			ProductPiece: between(1, 10),
			KdvRate:      float64(between(1, 20)),
		})
	}

	return model.ReceiptRequest{
		MarketName:    stubMarkets[s.rnd.IntN(len(stubMarkets))],
		MarketBranch:  stubBranches[s.rnd.IntN(len(stubBranches))],
		DateTime:      model.NewTimestamp(s.now()),
		TotalQuantity: between(1, 200),
		Products:      products,
	}, nil
}
