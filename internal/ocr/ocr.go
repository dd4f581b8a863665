// Package ocr turns receipt images into structured receipt data.
package ocr

import (
	"context"
	"errors"

	"github.com/digireceipt/digireceipt-go/internal/model"
)

var ErrEmptyImage = errors.New("image is empty")

// Extractor reads receipt fields out of raw image bytes. The result has the
// same shape as an addReceipt request so clients can post it back directly.
type Extractor interface {
	Extract(ctx context.Context, image []byte) (model.ReceiptRequest, error)
}
