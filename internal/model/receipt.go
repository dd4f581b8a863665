package model

import "time"

type Receipt struct {
	ID            int64
	UserID        int64
	DateTime      time.Time
	TotalQuantity int
	MarketName    string
	MarketBranch  string
	Favorite      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Products      []Product
}

type Product struct {
	ID        int64
	ReceiptID int64
	Name      string
	Piece     int
	KdvRate   float64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ReceiptRequest is both the addReceipt body and the OCR result.
type ReceiptRequest struct {
	MarketName    string           `json:"marketName"`
	MarketBranch  string           `json:"marketBranch"`
	DateTime      Timestamp        `json:"dateTime"`
	TotalQuantity int              `json:"totalQuantity"`
	Favorite      bool             `json:"favorite"`
	Products      []ProductRequest `json:"products"`
}

type ProductRequest struct {
	ProductName  string  `json:"productName"`
	ProductPiece int     `json:"productPiece"`
	KdvRate      float64 `json:"kdvRate"`
}

type ReceiptResponse struct {
	ReceiptID     int64             `json:"receiptId"`
	DateTime      Timestamp         `json:"dateTime"`
	TotalQuantity int               `json:"totalQuantity"`
	MarketName    string            `json:"marketName"`
	MarketBranch  string            `json:"marketBranch"`
	Favorite      bool              `json:"favorite"`
	Products      []ProductResponse `json:"products"`
}

type ProductResponse struct {
	ItemID       int64   `json:"itemId"`
	ProductName  string  `json:"productName"`
	ProductPiece int     `json:"productPiece"`
	KdvRate      float64 `json:"kdvRate"`
}

type ReceiptCountResponse struct {
	ReceiptCount int `json:"receiptCount"`
}

type FavoriteCountResponse struct {
	FavoriteCount int `json:"favoriteCount"`
}

type FavoriteResponse struct {
	Favorite bool `json:"favorite"`
}

type AnalysisRequest struct {
	Prompt string `json:"prompt"`
}

type AnalysisResponse struct {
	Analysis string `json:"analysis"`
}
