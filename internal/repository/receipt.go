package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/digireceipt/digireceipt-go/internal/model"
)

var ErrReceiptNotFound = errors.New("receipt not found")

const receiptColumns = `id, user_id, date_time, total_quantity, market_name, market_branch, favorite, created_at, updated_at`

// ReceiptRepository persists receipts and their products.
type ReceiptRepository struct {
	db *sql.DB
}

// NewReceiptRepository creates a new ReceiptRepository.
func NewReceiptRepository(db *sql.DB) *ReceiptRepository {
	return &ReceiptRepository{db: db}
}

// Create inserts the receipt and all of its products in one transaction and
// sets the generated IDs.
func (r *ReceiptRepository) Create(ctx context.Context, receipt *model.Receipt) error {
	return WithTx(ctx, r.db, func(ctx context.Context, tx DBTX) error {
		result, err := tx.ExecContext(ctx,
			`INSERT INTO receipts (user_id, date_time, total_quantity, market_name, market_branch, favorite) VALUES (?, ?, ?, ?, ?, ?)`,
			receipt.UserID, receipt.DateTime, receipt.TotalQuantity, receipt.MarketName, receipt.MarketBranch, receipt.Favorite,
		)
		if err != nil {
			return err
		}

		id, err := result.LastInsertId()
		if err != nil {
			return err
		}
		receipt.ID = id

		for i := range receipt.Products {
			p := &receipt.Products[i]
			p.ReceiptID = id

			res, err := tx.ExecContext(ctx,
				`INSERT INTO products (receipt_id, product_name, product_piece, kdv_rate) VALUES (?, ?, ?, ?)`,
				id, p.Name, p.Piece, p.KdvRate,
			)
			if err != nil {
				return err
			}
			if p.ID, err = res.LastInsertId(); err != nil {
				return err
			}
		}
		return nil
	})
}

// CountByUser returns how many receipts the user owns.
func (r *ReceiptRepository) CountByUser(ctx context.Context, userID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM receipts WHERE user_id = ?`, userID).Scan(&n)
	return n, err
}

// CountFavorites returns how many of the user's receipts are favorites.
func (r *ReceiptRepository) CountFavorites(ctx context.Context, userID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM receipts WHERE user_id = ? AND favorite = TRUE`, userID).Scan(&n)
	return n, err
}

// ListByUser returns the user's receipts ordered by id, each with its
// products ordered by id.
func (r *ReceiptRepository) ListByUser(ctx context.Context, userID int64, favoritesOnly bool) ([]model.Receipt, error) {
	filter := ` WHERE user_id = ?`
	if favoritesOnly {
		filter += ` AND favorite = TRUE`
	}

	rows, err := r.db.QueryContext(ctx, `SELECT `+receiptColumns+` FROM receipts`+filter+` ORDER BY id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	receipts := []model.Receipt{}
	index := make(map[int64]int)
	for rows.Next() {
		var rc model.Receipt
		if err := rows.Scan(
			&rc.ID, &rc.UserID, &rc.DateTime, &rc.TotalQuantity, &rc.MarketName,
			&rc.MarketBranch, &rc.Favorite, &rc.CreatedAt, &rc.UpdatedAt,
		); err != nil {
			return nil, err
		}
		rc.Products = []model.Product{}
		index[rc.ID] = len(receipts)
		receipts = append(receipts, rc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(receipts) == 0 {
		return receipts, nil
	}

	productQuery := `SELECT p.id, p.receipt_id, p.product_name, p.product_piece, p.kdv_rate, p.created_at, p.updated_at
		FROM products p JOIN receipts r ON p.receipt_id = r.id WHERE r.user_id = ?`
	if favoritesOnly {
		productQuery += ` AND r.favorite = TRUE`
	}
	productQuery += ` ORDER BY p.id`

	prows, err := r.db.QueryContext(ctx, productQuery, userID)
	if err != nil {
		return nil, err
	}
	defer prows.Close()

	for prows.Next() {
		var p model.Product
		if err := prows.Scan(&p.ID, &p.ReceiptID, &p.Name, &p.Piece, &p.KdvRate, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		if i, ok := index[p.ReceiptID]; ok {
			receipts[i].Products = append(receipts[i].Products, p)
		}
	}
	if err := prows.Err(); err != nil {
		return nil, err
	}

	return receipts, nil
}

// GetByID retrieves a receipt without its products.
func (r *ReceiptRepository) GetByID(ctx context.Context, id int64) (*model.Receipt, error) {
	var rc model.Receipt
	err := r.db.QueryRowContext(ctx, `SELECT `+receiptColumns+` FROM receipts WHERE id = ?`, id).Scan(
		&rc.ID, &rc.UserID, &rc.DateTime, &rc.TotalQuantity, &rc.MarketName,
		&rc.MarketBranch, &rc.Favorite, &rc.CreatedAt, &rc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReceiptNotFound
		}
		return nil, err
	}
	return &rc, nil
}

// SetFavorite updates the favorite flag of a receipt.
func (r *ReceiptRepository) SetFavorite(ctx context.Context, id int64, favorite bool) error {
	_, err := r.db.ExecContext(ctx, `UPDATE receipts SET favorite = ? WHERE id = ?`, favorite, id)
	return err
}

// Delete removes a receipt and its products in one transaction.
func (r *ReceiptRepository) Delete(ctx context.Context, id int64) error {
	return WithTx(ctx, r.db, func(ctx context.Context, tx DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM products WHERE receipt_id = ?`, id); err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM receipts WHERE id = ?`, id)
		if err != nil {
			return err
		}
		n, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrReceiptNotFound
		}
		return nil
	})
}
