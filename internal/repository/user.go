package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/digireceipt/digireceipt-go/internal/model"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicatePhone = errors.New("phone number already exists")
	ErrDuplicateEmail = errors.New("email already exists")
)

const userColumns = `id, phone_number, password_hash, email, guid, token, created_at, updated_at`

// UserRepository handles user persistence operations.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts the user together with its initial profile in one
// transaction and sets the generated ID on both.
func (r *UserRepository) Create(ctx context.Context, user *model.User, profile *model.Profile) error {
	return WithTx(ctx, r.db, func(ctx context.Context, tx DBTX) error {
		result, err := tx.ExecContext(ctx,
			`INSERT INTO users (phone_number, password_hash, email, guid) VALUES (?, ?, ?, ?)`,
			nullString(user.PhoneNumber), nullString(user.PasswordHash), nullString(user.Email), nullString(user.GUID),
		)
		if err != nil {
			return mapDuplicate(err)
		}

		id, err := result.LastInsertId()
		if err != nil {
			return err
		}
		user.ID = id
		profile.UserID = id

		return upsertProfile(ctx, tx, profile)
	})
}

// GetByID retrieves a user by their ID.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

// GetByPhone retrieves a user by their phone number.
func (r *UserRepository) GetByPhone(ctx context.Context, phone string) (*model.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE phone_number = ?`, phone)
}

// GetByEmail retrieves a user by their email address.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
}

// SetToken stores the user's active session token. A nil token clears it.
func (r *UserRepository) SetToken(ctx context.Context, id int64, token *string) error {
	return r.exec(ctx, `UPDATE users SET token = ? WHERE id = ?`, nullString(token), id)
}

// SetPassword replaces the user's password hash.
func (r *UserRepository) SetPassword(ctx context.Context, id int64, hash string) error {
	return r.exec(ctx, `UPDATE users SET password_hash = ? WHERE id = ?`, hash, id)
}

// SetPhone replaces the user's phone number.
func (r *UserRepository) SetPhone(ctx context.Context, id int64, phone string) error {
	return r.exec(ctx, `UPDATE users SET phone_number = ? WHERE id = ?`, phone, id)
}

// Delete removes the user with their profile, receipts and products in one
// transaction.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	return WithTx(ctx, r.db, func(ctx context.Context, tx DBTX) error {
		stmts := []string{
			`DELETE p FROM products p JOIN receipts r ON p.receipt_id = r.id WHERE r.user_id = ?`,
			`DELETE FROM receipts WHERE user_id = ?`,
			`DELETE FROM base_users WHERE user_id = ?`,
		}
		for _, q := range stmts {
			if _, err := tx.ExecContext(ctx, q, id); err != nil {
				return err
			}
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
		if err != nil {
			return err
		}
		n, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrUserNotFound
		}
		return nil
	})
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg any) (*model.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) exec(ctx context.Context, query string, args ...any) error {
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return mapDuplicate(err)
	}
	return nil
}

func scanUser(row *sql.Row) (*model.User, error) {
	var user model.User
	var phone, hash, email, guid, token sql.NullString
	err := row.Scan(&user.ID, &phone, &hash, &email, &guid, &token, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}

	user.PhoneNumber = stringPtr(phone)
	user.PasswordHash = stringPtr(hash)
	user.Email = stringPtr(email)
	user.GUID = stringPtr(guid)
	user.Token = stringPtr(token)
	return &user, nil
}

// mapDuplicate turns a MySQL duplicate-key error (1062) into the matching
// sentinel, based on the violated unique key.
func mapDuplicate(err error) error {
	var mysqlErr *mysql.MySQLError
	if !errors.As(err, &mysqlErr) || mysqlErr.Number != 1062 {
		return err
	}
	if strings.Contains(mysqlErr.Message, "uq_users_email") {
		return ErrDuplicateEmail
	}
	return ErrDuplicatePhone
}
