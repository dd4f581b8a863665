package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/digireceipt/digireceipt-go/internal/model"
)

var ErrProfileNotFound = errors.New("profile not found")

// ProfileRepository persists the base_users rows.
type ProfileRepository struct {
	db *sql.DB
}

// NewProfileRepository creates a new ProfileRepository.
func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Get retrieves the profile of a user.
func (r *ProfileRepository) Get(ctx context.Context, userID int64) (*model.Profile, error) {
	query := `SELECT user_id, name, surname, email, gender, birth_date, profile_image FROM base_users WHERE user_id = ?`

	var (
		p     model.Profile
		birth sql.NullTime
		image sql.NullString
	)
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&p.UserID, &p.Name, &p.Surname, &p.Email, &p.Gender, &birth, &image,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	if birth.Valid {
		p.BirthDate = model.NewTimestamp(birth.Time)
	}
	p.ProfileImage = image.String
	return &p, nil
}

// Save creates or replaces the profile and copies its email onto the user
// row in one transaction.
func (r *ProfileRepository) Save(ctx context.Context, p *model.Profile) error {
	return WithTx(ctx, r.db, func(ctx context.Context, tx DBTX) error {
		if err := upsertProfile(ctx, tx, p); err != nil {
			return err
		}

		_, err := tx.ExecContext(ctx, `UPDATE users SET email = ? WHERE id = ?`, nullString(&p.Email), p.UserID)
		if err != nil {
			return mapDuplicate(err)
		}
		return nil
	})
}

func upsertProfile(ctx context.Context, tx DBTX, p *model.Profile) error {
	query := `INSERT INTO base_users (user_id, name, surname, email, gender, birth_date, profile_image)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE name = VALUES(name), surname = VALUES(surname), email = VALUES(email),
			gender = VALUES(gender), birth_date = VALUES(birth_date), profile_image = VALUES(profile_image)`

	var birth sql.NullTime
	if !p.BirthDate.IsZero() {
		birth = sql.NullTime{Time: p.BirthDate.Time, Valid: true}
	}

	_, err := tx.ExecContext(ctx, query,
		p.UserID, p.Name, p.Surname, p.Email, p.Gender, birth, nullString(&p.ProfileImage),
	)
	return err
}
