package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"shop-service/src/internal/entity"
	"shop-service/src/pkg/databases/mysql"
)

type UserRepository struct {
	DB mysql.DBInterface
}

func NewUserRepository(db mysql.DBInterface) *UserRepository {
	return &UserRepository{
		DB: db,
	}
}

// EnsureUser is an idempotent create-if-absent keyed on the chat identity.
func (r *UserRepository) EnsureUser(ctx context.Context, userID, referralCode string) error {
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}

	query := `INSERT IGNORE INTO users (user_id, referral_code, balance, created_at) VALUES (?, ?, 0, ?)`
	_, err = db.ExecContext(ctx, query, userID, referralCode, time.Now())
	return err
}

func (r *UserRepository) FindByID(ctx context.Context, userID string) (*entity.User, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var user entity.User
	query := `SELECT user_id, city, referrer_id, referral_code, balance, created_at FROM users WHERE user_id = ?`
	if err := db.GetContext(ctx, &user, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByReferralCode(ctx context.Context, code string) (*entity.User, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var user entity.User
	query := `SELECT user_id, city, referrer_id, referral_code, balance, created_at FROM users WHERE referral_code = ?`
	if err := db.GetContext(ctx, &user, query, code); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// LinkReferrer sets the referrer only when none is recorded yet. The linkage
// is immutable: a second call is a no-op.
func (r *UserRepository) LinkReferrer(ctx context.Context, userID, referrerID string) (bool, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return false, err
	}

	query := `UPDATE users SET referrer_id = ? WHERE user_id = ? AND referrer_id IS NULL`
	result, err := db.ExecContext(ctx, query, referrerID, userID)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	return affected > 0, err
}

func (r *UserRepository) SetCity(ctx context.Context, userID, city string) error {
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `UPDATE users SET city = ? WHERE user_id = ?`, city, userID)
	return err
}

// AddBalance applies a relative increment. Negative amounts are allowed for
// operator adjustments only; user-facing debits go through DebitBalance.
func (r *UserRepository) AddBalance(ctx context.Context, userID string, amount float64) error {
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `UPDATE users SET balance = balance + ? WHERE user_id = ?`, amount, userID)
	return err
}

// DebitBalance decrements the balance only when it covers the amount in the
// same statement. Returns false when funds were insufficient.
func (r *UserRepository) DebitBalance(ctx context.Context, userID string, amount float64) (bool, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return false, err
	}

	query := `UPDATE users SET balance = balance - ? WHERE user_id = ? AND balance >= ?`
	result, err := db.ExecContext(ctx, query, amount, userID, amount)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	return affected > 0, err
}
