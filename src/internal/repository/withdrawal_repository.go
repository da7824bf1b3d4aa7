package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"shop-service/src/internal/entity"
	"shop-service/src/pkg/databases/mysql"
)

type WithdrawalRepository struct {
	DB mysql.DBInterface
}

func NewWithdrawalRepository(db mysql.DBInterface) *WithdrawalRepository {
	return &WithdrawalRepository{
		DB: db,
	}
}

func (r *WithdrawalRepository) Insert(ctx context.Context, w *entity.Withdrawal) error {
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}

	query := `INSERT INTO withdrawals (id, user_id, amount, status, created_at) VALUES (?, ?, ?, ?, ?)`
	_, err = db.ExecContext(ctx, query, w.ID, w.UserID, w.Amount, w.Status, w.CreatedAt)
	return err
}

func (r *WithdrawalRepository) FindByID(ctx context.Context, id string) (*entity.Withdrawal, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var w entity.Withdrawal
	query := `SELECT id, user_id, amount, status, created_at, processed_at FROM withdrawals WHERE id = ?`
	if err := db.GetContext(ctx, &w, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &w, nil
}

func (r *WithdrawalRepository) ListByUser(ctx context.Context, userID string) ([]entity.Withdrawal, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var withdrawals []entity.Withdrawal
	query := `SELECT id, user_id, amount, status, created_at, processed_at FROM withdrawals WHERE user_id = ? ORDER BY created_at DESC`
	if err := db.SelectContext(ctx, &withdrawals, query, userID); err != nil {
		return nil, err
	}
	return withdrawals, nil
}

func (r *WithdrawalRepository) ListByStatus(ctx context.Context, status string) ([]entity.Withdrawal, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var withdrawals []entity.Withdrawal
	query := `SELECT id, user_id, amount, status, created_at, processed_at FROM withdrawals WHERE status = ? ORDER BY created_at ASC`
	if err := db.SelectContext(ctx, &withdrawals, query, status); err != nil {
		return nil, err
	}
	return withdrawals, nil
}

// SumPendingByUser totals the amounts already reserved by pending requests.
func (r *WithdrawalRepository) SumPendingByUser(ctx context.Context, userID string) (float64, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return 0, err
	}

	var sum float64
	query := `SELECT COALESCE(SUM(amount), 0) FROM withdrawals WHERE user_id = ? AND status = ?`
	if err := db.GetContext(ctx, &sum, query, userID, entity.WithdrawalStatusPending); err != nil {
		return 0, err
	}
	return sum, nil
}

// TransitionTx flips a pending withdrawal to a terminal status in one
// conditional statement. At most one caller ever sees true.
func (r *WithdrawalRepository) TransitionTx(ctx context.Context, tx *sqlx.Tx, id, target string, processedAt time.Time) (bool, error) {
	query := `UPDATE withdrawals SET status = ?, processed_at = ? WHERE id = ? AND status = ?`
	result, err := tx.ExecContext(ctx, query, target, processedAt, id, entity.WithdrawalStatusPending)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	return affected > 0, err
}
