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

type TeamRepository struct {
	DB mysql.DBInterface
}

func NewTeamRepository(db mysql.DBInterface) *TeamRepository {
	return &TeamRepository{
		DB: db,
	}
}

func (r *TeamRepository) Add(ctx context.Context, userID string) error {
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}

	query := `INSERT IGNORE INTO team_members (user_id, total_earned, withdrawn, created_at) VALUES (?, 0, 0, ?)`
	_, err = db.ExecContext(ctx, query, userID, time.Now())
	return err
}

func (r *TeamRepository) Remove(ctx context.Context, userID string) (bool, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return false, err
	}

	result, err := db.ExecContext(ctx, `DELETE FROM team_members WHERE user_id = ?`, userID)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	return affected > 0, err
}

func (r *TeamRepository) FindByID(ctx context.Context, userID string) (*entity.TeamMember, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var member entity.TeamMember
	query := `SELECT user_id, total_earned, withdrawn, created_at FROM team_members WHERE user_id = ?`
	if err := db.GetContext(ctx, &member, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &member, nil
}

func (r *TeamRepository) List(ctx context.Context) ([]entity.TeamMember, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var members []entity.TeamMember
	query := `SELECT user_id, total_earned, withdrawn, created_at FROM team_members ORDER BY created_at`
	if err := db.SelectContext(ctx, &members, query); err != nil {
		return nil, err
	}
	return members, nil
}

// CreditEarnedTx adds commission as a relative increment inside the paid
// transition's transaction. Zero rows affected means the referrer is not an
// active team member; the caller decides what that means.
func (r *TeamRepository) CreditEarnedTx(ctx context.Context, tx *sqlx.Tx, userID string, amount float64) (bool, error) {
	query := `UPDATE team_members SET total_earned = total_earned + ? WHERE user_id = ?`
	result, err := tx.ExecContext(ctx, query, amount, userID)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	return affected > 0, err
}

// AddWithdrawnTx moves the withdrawn counter with the invariant
// withdrawn <= total_earned enforced in the statement itself. Zero rows
// affected means the increment would overdraw and must abort the approval.
func (r *TeamRepository) AddWithdrawnTx(ctx context.Context, tx *sqlx.Tx, userID string, amount float64) (bool, error) {
	query := `UPDATE team_members SET withdrawn = withdrawn + ? WHERE user_id = ? AND withdrawn + ? <= total_earned`
	result, err := tx.ExecContext(ctx, query, amount, userID, amount)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	return affected > 0, err
}
