package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	driver "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"shop-service/src/internal/entity"
	"shop-service/src/pkg/databases/mysql"
)

// ErrDuplicateOrderID signals a token collision on insert; the caller
// regenerates the token and retries, never reusing or overwriting.
var ErrDuplicateOrderID = errors.New("duplicate order id")

const mysqlErrDuplicateEntry = 1062

type OrderRepository struct {
	DB mysql.DBInterface
}

func NewOrderRepository(db mysql.DBInterface) *OrderRepository {
	return &OrderRepository{
		DB: db,
	}
}

func (r *OrderRepository) Insert(ctx context.Context, order *entity.Order) error {
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}

	query := `
		INSERT INTO orders (order_id, user_id, referrer_id, product_name, unit_price, weight, total, city, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = db.ExecContext(ctx, query,
		order.OrderID, order.UserID, order.ReferrerID, order.ProductName,
		order.UnitPrice, order.Weight, order.Total, order.City, order.Status, order.CreatedAt,
	)
	var mysqlErr *driver.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlErrDuplicateEntry {
		return ErrDuplicateOrderID
	}
	return err
}

func (r *OrderRepository) FindByID(ctx context.Context, orderID string) (*entity.Order, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}
	return findOrderByID(ctx, db, orderID)
}

// FindByIDTx reads an order inside an open transaction, after the
// conditional status update has claimed it.
func (r *OrderRepository) FindByIDTx(ctx context.Context, tx *sqlx.Tx, orderID string) (*entity.Order, error) {
	return findOrderByID(ctx, tx, orderID)
}

func findOrderByID(ctx context.Context, q sqlx.QueryerContext, orderID string) (*entity.Order, error) {
	var order entity.Order
	query := `
		SELECT order_id, user_id, referrer_id, product_name, unit_price, weight, total, city, status, created_at, processed_at
		FROM orders WHERE order_id = ?
	`
	if err := sqlx.GetContext(ctx, q, &order, query, orderID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]entity.Order, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var orders []entity.Order
	query := `
		SELECT order_id, user_id, referrer_id, product_name, unit_price, weight, total, city, status, created_at, processed_at
		FROM orders WHERE user_id = ? ORDER BY created_at DESC
	`
	if err := db.SelectContext(ctx, &orders, query, userID); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *OrderRepository) ListByStatus(ctx context.Context, status string) ([]entity.Order, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var orders []entity.Order
	query := `
		SELECT order_id, user_id, referrer_id, product_name, unit_price, weight, total, city, status, created_at, processed_at
		FROM orders WHERE status = ? ORDER BY created_at ASC
	`
	if err := db.SelectContext(ctx, &orders, query, status); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *OrderRepository) ListUserIDs(ctx context.Context) ([]string, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var userIDs []string
	if err := db.SelectContext(ctx, &userIDs, `SELECT DISTINCT user_id FROM orders ORDER BY user_id`); err != nil {
		return nil, err
	}
	return userIDs, nil
}

// TransitionTx is the compare-and-swap at the center of the ledger: the
// status flips only if it is still pending, in one statement. Zero rows
// affected means another caller already claimed the order.
func (r *OrderRepository) TransitionTx(ctx context.Context, tx *sqlx.Tx, orderID, target string, processedAt time.Time) (bool, error) {
	query := `UPDATE orders SET status = ?, processed_at = ? WHERE order_id = ? AND status = ?`
	result, err := tx.ExecContext(ctx, query, target, processedAt, orderID, entity.OrderStatusPending)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	return affected > 0, err
}
