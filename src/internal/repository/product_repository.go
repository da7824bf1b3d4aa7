package repository

import (
	"context"
	"database/sql"
	"errors"

	"shop-service/src/internal/entity"
	"shop-service/src/pkg/databases/mysql"
)

type ProductRepository struct {
	DB mysql.DBInterface
}

func NewProductRepository(db mysql.DBInterface) *ProductRepository {
	return &ProductRepository{
		DB: db,
	}
}

func (r *ProductRepository) List(ctx context.Context) ([]entity.Product, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var products []entity.Product
	query := `SELECT id, name, price_per_gram FROM products ORDER BY id`
	if err := db.SelectContext(ctx, &products, query); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id int64) (*entity.Product, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var product entity.Product
	query := `SELECT id, name, price_per_gram FROM products WHERE id = ?`
	if err := db.GetContext(ctx, &product, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepository) Insert(ctx context.Context, name string, pricePerGram float64) (int64, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return 0, err
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO products (name, price_per_gram) VALUES (?, ?)`, name, pricePerGram)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (r *ProductRepository) Delete(ctx context.Context, id int64) (bool, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return false, err
	}

	result, err := db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	return affected > 0, err
}
