package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/todobabyrio/todobaby_api/internal/models"
)

const productColumns = `id, name, sku, description, category, subcategory, price, stock, status,
        images, colors, sizes, material, tags, hashtags, badge, created_at, updated_at`

// ProductRepository handles data access for the products table.
type ProductRepository struct {
	db *sqlx.DB
}

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// GetAll returns every product ordered by id, inactive ones included.
func (r *ProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	products := []models.Product{}
	if err := r.db.SelectContext(ctx, &products, `SELECT `+productColumns+` FROM products ORDER BY id ASC`); err != nil {
		return nil, err
	}
	return products, nil
}

// GetByID returns a single product by id. It returns sql.ErrNoRows when absent.
func (r *ProductRepository) GetByID(ctx context.Context, id int) (*models.Product, error) {
	var p models.Product
	if err := r.db.GetContext(ctx, &p, `SELECT `+productColumns+` FROM products WHERE id = $1 LIMIT 1`, id); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a product and fills in id and timestamps.
func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	const q = `
        INSERT INTO products (name, sku, description, category, subcategory, price, stock, status,
                              images, colors, sizes, material, tags, hashtags, badge)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
        RETURNING id, created_at, updated_at`

	return r.db.QueryRowxContext(ctx, q,
		p.Name, p.SKU, p.Description, p.Category, p.Subcategory, p.Price, p.Stock, p.Status,
		p.Images, p.Colors, p.Sizes, p.Material, p.Tags, p.Hashtags, p.Badge,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

// Update overwrites every writable column of the product with p.ID.
// It returns sql.ErrNoRows when no row matched.
func (r *ProductRepository) Update(ctx context.Context, p *models.Product) error {
	const q = `
        UPDATE products SET
            name = $2, sku = $3, description = $4, category = $5, subcategory = $6,
            price = $7, stock = $8, status = $9, images = $10, colors = $11, sizes = $12,
            material = $13, tags = $14, hashtags = $15, badge = $16, updated_at = NOW()
        WHERE id = $1
        RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, q,
		p.ID, p.Name, p.SKU, p.Description, p.Category, p.Subcategory, p.Price, p.Stock, p.Status,
		p.Images, p.Colors, p.Sizes, p.Material, p.Tags, p.Hashtags, p.Badge,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return sql.ErrNoRows
	}
	return err
}

// Delete removes the product with id. It returns sql.ErrNoRows when no row matched.
func (r *ProductRepository) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Count returns the number of products.
func (r *ProductRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, `SELECT COUNT(1) FROM products`)
	return n, err
}
