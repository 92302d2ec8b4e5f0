package store

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/catalog"
	"storefront/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Store reads catalog records from postgres. The storefront loads the
// catalog once at startup; nothing here writes.
type Store struct {
	db *sqlx.DB
}

type categoryRow struct {
	Name          string         `db:"name"`
	Subcategories pq.StringArray `db:"subcategories"`
}

// NewStore creates a new database store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *Store) GetDB() *sqlx.DB {
	return s.db
}

// GetProducts retrieves all products in display order
func (s *Store) GetProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := s.db.SelectContext(ctx, &products, `
		SELECT id, name, price, original_price, discount, rating, image,
		       category, subcategory, COALESCE(description, '') AS description
		FROM products
		ORDER BY position, id`)
	return products, err
}

// GetCategories retrieves the category taxonomy in display order
func (s *Store) GetCategories(ctx context.Context) ([]models.Category, error) {
	var rows []categoryRow
	err := s.db.SelectContext(ctx, &rows,
		"SELECT name, subcategories FROM categories ORDER BY position, name")
	if err != nil {
		return nil, err
	}

	categories := make([]models.Category, len(rows))
	for i, r := range rows {
		categories[i] = models.Category{Name: r.Name, Subcategories: []string(r.Subcategories)}
	}
	return categories, nil
}

// LoadCatalog reads products and categories into an immutable catalog
func (s *Store) LoadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	products, err := s.GetProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	categories, err := s.GetCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}

	return catalog.New(products, categories)
}
