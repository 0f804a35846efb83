package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)
)

// SQLiteSource reads the catalog from a SQLite database.
//
// Multi-valued fields (categories, tags, benefits, attributes) are stored as
// JSON text columns; the storefront's import job writes them that way.
type SQLiteSource struct {
	mu     sync.RWMutex
	db     *sql.DB
	closed bool
}

const schema = `
CREATE TABLE IF NOT EXISTS products (
	id             INTEGER PRIMARY KEY,
	name           TEXT NOT NULL,
	slug           TEXT NOT NULL,
	description    TEXT NOT NULL DEFAULT '',
	brand          TEXT NOT NULL DEFAULT '',
	price          REAL NOT NULL DEFAULT 0,
	categories     TEXT NOT NULL DEFAULT '[]',
	tags           TEXT NOT NULL DEFAULT '[]',
	attributes     TEXT NOT NULL DEFAULT '{}',
	benefits       TEXT NOT NULL DEFAULT '[]',
	average_rating REAL NOT NULL DEFAULT 0,
	review_count   INTEGER NOT NULL DEFAULT 0,
	in_stock       INTEGER NOT NULL DEFAULT 1,
	featured       INTEGER NOT NULL DEFAULT 0,
	updated_at     TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_products_updated_at ON products(updated_at);
`

// NewSQLiteSource opens (and if needed initializes) a catalog database.
func NewSQLiteSource(path string) (*SQLiteSource, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open catalog db: %w", err)
	}

	// WAL mode must be set via PRAGMA for modernc.org/sqlite.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create catalog schema: %w", err)
	}

	return &SQLiteSource{db: db}, nil
}

// GetAllProducts returns the full catalog, fetched in pages of pageSize
// ordered by product ID for deterministic snapshots.
func (s *SQLiteSource) GetAllProducts(ctx context.Context, pageSize int) ([]*Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, fmt.Errorf("catalog source is closed")
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	var products []*Product
	lastID := int64(-1)

	for {
		page, err := s.fetchPage(ctx, lastID, pageSize)
		if err != nil {
			return nil, err
		}
		products = append(products, page...)
		if len(page) < pageSize {
			return products, nil
		}
		lastID = page[len(page)-1].ID
	}
}

// GetProduct returns a single product by ID, or nil if absent.
func (s *SQLiteSource) GetProduct(ctx context.Context, id int64) (*Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, fmt.Errorf("catalog source is closed")
	}

	row := s.db.QueryRowContext(ctx, selectColumns+" FROM products WHERE id = ?", id)
	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return p, err
}

// SaveProducts inserts or replaces products. Used by the import/seed path and
// by tests; the search engine itself never writes.
func (s *SQLiteSource) SaveProducts(ctx context.Context, products []*Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("catalog source is closed")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO products
		(id, name, slug, description, brand, price, categories, tags, attributes,
		 benefits, average_rating, review_count, in_stock, featured, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range products {
		categories, _ := json.Marshal(p.Categories)
		tags, _ := json.Marshal(p.Tags)
		attributes, _ := json.Marshal(p.Attributes)
		benefits, _ := json.Marshal(p.Benefits)

		updatedAt := p.UpdatedAt
		if updatedAt.IsZero() {
			updatedAt = time.Now().UTC()
		}

		if _, err := stmt.ExecContext(ctx,
			p.ID, p.Name, p.Slug, p.Description, p.Brand, p.Price,
			string(categories), string(tags), string(attributes), string(benefits),
			p.AverageRating, p.ReviewCount, boolToInt(p.InStock), boolToInt(p.Featured),
			updatedAt.Format(time.RFC3339),
		); err != nil {
			return fmt.Errorf("insert product %d: %w", p.ID, err)
		}
	}

	return tx.Commit()
}

// Close releases the database handle.
func (s *SQLiteSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

const selectColumns = `SELECT id, name, slug, description, brand, price,
	categories, tags, attributes, benefits,
	average_rating, review_count, in_stock, featured, updated_at`

func (s *SQLiteSource) fetchPage(ctx context.Context, afterID int64, limit int) ([]*Product, error) {
	rows, err := s.db.QueryContext(ctx,
		selectColumns+" FROM products WHERE id > ? ORDER BY id ASC LIMIT ?",
		afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var page []*Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		page = append(page, p)
	}
	return page, rows.Err()
}

// scanner abstracts *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(row scanner) (*Product, error) {
	var (
		p                                     Product
		categories, tags, attributes, benefit string
		inStock, featured                     int
		updatedAt                             string
	)

	err := row.Scan(&p.ID, &p.Name, &p.Slug, &p.Description, &p.Brand, &p.Price,
		&categories, &tags, &attributes, &benefit,
		&p.AverageRating, &p.ReviewCount, &inStock, &featured, &updatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(categories), &p.Categories); err != nil {
		return nil, fmt.Errorf("product %d: decode categories: %w", p.ID, err)
	}
	if err := json.Unmarshal([]byte(tags), &p.Tags); err != nil {
		return nil, fmt.Errorf("product %d: decode tags: %w", p.ID, err)
	}
	if err := json.Unmarshal([]byte(attributes), &p.Attributes); err != nil {
		return nil, fmt.Errorf("product %d: decode attributes: %w", p.ID, err)
	}
	if err := json.Unmarshal([]byte(benefit), &p.Benefits); err != nil {
		return nil, fmt.Errorf("product %d: decode benefits: %w", p.ID, err)
	}
	if updatedAt != "" {
		p.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	}

	p.InStock = inStock != 0
	p.Featured = featured != 0
	return &p, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Verify interface implementation.
var _ Source = (*SQLiteSource)(nil)
