package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"shoemart/internal/model"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
)

// ErrNotConnected is returned when the repository has no open database
var ErrNotConnected = errors.New("database not connected")

// ErrProductNotFound is returned by updates that matched no product
var ErrProductNotFound = errors.New("product not found")

const productColumns = `id, name, COALESCE(description, '') AS description, price, category, COALESCE(image_url, '') AS image_url`

// PostgresRepository handles database operations
type PostgresRepository struct {
	db          *sqlx.DB
	pingTimeout time.Duration
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(dsn string, maxConn, maxIdleConn int) (*PostgresRepository, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute) // Shorter lifetime to avoid stale connections
	db.SetConnMaxIdleTime(2 * time.Minute) // Close idle connections sooner

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return NewPostgresRepositoryWithDB(db), nil
}

// NewPostgresRepositoryWithDB wraps an already opened connection pool
func NewPostgresRepositoryWithDB(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db, pingTimeout: 2 * time.Second}
}

// Close closes the database connection
func (r *PostgresRepository) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

// IsAvailable pings the database with a short timeout
func (r *PostgresRepository) IsAvailable(ctx context.Context) bool {
	if r.db == nil {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, r.pingTimeout)
	defer cancel()

	return r.db.PingContext(ctx) == nil
}

func (r *PostgresRepository) selectProducts(ctx context.Context, operation, query string, args ...interface{}) ([]model.Product, error) {
	if r.db == nil {
		return nil, ErrNotConnected
	}

	var products []model.Product
	if err := r.db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, fmt.Errorf("failed to %s: %w", operation, err)
	}
	return products, nil
}

// FetchAllProducts returns every product ordered by category and name
func (r *PostgresRepository) FetchAllProducts(ctx context.Context) ([]model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY category, name`
	return r.selectProducts(ctx, "fetch all products", query)
}

// FetchProductsByCategory returns products whose category contains category, case-insensitively
func (r *PostgresRepository) FetchProductsByCategory(ctx context.Context, category string) ([]model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE category ILIKE $1 ORDER BY name`
	return r.selectProducts(ctx, "fetch products by category", query, likePattern(category))
}

// SearchProductsByText returns products whose name or description contains term
func (r *PostgresRepository) SearchProductsByText(ctx context.Context, term string) ([]model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE name ILIKE $1 OR description ILIKE $1 ORDER BY name`
	return r.selectProducts(ctx, "search products", query, likePattern(term))
}

// FetchProductsByPriceRange returns products priced within [min, max].
// An infinite max leaves the range open-ended.
func (r *PostgresRepository) FetchProductsByPriceRange(ctx context.Context, min, max float64) ([]model.Product, error) {
	whereClauses := []string{"price >= $1"}
	args := []interface{}{min}

	if !math.IsInf(max, 1) {
		whereClauses = append(whereClauses, "price <= $2")
		args = append(args, max)
	}

	query := fmt.Sprintf(`SELECT %s FROM products WHERE %s ORDER BY price`,
		productColumns, strings.Join(whereClauses, " AND "))
	return r.selectProducts(ctx, "fetch products by price range", query, args...)
}

// FetchTopSellingProducts ranks products by units sold in completed orders
func (r *PostgresRepository) FetchTopSellingProducts(ctx context.Context, limit int) ([]model.PopularProduct, error) {
	if r.db == nil {
		return nil, ErrNotConnected
	}

	query := `
		SELECT p.id, p.name, p.category, p.price, SUM(oi.quantity) AS sold_count
		FROM products p
		JOIN order_items oi ON p.id = oi.product_id
		JOIN orders o ON oi.order_id = o.id
		WHERE o.status = 'Completed'
		GROUP BY p.id, p.name, p.category, p.price
		ORDER BY sold_count DESC, p.name
		LIMIT $1
	`
	var products []model.PopularProduct
	if err := r.db.SelectContext(ctx, &products, query, limit); err != nil {
		return nil, fmt.Errorf("failed to fetch top selling products: %w", err)
	}
	return products, nil
}

// FetchSalesStatistics aggregates units sold and revenue per category over completed orders
func (r *PostgresRepository) FetchSalesStatistics(ctx context.Context) ([]model.CategorySales, error) {
	if r.db == nil {
		return nil, ErrNotConnected
	}

	query := `
		SELECT p.category, SUM(oi.quantity) AS total_sold, SUM(oi.price * oi.quantity) AS revenue
		FROM order_items oi
		JOIN products p ON oi.product_id = p.id
		JOIN orders o ON oi.order_id = o.id
		WHERE o.status = 'Completed'
		GROUP BY p.category
		ORDER BY revenue DESC
	`
	var stats []model.CategorySales
	if err := r.db.SelectContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("failed to fetch sales statistics: %w", err)
	}
	return stats, nil
}

// FetchProductByID retrieves a single product, or nil when it does not exist
func (r *PostgresRepository) FetchProductByID(ctx context.Context, id int64) (*model.Product, error) {
	if r.db == nil {
		return nil, ErrNotConnected
	}

	var product model.Product
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	err := r.db.GetContext(ctx, &product, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &product, nil
}

// FetchSimilarProducts returns the products nearest to id by embedding distance.
// Products without an embedding are never returned, and none are when id has no embedding.
func (r *PostgresRepository) FetchSimilarProducts(ctx context.Context, id int64, limit int) ([]model.Product, error) {
	query := `
		WITH target AS (
			SELECT embedding FROM products WHERE id = $1 AND embedding IS NOT NULL
		)
		SELECT p.id, p.name, COALESCE(p.description, '') AS description, p.price, p.category,
			COALESCE(p.image_url, '') AS image_url
		FROM products p, target t
		WHERE p.id <> $1 AND p.embedding IS NOT NULL
		ORDER BY p.embedding <-> t.embedding
		LIMIT $2
	`
	return r.selectProducts(ctx, "fetch similar products", query, id, limit)
}

// UpdateProductEmbedding updates the embedding vector for a product
func (r *PostgresRepository) UpdateProductEmbedding(ctx context.Context, productID int64, embedding []float32) error {
	if r.db == nil {
		return ErrNotConnected
	}

	vec := pgvector.NewVector(embedding)
	query := `UPDATE products SET embedding = $1, updated_at = NOW() WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, vec, productID)
	if err != nil {
		return fmt.Errorf("failed to update embedding: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrProductNotFound
	}
	return nil
}

// BatchUpdateEmbeddings updates embeddings for multiple products in one transaction
func (r *PostgresRepository) BatchUpdateEmbeddings(ctx context.Context, items []model.EmbeddingItem) (int, []string) {
	success := 0
	var errs []string

	if r.db == nil {
		return 0, []string{ErrNotConnected.Error()}
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		errs = append(errs, fmt.Sprintf("failed to start transaction: %v", err))
		return success, errs
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx, `UPDATE products SET embedding = $1, updated_at = NOW() WHERE id = $2`)
	if err != nil {
		errs = append(errs, fmt.Sprintf("failed to prepare statement: %v", err))
		return success, errs
	}
	defer stmt.Close()

	// A failed statement aborts the whole transaction in Postgres, so every
	// item runs under its own savepoint and a failure only undoes that item.
	for _, item := range items {
		if _, err := tx.ExecContext(ctx, `SAVEPOINT embedding_item`); err != nil {
			errs = append(errs, fmt.Sprintf("failed to create savepoint: %v", err))
			return 0, errs
		}

		vec := pgvector.NewVector(item.Embedding)
		result, err := stmt.ExecContext(ctx, vec, item.ProductID)
		if err != nil {
			errs = append(errs, fmt.Sprintf("product_id %d: %v", item.ProductID, err))
			if _, err := tx.ExecContext(ctx, `ROLLBACK TO SAVEPOINT embedding_item`); err != nil {
				errs = append(errs, fmt.Sprintf("failed to roll back savepoint: %v", err))
				return 0, errs
			}
			continue
		}

		if _, err := tx.ExecContext(ctx, `RELEASE SAVEPOINT embedding_item`); err != nil {
			errs = append(errs, fmt.Sprintf("failed to release savepoint: %v", err))
			return 0, errs
		}
		if n, err := result.RowsAffected(); err == nil && n == 0 {
			errs = append(errs, fmt.Sprintf("product_id %d: not found", item.ProductID))
			continue
		}
		success++
	}

	if err := tx.Commit(); err != nil {
		errs = append(errs, fmt.Sprintf("failed to commit transaction: %v", err))
		return 0, errs
	}

	return success, errs
}

// LogChatTurn stores one finished conversation turn
func (r *PostgresRepository) LogChatTurn(ctx context.Context, entry *model.ChatLog) error {
	if r.db == nil {
		return ErrNotConnected
	}

	query := `
		INSERT INTO chat_logs (session_id, user_message, bot_reply, intent, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query, entry.SessionID, entry.UserMessage, entry.BotReply, string(entry.Intent), entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to log chat turn: %w", err)
	}
	return nil
}

// SeedProducts inserts products whose name is not in the table yet and
// returns how many were added
func (r *PostgresRepository) SeedProducts(ctx context.Context, products []model.Product) (int, error) {
	if r.db == nil {
		return 0, ErrNotConnected
	}

	query := `
		INSERT INTO products (name, description, price, category, image_url)
		SELECT $1::text, $2::text, $3::numeric, $4::text, NULLIF($5::text, '')
		WHERE NOT EXISTS (SELECT 1 FROM products WHERE name = $1)
	`

	inserted := 0
	for _, p := range products {
		result, err := r.db.ExecContext(ctx, query, p.Name, p.Description, p.Price, p.Category, p.ImageURL)
		if err != nil {
			return inserted, fmt.Errorf("failed to seed product %s: %w", p.Name, err)
		}
		if n, err := result.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}
	return inserted, nil
}

// likePattern wraps term for a substring ILIKE match, escaping LIKE wildcards
func likePattern(term string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + replacer.Replace(term) + "%"
}
