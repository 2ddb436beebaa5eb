package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/bookforge/internal/types"
)

// SaveBook stores a generated book. The insert is idempotent on the book ID:
// the pipeline is the sole ID authority, so a conflicting row means the same
// book was already stored and the write is a no-op.
func (db *DB) SaveBook(ctx context.Context, book *types.Book) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO books (id, topic, audience, style, tier, body, status, word_count, email, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (id) DO NOTHING`,
		book.ID, book.Topic, book.Audience, book.Style, string(book.Tier),
		book.Body, book.Status, book.WordCount, book.Email, book.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save book %s: %w", book.ID, err)
	}
	return nil
}

// GetBook retrieves a book by ID. Returns (nil, nil) if no such book exists.
func (db *DB) GetBook(ctx context.Context, id uuid.UUID) (*types.Book, error) {
	var book types.Book
	var tier string
	err := db.pool.QueryRow(ctx,
		`SELECT id, topic, audience, style, tier, body, status, word_count, email, created_at
		 FROM books WHERE id = $1`,
		id,
	).Scan(&book.ID, &book.Topic, &book.Audience, &book.Style, &tier,
		&book.Body, &book.Status, &book.WordCount, &book.Email, &book.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get book %s: %w", id, err)
	}
	book.Tier = types.Tier(tier)
	return &book, nil
}

// ListBooks returns the most recent books, newest first.
func (db *DB) ListBooks(ctx context.Context, limit int) ([]types.Book, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := db.pool.Query(ctx,
		`SELECT id, topic, audience, style, tier, body, status, word_count, email, created_at
		 FROM books ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	defer rows.Close()

	var books []types.Book
	for rows.Next() {
		var book types.Book
		var tier string
		if err := rows.Scan(&book.ID, &book.Topic, &book.Audience, &book.Style, &tier,
			&book.Body, &book.Status, &book.WordCount, &book.Email, &book.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan book row: %w", err)
		}
		book.Tier = types.Tier(tier)
		books = append(books, book)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read book rows: %w", err)
	}

	return books, nil
}
