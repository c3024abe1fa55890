// Package sqlite stores the gallery catalogue in a local SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/roomstyler/backend/internal/domain"
)

const selectColumns = `id, public_id, url, original_filename, width, height, format, bytes, design_data, created_at`

// GalleryRepository is the SQLite implementation of domain.GalleryRepository
type GalleryRepository struct {
	db *sql.DB
}

// NewGalleryRepository opens (creating if needed) the catalogue at dbPath
func NewGalleryRepository(dbPath string) (*GalleryRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	repo := &GalleryRepository{db: db}
	if err := repo.initTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database tables: %w", err)
	}

	return repo, nil
}

func (r *GalleryRepository) initTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS images (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			public_id TEXT NOT NULL,
			url TEXT NOT NULL,
			original_filename TEXT,
			width INTEGER,
			height INTEGER,
			format TEXT,
			bytes INTEGER,
			design_data TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_images_created_at ON images (created_at DESC)`,
	}
	for _, query := range queries {
		if _, err := r.db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute SQL: %s, error: %w", query, err)
		}
	}

	// Catalogues created before designs were attached lack this column.
	// The error for an existing column is ignored.
	_, _ = r.db.Exec(`ALTER TABLE images ADD COLUMN design_data TEXT`)

	return nil
}

// Close closes the underlying database
func (r *GalleryRepository) Close() error {
	return r.db.Close()
}

// Insert stores a record and returns its id
func (r *GalleryRepository) Insert(ctx context.Context, image *domain.GalleryImage) (int64, error) {
	if image.CreatedAt.IsZero() {
		image.CreatedAt = time.Now().UTC()
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO images (public_id, url, original_filename, width, height, format, bytes, design_data, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		image.PublicID, image.URL,
		nullString(image.OriginalFilename), image.Width, image.Height,
		nullString(image.Format), image.Bytes,
		nullString(image.DesignData), image.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert image: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read inserted id: %w", err)
	}
	image.ID = id
	return id, nil
}

// List returns records newest first
func (r *GalleryRepository) List(ctx context.Context, limit, offset int) ([]domain.GalleryImage, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+selectColumns+` FROM images ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	defer rows.Close()

	images := []domain.GalleryImage{}
	for rows.Next() {
		image, err := scanImage(rows)
		if err != nil {
			return nil, err
		}
		images = append(images, *image)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate images: %w", err)
	}
	return images, nil
}

// Count returns the number of records
func (r *GalleryRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM images`).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count images: %w", err)
	}
	return total, nil
}

// FindByID returns one record or ErrNotFound
func (r *GalleryRepository) FindByID(ctx context.Context, id int64) (*domain.GalleryImage, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM images WHERE id = ?`, id)
	image, err := scanImage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: image %d", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return image, nil
}

// Delete removes one record or returns ErrNotFound
func (r *GalleryRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM images WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: image %d", domain.ErrNotFound, id)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanImage(s scanner) (*domain.GalleryImage, error) {
	var (
		image            domain.GalleryImage
		originalFilename sql.NullString
		width, height    sql.NullInt64
		format           sql.NullString
		bytes            sql.NullInt64
		designData       sql.NullString
		createdAt        sql.NullTime
	)
	err := s.Scan(&image.ID, &image.PublicID, &image.URL, &originalFilename,
		&width, &height, &format, &bytes, &designData, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan image: %w", err)
	}

	image.OriginalFilename = originalFilename.String
	image.Width = int(width.Int64)
	image.Height = int(height.Int64)
	image.Format = format.String
	image.Bytes = int(bytes.Int64)
	image.DesignData = designData.String
	image.CreatedAt = createdAt.Time
	return &image, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
