// Package sqlite stores image records in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"sleuth/internal/core/domain"
	"sleuth/internal/platform/errors"
	"sleuth/internal/platform/logx"
)

// ImageRepository implements ports.ImageRepository.
type ImageRepository struct {
	db     *sql.DB
	logger logx.Logger
}

// Open opens (creating if needed) the database at path and migrates it.
func Open(path string, logger logx.Logger) (*ImageRepository, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if err := Migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("database initialized", "path", path)
	return &ImageRepository{db: db, logger: logger.With("component", "image-repository")}, nil
}

// Close closes the database.
func (r *ImageRepository) Close() error { return r.db.Close() }

// Ping checks the connection.
func (r *ImageRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return errors.Wrap(errors.ErrServiceUnavailable, err.Error())
	}
	return nil
}

// Store inserts an image row and returns its id.
func (r *ImageRepository) Store(ctx context.Context, url, filename string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO images (url, filename, created_at) VALUES (?, ?, ?)`,
		url, filename, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to insert image: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read image id: %w", err)
	}
	r.logger.Debug("image stored", "id", id, "filename", filename)
	return id, nil
}

// Get returns the image with id.
func (r *ImageRepository) Get(ctx context.Context, id int64) (*domain.Image, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, url, filename, created_at FROM images WHERE id = ?`, id)
	img, err := scanImage(row)
	if err != nil {
		return nil, errors.Wrapf(err, "image %d", id)
	}
	return img, nil
}

// Latest returns the most recently stored image.
func (r *ImageRepository) Latest(ctx context.Context) (*domain.Image, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, url, filename, created_at FROM images ORDER BY id DESC LIMIT 1`)
	img, err := scanImage(row)
	if err != nil {
		return nil, errors.Wrap(err, "latest image")
	}
	return img, nil
}

// List returns a page of images, newest first, and the total row count.
func (r *ImageRepository) List(ctx context.Context, limit, offset int) ([]domain.Image, int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, url, filename, created_at FROM images ORDER BY id DESC LIMIT ? OFFSET ?`,
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query images: %w", err)
	}
	defer rows.Close()

	var images []domain.Image
	for rows.Next() {
		img, err := scanImage(rows)
		if err != nil {
			return nil, 0, err
		}
		images = append(images, *img)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate images: %w", err)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM images`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count images: %w", err)
	}
	return images, total, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanImage(s scanner) (*domain.Image, error) {
	var img domain.Image
	if err := s.Scan(&img.ID, &img.URL, &img.Filename, &img.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan image: %w", err)
	}
	return &img, nil
}
