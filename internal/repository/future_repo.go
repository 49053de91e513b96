package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"vision_runner/internal/models"
)

type FutureSQLite struct {
	db *sql.DB
}

func NewFutureSQLite(db *sql.DB) *FutureSQLite {
	return &FutureSQLite{db: db}
}

var _ FutureRepo = (*FutureSQLite)(nil)

const (
	insertFutureSQL     = `INSERT INTO futures (content, created_at) VALUES (?, ?)`
	selectFuturesSQL    = `SELECT id, content, created_at FROM futures ORDER BY created_at DESC, id DESC`
	updateFutureSQL     = `UPDATE futures SET content = ? WHERE id = ?`
	selectFutureByIDSQL = `SELECT id, content, created_at FROM futures WHERE id = ?`
	deleteFutureSQL     = `DELETE FROM futures WHERE id = ?`
)

func (r *FutureSQLite) Create(ctx context.Context, content string) (models.Future, error) {
	createdAt := nowUTC()
	res, err := r.db.ExecContext(ctx, insertFutureSQL, content, createdAt)
	if err != nil {
		return models.Future{}, fmt.Errorf("insert future: %w", err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return models.Future{}, fmt.Errorf("get last insert id for future: %w", err)
	}
	return models.Future{ID: int(lastID), Content: content, CreatedAt: createdAt}, nil
}

// List returns all futures, newest first.
func (r *FutureSQLite) List(ctx context.Context) ([]models.Future, error) {
	rows, err := r.db.QueryContext(ctx, selectFuturesSQL)
	if err != nil {
		return nil, fmt.Errorf("select futures: %w", err)
	}
	defer rows.Close()

	out := make([]models.Future, 0, 32)
	for rows.Next() {
		var f models.Future
		if err := rows.Scan(&f.ID, &f.Content, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan future: %w", err)
		}
		f.CreatedAt = f.CreatedAt.UTC()
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate futures: %w", err)
	}
	return out, nil
}

func (r *FutureSQLite) Update(ctx context.Context, id int, content string) (models.Future, error) {
	if err := execAffectingOne(ctx, r.db, updateFutureSQL, "update future", id, content, id); err != nil {
		return models.Future{}, err
	}

	var f models.Future
	err := r.db.QueryRowContext(ctx, selectFutureByIDSQL, id).Scan(&f.ID, &f.Content, &f.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Future{}, fmt.Errorf("reload future %d: %w", id, ErrNotFound)
		}
		return models.Future{}, fmt.Errorf("reload future %d: %w", id, err)
	}
	f.CreatedAt = f.CreatedAt.UTC()
	return f, nil
}

func (r *FutureSQLite) Delete(ctx context.Context, id int) error {
	return execAffectingOne(ctx, r.db, deleteFutureSQL, "delete future", id, id)
}
