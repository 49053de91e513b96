package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"vision_runner/internal/models"
)

type PostSQLite struct {
	db *sql.DB
}

func NewPostSQLite(db *sql.DB) *PostSQLite {
	return &PostSQLite{db: db}
}

var _ PostRepo = (*PostSQLite)(nil)

const (
	insertPostSQL = `INSERT INTO posts (content, author_id, created_at) VALUES (?, ?, ?)`

	selectPostsWithAuthorSQL = `
		SELECT p.id, p.content, p.author_id, p.created_at, u.id, u.username, u.email
		FROM posts p
		JOIN users u ON u.id = p.author_id
		ORDER BY p.created_at DESC, p.id DESC
	`

	updatePostSQL     = `UPDATE posts SET content = ? WHERE id = ?`
	selectPostByIDSQL = `SELECT id, content, author_id, created_at FROM posts WHERE id = ?`
	deletePostSQL     = `DELETE FROM posts WHERE id = ?`
)

// Create inserts a post for authorID. An unknown author fails on the foreign key.
func (r *PostSQLite) Create(ctx context.Context, authorID int, content string) (models.Post, error) {
	createdAt := nowUTC()
	res, err := r.db.ExecContext(ctx, insertPostSQL, content, authorID, createdAt)
	if err != nil {
		return models.Post{}, fmt.Errorf("insert post for author %d: %w", authorID, err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return models.Post{}, fmt.Errorf("get last insert id for post: %w", err)
	}
	return models.Post{
		ID:        int(lastID),
		Content:   content,
		AuthorID:  authorID,
		CreatedAt: createdAt,
	}, nil
}

// List returns all posts with their author, newest first.
func (r *PostSQLite) List(ctx context.Context) ([]models.Post, error) {
	rows, err := r.db.QueryContext(ctx, selectPostsWithAuthorSQL)
	if err != nil {
		return nil, fmt.Errorf("select posts: %w", err)
	}
	defer rows.Close()

	out := make([]models.Post, 0, 32)
	for rows.Next() {
		var (
			p      models.Post
			author models.User
		)
		if err := rows.Scan(&p.ID, &p.Content, &p.AuthorID, &p.CreatedAt,
			&author.ID, &author.Username, &author.Email); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		p.CreatedAt = p.CreatedAt.UTC()
		p.Author = &author
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate posts: %w", err)
	}
	return out, nil
}

// Update replaces the content of post id. Returns ErrNotFound if it does not exist.
func (r *PostSQLite) Update(ctx context.Context, id int, content string) (models.Post, error) {
	if err := execAffectingOne(ctx, r.db, updatePostSQL, "update post", id, content, id); err != nil {
		return models.Post{}, err
	}

	var p models.Post
	err := r.db.QueryRowContext(ctx, selectPostByIDSQL, id).
		Scan(&p.ID, &p.Content, &p.AuthorID, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Post{}, fmt.Errorf("reload post %d: %w", id, ErrNotFound)
		}
		return models.Post{}, fmt.Errorf("reload post %d: %w", id, err)
	}
	p.CreatedAt = p.CreatedAt.UTC()
	return p, nil
}

// Delete removes post id. Returns ErrNotFound if it does not exist.
func (r *PostSQLite) Delete(ctx context.Context, id int) error {
	return execAffectingOne(ctx, r.db, deletePostSQL, "delete post", id, id)
}

// execAffectingOne runs a statement targeting row id and maps "no rows affected" to ErrNotFound.
func execAffectingOne(ctx context.Context, db *sql.DB, query, op string, id int, args ...any) error {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s %d: %w", op, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s %d: rows affected: %w", op, id, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", op, id, ErrNotFound)
	}
	return nil
}
