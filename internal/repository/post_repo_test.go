package repository

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

// fixClock pins nowUTC for the duration of a test. Tests using it must not run in parallel.
func fixClock(t *testing.T, at time.Time) {
	t.Helper()
	prev := nowUTC
	nowUTC = func() time.Time { return at }
	t.Cleanup(func() { nowUTC = prev })
}

func TestPostSQLite_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer db.Close()

	at := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	fixClock(t, at)

	mock.ExpectExec(regexp.QuoteMeta(insertPostSQL)).
		WithArgs("run a marathon", 1, at).
		WillReturnResult(sqlmock.NewResult(5, 1))

	p, err := NewPostSQLite(db).Create(ctx(t), 1, "run a marathon")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if p.ID != 5 || p.AuthorID != 1 || p.Content != "run a marathon" || !p.CreatedAt.Equal(at) {
		t.Fatalf("unexpected post: %+v", p)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostSQLite_Create_ForeignKeyError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(insertPostSQL)).
		WithArgs("x", 99, sqlmock.AnyArg()).
		WillReturnError(errors.New("FOREIGN KEY constraint failed"))

	if _, err := NewPostSQLite(db).Create(ctx(t), 99, "x"); err == nil {
		t.Fatalf("Create() expected error, got nil")
	}
}

func TestPostSQLite_List_JoinsAuthor(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer db.Close()

	newer := time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC)
	older := newer.Add(-time.Hour)
	rows := sqlmock.NewRows([]string{"id", "content", "author_id", "created_at", "id", "username", "email"}).
		AddRow(2, "b", 1, newer, 1, "alice", "alice@example.com").
		AddRow(1, "a", 1, older, 1, "alice", "alice@example.com")

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY p.created_at DESC, p.id DESC")).WillReturnRows(rows)

	posts, err := NewPostSQLite(db).List(ctx(t))
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(posts) != 2 || posts[0].ID != 2 || posts[1].ID != 1 {
		t.Fatalf("unexpected order: %+v", posts)
	}
	if posts[0].Author == nil || posts[0].Author.Username != "alice" || posts[0].Author.PasswordHash != "" {
		t.Fatalf("author not joined correctly: %+v", posts[0].Author)
	}
}

func TestPostSQLite_List_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT p.id").WillReturnError(errors.New("db down"))

	if _, err := NewPostSQLite(db).List(ctx(t)); err == nil {
		t.Fatalf("List() expected error, got nil")
	}
}

func TestPostSQLite_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer db.Close()

	at := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta(updatePostSQL)).
		WithArgs("new", 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(selectPostByIDSQL)).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"id", "content", "author_id", "created_at"}).AddRow(3, "new", 1, at))

	p, err := NewPostSQLite(db).Update(ctx(t), 3, "new")
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if p.ID != 3 || p.Content != "new" || !p.CreatedAt.Equal(at) {
		t.Fatalf("unexpected post: %+v", p)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostSQLite_UpdateAndDelete_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer db.Close()

	repo := NewPostSQLite(db)

	mock.ExpectExec(regexp.QuoteMeta(updatePostSQL)).
		WithArgs("new", 404).
		WillReturnResult(sqlmock.NewResult(0, 0))
	if _, err := repo.Update(ctx(t), 404, "new"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Update() expected ErrNotFound, got %v", err)
	}

	mock.ExpectExec(regexp.QuoteMeta(deletePostSQL)).
		WithArgs(404).
		WillReturnResult(sqlmock.NewResult(0, 0))
	if err := repo.Delete(ctx(t), 404); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Delete() expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostSQLite_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(deletePostSQL)).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := NewPostSQLite(db).Delete(ctx(t), 7); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
