package users

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Francortiz-137/taskflow-backend/internal/common"
	"github.com/Francortiz-137/taskflow-backend/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func userColumns() []string {
	return []string{"id", "name", "email", "password_hash", "role", "created_at", "updated_at"}
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+users\b.*RETURNING\s+id,\s*created_at,\s*updated_at\s*$`

	now := time.Now()
	mock.ExpectQuery(q).
		WithArgs("Alice", "alice@test.com", "$2hash", "USER").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(42), now, now))

	u, err := repo.Create(context.Background(), &models.User{
		Name: "Alice", Email: "alice@test.com", PasswordHash: "$2hash", Role: models.RoleUser,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.ID != 42 {
		t.Fatalf("expected assigned id 42, got %d", u.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreate_DuplicateEmail(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+users\b`).
		WithArgs("Bob", "dup@test.com", "h", "USER").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := repo.Create(context.Background(), &models.User{
		Name: "Bob", Email: "dup@test.com", PasswordHash: "h", Role: models.RoleUser,
	})
	if !errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("want common.ErrorAlreadyExists, got %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+users\b`).
		WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.User{Role: models.RoleUser})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGetByEmail_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*name,\s*email,\s*password_hash,\s*role,\s*created_at,\s*updated_at\s+FROM\s+users\s+WHERE\s+email\s*=\s*\$1\s*$`

	now := time.Now()
	mock.ExpectQuery(q).
		WithArgs("alice@test.com").
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow(int64(42), "Alice", "alice@test.com", "$2hash", "ADMIN", now, now))

	got, err := repo.GetByEmail(context.Background(), "alice@test.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != 42 || got.Role != models.RoleAdmin {
		t.Fatalf("unexpected row: %+v", got)
	}
}

func TestGetByEmail_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\b.*FROM\s+users\s+WHERE\s+email`).
		WithArgs("ghost@test.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "ghost@test.com")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestGetByID_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\b.*FROM\s+users\s+WHERE\s+id\s*=\s*\$1\s*$`

	now := time.Now()
	mock.ExpectQuery(q).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow(int64(7), "Bob", "bob@test.com", "h", "USER", now, now))

	got, err := repo.GetByID(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Email != "bob@test.com" {
		t.Fatalf("unexpected row: %+v", got)
	}
}

func TestGetByID_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\b.*FROM\s+users\s+WHERE\s+id`).
		WithArgs(int64(7)).
		WillReturnError(errors.New("db err"))

	_, err := repo.GetByID(context.Background(), 7)
	if err == nil || !regexp.MustCompile(`db error: .*db err`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}
