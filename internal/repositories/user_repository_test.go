package repositories

import (
	"context"
	"testing"
	"time"

	"helpdesk/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestUserListWithEmailPredicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectQuery("SELECT COUNT").
		WithArgs("a@b.c").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("ORDER BY u.created DESC, u.id DESC LIMIT").
		WithArgs("a@b.c", 50, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "created", "updated"}).
			AddRow(4, "Ana", "a@b.c", created, created))

	users, total, err := UserRepository{DB: db}.List(context.Background(), "a@b.c", 50, 0)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if total != 1 || len(users) != 1 || users[0].Email != "a@b.c" {
		t.Fatalf("total=%d users=%+v", total, users)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("WHERE u.id").
		WithArgs(int64(77)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	if _, err := (UserRepository{DB: db}).GetByID(context.Background(), 77); !domain.IsNotFound(err) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}
