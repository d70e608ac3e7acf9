package repositories

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestNumberingConfigDefaults(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("FROM ost_config").
		WillReturnRows(sqlmock.NewRows([]string{"key", "value"}))

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	cfg, err := SequenceRepository{}.NumberingConfig(context.Background(), tx)
	if err != nil {
		t.Fatalf("NumberingConfig error: %v", err)
	}
	if cfg.SequenceID != 1 || cfg.Format != "%SEQ" {
		t.Fatalf("defaults = %+v, want id=1 format=%%SEQ", cfg)
	}
}

func TestNumberingConfigFromRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("FROM ost_config").
		WillReturnRows(sqlmock.NewRows([]string{"key", "value"}).
			AddRow("ticket_sequence_id", "4").
			AddRow("ticket_number_format", "GCE-######"))

	tx, _ := db.Begin()
	cfg, err := SequenceRepository{}.NumberingConfig(context.Background(), tx)
	if err != nil {
		t.Fatalf("NumberingConfig error: %v", err)
	}
	if cfg.SequenceID != 4 || cfg.Format != "GCE-######" {
		t.Fatalf("config = %+v", cfg)
	}
}

func TestSequenceNameFallback(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("FROM ost_sequence WHERE").
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"name"}))

	tx, _ := db.Begin()
	name, err := SequenceRepository{}.SequenceName(context.Background(), tx, 9)
	if err != nil {
		t.Fatalf("SequenceName error: %v", err)
	}
	if name != "ticket_number" {
		t.Fatalf("name = %q, want ticket_number fallback", name)
	}
}

func TestNextValueSingleAtomicStatement(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	// advance and read are one statement; the post-increment value rides
	// back on the exec result
	mock.ExpectExec("UPDATE ost_sequence SET next").
		WithArgs("ticket_number").
		WillReturnResult(sqlmock.NewResult(42, 1))

	tx, _ := db.Begin()
	value, err := SequenceRepository{}.NextValue(context.Background(), tx, "ticket_number")
	if err != nil {
		t.Fatalf("NextValue error: %v", err)
	}
	if value != 42 {
		t.Fatalf("value = %d, want 42", value)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
