package mysql_test

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"loyalty_quiz/internal/domain"
	mysqlrepo "loyalty_quiz/internal/storage/mysql"
)

func newMock(t *testing.T) (*mysqlrepo.Repo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return mysqlrepo.New(db), mock
}

func TestRepo_UpsertRecords_NumbersRowsFromOffset(t *testing.T) {
	repo, mock := newMock(t)
	recs := []domain.HotelRecord{
		{Brand: "Courtyard", LoyaltyProgram: "Marriott Bonvoy", Region: "Europe", Country: "Germany"},
		{Brand: "Conrad", LoyaltyProgram: "Hilton Honors", Region: "Asia", Country: "Japan"},
	}
	mock.ExpectExec(`INSERT INTO hotel_records .* VALUES \(\?,\?,\?,\?,\?\),\(\?,\?,\?,\?,\?\) ON DUPLICATE KEY UPDATE`).
		WithArgs(100, "Courtyard", "Marriott Bonvoy", "Europe", "Germany", 101, "Conrad", "Hilton Honors", "Asia", "Japan").
		WillReturnResult(sqlmock.NewResult(0, 2))

	if err := repo.UpsertRecords(context.Background(), 100, recs); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestRepo_UpsertRecords_EmptyIsNoop(t *testing.T) {
	repo, mock := newMock(t)
	if err := repo.UpsertRecords(context.Background(), 0, nil); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestRepo_UpsertRecords_WrapsError(t *testing.T) {
	repo, mock := newMock(t)
	boom := errors.New("boom")
	mock.ExpectExec(`INSERT INTO hotel_records`).WillReturnError(boom)

	err := repo.UpsertRecords(context.Background(), 0, []domain.HotelRecord{{Brand: "x", LoyaltyProgram: "y"}})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped boom, got %v", err)
	}
}

func TestRepo_ListRecords_InRowOrder(t *testing.T) {
	repo, mock := newMock(t)
	rows := sqlmock.NewRows([]string{"brand", "loyalty_program", "region", "country"}).
		AddRow("Hilton", "Hilton Honors", "Europe", "UK").
		AddRow("ibis", "ALL - Accor Live Limitless", "Europe", "France")
	mock.ExpectQuery(`SELECT brand, loyalty_program, region, country\s+FROM hotel_records\s+ORDER BY row_no`).
		WillReturnRows(rows)

	ds, err := repo.ListRecords(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(ds) != 2 || ds[0].Brand != "Hilton" || ds[1].LoyaltyProgram != "ALL - Accor Live Limitless" {
		t.Fatalf("unexpected dataset: %+v", ds)
	}
}

func TestRepo_TrimAndCount(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectExec(`DELETE FROM hotel_records WHERE row_no >= \?`).WithArgs(42).WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM hotel_records`).WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(42))

	ctx := context.Background()
	if err := repo.TrimRecords(ctx, 42); err != nil {
		t.Fatalf("trim: %v", err)
	}
	n, err := repo.CountRecords(ctx)
	if err != nil || n != 42 {
		t.Fatalf("count: %d %v", n, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
