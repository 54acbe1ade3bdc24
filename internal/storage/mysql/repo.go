package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"loyalty_quiz/internal/domain"
)

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// UpsertRecords writes recs as rows firstRow, firstRow+1, ... in one statement.
func (r *Repo) UpsertRecords(ctx context.Context, firstRow int, recs []domain.HotelRecord) error {
	if len(recs) == 0 {
		return nil
	}
	values := make([]string, 0, len(recs))
	args := make([]any, 0, len(recs)*5)
	for i, rec := range recs {
		values = append(values, "(?,?,?,?,?)")
		args = append(args, firstRow+i, rec.Brand, rec.LoyaltyProgram, rec.Region, rec.Country)
	}
	sqlStr := upsertRecordsPrefix + strings.Join(values, ",") + upsertRecordsOnDup
	if _, err := r.db.ExecContext(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("upsert rows %d..%d: %w", firstRow, firstRow+len(recs)-1, err)
	}
	return nil
}

// TrimRecords deletes every row numbered keep or above.
func (r *Repo) TrimRecords(ctx context.Context, keep int) error {
	_, err := r.db.ExecContext(ctx, trimRecordsSQL, keep)
	return err
}

func (r *Repo) ListRecords(ctx context.Context) (domain.Dataset, error) {
	rows, err := r.db.QueryContext(ctx, listRecordsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out domain.Dataset
	for rows.Next() {
		var rec domain.HotelRecord
		if err := rows.Scan(&rec.Brand, &rec.LoyaltyProgram, &rec.Region, &rec.Country); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *Repo) CountRecords(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, countRecordsSQL).Scan(&n)
	return n, err
}
