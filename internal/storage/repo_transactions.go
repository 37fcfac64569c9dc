package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/denis-severinov/expenso-go/internal/domain"
	"github.com/denis-severinov/expenso-go/internal/stream"
)

// TransactionsRepo persists transactions and publishes the current calendar
// day's records on a replay-latest stream after every successful mutation.
// The category is denormalized onto the row, so a transaction keeps its
// category label even after that category is deleted.
type TransactionsRepo struct {
	db     *sql.DB
	source *stream.Source[[]domain.Transaction]
	now    func() time.Time
}

func NewTransactionsRepo(ctx context.Context, db *sql.DB) (*TransactionsRepo, error) {
	r := &TransactionsRepo{
		db:     db,
		source: stream.NewSource[[]domain.Transaction](),
		now:    time.Now,
	}
	if err := r.refresh(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

// TodayTransactions is the repository's push stream, scoped to the current
// calendar day. New subscribers receive the latest snapshot immediately.
func (r *TransactionsRepo) TodayTransactions() *stream.Source[[]domain.Transaction] {
	return r.source
}

func (r *TransactionsRepo) Add(ctx context.Context, t domain.Transaction) (domain.Transaction, error) {
	if t.AmountCents <= 0 {
		return domain.Transaction{}, fmt.Errorf("transaction amount must be positive, got %d", t.AmountCents)
	}
	if t.ID == "" {
		t.ID = domain.NewID()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = r.now()
	}
	if _, err := r.db.ExecContext(
		ctx,
		`INSERT INTO transactions (id, amount_cents, created_at, category_id, category_name, comment)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID,
		t.AmountCents,
		t.CreatedAt.UTC().Format(time.RFC3339),
		t.Category.ID,
		t.Category.Name,
		t.Comment,
	); err != nil {
		return domain.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}
	if err := r.refresh(ctx); err != nil {
		return domain.Transaction{}, err
	}
	return t, nil
}

func (r *TransactionsRepo) Update(ctx context.Context, t domain.Transaction) error {
	if _, err := r.db.ExecContext(
		ctx,
		`UPDATE transactions
		 SET amount_cents = ?, created_at = ?, category_id = ?, category_name = ?, comment = ?
		 WHERE id = ?`,
		t.AmountCents,
		t.CreatedAt.UTC().Format(time.RFC3339),
		t.Category.ID,
		t.Category.Name,
		t.Comment,
		t.ID,
	); err != nil {
		return fmt.Errorf("update transaction %q: %w", t.ID, err)
	}
	return r.refresh(ctx)
}

// Delete removes a transaction. Deleting an already-absent row is a no-op.
func (r *TransactionsRepo) Delete(ctx context.Context, t domain.Transaction) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, t.ID); err != nil {
		return fmt.Errorf("delete transaction %q: %w", t.ID, err)
	}
	return r.refresh(ctx)
}

func (r *TransactionsRepo) refresh(ctx context.Context) error {
	dayStart, dayEnd := todayBounds(r.now)

	rows, err := r.db.QueryContext(
		ctx,
		`SELECT id, amount_cents, created_at, category_id, category_name, comment
		 FROM transactions
		 WHERE created_at >= ? AND created_at < ?
		 ORDER BY created_at, id`,
		dayStart.UTC().Format(time.RFC3339),
		dayEnd.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("query today transactions: %w", err)
	}
	defer rows.Close()

	var out []domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		var createdAt string
		if err := rows.Scan(&t.ID, &t.AmountCents, &createdAt, &t.Category.ID, &t.Category.Name, &t.Comment); err != nil {
			return fmt.Errorf("scan transaction: %w", err)
		}
		parsed, err := time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return fmt.Errorf("parse transaction %q created_at: %w", t.ID, err)
		}
		t.CreatedAt = parsed.Local()
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate today transactions: %w", err)
	}

	r.source.Publish(out)
	return nil
}

func todayBounds(now func() time.Time) (time.Time, time.Time) {
	n := now().Local()
	start := time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, n.Location())
	return start, start.AddDate(0, 0, 1)
}
