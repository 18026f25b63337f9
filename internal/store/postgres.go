package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"salespulse/internal/models"
)

// fetchLimit caps the all-time scan, newest first, matching the
// transactional system's export view.
const fetchLimit = 1000

// Postgres reads the sales_transactions table. It never writes: the engine
// treats records as immutable once created by the system of record.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	db.SetMaxIdleConns(8)
	db.SetMaxOpenConns(30)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 6*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return &Postgres{db: db}, nil
}

func (s *Postgres) Close() error {
	return s.db.Close()
}

const selectColumns = `
	transaction_id, date, time, store_id, location, product, quantity,
	unit_price, payment_type, cashier, store_manager, time_of_day,
	day_of_week, total_price`

func (s *Postgres) FetchAll(ctx context.Context) ([]models.TransactionRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+selectColumns+`
		FROM sales_transactions
		ORDER BY date DESC
		LIMIT $1
	`, fetchLimit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

func (s *Postgres) FetchByDateRange(ctx context.Context, startInclusive, endExclusive time.Time) ([]models.TransactionRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+selectColumns+`
		FROM sales_transactions
		WHERE date >= $1 AND date < $2
		ORDER BY date DESC
	`, startInclusive, endExclusive)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

func scanRecords(rows *sql.Rows) ([]models.TransactionRecord, error) {
	records := make([]models.TransactionRecord, 0, 128)
	for rows.Next() {
		var r models.TransactionRecord
		if err := rows.Scan(
			&r.TransactionID,
			&r.Date,
			&r.Time,
			&r.StoreID,
			&r.Location,
			&r.Product,
			&r.Quantity,
			&r.UnitPrice,
			&r.PaymentType,
			&r.Cashier,
			&r.StoreManager,
			&r.TimeOfDay,
			&r.DayOfWeek,
			&r.TotalPrice,
		); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return records, nil
}
