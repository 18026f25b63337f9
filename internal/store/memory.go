package store

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"salespulse/internal/models"
)

const (
	csvBatchSize  = 10000
	csvMaxWorkers = 10
	csvColumns    = 14
)

// Memory is an in-memory RecordStore, loadable from a CSV export. It backs
// local development and tests; production deployments use Postgres.
type Memory struct {
	mu      sync.RWMutex
	records []models.TransactionRecord
	logger  *slog.Logger
}

func NewMemory(logger *slog.Logger) *Memory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Memory{logger: logger}
}

// SetRecords replaces the full record set.
func (m *Memory) SetRecords(records []models.TransactionRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = records
}

func (m *Memory) FetchAll(ctx context.Context) ([]models.TransactionRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.TransactionRecord, len(m.records))
	copy(out, m.records)
	return out, nil
}

func (m *Memory) FetchByDateRange(ctx context.Context, startInclusive, endExclusive time.Time) ([]models.TransactionRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.TransactionRecord, 0, len(m.records))
	for _, r := range m.records {
		// Half-open interval on the calendar date only.
		if !r.Date.Before(startInclusive) && r.Date.Before(endExclusive) {
			out = append(out, r)
		}
	}
	return out, nil
}

// LoadCSV streams a transaction export into memory, parsing lines in
// batches across a bounded worker group. Malformed lines are skipped; a file
// with no valid records is an error.
func (m *Memory) LoadCSV(ctx context.Context, filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	start := time.Now()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 1024*1024), 10*1024*1024)

	// Skip header.
	if !scanner.Scan() {
		return fmt.Errorf("empty file")
	}

	records := make([]models.TransactionRecord, 0, csvBatchSize)
	batch := make([]string, 0, csvBatchSize)
	skipped := 0

	flush := func() error {
		parsed, bad, err := parseBatch(ctx, batch)
		if err != nil {
			return err
		}
		records = append(records, parsed...)
		skipped += bad
		batch = batch[:0]
		return nil
	}

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		batch = append(batch, scanner.Text())
		if len(batch) >= csvBatchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if len(batch) > 0 {
		if err := flush(); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan error: %w", err)
	}

	if len(records) == 0 {
		return fmt.Errorf("no valid records found")
	}

	m.SetRecords(records)

	m.logger.Info("csv load complete",
		"records", len(records),
		"skipped", skipped,
		"duration", time.Since(start),
	)
	return nil
}

func parseBatch(ctx context.Context, lines []string) ([]models.TransactionRecord, int, error) {
	type parsedLine struct {
		record models.TransactionRecord
		valid  bool
	}

	results := make([]parsedLine, len(lines))

	var wg errgroup.Group
	wg.SetLimit(csvMaxWorkers)

	for i, line := range lines {
		wg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			record, err := parseCSVLine(line)
			if err != nil {
				return nil // skip invalid lines
			}
			results[i] = parsedLine{record: record, valid: true}
			return nil
		})
	}
	if err := wg.Wait(); err != nil {
		return nil, 0, err
	}

	records := make([]models.TransactionRecord, 0, len(lines))
	skipped := 0
	for _, p := range results {
		if p.valid {
			records = append(records, p.record)
		} else {
			skipped++
		}
	}
	return records, skipped, nil
}

// parseCSVLine parses one export line:
// date,time,store_id,location,product,quantity,unit_price,payment_type,
// transaction_id,cashier,store_manager,time_of_day,day_of_week,total_price
func parseCSVLine(line string) (models.TransactionRecord, error) {
	fields := strings.Split(line, ",")
	if len(fields) < csvColumns {
		return models.TransactionRecord{}, fmt.Errorf("insufficient columns")
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	date, err := time.Parse("2006-01-02", fields[0])
	if err != nil {
		return models.TransactionRecord{}, err
	}

	quantity, err := strconv.Atoi(fields[5])
	if err != nil {
		return models.TransactionRecord{}, err
	}

	unitPrice, err := decimal.NewFromString(fields[6])
	if err != nil {
		return models.TransactionRecord{}, err
	}

	totalPrice, err := decimal.NewFromString(fields[13])
	if err != nil {
		return models.TransactionRecord{}, err
	}

	return models.TransactionRecord{
		Date:          date,
		Time:          fields[1],
		StoreID:       fields[2],
		Location:      fields[3],
		Product:       fields[4],
		Quantity:      quantity,
		UnitPrice:     unitPrice,
		PaymentType:   fields[7],
		TransactionID: fields[8],
		Cashier:       fields[9],
		StoreManager:  fields[10],
		TimeOfDay:     fields[11],
		DayOfWeek:     fields[12],
		TotalPrice:    totalPrice,
	}, nil
}
