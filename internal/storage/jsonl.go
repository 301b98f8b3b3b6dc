package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"l2scope/internal/model"
)

// JsonlArchive appends fetched series to a JSONL file.
type JsonlArchive struct {
	path string
	mu   sync.Mutex
}

func NewJsonlArchive(path string) *JsonlArchive {
	return &JsonlArchive{path: path}
}

type tvlRecord struct {
	Kind      string          `json:"kind"`
	Network   model.Network   `json:"network"`
	Date      model.Day       `json:"date"`
	TvlUSD    decimal.Decimal `json:"tvl_usd"`
	FetchedAt string          `json:"fetched_at"`
}

type metricRecord struct {
	Kind             string          `json:"kind"`
	Network          model.Network   `json:"network"`
	Date             model.Day       `json:"date"`
	ActiveUsers      int64           `json:"active_users"`
	TransactionCount int64           `json:"transaction_count"`
	AvgGasFeeUSD     decimal.Decimal `json:"avg_gas_fee_usd"`
	FetchedAt        string          `json:"fetched_at"`
}

// PutTvlBatch appends TVL points as JSON lines.
func (a *JsonlArchive) PutTvlBatch(_ context.Context, network model.Network, points []model.TvlPoint) error {
	if len(points) == 0 {
		return nil
	}

	fetchedAt := time.Now().UTC().Format(time.RFC3339Nano)
	records := make([]any, 0, len(points))
	for _, p := range points {
		records = append(records, tvlRecord{
			Kind:      "tvl",
			Network:   network,
			Date:      p.Day,
			TvlUSD:    p.TvlUSD,
			FetchedAt: fetchedAt,
		})
	}
	return a.appendLines(records)
}

// PutMetricBatch appends metric rows as JSON lines.
func (a *JsonlArchive) PutMetricBatch(_ context.Context, network model.Network, rows []model.MetricRow) error {
	if len(rows) == 0 {
		return nil
	}

	fetchedAt := time.Now().UTC().Format(time.RFC3339Nano)
	records := make([]any, 0, len(rows))
	for _, row := range rows {
		records = append(records, metricRecord{
			Kind:             "metrics",
			Network:          network,
			Date:             row.Day,
			ActiveUsers:      row.ActiveUsers,
			TransactionCount: row.TransactionCount,
			AvgGasFeeUSD:     row.AvgGasFeeUSD,
			FetchedAt:        fetchedAt,
		})
	}
	return a.appendLines(records)
}

func (a *JsonlArchive) appendLines(records []any) error {
	dir := filepath.Dir(a.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create archive dir: %w", err)
		}
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	file, err := os.OpenFile(a.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open archive file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	for _, record := range records {
		line, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("marshal archive record: %w", err)
		}
		if _, err := writer.Write(line); err != nil {
			return fmt.Errorf("write archive record: %w", err)
		}
		if err := writer.WriteByte('\n'); err != nil {
			return fmt.Errorf("write newline: %w", err)
		}
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flush archive: %w", err)
	}

	return nil
}
