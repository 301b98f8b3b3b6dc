package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"l2scope/internal/model"
)

func TestJsonlArchiveAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "archive.jsonl")
	archive := NewJsonlArchive(path)

	day, err := model.ParseDay("2023-11-14")
	if err != nil {
		t.Fatalf("parse day: %v", err)
	}

	points := []model.TvlPoint{{Day: day, TvlUSD: decimal.NewFromFloat(123.45)}}
	if err := archive.PutTvlBatch(context.Background(), model.NetworkArbitrum, points); err != nil {
		t.Fatalf("put tvl: %v", err)
	}

	rows := []model.MetricRow{{Day: day, ActiveUsers: 10, TransactionCount: 20, AvgGasFeeUSD: decimal.NewFromFloat(0.5)}}
	if err := archive.PutMetricBatch(context.Background(), model.NetworkArbitrum, rows); err != nil {
		t.Fatalf("put metrics: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	defer file.Close()

	var kinds []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var line struct {
			Kind    string `json:"kind"`
			Network string `json:"network"`
			Date    string `json:"date"`
		}
		if err := json.Unmarshal(scanner.Bytes(), &line); err != nil {
			t.Fatalf("parse line: %v", err)
		}
		if line.Network != "arbitrum" || line.Date != "2023-11-14" {
			t.Fatalf("unexpected line: %+v", line)
		}
		kinds = append(kinds, line.Kind)
	}

	if len(kinds) != 2 || kinds[0] != "tvl" || kinds[1] != "metrics" {
		t.Fatalf("unexpected record kinds: %v", kinds)
	}
}

func TestJsonlArchiveEmptyBatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.jsonl")
	archive := NewJsonlArchive(path)

	if err := archive.PutTvlBatch(context.Background(), model.NetworkOptimism, nil); err != nil {
		t.Fatalf("empty batch should be a no-op: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("no file should be created for an empty batch")
	}
}
