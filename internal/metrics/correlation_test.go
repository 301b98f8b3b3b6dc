package metrics

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"

	"l2scope/internal/model"
)

func snapshotSeries(t *testing.T, fees []float64, txs []int64) []model.DailySnapshot {
	t.Helper()
	if len(fees) != len(txs) {
		t.Fatalf("bad fixture: %d fees vs %d txs", len(fees), len(txs))
	}
	snapshots := make([]model.DailySnapshot, len(fees))
	for i := range fees {
		snapshots[i] = model.DailySnapshot{
			AvgGasFeeUSD:     decimal.NewFromFloat(fees[i]),
			TransactionCount: txs[i],
		}
	}
	return snapshots
}

func TestGasFeeTxCorrelationPerfect(t *testing.T) {
	got, err := GasFeeTxCorrelation(snapshotSeries(t, []float64{0.1, 0.2, 0.3}, []int64{1000, 2000, 3000}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(got-1) > 1e-9 {
		t.Fatalf("expected correlation 1, got %f", got)
	}
}

func TestGasFeeTxCorrelationInverse(t *testing.T) {
	got, err := GasFeeTxCorrelation(snapshotSeries(t, []float64{0.1, 0.2, 0.3}, []int64{3000, 2000, 1000}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(got+1) > 1e-9 {
		t.Fatalf("expected correlation -1, got %f", got)
	}
}

func TestGasFeeTxCorrelationHandComputed(t *testing.T) {
	// fees {0.1, 0.4, 0.2}, txs {100, 300, 150}: r = 0.995871...
	got, err := GasFeeTxCorrelation(snapshotSeries(t, []float64{0.1, 0.4, 0.2}, []int64{100, 300, 150}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(got-0.995871) > 1e-5 {
		t.Fatalf("expected correlation 0.995871, got %f", got)
	}
}

func TestGasFeeTxCorrelationDegenerate(t *testing.T) {
	if _, err := GasFeeTxCorrelation(nil); err == nil {
		t.Fatalf("expected error for empty series")
	}
	if _, err := GasFeeTxCorrelation(snapshotSeries(t, []float64{0.1}, []int64{100})); err == nil {
		t.Fatalf("expected error for a single day")
	}
	if _, err := GasFeeTxCorrelation(snapshotSeries(t, []float64{0.2, 0.2}, []int64{100, 200})); err == nil {
		t.Fatalf("expected error for constant gas fees")
	}
}

func TestMergeDailyEmptyInputs(t *testing.T) {
	if got := MergeDaily(nil, nil); len(got) != 0 {
		t.Fatalf("expected empty merge, got %d", len(got))
	}
}
