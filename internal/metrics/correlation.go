package metrics

import (
	"fmt"
	"math"

	"l2scope/internal/model"
)

// GasFeeTxCorrelation computes the Pearson correlation between the
// average gas fee and the transaction count across a merged series.
// It needs at least two days and non-zero variance in both columns.
func GasFeeTxCorrelation(snapshots []model.DailySnapshot) (float64, error) {
	if len(snapshots) < 2 {
		return 0, fmt.Errorf("correlation needs at least 2 days, have %d", len(snapshots))
	}

	n := float64(len(snapshots))
	var sumX, sumY float64
	for _, snap := range snapshots {
		sumX += snap.AvgGasFeeUSD.InexactFloat64()
		sumY += float64(snap.TransactionCount)
	}
	meanX := sumX / n
	meanY := sumY / n

	var cov, varX, varY float64
	for _, snap := range snapshots {
		dx := snap.AvgGasFeeUSD.InexactFloat64() - meanX
		dy := float64(snap.TransactionCount) - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}

	if varX == 0 || varY == 0 {
		return 0, fmt.Errorf("correlation is undefined for a constant series")
	}

	return cov / math.Sqrt(varX*varY), nil
}
