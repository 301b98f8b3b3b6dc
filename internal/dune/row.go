package dune

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"l2scope/internal/model"
)

// resultRow is the tabular shape delivered by the activity queries.
// Column aliases vary between saved queries, so the counters accept
// the common names.
type resultRow struct {
	Date             string           `json:"date"`
	DailyActiveUsers *json.Number     `json:"daily_active_users"`
	ActiveUsers      *json.Number     `json:"active_users"`
	TransactionCount *json.Number     `json:"transaction_count"`
	TxCount          *json.Number     `json:"tx_count"`
	AvgGasFeeUSD     *decimal.Decimal `json:"avg_gas_fee_usd"`
}

func (r resultRow) toMetricRow() (model.MetricRow, error) {
	if r.Date == "" {
		return model.MetricRow{}, fmt.Errorf("missing date")
	}
	day, err := model.ParseDay(r.Date)
	if err != nil {
		return model.MetricRow{}, err
	}

	users, err := pickCount("active users", r.DailyActiveUsers, r.ActiveUsers)
	if err != nil {
		return model.MetricRow{}, err
	}
	txs, err := pickCount("transaction count", r.TransactionCount, r.TxCount)
	if err != nil {
		return model.MetricRow{}, err
	}

	// avg_gas_fee_usd is NULL on days without a price join; zero there.
	fee := decimal.Zero
	if r.AvgGasFeeUSD != nil {
		fee = *r.AvgGasFeeUSD
	}
	if fee.IsNegative() {
		return model.MetricRow{}, fmt.Errorf("negative avg_gas_fee_usd %s", fee)
	}

	return model.MetricRow{
		Day:              day,
		ActiveUsers:      users,
		TransactionCount: txs,
		AvgGasFeeUSD:     fee,
	}, nil
}

func pickCount(name string, candidates ...*json.Number) (int64, error) {
	for _, n := range candidates {
		if n == nil {
			continue
		}
		value, err := parseCount(*n)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", name, err)
		}
		return value, nil
	}
	return 0, fmt.Errorf("missing %s", name)
}

// parseCount accepts integers the engine occasionally renders as
// floats ("123.0").
func parseCount(n json.Number) (int64, error) {
	if value, err := n.Int64(); err == nil {
		if value < 0 {
			return 0, fmt.Errorf("negative count %d", value)
		}
		return value, nil
	}
	f, err := n.Float64()
	if err != nil {
		return 0, fmt.Errorf("invalid count %q", n.String())
	}
	if f < 0 {
		return 0, fmt.Errorf("negative count %s", n.String())
	}
	return int64(f), nil
}
