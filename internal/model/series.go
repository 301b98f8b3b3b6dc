package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TvlPoint is one day of total value locked for a network.
type TvlPoint struct {
	Day    Day             `json:"date"`
	TvlUSD decimal.Decimal `json:"tvl_usd"`
}

// MetricRow is one day of chain activity for a network.
type MetricRow struct {
	Day              Day             `json:"date"`
	ActiveUsers      int64           `json:"active_users"`
	TransactionCount int64           `json:"transaction_count"`
	AvgGasFeeUSD     decimal.Decimal `json:"avg_gas_fee_usd"`
}

// DailySnapshot joins TVL and activity metrics for one day.
type DailySnapshot struct {
	Day              Day             `json:"date"`
	TvlUSD           decimal.Decimal `json:"tvl_usd"`
	ActiveUsers      int64           `json:"active_users"`
	TransactionCount int64           `json:"transaction_count"`
	AvgGasFeeUSD     decimal.Decimal `json:"avg_gas_fee_usd"`
}

// NetworkSummary holds the latest figures for one network.
type NetworkSummary struct {
	Network     Network         `json:"network"`
	Day         Day             `json:"date"`
	TvlUSD      decimal.Decimal `json:"tvl_usd"`
	ActiveUsers int64           `json:"active_users"`
}

// GasPrice is a live gas price reading for a network.
type GasPrice struct {
	Network Network         `json:"network"`
	Gwei    decimal.Decimal `json:"gwei"`
	At      time.Time       `json:"at"`
}
