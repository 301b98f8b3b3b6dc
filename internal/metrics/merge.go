package metrics

import "l2scope/internal/model"

// MergeDaily inner-joins a TVL series and an activity series on
// calendar day. Days present in only one input are dropped. The output
// follows the activity series order.
func MergeDaily(points []model.TvlPoint, rows []model.MetricRow) []model.DailySnapshot {
	tvlByDay := make(map[string]model.TvlPoint, len(points))
	for _, p := range points {
		tvlByDay[p.Day.String()] = p
	}

	snapshots := make([]model.DailySnapshot, 0, len(rows))
	for _, row := range rows {
		p, ok := tvlByDay[row.Day.String()]
		if !ok {
			continue
		}
		snapshots = append(snapshots, model.DailySnapshot{
			Day:              row.Day,
			TvlUSD:           p.TvlUSD,
			ActiveUsers:      row.ActiveUsers,
			TransactionCount: row.TransactionCount,
			AvgGasFeeUSD:     row.AvgGasFeeUSD,
		})
	}
	return snapshots
}
