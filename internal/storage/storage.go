package storage

import (
	"context"

	"l2scope/internal/model"
)

// Archive is a sink for fetched series. The metrics service writes to
// it after a successful fetch; it is never a read path, the in-memory
// cache stays authoritative for serving.
type Archive interface {
	PutTvlBatch(ctx context.Context, network model.Network, points []model.TvlPoint) error
	PutMetricBatch(ctx context.Context, network model.Network, rows []model.MetricRow) error
}
