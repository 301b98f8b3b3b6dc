package metrics

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"l2scope/internal/cache"
	"l2scope/internal/model"
	"l2scope/internal/storage"
)

// TvlClient fetches TVL history for a network.
type TvlClient interface {
	TvlHistory(ctx context.Context, network model.Network) ([]model.TvlPoint, error)
}

// QueryClient executes a resolved query source.
type QueryClient interface {
	Rows(ctx context.Context, source model.QuerySource) ([]model.MetricRow, error)
}

// GasReader reads the live gas price for a network.
type GasReader interface {
	Read(ctx context.Context, network model.Network) (model.GasPrice, error)
}

// DefaultCacheTTL matches the upstream refresh cadence of the daily
// series.
const DefaultCacheTTL = 3600 * time.Second

// DefaultGasTTL keeps the live gas figure reasonably fresh.
const DefaultGasTTL = 60 * time.Second

// Config holds runtime settings for the metrics service.
type Config struct {
	CacheTTL time.Duration
	GasTTL   time.Duration
	// Sources maps each network to its resolved query source.
	Sources map[model.Network]model.QuerySource
}

// Service wraps the upstream clients with the TTL cache and derives
// the merged and statistical views served to the charts.
type Service struct {
	cfg     Config
	tvl     TvlClient
	queries QueryClient
	gas     GasReader
	archive storage.Archive
	logger  *zap.Logger

	tvlCache *cache.Cache[[]model.TvlPoint]
	rowCache *cache.Cache[[]model.MetricRow]
	gasCache *cache.Cache[model.GasPrice]
}

// NewService builds the service. archive and gas may be nil; the
// corresponding features are then disabled.
func NewService(cfg Config, tvl TvlClient, queries QueryClient, gas GasReader, archive storage.Archive, logger *zap.Logger) *Service {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	if cfg.GasTTL <= 0 {
		cfg.GasTTL = DefaultGasTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		cfg:      cfg,
		tvl:      tvl,
		queries:  queries,
		gas:      gas,
		archive:  archive,
		logger:   logger,
		tvlCache: cache.New[[]model.TvlPoint](),
		rowCache: cache.New[[]model.MetricRow](),
		gasCache: cache.New[model.GasPrice](),
	}
}

// TVL returns the TVL history for a network, cached for CacheTTL.
func (s *Service) TVL(ctx context.Context, network model.Network) ([]model.TvlPoint, error) {
	key := "tvl:" + string(network)
	return s.tvlCache.GetOrFetch(key, s.cfg.CacheTTL, func() ([]model.TvlPoint, error) {
		points, err := s.tvl.TvlHistory(ctx, network)
		if err != nil {
			return nil, err
		}
		s.logger.Info("tvl fetched", zap.String("network", string(network)), zap.Int("points", len(points)))
		s.archiveTvl(ctx, network, points)
		return points, nil
	})
}

// ChainMetrics returns the daily activity rows for a network, cached
// for CacheTTL. The cache key includes the query source so a
// reconfigured query is fetched fresh.
func (s *Service) ChainMetrics(ctx context.Context, network model.Network) ([]model.MetricRow, error) {
	source, ok := s.cfg.Sources[network]
	if !ok {
		return nil, fmt.Errorf("%w: no query source for %s", model.ErrConfiguration, network)
	}

	key := fmt.Sprintf("metrics:%s:%s", network, source.CacheKey())
	return s.rowCache.GetOrFetch(key, s.cfg.CacheTTL, func() ([]model.MetricRow, error) {
		rows, err := s.queries.Rows(ctx, source)
		if err != nil {
			return nil, err
		}
		s.logger.Info("chain metrics fetched", zap.String("network", string(network)), zap.Int("rows", len(rows)))
		s.archiveMetrics(ctx, network, rows)
		return rows, nil
	})
}

// GasPrice returns the live gas price for a network, cached for GasTTL.
func (s *Service) GasPrice(ctx context.Context, network model.Network) (model.GasPrice, error) {
	if s.gas == nil {
		return model.GasPrice{}, fmt.Errorf("%w: gas probe is not configured", model.ErrConfiguration)
	}
	key := "gas:" + string(network)
	return s.gasCache.GetOrFetch(key, s.cfg.GasTTL, func() (model.GasPrice, error) {
		return s.gas.Read(ctx, network)
	})
}

// Snapshots returns the merged daily series for a network: an inner
// join of the TVL and activity series on calendar day, in the activity
// order as delivered (descending by day).
func (s *Service) Snapshots(ctx context.Context, network model.Network) ([]model.DailySnapshot, error) {
	points, err := s.TVL(ctx, network)
	if err != nil {
		return nil, err
	}
	rows, err := s.ChainMetrics(ctx, network)
	if err != nil {
		return nil, err
	}
	return MergeDaily(points, rows), nil
}

// Correlation returns the Pearson correlation between the average gas
// fee and the transaction count over the merged series.
func (s *Service) Correlation(ctx context.Context, network model.Network) (float64, error) {
	snapshots, err := s.Snapshots(ctx, network)
	if err != nil {
		return 0, err
	}
	return GasFeeTxCorrelation(snapshots)
}

// Overview returns the latest figures per network. A failing network
// is logged and skipped so the other network's data still renders.
func (s *Service) Overview(ctx context.Context) []model.NetworkSummary {
	summaries := make([]model.NetworkSummary, 0, len(model.Networks()))
	for _, network := range model.Networks() {
		snapshots, err := s.Snapshots(ctx, network)
		if err != nil {
			s.logger.Warn("overview fetch failed", zap.String("network", string(network)), zap.Error(err))
			continue
		}
		if len(snapshots) == 0 {
			continue
		}
		latest := snapshots[0]
		summaries = append(summaries, model.NetworkSummary{
			Network:     network,
			Day:         latest.Day,
			TvlUSD:      latest.TvlUSD,
			ActiveUsers: latest.ActiveUsers,
		})
	}
	return summaries
}

// CacheStats reports hit/miss counters per cached kind.
func (s *Service) CacheStats() map[string]cache.Stats {
	return map[string]cache.Stats{
		"tvl":     s.tvlCache.Stats(),
		"metrics": s.rowCache.Stats(),
		"gas":     s.gasCache.Stats(),
	}
}

func (s *Service) archiveTvl(ctx context.Context, network model.Network, points []model.TvlPoint) {
	if s.archive == nil {
		return
	}
	if err := s.archive.PutTvlBatch(ctx, network, points); err != nil {
		s.logger.Warn("archive tvl failed", zap.String("network", string(network)), zap.Error(err))
	}
}

func (s *Service) archiveMetrics(ctx context.Context, network model.Network, rows []model.MetricRow) {
	if s.archive == nil {
		return
	}
	if err := s.archive.PutMetricBatch(ctx, network, rows); err != nil {
		s.logger.Warn("archive metrics failed", zap.String("network", string(network)), zap.Error(err))
	}
}
