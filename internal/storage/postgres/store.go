package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"l2scope/internal/model"
)

// Store provides Postgres persistence for fetched series.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// PutTvlBatch inserts or updates TVL history rows.
func (s *Store) PutTvlBatch(ctx context.Context, network model.Network, points []model.TvlPoint) error {
	if len(points) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, p := range points {
		batch.Queue(`
			INSERT INTO tvl_history (
				network, day, tvl_usd, created_at, updated_at
			) VALUES ($1, $2, $3, now(), now())
			ON CONFLICT (network, day)
			DO UPDATE SET
				tvl_usd = EXCLUDED.tvl_usd,
				updated_at = now()
		`,
			string(network),
			p.Day.Time(),
			p.TvlUSD.String(),
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range points {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// PutMetricBatch inserts or updates daily activity rows.
func (s *Store) PutMetricBatch(ctx context.Context, network model.Network, rows []model.MetricRow) error {
	if len(rows) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, row := range rows {
		batch.Queue(`
			INSERT INTO chain_daily_metrics (
				network, day, active_users, transaction_count, avg_gas_fee_usd, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, now(), now())
			ON CONFLICT (network, day)
			DO UPDATE SET
				active_users = EXCLUDED.active_users,
				transaction_count = EXCLUDED.transaction_count,
				avg_gas_fee_usd = EXCLUDED.avg_gas_fee_usd,
				updated_at = now()
		`,
			string(network),
			row.Day.Time(),
			row.ActiveUsers,
			row.TransactionCount,
			row.AvgGasFeeUSD.String(),
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range rows {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}
