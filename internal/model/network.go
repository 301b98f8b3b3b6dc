package model

import "fmt"

// Network identifies a supported L2 chain.
type Network string

const (
	NetworkArbitrum Network = "arbitrum"
	NetworkOptimism Network = "optimism"
)

// Networks returns the supported chains in display order.
func Networks() []Network {
	return []Network{NetworkArbitrum, NetworkOptimism}
}

// ParseNetwork validates a network identifier.
func ParseNetwork(input string) (Network, error) {
	switch Network(input) {
	case NetworkArbitrum:
		return NetworkArbitrum, nil
	case NetworkOptimism:
		return NetworkOptimism, nil
	default:
		return "", fmt.Errorf("unsupported network %q", input)
	}
}

// Slug returns the DefiLlama chain slug.
func (n Network) Slug() string {
	return string(n)
}

// QueryIDEnv returns the environment variable that carries the saved
// Dune query ID for this network.
func (n Network) QueryIDEnv() string {
	switch n {
	case NetworkArbitrum:
		return "ARBITRUM_QUERY_ID"
	case NetworkOptimism:
		return "OPTIMISM_QUERY_ID"
	default:
		return ""
	}
}

// DefaultRPCURL returns the public RPC endpoint used by the gas probe.
func (n Network) DefaultRPCURL() string {
	switch n {
	case NetworkArbitrum:
		return "https://arb1.arbitrum.io/rpc"
	case NetworkOptimism:
		return "https://mainnet.optimism.io"
	default:
		return ""
	}
}

const activitySQLTemplate = `SELECT
    DATE_TRUNC('day', block_time) AS date,
    COUNT(DISTINCT "from") AS daily_active_users,
    COUNT(hash) AS transaction_count,
    SUM(gas_used * gas_price / 1e18 * p.price) / COUNT(hash) AS avg_gas_fee_usd
FROM %s.transactions t
LEFT JOIN prices.usd p ON p.minute = DATE_TRUNC('minute', t.block_time)
    AND p.symbol = 'ETH'
WHERE
    t.block_time >= NOW() - INTERVAL '90' DAY
GROUP BY 1
ORDER BY 1 DESC`

// ActivitySQL returns the raw 90-day activity query for this network,
// used when no saved query ID is configured.
func (n Network) ActivitySQL() string {
	return fmt.Sprintf(activitySQLTemplate, string(n))
}
