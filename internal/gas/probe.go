package gas

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/shopspring/decimal"

	"l2scope/internal/chain"
	"l2scope/internal/model"
)

// priceReader is the slice of the chain client the probe uses.
type priceReader interface {
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	Close()
}

// Prober reads the live suggested gas price per network over RPC. It
// supplements the historical daily averages with a "right now" figure.
type Prober struct {
	rpcURLs map[model.Network]string
	dial    func(ctx context.Context, rpcURL string) (priceReader, error)
	now     func() time.Time
}

// NewProber builds a probe over the given per-network RPC endpoints.
func NewProber(rpcURLs map[model.Network]string) *Prober {
	return &Prober{
		rpcURLs: rpcURLs,
		dial: func(ctx context.Context, rpcURL string) (priceReader, error) {
			return chain.NewClient(ctx, rpcURL)
		},
		now: time.Now,
	}
}

// Read returns the current suggested gas price for a network in gwei.
func (p *Prober) Read(ctx context.Context, network model.Network) (model.GasPrice, error) {
	rpcURL, ok := p.rpcURLs[network]
	if !ok || rpcURL == "" {
		return model.GasPrice{}, fmt.Errorf("%w: no RPC URL for %s", model.ErrConfiguration, network)
	}

	client, err := p.dial(ctx, rpcURL)
	if err != nil {
		return model.GasPrice{}, fmt.Errorf("%w: dial %s rpc: %v", model.ErrUpstreamUnavailable, network, err)
	}
	defer client.Close()

	wei, err := client.SuggestGasPrice(ctx)
	if err != nil {
		return model.GasPrice{}, fmt.Errorf("%w: gas price for %s: %v", model.ErrUpstreamUnavailable, network, err)
	}

	return model.GasPrice{
		Network: network,
		Gwei:    decimal.NewFromBigInt(wei, -9),
		At:      p.now().UTC(),
	}, nil
}
