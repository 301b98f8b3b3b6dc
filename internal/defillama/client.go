package defillama

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"l2scope/internal/model"
)

// DefaultBaseURL is the public DefiLlama API.
const DefaultBaseURL = "https://api.llama.fi"

// Client fetches historical TVL series from DefiLlama.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// unixSeconds accepts the chart timestamp as either a JSON number or a
// numeric string; the API has delivered both.
type unixSeconds int64

func (u *unixSeconds) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	sec, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid unix timestamp %q", raw)
	}
	*u = unixSeconds(sec)
	return nil
}

type chartPoint struct {
	Date              *unixSeconds     `json:"date"`
	TotalLiquidityUSD *decimal.Decimal `json:"totalLiquidityUSD"`
	Tvl               *decimal.Decimal `json:"tvl"`
}

// TvlHistory fetches the TVL time series for a network and normalizes
// timestamps to calendar days. One attempt, no retry; errors propagate
// for user-visible display.
func (c *Client) TvlHistory(ctx context.Context, network model.Network) ([]model.TvlPoint, error) {
	url := fmt.Sprintf("%s/charts/%s", c.baseURL, network.Slug())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: defillama: %v", model.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: defillama returned %s for %s", model.ErrUpstreamUnavailable, resp.Status, network)
	}

	var raw []chartPoint
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: decode tvl chart: %v", model.ErrMalformedResponse, err)
	}

	points := make([]model.TvlPoint, 0, len(raw))
	for i, p := range raw {
		if p.Date == nil {
			return nil, fmt.Errorf("%w: tvl point %d is missing date", model.ErrMalformedResponse, i)
		}
		tvl := p.TotalLiquidityUSD
		if tvl == nil {
			tvl = p.Tvl
		}
		if tvl == nil {
			return nil, fmt.Errorf("%w: tvl point %d is missing a tvl value", model.ErrMalformedResponse, i)
		}
		if tvl.IsNegative() {
			return nil, fmt.Errorf("%w: tvl point %d is negative", model.ErrMalformedResponse, i)
		}
		points = append(points, model.TvlPoint{
			Day:    model.DayOfUnix(int64(*p.Date)),
			TvlUSD: *tvl,
		})
	}

	return points, nil
}
