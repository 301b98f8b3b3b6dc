package defillama

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"l2scope/internal/model"
)

func TestTvlHistory(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/charts/arbitrum" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		w.Write([]byte(`[{"date": 1700000000, "tvl": 123.45}]`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	points, err := client.TvlHistory(context.Background(), model.NetworkArbitrum)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(points) != 1 {
		t.Fatalf("expected 1 point, got %d", len(points))
	}
	if points[0].Day.String() != "2023-11-14" {
		t.Fatalf("expected day 2023-11-14, got %s", points[0].Day)
	}
	if points[0].TvlUSD.String() != "123.45" {
		t.Fatalf("expected tvl 123.45, got %s", points[0].TvlUSD)
	}
}

func TestTvlHistoryStringFields(t *testing.T) {
	// The charts endpoint has delivered dates as strings and the TVL
	// under totalLiquidityUSD; both shapes must normalize identically.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"date": "1700000000", "totalLiquidityUSD": 987654321.01}]`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	points, err := client.TvlHistory(context.Background(), model.NetworkOptimism)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(points) != 1 || points[0].Day.String() != "2023-11-14" {
		t.Fatalf("unexpected points: %+v", points)
	}
	if points[0].TvlUSD.String() != "987654321.01" {
		t.Fatalf("unexpected tvl: %s", points[0].TvlUSD)
	}
}

func TestTvlHistoryUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.TvlHistory(context.Background(), model.NetworkArbitrum)
	if !errors.Is(err, model.ErrUpstreamUnavailable) {
		t.Fatalf("expected ErrUpstreamUnavailable, got %v", err)
	}
}

func TestTvlHistoryMalformed(t *testing.T) {
	cases := map[string]string{
		"not json":     `{"oops": true}`,
		"missing date": `[{"tvl": 1.0}]`,
		"missing tvl":  `[{"date": 1700000000}]`,
	}

	for name, body := range cases {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		}))

		client := NewClient(server.URL)
		_, err := client.TvlHistory(context.Background(), model.NetworkArbitrum)
		server.Close()

		if !errors.Is(err, model.ErrMalformedResponse) {
			t.Fatalf("%s: expected ErrMalformedResponse, got %v", name, err)
		}
	}
}
