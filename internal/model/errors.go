package model

import "errors"

// Fetch failure taxonomy. Errors returned by the clients wrap one of
// these sentinels; callers classify with errors.Is.
var (
	// ErrUpstreamUnavailable covers transport errors and non-success
	// HTTP statuses from DefiLlama, Dune, or an RPC endpoint.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrMalformedResponse covers payloads missing expected fields.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrConfiguration covers missing or invalid keys and identifiers.
	ErrConfiguration = errors.New("configuration error")

	// ErrPlanRequired is reported when the upstream rejects the raw-SQL
	// path for lack of a paid plan.
	ErrPlanRequired = errors.New("paid plan required")
)
