package model

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
)

// QuerySource selects how chain metrics are obtained from Dune: a
// saved query executed by ID (free tier) or raw SQL submitted for
// execution (paid tier). Resolved once at configuration time.
type QuerySource struct {
	queryID int64
	rawSQL  string
}

// SavedQuery builds a source backed by a precreated Dune query.
func SavedQuery(id int64) QuerySource {
	return QuerySource{queryID: id}
}

// RawSQL builds a source that submits SQL text for execution.
func RawSQL(sql string) QuerySource {
	return QuerySource{rawSQL: sql}
}

// SavedQueryID returns the query ID when this is a saved-query source.
func (s QuerySource) SavedQueryID() (int64, bool) {
	return s.queryID, s.queryID != 0
}

// SQL returns the query text when this is a raw-SQL source.
func (s QuerySource) SQL() (string, bool) {
	return s.rawSQL, s.queryID == 0 && s.rawSQL != ""
}

// CacheKey returns a stable identifier for cache keying.
func (s QuerySource) CacheKey() string {
	if s.queryID != 0 {
		return "query:" + strconv.FormatInt(s.queryID, 10)
	}
	h := fnv.New64a()
	h.Write([]byte(s.rawSQL))
	return fmt.Sprintf("sql:%x", h.Sum64())
}

// ResolveQuerySource picks the saved-query path when an ID is
// configured and falls back to raw SQL otherwise. With neither
// available it fails with ErrConfiguration.
func ResolveQuerySource(queryID, rawSQL string) (QuerySource, error) {
	queryID = strings.TrimSpace(queryID)
	if queryID != "" {
		id, err := strconv.ParseInt(queryID, 10, 64)
		if err != nil || id <= 0 {
			return QuerySource{}, fmt.Errorf("%w: query ID %q must be a positive number", ErrConfiguration, queryID)
		}
		return SavedQuery(id), nil
	}
	if strings.TrimSpace(rawSQL) != "" {
		return RawSQL(rawSQL), nil
	}
	return QuerySource{}, fmt.Errorf("%w: neither a query ID nor raw SQL is configured", ErrConfiguration)
}
