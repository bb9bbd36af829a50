package cache

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Key identifies a cached Moltbook response.
type Key struct {
	// Endpoint is the API endpoint path (e.g. "/posts")
	Endpoint string

	// QueryParams are the request query parameters (e.g. {"sort": "new"})
	QueryParams url.Values
}

// String generates a deterministic cache key string.
// Format: moltbook:endpoint:query1=val1:query2=val2
//
// Example:
//
//	moltbook:posts:limit=100:sort=new
func (k Key) String() string {
	parts := []string{"moltbook"}

	endpoint := strings.Trim(k.Endpoint, "/")
	if endpoint != "" {
		parts = append(parts, endpoint)
	}

	// Query params sorted for determinism
	if len(k.QueryParams) > 0 {
		queryKeys := make([]string, 0, len(k.QueryParams))
		for key := range k.QueryParams {
			queryKeys = append(queryKeys, key)
		}
		sort.Strings(queryKeys)

		for _, key := range queryKeys {
			parts = append(parts, fmt.Sprintf("%s=%s", key, k.QueryParams.Get(key)))
		}
	}

	return strings.Join(parts, ":")
}
