// Package cache provides optional Redis-backed caching of Moltbook
// responses. The API publishes no validators (no ETag or Expires), so
// entries carry a fixed TTL configured on the client.
package cache
