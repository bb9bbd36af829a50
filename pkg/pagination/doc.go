// Package pagination implements the sequential cursor loop used to drain
// Moltbook list endpoints. One request is in flight at a time; a courtesy
// delay separates pages.
package pagination
