// Package export writes collected datasets to disk, one JSON file per
// logical dataset.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/bendavidsteel/carcinologer/pkg/logging"
)

// Writer serializes datasets into a directory. Field order is stable
// because every record type carries explicit struct tags.
type Writer struct {
	dir    string
	logger zerolog.Logger
}

// NewWriter creates a writer rooted at dir, creating it if needed.
func NewWriter(dir string) (*Writer, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return &Writer{
		dir:    dir,
		logger: logging.NewLogger("export"),
	}, nil
}

// Write serializes v to <dir>/<name>.json with two-space indentation.
func (w *Writer) Write(name string, v any) error {
	path := filepath.Join(w.dir, name+".json")

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	w.logger.Info().Str("path", path).Msg("Saved dataset")
	return nil
}

// Dir returns the output directory.
func (w *Writer) Dir() string {
	return w.dir
}
