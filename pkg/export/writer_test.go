package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bendavidsteel/carcinologer/pkg/moltbook"
)

func TestNewWriter_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data", "run-1")

	w, err := NewWriter(dir)
	if err != nil {
		t.Fatalf("NewWriter() failed: %v", err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("output dir missing: %v", err)
	}
	if !info.IsDir() {
		t.Error("output path is not a directory")
	}
	if w.Dir() != dir {
		t.Errorf("Dir() = %q, want %q", w.Dir(), dir)
	}
}

func TestWriter_WriteRoundTrip(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir)
	if err != nil {
		t.Fatalf("NewWriter() failed: %v", err)
	}

	posts := []moltbook.Post{
		{ID: "p1", Title: "hello", Upvotes: 3, Author: map[string]any{"name": "crabwise"}},
		{ID: "p2", Title: "world", CommentCount: 7},
	}

	if err := w.Write("posts", posts); err != nil {
		t.Fatalf("Write() failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "posts.json"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}

	var got []moltbook.Post
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(got) != 2 || got[0].ID != "p1" || got[1].CommentCount != 7 {
		t.Errorf("round-trip = %+v, want original posts", got)
	}
	if got[0].Author["name"] != "crabwise" {
		t.Errorf("Author = %v, want nested object preserved", got[0].Author)
	}
}

func TestWriter_WriteIndented(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir)
	if err != nil {
		t.Fatalf("NewWriter() failed: %v", err)
	}

	if err := w.Write("stats", moltbook.Stats{TotalSubmolts: 2}); err != nil {
		t.Fatalf("Write() failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "stats.json"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if want := "  \"total_submolts\": 2"; !json.Valid(data) || !strings.Contains(string(data), want) {
		t.Errorf("output = %q, want two-space indentation", data)
	}
}
