package cache

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestHTTPCache_SaveAndLoad(t *testing.T) {
	t.Parallel()
	c := &HTTPCache{Dir: filepath.Join(t.TempDir(), "pages")}
	url := "https://example.com/contact"
	if err := c.Save(context.Background(), url, "text/html", `"v1"`, "Mon, 02 Jan 2006 15:04:05 GMT", []byte("hello@example.com")); err != nil {
		t.Fatalf("save: %v", err)
	}
	meta, err := c.LoadMeta(context.Background(), url)
	if err != nil {
		t.Fatalf("load meta: %v", err)
	}
	if meta.ETag != `"v1"` || meta.URL != url || meta.SavedAt.IsZero() {
		t.Fatalf("unexpected meta: %+v", meta)
	}
	body, err := c.LoadBody(context.Background(), url)
	if err != nil {
		t.Fatalf("load body: %v", err)
	}
	if string(body) != "hello@example.com" {
		t.Fatalf("unexpected body: %q", body)
	}
}

func TestHTTPCache_MissingEntry(t *testing.T) {
	t.Parallel()
	c := &HTTPCache{Dir: t.TempDir()}
	if _, err := c.LoadMeta(context.Background(), "https://nowhere.test/"); err == nil {
		t.Fatalf("expected error for missing entry")
	}
}

func TestHTTPCache_Unconfigured(t *testing.T) {
	t.Parallel()
	var c *HTTPCache
	if err := c.Save(context.Background(), "u", "", "", "", nil); err == nil {
		t.Fatalf("expected error for nil cache")
	}
}

func TestPurgeByAge_RemovesExpired(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	c := &HTTPCache{Dir: dir}
	fresh, stale := "https://a.test/fresh", "https://a.test/stale"
	for _, u := range []string{fresh, stale} {
		if err := c.Save(context.Background(), u, "text/html", "", "", []byte("x")); err != nil {
			t.Fatalf("save: %v", err)
		}
	}
	// Backdate the stale entry.
	metaPath := filepath.Join(dir, Key(stale)+".meta.json")
	b, _ := json.Marshal(Entry{URL: stale, SavedAt: time.Now().Add(-48 * time.Hour)})
	if err := os.WriteFile(metaPath, b, 0o644); err != nil {
		t.Fatalf("backdate: %v", err)
	}

	removed, err := PurgeByAge(dir, 24*time.Hour)
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 removed, got %d", removed)
	}
	if _, err := c.LoadBody(context.Background(), stale); err == nil {
		t.Fatalf("expected stale body removed")
	}
	if _, err := c.LoadBody(context.Background(), fresh); err != nil {
		t.Fatalf("expected fresh body kept: %v", err)
	}
}

func TestClearDir(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "junk"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := ClearDir(dir); err != nil {
		t.Fatalf("clear: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) != 0 {
		t.Fatalf("expected empty dir, err=%v entries=%d", err, len(entries))
	}
	if err := ClearDir("  "); err == nil {
		t.Fatalf("expected error for blank dir")
	}
}
