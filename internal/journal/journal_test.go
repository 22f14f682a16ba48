package journal

import (
	"bufio"
	"compress/gzip"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"stock-monitor-agent/internal/types"
)

func TestRecordAppendsJSONLines(t *testing.T) {
	dir := t.TempDir()
	j := New(dir)
	j.now = func() time.Time { return time.Date(2026, 10, 19, 4, 0, 0, 0, time.UTC) }

	for i := 1; i <= 2; i++ {
		err := j.Record(types.JournalEntry{RunID: "run-1", Symbol: "TCS", Iteration: i, Price: 150, Action: types.ActionMonitor, Response: "MONITOR: stable"})
		if err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}

	f, err := os.Open(filepath.Join(dir, "2026-10-19.txt"))
	if err != nil {
		t.Fatalf("expected daily journal file: %v", err)
	}
	defer f.Close()

	var entries []types.JournalEntry
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var e types.JournalEntry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			t.Fatalf("invalid json line: %v", err)
		}
		entries = append(entries, e)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[1].Iteration != 2 || entries[1].Time != "2026-10-19 09:30:00" {
		t.Errorf("unexpected entry %+v", entries[1])
	}
}

func TestCompressOlder(t *testing.T) {
	dir := t.TempDir()
	j := New(dir)

	old := filepath.Join(dir, "2026-01-01.txt")
	fresh := filepath.Join(dir, "2026-10-19.txt")
	if err := os.WriteFile(old, []byte("old\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(fresh, []byte("fresh\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	past := time.Now().AddDate(0, 0, -30)
	if err := os.Chtimes(old, past, past); err != nil {
		t.Fatal(err)
	}

	if err := j.CompressOlder(7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Error("expected old journal to be removed after compression")
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Error("expected fresh journal to be kept")
	}

	gzf, err := os.Open(old + ".gz")
	if err != nil {
		t.Fatalf("expected gzip file: %v", err)
	}
	defer gzf.Close()
	gr, err := gzip.NewReader(gzf)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := io.ReadAll(gr)
	if string(b) != "old\n" {
		t.Errorf("unexpected gzip content %q", b)
	}
}

func TestCompressOlderMissingDir(t *testing.T) {
	j := New(filepath.Join(t.TempDir(), "missing"))
	if err := j.CompressOlder(1); err != nil {
		t.Fatalf("expected nil for missing dir, got %v", err)
	}
}

func TestGzipFileReportsFailures(t *testing.T) {
	dir := t.TempDir()
	if err := gzipFile(filepath.Join(dir, "missing.txt"), filepath.Join(dir, "missing.txt.gz")); err == nil {
		t.Error("expected error for missing source")
	}

	src := filepath.Join(dir, "2026-01-01.txt")
	if err := os.WriteFile(src, []byte("{}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := gzipFile(src, filepath.Join(dir, "no-such-dir", "out.gz")); err == nil {
		t.Error("expected error for unwritable destination")
	}
	if _, err := os.Stat(src); err != nil {
		t.Errorf("source should be kept after a failed compress: %v", err)
	}
}
