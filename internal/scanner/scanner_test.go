package scanner_test

import (
	"context"
	"path/filepath"
	"testing"

	"shelfarr/internal/bookid"
	"shelfarr/internal/scanner"
	"shelfarr/internal/testsupport"
)

func TestScanFindsAudioFilesOnly(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	root := cfg.Scanner.Roots[0]
	testsupport.WriteFile(t, filepath.Join(root, "Jonathan Moeller - Frostborn.m4b"), 64)
	testsupport.WriteFile(t, filepath.Join(root, "notes.txt"), 16)
	testsupport.WriteFile(t, filepath.Join(root, "nested", "Sevenfold Sword.mp3"), 64)

	items, err := scanner.New(cfg, nil).Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 audio files, got %d", len(items))
	}
	for _, item := range items {
		if item.Provenance != bookid.ProvenanceFilesystem {
			t.Fatalf("unexpected provenance: %q", item.Provenance)
		}
		if item.SourcePath == "" {
			t.Fatal("source path should be recorded")
		}
	}
}

func TestScanParsesAuthorTitleFilenames(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	root := cfg.Scanner.Roots[0]
	testsupport.WriteFile(t, filepath.Join(root, "Jonathan Moeller - Frostborn.m4b"), 64)

	items, err := scanner.New(cfg, nil).Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	item := items[0]
	if item.Title != "Frostborn" {
		t.Fatalf("title not parsed from filename: %q", item.Title)
	}
	if len(item.Authors) != 1 || item.Authors[0] != "Jonathan Moeller" {
		t.Fatalf("author not parsed from filename: %#v", item.Authors)
	}
}

func TestScanExtractsSeriesFromFilename(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	root := cfg.Scanner.Roots[0]
	testsupport.WriteFile(t, filepath.Join(root, "The Gray Knight (Frostborn #1).m4b"), 64)

	items, err := scanner.New(cfg, nil).Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	item := items[0]
	if item.Series != "Frostborn" || item.SeriesPosition != "1" {
		t.Fatalf("series not extracted: %#v", item)
	}
	if item.Title != "The Gray Knight" {
		t.Fatalf("title not cleaned: %q", item.Title)
	}
}

func TestScanSkipsMissingRoot(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Scanner.Roots = []string{filepath.Join(testsupport.BaseDir(cfg), "does-not-exist")}

	items, err := scanner.New(cfg, nil).Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan should tolerate a missing root, got %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected no items, got %d", len(items))
	}
}
