package alphabetize

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/tillig/nant-tasks/resdoc"
)

func writeDocument(t *testing.T, path string, entries []resdoc.Entry) {
	t.Helper()
	buffer := &bytes.Buffer{}
	if err := resdoc.NewWriter(buffer).Generate(entries); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if err := os.WriteFile(path, buffer.Bytes(), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func readEntries(t *testing.T, path string) []resdoc.Entry {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	entries, err := resdoc.Reader{}.Read(data)
	if err != nil {
		t.Fatalf("parse %s: %v", path, err)
	}
	return entries
}

func TestAlphabetizeFileSortsEntries(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "strings.resx")
	writeDocument(t, path, []resdoc.Entry{
		{Name: "B", Value: "two"},
		{Name: "A", Value: "one"},
	})

	changed, err := New().AlphabetizeFile(ctx, path)
	if err != nil {
		t.Fatalf("AlphabetizeFile: %v", err)
	}
	if !changed {
		t.Fatalf("expected the document to change")
	}
	entries := readEntries(t, path)
	if len(entries) != 2 || entries[0].Name != "A" || entries[1].Name != "B" {
		t.Fatalf("unexpected order: %+v", entries)
	}
	if entries[0].Value != "one" || entries[1].Value != "two" {
		t.Fatalf("values corrupted: %+v", entries)
	}
	for _, entry := range entries {
		if entry.Type != "" || entry.MimeType != "" {
			t.Fatalf("plain strings must carry no attributes: %+v", entry)
		}
	}
}

func TestAlphabetizeFileIdempotent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "strings.resx")
	writeDocument(t, path, []resdoc.Entry{
		{Name: "z", Value: "last"},
		{Name: "a", Value: "first"},
	})

	svc := New()
	if _, err := svc.AlphabetizeFile(ctx, path); err != nil {
		t.Fatalf("first pass: %v", err)
	}
	first, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	changed, err := svc.AlphabetizeFile(ctx, path)
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if changed {
		t.Fatalf("second pass must be a no-op")
	}
	second, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatalf("second pass changed the document bytes")
	}
}

func TestAlphabetizeFilePreservesForeignEntries(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "mixed.resx")
	writeDocument(t, path, []resdoc.Entry{
		{Name: "zulu", Value: "plain"},
		{Name: "alpha", Value: "payload", Type: "ns.Custom", MimeType: resdoc.MimeByteArray},
	})

	if _, err := New().AlphabetizeFile(ctx, path); err != nil {
		t.Fatalf("AlphabetizeFile: %v", err)
	}
	entries := readEntries(t, path)
	if entries[0].Name != "alpha" || entries[0].Type != "ns.Custom" || entries[0].MimeType != resdoc.MimeByteArray {
		t.Fatalf("foreign entry not preserved: %+v", entries[0])
	}
	if entries[0].Value != "payload" {
		t.Fatalf("foreign payload not preserved: %+v", entries[0])
	}
}

func TestAlphabetizeFileMissingSource(t *testing.T) {
	ctx := context.Background()
	_, err := New().AlphabetizeFile(ctx, filepath.Join(t.TempDir(), "absent.resx"))
	if !errors.Is(err, ErrSourceMissing) {
		t.Fatalf("expected ErrSourceMissing, got %v", err)
	}
}

func TestAlphabetizeFileLeavesSourceOnReadError(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "broken.resx")
	corrupt := []byte("<root><data")
	if err := os.WriteFile(path, corrupt, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := New().AlphabetizeFile(ctx, path); err == nil {
		t.Fatalf("expected parse error")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(data, corrupt) {
		t.Fatalf("failed run must not touch the source")
	}
}

func TestRunContinueOnError(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	writeDocument(t, filepath.Join(dir, "good.resx"), []resdoc.Entry{
		{Name: "b", Value: "2"},
		{Name: "a", Value: "1"},
	})
	if err := os.WriteFile(filepath.Join(dir, "broken.resx"), []byte("<root><data"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	svc := New(WithLogf(func(string, ...interface{}) {}))
	response, err := svc.Run(ctx, Request{
		Location:    dir,
		Include:     []string{"*.resx"},
		FailOnError: false,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(response.Failures) != 1 {
		t.Fatalf("expected 1 failure, got %+v", response.Failures)
	}
	if len(response.Processed) != 1 {
		t.Fatalf("expected 1 processed document, got %+v", response.Processed)
	}
}

func TestRunFailFast(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "broken.resx"), []byte("not xml"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := New().Run(ctx, Request{
		Location:    dir,
		Include:     []string{"*.resx"},
		FailOnError: true,
	})
	if err == nil {
		t.Fatalf("expected the batch to abort")
	}
}
