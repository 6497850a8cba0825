package archive

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteReadRoundTrip(t *testing.T) {
	source := t.TempDir()
	mustWrite(t, filepath.Join(source, "Root", "a.txt"), "A")
	mustWrite(t, filepath.Join(source, "Root", "sub", "b.txt"), "B")
	mustWrite(t, filepath.Join(source, "Root", "café", "naïve.txt"), "unicode")

	archivePath := filepath.Join(t.TempDir(), "set.zip")
	if err := Write(archivePath, source, nil); err != nil {
		t.Fatalf("Write: %v", err)
	}

	dest := t.TempDir()
	if err := Read(archivePath, dest, nil); err != nil {
		t.Fatalf("Read: %v", err)
	}

	mustEqual(t, filepath.Join(dest, "Root", "a.txt"), "A")
	mustEqual(t, filepath.Join(dest, "Root", "sub", "b.txt"), "B")
	mustEqual(t, filepath.Join(dest, "Root", "café", "naïve.txt"), "unicode")
}

func TestWriteUsesForwardSlashNames(t *testing.T) {
	source := t.TempDir()
	mustWrite(t, filepath.Join(source, "Root", "sub", "b.txt"), "B")

	archivePath := filepath.Join(t.TempDir(), "set.zip")
	if err := Write(archivePath, source, nil); err != nil {
		t.Fatalf("Write: %v", err)
	}

	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer reader.Close()

	found := false
	for _, f := range reader.File {
		if f.Name == "Root/sub/b.txt" {
			found = true
		}
		if filepath.Separator != '/' && filepath.ToSlash(f.Name) != f.Name {
			t.Errorf("expected archive name %q to use forward slashes", f.Name)
		}
	}
	if !found {
		t.Errorf("expected to find Root/sub/b.txt in archive")
	}
}

func TestReadSkipsUnsafePaths(t *testing.T) {
	archivePath := filepath.Join(t.TempDir(), "malicious.zip")
	out, err := os.Create(archivePath)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	writer := zip.NewWriter(out)
	entryWriter, err := writer.Create("../escape.txt")
	if err != nil {
		t.Fatalf("Create entry: %v", err)
	}
	if _, err := entryWriter.Write([]byte("escape")); err != nil {
		t.Fatalf("Write entry: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("writer.Close: %v", err)
	}
	if err := out.Close(); err != nil {
		t.Fatalf("out.Close: %v", err)
	}

	dest := t.TempDir()
	if err := Read(archivePath, dest, nil); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(dest), "escape.txt")); err == nil {
		t.Errorf("expected path-escaping entry to be skipped")
	}
}

func mustWrite(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func mustEqual(t *testing.T, path, want string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile(%q): %v", path, err)
	}
	if string(data) != want {
		t.Errorf("ReadFile(%q) = %q, want %q", path, string(data), want)
	}
}
