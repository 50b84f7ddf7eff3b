package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"ddpsdk/internal/fileset"
)

// WriteFile fills the target path with the requested number of bytes using a
// simple repeating pattern. A size <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	const chunkSize = 32 * 1024
	buf := make([]byte, chunkSize)
	for i := range buf {
		buf[i] = 0x42
	}

	remaining := size
	for remaining > 0 {
		toWrite := int64(chunkSize)
		if remaining < toWrite {
			toWrite = remaining
		}
		if _, err := f.Write(buf[:toWrite]); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		remaining -= toWrite
	}
}

// SampleFileSet returns a small DDP file set. discID becomes the DDPID
// contents, which the fake engine echoes back as metadata "disc_id".
func SampleFileSet(discID string) fileset.FileSet {
	return fileset.FileSet{
		fileset.RoleDiscID:      []byte(discID),
		fileset.RoleDescriptor:  []byte("VVVM01"),
		fileset.RoleSessionData: []byte("session"),
		fileset.RoleImageData:   make([]byte, 2352),
	}
}

// WriteDDPInput writes SampleFileSet(discID) into dir using on-disk names and
// returns the set.
func WriteDDPInput(t testing.TB, dir, discID string) fileset.FileSet {
	t.Helper()

	files := SampleFileSet(discID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	for role, data := range files {
		path := filepath.Join(dir, fileset.FileName(role))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
	return files
}
