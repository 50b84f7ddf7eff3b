package metadata

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"ddpsdk/internal/services"
)

// MinWAVSize is the size of a canonical RIFF/WAVE header.
const MinWAVSize = 44

var (
	riffMagic = []byte("RIFF")
	waveMagic = []byte("WAVE")
)

// TrackFile describes one audio file written by a "process" run.
type TrackFile struct {
	Index int    `json:"index" yaml:"index"`
	Name  string `json:"name" yaml:"name"`
	Path  string `json:"path" yaml:"path"`
	Size  int64  `json:"size_bytes" yaml:"size_bytes"`
}

// TrackFileName returns the zero-padded file name for a 1-based track index.
func TrackFileName(index int) string {
	return fmt.Sprintf("track_%02d.wav", index)
}

// VerifyTracks checks that dir holds exactly track_01.wav through track_NN.wav
// for n tracks and that each one carries a RIFF/WAVE header. Every problem
// found is reported; the returned files cover the tracks that passed.
func VerifyTracks(dir string, n int) ([]TrackFile, error) {
	if n < 0 {
		return nil, services.Wrap(services.ErrValidation, "metadata", "verify tracks", fmt.Sprintf("negative track count %d", n), nil)
	}

	var (
		files    []TrackFile
		problems []error
	)
	expected := make(map[string]struct{}, n)
	for i := 1; i <= n; i++ {
		name := TrackFileName(i)
		expected[name] = struct{}{}
		path := filepath.Join(dir, name)
		size, err := checkWAV(path)
		if err != nil {
			problems = append(problems, fmt.Errorf("%s: %w", name, err))
			continue
		}
		files = append(files, TrackFile{Index: i, Name: name, Path: path, Size: size})
	}

	extras, err := filepath.Glob(filepath.Join(dir, "track_*.wav"))
	if err != nil {
		problems = append(problems, err)
	}
	sort.Strings(extras)
	for _, extra := range extras {
		if _, ok := expected[filepath.Base(extra)]; !ok {
			problems = append(problems, fmt.Errorf("%s: unexpected track file", filepath.Base(extra)))
		}
	}

	if len(problems) > 0 {
		return files, services.Wrap(services.ErrValidation, "metadata", "verify tracks", dir, errors.Join(problems...))
	}
	return files, nil
}

func checkWAV(path string) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, err
	}
	if !info.Mode().IsRegular() {
		return 0, errors.New("not a regular file")
	}
	if info.Size() < MinWAVSize {
		return info.Size(), fmt.Errorf("size %d below %d-byte WAV header", info.Size(), MinWAVSize)
	}

	header := make([]byte, 12)
	if _, err := io.ReadFull(f, header); err != nil {
		return info.Size(), err
	}
	if !bytes.Equal(header[0:4], riffMagic) {
		return info.Size(), errors.New("missing RIFF magic at offset 0")
	}
	if !bytes.Equal(header[8:12], waveMagic) {
		return info.Size(), errors.New("missing WAVE magic at offset 8")
	}
	return info.Size(), nil
}
