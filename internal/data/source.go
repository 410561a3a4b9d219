package data

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
)

// Source yields location records in dataset order.
type Source interface {
	Records(ctx context.Context) ([]LocationRecord, error)
}

// FileSource reads a single YAML or JSON file.
type FileSource struct {
	Path string
}

// Records implements Source.
func (s FileSource) Records(_ context.Context) ([]LocationRecord, error) {
	format, ok := FormatOf(s.Path)
	if !ok {
		return nil, fmt.Errorf("dataset %s: unknown extension", s.Path)
	}
	raw, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("reading dataset %s: %w", s.Path, err)
	}
	return Decode(raw, format, s.Path)
}

// DirSource reads every dataset file in a directory (non-recursive).
// Files are decoded in parallel and concatenated in lexical file order.
type DirSource struct {
	Dir string
}

// Records implements Source.
func (s DirSource) Records(ctx context.Context) ([]LocationRecord, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, fmt.Errorf("reading dataset dir %s: %w", s.Dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, ok := FormatOf(e.Name()); !ok {
			slog.Debug("skip dataset file (extension)", "file", e.Name())
			continue
		}
		files = append(files, filepath.Join(s.Dir, e.Name()))
	}
	sort.Strings(files)

	parts := make([][]LocationRecord, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			recs, err := FileSource{Path: path}.Records(gctx)
			if err != nil {
				return err
			}
			parts[i] = recs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []LocationRecord
	for _, p := range parts {
		out = append(out, p...)
	}
	slog.Debug("dataset dir decoded", "dir", s.Dir, "files", len(files), "records", len(out))
	return out, nil
}

// PathSource picks FileSource or DirSource depending on what path is.
func PathSource(path string) (Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", path, err)
	}
	if info.IsDir() {
		return DirSource{Dir: path}, nil
	}
	return FileSource{Path: path}, nil
}

// SliceSource serves in-memory records. Used by fixtures and tests.
type SliceSource []LocationRecord

// Records implements Source.
func (s SliceSource) Records(_ context.Context) ([]LocationRecord, error) {
	out := make([]LocationRecord, len(s))
	copy(out, s)
	return out, nil
}
