package fetch

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// localBackend reads content from a directory on disk (file:// sources).
type localBackend struct {
	base string
}

func newLocalBackend(base string) *localBackend {
	return &localBackend{base: base}
}

func (b *localBackend) name() string { return "local" }

// resolve joins a repo-relative path against the base directory, rejecting
// anything that escapes it.
func (b *localBackend) resolve(p string) (string, bool) {
	full := filepath.Join(b.base, filepath.FromSlash(p))
	rel, err := filepath.Rel(b.base, full)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", false
	}
	return full, true
}

func (b *localBackend) fetchFile(ctx context.Context, p, _ string) (*File, error) {
	full, ok := b.resolve(p)
	if !ok {
		return nil, nil
	}

	data, err := os.ReadFile(full)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &File{Path: p, Content: string(data)}, nil
}

func (b *localBackend) fetchBinary(ctx context.Context, p, _ string) (*BinaryFile, error) {
	full, ok := b.resolve(p)
	if !ok {
		return nil, nil
	}

	data, err := os.ReadFile(full)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &BinaryFile{Path: p, Content: data, ContentType: contentTypeFor(p)}, nil
}

func (b *localBackend) listDir(ctx context.Context, dir, _ string) ([]string, error) {
	full, ok := b.resolve(dir)
	if !ok {
		return nil, nil
	}

	entries, err := os.ReadDir(full)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		paths = append(paths, dir+"/"+entry.Name())
	}
	sort.Strings(paths)
	return paths, nil
}
