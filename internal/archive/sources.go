package archive

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/klauspost/compress/zip"
)

// DirSource serves files from an extracted directory tree.
type DirSource struct {
	root  string
	files map[string]string // virtual path -> os path
}

// OpenDir indexes every regular file below root.
func OpenDir(root string) (*DirSource, error) {
	src := &DirSource{root: root, files: map[string]string{}}

	err := filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}

		src.files[Clean(filepath.ToSlash(rel))] = p

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("index %s: %w", root, err)
	}

	return src, nil
}

// Name returns the root directory.
func (s *DirSource) Name() string { return s.root }

// Files returns the indexed virtual paths.
func (s *DirSource) Files() []string { return sortedKeys(s.files) }

// ReadFile reads a file from disk.
func (s *DirSource) ReadFile(name string) ([]byte, error) {
	p, ok := s.files[Clean(name)]
	if !ok {
		return nil, ErrNotFound
	}

	return os.ReadFile(p)
}

// Stat returns the file info of an indexed file.
func (s *DirSource) Stat(name string) (os.FileInfo, error) {
	p, ok := s.files[Clean(name)]
	if !ok {
		return nil, ErrNotFound
	}

	return os.Stat(p)
}

// ZipSource serves files from a zip archive (.zip or zip-layout .scs mods).
type ZipSource struct {
	path  string
	rc    *zip.ReadCloser
	files map[string]*zip.File
}

// OpenZip opens a zip archive and indexes its entries.
func OpenZip(path string) (*ZipSource, error) {
	rc, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open zip %s: %w", path, err)
	}

	src := &ZipSource{path: path, rc: rc, files: map[string]*zip.File{}}
	for _, f := range rc.File {
		if f.FileInfo().IsDir() {
			continue
		}
		src.files[Clean(f.Name)] = f
	}

	return src, nil
}

// Name returns the archive path.
func (s *ZipSource) Name() string { return s.path }

// Files returns the archive entry paths.
func (s *ZipSource) Files() []string { return sortedKeys(s.files) }

// ReadFile decompresses one entry.
func (s *ZipSource) ReadFile(name string) ([]byte, error) {
	f, ok := s.files[Clean(name)]
	if !ok {
		return nil, ErrNotFound
	}

	r, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()

	return io.ReadAll(r)
}

// Close releases the archive handle.
func (s *ZipSource) Close() error {
	return s.rc.Close()
}

// MemSource is an in-memory source, used for fixtures and generated overlays.
type MemSource struct {
	name  string
	files map[string][]byte
}

// NewMem builds a memory source from path -> content pairs.
func NewMem(name string, files map[string]string) *MemSource {
	src := &MemSource{name: name, files: map[string][]byte{}}
	for p, content := range files {
		src.files[Clean(p)] = []byte(content)
	}

	return src
}

// Put adds or replaces a file.
func (s *MemSource) Put(name string, data []byte) {
	s.files[Clean(name)] = data
}

// Name returns the source name.
func (s *MemSource) Name() string { return s.name }

// Files returns the stored paths.
func (s *MemSource) Files() []string { return sortedKeys(s.files) }

// ReadFile returns a copy of the stored content.
func (s *MemSource) ReadFile(name string) ([]byte, error) {
	data, ok := s.files[Clean(name)]
	if !ok {
		return nil, ErrNotFound
	}

	return append([]byte(nil), data...), nil
}

// sortedKeys returns the keys of a map in lexical order.
func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)

	return out
}
