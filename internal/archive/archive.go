// Package archive provides the virtual filesystem the definition loaders read from.
// Several sources can be mounted; a source mounted later overrides files at the same
// virtual path in earlier ones.
package archive

import (
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
)

var (
	// ErrNotFound is returned when a virtual path is not present in any source.
	ErrNotFound = errors.New("archive: file not found")
	// ErrUnsupported is returned for archive formats that cannot be mounted.
	ErrUnsupported = errors.New("archive: unsupported format")
)

// Source is a single root of virtual files.
type Source interface {
	Name() string                         // display name for logs
	Files() []string                      // all virtual paths, normalized
	ReadFile(name string) ([]byte, error) // content of a normalized path
}

// Matcher selects file names inside a directory.
type Matcher func(name string) bool

// FS is an ordered set of mounted sources with a merged file index.
type FS struct {
	sources []Source
	index   map[string]int      // path -> source position
	dirs    map[string][]string // dir -> child file names
}

// New returns an empty filesystem.
func New() *FS {
	return &FS{
		index: map[string]int{},
		dirs:  map[string][]string{},
	}
}

// Mount adds a source with a higher priority than every source mounted before.
func (fs *FS) Mount(src Source) {
	pos := len(fs.sources)
	fs.sources = append(fs.sources, src)

	for _, f := range src.Files() {
		f = Clean(f)
		if f == "" {
			continue
		}

		if _, seen := fs.index[f]; !seen {
			dir, base := path.Split(f)
			dir = strings.TrimSuffix(dir, "/")
			fs.dirs[dir] = append(fs.dirs[dir], base)
			for d := dir; d != ""; {
				parent, _ := path.Split(d)
				parent = strings.TrimSuffix(parent, "/")
				if _, ok := fs.dirs[parent]; !ok {
					fs.dirs[parent] = nil
				}
				if _, ok := fs.dirs[d]; !ok {
					fs.dirs[d] = nil
				}
				d = parent
			}
		}

		fs.index[f] = pos
	}
}

// Sources returns the mounted sources in priority order (lowest first).
func (fs *FS) Sources() []Source {
	return fs.sources
}

// HasDir reports whether any source contains files under dir.
func (fs *FS) HasDir(dir string) bool {
	_, ok := fs.dirs[Clean(dir)]

	return ok
}

// Dirs returns the names of the direct subdirectories of dir, sorted.
func (fs *FS) Dirs(dir string) []string {
	dir = Clean(dir)

	var out []string
	for d := range fs.dirs {
		if d == "" {
			continue
		}
		parent, name := path.Split(d)
		if strings.TrimSuffix(parent, "/") == dir {
			out = append(out, name)
		}
	}
	sort.Strings(out)

	return out
}

// Exists reports whether a virtual file exists.
func (fs *FS) Exists(name string) bool {
	_, ok := fs.index[Clean(name)]

	return ok
}

// ListFiles returns the full virtual paths of the direct children of dir accepted
// by match, sorted by name.
func (fs *FS) ListFiles(dir string, match Matcher) []string {
	dir = Clean(dir)
	names := append([]string(nil), fs.dirs[dir]...)
	sort.Strings(names)

	var out []string
	for _, n := range names {
		if match != nil && !match(n) {
			continue
		}
		if dir == "" {
			out = append(out, n)
			continue
		}
		out = append(out, dir+"/"+n)
	}

	return out
}

// ReadFile returns the content of a virtual file from the highest priority source.
func (fs *FS) ReadFile(name string) ([]byte, error) {
	name = Clean(name)
	pos, ok := fs.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	data, err := fs.sources[pos].ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read %s from %s: %w", name, fs.sources[pos].Name(), err)
	}

	return data, nil
}

// SourceOf returns the name of the source that answers for a path.
func (fs *FS) SourceOf(name string) (string, bool) {
	pos, ok := fs.index[Clean(name)]
	if !ok {
		return "", false
	}

	return fs.sources[pos].Name(), true
}

// Clean normalizes a virtual path: forward slashes, lower case, no leading slash.
func Clean(p string) string {
	p = strings.TrimSpace(strings.ReplaceAll(p, "\\", "/"))
	if p == "" {
		return ""
	}

	p = path.Clean("/" + strings.ToLower(p))

	return strings.TrimPrefix(p, "/")
}

// HasPrefix matches file names starting with prefix.
func HasPrefix(prefix string) Matcher {
	prefix = strings.ToLower(prefix)

	return func(name string) bool {
		return strings.HasPrefix(name, prefix)
	}
}

// HasExt matches file names with one of the extensions.
func HasExt(exts ...string) Matcher {
	return func(name string) bool {
		ext := strings.ToLower(path.Ext(name))
		for _, e := range exts {
			if ext == strings.ToLower(e) {
				return true
			}
		}

		return false
	}
}
