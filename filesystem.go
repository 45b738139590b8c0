package xml2texi

import (
	"os"
	"path"
	"path/filepath"
)

// FileSystem implements access to files. The elements in a file path are
// separated by slash ('/', U+002F) characters, regardless of host
// operating system convention.
type FileSystem interface {
	// ReadFile reads the file named by filename and returns the contents.
	ReadFile(name string) ([]byte, error)
}

// Dir implements FileSystem using the native file system rooted at a
// directory. Relative names are resolved against it; absolute names are
// read as given, since xi:include hrefs may point anywhere on disk.
//
// An empty Dir is treated as "."
type Dir string

// ReadFile reads the file named by filename and returns the contents.
func (d Dir) ReadFile(name string) ([]byte, error) {
	dir := string(d)
	if dir == "" {
		dir = "."
	}
	return os.ReadFile(filepath.FromSlash(absname(filepath.ToSlash(dir), name)))
}

// MapFS implements FileSystem using an in-memory map, keyed by cleaned
// slash separated path.
type MapFS map[string]string

// ReadFile returns the content for name, or os.ErrNotExist.
func (fs MapFS) ReadFile(name string) ([]byte, error) {
	search := path.Clean("/" + name)
	content, ok := fs[search]
	if !ok {
		return nil, os.ErrNotExist
	}
	return []byte(content), nil
}

func absname(cwd string, name string) string {
	if len(name) > 0 && name[0] == '/' {
		return path.Clean(name)
	}
	return path.Join(cwd, name)
}
