package integration

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/danieljhkim/prod2lab/internal/chooser"
	"github.com/danieljhkim/prod2lab/internal/config"
	"github.com/danieljhkim/prod2lab/internal/engine"
	"github.com/danieljhkim/prod2lab/internal/hash"
)

// testFS is a filesystem implementation that keeps files in memory for testing
type testFS struct {
	files map[string][]byte
	dirs  map[string]bool
}

func newTestFS() *testFS {
	return &testFS{
		files: make(map[string][]byte),
		dirs:  make(map[string]bool),
	}
}

func (fs *testFS) Exists(path string) (bool, error) {
	_, hasFile := fs.files[path]
	return hasFile || fs.dirs[path], nil
}

func (fs *testFS) Lstat(path string) (os.FileInfo, error) {
	if fs.dirs[path] {
		return &mockFileInfo{name: filepath.Base(path), isDir: true}, nil
	}
	if content, ok := fs.files[path]; ok {
		return &mockFileInfo{name: filepath.Base(path), size: int64(len(content))}, nil
	}
	return nil, os.ErrNotExist
}

// mkdirAll records path and its parents as directories.
func (fs *testFS) mkdirAll(path string) {
	for p := path; p != "." && p != string(filepath.Separator); p = filepath.Dir(p) {
		fs.dirs[p] = true
	}
}

func (fs *testFS) AtomicWrite(path string, data []byte, perm os.FileMode) error {
	fs.mkdirAll(filepath.Dir(path))
	fs.files[path] = append([]byte(nil), data...)
	return nil
}

func (fs *testFS) ReadFile(path string) ([]byte, error) {
	if content, ok := fs.files[path]; ok {
		return append([]byte(nil), content...), nil
	}
	return nil, os.ErrNotExist
}

// filesUnder lists the files below dir in sorted order.
func (fs *testFS) filesUnder(dir string) []string {
	prefix := dir + string(filepath.Separator)
	var out []string
	for p := range fs.files {
		if strings.HasPrefix(p, prefix) {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

// mockFileInfo implements os.FileInfo
type mockFileInfo struct {
	name  string
	size  int64
	isDir bool
}

func (m *mockFileInfo) Name() string { return m.name }
func (m *mockFileInfo) Size() int64  { return m.size }
func (m *mockFileInfo) Mode() os.FileMode {
	if m.isDir {
		return os.ModeDir | 0755
	}
	return 0644
}
func (m *mockFileInfo) ModTime() time.Time { return time.Time{} }
func (m *mockFileInfo) IsDir() bool        { return m.isDir }
func (m *mockFileInfo) Sys() interface{}   { return nil }

// setupTestEngine creates an engine over an in-memory filesystem with a
// seeded chooser and the real SHA-256 hasher.
func setupTestEngine(t *testing.T, seed int64) (*engine.Engine, *testFS) {
	t.Helper()
	fs := newTestFS()
	cfg := config.Default()
	cfg.Placement.Seed = seed
	eng := engine.New(fs, chooser.NewSeeded(seed), hash.NewSHA256Hasher(), cfg)
	return eng, fs
}

// docs maps a document name to its input and output path under /site.
func docs(names ...string) map[string]engine.DocumentPaths {
	out := make(map[string]engine.DocumentPaths, len(names))
	for _, n := range names {
		out[n] = engine.DocumentPaths{
			In:  filepath.Join("/site/prod", n+".yaml"),
			Out: filepath.Join("/site/lab", n+".yaml"),
		}
	}
	return out
}
