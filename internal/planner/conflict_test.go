package planner

import (
	"os"
	"testing"
	"time"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockFS is a mock implementation of fsops.FS for testing
type mockFS struct {
	exists    map[string]bool
	lstat     map[string]os.FileInfo
	existsErr map[string]error
}

func newMockFS() *mockFS {
	return &mockFS{
		exists:    make(map[string]bool),
		lstat:     make(map[string]os.FileInfo),
		existsErr: make(map[string]error),
	}
}

func (m *mockFS) Exists(path string) (bool, error) {
	if err, ok := m.existsErr[path]; ok {
		return false, err
	}
	return m.exists[path], nil
}

func (m *mockFS) Lstat(path string) (os.FileInfo, error) {
	if info, ok := m.lstat[path]; ok {
		return info, nil
	}
	return nil, os.ErrNotExist
}

// Unused methods for mockFS
func (m *mockFS) AtomicWrite(path string, data []byte, perm os.FileMode) error { return nil }
func (m *mockFS) ReadFile(path string) ([]byte, error)                         { return nil, nil }

// mockFileInfo is a simple implementation of os.FileInfo
type mockFileInfo struct {
	name  string
	isDir bool
}

func (m *mockFileInfo) Name() string       { return m.name }
func (m *mockFileInfo) Size() int64        { return 0 }
func (m *mockFileInfo) Mode() os.FileMode  { return 0 }
func (m *mockFileInfo) ModTime() time.Time { return time.Time{} }
func (m *mockFileInfo) IsDir() bool        { return m.isDir }
func (m *mockFileInfo) Sys() interface{}   { return nil }

func TestConflictChecker_Check(t *testing.T) {
	tests := []struct {
		name    string
		targets []Target
		setupFS func(*mockFS)
		want    []Conflict
	}{
		{
			name: "fresh outputs",
			targets: []Target{
				{Slot: SlotMaster, Path: "/out/master.yaml"},
				{Slot: SlotPlacement, Path: "/out/placement.yaml"},
			},
		},
		{
			name:    "existing file is overwritten",
			targets: []Target{{Slot: SlotBundle, Path: "/out/bundle.yaml"}},
			setupFS: func(fs *mockFS) {
				fs.exists["/out/bundle.yaml"] = true
				fs.lstat["/out/bundle.yaml"] = &mockFileInfo{name: "bundle.yaml"}
			},
		},
		{
			name:    "missing path",
			targets: []Target{{Slot: SlotPlacement}},
			want: []Conflict{{
				Reason:   "No output path for placement document",
				Existing: "none",
				Incoming: SlotPlacement,
			}},
		},
		{
			name: "same path twice",
			targets: []Target{
				{Slot: SlotMaster, Path: "/out/master.yaml"},
				{Slot: SlotOverlay, Path: "/out/./master.yaml"},
			},
			want: []Conflict{{
				Path:     "/out/./master.yaml",
				Reason:   "Path is written by both master and overlay",
				Existing: "master",
				Incoming: SlotOverlay,
			}},
		},
		{
			name:    "directory at destination",
			targets: []Target{{Slot: SlotMaster, Path: "/out"}},
			setupFS: func(fs *mockFS) {
				fs.exists["/out"] = true
				fs.lstat["/out"] = &mockFileInfo{name: "out", isDir: true}
			},
			want: []Conflict{{
				Path:     "/out",
				Reason:   "Directory exists at destination",
				Existing: "directory",
				Incoming: SlotMaster,
			}},
		},
		{
			name:    "exists check fails",
			targets: []Target{{Slot: SlotMaster, Path: "/locked/master.yaml"}},
			setupFS: func(fs *mockFS) {
				fs.existsErr["/locked/master.yaml"] = errors.New("permission denied")
			},
			want: []Conflict{{
				Path:     "/locked/master.yaml",
				Reason:   "Failed to check path: permission denied",
				Existing: "unknown",
				Incoming: SlotMaster,
			}},
		},
		{
			name:    "stat fails",
			targets: []Target{{Slot: SlotMaster, Path: "/out/master.yaml"}},
			setupFS: func(fs *mockFS) {
				fs.exists["/out/master.yaml"] = true
			},
			want: []Conflict{{
				Path:     "/out/master.yaml",
				Reason:   "Failed to stat existing path: " + os.ErrNotExist.Error(),
				Existing: "unknown",
				Incoming: SlotMaster,
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := newMockFS()
			if tt.setupFS != nil {
				tt.setupFS(fs)
			}
			got := NewConflictChecker(fs).Check(tt.targets)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConflictChecker_ReportsEveryConflict(t *testing.T) {
	fs := newMockFS()
	got := NewConflictChecker(fs).Check([]Target{
		{Slot: SlotMaster},
		{Slot: SlotBundle, Path: "a.yaml"},
		{Slot: SlotPlacement, Path: "a.yaml"},
	})
	require.Len(t, got, 2)
	assert.Equal(t, SlotMaster, got[0].Incoming)
	assert.Equal(t, SlotPlacement, got[1].Incoming)
}
