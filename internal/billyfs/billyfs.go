// Package billyfs adapts the gitfs virtual tree to billy.Filesystem
// for hosts that speak billy (the NFS server, go-git tooling). The
// filesystem is read-only by design: mutation entry points exist only
// to satisfy the interface, succeed as no-ops, and never touch the
// remote or the cached tree.
package billyfs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/helper/chroot"

	"github.com/SteadyHua/github1s/internal/gitfs"
)

var errReadOnly = fmt.Errorf("read-only filesystem")

// RepoFS is a read-only billy.Filesystem over a gitfs.FileSystem.
type RepoFS struct {
	fs        *gitfs.FileSystem
	ctx       context.Context
	mountTime time.Time
}

// New creates a RepoFS. The context bounds all remote fetches issued
// on behalf of billy calls, which carry no context of their own.
func New(ctx context.Context, fs *gitfs.FileSystem) *RepoFS {
	if ctx == nil {
		ctx = context.Background()
	}
	return &RepoFS{fs: fs, ctx: ctx, mountTime: time.Now()}
}

// --- billy.Basic ---

// Create succeeds as a no-op: the returned file swallows writes and
// nothing reaches the remote.
func (r *RepoFS) Create(filename string) (billy.File, error) {
	return &discardFile{name: cleanPath(filename)}, nil
}

func (r *RepoFS) Open(filename string) (billy.File, error) {
	return r.OpenFile(filename, os.O_RDONLY, 0)
}

func (r *RepoFS) OpenFile(filename string, flag int, perm os.FileMode) (billy.File, error) {
	filename = cleanPath(filename)
	if flag&(os.O_WRONLY|os.O_RDWR|os.O_CREATE|os.O_TRUNC) != 0 {
		return &discardFile{name: filename}, nil
	}

	content, err := r.fs.ReadFile(r.ctx, filename)
	if err != nil {
		return nil, translate("open", filename, err)
	}
	return &blobFile{name: filename, data: content}, nil
}

func (r *RepoFS) Stat(filename string) (os.FileInfo, error) {
	return r.Lstat(filename)
}

// Rename succeeds as a no-op.
func (r *RepoFS) Rename(oldpath, newpath string) error {
	return nil
}

// Remove succeeds as a no-op.
func (r *RepoFS) Remove(filename string) error {
	return nil
}

func (r *RepoFS) Join(elem ...string) string {
	return filepath.Join(elem...)
}

// --- billy.TempFile ---

func (r *RepoFS) TempFile(dir, prefix string) (billy.File, error) {
	return nil, billy.ErrNotSupported
}

// --- billy.Dir ---

func (r *RepoFS) ReadDir(path string) ([]os.FileInfo, error) {
	path = cleanPath(path)

	entries, err := r.fs.ReadDir(r.ctx, path)
	if err != nil {
		return nil, translate("readdir", path, err)
	}
	infos := make([]os.FileInfo, 0, len(entries))
	for _, e := range entries {
		mode := os.FileMode(0o444)
		if e.IsDir {
			mode = os.ModeDir | 0o555
		}
		infos = append(infos, &staticFileInfo{
			name:    e.Name,
			size:    e.Size,
			mode:    mode,
			modTime: r.mountTime,
		})
	}
	return infos, nil
}

// MkdirAll succeeds as a no-op.
func (r *RepoFS) MkdirAll(filename string, perm os.FileMode) error {
	return nil
}

// --- billy.Symlink ---

func (r *RepoFS) Lstat(filename string) (os.FileInfo, error) {
	filename = cleanPath(filename)

	info, err := r.fs.Stat(r.ctx, filename)
	if err != nil {
		return nil, translate("lstat", filename, err)
	}
	name := info.Name
	if name == "" {
		name = "/"
	}
	mode := os.FileMode(0o444)
	if info.IsDir {
		mode = os.ModeDir | 0o555
	}
	modTime := info.ModTime
	if modTime.IsZero() {
		modTime = r.mountTime
	}
	return &staticFileInfo{name: name, size: info.Size, mode: mode, modTime: modTime}, nil
}

func (r *RepoFS) Symlink(target, link string) error {
	return billy.ErrNotSupported
}

func (r *RepoFS) Readlink(link string) (string, error) {
	return "", billy.ErrNotSupported
}

// --- billy.Chroot ---

func (r *RepoFS) Chroot(path string) (billy.Filesystem, error) {
	return chroot.New(r, path), nil
}

func (r *RepoFS) Root() string {
	return "/"
}

// --- billy.Capable ---

func (r *RepoFS) Capabilities() billy.Capability {
	return billy.ReadCapability | billy.SeekCapability
}

// translate maps the gitfs taxonomy onto os.PathError values hosts
// understand.
func translate(op, path string, err error) error {
	switch {
	case errors.Is(err, gitfs.ErrNotFound):
		return &os.PathError{Op: op, Path: path, Err: os.ErrNotExist}
	case errors.Is(err, gitfs.ErrNotDir), errors.Is(err, gitfs.ErrIsDir):
		return &os.PathError{Op: op, Path: path, Err: err}
	default:
		return &os.PathError{Op: op, Path: path, Err: err}
	}
}

// cleanPath normalizes a billy path to a clean absolute path.
func cleanPath(path string) string {
	path = filepath.Clean("/" + path)
	if path == "." {
		return "/"
	}
	return path
}

// staticFileInfo implements os.FileInfo with static values.
type staticFileInfo struct {
	name    string
	size    int64
	mode    os.FileMode
	modTime time.Time
}

func (fi *staticFileInfo) Name() string       { return fi.name }
func (fi *staticFileInfo) Size() int64        { return fi.size }
func (fi *staticFileInfo) Mode() os.FileMode  { return fi.mode }
func (fi *staticFileInfo) ModTime() time.Time { return fi.modTime }
func (fi *staticFileInfo) IsDir() bool        { return fi.mode.IsDir() }
func (fi *staticFileInfo) Sys() interface{}   { return nil }

// Compile-time interface checks.
var (
	_ billy.Filesystem = (*RepoFS)(nil)
	_ billy.Capable    = (*RepoFS)(nil)
)
