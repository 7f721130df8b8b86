// Package fusefs adapts the gitfs virtual tree to the FUSE interface
// from cgofuse for direct kernel mounts. The mount is read-only; write
// operations keep the FileSystemBase defaults.
package fusefs

import (
	"context"
	"errors"
	"time"

	"github.com/winfsp/cgofuse/fuse"

	"github.com/SteadyHua/github1s/internal/gitfs"
)

// RepoFS implements the FUSE interface over a gitfs.FileSystem.
type RepoFS struct {
	fuse.FileSystemBase
	fs        *gitfs.FileSystem
	ctx       context.Context
	mountTime fuse.Timespec
}

// New creates a RepoFS. The context bounds the remote fetches issued
// on behalf of FUSE callbacks.
func New(ctx context.Context, fs *gitfs.FileSystem) *RepoFS {
	if ctx == nil {
		ctx = context.Background()
	}
	return &RepoFS{
		fs:        fs,
		ctx:       ctx,
		mountTime: fuse.NewTimespec(time.Now()),
	}
}

// Getattr (Stat)
func (r *RepoFS) Getattr(path string, stat *fuse.Stat_t, fh uint64) int {
	stat.Atim = r.mountTime
	stat.Mtim = r.mountTime
	stat.Ctim = r.mountTime
	stat.Birthtim = r.mountTime

	info, err := r.fs.Stat(r.ctx, path)
	if err != nil {
		return errno(err)
	}
	if info.IsDir {
		stat.Mode = fuse.S_IFDIR | 0o555
		stat.Nlink = 2
	} else {
		stat.Mode = fuse.S_IFREG | 0o444
		stat.Nlink = 1
		stat.Size = info.Size
	}
	if !info.ModTime.IsZero() {
		stat.Mtim = fuse.NewTimespec(info.ModTime)
	}
	return 0
}

// Readdir (List directory)
func (r *RepoFS) Readdir(path string, fill func(name string, stat *fuse.Stat_t, ofst int64) bool, ofst int64, fh uint64) int {
	entries, err := r.fs.ReadDir(r.ctx, path)
	if err != nil {
		return errno(err)
	}

	fill(".", nil, 0)
	fill("..", nil, 0)
	for _, e := range entries {
		fill(e.Name, nil, 0)
	}
	return 0
}

// Open checks that the path exists and is a file.
func (r *RepoFS) Open(path string, flags int) (int, uint64) {
	info, err := r.fs.Stat(r.ctx, path)
	if err != nil {
		return errno(err), 0
	}
	if info.IsDir {
		return -fuse.EISDIR, 0
	}
	return 0, 0
}

// Read (Cat file)
func (r *RepoFS) Read(path string, buff []byte, ofst int64, fh uint64) int {
	content, err := r.fs.ReadFile(r.ctx, path)
	if err != nil {
		return errno(err)
	}

	if ofst >= int64(len(content)) {
		return 0
	}
	end := ofst + int64(len(buff))
	if end > int64(len(content)) {
		end = int64(len(content))
	}
	return copy(buff, content[ofst:end])
}

func errno(err error) int {
	switch {
	case errors.Is(err, gitfs.ErrNotFound):
		return -fuse.ENOENT
	case errors.Is(err, gitfs.ErrNotDir):
		return -fuse.ENOTDIR
	case errors.Is(err, gitfs.ErrIsDir):
		return -fuse.EISDIR
	default:
		return -fuse.EIO
	}
}
