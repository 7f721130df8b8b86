package billyfs

import (
	"io"

	billy "github.com/go-git/go-billy/v5"
)

// blobFile implements billy.File over content already cached by the
// gitfs layer. Writes and truncation are rejected.
type blobFile struct {
	name string
	data []byte
	pos  int64
}

func (f *blobFile) Name() string { return f.name }

func (f *blobFile) Read(p []byte) (int, error) {
	if f.pos >= int64(len(f.data)) {
		return 0, io.EOF
	}
	n := copy(p, f.data[f.pos:])
	f.pos += int64(n)
	if f.pos >= int64(len(f.data)) {
		return n, io.EOF
	}
	return n, nil
}

func (f *blobFile) ReadAt(p []byte, off int64) (int, error) {
	if off >= int64(len(f.data)) {
		return 0, io.EOF
	}
	n := copy(p, f.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (f *blobFile) Seek(offset int64, whence int) (int64, error) {
	var newPos int64
	switch whence {
	case io.SeekStart:
		newPos = offset
	case io.SeekCurrent:
		newPos = f.pos + offset
	case io.SeekEnd:
		newPos = int64(len(f.data)) + offset
	}
	if newPos < 0 {
		newPos = 0
	}
	f.pos = newPos
	return f.pos, nil
}

func (f *blobFile) Write([]byte) (int, error) { return 0, errReadOnly }
func (f *blobFile) Truncate(int64) error      { return errReadOnly }
func (f *blobFile) Lock() error               { return nil }
func (f *blobFile) Unlock() error             { return nil }
func (f *blobFile) Close() error              { return nil }

// discardFile satisfies the host contract's no-op mutation entry
// points: writes succeed and are dropped, reads see an empty file.
type discardFile struct {
	name string
}

func (f *discardFile) Name() string                      { return f.name }
func (f *discardFile) Read([]byte) (int, error)          { return 0, io.EOF }
func (f *discardFile) ReadAt([]byte, int64) (int, error) { return 0, io.EOF }
func (f *discardFile) Seek(int64, int) (int64, error)    { return 0, nil }
func (f *discardFile) Write(p []byte) (int, error)       { return len(p), nil }
func (f *discardFile) Truncate(int64) error              { return nil }
func (f *discardFile) Lock() error                       { return nil }
func (f *discardFile) Unlock() error                     { return nil }
func (f *discardFile) Close() error                      { return nil }

var (
	_ billy.File = (*blobFile)(nil)
	_ billy.File = (*discardFile)(nil)
)
