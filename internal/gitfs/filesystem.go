package gitfs

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/SteadyHua/github1s/internal/logging"
)

// Options configures a FileSystem.
type Options struct {
	// DeepFetch selects the population strategy. When it returns true
	// a population request asks the remote for the entire subtree in
	// one call; otherwise one listing call is made per directory. The
	// flag is read at every population, so a change between calls is
	// honored. A nil func means shallow.
	DeepFetch func() bool
}

// StaticFlag adapts a fixed boolean to the DeepFetch option.
func StaticFlag(v bool) func() bool {
	return func() bool { return v }
}

// FileSystem is a read-only view of one repository snapshot. The tree
// starts as a single unpopulated root and is filled in as paths are
// visited. It is safe for concurrent use: node mutations happen at most
// once (children nil -> present, content unloaded -> loaded) under mu,
// and the singleflight group guarantees that concurrent requests for
// the same target share one in-flight remote fetch.
type FileSystem struct {
	remote Remote
	deep   func() bool

	mu    sync.RWMutex
	root  *Tree
	group singleflight.Group
}

// New creates a FileSystem over the given remote.
func New(remote Remote, opts Options) *FileSystem {
	deep := opts.DeepFetch
	if deep == nil {
		deep = StaticFlag(false)
	}
	return &FileSystem{remote: remote, deep: deep}
}

// Stat returns metadata for the node at path. The empty path (or "/")
// is the synthetic root.
func (fs *FileSystem) Stat(ctx context.Context, path string) (FileInfo, error) {
	n, err := fs.resolve(ctx, path, true)
	if err != nil {
		return FileInfo{}, err
	}
	if n == nil {
		return FileInfo{}, pathError("stat", path, ErrNotFound)
	}
	return infoFor(n), nil
}

// ReadDir lists the directory at path, populating it if needed.
func (fs *FileSystem) ReadDir(ctx context.Context, path string) ([]DirEntry, error) {
	n, err := fs.resolve(ctx, path, false)
	if err != nil {
		return nil, err
	}
	tree, ok := n.(*Tree)
	if !ok {
		return nil, pathError("readdir", path, ErrNotDir)
	}
	if err := fs.populate(ctx, tree, normalize(path)); err != nil {
		return nil, err
	}
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return tree.Entries(), nil
}

// ReadFile returns the full content of the file at path, fetching it
// from the remote on first read and from the cache afterwards.
func (fs *FileSystem) ReadFile(ctx context.Context, path string) ([]byte, error) {
	n, err := fs.resolve(ctx, path, false)
	if err != nil {
		return nil, err
	}
	blob, ok := n.(*Blob)
	if !ok {
		return nil, pathError("read", path, ErrIsDir)
	}
	return fs.loadContent(ctx, blob, normalize(path))
}

// Subscription is a change-notification registration handle.
type Subscription struct{}

// Close cancels the subscription.
func (Subscription) Close() error { return nil }

// Watch registers for change notifications under path. The snapshot is
// immutable for the session, so the subscription never delivers events.
func (fs *FileSystem) Watch(path string) Subscription {
	return Subscription{}
}

// resolve walks the cached tree from the root, populating unpopulated
// directories along the way, and returns the node at path. With
// allowMissing set, an absent path yields (nil, nil) instead of
// ErrNotFound; a genuine type mismatch (descending through a file)
// still fails with ErrNotDir so callers can tell the two apart.
//
// Only trees that resolve passes through are populated; the final
// node's own children or content are the caller's concern.
func (fs *FileSystem) resolve(ctx context.Context, path string, allowMissing bool) (Node, error) {
	var cur Node = fs.rootNode()
	walked := ""
	for _, seg := range splitPath(path) {
		tree, ok := cur.(*Tree)
		if !ok {
			return nil, pathError("resolve", path, ErrNotDir)
		}
		if err := fs.populate(ctx, tree, walked); err != nil {
			if allowMissing && errors.Is(err, ErrNotFound) {
				return nil, nil
			}
			return nil, err
		}
		fs.mu.RLock()
		child := tree.children.get(seg)
		fs.mu.RUnlock()
		if child == nil {
			if allowMissing {
				return nil, nil
			}
			return nil, pathError("resolve", path, ErrNotFound)
		}
		cur = child
		walked = joinPath(walked, seg)
	}
	return cur, nil
}

// rootNode returns the synthetic root, creating it on first access.
func (fs *FileSystem) rootNode() *Tree {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if fs.root == nil {
		fs.root = &Tree{modTime: time.Now()}
	}
	return fs.root
}

// populate fills tree.children from the remote, choosing the strategy
// by the feature flag at call time. It is a no-op for an already
// populated tree. On failure children stay nil so a later call retries;
// concurrent calls for the same directory coalesce into one fetch.
func (fs *FileSystem) populate(ctx context.Context, tree *Tree, dir string) error {
	fs.mu.RLock()
	populated := tree.children != nil
	fs.mu.RUnlock()
	if populated {
		return nil
	}

	key := "tree:" + fs.remote.Key() + ":" + dir
	_, err, _ := fs.group.Do(key, func() (any, error) {
		fs.mu.RLock()
		done := tree.children != nil
		fs.mu.RUnlock()
		if done {
			return nil, nil
		}

		deep := fs.deep()
		var (
			entries []RemoteEntry
			err     error
		)
		if deep {
			entries, err = fs.remote.ReadTree(ctx, dir)
		} else {
			entries, err = fs.remote.ReadDir(ctx, dir)
		}
		if err != nil {
			logging.L().Warn("populate failed",
				zap.String("dir", dir), zap.Bool("deep", deep), zap.Error(err))
			return nil, wrapRemote("populate", key, err)
		}
		logging.L().Debug("populated directory",
			zap.String("dir", dir), zap.Bool("deep", deep), zap.Int("entries", len(entries)))

		cs := buildChildren(entries, time.Now())
		fs.mu.Lock()
		if tree.children == nil {
			tree.children = cs
		}
		fs.mu.Unlock()
		return nil, nil
	})
	return err
}

// loadContent returns the blob's content, fetching and caching it on
// first read. Concurrent reads of the same file share one fetch; a
// failed fetch leaves the blob untouched.
func (fs *FileSystem) loadContent(ctx context.Context, blob *Blob, path string) ([]byte, error) {
	fs.mu.RLock()
	if blob.loaded {
		content := blob.content
		fs.mu.RUnlock()
		return content, nil
	}
	fs.mu.RUnlock()

	key := "blob:" + fs.remote.Key() + ":" + path
	v, err, _ := fs.group.Do(key, func() (any, error) {
		fs.mu.RLock()
		if blob.loaded {
			content := blob.content
			fs.mu.RUnlock()
			return content, nil
		}
		fs.mu.RUnlock()

		data, err := fs.remote.ReadBlob(ctx, path, blob.oid)
		if err != nil {
			logging.L().Warn("content fetch failed",
				zap.String("path", path), zap.Error(err))
			return nil, wrapRemote("fetch", key, err)
		}
		logging.L().Debug("fetched content",
			zap.String("path", path), zap.Int("bytes", len(data)))

		fs.mu.Lock()
		if !blob.loaded {
			blob.content = data
			blob.loaded = true
		}
		data = blob.content
		fs.mu.Unlock()
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// buildChildren converts a remote response into a childSet. Entries
// with inlined nested children become already-populated trees, short
// circuiting future population calls for those descendants. Inlined
// text is trusted only when the remote did not flag the file binary
// and the text length matches the reported byte size; otherwise the
// content stays absent and the per-file fetch is authoritative.
func buildChildren(entries []RemoteEntry, now time.Time) *childSet {
	cs := newChildSet(len(entries))
	for _, e := range entries {
		if e.Name == "" {
			continue
		}
		if e.Dir {
			t := &Tree{name: e.Name, oid: e.OID, size: e.Size, modTime: now}
			if e.EntriesKnown {
				t.children = buildChildren(e.Entries, now)
			}
			cs.add(e.Name, t)
			continue
		}
		b := &Blob{name: e.Name, oid: e.OID, size: e.Size, modTime: now}
		if e.Text != nil && !e.Binary && int64(len(*e.Text)) == e.Size {
			b.content = []byte(*e.Text)
			b.loaded = true
		}
		cs.add(e.Name, b)
	}
	return cs
}

// wrapRemote classifies a remote failure: the lookup sentinels pass
// through untouched (a stat/list on a vanished path is not a transport
// error), everything else is wrapped as a RemoteError.
func wrapRemote(op, target string, err error) error {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrNotDir) {
		return err
	}
	return &RemoteError{Op: op, Target: target, Err: err}
}

// splitPath breaks a slash-delimited relative path into non-empty
// segments. "" and "/" both denote the root.
func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

func joinPath(dir, name string) string {
	if dir == "" {
		return name
	}
	return dir + "/" + name
}

// normalize reduces a path to its canonical repo-relative form.
func normalize(p string) string {
	return strings.Join(splitPath(p), "/")
}
