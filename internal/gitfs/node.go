// Package gitfs implements a read-only, lazily-populated virtual file
// tree over a single remote repository snapshot. Directory listings and
// file contents are fetched on demand through a Remote and cached in
// memory for the lifetime of the FileSystem.
package gitfs

import "time"

// Node is a single entry in the virtual tree: either a *Blob (file) or
// a *Tree (directory). Nodes are created once and never evicted; the
// snapshot being browsed is treated as immutable for the session.
type Node interface {
	Name() string
	OID() string
	Size() int64
	ModTime() time.Time
	IsDir() bool
}

// Blob is a file node. Content is fetched lazily: loaded == false means
// "not yet fetched", which is distinct from a present zero-byte content.
type Blob struct {
	name    string
	oid     string
	size    int64
	modTime time.Time

	content []byte
	loaded  bool
}

func (b *Blob) Name() string       { return b.name }
func (b *Blob) OID() string        { return b.oid }
func (b *Blob) ModTime() time.Time { return b.modTime }
func (b *Blob) IsDir() bool        { return false }

// Size returns the cached content length once loaded, otherwise the
// size hint reported by the remote listing.
func (b *Blob) Size() int64 {
	if b.loaded {
		return int64(len(b.content))
	}
	return b.size
}

// Tree is a directory node. Its children are tri-state: a nil childSet
// means "not yet populated" (children unknown), a non-nil childSet with
// zero entries means "known to have no children".
type Tree struct {
	name    string
	oid     string
	size    int64
	modTime time.Time

	children *childSet
}

func (t *Tree) Name() string       { return t.name }
func (t *Tree) OID() string        { return t.oid }
func (t *Tree) Size() int64        { return t.size }
func (t *Tree) ModTime() time.Time { return t.modTime }
func (t *Tree) IsDir() bool        { return true }

// Populated reports whether the children of t are known.
func (t *Tree) Populated() bool { return t.children != nil }

// DirEntry is a single directory-listing row.
type DirEntry struct {
	Name  string
	IsDir bool
	Size  int64
	OID   string
}

// Entries projects the populated children of t into listing order.
// Calling Entries on an unpopulated Tree is a programming error:
// callers must populate first.
func (t *Tree) Entries() []DirEntry {
	if t.children == nil {
		panic("gitfs: Entries called on unpopulated tree " + t.name)
	}
	out := make([]DirEntry, 0, len(t.children.names))
	for _, name := range t.children.names {
		n := t.children.nodes[name]
		out = append(out, DirEntry{Name: name, IsDir: n.IsDir(), Size: n.Size(), OID: n.OID()})
	}
	return out
}

// childSet is an insertion-ordered name -> node mapping.
type childSet struct {
	names []string
	nodes map[string]Node
}

func newChildSet(capacity int) *childSet {
	return &childSet{nodes: make(map[string]Node, capacity)}
}

func (cs *childSet) add(name string, n Node) {
	if _, dup := cs.nodes[name]; dup {
		return
	}
	cs.names = append(cs.names, name)
	cs.nodes[name] = n
}

func (cs *childSet) get(name string) Node {
	return cs.nodes[name]
}

// FileInfo is the result of Stat.
type FileInfo struct {
	Name    string
	Size    int64
	IsDir   bool
	ModTime time.Time
	OID     string
}

func infoFor(n Node) FileInfo {
	return FileInfo{
		Name:    n.Name(),
		Size:    n.Size(),
		IsDir:   n.IsDir(),
		ModTime: n.ModTime(),
		OID:     n.OID(),
	}
}
