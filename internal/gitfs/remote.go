package gitfs

import "context"

// RemoteEntry is one entry in a remote listing or subtree response.
//
// Shallow responses fill only Name, Dir, OID and Size. Deep responses
// may additionally inline Text for files (unless Binary is set) and
// nested Entries for subdirectories; EntriesKnown distinguishes "no
// inlined children provided" from "known to be empty".
type RemoteEntry struct {
	Name string
	Dir  bool
	OID  string
	Size int64

	Text   *string
	Binary bool

	Entries      []RemoteEntry
	EntriesKnown bool
}

// Remote is the boundary to the service that hosts the repository
// snapshot. Implementations are bound to one {owner, repo, ref} and
// take repo-relative, slash-delimited paths ("" is the repo root).
//
// A missing or non-directory target must surface as ErrNotFound or
// ErrNotDir (possibly wrapped); any other failure is treated as a
// transport error.
type Remote interface {
	// ReadDir returns the immediate children of dir, in remote order.
	ReadDir(ctx context.Context, dir string) ([]RemoteEntry, error)

	// ReadTree returns the subtree rooted at dir in one call, with
	// nested children and small text contents inlined to whatever
	// depth the remote provides.
	ReadTree(ctx context.Context, dir string) ([]RemoteEntry, error)

	// ReadBlob returns the raw bytes of the blob at path with the
	// given content id, decoded from its transport encoding.
	ReadBlob(ctx context.Context, path, oid string) ([]byte, error)

	// Key returns the canonical identity of the snapshot
	// ("owner/repo@ref"), used to key deduplicated requests.
	Key() string
}
