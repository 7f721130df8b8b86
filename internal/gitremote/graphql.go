package gitremote

import (
	"context"
	"fmt"

	"github.com/shurcooL/githubv4"

	"github.com/SteadyHua/github1s/internal/gitfs"
)

// The deep strategy asks GraphQL for the whole subtree in one query.
// Struct-typed queries cannot recurse, so nesting is expressed to a
// fixed depth; trees below that arrive without inlined children and
// are populated lazily like any other directory.

type gqlBlob struct {
	Text     *string
	IsBinary bool
	ByteSize int
}

type gqlEntryLeaf struct {
	Name   string
	Type   string
	OID    string `graphql:"oid"`
	Object struct {
		Blob gqlBlob `graphql:"... on Blob"`
	}
}

type gqlEntryMid struct {
	Name   string
	Type   string
	OID    string `graphql:"oid"`
	Object struct {
		Blob gqlBlob `graphql:"... on Blob"`
		Tree struct {
			Entries []gqlEntryLeaf
		} `graphql:"... on Tree"`
	}
}

type gqlEntryTop struct {
	Name   string
	Type   string
	OID    string `graphql:"oid"`
	Object struct {
		Blob gqlBlob `graphql:"... on Blob"`
		Tree struct {
			Entries []gqlEntryMid
		} `graphql:"... on Tree"`
	}
}

// ReadTree implements the deep strategy: a single GraphQL query for
// the subtree rooted at dir, with nested children and small text
// contents inlined. A null object means the target does not exist at
// the queried ref; a non-tree object means it is a file.
func (c *Client) ReadTree(ctx context.Context, dir string) ([]gitfs.RemoteEntry, error) {
	ref, err := c.resolveRef(ctx)
	if err != nil {
		return nil, err
	}

	var q struct {
		Repository struct {
			Object *struct {
				Typename string `graphql:"__typename"`
				Tree     struct {
					Entries []gqlEntryTop
				} `graphql:"... on Tree"`
			} `graphql:"object(expression: $expr)"`
		} `graphql:"repository(owner: $owner, name: $name)"`
	}
	vars := map[string]interface{}{
		"owner": githubv4.String(c.loc.Owner),
		"name":  githubv4.String(c.loc.Repo),
		"expr":  githubv4.String(ref + ":" + c.repoPath(dir)),
	}
	if err := c.gql.Query(ctx, &q, vars); err != nil {
		return nil, fmt.Errorf("subtree %s: %w", c.repoPath(dir), err)
	}

	obj := q.Repository.Object
	if obj == nil {
		return nil, fmt.Errorf("%s: %w", c.repoPath(dir), gitfs.ErrNotFound)
	}
	if obj.Typename != "Tree" {
		return nil, fmt.Errorf("%s: %w", c.repoPath(dir), gitfs.ErrNotDir)
	}

	entries := make([]gitfs.RemoteEntry, 0, len(obj.Tree.Entries))
	for _, e := range obj.Tree.Entries {
		entries = append(entries, topEntry(e))
	}
	return entries, nil
}

func topEntry(e gqlEntryTop) gitfs.RemoteEntry {
	re := baseEntry(e.Name, e.Type, e.OID, e.Object.Blob)
	if re.Dir {
		re.EntriesKnown = true
		re.Entries = make([]gitfs.RemoteEntry, 0, len(e.Object.Tree.Entries))
		for _, child := range e.Object.Tree.Entries {
			re.Entries = append(re.Entries, midEntry(child))
		}
	}
	return re
}

func midEntry(e gqlEntryMid) gitfs.RemoteEntry {
	re := baseEntry(e.Name, e.Type, e.OID, e.Object.Blob)
	if re.Dir {
		re.EntriesKnown = true
		re.Entries = make([]gitfs.RemoteEntry, 0, len(e.Object.Tree.Entries))
		for _, child := range e.Object.Tree.Entries {
			re.Entries = append(re.Entries, leafEntry(child))
		}
	}
	return re
}

// leafEntry is the deepest inlined level: subdirectories here come
// back without children and fall back to lazy population.
func leafEntry(e gqlEntryLeaf) gitfs.RemoteEntry {
	return baseEntry(e.Name, e.Type, e.OID, e.Object.Blob)
}

func baseEntry(name, typ, oid string, blob gqlBlob) gitfs.RemoteEntry {
	re := gitfs.RemoteEntry{Name: name, Dir: typ == "tree", OID: oid}
	if !re.Dir {
		re.Size = int64(blob.ByteSize)
		re.Binary = blob.IsBinary
		if !blob.IsBinary {
			re.Text = blob.Text
		}
	}
	return re
}
