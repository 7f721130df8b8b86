package gitfs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

// newDeepRemote builds a fixture whose bulk response inlines one level
// of nested children and small text contents:
//
//	/logo.png    (binary, content withheld)
//	/NOTES       (text, inlined)
//	/docs/       (children inlined: guide.md text inlined)
//	/docs/assets (nested too deep, arrives unpopulated)
func newDeepRemote() *fakeRemote {
	f := newFakeRemote()
	f.trees[""] = []RemoteEntry{
		{Name: "logo.png", OID: "sha-logo", Size: 4, Binary: true},
		{Name: "NOTES", OID: "sha-notes", Size: 5, Text: strPtr("notes")},
		{
			Name: "docs", Dir: true, OID: "sha-docs",
			EntriesKnown: true,
			Entries: []RemoteEntry{
				{Name: "guide.md", OID: "sha-guide", Size: 6, Text: strPtr("guide\n")},
				{Name: "assets", Dir: true, OID: "sha-assets"},
			},
		},
	}
	f.trees["docs/assets"] = []RemoteEntry{
		{Name: "diagram.svg", OID: "sha-svg", Size: 5, Text: strPtr("<svg>")},
	}
	f.blobs["sha-logo"] = []byte{0x89, 'P', 'N', 'G'}
	f.blobs["sha-notes"] = []byte("notes")
	return f
}

func newDeepFS(remote Remote) *FileSystem {
	return New(remote, Options{DeepFetch: StaticFlag(true)})
}

func TestDeepInlinesTextContent(t *testing.T) {
	remote := newDeepRemote()
	fs := newDeepFS(remote)

	content, err := fs.ReadFile(context.Background(), "NOTES")
	require.NoError(t, err)
	assert.Equal(t, []byte("notes"), content)
	assert.Equal(t, 0, remote.blobCalls["NOTES"], "inlined text must not trigger a content fetch")
}

func TestDeepBinaryFallback(t *testing.T) {
	remote := newDeepRemote()
	fs := newDeepFS(remote)

	// The bulk response withholds binary payloads; the first read falls
	// back to exactly one per-file fetch.
	content, err := fs.ReadFile(context.Background(), "logo.png")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, content)
	assert.Equal(t, 1, remote.blobCalls["logo.png"])

	_, err = fs.ReadFile(context.Background(), "logo.png")
	require.NoError(t, err)
	assert.Equal(t, 1, remote.blobCalls["logo.png"])
}

func TestDeepInlinedChildrenShortCircuitPopulation(t *testing.T) {
	remote := newDeepRemote()
	fs := newDeepFS(remote)

	entries, err := fs.ReadDir(context.Background(), "docs")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "guide.md", entries[0].Name)
	assert.Equal(t, "assets", entries[1].Name)

	assert.Equal(t, 1, remote.treeCalls[""])
	assert.Equal(t, 0, remote.treeCalls["docs"], "inlined children must not be re-fetched")
}

func TestDeepBeyondInlinedDepthPopulatesLazily(t *testing.T) {
	remote := newDeepRemote()
	fs := newDeepFS(remote)

	entries, err := fs.ReadDir(context.Background(), "docs/assets")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "diagram.svg", entries[0].Name)
	assert.Equal(t, 1, remote.treeCalls["docs/assets"])
}

func TestDeepTextSizeMismatchFallsBack(t *testing.T) {
	remote := newFakeRemote()
	// The remote claims 10 bytes but inlines 3: the inline channel is
	// not trusted, the per-file fetch is authoritative.
	remote.trees[""] = []RemoteEntry{
		{Name: "data.txt", OID: "sha-data", Size: 10, Text: strPtr("abc")},
	}
	remote.blobs["sha-data"] = []byte("abcdefghij")
	fs := newDeepFS(remote)

	content, err := fs.ReadFile(context.Background(), "data.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("abcdefghij"), content)
	assert.Equal(t, 1, remote.blobCalls["data.txt"])
}

func TestStrategyFlagReadPerPopulation(t *testing.T) {
	remote := newTestRemote()
	remote.trees["src"] = []RemoteEntry{
		{Name: "main.go", OID: "sha-main", Size: 13},
	}
	deep := false
	fs := New(remote, Options{DeepFetch: func() bool { return deep }})
	ctx := context.Background()

	_, err := fs.ReadDir(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 1, remote.dirCalls[""])

	deep = true
	_, err = fs.ReadDir(ctx, "src")
	require.NoError(t, err)
	assert.Equal(t, 1, remote.treeCalls["src"])
	assert.Equal(t, 0, remote.dirCalls["src"])
}
