package gitremote

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLocatorShorthand(t *testing.T) {
	loc, err := ParseLocator("golang/go")
	require.NoError(t, err)
	assert.Equal(t, Locator{Owner: "golang", Repo: "go"}, loc)
}

func TestParseLocatorShorthandWithRefAndPath(t *testing.T) {
	loc, err := ParseLocator("golang/go@release-branch.go1.22/src/net")
	require.NoError(t, err)
	assert.Equal(t, "golang", loc.Owner)
	assert.Equal(t, "go", loc.Repo)
	assert.Equal(t, "release-branch.go1.22", loc.Ref)
	assert.Equal(t, "src/net", loc.Path)
}

func TestParseLocatorScheme(t *testing.T) {
	loc, err := ParseLocator("github1s://golang/go@master/doc")
	require.NoError(t, err)
	assert.Equal(t, "golang", loc.Owner)
	assert.Equal(t, "go", loc.Repo)
	assert.Equal(t, "master", loc.Ref)
	assert.Equal(t, "doc", loc.Path)
}

func TestParseLocatorWebURL(t *testing.T) {
	loc, err := ParseLocator("https://github.com/golang/go")
	require.NoError(t, err)
	assert.Equal(t, Locator{Owner: "golang", Repo: "go"}, loc)

	loc, err = ParseLocator("https://github.com/golang/go/tree/master/src")
	require.NoError(t, err)
	assert.Equal(t, "master", loc.Ref)
	assert.Equal(t, "src", loc.Path)

	loc, err = ParseLocator("https://github.com/golang/go/blob/master/README.md")
	require.NoError(t, err)
	assert.Equal(t, "README.md", loc.Path)
}

func TestParseLocatorTrimsDotGit(t *testing.T) {
	loc, err := ParseLocator("https://github.com/golang/go.git")
	require.NoError(t, err)
	assert.Equal(t, "go", loc.Repo)
}

func TestParseLocatorRejectsMalformed(t *testing.T) {
	for _, raw := range []string{
		"",
		"justowner",
		"https://gitlab.com/a/b",
		"ftp://github.com/a/b",
		"https://github.com/golang/go/pulls/123",
		"https://github.com/golang/go/tree",
	} {
		_, err := ParseLocator(raw)
		assert.Error(t, err, "input %q", raw)
	}
}

func TestLocatorKey(t *testing.T) {
	assert.Equal(t, "a/b@HEAD", Locator{Owner: "a", Repo: "b"}.Key())
	assert.Equal(t, "a/b@main", Locator{Owner: "a", Repo: "b", Ref: "main"}.Key())
	assert.Equal(t, "a/b@main/sub/dir", Locator{Owner: "a", Repo: "b", Ref: "main", Path: "sub/dir"}.Key())
}
