package gitremote

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/google/go-github/v74/github"
	"github.com/gregjones/httpcache"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"

	"github.com/SteadyHua/github1s/internal/gitfs"
)

// ClientOptions configures a Client.
type ClientOptions struct {
	// Token is a GitHub API token. Optional for public repositories on
	// the REST paths; the GraphQL (deep) path requires it.
	Token string
	// HTTPClient overrides the transport, mainly for tests. When nil a
	// client with an in-memory conditional-request cache is built.
	HTTPClient *http.Client
}

// Client implements gitfs.Remote against the GitHub API, bound to one
// {owner, repo, ref} locator. Shallow listings use the REST contents
// API, deep subtree fetches use GraphQL, blob contents use the REST
// git blobs API.
type Client struct {
	loc  Locator
	rest *github.Client
	gql  *githubv4.Client

	refMu sync.Mutex
	ref   string // resolved default branch, cached on success only
}

// NewClient creates a Client for the given locator.
func NewClient(loc Locator, opts ClientOptions) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		hc = httpcache.NewMemoryCacheTransport().Client()
	}
	if opts.Token != "" {
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token})
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, hc)
		hc = oauth2.NewClient(ctx, src)
	}
	return &Client{
		loc:  loc,
		rest: github.NewClient(hc),
		gql:  githubv4.NewClient(hc),
	}
}

// Key implements gitfs.Remote.
func (c *Client) Key() string { return c.loc.Key() }

// resolveRef returns the ref to query: the locator's ref if set,
// otherwise the repository's default branch, looked up once and cached
// on success. A failed lookup is retried on the next call.
func (c *Client) resolveRef(ctx context.Context) (string, error) {
	if c.loc.Ref != "" {
		return c.loc.Ref, nil
	}
	c.refMu.Lock()
	defer c.refMu.Unlock()
	if c.ref != "" {
		return c.ref, nil
	}
	repo, resp, err := c.rest.Repositories.Get(ctx, c.loc.Owner, c.loc.Repo)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return "", fmt.Errorf("%s/%s: %w", c.loc.Owner, c.loc.Repo, gitfs.ErrNotFound)
		}
		return "", fmt.Errorf("resolve default branch: %w", err)
	}
	c.ref = repo.GetDefaultBranch()
	return c.ref, nil
}

// repoPath maps a filesystem-relative dir onto the repo-relative path,
// honoring the locator's subpath root.
func (c *Client) repoPath(dir string) string {
	switch {
	case c.loc.Path == "":
		return dir
	case dir == "":
		return c.loc.Path
	default:
		return c.loc.Path + "/" + dir
	}
}

// ReadDir implements the shallow strategy: one REST contents call for
// the immediate children of dir.
func (c *Client) ReadDir(ctx context.Context, dir string) ([]gitfs.RemoteEntry, error) {
	ref, err := c.resolveRef(ctx)
	if err != nil {
		return nil, err
	}
	opts := &github.RepositoryContentGetOptions{Ref: ref}
	file, listing, resp, err := c.rest.Repositories.GetContents(ctx, c.loc.Owner, c.loc.Repo, c.repoPath(dir), opts)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%s: %w", c.repoPath(dir), gitfs.ErrNotFound)
		}
		return nil, fmt.Errorf("list %s: %w", c.repoPath(dir), err)
	}
	if file != nil {
		return nil, fmt.Errorf("%s: %w", c.repoPath(dir), gitfs.ErrNotDir)
	}

	entries := make([]gitfs.RemoteEntry, 0, len(listing))
	for _, item := range listing {
		entries = append(entries, gitfs.RemoteEntry{
			Name: item.GetName(),
			Dir:  item.GetType() == "dir",
			OID:  item.GetSHA(),
			Size: int64(item.GetSize()),
		})
	}
	return entries, nil
}

// ReadBlob fetches raw blob content by content id and decodes it from
// the transport encoding.
func (c *Client) ReadBlob(ctx context.Context, path, oid string) ([]byte, error) {
	blob, resp, err := c.rest.Git.GetBlob(ctx, c.loc.Owner, c.loc.Repo, oid)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%s (%s): %w", path, oid, gitfs.ErrNotFound)
		}
		return nil, fmt.Errorf("blob %s: %w", oid, err)
	}
	content := blob.GetContent()
	switch blob.GetEncoding() {
	case "base64":
		// The API wraps base64 payloads in newlines.
		data, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(content, "\n", ""))
		if err != nil {
			return nil, fmt.Errorf("decode blob %s: %w", oid, err)
		}
		return data, nil
	case "", "utf-8":
		return []byte(content), nil
	default:
		return nil, fmt.Errorf("blob %s: unknown encoding %q", oid, blob.GetEncoding())
	}
}

var _ gitfs.Remote = (*Client)(nil)
