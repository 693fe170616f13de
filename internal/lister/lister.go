// internal/lister/lister.go
package lister

import (
	"context"
)

// Lister is the directory-listing capability the crawler consumes: fetch a
// URL and return the anchor targets found in the returned HTML. Keeping the
// contract this small lets tests substitute an in-memory directory tree for
// the remote archive.
type Lister interface {
	FetchAndList(ctx context.Context, url string) ([]string, error)
}

// Memory is an in-memory Lister backed by a map of URL to hrefs. Unknown
// URLs fail, mirroring a 404 from a real listing server.
type Memory struct {
	Tree map[string][]string
}

// FetchAndList returns the hrefs registered for url.
func (m *Memory) FetchAndList(_ context.Context, url string) ([]string, error) {
	hrefs, ok := m.Tree[url]
	if !ok {
		return nil, &ListError{URL: url, Err: ErrNotFound}
	}
	return hrefs, nil
}
