package storage

import (
	"context"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultReadTTL is how long resolved media URLs stay valid.
const DefaultReadTTL = time.Hour

// Resolver converts stored object references into time-limited read URLs at
// the response boundary.
type Resolver struct {
	signer Signer
}

// NewResolver creates a Resolver over the given signer.
func NewResolver(signer Signer) *Resolver {
	return &Resolver{signer: signer}
}

// KeyFromReference derives the storage key from a stored reference. A
// reference may be a full URL (key is the path component) or a bare key;
// url.Parse of a schemeless string yields the string itself as the path, so
// one rule covers both.
func KeyFromReference(ref string) string {
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return strings.TrimPrefix(u.Path, "/")
}

// SignedReadURL resolves one reference. A nil or empty reference resolves to
// nil without error.
func (r *Resolver) SignedReadURL(ctx context.Context, ref *string, expires time.Duration) (*string, error) {
	if ref == nil || *ref == "" {
		return nil, nil
	}

	signed, err := r.signer.PresignGet(ctx, KeyFromReference(*ref), expires)
	if err != nil {
		return nil, err
	}
	return &signed, nil
}

// SignedReadURLs resolves a list of references concurrently, preserving
// input order. Any sub-failure fails the whole resolution; there are no
// partial results.
func (r *Resolver) SignedReadURLs(ctx context.Context, refs []*string, expires time.Duration) ([]*string, error) {
	out := make([]*string, len(refs))

	g, ctx := errgroup.WithContext(ctx)
	for i, ref := range refs {
		i, ref := i, ref
		g.Go(func() error {
			signed, err := r.SignedReadURL(ctx, ref, expires)
			if err != nil {
				return err
			}
			out[i] = signed
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
