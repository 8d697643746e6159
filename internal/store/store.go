package store

import "context"

// Store is a realtime key-path document store: JSON documents
// addressed by slash paths, with push-based subscriptions firing on
// every remote write.
//
// Writes are last-write-wins. Normal play is turn-alternating and only
// the current player's client writes, so no optimistic-concurrency
// token is used; two clients racing the same turn overwrite each
// other.
type Store interface {
	// Get reads the document at path into out. found is false when the
	// path holds nothing; out is untouched in that case.
	Get(ctx context.Context, path string, out any) (found bool, err error)
	// Set writes the document wholesale and notifies subscribers.
	Set(ctx context.Context, path string, value any) error
	// Delete removes the document and notifies subscribers with a nil
	// payload.
	Delete(ctx context.Context, path string) error
	// Subscribe calls fn with the current raw document immediately and
	// then on every write. A missing document is delivered as nil; that
	// is the not-found signal. The returned function tears the
	// subscription down.
	Subscribe(ctx context.Context, path string, fn func(raw []byte)) (unsubscribe func(), err error)
}
