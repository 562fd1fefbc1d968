package cache

import "context"

// Store is the durable backend beneath a Cache. Implementations persist
// opaque entry blobs keyed by (bucket, sanitized key). Writes must be atomic
// per key: a concurrent reader observes either the previous record or the
// new one in full, never a torn entry.
type Store interface {
	// Read returns the stored blob, or ErrNoEntry.
	Read(ctx context.Context, bucket Bucket, key string) ([]byte, error)

	// Write replaces the record for key wholesale.
	Write(ctx context.Context, bucket Bucket, key string, data []byte) error

	// Delete removes the record for key if present. Deleting an absent
	// record is not an error.
	Delete(ctx context.Context, bucket Bucket, key string) error

	// Clear removes every record in every bucket and returns how many
	// were removed.
	Clear(ctx context.Context) (int, error)

	// Walk visits every record. A non-nil error from fn stops the walk.
	Walk(ctx context.Context, fn func(bucket Bucket, key string, size int64, data []byte) error) error

	Close() error
}
