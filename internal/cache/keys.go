package cache

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/zeebo/blake3"
)

// Bucket is a cache namespace. Issue payloads and search results live in
// separate buckets so their statistics can be reported independently.
type Bucket string

const (
	BucketIssues   Bucket = "issues"
	BucketSearches Bucket = "searches"
)

// Buckets lists every valid bucket, in reporting order.
var Buckets = []Bucket{BucketIssues, BucketSearches}

const maxKeyLen = 120

// keyPattern is the identity allowlist for storage keys. Keys are used
// verbatim as storage locators, so the mapping is trivially collision-free,
// and nothing matching the pattern can name a path outside the store root.
var keyPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// SanitizeKey validates key for use as a storage locator. It returns the
// key unchanged, or ErrInvalidKey for anything empty, over-long, containing
// characters outside [A-Za-z0-9._-], or spelling a relative path component.
func SanitizeKey(key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidKey)
	}
	if len(key) > maxKeyLen {
		return "", fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrInvalidKey, len(key), maxKeyLen)
	}
	if key == "." || key == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	if !keyPattern.MatchString(key) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return key, nil
}

func validBucket(b Bucket) error {
	for _, known := range Buckets {
		if b == known {
			return nil
		}
	}
	return fmt.Errorf("%w: unknown bucket %q", ErrInvalidKey, string(b))
}

// Fingerprint returns a stable hex digest of params, usable as a cache key.
// Params are serialized as canonical JSON (object keys sorted at every
// level), so equivalent parameter sets expressed in different orders share
// one fingerprint.
func Fingerprint(params any) (string, error) {
	data, err := json.Marshal(params)
	if err != nil {
		return "", fmt.Errorf("serializing fingerprint params: %w", err)
	}
	// Round-trip through any so every nested object becomes a map, which
	// encoding/json re-serializes with sorted keys.
	var normalized any
	if err := json.Unmarshal(data, &normalized); err != nil {
		return "", fmt.Errorf("normalizing fingerprint params: %w", err)
	}
	canonical, err := json.Marshal(normalized)
	if err != nil {
		return "", fmt.Errorf("canonicalizing fingerprint params: %w", err)
	}
	sum := blake3.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}
