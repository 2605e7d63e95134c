// Package cache stores rendered artifacts so repeated exports of an
// unchanged project skip the render step.
//
// Keys come from [ArtifactKey], which hashes the export format together
// with the project content. [FileCache] is the on-disk backend used by the
// CLI; a nil Cache disables caching in the exporter.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Cache is a byte store with optional expiry.
type Cache interface {
	// Get returns the stored value and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	Close() error
}

// ArtifactKey returns the key for an artifact of the given format.
// content is the canonical project encoding and variant holds any render
// options that change the output (for example a custom gradient).
func ArtifactKey(format string, content []byte, variant ...string) string {
	return hashKey("artifact:"+format, Hash(content), variant)
}

// hashKey generates a key of the form prefix:hash(parts...).
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return fmt.Sprintf("%s:%s", prefix, Hash(data))
}

// Hash computes the hex-encoded SHA-256 of data.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
