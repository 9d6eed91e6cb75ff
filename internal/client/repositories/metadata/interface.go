// Package metadata is the key/value medium the credential record lives in.
// Values are opaque bytes; a missing key reads as (nil, nil).
package metadata

import (
	"context"
)

type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	// SetMany writes all pairs or none of them.
	SetMany(ctx context.Context, values map[string][]byte) error
	// DeleteMany removes all keys or none of them. Absent keys are not an error.
	DeleteMany(ctx context.Context, keys ...string) error
}
