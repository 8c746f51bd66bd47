// Package metadata stores small named values (credential, salt) in the local
// SQLite file.
package metadata

import (
	"context"
)

// Repository is a key/value table. Get returns (nil, nil) for absent keys.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
	List(ctx context.Context) (map[string][]byte, error)
}
