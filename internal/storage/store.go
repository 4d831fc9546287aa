package storage

import "context"

// KeyValue is the durable client-state boundary: JSON blobs keyed by string.
// It owns no domain semantics. Implementations are in-memory (tests), a file
// per key on disk, or Redis when state must be shared across instances.
//
// Read of a missing key returns sentinel.ErrNotFound; callers that want
// "absent means empty" semantics go through ReadJSON, which also absorbs
// corrupt records so storage-format trouble never propagates upward.
type KeyValue interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
