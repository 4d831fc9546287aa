package storage

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"storefront/pkg/platform/sentinel"
)

// ReadJSON loads and decodes the record at key. A missing record, a read
// failure, or a corrupt record all come back as (zero, false): corruption is
// logged and treated as absence, never surfaced as an error.
func ReadJSON[T any](ctx context.Context, kv KeyValue, key string, logger *slog.Logger) (T, bool) {
	var zero T
	raw, err := kv.Read(ctx, key)
	if err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) {
			logger.WarnContext(ctx, "state read failed, treating as absent", "key", key, "error", err)
		}
		return zero, false
	}
	var value T
	if err := json.Unmarshal(raw, &value); err != nil {
		logger.WarnContext(ctx, "corrupt state record, treating as absent", "key", key, "error", err)
		return zero, false
	}
	return value, true
}

// WriteJSON encodes value and stores it at key.
func WriteJSON(ctx context.Context, kv KeyValue, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return kv.Write(ctx, key, raw)
}
