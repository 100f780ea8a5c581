package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"
)

const (
	feedKey     = "youtube:feed"
	versionKey  = "youtube:feed:version"
	lastCronKey = "youtube:feed:last_cron"

	feedTTL = 24 * time.Hour
)

// StorePayload replaces the stored snapshot. The payload and its version
// marker are always written together so a reader never observes a version
// without a matching payload.
func StorePayload(ctx context.Context, store Store, payload *Payload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal feed payload: %w", err)
	}
	if err := store.Put(ctx, feedKey, string(data), feedTTL); err != nil {
		return fmt.Errorf("failed to store feed payload: %w", err)
	}
	if err := store.Put(ctx, versionKey, strconv.FormatInt(payload.Version, 10), 0); err != nil {
		return fmt.Errorf("failed to store feed version: %w", err)
	}
	return nil
}

// ReadPayload returns the stored snapshot, or nil when nothing is stored.
// A stored value that fails to parse is logged and treated as absent.
func ReadPayload(ctx context.Context, store Store) (*Payload, error) {
	stored, ok, err := store.Get(ctx, feedKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read feed payload: %w", err)
	}
	if !ok {
		return nil, nil
	}

	var payload Payload
	if err := json.Unmarshal([]byte(stored), &payload); err != nil {
		slog.Error("unable to parse stored feed, treating as absent", "error", err)
		return nil, nil
	}
	return &payload, nil
}

// RecordLastCron stores the cron expression of the most recent scheduled run
// for observability.
func RecordLastCron(ctx context.Context, store Store, expr string) error {
	return store.Put(ctx, lastCronKey, expr, 0)
}
