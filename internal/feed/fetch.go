package feed

import (
	"context"
	"log/slog"
	"time"
)

// Fetch runs the fallback-driven fetch pipeline: the structured Data API
// first, then the tolerant feed document when the API errors or comes back
// empty. The result is stamped with the fetch time and a fresh version token.
//
// A failing configured feed fetch propagates; having neither path configured
// yields an empty payload and no error.
func Fetch(ctx context.Context, env *Env) (*Payload, error) {
	updatedAt := time.Now().UTC().Format(time.RFC3339)

	items, err := fetchFromDataAPI(ctx, env)
	if err != nil {
		slog.Error("falling back to feed document after API error", "error", err)
	} else if len(items) > 0 {
		return newPayload(updatedAt, items), nil
	}

	items, err = fetchFromFeed(ctx, env)
	if err != nil {
		return nil, err
	}
	return newPayload(updatedAt, items), nil
}

func newPayload(updatedAt string, items []NormalizedVideo) *Payload {
	if items == nil {
		items = []NormalizedVideo{}
	}
	return &Payload{
		UpdatedAt: updatedAt,
		Items:     items,
		Version:   time.Now().UnixMilli(),
	}
}

// Refresh fetches the feed and unconditionally replaces the stored snapshot,
// even when the fresh payload is empty.
func Refresh(ctx context.Context, env *Env) error {
	payload, err := Fetch(ctx, env)
	if err != nil {
		return err
	}
	return StorePayload(ctx, env.Store, payload)
}
