package feed

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorePayloadRoundTrip(t *testing.T) {
	store := newMemStore()
	payload := &Payload{
		UpdatedAt: "2024-03-01T10:00:00Z",
		Items: []NormalizedVideo{
			{
				ID:          "v1",
				Title:       "first",
				PublishedAt: "2024-03-01T09:00:00Z",
				URL:         "https://www.youtube.com/watch?v=v1",
				Thumbnails:  ThumbnailSet{Default: "https://img/d.jpg", High: "https://img/h.jpg"},
			},
			{ID: "v2", Title: "second", URL: "https://www.youtube.com/watch?v=v2"},
		},
		Version: 1709287200000,
	}

	require.NoError(t, StorePayload(context.Background(), store, payload))

	got, err := ReadPayload(context.Background(), store)
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	// Payload and version marker are written together.
	version, ok, err := store.Get(context.Background(), versionKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "1709287200000", version)

	// The payload entry carries the 24-hour expiration, the version does not.
	assert.Equal(t, 24*time.Hour, store.ttls[feedKey])
	assert.Zero(t, store.ttls[versionKey])
}

func TestReadPayloadAbsent(t *testing.T) {
	payload, err := ReadPayload(context.Background(), newMemStore())
	require.NoError(t, err)
	assert.Nil(t, payload)
}

func TestReadPayloadCorruptTreatedAsAbsent(t *testing.T) {
	store := newMemStore()
	require.NoError(t, store.Put(context.Background(), feedKey, "{not json", 0))

	payload, err := ReadPayload(context.Background(), store)
	require.NoError(t, err)
	assert.Nil(t, payload)
}

func TestRecordLastCron(t *testing.T) {
	store := newMemStore()
	require.NoError(t, RecordLastCron(context.Background(), store, "0 */6 * * *"))

	value, ok, err := store.Get(context.Background(), lastCronKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "0 */6 * * *", value)
}
