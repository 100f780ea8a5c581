package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory feed.Store for tests.
type memStore struct {
	mu      sync.Mutex
	entries map[string]string
	ttls    map[string]time.Duration
}

func newMemStore() *memStore {
	return &memStore{
		entries: make(map[string]string),
		ttls:    make(map[string]time.Duration),
	}
}

func (m *memStore) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.entries[key]
	return value, ok, nil
}

func (m *memStore) Put(ctx context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
	m.ttls[key] = ttl
	return nil
}

func feedServer(t *testing.T, doc string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/atom+xml")
		w.Write([]byte(doc))
	}))
}

func TestFetchFallsBackAfterAPIError(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "broken", http.StatusInternalServerError)
	}))
	defer api.Close()
	rss := feedServer(t, sampleFeed)
	defer rss.Close()

	env := &Env{APIKey: "key", PlaylistID: "PL", APIEndpoint: api.URL, RSSURL: rss.URL}
	payload, err := Fetch(context.Background(), env)
	require.NoError(t, err)

	// The result matches what the tolerant fetcher alone produces.
	want, err := fetchFromFeed(context.Background(), env)
	require.NoError(t, err)
	assert.Equal(t, want, payload.Items)
	assert.NotZero(t, payload.Version)
	assert.NotEmpty(t, payload.UpdatedAt)
}

func TestFetchFallsBackAfterEmptyAPIResult(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items": []}`))
	}))
	defer api.Close()
	rss := feedServer(t, sampleFeed)
	defer rss.Close()

	env := &Env{APIKey: "key", PlaylistID: "PL", APIEndpoint: api.URL, RSSURL: rss.URL}
	payload, err := Fetch(context.Background(), env)
	require.NoError(t, err)

	// Empty API success is not sufficient; the tolerant path still runs.
	require.Len(t, payload.Items, 2)
	assert.Equal(t, "videoAAA", payload.Items[0].ID)
}

func TestFetchUnconfiguredYieldsEmptyPayload(t *testing.T) {
	payload, err := Fetch(context.Background(), &Env{})
	require.NoError(t, err)

	require.NotNil(t, payload)
	assert.NotNil(t, payload.Items)
	assert.Empty(t, payload.Items)
	assert.NotZero(t, payload.Version)
}

func TestFetchPropagatesFeedError(t *testing.T) {
	rss := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer rss.Close()

	// Configured-but-failing is an error; unconfigured is not.
	_, err := Fetch(context.Background(), &Env{RSSURL: rss.URL})
	require.Error(t, err)
}

func TestRefreshStoresSnapshot(t *testing.T) {
	rss := feedServer(t, sampleFeed)
	defer rss.Close()

	store := newMemStore()
	env := &Env{RSSURL: rss.URL, Store: store}
	require.NoError(t, Refresh(context.Background(), env))

	payload, err := ReadPayload(context.Background(), store)
	require.NoError(t, err)
	require.NotNil(t, payload)
	assert.Len(t, payload.Items, 2)
}
