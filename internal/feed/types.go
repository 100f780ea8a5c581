// Package feed fetches the upstream YouTube listing, normalizes it into a
// stable JSON contract, and manages the cached snapshot.
package feed

import (
	"context"
	"net/http"
	"os"
	"time"
)

// ThumbnailSet holds the thumbnail URLs for a video. Any subset may be absent.
type ThumbnailSet struct {
	Default string `json:"default,omitempty"`
	Medium  string `json:"medium,omitempty"`
	High    string `json:"high,omitempty"`
}

// NormalizedVideo is the single shape every upstream item is converted into.
// ID and Title are always non-empty; entries missing either are dropped
// during normalization.
type NormalizedVideo struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	PublishedAt string       `json:"publishedAt"`
	URL         string       `json:"url"`
	Thumbnails  ThumbnailSet `json:"thumbnails"`
}

// Payload is one feed snapshot. Items keep upstream order. Version is a
// wall-clock token used for cache busting, not a logical clock.
type Payload struct {
	UpdatedAt string            `json:"updatedAt"`
	Items     []NormalizedVideo `json:"items"`
	Version   int64             `json:"version"`
}

// Store is the key-value persistence layer holding the latest snapshot.
// A ttl of zero or less means the entry never expires.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Put(ctx context.Context, key, value string, ttl time.Duration) error
}

// Env carries the upstream configuration and collaborators for the fetch and
// cache operations. It is threaded explicitly through every call; there is no
// ambient global state.
type Env struct {
	APIKey     string
	PlaylistID string
	ChannelID  string
	RSSURL     string

	// APIEndpoint overrides the playlist listing endpoint. Empty means the
	// public Data API.
	APIEndpoint string

	Store  Store
	Client *http.Client
}

// EnvFromOS builds an Env from the standard environment variables.
func EnvFromOS(store Store) *Env {
	return &Env{
		APIKey:     os.Getenv("YOUTUBE_API_KEY"),
		PlaylistID: os.Getenv("YOUTUBE_PLAYLIST_ID"),
		ChannelID:  os.Getenv("YOUTUBE_CHANNEL_ID"),
		RSSURL:     os.Getenv("YOUTUBE_RSS_URL"),
		Store:      store,
	}
}

func (e *Env) httpClient() *http.Client {
	if e.Client != nil {
		return e.Client
	}
	return &http.Client{Timeout: 15 * time.Second}
}
