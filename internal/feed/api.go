package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

const (
	defaultAPIEndpoint = "https://www.googleapis.com/youtube/v3/playlistItems"
	maxResults         = 50
)

type playlistThumbnail struct {
	URL string `json:"url"`
}

type playlistSnippet struct {
	Title       string `json:"title"`
	PublishedAt string `json:"publishedAt"`
	ResourceID  struct {
		VideoID string `json:"videoId"`
	} `json:"resourceId"`
	Thumbnails map[string]playlistThumbnail `json:"thumbnails"`
}

type playlistItem struct {
	ID      string           `json:"id"`
	Snippet *playlistSnippet `json:"snippet"`
}

type playlistPage struct {
	Items         []playlistItem `json:"items"`
	NextPageToken string         `json:"nextPageToken"`
}

// selectThumbnails maps the API's size keys onto the normalized set. Medium
// falls back to standard, high to maxres.
func selectThumbnails(thumbs map[string]playlistThumbnail) ThumbnailSet {
	pick := func(names ...string) string {
		for _, name := range names {
			if t, ok := thumbs[name]; ok && t.URL != "" {
				return t.URL
			}
		}
		return ""
	}
	return ThumbnailSet{
		Default: pick("default"),
		Medium:  pick("medium", "standard"),
		High:    pick("high", "maxres"),
	}
}

// normalizePlaylistItem converts one raw playlist item, or returns nil when
// the item has no snippet or no resolvable video id.
func normalizePlaylistItem(item playlistItem) *NormalizedVideo {
	if item.Snippet == nil {
		return nil
	}
	videoID := item.Snippet.ResourceID.VideoID
	if videoID == "" {
		videoID = item.ID
	}
	if videoID == "" || item.Snippet.Title == "" {
		return nil
	}
	return &NormalizedVideo{
		ID:          videoID,
		Title:       item.Snippet.Title,
		PublishedAt: item.Snippet.PublishedAt,
		URL:         watchURL(videoID),
		Thumbnails:  selectThumbnails(item.Snippet.Thumbnails),
	}
}

// fetchFromDataAPI pages through the playlist listing endpoint until the next
// page token runs out. Missing credentials or playlist id is a valid
// not-configured state and yields an empty list, not an error.
func fetchFromDataAPI(ctx context.Context, env *Env) ([]NormalizedVideo, error) {
	if env.APIKey == "" || env.PlaylistID == "" {
		return nil, nil
	}

	endpoint := env.APIEndpoint
	if endpoint == "" {
		endpoint = defaultAPIEndpoint
	}

	client := env.httpClient()
	var collected []NormalizedVideo
	pageToken := ""

	for {
		q := url.Values{}
		q.Set("part", "snippet")
		q.Set("playlistId", env.PlaylistID)
		q.Set("maxResults", strconv.Itoa(maxResults))
		q.Set("key", env.APIKey)
		if pageToken != "" {
			q.Set("pageToken", pageToken)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+q.Encode(), nil)
		if err != nil {
			return nil, fmt.Errorf("failed to build playlist request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("playlist request failed: %w", err)
		}

		var page playlistPage
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("YouTube API error %d", resp.StatusCode)
		}
		if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
			resp.Body.Close()
			return nil, fmt.Errorf("failed to decode playlist page: %w", err)
		}
		resp.Body.Close()

		for _, item := range page.Items {
			if v := normalizePlaylistItem(item); v != nil {
				collected = append(collected, *v)
			}
		}

		if page.NextPageToken == "" {
			return collected, nil
		}
		pageToken = page.NextPageToken
	}
}
