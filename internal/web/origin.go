package web

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// OriginAssetService implements AssetService by fetching from an upstream
// asset host over HTTP.
type OriginAssetService struct {
	baseURL string
	client  *http.Client
}

// Ensure OriginAssetService implements AssetService
var _ AssetService = (*OriginAssetService)(nil)

func NewOriginAssetService(baseURL string) *OriginAssetService {
	return &OriginAssetService{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// forwarded is the subset of upstream headers passed back to the client.
var forwarded = []string{"Content-Type", "Cache-Control", "ETag", "Last-Modified"}

func (o *OriginAssetService) Fetch(ctx context.Context, reqPath string) (*Asset, error) {
	if !strings.HasPrefix(reqPath, "/") {
		reqPath = "/" + reqPath
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.baseURL+reqPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build origin request: %w", err)
	}

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("origin request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read origin response: %w", err)
	}

	header := http.Header{}
	for _, name := range forwarded {
		if v := resp.Header.Get(name); v != "" {
			header.Set(name, v)
		}
	}

	return &Asset{
		StatusCode: resp.StatusCode,
		Header:     header,
		Body:       body,
	}, nil
}
