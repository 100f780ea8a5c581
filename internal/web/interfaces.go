package web

import (
	"context"
	"net/http"
)

// Asset is the response of the static asset collaborator for one path.
type Asset struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// AssetService serves the site's static assets. Implementations report
// missing assets with a 404 Asset, not an error; errors mean the collaborator
// itself failed.
type AssetService interface {
	Fetch(ctx context.Context, path string) (*Asset, error)
}
