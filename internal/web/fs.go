package web

import (
	"context"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
)

// FSAssetService implements AssetService using a local directory of built
// site files.
type FSAssetService struct {
	baseDir string
}

// Ensure FSAssetService implements AssetService
var _ AssetService = (*FSAssetService)(nil)

func NewFSAssetService(baseDir string) *FSAssetService {
	return &FSAssetService{baseDir: baseDir}
}

func (f *FSAssetService) Fetch(ctx context.Context, reqPath string) (*Asset, error) {
	// Clean with a leading slash so ".." segments cannot escape the base dir.
	rel := path.Clean("/" + reqPath)
	if rel == "/" {
		rel = "/index.html"
	}

	fullPath := filepath.Join(f.baseDir, filepath.FromSlash(rel))
	data, err := os.ReadFile(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return notFoundAsset(), nil
		}
		if info, statErr := os.Stat(fullPath); statErr == nil && info.IsDir() {
			return notFoundAsset(), nil
		}
		return nil, err
	}

	contentType := mime.TypeByExtension(filepath.Ext(fullPath))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	header := http.Header{}
	header.Set("Content-Type", contentType)

	return &Asset{
		StatusCode: http.StatusOK,
		Header:     header,
		Body:       data,
	}, nil
}

func notFoundAsset() *Asset {
	header := http.Header{}
	header.Set("Content-Type", "text/plain; charset=utf-8")
	return &Asset{
		StatusCode: http.StatusNotFound,
		Header:     header,
		Body:       []byte("not found"),
	}
}
