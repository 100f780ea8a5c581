package web

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3AssetService implements AssetService using an AWS S3 bucket of built
// site files.
type S3AssetService struct {
	client     *s3.Client
	bucketName string
}

// Ensure S3AssetService implements AssetService
var _ AssetService = (*S3AssetService)(nil)

// NewS3AssetService creates an S3-backed asset service
func NewS3AssetService(bucketName string) (*S3AssetService, error) {
	// Load AWS configuration from environment
	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	client := s3.NewFromConfig(cfg)

	return &S3AssetService{
		client:     client,
		bucketName: bucketName,
	}, nil
}

func (s *S3AssetService) Fetch(ctx context.Context, reqPath string) (*Asset, error) {
	key := strings.TrimPrefix(reqPath, "/")
	if key == "" {
		key = "index.html"
	}

	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return notFoundAsset(), nil
		}
		return nil, fmt.Errorf("failed to download from S3: %w", err)
	}
	defer result.Body.Close()

	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(result.Body); err != nil {
		return nil, fmt.Errorf("failed to read S3 object: %w", err)
	}

	contentType := ""
	if result.ContentType != nil {
		contentType = *result.ContentType
	}
	if contentType == "" || contentType == "application/octet-stream" {
		if byExt := mime.TypeByExtension(filepath.Ext(key)); byExt != "" {
			contentType = byExt
		}
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	header := http.Header{}
	header.Set("Content-Type", contentType)

	return &Asset{
		StatusCode: http.StatusOK,
		Header:     header,
		Body:       buf.Bytes(),
	}, nil
}

// GetS3BucketFromEnv gets the asset bucket name from environment variable
func GetS3BucketFromEnv() string {
	bucket := os.Getenv("S3_BUCKET_NAME")
	if bucket == "" {
		bucket = "feedhub-site-assets" // default fallback
	}
	return bucket
}
