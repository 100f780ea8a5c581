package web

import (
	"fmt"

	"feedhub/internal/feed"
)

// NewStore constructs a cache store backend from a CLI type/options pair.
func NewStore(storeType, options string) (feed.Store, error) {
	switch storeType {
	case "sqlite":
		return NewSQLiteStore(options)
	case "postgres":
		return NewPostgresStore(options)
	case "dynamodb":
		return NewDynamoDBStore(options)
	case "redis":
		return NewRedisStore(options)
	default:
		return nil, fmt.Errorf("unsupported cache store type: %s", storeType)
	}
}

// NewAssetService constructs an asset service backend from a CLI type/options
// pair.
func NewAssetService(assetType, options string) (AssetService, error) {
	switch assetType {
	case "fs":
		return NewFSAssetService(options), nil
	case "s3":
		if options == "" {
			options = GetS3BucketFromEnv()
		}
		return NewS3AssetService(options)
	case "origin":
		return NewOriginAssetService(options), nil
	default:
		return nil, fmt.Errorf("unsupported asset service type: %s", assetType)
	}
}
