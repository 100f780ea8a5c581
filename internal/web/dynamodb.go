package web

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"feedhub/internal/feed"
)

// DynamoDBStore implements feed.Store using DynamoDB
type DynamoDBStore struct {
	client    *dynamodb.Client
	tableName string
}

// Ensure DynamoDBStore implements feed.Store
var _ feed.Store = (*DynamoDBStore)(nil)

// kvEntryItem represents the DynamoDB item structure
type kvEntryItem struct {
	Key       string `dynamodbav:"key"`
	Value     string `dynamodbav:"value"`
	ExpiresAt int64  `dynamodbav:"expiresAt,omitempty"` // Unix timestamp, zero when no TTL
}

// NewDynamoDBStore creates a DynamoDB-backed key-value store.
// tableName should be the DynamoDB table name
func NewDynamoDBStore(tableName string) (*DynamoDBStore, error) {
	if tableName == "" {
		return nil, fmt.Errorf("DynamoDB table name cannot be empty")
	}

	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := dynamodb.NewFromConfig(cfg)

	return &DynamoDBStore{
		client:    client,
		tableName: tableName,
	}, nil
}

// Get retrieves a value by key, treating expired entries as absent
func (s *DynamoDBStore) Get(ctx context.Context, key string) (string, bool, error) {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"key": &types.AttributeValueMemberS{Value: key},
		},
	})
	if err != nil {
		return "", false, fmt.Errorf("failed to get item: %w", err)
	}

	if result.Item == nil {
		return "", false, nil // Not found
	}

	var item kvEntryItem
	err = attributevalue.UnmarshalMap(result.Item, &item)
	if err != nil {
		return "", false, fmt.Errorf("failed to unmarshal item: %w", err)
	}

	if item.ExpiresAt > 0 && time.Now().Unix() >= item.ExpiresAt {
		return "", false, nil
	}

	return item.Value, true, nil
}

// Put stores a value under a key, with an optional TTL
func (s *DynamoDBStore) Put(ctx context.Context, key, value string, ttl time.Duration) error {
	item := kvEntryItem{
		Key:   key,
		Value: value,
	}
	if ttl > 0 {
		item.ExpiresAt = time.Now().Add(ttl).Unix()
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal item: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("failed to put item: %w", err)
	}

	return nil
}
