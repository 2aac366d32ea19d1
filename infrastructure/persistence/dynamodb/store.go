package dynamodb

import (
	"context"
	"errors"

	pkgerrors "devicehub-backend/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// batchGetMaxKeys is the DynamoDB limit per BatchGetItem request
const batchGetMaxKeys = 100

// batchGetMaxAttempts bounds the reissue loop for unprocessed keys
const batchGetMaxAttempts = 3

// Store is a thin key-value adapter over DynamoDB. Every operation is atomic
// per item; there is no multi-item transaction support, and none of the
// callers may assume one. Failures are translated into the storage error
// taxonomy and are not retried here.
type Store struct {
	client *dynamodb.Client
	logger *zap.Logger
}

// NewStore creates a new store adapter
func NewStore(client *dynamodb.Client, logger *zap.Logger) *Store {
	return &Store{
		client: client,
		logger: logger,
	}
}

// Get retrieves a single item by key. A missing item returns (nil, nil).
func (s *Store) Get(ctx context.Context, table string, key map[string]types.AttributeValue) (map[string]types.AttributeValue, error) {
	input := &dynamodb.GetItemInput{
		TableName: aws.String(table),
		Key:       key,
	}

	result, err := s.client.GetItem(ctx, input)
	if err != nil {
		return nil, s.translate("GetItem", err)
	}

	if result.Item == nil {
		return nil, nil
	}
	return result.Item, nil
}

// Put stores an item, overwriting any existing item with the same key
func (s *Store) Put(ctx context.Context, table string, item map[string]types.AttributeValue) error {
	input := &dynamodb.PutItemInput{
		TableName: aws.String(table),
		Item:      item,
	}

	if _, err := s.client.PutItem(ctx, input); err != nil {
		return s.translate("PutItem", err)
	}
	return nil
}

// Update applies the built update expression to an item and returns the item
// as it looks after the write. A ConditionalCheckFailedException passes
// through untranslated so callers can map it to their own NotFound.
func (s *Store) Update(ctx context.Context, table string, key map[string]types.AttributeValue, expr expression.Expression) (map[string]types.AttributeValue, error) {
	input := &dynamodb.UpdateItemInput{
		TableName:                 aws.String(table),
		Key:                       key,
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueAllNew,
	}

	result, err := s.client.UpdateItem(ctx, input)
	if err != nil {
		var condFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condFailed) {
			return nil, err
		}
		return nil, s.translate("UpdateItem", err)
	}
	return result.Attributes, nil
}

// Delete removes an item by key; deleting an absent key succeeds
func (s *Store) Delete(ctx context.Context, table string, key map[string]types.AttributeValue) error {
	input := &dynamodb.DeleteItemInput{
		TableName: aws.String(table),
		Key:       key,
	}

	if _, err := s.client.DeleteItem(ctx, input); err != nil {
		return s.translate("DeleteItem", err)
	}
	return nil
}

// ScanAll reads the whole table, following pagination, optionally applying a
// filter expression. Unbounded by design; the collections stay small.
func (s *Store) ScanAll(ctx context.Context, table string, expr *expression.Expression) ([]map[string]types.AttributeValue, error) {
	var items []map[string]types.AttributeValue
	var startKey map[string]types.AttributeValue

	for {
		input := &dynamodb.ScanInput{
			TableName:         aws.String(table),
			ExclusiveStartKey: startKey,
		}
		if expr != nil {
			input.FilterExpression = expr.Filter()
			input.ExpressionAttributeNames = expr.Names()
			input.ExpressionAttributeValues = expr.Values()
		}

		result, err := s.client.Scan(ctx, input)
		if err != nil {
			return nil, s.translate("Scan", err)
		}

		items = append(items, result.Items...)

		if result.LastEvaluatedKey == nil {
			break
		}
		startKey = result.LastEvaluatedKey
	}

	return items, nil
}

// Query reads the items matching the built key condition expression
func (s *Store) Query(ctx context.Context, table string, expr expression.Expression) ([]map[string]types.AttributeValue, error) {
	var items []map[string]types.AttributeValue
	var startKey map[string]types.AttributeValue

	for {
		input := &dynamodb.QueryInput{
			TableName:                 aws.String(table),
			KeyConditionExpression:    expr.KeyCondition(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ExclusiveStartKey:         startKey,
		}

		result, err := s.client.Query(ctx, input)
		if err != nil {
			return nil, s.translate("Query", err)
		}

		items = append(items, result.Items...)

		if result.LastEvaluatedKey == nil {
			break
		}
		startKey = result.LastEvaluatedKey
	}

	return items, nil
}

// BatchGet retrieves multiple items, chunking to the DynamoDB request limit
// and reissuing unprocessed keys. Keys with no item are silently omitted
// from the result.
func (s *Store) BatchGet(ctx context.Context, table string, keys []map[string]types.AttributeValue) ([]map[string]types.AttributeValue, error) {
	if len(keys) == 0 {
		return []map[string]types.AttributeValue{}, nil
	}

	var items []map[string]types.AttributeValue

	for i := 0; i < len(keys); i += batchGetMaxKeys {
		end := i + batchGetMaxKeys
		if end > len(keys) {
			end = len(keys)
		}

		chunk, err := s.batchGetChunk(ctx, table, keys[i:end])
		if err != nil {
			return nil, err
		}
		items = append(items, chunk...)
	}

	return items, nil
}

// batchGetChunk processes a single chunk of keys
func (s *Store) batchGetChunk(ctx context.Context, table string, keys []map[string]types.AttributeValue) ([]map[string]types.AttributeValue, error) {
	input := &dynamodb.BatchGetItemInput{
		RequestItems: map[string]types.KeysAndAttributes{
			table: {Keys: keys},
		},
	}

	var items []map[string]types.AttributeValue

	for attempt := 0; attempt < batchGetMaxAttempts; attempt++ {
		output, err := s.client.BatchGetItem(ctx, input)
		if err != nil {
			return nil, s.translate("BatchGetItem", err)
		}

		items = append(items, output.Responses[table]...)

		unprocessed, ok := output.UnprocessedKeys[table]
		if !ok || len(unprocessed.Keys) == 0 {
			return items, nil
		}

		s.logger.Warn("reissuing unprocessed batch-get keys",
			zap.String("table", table),
			zap.Int("remaining", len(unprocessed.Keys)),
		)
		input.RequestItems = output.UnprocessedKeys
	}

	return nil, pkgerrors.NewThrottledError("BatchGetItem", nil)
}

// translate maps an SDK failure onto the storage error taxonomy
func (s *Store) translate(operation string, err error) error {
	s.logger.Error("dynamodb operation failed",
		zap.String("operation", operation),
		zap.Error(err),
	)

	var throughputExceeded *types.ProvisionedThroughputExceededException
	var requestLimit *types.RequestLimitExceeded
	if errors.As(err, &throughputExceeded) || errors.As(err, &requestLimit) {
		return pkgerrors.NewThrottledError(operation, err)
	}

	return pkgerrors.NewUnavailableError(operation, err)
}
