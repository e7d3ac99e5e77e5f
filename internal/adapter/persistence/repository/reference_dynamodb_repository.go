package repository

import (
	"context"
	"fmt"
	"time"

	"cargo_cover/internal/domain/entities"
	"cargo_cover/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

const (
	defaultReferenceTableName = "reference_entities"
	referencePointerID        = "-"
	batchWriteLimit           = 25
	batchWriteAttempts        = 5
)

type referenceItem struct {
	EntityKey  string            `dynamodbav:"entity_key"`
	ID         string            `dynamodbav:"id"`
	Type       string            `dynamodbav:"type"`
	Name       string            `dynamodbav:"name"`
	Attributes map[string]string `dynamodbav:"attributes,omitempty"`
}

type referencePointerItem struct {
	EntityKey  string `dynamodbav:"entity_key"`
	ID         string `dynamodbav:"id"`
	Generation string `dynamodbav:"generation"`
	Size       int    `dynamodbav:"size"`
	SwappedAt  string `dynamodbav:"swapped_at"`
}

// ReferenceDynamoRepository persists reference families as immutable generations.
//
// Table requirements:
//   - PK: entity_key (string) = "<type>#<generation>" for rows, "<type>#current" for the pointer
//   - SK: id (string)
//
// ReplaceAll writes a whole new generation, then flips the pointer with one conditional
// put. Readers follow the pointer, so they never observe a half written set.

type ReferenceDynamoRepository struct {
	ddb       DynamoAPI
	tableName string
	now       func() time.Time
}

var _ interfaces.IReferenceRepository = (*ReferenceDynamoRepository)(nil)

func NewReferenceDynamoRepository(ddb DynamoAPI, tableName string) *ReferenceDynamoRepository {
	if tableName == "" {
		tableName = getenvDefault("REFERENCE_TABLE", defaultReferenceTableName)
	}
	return &ReferenceDynamoRepository{ddb: ddb, tableName: tableName, now: time.Now}
}

func (r *ReferenceDynamoRepository) ReplaceAll(ctx context.Context, entityType entities.EntityType, items []entities.ReferenceEntity) error {
	previous, err := r.currentGeneration(ctx, entityType)
	if err != nil {
		return err
	}

	generation := uuid.NewString()
	key := generationKey(entityType, generation)
	writes := make([]types.WriteRequest, 0, len(items))
	for _, e := range items {
		av, err := attributevalue.MarshalMap(referenceItem{
			EntityKey:  key,
			ID:         string(e.ID),
			Type:       string(entityType),
			Name:       e.Name,
			Attributes: e.Attributes,
		})
		if err != nil {
			return err
		}
		writes = append(writes, types.WriteRequest{PutRequest: &types.PutRequest{Item: av}})
	}
	if err := r.batchWrite(ctx, writes); err != nil {
		return fmt.Errorf("write generation %s: %w", generation, err)
	}

	if err := r.swapPointer(ctx, entityType, previous, generation, len(items)); err != nil {
		return err
	}

	// The old generation is unreachable once the pointer moved; a failed cleanup only
	// leaves garbage rows behind.
	if previous != "" {
		_ = r.deleteGeneration(ctx, entityType, previous)
	}
	return nil
}

func (r *ReferenceDynamoRepository) ListAll(ctx context.Context, entityType entities.EntityType) ([]entities.ReferenceEntity, error) {
	generation, err := r.currentGeneration(ctx, entityType)
	if err != nil {
		return nil, err
	}
	if generation == "" {
		return nil, nil
	}

	items, err := r.queryGeneration(ctx, entityType, generation)
	if err != nil {
		return nil, err
	}
	out := make([]entities.ReferenceEntity, 0, len(items))
	for _, it := range items {
		out = append(out, entities.ReferenceEntity{
			Type:       entityType,
			ID:         entities.RefID(it.ID),
			Name:       it.Name,
			Attributes: it.Attributes,
		})
	}
	return out, nil
}

func (r *ReferenceDynamoRepository) currentGeneration(ctx context.Context, entityType entities.EntityType) (string, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            referenceKey(pointerKey(entityType), referencePointerID),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return "", err
	}
	if len(out.Item) == 0 {
		return "", nil
	}
	var p referencePointerItem
	if err := attributevalue.UnmarshalMap(out.Item, &p); err != nil {
		return "", err
	}
	return p.Generation, nil
}

// swapPointer moves the pointer from previous to next. A concurrent swap by another
// worker fails the condition and is reported as entities.ErrVersionConflict.
func (r *ReferenceDynamoRepository) swapPointer(ctx context.Context, entityType entities.EntityType, previous, next string, size int) error {
	av, err := attributevalue.MarshalMap(referencePointerItem{
		EntityKey:  pointerKey(entityType),
		ID:         referencePointerID,
		Generation: next,
		Size:       size,
		SwappedAt:  formatTime(r.now()),
	})
	if err != nil {
		return err
	}

	in := &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
		ExpressionAttributeNames: map[string]string{
			"#key": "entity_key",
		},
		ConditionExpression: aws.String("attribute_not_exists(#key)"),
	}
	if previous != "" {
		in.ConditionExpression = aws.String("#generation = :previous")
		in.ExpressionAttributeNames = map[string]string{"#generation": "generation"}
		in.ExpressionAttributeValues = map[string]types.AttributeValue{
			":previous": &types.AttributeValueMemberS{Value: previous},
		}
	}

	if _, err := r.ddb.PutItem(ctx, in); err != nil {
		if isConditionFailed(err) {
			return entities.ErrVersionConflict
		}
		return err
	}
	return nil
}

func (r *ReferenceDynamoRepository) queryGeneration(ctx context.Context, entityType entities.EntityType, generation string) ([]referenceItem, error) {
	var (
		items []referenceItem
		start map[string]types.AttributeValue
	)
	for {
		out, err := r.ddb.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(r.tableName),
			KeyConditionExpression: aws.String("#key = :key"),
			ExpressionAttributeNames: map[string]string{
				"#key": "entity_key",
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":key": &types.AttributeValueMemberS{Value: generationKey(entityType, generation)},
			},
			ExclusiveStartKey: start,
		})
		if err != nil {
			return nil, err
		}

		var page []referenceItem
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, err
		}
		items = append(items, page...)

		if len(out.LastEvaluatedKey) == 0 {
			return items, nil
		}
		start = out.LastEvaluatedKey
	}
}

func (r *ReferenceDynamoRepository) deleteGeneration(ctx context.Context, entityType entities.EntityType, generation string) error {
	items, err := r.queryGeneration(ctx, entityType, generation)
	if err != nil {
		return err
	}
	deletes := make([]types.WriteRequest, 0, len(items))
	for _, it := range items {
		deletes = append(deletes, types.WriteRequest{DeleteRequest: &types.DeleteRequest{
			Key: referenceKey(it.EntityKey, it.ID),
		}})
	}
	return r.batchWrite(ctx, deletes)
}

// batchWrite sends writes in chunks of 25 and resubmits unprocessed items with a short
// backoff.
func (r *ReferenceDynamoRepository) batchWrite(ctx context.Context, writes []types.WriteRequest) error {
	for len(writes) > 0 {
		n := len(writes)
		if n > batchWriteLimit {
			n = batchWriteLimit
		}
		chunk := writes[:n]
		writes = writes[n:]

		for attempt := 1; len(chunk) > 0; attempt++ {
			if attempt > batchWriteAttempts {
				return fmt.Errorf("batch write: %d items still unprocessed", len(chunk))
			}
			out, err := r.ddb.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
				RequestItems: map[string][]types.WriteRequest{r.tableName: chunk},
			})
			if err != nil {
				return err
			}
			chunk = out.UnprocessedItems[r.tableName]
			if len(chunk) > 0 {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(time.Duration(attempt*50) * time.Millisecond):
				}
			}
		}
	}
	return nil
}

func pointerKey(entityType entities.EntityType) string {
	return string(entityType) + "#current"
}

func generationKey(entityType entities.EntityType, generation string) string {
	return string(entityType) + "#" + generation
}

func referenceKey(entityKey, id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"entity_key": &types.AttributeValueMemberS{Value: entityKey},
		"id":         &types.AttributeValueMemberS{Value: id},
	}
}
