package repository

import (
	"context"
	"time"

	"cargo_cover/internal/domain/entities"
	"cargo_cover/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"
)

const (
	defaultQuotesTableName = "quotes"
	quotesQuoteIDIndex     = "quote_id-index"
	quotesStatusIndex      = "status-index"
)

type quoteItem struct {
	CorrelationID string `dynamodbav:"correlation_id"`
	// GSI key attributes cannot hold empty strings; failed quotes have no quote id.
	QuoteID       string `dynamodbav:"quote_id,omitempty"`
	Premium       string `dynamodbav:"premium"`
	Currency      string `dynamodbav:"currency,omitempty"`
	ExpiresAt     string `dynamodbav:"expires_at,omitempty"`
	Status        string `dynamodbav:"status"`
	FailureReason string `dynamodbav:"failure_reason,omitempty"`
	CreatedAt     string `dynamodbav:"created_at"`
	UpdatedAt     string `dynamodbav:"updated_at"`
}

// QuoteDynamoRepository persists Quote entities in DynamoDB.
//
// Table requirements:
//   - PK: correlation_id (string)
//   - GSI: quote_id-index (PK: quote_id)
//   - GSI: status-index (PK: status)

type QuoteDynamoRepository struct {
	ddb       DynamoAPI
	tableName string
}

var _ interfaces.IQuoteRepository = (*QuoteDynamoRepository)(nil)

func NewQuoteDynamoRepository(ddb DynamoAPI, tableName string) *QuoteDynamoRepository {
	if tableName == "" {
		tableName = getenvDefault("QUOTES_TABLE", defaultQuotesTableName)
	}
	return &QuoteDynamoRepository{ddb: ddb, tableName: tableName}
}

func (r *QuoteDynamoRepository) Create(ctx context.Context, q entities.Quote) (entities.Quote, error) {
	av, err := attributevalue.MarshalMap(toQuoteItem(q))
	if err != nil {
		return entities.Quote{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#cid)"),
		ExpressionAttributeNames: map[string]string{
			"#cid": "correlation_id",
		},
	})
	if err != nil {
		if isConditionFailed(err) {
			return entities.Quote{}, entities.ErrAlreadyExists
		}
		return entities.Quote{}, err
	}
	return q, nil
}

func (r *QuoteDynamoRepository) GetByCorrelationID(ctx context.Context, correlationID string) (entities.Quote, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"correlation_id": &types.AttributeValueMemberS{Value: correlationID},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Quote{}, err
	}
	if len(out.Item) == 0 {
		return entities.Quote{}, nil
	}

	var it quoteItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Quote{}, err
	}
	return fromQuoteItem(it), nil
}

func (r *QuoteDynamoRepository) GetByQuoteID(ctx context.Context, quoteID string) (entities.Quote, error) {
	out, err := r.ddb.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(quotesQuoteIDIndex),
		KeyConditionExpression: aws.String("#qid = :qid"),
		ExpressionAttributeNames: map[string]string{
			"#qid": "quote_id",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":qid": &types.AttributeValueMemberS{Value: quoteID},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return entities.Quote{}, err
	}
	if len(out.Items) == 0 {
		return entities.Quote{}, nil
	}

	var it quoteItem
	if err := attributevalue.UnmarshalMap(out.Items[0], &it); err != nil {
		return entities.Quote{}, err
	}
	return fromQuoteItem(it), nil
}

func (r *QuoteDynamoRepository) ListByStatus(ctx context.Context, status entities.QuoteStatus) ([]entities.Quote, error) {
	var (
		quotes []entities.Quote
		start  map[string]types.AttributeValue
	)
	for {
		out, err := r.ddb.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(r.tableName),
			IndexName:              aws.String(quotesStatusIndex),
			KeyConditionExpression: aws.String("#status = :status"),
			ExpressionAttributeNames: map[string]string{
				"#status": "status",
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":status": &types.AttributeValueMemberS{Value: string(status)},
			},
			ExclusiveStartKey: start,
		})
		if err != nil {
			return nil, err
		}

		var items []quoteItem
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
			return nil, err
		}
		for _, it := range items {
			quotes = append(quotes, fromQuoteItem(it))
		}

		if len(out.LastEvaluatedKey) == 0 {
			return quotes, nil
		}
		start = out.LastEvaluatedKey
	}
}

// MarkExpired moves a priced quote to expired. Any other status fails the condition and
// is reported as entities.ErrVersionConflict.
func (r *QuoteDynamoRepository) MarkExpired(ctx context.Context, correlationID string, now time.Time) (entities.Quote, error) {
	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"correlation_id": &types.AttributeValueMemberS{Value: correlationID},
		},
		ConditionExpression: aws.String("attribute_exists(#cid) AND #status = :priced"),
		UpdateExpression:    aws.String("SET #status = :expired, #updated_at = :updated_at"),
		ExpressionAttributeNames: map[string]string{
			"#cid":        "correlation_id",
			"#status":     "status",
			"#updated_at": "updated_at",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":priced":     &types.AttributeValueMemberS{Value: string(entities.QuoteStatusPriced)},
			":expired":    &types.AttributeValueMemberS{Value: string(entities.QuoteStatusExpired)},
			":updated_at": &types.AttributeValueMemberS{Value: formatTime(now)},
		},
		ReturnValues: types.ReturnValueAllNew,
	})
	if err != nil {
		if isConditionFailed(err) {
			return entities.Quote{}, entities.ErrVersionConflict
		}
		return entities.Quote{}, err
	}

	var it quoteItem
	if err := attributevalue.UnmarshalMap(out.Attributes, &it); err != nil {
		return entities.Quote{}, err
	}
	return fromQuoteItem(it), nil
}

func toQuoteItem(q entities.Quote) quoteItem {
	return quoteItem{
		CorrelationID: q.CorrelationID,
		QuoteID:       q.QuoteID,
		Premium:       q.Premium.String(),
		Currency:      q.Currency,
		ExpiresAt:     formatTime(q.ExpiresAt),
		Status:        string(q.Status),
		FailureReason: string(q.FailureReason),
		CreatedAt:     formatTime(q.CreatedAt),
		UpdatedAt:     formatTime(q.UpdatedAt),
	}
}

func fromQuoteItem(it quoteItem) entities.Quote {
	premium, _ := decimal.NewFromString(it.Premium)
	return entities.Quote{
		CorrelationID: it.CorrelationID,
		QuoteID:       it.QuoteID,
		Premium:       premium,
		Currency:      it.Currency,
		ExpiresAt:     parseTime(it.ExpiresAt),
		Status:        entities.QuoteStatus(it.Status),
		FailureReason: entities.FailureReason(it.FailureReason),
		CreatedAt:     parseTime(it.CreatedAt),
		UpdatedAt:     parseTime(it.UpdatedAt),
	}
}
