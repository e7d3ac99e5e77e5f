package repository

import (
	"context"

	"cargo_cover/internal/domain/entities"
	"cargo_cover/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	defaultBookingsTableName   = "bookings"
	bookingsPolicyNumberIndex  = "policy_number-index"
	bookingsCorrelationIDIndex = "correlation_id-index"
)

type bookingItem struct {
	ID            string `dynamodbav:"id"`
	CorrelationID string `dynamodbav:"correlation_id"`
	PolicyNumber  string `dynamodbav:"policy_number,omitempty"`
	QuoteID       string `dynamodbav:"quote_id"`
	Status        string `dynamodbav:"status"`
	CreatedAt     string `dynamodbav:"created_at"`
	UpdatedAt     string `dynamodbav:"updated_at"`
}

// BookingDynamoRepository persists Booking entities in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//   - GSI: policy_number-index (PK: policy_number)
//   - GSI: correlation_id-index (PK: correlation_id)
//
// policy_number is deliberately not unique at the storage level: duplicates are drift the
// reconciliation pass has to see and flag.

type BookingDynamoRepository struct {
	ddb       DynamoAPI
	tableName string
}

var _ interfaces.IBookingRepository = (*BookingDynamoRepository)(nil)

func NewBookingDynamoRepository(ddb DynamoAPI, tableName string) *BookingDynamoRepository {
	if tableName == "" {
		tableName = getenvDefault("BOOKINGS_TABLE", defaultBookingsTableName)
	}
	return &BookingDynamoRepository{ddb: ddb, tableName: tableName}
}

func (r *BookingDynamoRepository) Create(ctx context.Context, b entities.Booking) (entities.Booking, error) {
	av, err := attributevalue.MarshalMap(toBookingItem(b))
	if err != nil {
		return entities.Booking{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": "id",
		},
	})
	if err != nil {
		if isConditionFailed(err) {
			return entities.Booking{}, entities.ErrAlreadyExists
		}
		return entities.Booking{}, err
	}
	return b, nil
}

func (r *BookingDynamoRepository) GetByID(ctx context.Context, id string) (entities.Booking, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Booking{}, err
	}
	if len(out.Item) == 0 {
		return entities.Booking{}, nil
	}

	var it bookingItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Booking{}, err
	}
	return fromBookingItem(it), nil
}

func (r *BookingDynamoRepository) GetByCorrelationID(ctx context.Context, correlationID string) (entities.Booking, error) {
	bookings, err := r.queryIndex(ctx, bookingsCorrelationIDIndex, "correlation_id", correlationID)
	if err != nil {
		return entities.Booking{}, err
	}
	if len(bookings) == 0 {
		return entities.Booking{}, nil
	}
	return bookings[0], nil
}

func (r *BookingDynamoRepository) ListByPolicyNumber(ctx context.Context, policyNumber string) ([]entities.Booking, error) {
	return r.queryIndex(ctx, bookingsPolicyNumberIndex, "policy_number", policyNumber)
}

// List scans one page of bookings. The cursor is the last booking id of the previous
// page; an empty next cursor means the scan is complete.
func (r *BookingDynamoRepository) List(ctx context.Context, cursor string, limit int) ([]entities.Booking, string, error) {
	in := &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
	}
	if limit > 0 {
		in.Limit = aws.Int32(int32(limit))
	}
	if cursor != "" {
		in.ExclusiveStartKey = map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: cursor},
		}
	}

	out, err := r.ddb.Scan(ctx, in)
	if err != nil {
		return nil, "", err
	}

	var items []bookingItem
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
		return nil, "", err
	}
	bookings := make([]entities.Booking, 0, len(items))
	for _, it := range items {
		bookings = append(bookings, fromBookingItem(it))
	}

	next := ""
	if k, ok := out.LastEvaluatedKey["id"].(*types.AttributeValueMemberS); ok {
		next = k.Value
	}
	return bookings, next, nil
}

func (r *BookingDynamoRepository) queryIndex(ctx context.Context, index, attr, value string) ([]entities.Booking, error) {
	var (
		bookings []entities.Booking
		start    map[string]types.AttributeValue
	)
	for {
		out, err := r.ddb.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(r.tableName),
			IndexName:              aws.String(index),
			KeyConditionExpression: aws.String("#k = :v"),
			ExpressionAttributeNames: map[string]string{
				"#k": attr,
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":v": &types.AttributeValueMemberS{Value: value},
			},
			ExclusiveStartKey: start,
		})
		if err != nil {
			return nil, err
		}

		var items []bookingItem
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
			return nil, err
		}
		for _, it := range items {
			bookings = append(bookings, fromBookingItem(it))
		}

		if len(out.LastEvaluatedKey) == 0 {
			return bookings, nil
		}
		start = out.LastEvaluatedKey
	}
}

func toBookingItem(b entities.Booking) bookingItem {
	return bookingItem{
		ID:            b.ID,
		CorrelationID: b.CorrelationID,
		PolicyNumber:  b.PolicyNumber,
		QuoteID:       b.QuoteID,
		Status:        string(b.Status),
		CreatedAt:     formatTime(b.CreatedAt),
		UpdatedAt:     formatTime(b.UpdatedAt),
	}
}

func fromBookingItem(it bookingItem) entities.Booking {
	return entities.Booking{
		ID:            it.ID,
		CorrelationID: it.CorrelationID,
		PolicyNumber:  it.PolicyNumber,
		QuoteID:       it.QuoteID,
		Status:        entities.BookingStatus(it.Status),
		CreatedAt:     parseTime(it.CreatedAt),
		UpdatedAt:     parseTime(it.UpdatedAt),
	}
}
