package repository

import (
	"context"
	"strconv"
	"time"

	"cargo_cover/internal/domain/entities"
	"cargo_cover/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const defaultCertificatesTableName = "certificates"

type certificateItem struct {
	CertificateNumber string `dynamodbav:"certificate_number"`
	BookingID         string `dynamodbav:"booking_id,omitempty"`
	PolicyNumber      string `dynamodbav:"policy_number,omitempty"`
	DocumentURL       string `dynamodbav:"document_url,omitempty"`
	IssuedAt          string `dynamodbav:"issued_at,omitempty"`
	Version           int64  `dynamodbav:"version"`
	NeedsReview       bool   `dynamodbav:"needs_review,omitempty"`
	ReviewReason      string `dynamodbav:"review_reason,omitempty"`
	UpdatedAt         string `dynamodbav:"updated_at"`
}

// CertificateDynamoRepository persists Certificate entities in DynamoDB.
//
// Table requirements:
//   - PK: certificate_number (string)
//
// version is incremented on every link rewrite; writers pass the version they read.

type CertificateDynamoRepository struct {
	ddb       DynamoAPI
	tableName string
	now       func() time.Time
}

var _ interfaces.ICertificateRepository = (*CertificateDynamoRepository)(nil)

func NewCertificateDynamoRepository(ddb DynamoAPI, tableName string) *CertificateDynamoRepository {
	if tableName == "" {
		tableName = getenvDefault("CERTIFICATES_TABLE", defaultCertificatesTableName)
	}
	return &CertificateDynamoRepository{ddb: ddb, tableName: tableName, now: time.Now}
}

func (r *CertificateDynamoRepository) Create(ctx context.Context, c entities.Certificate) (entities.Certificate, error) {
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = r.now().UTC()
	}
	av, err := attributevalue.MarshalMap(toCertificateItem(c))
	if err != nil {
		return entities.Certificate{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#num)"),
		ExpressionAttributeNames: map[string]string{
			"#num": "certificate_number",
		},
	})
	if err != nil {
		if isConditionFailed(err) {
			return entities.Certificate{}, entities.ErrAlreadyExists
		}
		return entities.Certificate{}, err
	}
	return c, nil
}

func (r *CertificateDynamoRepository) GetByNumber(ctx context.Context, certificateNumber string) (entities.Certificate, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            certificateKey(certificateNumber),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Certificate{}, err
	}
	if len(out.Item) == 0 {
		return entities.Certificate{}, nil
	}

	var it certificateItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Certificate{}, err
	}
	return fromCertificateItem(it), nil
}

// UpdateLink rewrites booking_id if the stored version still equals expectedVersion.
func (r *CertificateDynamoRepository) UpdateLink(ctx context.Context, certificateNumber, bookingID string, expectedVersion int64) (entities.Certificate, error) {
	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 certificateKey(certificateNumber),
		ConditionExpression: aws.String("attribute_exists(#num) AND #version = :expected"),
		UpdateExpression:    aws.String("SET #booking_id = :booking_id, #version = #version + :one, #updated_at = :updated_at"),
		ExpressionAttributeNames: map[string]string{
			"#num":        "certificate_number",
			"#booking_id": "booking_id",
			"#version":    "version",
			"#updated_at": "updated_at",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":booking_id": &types.AttributeValueMemberS{Value: bookingID},
			":expected":   &types.AttributeValueMemberN{Value: strconv.FormatInt(expectedVersion, 10)},
			":one":        &types.AttributeValueMemberN{Value: "1"},
			":updated_at": &types.AttributeValueMemberS{Value: formatTime(r.now())},
		},
		ReturnValues: types.ReturnValueAllNew,
	})
	if err != nil {
		if isConditionFailed(err) {
			return entities.Certificate{}, entities.ErrVersionConflict
		}
		return entities.Certificate{}, err
	}

	var it certificateItem
	if err := attributevalue.UnmarshalMap(out.Attributes, &it); err != nil {
		return entities.Certificate{}, err
	}
	return fromCertificateItem(it), nil
}

// FlagForReview marks the certificate for manual review. A missing certificate is a no-op.
func (r *CertificateDynamoRepository) FlagForReview(ctx context.Context, certificateNumber, reason string) error {
	_, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 certificateKey(certificateNumber),
		ConditionExpression: aws.String("attribute_exists(#num)"),
		UpdateExpression:    aws.String("SET #needs_review = :true, #review_reason = :reason, #updated_at = :updated_at"),
		ExpressionAttributeNames: map[string]string{
			"#num":           "certificate_number",
			"#needs_review":  "needs_review",
			"#review_reason": "review_reason",
			"#updated_at":    "updated_at",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":true":       &types.AttributeValueMemberBOOL{Value: true},
			":reason":     &types.AttributeValueMemberS{Value: reason},
			":updated_at": &types.AttributeValueMemberS{Value: formatTime(r.now())},
		},
	})
	if err != nil && !isConditionFailed(err) {
		return err
	}
	return nil
}

// List scans one page of certificates. The cursor is the last certificate number of the
// previous page; an empty next cursor means the scan is complete.
func (r *CertificateDynamoRepository) List(ctx context.Context, cursor string, limit int) ([]entities.Certificate, string, error) {
	in := &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
	}
	if limit > 0 {
		in.Limit = aws.Int32(int32(limit))
	}
	if cursor != "" {
		in.ExclusiveStartKey = certificateKey(cursor)
	}

	out, err := r.ddb.Scan(ctx, in)
	if err != nil {
		return nil, "", err
	}

	var items []certificateItem
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
		return nil, "", err
	}
	certs := make([]entities.Certificate, 0, len(items))
	for _, it := range items {
		certs = append(certs, fromCertificateItem(it))
	}

	next := ""
	if k, ok := out.LastEvaluatedKey["certificate_number"].(*types.AttributeValueMemberS); ok {
		next = k.Value
	}
	return certs, next, nil
}

func certificateKey(certificateNumber string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"certificate_number": &types.AttributeValueMemberS{Value: certificateNumber},
	}
}

func toCertificateItem(c entities.Certificate) certificateItem {
	return certificateItem{
		CertificateNumber: c.CertificateNumber,
		BookingID:         c.BookingID,
		PolicyNumber:      c.PolicyNumber,
		DocumentURL:       c.DocumentURL,
		IssuedAt:          formatTime(c.IssuedAt),
		Version:           c.Version,
		NeedsReview:       c.NeedsReview,
		ReviewReason:      c.ReviewReason,
		UpdatedAt:         formatTime(c.UpdatedAt),
	}
}

func fromCertificateItem(it certificateItem) entities.Certificate {
	return entities.Certificate{
		CertificateNumber: it.CertificateNumber,
		BookingID:         it.BookingID,
		PolicyNumber:      it.PolicyNumber,
		DocumentURL:       it.DocumentURL,
		IssuedAt:          parseTime(it.IssuedAt),
		Version:           it.Version,
		NeedsReview:       it.NeedsReview,
		ReviewReason:      it.ReviewReason,
		UpdatedAt:         parseTime(it.UpdatedAt),
	}
}
