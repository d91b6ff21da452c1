package dynamo

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/abramad/crisis-game-api/internal/domain"
)

// LeadRepo provides typed DynamoDB operations for the leads table.
type LeadRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewLeadRepo(client *dynamodb.Client, tableName string) *LeadRepo {
	return &LeadRepo{client: client, tableName: tableName}
}

// Insert writes a new lead. The condition on the phone partition key makes
// the table itself reject a duplicate phone, closing the window between the
// uniqueness pre-check and the write; that rejection comes back as
// domain.ErrConflict.
func (r *LeadRepo) Insert(ctx context.Context, l *domain.Lead) error {
	item, err := attributevalue.MarshalMap(l)
	if err != nil {
		return fmt.Errorf("marshal lead: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(phone)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return fmt.Errorf("lead with phone %s already exists: %w", l.Phone, domain.ErrConflict)
		}
		return err
	}
	return nil
}

// GetByPhone looks a lead up by its partition key.
func (r *LeadRepo) GetByPhone(ctx context.Context, phone string) (*domain.Lead, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("phone", phone),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("lead for phone %s: %w", phone, domain.ErrNotFound)
	}
	var l domain.Lead
	if err := attributevalue.UnmarshalMap(out.Item, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

// GetByEmail looks a lead up through the email-index GSI.
func (r *LeadRepo) GetByEmail(ctx context.Context, email string) (*domain.Lead, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String("email-index"),
		KeyConditionExpression:    aws.String("#a = :v"),
		ExpressionAttributeNames:  map[string]string{"#a": "email"},
		ExpressionAttributeValues: map[string]types.AttributeValue{":v": &types.AttributeValueMemberS{Value: email}},
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("lead for email %s: %w", email, domain.ErrNotFound)
	}
	var l domain.Lead
	if err := attributevalue.UnmarshalMap(out.Items[0], &l); err != nil {
		return nil, err
	}
	return &l, nil
}

// ScanPage returns a page of leads.
// cursor is a base64-encoded phone used as ExclusiveStartKey.
// Returns the items, a next cursor (empty string when no more pages), and any error.
func (r *LeadRepo) ScanPage(ctx context.Context, limit int32, cursor string) ([]domain.Lead, string, error) {
	input := &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
		Limit:     aws.Int32(limit),
	}
	if cursor != "" {
		phone, err := decodeCursor(cursor)
		if err != nil {
			return nil, "", fmt.Errorf("invalid cursor: %w", domain.ErrBadRequest)
		}
		input.ExclusiveStartKey = strKey("phone", phone)
	}
	out, err := r.client.Scan(ctx, input)
	if err != nil {
		return nil, "", err
	}
	var leads []domain.Lead
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &leads); err != nil {
		return nil, "", err
	}
	nextCursor := ""
	if v, ok := out.LastEvaluatedKey["phone"].(*types.AttributeValueMemberS); ok {
		nextCursor = encodeCursor(v.Value)
	}
	return leads, nextCursor, nil
}
