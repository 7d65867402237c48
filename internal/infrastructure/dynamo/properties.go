package dynamo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/addisnest/api/internal/domain"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// PropertyRepo provides typed DynamoDB operations for the properties table.
type PropertyRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewPropertyRepo(client *dynamodb.Client, tableName string) *PropertyRepo {
	return &PropertyRepo{client: client, tableName: tableName}
}

func (r *PropertyRepo) Put(ctx context.Context, p *domain.Property) error {
	item, err := attributevalue.MarshalMap(p)
	if err != nil {
		return fmt.Errorf("marshal property: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *PropertyRepo) Get(ctx context.Context, propertyID string) (*domain.Property, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("property_id", propertyID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("property not found: %w", domain.ErrNotFound)
	}
	var p domain.Property
	if err := attributevalue.UnmarshalMap(out.Item, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPromoted returns enabled promoted listings via the promoted-index GSI.
func (r *PropertyRepo) ListPromoted(ctx context.Context, limit int32) ([]domain.Property, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("promoted-index"),
		KeyConditionExpression: aws.String("#p = :one"),
		FilterExpression:       aws.String("#e = :t"),
		ExpressionAttributeNames: map[string]string{
			"#p": fieldPromoted,
			"#e": fieldEnable,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":one": &types.AttributeValueMemberN{Value: "1"},
			":t":   &types.AttributeValueMemberBOOL{Value: true},
		},
		Limit: aws.Int32(limit),
	})
	if err != nil {
		return nil, err
	}
	var props []domain.Property
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &props); err != nil {
		return nil, err
	}
	return props, nil
}

// List scans up to limit enabled listings. The filter runs after the limit,
// so fewer than limit items may come back.
func (r *PropertyRepo) List(ctx context.Context, limit int32) ([]domain.Property, error) {
	out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
		TableName:                aws.String(r.tableName),
		FilterExpression:         aws.String("#e = :t"),
		ExpressionAttributeNames: map[string]string{"#e": fieldEnable},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":t": &types.AttributeValueMemberBOOL{Value: true},
		},
		Limit: aws.Int32(limit),
	})
	if err != nil {
		return nil, err
	}
	var props []domain.Property
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &props); err != nil {
		return nil, err
	}
	return props, nil
}

func (r *PropertyRepo) SoftDelete(ctx context.Context, propertyID string) error {
	return r.update(ctx, propertyID, map[string]interface{}{fieldEnable: false})
}

func (r *PropertyRepo) SetPromoted(ctx context.Context, propertyID string, promoted bool) error {
	v := 0
	if promoted {
		v = 1
	}
	return r.update(ctx, propertyID, map[string]interface{}{fieldPromoted: v})
}

func (r *PropertyRepo) update(ctx context.Context, propertyID string, updates map[string]interface{}) error {
	updates[fieldUpdatedAt] = time.Now().UTC().Format(time.RFC3339)
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("property_id", propertyID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
		ConditionExpression:       aws.String("attribute_exists(property_id)"),
	})
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return fmt.Errorf("property not found: %w", domain.ErrNotFound)
	}
	return err
}
