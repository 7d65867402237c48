package dynamo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/addisnest/api/internal/domain"
	"github.com/addisnest/api/internal/pkg/id"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	// otpRetention keeps an expired entry readable for a while so a late
	// verify reports expiry instead of a missing code.
	otpRetention = time.Hour
	maxCASRounds = 5
)

// OTPRepo stores one OTP entry per email. PK: email.
// Every write sets a fresh revision; updates are conditional on the revision
// that was read, so concurrent verifies cannot both consume an attempt.
type OTPRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewOTPRepo(client *dynamodb.Client, tableName string) *OTPRepo {
	return &OTPRepo{client: client, tableName: tableName}
}

// Put overwrites any existing entry for e.Email.
func (r *OTPRepo) Put(ctx context.Context, e *domain.OTPEntry) error {
	e.Revision = id.New()
	item, err := marshalOTP(e)
	if err != nil {
		return err
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *OTPRepo) Update(ctx context.Context, email string, fn domain.OTPUpdateFunc) error {
	for round := 0; round < maxCASRounds; round++ {
		cur, err := r.get(ctx, email)
		if err != nil {
			return err
		}
		prevRev := ""
		if cur != nil {
			prevRev = cur.Revision
		}

		action, fnErr := fn(cur)
		switch action {
		case domain.OTPKeep:
			return fnErr
		case domain.OTPSave:
			if cur == nil {
				return fmt.Errorf("otp save without entry for %s", email)
			}
			err = r.conditionalPut(ctx, cur, prevRev)
		case domain.OTPDelete:
			if cur == nil {
				return fnErr
			}
			err = r.conditionalDelete(ctx, email, prevRev)
		}

		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			continue
		}
		if err != nil {
			return err
		}
		return fnErr
	}
	return fmt.Errorf("otp for %s changed concurrently: %w", email, domain.ErrConflict)
}

func (r *OTPRepo) get(ctx context.Context, email string) (*domain.OTPEntry, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            strKey("email", email),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, nil
	}
	var e domain.OTPEntry
	if err := attributevalue.UnmarshalMap(out.Item, &e); err != nil {
		return nil, fmt.Errorf("unmarshal otp: %w", err)
	}
	return &e, nil
}

func (r *OTPRepo) conditionalPut(ctx context.Context, e *domain.OTPEntry, prevRev string) error {
	e.Revision = id.New()
	item, err := marshalOTP(e)
	if err != nil {
		return err
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                 aws.String(r.tableName),
		Item:                      item,
		ConditionExpression:       aws.String("#r = :r"),
		ExpressionAttributeNames:  map[string]string{"#r": fieldRevision},
		ExpressionAttributeValues: map[string]types.AttributeValue{":r": &types.AttributeValueMemberS{Value: prevRev}},
	})
	return err
}

func (r *OTPRepo) conditionalDelete(ctx context.Context, email, prevRev string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("email", email),
		ConditionExpression:       aws.String("#r = :r"),
		ExpressionAttributeNames:  map[string]string{"#r": fieldRevision},
		ExpressionAttributeValues: map[string]types.AttributeValue{":r": &types.AttributeValueMemberS{Value: prevRev}},
	})
	return err
}

// marshalOTP adds the numeric expires_at attribute the table TTL runs on.
func marshalOTP(e *domain.OTPEntry) (map[string]types.AttributeValue, error) {
	item, err := attributevalue.MarshalMap(e)
	if err != nil {
		return nil, fmt.Errorf("marshal otp: %w", err)
	}
	ttl := e.ExpiresAt.Add(otpRetention).Unix()
	item[fieldExpiresAt] = &types.AttributeValueMemberN{Value: strconv.FormatInt(ttl, 10)}
	return item, nil
}
