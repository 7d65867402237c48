package dynamo

import (
	"context"
	"fmt"

	"github.com/addisnest/api/internal/domain"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// FileRepo keeps upload metadata in the files table, keyed by generated filename.
type FileRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewFileRepo(client *dynamodb.Client, tableName string) *FileRepo {
	return &FileRepo{client: client, tableName: tableName}
}

func (r *FileRepo) Put(ctx context.Context, f *domain.UploadedFile) error {
	item, err := attributevalue.MarshalMap(f)
	if err != nil {
		return fmt.Errorf("marshal file: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}
