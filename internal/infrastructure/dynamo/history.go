package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/signal-verifier/internal/domain"
)

const historyByUserIndex = "user_id-timestamp-index"

// HistoryRepo is the append-only verification audit log. The core only
// writes; entries are never mutated or deleted from here.
type HistoryRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewHistoryRepo(client *dynamodb.Client, tableName string) *HistoryRepo {
	return &HistoryRepo{client: client, tableName: tableName}
}

func (r *HistoryRepo) Append(ctx context.Context, e *domain.HistoryEntry) error {
	item, err := attributevalue.MarshalMap(e)
	if err != nil {
		return fmt.Errorf("marshal history entry: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

// RecentByUser returns a user's latest verification attempts, newest first.
func (r *HistoryRepo) RecentByUser(ctx context.Context, userID string, limit int32) ([]domain.HistoryEntry, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(historyByUserIndex),
		KeyConditionExpression: aws.String("user_id = :uid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uid": &types.AttributeValueMemberS{Value: userID},
		},
		ScanIndexForward: aws.Bool(false),
		Limit:            aws.Int32(limit),
	})
	if err != nil {
		return nil, err
	}
	entries := make([]domain.HistoryEntry, 0, len(out.Items))
	for _, item := range out.Items {
		var e domain.HistoryEntry
		if err := attributevalue.UnmarshalMap(item, &e); err != nil {
			return nil, fmt.Errorf("unmarshal history entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
