package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"insightmap-backend/application/ports"
	"insightmap-backend/domain/core/entities"
	"insightmap-backend/domain/core/valueobjects"
)

// ActivityRepository implements the append-only activity log on
// DynamoDB. The sort key embeds the timestamp so a descending query
// returns most recent entries first without a separate index.
type ActivityRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) ports.ActivityRepository {
	return &ActivityRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// activityItem represents the DynamoDB item structure for an activity
// entry
type activityItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	EntityType string `dynamodbav:"EntityType"`
	ActivityID string `dynamodbav:"ActivityID"`
	MapID      string `dynamodbav:"MapID"`
	UserID     string `dynamodbav:"UserID"`
	UserName   string `dynamodbav:"UserName"`
	Action     string `dynamodbav:"Action"`
	TargetID   string `dynamodbav:"TargetID"`
	TargetName string `dynamodbav:"TargetName"`
	Details    string `dynamodbav:"Details"`
	Timestamp  string `dynamodbav:"Timestamp"`
}

// Append writes one activity entry
func (r *ActivityRepository) Append(ctx context.Context, entry *entities.ActivityEntry) error {
	item := activityItem{
		PK:         fmt.Sprintf("MAP#%s", entry.MapID().String()),
		SK:         fmt.Sprintf("ACTIVITY#%s#%s", entry.Timestamp().UTC().Format(time.RFC3339Nano), entry.ID()),
		EntityType: "ACTIVITY",
		ActivityID: entry.ID(),
		MapID:      entry.MapID().String(),
		UserID:     entry.UserID(),
		UserName:   entry.UserName(),
		Action:     string(entry.Action()),
		TargetID:   entry.TargetID(),
		TargetName: entry.TargetName(),
		Details:    entry.Details(),
		Timestamp:  entry.Timestamp().Format(time.RFC3339Nano),
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal activity entry: %w", err)
	}

	if _, err := r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	}); err != nil {
		return fmt.Errorf("failed to save activity entry: %w", err)
	}
	return nil
}

// GetByMap returns a map's entries, most recent first, capped at limit
func (r *ActivityRepository) GetByMap(ctx context.Context, mapID valueobjects.MapID, limit int) ([]*entities.ActivityEntry, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :sk)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: fmt.Sprintf("MAP#%s", mapID.String())},
			":sk": &types.AttributeValueMemberS{Value: "ACTIVITY#"},
		},
		ScanIndexForward: aws.Bool(false),
	}
	if limit > 0 {
		input.Limit = aws.Int32(int32(limit))
	}

	result, err := r.client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query activity: %w", err)
	}

	entries := make([]*entities.ActivityEntry, 0, len(result.Items))
	for _, raw := range result.Items {
		var item activityItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			r.logger.Warn("failed to unmarshal activity item", zap.Error(err))
			continue
		}

		itemMapID, err := valueobjects.NewMapIDFromString(item.MapID)
		if err != nil {
			continue
		}
		ts, _ := time.Parse(time.RFC3339Nano, item.Timestamp)
		entries = append(entries, entities.ReconstructActivityEntry(
			item.ActivityID,
			itemMapID,
			item.UserID,
			item.UserName,
			entities.ActivityAction(item.Action),
			item.TargetID,
			item.TargetName,
			item.Details,
			ts,
		))
	}
	return entries, nil
}
