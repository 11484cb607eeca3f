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
	pkgerrors "insightmap-backend/pkg/errors"
)

// NotificationRepository implements ports.NotificationRepository using
// DynamoDB. Rows live under the recipient's partition with the
// timestamp in the sort key, so the inbox query is a single descending
// read.
type NotificationRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) ports.NotificationRepository {
	return &NotificationRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// notificationItem represents the DynamoDB item structure for a
// notification
type notificationItem struct {
	PK             string `dynamodbav:"PK"`
	SK             string `dynamodbav:"SK"`
	EntityType     string `dynamodbav:"EntityType"`
	NotificationID string `dynamodbav:"NotificationID"`
	UserID         string `dynamodbav:"UserID"`
	Type           string `dynamodbav:"Type"`
	Title          string `dynamodbav:"Title"`
	Message        string `dynamodbav:"Message"`
	RelatedID      string `dynamodbav:"RelatedID"`
	RelatedType    string `dynamodbav:"RelatedType"`
	ActionURL      string `dynamodbav:"ActionURL"`
	IsRead         bool   `dynamodbav:"IsRead"`
	CreatedAt      string `dynamodbav:"CreatedAt"`
}

func notificationSK(createdAt time.Time, id string) string {
	return fmt.Sprintf("NOTIF#%s#%s", createdAt.UTC().Format(time.RFC3339Nano), id)
}

// Save persists a notification
func (r *NotificationRepository) Save(ctx context.Context, n entities.Notification) error {
	item := notificationItem{
		PK:             fmt.Sprintf("USER#%s", n.UserID),
		SK:             notificationSK(n.CreatedAt, n.ID),
		EntityType:     "NOTIFICATION",
		NotificationID: n.ID,
		UserID:         n.UserID,
		Type:           n.Type,
		Title:          n.Title,
		Message:        n.Message,
		RelatedID:      n.RelatedID,
		RelatedType:    n.RelatedType,
		ActionURL:      n.ActionURL,
		IsRead:         n.Read,
		CreatedAt:      n.CreatedAt.Format(time.RFC3339Nano),
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	if _, err := r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	}); err != nil {
		return fmt.Errorf("failed to save notification: %w", err)
	}
	return nil
}

// GetByUser returns the user's notifications, most recent first
func (r *NotificationRepository) GetByUser(ctx context.Context, userID string, limit int) ([]entities.Notification, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :sk)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: fmt.Sprintf("USER#%s", userID)},
			":sk": &types.AttributeValueMemberS{Value: "NOTIF#"},
		},
		ScanIndexForward: aws.Bool(false),
	}
	if limit > 0 {
		input.Limit = aws.Int32(int32(limit))
	}

	result, err := r.client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}

	notifs := make([]entities.Notification, 0, len(result.Items))
	for _, raw := range result.Items {
		var item notificationItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			r.logger.Warn("failed to unmarshal notification item", zap.Error(err))
			continue
		}
		createdAt, _ := time.Parse(time.RFC3339Nano, item.CreatedAt)
		notifs = append(notifs, entities.Notification{
			ID:          item.NotificationID,
			UserID:      item.UserID,
			Type:        item.Type,
			Title:       item.Title,
			Message:     item.Message,
			RelatedID:   item.RelatedID,
			RelatedType: item.RelatedType,
			ActionURL:   item.ActionURL,
			Read:        item.IsRead,
			CreatedAt:   createdAt,
		})
	}
	return notifs, nil
}

// MarkRead flips one notification to read. The lookup is scoped to the
// caller's partition so users cannot touch each other's rows.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID string) error {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :sk)"),
		FilterExpression:       aws.String("NotificationID = :id"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: fmt.Sprintf("USER#%s", userID)},
			":sk": &types.AttributeValueMemberS{Value: "NOTIF#"},
			":id": &types.AttributeValueMemberS{Value: id},
		},
	}

	result, err := r.client.Query(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to look up notification: %w", err)
	}
	if len(result.Items) == 0 {
		return pkgerrors.NewNotFoundError("Notification")
	}

	var item notificationItem
	if err := attributevalue.UnmarshalMap(result.Items[0], &item); err != nil {
		return fmt.Errorf("failed to unmarshal notification: %w", err)
	}

	update := &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: item.PK},
			"SK": &types.AttributeValueMemberS{Value: item.SK},
		},
		UpdateExpression: aws.String("SET IsRead = :read"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":read": &types.AttributeValueMemberBOOL{Value: true},
		},
	}

	if _, err := r.client.UpdateItem(ctx, update); err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}
