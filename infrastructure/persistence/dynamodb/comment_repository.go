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
	pkgerrors "insightmap-backend/pkg/errors"
)

// CommentRepository implements ports.CommentRepository using DynamoDB.
// The sort key nests the group id so per-group reads are a prefix
// query on the map's partition.
type CommentRepository struct {
	client    *dynamodb.Client
	tableName string
	indexName string
	logger    *zap.Logger
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(client *dynamodb.Client, tableName, indexName string, logger *zap.Logger) ports.CommentRepository {
	return &CommentRepository{
		client:    client,
		tableName: tableName,
		indexName: indexName,
		logger:    logger,
	}
}

// commentItem represents the DynamoDB item structure for a comment
type commentItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	GSI1PK     string `dynamodbav:"GSI1PK"`
	GSI1SK     string `dynamodbav:"GSI1SK"`
	EntityType string `dynamodbav:"EntityType"`
	CommentID  string `dynamodbav:"CommentID"`
	MapID      string `dynamodbav:"MapID"`
	GroupID    string `dynamodbav:"GroupID"`
	UserID     string `dynamodbav:"UserID"`
	UserName   string `dynamodbav:"UserName"`
	Text       string `dynamodbav:"Text"`
	Resolved   bool   `dynamodbav:"Resolved"`
	CreatedAt  string `dynamodbav:"CreatedAt"`
	UpdatedAt  string `dynamodbav:"UpdatedAt"`
}

func commentToItem(c *entities.Comment) commentItem {
	return commentItem{
		PK:         fmt.Sprintf("MAP#%s", c.MapID().String()),
		SK:         fmt.Sprintf("COMMENT#%s#%s", c.GroupID().String(), c.ID()),
		GSI1PK:     fmt.Sprintf("COMMENTID#%s", c.ID()),
		GSI1SK:     "METADATA",
		EntityType: "COMMENT",
		CommentID:  c.ID(),
		MapID:      c.MapID().String(),
		GroupID:    c.GroupID().String(),
		UserID:     c.UserID(),
		UserName:   c.UserName(),
		Text:       c.Text(),
		Resolved:   c.Resolved(),
		CreatedAt:  c.CreatedAt().Format(time.RFC3339Nano),
		UpdatedAt:  c.UpdatedAt().Format(time.RFC3339Nano),
	}
}

func itemToComment(item commentItem) (*entities.Comment, error) {
	mapID, err := valueobjects.NewMapIDFromString(item.MapID)
	if err != nil {
		return nil, fmt.Errorf("invalid stored map id: %w", err)
	}
	groupID, err := valueobjects.NewGroupIDFromString(item.GroupID)
	if err != nil {
		return nil, fmt.Errorf("invalid stored group id: %w", err)
	}

	createdAt, _ := time.Parse(time.RFC3339Nano, item.CreatedAt)
	updatedAt, _ := time.Parse(time.RFC3339Nano, item.UpdatedAt)
	return entities.ReconstructComment(
		item.CommentID,
		mapID,
		groupID,
		item.UserID,
		item.UserName,
		item.Text,
		item.Resolved,
		createdAt,
		updatedAt,
	), nil
}

// Save persists a comment
func (r *CommentRepository) Save(ctx context.Context, c *entities.Comment) error {
	av, err := attributevalue.MarshalMap(commentToItem(c))
	if err != nil {
		return fmt.Errorf("failed to marshal comment: %w", err)
	}

	if _, err := r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	}); err != nil {
		r.logger.Error("failed to save comment",
			zap.String("commentId", c.ID()), zap.Error(err))
		return fmt.Errorf("failed to save comment: %w", err)
	}
	return nil
}

// GetByID retrieves a comment by its id via GSI1
func (r *CommentRepository) GetByID(ctx context.Context, id string) (*entities.Comment, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(r.indexName),
		KeyConditionExpression: aws.String("GSI1PK = :pk AND GSI1SK = :sk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: fmt.Sprintf("COMMENTID#%s", id)},
			":sk": &types.AttributeValueMemberS{Value: "METADATA"},
		},
		Limit: aws.Int32(1),
	}

	result, err := r.client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query comment: %w", err)
	}
	if len(result.Items) == 0 {
		return nil, pkgerrors.NewNotFoundError("Comment")
	}

	var item commentItem
	if err := attributevalue.UnmarshalMap(result.Items[0], &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal comment: %w", err)
	}
	return itemToComment(item)
}

// GetByGroup lists one group's comments
func (r *CommentRepository) GetByGroup(ctx context.Context, mapID valueobjects.MapID, groupID valueobjects.GroupID) ([]*entities.Comment, error) {
	prefix := fmt.Sprintf("COMMENT#%s#", groupID.String())
	return r.queryByPrefix(ctx, mapID, prefix)
}

// GetByMap lists all comments of a map
func (r *CommentRepository) GetByMap(ctx context.Context, mapID valueobjects.MapID) ([]*entities.Comment, error) {
	return r.queryByPrefix(ctx, mapID, "COMMENT#")
}

func (r *CommentRepository) queryByPrefix(ctx context.Context, mapID valueobjects.MapID, prefix string) ([]*entities.Comment, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :sk)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: fmt.Sprintf("MAP#%s", mapID.String())},
			":sk": &types.AttributeValueMemberS{Value: prefix},
		},
	}

	result, err := r.client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}

	comments := make([]*entities.Comment, 0, len(result.Items))
	for _, raw := range result.Items {
		var item commentItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			r.logger.Warn("failed to unmarshal comment item", zap.Error(err))
			continue
		}
		c, err := itemToComment(item)
		if err != nil {
			r.logger.Warn("failed to reconstruct comment",
				zap.String("commentId", item.CommentID), zap.Error(err))
			continue
		}
		comments = append(comments, c)
	}
	return comments, nil
}
