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

// ConnectionRepository implements ports.ConnectionRepository using
// DynamoDB. Connections hang off their map's partition so a single
// query loads the whole graph.
type ConnectionRepository struct {
	client    *dynamodb.Client
	tableName string
	indexName string
	logger    *zap.Logger
}

// NewConnectionRepository creates a new ConnectionRepository
func NewConnectionRepository(client *dynamodb.Client, tableName, indexName string, logger *zap.Logger) ports.ConnectionRepository {
	return &ConnectionRepository{
		client:    client,
		tableName: tableName,
		indexName: indexName,
		logger:    logger,
	}
}

// connectionItem represents the DynamoDB item structure for a connection
type connectionItem struct {
	PK            string `dynamodbav:"PK"`
	SK            string `dynamodbav:"SK"`
	GSI1PK        string `dynamodbav:"GSI1PK"`
	GSI1SK        string `dynamodbav:"GSI1SK"`
	EntityType    string `dynamodbav:"EntityType"`
	ConnectionID  string `dynamodbav:"ConnectionID"`
	MapID         string `dynamodbav:"MapID"`
	SourceGroupID string `dynamodbav:"SourceGroupID"`
	TargetGroupID string `dynamodbav:"TargetGroupID"`
	Type          string `dynamodbav:"Type"`
	Label         string `dynamodbav:"Label"`
	Strength      int    `dynamodbav:"Strength"`
	CreatedBy     string `dynamodbav:"CreatedBy"`
	CreatedAt     string `dynamodbav:"CreatedAt"`
	UpdatedAt     string `dynamodbav:"UpdatedAt"`
}

func connectionToItem(c *entities.Connection) connectionItem {
	return connectionItem{
		PK:            fmt.Sprintf("MAP#%s", c.MapID().String()),
		SK:            fmt.Sprintf("CONNECTION#%s", c.ID()),
		GSI1PK:        fmt.Sprintf("CONNID#%s", c.ID()),
		GSI1SK:        "METADATA",
		EntityType:    "CONNECTION",
		ConnectionID:  c.ID(),
		MapID:         c.MapID().String(),
		SourceGroupID: c.SourceGroupID().String(),
		TargetGroupID: c.TargetGroupID().String(),
		Type:          string(c.Type()),
		Label:         c.Label(),
		Strength:      c.Strength(),
		CreatedBy:     c.CreatedBy(),
		CreatedAt:     c.CreatedAt().Format(time.RFC3339Nano),
		UpdatedAt:     c.UpdatedAt().Format(time.RFC3339Nano),
	}
}

func itemToConnection(item connectionItem) (*entities.Connection, error) {
	mapID, err := valueobjects.NewMapIDFromString(item.MapID)
	if err != nil {
		return nil, fmt.Errorf("invalid stored map id: %w", err)
	}
	source, err := valueobjects.NewGroupIDFromString(item.SourceGroupID)
	if err != nil {
		return nil, fmt.Errorf("invalid stored source group id: %w", err)
	}
	target, err := valueobjects.NewGroupIDFromString(item.TargetGroupID)
	if err != nil {
		return nil, fmt.Errorf("invalid stored target group id: %w", err)
	}

	createdAt, _ := time.Parse(time.RFC3339Nano, item.CreatedAt)
	updatedAt, _ := time.Parse(time.RFC3339Nano, item.UpdatedAt)

	return entities.ReconstructConnection(
		item.ConnectionID,
		mapID,
		source,
		target,
		entities.ConnectionType(item.Type),
		item.Label,
		item.Strength,
		item.CreatedBy,
		createdAt,
		updatedAt,
	), nil
}

// Save persists a connection
func (r *ConnectionRepository) Save(ctx context.Context, conn *entities.Connection) error {
	av, err := attributevalue.MarshalMap(connectionToItem(conn))
	if err != nil {
		return fmt.Errorf("failed to marshal connection: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	}

	if _, err := r.client.PutItem(ctx, input); err != nil {
		r.logger.Error("failed to save connection",
			zap.String("connectionId", conn.ID()), zap.Error(err))
		return fmt.Errorf("failed to save connection: %w", err)
	}
	return nil
}

// GetByID retrieves a connection by its id via GSI1
func (r *ConnectionRepository) GetByID(ctx context.Context, id string) (*entities.Connection, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(r.indexName),
		KeyConditionExpression: aws.String("GSI1PK = :pk AND GSI1SK = :sk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: fmt.Sprintf("CONNID#%s", id)},
			":sk": &types.AttributeValueMemberS{Value: "METADATA"},
		},
		Limit: aws.Int32(1),
	}

	result, err := r.client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query connection: %w", err)
	}
	if len(result.Items) == 0 {
		return nil, pkgerrors.NewNotFoundError("Connection")
	}

	var item connectionItem
	if err := attributevalue.UnmarshalMap(result.Items[0], &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal connection: %w", err)
	}
	return itemToConnection(item)
}

// GetByMap retrieves all connections of a map
func (r *ConnectionRepository) GetByMap(ctx context.Context, mapID valueobjects.MapID) ([]*entities.Connection, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :sk)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: fmt.Sprintf("MAP#%s", mapID.String())},
			":sk": &types.AttributeValueMemberS{Value: "CONNECTION#"},
		},
	}

	result, err := r.client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query connections: %w", err)
	}

	conns := make([]*entities.Connection, 0, len(result.Items))
	for _, raw := range result.Items {
		var item connectionItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			r.logger.Warn("failed to unmarshal connection item", zap.Error(err))
			continue
		}
		conn, err := itemToConnection(item)
		if err != nil {
			r.logger.Warn("failed to reconstruct connection",
				zap.String("connectionId", item.ConnectionID), zap.Error(err))
			continue
		}
		conns = append(conns, conn)
	}
	return conns, nil
}

// GetByGroup retrieves the connections touching one group
func (r *ConnectionRepository) GetByGroup(ctx context.Context, mapID valueobjects.MapID, groupID valueobjects.GroupID) ([]*entities.Connection, error) {
	conns, err := r.GetByMap(ctx, mapID)
	if err != nil {
		return nil, err
	}

	touching := make([]*entities.Connection, 0, len(conns))
	for _, c := range conns {
		if c.Touches(groupID) {
			touching = append(touching, c)
		}
	}
	return touching, nil
}

// Delete removes a connection
func (r *ConnectionRepository) Delete(ctx context.Context, id string) error {
	conn, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	input := &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: fmt.Sprintf("MAP#%s", conn.MapID().String())},
			"SK": &types.AttributeValueMemberS{Value: fmt.Sprintf("CONNECTION#%s", id)},
		},
	}

	if _, err := r.client.DeleteItem(ctx, input); err != nil {
		return fmt.Errorf("failed to delete connection: %w", err)
	}
	return nil
}

// DeleteByGroup removes every connection touching the group, used when
// the group itself is removed
func (r *ConnectionRepository) DeleteByGroup(ctx context.Context, mapID valueobjects.MapID, groupID valueobjects.GroupID) error {
	conns, err := r.GetByGroup(ctx, mapID, groupID)
	if err != nil {
		return err
	}

	for _, c := range conns {
		if err := r.Delete(ctx, c.ID()); err != nil {
			r.logger.Warn("failed to delete connection of removed group",
				zap.String("connectionId", c.ID()), zap.Error(err))
		}
	}

	r.logger.Debug("connections of group deleted",
		zap.String("groupId", groupID.String()),
		zap.Int("count", len(conns)))
	return nil
}
