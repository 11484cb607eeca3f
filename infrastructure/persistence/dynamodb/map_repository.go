// Package dynamodb implements the persistence ports on a single
// DynamoDB table. Items are keyed PK/SK with a GSI1 index for direct
// lookups by entity id.
package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"insightmap-backend/application/ports"
	"insightmap-backend/domain/core/aggregates"
	"insightmap-backend/domain/core/valueobjects"
	pkgerrors "insightmap-backend/pkg/errors"
)

// MapRepository implements ports.MapRepository using DynamoDB
type MapRepository struct {
	client    *dynamodb.Client
	tableName string
	indexName string
	logger    *zap.Logger
}

// NewMapRepository creates a new MapRepository
func NewMapRepository(client *dynamodb.Client, tableName, indexName string, logger *zap.Logger) ports.MapRepository {
	return &MapRepository{
		client:    client,
		tableName: tableName,
		indexName: indexName,
		logger:    logger,
	}
}

// groupItem mirrors aggregates.Group for storage
type groupItem struct {
	ID         string   `dynamodbav:"ID"`
	Title      string   `dynamodbav:"Title"`
	Color      string   `dynamodbav:"Color"`
	X          float64  `dynamodbav:"X"`
	Y          float64  `dynamodbav:"Y"`
	InsightIDs []string `dynamodbav:"InsightIDs"`
}

// mapItem represents the DynamoDB item structure for a map
type mapItem struct {
	PK         string      `dynamodbav:"PK"`
	SK         string      `dynamodbav:"SK"`
	GSI1PK     string      `dynamodbav:"GSI1PK"`
	GSI1SK     string      `dynamodbav:"GSI1SK"`
	EntityType string      `dynamodbav:"EntityType"`
	MapID      string      `dynamodbav:"MapID"`
	ProjectID  string      `dynamodbav:"ProjectID"`
	Name       string      `dynamodbav:"Name"`
	IsCurrent  bool        `dynamodbav:"IsCurrent"`
	Groups     []groupItem `dynamodbav:"Groups"`
	CreatedBy  string      `dynamodbav:"CreatedBy"`
	CreatedAt  string      `dynamodbav:"CreatedAt"`
	UpdatedAt  string      `dynamodbav:"UpdatedAt"`
	Version    int         `dynamodbav:"Version"`
}

func mapToItem(m *aggregates.AffinityMap) mapItem {
	groups := m.Groups()
	items := make([]groupItem, 0, len(groups))
	for _, g := range groups {
		items = append(items, groupItem{
			ID:         g.ID.String(),
			Title:      g.Title,
			Color:      g.Color,
			X:          g.Position.X,
			Y:          g.Position.Y,
			InsightIDs: g.InsightIDs,
		})
	}

	return mapItem{
		PK:         fmt.Sprintf("PROJECT#%s", m.ProjectID()),
		SK:         fmt.Sprintf("MAP#%s", m.ID().String()),
		GSI1PK:     fmt.Sprintf("MAPID#%s", m.ID().String()),
		GSI1SK:     "METADATA",
		EntityType: "MAP",
		MapID:      m.ID().String(),
		ProjectID:  m.ProjectID(),
		Name:       m.Name(),
		IsCurrent:  m.IsCurrent(),
		Groups:     items,
		CreatedBy:  m.CreatedBy(),
		CreatedAt:  m.CreatedAt().Format(time.RFC3339Nano),
		UpdatedAt:  m.UpdatedAt().Format(time.RFC3339Nano),
		Version:    m.Version(),
	}
}

func itemToMap(item mapItem) (*aggregates.AffinityMap, error) {
	mapID, err := valueobjects.NewMapIDFromString(item.MapID)
	if err != nil {
		return nil, fmt.Errorf("invalid stored map id: %w", err)
	}

	groups := make([]aggregates.Group, 0, len(item.Groups))
	for _, gi := range item.Groups {
		groupID, err := valueobjects.NewGroupIDFromString(gi.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid stored group id: %w", err)
		}
		insightIDs := gi.InsightIDs
		if insightIDs == nil {
			insightIDs = []string{}
		}
		groups = append(groups, aggregates.Group{
			ID:         groupID,
			Title:      gi.Title,
			Color:      gi.Color,
			Position:   valueobjects.NewPosition(gi.X, gi.Y),
			InsightIDs: insightIDs,
		})
	}

	createdAt, _ := time.Parse(time.RFC3339Nano, item.CreatedAt)
	updatedAt, _ := time.Parse(time.RFC3339Nano, item.UpdatedAt)

	return aggregates.ReconstructAffinityMap(
		mapID,
		item.ProjectID,
		item.Name,
		item.Version,
		item.IsCurrent,
		groups,
		item.CreatedBy,
		createdAt,
		updatedAt,
	)
}

// Save persists a map with an optimistic version condition: the write
// only lands if the item is new or the stored version is older than
// the one being written. A lost race surfaces as a Conflict.
func (r *MapRepository) Save(ctx context.Context, m *aggregates.AffinityMap) error {
	item := mapToItem(m)

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal map: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(PK) OR Version < :version"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":version": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", item.Version)},
		},
	}

	if _, err := r.client.PutItem(ctx, input); err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return pkgerrors.NewConflictError("Map was modified concurrently, reload and retry")
		}
		r.logger.Error("failed to save map",
			zap.String("mapId", item.MapID),
			zap.Error(err))
		return fmt.Errorf("failed to save map: %w", err)
	}

	return nil
}

// GetByID retrieves a map by its id via GSI1
func (r *MapRepository) GetByID(ctx context.Context, id valueobjects.MapID) (*aggregates.AffinityMap, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(r.indexName),
		KeyConditionExpression: aws.String("GSI1PK = :pk AND GSI1SK = :sk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: fmt.Sprintf("MAPID#%s", id.String())},
			":sk": &types.AttributeValueMemberS{Value: "METADATA"},
		},
		Limit: aws.Int32(1),
	}

	result, err := r.client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query map: %w", err)
	}
	if len(result.Items) == 0 {
		return nil, pkgerrors.NewNotFoundError("Map")
	}

	var item mapItem
	if err := attributevalue.UnmarshalMap(result.Items[0], &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal map: %w", err)
	}
	return itemToMap(item)
}

// GetByProject retrieves all maps of a project
func (r *MapRepository) GetByProject(ctx context.Context, projectID string) ([]*aggregates.AffinityMap, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :sk)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: fmt.Sprintf("PROJECT#%s", projectID)},
			":sk": &types.AttributeValueMemberS{Value: "MAP#"},
		},
	}

	result, err := r.client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query maps: %w", err)
	}

	maps := make([]*aggregates.AffinityMap, 0, len(result.Items))
	for _, raw := range result.Items {
		var item mapItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			r.logger.Warn("failed to unmarshal map item", zap.Error(err))
			continue
		}
		m, err := itemToMap(item)
		if err != nil {
			r.logger.Warn("failed to reconstruct map",
				zap.String("mapId", item.MapID), zap.Error(err))
			continue
		}
		maps = append(maps, m)
	}
	return maps, nil
}

// GetCurrent retrieves the project's current map
func (r *MapRepository) GetCurrent(ctx context.Context, projectID string) (*aggregates.AffinityMap, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :sk)"),
		FilterExpression:       aws.String("IsCurrent = :isCurrent"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk":        &types.AttributeValueMemberS{Value: fmt.Sprintf("PROJECT#%s", projectID)},
			":sk":        &types.AttributeValueMemberS{Value: "MAP#"},
			":isCurrent": &types.AttributeValueMemberBOOL{Value: true},
		},
	}

	result, err := r.client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query current map: %w", err)
	}
	if len(result.Items) == 0 {
		return nil, pkgerrors.NewNotFoundError("Current map")
	}

	var item mapItem
	if err := attributevalue.UnmarshalMap(result.Items[0], &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal map: %w", err)
	}
	return itemToMap(item)
}

// Delete removes a map
func (r *MapRepository) Delete(ctx context.Context, id valueobjects.MapID) error {
	m, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	input := &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: fmt.Sprintf("PROJECT#%s", m.ProjectID())},
			"SK": &types.AttributeValueMemberS{Value: fmt.Sprintf("MAP#%s", id.String())},
		},
	}

	if _, err := r.client.DeleteItem(ctx, input); err != nil {
		return fmt.Errorf("failed to delete map: %w", err)
	}

	r.logger.Debug("map deleted", zap.String("mapId", id.String()))
	return nil
}
