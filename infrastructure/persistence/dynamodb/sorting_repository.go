package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"insightmap-backend/application/ports"
	"insightmap-backend/domain/core/entities"
	"insightmap-backend/domain/core/valueobjects"
	pkgerrors "insightmap-backend/pkg/errors"
)

// SortingRepository implements ports.SortingRepository using DynamoDB.
// Sessions live under the map partition so the active-session lookup
// is one key-scoped query.
type SortingRepository struct {
	client    *dynamodb.Client
	tableName string
	indexName string
	logger    *zap.Logger
}

// NewSortingRepository creates a new SortingRepository
func NewSortingRepository(client *dynamodb.Client, tableName, indexName string, logger *zap.Logger) ports.SortingRepository {
	return &SortingRepository{
		client:    client,
		tableName: tableName,
		indexName: indexName,
		logger:    logger,
	}
}

// sortingItem represents the DynamoDB item structure for a sorting
// session
type sortingItem struct {
	PK              string   `dynamodbav:"PK"`
	SK              string   `dynamodbav:"SK"`
	GSI1PK          string   `dynamodbav:"GSI1PK"`
	GSI1SK          string   `dynamodbav:"GSI1SK"`
	EntityType      string   `dynamodbav:"EntityType"`
	SessionID       string   `dynamodbav:"SessionID"`
	MapID           string   `dynamodbav:"MapID"`
	Phase           string   `dynamodbav:"Phase"`
	DurationMinutes int      `dynamodbav:"DurationMinutes"`
	TimeRemaining   int      `dynamodbav:"TimeRemaining"`
	Participants    []string `dynamodbav:"Participants"`
	Rules           ruleFlag `dynamodbav:"Rules"`
	StartedBy       string   `dynamodbav:"StartedBy"`
	StartedAt       string   `dynamodbav:"StartedAt"`
	UpdatedAt       string   `dynamodbav:"UpdatedAt"`
}

type ruleFlag struct {
	NoTalking          bool `dynamodbav:"NoTalking"`
	IndependentSorting bool `dynamodbav:"IndependentSorting"`
	MoveFreely         bool `dynamodbav:"MoveFreely"`
	CreateGroups       bool `dynamodbav:"CreateGroups"`
}

func sortingToItem(s *entities.SortingSession) sortingItem {
	rules := s.Rules()
	return sortingItem{
		PK:              fmt.Sprintf("MAP#%s", s.MapID().String()),
		SK:              fmt.Sprintf("SORTSESSION#%s", s.ID()),
		GSI1PK:          fmt.Sprintf("SORTSESSIONID#%s", s.ID()),
		GSI1SK:          "METADATA",
		EntityType:      "SORTING_SESSION",
		SessionID:       s.ID(),
		MapID:           s.MapID().String(),
		Phase:           string(s.Phase()),
		DurationMinutes: s.DurationMinutes(),
		TimeRemaining:   s.TimeRemaining(),
		Participants:    s.Participants(),
		Rules: ruleFlag{
			NoTalking:          rules.NoTalking,
			IndependentSorting: rules.IndependentSorting,
			MoveFreely:         rules.MoveFreely,
			CreateGroups:       rules.CreateGroups,
		},
		StartedBy: s.StartedBy(),
		StartedAt: s.StartedAt().Format(time.RFC3339Nano),
		UpdatedAt: s.UpdatedAt().Format(time.RFC3339Nano),
	}
}

func itemToSorting(item sortingItem) (*entities.SortingSession, error) {
	mapID, err := valueobjects.NewMapIDFromString(item.MapID)
	if err != nil {
		return nil, fmt.Errorf("invalid stored map id: %w", err)
	}
	startedAt, _ := time.Parse(time.RFC3339Nano, item.StartedAt)
	updatedAt, _ := time.Parse(time.RFC3339Nano, item.UpdatedAt)
	return entities.ReconstructSortingSession(
		item.SessionID,
		mapID,
		entities.SortingPhase(item.Phase),
		item.DurationMinutes,
		item.TimeRemaining,
		item.Participants,
		entities.SortingRules{
			NoTalking:          item.Rules.NoTalking,
			IndependentSorting: item.Rules.IndependentSorting,
			MoveFreely:         item.Rules.MoveFreely,
			CreateGroups:       item.Rules.CreateGroups,
		},
		item.StartedBy,
		startedAt,
		updatedAt,
	), nil
}

// SaveSession persists a sorting session
func (r *SortingRepository) SaveSession(ctx context.Context, s *entities.SortingSession) error {
	av, err := attributevalue.MarshalMap(sortingToItem(s))
	if err != nil {
		return fmt.Errorf("failed to marshal sorting session: %w", err)
	}

	if _, err := r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	}); err != nil {
		r.logger.Error("failed to save sorting session",
			zap.String("sessionId", s.ID()), zap.Error(err))
		return fmt.Errorf("failed to save sorting session: %w", err)
	}
	return nil
}

// GetSession retrieves a sorting session by its id via GSI1
func (r *SortingRepository) GetSession(ctx context.Context, id string) (*entities.SortingSession, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(r.indexName),
		KeyConditionExpression: aws.String("GSI1PK = :pk AND GSI1SK = :sk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: fmt.Sprintf("SORTSESSIONID#%s", id)},
			":sk": &types.AttributeValueMemberS{Value: "METADATA"},
		},
		Limit: aws.Int32(1),
	}

	result, err := r.client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query sorting session: %w", err)
	}
	if len(result.Items) == 0 {
		return nil, pkgerrors.NewNotFoundError("Sorting session")
	}

	var item sortingItem
	if err := attributevalue.UnmarshalMap(result.Items[0], &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal sorting session: %w", err)
	}
	return itemToSorting(item)
}

// GetActiveByMap returns the map's non-completed session
func (r *SortingRepository) GetActiveByMap(ctx context.Context, mapID valueobjects.MapID) (*entities.SortingSession, error) {
	expr, err := expression.NewBuilder().
		WithKeyCondition(expression.Key("PK").Equal(expression.Value(fmt.Sprintf("MAP#%s", mapID.String()))).
			And(expression.Key("SK").BeginsWith("SORTSESSION#"))).
		WithFilter(expression.Name("Phase").NotEqual(expression.Value(string(entities.SortingPhaseCompleted)))).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build sorting session query: %w", err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}

	result, err := r.client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query sorting sessions: %w", err)
	}
	if len(result.Items) == 0 {
		return nil, pkgerrors.NewNotFoundError("Sorting session")
	}

	var item sortingItem
	if err := attributevalue.UnmarshalMap(result.Items[0], &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal sorting session: %w", err)
	}
	return itemToSorting(item)
}
