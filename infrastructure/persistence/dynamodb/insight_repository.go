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

// InsightRepository implements ports.InsightRepository using DynamoDB.
// Insights live under their project's partition; listing pages are
// sliced in memory after the query since the corpus of one project is
// bounded.
type InsightRepository struct {
	client    *dynamodb.Client
	tableName string
	indexName string
	logger    *zap.Logger
}

// NewInsightRepository creates a new InsightRepository
func NewInsightRepository(client *dynamodb.Client, tableName, indexName string, logger *zap.Logger) ports.InsightRepository {
	return &InsightRepository{
		client:    client,
		tableName: tableName,
		indexName: indexName,
		logger:    logger,
	}
}

// insightItem represents the DynamoDB item structure for an insight
type insightItem struct {
	PK               string   `dynamodbav:"PK"`
	SK               string   `dynamodbav:"SK"`
	GSI1PK           string   `dynamodbav:"GSI1PK"`
	GSI1SK           string   `dynamodbav:"GSI1SK"`
	EntityType       string   `dynamodbav:"EntityType"`
	InsightID        string   `dynamodbav:"InsightID"`
	ProjectID        string   `dynamodbav:"ProjectID"`
	InterviewID      string   `dynamodbav:"InterviewID"`
	Type             string   `dynamodbav:"Type"`
	Text             string   `dynamodbav:"Text"`
	TimestampSeconds float64  `dynamodbav:"TimestampSeconds"`
	Source           string   `dynamodbav:"Source"`
	Tags             []string `dynamodbav:"Tags"`
	Priority         int      `dynamodbav:"Priority"`
	CreatedBy        string   `dynamodbav:"CreatedBy"`
	CreatedAt        string   `dynamodbav:"CreatedAt"`
}

func insightToItem(i *entities.Insight) insightItem {
	return insightItem{
		PK:               fmt.Sprintf("PROJECT#%s", i.ProjectID()),
		SK:               fmt.Sprintf("INSIGHT#%s", i.ID()),
		GSI1PK:           fmt.Sprintf("INSIGHTID#%s", i.ID()),
		GSI1SK:           "METADATA",
		EntityType:       "INSIGHT",
		InsightID:        i.ID(),
		ProjectID:        i.ProjectID(),
		InterviewID:      i.InterviewID(),
		Type:             string(i.Type()),
		Text:             i.Text(),
		TimestampSeconds: i.TimestampSeconds(),
		Source:           string(i.Source()),
		Tags:             i.Tags(),
		Priority:         i.Priority(),
		CreatedBy:        i.CreatedBy(),
		CreatedAt:        i.CreatedAt().Format(time.RFC3339Nano),
	}
}

func itemToInsight(item insightItem) *entities.Insight {
	createdAt, _ := time.Parse(time.RFC3339Nano, item.CreatedAt)
	return entities.ReconstructInsight(
		item.InsightID,
		item.ProjectID,
		item.InterviewID,
		entities.InsightType(item.Type),
		item.Text,
		item.TimestampSeconds,
		entities.InsightSource(item.Source),
		item.CreatedBy,
		createdAt,
		item.Tags,
		item.Priority,
	)
}

// Save persists an insight
func (r *InsightRepository) Save(ctx context.Context, insight *entities.Insight) error {
	av, err := attributevalue.MarshalMap(insightToItem(insight))
	if err != nil {
		return fmt.Errorf("failed to marshal insight: %w", err)
	}

	if _, err := r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	}); err != nil {
		r.logger.Error("failed to save insight",
			zap.String("insightId", insight.ID()), zap.Error(err))
		return fmt.Errorf("failed to save insight: %w", err)
	}
	return nil
}

// GetByID retrieves an insight by its id via GSI1
func (r *InsightRepository) GetByID(ctx context.Context, id string) (*entities.Insight, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(r.indexName),
		KeyConditionExpression: aws.String("GSI1PK = :pk AND GSI1SK = :sk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: fmt.Sprintf("INSIGHTID#%s", id)},
			":sk": &types.AttributeValueMemberS{Value: "METADATA"},
		},
		Limit: aws.Int32(1),
	}

	result, err := r.client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query insight: %w", err)
	}
	if len(result.Items) == 0 {
		return nil, pkgerrors.NewNotFoundError("Insight")
	}

	var item insightItem
	if err := attributevalue.UnmarshalMap(result.Items[0], &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal insight: %w", err)
	}
	return itemToInsight(item), nil
}

// GetByProject lists a page of a project's insights plus the total count
func (r *InsightRepository) GetByProject(ctx context.Context, projectID string, limit, offset int) ([]*entities.Insight, int, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :sk)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: fmt.Sprintf("PROJECT#%s", projectID)},
			":sk": &types.AttributeValueMemberS{Value: "INSIGHT#"},
		},
	}

	result, err := r.client.Query(ctx, input)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query insights: %w", err)
	}

	all := make([]*entities.Insight, 0, len(result.Items))
	for _, raw := range result.Items {
		var item insightItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			r.logger.Warn("failed to unmarshal insight item", zap.Error(err))
			continue
		}
		all = append(all, itemToInsight(item))
	}

	return slicePage(all, limit, offset), len(all), nil
}

// GetByInterview lists a page of one interview's insights
func (r *InsightRepository) GetByInterview(ctx context.Context, interviewID string, limit, offset int) ([]*entities.Insight, int, error) {
	input := &dynamodb.ScanInput{
		TableName:        aws.String(r.tableName),
		FilterExpression: aws.String("EntityType = :entityType AND InterviewID = :interviewId"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":entityType":  &types.AttributeValueMemberS{Value: "INSIGHT"},
			":interviewId": &types.AttributeValueMemberS{Value: interviewID},
		},
	}

	result, err := r.client.Scan(ctx, input)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to scan insights: %w", err)
	}

	all := make([]*entities.Insight, 0, len(result.Items))
	for _, raw := range result.Items {
		var item insightItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			r.logger.Warn("failed to unmarshal insight item", zap.Error(err))
			continue
		}
		all = append(all, itemToInsight(item))
	}

	return slicePage(all, limit, offset), len(all), nil
}

// Delete removes an insight
func (r *InsightRepository) Delete(ctx context.Context, id string) error {
	insight, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	input := &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: fmt.Sprintf("PROJECT#%s", insight.ProjectID())},
			"SK": &types.AttributeValueMemberS{Value: fmt.Sprintf("INSIGHT#%s", id)},
		},
	}

	if _, err := r.client.DeleteItem(ctx, input); err != nil {
		return fmt.Errorf("failed to delete insight: %w", err)
	}
	return nil
}

func slicePage(all []*entities.Insight, limit, offset int) []*entities.Insight {
	if offset >= len(all) {
		return []*entities.Insight{}
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end]
}
