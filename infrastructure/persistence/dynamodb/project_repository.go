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

// ProjectRepository reads the project membership projection. The rows
// are written by the project service that owns project lifecycle; this
// side only ever reads them.
type ProjectRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) ports.ProjectRepository {
	return &ProjectRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// memberItem mirrors entities.Member for storage
type memberItem struct {
	UserID string `dynamodbav:"UserID"`
	Name   string `dynamodbav:"Name"`
	Role   string `dynamodbav:"Role"`
}

// projectItem represents the DynamoDB item structure for a project
type projectItem struct {
	PK         string       `dynamodbav:"PK"`
	SK         string       `dynamodbav:"SK"`
	EntityType string       `dynamodbav:"EntityType"`
	ProjectID  string       `dynamodbav:"ProjectID"`
	Name       string       `dynamodbav:"Name"`
	OwnerID    string       `dynamodbav:"OwnerID"`
	IsPublic   bool         `dynamodbav:"IsPublic"`
	Members    []memberItem `dynamodbav:"Members"`
	CreatedAt  string       `dynamodbav:"CreatedAt"`
}

// GetByID retrieves the project membership projection
func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*entities.Project, error) {
	input := &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: fmt.Sprintf("PROJECT#%s", id)},
			"SK": &types.AttributeValueMemberS{Value: "METADATA"},
		},
	}

	result, err := r.client.GetItem(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	if result.Item == nil {
		return nil, pkgerrors.NewNotFoundError("Project")
	}

	var item projectItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal project: %w", err)
	}

	members := make([]entities.Member, 0, len(item.Members))
	for _, m := range item.Members {
		members = append(members, entities.Member{
			UserID: m.UserID,
			Name:   m.Name,
			Role:   entities.MemberRole(m.Role),
		})
	}

	createdAt, _ := time.Parse(time.RFC3339Nano, item.CreatedAt)
	return &entities.Project{
		ID:        item.ProjectID,
		Name:      item.Name,
		OwnerID:   item.OwnerID,
		IsPublic:  item.IsPublic,
		Members:   members,
		CreatedAt: createdAt,
	}, nil
}
