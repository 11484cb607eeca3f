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

// VotingRepository implements ports.VotingRepository using DynamoDB.
// Votes key on (session, user, group), so recasting for the same group
// overwrites the previous allocation instead of stacking rows.
type VotingRepository struct {
	client    *dynamodb.Client
	tableName string
	indexName string
	logger    *zap.Logger
}

// NewVotingRepository creates a new VotingRepository
func NewVotingRepository(client *dynamodb.Client, tableName, indexName string, logger *zap.Logger) ports.VotingRepository {
	return &VotingRepository{
		client:    client,
		tableName: tableName,
		indexName: indexName,
		logger:    logger,
	}
}

// sessionItem represents the DynamoDB item structure for a voting
// session
type sessionItem struct {
	PK              string `dynamodbav:"PK"`
	SK              string `dynamodbav:"SK"`
	GSI1PK          string `dynamodbav:"GSI1PK"`
	GSI1SK          string `dynamodbav:"GSI1SK"`
	EntityType      string `dynamodbav:"EntityType"`
	SessionID       string `dynamodbav:"SessionID"`
	ProjectID       string `dynamodbav:"ProjectID"`
	MapID           string `dynamodbav:"MapID"`
	Name            string `dynamodbav:"Name"`
	MaxVotesPerUser int    `dynamodbav:"MaxVotesPerUser"`
	IsActive        bool   `dynamodbav:"IsActive"`
	CreatedBy       string `dynamodbav:"CreatedBy"`
	CreatedAt       string `dynamodbav:"CreatedAt"`
	UpdatedAt       string `dynamodbav:"UpdatedAt"`
}

// voteItem represents the DynamoDB item structure for a vote
type voteItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	EntityType string `dynamodbav:"EntityType"`
	VoteID     string `dynamodbav:"VoteID"`
	SessionID  string `dynamodbav:"SessionID"`
	UserID     string `dynamodbav:"UserID"`
	GroupID    string `dynamodbav:"GroupID"`
	Votes      int    `dynamodbav:"Votes"`
	CreatedAt  string `dynamodbav:"CreatedAt"`
}

func sessionToItem(s *entities.VotingSession) sessionItem {
	return sessionItem{
		PK:              fmt.Sprintf("PROJECT#%s", s.ProjectID()),
		SK:              fmt.Sprintf("VSESSION#%s", s.ID()),
		GSI1PK:          fmt.Sprintf("VSESSIONID#%s", s.ID()),
		GSI1SK:          "METADATA",
		EntityType:      "VOTING_SESSION",
		SessionID:       s.ID(),
		ProjectID:       s.ProjectID(),
		MapID:           s.MapID().String(),
		Name:            s.Name(),
		MaxVotesPerUser: s.MaxVotesPerUser(),
		IsActive:        s.IsActive(),
		CreatedBy:       s.CreatedBy(),
		CreatedAt:       s.CreatedAt().Format(time.RFC3339Nano),
		UpdatedAt:       s.UpdatedAt().Format(time.RFC3339Nano),
	}
}

func itemToSession(item sessionItem) (*entities.VotingSession, error) {
	mapID, err := valueobjects.NewMapIDFromString(item.MapID)
	if err != nil {
		return nil, fmt.Errorf("invalid stored map id: %w", err)
	}
	createdAt, _ := time.Parse(time.RFC3339Nano, item.CreatedAt)
	updatedAt, _ := time.Parse(time.RFC3339Nano, item.UpdatedAt)
	return entities.ReconstructVotingSession(
		item.SessionID,
		item.ProjectID,
		mapID,
		item.Name,
		item.MaxVotesPerUser,
		item.IsActive,
		item.CreatedBy,
		createdAt,
		updatedAt,
	), nil
}

// SaveSession persists a voting session
func (r *VotingRepository) SaveSession(ctx context.Context, s *entities.VotingSession) error {
	av, err := attributevalue.MarshalMap(sessionToItem(s))
	if err != nil {
		return fmt.Errorf("failed to marshal voting session: %w", err)
	}

	if _, err := r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	}); err != nil {
		r.logger.Error("failed to save voting session",
			zap.String("sessionId", s.ID()), zap.Error(err))
		return fmt.Errorf("failed to save voting session: %w", err)
	}
	return nil
}

// GetSession retrieves a voting session by its id via GSI1
func (r *VotingRepository) GetSession(ctx context.Context, id string) (*entities.VotingSession, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(r.indexName),
		KeyConditionExpression: aws.String("GSI1PK = :pk AND GSI1SK = :sk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: fmt.Sprintf("VSESSIONID#%s", id)},
			":sk": &types.AttributeValueMemberS{Value: "METADATA"},
		},
		Limit: aws.Int32(1),
	}

	result, err := r.client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query voting session: %w", err)
	}
	if len(result.Items) == 0 {
		return nil, pkgerrors.NewNotFoundError("Voting session")
	}

	var item sessionItem
	if err := attributevalue.UnmarshalMap(result.Items[0], &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal voting session: %w", err)
	}
	return itemToSession(item)
}

// GetActiveSessionsByProject lists a project's sessions that are still
// open
func (r *VotingRepository) GetActiveSessionsByProject(ctx context.Context, projectID string) ([]*entities.VotingSession, error) {
	expr, err := expression.NewBuilder().
		WithKeyCondition(expression.Key("PK").Equal(expression.Value(fmt.Sprintf("PROJECT#%s", projectID))).
			And(expression.Key("SK").BeginsWith("VSESSION#"))).
		WithFilter(expression.Name("IsActive").Equal(expression.Value(true))).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build voting session query: %w", err)
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
		return nil, fmt.Errorf("failed to query voting sessions: %w", err)
	}

	sessions := make([]*entities.VotingSession, 0, len(result.Items))
	for _, raw := range result.Items {
		var item sessionItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			r.logger.Warn("failed to unmarshal voting session item", zap.Error(err))
			continue
		}
		s, err := itemToSession(item)
		if err != nil {
			r.logger.Warn("failed to reconstruct voting session",
				zap.String("sessionId", item.SessionID), zap.Error(err))
			continue
		}
		sessions = append(sessions, s)
	}
	return sessions, nil
}

// SaveVote writes one user's allocation on one group. The key includes
// user and group, so recasting replaces rather than appends.
func (r *VotingRepository) SaveVote(ctx context.Context, v entities.Vote) error {
	item := voteItem{
		PK:         fmt.Sprintf("VSESSION#%s", v.SessionID),
		SK:         fmt.Sprintf("VOTE#%s#%s", v.UserID, v.GroupID.String()),
		EntityType: "VOTE",
		VoteID:     v.ID,
		SessionID:  v.SessionID,
		UserID:     v.UserID,
		GroupID:    v.GroupID.String(),
		Votes:      v.Votes,
		CreatedAt:  v.CreatedAt.Format(time.RFC3339Nano),
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal vote: %w", err)
	}

	if _, err := r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	}); err != nil {
		return fmt.Errorf("failed to save vote: %w", err)
	}
	return nil
}

// GetVotesBySession lists every vote row in the session
func (r *VotingRepository) GetVotesBySession(ctx context.Context, sessionID string) ([]entities.Vote, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :sk)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: fmt.Sprintf("VSESSION#%s", sessionID)},
			":sk": &types.AttributeValueMemberS{Value: "VOTE#"},
		},
	}

	result, err := r.client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query votes: %w", err)
	}

	votes := make([]entities.Vote, 0, len(result.Items))
	for _, raw := range result.Items {
		var item voteItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			r.logger.Warn("failed to unmarshal vote item", zap.Error(err))
			continue
		}
		groupID, err := valueobjects.NewGroupIDFromString(item.GroupID)
		if err != nil {
			continue
		}
		createdAt, _ := time.Parse(time.RFC3339Nano, item.CreatedAt)
		votes = append(votes, entities.Vote{
			ID:        item.VoteID,
			SessionID: item.SessionID,
			UserID:    item.UserID,
			GroupID:   groupID,
			Votes:     item.Votes,
			CreatedAt: createdAt,
		})
	}
	return votes, nil
}
