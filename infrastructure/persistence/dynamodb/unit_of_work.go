package dynamodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"insightmap-backend/application/ports"
	"insightmap-backend/domain/core/aggregates"
	pkgerrors "insightmap-backend/pkg/errors"
)

// UnitOfWork groups the writes of a current-map flip into a single
// DynamoDB transaction so readers never observe two current maps.
type UnitOfWork struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewUnitOfWork creates a new UnitOfWork
func NewUnitOfWork(client *dynamodb.Client, tableName string, logger *zap.Logger) ports.UnitOfWork {
	return &UnitOfWork{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// SaveNewCurrentMap inserts the new current map and demotes every other
// map of the project in one TransactWriteItems call
func (u *UnitOfWork) SaveNewCurrentMap(ctx context.Context, newMap *aggregates.AffinityMap, demote []*aggregates.AffinityMap) error {
	writes := make([]types.TransactWriteItem, 0, len(demote)+1)

	newItem, err := attributevalue.MarshalMap(mapToItem(newMap))
	if err != nil {
		return fmt.Errorf("failed to marshal map: %w", err)
	}
	writes = append(writes, types.TransactWriteItem{
		Put: &types.Put{
			TableName:           aws.String(u.tableName),
			Item:                newItem,
			ConditionExpression: aws.String("attribute_not_exists(PK) OR Version < :version"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":version": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", newMap.Version())},
			},
		},
	})

	for _, m := range demote {
		item, err := attributevalue.MarshalMap(mapToItem(m))
		if err != nil {
			return fmt.Errorf("failed to marshal map: %w", err)
		}
		writes = append(writes, types.TransactWriteItem{
			Put: &types.Put{
				TableName: aws.String(u.tableName),
				Item:      item,
			},
		})
	}

	if _, err := u.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: writes,
	}); err != nil {
		var canceled *types.TransactionCanceledException
		if errors.As(err, &canceled) {
			u.logger.Warn("current-map transaction canceled",
				zap.String("mapId", newMap.ID().String()), zap.Error(err))
			return pkgerrors.NewConflictError("Map was modified concurrently, reload and retry")
		}
		return fmt.Errorf("failed to commit current-map transaction: %w", err)
	}

	u.logger.Info("current map switched",
		zap.String("mapId", newMap.ID().String()),
		zap.String("projectId", newMap.ProjectID()),
		zap.Int("demoted", len(demote)))
	return nil
}
