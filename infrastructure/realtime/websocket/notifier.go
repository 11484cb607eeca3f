package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi"
	apigwtypes "github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi/types"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"insightmap-backend/application/ports"
	"insightmap-backend/domain/core/valueobjects"
	"insightmap-backend/pkg/utils"
)

// Frame types pushed to clients. Both carry only the map id; clients
// refetch through the REST API rather than trusting pushed state.
const (
	frameMapUpdated = "mapUpdated"
	framePresence   = "presence"
)

// frame is the JSON message posted to each connection
type frame struct {
	Type      string `json:"type"`
	MapID     string `json:"mapId"`
	Timestamp int64  `json:"timestamp"`
}

// Notifier pushes best-effort frames over API Gateway WebSocket
// connections. Subscriptions live in the connections table keyed by
// map; stale connections are deleted when PostToConnection reports
// them gone.
type Notifier struct {
	apiClient    *apigatewaymanagementapi.Client
	dynamoClient *dynamodb.Client
	connTable    string
	logger       *zap.Logger
}

// NewNotifier creates a Notifier. apiClient may be nil when no
// WebSocket endpoint is configured; broadcasts then degrade to debug
// logs so local development works without API Gateway.
func NewNotifier(apiClient *apigatewaymanagementapi.Client, dynamoClient *dynamodb.Client, connTable string, logger *zap.Logger) ports.Notifier {
	return &Notifier{
		apiClient:    apiClient,
		dynamoClient: dynamoClient,
		connTable:    connTable,
		logger:       logger,
	}
}

// BroadcastMapUpdated tells subscribers of a map to refetch
func (n *Notifier) BroadcastMapUpdated(ctx context.Context, mapID valueobjects.MapID) error {
	return n.broadcast(ctx, mapID, frameMapUpdated)
}

// BroadcastPresence pushes a presence change to map subscribers
func (n *Notifier) BroadcastPresence(ctx context.Context, mapID valueobjects.MapID) error {
	return n.broadcast(ctx, mapID, framePresence)
}

func (n *Notifier) broadcast(ctx context.Context, mapID valueobjects.MapID, frameType string) error {
	if n.apiClient == nil {
		n.logger.Debug("websocket endpoint not configured, skipping broadcast",
			zap.String("type", frameType), zap.String("mapId", mapID.String()))
		return nil
	}

	payload, err := json.Marshal(frame{
		Type:      frameType,
		MapID:     mapID.String(),
		Timestamp: utils.NowMillis(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal frame: %w", err)
	}

	connectionIDs, err := n.connectionsForMap(ctx, mapID)
	if err != nil {
		return err
	}

	sent, failed := 0, 0
	for _, connID := range connectionIDs {
		if err := n.post(ctx, connID, mapID, payload); err != nil {
			n.logger.Warn("failed to post frame",
				zap.String("connectionId", connID), zap.Error(err))
			failed++
			continue
		}
		sent++
	}

	n.logger.Debug("broadcast complete",
		zap.String("type", frameType),
		zap.String("mapId", mapID.String()),
		zap.Int("sent", sent),
		zap.Int("failed", failed))
	return nil
}

// connectionsForMap lists the connection ids subscribed to the map
func (n *Notifier) connectionsForMap(ctx context.Context, mapID valueobjects.MapID) ([]string, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(n.connTable),
		KeyConditionExpression: aws.String("PK = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: mapPartition(mapID.String())},
		},
	}

	result, err := n.dynamoClient.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query connections: %w", err)
	}

	ids := make([]string, 0, len(result.Items))
	for _, item := range result.Items {
		if connID, ok := item["ConnectionID"].(*types.AttributeValueMemberS); ok {
			ids = append(ids, connID.Value)
		}
	}
	return ids, nil
}

func (n *Notifier) post(ctx context.Context, connID string, mapID valueobjects.MapID, payload []byte) error {
	_, err := n.apiClient.PostToConnection(ctx, &apigatewaymanagementapi.PostToConnectionInput{
		ConnectionId: aws.String(connID),
		Data:         payload,
	})
	if err != nil {
		var gone *apigwtypes.GoneException
		if errors.As(err, &gone) {
			n.removeStaleConnection(ctx, connID, mapID)
			return nil
		}
		return fmt.Errorf("failed to post to connection: %w", err)
	}
	return nil
}

func (n *Notifier) removeStaleConnection(ctx context.Context, connID string, mapID valueobjects.MapID) {
	key, _ := SubscriptionKeys(mapID.String(), connID)
	input := &dynamodb.DeleteItemInput{
		TableName: aws.String(n.connTable),
		Key:       key,
	}

	if _, err := n.dynamoClient.DeleteItem(ctx, input); err != nil {
		n.logger.Warn("failed to remove stale connection",
			zap.String("connectionId", connID), zap.Error(err))
		return
	}
	n.logger.Debug("removed stale connection", zap.String("connectionId", connID))
}
