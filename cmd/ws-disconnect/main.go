// WebSocket $disconnect handler. Looks up every map the closing
// connection subscribed to via the reverse rows and deletes both sides
// of each subscription.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"insightmap-backend/infrastructure/config"
	"insightmap-backend/infrastructure/realtime/websocket"
)

var (
	dynamoClient *dynamodb.Client
	connTable    string
	logger       *zap.Logger
)

func init() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err = zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		logger.Fatal("Failed to load AWS config", zap.Error(err))
	}
	dynamoClient = dynamodb.NewFromConfig(awsCfg)
	connTable = cfg.ConnectionsTable
}

func handler(ctx context.Context, request events.APIGatewayWebsocketProxyRequest) (events.APIGatewayProxyResponse, error) {
	connID := request.RequestContext.ConnectionID

	result, err := dynamoClient.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(connTable),
		KeyConditionExpression: aws.String("PK = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: fmt.Sprintf("CONN#%s", connID)},
		},
	})
	if err != nil {
		logger.Error("Failed to query subscriptions",
			zap.String("connectionId", connID), zap.Error(err))
		return events.APIGatewayProxyResponse{StatusCode: http.StatusInternalServerError}, nil
	}

	removed := 0
	for _, item := range result.Items {
		mapAttr, ok := item["MapID"].(*types.AttributeValueMemberS)
		if !ok {
			continue
		}
		if err := deleteSubscription(ctx, mapAttr.Value, connID); err != nil {
			logger.Warn("Failed to delete subscription",
				zap.String("connectionId", connID),
				zap.String("mapId", mapAttr.Value),
				zap.Error(err))
			continue
		}
		removed++
	}

	logger.Info("WebSocket connection cleaned up",
		zap.String("connectionId", connID), zap.Int("subscriptions", removed))
	return events.APIGatewayProxyResponse{StatusCode: http.StatusOK}, nil
}

func deleteSubscription(ctx context.Context, mapID, connID string) error {
	subscription, reverse := websocket.SubscriptionKeys(mapID, connID)

	if _, err := dynamoClient.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(connTable),
		Key:       subscription,
	}); err != nil {
		return fmt.Errorf("failed to delete subscription row: %w", err)
	}

	if _, err := dynamoClient.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(connTable),
		Key:       reverse,
	}); err != nil {
		return fmt.Errorf("failed to delete reverse row: %w", err)
	}
	return nil
}

func main() {
	lambda.Start(handler)
}
