// WebSocket $connect handler. Validates the caller's token and
// registers the connection as a subscriber of one map, which is the
// write side of the rows the notifier queries when broadcasting.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"

	"insightmap-backend/domain/core/valueobjects"
	"insightmap-backend/infrastructure/config"
	"insightmap-backend/infrastructure/realtime/websocket"
	"insightmap-backend/pkg/auth"
)

// Subscriptions outlive idle sockets; DynamoDB TTL reclaims rows the
// disconnect handler never saw.
const connectionTTL = 24 * time.Hour

var (
	dynamoClient *dynamodb.Client
	validator    *auth.JWTValidator
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

	validator, err = auth.NewJWTValidator(auth.JWTConfig{
		SecretKey: cfg.JWTSecret,
		Issuer:    cfg.JWTIssuer,
		Audience:  []string{"insightmap"},
	})
	if err != nil {
		logger.Fatal("Failed to create JWT validator", zap.Error(err))
	}
}

func handler(ctx context.Context, request events.APIGatewayWebsocketProxyRequest) (events.APIGatewayProxyResponse, error) {
	connID := request.RequestContext.ConnectionID

	token := request.QueryStringParameters["token"]
	if token == "" {
		token = request.Headers["Authorization"]
	}
	claims, err := validator.ValidateToken(token)
	if err != nil {
		logger.Warn("WebSocket auth failed", zap.String("connectionId", connID), zap.Error(err))
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusUnauthorized,
			Body:       `{"error":"unauthorized"}`,
		}, nil
	}

	mapID, err := valueobjects.NewMapIDFromString(request.QueryStringParameters["mapId"])
	if err != nil {
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusBadRequest,
			Body:       `{"error":"mapId query parameter required"}`,
		}, nil
	}

	if err := registerSubscription(ctx, mapID, connID, claims.UserID); err != nil {
		logger.Error("Failed to register subscription",
			zap.String("connectionId", connID),
			zap.String("mapId", mapID.String()),
			zap.Error(err))
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusInternalServerError,
			Body:       `{"error":"internal server error"}`,
		}, nil
	}

	logger.Info("WebSocket subscription registered",
		zap.String("connectionId", connID),
		zap.String("mapId", mapID.String()),
		zap.String("userId", claims.UserID))
	return events.APIGatewayProxyResponse{StatusCode: http.StatusOK}, nil
}

// registerSubscription writes the subscription row the notifier's
// broadcast query reads, plus a reverse row keyed by connection so the
// disconnect handler can find every map this socket subscribed to.
func registerSubscription(ctx context.Context, mapID valueobjects.MapID, connID, userID string) error {
	subscription, reverse := websocket.NewSubscriptionItems(mapID, connID, userID, time.Now().Add(connectionTTL))

	if _, err := dynamoClient.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(connTable),
		Item:      subscription,
	}); err != nil {
		return fmt.Errorf("failed to store subscription: %w", err)
	}

	if _, err := dynamoClient.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(connTable),
		Item:      reverse,
	}); err != nil {
		return fmt.Errorf("failed to store reverse row: %w", err)
	}
	return nil
}

func main() {
	lambda.Start(handler)
}
