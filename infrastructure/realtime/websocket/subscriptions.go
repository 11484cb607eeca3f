package websocket

import (
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"insightmap-backend/domain/core/valueobjects"
)

// Subscription rows pair a map with a connection twice: once keyed by
// map for broadcast fan-out, once keyed by connection so $disconnect
// can find every map the socket watched. Both carry a TTL for rows the
// disconnect handler never sees.

func mapPartition(mapID string) string {
	return fmt.Sprintf("MAP#%s", mapID)
}

func connPartition(connID string) string {
	return fmt.Sprintf("CONN#%s", connID)
}

// NewSubscriptionItems builds the subscription row and its reverse row
// for one (map, connection) pair
func NewSubscriptionItems(mapID valueobjects.MapID, connID, userID string, expiresAt time.Time) (subscription, reverse map[string]types.AttributeValue) {
	ttl := fmt.Sprintf("%d", expiresAt.Unix())

	subscription = map[string]types.AttributeValue{
		"PK":           &types.AttributeValueMemberS{Value: mapPartition(mapID.String())},
		"SK":           &types.AttributeValueMemberS{Value: connPartition(connID)},
		"ConnectionID": &types.AttributeValueMemberS{Value: connID},
		"MapID":        &types.AttributeValueMemberS{Value: mapID.String()},
		"UserID":       &types.AttributeValueMemberS{Value: userID},
		"ConnectedAt":  &types.AttributeValueMemberS{Value: time.Now().Format(time.RFC3339)},
		"TTL":          &types.AttributeValueMemberN{Value: ttl},
	}
	reverse = map[string]types.AttributeValue{
		"PK":           &types.AttributeValueMemberS{Value: connPartition(connID)},
		"SK":           &types.AttributeValueMemberS{Value: mapPartition(mapID.String())},
		"ConnectionID": &types.AttributeValueMemberS{Value: connID},
		"MapID":        &types.AttributeValueMemberS{Value: mapID.String()},
		"TTL":          &types.AttributeValueMemberN{Value: ttl},
	}
	return subscription, reverse
}

// SubscriptionKeys returns the primary keys of both rows for deletion
func SubscriptionKeys(mapID, connID string) (subscription, reverse map[string]types.AttributeValue) {
	subscription = map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: mapPartition(mapID)},
		"SK": &types.AttributeValueMemberS{Value: connPartition(connID)},
	}
	reverse = map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: connPartition(connID)},
		"SK": &types.AttributeValueMemberS{Value: mapPartition(mapID)},
	}
	return subscription, reverse
}
