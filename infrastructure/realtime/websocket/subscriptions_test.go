package websocket

import (
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insightmap-backend/domain/core/valueobjects"
)

func stringAttr(t *testing.T, item map[string]types.AttributeValue, name string) string {
	t.Helper()
	attr, ok := item[name].(*types.AttributeValueMemberS)
	require.True(t, ok, "attribute %s", name)
	return attr.Value
}

func TestSubscriptionItemsMatchBroadcastQuery(t *testing.T) {
	mapID := valueobjects.NewMapID()
	expiresAt := time.Now().Add(time.Hour)

	subscription, reverse := NewSubscriptionItems(mapID, "conn-1", "dana", expiresAt)

	// the registration row must land under the partition the
	// broadcast query scans for this map
	assert.Equal(t, mapPartition(mapID.String()), stringAttr(t, subscription, "PK"))
	assert.Equal(t, "conn-1", stringAttr(t, subscription, "ConnectionID"))
	assert.Equal(t, "dana", stringAttr(t, subscription, "UserID"))

	// the reverse row mirrors the key pair for disconnect lookups
	assert.Equal(t, connPartition("conn-1"), stringAttr(t, reverse, "PK"))
	assert.Equal(t, mapPartition(mapID.String()), stringAttr(t, reverse, "SK"))
	assert.Equal(t, mapID.String(), stringAttr(t, reverse, "MapID"))

	ttl, ok := subscription["TTL"].(*types.AttributeValueMemberN)
	require.True(t, ok)
	assert.NotEmpty(t, ttl.Value)
}

func TestSubscriptionKeysMirrorItems(t *testing.T) {
	mapID := valueobjects.NewMapID()

	subscription, reverse := NewSubscriptionItems(mapID, "conn-1", "dana", time.Now().Add(time.Hour))
	subKey, revKey := SubscriptionKeys(mapID.String(), "conn-1")

	// deleting with the derived keys removes exactly the rows the
	// registration wrote
	assert.Equal(t, stringAttr(t, subscription, "PK"), stringAttr(t, subKey, "PK"))
	assert.Equal(t, stringAttr(t, subscription, "SK"), stringAttr(t, subKey, "SK"))
	assert.Equal(t, stringAttr(t, reverse, "PK"), stringAttr(t, revKey, "PK"))
	assert.Equal(t, stringAttr(t, reverse, "SK"), stringAttr(t, revKey, "SK"))
}
