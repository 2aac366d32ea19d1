package dynamodb

import (
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseTimestamp(t *testing.T) {
	t.Run("valid timestamp", func(t *testing.T) {
		core, observed := observer.New(zap.WarnLevel)

		ts := parseTimestamp(zap.New(core), "createdAt", "2026-08-31T10:00:00Z")

		assert.Equal(t, time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC), ts)
		assert.Zero(t, observed.Len())
	})

	t.Run("absent value is silently zero", func(t *testing.T) {
		core, observed := observer.New(zap.WarnLevel)

		ts := parseTimestamp(zap.New(core), "updatedAt", "")

		assert.True(t, ts.IsZero())
		assert.Zero(t, observed.Len())
	})

	t.Run("malformed value is logged and zero", func(t *testing.T) {
		core, observed := observer.New(zap.WarnLevel)

		ts := parseTimestamp(zap.New(core), "createdAt", "not-a-timestamp")

		assert.True(t, ts.IsZero())
		logged := observed.FilterMessage("malformed timestamp attribute").All()
		require.Len(t, logged, 1)
		assert.Equal(t, "createdAt", logged[0].ContextMap()["field"])
	})
}

func TestUnmarshalDevice_MalformedTimestampDoesNotFailRead(t *testing.T) {
	// Arrange
	core, observed := observer.New(zap.WarnLevel)
	repo := &DeviceRepository{tableName: "devices", logger: zap.New(core)}

	av := map[string]types.AttributeValue{
		"id":         &types.AttributeValueMemberS{Value: "dev-1"},
		"deviceName": &types.AttributeValueMemberS{Value: "Thermostat"},
		"location":   &types.AttributeValueMemberS{Value: "Living Room"},
		"deviceType": &types.AttributeValueMemberS{Value: "thermostat"},
		"createdAt":  &types.AttributeValueMemberS{Value: "yesterday-ish"},
	}

	// Act
	device, err := repo.unmarshalDevice(av)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "dev-1", device.ID)
	assert.True(t, device.CreatedAt.IsZero())
	assert.Equal(t, 1, observed.FilterMessage("malformed timestamp attribute").Len())
}
