package entities

import (
	"testing"

	pkgerrors "devicehub-backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDevice_Success(t *testing.T) {
	// Arrange
	temp := 21.5
	telemetry := Telemetry{RoomTemperature: &temp, LightStatus: "on"}

	// Act
	device, err := NewDevice("dev-1", "Thermostat", "Living Room", "thermostat", telemetry)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "dev-1", device.ID)
	assert.Equal(t, "Thermostat", device.Name)
	assert.Equal(t, "Living Room", device.Location)
	assert.Equal(t, "thermostat", device.DeviceType)
	assert.Equal(t, &temp, device.Telemetry.RoomTemperature)
	assert.Nil(t, device.Telemetry.Humidity)
	assert.False(t, device.CreatedAt.IsZero())
}

func TestNewDevice_RequiredFields(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		deviceName string
		location   string
		deviceType string
		wantMsg    string
	}{
		{"missing id", "", "Thermostat", "Living Room", "thermostat", "id is required"},
		{"missing name", "dev-1", "", "Living Room", "thermostat", "deviceName is required"},
		{"missing location", "dev-1", "Thermostat", "", "thermostat", "location is required"},
		{"missing type", "dev-1", "Thermostat", "Living Room", "", "deviceType is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			device, err := NewDevice(tt.id, tt.deviceName, tt.location, tt.deviceType, Telemetry{})

			require.Error(t, err)
			assert.Nil(t, device)
			assert.True(t, pkgerrors.IsValidation(err))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestDevice_UpdateTelemetry(t *testing.T) {
	// Arrange
	device, err := NewDevice("dev-1", "Thermostat", "Living Room", "thermostat", Telemetry{})
	require.NoError(t, err)
	previous := device.UpdatedAt

	// Act
	temp := 19.0
	humidity := 40.0
	device.UpdateTelemetry(Telemetry{RoomTemperature: &temp, Humidity: &humidity, LightStatus: "off"})

	// Assert
	assert.Equal(t, &temp, device.Telemetry.RoomTemperature)
	assert.Equal(t, &humidity, device.Telemetry.Humidity)
	assert.Equal(t, "off", device.Telemetry.LightStatus)
	assert.False(t, device.UpdatedAt.Before(previous))
}
