package entities

import (
	"time"

	pkgerrors "devicehub-backend/pkg/errors"
)

// Telemetry holds the mutable sensor readings attached to a device.
// All fields are optional; nil means the reading was never reported.
type Telemetry struct {
	RoomTemperature *float64
	Humidity        *float64
	LightStatus     string
}

// Device is the registry entry for a managed device. The identity is the
// caller-supplied ID; ownership lives only in the user-device association.
type Device struct {
	ID         string
	Name       string
	Location   string
	DeviceType string
	Telemetry  Telemetry
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewDevice creates a device, enforcing the required registration fields
func NewDevice(id, name, location, deviceType string, telemetry Telemetry) (*Device, error) {
	if id == "" {
		return nil, pkgerrors.NewValidationError("id is required")
	}
	if name == "" {
		return nil, pkgerrors.NewValidationError("deviceName is required")
	}
	if location == "" {
		return nil, pkgerrors.NewValidationError("location is required")
	}
	if deviceType == "" {
		return nil, pkgerrors.NewValidationError("deviceType is required")
	}

	now := time.Now()
	return &Device{
		ID:         id,
		Name:       name,
		Location:   location,
		DeviceType: deviceType,
		Telemetry:  telemetry,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// ReconstructDevice rebuilds a device from repository data with preserved timestamps
func ReconstructDevice(id, name, location, deviceType string, telemetry Telemetry, createdAt, updatedAt time.Time) *Device {
	return &Device{
		ID:         id,
		Name:       name,
		Location:   location,
		DeviceType: deviceType,
		Telemetry:  telemetry,
		CreatedAt:  createdAt,
		UpdatedAt:  updatedAt,
	}
}

// UpdateTelemetry replaces the device's sensor readings
func (d *Device) UpdateTelemetry(t Telemetry) {
	d.Telemetry = t
	d.UpdatedAt = time.Now()
}
