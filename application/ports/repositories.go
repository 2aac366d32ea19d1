package ports

import (
	"context"

	"devicehub-backend/domain/core/entities"
	"devicehub-backend/domain/events"
)

// DeviceRepository defines the interface for device registry persistence
// This is a port in hexagonal architecture - the domain doesn't know about the implementation
type DeviceRepository interface {
	// Save persists a device (create or update; a write to an existing ID overwrites it)
	Save(ctx context.Context, device *entities.Device) error

	// GetByID retrieves a device by its ID, returning a NotFound error when absent
	GetByID(ctx context.Context, id string) (*entities.Device, error)

	// List retrieves all devices (unbounded scan)
	List(ctx context.Context) ([]*entities.Device, error)

	// GetByIDs retrieves the devices for the given IDs, silently dropping
	// IDs that no longer resolve to a device
	GetByIDs(ctx context.Context, ids []string) ([]*entities.Device, error)

	// UpdateTelemetry updates the mutable sensor fields of an existing device
	// and returns the updated record; NotFound when the device is absent
	UpdateTelemetry(ctx context.Context, id string, telemetry entities.Telemetry) (*entities.Device, error)

	// Delete removes a device; deleting an absent ID succeeds
	Delete(ctx context.Context, id string) error
}

// AssociationRepository defines the interface for the user-device index
type AssociationRepository interface {
	// Save persists an association (create or update)
	Save(ctx context.Context, association *entities.UserDeviceAssociation) error

	// GetByUserID retrieves a user's association, returning a NotFound error when absent
	GetByUserID(ctx context.Context, userID string) (*entities.UserDeviceAssociation, error)

	// AppendDevice atomically appends deviceID to the user's device list,
	// creating the list if absent, and returns the updated list
	AppendDevice(ctx context.Context, userID, deviceID string) ([]string, error)

	// SetDeviceIDs overwrites the user's device list
	SetDeviceIDs(ctx context.Context, userID string, deviceIDs []string) error

	// FindByDeviceID scans for associations whose device list contains deviceID
	FindByDeviceID(ctx context.Context, deviceID string) ([]*entities.UserDeviceAssociation, error)
}

// EventBus defines the interface for publishing domain events
type EventBus interface {
	// Publish sends a single event
	Publish(ctx context.Context, event events.DomainEvent) error

	// PublishBatch sends multiple events
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}
