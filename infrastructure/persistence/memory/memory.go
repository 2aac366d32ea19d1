// Package memory provides in-memory repository implementations with the same
// observable semantics as the DynamoDB ones: upsert writes, idempotent
// deletes, silent drop of missing batch keys. Tests and local runs use these
// in place of a live table.
package memory

import (
	"context"
	"sync"

	"devicehub-backend/application/ports"
	"devicehub-backend/domain/core/entities"
	pkgerrors "devicehub-backend/pkg/errors"
)

// DeviceRepository is an in-memory ports.DeviceRepository
type DeviceRepository struct {
	mu      sync.RWMutex
	devices map[string]entities.Device
}

// NewDeviceRepository creates an empty in-memory device repository
func NewDeviceRepository() *DeviceRepository {
	return &DeviceRepository{
		devices: make(map[string]entities.Device),
	}
}

// Save stores a copy of the device, overwriting any existing record
func (r *DeviceRepository) Save(ctx context.Context, device *entities.Device) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.devices[device.ID] = *device
	return nil
}

// GetByID retrieves a device by ID
func (r *DeviceRepository) GetByID(ctx context.Context, id string) (*entities.Device, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	device, ok := r.devices[id]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("device")
	}
	return &device, nil
}

// List retrieves all devices
func (r *DeviceRepository) List(ctx context.Context) ([]*entities.Device, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	devices := make([]*entities.Device, 0, len(r.devices))
	for id := range r.devices {
		device := r.devices[id]
		devices = append(devices, &device)
	}
	return devices, nil
}

// GetByIDs retrieves the devices that exist, dropping missing IDs
func (r *DeviceRepository) GetByIDs(ctx context.Context, ids []string) ([]*entities.Device, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	devices := make([]*entities.Device, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if device, ok := r.devices[id]; ok {
			d := device
			devices = append(devices, &d)
		}
	}
	return devices, nil
}

// UpdateTelemetry updates the sensor fields of an existing device
func (r *DeviceRepository) UpdateTelemetry(ctx context.Context, id string, telemetry entities.Telemetry) (*entities.Device, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	device, ok := r.devices[id]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("device")
	}
	device.UpdateTelemetry(telemetry)
	r.devices[id] = device
	return &device, nil
}

// Delete removes a device; absent IDs succeed
func (r *DeviceRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.devices, id)
	return nil
}

// AssociationRepository is an in-memory ports.AssociationRepository
type AssociationRepository struct {
	mu           sync.RWMutex
	associations map[string]entities.UserDeviceAssociation
}

// NewAssociationRepository creates an empty in-memory association repository
func NewAssociationRepository() *AssociationRepository {
	return &AssociationRepository{
		associations: make(map[string]entities.UserDeviceAssociation),
	}
}

// Save stores a copy of the association, overwriting any existing record
func (r *AssociationRepository) Save(ctx context.Context, association *entities.UserDeviceAssociation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *association
	cp.DeviceIDs = append([]string(nil), association.DeviceIDs...)
	r.associations[association.UserID] = cp
	return nil
}

// GetByUserID retrieves a user's association
func (r *AssociationRepository) GetByUserID(ctx context.Context, userID string) (*entities.UserDeviceAssociation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	assoc, ok := r.associations[userID]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("user association")
	}

	cp := assoc
	cp.DeviceIDs = append([]string(nil), assoc.DeviceIDs...)
	return &cp, nil
}

// AppendDevice appends a device ID, creating the record if absent
func (r *AssociationRepository) AppendDevice(ctx context.Context, userID, deviceID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	assoc, ok := r.associations[userID]
	if !ok {
		assoc = entities.UserDeviceAssociation{UserID: userID, DeviceIDs: []string{}}
	}
	assoc.DeviceIDs = append(assoc.DeviceIDs, deviceID)
	r.associations[userID] = assoc

	return append([]string(nil), assoc.DeviceIDs...), nil
}

// SetDeviceIDs overwrites a user's device list; absent users are NotFound
func (r *AssociationRepository) SetDeviceIDs(ctx context.Context, userID string, deviceIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	assoc, ok := r.associations[userID]
	if !ok {
		return pkgerrors.NewNotFoundError("user association")
	}
	assoc.DeviceIDs = append([]string(nil), deviceIDs...)
	r.associations[userID] = assoc
	return nil
}

// FindByDeviceID returns the associations whose device list contains deviceID
func (r *AssociationRepository) FindByDeviceID(ctx context.Context, deviceID string) ([]*entities.UserDeviceAssociation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matches []*entities.UserDeviceAssociation
	for userID := range r.associations {
		assoc := r.associations[userID]
		if assoc.HasDevice(deviceID) {
			cp := assoc
			cp.DeviceIDs = append([]string(nil), assoc.DeviceIDs...)
			matches = append(matches, &cp)
		}
	}
	return matches, nil
}

// interface guards
var (
	_ ports.DeviceRepository      = (*DeviceRepository)(nil)
	_ ports.AssociationRepository = (*AssociationRepository)(nil)
)
