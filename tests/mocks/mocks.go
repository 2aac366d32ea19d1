// Package mocks provides testify mock implementations of the application
// ports for unit testing services without real AWS clients.
package mocks

import (
	"context"

	"devicehub-backend/domain/core/entities"
	"devicehub-backend/domain/events"

	"github.com/stretchr/testify/mock"
)

// MockDeviceRepository is a mock implementation of ports.DeviceRepository
type MockDeviceRepository struct {
	mock.Mock
}

func (m *MockDeviceRepository) Save(ctx context.Context, device *entities.Device) error {
	args := m.Called(ctx, device)
	return args.Error(0)
}

func (m *MockDeviceRepository) GetByID(ctx context.Context, id string) (*entities.Device, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Device), args.Error(1)
}

func (m *MockDeviceRepository) List(ctx context.Context) ([]*entities.Device, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Device), args.Error(1)
}

func (m *MockDeviceRepository) GetByIDs(ctx context.Context, ids []string) ([]*entities.Device, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Device), args.Error(1)
}

func (m *MockDeviceRepository) UpdateTelemetry(ctx context.Context, id string, telemetry entities.Telemetry) (*entities.Device, error) {
	args := m.Called(ctx, id, telemetry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Device), args.Error(1)
}

func (m *MockDeviceRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockAssociationRepository is a mock implementation of ports.AssociationRepository
type MockAssociationRepository struct {
	mock.Mock
}

func (m *MockAssociationRepository) Save(ctx context.Context, assoc *entities.UserDeviceAssociation) error {
	args := m.Called(ctx, assoc)
	return args.Error(0)
}

func (m *MockAssociationRepository) GetByUserID(ctx context.Context, userID string) (*entities.UserDeviceAssociation, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.UserDeviceAssociation), args.Error(1)
}

func (m *MockAssociationRepository) AppendDevice(ctx context.Context, userID, deviceID string) ([]string, error) {
	args := m.Called(ctx, userID, deviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockAssociationRepository) SetDeviceIDs(ctx context.Context, userID string, deviceIDs []string) error {
	args := m.Called(ctx, userID, deviceIDs)
	return args.Error(0)
}

func (m *MockAssociationRepository) FindByDeviceID(ctx context.Context, deviceID string) ([]*entities.UserDeviceAssociation, error) {
	args := m.Called(ctx, deviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.UserDeviceAssociation), args.Error(1)
}

// MockEventBus is a mock implementation of ports.EventBus
type MockEventBus struct {
	mock.Mock
}

func (m *MockEventBus) Publish(ctx context.Context, event events.DomainEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventBus) PublishBatch(ctx context.Context, batch []events.DomainEvent) error {
	args := m.Called(ctx, batch)
	return args.Error(0)
}
