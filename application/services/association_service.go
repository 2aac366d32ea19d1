package services

import (
	"context"
	"time"

	"devicehub-backend/application/ports"
	"devicehub-backend/domain/core/entities"
	"devicehub-backend/domain/events"
	pkgerrors "devicehub-backend/pkg/errors"
	"devicehub-backend/pkg/observability"

	"go.uber.org/zap"
)

// AssociationService orchestrates the device registry and the user-device
// index. It owns the cross-collection consistency rules: the two collections
// share no transaction, so ordering and idempotence carry the guarantees.
type AssociationService struct {
	devices      ports.DeviceRepository
	associations ports.AssociationRepository
	eventBus     ports.EventBus
	metrics      *observability.Metrics
	logger       *zap.Logger
}

// NewAssociationService creates a new association service
func NewAssociationService(
	devices ports.DeviceRepository,
	associations ports.AssociationRepository,
	eventBus ports.EventBus,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *AssociationService {
	return &AssociationService{
		devices:      devices,
		associations: associations,
		eventBus:     eventBus,
		metrics:      metrics,
		logger:       logger,
	}
}

// AddDevice registers a device. Writing an existing ID overwrites the record;
// create is idempotent. Linking to a user is a separate explicit call.
func (s *AssociationService) AddDevice(ctx context.Context, device *entities.Device) (err error) {
	defer s.record(ctx, "AddDevice", time.Now(), &err)

	if err = s.devices.Save(ctx, device); err != nil {
		return err
	}

	s.publish(ctx, events.NewDeviceRegistered(device.ID, device.Name, device.Location, device.DeviceType, time.Now()))

	s.logger.Info("device registered",
		zap.String("deviceID", device.ID),
		zap.String("deviceType", device.DeviceType),
	)
	return nil
}

// GetDevice retrieves a device by ID
func (s *AssociationService) GetDevice(ctx context.Context, id string) (*entities.Device, error) {
	return s.devices.GetByID(ctx, id)
}

// ListDevices retrieves every device in the registry
func (s *AssociationService) ListDevices(ctx context.Context) ([]*entities.Device, error) {
	return s.devices.List(ctx)
}

// UpdateTelemetry replaces the sensor readings of an existing device
func (s *AssociationService) UpdateTelemetry(ctx context.Context, id string, telemetry entities.Telemetry) (device *entities.Device, err error) {
	defer s.record(ctx, "UpdateTelemetry", time.Now(), &err)

	if id == "" {
		return nil, pkgerrors.NewValidationError("id is required")
	}
	return s.devices.UpdateTelemetry(ctx, id, telemetry)
}

// DeleteDeviceCascade removes a device and every index reference to it.
// Ordering is significant: the device row goes first, then the index cleanup,
// so a concurrent reader can observe a dangling reference until the loop
// finishes. There is no rollback; users cleaned before a mid-loop failure
// stay cleaned, and the whole call is safe to retry.
func (s *AssociationService) DeleteDeviceCascade(ctx context.Context, deviceID string) (err error) {
	defer s.record(ctx, "DeleteDeviceCascade", time.Now(), &err)

	if deviceID == "" {
		return pkgerrors.NewValidationError("id is required")
	}

	// Step 1: delete the device row. Absent IDs succeed.
	if err = s.devices.Delete(ctx, deviceID); err != nil {
		return err
	}

	// Step 2: find every user still referencing the device.
	referencing, err := s.associations.FindByDeviceID(ctx, deviceID)
	if err != nil {
		return err
	}

	// Step 3: rewrite each user's list, strictly sequentially. The store has
	// no cross-key transaction, so parallel writes would not be cancelable.
	cleaned := make([]string, 0, len(referencing))
	var failed []string
	for _, assoc := range referencing {
		assoc.UnlinkDevice(deviceID)
		if setErr := s.associations.SetDeviceIDs(ctx, assoc.UserID, assoc.DeviceIDs); setErr != nil {
			s.logger.Error("failed to remove device from user index",
				zap.String("deviceID", deviceID),
				zap.String("userID", assoc.UserID),
				zap.Error(setErr),
			)
			failed = append(failed, assoc.UserID)
			continue
		}
		cleaned = append(cleaned, assoc.UserID)
	}

	s.publish(ctx, events.NewDeviceDeleted(deviceID, cleaned, time.Now()))

	if len(failed) > 0 {
		err = pkgerrors.NewDatabaseError("cascade delete", nil).WithDetails(map[string]interface{}{
			"deviceId":    deviceID,
			"failedUsers": failed,
		})
		return err
	}

	s.logger.Info("device deleted",
		zap.String("deviceID", deviceID),
		zap.Int("cleanedUsers", len(cleaned)),
	)
	return nil
}

// GetDevicesForUser returns the device records linked to a user. A user with
// no association record or an empty list gets an empty slice, not an error.
func (s *AssociationService) GetDevicesForUser(ctx context.Context, userID string) ([]*entities.Device, error) {
	if userID == "" {
		return nil, pkgerrors.NewValidationError("userId is required")
	}

	assoc, err := s.associations.GetByUserID(ctx, userID)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return []*entities.Device{}, nil
		}
		return nil, err
	}

	if len(assoc.DeviceIDs) == 0 {
		return []*entities.Device{}, nil
	}

	// Missing devices (a delete racing this read) are silently dropped by
	// the batch lookup, which hides the dangling-reference window.
	return s.devices.GetByIDs(ctx, assoc.DeviceIDs)
}

// LinkDevice appends a device to a user's device list, creating the
// association with an empty starting list if the user has none yet
func (s *AssociationService) LinkDevice(ctx context.Context, userID, deviceID string) (deviceIDs []string, err error) {
	defer s.record(ctx, "LinkDevice", time.Now(), &err)

	if userID == "" {
		return nil, pkgerrors.NewValidationError("userId is required")
	}
	if deviceID == "" {
		return nil, pkgerrors.NewValidationError("deviceId is required")
	}

	// Already-linked devices are a no-op so repeated link calls cannot grow
	// the list. Two concurrent first links can still race past this check;
	// that window is accepted.
	assoc, err := s.associations.GetByUserID(ctx, userID)
	if err == nil && assoc.HasDevice(deviceID) {
		return assoc.DeviceIDs, nil
	}
	if err != nil && !pkgerrors.IsNotFound(err) {
		return nil, err
	}

	deviceIDs, err = s.associations.AppendDevice(ctx, userID, deviceID)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.NewDeviceLinked(userID, deviceID, time.Now()))

	s.logger.Info("device linked",
		zap.String("userID", userID),
		zap.String("deviceID", deviceID),
	)
	return deviceIDs, nil
}

// UnlinkDevice removes a device from a user's device list. Both a missing
// association record and a missing link are NotFound.
func (s *AssociationService) UnlinkDevice(ctx context.Context, userID, deviceID string) (deviceIDs []string, err error) {
	defer s.record(ctx, "UnlinkDevice", time.Now(), &err)

	if userID == "" {
		return nil, pkgerrors.NewValidationError("userId is required")
	}
	if deviceID == "" {
		return nil, pkgerrors.NewValidationError("deviceId is required")
	}

	assoc, err := s.associations.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !assoc.UnlinkDevice(deviceID) {
		return nil, pkgerrors.NewNotFoundError("device link")
	}

	if err = s.associations.SetDeviceIDs(ctx, userID, assoc.DeviceIDs); err != nil {
		return nil, err
	}

	s.publish(ctx, events.NewDeviceUnlinked(userID, deviceID, time.Now()))

	return assoc.DeviceIDs, nil
}

// InitUser writes the association record for a freshly confirmed account,
// starting with an empty device list. Re-confirmation overwrites the record.
func (s *AssociationService) InitUser(ctx context.Context, userID, email string) (err error) {
	defer s.record(ctx, "InitUser", time.Now(), &err)

	assoc, err := entities.NewUserDeviceAssociation(userID, email)
	if err != nil {
		return err
	}

	if err = s.associations.Save(ctx, assoc); err != nil {
		return err
	}

	s.publish(ctx, events.NewUserInitialized(userID, email, time.Now()))

	s.logger.Info("user association initialized", zap.String("userID", userID))
	return nil
}

// publish sends a domain event; delivery failures are logged, never surfaced,
// so an unreachable bus cannot fail a request that already committed
func (s *AssociationService) publish(ctx context.Context, event events.DomainEvent) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish event",
			zap.String("eventType", event.GetEventType()),
			zap.String("aggregateID", event.GetAggregateID()),
			zap.Error(err),
		)
	}
}

func (s *AssociationService) record(ctx context.Context, operation string, start time.Time, err *error) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordOperation(ctx, operation, time.Since(start), *err)
}
