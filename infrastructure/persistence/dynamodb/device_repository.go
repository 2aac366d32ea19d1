package dynamodb

import (
	"context"
	"errors"
	"time"

	"devicehub-backend/application/ports"
	"devicehub-backend/domain/core/entities"
	pkgerrors "devicehub-backend/pkg/errors"
	"devicehub-backend/pkg/utils"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// DeviceRepository implements ports.DeviceRepository on the store adapter
type DeviceRepository struct {
	store     *Store
	tableName string
	logger    *zap.Logger
}

// NewDeviceRepository creates a new device repository
func NewDeviceRepository(store *Store, tableName string, logger *zap.Logger) ports.DeviceRepository {
	return &DeviceRepository{
		store:     store,
		tableName: tableName,
		logger:    logger,
	}
}

// deviceItem represents the DynamoDB item structure for a device
type deviceItem struct {
	ID              string   `dynamodbav:"id"`
	DeviceName      string   `dynamodbav:"deviceName"`
	Location        string   `dynamodbav:"location"`
	DeviceType      string   `dynamodbav:"deviceType"`
	RoomTemperature *float64 `dynamodbav:"roomTemperature,omitempty"`
	Humidity        *float64 `dynamodbav:"humidity,omitempty"`
	LightStatus     string   `dynamodbav:"lightStatus,omitempty"`
	CreatedAt       string   `dynamodbav:"createdAt"`
	UpdatedAt       string   `dynamodbav:"updatedAt"`
}

func deviceKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: id},
	}
}

// Save persists a device. PutItem is an upsert, so writing an existing ID
// silently overwrites the record.
func (r *DeviceRepository) Save(ctx context.Context, device *entities.Device) error {
	item := deviceItem{
		ID:              device.ID,
		DeviceName:      device.Name,
		Location:        device.Location,
		DeviceType:      device.DeviceType,
		RoomTemperature: device.Telemetry.RoomTemperature,
		Humidity:        device.Telemetry.Humidity,
		LightStatus:     device.Telemetry.LightStatus,
		CreatedAt:       device.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       device.UpdatedAt.Format(time.RFC3339),
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return pkgerrors.NewInternalError("failed to marshal device").WithCause(err)
	}

	return r.store.Put(ctx, r.tableName, av)
}

// GetByID retrieves a device by its ID
func (r *DeviceRepository) GetByID(ctx context.Context, id string) (*entities.Device, error) {
	av, err := r.store.Get(ctx, r.tableName, deviceKey(id))
	if err != nil {
		return nil, err
	}
	if av == nil {
		return nil, pkgerrors.NewNotFoundError("device")
	}

	return r.unmarshalDevice(av)
}

// List retrieves all devices via a full table scan
func (r *DeviceRepository) List(ctx context.Context) ([]*entities.Device, error) {
	items, err := r.store.ScanAll(ctx, r.tableName, nil)
	if err != nil {
		return nil, err
	}

	devices := make([]*entities.Device, 0, len(items))
	for _, av := range items {
		device, err := r.unmarshalDevice(av)
		if err != nil {
			r.logger.Warn("skipping malformed device item", zap.Error(err))
			continue
		}
		devices = append(devices, device)
	}
	return devices, nil
}

// GetByIDs batch-fetches devices, dropping IDs with no record
func (r *DeviceRepository) GetByIDs(ctx context.Context, ids []string) ([]*entities.Device, error) {
	if len(ids) == 0 {
		return []*entities.Device{}, nil
	}

	// BatchGetItem rejects duplicate keys in a single request.
	seen := make(map[string]struct{}, len(ids))
	keys := make([]map[string]types.AttributeValue, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		keys = append(keys, deviceKey(id))
	}

	items, err := r.store.BatchGet(ctx, r.tableName, keys)
	if err != nil {
		return nil, err
	}

	devices := make([]*entities.Device, 0, len(items))
	for _, av := range items {
		device, err := r.unmarshalDevice(av)
		if err != nil {
			r.logger.Warn("skipping malformed device item", zap.Error(err))
			continue
		}
		devices = append(devices, device)
	}
	return devices, nil
}

// UpdateTelemetry rewrites the sensor fields of an existing device. The
// attribute_exists condition keeps telemetry writes from resurrecting a
// deleted device as a partial record.
func (r *DeviceRepository) UpdateTelemetry(ctx context.Context, id string, telemetry entities.Telemetry) (*entities.Device, error) {
	update := expression.
		Set(expression.Name("roomTemperature"), expression.Value(telemetry.RoomTemperature)).
		Set(expression.Name("humidity"), expression.Value(telemetry.Humidity)).
		Set(expression.Name("lightStatus"), expression.Value(telemetry.LightStatus)).
		Set(expression.Name("updatedAt"), expression.Value(utils.NowRFC3339()))

	expr, err := expression.NewBuilder().
		WithUpdate(update).
		WithCondition(expression.AttributeExists(expression.Name("id"))).
		Build()
	if err != nil {
		return nil, pkgerrors.NewInternalError("failed to build telemetry update").WithCause(err)
	}

	av, err := r.store.Update(ctx, r.tableName, deviceKey(id), expr)
	if err != nil {
		var condFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condFailed) {
			return nil, pkgerrors.NewNotFoundError("device")
		}
		return nil, err
	}

	return r.unmarshalDevice(av)
}

// Delete removes a device. No existence check is made, so deleting an
// absent ID succeeds.
func (r *DeviceRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, r.tableName, deviceKey(id))
}

// parseTimestamp parses a stored RFC3339 timestamp. Absent values are normal
// (omitempty attributes); anything else that fails to parse is logged and
// degrades to the zero time rather than failing the read.
func parseTimestamp(logger *zap.Logger, field, value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	ts, err := utils.ParseRFC3339(value)
	if err != nil {
		logger.Warn("malformed timestamp attribute",
			zap.String("field", field),
			zap.String("value", value),
			zap.Error(err),
		)
		return time.Time{}
	}
	return ts
}

func (r *DeviceRepository) unmarshalDevice(av map[string]types.AttributeValue) (*entities.Device, error) {
	var item deviceItem
	if err := attributevalue.UnmarshalMap(av, &item); err != nil {
		return nil, pkgerrors.NewInternalError("failed to unmarshal device").WithCause(err)
	}

	createdAt := parseTimestamp(r.logger, "createdAt", item.CreatedAt)
	updatedAt := parseTimestamp(r.logger, "updatedAt", item.UpdatedAt)

	return entities.ReconstructDevice(
		item.ID,
		item.DeviceName,
		item.Location,
		item.DeviceType,
		entities.Telemetry{
			RoomTemperature: item.RoomTemperature,
			Humidity:        item.Humidity,
			LightStatus:     item.LightStatus,
		},
		createdAt,
		updatedAt,
	), nil
}
