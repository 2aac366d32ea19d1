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

// AssociationRepository implements ports.AssociationRepository on the store adapter
type AssociationRepository struct {
	store     *Store
	tableName string
	logger    *zap.Logger
}

// NewAssociationRepository creates a new association repository
func NewAssociationRepository(store *Store, tableName string, logger *zap.Logger) ports.AssociationRepository {
	return &AssociationRepository{
		store:     store,
		tableName: tableName,
		logger:    logger,
	}
}

// associationItem represents the DynamoDB item structure for a user's association
type associationItem struct {
	UserID    string   `dynamodbav:"userId"`
	Email     string   `dynamodbav:"email,omitempty"`
	DeviceIDs []string `dynamodbav:"deviceIds"`
	CreatedAt string   `dynamodbav:"createdAt"`
	UpdatedAt string   `dynamodbav:"updatedAt,omitempty"`
}

func associationKey(userID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}
}

// Save persists an association. PutItem is an upsert, so re-initializing an
// existing user overwrites the record, device list included.
func (r *AssociationRepository) Save(ctx context.Context, association *entities.UserDeviceAssociation) error {
	item := associationItem{
		UserID:    association.UserID,
		Email:     association.Email,
		DeviceIDs: association.DeviceIDs,
		CreatedAt: association.CreatedAt.Format(time.RFC3339),
		UpdatedAt: association.UpdatedAt.Format(time.RFC3339),
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return pkgerrors.NewInternalError("failed to marshal association").WithCause(err)
	}

	return r.store.Put(ctx, r.tableName, av)
}

// GetByUserID retrieves a user's association by partition key
func (r *AssociationRepository) GetByUserID(ctx context.Context, userID string) (*entities.UserDeviceAssociation, error) {
	expr, err := expression.NewBuilder().
		WithKeyCondition(expression.Key("userId").Equal(expression.Value(userID))).
		Build()
	if err != nil {
		return nil, pkgerrors.NewInternalError("failed to build association query").WithCause(err)
	}

	items, err := r.store.Query(ctx, r.tableName, expr)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, pkgerrors.NewNotFoundError("user association")
	}

	return r.unmarshalAssociation(items[0])
}

// AppendDevice appends a device ID with a native list-append so a first link
// and subsequent links share one atomic write; the list is created in place
// when the user has none yet
func (r *AssociationRepository) AppendDevice(ctx context.Context, userID, deviceID string) ([]string, error) {
	update := expression.
		Set(
			expression.Name("deviceIds"),
			expression.ListAppend(
				expression.IfNotExists(expression.Name("deviceIds"), expression.Value([]string{})),
				expression.Value([]string{deviceID}),
			),
		).
		Set(expression.Name("updatedAt"), expression.Value(utils.NowRFC3339()))

	expr, err := expression.NewBuilder().WithUpdate(update).Build()
	if err != nil {
		return nil, pkgerrors.NewInternalError("failed to build list append").WithCause(err)
	}

	av, err := r.store.Update(ctx, r.tableName, associationKey(userID), expr)
	if err != nil {
		return nil, err
	}

	assoc, err := r.unmarshalAssociation(av)
	if err != nil {
		return nil, err
	}
	return assoc.DeviceIDs, nil
}

// SetDeviceIDs overwrites a user's device list. The attribute_exists
// condition keeps the write from creating a headless association record.
func (r *AssociationRepository) SetDeviceIDs(ctx context.Context, userID string, deviceIDs []string) error {
	if deviceIDs == nil {
		deviceIDs = []string{}
	}

	update := expression.
		Set(expression.Name("deviceIds"), expression.Value(deviceIDs)).
		Set(expression.Name("updatedAt"), expression.Value(utils.NowRFC3339()))

	expr, err := expression.NewBuilder().
		WithUpdate(update).
		WithCondition(expression.AttributeExists(expression.Name("userId"))).
		Build()
	if err != nil {
		return pkgerrors.NewInternalError("failed to build device list update").WithCause(err)
	}

	if _, err := r.store.Update(ctx, r.tableName, associationKey(userID), expr); err != nil {
		var condFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condFailed) {
			return pkgerrors.NewNotFoundError("user association")
		}
		return err
	}
	return nil
}

// FindByDeviceID scans the index for users whose device list contains
// deviceID. Full scan; only the cascading delete path uses this.
func (r *AssociationRepository) FindByDeviceID(ctx context.Context, deviceID string) ([]*entities.UserDeviceAssociation, error) {
	expr, err := expression.NewBuilder().
		WithFilter(expression.Name("deviceIds").Contains(deviceID)).
		Build()
	if err != nil {
		return nil, pkgerrors.NewInternalError("failed to build reference scan").WithCause(err)
	}

	items, err := r.store.ScanAll(ctx, r.tableName, &expr)
	if err != nil {
		return nil, err
	}

	associations := make([]*entities.UserDeviceAssociation, 0, len(items))
	for _, av := range items {
		assoc, err := r.unmarshalAssociation(av)
		if err != nil {
			r.logger.Warn("skipping malformed association item", zap.Error(err))
			continue
		}
		associations = append(associations, assoc)
	}
	return associations, nil
}

func (r *AssociationRepository) unmarshalAssociation(av map[string]types.AttributeValue) (*entities.UserDeviceAssociation, error) {
	var item associationItem
	if err := attributevalue.UnmarshalMap(av, &item); err != nil {
		return nil, pkgerrors.NewInternalError("failed to unmarshal association").WithCause(err)
	}

	createdAt := parseTimestamp(r.logger, "createdAt", item.CreatedAt)
	updatedAt := parseTimestamp(r.logger, "updatedAt", item.UpdatedAt)

	return entities.ReconstructUserDeviceAssociation(
		item.UserID,
		item.Email,
		item.DeviceIDs,
		createdAt,
		updatedAt,
	), nil
}
