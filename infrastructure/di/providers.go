package di

import (
	"context"
	"fmt"

	"devicehub-backend/application/ports"
	"devicehub-backend/application/services"
	"devicehub-backend/infrastructure/config"
	"devicehub-backend/infrastructure/messaging/eventbridge"
	dynamodbstore "devicehub-backend/infrastructure/persistence/dynamodb"
	"devicehub-backend/pkg/observability"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config          *config.Config
	Logger          *zap.Logger
	DeviceRepo      ports.DeviceRepository
	AssociationRepo ports.AssociationRepository
	EventBus        ports.EventBus
	Metrics         *observability.Metrics
	Service         *services.AssociationService
}

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideCloudWatchClient creates a CloudWatch client
func ProvideCloudWatchClient(awsCfg aws.Config) *awscloudwatch.Client {
	return awscloudwatch.NewFromConfig(awsCfg)
}

// ProvideStore creates the key-value store adapter
func ProvideStore(client *awsdynamodb.Client, logger *zap.Logger) *dynamodbstore.Store {
	return dynamodbstore.NewStore(client, logger)
}

// ProvideDeviceRepository creates the device registry repository
func ProvideDeviceRepository(store *dynamodbstore.Store, cfg *config.Config, logger *zap.Logger) ports.DeviceRepository {
	return dynamodbstore.NewDeviceRepository(store, cfg.DeviceTable, logger)
}

// ProvideAssociationRepository creates the user-device index repository
func ProvideAssociationRepository(store *dynamodbstore.Store, cfg *config.Config, logger *zap.Logger) ports.AssociationRepository {
	return dynamodbstore.NewAssociationRepository(store, cfg.AssociationTable, logger)
}

// ProvideEventBus creates the domain event publisher. Event publishing can be
// switched off entirely; the service treats a nil bus as "don't publish".
func ProvideEventBus(client *awseventbridge.Client, cfg *config.Config, logger *zap.Logger) ports.EventBus {
	if !cfg.EnableEvents {
		return nil
	}
	return eventbridge.NewPublisher(client, cfg.EventBusName, logger)
}

// ProvideMetrics creates the metrics instance. With metrics disabled the
// CloudWatch client is withheld, which turns every recording into a no-op.
func ProvideMetrics(client *awscloudwatch.Client, cfg *config.Config) *observability.Metrics {
	namespace := fmt.Sprintf("DeviceHub/%s", cfg.Environment)
	if !cfg.EnableMetrics {
		return observability.NewMetrics(namespace, nil)
	}
	return observability.NewMetrics(namespace, client)
}

// ProvideAssociationService creates the orchestration service
func ProvideAssociationService(
	devices ports.DeviceRepository,
	associations ports.AssociationRepository,
	eventBus ports.EventBus,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *services.AssociationService {
	return services.NewAssociationService(devices, associations, eventBus, metrics, logger)
}
