package integration

import (
	"context"
	"testing"

	"devicehub-backend/application/services"
	"devicehub-backend/domain/core/entities"
	"devicehub-backend/infrastructure/persistence/memory"
	pkgerrors "devicehub-backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestService(t *testing.T) *services.AssociationService {
	t.Helper()
	return services.NewAssociationService(
		memory.NewDeviceRepository(),
		memory.NewAssociationRepository(),
		nil,
		nil,
		zap.NewNop(),
	)
}

func registerDevice(t *testing.T, service *services.AssociationService, id string) {
	t.Helper()
	device, err := entities.NewDevice(id, "Device "+id, "Lab", "sensor", entities.Telemetry{})
	require.NoError(t, err)
	require.NoError(t, service.AddDevice(context.Background(), device))
}

// TestDeviceLifecycle walks the full path: confirm a user, register devices,
// link them, read them back, then cascade-delete and verify the index is clean.
func TestDeviceLifecycle(t *testing.T) {
	ctx := context.Background()
	service := setupTestService(t)

	require.NoError(t, service.InitUser(ctx, "user-1", "user@example.com"))

	registerDevice(t, service, "dev-1")
	registerDevice(t, service, "dev-2")

	t.Run("link devices", func(t *testing.T) {
		deviceIDs, err := service.LinkDevice(ctx, "user-1", "dev-1")
		require.NoError(t, err)
		assert.Equal(t, []string{"dev-1"}, deviceIDs)

		deviceIDs, err = service.LinkDevice(ctx, "user-1", "dev-2")
		require.NoError(t, err)
		assert.Equal(t, []string{"dev-1", "dev-2"}, deviceIDs)
	})

	t.Run("read back user devices", func(t *testing.T) {
		devices, err := service.GetDevicesForUser(ctx, "user-1")
		require.NoError(t, err)
		assert.Len(t, devices, 2)
	})

	t.Run("cascade delete cleans the index", func(t *testing.T) {
		require.NoError(t, service.DeleteDeviceCascade(ctx, "dev-1"))

		_, err := service.GetDevice(ctx, "dev-1")
		assert.True(t, pkgerrors.IsNotFound(err))

		devices, err := service.GetDevicesForUser(ctx, "user-1")
		require.NoError(t, err)
		require.Len(t, devices, 1)
		assert.Equal(t, "dev-2", devices[0].ID)
	})

	t.Run("unlink the remaining device", func(t *testing.T) {
		deviceIDs, err := service.UnlinkDevice(ctx, "user-1", "dev-2")
		require.NoError(t, err)
		assert.Empty(t, deviceIDs)

		devices, err := service.GetDevicesForUser(ctx, "user-1")
		require.NoError(t, err)
		assert.Empty(t, devices)
	})
}

// TestCascadeDeleteAcrossUsers links one device to several users and checks
// that deleting it rewrites every referencing index entry.
func TestCascadeDeleteAcrossUsers(t *testing.T) {
	ctx := context.Background()
	service := setupTestService(t)

	registerDevice(t, service, "dev-shared")
	registerDevice(t, service, "dev-own")

	for _, userID := range []string{"user-a", "user-b", "user-c"} {
		_, err := service.LinkDevice(ctx, userID, "dev-shared")
		require.NoError(t, err)
	}
	_, err := service.LinkDevice(ctx, "user-b", "dev-own")
	require.NoError(t, err)

	require.NoError(t, service.DeleteDeviceCascade(ctx, "dev-shared"))

	for _, userID := range []string{"user-a", "user-c"} {
		devices, err := service.GetDevicesForUser(ctx, userID)
		require.NoError(t, err)
		assert.Empty(t, devices, "user %s should have no devices left", userID)
	}

	devices, err := service.GetDevicesForUser(ctx, "user-b")
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, "dev-own", devices[0].ID)
}

// TestLinkBeforeUserInit covers the index entry created implicitly by a first
// link when the confirmation trigger never ran.
func TestLinkBeforeUserInit(t *testing.T) {
	ctx := context.Background()
	service := setupTestService(t)

	registerDevice(t, service, "dev-1")

	deviceIDs, err := service.LinkDevice(ctx, "user-ghost", "dev-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"dev-1"}, deviceIDs)

	devices, err := service.GetDevicesForUser(ctx, "user-ghost")
	require.NoError(t, err)
	require.Len(t, devices, 1)
}

// TestDanglingLinkIsHidden links a device ID that has no registry row and
// checks the read path drops it instead of failing.
func TestDanglingLinkIsHidden(t *testing.T) {
	ctx := context.Background()
	service := setupTestService(t)

	_, err := service.LinkDevice(ctx, "user-1", "dev-phantom")
	require.NoError(t, err)

	devices, err := service.GetDevicesForUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, devices)
}
