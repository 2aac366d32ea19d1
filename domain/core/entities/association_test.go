package entities

import (
	"testing"
	"time"

	pkgerrors "devicehub-backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUserDeviceAssociation(t *testing.T) {
	// Act
	assoc, err := NewUserDeviceAssociation("user-1", "user@example.com")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "user-1", assoc.UserID)
	assert.Equal(t, "user@example.com", assoc.Email)
	assert.NotNil(t, assoc.DeviceIDs)
	assert.Empty(t, assoc.DeviceIDs)
}

func TestNewUserDeviceAssociation_RequiresUserID(t *testing.T) {
	assoc, err := NewUserDeviceAssociation("", "user@example.com")

	require.Error(t, err)
	assert.Nil(t, assoc)
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestReconstructUserDeviceAssociation_NilDeviceIDs(t *testing.T) {
	assoc := ReconstructUserDeviceAssociation("user-1", "", nil, time.Now(), time.Time{})

	assert.NotNil(t, assoc.DeviceIDs)
	assert.Empty(t, assoc.DeviceIDs)
}

func TestUserDeviceAssociation_LinkDevice(t *testing.T) {
	assoc, err := NewUserDeviceAssociation("user-1", "")
	require.NoError(t, err)

	// First link changes the list
	assert.True(t, assoc.LinkDevice("dev-1"))
	assert.Equal(t, []string{"dev-1"}, assoc.DeviceIDs)

	// Linking the same device again is a no-op
	assert.False(t, assoc.LinkDevice("dev-1"))
	assert.Equal(t, []string{"dev-1"}, assoc.DeviceIDs)

	assert.True(t, assoc.LinkDevice("dev-2"))
	assert.Equal(t, []string{"dev-1", "dev-2"}, assoc.DeviceIDs)
}

func TestUserDeviceAssociation_UnlinkDevice(t *testing.T) {
	assoc, err := NewUserDeviceAssociation("user-1", "")
	require.NoError(t, err)
	assoc.LinkDevice("dev-1")
	assoc.LinkDevice("dev-2")
	assoc.LinkDevice("dev-3")

	// Removing a linked device preserves the order of the rest
	assert.True(t, assoc.UnlinkDevice("dev-2"))
	assert.Equal(t, []string{"dev-1", "dev-3"}, assoc.DeviceIDs)

	// Removing an unlinked device reports false and changes nothing
	assert.False(t, assoc.UnlinkDevice("dev-2"))
	assert.Equal(t, []string{"dev-1", "dev-3"}, assoc.DeviceIDs)
}

func TestUserDeviceAssociation_HasDevice(t *testing.T) {
	assoc, err := NewUserDeviceAssociation("user-1", "")
	require.NoError(t, err)
	assoc.LinkDevice("dev-1")

	assert.True(t, assoc.HasDevice("dev-1"))
	assert.False(t, assoc.HasDevice("dev-2"))
}
