package entities

import (
	"time"

	pkgerrors "devicehub-backend/pkg/errors"
)

// UserDeviceAssociation maps a user to the set of device IDs they manage.
// The mapping is directional: devices carry no owner reference of their own.
type UserDeviceAssociation struct {
	UserID    string
	Email     string
	DeviceIDs []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUserDeviceAssociation creates the association written when a user
// account is confirmed, starting with an empty device list
func NewUserDeviceAssociation(userID, email string) (*UserDeviceAssociation, error) {
	if userID == "" {
		return nil, pkgerrors.NewValidationError("userId is required")
	}

	now := time.Now()
	return &UserDeviceAssociation{
		UserID:    userID,
		Email:     email,
		DeviceIDs: []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ReconstructUserDeviceAssociation rebuilds an association from repository data
func ReconstructUserDeviceAssociation(userID, email string, deviceIDs []string, createdAt, updatedAt time.Time) *UserDeviceAssociation {
	if deviceIDs == nil {
		deviceIDs = []string{}
	}
	return &UserDeviceAssociation{
		UserID:    userID,
		Email:     email,
		DeviceIDs: deviceIDs,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// HasDevice reports whether deviceID is in the user's device list
func (a *UserDeviceAssociation) HasDevice(deviceID string) bool {
	for _, id := range a.DeviceIDs {
		if id == deviceID {
			return true
		}
	}
	return false
}

// LinkDevice appends deviceID to the device list. Linking an already-linked
// device is a no-op; the return value reports whether the list changed.
func (a *UserDeviceAssociation) LinkDevice(deviceID string) bool {
	if a.HasDevice(deviceID) {
		return false
	}
	a.DeviceIDs = append(a.DeviceIDs, deviceID)
	a.UpdatedAt = time.Now()
	return true
}

// UnlinkDevice removes deviceID from the device list. Removing a device that
// is not linked reports false; the caller decides whether that is an error.
func (a *UserDeviceAssociation) UnlinkDevice(deviceID string) bool {
	if !a.HasDevice(deviceID) {
		return false
	}

	filtered := make([]string, 0, len(a.DeviceIDs))
	for _, id := range a.DeviceIDs {
		if id != deviceID {
			filtered = append(filtered, id)
		}
	}
	a.DeviceIDs = filtered
	a.UpdatedAt = time.Now()
	return true
}
