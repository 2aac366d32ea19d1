package events

import "time"

// DeviceRegistered is raised when a device is added to the registry
type DeviceRegistered struct {
	BaseEvent
	DeviceID   string `json:"device_id"`
	DeviceName string `json:"device_name"`
	Location   string `json:"location"`
	DeviceType string `json:"device_type"`
}

// NewDeviceRegistered creates a DeviceRegistered event
func NewDeviceRegistered(deviceID, deviceName, location, deviceType string, timestamp time.Time) DeviceRegistered {
	return DeviceRegistered{
		BaseEvent:  newBaseEvent(deviceID, "device.registered", timestamp),
		DeviceID:   deviceID,
		DeviceName: deviceName,
		Location:   location,
		DeviceType: deviceType,
	}
}

// DeviceDeleted is raised after a device and its index references are removed.
// CleanedUserIDs lists the users whose device lists were rewritten; a consumer
// can reconcile the remainder when the cascade failed partway.
type DeviceDeleted struct {
	BaseEvent
	DeviceID       string   `json:"device_id"`
	CleanedUserIDs []string `json:"cleaned_user_ids"`
}

// NewDeviceDeleted creates a DeviceDeleted event
func NewDeviceDeleted(deviceID string, cleanedUserIDs []string, timestamp time.Time) DeviceDeleted {
	return DeviceDeleted{
		BaseEvent:      newBaseEvent(deviceID, "device.deleted", timestamp),
		DeviceID:       deviceID,
		CleanedUserIDs: cleanedUserIDs,
	}
}

// DeviceLinked is raised when a device is added to a user's device list
type DeviceLinked struct {
	BaseEvent
	UserID   string `json:"user_id"`
	DeviceID string `json:"device_id"`
}

// NewDeviceLinked creates a DeviceLinked event
func NewDeviceLinked(userID, deviceID string, timestamp time.Time) DeviceLinked {
	return DeviceLinked{
		BaseEvent: newBaseEvent(userID, "device.linked", timestamp),
		UserID:    userID,
		DeviceID:  deviceID,
	}
}

// DeviceUnlinked is raised when a device is removed from a user's device list
type DeviceUnlinked struct {
	BaseEvent
	UserID   string `json:"user_id"`
	DeviceID string `json:"device_id"`
}

// NewDeviceUnlinked creates a DeviceUnlinked event
func NewDeviceUnlinked(userID, deviceID string, timestamp time.Time) DeviceUnlinked {
	return DeviceUnlinked{
		BaseEvent: newBaseEvent(userID, "device.unlinked", timestamp),
		UserID:    userID,
		DeviceID:  deviceID,
	}
}

// UserInitialized is raised when a confirmed user gets an empty association record
type UserInitialized struct {
	BaseEvent
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// NewUserInitialized creates a UserInitialized event
func NewUserInitialized(userID, email string, timestamp time.Time) UserInitialized {
	return UserInitialized{
		BaseEvent: newBaseEvent(userID, "user.initialized", timestamp),
		UserID:    userID,
		Email:     email,
	}
}
