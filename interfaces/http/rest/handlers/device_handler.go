package handlers

import (
	"net/http"

	"devicehub-backend/application/services"
	"devicehub-backend/domain/core/entities"
	"devicehub-backend/pkg/common"
	"devicehub-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

// DeviceHandler handles device-related HTTP requests
type DeviceHandler struct {
	service *services.AssociationService
	logger  *zap.Logger
}

// NewDeviceHandler creates a new device handler
func NewDeviceHandler(service *services.AssociationService, logger *zap.Logger) *DeviceHandler {
	return &DeviceHandler{
		service: service,
		logger:  logger,
	}
}

// AddDeviceRequest represents the request body for registering a device
type AddDeviceRequest struct {
	ID              string   `json:"id" validate:"required"`
	DeviceName      string   `json:"deviceName" validate:"required"`
	Location        string   `json:"location" validate:"required"`
	DeviceType      string   `json:"deviceType" validate:"required"`
	RoomTemperature *float64 `json:"roomTemperature,omitempty"`
	Humidity        *float64 `json:"humidity,omitempty"`
	LightStatus     string   `json:"lightStatus,omitempty"`
}

// UpdateTelemetryRequest represents the request body for a telemetry update
type UpdateTelemetryRequest struct {
	RoomTemperature *float64 `json:"roomTemperature,omitempty"`
	Humidity        *float64 `json:"humidity,omitempty"`
	LightStatus     string   `json:"lightStatus,omitempty"`
}

// AddDevice handles POST /device
func (h *DeviceHandler) AddDevice(w http.ResponseWriter, r *http.Request) {
	var req AddDeviceRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, err.Error(), "")
		return
	}

	telemetry := entities.Telemetry{
		RoomTemperature: req.RoomTemperature,
		Humidity:        req.Humidity,
		LightStatus:     req.LightStatus,
	}

	device, err := entities.NewDevice(req.ID, req.DeviceName, req.Location, req.DeviceType, telemetry)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	if err := h.service.AddDevice(r.Context(), device); err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	common.RespondMessage(w, http.StatusOK, "Device added successfully")
}

// ListDevices handles GET /device. When a userId query parameter is present
// only the devices linked to that user are returned.
func (h *DeviceHandler) ListDevices(w http.ResponseWriter, r *http.Request) {
	var (
		devices []*entities.Device
		err     error
	)

	if userID := r.URL.Query().Get("userId"); userID != "" {
		devices, err = h.service.GetDevicesForUser(r.Context(), userID)
	} else {
		devices, err = h.service.ListDevices(r.Context())
	}
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, toDeviceResponses(devices))
}

// GetDevice handles GET /device/{deviceID}
func (h *DeviceHandler) GetDevice(w http.ResponseWriter, r *http.Request) {
	deviceID := chi.URLParam(r, "deviceID")
	if deviceID == "" {
		common.RespondError(w, http.StatusBadRequest, "device id is required", "")
		return
	}

	device, err := h.service.GetDevice(r.Context(), deviceID)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, toDeviceResponse(device))
}

// DeleteDevice handles DELETE /device/{deviceID}. The device row is removed
// and every user association that referenced it is cleaned up.
func (h *DeviceHandler) DeleteDevice(w http.ResponseWriter, r *http.Request) {
	deviceID := chi.URLParam(r, "deviceID")
	if deviceID == "" {
		common.RespondError(w, http.StatusBadRequest, "device id is required", "")
		return
	}

	if err := h.service.DeleteDeviceCascade(r.Context(), deviceID); err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	common.RespondMessage(w, http.StatusOK, "Device deleted successfully")
}

// UpdateTelemetry handles PUT /device/{deviceID}/telemetry
func (h *DeviceHandler) UpdateTelemetry(w http.ResponseWriter, r *http.Request) {
	deviceID := chi.URLParam(r, "deviceID")
	if deviceID == "" {
		common.RespondError(w, http.StatusBadRequest, "device id is required", "")
		return
	}

	var req UpdateTelemetryRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	telemetry := entities.Telemetry{
		RoomTemperature: req.RoomTemperature,
		Humidity:        req.Humidity,
		LightStatus:     req.LightStatus,
	}

	device, err := h.service.UpdateTelemetry(r.Context(), deviceID, telemetry)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, toDeviceResponse(device))
}
