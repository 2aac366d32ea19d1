package handlers

import (
	"errors"
	"net/http"
	"time"

	"devicehub-backend/domain/core/entities"
	"devicehub-backend/pkg/common"
	pkgerrors "devicehub-backend/pkg/errors"

	"go.uber.org/zap"
)

// deviceResponse is the wire shape for a device record
type deviceResponse struct {
	ID              string   `json:"id"`
	DeviceName      string   `json:"deviceName"`
	Location        string   `json:"location"`
	DeviceType      string   `json:"deviceType"`
	RoomTemperature *float64 `json:"roomTemperature,omitempty"`
	Humidity        *float64 `json:"humidity,omitempty"`
	LightStatus     string   `json:"lightStatus,omitempty"`
	CreatedAt       string   `json:"createdAt,omitempty"`
	UpdatedAt       string   `json:"updatedAt,omitempty"`
}

func toDeviceResponse(device *entities.Device) deviceResponse {
	resp := deviceResponse{
		ID:              device.ID,
		DeviceName:      device.Name,
		Location:        device.Location,
		DeviceType:      device.DeviceType,
		RoomTemperature: device.Telemetry.RoomTemperature,
		Humidity:        device.Telemetry.Humidity,
		LightStatus:     device.Telemetry.LightStatus,
	}
	if !device.CreatedAt.IsZero() {
		resp.CreatedAt = device.CreatedAt.Format(time.RFC3339)
	}
	if !device.UpdatedAt.IsZero() {
		resp.UpdatedAt = device.UpdatedAt.Format(time.RFC3339)
	}
	return resp
}

func toDeviceResponses(devices []*entities.Device) []deviceResponse {
	responses := make([]deviceResponse, 0, len(devices))
	for _, device := range devices {
		responses = append(responses, toDeviceResponse(device))
	}
	return responses
}

// respondServiceError maps a service error onto the HTTP taxonomy: validation
// 400, missing entity 404, everything else a generic 500 whose body carries a
// textual summary but no internal error detail
func respondServiceError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var appErr *pkgerrors.AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case pkgerrors.ErrorTypeValidation:
			common.RespondError(w, http.StatusBadRequest, appErr.Message, "")
			return
		case pkgerrors.ErrorTypeNotFound:
			common.RespondError(w, http.StatusNotFound, appErr.Message, "")
			return
		}
	}

	logger.Error("request failed", zap.Error(err))
	common.RespondError(w, http.StatusInternalServerError, "internal server error", "")
}
