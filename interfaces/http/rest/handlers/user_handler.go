package handlers

import (
	"net/http"

	"devicehub-backend/application/services"
	"devicehub-backend/pkg/common"
	"devicehub-backend/pkg/utils"

	"go.uber.org/zap"
)

// UserHandler handles user association HTTP requests
type UserHandler struct {
	service *services.AssociationService
	logger  *zap.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(service *services.AssociationService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		logger:  logger,
	}
}

// LinkRequest represents the request body for linking or unlinking a device
type LinkRequest struct {
	UserID   string `json:"userId" validate:"required"`
	DeviceID string `json:"deviceId" validate:"required"`
}

// LinkResponse carries the updated device list after a membership change
type LinkResponse struct {
	Message   string   `json:"message"`
	UserID    string   `json:"userId"`
	DeviceIDs []string `json:"deviceIds"`
}

// LinkDevice handles POST /user
func (h *UserHandler) LinkDevice(w http.ResponseWriter, r *http.Request) {
	var req LinkRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, err.Error(), "")
		return
	}

	deviceIDs, err := h.service.LinkDevice(r.Context(), req.UserID, req.DeviceID)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, LinkResponse{
		Message:   "Device linked successfully",
		UserID:    req.UserID,
		DeviceIDs: deviceIDs,
	})
}

// UnlinkDevice handles DELETE /user
func (h *UserHandler) UnlinkDevice(w http.ResponseWriter, r *http.Request) {
	var req LinkRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, err.Error(), "")
		return
	}

	deviceIDs, err := h.service.UnlinkDevice(r.Context(), req.UserID, req.DeviceID)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, LinkResponse{
		Message:   "Device unlinked successfully",
		UserID:    req.UserID,
		DeviceIDs: deviceIDs,
	})
}
