package rest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"devicehub-backend/application/services"
	"devicehub-backend/infrastructure/persistence/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRouter() http.Handler {
	service := services.NewAssociationService(
		memory.NewDeviceRepository(),
		memory.NewAssociationRepository(),
		nil,
		nil,
		zap.NewNop(),
	)
	return NewRouter(service, zap.NewNop()).Setup()
}

func doJSON(t *testing.T, handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func TestAddDevice_Success(t *testing.T) {
	handler := newTestRouter()

	rec := doJSON(t, handler, http.MethodPost, "/device",
		`{"id":"dev-1","deviceName":"Thermostat","location":"Living Room","deviceType":"thermostat","roomTemperature":21.5}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	decodeBody(t, rec, &body)
	assert.Equal(t, "Device added successfully", body["message"])
}

func TestAddDevice_MissingRequiredFields(t *testing.T) {
	handler := newTestRouter()

	rec := doJSON(t, handler, http.MethodPost, "/device",
		`{"deviceName":"Thermostat","location":"Living Room"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	decodeBody(t, rec, &body)
	assert.Contains(t, body["message"], "id is required")
	assert.Contains(t, body["message"], "deviceType is required")
}

func TestAddDevice_InvalidJSON(t *testing.T) {
	handler := newTestRouter()

	rec := doJSON(t, handler, http.MethodPost, "/device", `{not json`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetDevice(t *testing.T) {
	handler := newTestRouter()
	doJSON(t, handler, http.MethodPost, "/device",
		`{"id":"dev-1","deviceName":"Thermostat","location":"Living Room","deviceType":"thermostat"}`)

	rec := doJSON(t, handler, http.MethodGet, "/device/dev-1", "")

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	decodeBody(t, rec, &body)
	assert.Equal(t, "dev-1", body["id"])
	assert.Equal(t, "Thermostat", body["deviceName"])
	assert.Equal(t, "Living Room", body["location"])
}

func TestGetDevice_NotFound(t *testing.T) {
	handler := newTestRouter()

	rec := doJSON(t, handler, http.MethodGet, "/device/missing", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListDevices(t *testing.T) {
	handler := newTestRouter()
	doJSON(t, handler, http.MethodPost, "/device",
		`{"id":"dev-1","deviceName":"Thermostat","location":"Living Room","deviceType":"thermostat"}`)
	doJSON(t, handler, http.MethodPost, "/device",
		`{"id":"dev-2","deviceName":"Hygrometer","location":"Cellar","deviceType":"sensor"}`)

	rec := doJSON(t, handler, http.MethodGet, "/device", "")

	require.Equal(t, http.StatusOK, rec.Code)

	var body []map[string]interface{}
	decodeBody(t, rec, &body)
	assert.Len(t, body, 2)
}

func TestListDevices_ByUser(t *testing.T) {
	handler := newTestRouter()
	doJSON(t, handler, http.MethodPost, "/device",
		`{"id":"dev-1","deviceName":"Thermostat","location":"Living Room","deviceType":"thermostat"}`)
	doJSON(t, handler, http.MethodPost, "/device",
		`{"id":"dev-2","deviceName":"Hygrometer","location":"Cellar","deviceType":"sensor"}`)
	doJSON(t, handler, http.MethodPost, "/user", `{"userId":"user-1","deviceId":"dev-1"}`)

	rec := doJSON(t, handler, http.MethodGet, "/device?userId=user-1", "")

	require.Equal(t, http.StatusOK, rec.Code)

	var body []map[string]interface{}
	decodeBody(t, rec, &body)
	require.Len(t, body, 1)
	assert.Equal(t, "dev-1", body[0]["id"])
}

func TestListDevices_UnknownUserIsEmpty(t *testing.T) {
	handler := newTestRouter()

	rec := doJSON(t, handler, http.MethodGet, "/device?userId=nobody", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestUpdateTelemetry(t *testing.T) {
	handler := newTestRouter()
	doJSON(t, handler, http.MethodPost, "/device",
		`{"id":"dev-1","deviceName":"Thermostat","location":"Living Room","deviceType":"thermostat"}`)

	rec := doJSON(t, handler, http.MethodPut, "/device/dev-1/telemetry",
		`{"roomTemperature":18.5,"humidity":42,"lightStatus":"off"}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	decodeBody(t, rec, &body)
	assert.Equal(t, 18.5, body["roomTemperature"])
	assert.Equal(t, 42.0, body["humidity"])
	assert.Equal(t, "off", body["lightStatus"])
}

func TestUpdateTelemetry_UnknownDevice(t *testing.T) {
	handler := newTestRouter()

	rec := doJSON(t, handler, http.MethodPut, "/device/missing/telemetry",
		`{"roomTemperature":18.5}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLinkDevice(t *testing.T) {
	handler := newTestRouter()

	rec := doJSON(t, handler, http.MethodPost, "/user", `{"userId":"user-1","deviceId":"dev-1"}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Message   string   `json:"message"`
		UserID    string   `json:"userId"`
		DeviceIDs []string `json:"deviceIds"`
	}
	decodeBody(t, rec, &body)
	assert.Equal(t, "Device linked successfully", body.Message)
	assert.Equal(t, "user-1", body.UserID)
	assert.Equal(t, []string{"dev-1"}, body.DeviceIDs)
}

func TestLinkDevice_Repeated(t *testing.T) {
	handler := newTestRouter()
	doJSON(t, handler, http.MethodPost, "/user", `{"userId":"user-1","deviceId":"dev-1"}`)

	rec := doJSON(t, handler, http.MethodPost, "/user", `{"userId":"user-1","deviceId":"dev-1"}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		DeviceIDs []string `json:"deviceIds"`
	}
	decodeBody(t, rec, &body)
	assert.Equal(t, []string{"dev-1"}, body.DeviceIDs)
}

func TestLinkDevice_MissingFields(t *testing.T) {
	handler := newTestRouter()

	rec := doJSON(t, handler, http.MethodPost, "/user", `{"userId":"user-1"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	decodeBody(t, rec, &body)
	assert.Contains(t, body["message"], "deviceId is required")
}

func TestUnlinkDevice(t *testing.T) {
	handler := newTestRouter()
	doJSON(t, handler, http.MethodPost, "/user", `{"userId":"user-1","deviceId":"dev-1"}`)
	doJSON(t, handler, http.MethodPost, "/user", `{"userId":"user-1","deviceId":"dev-2"}`)

	rec := doJSON(t, handler, http.MethodDelete, "/user", `{"userId":"user-1","deviceId":"dev-1"}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Message   string   `json:"message"`
		DeviceIDs []string `json:"deviceIds"`
	}
	decodeBody(t, rec, &body)
	assert.Equal(t, "Device unlinked successfully", body.Message)
	assert.Equal(t, []string{"dev-2"}, body.DeviceIDs)
}

func TestUnlinkDevice_UnknownUser(t *testing.T) {
	handler := newTestRouter()

	rec := doJSON(t, handler, http.MethodDelete, "/user", `{"userId":"nobody","deviceId":"dev-1"}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUnlinkDevice_NotLinked(t *testing.T) {
	handler := newTestRouter()
	doJSON(t, handler, http.MethodPost, "/user", `{"userId":"user-1","deviceId":"dev-1"}`)

	rec := doJSON(t, handler, http.MethodDelete, "/user", `{"userId":"user-1","deviceId":"dev-9"}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteDevice_CleansUserIndex(t *testing.T) {
	handler := newTestRouter()
	doJSON(t, handler, http.MethodPost, "/device",
		`{"id":"dev-1","deviceName":"Thermostat","location":"Living Room","deviceType":"thermostat"}`)
	doJSON(t, handler, http.MethodPost, "/user", `{"userId":"user-1","deviceId":"dev-1"}`)

	rec := doJSON(t, handler, http.MethodDelete, "/device/dev-1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	// Device row is gone
	assert.Equal(t, http.StatusNotFound, doJSON(t, handler, http.MethodGet, "/device/dev-1", "").Code)

	// User index no longer references it
	list := doJSON(t, handler, http.MethodGet, "/device?userId=user-1", "")
	require.Equal(t, http.StatusOK, list.Code)
	assert.JSONEq(t, `[]`, list.Body.String())
}

func TestDeleteDevice_AbsentIDSucceeds(t *testing.T) {
	handler := newTestRouter()

	rec := doJSON(t, handler, http.MethodDelete, "/device/missing", "")

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthEndpoints(t *testing.T) {
	handler := newTestRouter()

	assert.Equal(t, http.StatusOK, doJSON(t, handler, http.MethodGet, "/health", "").Code)
	assert.Equal(t, http.StatusOK, doJSON(t, handler, http.MethodGet, "/ready", "").Code)
}

func TestCORS_AnyOriginAllowed(t *testing.T) {
	handler := newTestRouter()

	req := httptest.NewRequest(http.MethodOptions, "/device", nil)
	req.Header.Set("Origin", "https://dashboard.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
