package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"freight-admin/config"
	"freight-admin/constants"
	"freight-admin/database/dbtest"
	"freight-admin/middleware"
	shipmentModel "freight-admin/models/shipment"
	ledgerService "freight-admin/services/ledger"
	shipmentService "freight-admin/services/shipment"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "routes-secret"

type envelope struct {
	Message string          `json:"message"`
	Status  int             `json:"status"`
	Field   string          `json:"field"`
	Data    json.RawMessage `json:"data"`
}

type memoryStore struct{}

func (memoryStore) Upload(_ context.Context, key, _ string, _ io.Reader) (string, error) {
	return "https://storage.example.com/pacotes/" + key, nil
}

type testServer struct {
	app *fiber.App
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db := dbtest.Open(t)

	app := fiber.New()
	SetupRoutes(app, Dependencies{
		DB:        db,
		Guard:     middleware.NewGuard(middleware.NewVerifier(config.AuthConfig{JWTSecret: secret})),
		Shipments: shipmentService.NewService(db, memoryStore{}, nil),
		Ledger:    ledgerService.NewService(db, nil),
	})
	return &testServer{app: app}
}

func token(t *testing.T, perms ...string) string {
	t.Helper()
	list := make([]interface{}, 0, len(perms))
	for _, p := range perms {
		list = append(list, p)
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":         "user-1",
		"permissions": list,
		"exp":         time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func (s *testServer) do(t *testing.T, method, path, bearer string, body interface{}) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	return s.send(t, req)
}

func (s *testServer) send(t *testing.T, req *http.Request) (int, envelope) {
	t.Helper()
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	code, env := s.do(t, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"database":"up"}`, string(env.Data))
}

func TestShipmentLifecycleOverHTTP(t *testing.T) {
	s := newTestServer(t)
	operator := token(t, constants.PermOperatorFull)

	code, _ := s.do(t, http.MethodPost, "/api/shipments", "", map[string]interface{}{"client_id": 1})
	require.Equal(t, http.StatusUnauthorized, code)

	code, _ = s.do(t, http.MethodPost, "/api/shipments", token(t, constants.PermFinanceFull), map[string]interface{}{"client_id": 1})
	require.Equal(t, http.StatusForbidden, code)

	code, env := s.do(t, http.MethodPost, "/api/shipments", operator, map[string]interface{}{
		"client_id":           3,
		"destination_address": "Rua A, 10",
		"recipient_email":     "cliente@example.com",
	})
	require.Equal(t, http.StatusCreated, code)
	var sh shipmentModel.Shipment
	require.NoError(t, json.Unmarshal(env.Data, &sh))
	assert.Equal(t, shipmentModel.StatusCreated, sh.Status)
	base := fmt.Sprintf("/api/shipments/%d", sh.ID)

	code, env = s.do(t, http.MethodGet, base, operator, nil)
	require.Equal(t, http.StatusOK, code)
	var detail struct {
		TrackingCode string                         `json:"tracking_code"`
		AllowedNext  []shipmentModel.ShipmentStatus `json:"allowed_next"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &detail))
	assert.Equal(t, sh.TrackingCode, detail.TrackingCode)
	assert.Equal(t, []shipmentModel.ShipmentStatus{shipmentModel.StatusAwaitingPickup, shipmentModel.StatusCancelled}, detail.AllowedNext)

	code, env = s.do(t, http.MethodPatch, base+"/status", operator, map[string]string{"status": "in_transit"})
	assert.Equal(t, http.StatusConflict, code)

	code, env = s.do(t, http.MethodPatch, base+"/status", operator, map[string]string{"status": "teleported"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "status", env.Field)

	for _, st := range []string{"awaiting_pickup", "picked_up", "in_transit"} {
		code, _ = s.do(t, http.MethodPatch, base+"/status", operator, map[string]string{"status": st})
		require.Equal(t, http.StatusOK, code, st)
	}

	code, _ = s.do(t, http.MethodPatch, base+"/status", operator, map[string]string{"status": "delivered"})
	assert.Equal(t, http.StatusPreconditionFailed, code)

	code, env = s.do(t, http.MethodPatch, base+"/status", operator, map[string]string{
		"status":                "delivered",
		"proof_of_delivery_url": "https://storage.example.com/pacotes/proofs/1.jpg",
	})
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &sh))
	assert.Equal(t, shipmentModel.StatusDelivered, sh.Status)
	assert.NotNil(t, sh.DeliveredAt)

	code, env = s.do(t, http.MethodGet, base, operator, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"allowed_next":[]`)

	code, env = s.do(t, http.MethodGet, base+"/history", operator, nil)
	require.Equal(t, http.StatusOK, code)
	var events []shipmentModel.TrackingEvent
	require.NoError(t, json.Unmarshal(env.Data, &events))
	assert.Len(t, events, 5)

	code, env = s.do(t, http.MethodGet, "/api/tracking/"+sh.TrackingCode, "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"history"`)

	code, _ = s.do(t, http.MethodGet, "/api/tracking/nope", "", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = s.do(t, http.MethodGet, "/api/shipments/999", operator, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, env = s.do(t, http.MethodGet, "/api/shipments?status=delivered", operator, nil)
	require.Equal(t, http.StatusOK, code)
	var list []shipmentModel.Shipment
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list, 1)
}

func TestProofUpload(t *testing.T) {
	s := newTestServer(t)
	operator := token(t, constants.PermOperatorFull)

	_, env := s.do(t, http.MethodPost, "/api/shipments", operator, map[string]interface{}{
		"client_id":           3,
		"destination_address": "Rua A, 10",
	})
	var sh shipmentModel.Shipment
	require.NoError(t, json.Unmarshal(env.Data, &sh))

	upload := func(contentType string) (int, envelope) {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="file"; filename="Canhoto.JPG"`)
		h.Set("Content-Type", contentType)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, _ = part.Write([]byte("image-bytes"))
		require.NoError(t, w.Close())

		req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/shipments/%d/proof", sh.ID), &buf)
		req.Header.Set("Content-Type", w.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+operator)
		return s.send(t, req)
	}

	code, env := upload("image/jpeg")
	require.Equal(t, http.StatusCreated, code)
	var out struct {
		URL string `json:"url"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	assert.Regexp(t, fmt.Sprintf(`/proofs/%d-[0-9a-f-]{36}\.jpg$`, sh.ID), out.URL)

	code, env = upload("text/plain")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "file", env.Field)
}

func TestLedgerOverHTTP(t *testing.T) {
	s := newTestServer(t)
	finance := token(t, constants.PermFinanceFull)

	code, _ := s.do(t, http.MethodGet, "/api/ledger/report", token(t, constants.PermOperatorFull), nil)
	require.Equal(t, http.StatusForbidden, code)

	code, env := s.do(t, http.MethodPost, "/api/ledger", finance, map[string]interface{}{
		"posted_date": "2024-03-10",
		"revenue":     "1000",
		"driver_cost": 200,
		"tax":         "100.00",
	})
	require.Equal(t, http.StatusCreated, code, env.Message)

	code, _ = s.do(t, http.MethodPost, "/api/ledger", finance, map[string]interface{}{
		"posted_date":  "2024-03-11",
		"is_adhoc":     true,
		"adhoc_kind":   "cost",
		"adhoc_amount": "50",
	})
	require.Equal(t, http.StatusCreated, code)

	code, env = s.do(t, http.MethodPost, "/api/ledger", finance, map[string]interface{}{
		"posted_date": "10/03/2024",
		"revenue":     "1",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "posted_date", env.Field)

	code, env = s.do(t, http.MethodGet, "/api/ledger/report?start_date=2024-03-01&end_date=2024-03-31", finance, nil)
	require.Equal(t, http.StatusOK, code)
	var report ledgerService.Report
	require.NoError(t, json.Unmarshal(env.Data, &report))
	assert.Equal(t, int64(2), report.TotalEntries)
	assert.True(t, decimal.NewFromInt(1000).Equal(report.TotalRevenue), report.TotalRevenue.String())
	assert.True(t, decimal.NewFromInt(350).Equal(report.TotalCost), report.TotalCost.String())
	assert.True(t, decimal.NewFromInt(650).Equal(report.NetProfit), report.NetProfit.String())

	code, env = s.do(t, http.MethodGet, "/api/ledger/report?start_date=2024-04-01&end_date=2024-03-01", finance, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "end_date", env.Field)

	code, _ = s.do(t, http.MethodDelete, "/api/ledger/999", finance, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = s.do(t, http.MethodDelete, "/api/ledger/999", token(t, constants.PermAdminFull), nil)
	assert.Equal(t, http.StatusNotFound, code)
}
