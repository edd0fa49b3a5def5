/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/starter/database"
	"github.com/tomoncle/starter/database/dbtest"
	"github.com/tomoncle/starter/errs"
	"github.com/tomoncle/starter/repository"
	"github.com/tomoncle/starter/service"
)

type staticHealth struct{ healthy bool }

func (s staticHealth) HealthCheck(context.Context) *database.HealthStatus {
	return &database.HealthStatus{Healthy: s.healthy, Connected: s.healthy}
}

func newTestApp(t *testing.T) *fiber.App {
	services := service.NewManager(repository.NewProvider(dbtest.New(t)), nil)
	return NewApp(services, Options{Health: staticHealth{healthy: true}})
}

func do(t *testing.T, app *fiber.App, method, path string, body any) (int, []byte) {
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
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func TestTodoRoutes(t *testing.T) {
	app := newTestApp(t)

	status, body := do(t, app, http.MethodPost, "/api/todolists", map[string]any{"name": "Groceries"})
	require.Equal(t, http.StatusCreated, status, string(body))
	var list struct {
		ID        uuid.UUID `json:"id"`
		CreatedAt string    `json:"createdAt"`
		UpdatedAt string    `json:"updatedAt"`
	}
	require.NoError(t, json.Unmarshal(body, &list))
	assert.NotEqual(t, uuid.Nil, list.ID)
	assert.NotEmpty(t, list.CreatedAt)
	assert.NotEmpty(t, list.UpdatedAt)

	status, body = do(t, app, http.MethodPost, "/api/todoitems", map[string]any{
		"title": "Milk", "todoListId": list.ID, "priority": "High",
	})
	require.Equal(t, http.StatusCreated, status, string(body))
	var item struct {
		ID       uuid.UUID `json:"id"`
		Priority string    `json:"priority"`
	}
	require.NoError(t, json.Unmarshal(body, &item))
	assert.Equal(t, "High", item.Priority)

	status, _ = do(t, app, http.MethodPost, "/api/todoitems/"+item.ID.String()+"/complete", nil)
	assert.Equal(t, http.StatusNoContent, status)

	status, body = do(t, app, http.MethodGet, "/api/todolists/"+list.ID.String(), nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), `"isCompleted":true`)

	status, body = do(t, app, http.MethodGet, "/api/todolists/"+list.ID.String()+"/items", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), `"title":"Milk"`)

	status, _ = do(t, app, http.MethodDelete, "/api/todolists/"+list.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, status)
	status, _ = do(t, app, http.MethodGet, "/api/todoitems/"+item.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestErrorMapping(t *testing.T) {
	app := newTestApp(t)

	status, body := do(t, app, http.MethodPost, "/api/todoitems", map[string]any{"title": "Milk", "todoListId": uuid.New()})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, string(body), "parent TodoList")

	status, body = do(t, app, http.MethodPost, "/api/todolists", map[string]any{"description": "no name"})
	assert.Equal(t, http.StatusBadRequest, status)
	var invalid struct {
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(body, &invalid))
	assert.Equal(t, "is required", invalid.Fields["name"])

	status, _ = do(t, app, http.MethodGet, "/api/todolists/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	status, _ = do(t, app, http.MethodGet, "/api/billers/0", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	status, _ = do(t, app, http.MethodGet, "/api/billers/public/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, status)

	req := httptest.NewRequest(http.MethodPost, "/api/todolists", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	gateway := map[string]any{"name": "stripe", "type": "card"}
	status, _ = do(t, app, http.MethodPost, "/api/paymentgateways", gateway)
	require.Equal(t, http.StatusCreated, status)
	status, _ = do(t, app, http.MethodPost, "/api/paymentgateways", gateway)
	assert.Equal(t, http.StatusConflict, status)
	status, _ = do(t, app, http.MethodPut, "/api/paymentgateways/stripe", map[string]any{"type": "wallet"})
	assert.Equal(t, http.StatusNoContent, status)
}

func TestErrorHandlerStatuses(t *testing.T) {
	cases := map[string]struct {
		err  error
		want int
	}{
		"not found":   {errs.NotFound("Biller", 1), http.StatusNotFound},
		"validation":  {errs.Invalid("name", "is required"), http.StatusBadRequest},
		"integrity":   {errs.Integrity(errors.New("unique")), http.StatusConflict},
		"unavailable": {errs.Unavailable(errors.New("dial tcp")), http.StatusServiceUnavailable},
		"fiber":       {fiber.ErrMethodNotAllowed, http.StatusMethodNotAllowed},
		"other":       {errors.New("boom"), http.StatusInternalServerError},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(nil)})
			app.Get("/", func(*fiber.Ctx) error { return tc.err })
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
			require.NoError(t, err)
			assert.Equal(t, tc.want, resp.StatusCode)
		})
	}
}

func TestPaymentsRoutes(t *testing.T) {
	app := newTestApp(t)

	status, body := do(t, app, http.MethodPost, "/api/billers", map[string]any{"name": "Acme", "apiKey": "secret"})
	require.Equal(t, http.StatusCreated, status, string(body))
	assert.NotContains(t, string(body), "secret")
	var biller struct {
		ID       int64     `json:"id"`
		PublicID uuid.UUID `json:"publicId"`
	}
	require.NoError(t, json.Unmarshal(body, &biller))

	status, body = do(t, app, http.MethodPost, "/api/paymentgateways", map[string]any{"name": "stripe", "type": "card"})
	require.Equal(t, http.StatusCreated, status)
	var gateway struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(body, &gateway))

	status, body = do(t, app, http.MethodPost, "/api/customers", map[string]any{
		"billerId": biller.ID, "paymentGatewayId": gateway.ID, "name": "Jane",
	})
	require.Equal(t, http.StatusCreated, status, string(body))
	var customer struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(body, &customer))

	address := map[string]any{
		"customerId": customer.ID, "streetAddress1": "1 Main St", "city": "Springfield",
		"state": "IL", "postalCode": "62701", "isDefault": true, "addressType": "Shipping",
	}
	status, body = do(t, app, http.MethodPost, "/api/customeraddresses", address)
	require.Equal(t, http.StatusCreated, status, string(body))
	assert.Contains(t, string(body), `"country":"US"`)
	assert.Contains(t, string(body), `"addressType":"Shipping"`)

	status, body = do(t, app, http.MethodPost, "/api/invoices", map[string]any{
		"customerId": customer.ID, "dueDate": "2030-01-01T00:00:00Z", "currency": "USD", "salesTax": "0.50",
		"lineItems": []map[string]any{{"description": "Hosting", "quantity": 3, "unitPrice": "5.00"}},
	})
	require.Equal(t, http.StatusCreated, status, string(body))
	assert.Contains(t, string(body), `"totalAmount":"15.5"`)

	status, body = do(t, app, http.MethodGet, "/api/billers/public/"+biller.PublicID.String(), nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), `"name":"Acme"`)

	status, body = do(t, app, http.MethodGet, "/api/billers/"+itoa(biller.ID)+"/children", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), `"customers":[`)

	status, _ = do(t, app, http.MethodDelete, "/api/billers/"+itoa(biller.ID), nil)
	assert.Equal(t, http.StatusNoContent, status)
	status, _ = do(t, app, http.MethodGet, "/api/customers/"+itoa(customer.ID), nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestHealthAndMetrics(t *testing.T) {
	app := newTestApp(t)
	status, body := do(t, app, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), `"status":"ok"`)

	do(t, app, http.MethodPost, "/api/todolists", map[string]any{"name": "Groceries"})
	status, body = do(t, app, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), "starter_uow_commits_total")

	down := NewApp(service.NewManager(repository.NewProvider(dbtest.New(t)), nil), Options{Health: staticHealth{}})
	status, _ = do(t, down, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusServiceUnavailable, status)
}

type appKey struct{}

func TestHandlersGetRequestScopedContext(t *testing.T) {
	var (
		seen      context.Context
		errDuring error
	)
	health := HealthFunc(func(ctx context.Context) *database.HealthStatus {
		seen, errDuring = ctx, ctx.Err()
		return &database.HealthStatus{Healthy: true, Connected: true}
	})
	base, shutdown := context.WithCancel(context.WithValue(context.Background(), appKey{}, "starter"))
	defer shutdown()
	services := service.NewManager(repository.NewProvider(dbtest.New(t)), nil)
	app := NewApp(services, Options{Context: base, RequestTimeout: time.Minute, Health: health})

	status, _ := do(t, app, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, status)
	require.NotNil(t, seen)
	assert.NoError(t, errDuring)
	assert.Equal(t, "starter", seen.Value(appKey{}))
	_, hasDeadline := seen.Deadline()
	assert.True(t, hasDeadline)
	assert.ErrorIs(t, seen.Err(), context.Canceled, "released when the handler returns")

	shutdown()
	do(t, app, http.MethodGet, "/healthz", nil)
	assert.ErrorIs(t, errDuring, context.Canceled)
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
