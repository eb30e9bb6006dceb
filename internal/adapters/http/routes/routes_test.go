package routes_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pawnledger/internal/adapters/http/middleware"
	"pawnledger/internal/adapters/http/routes"
	"pawnledger/internal/adapters/persistence/testdb"
	"pawnledger/internal/config"
	"pawnledger/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type client struct {
	t   *testing.T
	app *fiber.App
	db  *gorm.DB
}

func newClient(t *testing.T) *client {
	t.Helper()
	db := testdb.New(t)
	cfg := &config.Config{
		AppMode: "dev",
		Lending: config.LendingConfig{PhoneRegion: "TH"},
		Redis:   config.RedisConfig{StatsTTL: 30 * time.Second},
	}

	app := fiber.New(fiber.Config{ErrorHandler: middleware.CustomErrorHandler})
	middleware.Setup(app, cfg)
	routes.Setup(app, db, cfg, nil, logger.Nop())
	return &client{t: t, app: app, db: db}
}

func (c *client) do(method, path string, body interface{}) (int, map[string]interface{}) {
	c.t.Helper()
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(c.t, err)
			reader = bytes.NewReader(raw)
		}
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}

	resp, err := c.app.Test(req, -1)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	out := map[string]interface{}{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	if len(raw) > 0 {
		require.NoError(c.t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func (c *client) create(path string, body interface{}, key string) uint {
	c.t.Helper()
	status, out := c.do(http.MethodPost, path, body)
	require.Equal(c.t, http.StatusCreated, status, out)
	obj, ok := out[key].(map[string]interface{})
	require.True(c.t, ok, out)
	return uint(obj["id"].(float64))
}

func (c *client) seed() (customerID, employeeID, itemID uint) {
	customerID = c.create("/customers", map[string]interface{}{
		"firstName": "Anong", "lastName": "Srisuk",
		"nationalId": "1234567890123", "phone": "0812345678",
	}, "item")
	employeeID = c.create("/employees", map[string]interface{}{
		"firstName": "Somchai", "lastName": "Jaidee", "position": "manager",
	}, "item")
	itemID = c.create("/pawn-items", map[string]interface{}{
		"itemType": "GOLD", "appraisedValue": 10000,
	}, "item")
	return customerID, employeeID, itemID
}

func (c *client) issue(customerID, employeeID, itemID uint) uint {
	return c.create("/pawn-tickets", map[string]interface{}{
		"customerId": customerID, "employeeId": employeeID, "itemId": itemID,
		"loanAmount": 8000, "interestRate": 3,
		"contractDate": "2025-01-01", "dueDate": "2025-06-01",
	}, "item")
}

func TestScenario_TicketLifecycle(t *testing.T) {
	c := newClient(t)
	customerID, employeeID, itemID := c.seed()
	ticketID := c.issue(customerID, employeeID, itemID)

	status, out := c.do(http.MethodPost, "/payments", map[string]interface{}{
		"ticketId": ticketID, "amount": 2000, "paymentType": "CASH",
	})
	require.Equal(t, http.StatusCreated, status, out)
	assert.Contains(t, out, "payment")
	assert.Contains(t, out, "ticket")

	status, detail := c.do(http.MethodGet, fmt.Sprintf("/pawn-tickets/%d/detail", ticketID), nil)
	require.Equal(t, http.StatusOK, status, detail)

	ticket := detail["ticket"].(map[string]interface{})
	assert.EqualValues(t, ticketID, ticket["id"])
	assert.EqualValues(t, 8000, ticket["loanAmount"])
	assert.Equal(t, "ACTIVE", ticket["contractStatus"])

	customer := detail["customer"].(map[string]interface{})
	assert.Equal(t, "1234567890123", customer["nationalId"])
	assert.Equal(t, "+66812345678", customer["phone"])

	item := detail["item"].(map[string]interface{})
	assert.Equal(t, "GOLD", item["itemType"])

	payments := detail["payments"].([]interface{})
	require.Len(t, payments, 1)
	assert.EqualValues(t, 2000, payments[0].(map[string]interface{})["amount"])
	assert.EqualValues(t, 2000, detail["totalPaid"])

	require.Contains(t, detail, "disposition")
	assert.Nil(t, detail["disposition"])
}

func TestExponentAmountsKeepTheirValue(t *testing.T) {
	c := newClient(t)
	customerID, employeeID, _ := c.seed()

	status, out := c.do(http.MethodPost, "/pawn-items", `{"itemType":"GOLD","appraisedValue":1E+4}`)
	require.Equal(t, http.StatusCreated, status, out)
	item := out["item"].(map[string]interface{})
	assert.EqualValues(t, 10000, item["appraisedValue"])
	itemID := uint(item["id"].(float64))

	status, out = c.do(http.MethodPost, "/pawn-tickets", fmt.Sprintf(
		`{"customerId":%d,"employeeId":%d,"itemId":%d,"loanAmount":8e3,"interestRate":3,"contractDate":"2025-01-01","dueDate":"2025-06-01"}`,
		customerID, employeeID, itemID))
	require.Equal(t, http.StatusCreated, status, out)
	assert.EqualValues(t, 8000, out["item"].(map[string]interface{})["loanAmount"])
}

func TestPaymentAliasAndVersionedMount(t *testing.T) {
	c := newClient(t)
	customerID, employeeID, itemID := c.seed()
	ticketID := c.issue(customerID, employeeID, itemID)

	status, out := c.do(http.MethodPost, "/api/v1/payment", map[string]interface{}{
		"ticketId": ticketID, "amount": "1,500.00", "paymentType": "transfer",
	})
	require.Equal(t, http.StatusCreated, status, out)

	status, out = c.do(http.MethodGet, fmt.Sprintf("/api/v1/pawn-tickets/%d/payments", ticketID), nil)
	require.Equal(t, http.StatusOK, status)
	items := out["items"].([]interface{})
	require.Len(t, items, 1)
	assert.EqualValues(t, 1500, items[0].(map[string]interface{})["amount"])
	assert.Equal(t, "TRANSFER", items[0].(map[string]interface{})["paymentType"])
}

func TestPayment_UnknownTicket(t *testing.T) {
	c := newClient(t)

	status, out := c.do(http.MethodPost, "/payments", map[string]interface{}{
		"ticketId": 999, "amount": 10, "paymentType": "CASH",
	})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "ticket_not_found", out["error"])
}

func TestIssue_DueDateEqualToContractDate(t *testing.T) {
	c := newClient(t)
	customerID, employeeID, itemID := c.seed()

	status, out := c.do(http.MethodPost, "/pawn-tickets", map[string]interface{}{
		"customerId": customerID, "employeeId": employeeID, "itemId": itemID,
		"loanAmount": 8000, "interestRate": 3,
		"contractDate": "2025-01-01", "dueDate": "2025-01-01",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "due_date_before_contract_date", out["error"])
	assert.Zero(t, testdb.Count(t, c.db, "pawn_tickets"))
}

func TestIssue_MissingStaff(t *testing.T) {
	c := newClient(t)
	customerID, _, itemID := c.seed()

	status, out := c.do(http.MethodPost, "/pawn-tickets", map[string]interface{}{
		"customerId": customerID, "employeeId": 404, "itemId": itemID,
		"loanAmount": 100, "interestRate": 1,
		"contractDate": "2025-01-01", "dueDate": "2025-02-01",
	})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "staff_not_found", out["error"])
}

func TestDeleteTicket(t *testing.T) {
	c := newClient(t)
	customerID, employeeID, itemID := c.seed()
	ticketID := c.issue(customerID, employeeID, itemID)
	for i := 0; i < 3; i++ {
		status, _ := c.do(http.MethodPost, "/payments", map[string]interface{}{
			"ticketId": ticketID, "amount": 100, "paymentType": "CASH",
		})
		require.Equal(t, http.StatusCreated, status)
	}

	status, out := c.do(http.MethodDelete, fmt.Sprintf("/pawn-tickets/%d", ticketID), nil)
	require.Equal(t, http.StatusOK, status, out)
	assert.Equal(t, true, out["success"])
	assert.EqualValues(t, 3, out["deletedPayments"])
	assert.Zero(t, testdb.Count(t, c.db, "payments"))

	status, out = c.do(http.MethodDelete, fmt.Sprintf("/pawn-tickets/%d", ticketID), nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "ticket_not_found", out["error"])
}

func TestCustomerDeletes(t *testing.T) {
	c := newClient(t)
	customerID, employeeID, itemID := c.seed()
	c.issue(customerID, employeeID, itemID)
	c.issue(customerID, employeeID, itemID)

	status, out := c.do(http.MethodDelete, fmt.Sprintf("/customers/%d/tickets", customerID), nil)
	require.Equal(t, http.StatusOK, status, out)
	assert.EqualValues(t, 2, out["deletedTickets"])
	assert.NotContains(t, out, "deletedItems")
	assert.EqualValues(t, 1, testdb.Count(t, c.db, "customers"))

	c.issue(customerID, employeeID, itemID)
	status, out = c.do(http.MethodDelete, fmt.Sprintf("/customers/%d", customerID), nil)
	require.Equal(t, http.StatusOK, status, out)
	assert.Equal(t, true, out["success"])
	assert.EqualValues(t, 1, out["deletedTickets"])
	assert.Zero(t, testdb.Count(t, c.db, "customers"))
	assert.EqualValues(t, 1, testdb.Count(t, c.db, "pawn_items"))

	status, out = c.do(http.MethodDelete, fmt.Sprintf("/customers/%d", customerID), nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "customer_not_found", out["error"])
}

func TestCustomer_Duplicates(t *testing.T) {
	c := newClient(t)
	c.seed()

	status, out := c.do(http.MethodPost, "/customers", map[string]interface{}{
		"firstName": "Boon", "lastName": "Mee",
		"nationalId": "1234567890123", "phone": "0899999999",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "duplicate_national_id", out["error"])

	status, out = c.do(http.MethodPost, "/customers", map[string]interface{}{
		"firstName": "Boon", "lastName": "Mee",
		"nationalId": "9999999999999", "phone": "+66 81 234 5678",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "duplicate_phone", out["error"])
}

func TestDisposition_SalePriceIsNumeric(t *testing.T) {
	c := newClient(t)
	_, _, itemID := c.seed()

	c.create("/dispositions", map[string]interface{}{
		"itemId": itemID, "saleDate": "2025-03-01", "salePrice": "1500.00", "saleMethod": "auction",
	}, "item")

	req := httptest.NewRequest(http.MethodGet, "/dispositions", nil)
	resp, err := c.app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"salePrice":1500`)
	assert.NotContains(t, string(raw), `"salePrice":"`)
}

func TestEmployee_DeleteInUse(t *testing.T) {
	c := newClient(t)
	customerID, employeeID, itemID := c.seed()
	c.issue(customerID, employeeID, itemID)

	status, out := c.do(http.MethodDelete, fmt.Sprintf("/employees/%d", employeeID), nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "employee_in_use", out["error"])
}

func TestRequestErrors(t *testing.T) {
	c := newClient(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
		status int
		code   string
	}{
		{"malformed json", http.MethodPost, "/pawn-items", `{"itemType":`, http.StatusBadRequest, "bad_request"},
		{"object for scalar", http.MethodPost, "/pawn-items", `{"itemType":"RING","appraisedValue":{}}`, http.StatusBadRequest, "bad_request"},
		{"missing fields", http.MethodPost, "/pawn-items", map[string]interface{}{"itemType": "RING"}, http.StatusBadRequest, "missing_fields"},
		{"invalid id", http.MethodGet, "/pawn-items/abc", nil, http.StatusBadRequest, "invalid_id"},
		{"zero id", http.MethodGet, "/customers/0", nil, http.StatusBadRequest, "invalid_id"},
		{"unknown item", http.MethodGet, "/pawn-items/77", nil, http.StatusNotFound, "item_not_found"},
		{"unknown detail", http.MethodGet, "/pawn-tickets/77/detail", nil, http.StatusNotFound, "ticket_not_found"},
		{"bad status filter", http.MethodGet, "/pawn-tickets?status=LOST", nil, http.StatusBadRequest, "invalid_contract_status"},
		{"bad item filter", http.MethodGet, "/dispositions?item_id=x", nil, http.StatusBadRequest, "invalid_item_id"},
		{"unknown route", http.MethodGet, "/nothing-here", nil, http.StatusNotFound, "not_found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, out := c.do(tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, status, out)
			assert.Equal(t, tt.code, out["error"])
		})
	}
}

func TestStatisticsAndTopCustomers(t *testing.T) {
	c := newClient(t)
	customerID, employeeID, itemID := c.seed()
	c.issue(customerID, employeeID, itemID)

	status, out := c.do(http.MethodGet, "/statistics", nil)
	require.Equal(t, http.StatusOK, status, out)
	assert.EqualValues(t, 1, out["totalCustomers"])
	assert.EqualValues(t, 1, out["totalTickets"])
	byStatus := out["ticketsByStatus"].(map[string]interface{})
	assert.EqualValues(t, 1, byStatus["ACTIVE"])
	assert.EqualValues(t, 0, byStatus["EXPIRED"])

	status, out = c.do(http.MethodGet, "/top-customers?limit=500", nil)
	require.Equal(t, http.StatusOK, status, out)
	items := out["items"].([]interface{})
	require.Len(t, items, 1)
	assert.EqualValues(t, customerID, items[0].(map[string]interface{})["customerId"])
}

func TestExport(t *testing.T) {
	c := newClient(t)
	customerID, employeeID, itemID := c.seed()
	c.issue(customerID, employeeID, itemID)

	resp, err := c.app.Test(httptest.NewRequest(http.MethodGet, "/pawn-tickets/export", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "pawn-tickets-")

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("PK")))
}

func TestHealth(t *testing.T) {
	c := newClient(t)

	status, out := c.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, status)
	checks := out["checks"].(map[string]interface{})
	assert.Equal(t, "healthy", checks["database"])
}
