package services_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strconv"
	"testing"
	"time"

	"pawnledger/internal/adapters/persistence/repositories"
	"pawnledger/internal/adapters/persistence/testdb"
	"pawnledger/internal/core/domain"
	"pawnledger/internal/core/services"
	"pawnledger/internal/core/validation"
	"pawnledger/internal/pkg/logger"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type harness struct {
	db           *gorm.DB
	items        *services.ItemService
	tickets      *services.TicketService
	payments     *services.PaymentService
	customers    *services.CustomerService
	employees    *services.EmployeeService
	dispositions *services.DispositionService
	stats        *services.StatisticsService
	reports      *services.ReportService
	expiry       *services.ExpiryService
}

func newHarness(t *testing.T, opts services.Options, cache services.StatsCache) *harness {
	t.Helper()
	if opts.PhoneRegion == "" {
		opts.PhoneRegion = "TH"
	}
	db := testdb.New(t)
	log := logger.Nop()

	tx := repositories.NewTransactor(db)
	customerRepo := repositories.NewCustomerRepository(db)
	employeeRepo := repositories.NewEmployeeRepository(db)
	itemRepo := repositories.NewItemRepository(db)
	ticketRepo := repositories.NewTicketRepository(db)
	paymentRepo := repositories.NewPaymentRepository(db)
	dispositionRepo := repositories.NewDispositionRepository(db)
	cascade := services.NewCascadeEngine(repositories.NewCascadeRepository(db), services.CascadeRules)

	return &harness{
		db:           db,
		items:        services.NewItemService(tx, itemRepo, employeeRepo, opts),
		tickets:      services.NewTicketService(tx, ticketRepo, customerRepo, employeeRepo, itemRepo, paymentRepo, dispositionRepo, cascade, opts),
		payments:     services.NewPaymentService(tx, paymentRepo, ticketRepo),
		customers:    services.NewCustomerService(tx, customerRepo, ticketRepo, cascade, opts),
		employees:    services.NewEmployeeService(tx, employeeRepo, opts),
		dispositions: services.NewDispositionService(tx, dispositionRepo, itemRepo),
		stats:        services.NewStatisticsService(repositories.NewStatsRepository(db), cache, opts, log),
		reports:      services.NewReportService(ticketRepo),
		expiry:       services.NewExpiryService(ticketRepo, log),
	}
}

func (h *harness) count(t *testing.T, table string) int64 {
	return testdb.Count(t, h.db, table)
}

func f(s string) validation.Flex { return validation.F(s) }

func ids(id uint) validation.Flex {
	return validation.F(strconv.FormatUint(uint64(id), 10))
}

// ============================================================
// Item intake
// ============================================================

func TestItemIntake_WithoutStaffCreatesItemOnly(t *testing.T) {
	h := newHarness(t, services.Options{}, nil)

	res, err := h.items.Intake(context.Background(), &services.IntakeItemInput{
		ItemType:       "GOLD",
		AppraisedValue: f("10,000.00"),
	})
	require.NoError(t, err)
	assert.Nil(t, res.Appraisal)
	assert.Equal(t, "IN_STORAGE", res.Item.ItemStatus)
	assert.True(t, res.Item.AppraisedValue.Equal(decimal.NewFromInt(10000)))
	assert.EqualValues(t, 1, h.count(t, "pawn_items"))
	assert.EqualValues(t, 0, h.count(t, "appraisals"))
}

func TestItemIntake_MissingStaffLeavesNoRows(t *testing.T) {
	h := newHarness(t, services.Options{}, nil)

	_, err := h.items.Intake(context.Background(), &services.IntakeItemInput{
		ItemType:       "GOLD",
		AppraisedValue: f("10000"),
		EmployeeID:     f("999"),
	})
	assert.ErrorIs(t, err, domain.ErrStaffNotFound)
	assert.EqualValues(t, 0, h.count(t, "pawn_items"))
	assert.EqualValues(t, 0, h.count(t, "appraisals"))
}

func TestItemIntake_WithStaffCreatesAppraisal(t *testing.T) {
	h := newHarness(t, services.Options{}, nil)
	emp := testdb.Employee(t, h.db, "Somchai")

	res, err := h.items.Intake(context.Background(), &services.IntakeItemInput{
		ItemType:       "WATCH",
		AppraisedValue: f("5000"),
		EmployeeID:     ids(emp.ID),
		AppraisalValue: f("4800"),
		AppraisalDate:  f("2025-02-01"),
	})
	require.NoError(t, err)
	require.NotNil(t, res.Appraisal)
	require.NotNil(t, res.Appraisal.ItemID)
	assert.Equal(t, res.Item.ID, *res.Appraisal.ItemID)
	assert.True(t, res.Appraisal.AppraisedValue.Equal(decimal.NewFromInt(4800)))
	assert.True(t, res.Appraisal.AppraisalDate.Equal(testdb.Date(2025, 2, 1)))
	assert.EqualValues(t, 1, h.count(t, "appraisals"))

	res, err = h.items.Intake(context.Background(), &services.IntakeItemInput{
		ItemType:       "RING",
		AppraisedValue: f("700"),
		EmployeeID:     ids(emp.ID),
	})
	require.NoError(t, err)
	assert.True(t, res.Appraisal.AppraisedValue.Equal(decimal.NewFromInt(700)))
}

func TestItemIntake_Validation(t *testing.T) {
	h := newHarness(t, services.Options{}, nil)

	cases := []struct {
		name  string
		input services.IntakeItemInput
		code  string
	}{
		{"missing type", services.IntakeItemInput{AppraisedValue: f("1")}, "missing_fields"},
		{"missing value", services.IntakeItemInput{ItemType: "GOLD"}, "missing_fields"},
		{"bad value", services.IntakeItemInput{ItemType: "GOLD", AppraisedValue: f("abc")}, "invalid_appraised_value"},
		{"bad status", services.IntakeItemInput{ItemType: "GOLD", AppraisedValue: f("1"), ItemStatus: "lost"}, "invalid_status"},
		{"bad employee", services.IntakeItemInput{ItemType: "GOLD", AppraisedValue: f("1"), EmployeeID: f("x")}, "invalid_employee_id"},
		{"bad appraisal date", services.IntakeItemInput{ItemType: "GOLD", AppraisedValue: f("1"), EmployeeID: f("1"), AppraisalDate: f("soon")}, "invalid_appraisal_date"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := h.items.Intake(context.Background(), &tc.input)
			require.Error(t, err)
			assert.Equal(t, tc.code, domain.CodeOf(err))
		})
	}
	assert.EqualValues(t, 0, h.count(t, "pawn_items"))
}

func TestItemPatch_StrictTransitions(t *testing.T) {
	h := newHarness(t, services.Options{StrictTransitions: true}, nil)
	item := testdb.Item(t, h.db, "GOLD", 1000)
	ctx := context.Background()

	_, err := h.items.Patch(ctx, item.ID, &services.PatchItemInput{ItemStatus: f("sold")})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	got, err := h.items.Patch(ctx, item.ID, &services.PatchItemInput{ItemStatus: f("forfeited_ready_for_sale")})
	require.NoError(t, err)
	assert.Equal(t, "FORFEITED_READY_FOR_SALE", got.ItemStatus)

	got, err = h.items.Patch(ctx, item.ID, &services.PatchItemInput{ItemStatus: f("SOLD"), Description: f("sold at auction")})
	require.NoError(t, err)
	assert.Equal(t, "SOLD", got.ItemStatus)
	assert.Equal(t, "sold at auction", got.Description)

	_, err = h.items.Patch(ctx, item.ID, &services.PatchItemInput{})
	assert.ErrorIs(t, err, domain.ErrNoFieldsToUpdate)

	_, err = h.items.Patch(ctx, item.ID+10, &services.PatchItemInput{Brand: f("x")})
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestItemPatch_PermissiveByDefault(t *testing.T) {
	h := newHarness(t, services.Options{}, nil)
	item := testdb.Item(t, h.db, "GOLD", 1000)

	got, err := h.items.Patch(context.Background(), item.ID, &services.PatchItemInput{ItemStatus: f("SOLD")})
	require.NoError(t, err)
	assert.Equal(t, "SOLD", got.ItemStatus)
}

// ============================================================
// Ticket issuance
// ============================================================

type fixture struct {
	customerID uint
	employeeID uint
	itemID     uint
}

func seed(t *testing.T, h *harness) fixture {
	return fixture{
		customerID: testdb.Customer(t, h.db, "Anong").ID,
		employeeID: testdb.Employee(t, h.db, "Somchai").ID,
		itemID:     testdb.Item(t, h.db, "GOLD", 10000).ID,
	}
}

func issueInput(fx fixture) *services.IssueTicketInput {
	return &services.IssueTicketInput{
		CustomerID:   ids(fx.customerID),
		EmployeeID:   ids(fx.employeeID),
		ItemID:       ids(fx.itemID),
		LoanAmount:   f("8000"),
		InterestRate: f("3"),
		ContractDate: f("2025-01-01"),
		DueDate:      f("2025-06-01"),
	}
}

func TestTicketIssue(t *testing.T) {
	h := newHarness(t, services.Options{}, nil)
	fx := seed(t, h)

	ticket, err := h.tickets.Issue(context.Background(), issueInput(fx))
	require.NoError(t, err)
	assert.Equal(t, "ACTIVE", ticket.ContractStatus)
	assert.True(t, ticket.LoanAmount.Equal(decimal.NewFromInt(8000)))
	assert.True(t, ticket.DueDate.Equal(testdb.Date(2025, 6, 1)))
	assert.EqualValues(t, 1, h.count(t, "pawn_tickets"))
}

func TestTicketIssue_MissingReferenceCreatesNothing(t *testing.T) {
	h := newHarness(t, services.Options{}, nil)
	fx := seed(t, h)

	cases := []struct {
		name   string
		mutate func(in *services.IssueTicketInput)
		want   error
	}{
		{"customer", func(in *services.IssueTicketInput) { in.CustomerID = f("999") }, domain.ErrCustomerNotFound},
		{"employee", func(in *services.IssueTicketInput) { in.EmployeeID = f("999") }, domain.ErrStaffNotFound},
		{"item", func(in *services.IssueTicketInput) { in.ItemID = f("999") }, domain.ErrItemNotFound},
		{"customer checked first", func(in *services.IssueTicketInput) {
			in.CustomerID = f("999")
			in.ItemID = f("999")
		}, domain.ErrCustomerNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := issueInput(fx)
			tc.mutate(in)
			_, err := h.tickets.Issue(context.Background(), in)
			assert.ErrorIs(t, err, tc.want)
			assert.EqualValues(t, 0, h.count(t, "pawn_tickets"))
		})
	}
}

func TestTicketIssue_DueDateMustFollowContractDate(t *testing.T) {
	h := newHarness(t, services.Options{}, nil)
	fx := seed(t, h)

	for _, due := range []string{"2025-01-01", "2024-12-31"} {
		in := issueInput(fx)
		in.DueDate = f(due)
		_, err := h.tickets.Issue(context.Background(), in)
		assert.ErrorIs(t, err, domain.ErrDueDateBeforeContract, due)
	}
	assert.EqualValues(t, 0, h.count(t, "pawn_tickets"))
}

func TestTicketIssue_Validation(t *testing.T) {
	h := newHarness(t, services.Options{}, nil)
	fx := seed(t, h)

	cases := []struct {
		name   string
		mutate func(in *services.IssueTicketInput)
		code   string
	}{
		{"missing", func(in *services.IssueTicketInput) { in.LoanAmount = validation.Flex{} }, "missing_fields"},
		{"zero loan", func(in *services.IssueTicketInput) { in.LoanAmount = f("0") }, "invalid_loan_amount"},
		{"rate too high", func(in *services.IssueTicketInput) { in.InterestRate = f("101") }, "invalid_interest_rate"},
		{"bad contract date", func(in *services.IssueTicketInput) { in.ContractDate = f("yesterday") }, "invalid_contract_date"},
		{"bad due date", func(in *services.IssueTicketInput) { in.DueDate = f("2025-13-40") }, "invalid_due_date"},
		{"bad status", func(in *services.IssueTicketInput) { in.ContractStatus = "open" }, "invalid_contract_status"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := issueInput(fx)
			tc.mutate(in)
			_, err := h.tickets.Issue(context.Background(), in)
			assert.Equal(t, tc.code, domain.CodeOf(err))
		})
	}
}

func TestTicketPatch(t *testing.T) {
	h := newHarness(t, services.Options{StrictTransitions: true}, nil)
	fx := seed(t, h)
	ctx := context.Background()
	ticket, err := h.tickets.Issue(ctx, issueInput(fx))
	require.NoError(t, err)

	got, err := h.tickets.Patch(ctx, ticket.ID, &services.PatchTicketInput{ContractStatus: f("cancelled")})
	require.NoError(t, err)
	assert.Equal(t, "CANCELLED", got.ContractStatus)

	_, err = h.tickets.Patch(ctx, ticket.ID, &services.PatchTicketInput{ContractStatus: f("ACTIVE")})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = h.tickets.Patch(ctx, ticket.ID, &services.PatchTicketInput{DueDate: f("2025-01-01")})
	assert.ErrorIs(t, err, domain.ErrDueDateBeforeContract)

	_, err = h.tickets.Patch(ctx, ticket.ID+5, &services.PatchTicketInput{InterestRate: f("2")})
	assert.ErrorIs(t, err, domain.ErrTicketNotFound)
}

// ============================================================
// Payments and ticket deletion
// ============================================================

func TestPaymentCreate(t *testing.T) {
	h := newHarness(t, services.Options{}, nil)
	fx := seed(t, h)
	ctx := context.Background()
	ticket, err := h.tickets.Issue(ctx, issueInput(fx))
	require.NoError(t, err)

	res, err := h.payments.Create(ctx, &services.CreatePaymentInput{
		TicketID:    ids(ticket.ID),
		Amount:      f("2,000"),
		PaymentType: "cash",
	})
	require.NoError(t, err)
	assert.Equal(t, "CASH", res.Payment.PaymentType)
	assert.True(t, res.Payment.Amount.Equal(decimal.NewFromInt(2000)))
	assert.Equal(t, ticket.ID, res.Ticket.ID)

	_, err = h.payments.Create(ctx, &services.CreatePaymentInput{TicketID: f("999"), Amount: f("1"), PaymentType: "CASH"})
	assert.ErrorIs(t, err, domain.ErrTicketNotFound)

	_, err = h.payments.Create(ctx, &services.CreatePaymentInput{TicketID: ids(ticket.ID), Amount: f("-5"), PaymentType: "CASH"})
	assert.Equal(t, "invalid_amount", domain.CodeOf(err))

	_, err = h.payments.Create(ctx, &services.CreatePaymentInput{TicketID: ids(ticket.ID), Amount: f("5"), PaymentType: "CHEQUE"})
	assert.ErrorIs(t, err, domain.ErrInvalidPaymentType)

	assert.EqualValues(t, 1, h.count(t, "payments"))
}

func TestTicketDelete_RemovesPayments(t *testing.T) {
	h := newHarness(t, services.Options{}, nil)
	fx := seed(t, h)
	ctx := context.Background()
	ticket := testdb.Ticket(t, h.db, fx.customerID, fx.employeeID, fx.itemID, 5000, testdb.Date(2025, 1, 1))
	other := testdb.Ticket(t, h.db, fx.customerID, fx.employeeID, fx.itemID, 5000, testdb.Date(2025, 1, 1))
	for i := 0; i < 3; i++ {
		testdb.Payment(t, h.db, ticket.ID, 100, testdb.Date(2025, 1, 2+i))
	}
	testdb.Payment(t, h.db, other.ID, 100, testdb.Date(2025, 1, 2))

	n, err := h.tickets.Delete(ctx, ticket.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
	assert.EqualValues(t, 1, h.count(t, "pawn_tickets"))
	assert.EqualValues(t, 1, h.count(t, "payments"))
}

func TestTicketDelete_UnknownLeavesStateUnchanged(t *testing.T) {
	h := newHarness(t, services.Options{}, nil)
	fx := seed(t, h)
	ticket := testdb.Ticket(t, h.db, fx.customerID, fx.employeeID, fx.itemID, 5000, testdb.Date(2025, 1, 1))
	testdb.Payment(t, h.db, ticket.ID, 100, testdb.Date(2025, 1, 2))

	_, err := h.tickets.Delete(context.Background(), ticket.ID+100)
	assert.ErrorIs(t, err, domain.ErrTicketNotFound)
	assert.EqualValues(t, 1, h.count(t, "pawn_tickets"))
	assert.EqualValues(t, 1, h.count(t, "payments"))
}

// ============================================================
// Ticket detail
// ============================================================

func TestTicketDetail(t *testing.T) {
	h := newHarness(t, services.Options{}, nil)
	fx := seed(t, h)
	ctx := context.Background()
	ticket := testdb.Ticket(t, h.db, fx.customerID, fx.employeeID, fx.itemID, 8000, testdb.Date(2025, 1, 1))
	late := testdb.Payment(t, h.db, ticket.ID, 500, testdb.Date(2025, 3, 1))
	early := testdb.Payment(t, h.db, ticket.ID, 1500, testdb.Date(2025, 2, 1))

	detail, err := h.tickets.Detail(ctx, ticket.ID)
	require.NoError(t, err)
	resp := detail.ToResponse()
	assert.Equal(t, ticket.ID, resp.Ticket.ID)
	assert.Equal(t, "Anong", resp.Customer.FirstName)
	assert.Equal(t, "GOLD", resp.Item.ItemType)
	require.NotNil(t, resp.Employee)
	require.Len(t, resp.Payments, 2)
	assert.Equal(t, early.ID, resp.Payments[0].ID)
	assert.Equal(t, late.ID, resp.Payments[1].ID)
	assert.Equal(t, 2000.0, resp.TotalPaid)
	assert.Nil(t, resp.Disposition)
	assert.Nil(t, resp.Appraisal)

	_, err = h.dispositions.Create(ctx, &services.DispositionInput{
		ItemID: ids(fx.itemID), SaleDate: f("2025-07-01"), SalePrice: f("9000"), SaleMethod: "auction",
	})
	require.NoError(t, err)
	newest, err := h.dispositions.Create(ctx, &services.DispositionInput{
		ItemID: ids(fx.itemID), SaleDate: f("2025-08-01"), SalePrice: f("9500"), SaleMethod: "direct_sale",
	})
	require.NoError(t, err)

	detail, err = h.tickets.Detail(ctx, ticket.ID)
	require.NoError(t, err)
	require.NotNil(t, detail.Disposition)
	assert.Equal(t, newest.ID, detail.Disposition.ID)

	_, err = h.tickets.Detail(ctx, ticket.ID+99)
	assert.ErrorIs(t, err, domain.ErrTicketNotFound)
}

// ============================================================
// Customers
// ============================================================

func TestCustomerCreate(t *testing.T) {
	h := newHarness(t, services.Options{}, nil)
	ctx := context.Background()

	c, err := h.customers.Create(ctx, &services.CreateCustomerInput{
		FirstName:  "Anong",
		LastName:   "Srisuk",
		NationalID: "1234567890123",
		Phone:      "081-234-5678",
		BirthDate:  f("1990-05-20"),
	})
	require.NoError(t, err)
	assert.Equal(t, "+66812345678", c.Phone)
	assert.Equal(t, "PENDING", c.KYCStatus)
	require.NotNil(t, c.BirthDate)

	_, err = h.customers.Create(ctx, &services.CreateCustomerInput{
		FirstName: "B", LastName: "B", NationalID: "1234567890123", Phone: "0899999999",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateNationalID)

	_, err = h.customers.Create(ctx, &services.CreateCustomerInput{
		FirstName: "C", LastName: "C", NationalID: "9999999999999", Phone: "+66 81 234 5678",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicatePhone)

	_, err = h.customers.Create(ctx, &services.CreateCustomerInput{
		FirstName: "D", LastName: "D", NationalID: "12345", Phone: "0811111111",
	})
	assert.Equal(t, "invalid_national_id", domain.CodeOf(err))

	_, err = h.customers.Create(ctx, &services.CreateCustomerInput{
		FirstName: "E", LastName: "E", NationalID: "5555555555555", Phone: "0811111111", KYCStatus: "maybe",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidKYCStatus)

	assert.EqualValues(t, 1, h.count(t, "customers"))
}

func TestCustomerPatch(t *testing.T) {
	h := newHarness(t, services.Options{}, nil)
	ctx := context.Background()
	a := testdb.Customer(t, h.db, "Anong")
	b := testdb.Customer(t, h.db, "Boon")

	got, err := h.customers.Patch(ctx, a.ID, &services.PatchCustomerInput{KYCStatus: f("passed"), Address: f("Bangkok")})
	require.NoError(t, err)
	assert.Equal(t, "PASSED", got.KYCStatus)
	assert.Equal(t, "Bangkok", got.Address)

	_, err = h.customers.Patch(ctx, a.ID, &services.PatchCustomerInput{NationalID: f(b.NationalID)})
	assert.ErrorIs(t, err, domain.ErrDuplicateNationalID)

	_, err = h.customers.Patch(ctx, a.ID, &services.PatchCustomerInput{Phone: f(b.Phone)})
	assert.ErrorIs(t, err, domain.ErrDuplicatePhone)

	_, err = h.customers.Patch(ctx, a.ID, &services.PatchCustomerInput{FirstName: f("  ")})
	assert.ErrorIs(t, err, domain.ErrMissingFields)

	_, err = h.customers.Patch(ctx, b.ID+10, &services.PatchCustomerInput{Address: f("x")})
	assert.ErrorIs(t, err, domain.ErrCustomerNotFound)
}

func TestCustomerDelete_CascadesTicketsAndPayments(t *testing.T) {
	h := newHarness(t, services.Options{}, nil)
	fx := seed(t, h)
	other := testdb.Customer(t, h.db, "Boon")
	const k = 3
	for i := 0; i < k; i++ {
		tk := testdb.Ticket(t, h.db, fx.customerID, fx.employeeID, fx.itemID, 1000, testdb.Date(2025, 1, 1))
		testdb.Payment(t, h.db, tk.ID, 100, testdb.Date(2025, 1, 2))
		testdb.Payment(t, h.db, tk.ID, 100, testdb.Date(2025, 1, 3))
	}
	kept := testdb.Ticket(t, h.db, other.ID, fx.employeeID, fx.itemID, 1000, testdb.Date(2025, 1, 1))
	testdb.Payment(t, h.db, kept.ID, 100, testdb.Date(2025, 1, 2))

	res, err := h.customers.Delete(context.Background(), fx.customerID)
	require.NoError(t, err)
	assert.EqualValues(t, k, res.DeletedTickets)
	assert.EqualValues(t, 2*k, res.DeletedPayments)
	assert.Zero(t, res.DeletedItems)
	assert.EqualValues(t, 1, h.count(t, "customers"))
	assert.EqualValues(t, 1, h.count(t, "pawn_tickets"))
	assert.EqualValues(t, 1, h.count(t, "payments"))
	assert.EqualValues(t, 1, h.count(t, "pawn_items"))

	_, err = h.customers.Delete(context.Background(), fx.customerID)
	assert.ErrorIs(t, err, domain.ErrCustomerNotFound)
}

func TestCustomerDelete_PurgesUnpledgedItems(t *testing.T) {
	h := newHarness(t, services.Options{PurgeItems: true}, nil)
	fx := seed(t, h)
	other := testdb.Customer(t, h.db, "Boon")
	shared := testdb.Item(t, h.db, "WATCH", 3000)

	testdb.Ticket(t, h.db, fx.customerID, fx.employeeID, fx.itemID, 1000, testdb.Date(2025, 1, 1))
	testdb.Ticket(t, h.db, fx.customerID, fx.employeeID, shared.ID, 1000, testdb.Date(2025, 1, 1))
	testdb.Ticket(t, h.db, other.ID, fx.employeeID, shared.ID, 1000, testdb.Date(2025, 1, 1))
	_, err := h.dispositions.Create(context.Background(), &services.DispositionInput{
		ItemID: ids(fx.itemID), SaleDate: f("2025-05-01"), SalePrice: f("100"), SaleMethod: "SCRAP",
	})
	require.NoError(t, err)

	res, err := h.customers.Delete(context.Background(), fx.customerID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, res.DeletedTickets)
	assert.EqualValues(t, 1, res.DeletedItems)
	assert.EqualValues(t, 1, h.count(t, "pawn_items"))
	assert.EqualValues(t, 0, h.count(t, "dispositions"))
}

func TestCustomerDeleteTickets(t *testing.T) {
	h := newHarness(t, services.Options{}, nil)
	fx := seed(t, h)
	ctx := context.Background()

	res, err := h.customers.DeleteTickets(ctx, fx.customerID)
	require.NoError(t, err)
	assert.Zero(t, res.DeletedTickets)

	tk := testdb.Ticket(t, h.db, fx.customerID, fx.employeeID, fx.itemID, 1000, testdb.Date(2025, 1, 1))
	testdb.Payment(t, h.db, tk.ID, 100, testdb.Date(2025, 1, 2))
	testdb.Ticket(t, h.db, fx.customerID, fx.employeeID, fx.itemID, 1000, testdb.Date(2025, 1, 1))

	res, err = h.customers.DeleteTickets(ctx, fx.customerID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, res.DeletedTickets)
	assert.EqualValues(t, 1, res.DeletedPayments)
	assert.EqualValues(t, 1, h.count(t, "customers"))

	_, err = h.customers.DeleteTickets(ctx, fx.customerID+50)
	assert.ErrorIs(t, err, domain.ErrCustomerNotFound)
}

// ============================================================
// Employees and dispositions
// ============================================================

func TestEmployeeLifecycle(t *testing.T) {
	h := newHarness(t, services.Options{}, nil)
	ctx := context.Background()

	e, err := h.employees.Create(ctx, &services.EmployeeInput{FirstName: "Somchai", LastName: "Dee", Position: "manager"})
	require.NoError(t, err)
	assert.Equal(t, "MANAGER", e.Position)

	_, err = h.employees.Create(ctx, &services.EmployeeInput{FirstName: "X", LastName: "Y", Position: "CEO"})
	assert.ErrorIs(t, err, domain.ErrInvalidPosition)

	e, err = h.employees.Patch(ctx, e.ID, &services.PatchEmployeeInput{Phone: f("0812345678")})
	require.NoError(t, err)
	assert.Equal(t, "+66812345678", e.Phone)

	e, err = h.employees.Update(ctx, e.ID, &services.EmployeeInput{FirstName: "Somchai", LastName: "Jaidee"})
	require.NoError(t, err)
	assert.Equal(t, "STAFF", e.Position)
	assert.Empty(t, e.Phone)

	cust := testdb.Customer(t, h.db, "Anong")
	item := testdb.Item(t, h.db, "GOLD", 100)
	testdb.Ticket(t, h.db, cust.ID, e.ID, item.ID, 50, testdb.Date(2025, 1, 1))
	assert.ErrorIs(t, h.employees.Delete(ctx, e.ID), domain.ErrEmployeeInUse)

	idle := testdb.Employee(t, h.db, "Malee")
	require.NoError(t, h.employees.Delete(ctx, idle.ID))
	assert.ErrorIs(t, h.employees.Delete(ctx, idle.ID), domain.ErrEmployeeNotFound)
}

func TestDispositionLifecycle(t *testing.T) {
	h := newHarness(t, services.Options{}, nil)
	ctx := context.Background()
	item := testdb.Item(t, h.db, "GOLD", 2000)

	d, err := h.dispositions.Create(ctx, &services.DispositionInput{
		ItemID: ids(item.ID), SaleDate: f("2025-04-01"), SalePrice: f("1500.00"), SaleMethod: "auction", Buyer: "Shop A",
	})
	require.NoError(t, err)

	list, err := h.dispositions.List(ctx, 0, 50)
	require.NoError(t, err)
	require.Len(t, list, 1)
	body, err := json.Marshal(list[0].ToResponse())
	require.NoError(t, err)
	assert.Contains(t, string(body), `"salePrice":1500`)

	_, err = h.dispositions.Create(ctx, &services.DispositionInput{
		ItemID: f("999"), SaleDate: f("2025-04-01"), SalePrice: f("1"), SaleMethod: "AUCTION",
	})
	assert.ErrorIs(t, err, domain.ErrItemNotFound)

	_, err = h.dispositions.Create(ctx, &services.DispositionInput{
		ItemID: ids(item.ID), SaleDate: f("2025-04-01"), SalePrice: f("1"), SaleMethod: "barter",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidSaleMethod)

	updated, err := h.dispositions.Update(ctx, d.ID, &services.DispositionInput{
		ItemID: ids(item.ID), SaleDate: f("2025-04-02"), SalePrice: f("1600"), SaleMethod: "ONLINE",
	})
	require.NoError(t, err)
	assert.Equal(t, "ONLINE", updated.SaleMethod)
	assert.Empty(t, updated.Buyer)

	_, err = h.dispositions.Update(ctx, d.ID+9, &services.DispositionInput{
		ItemID: ids(item.ID), SaleDate: f("2025-04-02"), SalePrice: f("1600"), SaleMethod: "ONLINE",
	})
	assert.ErrorIs(t, err, domain.ErrDispositionNotFound)

	require.NoError(t, h.dispositions.Delete(ctx, d.ID))
	assert.ErrorIs(t, h.dispositions.Delete(ctx, d.ID), domain.ErrDispositionNotFound)
}

// ============================================================
// Statistics, export and expiry
// ============================================================

type memoryCache struct {
	data map[string][]byte
	sets int
}

func (c *memoryCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *memoryCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = raw
	c.sets++
	return nil
}

func TestStatistics(t *testing.T) {
	cache := &memoryCache{data: map[string][]byte{}}
	h := newHarness(t, services.Options{StatsCacheTTL: time.Minute}, cache)
	fx := seed(t, h)
	tk := testdb.Ticket(t, h.db, fx.customerID, fx.employeeID, fx.itemID, 8000, testdb.Date(2025, 1, 1))
	testdb.Payment(t, h.db, tk.ID, 2000, testdb.Date(2025, 1, 2))

	stats, err := h.stats.GetStatistics(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.TotalCustomers)
	assert.EqualValues(t, 1, stats.TotalTickets)
	assert.EqualValues(t, 1, stats.TicketsByStatus["ACTIVE"])
	assert.Contains(t, stats.TicketsByStatus, "EXPIRED")
	assert.EqualValues(t, 0, stats.TicketsByStatus["EXPIRED"])
	assert.EqualValues(t, 1, stats.ItemsByStatus["IN_STORAGE"])
	assert.Equal(t, 8000.0, stats.OutstandingPrincipal)
	assert.Equal(t, 2000.0, stats.TotalPayments)
	assert.Equal(t, 1, cache.sets)

	testdb.Customer(t, h.db, "Boon")
	cached, err := h.stats.GetStatistics(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, cached.TotalCustomers)
	assert.Equal(t, 1, cache.sets)
}

func TestTopCustomers(t *testing.T) {
	h := newHarness(t, services.Options{}, nil)
	fx := seed(t, h)
	big := testdb.Customer(t, h.db, "Boon")
	testdb.Ticket(t, h.db, fx.customerID, fx.employeeID, fx.itemID, 100, testdb.Date(2025, 1, 1))
	testdb.Ticket(t, h.db, big.ID, fx.employeeID, fx.itemID, 900, testdb.Date(2025, 1, 1))

	top, err := h.stats.TopCustomers(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, big.ID, top[0].CustomerID)
	assert.Equal(t, 900.0, top[0].TotalLoan)
}

func TestExportTickets(t *testing.T) {
	h := newHarness(t, services.Options{}, nil)
	fx := seed(t, h)
	tk := testdb.Ticket(t, h.db, fx.customerID, fx.employeeID, fx.itemID, 8000, testdb.Date(2025, 1, 1))
	testdb.Payment(t, h.db, tk.ID, 2000, testdb.Date(2025, 1, 2))

	var buf bytes.Buffer
	require.NoError(t, h.reports.ExportTickets(context.Background(), &buf))

	wb, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer wb.Close()
	rows, err := wb.GetRows("Tickets")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Ticket ID", rows[0][0])
	assert.Equal(t, "Anong Test", rows[1][1])
	assert.Equal(t, "2025-01-01", rows[1][5])
	assert.Equal(t, "ACTIVE", rows[1][7])
	assert.Equal(t, "2000", rows[1][8])
}

func TestExpiryRun(t *testing.T) {
	h := newHarness(t, services.Options{}, nil)
	fx := seed(t, h)
	testdb.Ticket(t, h.db, fx.customerID, fx.employeeID, fx.itemID, 100, testdb.Date(2020, 1, 1))
	testdb.Ticket(t, h.db, fx.customerID, fx.employeeID, fx.itemID, 100, time.Now().UTC().AddDate(0, 1, 0))

	n, err := h.expiry.Run(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = h.expiry.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCronService(t *testing.T) {
	h := newHarness(t, services.Options{}, nil)
	c := services.NewCronService(logger.Nop())

	require.NoError(t, c.ScheduleExpiry("", h.expiry))
	assert.Zero(t, c.Entries())

	// Nothing scheduled: the scheduler stays idle and Stop returns at once
	assert.False(t, c.Start())
	c.Stop()

	assert.Error(t, c.ScheduleExpiry("not a spec", h.expiry))
	require.NoError(t, c.ScheduleExpiry("0 30 0 * * *", h.expiry))
	assert.Equal(t, 1, c.Entries())

	require.True(t, c.Start())
	assert.True(t, c.Start())
	c.Stop()
}
